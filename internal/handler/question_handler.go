package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/quizbank-backend/internal/model"
	"github.com/stemsi/quizbank-backend/internal/response"
	"github.com/stemsi/quizbank-backend/internal/service"
	"github.com/stemsi/quizbank-backend/internal/validator"
)

// QuestionHandler handles the question catalog endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListQuestions godoc
// GET /api/question/getAllQuestions
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	questions, err := h.questionService.List(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// AddQuestions godoc
// POST /api/question/addQuestions
// Stores one or more questions in a single transaction.
func (h *QuestionHandler) AddQuestions(c *gin.Context) {
	var req model.AddQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	created, err := h.questionService.Create(c.Request.Context(), req.Questions)
	if err != nil {
		failFromError(c, err)
		return
	}

	ids := make([]string, len(created))
	for i, q := range created {
		ids[i] = q.ID
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Questions added successfully", gin.H{"ids": ids})
}
