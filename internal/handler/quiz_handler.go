package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/quizbank-backend/internal/model"
	"github.com/stemsi/quizbank-backend/internal/response"
	"github.com/stemsi/quizbank-backend/internal/service"
	"github.com/stemsi/quizbank-backend/internal/validator"
)

// QuizHandler serves AI generated question sets.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Generate godoc
// POST /api/quiz/generate
func (h *QuizHandler) Generate(c *gin.Context) {
	var req model.GenerateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.quizService.Generate(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}
