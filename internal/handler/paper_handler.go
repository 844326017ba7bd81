package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/quizbank-backend/internal/model"
	"github.com/stemsi/quizbank-backend/internal/response"
	"github.com/stemsi/quizbank-backend/internal/service"
	"github.com/stemsi/quizbank-backend/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PaperHandler handles question paper endpoints.
type PaperHandler struct {
	paperService  *service.PaperService
	resultService *service.ResultService
}

// NewPaperHandler creates a new PaperHandler.
func NewPaperHandler(paperService *service.PaperService, resultService *service.ResultService) *PaperHandler {
	return &PaperHandler{paperService: paperService, resultService: resultService}
}

// CreatePaper godoc
// POST /api/questionPaper/create
func (h *PaperHandler) CreatePaper(c *gin.Context) {
	var req model.CreatePaperRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	paper, err := h.paperService.Create(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Question paper created successfully", gin.H{"paperId": paper.ID})
}

// ListPapers godoc
// GET /api/questionPaper/getAll
func (h *PaperHandler) ListPapers(c *gin.Context) {
	papers, err := h.paperService.List(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"papers": papers})
}

// GetPaper godoc
// GET /api/questionPaper/getQuestion/:id
func (h *PaperHandler) GetPaper(c *gin.Context) {
	paper, err := h.paperService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, paper)
}

// EditPaper godoc
// PUT /api/questionPaper/edit
func (h *PaperHandler) EditPaper(c *gin.Context) {
	var req model.EditPaperRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.paperService.Edit(c.Request.Context(), req); err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Question paper updated successfully", nil)
}

// DeletePaper godoc
// DELETE /api/questionPaper/delete
// Deletes the paper and its question copies.
func (h *PaperHandler) DeletePaper(c *gin.Context) {
	var req model.PaperIDRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.paperService.Delete(c.Request.Context(), req.PaperID); err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Question paper deleted successfully", nil)
}

// AddQuestions godoc
// POST /api/questionPaper/addQuestion
// Copies catalog questions into the paper. Responds 400 when nothing was added.
func (h *PaperHandler) AddQuestions(c *gin.Context) {
	var req model.AddQuestionsToPaperRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	out, err := h.paperService.AddQuestions(c.Request.Context(), req.PaperID, req.QuestionIDs)
	if err != nil {
		failFromError(c, err)
		return
	}

	if out.Added == 0 {
		msg := "Unable to add questions to paper"
		if out.WasFull {
			msg = "Maximum questions added to paper"
		}
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, msg, out)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, fmt.Sprintf("%d question(s) added to paper", out.Added), out)
}

// EditQuestion godoc
// PUT /api/questionPaper/editQuestion
func (h *PaperHandler) EditQuestion(c *gin.Context) {
	var req model.EditPaperQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.paperService.EditQuestion(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Question updated successfully", question)
}

// DeleteQuestion godoc
// DELETE /api/questionPaper/deleteQuestion
func (h *PaperHandler) DeleteQuestion(c *gin.Context) {
	var req model.PaperQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.paperService.DeleteQuestion(c.Request.Context(), req.PaperID, req.QuestionID); err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Question removed from paper", nil)
}

// AssignPapers godoc
// POST /api/questionPaper/assignPapers
func (h *PaperHandler) AssignPapers(c *gin.Context) {
	var req model.AssignPapersRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	out, err := h.paperService.AssignPapers(c.Request.Context(), req.UserID, req.PaperIDs)
	if err != nil {
		failFromError(c, err)
		return
	}

	success := out.Added > 0
	msg := fmt.Sprintf("%d paper(s) assigned", out.Added)
	if !success {
		msg = "No papers were assigned"
	}
	response.SuccessWithMessage(c, http.StatusOK, msg, gin.H{
		"success":       success,
		"assignedCount": out.Added,
		"skipped":       out.Skipped,
	})
}

// ExportResults godoc
// GET /api/questionPaper/exportResults/:id
// Downloads the paper's results as an xlsx workbook.
func (h *PaperHandler) ExportResults(c *gin.Context) {
	data, name, err := h.resultService.ExportPaperResults(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, data)
}
