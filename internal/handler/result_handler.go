package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/quizbank-backend/internal/model"
	"github.com/stemsi/quizbank-backend/internal/response"
	"github.com/stemsi/quizbank-backend/internal/service"
	"github.com/stemsi/quizbank-backend/internal/validator"
)

// ResultHandler handles submission and result lookup endpoints.
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// Submit godoc
// POST /api/result/submit
// Grades the responses and stores the result. Refused submissions answer 200 with success=false.
func (h *ResultHandler) Submit(c *gin.Context) {
	var req model.SubmitResultRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	out, err := h.resultService.Submit(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, out.Message, out)
}

// GetLatest godoc
// GET /api/result/:id/:paperId
// :id is the user id.
func (h *ResultHandler) GetLatest(c *gin.Context) {
	res, err := h.resultService.GetLatest(c.Request.Context(), c.Param("id"), c.Param("paperId"))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// GetDetail godoc
// GET /api/result/:id
// :id is the result id.
func (h *ResultHandler) GetDetail(c *gin.Context) {
	detail, err := h.resultService.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}
