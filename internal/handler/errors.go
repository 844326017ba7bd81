package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/quizbank-backend/internal/ai"
	"github.com/stemsi/quizbank-backend/internal/identity"
	"github.com/stemsi/quizbank-backend/internal/response"
	"github.com/stemsi/quizbank-backend/internal/service"
)

// failFromError maps a service error to its HTTP status and envelope.
// Unclassified errors are attached to the context for the access log and reported as 500.
func failFromError(c *gin.Context, err error) {
	var (
		svcErr      *service.Error
		providerErr *identity.ProviderError
		upstreamErr *ai.UpstreamError
	)

	switch {
	case errors.As(err, &svcErr) && errors.Is(err, service.ErrInvalidInput):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, svcErr.Message, nil)
	case errors.As(err, &svcErr) && errors.Is(err, service.ErrNotFound):
		response.FailWithMessage(c, http.StatusNotFound, response.ErrNotFound, svcErr.Message, nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.As(err, &providerErr):
		response.FailWithDetails(c, http.StatusBadRequest, response.ErrProviderRejected, providerErr.Message,
			map[string]string{"code": providerErr.Code})
	case errors.As(err, &upstreamErr):
		_ = c.Error(err)
		status := upstreamErr.Status
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		var fields map[string]string
		if len(upstreamErr.Details) > 0 {
			fields = map[string]string{"details": string(upstreamErr.Details)}
		}
		response.FailWithDetails(c, status, response.ErrUpstream, response.GetMessage(response.ErrUpstream), fields)
	case errors.Is(err, service.ErrAssignmentMissing):
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrAssignmentMissing)
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
