package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizbank-backend/internal/response"
)

const healthCheckTimeout = 2 * time.Second

// CheckFunc probes one backing service.
type CheckFunc func(ctx context.Context) error

// HealthHandler reports process liveness and the reachability of backing services.
type HealthHandler struct {
	checks    map[string]CheckFunc
	startTime time.Time
	log       zerolog.Logger
}

// NewHealthHandler creates a HealthHandler running the given named checks.
func NewHealthHandler(checks map[string]CheckFunc, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		checks:    checks,
		startTime: time.Now(),
		log:       log.With().Str("component", "health_handler").Logger(),
	}
}

// Health godoc
// GET /health
// Responds 503 when any backing service is unreachable.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := "ok"
	services := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Warn().Err(err).Str("service", name).Msg("Health check failed")
			services[name] = "down"
			status = "degraded"
			continue
		}
		services[name] = "up"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	response.Success(c, code, gin.H{
		"status":   status,
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
		"services": services,
	})
}
