package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/quizbank-backend/internal/ai"
	"github.com/stemsi/quizbank-backend/internal/config"
	"github.com/stemsi/quizbank-backend/internal/database"
	"github.com/stemsi/quizbank-backend/internal/grading"
	"github.com/stemsi/quizbank-backend/internal/handler"
	"github.com/stemsi/quizbank-backend/internal/identity"
	"github.com/stemsi/quizbank-backend/internal/logger"
	"github.com/stemsi/quizbank-backend/internal/middleware"
	"github.com/stemsi/quizbank-backend/internal/repository"
	"github.com/stemsi/quizbank-backend/internal/router"
	"github.com/stemsi/quizbank-backend/internal/service"
	"github.com/stemsi/quizbank-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Bool("auth_required", cfg.AuthRequired).
		Msg("Starting Quizbank Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL and Redis ───────────────────────────────
	clients, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to backing stores")
	}
	defer clients.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	accountRepo := repository.NewAccountRepository(clients.Pool)
	assignmentRepo := repository.NewAssignmentRepository(clients.Pool)
	questionRepo := repository.NewQuestionRepository(clients.Pool)
	paperRepo := repository.NewPaperRepository(clients.Pool)
	resultRepo := repository.NewResultRepository(clients.Pool)

	// ─── Initialize External Gateways ──────────────────────────────────
	idp := identity.NewCasdoorGateway(cfg.Casdoor, log)
	gemini := ai.NewClient(ai.Config{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		BaseURL:         cfg.Gemini.BaseURL,
		GenerateTimeout: cfg.Gemini.GenerateTimeout,
		JudgeTimeout:    cfg.Gemini.JudgeTimeout,
	}, log)
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is empty, quiz generation and one-line grading will fail")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, clients.Redis)
	accountService := service.NewAccountService(accountRepo, assignmentRepo, idp, authService, log)
	questionService := service.NewQuestionService(questionRepo, log)
	paperService := service.NewPaperService(paperRepo, questionRepo, accountRepo, assignmentRepo, log)
	quizService := service.NewQuizService(gemini)
	guard := service.NewRedisSubmissionGuard(clients.Redis, cfg.SubmitLockTTL, log)
	resultService := service.NewResultService(resultRepo, paperRepo, questionRepo, grading.NewGrader(gemini), guard, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Account:  handler.NewAccountHandler(accountService),
		Question: handler.NewQuestionHandler(questionService),
		Paper:    handler.NewPaperHandler(paperService, resultService),
		Quiz:     handler.NewQuizHandler(quizService),
		Result:   handler.NewResultHandler(resultService),
		Health: handler.NewHealthHandler(map[string]handler.CheckFunc{
			"postgres": clients.Pool.Ping,
			"redis":    func(ctx context.Context) error { return clients.Redis.Ping(ctx).Err() },
		}, log),
	}

	var limiter *middleware.RateLimiter
	if cfg.LoginRateLimit > 0 {
		limiter = middleware.NewRateLimiter(clients.Redis, "auth", cfg.LoginRateLimit, time.Minute, log)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(cfg, log, authService, limiter, handlers)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
