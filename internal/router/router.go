package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizbank-backend/internal/config"
	"github.com/stemsi/quizbank-backend/internal/handler"
	"github.com/stemsi/quizbank-backend/internal/middleware"
	"github.com/stemsi/quizbank-backend/internal/response"
	"github.com/stemsi/quizbank-backend/internal/service"
)

// exportPrefix serves binary workbooks, which are never brotli-compressed.
const exportPrefix = "/api/questionPaper/exportResults"

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Account  *handler.AccountHandler
	Question *handler.QuestionHandler
	Paper    *handler.PaperHandler
	Quiz     *handler.QuizHandler
	Result   *handler.ResultHandler
	Health   *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// limiter may be nil to disable rate limiting on register and login.
func SetupRouter(
	cfg *config.Config,
	log zerolog.Logger,
	authService *service.AuthService,
	limiter *middleware.RateLimiter,
	handlers *Handlers,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID, "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the access log and every envelope carry it.
	router.Use(
		response.RequestIDMiddleware(),
		middleware.AccessLog(log),
		middleware.Recovery(log),
		middleware.Brotli(exportPrefix),
	)

	router.GET("/health", handlers.Health.Health)

	api := router.Group("/api")

	// authenticated and adminOnly are empty chains unless AUTH_REQUIRED is set.
	var authenticated, adminOnly []gin.HandlerFunc
	if cfg.AuthRequired {
		authenticated = []gin.HandlerFunc{
			middleware.RequireJWT(authService),
			middleware.CheckSession(authService),
		}
		adminOnly = append(append([]gin.HandlerFunc{}, authenticated...), middleware.RequireAdmin())
	}
	with := func(chain []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, chain...), h)
	}

	// ─── 1. Users ──────────────────────────────────────────────────────
	users := api.Group("/users")
	{
		var limited []gin.HandlerFunc
		if limiter != nil {
			limited = []gin.HandlerFunc{limiter.Middleware()}
		}
		users.POST("/register", with(limited, handlers.Account.Register)...)
		users.POST("/login", with(limited, handlers.Account.Login)...)

		users.GET("/getAllUsers", with(adminOnly, handlers.Account.ListUsers)...)
		users.GET("/getUser/:id", with(authenticated, handlers.Account.GetUser)...)
		users.PUT("/editUser/:uid", with(authenticated, handlers.Account.EditUser)...)
		users.DELETE("/deleteUser/:uid", with(adminOnly, handlers.Account.DeleteUser)...)
	}

	// ─── 2. Question catalog ───────────────────────────────────────────
	question := api.Group("/question")
	{
		question.GET("/getAllQuestions", with(authenticated, handlers.Question.ListQuestions)...)
		question.POST("/addQuestions", with(adminOnly, handlers.Question.AddQuestions)...)
	}

	// ─── 3. Question papers ────────────────────────────────────────────
	paper := api.Group("/questionPaper")
	{
		paper.POST("/create", with(adminOnly, handlers.Paper.CreatePaper)...)
		paper.GET("/getAll", with(authenticated, handlers.Paper.ListPapers)...)
		paper.GET("/getQuestion/:id", with(authenticated, handlers.Paper.GetPaper)...)
		paper.PUT("/edit", with(adminOnly, handlers.Paper.EditPaper)...)
		paper.DELETE("/delete", with(adminOnly, handlers.Paper.DeletePaper)...)
		paper.POST("/addQuestion", with(adminOnly, handlers.Paper.AddQuestions)...)
		paper.PUT("/editQuestion", with(adminOnly, handlers.Paper.EditQuestion)...)
		paper.DELETE("/deleteQuestion", with(adminOnly, handlers.Paper.DeleteQuestion)...)
		paper.POST("/assignPapers", with(adminOnly, handlers.Paper.AssignPapers)...)
		paper.GET("/exportResults/:id", with(adminOnly, handlers.Paper.ExportResults)...)
	}

	// ─── 4. Quiz generation ────────────────────────────────────────────
	quiz := api.Group("/quiz")
	{
		quiz.POST("/generate", with(adminOnly, handlers.Quiz.Generate)...)
	}

	// ─── 5. Results ────────────────────────────────────────────────────
	result := api.Group("/result")
	result.Use(middleware.NoStore())
	{
		result.POST("/submit", with(authenticated, handlers.Result.Submit)...)
		result.GET("/:id/:paperId", with(authenticated, handlers.Result.GetLatest)...)
		result.GET("/:id", with(authenticated, handlers.Result.GetDetail)...)
	}

	return router
}
