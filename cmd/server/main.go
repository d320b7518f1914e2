package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pushp314/prompttutor-backend/internal/badges"
	"github.com/pushp314/prompttutor-backend/internal/config"
	"github.com/pushp314/prompttutor-backend/internal/database"
	"github.com/pushp314/prompttutor-backend/internal/evaluator"
	"github.com/pushp314/prompttutor-backend/internal/graph"
	"github.com/pushp314/prompttutor-backend/internal/handlers"
	"github.com/pushp314/prompttutor-backend/internal/history"
	"github.com/pushp314/prompttutor-backend/internal/leaderboard"
	"github.com/pushp314/prompttutor-backend/internal/middleware"
	"github.com/pushp314/prompttutor-backend/internal/routes"
	"github.com/pushp314/prompttutor-backend/internal/services"
	"github.com/pushp314/prompttutor-backend/internal/store"
	"github.com/pushp314/prompttutor-backend/pkg/logger"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting PromptTutor Backend...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Connect Storage
	database.Connect(config.AppConfig.DatabasePath)
	database.InitRedis()

	kv, err := store.New(database.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate key-value store")
	}

	// 2. Build the engines. Each loads its persisted state on
	// construction, so a restart picks up exactly where it left off.
	hist := history.New(kv)
	engine := badges.NewEngine(kv)
	kg := graph.New()
	board := leaderboard.New()

	var reviewer evaluator.Reviewer
	if key := config.AppConfig.OpenAIAPIKey; key != "" {
		reviewer = evaluator.NewOpenAIReviewer(key, config.AppConfig.OpenAIModel, config.AppConfig.OpenAIBaseURL)
		logger.Info().Str("model", config.AppConfig.OpenAIModel).Msg("Using OpenAI reviewer")
	} else {
		reviewer = evaluator.NewSimulator(time.Now().UnixNano())
		logger.Info().Msg("No OPENAI_API_KEY set, using simulated reviewer")
	}

	svc := services.NewReviewService(kv, hist, engine, kg, board, reviewer)
	handlers.Init(svc)

	logger.Info().
		Int("history", hist.Len()).
		Int("graph_nodes", kg.NodeCount()).
		Msg("State restored")

	// 3. Setup Router
	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// 4. Register Routes
	api := r.Group("/api")
	{
		routes.RegisterReviewRoutes(api)
		routes.RegisterBadgeRoutes(api)
		routes.RegisterLeaderboardRoutes(api)
		routes.RegisterGraphRoutes(api)
		routes.RegisterDataRoutes(api)
	}

	// Health check with DB and Redis status
	r.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		redisStatus := "ok"

		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "error"
		}

		if database.Redis != nil {
			if _, err := database.Redis.Ping(context.Background()).Result(); err != nil {
				redisStatus = "error"
			}
		} else {
			redisStatus = "not configured"
		}

		status := "ok"
		if dbStatus != "ok" {
			status = "degraded"
		}

		c.JSON(200, gin.H{
			"status":  status,
			"message": "PromptTutor Backend is running 🚀",
			"checks": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		})
	})

	// 5. Start Server with graceful shutdown
	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("🛑 Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("✅ Server exited gracefully")
}
