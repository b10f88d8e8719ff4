package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/postlens/post-analyzer-api/internal/config"
	"github.com/postlens/post-analyzer-api/internal/crypto"
	"github.com/postlens/post-analyzer-api/internal/gemini"
	"github.com/postlens/post-analyzer-api/internal/handler"
	"github.com/postlens/post-analyzer-api/internal/handler/middleware"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"github.com/postlens/post-analyzer-api/internal/service"
	"github.com/postlens/post-analyzer-api/internal/storage/postgres"
	"github.com/postlens/post-analyzer-api/internal/storage/redis"
	"github.com/postlens/post-analyzer-api/internal/worker"
	"github.com/postlens/post-analyzer-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "./configs/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.NewZapLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	sugarLogger := appLogger.Sugar()
	sugarLogger.Info("Starting post analyzer API...")

	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := postgres.NewPgxPool(appCtx, &cfg.Database, appLogger)
	if err != nil {
		sugarLogger.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbPool.Close()

	if err := postgres.InitSchema(appCtx, dbPool, appLogger); err != nil {
		sugarLogger.Fatalf("Failed to initialize database schema: %v", err)
	}

	redisClient, err := redis.NewRedisClient(appCtx, &cfg.Redis, appLogger)
	if err != nil {
		sugarLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	envelope, err := crypto.NewEnvelope(cfg.Crypto.Secret)
	if err != nil {
		sugarLogger.Fatalf("Failed to initialize credential envelope: %v", err)
	}

	accountRepo := postgres.NewAccountRepository(dbPool, appLogger)
	apiKeyRepo := postgres.NewAPIKeyRepository(dbPool, appLogger)
	usageRepo := postgres.NewUsageRepository(dbPool, appLogger)
	credentialRepo := postgres.NewCredentialRepository(dbPool, appLogger)
	analysisRepo := postgres.NewAnalysisRepository(dbPool, appLogger)

	geminiClient := gemini.NewClient(&cfg.Gemini, appLogger)

	authService, err := service.NewAuthService(appCtx, &cfg.OIDC, appLogger)
	if err != nil {
		sugarLogger.Fatalf("Failed to initialize auth service: %v", err)
	}
	apiKeyService := service.NewAPIKeyService(apiKeyRepo, appLogger)
	credentialService := service.NewCredentialService(credentialRepo, envelope, geminiClient, appLogger)
	analysisService := service.NewAnalysisService(analysisRepo, usageRepo, credentialService, geminiClient, asynqClient, appLogger)
	dashboardService := service.NewDashboardService(apiKeyRepo, usageRepo, analysisRepo, appLogger)

	healthHandler := handler.NewHealthHandler(dbPool, redisClient, appLogger)
	apiKeyHandler := handler.NewAPIKeyHandler(apiKeyService, appLogger)
	credentialHandler := handler.NewCredentialHandler(credentialService, appLogger)
	analyzeHandler := handler.NewAnalyzeHandler(analysisService, appLogger)
	historyHandler := handler.NewHistoryHandler(analysisRepo, appLogger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, appLogger)
	publicAPIHandler := handler.NewPublicAPIHandler(analysisService, appLogger)

	authMiddleware := middleware.AuthMiddleware(authService, accountRepo, appLogger)
	apiKeyAuthMiddleware := middleware.APIKeyAuthMiddleware(apiKeyRepo, usageRepo, &cfg.RateLimit, appLogger)
	errorMiddleware := middleware.ErrorHandlerMiddleware(appLogger)

	router := gin.New()
	router.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logMsg := "Panic recovered"
		if err, ok := recovered.(string); ok {
			logMsg = fmt.Sprintf("%s: %s", logMsg, err)
		} else if err, ok := recovered.(error); ok {
			logMsg = fmt.Sprintf("%s: %v", logMsg, err)
		}
		appLogger.Error(logMsg, zap.Stack("stack"))

		_ = c.Error(ierr.ErrInternalServer)
		c.Abort()
	}))

	corsConfig := cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))
	router.Use(errorMiddleware)

	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(authMiddleware)
	{
		keyRoutes := api.Group("/keys")
		{
			keyRoutes.POST("", apiKeyHandler.Create)
			keyRoutes.GET("", apiKeyHandler.List)
			keyRoutes.DELETE("/:id", apiKeyHandler.Revoke)
		}
		credentialRoutes := api.Group("/credentials")
		{
			credentialRoutes.GET("", credentialHandler.Status)
			credentialRoutes.POST("", credentialHandler.Save)
			credentialRoutes.DELETE("", credentialHandler.Delete)
		}
		api.POST("/analyze", analyzeHandler.Analyze)
		api.GET("/history", historyHandler.List)
		api.GET("/history/:id", historyHandler.GetByID)
		api.GET("/dashboard/summary", dashboardHandler.GetSummary)
	}

	// External, key-authenticated surface.
	router.POST("/api/v1/analyze", apiKeyAuthMiddleware, publicAPIHandler.Analyze)

	g, groupCtx := errgroup.WithContext(appCtx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g.Go(func() error {
		sugarLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		sugarLogger.Info("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownPeriod)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown error: %w", err)
		}
		sugarLogger.Info("HTTP server shutdown complete.")
		return nil
	})

	g.Go(func() error {
		if err := worker.RunWorkers(groupCtx, cfg, usageRepo, appLogger); err != nil {
			return fmt.Errorf("asynq worker error: %w", err)
		}
		sugarLogger.Info("Asynq workers finished gracefully.")
		return nil
	})

	sugarLogger.Info("Application started. Waiting for interrupt signal or component error...")

	if waitErr := g.Wait(); waitErr != nil {
		if errors.Is(waitErr, context.Canceled) {
			sugarLogger.Info("Shutdown reason: context canceled (OS signal).")
		} else {
			sugarLogger.Errorf("Application shutdown finished with error: %v", waitErr)
		}
	}

	sugarLogger.Info("Application exiting now.")
}
