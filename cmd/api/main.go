// @title Quiz Master API
// @version 1.0
// @description AI generated trivia quizzes, one session at a time.
// @host localhost:8090
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "quiz-master/cmd/api/docs"
	"quiz-master/internal/adapter"
	"quiz-master/internal/adapter/quizgen"
	"quiz-master/internal/cache"
	"quiz-master/internal/config"
	"quiz-master/internal/domain"
	"quiz-master/internal/handler"
	"quiz-master/internal/logger"
	"quiz-master/internal/middleware"
	"quiz-master/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session store: Redis when configured, process memory otherwise
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
	} else {
		appLogger.Warn("No Redis address configured, sessions are kept in memory")
		cacheAdapter = adapter.NewMemoryCacheAdapter()
	}
	sessionRepo := service.NewSessionRepository(cacheAdapter, cfg.Session.TTL)

	generator, err := quizgen.NewFromConfig(ctx, cfg.LLM, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create quiz generator", zap.Error(err), zap.String("provider", cfg.LLM.Provider))
	}
	appLogger.Info("Quiz generator initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	gameService := service.NewGameService(sessionRepo, generator,
		service.WithGenerationTimeout(cfg.LLM.Timeout))

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(gameService)
	healthHandler := handler.NewHealthHandler(cacheAdapter)
	validationMiddleware := middleware.NewValidationMiddleware()

	app := fiber.New(fiber.Config{
		AppName:      "quiz-master",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))

	app.Get("/health", healthHandler.Check)
	app.Get("/swagger/*", swagger.HandlerDefault)
	sessionHandler.RegisterRoutes(app.Group("/api"), validationMiddleware)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		appLogger.Info("Starting server", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		if err := gameService.Wait(shutdownCtx); err != nil {
			appLogger.Warn("Quiz generations still running at shutdown", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Server exited with error", zap.Error(err))
		return
	}
	appLogger.Info("Server exited properly")
}
