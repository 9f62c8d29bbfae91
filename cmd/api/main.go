// @title Quizzy API
// @version 1.0
// @description Generates multiple-choice quizzes from documents and text, and records quiz attempts.
// @host localhost:5000
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quizzy/cmd/api/docs"
	"quizzy/internal/adapter"
	"quizzy/internal/adapter/extractor"
	"quizzy/internal/adapter/llm"
	"quizzy/internal/adapter/quizgen"
	"quizzy/internal/cache"
	"quizzy/internal/config"
	"quizzy/internal/database"
	"quizzy/internal/domain"
	"quizzy/internal/handler"
	"quizzy/internal/logger"
	"quizzy/internal/middleware"
	"quizzy/internal/repository"
	"quizzy/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Quiz generation model
	model, err := llm.NewModel(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	generator, err := quizgen.NewLLMQuizGenerator(model, cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create quiz generator", zap.Error(err))
	}
	appLogger.Info("Quiz generator initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	quizRepository := repository.NewQuizDatabaseAdapter(db)
	userRepository := repository.NewSQLXUserRepository(db)
	attemptRepository := repository.NewSQLXUserQuizAttemptRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Redis is optional; without it every read goes to the database.
	var cacheAdapter domain.Cache
	redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
	switch {
	case errors.Is(err, cache.ErrDisabled):
		appLogger.Info("Redis not configured, quiz cache disabled")
	case err != nil:
		appLogger.Warn("Redis unavailable, quiz cache disabled", zap.Error(err))
	default:
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	}

	authService, err := service.NewAuthService(userRepository, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	quizCache := service.NewQuizCache(cacheAdapter, cfg.Redis.QuizTTL)
	persister := service.NewQuizPersister(quizRepository, txManager)
	quizService := service.NewQuizService(generator, persister, quizRepository, quizCache)
	attemptService := service.NewAttemptService(quizRepository, attemptRepository)
	normalizer := service.NewContentNormalizer(extractor.NewRegistry())

	app := fiber.New(fiber.Config{
		AppName:      "Quizzy",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.SetupRoutes(app, handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Quiz:        handler.NewQuizHandler(quizService, attemptService, normalizer),
		Health:      handler.NewHealthHandler(db, cacheAdapter),
		AuthService: authService,
	})

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
