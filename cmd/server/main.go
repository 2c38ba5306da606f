package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features/comment"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features/like"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features/subscription"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features/tweet"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features/video"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateCore(); err != nil {
		slog.Error("core migration failed", "error", err)
		os.Exit(1)
	}

	// Feature plugins; comments and tweets before likes, which reference them.
	plugins := []features.Plugin{
		video.New(),
		tweet.New(),
		comment.New(),
		like.New(),
		subscription.New(),
	}
	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(models); err != nil {
				slog.Error("feature migration failed", "feature", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("feature migrated", "feature", p.ID(), "models", len(models))
		}
	}

	// ERROR+ records are also batched into system_logs.
	dbLogHandler := logging.NewDBHandler(logging.GormSink{DB: database.DB}, slog.LevelError, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, dbLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Media host
	if !cfg.MediaStorageEnabled() {
		slog.Warn("S3 credentials not configured; uploads will fail", "endpoint", cfg.S3Endpoint)
	}
	s3Client, err := storage.NewS3Client(context.Background(), cfg)
	if err != nil {
		slog.Error("s3 client init failed", "error", err)
		os.Exit(1)
	}
	media := storage.NewS3MediaStore(s3Client, cfg)

	// Rate limiter storage: redis when configured, in-memory otherwise.
	var limiterStorage fiber.Storage
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		limiterStorage = storage.NewRedisStorage(redisClient, "videotube:limiter:")
		defer limiterStorage.Close()
		slog.Info("rate limiter using redis", "addr", cfg.RedisAddr)
	}

	// Services
	userRepo := repository.NewUserRepository(database.DB)
	channelRepo := repository.NewChannelRepository(database.DB)
	tokenService := services.NewTokenService(userRepo, cfg)
	authService := services.NewAuthService(userRepo, tokenService)
	userService := services.NewUserService(userRepo, authService, media, channelRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, userService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	healthHandler := handlers.NewHealthHandler(database.Ping)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    (cfg.MediaMaxUploadMB + 1) << 20,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return ulid.Make().String() },
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())
	app.Use(metrics.Middleware())

	// Routes
	routes.Setup(
		app,
		middleware.Guard(tokenService, userRepo),
		limiterStorage,
		authHandler,
		userHandler,
		healthHandler,
		plugins,
		features.Deps{DB: database.DB, Media: media},
	)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"request_id", handlers.RequestID(c),
			"route", c.Path(),
			"method", c.Method(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
