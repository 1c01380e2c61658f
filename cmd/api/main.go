package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/campusnest/rentals/api/internal/assistant"
	"github.com/campusnest/rentals/api/internal/auth"
	"github.com/campusnest/rentals/api/internal/config"
	"github.com/campusnest/rentals/api/internal/database"
	"github.com/campusnest/rentals/api/internal/handler"
	"github.com/campusnest/rentals/api/internal/logging"
	middlewarepkg "github.com/campusnest/rentals/api/internal/middleware"
	"github.com/campusnest/rentals/api/internal/repository"
	"github.com/campusnest/rentals/api/internal/router"
	"github.com/campusnest/rentals/api/internal/service"
	"github.com/campusnest/rentals/api/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger, logCloser, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		FluentHost: cfg.Log.FluentHost,
		FluentPort: cfg.Log.FluentPort,
		FluentTag:  cfg.Log.FluentTag,
		Service:    "rentals-api",
	})
	if err != nil {
		slog.Error("failed to build logger", slog.Any("error", err))
		os.Exit(1)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("api stopped", slog.Any("error", err))
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL, database.PoolOptions{MaxConns: int32(cfg.DatabaseMaxConns)})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	var (
		broker      session.Broker
		redisClient *redis.Client
	)
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		redisBroker := session.NewRedisBroker(redisClient, logger)
		defer redisBroker.Close()
		broker = redisBroker
	} else {
		logger.Warn("REDIS_URL not set, session events stay within this instance")
		broker = session.NewMemoryBroker()
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	profilesRepo := repository.NewPGXProfilesRepository(pool)
	listingsRepo := repository.NewPGXListingsRepository(pool)
	reviewsRepo := repository.NewPGXReviewsRepository(pool)
	inquiriesRepo := repository.NewPGXInquiriesRepository(pool)

	authOpts := []service.AuthOption{
		service.WithPhoneRegion(cfg.DefaultPhoneRegion),
		service.WithAuthLogger(logger),
	}
	if cfg.GoogleClientID != "" {
		authOpts = append(authOpts, service.WithGoogleVerifier(auth.NewGoogleVerifier(cfg.GoogleClientID)))
	}
	authService := service.NewAuthService(usersRepo, profilesRepo, jwtManager, broker, authOpts...)
	listingsService := service.NewListingsService(listingsRepo, profilesRepo)
	reviewsService := service.NewReviewsService(reviewsRepo)
	profilesService := service.NewProfilesService(profilesRepo, broker, cfg.DefaultPhoneRegion, logger)
	inquiriesService := service.NewInquiriesService(inquiriesRepo, listingsRepo, cfg.DefaultPhoneRegion)

	housingAssistant := assistant.New(assistant.Config{MaxResults: cfg.AssistantMaxResults, Logger: logger})

	checks := map[string]handler.Pinger{"database": pool}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}

	handlers := router.Handlers{
		Health:    handler.NewHealthHandler(checks, logger),
		Auth:      handler.NewAuthHandler(authService, logger),
		Listings:  handler.NewListingsHandler(listingsService, logger),
		Reviews:   handler.NewReviewsHandler(reviewsService, logger),
		Inquiries: handler.NewInquiriesHandler(inquiriesService, logger),
		Profile:   handler.NewProfileHandler(profilesService, logger),
		Assistant: handler.NewAssistantHandler(housingAssistant, listingsRepo, listingsService, broker, cfg.AllowedOrigins, logger),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("api listening", slog.String("port", cfg.Port))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", slog.Any("error", err))
	}
	return nil
}
