package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fairgrounds/registration-service/internal/api/http"
	"github.com/fairgrounds/registration-service/internal/api/http/handlers"
	"github.com/fairgrounds/registration-service/internal/auth"
	"github.com/fairgrounds/registration-service/internal/config"
	"github.com/fairgrounds/registration-service/internal/events"
	"github.com/fairgrounds/registration-service/internal/observability"
	"github.com/fairgrounds/registration-service/internal/persistence"
	"github.com/fairgrounds/registration-service/internal/repository"
	"github.com/fairgrounds/registration-service/internal/service"
	"github.com/fairgrounds/registration-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	registrationRepo := repository.NewRegistrationRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		RegistrationRepo: registrationRepo,
		Dispatcher:       dispatcher,
	})
	statsService := service.NewStatsService(registrationRepo, redis, cfg.Stats.CacheTTL(), logger)
	statsService.RegisterInvalidation(dispatcher)
	userService := service.NewUserService(cfg.Auth, userRepo, dispatcher)
	authService := service.NewAuthService(cfg.Auth, userRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	if err := userService.EnsureAdmin(ctx, cfg.Bootstrap, logger); err != nil {
		logger.Fatal("failed to bootstrap admin account", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	principalMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:          handlers.NewAuthHandler(authService),
		Registrations: handlers.NewRegistrationsHandler(registrationService),
		Stats:         handlers.NewStatsHandler(statsService),
		Users:         handlers.NewUsersHandler(userService),
		Principal:     principalMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
