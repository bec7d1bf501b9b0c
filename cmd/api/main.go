package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/park-booking/internal/api/http"
	"github.com/spec-kit/park-booking/internal/api/http/handlers"
	"github.com/spec-kit/park-booking/internal/auth"
	"github.com/spec-kit/park-booking/internal/config"
	"github.com/spec-kit/park-booking/internal/events"
	"github.com/spec-kit/park-booking/internal/observability"
	"github.com/spec-kit/park-booking/internal/persistence"
	"github.com/spec-kit/park-booking/internal/repository"
	"github.com/spec-kit/park-booking/internal/service"
	"github.com/spec-kit/park-booking/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := persistence.OpenBackend(ctx, *cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer backend.Close()

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	users, err := repository.NewUserStore(ctx, backend.Blobs, cfg.Storage.UsersKey, hasher, logger)
	if err != nil {
		logger.Fatal("failed to load users", zap.Error(err))
	}
	catalog, err := repository.NewTicketCatalog(ctx, backend.Blobs, cfg.Storage.TicketsKey, logger)
	if err != nil {
		logger.Fatal("failed to load ticket catalog", zap.Error(err))
	}

	admin := service.AdminCredentials{Username: cfg.Auth.AdminUsername}
	if cfg.Auth.AdminPassword != "" {
		admin.PasswordHash, err = hasher.Hash(cfg.Auth.AdminPassword)
		if err != nil {
			logger.Fatal("failed to hash admin password", zap.Error(err))
		}
	} else {
		logger.Warn("ADMIN_PASSWORD not set, admin console disabled")
	}

	notifier := worker.NewNotificationWorker(events.NewInMemoryDispatcher(), logger, cfg.Notification.QueueSize)
	worker.StartNotificationWorker(ctx, notifier, service.NewNotificationService(logger, cfg.Notification))

	bookings := service.NewBookingService(service.BookingDependencies{
		Users:      users,
		Catalog:    catalog,
		Hasher:     hasher,
		Admin:      admin,
		Dispatcher: notifier,
	})
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(bookings, tokens)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), users)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.App.RequestTimeout(),
		WriteTimeout: cfg.App.RequestTimeout(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, backend.Blobs),
		Users:          handlers.NewUsersHandler(authService, bookings),
		Tickets:        handlers.NewTicketsHandler(bookings),
		Admin:          handlers.NewAdminHandler(authService, bookings, metrics),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	notifier.Stop()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
