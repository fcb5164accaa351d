package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/employee-admin/internal/api/http"
	"github.com/spec-kit/employee-admin/internal/api/http/handlers"
	"github.com/spec-kit/employee-admin/internal/auth"
	"github.com/spec-kit/employee-admin/internal/client"
	"github.com/spec-kit/employee-admin/internal/config"
	"github.com/spec-kit/employee-admin/internal/events"
	"github.com/spec-kit/employee-admin/internal/messages"
	"github.com/spec-kit/employee-admin/internal/observability"
	"github.com/spec-kit/employee-admin/internal/persistence"
	"github.com/spec-kit/employee-admin/internal/service"
	"github.com/spec-kit/employee-admin/internal/worker"
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

	catalog, err := messages.New(cfg.UI.Lang)
	if err != nil {
		logger.Fatal("failed to load messages", zap.Error(err))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	backend := client.NewHTTPClient(cfg.Backend, logger, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := events.NewInMemoryDispatcher()
	notifications := worker.StartNotificationWorker(ctx, dispatcher,
		service.NewNotificationService(logger, cfg.Notification), logger, 0)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	app := httptransport.NewServer(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
		Routes: httptransport.RouteConfig{
			Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
				map[string]handlers.Pinger{"redis": redis}, metrics),
			Employees: handlers.NewEmployeesHandler(handlers.EmployeesDependencies{
				Client:      backend,
				Messages:    catalog,
				Logger:      logger,
				PageSize:    cfg.Backend.EmployeePageSize,
				SubmitLock:  persistence.NewSubmitLock(redis, cfg.Redis.SubmitLockTTL(), logger),
				Dispatcher:  dispatcher,
				DefaultLang: cfg.UI.Lang,
			}),
			AuthMiddleware: auth.NewAuthMiddleware(tokens),
		},
	})

	go func() {
		logger.Info("console listening", zap.String("addr", cfg.App.Addr()), zap.String("backend", cfg.Backend.BaseURL))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	notifications.Stop()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
