package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/execution-hub/event-console/internal/api/http"
	"github.com/execution-hub/event-console/internal/application/eventdetails"
	"github.com/execution-hub/event-console/internal/application/notification"
	"github.com/execution-hub/event-console/internal/config"
	domainNotification "github.com/execution-hub/event-console/internal/domain/notification"
	"github.com/execution-hub/event-console/internal/infrastructure/adminapi"
	"github.com/execution-hub/event-console/internal/infrastructure/memstore"
	"github.com/execution-hub/event-console/internal/infrastructure/postgres"
	"github.com/execution-hub/event-console/internal/infrastructure/sse"
	"github.com/execution-hub/event-console/internal/migrations"
	"github.com/execution-hub/event-console/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := observability.NewLogger(os.Stderr, "")
		bootLogger.Fatal().Err(err).Msg("config error")
	}
	logger := observability.NewLogger(os.Stdout, cfg.LogLevel)

	ctx := context.Background()

	if cfg.AdminAPITracing {
		shutdown, err := observability.InitTracer(ctx, "event-console")
		if err != nil {
			logger.Error().Err(err).Msg("otel init failed")
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	// notification history
	var history domainNotification.Repository
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("db error")
		}
		defer pool.Close()
		if err := postgres.RunMigrations(ctx, pool, migrations.FS); err != nil {
			logger.Fatal().Err(err).Msg("migration error")
		}
		history = postgres.NewNotificationRepository(pool)
		logger.Info().Msg("notification history stored in postgres")
	} else {
		history = memstore.NewNotificationRepository(cfg.HistoryCapacity)
		logger.Info().Int("capacity", cfg.HistoryCapacity).Msg("notification history kept in memory")
	}

	// admin API
	opts := []adminapi.Option{
		adminapi.WithTimeout(cfg.AdminAPITimeout),
		adminapi.WithRateLimit(cfg.AdminAPIRateLimit, cfg.AdminAPIBurst),
		adminapi.WithLogger(logger),
	}
	if cfg.AdminAPITracing {
		opts = append(opts, adminapi.WithTracing())
	}
	client, err := adminapi.New(cfg.AdminAPIBaseURL, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("admin api client error")
	}

	// services
	sseHub := sse.NewHub()
	store := memstore.New()
	notificationSvc := notification.NewService(history, sseHub, logger)
	store.Subscribe(notificationSvc.BroadcastTransition)
	eventSvc := eventdetails.NewService(client, adminapi.NewCatalog(client), store, notificationSvc, logger)

	// API server
	apiServer := httpapi.NewServer(eventSvc, notificationSvc, logger)
	handler := apiServer.Router()
	if cfg.AdminAPITracing {
		handler = otelhttp.NewHandler(handler, "event-console")
	}

	httpServer := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// no WriteTimeout: SSE streams stay open
	}

	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Str("admin_api", cfg.AdminAPIBaseURL).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sseHub.Stop()
	_ = httpServer.Shutdown(ctxShutdown)
	apiServer.Wait()
	logger.Info().Msg("http server stopped")
}
