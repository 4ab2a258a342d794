package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/echo-labs/echo-core/internal/automation/webhook"
	"github.com/echo-labs/echo-core/internal/shared/infrastructure/eventbus"
	"github.com/echo-labs/echo-core/internal/shared/infrastructure/outbox"
	"github.com/echo-labs/echo-core/pkg/config"
	"github.com/echo-labs/echo-core/pkg/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	logger := observability.LoggerFromEnv()
	logger.Info("starting echo worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	outboxRepo := outbox.NewPostgresRepository(pool)

	publisher := buildPublisher(cfg, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("error closing publisher", "error", err)
		}
	}()

	processorConfig := outbox.DefaultProcessorConfig()
	processorConfig.PollInterval = cfg.OutboxPollInterval
	processorConfig.BatchSize = cfg.OutboxBatchSize
	processorConfig.MaxRetries = cfg.OutboxMaxRetries

	processor := outbox.NewProcessor(outboxRepo, publisher, processorConfig, logger)
	processor.Start(ctx)
	defer processor.Stop()

	retention := time.Duration(cfg.OutboxRetentionDays) * 24 * time.Hour
	cleanupTicker := time.NewTicker(cfg.OutboxCleanupInterval)
	defer cleanupTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-cleanupTicker.C:
				deleted, err := outboxRepo.DeleteOld(ctx, retention)
				if err != nil {
					logger.Error("outbox cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					logger.Info("outbox cleanup completed", "deleted", deleted, "retention_days", cfg.OutboxRetentionDays)
				}
			}
		}
	}()

	if cfg.WorkerHealthAddr != "" {
		runHealthServer(ctx, cfg.WorkerHealthAddr, pool, logger)
	}

	<-ctx.Done()
	logger.Info("echo worker stopped")
}

// buildPublisher picks the event sink: RabbitMQ when configured, the
// automation webhook as a direct fallback, a noop sink otherwise.
func buildPublisher(cfg *config.Config, logger *slog.Logger) eventbus.Publisher {
	if cfg.RabbitMQURL != "" {
		rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err == nil {
			logger.Info("publishing events to RabbitMQ")
			return rabbit
		}
		if !cfg.IsDevelopment() {
			logger.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		logger.Warn("RabbitMQ not available", "error", err)
	}

	if cfg.WebhookURL != "" {
		notifierCfg := webhook.DefaultNotifierConfig(cfg.WebhookURL)
		notifierCfg.Timeout = cfg.WebhookTimeout
		logger.Info("publishing events to automation webhook", "url", cfg.WebhookURL)
		return webhook.NewNotifier(notifierCfg, logger)
	}

	logger.Warn("no event sink configured, using noop publisher")
	return eventbus.NewNoopPublisher(logger)
}

func runHealthServer(ctx context.Context, addr string, pool *pgxpool.Pool, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(checkCtx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ready"})
	})

	healthSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server starting", "addr", addr)
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()
}
