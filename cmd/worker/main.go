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

	"golang.org/x/sync/errgroup"

	"github.com/acrossmena/hs-classifier/internal/bootstrap"
	"github.com/acrossmena/hs-classifier/internal/config"
	"github.com/acrossmena/hs-classifier/internal/infrastructure/repository/postgres"
	"github.com/acrossmena/hs-classifier/internal/observability/logging"
	"github.com/acrossmena/hs-classifier/internal/observability/metrics"
)

const (
	serviceName   = "worker"
	classifyGroup = "hs-classify-workers"
	auditGroup    = "hs-classification-audit"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("worker_failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.NATSURL == "" {
		return errors.New("NATS_URL is required for the worker")
	}

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Service:      serviceName,
		Registerer:   workerMetrics.Registry(),
		ConnectQueue: true,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	handler := &requestHandler{classifier: app.Classifier, metrics: workerMetrics, logger: logger}
	group.Go(func() error {
		logger.Info("worker_subscribed", "subject", cfg.NATSClassifySubject, "group", classifyGroup, "concurrency", cfg.WorkerConcurrency)
		return app.Queue.ServeRequests(groupCtx, cfg.NATSClassifySubject, classifyGroup, cfg.WorkerConcurrency, handler.Handle)
	})

	if cfg.ClassificationLogDSN != "" {
		db, err := postgres.OpenDB(cfg.ClassificationLogDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		repo := postgres.NewClassificationLogRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		sink := &auditSink{recorder: repo, metrics: workerMetrics}
		group.Go(func() error {
			logger.Info("classification_audit_subscribed", "subject", cfg.NATSEventsSubject, "group", auditGroup)
			return app.Queue.SubscribeEvents(groupCtx, auditGroup, sink.Handle)
		})
	}

	return group.Wait()
}
