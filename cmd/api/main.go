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

	httpadapter "github.com/acrossmena/hs-classifier/internal/adapters/http"
	"github.com/acrossmena/hs-classifier/internal/bootstrap"
	"github.com/acrossmena/hs-classifier/internal/config"
	"github.com/acrossmena/hs-classifier/internal/observability/logging"
	"github.com/acrossmena/hs-classifier/internal/observability/metrics"
)

const serviceName = "api"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Service:      serviceName,
		Registerer:   httpMetrics.Registry(),
		ConnectQueue: true,
	})
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	handler, err := httpadapter.NewRouter(cfg, app.Classifier, app.Reference, httpMetrics).Handler()
	if err != nil {
		logger.Error("router_init_failed", "error", err)
		os.Exit(1)
	}
	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.ClassifyTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("api_listening", "port", cfg.APIPort, "reference_rows", app.Reference.Len(), "llm_provider", cfg.LLMProvider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		logger.Error("api_server_failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api_shutdown_failed", "error", err)
	}
}
