package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/acrossmena/hs-classifier/internal/bootstrap"
	"github.com/acrossmena/hs-classifier/internal/config"
	"github.com/acrossmena/hs-classifier/internal/observability/logging"
)

const (
	serviceName   = "mcp"
	serverVersion = "1.0.0"
)

func main() {
	cfg := config.Load()
	// stdout carries JSON-RPC frames.
	logger := logging.NewStderrLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{Service: serviceName})
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	logger.Info("mcp_serving_stdio", "reference_rows", app.Reference.Len())
	if err := server.ServeStdio(newServer(app.Classifier)); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
