package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger logs to stdout for long-running services.
func NewJSONLogger(service, level string) *slog.Logger {
	return New(os.Stdout, service, level)
}

// NewStderrLogger is for stdio tools whose stdout carries protocol or
// user output.
func NewStderrLogger(service, level string) *slog.Logger {
	return New(os.Stderr, service, level)
}

func New(w io.Writer, service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler).With("service", service)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
