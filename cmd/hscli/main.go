package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/acrossmena/hs-classifier/internal/bootstrap"
	"github.com/acrossmena/hs-classifier/internal/config"
	"github.com/acrossmena/hs-classifier/internal/observability/logging"
)

const serviceName = "hscli"

var (
	logLevel string
	rootCmd  = &cobra.Command{
		Use:   "hscli",
		Short: "Classify goods descriptions into HS customs codes",
		Long: `hscli proposes HS codes for a goods description, matches them against the
tariff reference table and prints localized results.

Configuration is read from the environment, the same way the api and worker
services read it.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			slog.SetDefault(logging.NewStderrLogger(serviceName, logLevel))
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(replCmd())
	rootCmd.AddCommand(referenceCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context) (*bootstrap.App, error) {
	return bootstrap.New(ctx, config.Load(), bootstrap.Options{Service: serviceName})
}
