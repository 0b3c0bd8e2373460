package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acrossmena/hs-classifier/internal/adapters/presenter"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

var exitWords = map[string]bool{
	"exit": true,
	"quit": true,
	"خروج": true,
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Classify descriptions interactively",
		Long:  `Read one description per line and classify it. Type exit, quit or خروج to leave.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()
			return runREPL(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), app.Classifier)
		},
	}
}

func runREPL(ctx context.Context, in io.Reader, out io.Writer, classifier ports.Classifier) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitWords[strings.ToLower(line)] {
			return nil
		}
		if err := presenter.WriteText(out, classifier.Classify(ctx, line)); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
