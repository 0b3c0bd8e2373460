package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acrossmena/hs-classifier/internal/adapters/presenter"
	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

func classifyCmd() *cobra.Command {
	var (
		xlsxPath string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "classify <description...>",
		Short: "Classify one goods description",
		Long: `Classify one goods description and print every matched tariff band.

Use --xlsx to also write the results to a spreadsheet.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			query := strings.Join(args, " ")
			outcome := app.Classifier.Classify(cmd.Context(), query)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(presenter.FromOutcome(outcome)); err != nil {
					return err
				}
			} else if err := presenter.WriteText(out, outcome); err != nil {
				return err
			}

			if xlsxPath != "" && outcome.Kind == domain.OutcomeSuccess {
				data, err := presenter.XLSX(query, outcome)
				if err != nil {
					return fmt.Errorf("render spreadsheet: %w", err)
				}
				if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
					return fmt.Errorf("write spreadsheet: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "results written to %s\n", xlsxPath)
			}

			if outcome.Kind == domain.OutcomeFailure {
				return fmt.Errorf("classification failed: %w", outcome.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write successful results to this .xlsx file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the JSON response instead of text blocks")

	return cmd
}
