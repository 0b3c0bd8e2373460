package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/acrossmena/hs-classifier/internal/bootstrap"
	"github.com/acrossmena/hs-classifier/internal/config"
	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/usecase"
	"github.com/acrossmena/hs-classifier/internal/infrastructure/reference"
	"github.com/acrossmena/hs-classifier/internal/infrastructure/repository/postgres"
)

func referenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Inspect and import the tariff reference table",
	}

	cmd.AddCommand(referenceStatsCmd())
	cmd.AddCommand(referenceImportCmd())

	return cmd
}

func referenceStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Load the configured reference table and print its size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := bootstrap.LoadReference(cmd.Context(), config.Load())
			if err != nil {
				return err
			}
			return writeStats(cmd.OutOrStdout(), table.Rows())
		},
	}
}

func writeStats(w io.Writer, rows []domain.ReferenceRow) error {
	hs6 := make(map[string]struct{}, len(rows))
	hs4 := make(map[string]struct{}, len(rows))
	unspecified := 0
	for _, row := range rows {
		hs6[row.NormalizedBand[:6]] = struct{}{}
		hs4[row.NormalizedBand[:4]] = struct{}{}
		if row.MaterialDescription == domain.MissingMaterial {
			unspecified++
		}
	}
	_, err := fmt.Fprintf(w, "rows: %d\ndistinct hs6: %d\ndistinct hs4: %d\nunspecified material: %d\n",
		len(rows), len(hs6), len(hs4), unspecified)
	return err
}

func referenceImportCmd() *cobra.Command {
	var (
		from  string
		to    string
		sheet string
		table string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy a spreadsheet reference table into Postgres",
		Long: `Read the reference table from --from (defaults to REFERENCE_SOURCE) and
replace the contents of the Postgres table at --to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if from == "" {
				from = cfg.ReferenceSource
			}
			if to == "" {
				return errors.New("--to is required")
			}
			if sheet == "" {
				sheet = cfg.ReferenceSheet
			}
			n, err := importReference(cmd.Context(), from, to, reference.Options{
				Sheet: sheet,
				Columns: reference.Columns{
					Band:     cfg.ReferenceBandColumn,
					Material: cfg.ReferenceMaterialColumn,
				},
			}, table)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows into %s\n", n, table)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source spreadsheet or csv (default REFERENCE_SOURCE)")
	cmd.Flags().StringVar(&to, "to", "", "target postgres DSN")
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name (default REFERENCE_SHEET, then the first sheet)")
	cmd.Flags().StringVar(&table, "table", postgres.DefaultReferenceTable, "target table name")

	return cmd
}

func importReference(ctx context.Context, from, to string, opts reference.Options, table string) (int, error) {
	source, closeSource, err := reference.Open(from, opts)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = closeSource()
	}()

	loaded, err := usecase.LoadReferenceTable(ctx, source)
	if err != nil {
		return 0, err
	}

	db, err := postgres.OpenDB(to)
	if err != nil {
		return 0, domain.WrapError(domain.ErrReferenceUnavailable, "open import target", err)
	}
	defer db.Close()

	repo, err := postgres.NewReferenceRepository(db, table)
	if err != nil {
		return 0, domain.WrapError(domain.ErrConfig, "open import target", err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	rows := loaded.Rows()
	if err := repo.Replace(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
