package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

const DefaultReferenceTable = "tariff_bands"

// ReferenceRepository stores the tariff reference table. Rows keep their
// import order through the position column.
type ReferenceRepository struct {
	db    *sql.DB
	table string
}

func NewReferenceRepository(db *sql.DB, table string) (*ReferenceRepository, error) {
	if table == "" {
		table = DefaultReferenceTable
	}
	if err := validIdentifier(table); err != nil {
		return nil, err
	}
	return &ReferenceRepository{db: db, table: table}, nil
}

func (r *ReferenceRepository) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	position BIGINT PRIMARY KEY,
	raw_band TEXT NOT NULL,
	band CHAR(8) NOT NULL,
	material TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_band ON %[1]s(band);
`, r.table)
	return withSchemaLock(ctx, r.db, 2026101901, ddl)
}

// Load implements ports.ReferenceSource.
func (r *ReferenceRepository) Load(ctx context.Context) ([]domain.ReferenceRow, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT raw_band, material FROM %s ORDER BY position`, r.table))
	if err != nil {
		return nil, fmt.Errorf("query reference rows: %w", err)
	}
	defer rows.Close()

	var out []domain.ReferenceRow
	skipped := 0
	for rows.Next() {
		var rawBand string
		var material sql.NullString
		if err := rows.Scan(&rawBand, &material); err != nil {
			return nil, fmt.Errorf("scan reference row: %w", err)
		}
		row, ok := domain.NewReferenceRow(rawBand, material.String)
		if !ok {
			skipped++
			continue
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reference rows: %w", err)
	}
	if skipped > 0 {
		slog.Warn("reference_rows_skipped", "source", r.table, "skipped", skipped)
	}
	return out, nil
}

// Replace swaps the whole table content for rows in one transaction.
func (r *ReferenceRepository) Replace(ctx context.Context, rows []domain.ReferenceRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, r.table)); err != nil {
		return fmt.Errorf("clear reference rows: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (position, raw_band, band, material) VALUES ($1,$2,$3,$4)`, r.table,
	))
	if err != nil {
		return fmt.Errorf("prepare reference insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, i+1, row.RawBand, row.NormalizedBand, row.MaterialDescription); err != nil {
			return fmt.Errorf("insert reference row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import tx: %w", err)
	}
	return nil
}
