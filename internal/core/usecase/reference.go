package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

// LoadReferenceTable reads the reference source once. Any failure, including
// an empty source, is a domain.ErrReferenceUnavailable.
func LoadReferenceTable(ctx context.Context, source ports.ReferenceSource) (*domain.ReferenceTable, error) {
	start := time.Now()
	rows, err := source.Load(ctx)
	if err != nil {
		if domain.IsKind(err, domain.ErrReferenceUnavailable) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrReferenceUnavailable, "load reference table", err)
	}
	if len(rows) == 0 {
		return nil, domain.WrapError(domain.ErrReferenceUnavailable, "load reference table", errors.New("source has no usable rows"))
	}

	table := domain.NewReferenceTable(rows)
	slog.Info("reference_loaded",
		"rows", table.Len(),
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return table, nil
}
