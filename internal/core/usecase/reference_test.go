package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

type sourceFake struct {
	rows []domain.ReferenceRow
	err  error
}

func (f sourceFake) Load(context.Context) ([]domain.ReferenceRow, error) {
	return f.rows, f.err
}

func TestLoadReferenceTableWrapsSourceError(t *testing.T) {
	_, err := LoadReferenceTable(context.Background(), sourceFake{err: errors.New("file missing")})
	if !domain.IsKind(err, domain.ErrReferenceUnavailable) {
		t.Fatalf("expected ErrReferenceUnavailable, got %v", err)
	}
}

func TestLoadReferenceTableRejectsEmptySource(t *testing.T) {
	_, err := LoadReferenceTable(context.Background(), sourceFake{})
	if !domain.IsKind(err, domain.ErrReferenceUnavailable) {
		t.Fatalf("expected ErrReferenceUnavailable, got %v", err)
	}
}

func TestLoadReferenceTableBuildsTable(t *testing.T) {
	row, _ := domain.NewReferenceRow("0701.90", "potatoes")
	table, err := LoadReferenceTable(context.Background(), sourceFake{rows: []domain.ReferenceRow{row}})
	if err != nil {
		t.Fatalf("LoadReferenceTable() error = %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", table.Len())
	}
}
