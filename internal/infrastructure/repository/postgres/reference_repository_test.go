package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

func newReferenceRepoWithMock(t *testing.T) (*ReferenceRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	repo, err := NewReferenceRepository(db, "")
	if err != nil {
		t.Fatalf("NewReferenceRepository() error = %v", err)
	}
	return repo, mock, func() { _ = db.Close() }
}

func TestReferenceLoadNormalizesAndSkipsRows(t *testing.T) {
	repo, mock, done := newReferenceRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT raw_band, material FROM tariff_bands ORDER BY position").
		WillReturnRows(sqlmock.NewRows([]string{"raw_band", "material"}).
			AddRow("1704.10.00", "chewing gum").
			AddRow("-", "no digits").
			AddRow("7093000", nil))

	rows, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", rows)
	}
	if rows[0].NormalizedBand != "17041000" || rows[1].NormalizedBand != "07093000" {
		t.Fatalf("unexpected bands %+v", rows)
	}
	if rows[1].MaterialDescription != domain.MissingMaterial {
		t.Fatalf("expected placeholder material, got %q", rows[1].MaterialDescription)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReferenceLoadPropagatesQueryError(t *testing.T) {
	repo, mock, done := newReferenceRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT raw_band, material").WillReturnError(errors.New("relation does not exist"))
	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestReferenceReplaceInsertsInOrder(t *testing.T) {
	repo, mock, done := newReferenceRepoWithMock(t)
	defer done()

	first, _ := domain.NewReferenceRow("17041000", "chewing gum")
	second, _ := domain.NewReferenceRow("09041100", "pepper")

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tariff_bands").WillReturnResult(sqlmock.NewResult(0, 5))
	prep := mock.ExpectPrepare("INSERT INTO tariff_bands")
	prep.ExpectExec().WithArgs(1, "17041000", "17041000", "chewing gum").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(2, "09041100", "09041100", "pepper").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	if err := repo.Replace(context.Background(), []domain.ReferenceRow{first, second}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestNewReferenceRepositoryRejectsUnsafeTable(t *testing.T) {
	if _, err := NewReferenceRepository(nil, "bands; DROP TABLE x"); err == nil {
		t.Fatalf("expected identifier error")
	}
}

func TestClassificationLogRecordIgnoresDuplicates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()
	repo := NewClassificationLogRepository(db)

	mock.ExpectExec("INSERT INTO classification_events").
		WithArgs("evt-1", "French", "success", []byte(`["170410"]`), 12.5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Record(context.Background(), ports.ClassificationEvent{
		ID:         "evt-1",
		Language:   "French",
		Outcome:    "success",
		HS6:        []string{"170410"},
		DurationMS: 12.5,
		OccurredAt: "2026-10-19T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
