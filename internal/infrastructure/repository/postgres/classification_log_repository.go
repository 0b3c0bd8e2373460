package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

// ClassificationLogRepository keeps an audit trail of classification events.
type ClassificationLogRepository struct {
	db *sql.DB
}

func NewClassificationLogRepository(db *sql.DB) *ClassificationLogRepository {
	return &ClassificationLogRepository{db: db}
}

func (r *ClassificationLogRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS classification_events (
	id TEXT PRIMARY KEY,
	language TEXT NOT NULL,
	outcome TEXT NOT NULL,
	hs6 JSONB NOT NULL DEFAULT '[]'::jsonb,
	duration_ms DOUBLE PRECISION NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_classification_events_occurred_at ON classification_events(occurred_at DESC);
`
	return withSchemaLock(ctx, r.db, 2026101902, ddl)
}

// Record stores event once; redelivered events are ignored.
func (r *ClassificationLogRepository) Record(ctx context.Context, event ports.ClassificationEvent) error {
	hs6 := event.HS6
	if hs6 == nil {
		hs6 = []string{}
	}
	hs6JSON, err := json.Marshal(hs6)
	if err != nil {
		return fmt.Errorf("marshal hs6 codes: %w", err)
	}
	occurredAt, err := time.Parse(time.RFC3339Nano, event.OccurredAt)
	if err != nil {
		occurredAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO classification_events (id, language, outcome, hs6, duration_ms, occurred_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO NOTHING
`, event.ID, event.Language, event.Outcome, hs6JSON, event.DurationMS, occurredAt)
	if err != nil {
		return fmt.Errorf("insert classification event: %w", err)
	}
	return nil
}
