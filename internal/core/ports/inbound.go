package ports

import (
	"context"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

// Classifier is the inbound contract shared by every presentation adapter.
// It never returns a Go error: failures are carried by the outcome.
type Classifier interface {
	Classify(ctx context.Context, query string) domain.Outcome
}

// ReferenceReader exposes read access to the loaded reference table.
type ReferenceReader interface {
	Len() int
	FirstWithPrefix(prefix string) (domain.ReferenceRow, bool)
}
