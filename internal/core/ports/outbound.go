package ports

import (
	"context"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

// TextGenerator is the single LLM operation: one prompt in, one text out.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ReferenceSource yields reference rows in source order.
type ReferenceSource interface {
	Load(ctx context.Context) ([]domain.ReferenceRow, error)
}

// ClassificationEvent is published after every classified query.
type ClassificationEvent struct {
	ID         string   `json:"id"`
	Language   string   `json:"language"`
	Outcome    string   `json:"outcome"`
	HS6        []string `json:"hs6,omitempty"`
	DurationMS float64  `json:"duration_ms"`
	OccurredAt string   `json:"occurred_at"`
}

// EventPublisher emits classification events.
type EventPublisher interface {
	PublishClassification(ctx context.Context, event ClassificationEvent) error
}

// DisambiguationRule is a fixed lexical override injected into prompts.
type DisambiguationRule struct {
	Name         string
	Terms        []string
	Instruction  string
	DescribeHint string
}

// RuleSet supplies the disambiguation rules.
type RuleSet interface {
	Rules() []DisambiguationRule
}
