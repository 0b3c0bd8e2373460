package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

type LabelTranslator struct {
	generator ports.TextGenerator
}

func NewLabelTranslator(generator ports.TextGenerator) *LabelTranslator {
	return &LabelTranslator{generator: generator}
}

// Translate returns the four display labels in lang, or domain.DefaultLabels
// when the answer does not carry four of them.
func (t *LabelTranslator) Translate(ctx context.Context, detection domain.Detection) (domain.LabelSet, error) {
	if detection.Preset != nil {
		return detection.Preset.Labels, nil
	}
	raw, err := t.generator.Generate(ctx, buildLabelsPrompt(detection.Language))
	if err != nil {
		return domain.LabelSet{}, fmt.Errorf("translate labels: %w", err)
	}
	return parseLabels(raw), nil
}

// NotFoundMessage localizes the not-found text. It never fails: a model
// error yields domain.DefaultNotFoundMessage.
func (t *LabelTranslator) NotFoundMessage(ctx context.Context, detection domain.Detection) string {
	if detection.Preset != nil {
		return detection.Preset.NotFound
	}
	raw, err := t.generator.Generate(ctx, buildNotFoundPrompt(detection.Language))
	if err != nil {
		slog.Warn("not_found_localization_failed", "language", string(detection.Language), "error", err)
		return domain.DefaultNotFoundMessage
	}
	msg := trimQuotes(stripMarkup(raw))
	if msg == "" {
		return domain.DefaultNotFoundMessage
	}
	return msg
}

func parseLabels(raw string) domain.LabelSet {
	parts := strings.FieldsFunc(strings.TrimSpace(raw), func(r rune) bool {
		return r == ',' || r == '،' || r == '、'
	})
	if len(parts) < len(domain.DefaultLabels) {
		return domain.DefaultLabels
	}

	var labels domain.LabelSet
	for i := range labels {
		label := trimQuotes(stripMarkup(parts[i]))
		if label == "" {
			return domain.DefaultLabels
		}
		labels[i] = label
	}
	return labels
}

func trimQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `'"“”‘’«»`))
}
