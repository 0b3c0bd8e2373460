package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

const maxLanguageTagRunes = 64

type LanguageDetector struct {
	generator ports.TextGenerator
}

func NewLanguageDetector(generator ports.TextGenerator) *LanguageDetector {
	return &LanguageDetector{generator: generator}
}

// Detect names the language of query. Queries with Arabic script skip the
// model and use the Arabic preset.
func (d *LanguageDetector) Detect(ctx context.Context, query domain.Query) (domain.Detection, error) {
	if query.ContainsArabic() {
		preset := domain.ArabicPreset
		return domain.Detection{Language: domain.LanguageArabic, Preset: &preset}, nil
	}

	raw, err := d.generator.Generate(ctx, buildLanguagePrompt(query))
	if err != nil {
		return domain.Detection{}, fmt.Errorf("detect language: %w", err)
	}

	tag, ok := parseLanguageTag(raw)
	if !ok {
		slog.Warn("language_detection_fallback", "response", raw, "fallback", string(domain.LanguageFallback))
		tag = domain.LanguageFallback
	}
	return domain.Detection{Language: tag}, nil
}

// parseLanguageTag accepts a single short line; anything else is malformed.
func parseLanguageTag(raw string) (domain.LanguageTag, bool) {
	tag := strings.TrimSpace(raw)
	if tag == "" || strings.ContainsAny(tag, "\r\n") {
		return "", false
	}
	if utf8.RuneCountInString(tag) > maxLanguageTagRunes {
		return "", false
	}
	return domain.LanguageTag(tag), true
}
