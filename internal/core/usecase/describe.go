package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

type Describer struct {
	generator ports.TextGenerator
	rules     ports.RuleSet
}

func NewDescriber(generator ports.TextGenerator, rules ports.RuleSet) *Describer {
	return &Describer{generator: generator, rules: rules}
}

// Describe writes a short description of material in lang. An empty model
// answer falls back to the material text itself.
func (d *Describer) Describe(ctx context.Context, material string, query domain.Query, lang domain.LanguageTag) (string, error) {
	raw, err := d.generator.Generate(ctx, buildDescribePrompt(material, query, lang, d.hintsFor(query)))
	if err != nil {
		return "", fmt.Errorf("describe %q: %w", material, err)
	}
	desc := stripMarkup(raw)
	if desc == "" {
		return material, nil
	}
	return desc, nil
}

func (d *Describer) hintsFor(query domain.Query) []string {
	if d.rules == nil {
		return nil
	}
	text := strings.ToLower(query.String())
	var hints []string
	for _, rule := range d.rules.Rules() {
		if rule.DescribeHint == "" {
			continue
		}
		for _, term := range rule.Terms {
			if term != "" && strings.Contains(text, strings.ToLower(term)) {
				hints = append(hints, rule.DescribeHint)
				break
			}
		}
	}
	return hints
}
