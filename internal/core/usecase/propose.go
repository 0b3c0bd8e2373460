package usecase

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

type CodeProposer struct {
	generator ports.TextGenerator
	rules     ports.RuleSet
}

func NewCodeProposer(generator ports.TextGenerator, rules ports.RuleSet) *CodeProposer {
	return &CodeProposer{generator: generator, rules: rules}
}

// Propose asks the model for candidate "<category>: <code>" lines. An empty
// response is reported as domain.ErrNoProposals.
func (p *CodeProposer) Propose(ctx context.Context, query domain.Query, lang domain.LanguageTag) (iter.Seq[string], error) {
	var rules []ports.DisambiguationRule
	if p.rules != nil {
		rules = p.rules.Rules()
	}

	raw, err := p.generator.Generate(ctx, buildProposalPrompt(query, lang, rules))
	if err != nil {
		return nil, fmt.Errorf("propose codes: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, domain.WrapError(domain.ErrNoProposals, "propose codes", errors.New("empty model response"))
	}
	return proposalLines(raw), nil
}

// proposalLines yields the lines of raw that contain a colon.
func proposalLines(raw string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.Lines(strings.TrimSpace(raw)) {
			line = strings.TrimRight(line, "\r\n")
			if !strings.Contains(line, ":") {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}
