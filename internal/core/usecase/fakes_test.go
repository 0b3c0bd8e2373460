package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

const (
	stageDetect   = "detect"
	stagePropose  = "propose"
	stageDescribe = "describe"
	stageLabels   = "labels"
	stageNotFound = "not_found"
)

func stageOf(prompt string) string {
	switch {
	case strings.HasPrefix(prompt, "Identify the language"):
		return stageDetect
	case strings.HasPrefix(prompt, "Context Instruction"):
		return stagePropose
	case strings.HasPrefix(prompt, "Describe this product"):
		return stageDescribe
	case strings.HasPrefix(prompt, "Translate these 4 labels"):
		return stageLabels
	case strings.HasPrefix(prompt, "Translate '"):
		return stageNotFound
	default:
		return "unknown"
	}
}

// scriptedGenerator answers prompts by pipeline stage and records every call.
type scriptedGenerator struct {
	mu      sync.Mutex
	prompts []string

	replies  map[string]string
	errs     map[string]error
	describe func(prompt string) (string, error)
}

func newScriptedGenerator(replies map[string]string) *scriptedGenerator {
	return &scriptedGenerator{replies: replies, errs: map[string]error{}}
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	stage := stageOf(prompt)
	err := g.errs[stage]
	reply := g.replies[stage]
	describe := g.describe
	g.mu.Unlock()

	if err != nil {
		return "", err
	}
	if stage == stageDescribe && describe != nil {
		return describe(prompt)
	}
	return reply, nil
}

func (g *scriptedGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func (g *scriptedGenerator) callsFor(stage string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for _, p := range g.prompts {
		if stageOf(p) == stage {
			out = append(out, p)
		}
	}
	return out
}

type staticRules []ports.DisambiguationRule

func (r staticRules) Rules() []ports.DisambiguationRule { return r }

type eventsFake struct {
	mu     sync.Mutex
	events []ports.ClassificationEvent
	err    error
}

func (f *eventsFake) PublishClassification(_ context.Context, event ports.ClassificationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

type observerFake struct {
	outcomes []domain.Outcome
}

func (f *observerFake) ObserveClassification(outcome domain.Outcome) {
	f.outcomes = append(f.outcomes, outcome)
}

func tableOf(pairs ...string) *domain.ReferenceTable {
	rows := make([]domain.ReferenceRow, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		row, ok := domain.NewReferenceRow(pairs[i], pairs[i+1])
		if ok {
			rows = append(rows, row)
		}
	}
	return domain.NewReferenceTable(rows)
}

func seqOf(lines ...string) func(func(string) bool) {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}
