package rules

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

//go:embed default_rules.yaml
var defaultRules []byte

type document struct {
	Rules []rule `yaml:"rules"`
}

type rule struct {
	Name         string   `yaml:"name"`
	Terms        []string `yaml:"terms"`
	Instruction  string   `yaml:"instruction"`
	DescribeHint string   `yaml:"describe_hint"`
}

// Set is an immutable list of disambiguation rules. It implements
// ports.RuleSet.
type Set struct {
	rules []ports.DisambiguationRule
}

func (s *Set) Rules() []ports.DisambiguationRule {
	if s == nil {
		return nil
	}
	out := make([]ports.DisambiguationRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Default returns the embedded rule set.
func Default() (*Set, error) {
	return Parse(defaultRules)
}

// Load reads rules from path, or the embedded defaults when path is empty.
func Load(path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return set, nil
}

func Parse(data []byte) (*Set, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules yaml: %w", err)
	}

	out := make([]ports.DisambiguationRule, 0, len(doc.Rules))
	seen := make(map[string]struct{}, len(doc.Rules))
	for i, r := range doc.Rules {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("rule %d has no name", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate rule %q", name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(r.Instruction) == "" && strings.TrimSpace(r.DescribeHint) == "" {
			return nil, fmt.Errorf("rule %q has neither instruction nor describe_hint", name)
		}

		terms := make([]string, 0, len(r.Terms))
		for _, term := range r.Terms {
			if term = strings.TrimSpace(term); term != "" {
				terms = append(terms, term)
			}
		}
		out = append(out, ports.DisambiguationRule{
			Name:         name,
			Terms:        terms,
			Instruction:  strings.TrimSpace(r.Instruction),
			DescribeHint: strings.TrimSpace(r.DescribeHint),
		})
	}
	return &Set{rules: out}, nil
}
