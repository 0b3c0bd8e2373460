package usecase

import (
	"iter"
	"regexp"
	"strings"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

const (
	hs6Length    = 6
	familyLength = 4
)

var hsDigitsRe = regexp.MustCompile(`[0-9]{4,6}`)

// ParseProposalLine splits line on its last colon. Category labels may
// contain colons; the code is expected after the last one.
func ParseProposalLine(line string) (domain.CandidateProposal, bool) {
	idx := strings.LastIndex(line, ":")
	if idx < 0 {
		return domain.CandidateProposal{}, false
	}
	return domain.CandidateProposal{
		CategoryLabel: cleanItemLabel(line[:idx]),
		RawCodeText:   line[idx+1:],
	}, true
}

// ExtractHS6 returns the first run of 4 to 6 digits in codeText, truncated
// to at most six digits.
func ExtractHS6(codeText string) (string, bool) {
	run := hsDigitsRe.FindString(domain.FoldDigits(codeText))
	if run == "" {
		return "", false
	}
	if len(run) > hs6Length {
		run = run[:hs6Length]
	}
	return run, true
}

type CodeMatcher struct {
	table ports.ReferenceReader
}

func NewCodeMatcher(table ports.ReferenceReader) *CodeMatcher {
	return &CodeMatcher{table: table}
}

// Match resolves proposal lines against the reference table in order of
// first appearance. Each code is considered once per call, whether or not
// it resolves.
func (m *CodeMatcher) Match(lines iter.Seq[string]) []domain.CandidateMatch {
	var out []domain.CandidateMatch
	seen := make(map[string]struct{})

	for line := range lines {
		proposal, ok := ParseProposalLine(line)
		if !ok {
			continue
		}
		hs6, ok := ExtractHS6(proposal.RawCodeText)
		if !ok {
			continue
		}
		if _, dup := seen[hs6]; dup {
			continue
		}
		seen[hs6] = struct{}{}

		row, tier, ok := m.resolve(hs6)
		if !ok {
			continue
		}
		out = append(out, domain.CandidateMatch{
			ItemLabel: proposal.CategoryLabel,
			HS6:       hs6,
			Row:       row,
			Tier:      tier,
		})
	}
	return out
}

// resolve tries the full code first and then its 4-digit family.
func (m *CodeMatcher) resolve(hs6 string) (domain.ReferenceRow, domain.MatchTier, bool) {
	if row, ok := m.table.FirstWithPrefix(hs6); ok {
		if len(hs6) == hs6Length {
			return row, domain.MatchTierExact, true
		}
		return row, domain.MatchTierFamily, true
	}
	if len(hs6) > familyLength {
		if row, ok := m.table.FirstWithPrefix(hs6[:familyLength]); ok {
			return row, domain.MatchTierFamily, true
		}
	}
	return domain.ReferenceRow{}, "", false
}
