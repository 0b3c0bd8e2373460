package usecase

import (
	"testing"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

func TestParseProposalLineSplitsOnLastColon(t *testing.T) {
	cases := []struct {
		line      string
		wantOK    bool
		wantLabel string
		wantCode  string
	}{
		{line: "Confectionery: 170410", wantOK: true, wantLabel: "Confectionery", wantCode: " 170410"},
		{line: "Vegetables: fresh: 070930", wantOK: true, wantLabel: "Vegetables: fresh", wantCode: " 070930"},
		{line: "* **Potatoes**: 0701", wantOK: true, wantLabel: "Potatoes", wantCode: " 0701"},
		{line: "2. Pepper: 090411", wantOK: true, wantLabel: "Pepper", wantCode: " 090411"},
		{line: "3) Tea: 090240", wantOK: true, wantLabel: "Tea", wantCode: " 090240"},
		{line: "12.5% alcohol beverages: 220300", wantOK: true, wantLabel: "12.5% alcohol beverages", wantCode: " 220300"},
		{line: "4.5mm steel wire: 721720", wantOK: true, wantLabel: "4.5mm steel wire", wantCode: " 721720"},
		{line: "no separator here 170410", wantOK: false},
	}
	for _, tc := range cases {
		got, ok := ParseProposalLine(tc.line)
		if ok != tc.wantOK {
			t.Fatalf("ParseProposalLine(%q) ok=%v, want %v", tc.line, ok, tc.wantOK)
		}
		if !ok {
			continue
		}
		if got.CategoryLabel != tc.wantLabel || got.RawCodeText != tc.wantCode {
			t.Fatalf("ParseProposalLine(%q) = %+v", tc.line, got)
		}
	}
}

func TestExtractHS6(t *testing.T) {
	cases := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{text: " 170410", want: "170410", wantOK: true},
		{text: " 1704", want: "1704", wantOK: true},
		{text: " 17041", want: "17041", wantOK: true},
		{text: " 17041000", want: "170410", wantOK: true},
		{text: " HS 0904.11", want: "0904", wantOK: true},
		{text: " code 12 then 090411", want: "090411", wantOK: true},
		{text: " ١٧٠٤١٠", want: "170410", wantOK: true},
		{text: " 123", wantOK: false},
		{text: " not a number", wantOK: false},
		{text: "", wantOK: false},
	}
	for _, tc := range cases {
		got, ok := ExtractHS6(tc.text)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("ExtractHS6(%q) = %q,%v want %q,%v", tc.text, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestExtractHS6TruncationIsIdempotent(t *testing.T) {
	first, _ := ExtractHS6("17041000999")
	second, _ := ExtractHS6(first)
	if first != "170410" || second != first {
		t.Fatalf("expected stable 6 digit key, got %q then %q", first, second)
	}
}

func TestMatcherDeduplicatesFirstSeenWins(t *testing.T) {
	table := tableOf("09041100", "pepper, whole", "09041200", "pepper, crushed")
	matcher := NewCodeMatcher(table)

	got := matcher.Match(seqOf(
		"Black pepper: 090411",
		"Pepper, dried: 090411",
		"Crushed pepper: 090412",
	))
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(got), got)
	}
	if got[0].ItemLabel != "Black pepper" || got[0].HS6 != "090411" {
		t.Fatalf("expected first-seen line to win, got %+v", got[0])
	}
	if got[1].HS6 != "090412" {
		t.Fatalf("unexpected second match %+v", got[1])
	}
}

func TestMatcherFallsBackToFamilyPrefix(t *testing.T) {
	table := tableOf("17049999", "other sugar confectionery")
	matcher := NewCodeMatcher(table)

	got := matcher.Match(seqOf("Sweets: 170490"))
	if len(got) != 1 {
		t.Fatalf("expected fallback match, got %+v", got)
	}
	if got[0].Row.NormalizedBand != "17049999" || got[0].Tier != domain.MatchTierFamily {
		t.Fatalf("unexpected fallback match %+v", got[0])
	}
}

func TestMatcherDropsUnresolvedAndMalformedLines(t *testing.T) {
	table := tableOf("07019000", "potatoes")
	matcher := NewCodeMatcher(table)

	got := matcher.Match(seqOf(
		"Heading without code:",
		"Steel: 7208",
		"Note: see chapter ninety",
		"Potatoes: 070190",
	))
	if len(got) != 1 || got[0].HS6 != "070190" || got[0].Tier != domain.MatchTierExact {
		t.Fatalf("expected only potatoes match, got %+v", got)
	}
}

func TestMatcherSkipsDuplicateOfUnresolvedCode(t *testing.T) {
	table := tableOf("07019000", "potatoes")
	matcher := NewCodeMatcher(table)

	got := matcher.Match(seqOf("Steel: 720810", "Steel again: 720810", "Potatoes: 0701"))
	if len(got) != 1 || got[0].HS6 != "0701" {
		t.Fatalf("unexpected matches %+v", got)
	}
}

func TestProposalLinesKeepsOnlyColonLines(t *testing.T) {
	var got []string
	for line := range proposalLines("Here are the codes\r\nA: 1\r\n\r\nB: 2\nthanks") {
		got = append(got, line)
	}
	if len(got) != 2 || got[0] != "A: 1" || got[1] != "B: 2" {
		t.Fatalf("unexpected lines %q", got)
	}
}
