package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Query is a normalized, non-empty user query.
type Query struct {
	text string
}

// NewQuery applies NFKC normalization, removes control characters and trims
// the input. maxRunes <= 0 disables the length check.
func NewQuery(raw string, maxRunes int) (Query, error) {
	text := norm.NFKC.String(raw)
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
	text = strings.TrimSpace(text)

	if text == "" {
		return Query{}, WrapError(ErrInvalidInput, "validate query", errors.New("query is empty"))
	}
	if maxRunes > 0 && utf8.RuneCountInString(text) > maxRunes {
		return Query{}, WrapError(ErrInvalidInput, "validate query", fmt.Errorf("query exceeds %d characters", maxRunes))
	}
	return Query{text: text}, nil
}

func (q Query) String() string { return q.text }

// ContainsArabic reports whether any rune falls in the Arabic block U+0600..U+06FF.
func (q Query) ContainsArabic() bool {
	return strings.ContainsFunc(q.text, func(r rune) bool {
		return r >= 0x0600 && r <= 0x06FF
	})
}
