package domain

import "strings"

// FoldDigits rewrites Arabic-Indic (U+0660..U+0669) and Extended Arabic-Indic
// (U+06F0..U+06F9) digits to their ASCII forms. Other runes are kept.
func FoldDigits(s string) string {
	if !strings.ContainsFunc(s, isEasternDigit) {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		default:
			return r
		}
	}, s)
}

func isEasternDigit(r rune) bool {
	return (r >= '٠' && r <= '٩') || (r >= '۰' && r <= '۹')
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
