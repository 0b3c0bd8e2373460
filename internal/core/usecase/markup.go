package usecase

import (
	"regexp"
	"strings"
)

var (
	emphasisReplacer = strings.NewReplacer("**", "", "__", "", "*", "", "`", "", "#", "")
	listMarkerRe     = regexp.MustCompile(`^(?:[-•·]+\s*|\d+[.)]\s+)`)
)

// stripMarkup removes markdown emphasis characters from model output.
func stripMarkup(s string) string {
	return strings.TrimSpace(emphasisReplacer.Replace(s))
}

func cleanItemLabel(s string) string {
	s = stripMarkup(s)
	s = listMarkerRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
