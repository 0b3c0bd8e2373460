package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

const separator = "────────────────"

// Text renders an outcome as the plain-text block shown in terminals and
// MCP tool results.
func Text(o domain.Outcome) string {
	var b strings.Builder
	_ = WriteText(&b, o)
	return b.String()
}

func WriteText(w io.Writer, o domain.Outcome) error {
	switch o.Kind {
	case domain.OutcomeSuccess:
		l := o.Labels
		for _, r := range o.Results {
			if _, err := fmt.Fprintf(w, "%s: %s\n%s: %s\n%s: %s\n%s: %s\n%s\n",
				l.Item(), r.ItemLabel,
				l.HS6(), r.HS6,
				l.Band(), r.MatchedBand,
				l.Description(), r.Description,
				separator,
			); err != nil {
				return err
			}
		}
		return nil
	case domain.OutcomeNotFound:
		_, err := fmt.Fprintf(w, "❌ %s\n", o.Message)
		return err
	default:
		_, err := fmt.Fprintf(w, "⚠️ Error: %s\n", o.Message)
		return err
	}
}
