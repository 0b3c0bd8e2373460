package reference

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

// Columns names the header cells holding the band and the material. Empty
// names fall back to the known aliases.
type Columns struct {
	Band     string
	Material string
}

var (
	bandAliases     = []string{"band", "band_syria", "tariff_band", "hs_band"}
	materialAliases = []string{"material", "material_clean", "description"}
)

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.Join(strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

func findColumn(header []string, configured string, aliases []string) int {
	wanted := aliases
	if strings.TrimSpace(configured) != "" {
		wanted = []string{configured}
	}
	for _, name := range wanted {
		target := normalizeHeader(name)
		for i, h := range header {
			if normalizeHeader(h) == target {
				return i
			}
		}
	}
	return -1
}

// buildRows turns a header row plus data rows into reference rows in file
// order. Rows whose band carries no digits are skipped.
func buildRows(records [][]string, cols Columns, origin string) ([]domain.ReferenceRow, error) {
	if len(records) == 0 {
		return nil, errors.New("no header row")
	}
	header := records[0]
	bandIdx := findColumn(header, cols.Band, bandAliases)
	if bandIdx < 0 {
		return nil, fmt.Errorf("band column not found in header %q", header)
	}
	materialIdx := findColumn(header, cols.Material, materialAliases)
	if materialIdx < 0 {
		return nil, fmt.Errorf("material column not found in header %q", header)
	}

	rows := make([]domain.ReferenceRow, 0, len(records)-1)
	skipped := 0
	for _, record := range records[1:] {
		row, ok := domain.NewReferenceRow(cell(record, bandIdx), cell(record, materialIdx))
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	if skipped > 0 {
		slog.Warn("reference_rows_skipped", "source", origin, "skipped", skipped)
	}
	return rows, nil
}

func cell(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}
