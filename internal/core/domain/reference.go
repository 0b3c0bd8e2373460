package domain

import (
	"strings"
)

const (
	// BandWidth is the fixed width of a normalized tariff band.
	BandWidth = 8
	// MissingMaterial replaces empty or absent material descriptions.
	MissingMaterial = "unspecified"
)

// ReferenceRow is one tariff band of the reference table.
type ReferenceRow struct {
	RawBand             string `json:"raw_band"`
	NormalizedBand      string `json:"band"`
	MaterialDescription string `json:"material"`
}

// NewReferenceRow normalizes a raw band/material pair. ok is false when the
// band carries no digits at all.
func NewReferenceRow(rawBand, material string) (ReferenceRow, bool) {
	band, ok := NormalizeBand(rawBand)
	if !ok {
		return ReferenceRow{}, false
	}
	material = strings.TrimSpace(material)
	if material == "" {
		material = MissingMaterial
	}
	return ReferenceRow{
		RawBand:             rawBand,
		NormalizedBand:      band,
		MaterialDescription: material,
	}, true
}

// NormalizeBand keeps only the digits of raw, left-pads them with zeros to
// BandWidth and keeps the leading BandWidth digits of longer values.
func NormalizeBand(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range FoldDigits(raw) {
		if isASCIIDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", false
	}
	if len(digits) > BandWidth {
		return digits[:BandWidth], true
	}
	return strings.Repeat("0", BandWidth-len(digits)) + digits, true
}

// ReferenceTable is the read-only, in-memory tariff reference. It is built
// once and safe for concurrent readers.
type ReferenceTable struct {
	rows     []ReferenceRow
	byPrefix map[string]int
}

// Prefix lengths indexed at construction time. Lookups for other lengths
// fall back to a table scan.
var indexedPrefixLengths = []int{4, 5, 6}

func NewReferenceTable(rows []ReferenceRow) *ReferenceTable {
	copied := make([]ReferenceRow, len(rows))
	copy(copied, rows)

	index := make(map[string]int, len(rows)*len(indexedPrefixLengths))
	for i, row := range copied {
		for _, n := range indexedPrefixLengths {
			key := row.NormalizedBand[:n]
			if _, seen := index[key]; !seen {
				index[key] = i
			}
		}
	}
	return &ReferenceTable{rows: copied, byPrefix: index}
}

func (t *ReferenceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of the rows in table order.
func (t *ReferenceTable) Rows() []ReferenceRow {
	if t == nil {
		return nil
	}
	out := make([]ReferenceRow, len(t.rows))
	copy(out, t.rows)
	return out
}

// FirstWithPrefix returns the first row, in table order, whose normalized
// band starts with prefix.
func (t *ReferenceTable) FirstWithPrefix(prefix string) (ReferenceRow, bool) {
	if t == nil || prefix == "" || len(prefix) > BandWidth {
		return ReferenceRow{}, false
	}
	for _, n := range indexedPrefixLengths {
		if len(prefix) == n {
			idx, ok := t.byPrefix[prefix]
			if !ok {
				return ReferenceRow{}, false
			}
			return t.rows[idx], true
		}
	}
	for _, row := range t.rows {
		if strings.HasPrefix(row.NormalizedBand, prefix) {
			return row, true
		}
	}
	return ReferenceRow{}, false
}
