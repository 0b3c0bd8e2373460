package presenter

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	xlsxSheet       = "Classification"
)

// XLSX builds a workbook with one row per result and the localized labels
// as header. Not-found and failed outcomes produce a single message row.
func XLSX(query string, o domain.Outcome) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if o.Language == domain.LanguageArabic {
		_ = f.SetSheetView(xlsxSheet, 0, &excelize.ViewOptions{RightToLeft: boolPtr(true)})
	}

	labels := o.Labels
	if o.Kind != domain.OutcomeSuccess {
		labels = domain.DefaultLabels
	}
	header := []any{"Query", labels.Item(), labels.HS6(), labels.Band(), labels.Description(), "Tier"}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	switch o.Kind {
	case domain.OutcomeSuccess:
		for i, r := range o.Results {
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			row := []any{query, r.ItemLabel, r.HS6, r.MatchedBand, r.Description, string(r.Tier)}
			if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
				return nil, fmt.Errorf("write result row %d: %w", i+1, err)
			}
		}
	default:
		row := []any{query, o.Message}
		if err := f.SetSheetRow(xlsxSheet, "A2", &row); err != nil {
			return nil, fmt.Errorf("write message row: %w", err)
		}
	}

	_ = f.SetColWidth(xlsxSheet, "A", "B", 28)
	_ = f.SetColWidth(xlsxSheet, "C", "D", 14)
	_ = f.SetColWidth(xlsxSheet, "E", "E", 60)
	_ = f.SetColWidth(xlsxSheet, "F", "F", 8)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func boolPtr(v bool) *bool { return &v }
