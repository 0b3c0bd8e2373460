package reference

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

// XLSXSource reads the reference table from one sheet of a workbook. An
// empty Sheet selects the first sheet.
type XLSXSource struct {
	Path    string
	Sheet   string
	Columns Columns
}

func (s XLSXSource) Load(ctx context.Context) ([]domain.ReferenceRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(s.Path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.Path, err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		return nil, fmt.Errorf("sheet %q not found in %s", sheet, s.Path)
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	rows, err := buildRows(records, s.Columns, s.Path)
	if err != nil {
		return nil, fmt.Errorf("parse sheet %q: %w", sheet, err)
	}
	return rows, nil
}
