package reference

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

type CSVSource struct {
	Path    string
	Columns Columns
}

func (s CSVSource) Load(ctx context.Context) ([]domain.ReferenceRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", s.Path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", s.Path, err)
	}
	return buildRows(records, s.Columns, s.Path)
}
