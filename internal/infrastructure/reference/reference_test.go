package reference

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

func writeWorkbook(t *testing.T, sheet string, records [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("NewSheet() error = %v", err)
		}
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("DeleteSheet() error = %v", err)
		}
	}
	for r, record := range records {
		for c, v := range record {
			cellName, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cellName, v); err != nil {
				t.Fatalf("SetCellValue() error = %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "reference.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	return path
}

func TestXLSXSourceNormalizesBandsInFileOrder(t *testing.T) {
	path := writeWorkbook(t, "Tariff", [][]any{
		{"Band_Syria", "Material_Clean"},
		{7093000, "aubergines"},
		{"1704.10.00", "chewing gum"},
		{"n/a", "broken row"},
		{"17049999", ""},
	})

	rows, err := XLSXSource{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []struct{ band, material string }{
		{"07093000", "aubergines"},
		{"17041000", "chewing gum"},
		{"17049999", domain.MissingMaterial},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), rows)
	}
	for i, w := range want {
		if rows[i].NormalizedBand != w.band || rows[i].MaterialDescription != w.material {
			t.Fatalf("row %d = %+v, want %+v", i, rows[i], w)
		}
	}
}

func TestXLSXSourceHonorsConfiguredColumnsAndSheet(t *testing.T) {
	path := writeWorkbook(t, "Codes", [][]any{
		{"code", "label", "band"},
		{"09041100", "pepper", "999"},
	})

	rows, err := XLSXSource{
		Path:    path,
		Sheet:   "Codes",
		Columns: Columns{Band: "code", Material: "label"},
	}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rows) != 1 || rows[0].NormalizedBand != "09041100" || rows[0].MaterialDescription != "pepper" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestXLSXSourceMissingSheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{{"band", "material"}})
	if _, err := (XLSXSource{Path: path, Sheet: "Other"}).Load(context.Background()); err == nil {
		t.Fatalf("expected missing sheet error")
	}
}

func TestCSVSourceRequiresBandColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.csv")
	if err := os.WriteFile(path, []byte("code,material\n17041000,gum\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if _, err := (CSVSource{Path: path}).Load(context.Background()); err == nil {
		t.Fatalf("expected missing band column error")
	}
}

func TestCSVSourceLoadsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.csv")
	content := "\ufeffBand,Material\n17041000,chewing gum\n,blank band\n070190,potatoes\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	rows, err := CSVSource{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rows) != 2 || rows[1].NormalizedBand != "00070190" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestOpenSelectsSourceByLocation(t *testing.T) {
	src, closeFn, err := Open("tariff.XLSX", Options{Sheet: "S"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer closeFn()
	if x, ok := src.(XLSXSource); !ok || x.Sheet != "S" {
		t.Fatalf("expected xlsx source, got %T", src)
	}

	if _, _, err := Open("tariff.json", Options{}); !domain.IsKind(err, domain.ErrConfig) {
		t.Fatalf("expected ErrConfig for unsupported extension, got %v", err)
	}
	if _, _, err := Open("  ", Options{}); !domain.IsKind(err, domain.ErrConfig) {
		t.Fatalf("expected ErrConfig for empty location, got %v", err)
	}
}
