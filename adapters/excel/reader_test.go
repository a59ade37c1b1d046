package excel

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "lottolab/internal/errors"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "draws.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadDrawsCSV(t *testing.T) {
	path := writeCSV(t, `draw_no,draw_date,n1,n2,n3,n4,n5,n6,bonus
1,2002-12-07,10,23,29,33,37,40,16
2,2002-12-14,9,13,21,25,32,42,2
`)

	records, err := NewDrawReader(path).ReadDraws()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.DrawNo != 1 || first.Bonus != 16 {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.DrawDate.Format("2006-01-02") != "2002-12-07" {
		t.Errorf("unexpected draw date %v", first.DrawDate)
	}
	want := []int{10, 23, 29, 33, 37, 40}
	for i, n := range want {
		if first.Numbers[i] != n {
			t.Fatalf("expected numbers %v, got %v", want, first.Numbers)
		}
	}
}

func TestReadDrawsCSVWithoutHeader(t *testing.T) {
	path := writeCSV(t, "1,2002-12-07,10,23,29,33,37,40,16\n")
	records, err := NewDrawReader(path).ReadDraws()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

func TestReadDrawsAlternateDateFormat(t *testing.T) {
	path := writeCSV(t, "1,2002.12.07,10,23,29,33,37,40,16\n")
	records, err := NewDrawReader(path).ReadDraws()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].DrawDate.Format("2006-01-02") != "2002-12-07" {
		t.Errorf("unexpected draw date %v", records[0].DrawDate)
	}
}

func TestReadDrawsRejectsInvalidDraw(t *testing.T) {
	// Duplicate winning number.
	path := writeCSV(t, "1,2002-12-07,10,10,29,33,37,40,16\n")
	_, err := NewDrawReader(path).ReadDraws()
	if !apperrors.HasCode(err, apperrors.CodeValidationError) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestReadDrawsRejectsShortRow(t *testing.T) {
	path := writeCSV(t, "1,2002-12-07,10,23,29\n")
	_, err := NewDrawReader(path).ReadDraws()
	if !apperrors.HasCode(err, apperrors.CodeValidationError) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestReadDrawsMissingFile(t *testing.T) {
	_, err := NewDrawReader(filepath.Join(t.TempDir(), "nope.csv")).ReadDraws()
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
