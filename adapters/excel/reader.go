package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"lottolab/domain/draw"
	apperrors "lottolab/internal/errors"
)

// DrawReader imports historical draws from Excel or CSV exports. Rows are
// expected as: draw_no, draw_date, six winning numbers, bonus. A header row
// is detected and skipped.
type DrawReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDrawReader creates a reader that handles both Excel and CSV files.
func NewDrawReader(filePath string) *DrawReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DrawReader{filePath: filePath, fileType: fileType}
}

// ReadDraws reads and validates all draw rows from the file.
func (r *DrawReader) ReadDraws() ([]draw.Record, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, apperrors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	return r.parseRows(rows)
}

func (r *DrawReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	return rows, nil
}

func (r *DrawReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open CSV file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read CSV file")
	}
	return rows, nil
}

func (r *DrawReader) parseRows(rows [][]string) ([]draw.Record, error) {
	records := make([]draw.Record, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if i == 0 && isHeaderRow(row) {
			continue
		}
		if len(row) < 9 {
			return nil, apperrors.ValidationError(fmt.Sprintf("row %d: expected 9 columns, got %d", i+1, len(row)))
		}

		rec, err := parseRow(row)
		if err != nil {
			return nil, apperrors.Wrapf(err, "row %d", i+1)
		}
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (draw.Record, error) {
	drawNo, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return draw.Record{}, apperrors.ValidationError(fmt.Sprintf("invalid draw_no %q", row[0]))
	}

	date, err := parseDate(strings.TrimSpace(row[1]))
	if err != nil {
		return draw.Record{}, err
	}

	numbers := make([]int, draw.BallsPerDraw)
	for j := range numbers {
		n, err := strconv.Atoi(strings.TrimSpace(row[2+j]))
		if err != nil {
			return draw.Record{}, apperrors.ValidationError(fmt.Sprintf("invalid number %q", row[2+j]))
		}
		numbers[j] = n
	}

	bonus, err := strconv.Atoi(strings.TrimSpace(row[8]))
	if err != nil {
		return draw.Record{}, apperrors.ValidationError(fmt.Sprintf("invalid bonus %q", row[8]))
	}

	return draw.Record{DrawNo: drawNo, DrawDate: date, Numbers: numbers, Bonus: bonus}, nil
}

func parseDate(value string) (time.Time, error) {
	layouts := []string{"2006-01-02", "2006.01.02", "2006/01/02", "01-02-06"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.ValidationError(fmt.Sprintf("invalid draw_date %q", value))
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(row[0]))
	return err != nil
}
