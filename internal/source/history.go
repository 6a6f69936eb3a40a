// Package source reads projection inputs: historical tables, assumption
// files and static balance sheet snapshots.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
)

// ErrEmptyFile is returned when a history file has no header row.
var ErrEmptyFile = errors.New("history file is empty")

// LoadHistory reads a historical table from a .csv or .xlsx file. For
// workbooks, sheet selects the sheet; empty means the first one.
func LoadHistory(path, sheet string) (*model.HistoricalRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadHistoryXLSX(path, sheet)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening history: %w", err)
		}
		defer f.Close()
		rec, err := ParseHistoryCSV(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return rec, nil
	}
}

// ParseHistoryCSV reads a header row followed by one row per year.
func ParseHistoryCSV(r io.Reader) (*model.HistoricalRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return buildHistory(rows)
}

// ReadHistoryXLSX reads the same flat layout from a worksheet.
func ReadHistoryXLSX(path, sheet string) (*model.HistoricalRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	rec, err := buildHistory(rows)
	if err != nil {
		return nil, fmt.Errorf("%s[%s]: %w", path, sheet, err)
	}
	return rec, nil
}

func buildHistory(rows [][]string) (*model.HistoricalRecord, error) {
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	header := make([]string, len(rows[0]))
	yearCol := -1
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if header[i] == projection.ColumnYear {
			yearCol = i
		}
	}
	if yearCol < 0 {
		return nil, &model.FieldError{Field: projection.ColumnYear, Err: model.ErrMissingField, Detail: "no Year column in header"}
	}

	data := rows[1:]
	years := make([]int, len(data))
	for r, row := range data {
		y, err := parseYear(cell(row, yearCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r+2, err)
		}
		years[r] = y
	}

	rec := model.NewHistoricalRecord(years)
	for c, name := range header {
		if c == yearCol || name == "" {
			continue
		}
		vals := make([]float64, len(data))
		for r, row := range data {
			v, err := ParseAmount(cell(row, c))
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", r+2, name, err)
			}
			vals[r] = v
		}
		if err := rec.AddColumn(name, vals); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func parseYear(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("year is empty")
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return int(f), nil
}

// ParseAmount parses a spreadsheet amount: thousands separators, a leading
// currency sign and accounting parentheses for negatives are accepted.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if neg {
		v = -v
	}
	return v, nil
}
