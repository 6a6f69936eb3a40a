package model

import (
	"fmt"
	"strings"
)

// RowIndexing selects which historical rows feed five-year driver windows.
type RowIndexing string

const (
	// RowPosition reads absolute rows 0..4 regardless of table length.
	RowPosition RowIndexing = "row-position"
	// LastN reads the most recent five rows, oldest first.
	LastN RowIndexing = "last-n"
)

// ParseRowIndexing accepts the config and flag spellings of a RowIndexing.
func ParseRowIndexing(s string) (RowIndexing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "row-position", "position", "rows":
		return RowPosition, nil
	case "last-n", "lastn", "last":
		return LastN, nil
	default:
		return "", fmt.Errorf("unknown row indexing %q (want row-position or last-n)", s)
	}
}

// HistoricalRecord is a flat table of one row per historical year.
type HistoricalRecord struct {
	years   []int
	columns map[string][]float64
	order   []string
}

// NewHistoricalRecord starts a record over the given year column.
func NewHistoricalRecord(years []int) *HistoricalRecord {
	ys := make([]int, len(years))
	copy(ys, years)
	return &HistoricalRecord{
		years:   ys,
		columns: make(map[string][]float64),
	}
}

// AddColumn attaches a named numeric column. It must have one value per year.
func (h *HistoricalRecord) AddColumn(name string, values []float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("column name is empty")
	}
	if len(values) != len(h.years) {
		return fmt.Errorf("column %q has %d values, want %d", name, len(values), len(h.years))
	}
	if _, exists := h.columns[name]; !exists {
		h.order = append(h.order, name)
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	h.columns[name] = cp
	return nil
}

// Len returns the number of historical rows.
func (h *HistoricalRecord) Len() int {
	if h == nil {
		return 0
	}
	return len(h.years)
}

// Years returns a copy of the year column.
func (h *HistoricalRecord) Years() []int {
	cp := make([]int, len(h.years))
	copy(cp, h.years)
	return cp
}

// ColumnNames returns the column names in insertion order.
func (h *HistoricalRecord) ColumnNames() []string {
	cp := make([]string, len(h.order))
	copy(cp, h.order)
	return cp
}

// LastYear returns the year of the final row.
func (h *HistoricalRecord) LastYear() (int, error) {
	if h.Len() == 0 {
		return 0, &FieldError{Field: "Year", Err: ErrInsufficientHistory, Detail: "no rows"}
	}
	return h.years[len(h.years)-1], nil
}

// Column returns a copy of the named column.
func (h *HistoricalRecord) Column(name string) ([]float64, error) {
	if h == nil {
		return nil, missing(name)
	}
	vals, ok := h.columns[name]
	if !ok {
		return nil, missing(name)
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	return cp, nil
}

// Last returns the final row's value of the named column.
func (h *HistoricalRecord) Last(name string) (float64, error) {
	vals, err := h.Column(name)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, &FieldError{Field: name, Err: ErrInsufficientHistory, Detail: "no rows"}
	}
	return vals[len(vals)-1], nil
}

// Window returns n values of the named column selected by mode.
func (h *HistoricalRecord) Window(name string, n int, mode RowIndexing) ([]float64, error) {
	vals, err := h.Column(name)
	if err != nil {
		return nil, err
	}
	if len(vals) < n {
		return nil, &FieldError{
			Field:  name,
			Err:    ErrInsufficientHistory,
			Detail: fmt.Sprintf("have %d rows, need %d", len(vals), n),
		}
	}
	switch mode {
	case LastN:
		return vals[len(vals)-n:], nil
	case RowPosition, "":
		return vals[:n], nil
	default:
		return nil, fmt.Errorf("unknown row indexing %q", mode)
	}
}
