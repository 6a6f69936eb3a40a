// Package projection computes five-year pro-forma statements and the
// single-period static balance sheet.
//
// Every projector is a pure function of its inputs: no I/O, no shared
// state, and the full dependency graph is recomputed on each call.
package projection

import (
	"math"

	"github.com/theirongolddev/proforma/internal/model"
)

// Options tunes how projectors read the historical record.
type Options struct {
	// RowIndexing picks the historical rows behind ratio drivers and
	// passthrough line items. The zero value is model.RowPosition.
	RowIndexing model.RowIndexing `json:"row_indexing,omitempty"`
}

// Projector produces a full five-year statement.
type Projector interface {
	Statement() string
	CalculateAllLineItems() (*model.Table, error)
}

// New returns the projector for statement.
func New(statement string, a model.AssumptionSet, h *model.HistoricalRecord, opts Options) (Projector, bool) {
	switch statement {
	case StatementBalance:
		return NewBalanceSheetProjector(a, h, opts), true
	case StatementIncome:
		return NewIncomeStatementProjector(a, h), true
	default:
		return nil, false
	}
}

func flat(v float64) model.Series {
	var s model.Series
	for i := range s {
		s[i] = v
	}
	return s
}

// growth compounds base over years 1..Horizon.
func growth(base, rate float64) model.Series {
	var s model.Series
	for i := range s {
		s[i] = base * math.Pow(1+rate, float64(i+1))
	}
	return s
}

// perDay applies a days-based ratio to an annual driver.
func perDay(driver model.Series, days float64) model.Series {
	var s model.Series
	for i := range s {
		s[i] = driver[i] / DaysInYear * days
	}
	return s
}

func sum(parts ...model.Series) model.Series {
	var s model.Series
	for _, p := range parts {
		s = s.Add(p)
	}
	return s
}

func window(h *model.HistoricalRecord, column string, mode model.RowIndexing) (model.Series, error) {
	vals, err := h.Window(column, model.Horizon, mode)
	if err != nil {
		return model.Series{}, err
	}
	var s model.Series
	copy(s[:], vals)
	return s, nil
}

func projectionYears(h *model.HistoricalRecord) ([model.Horizon]int, error) {
	last, err := h.LastYear()
	if err != nil {
		return [model.Horizon]int{}, err
	}
	return model.ProjectionYears(last), nil
}
