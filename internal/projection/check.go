package projection

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/proforma/internal/model"
)

// DefaultTolerance is one cent.
var DefaultTolerance = decimal.New(1, -2)

// Imbalance is a projected year where Total Assets and Total Liabilities
// and Equity differ by more than the tolerance.
type Imbalance struct {
	Year                      int             `json:"year"`
	TotalAssets               decimal.Decimal `json:"total_assets"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"total_liabilities_and_equity"`
	Difference                decimal.Decimal `json:"difference"`
}

// CheckBalance compares Total Assets with Total Liabilities and Equity for
// each projected year. The projection itself never enforces the equality;
// this only reports where it does not hold.
func CheckBalance(t *model.Table, tolerance decimal.Decimal) ([]Imbalance, error) {
	assets, ok := t.Lookup(LineTotalAssets)
	if !ok {
		return nil, &model.FieldError{Field: LineTotalAssets, Err: model.ErrMissingField}
	}
	tle, ok := t.Lookup(LineTotalLiabilitiesAndEquity)
	if !ok {
		return nil, &model.FieldError{Field: LineTotalLiabilitiesAndEquity, Err: model.ErrMissingField}
	}

	var out []Imbalance
	for i := range t.Years {
		ta := decimal.NewFromFloat(assets.Values[i])
		tl := decimal.NewFromFloat(tle.Values[i])
		diff := ta.Sub(tl)
		if diff.Abs().GreaterThan(tolerance) {
			out = append(out, Imbalance{
				Year:                      t.Years[i],
				TotalAssets:               ta.Round(2),
				TotalLiabilitiesAndEquity: tl.Round(2),
				Difference:                diff.Round(2),
			})
		}
	}
	return out, nil
}
