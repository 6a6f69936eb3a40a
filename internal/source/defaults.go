package source

import (
	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
)

// DefaultAssumptions is the starting driver set offered by the setup form
// and the dashboard when no assumptions file is configured.
func DefaultAssumptions() model.AssumptionSet {
	return model.NewAssumptionSet(map[string]any{
		projection.AssumptionRevenueGrowthRate:       0.05,
		projection.AssumptionCOGSPctRevenue:          0.4,
		projection.AssumptionSGAPctSales:             0.2,
		projection.AssumptionLIBOR:                   0.01,
		projection.AssumptionTaxRate:                 0.4,
		projection.AssumptionDaysInventory:           45,
		projection.AssumptionDaysReceivable:          30,
		projection.AssumptionDaysPayable:             50,
		projection.AssumptionAccruedPctCOGS:          0.02,
		projection.AssumptionOtherCurrentLiabPctCOGS: 0.02,
		projection.AssumptionOtherCurrentAssets:      1,
		projection.AssumptionOtherAssets:             0,
		projection.AssumptionOtherLiabilities:        2,
		projection.AssumptionCommonStock:             10,
	})
}

// DefaultSnapshot is the sample single-period balance sheet.
func DefaultSnapshot() model.Snapshot {
	return model.Snapshot{
		Assets: map[string]float64{
			projection.AssetCash:               0,
			projection.AssetAccountsReceivable: 13,
			projection.AssetInventory:          8.5,
			projection.AssetOtherCurrent:       1,
		},
		Liabilities: map[string]float64{
			"Accounts Payable":          9,
			"Accrued Liabilities":       2.1,
			"Other Current Liabilities": 0,
			"Revolving Credit Facility": 18.9,
			"Term Loan":                 160,
			"Unsecured Debt":            50,
			"Other Liabilities":         2,
		},
		Equity: map[string]float64{
			"Retained Earnings": 32.7,
			"Common Stock":      10,
		},
		OtherAsset:              model.Scalar(0),
		GrossPPE:                model.Scalar(287.2),
		AccumulatedDepreciation: model.Scalar(30),
		Goodwill:                model.Scalar(5),
	}
}
