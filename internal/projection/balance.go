package projection

import (
	"github.com/theirongolddev/proforma/internal/model"
)

// BalanceSheetProjector projects a five-year balance sheet.
//
// Ratio drivers (COGS, Revenue) and the passthrough line items (Net PP&E,
// Retained Earnings) read a five-row window of the historical record, so
// the record must hold at least five rows.
type BalanceSheetProjector struct {
	assumptions model.AssumptionSet
	history     *model.HistoricalRecord
	opts        Options
}

// NewBalanceSheetProjector binds a projector to one set of inputs.
func NewBalanceSheetProjector(a model.AssumptionSet, h *model.HistoricalRecord, opts Options) *BalanceSheetProjector {
	return &BalanceSheetProjector{assumptions: a, history: h, opts: opts}
}

// Statement implements Projector.
func (p *BalanceSheetProjector) Statement() string { return StatementBalance }

type balanceLines struct {
	years [model.Horizon]int

	inventory                 model.Series
	receivables               model.Series
	otherCurrentAssets        model.Series
	totalCurrentAssets        model.Series
	netPPE                    model.Series
	goodwill                  model.Series
	otherAssets               model.Series
	totalAssets               model.Series
	payables                  model.Series
	accrued                   model.Series
	otherCurrentLiabilities   model.Series
	totalCurrentLiabilities   model.Series
	totalLiabilities          model.Series
	commonStock               model.Series
	retainedEarnings          model.Series
	totalEquity               model.Series
	totalLiabilitiesAndEquity model.Series
}

func (p *BalanceSheetProjector) compute() (*balanceLines, error) {
	var (
		l   balanceLines
		err error
	)
	a := p.assumptions
	mode := p.opts.RowIndexing

	if l.years, err = projectionYears(p.history); err != nil {
		return nil, err
	}

	cogs, err := window(p.history, ColumnCOGS, mode)
	if err != nil {
		return nil, err
	}
	revenue, err := window(p.history, ColumnRevenue, mode)
	if err != nil {
		return nil, err
	}

	// Assets
	daysInventory, err := a.Float(AssumptionDaysInventory)
	if err != nil {
		return nil, err
	}
	l.inventory = perDay(cogs, daysInventory)

	daysAR, err := a.Float(AssumptionDaysReceivable)
	if err != nil {
		return nil, err
	}
	l.receivables = perDay(revenue, daysAR)

	oca, err := a.FloatOr(AssumptionOtherCurrentAssets, 0)
	if err != nil {
		return nil, err
	}
	l.otherCurrentAssets = flat(oca)
	l.totalCurrentAssets = sum(l.inventory, l.receivables, l.otherCurrentAssets)

	grossPPE, err := window(p.history, ColumnGrossPPE, mode)
	if err != nil {
		return nil, err
	}
	accDep, err := window(p.history, ColumnAccumulatedDepreciation, mode)
	if err != nil {
		return nil, err
	}
	l.netPPE = grossPPE.Sub(accDep)

	goodwill, err := p.history.Last(ColumnGoodwill)
	if err != nil {
		return nil, err
	}
	l.goodwill = flat(goodwill)

	otherAssets, err := a.Float(AssumptionOtherAssets)
	if err != nil {
		return nil, err
	}
	l.otherAssets = flat(otherAssets)
	l.totalAssets = sum(l.totalCurrentAssets, l.netPPE, l.goodwill, l.otherAssets)

	// Liabilities
	daysPayable, err := a.Float(AssumptionDaysPayable)
	if err != nil {
		return nil, err
	}
	l.payables = perDay(cogs, daysPayable)

	accruedPct, err := a.Float(AssumptionAccruedPctCOGS)
	if err != nil {
		return nil, err
	}
	l.accrued = cogs.Scale(accruedPct)

	oclPct, err := a.Float(AssumptionOtherCurrentLiabPctCOGS)
	if err != nil {
		return nil, err
	}
	l.otherCurrentLiabilities = cogs.Scale(oclPct)
	l.totalCurrentLiabilities = sum(l.payables, l.accrued, l.otherCurrentLiabilities)

	otherLiabilities, err := a.Float(AssumptionOtherLiabilities)
	if err != nil {
		return nil, err
	}
	l.totalLiabilities = l.totalCurrentLiabilities.Add(flat(otherLiabilities))

	// Equity
	commonStock, err := a.Float(AssumptionCommonStock)
	if err != nil {
		return nil, err
	}
	l.commonStock = flat(commonStock)

	if l.retainedEarnings, err = window(p.history, ColumnRetainedEarnings, mode); err != nil {
		return nil, err
	}
	l.totalEquity = l.commonStock.Add(l.retainedEarnings)
	l.totalLiabilitiesAndEquity = l.totalLiabilities.Add(l.totalEquity)

	return &l, nil
}

func (p *BalanceSheetProjector) line(pick func(*balanceLines) model.Series) (model.Series, error) {
	l, err := p.compute()
	if err != nil {
		return model.Series{}, err
	}
	return pick(l), nil
}

// Years returns the projected year axis.
func (p *BalanceSheetProjector) Years() ([model.Horizon]int, error) {
	return projectionYears(p.history)
}

// Inventory is COGS_i / 365 × Days Inventory.
func (p *BalanceSheetProjector) Inventory() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.inventory })
}

// AccountsReceivable is Revenue_i / 365 × Days Accounts Receivable.
func (p *BalanceSheetProjector) AccountsReceivable() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.receivables })
}

// OtherCurrentAssets is held flat; it defaults to zero when not supplied.
func (p *BalanceSheetProjector) OtherCurrentAssets() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.otherCurrentAssets })
}

// TotalCurrentAssets sums inventory, receivables and other current assets.
func (p *BalanceSheetProjector) TotalCurrentAssets() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.totalCurrentAssets })
}

// NetPPE passes historical Gross PP&E less Accumulated Depreciation through.
func (p *BalanceSheetProjector) NetPPE() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.netPPE })
}

// Goodwill carries the last historical value forward.
func (p *BalanceSheetProjector) Goodwill() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.goodwill })
}

// OtherAssets is held flat from the assumption.
func (p *BalanceSheetProjector) OtherAssets() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.otherAssets })
}

// TotalAssets is TCA + Net PP&E + Goodwill + Other Assets.
func (p *BalanceSheetProjector) TotalAssets() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.totalAssets })
}

// AccountsPayable is COGS_i / 365 × Days Payable.
func (p *BalanceSheetProjector) AccountsPayable() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.payables })
}

// AccruedLiabilities is COGS_i × the accrued percentage.
func (p *BalanceSheetProjector) AccruedLiabilities() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.accrued })
}

// OtherCurrentLiabilities is COGS_i × the other-current-liabilities percentage.
func (p *BalanceSheetProjector) OtherCurrentLiabilities() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.otherCurrentLiabilities })
}

// TotalCurrentLiabilities sums payables, accrued and other current liabilities.
func (p *BalanceSheetProjector) TotalCurrentLiabilities() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.totalCurrentLiabilities })
}

// TotalLiabilities adds the flat Other Liabilities assumption to TCL.
func (p *BalanceSheetProjector) TotalLiabilities() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.totalLiabilities })
}

// CommonStock is held flat from the assumption.
func (p *BalanceSheetProjector) CommonStock() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.commonStock })
}

// TotalShareholdersEquity is Common Stock plus historical Retained Earnings.
func (p *BalanceSheetProjector) TotalShareholdersEquity() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.totalEquity })
}

// TotalLiabilitiesAndEquity is Total Liabilities + Total Shareholders Equity.
func (p *BalanceSheetProjector) TotalLiabilitiesAndEquity() (model.Series, error) {
	return p.line(func(l *balanceLines) model.Series { return l.totalLiabilitiesAndEquity })
}

// CalculateAllLineItems implements Projector.
func (p *BalanceSheetProjector) CalculateAllLineItems() (*model.Table, error) {
	l, err := p.compute()
	if err != nil {
		return nil, err
	}
	return &model.Table{
		Statement: StatementBalance,
		Years:     l.years,
		Columns: []model.Column{
			{Name: LineInventory, Strategy: model.StrategyRatio, Values: l.inventory},
			{Name: LineAccountsReceivable, Strategy: model.StrategyRatio, Values: l.receivables},
			{Name: LineOtherCurrentAssets, Strategy: model.StrategyFlat, Values: l.otherCurrentAssets},
			{Name: LineTotalCurrentAssets, Strategy: model.StrategyAggregate, Values: l.totalCurrentAssets},
			{Name: LineNetPPE, Strategy: model.StrategyPassthrough, Values: l.netPPE},
			{Name: LineGoodwill, Strategy: model.StrategyFlat, Values: l.goodwill},
			{Name: LineOtherAssets, Strategy: model.StrategyFlat, Values: l.otherAssets},
			{Name: LineTotalAssets, Strategy: model.StrategyAggregate, Values: l.totalAssets},
			{Name: LineAccountsPayable, Strategy: model.StrategyRatio, Values: l.payables},
			{Name: LineAccruedLiabilities, Strategy: model.StrategyRatio, Values: l.accrued},
			{Name: LineOtherCurrentLiabilities, Strategy: model.StrategyRatio, Values: l.otherCurrentLiabilities},
			{Name: LineTotalCurrentLiabilities, Strategy: model.StrategyAggregate, Values: l.totalCurrentLiabilities},
			{Name: LineTotalLiabilities, Strategy: model.StrategyAggregate, Values: l.totalLiabilities},
			{Name: LineCommonStock, Strategy: model.StrategyFlat, Values: l.commonStock},
			{Name: LineTotalShareholdersEquity, Strategy: model.StrategyAggregate, Values: l.totalEquity},
			{Name: LineTotalLiabilitiesAndEquity, Strategy: model.StrategyAggregate, Values: l.totalLiabilitiesAndEquity},
		},
	}, nil
}
