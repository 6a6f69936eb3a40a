package projection

import (
	"github.com/theirongolddev/proforma/internal/model"
)

// IncomeStatementProjector projects a five-year income statement. It only
// reads the final historical row, so a single row of history is enough.
type IncomeStatementProjector struct {
	assumptions model.AssumptionSet
	history     *model.HistoricalRecord
}

// NewIncomeStatementProjector binds a projector to one set of inputs.
func NewIncomeStatementProjector(a model.AssumptionSet, h *model.HistoricalRecord) *IncomeStatementProjector {
	return &IncomeStatementProjector{assumptions: a, history: h}
}

// Statement implements Projector.
func (p *IncomeStatementProjector) Statement() string { return StatementIncome }

type incomeLines struct {
	years [model.Horizon]int

	revenue         model.Series
	cogs            model.Series
	grossProfit     model.Series
	sga             model.Series
	operatingIncome model.Series
	interest        model.Series
	otherIncome     model.Series
	taxes           model.Series
	netIncome       model.Series
}

func (p *IncomeStatementProjector) compute() (*incomeLines, error) {
	var (
		l   incomeLines
		err error
	)
	a := p.assumptions
	h := p.history

	if l.years, err = projectionYears(h); err != nil {
		return nil, err
	}

	lastRevenue, err := h.Last(ColumnRevenue)
	if err != nil {
		return nil, err
	}
	rate, err := a.Float(AssumptionRevenueGrowthRate)
	if err != nil {
		return nil, err
	}
	l.revenue = growth(lastRevenue, rate)

	cogsPct, err := a.Float(AssumptionCOGSPctRevenue)
	if err != nil {
		return nil, err
	}
	l.cogs = l.revenue.Scale(cogsPct)
	l.grossProfit = l.revenue.Sub(l.cogs)

	sgaPct, err := a.Float(AssumptionSGAPctSales)
	if err != nil {
		return nil, err
	}
	l.sga = l.revenue.Scale(sgaPct)
	l.operatingIncome = l.grossProfit.Sub(l.sga)

	// Net debt comes from the last historical row and is not re-projected.
	liabilities, err := h.Last(ColumnTotalLiabilities)
	if err != nil {
		return nil, err
	}
	cash, err := h.Last(ColumnCash)
	if err != nil {
		return nil, err
	}
	libor, err := a.Float(AssumptionLIBOR)
	if err != nil {
		return nil, err
	}
	l.interest = flat((liabilities - cash) * libor)

	other, err := h.Last(ColumnOtherIncome)
	if err != nil {
		return nil, err
	}
	l.otherIncome = flat(other)

	taxRate, err := a.Float(AssumptionTaxRate)
	if err != nil {
		return nil, err
	}
	pretax := l.operatingIncome.Sub(l.interest).Add(l.otherIncome)
	l.taxes = pretax.Scale(taxRate)
	l.netIncome = pretax.Sub(l.taxes)

	return &l, nil
}

func (p *IncomeStatementProjector) line(pick func(*incomeLines) model.Series) (model.Series, error) {
	l, err := p.compute()
	if err != nil {
		return model.Series{}, err
	}
	return pick(l), nil
}

// Years returns the projected year axis.
func (p *IncomeStatementProjector) Years() ([model.Horizon]int, error) {
	return projectionYears(p.history)
}

// Revenue compounds the last historical revenue by the growth rate.
func (p *IncomeStatementProjector) Revenue() (model.Series, error) {
	return p.line(func(l *incomeLines) model.Series { return l.revenue })
}

// COGS is Revenue × COGS as % of Revenue.
func (p *IncomeStatementProjector) COGS() (model.Series, error) {
	return p.line(func(l *incomeLines) model.Series { return l.cogs })
}

func (p *IncomeStatementProjector) GrossProfit() (model.Series, error) {
	return p.line(func(l *incomeLines) model.Series { return l.grossProfit })
}

// SGA is Revenue × SG&A as % of Sales.
func (p *IncomeStatementProjector) SGA() (model.Series, error) {
	return p.line(func(l *incomeLines) model.Series { return l.sga })
}

func (p *IncomeStatementProjector) OperatingIncome() (model.Series, error) {
	return p.line(func(l *incomeLines) model.Series { return l.operatingIncome })
}

// InterestExpense is (Total Liabilities - Cash) × LIBOR from the last
// historical row, the same in every year.
func (p *IncomeStatementProjector) InterestExpense() (model.Series, error) {
	return p.line(func(l *incomeLines) model.Series { return l.interest })
}

func (p *IncomeStatementProjector) OtherIncome() (model.Series, error) {
	return p.line(func(l *incomeLines) model.Series { return l.otherIncome })
}

func (p *IncomeStatementProjector) Taxes() (model.Series, error) {
	return p.line(func(l *incomeLines) model.Series { return l.taxes })
}

func (p *IncomeStatementProjector) NetIncome() (model.Series, error) {
	return p.line(func(l *incomeLines) model.Series { return l.netIncome })
}

// CalculateAllLineItems implements Projector.
func (p *IncomeStatementProjector) CalculateAllLineItems() (*model.Table, error) {
	l, err := p.compute()
	if err != nil {
		return nil, err
	}
	return &model.Table{
		Statement: StatementIncome,
		Years:     l.years,
		Columns: []model.Column{
			{Name: LineRevenue, Strategy: model.StrategyGrowth, Values: l.revenue},
			{Name: LineCOGS, Strategy: model.StrategyRatio, Values: l.cogs},
			{Name: LineGrossProfit, Strategy: model.StrategyAggregate, Values: l.grossProfit},
			{Name: LineSGA, Strategy: model.StrategyRatio, Values: l.sga},
			{Name: LineOperatingIncome, Strategy: model.StrategyAggregate, Values: l.operatingIncome},
			{Name: LineInterestExpense, Strategy: model.StrategyFlat, Values: l.interest},
			{Name: LineOtherIncome, Strategy: model.StrategyFlat, Values: l.otherIncome},
			{Name: LineTaxes, Strategy: model.StrategyRatio, Values: l.taxes},
			{Name: LineNetIncome, Strategy: model.StrategyAggregate, Values: l.netIncome},
		},
	}, nil
}
