package projection

// Statement identifiers.
const (
	StatementBalance = "balance"
	StatementIncome  = "income"
	StatementStatic  = "static"
)

// DaysInYear converts days-based ratios into fractions of an annual driver.
const DaysInYear = 365.0

// Assumption names read by the projectors.
const (
	AssumptionDaysInventory           = "Days Inventory"
	AssumptionDaysReceivable          = "Days Accounts Receivable"
	AssumptionDaysPayable             = "Days Payable"
	AssumptionAccruedPctCOGS          = "Accrued Liabilities as % of COGS"
	AssumptionOtherCurrentLiabPctCOGS = "Other Current Liabilities as % of COGS"
	AssumptionOtherCurrentAssets      = "Other Current Assets"
	AssumptionOtherAssets             = "Other Assets"
	AssumptionOtherLiabilities        = "Other Liabilities"
	AssumptionCommonStock             = "Common Stock"
	AssumptionRevenueGrowthRate       = "Revenue Growth Rate"
	AssumptionCOGSPctRevenue          = "COGS as % of Revenue"
	AssumptionSGAPctSales             = "SG&A as % of Sales"
	AssumptionLIBOR                   = "LIBOR"
	AssumptionTaxRate                 = "Tax Rate"
)

// Historical column names.
const (
	ColumnYear                    = "Year"
	ColumnRevenue                 = "Revenue"
	ColumnCOGS                    = "Cost of Goods Sold (COGS)"
	ColumnTotalLiabilities        = "Total Liabilities"
	ColumnCash                    = "Cash"
	ColumnOtherIncome             = "Other Income / (Expense)"
	ColumnGrossPPE                = "Gross PP&E"
	ColumnAccumulatedDepreciation = "Accumulated Depreciation"
	ColumnGoodwill                = "Goodwill"
	ColumnRetainedEarnings        = "Retained Earnings"
)

// Balance sheet line items, in output column order.
const (
	LineInventory                 = "Inventory"
	LineAccountsReceivable        = "Accounts Receivable"
	LineOtherCurrentAssets        = "Other Current Assets"
	LineTotalCurrentAssets        = "Total Current Assets"
	LineNetPPE                    = "Net PP&E"
	LineGoodwill                  = "Goodwill"
	LineOtherAssets               = "Other Assets"
	LineTotalAssets               = "Total Assets"
	LineAccountsPayable           = "Accounts Payable"
	LineAccruedLiabilities        = "Accrued Liabilities"
	LineOtherCurrentLiabilities   = "Other Current Liabilities"
	LineTotalCurrentLiabilities   = "Total Current Liabilities"
	LineTotalLiabilities          = "Total Liabilities"
	LineCommonStock               = "Common Stock"
	LineTotalShareholdersEquity   = "Total Shareholders Equity"
	LineTotalLiabilitiesAndEquity = "Total Liabilities and Equity"
)

// Income statement line items, in output column order.
const (
	LineRevenue         = "Revenue"
	LineCOGS            = "Cost of Goods Sold (COGS)"
	LineGrossProfit     = "Gross Profit"
	LineSGA             = "SG&A Expenses"
	LineOperatingIncome = "Operating Income"
	LineInterestExpense = "Interest Expense"
	LineOtherIncome     = "Other Income / (Expense)"
	LineTaxes           = "Taxes"
	LineNetIncome       = "Net Income"
)

// BalanceSheetAssumptions lists the drivers the balance sheet projector reads.
var BalanceSheetAssumptions = []string{
	AssumptionDaysInventory,
	AssumptionDaysReceivable,
	AssumptionOtherCurrentAssets,
	AssumptionOtherAssets,
	AssumptionDaysPayable,
	AssumptionAccruedPctCOGS,
	AssumptionOtherCurrentLiabPctCOGS,
	AssumptionOtherLiabilities,
	AssumptionCommonStock,
}

// IncomeStatementAssumptions lists the drivers the income projector reads.
var IncomeStatementAssumptions = []string{
	AssumptionRevenueGrowthRate,
	AssumptionCOGSPctRevenue,
	AssumptionSGAPctSales,
	AssumptionLIBOR,
	AssumptionTaxRate,
}
