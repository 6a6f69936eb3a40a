package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/proforma/internal/cli"
	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/tui/components"
	"github.com/theirongolddev/proforma/internal/tui/theme"
)

const yearColWidth = 13

func (a App) renderIncomeTab(cw int) string {
	t := theme.Active
	if err := a.errs[projection.StatementIncome]; err != nil {
		return errorCard("Income Statement", err, cw)
	}
	if a.income == nil {
		return components.ContentCard("Income Statement", mutedLine("No projection yet."), cw)
	}

	last := model.Horizon - 1
	rev, _ := a.income.Lookup(projection.LineRevenue)
	gross, _ := a.income.Lookup(projection.LineGrossProfit)
	op, _ := a.income.Lookup(projection.LineOperatingIncome)
	net, _ := a.income.Lookup(projection.LineNetIncome)
	year := strconv.Itoa(a.income.Years[last])

	metrics := []components.Metric{
		{Label: "Revenue " + year, Value: cli.FormatAmount(rev.Values[last]), Delta: cli.FormatDelta(rev.Values[last], rev.Values[0]) + " since " + strconv.Itoa(a.income.Years[0])},
		{Label: "Gross Margin " + year, Value: margin(gross.Values[last], rev.Values[last])},
		{Label: "Operating Income " + year, Value: cli.FormatAmount(op.Values[last]), Color: signColor(op.Values[last])},
		{Label: "Net Income " + year, Value: cli.FormatAmount(net.Values[last]), Color: signColor(net.Values[last]), Delta: margin(net.Values[last], rev.Values[last]) + " net margin"},
	}

	bars := make([]components.Bar, model.Horizon)
	for i := range bars {
		bars[i] = components.Bar{Label: strconv.Itoa(a.income.Years[i]), Value: net.Values[i], Color: t.Positive}
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Income Statement", statementBody(a.income, components.CardInnerWidth(cw)), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Net Income by Year", components.HBarChart(bars, components.CardInnerWidth(cw)), cw))
	return b.String()
}

func (a App) renderBalanceTab(cw int) string {
	t := theme.Active
	if err := a.errs[projection.StatementBalance]; err != nil {
		return errorCard("Balance Sheet", err, cw)
	}
	if a.balance == nil {
		return components.ContentCard("Balance Sheet", mutedLine("No projection yet."), cw)
	}

	last := model.Horizon - 1
	ta, _ := a.balance.Lookup(projection.LineTotalAssets)
	tl, _ := a.balance.Lookup(projection.LineTotalLiabilities)
	eq, _ := a.balance.Lookup(projection.LineTotalShareholdersEquity)
	tle, _ := a.balance.Lookup(projection.LineTotalLiabilitiesAndEquity)
	year := strconv.Itoa(a.balance.Years[last])

	check := components.Metric{Label: "Balance Check", Value: "Balanced", Color: t.Positive, Delta: "all five years"}
	if n := len(a.imbalances); n > 0 {
		check = components.Metric{
			Label: "Balance Check",
			Value: fmt.Sprintf("%d of %d years off", n, model.Horizon),
			Color: t.Negative,
			Delta: "largest gap " + largestGap(a.imbalances),
		}
	}
	metrics := []components.Metric{
		{Label: "Total Assets " + year, Value: cli.FormatAmount(ta.Values[last]), Color: t.Asset},
		{Label: "Total Liabilities " + year, Value: cli.FormatAmount(tl.Values[last]), Color: t.Liability},
		{Label: "Equity " + year, Value: cli.FormatAmount(eq.Values[last]), Color: t.Equity},
		check,
	}

	innerW := components.CardInnerWidth(cw)
	gauges := make([]string, model.Horizon)
	for i := range gauges {
		label := fmt.Sprintf("%d  gap %12s", a.balance.Years[i], cli.FormatAmount(ta.Values[i]-tle.Values[i]))
		gauges[i] = components.BalanceGauge(label, ta.Values[i]-tle.Values[i], ta.Values[i], innerW)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Balance Sheet", statementBody(a.balance, innerW), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Assets vs Liabilities and Equity", strings.Join(gauges, "\n"), cw))
	return b.String()
}

func (a App) renderStaticTab(cw int) string {
	t := theme.Active
	if err := a.errs[projection.StatementStatic]; err != nil {
		return errorCard("Static Balance Sheet", err, cw)
	}
	if a.static == nil {
		return components.ContentCard("Static Balance Sheet", mutedLine("No snapshot loaded. Pass --snapshot or set general.snapshot_path."), cw)
	}

	s := a.static
	diff := s.TotalAssets() - s.TotalLiabilitiesAndEquity()
	diffColor := t.Positive
	if diff != 0 {
		diffColor = t.Negative
	}
	metrics := []components.Metric{
		{Label: "Total Assets", Value: cli.FormatAmount(s.TotalAssets()), Color: t.Asset},
		{Label: "Liabilities and Equity", Value: cli.FormatAmount(s.TotalLiabilitiesAndEquity()), Color: t.Equity},
		{Label: "Difference", Value: cli.FormatAmount(diff), Color: diffColor},
	}

	bars := []components.Bar{
		{Label: projection.LineTotalCurrentAssets, Value: s.TotalCurrentAssets(), Color: t.Asset},
		{Label: projection.LineNetPPE, Value: s.NetPPE(), Color: t.Asset},
		{Label: projection.LineTotalLiabilities, Value: s.TotalLiabilities(), Color: t.Liability},
		{Label: "Total Equity", Value: s.TotalEquity(), Color: t.Equity},
	}

	halves := components.LayoutRow(cw, 2)
	row := components.CardRow([]string{
		components.ContentCard("Snapshot", staticBody(s.Lines(), components.CardInnerWidth(halves[0])), halves[0]),
		components.ContentCard("Composition", components.HBarChart(bars, components.CardInnerWidth(halves[1])), halves[1]),
	})

	return components.MetricCardRow(metrics, cw) + "\n" + row
}

// statementBody lays out a projected statement with one column per year
// and a trend sparkline, themed for the card surface.
func statementBody(tbl *model.Table, width int) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	total := value.Bold(true)
	rule := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	labelW := 0
	for _, c := range tbl.Columns {
		labelW = max(labelW, lipgloss.Width(c.Name))
	}
	trendW := model.Horizon + 2
	lineW := min(width, labelW+model.Horizon*yearColWidth+trendW)

	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("%-*s", labelW, "")))
	for _, y := range tbl.Years {
		b.WriteString(header.Render(fmt.Sprintf("%*d", yearColWidth, y)))
	}
	b.WriteString(header.Render(fmt.Sprintf("%*s", trendW, "Trend")))

	for i, c := range tbl.Columns {
		b.WriteString("\n")
		agg := c.Strategy == model.StrategyAggregate
		if agg && i > 0 {
			b.WriteString(rule.Render(strings.Repeat("─", lineW)))
			b.WriteString("\n")
		}
		ls, vs := label, value
		if agg {
			ls, vs = total, total
		}
		b.WriteString(ls.Render(fmt.Sprintf("%-*s", labelW, c.Name)))
		for _, v := range c.Values {
			style := vs
			if v < 0 {
				style = vs.Foreground(t.Negative)
			}
			b.WriteString(style.Render(fmt.Sprintf("%*s", yearColWidth, cli.FormatAmount(v))))
		}
		b.WriteString(bg.Render("  "))
		b.WriteString(components.Sparkline(c.Values[:], t.Accent))
	}
	return b.String()
}

func staticBody(lines []model.LineItem, width int) string {
	t := theme.Active
	section := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	total := value.Bold(true)

	amountW := 14
	labelW := max(10, width-amountW)

	var b strings.Builder
	current := ""
	for i, l := range lines {
		if l.Section != current {
			if i > 0 {
				b.WriteString("\n")
			}
			current = l.Section
			b.WriteString(section.Render(l.Section))
			b.WriteString("\n")
		}
		ls, vs := label, value
		if l.Total {
			ls, vs = total, total
		}
		b.WriteString(ls.Render(fmt.Sprintf("  %-*s", labelW-2, truncStr(l.Name, labelW-2))))
		b.WriteString(vs.Render(fmt.Sprintf("%*s", amountW, cli.FormatAmount(l.Amount))))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func errorCard(title string, err error, cw int) string {
	t := theme.Active
	kind := lipgloss.NewStyle().Foreground(t.Negative).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := kind.Render(model.ErrorKind(err)) + "\n" + muted.Render(err.Error())
	if f := model.ErrorField(err); f != "" {
		body += "\n\n" + muted.Render("Fix ") + kind.Render(f) + muted.Render(" and press c, or e to edit drivers.")
	}
	return components.ContentCard(title, body, cw)
}

func mutedLine(s string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(s)
}

func signColor(v float64) lipgloss.Color {
	if v < 0 {
		return theme.Active.Negative
	}
	return theme.Active.Positive
}

func margin(part, whole float64) string {
	if whole == 0 {
		return "n/a"
	}
	return cli.FormatPercent(part / whole)
}

func largestGap(imbalances []projection.Imbalance) string {
	worst := imbalances[0].Difference
	for _, im := range imbalances[1:] {
		if im.Difference.Abs().GreaterThan(worst.Abs()) {
			worst = im.Difference
		}
	}
	return cli.FormatDecimal(worst)
}

func truncStr(s string, limit int) string {
	runes := []rune(s)
	if limit <= 1 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
