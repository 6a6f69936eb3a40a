package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/proforma/internal/cli"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/tui/components"
	"github.com/theirongolddev/proforma/internal/tui/theme"
)

func (a App) renderDriversTab(cw int) string {
	halves := components.LayoutRow(cw, 2)
	return components.CardRow([]string{
		components.ContentCard("Drivers", a.driversBody(components.CardInnerWidth(halves[0])), halves[0]),
		components.ContentCard("Historical Record", a.historyBody(components.CardInnerWidth(halves[1])), halves[1]),
	})
}

func (a App) driversBody(width int) string {
	t := theme.Active
	section := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	missing := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	valueW := 12
	labelW := max(10, width-valueW)

	var b strings.Builder
	group := func(title string, names []string) {
		b.WriteString(section.Render(title))
		b.WriteString("\n")
		for _, n := range names {
			b.WriteString(label.Render(fmt.Sprintf("  %-*s", labelW-2, truncStr(n, labelW-2))))
			if v, ok := a.in.Assumptions.Raw(n); ok {
				b.WriteString(value.Render(fmt.Sprintf("%*s", valueW, cli.FormatDriver(v))))
			} else {
				b.WriteString(missing.Render(fmt.Sprintf("%*s", valueW, "missing")))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	group("Income Statement", projection.IncomeStatementAssumptions)
	group("Balance Sheet", projection.BalanceSheetAssumptions)

	known := make(map[string]bool)
	for _, names := range [][]string{projection.IncomeStatementAssumptions, projection.BalanceSheetAssumptions} {
		for _, n := range names {
			known[n] = true
		}
	}
	var extra []string
	for _, n := range a.in.Assumptions.Names() {
		if !known[n] {
			extra = append(extra, n)
		}
	}
	if len(extra) > 0 {
		group("Unused", extra)
	}

	b.WriteString(dim.Render("press e to edit"))
	return b.String()
}

func (a App) historyBody(width int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bg := lipgloss.NewStyle().Background(t.Surface)

	h := a.in.History
	if h == nil {
		return dim.Render("No historical data loaded.")
	}

	years := h.Years()
	var b strings.Builder
	if len(years) > 0 {
		b.WriteString(label.Render("Years  "))
		b.WriteString(value.Render(fmt.Sprintf("%d-%d (%d rows)", years[0], years[len(years)-1], len(years))))
		b.WriteString("\n")
	}
	b.WriteString(label.Render("Mode   "))
	b.WriteString(value.Render(string(rowIndexing(a.in.Options))))
	b.WriteString("\n\n")

	sparkW := 10
	valueW := 14
	labelW := max(10, width-valueW-sparkW-1)
	for _, name := range h.ColumnNames() {
		vals, err := h.Column(name)
		if err != nil || len(vals) == 0 {
			continue
		}
		b.WriteString(label.Render(fmt.Sprintf("%-*s", labelW, truncStr(name, labelW))))
		b.WriteString(value.Render(fmt.Sprintf("%*s", valueW, cli.FormatAmount(vals[len(vals)-1]))))
		b.WriteString(bg.Render(" "))
		b.WriteString(components.Sparkline(vals, t.Accent))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
