package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/proforma/internal/store"
	"github.com/theirongolddev/proforma/internal/tui/components"
	"github.com/theirongolddev/proforma/internal/tui/theme"
)

func (a App) renderRunsTab(cw int) string {
	if a.in.Ledger == nil {
		return components.ContentCard("Runs", mutedLine("Run ledger disabled."), cw)
	}
	if len(a.runs) == 0 {
		return components.ContentCard("Runs", mutedLine("No runs recorded yet."), cw)
	}
	title := fmt.Sprintf("Runs (latest %d of %d)", len(a.runs), a.runCount)
	return components.ContentCard(title, runsBody(a.runs), cw)
}

func runsBody(runs []store.Run) string {
	t := theme.Active
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	cell := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	ok := lipgloss.NewStyle().Foreground(t.Positive).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)
	bad := lipgloss.NewStyle().Foreground(t.Negative).Background(t.Surface)

	const row = "%-10s %-10s %-9s %-7s %-13s "
	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf(row+"%s", "Run", "Time", "Statement", "Source", "Mode", "Outcome")))

	for _, r := range runs {
		b.WriteString("\n")
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		mode := r.RowIndexing
		if mode == "" {
			mode = "-"
		}
		b.WriteString(muted.Render(fmt.Sprintf("%-10s ", id)))
		b.WriteString(cell.Render(fmt.Sprintf("%-10s %-9s %-7s %-13s ",
			r.CreatedAt.Local().Format("15:04:05"), r.Statement, r.Source, mode)))

		switch {
		case r.Failed():
			b.WriteString(bad.Render(r.ErrorKind))
		case r.ImbalancedYears > 0:
			b.WriteString(warn.Render(fmt.Sprintf("%d year(s) unbalanced", r.ImbalancedYears)))
		default:
			b.WriteString(ok.Render("ok"))
		}
	}
	return b.String()
}
