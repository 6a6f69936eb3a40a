package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/proforma/internal/tui/theme"
)

// Status is what the bottom bar reports.
type Status struct {
	RowIndexing string
	Years       string // e.g. "2018-2022"
	Runs        int
	Message     string
	Error       bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	left := base.Render(" ") +
		key.Render("?") + base.Render(" help  ") +
		key.Render("e") + base.Render(" edit drivers  ") +
		key.Render("m") + base.Render(" mode  ") +
		key.Render("w") + base.Render(" workbook  ") +
		key.Render("q") + base.Render(" quit")

	right := ""
	switch {
	case st.Message != "" && st.Error:
		right = lipgloss.NewStyle().Foreground(t.Negative).Background(t.Surface).Render(st.Message + " ")
	case st.Message != "":
		right = lipgloss.NewStyle().Foreground(t.Positive).Background(t.Surface).Render(st.Message + " ")
	default:
		info := st.RowIndexing
		if st.Years != "" {
			info = st.Years + " · " + info
		}
		info += " · " + pluralRuns(st.Runs) + " "
		right = base.Render(info)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	gap := lipgloss.NewStyle().Background(t.Surface).Width(padding).Render("")

	return lipgloss.NewStyle().
		Background(t.Surface).
		MaxWidth(width).
		Render(left + gap + right)
}

func pluralRuns(n int) string {
	if n == 1 {
		return "1 run"
	}
	return strconv.Itoa(n) + " runs"
}
