package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/proforma/internal/tui/theme"
)

// ProgressBar renders a solid progress bar followed by its percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clamp01(pct)

	color := t.Accent
	if pct >= 1 {
		color = t.Positive
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(pct) + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}

// BalanceGauge shows how far off balance a year is relative to total assets.
// A zero gap renders as a full bar in the positive color.
func BalanceGauge(label string, gap, totalAssets float64, width int) string {
	t := theme.Active

	ratio := 0.0
	if totalAssets != 0 {
		ratio = clamp01(abs(gap) / abs(totalAssets))
	}

	color := t.Positive
	switch {
	case ratio >= 0.05:
		color = t.Negative
	case ratio > 0:
		color = t.Warning
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	barW := width - lipgloss.Width(label) - 2
	if barW < 4 {
		barW = 4
	}
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	return labelStyle.Render(label) + spaceStyle.Render(" ") + bar.ViewAs(1-ratio)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
