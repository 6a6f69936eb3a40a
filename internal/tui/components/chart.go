package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/proforma/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as unicode blocks scaled between their min and
// max, so a series that never crosses zero still shows its shape.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo

	var buf strings.Builder
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkBlocks)-1))
		}
		buf.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// Bar is one labelled horizontal bar.
type Bar struct {
	Label string
	Value float64
	Color lipgloss.Color
}

// HBarChart renders labelled horizontal bars scaled to the largest
// magnitude. Negative values are drawn in the theme's negative color.
func HBarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	valueW := 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		valueW = max(valueW, len(formatChartLabel(b.Value)))
		peak = math.Max(peak, math.Abs(b.Value))
	}
	if peak == 0 {
		peak = 1
	}

	barMax := width - labelW - valueW - 3
	if barMax < 4 {
		barMax = 4
	}

	bg := lipgloss.NewStyle().Background(t.Surface)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	trackStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	lines := make([]string, len(bars))
	for i, b := range bars {
		color := b.Color
		if color == "" {
			color = t.Accent
		}
		if b.Value < 0 {
			color = t.Negative
		}
		n := int(math.Round(math.Abs(b.Value) / peak * float64(barMax)))
		if n == 0 && b.Value != 0 {
			n = 1
		}

		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, b.Label)) +
			bg.Render(" ") +
			lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(strings.Repeat("█", n)) +
			trackStyle.Render(strings.Repeat("░", barMax-n)) +
			bg.Render(" ") +
			valueStyle.Render(fmt.Sprintf("%*s", valueW, formatChartLabel(b.Value)))
	}
	return strings.Join(lines, "\n")
}

func formatChartLabel(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e9:
		return sign + trimUnit(v/1e9) + "B"
	case v >= 1e6:
		return sign + trimUnit(v/1e6) + "M"
	case v >= 1e3:
		return sign + trimUnit(v/1e3) + "k"
	case v == math.Trunc(v):
		return fmt.Sprintf("%s%.0f", sign, v)
	default:
		return fmt.Sprintf("%s%.1f", sign, v)
	}
}

func trimUnit(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
