package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/proforma/internal/tui/theme"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	if got[0] != 4 || got[1] != 3 || got[2] != 3 {
		t.Errorf("LayoutRow(10, 3) = %v, want [4 3 3]", got)
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow(10, 0) should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Short", "Content", 22)
	tall := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(short)
	tallLines := lipgloss.Height(tall)
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tall, short}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("padding line %d has no ANSI background: %q", i, lines[i])
		}
	}

	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
	}
}

func TestTabBarWidths(t *testing.T) {
	theme.SetActive("terminal")

	for active := range Tabs {
		sum := 0
		for i, tab := range Tabs {
			sum += TabVisualWidth(tab, i == active)
		}
		sum += len(Tabs) - 1

		bar := RenderTabBar(active, 120)
		if lipgloss.Width(bar) != 120 {
			t.Errorf("tab bar width = %d, want 120", lipgloss.Width(bar))
		}
		if !strings.Contains(bar, Tabs[active].Name[1:]) {
			t.Errorf("active tab %q missing from bar", Tabs[active].Name)
		}
		if sum > 120 {
			t.Errorf("tabs need %d columns", sum)
		}
	}

	if TabIdxByKey('b') != 1 || TabIdxByKey('z') != -1 {
		t.Error("TabIdxByKey mismatch")
	}
}

func TestSparkline(t *testing.T) {
	got := Sparkline([]float64{-10, 0, 10}, theme.Active.Accent)
	for _, r := range []string{"▁", "▄", "█"} {
		if !strings.Contains(got, r) {
			t.Errorf("sparkline %q missing %q", got, r)
		}
	}
	if Sparkline(nil, theme.Active.Accent) != "" {
		t.Error("empty sparkline should render nothing")
	}
}

func TestHBarChart(t *testing.T) {
	out := HBarChart([]Bar{
		{Label: "Assets", Value: 300},
		{Label: "Liabilities", Value: -150},
	}, 40)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lipgloss.Width(lines[0]) != lipgloss.Width(lines[1]) {
		t.Errorf("bars are ragged: %d vs %d", lipgloss.Width(lines[0]), lipgloss.Width(lines[1]))
	}
	if strings.Count(lines[0], "█") != 2*strings.Count(lines[1], "█") {
		t.Errorf("bar lengths not proportional:\n%s", out)
	}
	if !strings.Contains(lines[1], "-150") {
		t.Errorf("negative label missing: %q", lines[1])
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{12.5, "12.5"},
		{1500, "1.5k"},
		{-2000000, "-2M"},
		{3e9, "3B"},
	}
	for _, tt := range tests {
		if got := formatChartLabel(tt.in); got != tt.want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusBarWidth(t *testing.T) {
	bar := RenderStatusBar(100, Status{RowIndexing: "row-position", Years: "2018-2022", Runs: 3})
	if w := lipgloss.Width(bar); w != 100 {
		t.Errorf("status bar width = %d, want 100", w)
	}
	if !strings.Contains(bar, "3 runs") {
		t.Errorf("status bar missing run count: %q", bar)
	}
}
