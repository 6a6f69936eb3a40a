package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{6.849315, "6.85"},
		{1234.5, "1,234.50"},
		{-3, "(3.00)"},
		{-1234567.891, "(1,234,567.89)"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDriver(t *testing.T) {
	if got := FormatDriver(0.05); got != "5.0%" {
		t.Errorf("FormatDriver(0.05) = %q, want 5.0%%", got)
	}
	if got := FormatDriver(45.0); got != "45" {
		t.Errorf("FormatDriver(45.0) = %q, want 45", got)
	}
	if got := FormatDriver("Default Value"); got != `"Default Value"` {
		t.Errorf("FormatDriver(text) = %q", got)
	}
}

func TestStatementTable(t *testing.T) {
	tbl := &model.Table{
		Statement: "income",
		Years:     model.ProjectionYears(2022),
		Columns: []model.Column{
			{Name: "Revenue", Strategy: model.StrategyGrowth, Values: model.Series{105, 110.25, 115.76, 121.55, 127.63}},
			{Name: "Gross Profit", Strategy: model.StrategyAggregate, Values: model.Series{63, 66, 69, 73, 77}},
		},
	}

	out := StatementTable("Income Statement", tbl)
	if len(out.Headers) != 7 || out.Headers[1] != "2023" || out.Headers[5] != "2027" {
		t.Fatalf("headers = %v", out.Headers)
	}
	// Revenue, separator, Gross Profit
	if len(out.Rows) != 3 || out.Rows[1][0] != Separator {
		t.Fatalf("rows = %v", out.Rows)
	}
	if !out.Totals[2] {
		t.Error("aggregate row should be marked as a total")
	}

	rendered := RenderTable(out)
	for _, want := range []string{"Income Statement", "Revenue", "127.63", "2027", "╭", "╯"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered table missing %q", want)
		}
	}
}

func TestStaticTableSections(t *testing.T) {
	b, err := projection.NewStaticBalanceSheet(model.Snapshot{
		Assets: map[string]float64{
			"Cash": 0, "Accounts Receivable": 13, "inventory": 8.5, "Other Current Assets": 1,
		},
		OtherAsset:              model.Scalar(0),
		GrossPPE:                model.Scalar(287.2),
		AccumulatedDepreciation: model.Scalar(30),
		Goodwill:                model.Scalar(5),
	})
	if err != nil {
		t.Fatal(err)
	}
	out := StaticTable("Balance Sheet", b.Lines())
	if out.Rows[0][0] == "" {
		t.Error("first row should carry its section label")
	}
	found := false
	for r, row := range out.Rows {
		if len(row) == 3 && row[1] == "Total Assets" {
			found = true
			if row[2] != "284.70" {
				t.Errorf("Total Assets = %q, want 284.70", row[2])
			}
			if !out.Totals[r] {
				t.Error("Total Assets should be marked as a total")
			}
		}
	}
	if !found {
		t.Error("Total Assets row missing")
	}
}

func TestRenderBalanceCheck(t *testing.T) {
	if got := RenderBalanceCheck(nil); !strings.Contains(got, "Balanced") {
		t.Errorf("empty check = %q", got)
	}
	got := RenderBalanceCheck([]projection.Imbalance{{
		Year:                      2024,
		TotalAssets:               decimal.RequireFromString("100.00"),
		TotalLiabilitiesAndEquity: decimal.RequireFromString("90.50"),
		Difference:                decimal.RequireFromString("9.50"),
	}})
	if !strings.Contains(got, "2024") || !strings.Contains(got, "9.50") {
		t.Errorf("imbalance line = %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{1, 2, 3, 4, 5}); got != "▁▂▄▆█" {
		t.Errorf("rising sparkline = %q", got)
	}
	if got := RenderSparkline([]float64{7, 7, 7}); got != "▁▁▁" {
		t.Errorf("flat sparkline = %q", got)
	}
}
