package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
)

func sampleTable() *model.Table {
	return &model.Table{
		Statement: projection.StatementIncome,
		Years:     model.ProjectionYears(2022),
		Columns: []model.Column{
			{Name: "Revenue", Strategy: model.StrategyGrowth, Values: model.Series{105, 110.25, 115.7625, 121.550625, 127.62815625}},
			{Name: "Net Income", Strategy: model.StrategyAggregate, Values: model.Series{-1.005, 2, 3, 4, 5}},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTable()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want header + 5 years", len(rows))
	}
	if got := rows[0]; got[0] != "Year" || got[1] != "Revenue" || got[2] != "Net Income" {
		t.Errorf("header = %v", got)
	}
	if rows[1][0] != "2023" || rows[5][0] != "2027" {
		t.Errorf("year column = %s..%s, want 2023..2027", rows[1][0], rows[5][0])
	}
	if rows[5][1] != "127.63" {
		t.Errorf("2027 revenue = %q, want 127.63", rows[5][1])
	}
	if rows[1][2] != "-1.01" {
		t.Errorf("2023 net income = %q, want -1.01", rows[1][2])
	}
}

func TestWriteStaticCSV(t *testing.T) {
	var buf bytes.Buffer
	lines := []model.LineItem{
		{Section: "Assets", Name: "Total Assets", Amount: 284.7, Total: true},
	}
	if err := WriteStaticCSV(&buf, lines); err != nil {
		t.Fatal(err)
	}
	want := "Section,Line Item,Amount\nAssets,Total Assets,284.70\n"
	if buf.String() != want {
		t.Errorf("static csv = %q, want %q", buf.String(), want)
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proforma.xlsx")
	balance := sampleTable()
	balance.Statement = projection.StatementBalance

	err := WriteXLSX(path, Workbook{
		Tables: []*model.Table{sampleTable(), balance},
		Static: []model.LineItem{{Section: "Assets", Name: "Total Assets", Amount: 284.7}},
	})
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{"Income Statement", "Balance Sheet", "Static Balance Sheet"}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, sheets[i], want[i])
		}
	}

	if v, _ := f.GetCellValue("Income Statement", "F1"); v != "2027" {
		t.Errorf("F1 = %q, want 2027", v)
	}
	if v, _ := f.GetCellValue("Income Statement", "A2"); v != "Revenue" {
		t.Errorf("A2 = %q, want Revenue", v)
	}
	if v, _ := f.GetCellValue("Static Balance Sheet", "B2"); v != "Total Assets" {
		t.Errorf("static B2 = %q", v)
	}
}

func TestWriteXLSXEmpty(t *testing.T) {
	if err := WriteXLSX(filepath.Join(t.TempDir(), "x.xlsx"), Workbook{}); err == nil {
		t.Error("empty workbook should fail")
	}
}
