// Package export writes projected statements to CSV and Excel workbooks.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
)

// Sheet titles, keyed by statement name.
var sheetTitles = map[string]string{
	projection.StatementIncome:  "Income Statement",
	projection.StatementBalance: "Balance Sheet",
	projection.StatementStatic:  "Static Balance Sheet",
}

// SheetTitle returns the workbook sheet name for a statement.
func SheetTitle(statement string) string {
	if s, ok := sheetTitles[statement]; ok {
		return s
	}
	return statement
}

// Amount rounds v to cents for output.
func Amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// WriteCSV writes t with one row per projected year: Year followed by every
// line item in table order.
func WriteCSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"Year"}, t.Names()...)); err != nil {
		return err
	}
	for i, y := range t.Years {
		rec := []string{strconv.Itoa(y)}
		for _, v := range t.Row(i) {
			rec = append(rec, Amount(v).StringFixed(2))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStaticCSV writes a snapshot breakdown as Section,Line Item,Amount.
func WriteStaticCSV(w io.Writer, lines []model.LineItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Section", "Line Item", "Amount"}); err != nil {
		return err
	}
	for _, l := range lines {
		if err := cw.Write([]string{l.Section, l.Name, Amount(l.Amount).StringFixed(2)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Workbook collects statements for a single .xlsx file.
type Workbook struct {
	Tables []*model.Table
	Static []model.LineItem
}

// WriteXLSX saves wb to path. Each projected statement gets a sheet with
// line items as rows and years as columns; a static breakdown, when
// present, gets its own sheet.
func WriteXLSX(path string, wb Workbook) error {
	if len(wb.Tables) == 0 && len(wb.Static) == 0 {
		return fmt.Errorf("nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E7E5"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	first := true
	sheet := func(name string) error {
		if first {
			first = false
			return f.SetSheetName("Sheet1", name)
		}
		_, err := f.NewSheet(name)
		return err
	}

	for _, t := range wb.Tables {
		name := SheetTitle(t.Statement)
		if err := sheet(name); err != nil {
			return err
		}
		if err := writeStatement(f, name, t, header, money); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if len(wb.Static) > 0 {
		name := SheetTitle(projection.StatementStatic)
		if err := sheet(name); err != nil {
			return err
		}
		if err := writeStatic(f, name, wb.Static, header, money); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeStatement(f *excelize.File, sheet string, t *model.Table, header, money int) error {
	head := []any{"Line Item"}
	for _, y := range t.Years {
		head = append(head, y)
	}
	if err := setRow(f, sheet, 1, head); err != nil {
		return err
	}

	for r, c := range t.Columns {
		vals := []any{c.Name}
		for _, v := range c.Values {
			vals = append(vals, Amount(v).InexactFloat64())
		}
		if err := setRow(f, sheet, r+2, vals); err != nil {
			return err
		}
	}

	endCol, err := excelize.ColumnNumberToName(len(head))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", endCol+"1", header); err != nil {
		return err
	}
	if len(t.Columns) > 0 {
		end := fmt.Sprintf("%s%d", endCol, len(t.Columns)+1)
		if err := f.SetCellStyle(sheet, "B2", end, money); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", endCol, 14)
}

func writeStatic(f *excelize.File, sheet string, lines []model.LineItem, header, money int) error {
	if err := setRow(f, sheet, 1, []any{"Section", "Line Item", "Amount"}); err != nil {
		return err
	}
	for i, l := range lines {
		if err := setRow(f, sheet, i+2, []any{l.Section, l.Name, Amount(l.Amount).InexactFloat64()}); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "C2", fmt.Sprintf("C%d", len(lines)+1), money); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "B", 30)
}
