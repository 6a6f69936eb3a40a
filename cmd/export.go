package cmd

import (
	"errors"
	"fmt"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/proforma/internal/export"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/store"
)

var (
	flagXLSX          string
	flagExportStatic  bool
	flagExportPartial bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write both projected statements to an .xlsx workbook",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagXLSX, "xlsx", "proforma.xlsx", "Workbook path")
	exportCmd.Flags().BoolVar(&flagExportStatic, "static", false, "Add the static balance sheet as a third sheet")
	exportCmd.Flags().BoolVar(&flagExportPartial, "partial", false, "Write whatever statements succeed")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	h, a, opts, err := projectionInputs()
	if err != nil {
		return err
	}
	ledger, err := store.Open()
	if err != nil {
		return err
	}
	defer ledger.Close()

	var wb export.Workbook
	var errs []error
	for _, st := range []string{projection.StatementIncome, projection.StatementBalance} {
		table, err := project(ledger, st, a, h, opts, store.SourceCLI)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		wb.Tables = append(wb.Tables, table)
	}

	if flagExportStatic {
		snap, err := loadSnapshot()
		if err == nil {
			var sheet *projection.StaticBalanceSheet
			if sheet, err = projection.NewStaticBalanceSheet(snap); err == nil {
				wb.Static = sheet.Lines()
			}
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("static balance sheet: %w", err))
		}
	}

	if len(errs) > 0 && !flagExportPartial {
		return errors.Join(errs...)
	}
	if err := export.WriteXLSX(flagXLSX, wb); err != nil {
		return err
	}

	sheets := len(wb.Tables)
	if len(wb.Static) > 0 {
		sheets++
	}
	log.Info().Str("path", flagXLSX).Int("sheets", sheets).Msg("wrote workbook")
	fmt.Printf("  Wrote %s (%d sheets)\n", flagXLSX, sheets)
	return errors.Join(errs...)
}
