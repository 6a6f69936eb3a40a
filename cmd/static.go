package cmd

import (
	"fmt"
	"io"
	"math"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/proforma/internal/cli"
	"github.com/theirongolddev/proforma/internal/export"
	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/store"
)

var flagStaticFormat string

var staticCmd = &cobra.Command{
	Use:   "static",
	Short: "Aggregate a single-period balance sheet snapshot",
	RunE:  runStatic,
}

func init() {
	staticCmd.Flags().StringVarP(&flagStaticFormat, "format", "f", "table", "Output format: table or csv")
	staticCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(staticCmd)
}

func runStatic(_ *cobra.Command, _ []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	ledger, err := store.Open()
	if err != nil {
		return err
	}
	defer ledger.Close()

	run := store.Run{Statement: projection.StatementStatic, Source: store.SourceCLI}
	sheet, err := projection.NewStaticBalanceSheet(snap)
	if err != nil {
		run.Error, run.ErrorKind = err.Error(), model.ErrorKind(err)
	} else {
		run.Static = sheet.Lines()
	}
	if _, recErr := ledger.Record(run); recErr != nil {
		log.Error().Err(recErr).Msg("recording run")
	}
	if err != nil {
		return fmt.Errorf("static balance sheet: %w", err)
	}

	switch flagStaticFormat {
	case "csv", "table", "":
	default:
		return fmt.Errorf("unknown format %q (want table or csv)", flagStaticFormat)
	}
	return withOutput(func(w io.Writer) error {
		if flagStaticFormat == "csv" {
			return export.WriteStaticCSV(w, run.Static)
		}
		renderStatic(w, sheet)
		return nil
	})
}

func renderStatic(w io.Writer, sheet *projection.StaticBalanceSheet) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(export.SheetTitle(projection.StatementStatic)))
	fmt.Fprintln(w)
	fmt.Fprint(w, cli.RenderTable(cli.StaticTable("", sheet.Lines())))
	fmt.Fprintln(w)

	bars := []struct {
		label string
		value float64
	}{
		{projection.LineTotalAssets, sheet.TotalAssets()},
		{projection.LineTotalLiabilities, sheet.TotalLiabilities()},
		{"Total Equity", sheet.TotalEquity()},
	}
	peak := 0.0
	for _, b := range bars {
		peak = math.Max(peak, math.Abs(b.value))
	}
	for _, b := range bars {
		fmt.Fprintln(w, cli.RenderHorizontalBar(b.label, b.value, peak, 30))
	}

	if diff := sheet.TotalAssets() - sheet.TotalLiabilitiesAndEquity(); math.Abs(diff) >= 0.005 {
		fmt.Fprintf(w, "\n  Assets exceed liabilities and equity by %s\n", cli.FormatAmount(diff))
	}
	fmt.Fprintln(w)
}
