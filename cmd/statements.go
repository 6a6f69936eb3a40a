package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/proforma/internal/cli"
	"github.com/theirongolddev/proforma/internal/export"
	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/store"
)

var (
	flagFormat string
	flagOut    string
	flagStrict bool
)

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Project the five-year income statement",
	RunE:  runIncome,
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Project the five-year balance sheet",
	RunE:  runBalance,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Both statements and the balance check (default command)",
	RunE:  runReport,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that projected assets equal liabilities and equity",
	RunE:  runCheck,
}

func init() {
	for _, c := range []*cobra.Command{incomeCmd, balanceCmd} {
		c.Flags().StringVarP(&flagFormat, "format", "f", "table", "Output format: table, csv or json")
		c.Flags().StringVarP(&flagOut, "out", "o", "", "Write to a file instead of stdout")
	}
	checkCmd.Flags().BoolVar(&flagStrict, "strict", false, "Exit non-zero when any year is out of balance")

	rootCmd.AddCommand(incomeCmd, balanceCmd, reportCmd, checkCmd)
}

var errUnbalanced = errors.New("balance sheet does not balance")

func runIncome(_ *cobra.Command, _ []string) error {
	return runStatement(projection.StatementIncome)
}

func runBalance(_ *cobra.Command, _ []string) error {
	return runStatement(projection.StatementBalance)
}

// withOutput runs write against --out, or stdout, and reports a failed
// close of the output file alongside any write error.
func withOutput(write func(io.Writer) error) error {
	if flagOut == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(flagOut)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	werr := write(f)
	if cerr := f.Close(); cerr != nil {
		return errors.Join(werr, fmt.Errorf("closing output: %w", cerr))
	}
	return werr
}

func runStatement(statement string) error {
	h, a, opts, err := projectionInputs()
	if err != nil {
		return err
	}
	ledger, err := store.Open()
	if err != nil {
		return err
	}
	defer ledger.Close()

	table, err := project(ledger, statement, a, h, opts, store.SourceCLI)
	if err != nil {
		return err
	}

	switch flagFormat {
	case "csv", "json", "table", "":
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", flagFormat)
	}
	return withOutput(func(w io.Writer) error {
		return writeStatement(w, flagFormat, table)
	})
}

func writeStatement(w io.Writer, format string, table *model.Table) error {
	switch format {
	case "csv":
		return export.WriteCSV(w, table)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	default:
		renderStatement(w, table)
		if table.Statement == projection.StatementBalance {
			imbalances, err := projection.CheckBalance(table, balanceTolerance())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, cli.RenderBalanceCheck(imbalances))
			return err
		}
		return nil
	}
}

// headline is the line item charted under each statement.
var headline = map[string]string{
	projection.StatementIncome:  projection.LineNetIncome,
	projection.StatementBalance: projection.LineTotalAssets,
}

func renderStatement(w io.Writer, t *model.Table) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(fmt.Sprintf("%s  %d-%d", export.SheetTitle(t.Statement), t.Years[0], t.Years[model.Horizon-1])))
	fmt.Fprintln(w)
	fmt.Fprint(w, cli.RenderTable(cli.StatementTable("", t)))

	col, ok := t.Lookup(headline[t.Statement])
	if !ok {
		return
	}
	peak := 0.0
	for _, v := range col.Values {
		peak = math.Max(peak, math.Abs(v))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", col.Name)
	for i, v := range col.Values {
		fmt.Fprintln(w, cli.RenderHorizontalBar(strconv.Itoa(t.Years[i]), v, peak, 40))
	}
	fmt.Fprintln(w)
}

func runReport(_ *cobra.Command, _ []string) error {
	h, a, opts, err := projectionInputs()
	if err != nil {
		return err
	}
	ledger, err := store.Open()
	if err != nil {
		return err
	}
	defer ledger.Close()

	income, incErr := project(ledger, projection.StatementIncome, a, h, opts, store.SourceCLI)
	if incErr == nil {
		renderStatement(os.Stdout, income)
	}
	balance, balErr := project(ledger, projection.StatementBalance, a, h, opts, store.SourceCLI)
	if balErr == nil {
		renderStatement(os.Stdout, balance)
		imbalances, err := projection.CheckBalance(balance, balanceTolerance())
		if err != nil {
			return err
		}
		fmt.Println(cli.RenderBalanceCheck(imbalances))
	}
	return errors.Join(incErr, balErr)
}

func runCheck(_ *cobra.Command, _ []string) error {
	h, a, opts, err := projectionInputs()
	if err != nil {
		return err
	}
	ledger, err := store.Open()
	if err != nil {
		return err
	}
	defer ledger.Close()

	balance, err := project(ledger, projection.StatementBalance, a, h, opts, store.SourceCLI)
	if err != nil {
		return err
	}
	imbalances, err := projection.CheckBalance(balance, balanceTolerance())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderBalanceCheck(imbalances))
	fmt.Println()
	if flagStrict && len(imbalances) > 0 {
		return fmt.Errorf("%w in %d of %d years", errUnbalanced, len(imbalances), model.Horizon)
	}
	return nil
}
