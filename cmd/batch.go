package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/proforma/internal/cli"
	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/pipeline"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/store"
	"github.com/theirongolddev/proforma/internal/tui/components"
)

var flagWorkers int

var batchCmd = &cobra.Command{
	Use:   "batch SCENARIO...",
	Short: "Project many assumption files against the same history",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 0, "Parallel workers (default GOMAXPROCS)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, args []string) error {
	opts, err := projectionOptions()
	if err != nil {
		return err
	}
	h, err := loadHistory()
	if err != nil {
		return err
	}
	ledger, err := store.Open()
	if err != nil {
		return err
	}
	defer ledger.Close()

	scenarios := pipeline.LoadScenarios(args)
	b := pipeline.Batch{
		History:   h,
		Options:   opts,
		Tolerance: balanceTolerance(),
		Workers:   flagWorkers,
	}

	var mu sync.Mutex
	progressFn := func(current, total int) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(os.Stderr, "\r  Projecting %s %d/%d", components.ProgressBar(float64(current)/float64(total), 30), current, total)
	}

	start := time.Now()
	results := b.Run(scenarios, progressFn)
	fmt.Fprintln(os.Stderr)

	for i, r := range results {
		recordBatch(ledger, opts, scenarios[i].Assumptions, r)
	}

	sum := pipeline.Summarize(results)
	log.Info().
		Int("scenarios", sum.Total).
		Int("failed", sum.Failed).
		Int("unbalanced", sum.Unbalanced).
		Dur("elapsed", time.Since(start)).
		Msg("batch complete")

	fmt.Println()
	fmt.Print(cli.RenderTable(batchTable(results)))
	fmt.Println()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Scenario, r.Err))
		}
	}
	return errors.Join(errs...)
}

// recordBatch stores one ledger entry per statement attempted.
func recordBatch(ledger *store.Ledger, opts projection.Options, a model.AssumptionSet, r pipeline.Result) {
	base := store.Run{
		Source:      store.SourceBatch,
		RowIndexing: string(opts.RowIndexing),
		Assumptions: a.Values(),
	}
	var runs []store.Run
	if r.Err != nil {
		failed := base
		failed.Statement = projection.StatementIncome
		if r.Income != nil {
			inc := base
			inc.Statement, inc.Table = projection.StatementIncome, r.Income
			runs = append(runs, inc)
			failed.Statement = projection.StatementBalance
		}
		failed.Error, failed.ErrorKind = r.Err.Error(), model.ErrorKind(r.Err)
		runs = append(runs, failed)
	} else {
		inc, bal := base, base
		inc.Statement, inc.Table = projection.StatementIncome, r.Income
		bal.Statement, bal.Table = projection.StatementBalance, r.Balance
		bal.ImbalancedYears = len(r.Imbalances)
		runs = append(runs, inc, bal)
	}
	for _, run := range runs {
		if _, err := ledger.Record(run); err != nil {
			log.Error().Err(err).Str("scenario", r.Scenario).Msg("recording run")
		}
	}
}

func batchTable(results []pipeline.Result) cli.Table {
	t := cli.Table{
		Headers: []string{"Scenario", "Revenue", "Net Income", "Total Assets", "Balanced"},
	}
	last := model.Horizon - 1
	for _, r := range results {
		if r.Err != nil {
			t.Rows = append(t.Rows, []string{r.Scenario, "-", "-", "-", model.ErrorKind(r.Err)})
			continue
		}
		rev, _ := r.Income.Lookup(projection.LineRevenue)
		net, _ := r.Income.Lookup(projection.LineNetIncome)
		ta, _ := r.Balance.Lookup(projection.LineTotalAssets)
		balanced := "yes"
		if !r.Balanced() {
			balanced = "no (" + strconv.Itoa(len(r.Imbalances)) + " years)"
		}
		t.Rows = append(t.Rows, []string{
			r.Scenario,
			cli.FormatAmount(rev.Values[last]),
			cli.FormatAmount(net.Values[last]),
			cli.FormatAmount(ta.Values[last]),
			balanced,
		})
	}
	return t
}
