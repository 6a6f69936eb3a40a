// Package pipeline runs many projection scenarios in parallel.
package pipeline

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/source"
)

// Scenario is one named assumption set to project.
type Scenario struct {
	Name        string
	Assumptions model.AssumptionSet
	// Err is a load failure carried through to the result.
	Err error
}

// Result is the outcome of projecting one scenario. Income is kept when only
// the balance sheet fails.
type Result struct {
	Scenario   string
	Income     *model.Table
	Balance    *model.Table
	Imbalances []projection.Imbalance
	Err        error
}

// Balanced reports whether the scenario projected and passed the balance
// check.
func (r Result) Balanced() bool {
	return r.Err == nil && len(r.Imbalances) == 0
}

// ProgressFunc is called as scenarios complete.
// current is the number of scenarios processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Batch holds the shared inputs for a run.
type Batch struct {
	History   *model.HistoricalRecord
	Options   projection.Options
	Tolerance decimal.Decimal
	Workers   int
}

// LoadScenarios reads each assumption file into a Scenario named after the
// file. Unreadable files become scenarios that fail when run.
func LoadScenarios(paths []string) []Scenario {
	out := make([]Scenario, len(paths))
	for i, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		a, err := source.LoadAssumptions(p)
		out[i] = Scenario{Name: name, Assumptions: a, Err: err}
	}
	return out
}

// Run projects every scenario with a bounded worker pool. Results are in
// scenario order and a failing scenario never stops the others.
func (b Batch) Run(scenarios []Scenario, progressFn ProgressFunc) []Result {
	results := make([]Result, len(scenarios))
	if len(scenarios) == 0 {
		return results
	}

	numWorkers := b.Workers
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > len(scenarios) {
		numWorkers = len(scenarios)
	}

	work := make(chan int, len(scenarios))
	for i := range scenarios {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	var processed atomic.Int64

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = b.project(scenarios[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(scenarios))
				}
			}
		}()
	}

	wg.Wait()
	return results
}

func (b Batch) project(s Scenario) Result {
	r := Result{Scenario: s.Name}
	if s.Err != nil {
		r.Err = s.Err
		return r
	}

	income, err := projection.NewIncomeStatementProjector(s.Assumptions, b.History).CalculateAllLineItems()
	if err != nil {
		r.Err = fmt.Errorf("income statement: %w", err)
		return r
	}
	r.Income = income
	balance, err := projection.NewBalanceSheetProjector(s.Assumptions, b.History, b.Options).CalculateAllLineItems()
	if err != nil {
		r.Err = fmt.Errorf("balance sheet: %w", err)
		return r
	}

	tol := b.Tolerance
	if tol.IsZero() {
		tol = projection.DefaultTolerance
	}
	imbalances, err := projection.CheckBalance(balance, tol)
	if err != nil {
		r.Err = err
		return r
	}

	r.Balance, r.Imbalances = balance, imbalances
	return r
}

// Summary counts results by outcome.
type Summary struct {
	Total      int
	Failed     int
	Unbalanced int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case len(r.Imbalances) > 0:
			s.Unbalanced++
		}
	}
	return s
}
