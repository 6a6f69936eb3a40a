package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/source"
)

const historyCSV = `Year,Revenue,Cost of Goods Sold (COGS),Total Liabilities,Cash,Other Income / (Expense),Gross PP&E,Accumulated Depreciation,Goodwill,Retained Earnings
2018,80,50,230,10,1,250,10,5,20
2019,85,50,235,11,1,260,15,5,24
2020,90,50,238,12,2,270,20,5,27
2021,95,50,240,13,2,280,25,5,30
2022,100,50,242,12,3,287.2,30,5,32.7
`

func testBatch(t *testing.T) Batch {
	t.Helper()
	h, err := source.ParseHistoryCSV(strings.NewReader(historyCSV))
	if err != nil {
		t.Fatal(err)
	}
	return Batch{History: h, Options: projection.Options{RowIndexing: model.LastN}}
}

func TestRunKeepsOrderAndIsolatesFailures(t *testing.T) {
	base := source.DefaultAssumptions()
	high := base.With(projection.AssumptionRevenueGrowthRate, 0.2)
	broken := model.NewAssumptionSet(without(base.Values(), projection.AssumptionDaysInventory))

	scenarios := []Scenario{
		{Name: "base", Assumptions: base},
		{Name: "broken", Assumptions: broken},
		{Name: "high", Assumptions: high},
		{Name: "unreadable", Err: errors.New("open: no such file")},
	}

	var calls atomic.Int64
	var last atomic.Int64
	results := testBatch(t).Run(scenarios, func(current, total int) {
		calls.Add(1)
		if total != len(scenarios) {
			t.Errorf("total = %d, want %d", total, len(scenarios))
		}
		if int64(current) > last.Load() {
			last.Store(int64(current))
		}
	})

	if len(results) != len(scenarios) {
		t.Fatalf("results = %d, want %d", len(results), len(scenarios))
	}
	for i, r := range results {
		if r.Scenario != scenarios[i].Name {
			t.Errorf("result %d = %q, want %q", i, r.Scenario, scenarios[i].Name)
		}
	}
	if calls.Load() != int64(len(scenarios)) || last.Load() != int64(len(scenarios)) {
		t.Errorf("progress calls = %d (max %d), want %d", calls.Load(), last.Load(), len(scenarios))
	}

	if results[0].Err != nil || results[0].Income == nil || results[0].Balance == nil {
		t.Fatalf("base scenario failed: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, model.ErrMissingField) {
		t.Errorf("broken scenario error = %v, want ErrMissingField", results[1].Err)
	}
	if results[3].Err == nil {
		t.Error("unreadable scenario should carry its load error")
	}

	baseRev, _ := results[0].Income.Lookup(projection.LineRevenue)
	highRev, _ := results[2].Income.Lookup(projection.LineRevenue)
	if highRev.Values[4] <= baseRev.Values[4] {
		t.Errorf("high growth revenue %v should exceed base %v", highRev.Values[4], baseRev.Values[4])
	}

	s := Summarize(results)
	if s.Total != 4 || s.Failed != 2 {
		t.Errorf("Summarize = %+v, want 4 total, 2 failed", s)
	}
}

func without(m map[string]any, key string) map[string]any {
	delete(m, key)
	return m
}

func TestRunSingleWorker(t *testing.T) {
	b := testBatch(t)
	b.Workers = 1
	results := b.Run([]Scenario{
		{Name: "a", Assumptions: source.DefaultAssumptions()},
		{Name: "b", Assumptions: source.DefaultAssumptions()},
	}, nil)

	ta, _ := results[0].Balance.Lookup(projection.LineTotalAssets)
	tb, _ := results[1].Balance.Lookup(projection.LineTotalAssets)
	if ta.Values != tb.Values {
		t.Errorf("identical scenarios differ: %v vs %v", ta.Values, tb.Values)
	}
}

func TestRunEmpty(t *testing.T) {
	if got := testBatch(t).Run(nil, nil); len(got) != 0 {
		t.Errorf("Run(nil) = %v, want empty", got)
	}
}

func TestLoadScenarios(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "upside.toml")
	if err := os.WriteFile(good, []byte(`"Revenue Growth Rate" = 0.1`), 0o600); err != nil {
		t.Fatal(err)
	}

	got := LoadScenarios([]string{good, filepath.Join(dir, "missing.toml")})
	if got[0].Name != "upside" || got[0].Err != nil {
		t.Errorf("scenario 0 = %+v", got[0])
	}
	if v, _ := got[0].Assumptions.Float(projection.AssumptionRevenueGrowthRate); v != 0.1 {
		t.Errorf("growth = %v, want 0.1", v)
	}
	if got[1].Err == nil {
		t.Error("missing file should be carried as a scenario error")
	}
}
