package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
)

func openLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func incomeRun() Run {
	return Run{
		Statement:   projection.StatementIncome,
		Source:      SourceCLI,
		RowIndexing: string(model.RowPosition),
		Assumptions: map[string]any{"Tax Rate": 0.4},
		Table: &model.Table{
			Statement: projection.StatementIncome,
			Years:     model.ProjectionYears(2022),
			Columns: []model.Column{
				{Name: "Revenue", Strategy: model.StrategyGrowth, Values: model.Series{105, 110.25, 115.7625, 121.550625, 127.62815625}},
				{Name: "Net Income", Strategy: model.StrategyAggregate, Values: model.Series{1, 2, 3, 4, 5}},
			},
		},
	}
}

func TestRecordAndGet(t *testing.T) {
	l := openLedger(t)

	stored, err := l.Record(incomeRun())
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if stored.ID == "" || stored.CreatedAt.IsZero() {
		t.Fatalf("Record did not assign id/time: %+v", stored)
	}

	got, err := l.Get(stored.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Table == nil {
		t.Fatal("Get returned no table")
	}
	if got.Table.Years[0] != 2023 || got.Table.Years[4] != 2027 {
		t.Errorf("years = %v, want 2023..2027", got.Table.Years)
	}
	if len(got.Table.Columns) != 2 || got.Table.Columns[0].Name != "Revenue" {
		t.Fatalf("columns = %v", got.Table.Names())
	}
	if got.Table.Columns[0].Values[4] != 127.62815625 {
		t.Errorf("revenue 2027 = %v", got.Table.Columns[0].Values[4])
	}
	if got.Table.Columns[1].Strategy != model.StrategyAggregate {
		t.Errorf("strategy = %q, want aggregate", got.Table.Columns[1].Strategy)
	}
	if got.Assumptions["Tax Rate"] != 0.4 {
		t.Errorf("assumptions = %v", got.Assumptions)
	}
}

func TestRecordStaticAndFailure(t *testing.T) {
	l := openLedger(t)

	static, err := l.Record(Run{
		Statement: projection.StatementStatic,
		Source:    SourceHTTP,
		Static: []model.LineItem{
			{Section: "Assets", Name: "Total Assets", Amount: 284.7, Total: true},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	failed, err := l.Record(Run{
		Statement: projection.StatementBalance,
		Source:    SourceHTTP,
		Error:     "Days Inventory: missing field",
		ErrorKind: "missing_field",
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := l.Get(static.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Table != nil || len(got.Static) != 1 || !got.Static[0].Total || got.Static[0].Amount != 284.7 {
		t.Errorf("static run = %+v", got)
	}

	got, err = l.Get(failed.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Failed() || got.ErrorKind != "missing_field" || got.Table != nil {
		t.Errorf("failed run = %+v", got)
	}
}

func TestGetNotFound(t *testing.T) {
	l := openLedger(t)
	if _, err := l.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get unknown = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	l := openLedger(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		r := incomeRun()
		r.CreatedAt = base.Add(time.Duration(i) * time.Second)
		r.ID = []string{"a", "b", "c"}[i]
		if _, err := l.Record(r); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := l.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Errorf("List(2) = %v, want c,b", ids(runs))
	}
	if runs[0].Table != nil {
		t.Error("List should not load line items")
	}

	if n, _ := l.Count(); n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
	if err := l.Delete("a"); err != nil {
		t.Fatal(err)
	}
	if n, _ := l.Count(); n != 2 {
		t.Errorf("Count after delete = %d, want 2", n)
	}
}

func ids(runs []Run) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.ID
	}
	return out
}

func TestLedgersAreIsolated(t *testing.T) {
	a, b := openLedger(t), openLedger(t)
	if _, err := a.Record(incomeRun()); err != nil {
		t.Fatal(err)
	}
	if n, _ := b.Count(); n != 0 {
		t.Errorf("second in-memory ledger sees %d runs, want 0", n)
	}
}

func TestConcurrentRecord(t *testing.T) {
	l := openLedger(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Record(incomeRun()); err != nil {
				t.Errorf("Record: %v", err)
			}
		}()
	}
	wg.Wait()
	if n, _ := l.Count(); n != 8 {
		t.Errorf("Count = %d, want 8", n)
	}
}
