package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/pipeline"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/source"
	"github.com/theirongolddev/proforma/internal/store"
)

const historyCSV = `Year,Revenue,Cost of Goods Sold (COGS),Total Liabilities,Cash,Other Income / (Expense),Gross PP&E,Accumulated Depreciation,Goodwill,Retained Earnings
2018,80,50,230,10,1,250,10,5,20
2019,85,50,235,11,1,260,15,5,24
2020,90,50,238,12,2,270,20,5,27
2021,95,50,240,13,2,280,25,5,30
2022,100,50,242,12,3,287.2,30,5,32.7
`

func testHistory(t *testing.T) *model.HistoricalRecord {
	t.Helper()
	h, err := source.ParseHistoryCSV(strings.NewReader(historyCSV))
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestPick(t *testing.T) {
	if got := pick("", "cfg"); got != "cfg" {
		t.Errorf("pick(\"\", cfg) = %q, want cfg", got)
	}
	if got := pick("flag", "cfg"); got != "flag" {
		t.Errorf("pick(flag, cfg) = %q, want flag", got)
	}
}

func TestProjectRecordsRuns(t *testing.T) {
	ledger, err := store.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer ledger.Close()

	h := testHistory(t)
	a := source.DefaultAssumptions()
	opts := projection.Options{RowIndexing: model.RowPosition}

	if _, err := project(ledger, projection.StatementIncome, a, h, opts, store.SourceCLI); err != nil {
		t.Fatalf("income: %v", err)
	}

	_, err = project(ledger, projection.StatementIncome, model.NewAssumptionSet(nil), h, opts, store.SourceCLI)
	if !errors.Is(err, model.ErrMissingField) {
		t.Fatalf("empty drivers error = %v, want ErrMissingField", err)
	}

	if _, err := project(ledger, "cashflow", a, h, opts, store.SourceCLI); err == nil {
		t.Error("unknown statement should fail")
	}

	n, err := ledger.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("recorded runs = %d, want 2", n)
	}
}

func TestRenderStatement(t *testing.T) {
	table, err := projection.NewIncomeStatementProjector(source.DefaultAssumptions(), testHistory(t)).CalculateAllLineItems()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	renderStatement(&buf, table)
	out := buf.String()

	for _, want := range []string{"2023-2027", projection.LineRevenue, projection.LineNetIncome, "2027"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestBatchTable(t *testing.T) {
	b := pipeline.Batch{History: testHistory(t)}
	results := b.Run([]pipeline.Scenario{
		{Name: "base", Assumptions: source.DefaultAssumptions()},
		{Name: "empty", Assumptions: model.NewAssumptionSet(nil)},
	}, nil)

	tbl := batchTable(results)
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	if tbl.Rows[0][0] != "base" || tbl.Rows[0][1] == "-" {
		t.Errorf("base row = %v, want projected values", tbl.Rows[0])
	}
	if tbl.Rows[1][4] != "missing_field" {
		t.Errorf("empty row outcome = %q, want missing_field", tbl.Rows[1][4])
	}
}

func TestRecordBatchKeepsIncomeOnBalanceFailure(t *testing.T) {
	ledger, err := store.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer ledger.Close()

	h := testHistory(t)
	a := source.DefaultAssumptions()
	income, err := projection.NewIncomeStatementProjector(a, h).CalculateAllLineItems()
	if err != nil {
		t.Fatal(err)
	}
	r := pipeline.Result{
		Scenario: "half",
		Income:   income,
		Err:      errors.New("balance sheet: boom"),
	}
	recordBatch(ledger, projection.Options{RowIndexing: model.RowPosition}, a, r)

	runs, err := ledger.List(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	failed := 0
	for _, run := range runs {
		if run.Source != store.SourceBatch {
			t.Errorf("source = %q, want %q", run.Source, store.SourceBatch)
		}
		if run.Failed() {
			failed++
			if run.Statement != projection.StatementBalance {
				t.Errorf("failed statement = %q, want balance", run.Statement)
			}
		}
	}
	if failed != 1 {
		t.Errorf("failed runs = %d, want 1", failed)
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	if strings.Join(got, " ") != "serve --addr :9000" {
		t.Errorf("filterDetachArg = %v", got)
	}
}

func TestWithOutputWritesEveryFormat(t *testing.T) {
	table, err := projection.NewIncomeStatementProjector(source.DefaultAssumptions(), testHistory(t)).CalculateAllLineItems()
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	defer func(prev string) { flagOut = prev }(flagOut)

	for format, want := range map[string]string{
		"csv":   "Year,",
		"json":  `"statement"`,
		"table": projection.LineNetIncome,
	} {
		flagOut = filepath.Join(dir, "out."+format)
		if err := withOutput(func(w io.Writer) error { return writeStatement(w, format, table) }); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		data, err := os.ReadFile(flagOut)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), want) {
			t.Errorf("%s output missing %q", format, want)
		}
	}
}

func TestWithOutputReportsErrors(t *testing.T) {
	defer func(prev string) { flagOut = prev }(flagOut)

	flagOut = t.TempDir()
	if err := withOutput(func(io.Writer) error { return nil }); err == nil {
		t.Error("writing to a directory should fail")
	}

	flagOut = filepath.Join(t.TempDir(), "out.csv")
	boom := errors.New("boom")
	if err := withOutput(func(io.Writer) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("write error = %v, want boom", err)
	}
}

func TestLoadAssumptionsRequiresFile(t *testing.T) {
	defer func(prevFlag string, prevCfg string) {
		flagAssumptions, cfg.General.AssumptionsPath = prevFlag, prevCfg
	}(flagAssumptions, cfg.General.AssumptionsPath)
	flagAssumptions, cfg.General.AssumptionsPath = "", ""

	_, err := loadAssumptions(false)
	if !errors.Is(err, model.ErrMissingField) || model.ErrorField(err) != "assumptions" {
		t.Errorf("loadAssumptions(false) error = %v, want missing assumptions", err)
	}

	a, err := loadAssumptions(true)
	if err != nil {
		t.Fatalf("loadAssumptions(true): %v", err)
	}
	if a.Len() != source.DefaultAssumptions().Len() {
		t.Errorf("fallback has %d drivers, want the defaults", a.Len())
	}

	path := filepath.Join(t.TempDir(), "drivers.toml")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := source.SaveAssumptions(f, source.DefaultAssumptions()); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	flagAssumptions = path
	if _, err := loadAssumptions(false); err != nil {
		t.Errorf("loadAssumptions with --assumptions: %v", err)
	}
}
