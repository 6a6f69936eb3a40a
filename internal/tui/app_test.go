package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/proforma/internal/config"
	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/source"
	"github.com/theirongolddev/proforma/internal/store"
	"github.com/theirongolddev/proforma/internal/tui/components"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

const historyCSV = `Year,Revenue,Cost of Goods Sold (COGS),Total Liabilities,Cash,Other Income / (Expense),Gross PP&E,Accumulated Depreciation,Goodwill,Retained Earnings
2018,80,50,230,10,1,250,10,5,20
2019,85,50,235,11,1,260,15,5,24
2020,90,50,238,12,2,270,20,5,27
2021,95,50,240,13,2,280,25,5,30
2022,100,50,242,12,3,287.2,30,5,32.7
`

func testInputs(t *testing.T) Inputs {
	t.Helper()
	h, err := source.ParseHistoryCSV(strings.NewReader(historyCSV))
	if err != nil {
		t.Fatal(err)
	}
	ledger, err := store.Open()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ledger.Close() })

	snap := source.DefaultSnapshot()
	return Inputs{
		History:      h,
		Assumptions:  source.DefaultAssumptions(),
		Snapshot:     &snap,
		Ledger:       ledger,
		WorkbookPath: filepath.Join(t.TempDir(), "out.xlsx"),
	}
}

// ready returns an app that has finished its first projection pass.
func ready(t *testing.T, in Inputs) App {
	t.Helper()
	m, _ := NewApp(in).Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(compute(in))
	return m.(App)
}

func press(a App, key string) (App, tea.Cmd) {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := len(tab.Name) + 2 // one column of padding each side
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Errorf("tabAtX past the last tab = %d, want -1", got)
		}
	}
}

func TestComputeRecordsEveryStatement(t *testing.T) {
	in := testInputs(t)
	msg := compute(in)

	if len(msg.Errs) != 0 {
		t.Fatalf("errs = %v", msg.Errs)
	}
	if msg.Income == nil || msg.Balance == nil || msg.Static == nil {
		t.Fatal("every statement should be computed")
	}
	rev, _ := msg.Income.Lookup(projection.LineRevenue)
	if rev.Values[0] != 105 {
		t.Errorf("revenue 2023 = %v, want 105", rev.Values[0])
	}
	if msg.RunCount != 3 || len(msg.Runs) != 3 {
		t.Fatalf("runs = %d (listed %d), want 3", msg.RunCount, len(msg.Runs))
	}
	for _, r := range msg.Runs {
		if r.Source != store.SourceTUI {
			t.Errorf("run source = %q, want %q", r.Source, store.SourceTUI)
		}
	}
}

func TestComputeWithoutHistory(t *testing.T) {
	in := testInputs(t)
	in.History = nil
	msg := compute(in)

	for _, st := range []string{projection.StatementIncome, projection.StatementBalance} {
		if !errors.Is(msg.Errs[st], model.ErrMissingField) {
			t.Errorf("%s error = %v, want ErrMissingField", st, msg.Errs[st])
		}
	}
	if msg.Static == nil {
		t.Error("static sheet should not depend on history")
	}

	failed := 0
	for _, r := range msg.Runs {
		if r.Failed() {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("failed runs = %d, want 2", failed)
	}
}

func TestKeysSwitchTabsAndToggleMode(t *testing.T) {
	a := ready(t, testInputs(t))

	a, _ = press(a, "b")
	if a.activeTab != 1 {
		t.Errorf("activeTab after b = %d, want 1", a.activeTab)
	}
	a, _ = press(a, "r")
	if a.activeTab != 4 {
		t.Errorf("activeTab after r = %d, want 4", a.activeTab)
	}

	a, cmd := press(a, "m")
	if cmd == nil || !a.computing {
		t.Fatal("toggling the mode should start a new pass")
	}
	if a.in.Options.RowIndexing != model.LastN {
		t.Errorf("row indexing = %q, want %q", a.in.Options.RowIndexing, model.LastN)
	}

	a, _ = press(a, "?")
	if !a.showHelp {
		t.Error("? should open help")
	}
	a, _ = press(a, "x")
	if a.showHelp {
		t.Error("any key should close help")
	}
}

func TestViewFillsTerminal(t *testing.T) {
	a := ready(t, testInputs(t))
	for i := range components.Tabs {
		a.activeTab = i
		lines := strings.Split(a.View(), "\n")
		if len(lines) != 40 {
			t.Errorf("tab %d: view has %d lines, want 40", i, len(lines))
		}
	}

	a.width = 60
	if !strings.Contains(a.View(), "too narrow") {
		t.Error("narrow terminal should show a warning")
	}
}

func TestViewShowsProjectionErrors(t *testing.T) {
	in := testInputs(t)
	in.Assumptions = model.NewAssumptionSet(map[string]any{projection.AssumptionTaxRate: 0.3})
	a := ready(t, in)

	a.activeTab = 1
	if !strings.Contains(a.View(), "missing_field") {
		t.Error("balance tab should surface the missing driver")
	}
}

func TestDriverFormApply(t *testing.T) {
	base := source.DefaultAssumptions()
	f := newDriverForm(base)

	idx := -1
	for i, n := range f.names {
		if n == projection.AssumptionTaxRate {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatal("tax rate missing from form")
	}
	if f.values[idx] != "0.4" {
		t.Errorf("seeded tax rate = %q, want 0.4", f.values[idx])
	}

	f.values[idx] = "0.3"
	got, err := f.apply(base)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := got.Float(projection.AssumptionTaxRate); v != 0.3 {
		t.Errorf("tax rate = %v, want 0.3", v)
	}
	if v, _ := base.Float(projection.AssumptionTaxRate); v != 0.4 {
		t.Errorf("base mutated: tax rate = %v", v)
	}

	f.values[idx] = "forty"
	if _, err := f.apply(base); !errors.Is(err, model.ErrTypeMismatch) {
		t.Errorf("apply(text) error = %v, want ErrTypeMismatch", err)
	}
	if validateDriver("1,000") != nil || validateDriver("abc") == nil {
		t.Error("validateDriver mismatch")
	}
}

func TestDriverNamesCoverProjectors(t *testing.T) {
	extra := source.DefaultAssumptions().With("Terminal Growth", 0.02)
	names := driverNames(extra)
	want := len(projection.IncomeStatementAssumptions) + len(projection.BalanceSheetAssumptions) + 1
	if len(names) != want {
		t.Errorf("driverNames = %d names, want %d", len(names), want)
	}
	if names[0] != projection.AssumptionRevenueGrowthRate {
		t.Errorf("first driver = %q", names[0])
	}
}

func TestWorkbookExport(t *testing.T) {
	in := testInputs(t)
	a := ready(t, in)

	_, cmd := press(a, "w")
	if cmd == nil {
		t.Fatal("w should return an export command")
	}
	msg, ok := cmd().(WorkbookMsg)
	if !ok || msg.Err != nil {
		t.Fatalf("export msg = %+v", msg)
	}
	if _, err := os.Stat(in.WorkbookPath); err != nil {
		t.Errorf("workbook not written: %v", err)
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	vals := SetupValuesFrom(cfg)
	vals.HistoryPath = "  data/history.csv "
	vals.RowIndexing = string(model.LastN)
	vals.Theme = "tokyo-night"
	vals.Apply(&cfg)

	if cfg.General.HistoryPath != "data/history.csv" {
		t.Errorf("history path = %q", cfg.General.HistoryPath)
	}
	if cfg.Projection.RowIndexing != "last-n" || cfg.Appearance.Theme != "tokyo-night" {
		t.Errorf("config = %+v", cfg)
	}
	if NewSetupForm(&vals) == nil {
		t.Error("setup form is nil")
	}

	if optionalFile("") != nil {
		t.Error("empty path should be allowed")
	}
	if optionalFile(t.TempDir()) == nil {
		t.Error("directories should be rejected")
	}
}
