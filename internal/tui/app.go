// Package tui provides the interactive Bubble Tea workbench for proforma.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/proforma/internal/export"
	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/store"
	"github.com/theirongolddev/proforma/internal/tui/components"
	"github.com/theirongolddev/proforma/internal/tui/theme"
)

// Inputs are what the workbench projects from.
type Inputs struct {
	History     *model.HistoricalRecord
	Assumptions model.AssumptionSet
	Snapshot    *model.Snapshot
	Options     projection.Options
	Tolerance   decimal.Decimal

	// Ledger records every projection pass when set.
	Ledger *store.Ledger
	// WorkbookPath is where "w" writes the XLSX export.
	WorkbookPath string
}

// ComputedMsg is sent when a projection pass finishes.
type ComputedMsg struct {
	Income     *model.Table
	Balance    *model.Table
	Imbalances []projection.Imbalance
	Static     *projection.StaticBalanceSheet
	Errs       map[string]error
	Runs       []store.Run
	RunCount   int
	Elapsed    time.Duration
}

// WorkbookMsg reports the outcome of an XLSX export.
type WorkbookMsg struct {
	Path string
	Err  error
}

// App is the root Bubble Tea model.
type App struct {
	in Inputs

	// Results of the latest pass
	income     *model.Table
	balance    *model.Table
	imbalances []projection.Imbalance
	static     *projection.StaticBalanceSheet
	errs       map[string]error
	runs       []store.Run
	runCount   int
	elapsed    time.Duration
	computed   bool
	computing  bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	scroll    int

	// Driver editor (huh form)
	form    *huh.Form
	drivers *driverForm

	spinner    spinner.Model
	message    string
	messageErr bool
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
	runsShown        = 50
)

// NewApp creates the workbench model.
func NewApp(in Inputs) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		in:        in,
		spinner:   sp,
		computing: true,
		errs:      map[string]error{},
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		computeCmd(a.in),
	)
}

func computeCmd(in Inputs) tea.Cmd {
	return func() tea.Msg {
		return compute(in)
	}
}

func rowIndexing(opts projection.Options) model.RowIndexing {
	if opts.RowIndexing == "" {
		return model.RowPosition
	}
	return opts.RowIndexing
}

// compute runs every statement once and records each run in the ledger.
// Statements fail independently.
func compute(in Inputs) ComputedMsg {
	start := time.Now()
	msg := ComputedMsg{Errs: map[string]error{}}

	tol := in.Tolerance
	if tol.IsZero() {
		tol = projection.DefaultTolerance
	}
	record := func(run store.Run) {
		if in.Ledger != nil {
			_, _ = in.Ledger.Record(run)
		}
	}

	for _, st := range []string{projection.StatementIncome, projection.StatementBalance} {
		run := store.Run{
			Statement:   st,
			Source:      store.SourceTUI,
			RowIndexing: string(rowIndexing(in.Options)),
			Assumptions: in.Assumptions.Values(),
		}

		var table *model.Table
		err := error(&model.FieldError{Field: "history", Err: model.ErrMissingField, Detail: "no historical data loaded"})
		if in.History != nil {
			p, _ := projection.New(st, in.Assumptions, in.History, in.Options)
			table, err = p.CalculateAllLineItems()
		}
		if err == nil && st == projection.StatementBalance {
			msg.Imbalances, err = projection.CheckBalance(table, tol)
			run.ImbalancedYears = len(msg.Imbalances)
		}
		if err != nil {
			msg.Errs[st] = err
			run.Error, run.ErrorKind = err.Error(), model.ErrorKind(err)
			record(run)
			continue
		}

		run.Table = table
		if st == projection.StatementIncome {
			msg.Income = table
		} else {
			msg.Balance = table
		}
		record(run)
	}

	if in.Snapshot != nil {
		run := store.Run{Statement: projection.StatementStatic, Source: store.SourceTUI}
		sheet, err := projection.NewStaticBalanceSheet(*in.Snapshot)
		if err != nil {
			msg.Errs[projection.StatementStatic] = err
			run.Error, run.ErrorKind = err.Error(), model.ErrorKind(err)
		} else {
			msg.Static = sheet
			run.Static = sheet.Lines()
		}
		record(run)
	}

	if in.Ledger != nil {
		msg.Runs, _ = in.Ledger.List(runsShown)
		msg.RunCount, _ = in.Ledger.Count()
	}
	msg.Elapsed = time.Since(start)
	return msg
}

func writeWorkbookCmd(path string, wb export.Workbook) tea.Cmd {
	return func() tea.Msg {
		return WorkbookMsg{Path: path, Err: export.WriteXLSX(path, wb)}
	}
}

func (a App) recompute() (tea.Model, tea.Cmd) {
	a.computing = true
	return a, tea.Batch(a.spinner.Tick, computeCmd(a.in))
}

func (a *App) setMessage(msg string, isErr bool) {
	a.message, a.messageErr = msg, isErr
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.computing {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case ComputedMsg:
		a.income, a.balance = msg.Income, msg.Balance
		a.imbalances, a.static = msg.Imbalances, msg.Static
		a.errs = msg.Errs
		a.runs, a.runCount = msg.Runs, msg.RunCount
		a.elapsed = msg.Elapsed
		a.computed = true
		a.computing = false
		if len(msg.Errs) > 0 {
			a.setMessage(fmt.Sprintf("%d statement(s) failed", len(msg.Errs)), true)
		}
		return a, nil

	case WorkbookMsg:
		if msg.Err != nil {
			a.setMessage("export failed: "+msg.Err.Error(), true)
		} else {
			a.setMessage("wrote "+msg.Path, false)
		}
		return a, nil
	}

	if a.form != nil {
		return a.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		if a.showHelp || !a.computed {
			return a, nil
		}
		switch {
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease && msg.Y == 0:
			if idx := a.tabAtX(msg.X); idx >= 0 {
				a.activeTab, a.scroll = idx, 0
			}
		case msg.Button == tea.MouseButtonWheelDown:
			a.scroll++
		case msg.Button == tea.MouseButtonWheelUp && a.scroll > 0:
			a.scroll--
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}
		if !a.computed {
			if key == "q" {
				return a, tea.Quit
			}
			return a, nil
		}

		a.message = ""
		switch key {
		case "q":
			return a, tea.Quit
		case "?":
			a.showHelp = true
		case "left", "h", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			a.scroll = 0
		case "right", "l", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			a.scroll = 0
		case "down", "j":
			a.scroll++
		case "up", "k":
			if a.scroll > 0 {
				a.scroll--
			}
		case "ctrl+d":
			a.scroll += a.halfPage()
		case "ctrl+u":
			a.scroll = max(0, a.scroll-a.halfPage())
		case "g":
			a.scroll = 0
		case "e":
			a.drivers = newDriverForm(a.in.Assumptions)
			a.form = a.drivers.build()
			if a.width > 0 {
				a.form = a.form.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.form.Init()
		case "m":
			if rowIndexing(a.in.Options) == model.RowPosition {
				a.in.Options.RowIndexing = model.LastN
			} else {
				a.in.Options.RowIndexing = model.RowPosition
			}
			a.setMessage("row indexing: "+string(a.in.Options.RowIndexing), false)
			return a.recompute()
		case "c":
			return a.recompute()
		case "w":
			wb := a.workbook()
			if len(wb.Tables) == 0 && len(wb.Static) == 0 {
				a.setMessage("nothing to export", true)
				return a, nil
			}
			return a, writeWorkbookCmd(a.workbookPath(), wb)
		default:
			if len(msg.Runes) == 1 {
				if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
					a.activeTab, a.scroll = idx, 0
				}
			}
		}
	}

	return a, nil
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		updated, err := a.drivers.apply(a.in.Assumptions)
		a.form, a.drivers = nil, nil
		if err != nil {
			a.setMessage(err.Error(), true)
			return a, nil
		}
		a.in.Assumptions = updated
		a.setMessage("drivers updated", false)
		return a.recompute()
	case huh.StateAborted:
		a.form, a.drivers = nil, nil
		a.setMessage("edit cancelled", false)
		return a, nil
	}

	return a, cmd
}

func (a App) halfPage() int {
	return max(1, (a.height-2)/2)
}

func (a App) workbookPath() string {
	if a.in.WorkbookPath != "" {
		return a.in.WorkbookPath
	}
	return "proforma.xlsx"
}

func (a App) workbook() export.Workbook {
	var wb export.Workbook
	if a.income != nil {
		wb.Tables = append(wb.Tables, a.income)
	}
	if a.balance != nil {
		wb.Tables = append(wb.Tables, a.balance)
	}
	if a.static != nil {
		wb.Static = a.static.Lines()
	}
	return wb
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.computed {
		return a.viewLoading()
	}
	if a.form != nil {
		return a.form.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  proforma needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ proforma"))
	b.WriteString(subtitleStyle.Render(" · five-year statements"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Projecting statements..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	section := func(name string, binds [][2]string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
		b.WriteString("\n")
	}

	section("Navigation", [][2]string{
		{"i b s d r", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Scroll"},
		{"^d ^u", "Half-page scroll"},
		{"g", "Back to top"},
	})
	section("Actions", [][2]string{
		{"e", "Edit drivers and re-project"},
		{"m", "Toggle row indexing"},
		{"c", "Re-project"},
		{"w", "Write XLSX workbook"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) status() components.Status {
	st := components.Status{
		RowIndexing: string(rowIndexing(a.in.Options)),
		Runs:        a.runCount,
		Message:     a.message,
		Error:       a.messageErr,
	}
	if a.computing {
		st.Message, st.Error = "projecting...", false
	}
	if a.in.History != nil {
		if years := a.in.History.Years(); len(years) > 0 {
			st.Years = fmt.Sprintf("%d-%d", years[0], years[len(years)-1])
		}
	}
	return st
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.status())

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case 0:
		content = a.renderIncomeTab(cw)
	case 1:
		content = a.renderBalanceTab(cw)
	case 2:
		content = a.renderStaticTab(cw)
	case 3:
		content = a.renderDriversTab(cw)
	case 4:
		content = a.renderRunsTab(cw)
	}

	content = padHeight(truncateHeight(scrollLines(content, a.scroll), contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

// scrollLines drops the first offset lines, always keeping the last one.
func scrollLines(s string, offset int) string {
	if offset <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	offset = min(offset, len(lines)-1)
	return strings.Join(lines[offset:], "\n")
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow RenderTabBar: tabs separated by a single column.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
