package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/proforma/internal/store"
	"github.com/theirongolddev/proforma/internal/tui"
	"github.com/theirongolddev/proforma/internal/tui/theme"
)

var flagTUIWorkbook string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive statement dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagTUIWorkbook, "xlsx", "proforma.xlsx", "Workbook written by the w key")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor so background styling always emits ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	opts, err := projectionOptions()
	if err != nil {
		return err
	}
	a, err := loadAssumptions(true)
	if err != nil {
		return err
	}

	in := tui.Inputs{
		Assumptions:  a,
		Options:      opts,
		Tolerance:    balanceTolerance(),
		WorkbookPath: flagTUIWorkbook,
	}

	// Missing history is shown inside the dashboard rather than refusing to start.
	if h, err := loadHistory(); err != nil {
		log.Warn().Err(err).Msg("starting without history")
	} else {
		in.History = h
	}
	if snap, err := loadSnapshot(); err != nil {
		log.Warn().Err(err).Msg("starting without snapshot")
	} else {
		in.Snapshot = &snap
	}

	ledger, err := store.Open()
	if err != nil {
		return err
	}
	defer ledger.Close()
	in.Ledger = ledger

	// Logs would tear the alt screen.
	log.DefaultLogger.Level = log.ErrorLevel

	p := tea.NewProgram(tui.NewApp(in), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

