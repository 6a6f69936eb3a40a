package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/proforma/internal/config"
	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/tui/theme"
)

// SetupValues holds the answers of the setup wizard.
type SetupValues struct {
	HistoryPath     string
	Sheet           string
	AssumptionsPath string
	SnapshotPath    string
	RowIndexing     string
	Theme           string
}

// SetupValuesFrom seeds the wizard with the current config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		HistoryPath:     cfg.General.HistoryPath,
		Sheet:           cfg.General.Sheet,
		AssumptionsPath: cfg.General.AssumptionsPath,
		SnapshotPath:    cfg.General.SnapshotPath,
		RowIndexing:     cfg.Projection.RowIndexing,
		Theme:           cfg.Appearance.Theme,
	}
}

// Apply copies the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	cfg.General.HistoryPath = strings.TrimSpace(v.HistoryPath)
	cfg.General.Sheet = strings.TrimSpace(v.Sheet)
	cfg.General.AssumptionsPath = strings.TrimSpace(v.AssumptionsPath)
	cfg.General.SnapshotPath = strings.TrimSpace(v.SnapshotPath)
	if v.RowIndexing != "" {
		cfg.Projection.RowIndexing = v.RowIndexing
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
}

// NewSetupForm builds the first-run wizard bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("proforma setup").
				Description("Point proforma at your historical financials and drivers.\nLeave a path empty to keep the built-in defaults."),
			huh.NewInput().
				Title("Historical data").
				Description("CSV or XLSX, one row per fiscal year").
				Placeholder("financials.xlsx").
				Value(&vals.HistoryPath).
				Validate(optionalFile),
			huh.NewInput().
				Title("Worksheet").
				Description("XLSX only; empty means the first sheet").
				Value(&vals.Sheet),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Assumptions file").
				Description("TOML, YAML or JSON").
				Placeholder("assumptions.toml").
				Value(&vals.AssumptionsPath).
				Validate(optionalFile),
			huh.NewInput().
				Title("Snapshot file").
				Description("Single-period balance sheet buckets").
				Value(&vals.SnapshotPath).
				Validate(optionalFile),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Historical row indexing").
				Options(
					huh.NewOption("row position (rows 0..4)", string(model.RowPosition)),
					huh.NewOption("last n (most recent five years)", string(model.LastN)),
				).
				Value(&vals.RowIndexing),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeBase())
}

func optionalFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
