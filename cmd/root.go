// Package cmd implements the proforma CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/proforma/internal/config"
	"github.com/theirongolddev/proforma/internal/logging"
	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/source"
	"github.com/theirongolddev/proforma/internal/store"
)

var (
	flagConfig      string
	flagHistory     string
	flagSheet       string
	flagAssumptions string
	flagSnapshot    string
	flagRowIndexing string
	flagLogLevel    string
	flagLogFormat   string
	flagQuiet       bool
)

// cfg is the effective configuration, loaded before every command.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "proforma",
	Short: "Five-year pro-forma financial statements",
	Long: "Project a five-year income statement and balance sheet from historical\n" +
		"financials and a set of drivers, and aggregate single-period balance sheets.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runReport,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default "+config.Path()+")")
	pf.StringVarP(&flagHistory, "history", "H", "", "Historical financials (.csv or .xlsx)")
	pf.StringVar(&flagSheet, "sheet", "", "Worksheet to read from an .xlsx history")
	pf.StringVarP(&flagAssumptions, "assumptions", "a", "", "Assumptions file (.toml, .yaml or .json)")
	pf.StringVar(&flagSnapshot, "snapshot", "", "Single-period balance sheet file (.toml, .yaml or .json)")
	pf.StringVarP(&flagRowIndexing, "row-indexing", "r", "", "Historical rows for ratios: row-position or last-n")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: console or json")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Only log warnings and errors")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	if flagConfig != "" {
		if err := os.Setenv("PROFORMA_CONFIG", flagConfig); err != nil {
			return err
		}
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	level, format := cfg.Logging.Level, cfg.Logging.Format
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if flagLogFormat != "" {
		format = flagLogFormat
	}
	logging.Setup(level, format, flagQuiet)
	return nil
}

func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

// loadHistory reads the historical record named by --history or the config.
func loadHistory() (*model.HistoricalRecord, error) {
	path := pick(flagHistory, cfg.General.HistoryPath)
	if path == "" {
		return nil, errors.New("no historical data: pass --history or run `proforma setup`")
	}

	start := time.Now()
	h, err := source.LoadHistory(path, pick(flagSheet, cfg.General.Sheet))
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("path", path).
		Int("years", h.Len()).
		Int("columns", len(h.ColumnNames())).
		Dur("elapsed", time.Since(start)).
		Msg("loaded history")
	return h, nil
}

// errNoAssumptions is returned when a one-shot projection has no driver file.
var errNoAssumptions = &model.FieldError{
	Field:  "assumptions",
	Err:    model.ErrMissingField,
	Detail: "pass --assumptions or run `proforma setup`",
}

// loadAssumptions reads the configured driver set. Without one, it fails
// unless fallback is set, in which case the built-in defaults are used.
func loadAssumptions(fallback bool) (model.AssumptionSet, error) {
	path := pick(flagAssumptions, cfg.General.AssumptionsPath)
	if path == "" {
		if !fallback {
			return model.AssumptionSet{}, errNoAssumptions
		}
		log.Warn().Msg("no assumptions file configured, using built-in defaults")
		return source.DefaultAssumptions(), nil
	}
	a, err := source.LoadAssumptions(path)
	if err != nil {
		return model.AssumptionSet{}, err
	}
	log.Info().Str("path", path).Int("drivers", a.Len()).Msg("loaded assumptions")
	return a, nil
}

// loadSnapshot reads the static balance sheet, falling back to the sample
// snapshot when none is configured.
func loadSnapshot() (model.Snapshot, error) {
	path := pick(flagSnapshot, cfg.General.SnapshotPath)
	if path == "" {
		log.Warn().Msg("no snapshot file configured, using the sample snapshot")
		return source.DefaultSnapshot(), nil
	}
	s, err := source.LoadSnapshot(path)
	if err != nil {
		return model.Snapshot{}, err
	}
	log.Info().Str("path", path).Msg("loaded snapshot")
	return s, nil
}

func projectionOptions() (projection.Options, error) {
	mode, err := model.ParseRowIndexing(pick(flagRowIndexing, cfg.Projection.RowIndexing))
	if err != nil {
		return projection.Options{}, err
	}
	return projection.Options{RowIndexing: mode}, nil
}

func balanceTolerance() decimal.Decimal {
	if cfg.Projection.Tolerance <= 0 {
		return projection.DefaultTolerance
	}
	return decimal.NewFromFloat(cfg.Projection.Tolerance)
}

// projectionInputs loads everything a statement projection needs.
func projectionInputs() (*model.HistoricalRecord, model.AssumptionSet, projection.Options, error) {
	opts, err := projectionOptions()
	if err != nil {
		return nil, model.AssumptionSet{}, opts, err
	}
	h, err := loadHistory()
	if err != nil {
		return nil, model.AssumptionSet{}, opts, err
	}
	a, err := loadAssumptions(false)
	if err != nil {
		return nil, model.AssumptionSet{}, opts, err
	}
	return h, a, opts, nil
}

// project runs one statement and records the attempt in the ledger.
func project(ledger *store.Ledger, statement string, a model.AssumptionSet, h *model.HistoricalRecord, opts projection.Options, origin string) (*model.Table, error) {
	p, ok := projection.New(statement, a, h, opts)
	if !ok {
		return nil, fmt.Errorf("unknown statement %q", statement)
	}

	start := time.Now()
	table, err := p.CalculateAllLineItems()

	run := store.Run{
		Statement:   statement,
		Source:      origin,
		RowIndexing: string(opts.RowIndexing),
		Assumptions: a.Values(),
		Table:       table,
	}
	if err != nil {
		run.Table = nil
		run.Error, run.ErrorKind = err.Error(), model.ErrorKind(err)
	}
	if ledger != nil {
		if stored, recErr := ledger.Record(run); recErr != nil {
			log.Error().Err(recErr).Msg("recording run")
		} else {
			log.Debug().Str("run_id", stored.ID).Str("statement", statement).Msg("recorded run")
		}
	}

	if err != nil {
		log.Error().
			Str("statement", statement).
			Str("kind", model.ErrorKind(err)).
			Str("field", model.ErrorField(err)).
			Msg("projection failed")
		return nil, fmt.Errorf("%s statement: %w", statement, err)
	}
	log.Info().Str("statement", statement).Dur("elapsed", time.Since(start)).Msg("projected")
	return table, nil
}
