package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/proforma/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func orUnset(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    History:     %s\n", orUnset(cfg.General.HistoryPath))
	if cfg.General.Sheet != "" {
		fmt.Printf("    Sheet:       %s\n", cfg.General.Sheet)
	}
	fmt.Printf("    Assumptions: %s\n", orUnset(cfg.General.AssumptionsPath))
	fmt.Printf("    Snapshot:    %s\n", orUnset(cfg.General.SnapshotPath))
	fmt.Println()

	fmt.Println("  [Projection]")
	fmt.Printf("    Row indexing:      %s\n", cfg.Projection.RowIndexing)
	fmt.Printf("    Balance tolerance: %s\n", balanceTolerance().String())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  Run `proforma setup` to reconfigure.")
	return nil
}
