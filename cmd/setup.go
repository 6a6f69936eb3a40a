package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/proforma/internal/config"
	"github.com/theirongolddev/proforma/internal/source"
	"github.com/theirongolddev/proforma/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled.")
			return nil
		}
		return err
	}
	vals.Apply(&cfg)

	if cfg.General.AssumptionsPath == "" {
		path, err := writeStarterAssumptions()
		if err != nil {
			return err
		}
		cfg.General.AssumptionsPath = path
		fmt.Printf("  Wrote starter drivers to %s\n", path)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `proforma setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

// writeStarterAssumptions saves the built-in drivers next to the config
// file, leaving an existing file untouched.
func writeStarterAssumptions() (string, error) {
	path := filepath.Join(config.Dir(), "assumptions.toml")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(config.Dir(), 0o750); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	f, err := os.Create(path) //nolint:gosec // path is under the user's config dir
	if err != nil {
		return "", fmt.Errorf("creating assumptions file: %w", err)
	}
	if err := source.SaveAssumptions(f, source.DefaultAssumptions()); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}
