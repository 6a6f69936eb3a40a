// Package config loads and saves proforma settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all proforma configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Projection ProjectionConfig `toml:"projection"`
	Appearance AppearanceConfig `toml:"appearance"`
	Logging    LoggingConfig    `toml:"logging"`
	Server     ServerConfig     `toml:"server"`
}

// GeneralConfig holds default input paths.
type GeneralConfig struct {
	HistoryPath     string `toml:"history_path,omitempty"`
	AssumptionsPath string `toml:"assumptions_path,omitempty"`
	SnapshotPath    string `toml:"snapshot_path,omitempty"`
	Sheet           string `toml:"sheet,omitempty"`
}

// ProjectionConfig holds projector options.
type ProjectionConfig struct {
	RowIndexing string  `toml:"row_indexing"`
	Tolerance   float64 `toml:"balance_tolerance"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LoggingConfig holds log level and output format.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Projection: ProjectionConfig{
			RowIndexing: "row-position",
			Tolerance:   0.01,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8788",
			EventsBuffer: 200,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "proforma")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "proforma")
}

// Path returns the full path to the config file.
func Path() string {
	if p := os.Getenv("PROFORMA_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides (and a .env file in the working directory) are
// applied on top.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom is Load for an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	// A missing .env is normal.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"PROFORMA_HISTORY":      &cfg.General.HistoryPath,
		"PROFORMA_ASSUMPTIONS":  &cfg.General.AssumptionsPath,
		"PROFORMA_SNAPSHOT":     &cfg.General.SnapshotPath,
		"PROFORMA_SHEET":        &cfg.General.Sheet,
		"PROFORMA_ROW_INDEXING": &cfg.Projection.RowIndexing,
		"PROFORMA_THEME":        &cfg.Appearance.Theme,
		"PROFORMA_LOG_LEVEL":    &cfg.Logging.Level,
		"PROFORMA_LOG_FORMAT":   &cfg.Logging.Format,
		"PROFORMA_ADDR":         &cfg.Server.Addr,
	}
	for env, dst := range strs {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("PROFORMA_BALANCE_TOLERANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PROFORMA_BALANCE_TOLERANCE: %w", err)
		}
		cfg.Projection.Tolerance = f
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
