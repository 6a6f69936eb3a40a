package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Projection.RowIndexing != "row-position" {
		t.Errorf("RowIndexing = %q, want row-position", cfg.Projection.RowIndexing)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("Theme = %q, want flexoki-dark", cfg.Appearance.Theme)
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[general]
history_path = "hist.csv"

[projection]
row_indexing = "last-n"
balance_tolerance = 0.5
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PROFORMA_LOG_LEVEL", "debug")
	t.Setenv("PROFORMA_BALANCE_TOLERANCE", "0.25")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.HistoryPath != "hist.csv" {
		t.Errorf("HistoryPath = %q, want hist.csv", cfg.General.HistoryPath)
	}
	if cfg.Projection.RowIndexing != "last-n" {
		t.Errorf("RowIndexing = %q, want last-n", cfg.Projection.RowIndexing)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug (env override)", cfg.Logging.Level)
	}
	if cfg.Projection.Tolerance != 0.25 {
		t.Errorf("Tolerance = %v, want 0.25 (env override)", cfg.Projection.Tolerance)
	}
	if cfg.Server.Addr == "" {
		t.Error("Server.Addr lost its default")
	}
}

func TestLoadFromBadTolerance(t *testing.T) {
	t.Setenv("PROFORMA_BALANCE_TOLERANCE", "lots")
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for non-numeric tolerance")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	t.Setenv("PROFORMA_CONFIG", path)

	cfg := DefaultConfig()
	cfg.General.AssumptionsPath = "drivers.yaml"
	cfg.Appearance.Theme = "paper"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.AssumptionsPath != "drivers.yaml" || got.Appearance.Theme != "paper" {
		t.Errorf("round trip = %+v", got)
	}
}
