package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndValidate(t *testing.T) {
	// Create temp config file
	content := `
input:
  path: "testdata/players.csv"

snapshot:
  path: "./data/snapshot.db"
  format: sqlite

output:
  dir: "./out"
  plots_dir: "charts"

charts:
  width: 1600
  height: 800
  histogram_bins: 12
  caption: true

report:
  stat_columns:
    - Peak
    - Gain
    - "%Gain"
  joint_counts: [Month, Year]
  bin_width: 25000
  r: 3
  export: true

logging:
  level: "debug"
  format: "json"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	// Test Load
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify values
	if cfg.Input.Path != "testdata/players.csv" {
		t.Errorf("Unexpected input path: %s", cfg.Input.Path)
	}
	if cfg.Snapshot.Format != "sqlite" {
		t.Errorf("Unexpected snapshot format: %s", cfg.Snapshot.Format)
	}
	if cfg.Output.PlotsDir != "charts" {
		t.Errorf("Unexpected plots dir: %s", cfg.Output.PlotsDir)
	}
	if cfg.Charts.HistogramBins != 12 || !cfg.Charts.Caption {
		t.Errorf("Unexpected charts config: %+v", cfg.Charts)
	}
	if len(cfg.Report.StatColumns) != 3 {
		t.Errorf("Expected 3 stat columns, got %d", len(cfg.Report.StatColumns))
	}
	if cfg.Report.BinWidth != 25000 || cfg.Report.R != 3 {
		t.Errorf("Unexpected report config: %+v", cfg.Report)
	}
	// Unset keys keep their defaults
	if cfg.Report.PeakColumn != "Peak" || cfg.Report.MonthColumn != "Month" {
		t.Errorf("Expected default report columns, got %q/%q", cfg.Report.PeakColumn, cfg.Report.MonthColumn)
	}

	// Test Validate
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Input.Path != "Input.csv" {
		t.Errorf("Unexpected default input path: %s", cfg.Input.Path)
	}
	if cfg.Output.Dir != "Output" || cfg.Output.PlotsDir != "plots" {
		t.Errorf("Unexpected default output layout: %+v", cfg.Output)
	}
	if cfg.Report.BinWidth != 50000 || cfg.Report.R != 2 {
		t.Errorf("Unexpected default report config: %+v", cfg.Report)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PEAKSTATS_INPUT_PATH", "/data/other.csv")
	t.Setenv("PEAKSTATS_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Input.Path != "/data/other.csv" {
		t.Errorf("env override not applied: %s", cfg.Input.Path)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("env override not applied: %s", cfg.Logging.Level)
	}
}

func TestValidateErrors(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing input path", func(c *Config) { c.Input.Path = "" }},
		{"unknown snapshot format", func(c *Config) { c.Snapshot.Format = "pickle" }},
		{"tiny chart", func(c *Config) { c.Charts.Width = 10 }},
		{"zero histogram bins", func(c *Config) { c.Charts.HistogramBins = 0 }},
		{"non-positive bin width", func(c *Config) { c.Report.BinWidth = 0 }},
		{"negative r", func(c *Config) { c.Report.R = -1 }},
		{"three joint columns", func(c *Config) { c.Report.JointCounts = []string{"a", "b", "c"} }},
		{"single dot column", func(c *Config) { c.Report.DotColumns = []string{"Peak"} }},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() expected error")
			}
		})
	}
}
