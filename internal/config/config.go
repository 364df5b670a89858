package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Output   OutputConfig   `mapstructure:"output"`
	Charts   ChartsConfig   `mapstructure:"charts"`
	Report   ReportConfig   `mapstructure:"report"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// InputConfig locates the primary CSV
type InputConfig struct {
	Path string `mapstructure:"path"`
}

// SnapshotConfig locates the secondary dataset and its on-disk format
type SnapshotConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"` // empty = infer from extension
}

// OutputConfig holds the output directory layout
type OutputConfig struct {
	Dir      string `mapstructure:"dir"`
	PlotsDir string `mapstructure:"plots_dir"` // relative to Dir
}

// ChartsConfig holds chart rendering options
type ChartsConfig struct {
	Width         int      `mapstructure:"width"`
	Height        int      `mapstructure:"height"`
	HistogramBins int      `mapstructure:"histogram_bins"`
	Caption       bool     `mapstructure:"caption"`
	LineLabels    []string `mapstructure:"line_labels"` // legacy x-axis labels, used only when length matches
}

// ReportConfig holds snapshot report options
type ReportConfig struct {
	StatColumns []string `mapstructure:"stat_columns"`
	DotColumns  []string `mapstructure:"dot_columns"`
	JointCounts []string `mapstructure:"joint_counts"`
	PeakColumn  string   `mapstructure:"peak_column"`
	MonthColumn string   `mapstructure:"month_column"`
	BinWidth    float64  `mapstructure:"bin_width"`
	R           int      `mapstructure:"r"`
	Export      bool     `mapstructure:"export"`
	Workbook    string   `mapstructure:"workbook"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// A missing file is not an error; defaults and environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("PEAKSTATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "Input.csv")

	v.SetDefault("snapshot.path", "data.json")
	v.SetDefault("snapshot.format", "")

	v.SetDefault("output.dir", "Output")
	v.SetDefault("output.plots_dir", "plots")

	v.SetDefault("charts.width", 1200)
	v.SetDefault("charts.height", 600)
	v.SetDefault("charts.histogram_bins", 10)
	v.SetDefault("charts.caption", false)
	v.SetDefault("charts.line_labels", []string{})

	v.SetDefault("report.stat_columns", []string{"Peak", "Gain"})
	v.SetDefault("report.dot_columns", []string{"Peak", "Gain"})
	v.SetDefault("report.joint_counts", []string{})
	v.SetDefault("report.peak_column", "Peak")
	v.SetDefault("report.month_column", "Month")
	v.SetDefault("report.bin_width", 50000)
	v.SetDefault("report.r", 2)
	v.SetDefault("report.export", false)
	v.SetDefault("report.workbook", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}

	if c.Snapshot.Path == "" {
		return fmt.Errorf("snapshot.path is required")
	}
	validFormats := map[string]bool{"": true, "json": true, "msgpack": true, "mpk": true, "sqlite": true, "db": true, "csv": true}
	if !validFormats[strings.ToLower(c.Snapshot.Format)] {
		return fmt.Errorf("snapshot.format must be one of: json, msgpack, sqlite, csv")
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Output.PlotsDir == "" {
		return fmt.Errorf("output.plots_dir is required")
	}

	if c.Charts.Width < 200 || c.Charts.Height < 200 {
		return fmt.Errorf("charts.width and charts.height must be at least 200")
	}
	if c.Charts.HistogramBins < 1 {
		return fmt.Errorf("charts.histogram_bins must be at least 1")
	}

	if c.Report.PeakColumn == "" || c.Report.MonthColumn == "" {
		return fmt.Errorf("report.peak_column and report.month_column are required")
	}
	if c.Report.BinWidth <= 0 {
		return fmt.Errorf("report.bin_width must be positive")
	}
	if c.Report.R < 0 {
		return fmt.Errorf("report.r must not be negative")
	}
	if n := len(c.Report.JointCounts); n != 0 && n != 2 {
		return fmt.Errorf("report.joint_counts must name exactly two columns")
	}
	if len(c.Report.DotColumns) == 1 {
		return fmt.Errorf("report.dot_columns needs at least two columns")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
