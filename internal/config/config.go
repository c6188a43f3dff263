// Package config defines pipeline configuration and its loading layers.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and PDXCRIME_ environment variables on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/okian/pdxcrime/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output from text to JSON.
	LogJSON bool `koanf:"log_json"`

	// DataDir holds crime/, real_estate/ and neighborhoods/ source trees.
	// Empty means the files bundled into the binary.
	DataDir string `koanf:"data_dir"`

	// OutputDir receives written tables. Its parent must exist.
	OutputDir string `koanf:"output_dir"`

	// Format is the default output format: csv or parquet.
	Format string `koanf:"format"`

	// Compression is the Parquet codec: snappy, zstd, gzip or none.
	Compression string `koanf:"compression"`

	// FirstYear and LastYear bound the years a run processes.
	FirstYear int `koanf:"first_year"`
	LastYear  int `koanf:"last_year"`

	// MetricsFile, when set, receives a Prometheus textfile at exit.
	MetricsFile string `koanf:"metrics_file"`

	// MetricsEnabled turns metric recording on. When off, an exported
	// textfile still lists every metric, all at zero.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// Workers is the number of years normalized at once. The default of one
	// processes years strictly in order.
	Workers int `koanf:"workers"`

	// Repair fills the missing 2019 WOODSTOCK real-estate row.
	Repair bool `koanf:"repair"`
}

var (
	logLevels   = []string{"debug", "info", "warn", "error"}
	formats     = []string{"csv", "parquet"}
	compressors = []string{"snappy", "zstd", "gzip", "none"}
)

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		OutputDir:      "out",
		Format:         "parquet",
		Compression:    "snappy",
		FirstYear:      model.FirstYear,
		LastYear:       model.LastYear,
		Workers:        1,
		Repair:         true,
		MetricsEnabled: true,
	}
}

// Years returns the configured year range.
func (c *Config) Years() []int {
	return model.Years(c.FirstYear, c.LastYear)
}

// Validate checks every field.
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	}
	if !slices.Contains(formats, strings.ToLower(c.Format)) {
		return fmt.Errorf("%w: format %q", ErrInvalidConfig, c.Format)
	}
	if !slices.Contains(compressors, strings.ToLower(c.Compression)) {
		return fmt.Errorf("%w: compression %q", ErrInvalidConfig, c.Compression)
	}
	if !model.SupportedYear(c.FirstYear) || !model.SupportedYear(c.LastYear) {
		return fmt.Errorf("%w: years %d..%d outside %d..%d",
			ErrInvalidConfig, c.FirstYear, c.LastYear, model.FirstYear, model.LastYear)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.FirstYear > c.LastYear {
		return fmt.Errorf("%w: first_year %d after last_year %d", ErrInvalidConfig, c.FirstYear, c.LastYear)
	}
	return nil
}
