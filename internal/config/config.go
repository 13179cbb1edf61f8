// Package config provides unified configuration loading for fitspipe.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nvandessel/fits-pipeline/internal/constants"
	"github.com/nvandessel/fits-pipeline/internal/models"
	"github.com/nvandessel/fits-pipeline/internal/pathutil"
	"gopkg.in/yaml.v3"
)

// PipelineConfig contains all fitspipe configuration settings.
type PipelineConfig struct {
	// DataDir holds the generated image files. Relative to the project root.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// ReportsDir holds the per-stage JSON reports. Relative to the project root.
	ReportsDir string `json:"reports_dir" yaml:"reports_dir"`

	// Generation contains settings for the generate stage.
	Generation GenerationConfig `json:"generation" yaml:"generation"`

	// Observation contains the header values stamped on every frame.
	Observation ObservationConfig `json:"observation" yaml:"observation"`

	// Upload contains settings for the upload stage.
	Upload UploadConfig `json:"upload" yaml:"upload"`

	// Metrics contains settings for per-stage metrics export.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Logging contains settings for operational and event logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// GenerationConfig configures batch frame generation.
type GenerationConfig struct {
	// Count is the number of frames produced per run.
	Count int `json:"count" yaml:"count"`

	// Interval is the spacing between observation times, counting backward
	// from the run time.
	Interval time.Duration `json:"interval" yaml:"interval"`

	// Sources is the number of point sources injected into each frame.
	Sources int `json:"sources" yaml:"sources"`
}

// ObservationConfig holds the fixed header metadata for generated frames.
type ObservationConfig struct {
	Telescope    string  `json:"telescope" yaml:"telescope"`
	Instrument   string  `json:"instrument" yaml:"instrument"`
	Observer     string  `json:"observer" yaml:"observer"`
	ExposureTime float64 `json:"exposure_time" yaml:"exposure_time"`
	Filter       string  `json:"filter" yaml:"filter"`
}

// Observation builds the header metadata for a frame observed at t.
func (c ObservationConfig) Observation(t time.Time, sources int, seed uint64) models.Observation {
	return models.Observation{
		Telescope:    c.Telescope,
		Instrument:   c.Instrument,
		Observer:     c.Observer,
		Time:         t,
		ExposureTime: c.ExposureTime,
		Filter:       c.Filter,
		Sources:      sources,
		Seed:         seed,
	}
}

// UploadConfig configures the upload manifest stage.
type UploadConfig struct {
	// Catalog enables recording each manifest entry in the local SQLite
	// upload catalog.
	Catalog bool `json:"catalog" yaml:"catalog"`

	// CatalogPath overrides the catalog location. Empty means
	// <reports_dir>/upload_catalog.db.
	CatalogPath string `json:"catalog_path,omitempty" yaml:"catalog_path,omitempty"`
}

// MetricsConfig configures Prometheus textfile export.
type MetricsConfig struct {
	// TextfileDir receives one fitspipe_<stage>.prom file per stage run.
	// Empty disables export.
	TextfileDir string `json:"textfile_dir,omitempty" yaml:"textfile_dir,omitempty"`
}

// LoggingConfig configures fitspipe's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" and "trace" also enable the stage event log in reports/events.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns a PipelineConfig with sensible defaults.
func Default() *PipelineConfig {
	return &PipelineConfig{
		DataDir:    constants.DefaultDataDir,
		ReportsDir: constants.DefaultReportsDir,
		Generation: GenerationConfig{
			Count:    constants.DefaultFrameCount,
			Interval: constants.DefaultFrameInterval,
			Sources:  constants.DefaultSourceCount,
		},
		Observation: ObservationConfig{
			Telescope:    constants.DefaultTelescope,
			Instrument:   constants.DefaultInstrument,
			Observer:     constants.DefaultObserver,
			ExposureTime: constants.DefaultExposureTime,
			Filter:       constants.DefaultFilter,
		},
		Upload: UploadConfig{
			Catalog: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration for the project at root.
// Order: defaults -> explicit path, or <root>/fitspipe.yaml if present -> environment variables.
// An explicit path that does not exist is an error; a missing default file is not.
func Load(root, path string) (*PipelineConfig, error) {
	config := Default()

	if path == "" {
		candidate := filepath.Join(root, constants.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
// Keys absent from the file keep their default values.
func LoadFromFile(path string) (*PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Upload.CatalogPath = os.ExpandEnv(config.Upload.CatalogPath)
	config.Metrics.TextfileDir = os.ExpandEnv(config.Metrics.TextfileDir)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *PipelineConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.ReportsDir == "" {
		return fmt.Errorf("reports_dir must not be empty")
	}

	if c.Generation.Count <= 0 {
		return fmt.Errorf("generation.count must be positive, got %d", c.Generation.Count)
	}
	if c.Generation.Sources < 0 {
		return fmt.Errorf("generation.sources must be non-negative, got %d", c.Generation.Sources)
	}
	if c.Generation.Interval <= 0 {
		return fmt.Errorf("generation.interval must be positive, got %v", c.Generation.Interval)
	}
	// Frame names have one-second resolution.
	if c.Generation.Count > 1 && c.Generation.Interval < time.Second {
		return fmt.Errorf("generation.interval must be at least 1s to keep file names unique, got %v", c.Generation.Interval)
	}

	if c.Observation.ExposureTime < 0 {
		return fmt.Errorf("observation.exposure_time must be non-negative, got %f", c.Observation.ExposureTime)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// ResolvedCatalogPath returns the catalog database path. With no explicit
// path it lives in reportsDir. A relative catalog_path is resolved against
// root and confined to it, like data_dir and reports_dir.
func (c *PipelineConfig) ResolvedCatalogPath(root, reportsDir string) (string, error) {
	if c.Upload.CatalogPath == "" {
		return filepath.Join(reportsDir, constants.CatalogFile), nil
	}
	path, err := pathutil.ResolveDir(root, c.Upload.CatalogPath)
	if err != nil {
		return "", fmt.Errorf("upload.catalog_path: %w", err)
	}
	return path, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *PipelineConfig) {
	if v := os.Getenv("FITSPIPE_DATA_DIR"); v != "" {
		config.DataDir = v
	}

	if v := os.Getenv("FITSPIPE_REPORTS_DIR"); v != "" {
		config.ReportsDir = v
	}

	if v := os.Getenv("FITSPIPE_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Generation.Count = n
		}
	}

	if v := os.Getenv("FITSPIPE_STARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Generation.Sources = n
		}
	}

	if v := os.Getenv("FITSPIPE_CATALOG"); v != "" {
		config.Upload.Catalog = v == "true" || v == "1"
	}

	if v := os.Getenv("FITSPIPE_METRICS_DIR"); v != "" {
		config.Metrics.TextfileDir = v
	}

	if v := os.Getenv("FITSPIPE_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
