package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	config := Default()

	if config.DataDir != "data" {
		t.Errorf("expected DataDir 'data', got '%s'", config.DataDir)
	}
	if config.ReportsDir != "reports" {
		t.Errorf("expected ReportsDir 'reports', got '%s'", config.ReportsDir)
	}

	// Generation defaults
	if config.Generation.Count != 4 {
		t.Errorf("expected Count 4, got %d", config.Generation.Count)
	}
	if config.Generation.Interval != 15*time.Minute {
		t.Errorf("expected Interval 15m, got %v", config.Generation.Interval)
	}
	if config.Generation.Sources != 50 {
		t.Errorf("expected Sources 50, got %d", config.Generation.Sources)
	}

	// Observation defaults
	if config.Observation.ExposureTime != 300.0 {
		t.Errorf("expected ExposureTime 300, got %f", config.Observation.ExposureTime)
	}
	if config.Observation.Filter != "V" {
		t.Errorf("expected Filter 'V', got '%s'", config.Observation.Filter)
	}

	if !config.Upload.Catalog {
		t.Error("expected Upload.Catalog to be true by default")
	}
	if config.Metrics.TextfileDir != "" {
		t.Errorf("expected metrics export disabled, got '%s'", config.Metrics.TextfileDir)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "fitspipe.yaml")

	configContent := `
data_dir: frames
generation:
  count: 6
  interval: 5m
observation:
  telescope: TEST-1
upload:
  catalog: false
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.DataDir != "frames" {
		t.Errorf("expected DataDir 'frames', got '%s'", config.DataDir)
	}
	if config.Generation.Count != 6 {
		t.Errorf("expected Count 6, got %d", config.Generation.Count)
	}
	if config.Generation.Interval != 5*time.Minute {
		t.Errorf("expected Interval 5m, got %v", config.Generation.Interval)
	}
	if config.Observation.Telescope != "TEST-1" {
		t.Errorf("expected Telescope 'TEST-1', got '%s'", config.Observation.Telescope)
	}
	if config.Upload.Catalog {
		t.Error("expected Upload.Catalog false")
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected Logging.Level 'debug', got '%s'", config.Logging.Level)
	}

	// Unset keys keep defaults.
	if config.ReportsDir != "reports" {
		t.Errorf("expected ReportsDir default 'reports', got '%s'", config.ReportsDir)
	}
	if config.Generation.Sources != 50 {
		t.Errorf("expected Sources default 50, got %d", config.Generation.Sources)
	}
	if config.Observation.Filter != "V" {
		t.Errorf("expected Filter default 'V', got '%s'", config.Observation.Filter)
	}
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "fitspipe.yaml")
	t.Setenv("TEST_METRICS_DIR", "/var/lib/node_exporter")

	if err := os.WriteFile(configPath, []byte("metrics:\n  textfile_dir: ${TEST_METRICS_DIR}/textfile\n"), 0600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if config.Metrics.TextfileDir != "/var/lib/node_exporter/textfile" {
		t.Errorf("expected expanded dir, got '%s'", config.Metrics.TextfileDir)
	}
}

func TestLoad_UsesRootConfigFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "fitspipe.yaml"), []byte("reports_dir: out\n"), 0600); err != nil {
		t.Fatal(err)
	}

	config, err := Load(root, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.ReportsDir != "out" {
		t.Errorf("expected ReportsDir 'out', got '%s'", config.ReportsDir)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	config, err := Load(t.TempDir(), "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Generation.Count != 4 {
		t.Errorf("expected default Count 4, got %d", config.Generation.Count)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FITSPIPE_DATA_DIR", "d2")
	t.Setenv("FITSPIPE_REPORTS_DIR", "r2")
	t.Setenv("FITSPIPE_COUNT", "8")
	t.Setenv("FITSPIPE_STARS", "12")
	t.Setenv("FITSPIPE_CATALOG", "0")
	t.Setenv("FITSPIPE_METRICS_DIR", "/tmp/metrics")
	t.Setenv("FITSPIPE_LOG_LEVEL", "trace")

	config := Default()
	applyEnvOverrides(config)

	if config.DataDir != "d2" || config.ReportsDir != "r2" {
		t.Errorf("dirs = %s, %s; want d2, r2", config.DataDir, config.ReportsDir)
	}
	if config.Generation.Count != 8 {
		t.Errorf("expected Count 8, got %d", config.Generation.Count)
	}
	if config.Generation.Sources != 12 {
		t.Errorf("expected Sources 12, got %d", config.Generation.Sources)
	}
	if config.Upload.Catalog {
		t.Error("expected Upload.Catalog false")
	}
	if config.Metrics.TextfileDir != "/tmp/metrics" {
		t.Errorf("expected TextfileDir '/tmp/metrics', got '%s'", config.Metrics.TextfileDir)
	}
	if config.Logging.Level != "trace" {
		t.Errorf("expected Logging.Level 'trace', got '%s'", config.Logging.Level)
	}
}

func TestEnvOverrides_IgnoresGarbageNumbers(t *testing.T) {
	t.Setenv("FITSPIPE_COUNT", "many")
	config := Default()
	applyEnvOverrides(config)
	if config.Generation.Count != 4 {
		t.Errorf("expected Count to stay 4, got %d", config.Generation.Count)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PipelineConfig)
		want   string
	}{
		{"zero count", func(c *PipelineConfig) { c.Generation.Count = 0 }, "generation.count"},
		{"negative sources", func(c *PipelineConfig) { c.Generation.Sources = -1 }, "generation.sources"},
		{"zero interval", func(c *PipelineConfig) { c.Generation.Interval = 0 }, "generation.interval"},
		{"sub-second interval", func(c *PipelineConfig) { c.Generation.Interval = 500 * time.Millisecond }, "unique"},
		{"empty data dir", func(c *PipelineConfig) { c.DataDir = "" }, "data_dir"},
		{"empty reports dir", func(c *PipelineConfig) { c.ReportsDir = "" }, "reports_dir"},
		{"negative exposure", func(c *PipelineConfig) { c.Observation.ExposureTime = -1 }, "exposure_time"},
		{"bad log level", func(c *PipelineConfig) { c.Logging.Level = "loud" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)
			err := config.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidate_SingleFrameAllowsAnyPositiveInterval(t *testing.T) {
	config := Default()
	config.Generation.Count = 1
	config.Generation.Interval = time.Millisecond
	if err := config.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResolvedCatalogPath(t *testing.T) {
	root := t.TempDir()
	reports := filepath.Join(root, "reports")

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"default lives in reports dir", "", filepath.Join(reports, "upload_catalog.db"), false},
		{"absolute passes through", "/srv/catalog.db", "/srv/catalog.db", false},
		{"relative resolves against root", "db/catalog.db", filepath.Join(root, "db", "catalog.db"), false},
		{"relative escaping root", "../catalog.db", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			config.Upload.CatalogPath = tt.path

			got, err := config.ResolvedCatalogPath(root, reports)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolvedCatalogPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolvedCatalogPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("generation: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestObservationConfig_Observation(t *testing.T) {
	ts := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	obs := Default().Observation.Observation(ts, 50, 99)
	if obs.Telescope != "FITSAUTA-1" || obs.Sources != 50 || obs.Seed != 99 || !obs.Time.Equal(ts) {
		t.Errorf("Observation() = %+v", obs)
	}
}
