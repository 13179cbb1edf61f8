// Package metrics collects per-stage Prometheus metrics and exports them as a
// node_exporter textfile when a stage finishes.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// File outcomes used as the "outcome" label.
const (
	OutcomeGenerated = "generated"
	OutcomeListed    = "listed"
	OutcomeValid     = "valid"
	OutcomeInvalid   = "invalid"
)

// StageCollector bundles the metrics of one stage run on a private registry.
// A nil *StageCollector is safe to use; all methods are no-ops.
type StageCollector struct {
	stage    string
	registry *prometheus.Registry

	Files    *prometheus.CounterVec
	Bytes    prometheus.Counter
	Duration prometheus.Gauge
	LastRun  prometheus.Gauge
}

// NewStageCollector registers the stage metrics on a fresh registry.
func NewStageCollector(stage string) (*StageCollector, error) {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"stage": stage}

	files := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "fitspipe_files_total",
		Help:        "Image files handled by the stage, labeled by outcome.",
		ConstLabels: labels,
	}, []string{"outcome"})
	bytes := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "fitspipe_file_bytes_total",
		Help:        "Total size of image files handled by the stage.",
		ConstLabels: labels,
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "fitspipe_stage_duration_seconds",
		Help:        "Wall-clock duration of the last stage run.",
		ConstLabels: labels,
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "fitspipe_stage_last_run_timestamp_seconds",
		Help:        "Unix time at which the last stage run finished.",
		ConstLabels: labels,
	})

	for _, c := range []prometheus.Collector{files, bytes, duration, lastRun} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering %s metrics: %w", stage, err)
		}
	}

	return &StageCollector{
		stage:    stage,
		registry: reg,
		Files:    files,
		Bytes:    bytes,
		Duration: duration,
		LastRun:  lastRun,
	}, nil
}

// ObserveFile counts one file with the given outcome and size.
func (c *StageCollector) ObserveFile(outcome string, size int64) {
	if c == nil {
		return
	}
	c.Files.WithLabelValues(outcome).Inc()
	if size > 0 {
		c.Bytes.Add(float64(size))
	}
}

// Finish records the run duration measured from start and the finish time.
func (c *StageCollector) Finish(start time.Time) {
	if c == nil {
		return
	}
	now := time.Now()
	c.Duration.Set(now.Sub(start).Seconds())
	c.LastRun.Set(float64(now.Unix()))
}

// TextfilePath returns where WriteTextfile puts the stage's metrics inside dir.
func TextfilePath(dir, stage string) string {
	return filepath.Join(dir, "fitspipe_"+stage+".prom")
}

// WriteTextfile writes the stage metrics to dir in the Prometheus text format.
// An empty dir disables export.
func (c *StageCollector) WriteTextfile(dir string) error {
	if c == nil || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(TextfilePath(dir, c.stage), c.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
