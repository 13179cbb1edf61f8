// Package pipeline implements the four fitspipe stages: generate, upload,
// validate and summary. Each stage is a plain struct with a Run method and
// shares no state with the others beyond the filesystem.
package pipeline

import (
	"io"
	"log/slog"
	"time"

	"github.com/nvandessel/fits-pipeline/internal/logging"
	"github.com/nvandessel/fits-pipeline/internal/metrics"
)

// Options holds the directories and sinks every stage uses.
// Zero-valued sinks are replaced with no-op implementations.
type Options struct {
	// DataDir holds the image files.
	DataDir string
	// ReportsDir receives the stage's JSON report.
	ReportsDir string

	// Out receives the stage's human-readable progress lines.
	Out io.Writer
	// Logger receives operational logs.
	Logger *slog.Logger
	// Events receives structured stage events. May be nil.
	Events *logging.EventLogger
	// Metrics collects stage metrics. May be nil.
	Metrics *metrics.StageCollector

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

func (o *Options) out() io.Writer {
	if o.Out == nil {
		return io.Discard
	}
	return o.Out
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o *Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}
