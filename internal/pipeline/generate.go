package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nvandessel/fits-pipeline/internal/config"
	"github.com/nvandessel/fits-pipeline/internal/constants"
	"github.com/nvandessel/fits-pipeline/internal/fitsfile"
	"github.com/nvandessel/fits-pipeline/internal/logging"
	"github.com/nvandessel/fits-pipeline/internal/metrics"
	"github.com/nvandessel/fits-pipeline/internal/models"
	"github.com/nvandessel/fits-pipeline/internal/pathutil"
	"github.com/nvandessel/fits-pipeline/internal/report"
	"github.com/nvandessel/fits-pipeline/internal/starfield"
)

// Generator produces a batch of synthetic frames and the generation report.
type Generator struct {
	Options

	// Count is the number of frames to produce.
	Count int
	// Interval separates consecutive observation times, counting backward
	// from the run time.
	Interval time.Duration
	// Sources is the number of stars per frame.
	Sources int
	// Observation supplies the fixed header values.
	Observation config.ObservationConfig
}

// ObservationTimes returns count timestamps spaced interval apart, the first
// equal to base and each later one earlier than the previous.
func ObservationTimes(base time.Time, count int, interval time.Duration) []time.Time {
	times := make([]time.Time, 0, max(count, 0))
	for i := range count {
		times = append(times, base.Add(-time.Duration(i)*interval))
	}
	return times
}

// Run writes Count frames into DataDir and the generation report into
// ReportsDir. Any write failure aborts the run.
func (g *Generator) Run(ctx context.Context) (*models.GenerationMetadata, error) {
	start := time.Now()
	log := g.logger()

	if err := pathutil.EnsureDir(g.DataDir); err != nil {
		return nil, err
	}
	if err := pathutil.EnsureDir(g.ReportsDir); err != nil {
		return nil, err
	}

	base := g.now().UTC()
	created := make([]string, 0, max(g.Count, 0))

	for _, obsTime := range ObservationTimes(base, g.Count, g.Interval) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path, err := g.writeFrame(obsTime)
		if err != nil {
			return nil, err
		}
		created = append(created, path)
		fmt.Fprintf(g.out(), "Created FITS file: %s\n", path)
	}

	meta := models.GenerationMetadata{
		GenerationTime:  models.FormatTime(base),
		FilesCreated:    created,
		TotalFiles:      len(created),
		PipelineVersion: constants.PipelineVersion,
	}
	if err := report.WriteGeneration(g.ReportsDir, meta); err != nil {
		return nil, fmt.Errorf("writing generation report: %w", err)
	}

	fmt.Fprintf(g.out(), "\nGenerated %d FITS files\n", len(created))
	fmt.Fprintln(g.out(), "Generation complete!")

	g.Metrics.Finish(start)
	g.Events.Log("generation_complete", map[string]any{
		"total_files": len(created),
		"report":      report.GenerationPath(g.ReportsDir),
	})
	log.Info("generation complete", "files", len(created), "duration", time.Since(start))

	return &meta, nil
}

// writeFrame renders and writes the frame observed at obsTime, returning its path.
func (g *Generator) writeFrame(obsTime time.Time) (string, error) {
	log := g.logger()

	field := starfield.Generate(obsTime, g.Sources)
	obs := g.Observation.Observation(obsTime, len(field.Sources), field.Seed)
	path := filepath.Join(g.DataDir, obs.FileName())

	if err := fitsfile.Write(path, obs, field.Image); err != nil {
		return "", fmt.Errorf("writing %s: %w", pathutil.RedactPath(path), err)
	}

	var size int64
	if st, err := os.Stat(path); err == nil {
		size = st.Size()
	}
	g.Metrics.ObserveFile(metrics.OutcomeGenerated, size)

	lo, hi := field.Image.Bounds()
	log.Debug("frame written",
		"path", path,
		"object", obs.ObjectName(),
		"seed", field.Seed,
		"sources", len(field.Sources),
		"min", lo,
		"max", hi,
	)
	if log.Enabled(context.Background(), logging.LevelTrace) {
		for i, s := range field.Sources {
			log.Log(context.Background(), logging.LevelTrace, "source injected",
				"index", i, "x", s.X, "y", s.Y, "brightness", s.Brightness, "sigma", s.Sigma)
		}
	}
	g.Events.Log("frame_written", map[string]any{
		"path":       path,
		"object":     obs.ObjectName(),
		"date_obs":   obs.DateObs(),
		"seed":       field.Seed,
		"sources":    len(field.Sources),
		"size_bytes": size,
	})

	return path, nil
}
