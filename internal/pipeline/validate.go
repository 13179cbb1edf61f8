package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/nvandessel/fits-pipeline/internal/fitsfile"
	"github.com/nvandessel/fits-pipeline/internal/metrics"
	"github.com/nvandessel/fits-pipeline/internal/models"
	"github.com/nvandessel/fits-pipeline/internal/pathutil"
	"github.com/nvandessel/fits-pipeline/internal/report"
)

// Validator opens every image file in DataDir and reports whether it parses.
type Validator struct {
	Options
}

// ValidateFile inspects one file. Structural errors are folded into the
// record instead of being returned.
func ValidateFile(path string) models.ValidationRecord {
	info, err := fitsfile.Inspect(path)
	if err != nil {
		return models.ValidationRecord{File: path, Valid: false, Error: err.Error()}
	}
	return models.ValidationRecord{
		File:       path,
		Valid:      true,
		NumHDU:     info.NumHDU,
		DataShape:  info.ShapeString(),
		FileSizeMB: info.SizeMB(),
	}
}

// Run validates each file in name order, writes the validation report and
// prints a running tally. A file that fails to parse never stops the run.
func (v *Validator) Run(ctx context.Context) ([]models.ValidationRecord, error) {
	start := time.Now()
	log := v.logger()

	files, err := pathutil.ListFITS(v.DataDir)
	if err != nil {
		return nil, err
	}

	records := make([]models.ValidationRecord, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := ValidateFile(f.Path)
		records = append(records, rec)

		if rec.Valid {
			fmt.Fprintf(v.out(), "Valid: %s\n", f.Path)
			v.Metrics.ObserveFile(metrics.OutcomeValid, f.Size)
			log.Debug("file valid", "path", f.Path, "num_hdu", rec.NumHDU, "shape", rec.DataShape)
		} else {
			fmt.Fprintf(v.out(), "Invalid: %s\n", f.Path)
			v.Metrics.ObserveFile(metrics.OutcomeInvalid, f.Size)
			log.Warn("file invalid", "path", f.Path, "error", rec.Error)
		}
		v.Events.Log("file_checked", map[string]any{
			"path":  f.Path,
			"valid": rec.Valid,
			"error": rec.Error,
		})
	}

	if err := pathutil.EnsureDir(v.ReportsDir); err != nil {
		return nil, err
	}
	if err := report.WriteValidation(v.ReportsDir, records); err != nil {
		return nil, fmt.Errorf("writing validation report: %w", err)
	}

	valid := models.CountValid(records)
	fmt.Fprintf(v.out(), "Validation: %d/%d files valid\n", valid, len(records))

	v.Metrics.Finish(start)
	v.Events.Log("validation_complete", map[string]any{
		"valid": valid,
		"total": len(records),
	})
	log.Info("validation complete", "valid", valid, "total", len(records), "duration", time.Since(start))

	return records, nil
}
