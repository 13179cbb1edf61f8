package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/nvandessel/fits-pipeline/internal/catalog"
	"github.com/nvandessel/fits-pipeline/internal/constants"
	"github.com/nvandessel/fits-pipeline/internal/metrics"
	"github.com/nvandessel/fits-pipeline/internal/models"
	"github.com/nvandessel/fits-pipeline/internal/pathutil"
	"github.com/nvandessel/fits-pipeline/internal/report"
)

// Uploader builds the upload manifest. It transfers nothing: every file found
// in DataDir is listed with uploaded=true.
type Uploader struct {
	Options

	// Catalog, when set, receives one entry per listed file.
	Catalog *catalog.Catalog
	// RunID tags catalog entries written by this run.
	RunID string
}

// Run lists DataDir, records the files in the catalog if one is configured,
// and writes the manifest into ReportsDir.
func (u *Uploader) Run(ctx context.Context) (*models.UploadManifest, error) {
	start := time.Now()
	log := u.logger()

	if err := pathutil.EnsureDir(u.DataDir); err != nil {
		return nil, err
	}

	manifest := models.UploadManifest{
		UploadTime: models.FormatTime(u.now()),
		Files:      []models.ManifestEntry{},
		Status:     constants.UploadStatusPending,
	}

	files, err := pathutil.ListFITS(u.DataDir)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		manifest.Files = append(manifest.Files, models.ManifestEntry{
			Path:      f.Path,
			SizeBytes: f.Size,
			Uploaded:  true,
		})
		u.Metrics.ObserveFile(metrics.OutcomeListed, f.Size)

		if u.Catalog != nil {
			if err := u.recordInCatalog(ctx, f); err != nil {
				return nil, err
			}
		}
		log.Debug("file listed", "path", f.Path, "size_bytes", f.Size)
	}

	if err := pathutil.EnsureDir(u.ReportsDir); err != nil {
		return nil, err
	}
	if err := report.WriteManifest(u.ReportsDir, manifest); err != nil {
		return nil, fmt.Errorf("writing upload manifest: %w", err)
	}

	fmt.Fprintf(u.out(), "Upload manifest created with %d files\n", len(manifest.Files))

	u.Metrics.Finish(start)
	u.Events.Log("manifest_written", map[string]any{
		"files":    len(manifest.Files),
		"status":   manifest.Status,
		"catalog":  u.Catalog != nil,
		"manifest": report.ManifestPath(u.ReportsDir),
	})
	log.Info("upload manifest written", "files", len(manifest.Files), "duration", time.Since(start))

	return &manifest, nil
}

func (u *Uploader) recordInCatalog(ctx context.Context, f pathutil.FileEntry) error {
	sum, err := catalog.Checksum(f.Path)
	if err != nil {
		return fmt.Errorf("checksumming %s: %w", pathutil.RedactPath(f.Path), err)
	}
	entry := catalog.Entry{
		Path:       f.Path,
		SizeBytes:  f.Size,
		Checksum:   sum,
		RunID:      u.RunID,
		RecordedAt: u.now(),
	}
	if err := u.Catalog.Record(ctx, entry); err != nil {
		return fmt.Errorf("recording upload: %w", err)
	}
	return nil
}
