// Package constants provides named constants used throughout the fits-pipeline codebase.
// This centralizes magic numbers for better maintainability and documentation.
package constants

import "time"

// Detector geometry
const (
	// ImageWidth is the number of pixel columns in every generated frame (NAXIS1).
	ImageWidth = 512

	// ImageHeight is the number of pixel rows in every generated frame (NAXIS2).
	ImageHeight = 512
)

// Background noise
const (
	// BackgroundMean is the Poisson mean of the sky background in counts.
	BackgroundMean = 100.0
)

// Point source placement and rendering
const (
	// SourceMargin is the inset from each edge for source centers.
	// Centers are drawn from [SourceMargin, ImageWidth-SourceMargin).
	SourceMargin = 20

	// PSFHalfWidth is the half-size of the point-spread window.
	// The rendered window spans 2*PSFHalfWidth+1 pixels per axis.
	PSFHalfWidth = 20

	// MinBrightness and MaxBrightness bound the peak counts of a source.
	MinBrightness = 1000.0
	MaxBrightness = 5000.0

	// MinSigma and MaxSigma bound the Gaussian spread of a source in pixels.
	MinSigma = 2.0
	MaxSigma = 5.0

	// DefaultSourceCount is the number of sources injected per frame.
	DefaultSourceCount = 50
)

// Batch generation
const (
	// DefaultFrameCount is the number of frames produced by one generate run.
	DefaultFrameCount = 4

	// DefaultFrameInterval is the spacing between consecutive observation times.
	DefaultFrameInterval = 15 * time.Minute
)

// Observation header defaults
const (
	DefaultTelescope    = "FITSAUTA-1"
	DefaultInstrument   = "Automated FITS Pipeline"
	DefaultObserver     = "Automation Bot"
	DefaultExposureTime = 300.0
	DefaultFilter       = "V"
)

// Pipeline identity and on-disk layout
const (
	// PipelineVersion is written into the generation metadata report.
	PipelineVersion = "1.0"

	// UploadStatusPending is the status stamped on every upload manifest.
	UploadStatusPending = "pending"

	// FITSExtension is the suffix of every image file the pipeline manages.
	FITSExtension = ".fits"

	// FilePrefix is the leading part of every generated image file name.
	FilePrefix = "astronomy_"

	DefaultDataDir    = "data"
	DefaultReportsDir = "reports"

	GenerationReportFile = "generation_metadata.json"
	UploadManifestFile   = "upload_manifest.json"
	ValidationReportFile = "validation_report.json"
	EventLogFile         = "events.jsonl"
	CatalogFile          = "upload_catalog.db"

	// ConfigFileName is looked up in the project root when no --config is given.
	ConfigFileName = "fitspipe.yaml"
)

// Timestamp layouts
const (
	// ISOTimeLayout renders timestamps with microsecond precision and no zone suffix.
	ISOTimeLayout = "2006-01-02T15:04:05.000000"

	// FileTimeLayout is embedded in file and object names.
	FileTimeLayout = "20060102_150405"
)

// BytesPerMB converts byte sizes to the megabyte figure in validation reports.
const BytesPerMB = 1024 * 1024
