// Package models defines the core data types for the fits-pipeline.
package models

import (
	"path/filepath"
	"time"

	"github.com/nvandessel/fits-pipeline/internal/constants"
)

// Observation holds the header metadata attached to one synthetic frame.
type Observation struct {
	// Telescope, Instrument and Observer identify where the frame came from.
	Telescope  string `json:"telescope" yaml:"telescope"`
	Instrument string `json:"instrument" yaml:"instrument"`
	Observer   string `json:"observer" yaml:"observer"`

	// Time is the observation timestamp. It also seeds the frame's noise.
	Time time.Time `json:"time" yaml:"time"`

	// ExposureTime is the integration time in seconds.
	ExposureTime float64 `json:"exposure_time" yaml:"exposure_time"`

	// Filter is the photometric band, e.g. "V".
	Filter string `json:"filter" yaml:"filter"`

	// Sources is the number of point sources injected into the frame.
	Sources int `json:"sources" yaml:"sources"`

	// Seed is the RNG seed derived from Time.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// ObjectName returns the OBJECT header value templated from the observation time.
func (o Observation) ObjectName() string {
	return "Survey_" + o.Time.UTC().Format(constants.FileTimeLayout)
}

// DateObs returns the DATE-OBS header value.
func (o Observation) DateObs() string {
	return FormatTime(o.Time)
}

// FileName returns the unique image file name for the observation.
func (o Observation) FileName() string {
	return FileNameFor(o.Time)
}

// FileNameFor returns astronomy_<YYYYMMDD>_<HHMMSS>.fits for t in UTC.
func FileNameFor(t time.Time) string {
	return constants.FilePrefix + t.UTC().Format(constants.FileTimeLayout) + constants.FITSExtension
}

// IsFITSName reports whether name carries the managed image extension.
func IsFITSName(name string) bool {
	return filepath.Ext(name) == constants.FITSExtension
}

// FormatTime renders t in UTC using the pipeline's ISO-8601 layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(constants.ISOTimeLayout)
}
