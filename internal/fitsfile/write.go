// Package fitsfile reads and writes the single-HDU FITS files produced by the
// pipeline.
package fitsfile

import (
	"fmt"
	"io"
	"os"

	"github.com/astrogo/fitsio"

	"github.com/nvandessel/fits-pipeline/internal/models"
	"github.com/nvandessel/fits-pipeline/internal/sanitize"
	"github.com/nvandessel/fits-pipeline/internal/starfield"
)

// BitpixFloat32 is the BITPIX value for IEEE single-precision pixels.
const BitpixFloat32 = -32

// Write encodes obs and img as a FITS file at path, replacing any existing file.
func Write(path string, obs models.Observation, img *starfield.Image) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing file: %w", cerr)
		}
	}()

	return Encode(f, obs, img)
}

// Encode writes a primary image HDU holding img with the observation's
// header cards to w.
func Encode(w io.Writer, obs models.Observation, img *starfield.Image) error {
	if img == nil {
		return fmt.Errorf("encoding FITS: nil image")
	}
	if len(img.Pix) != img.Width*img.Height {
		return fmt.Errorf("encoding FITS: %d pixels for a %dx%d image", len(img.Pix), img.Width, img.Height)
	}

	out, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("creating FITS stream: %w", err)
	}

	// NAXIS1 is the fastest-varying axis: columns.
	hdu := fitsio.NewImage(BitpixFloat32, []int{img.Width, img.Height})
	defer hdu.Close()

	if err := hdu.Header().Append(headerCards(obs)...); err != nil {
		return fmt.Errorf("writing header cards: %w", err)
	}
	if err := hdu.Write(img.Pix); err != nil {
		return fmt.Errorf("encoding pixel data: %w", err)
	}
	if err := out.Write(hdu); err != nil {
		return fmt.Errorf("writing primary HDU: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("finalizing FITS stream: %w", err)
	}
	return nil
}

// headerCards lists the observation cards. Configured strings are sanitized
// so a stray control character cannot produce an unreadable header.
func headerCards(obs models.Observation) []fitsio.Card {
	return []fitsio.Card{
		{Name: "TELESCOP", Value: sanitize.HeaderValue(obs.Telescope), Comment: "telescope used"},
		{Name: "INSTRUME", Value: sanitize.HeaderValue(obs.Instrument), Comment: "instrument used"},
		{Name: "OBSERVER", Value: sanitize.HeaderValue(obs.Observer), Comment: "observer name"},
		{Name: "DATE-OBS", Value: obs.DateObs(), Comment: "observation start (UTC)"},
		{Name: "OBJECT", Value: obs.ObjectName(), Comment: "survey field"},
		{Name: "EXPTIME", Value: obs.ExposureTime, Comment: "exposure time [s]"},
		{Name: "FILTER", Value: sanitize.HeaderValue(obs.Filter), Comment: "photometric band"},
		{Name: "BUNIT", Value: "counts", Comment: "pixel unit"},
		{Name: "NSOURCES", Value: obs.Sources, Comment: "injected point sources"},
		{Name: "RNGSEED", Value: int(obs.Seed), Comment: "background/source RNG seed"},
	}
}
