// Package starfield renders synthetic star fields: a Poisson sky background
// with Gaussian point sources composited on top.
package starfield

import (
	"math"

	"github.com/nvandessel/fits-pipeline/internal/constants"
)

// Image is a row-major grid of float32 intensities. Pix[y*Width+x] holds
// the value at column x, row y.
type Image struct {
	Width  int
	Height int
	Pix    []float32
}

// NewImage allocates a zeroed width×height image.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height),
	}
}

// Shape returns the grid dimensions as (rows, columns).
func (img *Image) Shape() (rows, cols int) {
	return img.Height, img.Width
}

// Bounds returns the smallest and largest pixel values.
func (img *Image) Bounds() (lo, hi float32) {
	if len(img.Pix) == 0 {
		return 0, 0
	}
	lo, hi = img.Pix[0], img.Pix[0]
	for _, v := range img.Pix[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Source is a synthetic star: a center pixel, a peak brightness in counts
// and a Gaussian spread in pixels.
type Source struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Brightness float64 `json:"brightness"`
	Sigma      float64 `json:"sigma"`
}

// Profile returns the source's contribution at offset (dx, dy) from its center.
func (s Source) Profile(dx, dy int) float64 {
	r2 := float64(dx*dx + dy*dy)
	return s.Brightness * math.Exp(-r2/(2*s.Sigma*s.Sigma))
}

// AddSource adds the source's point-spread window into the image.
// The window spans PSFHalfWidth pixels either side of the center and is
// clipped to the grid, so centers near or beyond an edge only contribute
// their in-bounds part. Existing values are summed, not replaced.
func (img *Image) AddSource(s Source) {
	if s.Sigma <= 0 {
		return
	}

	h := constants.PSFHalfWidth
	x0, x1 := max(0, s.X-h), min(img.Width, s.X+h+1)
	y0, y1 := max(0, s.Y-h), min(img.Height, s.Y+h+1)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	for y := y0; y < y1; y++ {
		row := img.Pix[y*img.Width : (y+1)*img.Width]
		dy := y - s.Y
		for x := x0; x < x1; x++ {
			row[x] += float32(s.Profile(x-s.X, dy))
		}
	}
}
