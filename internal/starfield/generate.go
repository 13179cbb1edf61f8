package starfield

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/nvandessel/fits-pipeline/internal/constants"
)

// Field is a rendered frame together with the sources injected into it.
type Field struct {
	Image   *Image
	Sources []Source
	Seed    uint64
}

// SeedFor derives the RNG seed for an observation time: the Unix seconds
// reduced modulo 2^32. Equal timestamps always produce equal seeds.
func SeedFor(t time.Time) uint64 {
	return uint64(t.Unix()) & 0xFFFFFFFF
}

// Generate renders a constants.ImageWidth×constants.ImageHeight frame for the
// observation time t with numSources stars. The output is fully determined by
// SeedFor(t) and numSources.
func Generate(t time.Time, numSources int) *Field {
	return GenerateSeeded(SeedFor(t), numSources)
}

// GenerateSeeded is Generate with an explicit seed.
func GenerateSeeded(seed uint64, numSources int) *Field {
	src := rand.NewPCG(seed, 0)
	rnd := rand.New(src)

	img := NewImage(constants.ImageWidth, constants.ImageHeight)
	fillBackground(img, src)

	brightness := distuv.Uniform{Min: constants.MinBrightness, Max: constants.MaxBrightness, Src: src}
	spread := distuv.Uniform{Min: constants.MinSigma, Max: constants.MaxSigma, Src: src}

	sources := make([]Source, 0, max(numSources, 0))
	for range numSources {
		s := Source{
			X: drawCoord(rnd, img.Width),
			Y: drawCoord(rnd, img.Height),
		}
		s.Brightness = brightness.Rand()
		s.Sigma = spread.Rand()
		img.AddSource(s)
		sources = append(sources, s)
	}

	return &Field{Image: img, Sources: sources, Seed: seed}
}

// fillBackground replaces every pixel with a Poisson sky sample.
func fillBackground(img *Image, src rand.Source) {
	sky := distuv.Poisson{Lambda: constants.BackgroundMean, Src: src}
	for i := range img.Pix {
		img.Pix[i] = float32(sky.Rand())
	}
}

// drawCoord returns a uniform integer in [SourceMargin, size-SourceMargin).
func drawCoord(rnd *rand.Rand, size int) int {
	lo, hi := constants.SourceMargin, size-constants.SourceMargin
	if hi <= lo {
		return size / 2
	}
	return lo + rnd.IntN(hi-lo)
}
