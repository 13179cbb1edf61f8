package fitsfile

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"

	"github.com/nvandessel/fits-pipeline/internal/constants"
)

// BlockSize is the FITS logical record length in bytes.
const BlockSize = 2880

// NoDataShape is reported when the primary HDU carries no data array.
const NoDataShape = "No data"

// Info summarizes a FITS file that opened cleanly.
type Info struct {
	// NumHDU is the number of header-data units in the file.
	NumHDU int
	// Shape is the primary array shape, slowest axis first (rows, columns).
	// Empty when the primary HDU has no data.
	Shape []int
	// SizeBytes is the on-disk file size.
	SizeBytes int64
	// Object is the OBJECT card of the primary header, if present.
	Object string
}

// ShapeString renders Shape as a tuple: "(512, 512)", "(7,)" or NoDataShape.
func (i Info) ShapeString() string {
	switch len(i.Shape) {
	case 0:
		return NoDataShape
	case 1:
		return "(" + strconv.Itoa(i.Shape[0]) + ",)"
	}
	parts := make([]string, len(i.Shape))
	for k, n := range i.Shape {
		parts[k] = strconv.Itoa(n)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// SizeMB returns SizeBytes in mebibytes.
func (i Info) SizeMB() float64 {
	return float64(i.SizeBytes) / constants.BytesPerMB
}

// Inspect opens path and checks that it parses as a FITS file whose primary
// data block is complete. Any structural problem, including a panic inside
// the FITS decoder, is returned as an error.
func Inspect(path string) (info Info, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("stat file: %w", err)
	}
	if _, err := scanPrimaryHeader(f, st.Size()); err != nil {
		return Info{}, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Info{}, fmt.Errorf("rewinding file: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			info, err = Info{}, fmt.Errorf("parsing FITS: decoder panic: %v", r)
		}
	}()

	in, err := fitsio.Open(f)
	if err != nil {
		return Info{}, fmt.Errorf("parsing FITS: %w", err)
	}
	defer in.Close()

	hdus := in.HDUs()
	if len(hdus) == 0 {
		return Info{}, fmt.Errorf("parsing FITS: no HDUs found")
	}

	primary := hdus[0]
	hdr := primary.Header()
	axes := hdr.Axes()

	if img, ok := primary.(fitsio.Image); ok {
		want, _ := dataBytes(hdr.Bitpix(), axes)
		if got := int64(len(img.Raw())); got < want {
			return Info{}, fmt.Errorf("primary data truncated: have %d of %d bytes", got, want)
		}
	}

	info = Info{
		NumHDU:    len(hdus),
		Shape:     rowMajorShape(axes),
		SizeBytes: st.Size(),
	}
	if card := hdr.Get("OBJECT"); card != nil {
		if s, ok := card.Value.(string); ok {
			info.Object = s
		}
	}
	return info, nil
}

// cardSize is the length of one header card image.
const cardSize = 80

// maxAxes is the largest NAXIS value the FITS standard allows.
const maxAxes = 999

// legalBitpix lists the BITPIX values the FITS standard defines.
var legalBitpix = map[int]bool{8: true, 16: true, 32: true, 64: true, -32: true, -64: true}

// primaryHeader holds the structural keywords of a primary header.
type primaryHeader struct {
	axes      []int
	headerLen int64
}

// scanPrimaryHeader reads the primary header blocks from r and checks the
// structural keywords before any decoder sizes a buffer from them: the file
// must open with SIMPLE, carry a legal BITPIX, non-negative axes, and hold
// every data byte the header promises.
func scanPrimaryHeader(r io.Reader, size int64) (primaryHeader, error) {
	if size < BlockSize {
		return primaryHeader{}, fmt.Errorf("file too small: %d bytes, want at least %d", size, BlockSize)
	}

	values := make(map[string]string)
	block := make([]byte, BlockSize)
	var h primaryHeader

	for off := int64(0); h.headerLen == 0; off += BlockSize {
		if off+BlockSize > size {
			return primaryHeader{}, fmt.Errorf("primary header has no END card")
		}
		if _, err := io.ReadFull(r, block); err != nil {
			return primaryHeader{}, fmt.Errorf("reading primary header: %w", err)
		}
		if off == 0 && !bytes.HasPrefix(block, []byte("SIMPLE  =")) {
			return primaryHeader{}, fmt.Errorf("not a FITS file: primary header does not start with SIMPLE")
		}
		for i := 0; i < BlockSize; i += cardSize {
			card := block[i : i+cardSize]
			name := strings.TrimSpace(string(card[:8]))
			if name == "END" {
				h.headerLen = off + BlockSize
				break
			}
			if card[8] == '=' {
				if _, seen := values[name]; !seen {
					values[name] = cardValue(card)
				}
			}
		}
	}

	bitpix, err := intKeyword(values, "BITPIX")
	if err != nil {
		return primaryHeader{}, err
	}
	if !legalBitpix[bitpix] {
		return primaryHeader{}, fmt.Errorf("illegal BITPIX %d", bitpix)
	}

	naxis, err := intKeyword(values, "NAXIS")
	if err != nil {
		return primaryHeader{}, err
	}
	if naxis < 0 || naxis > maxAxes {
		return primaryHeader{}, fmt.Errorf("illegal NAXIS %d", naxis)
	}
	for i := 1; i <= naxis; i++ {
		key := "NAXIS" + strconv.Itoa(i)
		n, err := intKeyword(values, key)
		if err != nil {
			return primaryHeader{}, err
		}
		if n < 0 {
			return primaryHeader{}, fmt.Errorf("illegal %s %d", key, n)
		}
		h.axes = append(h.axes, n)
	}

	n, ok := dataBytes(bitpix, h.axes)
	if !ok {
		return primaryHeader{}, fmt.Errorf("primary data size overflows: BITPIX %d, axes %v", bitpix, h.axes)
	}
	if n > size-h.headerLen {
		return primaryHeader{}, fmt.Errorf("primary data truncated: have %d of %d bytes", size-h.headerLen, n)
	}
	return h, nil
}

// cardValue returns the value field of a card with any inline comment removed.
func cardValue(card []byte) string {
	v := string(card[10:])
	if i := strings.IndexByte(v, '/'); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// intKeyword parses a mandatory integer keyword.
func intKeyword(values map[string]string, key string) (int, error) {
	raw, ok := values[key]
	if !ok {
		return 0, fmt.Errorf("missing %s card", key)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", key, raw)
	}
	return n, nil
}

// dataBytes is the unpadded size of a data array with the given BITPIX and
// axes. It reports false for negative axes or a size that overflows int64.
func dataBytes(bitpix int, axes []int) (int64, bool) {
	if len(axes) == 0 {
		return 0, true
	}
	n := int64(abs(bitpix) / 8)
	for _, a := range axes {
		if a < 0 {
			return 0, false
		}
		if a != 0 && n > math.MaxInt64/int64(a) {
			return 0, false
		}
		n *= int64(a)
	}
	return n, true
}

// rowMajorShape reverses FITS axis order (NAXIS1 first) into slowest-first order.
func rowMajorShape(axes []int) []int {
	if len(axes) == 0 {
		return nil
	}
	shape := make([]int, len(axes))
	for i, a := range axes {
		shape[len(axes)-1-i] = a
	}
	return shape
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
