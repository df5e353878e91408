// Package fonts provides the font faces used to measure and rasterize labels.
//
// The Go fonts ship with golang.org/x/image as byte slices, so no font files
// need to be installed. The SVG output names the same family first so a
// browser rendering the live view picks metrics close to the rasterizer's.
package fonts

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family written into SVG documents.
const FontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// BoldWeight is the lowest CSS font-weight drawn with the bold face.
const BoldWeight = 600

var (
	parseOnce sync.Once
	regular   *opentype.Font
	bold      *opentype.Font
	parseErr  error

	facesMu sync.Mutex
	faces   = map[faceKey]font.Face{}
)

type faceKey struct {
	size float64
	bold bool
}

func parse() error {
	parseOnce.Do(func() {
		if regular, parseErr = opentype.Parse(goregular.TTF); parseErr != nil {
			return
		}
		bold, parseErr = opentype.Parse(gobold.TTF)
	})
	return parseErr
}

// NewFace returns a new face at size pixels. Weights of BoldWeight and
// above use the bold face. Faces are not safe for concurrent use; each
// rasterizer should hold its own.
func NewFace(size float64, weight int) (font.Face, error) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	if err := parse(); err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	src := regular
	if weight >= BoldWeight {
		src = bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return f, nil
}

// cachedFace returns the shared measuring face. Callers must hold facesMu.
func cachedFace(size float64, weight int) (font.Face, error) {
	key := faceKey{size: size, bold: weight >= BoldWeight}
	if f, ok := faces[key]; ok {
		return f, nil
	}
	f, err := NewFace(size, weight)
	if err != nil {
		return nil, err
	}
	faces[key] = f
	return f, nil
}

// Metrics describes the extent of a single line of text.
type Metrics struct {
	Width   float64
	Ascent  float64
	Descent float64
}

// Measure returns the advance width and vertical metrics of text.
func Measure(text string, size float64, weight int) (Metrics, error) {
	facesMu.Lock()
	defer facesMu.Unlock()
	f, err := cachedFace(size, weight)
	if err != nil {
		return Metrics{}, err
	}
	adv := font.MeasureString(f, text)
	m := f.Metrics()
	return Metrics{
		Width:   float64(adv) / 64,
		Ascent:  float64(m.Ascent) / 64,
		Descent: float64(m.Descent) / 64,
	}, nil
}
