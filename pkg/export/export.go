package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"

	"golang.org/x/image/draw"

	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/scene"
)

// Result is one exported image.
type Result struct {
	// Name is the suggested file name, see [FileName].
	Name string
	PNG  []byte
	// SVG is the export document the PNG was decoded from.
	SVG []byte
	// Width and Height are the pixel size of the PNG.
	Width, Height int
	// OffsetX and OffsetY re-based the scene into the document.
	OffsetX, OffsetY float64
	// Box is the content box of the source scene.
	Box scene.Rect
	// Cached is set when the PNG came from an artifact cache rather than a
	// fresh decode.
	Cached bool
}

// Exporter runs the export pipeline with fixed options.
type Exporter struct {
	opts       Options
	measurer   scene.Measurer
	rasterizer Rasterizer
	background color.RGBA
}

// Option customizes an Exporter.
type Option func(*Exporter)

// WithMeasurer replaces the font measurer used for content bounds.
func WithMeasurer(m scene.Measurer) Option {
	return func(e *Exporter) { e.measurer = m }
}

// WithRasterizer replaces the rasterizer selected by the options.
func WithRasterizer(r Rasterizer) Option {
	return func(e *Exporter) { e.rasterizer = r }
}

// New validates opts and returns an Exporter.
func New(opts Options, options ...Option) (*Exporter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r, _ := opts.rasterizer()
	bg, _ := scene.ParseColor(opts.Background)
	e := &Exporter{opts: opts, measurer: scene.FontMeasurer{}, rasterizer: r, background: bg}
	for _, o := range options {
		o(e)
	}
	return e, nil
}

// Options returns the exporter's settings.
func (e *Exporter) Options() Options { return e.opts }

// Export renders s to PNG. rootName names the result file.
func (e *Exporter) Export(ctx context.Context, s *scene.Scene, rootName string) (*Result, error) {
	p, err := Prepare(s, e.measurer, e.opts)
	if err != nil {
		return nil, err
	}
	doc, err := Serialize(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize export document")
	}
	img, err := Decode(ctx, doc, e.rasterizer, e.opts.Scale, e.opts.DecodeTimeout).Wait(ctx)
	if err != nil {
		return nil, err
	}
	flat := Composite(img, e.background)

	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	b := flat.Bounds()
	return &Result{
		Name:    FileName(e.opts.Prefix, rootName),
		PNG:     buf.Bytes(),
		SVG:     doc,
		Width:   b.Dx(),
		Height:  b.Dy(),
		OffsetX: p.OffsetX,
		OffsetY: p.OffsetY,
		Box:     p.Box,
	}, nil
}

// Composite draws src over an opaque bg-filled buffer of the same size.
func Composite(src image.Image, bg color.Color) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// FileName returns prefix + root + ".png".
func FileName(prefix, root string) string {
	return prefix + root + ".png"
}

// SafeFileName is FileName with path separators and other characters that
// are unsafe in file names replaced by underscores.
func SafeFileName(prefix, root string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, FileName(prefix, root))
}
