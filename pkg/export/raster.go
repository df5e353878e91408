package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font"

	"github.com/Gor-c/emind/pkg/fonts"
)

// MaxPixels caps the size of a decoded raster.
const MaxPixels = 1 << 28

// Rasterizer decodes an SVG document into an image scaled by scale.
type Rasterizer interface {
	Rasterize(ctx context.Context, doc []byte, scale float64) (image.Image, error)
}

// Builtin rasterizes in process with gg and the embedded fonts.
type Builtin struct{}

// Rasterize draws doc onto a transparent canvas. Coordinates are scaled
// before drawing and glyphs come from faces sized for the output, so text
// is rendered at full resolution rather than resampled.
func (Builtin) Rasterize(ctx context.Context, doc []byte, scale float64) (image.Image, error) {
	d, err := parseDocument(doc)
	if err != nil {
		return nil, err
	}
	w := int(math.Ceil(d.width * scale))
	h := int(math.Ceil(d.height * scale))
	if w <= 0 || h <= 0 || w*h > MaxPixels {
		return nil, fmt.Errorf("raster size %dx%d is out of range", w, h)
	}
	r := &raster{dc: gg.NewContext(w, h), scale: scale, faces: map[faceKey]font.Face{}}
	for i, el := range d.elements {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := r.draw(el); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.dc.Image(), nil
}

type faceKey struct {
	size   float64
	weight int
}

type raster struct {
	dc    *gg.Context
	scale float64
	faces map[faceKey]font.Face
}

func (r *raster) draw(el element) error {
	s := r.scale
	st := el.style
	switch el.kind {
	case elemRect:
		if el.rx > 0 {
			r.dc.DrawRoundedRectangle(el.x*s, el.y*s, el.w*s, el.h*s, el.rx*s)
		} else {
			r.dc.DrawRectangle(el.x*s, el.y*s, el.w*s, el.h*s)
		}
		r.paint(st)
	case elemCircle:
		r.dc.DrawCircle(el.x*s, el.y*s, el.r*s)
		r.paint(st)
	case elemPath:
		for _, seg := range el.segments {
			p := seg.pts
			switch seg.cmd {
			case 'M':
				r.dc.MoveTo(p[0]*s, p[1]*s)
			case 'L':
				r.dc.LineTo(p[0]*s, p[1]*s)
			case 'C':
				r.dc.CubicTo(p[0]*s, p[1]*s, p[2]*s, p[3]*s, p[4]*s, p[5]*s)
			case 'Z':
				r.dc.ClosePath()
			}
		}
		r.paint(st)
	case elemText:
		return r.text(el)
	}
	return nil
}

// paint fills, then strokes, the current path.
func (r *raster) paint(st style) {
	switch {
	case st.fill.ok && st.stroke.ok:
		r.dc.SetColor(withAlpha(st.fill.c, st.fillOpacity))
		r.dc.FillPreserve()
	case st.fill.ok:
		r.dc.SetColor(withAlpha(st.fill.c, st.fillOpacity))
		r.dc.Fill()
	}
	if st.stroke.ok {
		r.dc.SetColor(withAlpha(st.stroke.c, st.strokeOpacity))
		r.dc.SetLineWidth(st.strokeWidth * r.scale)
		r.dc.Stroke()
	}
	r.dc.ClearPath()
}

// haloSteps is the number of copies drawn around each ring of a halo.
const haloSteps = 16

// text draws a label. A stroked label, which gg cannot outline, is
// approximated by offset copies on two rings of the stroke radius.
func (r *raster) text(el element) error {
	st := el.style
	if el.text == "" || st.fontSize <= 0 {
		return nil
	}
	face, err := r.face(st.fontSize*r.scale, st.fontWeight)
	if err != nil {
		return err
	}
	r.dc.SetFontFace(face)
	x, y := el.x*r.scale, el.y*r.scale
	var ax float64
	switch st.anchor {
	case "middle":
		ax = 0.5
	case "end":
		ax = 1
	}
	if st.fill.ok {
		r.dc.SetColor(withAlpha(st.fill.c, st.fillOpacity))
		r.dc.DrawStringAnchored(el.text, x, y, ax, 0)
	}
	if st.stroke.ok && st.strokeWidth > 0 {
		r.dc.SetColor(withAlpha(st.stroke.c, st.strokeOpacity))
		radius := st.strokeWidth * r.scale / 2
		for _, ring := range []float64{radius / 2, radius} {
			for i := 0; i < haloSteps; i++ {
				a := 2 * math.Pi * float64(i) / haloSteps
				r.dc.DrawStringAnchored(el.text, x+ring*math.Cos(a), y+ring*math.Sin(a), ax, 0)
			}
		}
	}
	return nil
}

func (r *raster) face(size float64, weight int) (font.Face, error) {
	key := faceKey{size: size, weight: weight}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	f, err := fonts.NewFace(size, weight)
	if err != nil {
		return nil, err
	}
	r.faces[key] = f
	return f, nil
}

func withAlpha(c color.RGBA, opacity float64) color.NRGBA {
	a := float64(c.A) * clamp01(opacity)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(a))}
}

func clamp01(v float64) float64 { return min(max(v, 0), 1) }
