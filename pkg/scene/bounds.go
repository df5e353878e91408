package scene

import (
	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/fonts"
)

// Rect is an axis-aligned box in scene coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the midpoint of r.
func (r Rect) Center() (x, y float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

func (r Rect) union(minX, minY, maxX, maxY float64) Rect {
	return Rect{min(r.MinX, minX), min(r.MinY, minY), max(r.MaxX, maxX), max(r.MaxY, maxY)}
}

// Measurer reports text extents.
type Measurer interface {
	Measure(text string, size float64, weight int) (fonts.Metrics, error)
}

// FontMeasurer measures with the embedded rasterizer fonts.
type FontMeasurer struct{}

func (FontMeasurer) Measure(text string, size float64, weight int) (fonts.Metrics, error) {
	return fonts.Measure(text, size, weight)
}

// Bounds returns the tight box over every drawn element: markers with their
// outline, pills, labels with their halo, and edges with their stroke.
//
// A scene without nodes, or one whose box has no area, is
// [errors.ErrCodeDegenerateContent].
func (s *Scene) Bounds(m Measurer) (Rect, error) {
	if len(s.Nodes) == 0 {
		return Rect{}, errors.New(errors.ErrCodeDegenerateContent, "scene has no nodes")
	}
	if m == nil {
		m = FontMeasurer{}
	}
	n0 := s.Nodes[0]
	r := Rect{n0.X, n0.Y, n0.X, n0.Y}
	for _, n := range s.Nodes {
		switch n.Kind {
		case KindPill:
			r = r.union(n.X-n.W/2, n.Y-n.H/2, n.X+n.W/2, n.Y+n.H/2)
		default:
			ext := n.R + n.StrokeWidth/2
			r = r.union(n.X-ext, n.Y-ext, n.X+ext, n.Y+ext)
		}
		lr, err := labelBounds(n.Label, m)
		if err != nil {
			return Rect{}, errors.Wrap(errors.ErrCodeInternal, err, "measure label %q", n.Label.Text)
		}
		r = r.union(lr.MinX, lr.MinY, lr.MaxX, lr.MaxY)
	}
	for _, e := range s.Edges {
		h := e.Width / 2
		// Both control points lie inside the endpoints' box, so the curve does too.
		r = r.union(min(e.X0, e.X1)-h, min(e.Y0, e.Y1)-h, max(e.X0, e.X1)+h, max(e.Y0, e.Y1)+h)
	}
	if r.Empty() {
		return Rect{}, errors.New(errors.ErrCodeDegenerateContent, "scene bounds are %.1fx%.1f", r.Width(), r.Height())
	}
	return r, nil
}

func labelBounds(l Label, m Measurer) (Rect, error) {
	if l.Text == "" {
		return Rect{l.X, l.Y, l.X, l.Y}, nil
	}
	met, err := m.Measure(l.Text, l.Size, l.Weight)
	if err != nil {
		return Rect{}, err
	}
	var minX float64
	switch l.Anchor {
	case AnchorEnd:
		minX = l.X - met.Width
	case AnchorMiddle:
		minX = l.X - met.Width/2
	default:
		minX = l.X
	}
	base := l.Y + l.BaselineOffset()
	r := Rect{minX, base - met.Ascent, minX + met.Width, base + met.Descent}
	if l.Halo != "" {
		h := l.HaloWidth / 2
		r = Rect{r.MinX - h, r.MinY - h, r.MaxX + h, r.MaxY + h}
	}
	return r, nil
}
