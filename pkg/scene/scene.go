package scene

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Gor-c/emind/pkg/layout"
)

// Kind selects how a node is drawn.
type Kind int

const (
	// KindPill is the root: a rounded rectangle around its label.
	KindPill Kind = iota
	// KindHollow is an inner node: an outlined circle.
	KindHollow
	// KindSolid is a leaf: a filled circle.
	KindSolid
)

func (k Kind) String() string {
	switch k {
	case KindPill:
		return "pill"
	case KindHollow:
		return "hollow"
	default:
		return "solid"
	}
}

// Anchor is the SVG text-anchor of a label.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Shape constants.
const (
	PillMinWidth   = 150.0
	PillCharWidth  = 22.0
	PillHeight     = 56.0
	LeafRadius     = 4.0
	MarkerStroke   = 2.0
	LabelGap       = 8.0
	HaloWidth      = 4.0
	RootFontSize   = 20.0
	EdgeMinWidth   = 0.8
	baselineFactor = 0.35
)

// Label is a single line of text. (X, Y) is the anchor point on the
// vertical middle of the line; the baseline sits BaselineOffset below it.
type Label struct {
	Text   string
	X, Y   float64
	Anchor Anchor
	Size   float64
	Weight int
	Fill   string
	// Halo is the outline color drawn beneath the text. Empty means none.
	Halo      string
	HaloWidth float64
}

// BaselineOffset returns the distance from Y to the text baseline.
func (l Label) BaselineOffset() float64 { return baselineFactor * l.Size }

// NodeShape is one drawn node.
type NodeShape struct {
	Name  string
	Depth int
	Side  layout.Side
	Kind  Kind
	// X, Y is the center.
	X, Y float64
	// W, H are the pill size; zero for markers.
	W, H float64
	// R is the marker radius, or the pill corner radius.
	R           float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Label       Label
}

// EdgeShape is a horizontal cubic curve from a parent to a child.
type EdgeShape struct {
	X0, Y0, X1, Y1 float64
	Stroke         string
	Width          float64
	Opacity        float64
}

// Path returns the SVG path data of the curve. Both control points share
// the horizontal midpoint, so the curve leaves and enters horizontally.
func (e EdgeShape) Path() string {
	mx := (e.X0 + e.X1) / 2
	return fmt.Sprintf("M%s,%s C%s,%s %s,%s %s,%s",
		num(e.X0), num(e.Y0), num(mx), num(e.Y0), num(mx), num(e.Y1), num(e.X1), num(e.Y1))
}

// Scene is everything needed to draw one diagram. Edges are drawn first.
type Scene struct {
	Nodes      []NodeShape
	Edges      []EdgeShape
	Background string
}

// Build maps every positioned node and edge of l to a shape.
func Build(l *layout.Layout, theme Theme) *Scene {
	t := theme.normalized()
	s := &Scene{
		Nodes:      make([]NodeShape, 0, len(l.Nodes)),
		Edges:      make([]EdgeShape, 0, len(l.Edges)),
		Background: t.Background,
	}
	for _, e := range l.Edges {
		s.Edges = append(s.Edges, edgeShape(e, t))
	}
	for _, n := range l.Nodes {
		s.Nodes = append(s.Nodes, nodeShape(n, t))
	}
	return s
}

func nodeShape(n *layout.Node, t Theme) NodeShape {
	ns := NodeShape{
		Name:  n.Name(),
		Depth: n.Depth,
		Side:  n.Side,
		X:     n.Along,
		Y:     n.Across,
	}
	switch {
	case n.IsRoot():
		ns.Kind = KindPill
		ns.W = PillWidth(LabelText(ns.Name))
		ns.H = PillHeight
		ns.R = PillHeight / 2
		ns.Fill = resolve(n.Source.Color, t.Accent)
		ns.Label = Label{
			Text: LabelText(ns.Name), X: ns.X, Y: ns.Y, Anchor: AnchorMiddle,
			Size: RootFontSize, Weight: 700, Fill: t.RootText,
		}
		return ns
	case n.IsLeaf():
		ns.Kind = KindSolid
		ns.R = LeafRadius
		ns.Fill = resolve(n.Source.Color, t.Node)
	default:
		ns.Kind = KindHollow
		ns.R = MarkerRadius(n.Depth)
		ns.Fill = t.Background
		ns.Stroke = resolve(n.Source.Color, t.Node)
		ns.StrokeWidth = MarkerStroke
	}
	ns.Label = Label{
		Text: LabelText(ns.Name), Y: ns.Y,
		Size: FontSize(n.Depth), Weight: FontWeight(n.Depth), Fill: t.Text,
		Halo: t.Halo, HaloWidth: HaloWidth,
	}
	offset := ns.R + ns.StrokeWidth/2 + LabelGap
	if n.Side == layout.SideLeft {
		ns.Label.Anchor = AnchorEnd
		ns.Label.X = ns.X - offset
	} else {
		ns.Label.Anchor = AnchorStart
		ns.Label.X = ns.X + offset
	}
	return ns
}

func edgeShape(e layout.Edge, t Theme) EdgeShape {
	return EdgeShape{
		X0: e.Parent.Along, Y0: e.Parent.Across,
		X1: e.Child.Along, Y1: e.Child.Across,
		Stroke:  resolve(e.Child.Source.Color, t.Edge),
		Width:   EdgeWidth(e.Parent.Depth),
		Opacity: t.EdgeAlpha,
	}
}

// LabelText returns name as drawn: a single line, with every control
// character (newlines, tabs) shown as a space.
func LabelText(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
}

// PillWidth returns the root pill width for a label.
func PillWidth(label string) float64 {
	return max(PillMinWidth, float64(utf8.RuneCountInString(label))*PillCharWidth)
}

// MarkerRadius returns the radius of an inner node's marker.
func MarkerRadius(depth int) float64 { return max(4, 7-float64(depth)) }

// EdgeWidth returns the stroke width of an edge leaving a node at depth.
func EdgeWidth(depth int) float64 { return max(EdgeMinWidth, 5-float64(depth)) }

// FontSize returns the label size of a non-root node.
func FontSize(depth int) float64 { return max(12, 18-2*float64(depth)) }

// FontWeight returns the label weight of a non-root node.
func FontWeight(depth int) int {
	switch depth {
	case 1:
		return 700
	case 2:
		return 600
	default:
		return 400
	}
}

// Clone returns a deep copy of s.
func (s *Scene) Clone() *Scene {
	c := &Scene{Background: s.Background}
	c.Nodes = append([]NodeShape(nil), s.Nodes...)
	c.Edges = append([]EdgeShape(nil), s.Edges...)
	return c
}

// Translate moves every shape by (dx, dy) in place.
func (s *Scene) Translate(dx, dy float64) {
	for i := range s.Nodes {
		n := &s.Nodes[i]
		n.X += dx
		n.Y += dy
		n.Label.X += dx
		n.Label.Y += dy
	}
	for i := range s.Edges {
		e := &s.Edges[i]
		e.X0 += dx
		e.Y0 += dy
		e.X1 += dx
		e.Y1 += dy
	}
}
