package scene

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/fonts"
)

// SVGOptions controls document size and placement.
type SVGOptions struct {
	Width, Height int
	// Background paints the scene background over the whole canvas.
	Background bool
	// Scale and the translation wrap the content in a transform group.
	// A zero Scale writes the content untransformed.
	TranslateX, TranslateY, Scale float64
}

// WriteSVG serializes s as a standalone SVG document.
func (s *Scene) WriteSVG(w io.Writer, opts SVGOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "svg size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(opts.Width, opts.Height)
	if opts.Background {
		canvas.Rect(0, 0, opts.Width, opts.Height, "fill:"+s.Background)
	}
	if opts.Scale != 0 {
		canvas.Gtransform(fmt.Sprintf("translate(%s,%s) scale(%s)", num(opts.TranslateX), num(opts.TranslateY), num(opts.Scale)))
	}

	canvas.Group(`class="edges"`)
	for _, e := range s.Edges {
		canvas.Path(e.Path(), fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s;stroke-opacity:%s",
			e.Stroke, num(e.Width), num(e.Opacity)))
	}
	canvas.Gend()

	canvas.Group(`class="nodes"`)
	for _, n := range s.Nodes {
		writeNode(canvas, n)
	}
	canvas.Gend()

	if opts.Scale != 0 {
		canvas.Gend()
	}
	canvas.End()
	return ew.err
}

func writeNode(canvas *svg.SVG, n NodeShape) {
	switch n.Kind {
	case KindPill:
		fmt.Fprintf(canvas.Writer, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" ry="%s" style="fill:%s" />`+"\n",
			num(n.X-n.W/2), num(n.Y-n.H/2), num(n.W), num(n.H), num(n.R), num(n.R), n.Fill)
	case KindHollow:
		circle(canvas, n, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%s", n.Fill, n.Stroke, num(n.StrokeWidth)))
	default:
		circle(canvas, n, "fill:"+n.Fill)
	}
	writeLabel(canvas, n.Label)
}

// circle writes a marker at fractional coordinates; svgo's Circle rounds to ints.
func circle(canvas *svg.SVG, n NodeShape, style string) {
	fmt.Fprintf(canvas.Writer, `<circle cx="%s" cy="%s" r="%s" style="%s" />`+"\n", num(n.X), num(n.Y), num(n.R), style)
}

func writeLabel(canvas *svg.SVG, l Label) {
	x, y := num(l.X), num(l.Y+l.BaselineOffset())
	font := fmt.Sprintf("text-anchor:%s;font-size:%spx;font-weight:%d;font-family:%s",
		l.Anchor, num(l.Size), l.Weight, fonts.FontFamily)
	if l.Halo != "" {
		text(canvas, x, y, l.Text, fmt.Sprintf("%s;fill:%s;stroke:%s;stroke-width:%s;stroke-linejoin:round",
			font, l.Halo, l.Halo, num(l.HaloWidth)))
	}
	text(canvas, x, y, l.Text, font+";fill:"+l.Fill)
}

func text(canvas *svg.SVG, x, y, t, style string) {
	fmt.Fprintf(canvas.Writer, `<text x="%s" y="%s" style="%s">`, x, y, style)
	xml.EscapeText(canvas.Writer, []byte(t))
	fmt.Fprintln(canvas.Writer, `</text>`)
}

// num formats v with at most three decimals.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// errWriter keeps the first write error; svgo itself ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
