package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/Gor-c/emind/pkg/scene"
)

// document is the drawable content of an SVG file, in paint order.
type document struct {
	width, height float64
	elements      []element
}

type elementKind int

const (
	elemRect elementKind = iota
	elemCircle
	elemPath
	elemText
)

type element struct {
	kind       elementKind
	x, y, w, h float64
	rx, r      float64
	segments   []segment
	text       string
	style      style
}

type paint struct {
	c  color.RGBA
	ok bool
}

type style struct {
	fill, stroke               paint
	strokeWidth                float64
	fillOpacity, strokeOpacity float64
	fontSize                   float64
	fontWeight                 int
	anchor                     string
}

func defaultStyle() style {
	return style{
		fill:          paint{c: color.RGBA{A: 0xff}, ok: true},
		strokeWidth:   1,
		fillOpacity:   1,
		strokeOpacity: 1,
		fontSize:      16,
		fontWeight:    400,
		anchor:        "start",
	}
}

// segment is one absolute path command with its coordinates.
type segment struct {
	cmd byte
	pts []float64
}

// parseDocument reads the subset of SVG that scene.WriteSVG produces.
// Transformed groups are rejected; unknown elements are skipped.
func parseDocument(doc []byte) (*document, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	var d *document
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse svg: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if d == nil {
			if se.Name.Local != "svg" {
				return nil, fmt.Errorf("parse svg: root element is <%s>", se.Name.Local)
			}
			if d, err = parseRoot(se); err != nil {
				return nil, err
			}
			continue
		}
		switch se.Name.Local {
		case "g":
			if t := attr(se, "transform"); t != "" {
				return nil, fmt.Errorf("parse svg: transformed group %q is not supported", t)
			}
		case "rect", "circle", "path":
			el, err := parseShape(se)
			if err != nil {
				return nil, err
			}
			d.elements = append(d.elements, el)
		case "text":
			el, err := parseShape(se)
			if err != nil {
				return nil, err
			}
			var body struct {
				Text string `xml:",chardata"`
			}
			if err := dec.DecodeElement(&body, &se); err != nil {
				return nil, fmt.Errorf("parse svg text: %w", err)
			}
			el.text = strings.TrimSpace(body.Text)
			d.elements = append(d.elements, el)
		case "svg":
			return nil, fmt.Errorf("parse svg: nested <svg> is not supported")
		default:
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("parse svg: %w", err)
			}
		}
	}
	if d == nil {
		return nil, fmt.Errorf("parse svg: no <svg> element")
	}
	return d, nil
}

func parseRoot(se xml.StartElement) (*document, error) {
	w, err := number(attr(se, "width"))
	if err != nil {
		return nil, fmt.Errorf("parse svg width: %w", err)
	}
	h, err := number(attr(se, "height"))
	if err != nil {
		return nil, fmt.Errorf("parse svg height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("parse svg: document size %gx%g is empty", w, h)
	}
	return &document{width: w, height: h}, nil
}

func parseShape(se xml.StartElement) (element, error) {
	var el element
	var err error
	get := func(name string) float64 {
		if err != nil {
			return 0
		}
		v := attr(se, name)
		if v == "" {
			return 0
		}
		var f float64
		if f, err = number(v); err != nil {
			err = fmt.Errorf("parse svg <%s> %s: %w", se.Name.Local, name, err)
		}
		return f
	}
	switch se.Name.Local {
	case "rect":
		el.kind = elemRect
		el.x, el.y, el.w, el.h = get("x"), get("y"), get("width"), get("height")
		el.rx = max(get("rx"), get("ry"))
	case "circle":
		el.kind = elemCircle
		el.x, el.y, el.r = get("cx"), get("cy"), get("r")
	case "path":
		el.kind = elemPath
		if err == nil {
			el.segments, err = parsePath(attr(se, "d"))
		}
	case "text":
		el.kind = elemText
		el.x, el.y = get("x"), get("y")
	}
	if err != nil {
		return element{}, err
	}
	el.style, err = parseStyle(se)
	return el, err
}

// parseStyle applies presentation attributes, then the style attribute,
// which takes precedence.
func parseStyle(se xml.StartElement) (style, error) {
	st := defaultStyle()
	for _, a := range se.Attr {
		if a.Name.Local == "style" {
			continue
		}
		if err := st.set(a.Name.Local, a.Value); err != nil {
			return st, err
		}
	}
	for _, decl := range strings.Split(attr(se, "style"), ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if err := st.set(strings.TrimSpace(k), strings.TrimSpace(v)); err != nil {
			return st, err
		}
	}
	return st, nil
}

func (st *style) set(prop, v string) error {
	var err error
	switch prop {
	case "fill":
		st.fill, err = parsePaint(v)
	case "stroke":
		st.stroke, err = parsePaint(v)
	case "stroke-width":
		st.strokeWidth, err = number(v)
	case "fill-opacity":
		st.fillOpacity, err = number(v)
	case "stroke-opacity":
		st.strokeOpacity, err = number(v)
	case "font-size":
		st.fontSize, err = number(v)
	case "font-weight":
		st.fontWeight, err = parseWeight(v)
	case "text-anchor":
		st.anchor = v
	}
	if err != nil {
		return fmt.Errorf("parse svg %s: %w", prop, err)
	}
	return nil
}

func parsePaint(v string) (paint, error) {
	if v == "none" {
		return paint{}, nil
	}
	c, err := scene.ParseColor(v)
	if err != nil {
		return paint{}, err
	}
	return paint{c: c, ok: true}, nil
}

func parseWeight(v string) (int, error) {
	switch v {
	case "normal":
		return 400, nil
	case "bold":
		return 700, nil
	}
	return strconv.Atoi(v)
}

func number(v string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

var pathArity = map[byte]int{'M': 2, 'L': 2, 'C': 6, 'Z': 0}

// parsePath reads absolute M, L, C, and Z commands.
func parsePath(d string) ([]segment, error) {
	fields := strings.FieldsFunc(d, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '\t'
	})
	var (
		segs []segment
		cmd  byte
		args []float64
	)
	flush := func() {
		segs = append(segs, segment{cmd: cmd, pts: args})
		args = nil
		if cmd == 'M' {
			cmd = 'L' // extra pairs after a moveto are linetos
		}
	}
	for _, f := range fields {
		if c := f[0]; (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			if len(args) > 0 {
				return nil, fmt.Errorf("parse svg path: incomplete %c command", cmd)
			}
			if _, ok := pathArity[c]; !ok {
				return nil, fmt.Errorf("parse svg path: unsupported command %c", c)
			}
			cmd = c
			if cmd == 'Z' {
				flush()
			}
			if f = f[1:]; f == "" {
				continue
			}
		}
		if cmd == 0 {
			return nil, fmt.Errorf("parse svg path: data must start with a command")
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("parse svg path: %w", err)
		}
		args = append(args, v)
		if len(args) == pathArity[cmd] {
			flush()
		}
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("parse svg path: incomplete %c command", cmd)
	}
	if len(segs) == 0 || segs[0].cmd != 'M' {
		return nil, fmt.Errorf("parse svg path: data must start with a moveto")
	}
	return segs, nil
}
