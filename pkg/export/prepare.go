package export

import (
	"bytes"
	"math"

	"github.com/Gor-c/emind/pkg/scene"
)

// Prepared is the export-only copy of a scene.
type Prepared struct {
	Scene *scene.Scene
	// Box is the content box of the source scene.
	Box scene.Rect
	// OffsetX and OffsetY were added to every source coordinate.
	OffsetX, OffsetY float64
	// Width and Height are the logical document size.
	Width, Height int
}

// Prepare measures s and returns its padded, re-based copy. s is not
// modified.
func Prepare(s *scene.Scene, m scene.Measurer, opts Options) (*Prepared, error) {
	box, err := s.Bounds(m)
	if err != nil {
		return nil, err
	}
	pad := opts.Padding
	p := &Prepared{
		Scene:   s.Clone(),
		Box:     box,
		OffsetX: pad - box.MinX,
		OffsetY: pad - box.MinY,
		Width:   int(math.Ceil(box.Width() + 2*pad)),
		Height:  int(math.Ceil(box.Height() + 2*pad)),
	}
	p.Scene.Translate(p.OffsetX, p.OffsetY)
	if opts.Background != "" {
		if c, err := scene.ParseColor(opts.Background); err == nil {
			p.Scene.Background = scene.Hex(c)
		}
	}
	return p, nil
}

// Serialize writes p as a self-contained SVG document with explicit size
// and a full-size background.
func Serialize(p *Prepared) ([]byte, error) {
	var buf bytes.Buffer
	err := p.Scene.WriteSVG(&buf, scene.SVGOptions{Width: p.Width, Height: p.Height, Background: true})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
