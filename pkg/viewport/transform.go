package viewport

import (
	"fmt"

	"github.com/Gor-c/emind/pkg/scene"
)

// Transform maps world coordinates to screen coordinates:
// screen = world*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform that leaves coordinates unchanged.
var Identity = Transform{K: 1}

// Apply maps a world point to the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a screen point back to world coordinates.
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.X) / t.K, (y - t.Y) / t.K
}

func (t Transform) String() string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", t.X, t.Y, t.K)
}

// SVG returns writer options that draw a scene through t on a w×h canvas.
func (t Transform) SVG(w, h int) scene.SVGOptions {
	return scene.SVGOptions{Width: w, Height: h, TranslateX: t.X, TranslateY: t.Y, Scale: t.K}
}

func lerp(a, b Transform, p float64) Transform {
	return Transform{
		X: a.X + (b.X-a.X)*p,
		Y: a.Y + (b.Y-a.Y)*p,
		K: a.K + (b.K-a.K)*p,
	}
}

func clamp(v, lo, hi float64) float64 { return min(max(v, lo), hi) }
