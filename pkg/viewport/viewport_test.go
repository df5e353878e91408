package viewport

import (
	"math"
	"testing"
	"time"

	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/scene"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func nearT(a, b Transform) bool { return near(a.X, b.X) && near(a.Y, b.Y) && near(a.K, b.K) }

func newController(t *testing.T, w, h float64) *Controller {
	t.Helper()
	c, err := New(w, h, DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestFit(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name string
		box  scene.Rect
		w, h float64
		want Transform
	}{
		{
			name: "tall content",
			box:  scene.Rect{MaxX: 400, MaxY: 2000},
			w:    800, h: 600,
			want: Transform{X: 400 - 0.27*200, Y: 300 - 0.27*1000, K: 0.27},
		},
		{
			name: "small content is not enlarged",
			box:  scene.Rect{MinX: -50, MinY: -20, MaxX: 50, MaxY: 20},
			w:    800, h: 600,
			want: Transform{X: 400, Y: 300, K: 1},
		},
		{
			name: "huge content stops at the fit floor",
			box:  scene.Rect{MaxX: 100000, MaxY: 100},
			w:    800, h: 600,
			want: Transform{X: 400 - 0.05*50000, Y: 300 - 0.05*50, K: 0.05},
		},
		{
			name: "wide content",
			box:  scene.Rect{MinX: -1000, MinY: -100, MaxX: 1000, MaxY: 100},
			w:    1000, h: 1000,
			want: Transform{X: 500, Y: 500, K: 0.45},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fit(tt.box, tt.w, tt.h, opts)
			if err != nil {
				t.Fatalf("Fit: %v", err)
			}
			if !nearT(got, tt.want) {
				t.Errorf("Fit = %+v, want %+v", got, tt.want)
			}
			// The box center lands on the viewport center.
			cx, cy := tt.box.Center()
			sx, sy := got.Apply(cx, cy)
			if !near(sx, tt.w/2) || !near(sy, tt.h/2) {
				t.Errorf("box center maps to (%v, %v)", sx, sy)
			}
		})
	}
}

func TestFitErrors(t *testing.T) {
	opts := DefaultOptions()
	if _, err := Fit(scene.Rect{MaxX: 10}, 800, 600, opts); !errors.Is(err, errors.ErrCodeDegenerateContent) {
		t.Errorf("flat box error = %v, want DEGENERATE_CONTENT", err)
	}
	if _, err := Fit(scene.Rect{MaxX: 10, MaxY: 10}, 0, 600, opts); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("zero viewport error = %v, want INVALID_INPUT", err)
	}
}

func TestAutoFitConverges(t *testing.T) {
	c := newController(t, 800, 600)
	box := scene.Rect{MaxX: 400, MaxY: 2000}
	want, _ := Fit(box, 800, 600, c.Options())

	if err := c.AutoFit(box); err != nil {
		t.Fatalf("AutoFit: %v", err)
	}
	if !c.Animating() {
		t.Fatal("AutoFit did not start a transition")
	}
	if c.Target() != want {
		t.Errorf("Target = %+v, want %+v", c.Target(), want)
	}
	frames := 0
	for c.Advance(16 * time.Millisecond) {
		frames++
		if frames > 1000 {
			t.Fatal("transition never finished")
		}
	}
	if frames == 0 {
		t.Error("transition finished on the first frame")
	}
	if c.Transform() != want {
		t.Errorf("converged to %+v, want exactly %+v", c.Transform(), want)
	}
}

func TestAutoFitIdempotent(t *testing.T) {
	c := newController(t, 1200, 800)
	box := scene.Rect{MinX: -600, MinY: -900, MaxX: 700, MaxY: 850}
	if err := c.AutoFit(box); err != nil {
		t.Fatal(err)
	}
	c.Settle()
	first := c.Transform()
	if err := c.AutoFit(box); err != nil {
		t.Fatal(err)
	}
	c.Settle()
	if c.Transform() != first {
		t.Errorf("second AutoFit = %+v, first %+v", c.Transform(), first)
	}
	if c.Animating() {
		t.Error("re-fitting an already fitted view started a transition")
	}
}

func TestTransitionIntermediate(t *testing.T) {
	c := newController(t, 800, 600)
	c.ResetView()
	half := c.Options().Transition / 2
	if !c.Advance(half) {
		t.Fatal("transition ended at half time")
	}
	k := c.Transform().K
	if k <= 0.5 || k >= 1 {
		t.Errorf("mid-transition scale = %v, want between 0.5 and 1", k)
	}
}

func TestResetView(t *testing.T) {
	c := newController(t, 800, 600)
	c.Apply(Transform{X: -123, Y: 77, K: 3})
	c.ResetView()
	c.Settle()
	if want := (Transform{X: 400, Y: 300, K: 0.5}); c.Transform() != want {
		t.Errorf("ResetView = %+v, want %+v", c.Transform(), want)
	}
	sx, sy := c.WorldToScreen(0, 0)
	if sx != 400 || sy != 300 {
		t.Errorf("origin maps to (%v, %v), want viewport center", sx, sy)
	}
}

func TestNoTransition(t *testing.T) {
	opts := DefaultOptions()
	opts.Transition = 0
	c, err := New(800, 600, opts)
	if err != nil {
		t.Fatal(err)
	}
	c.ResetView()
	if c.Animating() {
		t.Error("zero-length transition is animating")
	}
	if c.Transform().K != 0.5 {
		t.Errorf("K = %v, want 0.5", c.Transform().K)
	}
}

func TestWheel(t *testing.T) {
	c := newController(t, 800, 600)
	c.Apply(Transform{X: 100, Y: 50, K: 1})

	wx, wy := c.ScreenToWorld(300, 200)
	c.Wheel(300, 200, -500) // zoom in by 2^1
	if !near(c.Transform().K, 2) {
		t.Errorf("K = %v, want 2", c.Transform().K)
	}
	gx, gy := c.ScreenToWorld(300, 200)
	if !near(gx, wx) || !near(gy, wy) {
		t.Errorf("point under cursor moved from (%v,%v) to (%v,%v)", wx, wy, gx, gy)
	}

	c.Wheel(0, 0, -1e6)
	if c.Transform().K != 10 {
		t.Errorf("K = %v, want clamp at 10", c.Transform().K)
	}
	c.Wheel(0, 0, 1e6)
	if c.Transform().K != 0.01 {
		t.Errorf("K = %v, want clamp at 0.01", c.Transform().K)
	}
}

func TestPinch(t *testing.T) {
	c := newController(t, 800, 600)
	wx, wy := c.ScreenToWorld(400, 300)
	c.Pinch(400, 300, 1.5)
	if !near(c.Transform().K, 1.5) {
		t.Errorf("K = %v, want 1.5", c.Transform().K)
	}
	gx, gy := c.ScreenToWorld(400, 300)
	if !near(gx, wx) || !near(gy, wy) {
		t.Error("pinch center moved")
	}
	before := c.Transform()
	c.Pinch(0, 0, 0)
	c.Pinch(0, 0, math.NaN())
	if c.Transform() != before {
		t.Error("invalid pinch factor changed the transform")
	}
}

func TestNonFiniteInputIgnored(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	c := newController(t, 800, 600)
	c.Apply(Transform{X: 100, Y: 50, K: 2})
	before := c.Transform()

	c.Wheel(10, 10, nan)
	c.Wheel(10, 10, inf)
	c.Wheel(nan, 10, -100)
	c.Pinch(inf, 0, 1.5)
	c.Pan(nan, 0)
	c.Pan(0, -inf)
	c.Apply(Transform{X: 0, Y: 0, K: nan})
	c.Apply(Transform{X: inf, Y: 0, K: 1})

	if got := c.Transform(); got != before {
		t.Errorf("transform = %+v, want %+v", got, before)
	}
	c.Wheel(0, 0, -100)
	if k := c.Transform().K; math.IsNaN(k) || k < 0.01 || k > 10 {
		t.Errorf("K = %v after valid wheel, want within [0.01, 10]", k)
	}
}

func TestPanCancelsTransition(t *testing.T) {
	c := newController(t, 800, 600)
	c.ResetView()
	c.Advance(100 * time.Millisecond)
	at := c.Transform()
	c.Pan(10, -20)
	if c.Animating() {
		t.Error("gesture did not stop the transition")
	}
	if want := (Transform{X: at.X + 10, Y: at.Y - 20, K: at.K}); c.Transform() != want {
		t.Errorf("Pan = %+v, want %+v", c.Transform(), want)
	}
}

func TestApplyIdempotent(t *testing.T) {
	c := newController(t, 800, 600)
	tr := Transform{X: 12, Y: 34, K: 20}
	c.Apply(tr)
	first := c.Transform()
	c.Apply(tr)
	if c.Transform() != first {
		t.Errorf("second Apply = %+v, first %+v", c.Transform(), first)
	}
	if first.K != 10 {
		t.Errorf("K = %v, want clamp at 10", first.K)
	}
}

func TestState(t *testing.T) {
	c := newController(t, 800, 600)
	if c.State() != Idle {
		t.Fatalf("initial state = %v", c.State())
	}
	c.Press()
	if c.State() != Interacting {
		t.Errorf("after Press = %v", c.State())
	}
	c.Release()
	if c.State() != Idle {
		t.Errorf("after Release = %v", c.State())
	}
}

func TestDetach(t *testing.T) {
	c := newController(t, 800, 600)
	c.ResetView()
	c.Detach()
	if c.Animating() {
		t.Error("Detach left a transition running")
	}
	before := c.Transform()
	c.Pan(100, 100)
	c.Wheel(0, 0, -100)
	c.Pinch(0, 0, 2)
	c.Apply(Transform{K: 3})
	c.ResetView()
	if err := c.AutoFit(scene.Rect{MaxX: 10, MaxY: 10}); err != nil {
		t.Errorf("AutoFit on detached controller: %v", err)
	}
	c.Press()
	if c.Transform() != before || c.Animating() || c.State() != Idle {
		t.Error("detached controller reacted to input")
	}
}

func TestScreenWorldRoundTrip(t *testing.T) {
	c := newController(t, 800, 600)
	c.Apply(Transform{X: 31, Y: -7, K: 0.37})
	x, y := c.WorldToScreen(-250, 410)
	wx, wy := c.ScreenToWorld(x, y)
	if !near(wx, -250) || !near(wy, 410) {
		t.Errorf("round trip = (%v, %v)", wx, wy)
	}
}

func TestResize(t *testing.T) {
	c := newController(t, 800, 600)
	if err := c.Resize(1024, 768); err != nil {
		t.Fatal(err)
	}
	if w, h := c.Size(); w != 1024 || h != 768 {
		t.Errorf("Size = %vx%v", w, h)
	}
	if err := c.Resize(-1, 10); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Resize error = %v, want INVALID_INPUT", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"min scale", func(o *Options) { o.MinScale = 0 }},
		{"inverted scale range", func(o *Options) { o.MaxScale = 0.001 }},
		{"fit margin", func(o *Options) { o.FitMargin = 1.2 }},
		{"fit range", func(o *Options) { o.FitMinScale = 2 }},
		{"reset scale", func(o *Options) { o.ResetScale = 50 }},
		{"wheel", func(o *Options) { o.WheelSensitivity = 0 }},
		{"transition", func(o *Options) { o.Transition = -time.Second }},
	}
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.modify(&o)
			if err := o.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate = %v, want INVALID_CONFIG", err)
			}
			if _, err := New(800, 600, o); err == nil {
				t.Error("New accepted invalid options")
			}
		})
	}
}

func TestTransformSVG(t *testing.T) {
	opts := Transform{X: 1, Y: 2, K: 0.5}.SVG(640, 480)
	if opts.Width != 640 || opts.Height != 480 || opts.TranslateX != 1 || opts.TranslateY != 2 || opts.Scale != 0.5 {
		t.Errorf("SVG = %+v", opts)
	}
}
