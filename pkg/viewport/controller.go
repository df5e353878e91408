package viewport

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/scene"
)

// State is the gesture state of a controller.
type State int

const (
	Idle State = iota
	Interacting
)

func (s State) String() string {
	if s == Interacting {
		return "interacting"
	}
	return "idle"
}

// transition eases the transform from one value to another. The tween runs
// a progress value from 0 to 1.
type transition struct {
	from, to Transform
	tween    *gween.Tween
}

// Controller owns the transform of one diagram.
type Controller struct {
	opts          Options
	width, height float64
	t             Transform
	anim          *transition
	state         State
	detached      bool
}

// New returns a controller for a width×height viewport holding the
// identity transform.
func New(width, height float64, opts Options) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "viewport size must be positive, got %gx%g", width, height)
	}
	return &Controller{opts: opts, width: width, height: height, t: Identity}, nil
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform { return c.t }

// Target returns where the running transition ends, or the current
// transform when idle.
func (c *Controller) Target() Transform {
	if c.anim != nil {
		return c.anim.to
	}
	return c.t
}

// Size returns the viewport size.
func (c *Controller) Size() (width, height float64) { return c.width, c.height }

// Options returns the controller's settings.
func (c *Controller) Options() Options { return c.opts }

// State reports whether a gesture is in progress.
func (c *Controller) State() State { return c.state }

// Animating reports whether a transition is running.
func (c *Controller) Animating() bool { return c.anim != nil }

// Detached reports whether the controller's diagram was replaced.
func (c *Controller) Detached() bool { return c.detached }

// Detach disconnects the controller from input. Every later gesture and
// command is ignored, so handlers still bound to a replaced diagram cannot
// move the new one.
func (c *Controller) Detach() {
	c.detached = true
	c.anim = nil
	c.state = Idle
}

// Resize changes the viewport size. The transform is unchanged.
func (c *Controller) Resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport size must be positive, got %gx%g", width, height)
	}
	c.width, c.height = width, height
	return nil
}

// Apply replaces the transform, clamping its scale and stopping any
// transition. Applying the same transform twice has no further effect.
// Transforms with a NaN or infinite component are ignored.
func (c *Controller) Apply(t Transform) {
	if c.detached || !finite(t.X, t.Y, t.K) {
		return
	}
	c.anim = nil
	c.set(t)
}

func (c *Controller) set(t Transform) {
	t.K = clamp(t.K, c.opts.MinScale, c.opts.MaxScale)
	c.t = t
}

// Press marks the start of a drag or wheel gesture.
func (c *Controller) Press() {
	if !c.detached {
		c.state = Interacting
	}
}

// Release marks the end of a gesture.
func (c *Controller) Release() { c.state = Idle }

// Pan moves the view by a screen-space delta.
func (c *Controller) Pan(dx, dy float64) {
	if c.detached || !finite(dx, dy) {
		return
	}
	c.anim = nil
	c.set(Transform{X: c.t.X + dx, Y: c.t.Y + dy, K: c.t.K})
}

// Wheel zooms by a wheel delta, keeping the world point under the screen
// position (x, y) fixed. Negative deltas zoom in.
func (c *Controller) Wheel(x, y, deltaY float64) {
	if !finite(deltaY) {
		return
	}
	c.zoomAt(x, y, c.t.K*math.Exp2(-deltaY*c.opts.WheelSensitivity))
}

// Pinch scales the view by factor around the pinch center (x, y).
func (c *Controller) Pinch(x, y, factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	c.zoomAt(x, y, c.t.K*factor)
}

func (c *Controller) zoomAt(x, y, k float64) {
	if c.detached || !finite(x, y) {
		return
	}
	c.anim = nil
	k = clamp(k, c.opts.MinScale, c.opts.MaxScale)
	wx, wy := c.t.Invert(x, y)
	c.t = Transform{X: x - wx*k, Y: y - wy*k, K: k}
}

// AutoFit starts a transition to the transform that fits box in the
// viewport.
func (c *Controller) AutoFit(box scene.Rect) error {
	if c.detached {
		return nil
	}
	t, err := Fit(box, c.width, c.height, c.opts)
	if err != nil {
		return err
	}
	c.animateTo(t)
	return nil
}

// ResetView starts a transition to the fixed recentering transform. The
// content bounds are not consulted.
func (c *Controller) ResetView() {
	if c.detached {
		return
	}
	c.animateTo(Reset(c.width, c.height, c.opts))
}

func (c *Controller) animateTo(t Transform) {
	t.K = clamp(t.K, c.opts.MinScale, c.opts.MaxScale)
	if c.opts.Transition <= 0 || t == c.t {
		c.anim = nil
		c.t = t
		return
	}
	c.anim = &transition{
		from:  c.t,
		to:    t,
		tween: gween.New(0, 1, float32(c.opts.Transition.Seconds()), ease.InOutCubic),
	}
}

// Advance steps the running transition by dt and reports whether it is
// still running. The last step lands exactly on the target.
func (c *Controller) Advance(dt time.Duration) bool {
	if c.anim == nil {
		return false
	}
	p, done := c.anim.tween.Update(float32(dt.Seconds()))
	if done {
		c.Settle()
		return false
	}
	c.t = lerp(c.anim.from, c.anim.to, float64(p))
	return true
}

// Settle finishes the running transition immediately.
func (c *Controller) Settle() {
	if c.anim == nil {
		return
	}
	c.t = c.anim.to
	c.anim = nil
}

// ScreenToWorld maps a screen point through the current transform.
func (c *Controller) ScreenToWorld(x, y float64) (float64, float64) { return c.t.Invert(x, y) }

// WorldToScreen maps a world point through the current transform.
func (c *Controller) WorldToScreen(x, y float64) (float64, float64) { return c.t.Apply(x, y) }

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
