package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Gor-c/emind/pkg/cache"
	"github.com/Gor-c/emind/pkg/config"
	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/export"
	"github.com/Gor-c/emind/pkg/layout"
	"github.com/Gor-c/emind/pkg/observability"
	"github.com/Gor-c/emind/pkg/scene"
	"github.com/Gor-c/emind/pkg/tree"
	"github.com/Gor-c/emind/pkg/viewport"
)

// Runner renders and exports one diagram at a time.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	cfg      config.Config
	exporter *export.Exporter
	measurer scene.Measurer

	diagram *Diagram
	ctrl    *viewport.Controller
}

// Option customizes a Runner.
type Option func(*Runner)

// WithMeasurer replaces the font measurer used for content bounds in both
// the viewport fit and the export.
func WithMeasurer(m scene.Measurer) Option {
	return func(r *Runner) { r.measurer = m }
}

// NewRunner validates cfg and returns an empty runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(cfg config.Config, c cache.Cache, keyer cache.Keyer, logger *log.Logger, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		cfg:      cfg,
		measurer: scene.FontMeasurer{},
	}
	for _, o := range opts {
		o(r)
	}
	exp, err := export.New(cfg.Export, export.WithMeasurer(r.measurer))
	if err != nil {
		return nil, err
	}
	r.exporter = exp
	return r, nil
}

// Config returns the runner's configuration.
func (r *Runner) Config() config.Config { return r.cfg }

// Diagram returns the last successfully rendered diagram, or nil.
func (r *Runner) Diagram() *Diagram { return r.diagram }

// Controller returns the viewport controller of the current diagram, or
// nil before the first successful render.
func (r *Runner) Controller() *viewport.Controller { return r.ctrl }

// Render lays out root and builds its scene for a width×height viewport.
//
// On failure the previous diagram, if any, stays in place and the error is
// returned. A nil root or a tree with empty names is
// [errors.ErrCodeInvalidInput] or [errors.ErrCodeDegenerateContent].
func (r *Runner) Render(ctx context.Context, root *tree.Node, width, height int) error {
	d, err := r.build(ctx, root)
	if err != nil {
		if r.diagram != nil {
			r.Logger.Warn("render skipped", "id", r.diagram.ID, "err", err)
		}
		return err
	}

	if r.diagram != nil && r.diagram.Root == root {
		if err := r.ctrl.Resize(float64(width), float64(height)); err != nil {
			return err
		}
		d.ID = r.diagram.ID
		d.Passes = r.diagram.Passes + 1
		r.diagram = d
		r.Logger.Debug("re-rendered diagram", "id", d.ID, "pass", d.Passes)
		return nil
	}

	ctrl, err := viewport.New(float64(width), float64(height), r.cfg.Viewport)
	if err != nil {
		return err
	}
	if err := ctrl.AutoFit(d.Box); err != nil {
		return err
	}
	if r.ctrl != nil {
		r.ctrl.Detach()
	}
	d.ID = uuid.New()
	d.Passes = 1
	r.diagram, r.ctrl = d, ctrl

	r.Logger.Info("rendered diagram",
		"id", d.ID,
		"nodes", len(d.Layout.Nodes),
		"edges", len(d.Layout.Edges))
	return nil
}

func (r *Runner) build(ctx context.Context, root *tree.Node) (*Diagram, error) {
	nodes := tree.Count(root)
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, nodes)
	start := time.Now()

	l, err := layout.Compute(root, r.cfg.Layout)
	if err != nil {
		hooks.OnLayoutComplete(ctx, nodes, time.Since(start), err)
		return nil, fmt.Errorf("layout: %w", err)
	}
	s := scene.Build(l, r.cfg.Theme)
	box, err := s.Bounds(r.measurer)
	hooks.OnLayoutComplete(ctx, nodes, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("scene bounds: %w", err)
	}
	return &Diagram{Root: root, Layout: l, Scene: s, Box: box}, nil
}

// ResetView recenters the current diagram at the reset scale.
func (r *Runner) ResetView() error {
	if r.ctrl == nil {
		return errors.New(errors.ErrCodeNotRendered, "no diagram to reset")
	}
	r.ctrl.ResetView()
	return nil
}

// AutoFit fits the current diagram to the viewport again.
func (r *Runner) AutoFit() error {
	if r.ctrl == nil {
		return errors.New(errors.ErrCodeNotRendered, "no diagram to fit")
	}
	return r.ctrl.AutoFit(r.diagram.Box)
}

// LiveSVG writes the current diagram as seen through the viewport.
func (r *Runner) LiveSVG(w io.Writer) error {
	if r.diagram == nil {
		return errors.New(errors.ErrCodeNotRendered, "no diagram to draw")
	}
	vw, vh := r.ctrl.Size()
	opts := r.ctrl.Transform().SVG(int(vw), int(vh))
	opts.Background = true
	return r.diagram.Scene.WriteSVG(w, opts)
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}
