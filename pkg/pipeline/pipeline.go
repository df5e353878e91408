// Package pipeline drives one mind map from tree to pixels.
//
// A [Runner] owns the current diagram: the layout and scene of the last
// successful render, and the viewport controller that holds its transform.
// It is the API the CLI, the terminal viewer, and the HTTP server share:
//
//	r, err := pipeline.NewRunner(cfg, nil, nil, logger)
//	if err := r.Render(ctx, root, 1200, 800); err != nil {
//	    return err
//	}
//	r.Controller().Settle()
//	res, err := r.ExportImage(ctx)
//
// # Diagram identity
//
// A diagram is identified by the root pointer passed to [Runner.Render],
// not by tree contents. Rendering a new root discards the previous diagram,
// detaches its controller, and fits the new content to the viewport.
// Rendering the same root again rebuilds the scene and keeps the transform.
//
// A Runner is not safe for concurrent use. The HTTP server creates one per
// request; interactive callers drive one from a single goroutine.
package pipeline

import (
	"github.com/google/uuid"

	"github.com/Gor-c/emind/pkg/layout"
	"github.com/Gor-c/emind/pkg/scene"
	"github.com/Gor-c/emind/pkg/tree"
)

// Diagram is the rendered state of one root identity.
type Diagram struct {
	// ID is assigned when the root identity changes.
	ID     uuid.UUID
	Root   *tree.Node
	Layout *layout.Layout
	Scene  *scene.Scene
	// Box is the content box of Scene.
	Box scene.Rect
	// Passes counts successful renders of this identity.
	Passes int
}

// Name returns the root label.
func (d *Diagram) Name() string { return d.Root.Name }

// Artifact formats accepted by cache keys.
const (
	FormatPNG    = "png"
	FormatSVG    = "svg"
	FormatLayout = "layout"
)
