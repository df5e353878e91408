package viewport

import (
	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/scene"
)

// Fit returns the transform that centers box in a width×height viewport,
// scaled so the box fills FitMargin of the tighter axis. The scale is
// clamped to [FitMinScale, FitMaxScale].
func Fit(box scene.Rect, width, height float64, opts Options) (Transform, error) {
	if box.Empty() {
		return Transform{}, errors.New(errors.ErrCodeDegenerateContent, "cannot fit an empty box (%gx%g)", box.Width(), box.Height())
	}
	if width <= 0 || height <= 0 {
		return Transform{}, errors.New(errors.ErrCodeInvalidInput, "viewport size must be positive, got %gx%g", width, height)
	}
	ratio := max(box.Width()/width, box.Height()/height)
	k := clamp(opts.FitMargin/ratio, opts.FitMinScale, opts.FitMaxScale)
	k = clamp(k, opts.MinScale, opts.MaxScale)
	cx, cy := box.Center()
	return Transform{X: width/2 - k*cx, Y: height/2 - k*cy, K: k}, nil
}

// Reset returns the fixed recentering transform: ResetScale with the world
// origin at the viewport center.
func Reset(width, height float64, opts Options) Transform {
	return Transform{X: width / 2, Y: height / 2, K: opts.ResetScale}
}
