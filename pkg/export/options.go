package export

import (
	"time"

	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/scene"
)

// Rasterizer names accepted by [Options].
const (
	RasterizerBuiltin = "builtin"
	RasterizerRSVG    = "rsvg"
)

// Options configures the export pipeline.
type Options struct {
	// Padding is the margin added around the content box, in scene units.
	Padding float64 `toml:"padding" json:"padding"`
	// Scale is the oversampling factor of the raster relative to the
	// logical document size.
	Scale float64 `toml:"scale" json:"scale"`
	// DecodeTimeout bounds the raster decode. Zero means no limit beyond
	// the caller's context.
	DecodeTimeout time.Duration `toml:"decode_timeout" json:"decode_timeout"`
	// Prefix starts every exported file name.
	Prefix string `toml:"prefix" json:"prefix"`
	// Background fills the image behind the content.
	Background string `toml:"background" json:"background"`
	// Rasterizer selects the decoder: "builtin" or "rsvg".
	Rasterizer string `toml:"rasterizer" json:"rasterizer"`
}

// DefaultOptions returns the stock export settings.
func DefaultOptions() Options {
	return Options{
		Padding:       50,
		Scale:         2,
		DecodeTimeout: 30 * time.Second,
		Prefix:        "VisionMind_",
		Background:    "#ffffff",
		Rasterizer:    RasterizerBuiltin,
	}
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	switch {
	case o.Padding < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "export padding must not be negative, got %v", o.Padding)
	case o.Scale <= 0 || o.Scale > 8:
		return errors.New(errors.ErrCodeInvalidConfig, "export scale must be in (0, 8], got %v", o.Scale)
	case o.DecodeTimeout < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "export decode_timeout must not be negative")
	}
	c, err := scene.ParseColor(o.Background)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "export background")
	}
	if c.A != 0xff {
		return errors.New(errors.ErrCodeInvalidConfig, "export background must be opaque, got %q", o.Background)
	}
	if _, err := o.rasterizer(); err != nil {
		return err
	}
	return nil
}

func (o Options) rasterizer() (Rasterizer, error) {
	switch o.Rasterizer {
	case "", RasterizerBuiltin:
		return Builtin{}, nil
	case RasterizerRSVG:
		return RSVG{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown rasterizer %q (must be %q or %q)", o.Rasterizer, RasterizerBuiltin, RasterizerRSVG)
	}
}
