package viewport

import (
	"time"

	"github.com/Gor-c/emind/pkg/errors"
)

// Options are the tunables of a controller.
type Options struct {
	// MinScale and MaxScale bound every transform the controller holds.
	MinScale float64 `toml:"min_scale" json:"min_scale"`
	MaxScale float64 `toml:"max_scale" json:"max_scale"`

	// FitMargin is the share of the viewport the fitted content fills.
	FitMargin   float64 `toml:"fit_margin" json:"fit_margin"`
	FitMinScale float64 `toml:"fit_min_scale" json:"fit_min_scale"`
	FitMaxScale float64 `toml:"fit_max_scale" json:"fit_max_scale"`

	ResetScale float64 `toml:"reset_scale" json:"reset_scale"`

	// WheelSensitivity converts a wheel delta to a zoom exponent:
	// k' = k * 2^(-deltaY*WheelSensitivity).
	WheelSensitivity float64 `toml:"wheel_sensitivity" json:"wheel_sensitivity"`

	// Transition is the length of fit and reset animations. Zero applies
	// them at once.
	Transition time.Duration `toml:"transition" json:"transition"`
}

// DefaultOptions returns the stock controller settings.
func DefaultOptions() Options {
	return Options{
		MinScale:         0.01,
		MaxScale:         10,
		FitMargin:        0.9,
		FitMinScale:      0.05,
		FitMaxScale:      1.0,
		ResetScale:       0.5,
		WheelSensitivity: 0.002,
		Transition:       750 * time.Millisecond,
	}
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	switch {
	case o.MinScale <= 0 || o.MaxScale < o.MinScale:
		return errors.New(errors.ErrCodeInvalidConfig, "viewport scale range [%v, %v] is invalid", o.MinScale, o.MaxScale)
	case o.FitMargin <= 0 || o.FitMargin > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "viewport fit_margin must be in (0, 1], got %v", o.FitMargin)
	case o.FitMinScale <= 0 || o.FitMaxScale < o.FitMinScale:
		return errors.New(errors.ErrCodeInvalidConfig, "viewport fit scale range [%v, %v] is invalid", o.FitMinScale, o.FitMaxScale)
	case o.ResetScale < o.MinScale || o.ResetScale > o.MaxScale:
		return errors.New(errors.ErrCodeInvalidConfig, "viewport reset_scale %v is outside [%v, %v]", o.ResetScale, o.MinScale, o.MaxScale)
	case o.WheelSensitivity <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "viewport wheel_sensitivity must be positive")
	case o.Transition < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "viewport transition must not be negative")
	}
	return nil
}
