package layout

import (
	"math"

	"github.com/Gor-c/emind/pkg/errors"
)

// Options holds the tunable constants of the layout.
type Options struct {
	VerticalBase      float64 `toml:"vertical_base" json:"vertical_base"`
	VerticalMin       float64 `toml:"vertical_min" json:"vertical_min"`
	VerticalShrink    float64 `toml:"vertical_shrink" json:"vertical_shrink"`
	VerticalDivisor   float64 `toml:"vertical_divisor" json:"vertical_divisor"`
	HorizontalBase    float64 `toml:"horizontal_base" json:"horizontal_base"`
	HorizontalMin     float64 `toml:"horizontal_min" json:"horizontal_min"`
	HorizontalDivisor float64 `toml:"horizontal_divisor" json:"horizontal_divisor"`

	// BalanceThreshold is the number of right-side root children that must
	// be exceeded before balancing kicks in.
	BalanceThreshold int `toml:"balance_threshold" json:"balance_threshold"`
}

// DefaultOptions returns the stock spacing rules.
func DefaultOptions() Options {
	return Options{
		VerticalBase:      60,
		VerticalMin:       35,
		VerticalShrink:    25,
		VerticalDivisor:   20,
		HorizontalBase:    220,
		HorizontalMin:     180,
		HorizontalDivisor: 5,
		BalanceThreshold:  3,
	}
}

// Validate rejects rules that would divide by zero or invert the clamps.
func (o Options) Validate() error {
	if o.VerticalDivisor <= 0 || o.HorizontalDivisor <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout divisors must be positive")
	}
	if o.VerticalMin <= 0 || o.HorizontalMin <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout minimum spacing must be positive")
	}
	if o.VerticalShrink < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout vertical_shrink cannot be negative")
	}
	if o.BalanceThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout balance_threshold cannot be negative")
	}
	return nil
}

// Spacing is the pair of distances used to scale a tidy tree.
type Spacing struct {
	// Vertical separates neighbouring siblings on the across axis.
	Vertical float64 `json:"vertical"`
	// Horizontal separates consecutive depths on the along axis.
	Horizontal float64 `json:"horizontal"`
}

// Spacing returns the spacing for a tree with total nodes.
// Denser trees pack tighter; both values are clamped from below.
func (o Options) Spacing(total int) Spacing {
	n := float64(total)
	return Spacing{
		Vertical:   math.Max(o.VerticalMin, o.VerticalBase-math.Min(o.VerticalShrink, n/o.VerticalDivisor)),
		Horizontal: math.Max(o.HorizontalMin, o.HorizontalBase+n/o.HorizontalDivisor),
	}
}
