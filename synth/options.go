package synth

import (
	"fmt"
	"math"
	"strings"

	"github.com/sergev/max2870/limits"
)

// RefScale selects the doubler or divide-by-2 stage ahead of the R divider.
type RefScale int

const (
	RefUndivided RefScale = iota
	RefDouble
	RefHalf
)

var refScaleNames = []string{"undivided", "double", "half"}

// String returns the name of the RefScale
func (s RefScale) String() string {
	if s < 0 || int(s) >= len(refScaleNames) {
		return fmt.Sprintf("RefScale(%d)", int(s))
	}
	return refScaleNames[s]
}

// Factor is the ratio between the R divider input and the reference.
func (s RefScale) Factor() float64 {
	switch s {
	case RefDouble:
		return 2
	case RefHalf:
		return 0.5
	default:
		return 1
	}
}

// RefScaleNames lists the accepted names for ParseRefScale.
func RefScaleNames() []string {
	return append([]string(nil), refScaleNames...)
}

// ParseRefScale returns the reference stage with the given name.
func ParseRefScale(name string) (RefScale, error) {
	for i, n := range refScaleNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return RefScale(i), nil
		}
	}
	return RefUndivided, fmt.Errorf("unknown reference scale %q (valid: %s)", name, strings.Join(refScaleNames, ", "))
}

// Search tunes one divider search.
type Search struct {
	Scale     RefScale // stage ahead of the R divider
	Tolerance float64  // VCO error in Hz small enough to end the search
}

// settings collects the options of a Solve or Sweep call.
type settings struct {
	scale     RefScale
	tolerance float64 // at the RF output, Hz
}

// Option adjusts a Solve or Sweep call.
type Option func(*settings)

// WithRefScale feeds the reference through the doubler or the divide-by-2
// stage before the R divider.
func WithRefScale(s RefScale) Option {
	return func(o *settings) {
		o.scale = s
	}
}

// WithTolerance ends the fractional search at the first setting whose RF
// error is within hz, instead of looking for the smallest error.
func WithTolerance(hz float64) Option {
	return func(o *settings) {
		o.tolerance = hz
	}
}

// newSettings applies opts and checks them against the table. The highest
// reference the sweep or solve will feed into the doubler is maxReference.
func newSettings(t limits.Table, maxReference float64, opts []Option) (settings, error) {
	var o settings
	for _, opt := range opts {
		opt(&o)
	}
	if o.scale < RefUndivided || o.scale > RefHalf {
		return o, fmt.Errorf("unknown reference scale %d", int(o.scale))
	}
	if o.scale == RefDouble && !t.DoublerInRange(maxReference) {
		return o, fmt.Errorf("%w: %.0f Hz (valid up to %.0f Hz)", ErrDoublerRange, maxReference, t.MaxDoublerReference)
	}
	if o.tolerance < 0 || math.IsNaN(o.tolerance) || math.IsInf(o.tolerance, 0) {
		return o, fmt.Errorf("%w: %v Hz", ErrInvalidTolerance, o.tolerance)
	}
	return o, nil
}

// search converts the settings for a VCO plan. An RF error of e Hz is an
// error of e times the RF divider at the VCO.
func (o settings) search(plan VCOPlan) Search {
	return Search{
		Scale:     o.scale,
		Tolerance: o.tolerance * float64(plan.Divider),
	}
}
