package synth

import (
	"fmt"

	"github.com/sergev/max2870/limits"
)

// VCOPlan maps an RF output frequency onto the VCO band.
type VCOPlan struct {
	VCO      float64 // VCO frequency in Hz
	Divider  int     // RF output divider, always a power of two
	Exponent int     // log2 of Divider
}

// Normalize converts an RF frequency to a VCO frequency and RF division ratio.
// The VCO only runs in the upper octave below MaxRF, so lower outputs are
// reached by doubling until the VCO band is entered.
func Normalize(t limits.Table, rf float64) (VCOPlan, error) {
	if !t.RFInRange(rf) {
		return VCOPlan{}, fmt.Errorf("%w: %.0f Hz (valid %.0f..%.0f Hz)", ErrTargetOutOfRange, rf, t.MinRF, t.MaxRF)
	}

	plan := VCOPlan{VCO: rf}
	for plan.VCO < t.MaxRF/2 {
		plan.VCO *= 2
		plan.Exponent++
	}
	plan.Divider = 1 << plan.Exponent
	return plan, nil
}

// RF converts a VCO frequency back to the output frequency.
func (p VCOPlan) RF(vco float64) float64 {
	return vco / float64(p.Divider)
}
