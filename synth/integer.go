package synth

import (
	"math"

	"github.com/sergev/max2870/limits"
)

// SolveInteger looks for an integer mode divider pair producing vco exactly.
// The first exact match in ascending R order is returned with ok set.
// Feasible reports whether any R and N pair within the profile was seen,
// exact or not. Only the reference stage of s applies in integer mode.
func SolveInteger(p limits.Profile, reference, vco float64, s Search) (c Candidate, ok bool, feasible bool) {
	var seen int
	input := reference * s.Scale.Factor()
	d, ok := findFirst(tally(candidateR(p, input, vco, identity), &seen), func(d divider) bool {
		return d.N == math.Trunc(d.N)
	})
	if !ok {
		return Candidate{}, false, seen > 0
	}
	return Candidate{
		R:         d.R,
		N:         int(d.N),
		Mod:       p.MinMod,
		Frac:      0,
		Mode:      Integer,
		Reference: reference,
		Scale:     s.Scale,
	}, true, true
}
