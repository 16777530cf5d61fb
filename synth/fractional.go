package synth

import (
	"context"
	"iter"
	"math"

	"github.com/sergev/max2870/limits"
)

// unsolved seeds a search: any real candidate has a smaller error.
var unsolved = Candidate{Mode: Fractional, Error: math.Inf(1)}

// fractionalCandidates yields one candidate per (R, MOD) pair, R outer and
// MOD inner, both ascending. It stops early when ctx is done.
func fractionalCandidates(ctx context.Context, p limits.Profile, reference, vco float64, scale RefScale) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for d := range candidateR(p, reference*scale.Factor(), vco, math.Floor) {
			if ctx.Err() != nil {
				return
			}
			remainder := vco - d.N*d.PFD
			for mod := range candidateMod(p) {
				step := d.PFD / float64(mod)
				frac := fracFor(remainder, step, mod)
				c := Candidate{
					R:         d.R,
					N:         int(d.N),
					Mod:       mod,
					Frac:      frac,
					Mode:      Fractional,
					Error:     step*float64(frac) - remainder,
					Reference: reference,
					Scale:     scale,
				}
				if !yield(c) {
					return
				}
			}
		}
	}
}

// SolveFractional searches the fractional mode dividers for the candidate
// closest to vco. The search continues from best, which is returned unchanged
// when nothing beats it. The search ends early at a candidate within the
// tolerance of s. Feasible reports whether any R and N pair within the
// profile was seen. The error is non-nil only when ctx ends the search.
func SolveFractional(ctx context.Context, p limits.Profile, reference, vco float64, best Candidate, s Search) (Candidate, bool, error) {
	best, feasible := minBy(fractionalCandidates(ctx, p, reference, vco, s.Scale), best, absError, s.Tolerance)
	if err := ctx.Err(); err != nil {
		return best, feasible, err
	}
	return best, feasible, nil
}
