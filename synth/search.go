package synth

import (
	"iter"
	"math"

	"github.com/sergev/max2870/limits"
)

// divider is an R value together with the PFD and N it gives.
type divider struct {
	R   int
	PFD float64
	N   float64
}

// candidateR yields, in ascending R order, the reference dividers whose PFD
// and N lie inside the profile. The input is the frequency entering the R
// divider, after any doubler or divide-by-2 stage. The quantize function maps the exact ratio
// vco/pfd to the N that will be checked against the limits.
//
// PFD falls and N grows with R. An R with PFD above the maximum or N below
// the minimum is skipped; the sequence ends at the first R whose PFD drops
// below the minimum or whose N exceeds the maximum.
func candidateR(p limits.Profile, input, vco float64, quantize func(float64) float64) iter.Seq[divider] {
	return func(yield func(divider) bool) {
		for r := 1; r <= p.MaxR; r++ {
			pfd := input / float64(r)
			if pfd > p.MaxPFD {
				continue
			}
			if pfd < p.MinPFD {
				return
			}
			n := quantize(vco / pfd)
			if n < float64(p.MinN) {
				continue
			}
			if n > float64(p.MaxN) {
				return
			}
			if !yield(divider{R: r, PFD: pfd, N: n}) {
				return
			}
		}
	}
}

// candidateMod yields every legal modulus in ascending order.
func candidateMod(p limits.Profile) iter.Seq[int] {
	return func(yield func(int) bool) {
		for mod := p.MinMod; mod <= p.MaxMod; mod++ {
			if !yield(mod) {
				return
			}
		}
	}
}

// findFirst returns the first element of seq that satisfies match.
func findFirst[T any](seq iter.Seq[T], match func(T) bool) (T, bool) {
	for v := range seq {
		if match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// minBy returns the element with the lowest score, starting from seed.
// Only a strictly lower score replaces the current best, so the earliest
// element wins a tie. An element scoring at or below good ends the scan.
// The second result reports whether seq produced any element at all.
func minBy[T any](seq iter.Seq[T], seed T, score func(T) float64, good float64) (T, bool) {
	best := seed
	bestScore := score(seed)
	seen := false
	for v := range seq {
		seen = true
		s := score(v)
		if s < bestScore {
			best, bestScore = v, s
		}
		if s <= good {
			break
		}
	}
	return best, seen
}

// tally passes seq through, counting the elements drawn from it.
func tally[T any](seq iter.Seq[T], n *int) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			*n++
			if !yield(v) {
				return
			}
		}
	}
}

// identity leaves the N ratio unchanged, for integer mode.
func identity(x float64) float64 {
	return x
}

// roundHalfUp rounds to the nearest integer, with halves going up.
func roundHalfUp(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}

// fracFor picks the FRAC value closest to remainder for the given step size.
func fracFor(remainder, step float64, mod int) int {
	frac := int(roundHalfUp(remainder / step))
	if frac >= mod {
		frac = mod - 1
	}
	if frac < 0 {
		frac = 0
	}
	return frac
}

// absError scores a candidate by the magnitude of its frequency error.
func absError(c Candidate) float64 {
	return math.Abs(c.Error)
}
