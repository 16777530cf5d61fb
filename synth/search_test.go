package synth

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/sergev/max2870/limits"
	"github.com/stretchr/testify/assert"
)

func collectR(seq func(func(divider) bool)) []int {
	var rs []int
	for d := range seq {
		rs = append(rs, d.R)
	}
	return rs
}

func TestCandidateRSkipsHighPFD(t *testing.T) {
	// 200 MHz reference: R=1 gives 200 MHz and R=2 gives 100 MHz, both above
	// the fractional limit of 50 MHz, so the sequence starts at R=4.
	p := limits.MAX2870.Fractional()
	rs := collectR(candidateR(p, 200e6, 4e9, math.Floor))
	assert.Equal(t, 4, rs[0])
	assert.True(t, slices.IsSorted(rs))
}

func TestCandidateRStopsAtMinPFD(t *testing.T) {
	// 10 MHz reference reaches the 125 kHz PFD floor at R=80.
	p := limits.MAX2870.Integer()
	rs := collectR(candidateR(p, 10e6, 4e9, identity))
	assert.Equal(t, 1, rs[0])
	assert.Equal(t, 80, rs[len(rs)-1])
	assert.Len(t, rs, 80)
}

func TestCandidateRStopsAtMaxN(t *testing.T) {
	// 4 GHz from a 50 MHz reference: N = 80*R, so R=52 exceeds N=4091.
	p := limits.MAX2870.Fractional()
	rs := collectR(candidateR(p, 50e6, 4e9, math.Floor))
	assert.Equal(t, 51, rs[len(rs)-1])
}

func TestCandidateRSkipsLowN(t *testing.T) {
	p := limits.Profile{MaxR: 10, MinN: 25, MaxN: 1000, MinMod: 2, MaxMod: 8, MinPFD: 1, MaxPFD: 1e9}
	// N = 10*R: R=1 and R=2 are below 25 and skipped, not terminal.
	rs := collectR(candidateR(p, 100e6, 1e9, identity))
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9, 10}, rs)
}

func TestCandidateMod(t *testing.T) {
	p := limits.MAX2870.Fractional()
	var mods []int
	for m := range candidateMod(p) {
		mods = append(mods, m)
	}
	assert.Equal(t, limits.MinMod, mods[0])
	assert.Equal(t, limits.MaxMod, mods[len(mods)-1])
	assert.Len(t, mods, limits.MaxMod-limits.MinMod+1)
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.49, 0},
		{0.5, 1},
		{1.5, 2},
		{2.5, 3}, // half to even would give 2
		{2.51, 3},
		{3.999, 4},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.want {
			t.Errorf("roundHalfUp(%v) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestFracFor(t *testing.T) {
	assert.Equal(t, 3, fracFor(2.5, 1, 10))
	assert.Equal(t, 9, fracFor(9.7, 1, 10), "rounding up to MOD is clamped to MOD-1")
	assert.Equal(t, 0, fracFor(-1e-9, 1, 10), "tiny negative remainder")
}

func TestMinByKeepsFirstOfEqual(t *testing.T) {
	seq := slices.Values([]Candidate{
		{R: 1, Error: 5},
		{R: 2, Error: -3},
		{R: 3, Error: 3},
		{R: 4, Error: 4},
	})
	best, seen := minBy(seq, unsolved, absError, 0)
	assert.True(t, seen)
	assert.Equal(t, 2, best.R)
}

func TestMinByStopsAtZero(t *testing.T) {
	var drawn int
	seq := tally(slices.Values([]Candidate{{R: 1, Error: 2}, {R: 2, Error: 0}, {R: 3, Error: 0}}), &drawn)
	best, _ := minBy(seq, unsolved, absError, 0)
	assert.Equal(t, 2, best.R)
	assert.Equal(t, 2, drawn)
}

func TestMinByStopsWithinTolerance(t *testing.T) {
	var drawn int
	seq := tally(slices.Values([]Candidate{{R: 1, Error: 9}, {R: 2, Error: -4}, {R: 3, Error: 1}}), &drawn)
	best, _ := minBy(seq, unsolved, absError, 5)
	assert.Equal(t, 2, best.R)
	assert.Equal(t, 2, drawn)
}

func TestMinBySeed(t *testing.T) {
	seed := Candidate{R: 7, Error: 1}
	best, seen := minBy(slices.Values([]Candidate{{R: 1, Error: 1}, {R: 2, Error: -2}}), seed, absError, 0)
	assert.True(t, seen)
	assert.Equal(t, 7, best.R, "equal error does not replace the seed")

	best, seen = minBy(slices.Values([]Candidate(nil)), seed, absError, 0)
	assert.False(t, seen)
	assert.Equal(t, seed, best)
}

func TestFindFirst(t *testing.T) {
	v, ok := findFirst(slices.Values([]int{1, 3, 4, 6}), func(x int) bool { return x%2 == 0 })
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	_, ok = findFirst(slices.Values([]int{1, 3}), func(x int) bool { return x%2 == 0 })
	assert.False(t, ok)
}

func TestFractionalCandidatesStopOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := 0
	for range fractionalCandidates(ctx, limits.MAX2870.Fractional(), 10e6, 3660000004, RefUndivided) {
		n++
	}
	assert.Zero(t, n)
}
