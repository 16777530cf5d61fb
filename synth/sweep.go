package synth

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/sergev/max2870/limits"
)

// progressInterval is how often, in reference steps, the sweep logs progress.
const progressInterval = 10

// ClampWindow fits a reference sweep into the chip limits. The step count is
// reduced to the full reference span first; then the start is lowered so the
// sweep ends at MaxReference at the latest, and finally raised to MinReference.
func ClampWindow(t limits.Table, start, steps int64) Window {
	w := Window{
		Start:          start,
		Steps:          steps,
		RequestedStart: start,
		RequestedSteps: steps,
	}
	if span := t.ReferenceSpan(); w.Steps > span {
		w.Steps = span
	}
	if maxRef := int64(t.MaxReference); w.Start > maxRef-w.Steps {
		w.Start = maxRef - w.Steps
	}
	if minRef := int64(t.MinReference); w.Start < minRef {
		w.Start = minRef
	}
	return w
}

// Sweep searches reference frequencies start, start+1, ... start+steps for
// the one giving the smallest error at rf. The sweep stops at the first
// reference with an exact integer or fractional solution. Among inexact
// fractional results the earliest reference with the lowest error wins.
// With a tolerance, the sweep also stops at the first setting within it.
func Sweep(ctx context.Context, t limits.Table, rf float64, start, steps int64, opts ...Option) (Result, error) {
	log := logr.FromContextOrDiscard(ctx)

	if steps < 0 {
		return Result{}, fmt.Errorf("%w: negative step count %d", ErrInvalidSweep, steps)
	}
	plan, err := Normalize(t, rf)
	if err != nil {
		return Result{}, err
	}

	w := ClampWindow(t, start, steps)
	if w.StepsClamped() {
		log.Info("changing 1 Hz reference step count", "steps", w.Steps)
	}
	if w.StartClamped() {
		log.Info("changing start reference frequency", "start", w.Start)
	}
	o, err := newSettings(t, float64(w.End()), opts)
	if err != nil {
		return Result{}, err
	}
	s := o.search(plan)

	intProfile, fracProfile := t.Integer(), t.Fractional()
	best := unsolved
	intFeasible, fracFeasible := false, false

	for i := int64(0); i <= w.Steps; i++ {
		reference := float64(w.Start + i)
		w.Tried = i + 1
		if i%progressInterval == 0 {
			log.V(1).Info("sweep progress", "step", i, "reference", reference, "bestError", best.Error)
		}

		c, ok, feasible := SolveInteger(intProfile, reference, plan.VCO, s)
		if ok {
			log.V(1).Info("integer mode match", "reference", reference, "r", c.R, "n", c.N)
			return Result{Kind: Exact, Candidate: c, Plan: plan, Target: rf, Window: &w}, nil
		}
		intFeasible = intFeasible || feasible

		var seen bool
		best, seen, err = SolveFractional(ctx, fracProfile, reference, plan.VCO, best, s)
		if err != nil {
			return Result{}, fmt.Errorf("reference sweep interrupted at %.0f Hz: %w", reference, err)
		}
		fracFeasible = fracFeasible || seen
		if fracFeasible && absError(best) <= s.Tolerance {
			break
		}
	}

	if !fracFeasible {
		return Result{Kind: NoSolution, Plan: plan, Target: rf, Window: &w, Reason: noSolutionReason(intFeasible)}, nil
	}
	return Result{Kind: Approximate, Candidate: best, Plan: plan, Target: rf, Window: &w}, nil
}
