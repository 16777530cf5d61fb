package synth

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/sergev/max2870/limits"
)

// Solve finds the divider values producing rf from a fixed reference.
// Integer mode is tried first; fractional mode is used only when no exact
// integer ratio exists.
//
// Out of range frequencies and invalid options are rejected with an error
// before any search. A request the chip cannot satisfy is not an error: the
// result then has Kind NoSolution and Reason tells why.
func Solve(ctx context.Context, t limits.Table, reference, rf float64, opts ...Option) (Result, error) {
	log := logr.FromContextOrDiscard(ctx)

	if !t.ReferenceInRange(reference) {
		return Result{}, fmt.Errorf("%w: %.0f Hz (valid %.0f..%.0f Hz)", ErrReferenceOutOfRange, reference, t.MinReference, t.MaxReference)
	}
	o, err := newSettings(t, reference, opts)
	if err != nil {
		return Result{}, err
	}
	plan, err := Normalize(t, rf)
	if err != nil {
		return Result{}, err
	}
	s := o.search(plan)
	log.V(1).Info("normalized", "rf", rf, "vco", plan.VCO, "divider", plan.Divider, "refScale", s.Scale)

	c, ok, intFeasible := SolveInteger(t.Integer(), reference, plan.VCO, s)
	if ok {
		log.V(1).Info("integer mode match", "r", c.R, "n", c.N)
		return Result{Kind: Exact, Candidate: c, Plan: plan, Target: rf}, nil
	}
	log.V(1).Info("no exact integer ratio, trying fractional mode", "feasible", intFeasible)

	best, fracFeasible, err := SolveFractional(ctx, t.Fractional(), reference, plan.VCO, unsolved, s)
	if err != nil {
		return Result{}, fmt.Errorf("fractional search interrupted: %w", err)
	}
	if !fracFeasible {
		return Result{Kind: NoSolution, Plan: plan, Target: rf, Reason: noSolutionReason(intFeasible)}, nil
	}
	log.V(1).Info("fractional mode match", "r", best.R, "n", best.N, "mod", best.Mod, "frac", best.Frac, "error", best.Error)
	return Result{Kind: Approximate, Candidate: best, Plan: plan, Target: rf}, nil
}

// noSolutionReason describes a request for which both modes failed.
func noSolutionReason(intFeasible bool) error {
	if intFeasible {
		return ErrNoFeasibleFraction
	}
	return fmt.Errorf("%w; %w", ErrNoFeasibleDivider, ErrNoFeasibleFraction)
}
