package synth

import "errors"

var (
	// ErrReferenceOutOfRange is returned when the reference input is outside the chip limits.
	ErrReferenceOutOfRange = errors.New("reference frequency is out of range")

	// ErrTargetOutOfRange is returned when the requested RF output is outside the chip limits.
	ErrTargetOutOfRange = errors.New("RF frequency is out of range")

	// ErrNoFeasibleDivider means no R and N pair satisfies the integer mode limits.
	ErrNoFeasibleDivider = errors.New("no R and Int values within integer mode limits")

	// ErrNoFeasibleFraction means no R, N and MOD combination satisfies the fractional mode limits.
	ErrNoFeasibleFraction = errors.New("no R and Int values within fractional mode limits")

	// ErrInvalidSweep is returned for a negative reference step count.
	ErrInvalidSweep = errors.New("invalid reference sweep")

	// ErrDoublerRange is returned when the doubler is requested for a reference above its limit.
	ErrDoublerRange = errors.New("reference frequency too high for the doubler")

	// ErrInvalidTolerance is returned for a negative or non-finite frequency tolerance.
	ErrInvalidTolerance = errors.New("invalid frequency tolerance")
)
