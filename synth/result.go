package synth

import "fmt"

// Mode is the feedback divider mode of the PLL.
type Mode int

const (
	Integer Mode = iota
	Fractional
)

// String returns the name of the mode
func (m Mode) String() string {
	switch m {
	case Integer:
		return "integer"
	case Fractional:
		return "fractional"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Kind tells which of the result variants a Result holds.
type Kind int

const (
	NoSolution  Kind = iota // no divider combination satisfies the limits
	Exact                   // integer mode, zero error
	Approximate             // fractional mode, best residual error
)

// String returns the name of the result kind
func (k Kind) String() string {
	switch k {
	case NoSolution:
		return "no solution"
	case Exact:
		return "exact"
	case Approximate:
		return "approximate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Candidate is one set of divider values.
type Candidate struct {
	R         int      // reference divider
	N         int      // integer part of the feedback divider
	Mod       int      // fractional modulus
	Frac      int      // fractional numerator, 0 <= Frac < Mod
	Mode      Mode     // divider mode
	Error     float64  // achieved minus requested VCO frequency, in Hz
	Reference float64  // reference frequency the dividers apply to
	Scale     RefScale // doubler or divide-by-2 ahead of the R divider
}

// PFD returns the phase detector frequency.
func (c Candidate) PFD() float64 {
	return c.Reference * c.Scale.Factor() / float64(c.R)
}

// VCO returns the VCO frequency produced by the dividers.
func (c Candidate) VCO() float64 {
	pfd := c.PFD()
	return pfd*float64(c.N) + pfd/float64(c.Mod)*float64(c.Frac)
}

// Window is the reference range actually swept, after clamping to the chip limits.
type Window struct {
	Start          int64 // first reference frequency, Hz
	Steps          int64 // number of 1 Hz steps after Start
	RequestedStart int64
	RequestedSteps int64
	Tried          int64 // reference frequencies evaluated before the sweep stopped
}

// StepsClamped reports whether the step count was reduced.
func (w Window) StepsClamped() bool {
	return w.Steps != w.RequestedSteps
}

// StartClamped reports whether the start frequency was moved.
func (w Window) StartClamped() bool {
	return w.Start != w.RequestedStart
}

// End returns the last reference frequency of the window.
func (w Window) End() int64 {
	return w.Start + w.Steps
}

// Result is the outcome of one solve request.
type Result struct {
	Kind      Kind
	Candidate Candidate // valid unless Kind is NoSolution
	Plan      VCOPlan
	Target    float64 // requested RF frequency
	Window    *Window // set by Sweep only
	Reason    error   // why there is no solution
}

// Solved reports whether the result carries divider values.
func (r Result) Solved() bool {
	return r.Kind != NoSolution
}

// FrequencyError returns the RF output error, achieved minus requested.
func (r Result) FrequencyError() float64 {
	if !r.Solved() {
		return 0
	}
	return r.Plan.RF(r.Candidate.Error)
}

// ActualFrequency returns the RF frequency the dividers produce.
func (r Result) ActualFrequency() float64 {
	return r.Target + r.FrequencyError()
}
