package report

import (
	"github.com/sergev/max2870/regmap"
	"github.com/sergev/max2870/synth"
)

// Failure is printed when no divider combination fits the limits.
const Failure = "R and/or Int values within datasheet limits are not possible with specified reference and RF frequencies"

// Report is the printable form of a solve result.
type Report struct {
	Mode            string       `json:"mode" yaml:"mode"`
	Exact           bool         `json:"exact" yaml:"exact"`
	Target          float64      `json:"target_hz" yaml:"target_hz"`
	Actual          float64      `json:"actual_hz,omitempty" yaml:"actual_hz,omitempty"`
	Error           float64      `json:"error_hz" yaml:"error_hz"`
	R               int          `json:"r,omitempty" yaml:"r,omitempty"`
	Int             int          `json:"int,omitempty" yaml:"int,omitempty"`
	Mod             int          `json:"mod,omitempty" yaml:"mod,omitempty"`
	Frac            int          `json:"frac" yaml:"frac"`
	Divider         int          `json:"rf_divider" yaml:"rf_divider"`
	DividerExponent int          `json:"rf_divider_power_of_2" yaml:"rf_divider_power_of_2"`
	Reference       float64      `json:"reference_hz,omitempty" yaml:"reference_hz,omitempty"`
	RefScale        string       `json:"ref_scale,omitempty" yaml:"ref_scale,omitempty"`
	PFD             float64      `json:"pfd_hz,omitempty" yaml:"pfd_hz,omitempty"`
	Registers       []string     `json:"registers,omitempty" yaml:"registers,omitempty"`
	Sweep           *SweepReport `json:"sweep,omitempty" yaml:"sweep,omitempty"`
	Failure         string       `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// SweepReport describes the reference window of a sweep.
type SweepReport struct {
	Start          int64 `json:"start_hz" yaml:"start_hz"`
	Steps          int64 `json:"steps" yaml:"steps"`
	Tried          int64 `json:"tried" yaml:"tried"`
	StartClamped   bool  `json:"start_clamped" yaml:"start_clamped"`
	StepsClamped   bool  `json:"steps_clamped" yaml:"steps_clamped"`
	RequestedStart int64 `json:"requested_start_hz" yaml:"requested_start_hz"`
	RequestedSteps int64 `json:"requested_steps" yaml:"requested_steps"`
}

// New builds a report from a result and, when known, its register words.
func New(res synth.Result, regs *regmap.Registers) Report {
	rep := Report{
		Target:          res.Target,
		Divider:         res.Plan.Divider,
		DividerExponent: res.Plan.Exponent,
	}
	if w := res.Window; w != nil {
		rep.Sweep = &SweepReport{
			Start:          w.Start,
			Steps:          w.Steps,
			Tried:          w.Tried,
			StartClamped:   w.StartClamped(),
			StepsClamped:   w.StepsClamped(),
			RequestedStart: w.RequestedStart,
			RequestedSteps: w.RequestedSteps,
		}
	}

	switch res.Kind {
	case synth.NoSolution:
		rep.Mode = "none"
		rep.Failure = Failure
		return rep
	case synth.Exact:
		rep.Exact = true
	}

	c := res.Candidate
	rep.Mode = c.Mode.String()
	rep.Actual = res.ActualFrequency()
	rep.Error = res.FrequencyError()
	rep.R = c.R
	rep.Int = c.N
	rep.Mod = c.Mod
	rep.Frac = c.Frac
	rep.Reference = c.Reference
	if c.Scale != synth.RefUndivided {
		rep.RefScale = c.Scale.String()
	}
	rep.PFD = c.PFD()
	if regs != nil {
		rep.Registers = make([]string, len(regs))
		for i, w := range regs {
			rep.Registers[i] = formatWord(w)
		}
	}
	return rep
}
