package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/sergev/max2870/limits"
	"github.com/sergev/max2870/regmap"
	"github.com/sergev/max2870/report"
	"github.com/sergev/max2870/synth"
	"github.com/spf13/cobra"
)

// errUnsolved is returned after printing a report without a solution.
var errUnsolved = errors.New("no divider settings within datasheet limits")

func newSolveCmd(a *app) *cobra.Command {
	var rf float64

	cmd := &cobra.Command{
		Use:   "solve --rf HZ [--ref HZ]",
		Short: "Compute dividers for a fixed reference frequency",
		Long: `Compute the dividers for a target RF frequency from a fixed reference.
An exact integer-N setting is preferred; otherwise the fractional-N setting
with the smallest frequency error is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.searchContext(cmd)
			defer cancel()

			res, err := synth.Solve(ctx, limits.MAX2870, a.conf.Reference, rf, a.options()...)
			if err != nil {
				return err
			}
			return a.render(cmd, res)
		},
	}
	cmd.Flags().Float64Var(&rf, "rf", 0, "target RF frequency, Hz")
	cmd.Flags().Float64("ref", 0, "reference frequency, Hz (default from config)")
	cmd.MarkFlagRequired("rf")
	addRegisterFlags(cmd)
	addSearchFlags(cmd)
	return cmd
}

// report converts a result, with its register words when solved.
func (a *app) report(res synth.Result) (report.Report, error) {
	if !res.Solved() {
		return report.New(res, nil), nil
	}
	regs, err := regmap.Encode(res, a.output())
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to encode registers: %w", err)
	}
	return report.New(res, &regs), nil
}

// render prints the results in the configured format. Results without a
// solution are printed too, and then reported as an error.
func (a *app) render(cmd *cobra.Command, results ...synth.Result) error {
	f, err := a.format(cmd)
	if err != nil {
		return err
	}
	var (
		reports  []report.Report
		unsolved []error
	)
	for _, res := range results {
		rep, err := a.report(res)
		if err != nil {
			return err
		}
		reports = append(reports, rep)
		if !res.Solved() {
			unsolved = append(unsolved, res.Reason)
		}
	}
	err = a.write(cmd, func(w io.Writer) error {
		return report.Write(w, f, reports...)
	})
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	switch len(unsolved) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%w: %w", errUnsolved, unsolved[0])
	default:
		return fmt.Errorf("%w: %d of %d requests", errUnsolved, len(unsolved), len(results))
	}
}
