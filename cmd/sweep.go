package cmd

import (
	"github.com/sergev/max2870/limits"
	"github.com/sergev/max2870/synth"
	"github.com/spf13/cobra"
)

func newSweepCmd(a *app) *cobra.Command {
	var rf float64

	cmd := &cobra.Command{
		Use:   "sweep --rf HZ [--refstart HZ] [--steps N]",
		Short: "Search a tunable reference for the best setting",
		Long: `Sweep the reference frequency upward from --refstart in 1 Hz steps and
report the reference and dividers giving the smallest frequency error.
The sweep ends early at the first exact setting. A window reaching past
the reference limits is moved inside them, and the change is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.searchContext(cmd)
			defer cancel()

			res, err := synth.Sweep(ctx, limits.MAX2870, rf, a.conf.Sweep.Start, a.conf.Sweep.Steps, a.options()...)
			if err != nil {
				return err
			}
			return a.render(cmd, res)
		},
	}
	cmd.Flags().Float64Var(&rf, "rf", 0, "target RF frequency, Hz")
	cmd.Flags().Int64("refstart", 0, "first reference frequency, Hz (default from config)")
	cmd.Flags().Int64("steps", 0, "number of 1 Hz reference steps (default from config)")
	cmd.MarkFlagRequired("rf")
	addRegisterFlags(cmd)
	addSearchFlags(cmd)
	return cmd
}
