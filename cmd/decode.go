package cmd

import (
	"io"

	"github.com/sergev/max2870/regmap"
	"github.com/sergev/max2870/report"
	"github.com/spf13/cobra"
)

func newDecodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [--ref HZ] R0 R1 R2 R3 R4 R5",
		Short: "Decode register words into divider settings",
		Long: `Decode the six MAX2870 register words, R0 first, and compute the exact
output frequency they program for the reference.`,
		Args: cobra.ExactArgs(regmap.Count),
		RunE: func(cmd *cobra.Command, args []string) error {
			regs, err := regmap.Parse(args)
			if err != nil {
				return err
			}
			d, err := report.NewDecoded(regs, a.conf.Reference)
			if err != nil {
				return err
			}
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			return a.write(cmd, func(w io.Writer) error {
				return report.WriteDecoded(w, f, d)
			})
		},
	}
	cmd.Flags().Float64("ref", 0, "reference frequency, Hz (default from config)")
	return cmd
}
