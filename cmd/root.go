package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/shlex"
	"github.com/sergev/max2870/config"
	"github.com/sergev/max2870/logging"
	"github.com/sergev/max2870/regmap"
	"github.com/sergev/max2870/report"
	"github.com/sergev/max2870/synth"
	"github.com/spf13/cobra"
)

// app holds the settings resolved before a subcommand runs.
type app struct {
	configFile string
	outFile    string
	conf       *config.Config
	log        logr.Logger
}

// NewRootCmd builds a fresh command tree, so flag values and Changed marks
// do not carry over from one Execute to the next.
func NewRootCmd() *cobra.Command {
	a := &app{log: logr.Discard()}

	rootCmd := &cobra.Command{
		Use:   "max2870",
		Short: "Divider calculator for the MAX2870 synthesizer",
		Long: `The max2870 tool computes the R, N, MOD and FRAC dividers and the RF output
divider which program a MAX2870 synthesizer to produce a target frequency
from a reference, within the datasheet limits.

Arguments may be read from a file with @FILE.`,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default $HOME/.max2870.toml)")
	flags.StringP("output", "o", "text", "output format: text, json or yaml")
	flags.String("log-level", "info", "log level: error, info, debug or trace")
	flags.Duration("timeout", 0, "give up on a search after this long (0 means no limit)")
	flags.StringVar(&a.outFile, "out", "", "write the report to FILE; a .json, .yaml or .txt name selects the format unless --output is given")

	rootCmd.AddCommand(
		newSolveCmd(a),
		newSweepCmd(a),
		newBatchCmd(a),
		newDecodeCmd(a),
	)
	return rootCmd
}

// setup loads the configuration, overlays environment and flags, and
// builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	conf, err := config.Initialize(a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.conf, err = config.Overlay(conf, cmd.Flags())
	if err != nil {
		return err
	}

	a.log, err = logging.New(a.conf.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cmd.SetContext(logr.NewContext(cmd.Context(), a.log))
	return nil
}

// searchContext returns the command context bounded by the configured timeout.
func (a *app) searchContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	timeout, _ := a.conf.TimeoutDuration()
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// format returns the report format: --output when given, else the
// extension of the --out file, else the configured format.
func (a *app) format(cmd *cobra.Command) (report.Format, error) {
	if a.outFile != "" && !cmd.Flags().Changed("output") {
		if f := report.DetectFormat(a.outFile); f != report.FormatUnknown {
			return f, nil
		}
	}
	return report.ParseFormat(a.conf.Output)
}

// write sends the report to the --out file, or to standard output.
func (a *app) write(cmd *cobra.Command, print func(w io.Writer) error) error {
	if a.outFile == "" {
		return print(cmd.OutOrStdout())
	}
	file, err := os.Create(a.outFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := print(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.outFile, err)
	}
	a.log.V(1).Info("report written", "file", a.outFile)
	return nil
}

// options returns the configured search options.
func (a *app) options() []synth.Option {
	// Validated with the config
	scale, _ := a.conf.Scale()
	return []synth.Option{
		synth.WithRefScale(scale),
		synth.WithTolerance(a.conf.Tolerance),
	}
}

// output returns the configured RF output settings.
func (a *app) output() regmap.Output {
	return regmap.Output{
		Power:          a.conf.Register.Power,
		AuxPower:       a.conf.Register.AuxPower,
		AuxFundamental: a.conf.Register.AuxMode == config.AuxFundamental,
	}
}

// addRegisterFlags adds the flags selecting the RF output settings.
func addRegisterFlags(cmd *cobra.Command) {
	cmd.Flags().Int("power", regmap.MaxPower, "RFOUTA power level 1..4, 0 disables the output")
	cmd.Flags().Int("aux-power", 0, "RFOUTB power level 1..4, 0 disables the output")
	cmd.Flags().String("aux-mode", config.AuxDivided, "RFOUTB source: divided or fundamental")
}

// addSearchFlags adds the flags tuning the divider search.
func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("tolerance", 0, "accept the first setting within this many Hz of the target (0 finds the smallest error)")
	cmd.Flags().String("ref-scale", "undivided", "reference stage ahead of R: undivided, double or half")
}

// ExpandArgs replaces every @FILE argument with the arguments read from
// FILE, split with shell quoting rules. Files are not expanded recursively.
func ExpandArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		name, ok := strings.CutPrefix(arg, "@")
		if !ok || name == "" {
			out = append(out, arg)
			continue
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read arguments from %s: %w", name, err)
		}
		words, err := shlex.Split(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse arguments in %s: %w", name, err)
		}
		out = append(out, words...)
	}
	return out, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	args, err := ExpandArgs(os.Args[1:])
	cobra.CheckErr(err)

	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	cobra.CheckErr(rootCmd.Execute())
}
