package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sergev/max2870/limits"
	"github.com/sergev/max2870/synth"
	"github.com/spf13/cobra"
)

// request is one line of a batch file.
type request struct {
	Reference float64
	Target    float64
}

// parseBatch reads "reference target" pairs, one per line. Text after '#'
// is ignored, as are blank lines.
func parseBatch(r io.Reader) ([]request, error) {
	var reqs []request
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text, _, _ := strings.Cut(scanner.Text(), "#")
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected reference and target frequency, got %d fields", line, len(fields))
		}
		var req request
		var err error
		if req.Reference, err = strconv.ParseFloat(fields[0], 64); err != nil {
			return nil, fmt.Errorf("line %d: invalid reference frequency: %w", line, err)
		}
		if req.Target, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return nil, fmt.Errorf("line %d: invalid target frequency: %w", line, err)
		}
		reqs = append(reqs, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}

func newBatchCmd(a *app) *cobra.Command {
	var cacheSize int

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Solve every request listed in a file",
		Long: `Solve a list of fixed-reference requests. Each line of FILE holds a
reference and a target frequency in Hz; '#' starts a comment. Use - to
read from standard input. Repeated requests are solved once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open batch file: %w", err)
				}
				defer file.Close()
				in = file
			}
			reqs, err := parseBatch(in)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			cache, err := lru.New[request, synth.Result](cacheSize)
			if err != nil {
				return err
			}
			ctx, cancel := a.searchContext(cmd)
			defer cancel()

			opts := a.options()
			results := make([]synth.Result, 0, len(reqs))
			for i, req := range reqs {
				res, ok := cache.Get(req)
				if ok {
					a.log.V(1).Info("reusing solution", "reference", req.Reference, "target", req.Target)
				} else {
					res, err = synth.Solve(ctx, limits.MAX2870, req.Reference, req.Target, opts...)
					if err != nil {
						return fmt.Errorf("request %d (%.0f Hz from %.0f Hz): %w", i+1, req.Target, req.Reference, err)
					}
					cache.Add(req, res)
				}
				results = append(results, res)
			}
			return a.render(cmd, results...)
		},
	}
	cmd.Flags().IntVar(&cacheSize, "cache-size", 256, "number of distinct requests remembered")
	addRegisterFlags(cmd)
	addSearchFlags(cmd)
	return cmd
}
