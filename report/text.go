package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

func init() {
	Register(FormatText, writeText)
}

func formatHz(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatWord(w uint32) string {
	return fmt.Sprintf("0x%08X", w)
}

// writeText prints the classic calculator report, with a blank line
// between reports.
func writeText(w io.Writer, reports []Report) error {
	var b strings.Builder
	for i, rep := range reports {
		if i > 0 {
			b.WriteString("\n")
		}
		if s := rep.Sweep; s != nil {
			if s.StepsClamped {
				fmt.Fprintf(&b, "Changing 1 Hz reference step count to %d Hz\n", s.Steps)
			}
			if s.StartClamped {
				fmt.Fprintf(&b, "Changing start reference frequency to %d Hz\n", s.Start)
			}
		}
		if rep.Failure != "" {
			b.WriteString(rep.Failure + "\n")
			continue
		}
		if rep.Exact {
			b.WriteString("Integer mode - exact frequency\n")
		} else {
			b.WriteString("Fractional mode\n")
			fmt.Fprintf(&b, "Frequency error (Hz): %s\n", formatHz(rep.Error))
			fmt.Fprintf(&b, "Actual frequency (Hz): %s\n", formatHz(rep.Actual))
		}
		fmt.Fprintf(&b, "R: %d\n", rep.R)
		fmt.Fprintf(&b, "Int: %d\n", rep.Int)
		fmt.Fprintf(&b, "Mod: %d\n", rep.Mod)
		fmt.Fprintf(&b, "Frac: %d\n", rep.Frac)
		fmt.Fprintf(&b, "RF divider ratio: %d\n", rep.Divider)
		fmt.Fprintf(&b, "RF divider (power of 2): %d\n", rep.DividerExponent)
		if rep.Sweep != nil {
			fmt.Fprintf(&b, "Reference frequency (Hz): %s\n", formatHz(rep.Reference))
		}
		if rep.RefScale != "" {
			fmt.Fprintf(&b, "Reference stage: %s\n", rep.RefScale)
		}
		if len(rep.Registers) > 0 {
			fmt.Fprintf(&b, "Registers: %s\n", strings.Join(rep.Registers, " "))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
