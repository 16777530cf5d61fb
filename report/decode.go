package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/sergev/max2870/regmap"
	"gopkg.in/yaml.v3"
)

// Decoded is the printable form of a register set read back from the chip.
type Decoded struct {
	Mode            string   `json:"mode" yaml:"mode"`
	R               int      `json:"r" yaml:"r"`
	Int             int      `json:"int" yaml:"int"`
	Mod             int      `json:"mod" yaml:"mod"`
	Frac            int      `json:"frac" yaml:"frac"`
	Divider         int      `json:"rf_divider" yaml:"rf_divider"`
	DividerExponent int      `json:"rf_divider_power_of_2" yaml:"rf_divider_power_of_2"`
	RefDoubler      bool     `json:"ref_doubler" yaml:"ref_doubler"`
	RefHalf         bool     `json:"ref_div2" yaml:"ref_div2"`
	Power           int      `json:"power" yaml:"power"`
	AuxPower        int      `json:"aux_power" yaml:"aux_power"`
	AuxFundamental  bool     `json:"aux_fundamental" yaml:"aux_fundamental"`
	Reference       float64  `json:"reference_hz" yaml:"reference_hz"`
	PFD             string   `json:"pfd_hz" yaml:"pfd_hz"`
	Frequency       string   `json:"frequency_hz" yaml:"frequency_hz"`
	Registers       []string `json:"registers" yaml:"registers"`
}

// decimalDigits is the precision of non-integral exact frequencies.
const decimalDigits = 6

// formatRat prints an exact value in decimal, without trailing zeros.
func formatRat(r *big.Rat) string {
	if r.IsInt() {
		return r.RatString()
	}
	s := r.FloatString(decimalDigits)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// NewDecoded reads the settings out of regs for the given reference.
func NewDecoded(regs regmap.Registers, reference float64) (Decoded, error) {
	s := regs.Decode()
	pfd, err := s.PFD(reference)
	if err != nil {
		return Decoded{}, err
	}
	freq, err := s.Frequency(reference)
	if err != nil {
		return Decoded{}, err
	}

	d := Decoded{
		Mode:            "integer",
		R:               s.R,
		Int:             s.N,
		Mod:             s.Mod,
		Frac:            s.Frac,
		Divider:         s.Divider,
		DividerExponent: s.Exponent,
		RefDoubler:      s.RefDoubler,
		RefHalf:         s.RefHalf,
		Power:           s.Power,
		AuxPower:        s.AuxPower,
		AuxFundamental:  s.AuxFundamental,
		Reference:       reference,
		PFD:             formatRat(pfd),
		Frequency:       formatRat(freq),
	}
	if s.Fractional {
		d.Mode = "fractional"
	}
	for _, w := range regs {
		d.Registers = append(d.Registers, formatWord(w))
	}
	return d, nil
}

// WriteDecoded renders a decoded register set in the given format.
func WriteDecoded(w io.Writer, f Format, d Decoded) error {
	switch f {
	case FormatText:
		return writeDecodedText(w, d)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("no writer for format %v", f)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func writeDecodedText(w io.Writer, d Decoded) error {
	var b strings.Builder
	if d.Mode == "fractional" {
		b.WriteString("Fractional mode\n")
	} else {
		b.WriteString("Integer mode\n")
	}
	fmt.Fprintf(&b, "Frequency (Hz): %s\n", d.Frequency)
	fmt.Fprintf(&b, "PFD (Hz): %s\n", d.PFD)
	fmt.Fprintf(&b, "R: %d\n", d.R)
	fmt.Fprintf(&b, "Int: %d\n", d.Int)
	fmt.Fprintf(&b, "Mod: %d\n", d.Mod)
	fmt.Fprintf(&b, "Frac: %d\n", d.Frac)
	fmt.Fprintf(&b, "RF divider ratio: %d\n", d.Divider)
	fmt.Fprintf(&b, "RF divider (power of 2): %d\n", d.DividerExponent)
	fmt.Fprintf(&b, "Reference doubler: %s\n", onOff(d.RefDoubler))
	fmt.Fprintf(&b, "Reference divide-by-2: %s\n", onOff(d.RefHalf))
	fmt.Fprintf(&b, "RFOUTA power: %d\n", d.Power)
	fmt.Fprintf(&b, "RFOUTB power: %d\n", d.AuxPower)
	if d.AuxFundamental {
		b.WriteString("RFOUTB source: fundamental\n")
	} else {
		b.WriteString("RFOUTB source: divided\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
