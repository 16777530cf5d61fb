package report

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/sergev/max2870/regmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, words ...string) regmap.Registers {
	t.Helper()
	regs, err := regmap.Parse(words)
	require.NoError(t, err)
	return regs
}

func TestDecodedInteger(t *testing.T) {
	regs := mustParse(t, "0x80180000", "0x80008011", "0x98006F42", "0x0000000B", "0x6190B03C", "0x01400005")

	d, err := NewDecoded(regs, 100e6)
	require.NoError(t, err)

	want := `Integer mode
Frequency (Hz): 2400000000
PFD (Hz): 100000000
R: 1
Int: 48
Mod: 2
Frac: 0
RF divider ratio: 2
RF divider (power of 2): 1
Reference doubler: off
Reference divide-by-2: off
RFOUTA power: 4
RFOUTB power: 0
RFOUTB source: divided
`
	var buf bytes.Buffer
	require.NoError(t, WriteDecoded(&buf, FormatText, d))
	assert.Equal(t, want, buf.String())
}

func TestDecodedFractional(t *testing.T) {
	regs := mustParse(t, "0x00C80018", "0x20008021", "0x18006E42", "0x0000000B", "0x6190B32C", "0x00400005")

	d, err := NewDecoded(regs, 10e6)
	require.NoError(t, err)
	assert.Equal(t, "fractional", d.Mode)
	assert.Equal(t, 400, d.Int)
	assert.Equal(t, 4, d.Mod)
	assert.Equal(t, 3, d.Frac)
	assert.Equal(t, "2003750000", d.Frequency)
	assert.Equal(t, 2, d.Power)
	assert.Equal(t, 1, d.AuxPower)
	assert.True(t, d.AuxFundamental)

	var buf bytes.Buffer
	require.NoError(t, WriteDecoded(&buf, FormatJSON, d))
	var got Decoded
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, d, got)
}

func TestDecodedZeroR(t *testing.T) {
	regs := regmap.PowerOn
	regs[2] &^= 0x3FF << 14

	_, err := NewDecoded(regs, 10e6)
	assert.ErrorIs(t, err, regmap.ErrFieldRange)
}

func TestFormatRat(t *testing.T) {
	tests := []struct {
		r    *big.Rat
		want string
	}{
		{big.NewRat(2400000000, 1), "2400000000"},
		{big.NewRat(5, 2), "2.5"},
		{big.NewRat(10, 3), "3.333333"},
		{big.NewRat(-1, 4), "-0.25"},
	}
	for _, tt := range tests {
		if got := formatRat(tt.r); got != tt.want {
			t.Errorf("formatRat(%v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}
