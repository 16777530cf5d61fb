package regmap

import (
	"context"
	"errors"
	"math/big"
	"strconv"
	"testing"

	"github.com/sergev/max2870/limits"
	"github.com/sergev/max2870/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeInteger(t *testing.T) {
	res, err := synth.Solve(context.Background(), limits.MAX2870, 100e6, 2.4e9)
	require.NoError(t, err)

	regs, err := Encode(res, DefaultOutput)
	require.NoError(t, err)

	expected := Registers{0x80180000, 0x80008011, 0x98006F42, 0x0000000B, 0x6190B23C, 0x01400005}
	for i := range expected {
		if regs[i] != expected[i] {
			t.Errorf("R%d = 0x%08X, expected 0x%08X", i, regs[i], expected[i])
		}
	}
}

func fractionalResult() synth.Result {
	return synth.Result{
		Kind: synth.Approximate,
		Candidate: synth.Candidate{
			R: 1, N: 400, Mod: 4, Frac: 3,
			Mode:      synth.Fractional,
			Reference: 10e6,
		},
		Plan:   synth.VCOPlan{VCO: 4007.5e6, Divider: 2, Exponent: 1},
		Target: 2003.75e6,
	}
}

func TestEncodeFractional(t *testing.T) {
	regs, err := Encode(fractionalResult(), Output{Power: 2, AuxPower: 1, AuxFundamental: true})
	require.NoError(t, err)

	expected := Registers{0x00C80018, 0x20008021, 0x18006E42, 0x0000000B, 0x6190B32C, 0x00400005}
	assert.Equal(t, expected, regs)
	assert.Equal(t, "0x00C80018 0x20008021 0x18006E42 0x0000000B 0x6190B32C 0x00400005", regs.String())
}

func TestDecodeRoundTrip(t *testing.T) {
	out := Output{Power: 3, AuxPower: 2}
	regs, err := Encode(fractionalResult(), out)
	require.NoError(t, err)

	s := regs.Decode()
	assert.Equal(t, Settings{
		R: 1, N: 400, Mod: 4, Frac: 3,
		Fractional: true,
		Divider:    2,
		Exponent:   1,
		Power:      3,
		AuxPower:   2,
	}, s)

	f, err := s.Frequency(10e6)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Cmp(big.NewRat(2003750000, 1)), "frequency = %s", f.FloatString(3))
}

func TestDecodePowerOn(t *testing.T) {
	s := PowerOn.Decode()
	assert.Equal(t, 1, s.R)
	assert.Equal(t, 250, s.N)
	assert.Equal(t, 4095, s.Mod)
	assert.Equal(t, 4, s.Power)
	assert.True(t, s.Fractional)
}

func TestFrequencyIntegerIgnoresFrac(t *testing.T) {
	s := Settings{R: 2, N: 96, Mod: 2, Frac: 1, Divider: 4}
	f, err := s.Frequency(100e6)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Cmp(big.NewRat(1200000000, 1)))

	s.RefDoubler = true
	f, err = s.Frequency(100e6)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Cmp(big.NewRat(2400000000, 1)))
}

func TestFrequencyZeroR(t *testing.T) {
	_, err := Settings{N: 100, Mod: 2, Divider: 1}.Frequency(10e6)
	assert.ErrorIs(t, err, ErrFieldRange)
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(synth.Result{Kind: synth.NoSolution}, DefaultOutput)
	assert.ErrorIs(t, err, ErrUnsolved)

	_, err = Encode(fractionalResult(), Output{Power: 5})
	assert.ErrorIs(t, err, ErrPowerLevel)

	_, err = Encode(fractionalResult(), Output{AuxPower: -1})
	assert.ErrorIs(t, err, ErrPowerLevel)

	res := fractionalResult()
	res.Candidate.Frac = 4
	_, err = Encode(res, DefaultOutput)
	assert.ErrorIs(t, err, ErrFieldRange)

	res = fractionalResult()
	res.Candidate.N = 70000
	_, err = Encode(res, DefaultOutput)
	assert.ErrorIs(t, err, ErrFieldRange)
}

func TestParse(t *testing.T) {
	regs, err := Parse([]string{"0x80180000", "0x80008011", "0x98006F42", "0xB", "0x6190B03C", "20971525"})
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01400005), regs[5])

	_, err = Parse([]string{"1", "2"})
	assert.Error(t, err)

	_, err = Parse([]string{"0x80180000", "0x80008011", "0x98006F42", "0xB", "0x6190B03C", "0x01400004"})
	assert.Error(t, err, "address bits must match register index")

	_, err = Parse([]string{"zz", "0x80008011", "0x98006F42", "0xB", "0x6190B03C", "0x01400005"})
	var numErr *strconv.NumError
	assert.True(t, errors.As(err, &numErr))
}

func TestEncodeAuxSourceKeptWhenOff(t *testing.T) {
	res, err := synth.Solve(context.Background(), limits.MAX2870, 100e6, 2.4e9)
	require.NoError(t, err)

	// Power-on R4 selects the fundamental on RFOUTB; a disabled aux output
	// leaves that bit as it was.
	regs, err := Encode(res, Output{Power: 4, AuxFundamental: false})
	require.NoError(t, err)
	assert.True(t, regs.Decode().AuxFundamental)
	assert.Equal(t, 0, regs.Decode().AuxPower)

	base := PowerOn
	base[4] &^= 1 << 9
	regs, err = EncodeFrom(base, res, Output{Power: 4, AuxFundamental: true})
	require.NoError(t, err)
	assert.False(t, regs.Decode().AuxFundamental)

	regs, err = Encode(res, Output{Power: 4, AuxPower: 1, AuxFundamental: false})
	require.NoError(t, err)
	assert.False(t, regs.Decode().AuxFundamental)
	assert.Equal(t, 1, regs.Decode().AuxPower)
}

func TestEncodeRefScale(t *testing.T) {
	tests := []struct {
		name      string
		reference float64
		scale     synth.RefScale
		doubler   bool
		half      bool
	}{
		{"doubler", 25e6, synth.RefDouble, true, false},
		{"divide by 2", 200e6, synth.RefHalf, false, true},
		{"undivided", 100e6, synth.RefUndivided, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := synth.Solve(context.Background(), limits.MAX2870, tt.reference, 2.4e9, synth.WithRefScale(tt.scale))
			require.NoError(t, err)
			require.Equal(t, synth.Exact, res.Kind)

			regs, err := Encode(res, DefaultOutput)
			require.NoError(t, err)
			s := regs.Decode()
			assert.Equal(t, tt.doubler, s.RefDoubler)
			assert.Equal(t, tt.half, s.RefHalf)

			pfd, err := s.PFD(tt.reference)
			require.NoError(t, err)
			assert.Equal(t, 0, pfd.Cmp(new(big.Rat).SetFloat64(res.Candidate.PFD())), "pfd = %s", pfd.FloatString(3))

			f, err := s.Frequency(tt.reference)
			require.NoError(t, err)
			assert.Equal(t, 0, f.Cmp(big.NewRat(2400000000, 1)), "frequency = %s", f.FloatString(3))
		})
	}
}
