package regmap

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/sergev/max2870/limits"
	"github.com/sergev/max2870/synth"
)

// Count is the number of MAX2870 registers.
const Count = 6

// Registers holds the MAX2870 register words, R0 first.
// The low three bits of each word carry the register address.
type Registers [Count]uint32

// PowerOn holds the register contents the device starts with.
var PowerOn = Registers{0x007D0000, 0x2000FFF9, 0x18006E42, 0x0000000B, 0x6180B23C, 0x00400005}

// field is a bit range inside one register.
type field struct {
	reg   int
	shift uint
	width uint
}

// Register fields, as per datasheet
var (
	fieldFrac    = field{0, 3, 12}  // fractional numerator
	fieldN       = field{0, 15, 16} // integer divider
	fieldIntN    = field{0, 31, 1}  // integer-N mode
	fieldMod     = field{1, 3, 12}  // fractional modulus
	fieldCPL     = field{1, 29, 2}  // charge pump linearity
	fieldCPOC    = field{1, 31, 1}  // charge pump output clamp
	fieldLDF     = field{2, 8, 1}   // lock detect function
	fieldR       = field{2, 14, 10} // reference divider
	fieldRDiv2   = field{2, 24, 1}  // reference divide by 2
	fieldDBR     = field{2, 25, 1}  // reference doubler
	fieldLDS     = field{2, 31, 1}  // lock detect speed
	fieldRFPower = field{4, 3, 2}   // RFOUT power
	fieldRFOutEn = field{4, 5, 1}   // RFOUT enable
	fieldAuxPow  = field{4, 6, 2}   // RFOUTB power
	fieldAuxEn   = field{4, 8, 1}   // RFOUTB enable
	fieldAuxSel  = field{4, 9, 1}   // RFOUTB source: divided or fundamental
	fieldDivA    = field{4, 20, 3}  // RF output divider select
	fieldF01     = field{5, 24, 1}  // integer-N when FRAC is zero
)

// Lock detect speed must be raised above this PFD frequency.
const fastLockDetectPFD = 32e6

// MaxPower is the highest output power setting; 0 turns the output off.
const MaxPower = 4

var (
	ErrUnsolved   = errors.New("no divider values to encode")
	ErrPowerLevel = errors.New("invalid power level")
	ErrFieldRange = errors.New("value does not fit register field")
)

func (f field) mask() uint32 {
	return (1<<f.width - 1) << f.shift
}

// get extracts a field value.
func (r Registers) get(f field) uint32 {
	return (r[f.reg] & f.mask()) >> f.shift
}

// set replaces a field value.
func (r *Registers) set(f field, v uint32) error {
	if v > 1<<f.width-1 {
		return fmt.Errorf("%w: %d needs more than %d bits", ErrFieldRange, v, f.width)
	}
	r[f.reg] = r[f.reg]&^f.mask() | v<<f.shift
	return nil
}

type assignment struct {
	f field
	v uint32
}

func bit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// Output selects the RF output levels.
type Output struct {
	Power          int  // RFOUT power level 1..4, or 0 to disable
	AuxPower       int  // RFOUTB power level 1..4, or 0 to disable
	AuxFundamental bool // RFOUTB carries the VCO fundamental instead of the divided output
}

// DefaultOutput enables the main output at the highest level.
var DefaultOutput = Output{Power: MaxPower}

// Validate checks the power levels.
func (o Output) Validate() error {
	if o.Power < 0 || o.Power > MaxPower {
		return fmt.Errorf("%w: RF power %d (valid 0..%d)", ErrPowerLevel, o.Power, MaxPower)
	}
	if o.AuxPower < 0 || o.AuxPower > MaxPower {
		return fmt.Errorf("%w: aux power %d (valid 0..%d)", ErrPowerLevel, o.AuxPower, MaxPower)
	}
	return nil
}

// Encode writes a solved result into the register words, starting from the
// power-on contents.
func Encode(res synth.Result, out Output) (Registers, error) {
	return EncodeFrom(PowerOn, res, out)
}

// EncodeFrom writes a solved result into a copy of base.
func EncodeFrom(base Registers, res synth.Result, out Output) (Registers, error) {
	if !res.Solved() {
		return Registers{}, ErrUnsolved
	}
	if err := out.Validate(); err != nil {
		return Registers{}, err
	}
	c := res.Candidate
	if c.Frac < 0 || c.Frac >= c.Mod {
		return Registers{}, fmt.Errorf("%w: FRAC %d with MOD %d", ErrFieldRange, c.Frac, c.Mod)
	}
	if res.Plan.Exponent > limits.MaxDividerExponent {
		return Registers{}, fmt.Errorf("%w: RF divider 2^%d", ErrFieldRange, res.Plan.Exponent)
	}

	r := base
	intN := c.Mode == synth.Integer
	steps := []assignment{
		{fieldFrac, uint32(c.Frac)},
		{fieldN, uint32(c.N)},
		{fieldIntN, bit(intN)},
		{fieldMod, uint32(c.Mod)},
		{fieldCPL, bit(!intN)},
		{fieldCPOC, bit(intN)},
		{fieldLDF, bit(intN)},
		{fieldR, uint32(c.R)},
		{fieldRDiv2, bit(c.Scale == synth.RefHalf)},
		{fieldDBR, bit(c.Scale == synth.RefDouble)},
		{fieldLDS, bit(c.PFD() > fastLockDetectPFD)},
		{fieldRFOutEn, bit(out.Power > 0)},
		{fieldAuxEn, bit(out.AuxPower > 0)},
		{fieldDivA, uint32(res.Plan.Exponent)},
		{fieldF01, bit(intN)},
	}
	if out.Power > 0 {
		steps = append(steps, assignment{fieldRFPower, uint32(out.Power - 1)})
	}
	// The aux source is left alone while the aux output is off
	if out.AuxPower > 0 {
		steps = append(steps,
			assignment{fieldAuxPow, uint32(out.AuxPower - 1)},
			assignment{fieldAuxSel, bit(out.AuxFundamental)},
		)
	}
	for _, s := range steps {
		if err := r.set(s.f, s.v); err != nil {
			return Registers{}, err
		}
	}
	return r, nil
}

// Settings are the divider and output values read back from the registers.
type Settings struct {
	R              int
	N              int
	Mod            int
	Frac           int
	Fractional     bool
	Divider        int
	Exponent       int
	RefHalf        bool
	RefDoubler     bool
	Power          int
	AuxPower       int
	AuxFundamental bool
}

// Decode reads the settings out of the register words.
func (r Registers) Decode() Settings {
	s := Settings{
		R:              int(r.get(fieldR)),
		N:              int(r.get(fieldN)),
		Mod:            int(r.get(fieldMod)),
		Frac:           int(r.get(fieldFrac)),
		Fractional:     r.get(fieldIntN) == 0,
		Exponent:       int(r.get(fieldDivA)),
		RefHalf:        r.get(fieldRDiv2) != 0,
		RefDoubler:     r.get(fieldDBR) != 0,
		AuxFundamental: r.get(fieldAuxSel) != 0,
	}
	s.Divider = 1 << s.Exponent
	if r.get(fieldRFOutEn) != 0 {
		s.Power = int(r.get(fieldRFPower)) + 1
	}
	if r.get(fieldAuxEn) != 0 {
		s.AuxPower = int(r.get(fieldAuxPow)) + 1
	}
	return s
}

// PFD returns the exact phase detector frequency for a reference input.
func (s Settings) PFD(reference float64) (*big.Rat, error) {
	if s.R == 0 {
		return nil, fmt.Errorf("%w: R is zero", ErrFieldRange)
	}
	ref := new(big.Rat)
	if ref.SetFloat64(reference) == nil {
		return nil, fmt.Errorf("invalid reference frequency %v", reference)
	}
	pfd := new(big.Rat).Quo(ref, big.NewRat(int64(s.R), 1))
	if s.RefDoubler {
		pfd.Mul(pfd, big.NewRat(2, 1))
	}
	if s.RefHalf {
		pfd.Quo(pfd, big.NewRat(2, 1))
	}
	return pfd, nil
}

// Frequency returns the exact RF output frequency for a reference input.
// FRAC is ignored in integer-N mode.
func (s Settings) Frequency(reference float64) (*big.Rat, error) {
	pfd, err := s.PFD(reference)
	if err != nil {
		return nil, err
	}
	ratio := big.NewRat(int64(s.N), 1)
	if s.Fractional {
		if s.Mod == 0 {
			return nil, fmt.Errorf("%w: MOD is zero", ErrFieldRange)
		}
		ratio.Add(ratio, big.NewRat(int64(s.Frac), int64(s.Mod)))
	}
	f := new(big.Rat).Mul(pfd, ratio)
	return f.Quo(f, big.NewRat(int64(s.Divider), 1)), nil
}

// String formats the registers as hex words, R0 first.
func (r Registers) String() string {
	words := make([]string, Count)
	for i, w := range r {
		words[i] = fmt.Sprintf("0x%08X", w)
	}
	return strings.Join(words, " ")
}

// Parse reads six register words, R0 first, in any base accepted by strconv.
func Parse(words []string) (Registers, error) {
	var r Registers
	if len(words) != Count {
		return r, fmt.Errorf("expected %d register words, got %d", Count, len(words))
	}
	for i, w := range words {
		v, err := strconv.ParseUint(w, 0, 32)
		if err != nil {
			return r, fmt.Errorf("register R%d: %w", i, err)
		}
		if addr := uint32(v) & 7; addr != uint32(i) {
			return r, fmt.Errorf("register R%d: word 0x%08X carries address %d", i, v, addr)
		}
		r[i] = uint32(v)
	}
	return r, nil
}
