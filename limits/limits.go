package limits

// MAX2870 limits as per datasheet
const (
	MaxR   = 1023 // 10-bit reference divider
	MinMod = 2    // minimum MOD as per datasheet
	MaxMod = 4095 // 12-bit modulus

	MinIntN  = 16    // N range under integer mode
	MaxIntN  = 65535 // 16-bit N counter
	MinFracN = 19    // N range under fractional mode
	MaxFracN = 4091

	MaxPFDInt  = 105e6 // integer mode with band selection disabled; 45 MHz with band selection enabled
	MaxPFDFrac = 50e6  // fractional mode
	MinPFD     = 125e3

	MinRF = 23437500 // MaxRF / 2 / 128, lowest output of the 3-bit RF divider
	MaxRF = 6e9

	MinReference = 10e6
	MaxReference = 200e6

	MaxDoublerReference = 30e6 // highest reference the doubler accepts

	MaxDividerExponent = 7 // RF divider select is 3 bits wide
)

// Profile is the set of divider limits that apply to one PLL mode.
type Profile struct {
	MaxR   int
	MinN   int
	MaxN   int
	MinMod int
	MaxMod int
	MinPFD float64
	MaxPFD float64
}

// Table holds the operating bounds of a synthesizer.
// It is passed by value, so callers cannot change the bounds seen by others.
type Table struct {
	MaxR         int
	MinMod       int
	MaxMod       int
	MinIntN      int
	MaxIntN      int
	MinFracN     int
	MaxFracN     int
	MaxPFDInt    float64
	MaxPFDFrac   float64
	MinPFD       float64
	MinRF        float64
	MaxRF        float64
	MinReference float64
	MaxReference float64

	MaxDoublerReference float64
}

// MAX2870 is the limit table of the MAX2870 synthesizer.
var MAX2870 = Table{
	MaxR:         MaxR,
	MinMod:       MinMod,
	MaxMod:       MaxMod,
	MinIntN:      MinIntN,
	MaxIntN:      MaxIntN,
	MinFracN:     MinFracN,
	MaxFracN:     MaxFracN,
	MaxPFDInt:    MaxPFDInt,
	MaxPFDFrac:   MaxPFDFrac,
	MinPFD:       MinPFD,
	MinRF:        MinRF,
	MaxRF:        MaxRF,
	MinReference: MinReference,
	MaxReference: MaxReference,

	MaxDoublerReference: MaxDoublerReference,
}

// Integer returns the limits that apply in integer-N mode.
func (t Table) Integer() Profile {
	return Profile{
		MaxR:   t.MaxR,
		MinN:   t.MinIntN,
		MaxN:   t.MaxIntN,
		MinMod: t.MinMod,
		MaxMod: t.MaxMod,
		MinPFD: t.MinPFD,
		MaxPFD: t.MaxPFDInt,
	}
}

// Fractional returns the limits that apply in fractional-N mode.
func (t Table) Fractional() Profile {
	return Profile{
		MaxR:   t.MaxR,
		MinN:   t.MinFracN,
		MaxN:   t.MaxFracN,
		MinMod: t.MinMod,
		MaxMod: t.MaxMod,
		MinPFD: t.MinPFD,
		MaxPFD: t.MaxPFDFrac,
	}
}

// ReferenceInRange reports whether f is an acceptable reference input.
func (t Table) ReferenceInRange(f float64) bool {
	return f >= t.MinReference && f <= t.MaxReference
}

// DoublerInRange reports whether f may be fed through the reference doubler.
func (t Table) DoublerInRange(f float64) bool {
	return f <= t.MaxDoublerReference
}

// RFInRange reports whether f is an acceptable RF output.
func (t Table) RFInRange(f float64) bool {
	return f >= t.MinRF && f <= t.MaxRF
}

// ReferenceSpan is the widest reference sweep, in 1 Hz steps.
func (t Table) ReferenceSpan() int64 {
	return int64(t.MaxReference - t.MinReference)
}
