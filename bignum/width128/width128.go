// Package width128 instantiates the generic bignum/kernel, bignum/transcend
// and bignum/bnio operations at 128 bits (2 uint64 limbs). It is the only
// width that builds the DivFactor reciprocal table described in spec.md
// §4.1.2 ("Division table (128-bit only)"). bignum/transcend does not
// read the table at any width: its series loops divide with
// kernel.Div32RoundSigned at this width as at the other four.
package width128

import (
	"math"

	"github.com/bnshell/bnshell/bignum/bnio"
	"github.com/bnshell/bnshell/bignum/kernel"
	"github.com/bnshell/bnshell/bignum/transcend"
)

const (
	// Units is the number of uint64 limbs in this width.
	Units = 2
	// Bits is the total bit width.
	Bits = Units * 64
	// Shift is the canonical fixed-point shift used for every constant in
	// Const below and the default operating shift for this width's
	// transcendental wrappers. spec.md documents per-constant native
	// shifts (W-2 for Pi, W-1 for sub-1 constants, W for larger); this
	// port stores every constant at one shift (W-2), loaded at init time
	// from a float64 with kernel.SetDouble, so each constant carries
	// float64 precision (53 significant bits), not the full width. At this
	// shift the signed range is [-2, 2). Callers needing a different shift
	// convert with kernel.ShrRound themselves.
	Shift = Bits - 2
)

// Int is a 128-bit two's-complement fixed-point value.
type Int [Units]uint64

func (x *Int) slice() []uint64 { return x[:] }

// InfPos is the maximum representable signed value (sign bit clear, every
// other bit set).
var InfPos = Int{^uint64(0), ^uint64(0) >> 1}

// InfNeg is the minimum representable signed value (sign bit set, every
// other bit clear).
var InfNeg = Int{0, 1 << 63}

// Const holds the width's mathematical constants at Shift fractional bits.
var Const transcend.Constants

func loadDouble(v float64) []uint64 {
	buf := make([]uint64, Units)
	kernel.SetDouble(buf, v, Shift)
	return buf
}

func init() {
	Const.Shift = Shift
	Const.Pi = loadDouble(math.Pi)
	Const.HalfPi = loadDouble(math.Pi / 2)
	Const.Log2 = loadDouble(math.Ln2)
	Const.LogStep = loadDouble(math.Log(1.0625))
	Const.StepUp = loadDouble(1.0625)
	Const.StepDown = loadDouble(1 / 1.0625)
	Const.E = loadDouble(math.E)
	Const.InvE = loadDouble(1 / math.E)
	Const.EEighth = loadDouble(math.Pow(math.E, 0.125))
	Const.InvEEight = loadDouble(math.Pow(math.E, -0.125))
	Const.DivFactor = buildDivFactor()
}

// buildDivFactor computes DivFactor[k] = round(2^(Bits-1) / k) for
// k in [2,256), entries 0 and 1 left as unused zero sentinels, matching
// spec.md §4.1.2. Computed here rather than hand-transcribed from the C
// source's literal table, since it is fully determined by the formula.
func buildDivFactor() [][]uint64 {
	const n = 256
	table := make([][]uint64, n)
	one := make([]uint64, Units)
	kernel.SetBit(one, Bits-1)
	for k := 2; k < n; k++ {
		entry := make([]uint64, Units)
		kernel.Div32Round(entry, one, uint32(k))
		table[k] = entry
	}
	return table
}

// --- kernel wrappers -------------------------------------------------

func Zero(dst *Int)               { kernel.Zero(dst.slice()) }
func Set(dst, src *Int)           { kernel.Set(dst.slice(), src.slice()) }
func Set32(dst *Int, v uint32)    { kernel.Set32(dst.slice(), v) }
func Set32Signed(dst *Int, v int32) { kernel.Set32Signed(dst.slice(), v) }
func Add(dst, a, b *Int)          { kernel.Add(dst.slice(), a.slice(), b.slice()) }
func Sub(dst, a, b *Int)          { kernel.Sub(dst.slice(), a.slice(), b.slice()) }
func Neg(dst *Int)                { kernel.Neg(dst.slice()) }

func Mul(dst, a, b *Int) { kernel.Mul(dst.slice(), a.slice(), b.slice()) }
func MulShr(dst, a, b *Int, shift int) {
	kernel.MulShr(dst.slice(), a.slice(), b.slice(), shift)
}
func MulSignedShr(dst, a, b *Int, shift int) {
	kernel.MulSignedShr(dst.slice(), a.slice(), b.slice(), shift)
}

func Div(dst, a, b *Int) { kernel.Div(dst.slice(), a.slice(), b.slice(), nil) }
func DivSigned(dst, a, b *Int) {
	kernel.DivSigned(dst.slice(), a.slice(), b.slice(), nil)
}
func DivRoundShl(dst, a, b *Int, shift int) {
	kernel.DivRoundShl(dst.slice(), a.slice(), b.slice(), shift)
}

func CmpEq(a, b *Int) bool        { return kernel.CmpEq(a.slice(), b.slice()) }
func CmpSignedLt(a, b *Int) bool  { return kernel.CmpSignedLt(a.slice(), b.slice()) }
func CmpSignedGt(a, b *Int) bool  { return kernel.CmpSignedGt(a.slice(), b.slice()) }

// --- transcendental wrappers (operate at Shift fractional bits) ------

func Sqrt(dst, src *Int) { transcend.Sqrt(dst.slice(), src.slice(), &Const) }
func Log(dst, src *Int)  { transcend.Log(dst.slice(), src.slice(), &Const) }
func Exp(dst, src *Int)  { transcend.Exp(dst.slice(), src.slice(), &Const) }
func Pow(dst, base, exp *Int) {
	transcend.Pow(dst.slice(), base.slice(), exp.slice(), &Const)
}
func PowInt(dst, base *Int, k int32) {
	transcend.PowInt(dst.slice(), base.slice(), k, &Const)
}
func Cos(dst, src *Int) { transcend.Cos(dst.slice(), src.slice(), &Const) }
func Sin(dst, src *Int) { transcend.Sin(dst.slice(), src.slice(), &Const) }
func Tan(dst, src *Int) { transcend.Tan(dst.slice(), src.slice(), &Const) }

// --- I/O wrappers ------------------------------------------------------

func Print(v *Int, fractionDigits, rightShift int, signed bool) string {
	return bnio.PrintDecimal(v.slice(), fractionDigits, rightShift, signed)
}

func Scan(s string, leftShift int) (*Int, error) {
	v := &Int{}
	if err := bnio.ScanDecimal(v.slice(), s, leftShift); err != nil {
		return nil, err
	}
	return v, nil
}

func SetDouble(dst *Int, d float64, leftShift int) {
	kernel.SetDouble(dst.slice(), d, leftShift)
}

func GetDouble(src *Int, rightShift int) float64 {
	return kernel.GetDouble(src.slice(), rightShift)
}
