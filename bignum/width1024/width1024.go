// Package width1024 instantiates bignum/kernel, bignum/transcend and
// bignum/bnio at 1024 bits (16 uint64 limbs), the widest of the five
// instantiated widths.
package width1024

import (
	"math"

	"github.com/bnshell/bnshell/bignum/bnio"
	"github.com/bnshell/bnshell/bignum/kernel"
	"github.com/bnshell/bnshell/bignum/transcend"
)

const (
	Units = 16
	Bits  = Units * 64
	Shift = Bits - 2
)

type Int [Units]uint64

func (x *Int) slice() []uint64 { return x[:] }

var InfPos = func() Int {
	var v Int
	for i := range v {
		v[i] = ^uint64(0)
	}
	v[Units-1] >>= 1
	return v
}()

var InfNeg = func() Int {
	var v Int
	v[Units-1] = 1 << 63
	return v
}()

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
}

func Zero(dst *Int)                 { kernel.Zero(dst.slice()) }
func Set(dst, src *Int)             { kernel.Set(dst.slice(), src.slice()) }
func Set32(dst *Int, v uint32)      { kernel.Set32(dst.slice(), v) }
func Set32Signed(dst *Int, v int32) { kernel.Set32Signed(dst.slice(), v) }
func Add(dst, a, b *Int)            { kernel.Add(dst.slice(), a.slice(), b.slice()) }
func Sub(dst, a, b *Int)            { kernel.Sub(dst.slice(), a.slice(), b.slice()) }
func Neg(dst *Int)                  { kernel.Neg(dst.slice()) }

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

func CmpEq(a, b *Int) bool       { return kernel.CmpEq(a.slice(), b.slice()) }
func CmpSignedLt(a, b *Int) bool { return kernel.CmpSignedLt(a.slice(), b.slice()) }
func CmpSignedGt(a, b *Int) bool { return kernel.CmpSignedGt(a.slice(), b.slice()) }

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

func SetDouble(dst *Int, d float64, leftShift int) { kernel.SetDouble(dst.slice(), d, leftShift) }
func GetDouble(src *Int, rightShift int) float64   { return kernel.GetDouble(src.slice(), rightShift) }
