package kernel

import (
	"encoding/binary"
	"math"
	"math/big"
)

// doublePrec is generous enough working precision for the big.Float scratch
// values used to bridge float64 and arbitrary-width limb slices; it is not
// a statement about the precision of the conversion itself, which is
// bounded by float64's 53-bit mantissa either way.
const doublePrec = 4096

// SetDouble loads dst with the fixed-point representation of v (interpreted
// as v = x_int / 2^shift), rounding half away from zero and wrapping mod
// 2^W on overflow, matching the kernel's other narrowing loads. NaN and Inf
// load as zero.
func SetDouble(dst []uint64, v float64, shift int) {
	Zero(dst)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	scaled := new(big.Float).SetPrec(doublePrec).SetFloat64(v)
	scale := new(big.Float).SetPrec(doublePrec).SetMantExp(big.NewFloat(1), shift)
	scaled.Mul(scaled, scale)
	if v >= 0 {
		scaled.Add(scaled, big.NewFloat(0.5))
	} else {
		scaled.Sub(scaled, big.NewFloat(0.5))
	}
	bi, _ := scaled.Int(nil)
	storeBigIntMod(dst, bi)
}

// GetDouble reads src (interpreted as x_int / 2^shift, two's-complement
// signed) back out as a float64, rounding to nearest representable double.
func GetDouble(src []uint64, shift int) float64 {
	n := len(src)
	neg := signBit(src)
	mag := src
	if neg {
		mag = make([]uint64, n)
		SetNeg(mag, src)
	}
	bi := loadBigIntUnsigned(mag)
	bf := new(big.Float).SetPrec(doublePrec).SetInt(bi)
	scale := new(big.Float).SetPrec(doublePrec).SetMantExp(big.NewFloat(1), -shift)
	bf.Mul(bf, scale)
	f, _ := bf.Float64()
	if neg {
		f = -f
	}
	return f
}

// storeBigIntMod writes bi mod 2^(len(dst)*64) into dst as little-endian
// limbs, which is exactly the two's-complement bit pattern for negative bi
// since big.Int's Mod (unlike Rem) always returns a non-negative residue.
func storeBigIntMod(dst []uint64, bi *big.Int) {
	n := len(dst)
	mod := new(big.Int).Lsh(big.NewInt(1), uint(n*wordBits))
	m := new(big.Int).Mod(bi, mod)
	buf := make([]byte, n*8)
	m.FillBytes(buf)
	for i := 0; i < n; i++ {
		dst[i] = binary.BigEndian.Uint64(buf[len(buf)-(i+1)*8 : len(buf)-i*8])
	}
}

// loadBigIntUnsigned reads an unsigned magnitude limb slice into a big.Int.
func loadBigIntUnsigned(mag []uint64) *big.Int {
	n := len(mag)
	buf := make([]byte, n*8)
	for i := 0; i < n; i++ {
		binary.BigEndian.PutUint64(buf[len(buf)-(i+1)*8:len(buf)-i*8], mag[i])
	}
	return new(big.Int).SetBytes(buf)
}
