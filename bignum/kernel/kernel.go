// Package kernel implements the fixed-width, two's-complement bignum
// primitives shared by every instantiated width (128/192/256/512/1024
// bits). Every function operates on little-endian uint64 limb slices
// supplied by the caller; a value of width W occupies U = W/64 limbs.
//
// There is exactly one implementation of each operation here, reused by
// every width package: the width packages only fix the slice length and
// expose it as a named array type. Callers may freely alias dst with any
// src slice; the sole exception is MulExtended, whose 2U-limb result
// buffer must not overlap either input (documented at each call site).
package kernel

import "math/bits"

// Zero clears dst to the all-zero value.
func Zero(dst []uint64) {
	for i := range dst {
		dst[i] = 0
	}
}

// Set copies src into dst. Safe when dst and src alias (including dst == src):
// copy is specified to handle overlapping slices correctly.
func Set(dst, src []uint64) {
	copy(dst, src)
}

// CmpZero reports whether src is entirely zero.
func CmpZero(src []uint64) bool {
	for _, u := range src {
		if u != 0 {
			return false
		}
	}
	return true
}

// Set32 loads a 32-bit unsigned scalar into dst, zeroing the rest.
func Set32(dst []uint64, v uint32) {
	Zero(dst)
	if len(dst) > 0 {
		dst[0] = uint64(v)
	}
}

// Set32Signed loads a 32-bit signed scalar into dst, sign-extended through
// every remaining limb.
func Set32Signed(dst []uint64, v int32) {
	fill := uint64(0)
	if v < 0 {
		fill = ^uint64(0)
	}
	for i := range dst {
		dst[i] = fill
	}
	if len(dst) > 0 {
		dst[0] = uint64(int64(v))
	}
}

// Set32Shl loads a 32-bit unsigned scalar shifted left by shift bits. The
// scalar occupies at most two consecutive limbs after the shift.
func Set32Shl(dst []uint64, v uint32, shift int) {
	Zero(dst)
	Add32Shl(dst, v, shift)
}

// Set32SignedShl loads a signed 32-bit scalar, sign extended, then shifted
// left by shift bits.
func Set32SignedShl(dst []uint64, v int32, shift int) {
	Set32Signed(dst, v)
	Shl(dst, dst, shift)
}

// add64 is add-with-carry on one limb pair: dst = a+b+carryIn, carryOut in {0,1}.
func add64(a, b, carryIn uint64) (sum, carryOut uint64) {
	sum, carryOut = bits.Add64(a, b, carryIn)
	return
}

// sub64 is subtract-with-borrow on one limb pair.
func sub64(a, b, borrowIn uint64) (diff, borrowOut uint64) {
	diff, borrowOut = bits.Sub64(a, b, borrowIn)
	return
}

// Add computes dst = a + b over U limbs, carry out of the top limb is
// silently dropped (two's-complement wraparound). Aliasing of dst with a
// or b is safe.
func Add(dst, a, b []uint64) {
	var carry uint64
	for i := range dst {
		dst[i], carry = add64(a[i], b[i], carry)
	}
}

// Sub computes dst = a - b over U limbs.
func Sub(dst, a, b []uint64) {
	var borrow uint64
	for i := range dst {
		dst[i], borrow = sub64(a[i], b[i], borrow)
	}
}

// SetAdd is Add into a fresh destination: dst = a + b.
func SetAdd(dst, a, b []uint64) { Add(dst, a, b) }

// SetSub is Sub into a fresh destination: dst = a - b.
func SetSub(dst, a, b []uint64) { Sub(dst, a, b) }

// SetAddAdd computes dst = src + a0 + a1 in one pass.
func SetAddAdd(dst, src, a0, a1 []uint64) {
	var c0, c1 uint64
	for i := range dst {
		var s uint64
		s, c0 = add64(src[i], a0[i], c0)
		dst[i], c1 = add64(s, a1[i], c1)
	}
}

// SetAddSub computes dst = src + a - s in one pass.
func SetAddSub(dst, src, a, s []uint64) {
	var c0, b0 uint64
	for i := range dst {
		var t uint64
		t, c0 = add64(src[i], a[i], c0)
		dst[i], b0 = sub64(t, s[i], b0)
	}
}

// SetAddAddSub computes dst = src + a0 + a1 - s in one pass.
func SetAddAddSub(dst, src, a0, a1, s []uint64) {
	var c0, c1, b0 uint64
	for i := range dst {
		var t0, t1 uint64
		t0, c0 = add64(src[i], a0[i], c0)
		t1, c1 = add64(t0, a1[i], c1)
		dst[i], b0 = sub64(t1, s[i], b0)
	}
}

// SetAddAddAddSub computes dst = src + a0 + a1 + a2 - s in one pass.
func SetAddAddAddSub(dst, src, a0, a1, a2, s []uint64) {
	var c0, c1, c2, b0 uint64
	for i := range dst {
		var t0, t1, t2 uint64
		t0, c0 = add64(src[i], a0[i], c0)
		t1, c1 = add64(t0, a1[i], c1)
		t2, c2 = add64(t1, a2[i], c2)
		dst[i], b0 = sub64(t2, s[i], b0)
	}
}

// Neg negates dst in place (two's complement: ~x + 1).
func Neg(dst []uint64) { SetNeg(dst, dst) }

// SetNeg computes dst = -src.
func SetNeg(dst, src []uint64) {
	var carry uint64 = 1
	for i := range dst {
		dst[i], carry = add64(^src[i], 0, carry)
	}
}

// signBit reports the top bit of the top limb, i.e. the two's-complement sign.
func signBit(v []uint64) bool {
	if len(v) == 0 {
		return false
	}
	return v[len(v)-1]&(1<<63) != 0
}

// Bitwise operators, elementwise across all limbs.

func Or(dst, src []uint64)  { SetOr(dst, dst, src) }
func And(dst, src []uint64) { SetAnd(dst, dst, src) }
func Xor(dst, src []uint64) { SetXor(dst, dst, src) }
func Not(dst []uint64)      { SetNot(dst, dst) }

func SetOr(dst, a, b []uint64) {
	for i := range dst {
		dst[i] = a[i] | b[i]
	}
}

func SetAnd(dst, a, b []uint64) {
	for i := range dst {
		dst[i] = a[i] & b[i]
	}
}

func SetXor(dst, a, b []uint64) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

func SetNor(dst, a, b []uint64) {
	for i := range dst {
		dst[i] = ^(a[i] | b[i])
	}
}

func SetNand(dst, a, b []uint64) {
	for i := range dst {
		dst[i] = ^(a[i] & b[i])
	}
}

func SetNxor(dst, a, b []uint64) {
	for i := range dst {
		dst[i] = ^(a[i] ^ b[i])
	}
}

func SetNot(dst, src []uint64) {
	for i := range dst {
		dst[i] = ^src[i]
	}
}
