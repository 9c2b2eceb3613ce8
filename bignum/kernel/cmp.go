package kernel

// CmpNotZero reports whether src has any set bit.
func CmpNotZero(src []uint64) bool { return !CmpZero(src) }

// CmpEq reports unsigned a == b.
func CmpEq(a, b []uint64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CmpNeq reports unsigned a != b.
func CmpNeq(a, b []uint64) bool { return !CmpEq(a, b) }

// cmpUnsigned returns -1, 0, or 1 for a<b, a==b, a>b (unsigned, MSB-first).
func cmpUnsigned(a, b []uint64) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// CmpGt reports unsigned a > b.
func CmpGt(a, b []uint64) bool { return cmpUnsigned(a, b) > 0 }

// CmpGe reports unsigned a >= b.
func CmpGe(a, b []uint64) bool { return cmpUnsigned(a, b) >= 0 }

// CmpLt reports unsigned a < b.
func CmpLt(a, b []uint64) bool { return cmpUnsigned(a, b) < 0 }

// CmpLe reports unsigned a <= b.
func CmpLe(a, b []uint64) bool { return cmpUnsigned(a, b) <= 0 }

// CmpPositive reports whether src's sign bit is clear (zero counts positive).
func CmpPositive(src []uint64) bool { return !signBit(src) }

// CmpNegative reports whether src's sign bit is set.
func CmpNegative(src []uint64) bool { return signBit(src) }

// cmpSigned compares a and b as two's-complement signed integers.
func cmpSigned(a, b []uint64) int {
	sa, sb := signBit(a), signBit(b)
	if sa != sb {
		if sa {
			return -1
		}
		return 1
	}
	return cmpUnsigned(a, b)
}

// CmpSignedGt reports signed a > b.
func CmpSignedGt(a, b []uint64) bool { return cmpSigned(a, b) > 0 }

// CmpSignedGe reports signed a >= b.
func CmpSignedGe(a, b []uint64) bool { return cmpSigned(a, b) >= 0 }

// CmpSignedLt reports signed a < b.
func CmpSignedLt(a, b []uint64) bool { return cmpSigned(a, b) < 0 }

// CmpSignedLe reports signed a <= b.
func CmpSignedLe(a, b []uint64) bool { return cmpSigned(a, b) <= 0 }

// accum ORs all limbs of v together; used by CmpEqOrZero.
func accum(v []uint64) uint64 {
	var r uint64
	for _, u := range v {
		r |= u
	}
	return r
}

// CmpEqOrZero reports whether a == b or a == 0: computed as
// accum(a) & accum(a XOR b) == 0, the compact "converged or underflowed"
// termination test used by the transcendental series loops.
func CmpEqOrZero(a, b []uint64) bool {
	xor := make([]uint64, len(a))
	SetXor(xor, a, b)
	return (accum(a) & accum(xor)) == 0
}

// CmpPart compares only the top `bits` most-significant bits of a and b,
// returning -1, 0, 1 as cmpUnsigned would over that narrowed window.
func CmpPart(a, b []uint64, topBits int) int {
	w := len(a) * wordBits
	if topBits <= 0 {
		return 0
	}
	if topBits >= w {
		return cmpUnsigned(a, b)
	}
	shift := w - topBits
	na := make([]uint64, len(a))
	nb := make([]uint64, len(b))
	Shr(na, a, shift)
	Shr(nb, b, shift)
	return cmpUnsigned(na, nb)
}
