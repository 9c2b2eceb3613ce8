package kernel

// FitsUint32 reports whether src's value (interpreted unsigned) fits in 32
// bits: every limb above the low 32 bits of limb 0 must be zero.
func FitsUint32(src []uint64) bool {
	if len(src) == 0 {
		return true
	}
	if src[0]>>32 != 0 {
		return false
	}
	for _, u := range src[1:] {
		if u != 0 {
			return false
		}
	}
	return true
}

// FitsUint64 reports whether src's value (interpreted unsigned) fits in 64
// bits: every limb above limb 0 must be zero.
func FitsUint64(src []uint64) bool {
	for _, u := range src[1:] {
		if u != 0 {
			return false
		}
	}
	return true
}

// FitsInt32 reports whether src's value (interpreted two's-complement
// signed) fits in a signed 32-bit range.
func FitsInt32(src []uint64) bool {
	if len(src) == 0 {
		return true
	}
	low := src[0]
	sign := low & (1 << 31)
	fill := uint64(0)
	if sign != 0 {
		fill = ^uint64(0)
	}
	if low>>32 != fill>>32 {
		return false
	}
	for _, u := range src[1:] {
		if u != fill {
			return false
		}
	}
	return true
}

// FitsInt64 reports whether src's value (interpreted two's-complement
// signed) fits in a signed 64-bit range: every limb above limb 0 must equal
// the sign-extension of limb 0's top bit.
func FitsInt64(src []uint64) bool {
	fill := uint64(0)
	if len(src) > 0 && src[0]>>63 != 0 {
		fill = ^uint64(0)
	}
	for _, u := range src[1:] {
		if u != fill {
			return false
		}
	}
	return true
}

// ToUint32Checked narrows src to uint32, reporting ok=false on overflow.
func ToUint32Checked(src []uint64) (uint32, bool) {
	if !FitsUint32(src) {
		return 0, false
	}
	if len(src) == 0 {
		return 0, true
	}
	return uint32(src[0]), true
}

// ToUint64Checked narrows src to uint64, reporting ok=false on overflow.
func ToUint64Checked(src []uint64) (uint64, bool) {
	if !FitsUint64(src) {
		return 0, false
	}
	if len(src) == 0 {
		return 0, true
	}
	return src[0], true
}

// ToInt32Checked narrows src to int32, reporting ok=false on overflow.
func ToInt32Checked(src []uint64) (int32, bool) {
	if !FitsInt32(src) {
		return 0, false
	}
	if len(src) == 0 {
		return 0, true
	}
	return int32(uint32(src[0])), true
}

// ToInt64Checked narrows src to int64, reporting ok=false on overflow.
func ToInt64Checked(src []uint64) (int64, bool) {
	if !FitsInt64(src) {
		return 0, false
	}
	if len(src) == 0 {
		return 0, true
	}
	return int64(src[0]), true
}
