// Package transcend implements the transcendental layer (Sqrt, Log, Exp,
// Pow, PowInt, Cos, Sin, Tan) on top of bignum/kernel. Every function is
// width-generic: it operates on little-endian uint64 limb slices and a
// per-width Constants table supplying the fixed-point constants the
// algorithms need at that width's shift. The control flow (range
// reduction thresholds, paired-term series convergence test, non-
// restoring square root) is grounded line-for-line on
// original_source/bn128math.c; only the width is generalised.
package transcend

import "github.com/bnshell/bnshell/bignum/kernel"

// Constants bundles the fixed-point constants a width package must supply
// to drive the transcendental routines, all expressed at Shift fractional
// bits.
type Constants struct {
	Shift int

	Pi        []uint64 // pi
	HalfPi    []uint64 // pi/2
	Log2      []uint64 // ln(2)
	LogStep   []uint64 // ln(1.0625), the range-reduction step used by Log/Exp
	StepUp    []uint64 // 1.0625
	StepDown  []uint64 // 1/1.0625
	E         []uint64 // e
	InvE      []uint64 // 1/e
	EEighth   []uint64 // e^0.125, the Exp range-reduction step
	InvEEight []uint64 // e^-0.125

	// DivFactor is a reciprocal table round(2^(W-1)/k) for k in [2,256).
	// Only the 128-bit width populates it; it is nil elsewhere. The series
	// loops in this package do not read it: they divide each term with
	// kernel.Div32RoundSigned at every width.
	DivFactor [][]uint64
}

func newBuf(n int) []uint64 { return make([]uint64, n) }

// setInfPos sets dst to this width's maximum representable signed value,
// standing in for +Infinity per spec §7's saturation convention.
func setInfPos(dst []uint64) {
	for i := range dst {
		dst[i] = ^uint64(0)
	}
	kernel.ClearBit(dst, len(dst)*64-1)
}

// setInfNeg sets dst to this width's minimum representable signed value,
// standing in for -Infinity.
func setInfNeg(dst []uint64) {
	kernel.Zero(dst)
	kernel.SetBit(dst, len(dst)*64-1)
}

// Sqrt computes dst = sqrt(src), src >= 0, using non-restoring
// digit-by-digit extraction, mirroring bn128Sqrt's two phases: phase one
// extracts one trial bit at a time from the value's own most significant
// pair down to bit 0; phase two (entered once the trial bit has reached
// the bottom but the requested Shift fractional bits are not yet all
// produced) shifts both the running result and remainder left by 2 and
// keeps extracting at the same low bit position, which is how the
// algorithm produces precision beyond src's own bit-length.
func Sqrt(dst, src []uint64, c *Constants) {
	n := len(dst)
	if kernel.CmpZero(src) {
		kernel.Zero(dst)
		return
	}
	base := newBuf(n)
	kernel.Set(base, src)
	kernel.Zero(dst)

	msb := kernel.GetIndexMSB(base)
	oneShift := (msb &^ 1) | (c.Shift & 1)
	shiftBudget := c.Shift

	one := newBuf(n)
	kernel.SetBit(one, oneShift)
	for kernel.CmpGt(one, base) {
		oneShift -= 2
		kernel.Shr(one, one, 2)
	}

	for {
		tmp := newBuf(n)
		kernel.SetOr(tmp, dst, one)
		kernel.Shr1(dst, dst)
		if kernel.CmpGe(base, tmp) {
			kernel.Sub(base, base, tmp)
			kernel.Or(dst, one)
		}
		if oneShift < 2 {
			if shiftBudget < 2 {
				break
			}
			shiftBudget -= 2
			kernel.Shl(dst, dst, 2)
			kernel.Shl(base, base, 2)
		} else {
			oneShift -= 2
			kernel.Zero(one)
			kernel.SetBit(one, oneShift)
		}
	}
	if kernel.CmpGt(base, dst) {
		kernel.Add32(dst, 1)
	}
}

// Log computes dst = ln(src); returns 0 for non-positive src. Range
// reduction has two stages, mirroring bn128Log: a coarse stage that
// repeatedly halves (or doubles) base while accumulating whole multiples
// of ln(2) until base is within roughly (1/2, 2), then a fine stage that
// repeatedly divides (or multiplies) by 1.0625 while accumulating
// multiples of ln(1.0625) until base is within (31/32, 33/32). A direct
// Mercator series in (base-1) finishes the remaining window.
func Log(dst, src []uint64, c *Constants) {
	n := len(dst)
	kernel.Zero(dst)
	if !kernel.CmpPositive(src) || kernel.CmpZero(src) {
		return
	}

	base := newBuf(n)
	kernel.Set(base, src)
	one := newBuf(n)
	kernel.Set32Shl(one, 1, c.Shift)
	limit := newBuf(n)

	if kernel.CmpGt(base, one) {
		kernel.Set32Shl(limit, 2, c.Shift)
		if kernel.CmpGt(base, limit) {
			for {
				kernel.Add(dst, dst, c.Log2)
				kernel.Shr1(base, base)
				if !kernel.CmpGt(base, limit) {
					break
				}
			}
		}
		kernel.Set32Shl(limit, 33, c.Shift-5)
		if kernel.CmpGt(base, limit) {
			for {
				kernel.Add(dst, dst, c.LogStep)
				tmp := newBuf(n)
				kernel.MulSignedShr(tmp, c.StepDown, base, c.Shift)
				if kernel.CmpEq(base, tmp) {
					break
				}
				kernel.Set(base, tmp)
				if !kernel.CmpGt(base, limit) {
					break
				}
			}
		}
	} else {
		kernel.Set32Shl(limit, 1, c.Shift-1)
		if kernel.CmpLt(base, limit) {
			for {
				kernel.Sub(dst, dst, c.Log2)
				kernel.Shl1(base, base)
				if !kernel.CmpLt(base, limit) {
					break
				}
			}
		}
		kernel.Set32Shl(limit, 31, c.Shift-5)
		if kernel.CmpLt(base, limit) {
			for {
				kernel.Sub(dst, dst, c.LogStep)
				tmp := newBuf(n)
				kernel.MulSignedShr(tmp, c.StepUp, base, c.Shift)
				if kernel.CmpEq(base, tmp) {
					break
				}
				kernel.Set(base, tmp)
				if !kernel.CmpLt(base, limit) {
					break
				}
			}
		}
	}

	kernel.Sub(base, base, one)
	fsub := newBuf(n)
	kernel.SquareShr(fsub, base, c.Shift)
	kernel.Add(dst, dst, base)

	fadd := newBuf(n)
	piece := newBuf(n)
	for denom := int32(2); denom < 128; denom += 2 {
		kernel.Div32RoundSigned(piece, fsub, denom)
		kernel.Sub(dst, dst, piece)
		kernel.MulSignedShr(fadd, fsub, base, c.Shift)
		if kernel.CmpEqOrZero(fadd, fsub) {
			break
		}
		kernel.Div32RoundSigned(piece, fadd, denom+1)
		kernel.Add(dst, dst, piece)
		kernel.MulSignedShr(fsub, fadd, base, c.Shift)
		if kernel.CmpEqOrZero(fsub, fadd) {
			break
		}
	}
}

// Exp computes dst = e^src, mirroring bn128Exp: a coarse stage peels off
// whole multiples of e (or, for negative src, 1/e) from the magnitude
// while accumulating them into a running factor, an eighth-peeling stage
// narrows the remainder further using e^0.125, and a paired-term series
// finishes the remaining small window before the accumulated factor is
// reapplied. Overflow during either peeling stage saturates to +Infinity
// (per spec §7); the negative-peeling stage underflowing its shrinking
// factor to exactly zero saturates to 0.
func Exp(dst, src []uint64, c *Constants) {
	n := len(dst)
	one := newBuf(n)
	kernel.Set32Shl(one, 1, c.Shift)

	base := newBuf(n)
	kernel.Set(base, src)
	factor := newBuf(n)
	kernel.Set(factor, one)
	factorUsed := false

	limit := newBuf(n)
	if kernel.CmpPositive(base) {
		kernel.Set(limit, one)
		if kernel.CmpGt(base, limit) {
			factorUsed = true
			for {
				tmp := newBuf(n)
				if kernel.MulCheckShr(tmp, factor, c.E, c.Shift) != 0 {
					setInfPos(dst)
					return
				}
				kernel.Set(factor, tmp)
				kernel.Sub(base, base, one)
				if !kernel.CmpGt(base, limit) {
					break
				}
			}
		}
	} else {
		kernel.Zero(limit)
		if kernel.CmpSignedLt(base, limit) {
			factorUsed = true
			for {
				tmp := newBuf(n)
				kernel.MulShr(tmp, factor, c.InvE, c.Shift)
				if kernel.CmpZero(tmp) {
					kernel.Zero(dst)
					return
				}
				kernel.Set(factor, tmp)
				kernel.Add(base, base, one)
				if !kernel.CmpSignedLt(base, limit) {
					break
				}
			}
		}
	}

	kernel.Set32Shl(limit, 1, c.Shift-4)
	if kernel.CmpSignedGt(base, limit) {
		eighth := newBuf(n)
		kernel.Set32Shl(eighth, 1, c.Shift-3)
		if kernel.CmpNotZero(eighth) {
			factorUsed = true
			for {
				tmp := newBuf(n)
				if kernel.MulCheckShr(tmp, factor, c.EEighth, c.Shift) != 0 {
					setInfPos(dst)
					return
				}
				kernel.Set(factor, tmp)
				kernel.Sub(base, base, eighth)
				if !kernel.CmpSignedGt(base, limit) {
					break
				}
			}
		}
	}

	kernel.SetAdd(dst, one, base)
	term0 := newBuf(n)
	kernel.Set(term0, base)
	for divisor := int32(2); divisor < 256; divisor += 2 {
		tmp := newBuf(n)
		kernel.Div32RoundSigned(tmp, base, divisor)
		term1 := newBuf(n)
		kernel.MulSignedShr(term1, tmp, term0, c.Shift)
		if kernel.CmpEqOrZero(term1, term0) {
			break
		}
		kernel.Add(dst, dst, term1)
		kernel.Div32RoundSigned(tmp, base, divisor+1)
		kernel.MulSignedShr(term0, tmp, term1, c.Shift)
		if kernel.CmpEqOrZero(term0, term1) {
			break
		}
		kernel.Add(dst, dst, term0)
	}

	if factorUsed {
		tmp := newBuf(n)
		kernel.MulSignedShr(tmp, factor, dst, c.Shift)
		kernel.Set(dst, tmp)
	}
}

// Pow computes dst = base^exp for a fixed-point exponent: exp(exp*ln(base)).
func Pow(dst, base, exp []uint64, c *Constants) {
	n := len(dst)
	l := newBuf(n)
	Log(l, base, c)
	p := newBuf(n)
	kernel.MulSignedShr(p, l, exp, c.Shift)
	Exp(dst, p, c)
}

// PowInt computes dst = base^k for an integer exponent k via
// exponentiation by squaring, exact (no series error) for integer powers.
func PowInt(dst, base []uint64, k int32, c *Constants) {
	n := len(dst)
	one := newBuf(n)
	kernel.Set32Shl(one, 1, c.Shift)

	neg := k < 0
	if neg {
		k = -k
	}
	result := newBuf(n)
	kernel.Set(result, one)
	b := newBuf(n)
	kernel.Set(b, base)
	for k > 0 {
		if k&1 == 1 {
			kernel.MulSignedShr(result, result, b, c.Shift)
		}
		kernel.MulSignedShr(b, b, b, c.Shift)
		k >>= 1
	}
	if neg {
		kernel.DivRoundShl(dst, one, result, c.Shift)
		return
	}
	kernel.Set(dst, result)
}

// Cos computes dst = cos(src), mirroring bn128Cos: the input's absolute
// value is reduced modulo 2*pi, then reflected into [0, pi/2] (flipping
// sign once when the value crossed pi/2), before a paired-term Taylor
// series in x^2 finishes it. The initial 2*pi reduction has two exact
// paths: a Div that takes the remainder in one step, or repeated
// subtraction. The choice is made by CmpPart over only the top 8 bits of
// the full width of base and 8*(2*pi): base takes the Div path whenever
// its top 8 bits are not below those of 8*(2*pi), which includes every
// case where both are zero (magnitudes under 2^(W-8)). The choice only
// affects which strategy computes the reduced value, not the value itself.
func Cos(dst, src []uint64, c *Constants) {
	n := len(dst)
	base := newBuf(n)
	if kernel.CmpPositive(src) {
		kernel.Set(base, src)
	} else {
		kernel.Set(base, src)
		kernel.Neg(base)
	}

	twoPi := newBuf(n)
	kernel.Shl1(twoPi, c.Pi)
	if kernel.CmpGt(base, twoPi) {
		eightTwoPi := newBuf(n)
		kernel.Shl(eightTwoPi, twoPi, 3)
		if kernel.CmpPart(base, eightTwoPi, 8) >= 0 {
			rem := newBuf(n)
			kernel.Div(base, base, twoPi, rem)
			kernel.Set(base, rem)
		} else {
			for kernel.CmpGt(base, twoPi) {
				kernel.Sub(base, base, twoPi)
			}
		}
	}

	if kernel.CmpGt(base, c.Pi) {
		tmp := newBuf(n)
		kernel.SetSub(tmp, twoPi, base)
		kernel.Set(base, tmp)
	}

	negflag := false
	if kernel.CmpGt(base, c.HalfPi) {
		tmp := newBuf(n)
		kernel.SetSub(tmp, c.Pi, base)
		kernel.Set(base, tmp)
		negflag = true
	}

	one := newBuf(n)
	kernel.Set32Shl(one, 1, c.Shift)
	basesq := newBuf(n)
	kernel.SquareShr(basesq, base, c.Shift)

	kernel.Set(dst, one)
	term0 := newBuf(n)
	kernel.Shr1(term0, basesq)
	kernel.Sub(dst, dst, term0)

	for divisor := int32(4); divisor < 256; divisor += 4 {
		tmp := newBuf(n)
		kernel.Set(tmp, basesq)
		kernel.Div32RoundSigned(tmp, tmp, (divisor-1)*(divisor+0))
		term1 := newBuf(n)
		kernel.MulShr(term1, tmp, term0, c.Shift)
		if kernel.CmpEqOrZero(term1, term0) || kernel.CmpZero(term1) {
			break
		}
		kernel.Add(dst, dst, term1)

		kernel.Set(tmp, basesq)
		kernel.Div32RoundSigned(tmp, tmp, (divisor+1)*(divisor+2))
		kernel.MulShr(term0, tmp, term1, c.Shift)
		if kernel.CmpEqOrZero(term0, term1) || kernel.CmpZero(term0) {
			break
		}
		kernel.Sub(dst, dst, term0)
	}

	if negflag {
		kernel.Neg(dst)
	}
}

// Sin computes dst = sin(src) = cos(src - pi/2).
func Sin(dst, src []uint64, c *Constants) {
	n := len(dst)
	shifted := newBuf(n)
	kernel.Sub(shifted, src, c.HalfPi)
	kernel.Neg(shifted)
	Cos(dst, shifted, c)
}

// Tan computes dst = sin(src)/cos(src). At the pole (cos == 0) the result
// saturates to +/-Infinity matching the sign of src; this choice
// (sign from the numerator only, not the direction of approach) is
// recorded as an explicit decision in DESIGN.md.
func Tan(dst, src []uint64, c *Constants) {
	s := newBuf(len(dst))
	cosv := newBuf(len(dst))
	Sin(s, src, c)
	Cos(cosv, src, c)
	if kernel.CmpZero(cosv) {
		if kernel.CmpNegative(src) {
			setInfNeg(dst)
		} else {
			setInfPos(dst)
		}
		return
	}
	kernel.DivRoundSignedShl(dst, s, cosv, c.Shift)
}
