// Package bnio implements the bignum I/O layer: decimal/hex/binary
// printing and decimal scanning, grounded on original_source/bnstdio.c.
// It is width-generic, operating directly on little-endian uint64 limb
// slices of any length. The original C source widens 128- and 192-bit
// values to a 256-bit scratch buffer before printing, to avoid
// duplicating the fraction-rounding code at every width (spec.md §4.3);
// this Go port has only one implementation of that code to begin with
// (bignum/kernel is already width-generic), so there is nothing to widen
// toward and no duplication to avoid — the widen-and-delegate step is
// dropped as redundant, not reproduced.
package bnio

import (
	"errors"
	"strings"

	"github.com/bnshell/bnshell/bignum/kernel"
)

// ErrSyntax is returned by ScanDecimal for input that is not a valid
// signed decimal (with optional fractional part).
var ErrSyntax = errors.New("bnio: invalid decimal syntax")

// PrintDecimal renders src (interpreted at rightShift fractional bits) as
// a base-10 string with exactly fractionDigits digits after the point
// (0 omits the point entirely). If signed is true, src is treated as
// two's-complement and a leading '-' is emitted for negative values.
func PrintDecimal(src []uint64, fractionDigits, rightShift int, signed bool) string {
	n := len(src)
	neg := signed && kernel.CmpNegative(src)
	mag := make([]uint64, n)
	kernel.Set(mag, src)
	if neg {
		kernel.Neg(mag)
	}

	intPart := make([]uint64, n)
	frac := make([]uint64, n)
	kernel.Shr(intPart, mag, rightShift)
	kernel.Shl(frac, mag, n*64-rightShift) // fractional bits moved to the top

	var intDigits []byte
	work := make([]uint64, n)
	kernel.Set(work, intPart)
	for {
		d := kernel.Div32(work, work, 10)
		intDigits = append(intDigits, byte('0'+d))
		if kernel.CmpZero(work) {
			break
		}
	}
	for i, j := 0, len(intDigits)-1; i < j; i, j = i+1, j-1 {
		intDigits[i], intDigits[j] = intDigits[j], intDigits[i]
	}

	var fracDigits []byte
	if fractionDigits > 0 {
		if max := rightShift; fractionDigits > max {
			fractionDigits = max
		}
		if fractionDigits > n*64-1 {
			fractionDigits = n*64 - 1
		}
		// frac holds the fractional bits top-aligned to a full n*64-bit
		// window, so multiplying by 10 and reading the overflow Mul32Check
		// discards (always in 0..9, since frac < 2^(n*64)) gives the next
		// decimal digit exactly -- no rounding heuristic needed, unlike
		// the original C source's divisor-table approach.
		for i := 0; i < fractionDigits; i++ {
			digit := kernel.Mul32Check(frac, frac, 10)
			fracDigits = append(fracDigits, byte('0'+digit))
		}
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.Write(intDigits)
	if fractionDigits > 0 {
		b.WriteByte('.')
		b.Write(fracDigits)
	}
	return b.String()
}

// PrintHex renders src as hexadecimal digits from the most significant
// limb down to rightShift, optionally followed by a '.' and up to
// fractionDigits further hex digits below the point.
func PrintHex(src []uint64, fractionDigits, rightShift int) string {
	return printRadix(src, fractionDigits, rightShift, 4, "0123456789abcdef")
}

// PrintBinary renders src as binary digits, same shape as PrintHex.
func PrintBinary(src []uint64, fractionDigits, rightShift int) string {
	return printRadix(src, fractionDigits, rightShift, 1, "01")
}

func printRadix(src []uint64, fractionDigits, rightShift, bitsPerDigit int, alphabet string) string {
	w := len(src) * 64
	var b strings.Builder
	top := w - 1
	for top >= rightShift {
		b.WriteByte(alphabet[int(extractDigit(src, top-bitsPerDigit+1, bitsPerDigit))])
		top -= bitsPerDigit
	}
	if fractionDigits > 0 && rightShift > 0 {
		b.WriteByte('.')
		pos := rightShift - 1
		low := rightShift - fractionDigits
		if low < 0 {
			low = 0
		}
		for pos >= low {
			start := pos - bitsPerDigit + 1
			if start < 0 {
				start = 0
			}
			b.WriteByte(alphabet[int(extractDigit(src, start, pos-start+1))])
			pos -= bitsPerDigit
		}
	}
	return b.String()
}

func extractDigit(src []uint64, from, count int) uint64 {
	var v uint64
	for i := 0; i < count; i++ {
		v |= kernel.ExtractBit(src, from+i) << uint(i)
	}
	return v
}

// ScanDecimal parses s (optional leading '-', decimal digits, optional
// '.' and fractional decimal digits) into dst at leftShift fractional
// bits, mirroring bn128Scan. Integer digits accumulate via a plain
// multiply-by-ten-and-add at the full leftShift.
//
// The fractional loop runs at fracShift, leftShift capped to n*64-4 to
// leave headroom for each digit's piece<<fracShift to not wrap; the
// capped-off amount (postShift) is restored onto each digit's
// contribution before it is added in. dec is carried as a full-width
// bignum, not a 32-bit scalar, and normally scales by 10 each digit; when
// that would overflow, dec instead doubles via Shl1, consuming one unit
// of postShift's budget per doubling. A doubled dec still overflows on
// *10, so the doubling repeats until postShift's budget runs out; scanning
// then stops there (treated as success, not a syntax error) and any
// remaining fractional digits are consumed without contributing further
// precision.
func ScanDecimal(dst []uint64, s string, leftShift int) error {
	n := len(dst)
	kernel.Zero(dst)
	if s == "" {
		return ErrSyntax
	}
	neg := false
	i := 0
	if s[0] == '-' {
		neg = true
		i++
	} else if s[0] == '+' {
		i++
	}
	sawDigit := false
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		kernel.Mul32(dst, dst, 10)
		if s[i] != '0' {
			piece := make([]uint64, n)
			kernel.Set32Shl(piece, uint32(s[i]-'0'), leftShift)
			kernel.Add(dst, dst, piece)
		}
		sawDigit = true
		i++
	}

	if i < len(s) && s[i] == '.' {
		i++
		fracShift := leftShift
		postShift := 0
		if max := n*64 - 4; fracShift > max {
			postShift = fracShift - max
			fracShift = max
		}
		dec := make([]uint64, n)
		kernel.Set32(dec, 10)
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			digit := uint32(s[i] - '0')
			sawDigit = true
			if digit != 0 {
				tmp := make([]uint64, n)
				kernel.Set32Shl(tmp, digit, fracShift)
				rem := make([]uint64, n)
				kernel.Div(tmp, tmp, dec, rem)
				if postShift > 0 {
					kernel.Shl(tmp, tmp, postShift)
				}
				kernel.Add(dst, dst, tmp)
				kernel.Shl1(rem, rem)
				if kernel.CmpGt(rem, dec) {
					kernel.Add32(dst, 1)
				}
			}

			exhausted := false
			scaled := make([]uint64, n)
			for kernel.Mul32Check(scaled, dec, 10) != 0 {
				postShift--
				if postShift < 0 {
					exhausted = true
					break
				}
				kernel.Shl1(dec, dec)
			}
			i++
			if exhausted {
				break
			}
			kernel.Set(dec, scaled)
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if !sawDigit || i != len(s) {
		return ErrSyntax
	}
	if neg {
		kernel.Neg(dst)
	}
	return nil
}
