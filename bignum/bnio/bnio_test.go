package bnio

import (
	"math"
	"strings"
	"testing"

	"github.com/bnshell/bnshell/bignum/kernel"
)

const units = 2   // 128-bit
const shift = 126 // spec.md's canonical 128-bit example shift

// wideShift leaves 63 integer bits, for values outside [-2, 2).
const wideShift = 64

func TestPrintDecimalNegativeThird(t *testing.T) {
	v := make([]uint64, units)
	kernel.Set32SignedShl(v, -1, shift) // exactly -1.0
	kernel.Div32Signed(v, v, 3)         // -1/3 to all 126 fraction bits
	got := PrintDecimal(v, 20, shift, true)
	want := "-0.33333333333333333333"
	if got != want {
		t.Fatalf("Print(-1/3) = %q, want %q", got, want)
	}
}

func TestScanPi(t *testing.T) {
	v := make([]uint64, units)
	if err := ScanDecimal(v, "3.14159265358979323846", shift); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	got := kernel.GetDouble(v, shift)
	if d := got - math.Pi; d > 1e-15 || d < -1e-15 {
		t.Fatalf("Scan(pi) then GetDouble = %v, want ~%v", got, math.Pi)
	}
}

func TestScanPrintRoundTrip(t *testing.T) {
	tests := []float64{0, 1, -1, 3.25, -3.25, 123.456, -0.001}
	for _, x := range tests {
		v := make([]uint64, units)
		kernel.SetDouble(v, x, wideShift)
		s := PrintDecimal(v, 39, wideShift, true)
		back := make([]uint64, units)
		if err := ScanDecimal(back, s, wideShift); err != nil {
			t.Fatalf("Scan(%q) error: %v", s, err)
		}
		got := kernel.GetDouble(back, wideShift)
		if d := got - x; d > 1e-9 || d < -1e-9 {
			t.Fatalf("round trip for %v via %q got %v", x, s, got)
		}
	}
}

func TestScanCapsShiftHeadroom(t *testing.T) {
	// A leftShift two bits below the width's bit count must not wrap during
	// the fractional digit loop (the historical bug this guards against).
	v := make([]uint64, units)
	if err := ScanDecimal(v, "0.5", 126); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	got := kernel.GetDouble(v, 126)
	if d := got - 0.5; d > 1e-9 || d < -1e-9 {
		t.Fatalf("Scan(0.5, shift=126) = %v, want 0.5", got)
	}
}

func TestScanIntegerOnly(t *testing.T) {
	v := make([]uint64, units)
	if err := ScanDecimal(v, "-42", wideShift); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	got := kernel.GetDouble(v, wideShift)
	if got != -42 {
		t.Fatalf("Scan(-42) = %v, want -42", got)
	}
}

func TestScanSyntaxErrors(t *testing.T) {
	v := make([]uint64, units)
	for _, s := range []string{"", "abc", "1.2.3", "1x", "."} {
		if err := ScanDecimal(v, s, shift); err == nil {
			t.Errorf("Scan(%q) should have failed", s)
		}
	}
}

func TestPrintHexBasic(t *testing.T) {
	v := make([]uint64, units)
	kernel.Set32Shl(v, 0xAB, wideShift)
	got := PrintHex(v, 0, wideShift)
	if !strings.HasSuffix(got, "ab") {
		t.Fatalf("PrintHex(0xAB) = %q, want suffix 'ab'", got)
	}
}

func TestPrintBinaryRoundTripsThroughExtractDigit(t *testing.T) {
	v := make([]uint64, units)
	kernel.Set32Shl(v, 5, wideShift) // 0b101
	got := PrintBinary(v, 0, wideShift)
	if !strings.HasSuffix(got, "101") {
		t.Fatalf("PrintBinary(5) = %q, want suffix '101'", got)
	}
}
