package width512

import (
	"math"
	"testing"
)

func TestSqrtRoundTrip(t *testing.T) {
	var x, sq, dst Int
	SetDouble(&x, 1.125, Shift)
	MulShr(&sq, &x, &x, Shift)
	Sqrt(&dst, &sq)
	got := GetDouble(&dst, Shift)
	if d := got - 1.125; d > 1e-9 || d < -1e-9 {
		t.Fatalf("Sqrt(1.125^2) = %v, want 1.125", got)
	}
}

func TestLogExpInverse(t *testing.T) {
	var x, l, e Int
	SetDouble(&x, 1.5, Shift)
	Log(&l, &x)
	Exp(&e, &l)
	got := GetDouble(&e, Shift)
	if d := got - 1.5; d > 1e-9 || d < -1e-9 {
		t.Fatalf("Exp(Log(1.5)) = %v, want 1.5", got)
	}
}

func TestCosSinPythagorean(t *testing.T) {
	var x, c, s Int
	SetDouble(&x, math.Pi/9, Shift)
	Cos(&c, &x)
	Sin(&s, &x)
	cf := GetDouble(&c, Shift)
	sf := GetDouble(&s, Shift)
	if d := cf*cf + sf*sf - 1; d > 1e-9 || d < -1e-9 {
		t.Fatalf("cos^2+sin^2 = %v, want 1", cf*cf+sf*sf)
	}
}

func TestPrintScanRoundTrip(t *testing.T) {
	var x Int
	SetDouble(&x, -0.75, Shift)
	s := Print(&x, 60, Shift, true)
	back, err := Scan(s, Shift)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	got := GetDouble(back, Shift)
	if d := got + 0.75; d > 1e-9 || d < -1e-9 {
		t.Fatalf("round trip via %q got %v, want -0.75", s, got)
	}
}
