package transcend

import (
	"math"
	"testing"

	"github.com/bnshell/bnshell/bignum/kernel"
)

const testShift = 64

func loadDouble(v float64) []uint64 {
	buf := make([]uint64, 2)
	kernel.SetDouble(buf, v, testShift)
	return buf
}

func testConstants() *Constants {
	return &Constants{
		Shift:     testShift,
		Pi:        loadDouble(math.Pi),
		HalfPi:    loadDouble(math.Pi / 2),
		Log2:      loadDouble(math.Ln2),
		LogStep:   loadDouble(math.Log(1.0625)),
		StepUp:    loadDouble(1.0625),
		StepDown:  loadDouble(1 / 1.0625),
		E:         loadDouble(math.E),
		InvE:      loadDouble(1 / math.E),
		EEighth:   loadDouble(math.Pow(math.E, 0.125)),
		InvEEight: loadDouble(math.Pow(math.E, -0.125)),
	}
}

func within(t *testing.T, got, want, tol float64, msg string) {
	t.Helper()
	if d := got - want; d > tol || d < -tol {
		t.Fatalf("%s: got %v want %v (tol %v)", msg, got, want, tol)
	}
}

func TestSqrtPerfectSquares(t *testing.T) {
	c := testConstants()
	for _, x := range []float64{0, 1, 2, 3.5, 9, 16.25, 1234.5} {
		src := loadDouble(x * x)
		dst := make([]uint64, 2)
		Sqrt(dst, src, c)
		got := kernel.GetDouble(dst, testShift)
		within(t, got, x, 1e-6, "Sqrt")
	}
}

func TestSqrtZero(t *testing.T) {
	c := testConstants()
	dst := make([]uint64, 2)
	Sqrt(dst, make([]uint64, 2), c)
	if !kernel.CmpZero(dst) {
		t.Fatalf("Sqrt(0) should be 0, got %v", dst)
	}
}

func TestLogExpInverse(t *testing.T) {
	c := testConstants()
	for _, x := range []float64{0.1, 0.5, 1, 2, math.E, 5, 10} {
		src := loadDouble(x)
		l := make([]uint64, 2)
		Log(l, src, c)
		e := make([]uint64, 2)
		Exp(e, l, c)
		got := kernel.GetDouble(e, testShift)
		within(t, got, x, 1e-4, "Exp(Log(x))")
	}
}

func TestLogNonPositiveReturnsZero(t *testing.T) {
	c := testConstants()
	dst := make([]uint64, 2)
	Log(dst, make([]uint64, 2), c)
	if !kernel.CmpZero(dst) {
		t.Fatalf("Log(0) should be 0, got %v", dst)
	}
	neg := make([]uint64, 2)
	kernel.Set32Signed(neg, -5)
	Log(dst, neg, c)
	if !kernel.CmpZero(dst) {
		t.Fatalf("Log(negative) should be 0, got %v", dst)
	}
}

func TestLogOfE(t *testing.T) {
	c := testConstants()
	dst := make([]uint64, 2)
	Log(dst, c.E, c)
	got := kernel.GetDouble(dst, testShift)
	within(t, got, 1.0, 1e-6, "Log(e)")
}

func TestExpUnderflowSaturatesToZero(t *testing.T) {
	c := testConstants()
	src := loadDouble(-100)
	dst := make([]uint64, 2)
	Exp(dst, src, c)
	if !kernel.CmpZero(dst) {
		t.Fatalf("Exp(-100) should underflow to 0, got %v", dst)
	}
}

func TestExpOverflowSaturatesToInfPos(t *testing.T) {
	c := testConstants()
	src := loadDouble(1000)
	dst := make([]uint64, 2)
	Exp(dst, src, c)
	want := make([]uint64, 2)
	setInfPos(want)
	if !kernel.CmpEq(dst, want) {
		t.Fatalf("Exp(1000) should saturate to +Infinity, got %v want %v", dst, want)
	}
}

func TestCosSinPythagorean(t *testing.T) {
	c := testConstants()
	for _, x := range []float64{0, 0.3, 1, math.Pi / 3, math.Pi, 2 * math.Pi, -1.7, 10} {
		src := loadDouble(x)
		cosv := make([]uint64, 2)
		sinv := make([]uint64, 2)
		Cos(cosv, src, c)
		Sin(sinv, src, c)
		cf := kernel.GetDouble(cosv, testShift)
		sf := kernel.GetDouble(sinv, testShift)
		within(t, cf*cf+sf*sf, 1.0, 1e-4, "cos^2+sin^2")
	}
}

func TestCosOfPiThird(t *testing.T) {
	c := testConstants()
	src := loadDouble(math.Pi / 3)
	dst := make([]uint64, 2)
	Cos(dst, src, c)
	got := kernel.GetDouble(dst, testShift)
	within(t, got, 0.5, 1e-6, "Cos(pi/3)")
}

func TestTanPoleSaturates(t *testing.T) {
	c := testConstants()
	dst := make([]uint64, 2)
	Tan(dst, c.HalfPi, c)
	want := make([]uint64, 2)
	setInfPos(want)
	if !kernel.CmpEq(dst, want) {
		t.Fatalf("Tan(pi/2) should be +Infinity, got %v want %v", dst, want)
	}
}

func TestPowIntExactSquaring(t *testing.T) {
	c := testConstants()
	base := loadDouble(1.5)
	dst := make([]uint64, 2)
	PowInt(dst, base, 4, c)
	got := kernel.GetDouble(dst, testShift)
	within(t, got, 1.5*1.5*1.5*1.5, 1e-6, "PowInt(1.5,4)")
}

func TestPowMatchesExpLog(t *testing.T) {
	c := testConstants()
	base := loadDouble(2)
	exp := loadDouble(3)
	dst := make([]uint64, 2)
	Pow(dst, base, exp, c)
	got := kernel.GetDouble(dst, testShift)
	within(t, got, 8, 1e-3, "Pow(2,3)")
}
