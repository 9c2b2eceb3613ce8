package expr

import (
	"testing"

	"github.com/bnshell/bnshell/script"
)

func TestEvalArithmetic(t *testing.T) {
	ns := script.NewNamespace()
	tests := []struct {
		name string
		src  string
		want int64
	}{
		{"Decimal", "42", 42},
		{"Hex", "0x100", 0x100},
		{"Negative", "-1", -1},
		{"Precedence", "2 + 3 * 4", 14},
		{"Parens", "(2 + 3) * 4", 20},
		{"Shift", "1 << 4", 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.src, ns, nil)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got.AsInt64() != tt.want {
				t.Errorf("Eval(%q) = %d, want %d", tt.src, got.AsInt64(), tt.want)
			}
		})
	}
}

func TestEvalSymbol(t *testing.T) {
	ns := script.NewNamespace()
	if err := ns.Declare("x", script.BaseI32); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	sv, _ := ns.Lookup("x")
	sv.Value = script.IntValue(script.BaseI32, 99)

	got, err := Eval("x + 1", ns, nil)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got.AsInt64() != 100 {
		t.Errorf("got %d, want 100", got.AsInt64())
	}
}

func TestEvalValueRef(t *testing.T) {
	ns := script.NewNamespace()
	history := []script.Value{script.IntValue(script.BaseI32, 7)}
	got, err := Eval("$1 * 6", ns, history)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got.AsInt64() != 42 {
		t.Errorf("got %d, want 42", got.AsInt64())
	}
}

func TestEvalDivideByZero(t *testing.T) {
	ns := script.NewNamespace()
	if _, err := Eval("1 / 0", ns, nil); err == nil {
		t.Fatal("expected divide-by-zero error")
	}
}
