package script

import "testing"

func run(t *testing.T, src string, ns *Namespace) (Value, error) {
	t.Helper()
	p := NewParser(src, "test.vt")
	stmts := p.ParseProgram()
	if p.Errors.HasErrors() {
		t.Fatalf("parse errors: %s", p.Errors.Error())
	}
	em := NewEmitter(&ErrorList{})
	prog := em.Compile(stmts)
	if em.errs.HasErrors() {
		t.Fatalf("emit errors: %s", em.errs.Error())
	}
	vm := NewVM(ns, prog)
	return vm.Run()
}

func TestArithmeticPrecedence(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int64
	}{
		{"mul before add", "return 2 + 3 * 4;", 14},
		{"parens override", "return (2 + 3) * 4;", 20},
		{"unary minus", "return -5 + 10;", 5},
		{"shift vs bitwise", "return 1 << 2 | 1;", 5},
		{"compare", "return 3 < 5;", 1},
		{"rotate", "return 1 <<< 1;", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.src, NewNamespace())
			if err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if got.AsInt64() != tt.want {
				t.Errorf("run(%q) = %d, want %d", tt.src, got.AsInt64(), tt.want)
			}
		})
	}
}

func TestSysvarDeclareAssignDelete(t *testing.T) {
	ns := NewNamespace()
	got, err := run(t, `i32 counter; counter = 41; counter = counter + 1; delete counter; return counter;`, ns)
	if err == nil {
		t.Fatalf("expected ErrorDisabledSysvar reading counter after delete, got value %v", got)
	}
	if serr, ok := err.(*Error); !ok || serr.Kind != ErrorDisabledSysvar {
		t.Fatalf("expected ErrorDisabledSysvar, got %v", err)
	}
}

func TestWhileLoop(t *testing.T) {
	ns := NewNamespace()
	got, err := run(t, `
		i32 n;
		n = 0;
		i32 sum;
		sum = 0;
		while (n < 5) {
			sum = sum + n;
			n = n + 1;
		}
		return sum;
	`, ns)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got.AsInt64() != 10 {
		t.Errorf("got %d, want 10", got.AsInt64())
	}
}

func TestIfElse(t *testing.T) {
	tests := []struct {
		name string
		x    string
		want int64
	}{
		{"then branch", "3", 1},
		{"else branch", "-3", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "i32 x; x = " + tt.x + "; if (x > 0) { return 1; } else { return 0; }"
			got, err := run(t, src, NewNamespace())
			if err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if got.AsInt64() != tt.want {
				t.Errorf("got %d, want %d", got.AsInt64(), tt.want)
			}
		})
	}
}

func TestSysFunctionCall(t *testing.T) {
	ns := NewNamespace()
	ns.RegisterFunction("double", func(args []Value) (Value, error) {
		return IntValue(BaseI32, args[0].AsInt64()*2), nil
	})
	got, err := run(t, "return double(21);", ns)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got.AsInt64() != 42 {
		t.Errorf("got %d, want 42", got.AsInt64())
	}
}

func TestDivideByZeroError(t *testing.T) {
	_, err := run(t, "i32 x; x = 0; return 1 / x;", NewNamespace())
	if err == nil {
		t.Fatal("expected divide-by-zero error")
	}
	if serr, ok := err.(*Error); !ok || serr.Kind != ErrorDivideByZero {
		t.Fatalf("expected ErrorDivideByZero, got %v", err)
	}
}
