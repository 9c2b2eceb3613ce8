package scriptservice

import "testing"

func TestLoadAndRunUntilHalt(t *testing.T) {
	s := New()
	if err := s.LoadSource("i32 total; total = 0; total = total + 41; total = total + 1; return total;"); err != nil {
		t.Fatalf("LoadSource() error = %v", err)
	}
	if err := s.Continue(); err != nil {
		t.Fatalf("Continue() error = %v", err)
	}
	if err := s.RunUntilHalt(); err != nil {
		t.Fatalf("RunUntilHalt() error = %v", err)
	}
	if state := s.GetExecutionState(); state != StateHalted {
		t.Errorf("expected StateHalted, got %v", state)
	}
}

func TestStepAdvancesPC(t *testing.T) {
	s := New()
	if err := s.LoadSource("return 1 + 2;"); err != nil {
		t.Fatalf("LoadSource() error = %v", err)
	}
	start := s.PC()
	if err := s.Step(); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if s.PC() <= start {
		t.Errorf("expected PC to advance past %d, got %d", start, s.PC())
	}
}

func TestBreakpointStopsRunUntilHalt(t *testing.T) {
	s := New()
	if err := s.LoadSource("i32 x; x = 0; x = x + 1; x = x + 1; return x;"); err != nil {
		t.Fatalf("LoadSource() error = %v", err)
	}
	if err := s.AddBreakpoint(s.OpcodeCount() - 1); err != nil {
		t.Fatalf("AddBreakpoint() error = %v", err)
	}
	if err := s.Continue(); err != nil {
		t.Fatalf("Continue() error = %v", err)
	}
	if err := s.RunUntilHalt(); err != nil {
		t.Fatalf("RunUntilHalt() error = %v", err)
	}
	if s.IsRunning() {
		t.Error("expected execution to stop at breakpoint")
	}
	if s.PC() >= s.OpcodeCount() {
		t.Errorf("expected PC to stop before the end of the program, got %d/%d", s.PC(), s.OpcodeCount())
	}
}

func TestSysvarsSnapshot(t *testing.T) {
	s := New()
	if err := s.LoadSource("i32 counter; counter = 7; return counter;"); err != nil {
		t.Fatalf("LoadSource() error = %v", err)
	}
	if err := s.Continue(); err != nil {
		t.Fatalf("Continue() error = %v", err)
	}
	if err := s.RunUntilHalt(); err != nil {
		t.Fatalf("RunUntilHalt() error = %v", err)
	}
	vars := s.GetSysvars()
	if len(vars) != 1 || vars[0].Name != "counter" {
		t.Fatalf("expected one sysvar named counter, got %+v", vars)
	}
	if vars[0].Value.AsInt64() != 7 {
		t.Errorf("expected counter == 7, got %d", vars[0].Value.AsInt64())
	}
}

func TestPrintBuiltinProducesOutput(t *testing.T) {
	s := New()
	if err := s.LoadSource(`println(42);`); err != nil {
		t.Fatalf("LoadSource() error = %v", err)
	}
	if err := s.Continue(); err != nil {
		t.Fatalf("Continue() error = %v", err)
	}
	if err := s.RunUntilHalt(); err != nil {
		t.Fatalf("RunUntilHalt() error = %v", err)
	}
	out := s.GetOutput()
	if out != "42\n" {
		t.Errorf("expected output %q, got %q", "42\n", out)
	}
}

func TestEvaluateExpressionHistory(t *testing.T) {
	s := New()
	first, err := s.EvaluateExpression("2 + 2")
	if err != nil {
		t.Fatalf("EvaluateExpression() error = %v", err)
	}
	if first.AsInt64() != 4 {
		t.Fatalf("expected 4, got %d", first.AsInt64())
	}
	second, err := s.EvaluateExpression("$1 * 10")
	if err != nil {
		t.Fatalf("EvaluateExpression($1) error = %v", err)
	}
	if second.AsInt64() != 40 {
		t.Errorf("expected 40, got %d", second.AsInt64())
	}
}

func TestDivideByZeroSetsErrorState(t *testing.T) {
	s := New()
	if err := s.LoadSource("return 1 / 0;"); err != nil {
		t.Fatalf("LoadSource() error = %v", err)
	}
	if err := s.Continue(); err != nil {
		t.Fatalf("Continue() error = %v", err)
	}
	if err := s.RunUntilHalt(); err == nil {
		t.Fatal("expected RunUntilHalt() to return an error")
	}
	if state := s.GetExecutionState(); state != StateError {
		t.Errorf("expected StateError, got %v", state)
	}
	if s.LastError() == nil {
		t.Error("expected LastError() to be non-nil")
	}
}
