// Package scriptservice provides a thread-safe stepping façade over the
// script package's lexer/parser/emitter/VM pipeline, shared by the CLI
// REPL, the TUI/GUI debuggers, and api/'s HTTP/WS layer — the same role
// service/debugger_service.go plays for an ARM vm.VM, generalized to a
// script.VM.
package scriptservice

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bnshell/bnshell/script"
	"github.com/bnshell/bnshell/script/expr"
)

// stepsBeforeYield bounds how many opcodes RunUntilHalt executes before
// briefly yielding, so a polling UI can observe intermediate state.
const stepsBeforeYield = 1000

// ExecutionState mirrors the ARM service's state enum, generalized to a
// script VM that has no memory-mapped breakpoints, only bytecode-offset
// ones.
type ExecutionState string

const (
	StateRunning    ExecutionState = "running"
	StateHalted     ExecutionState = "halted"
	StateBreakpoint ExecutionState = "breakpoint"
	StateError      ExecutionState = "error"
)

// BreakpointInfo describes one bytecode-offset breakpoint for UI display.
type BreakpointInfo struct {
	PC      int
	Enabled bool
}

// SysvarInfo is a snapshot of one declared sysvar, safe to hand to a
// caller without exposing the live *script.Sysvar.
type SysvarInfo struct {
	Name  string
	Type  script.BaseType
	State script.SysvarState
	Value script.Value
}

// Service is a thread-safe façade around a script.Namespace/VM pair.
// Like DebuggerService, it owns a single mutex guarding every field; any
// script package call that can block (none currently do — scripts have
// no blocking I/O) must release s.mu first, matching the lock-ordering
// rule that made the ARM service correct.
type Service struct {
	mu sync.RWMutex

	ns     *script.Namespace
	prog   *script.Program
	vm     *script.VM
	source string

	breakpoints map[int]bool
	running     bool
	lastErr     error

	history    []script.Value
	outputBuf  bytes.Buffer
	onOutput   func(string)
	onStateNew func()
}

// New creates a Service with a fresh Namespace and two built-in
// SysFunctions: "print", which appends each argument's formatted value to
// the service's output buffer, and "println", which does the same and then
// appends a newline.
func New() *Service {
	s := &Service{
		ns:          script.NewNamespace(),
		breakpoints: make(map[int]bool),
	}
	s.registerBuiltins()
	return s
}

// appendOutput is reached only from the print/println builtins, which run
// inside stepLocked or EvaluateExpression with s.mu already held, so it
// does not take s.mu itself.
func (s *Service) appendOutput(str string) {
	s.outputBuf.WriteString(str)
	if s.onOutput != nil {
		s.onOutput(str)
	}
}

// SetOutputCallback registers a callback fired every time script output is
// produced, for api/'s websocket broadcaster or a TUI's live output pane.
// The callback runs on the goroutine that is stepping the script, with
// s.mu held, so a call from it back into the Service blocks forever.
func (s *Service) SetOutputCallback(cb func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onOutput = cb
}

// SetStateChangedCallback registers a callback fired after any state
// transition (load, step, run, reset), for a GUI that needs to refresh
// on background-goroutine progress.
func (s *Service) SetStateChangedCallback(cb func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStateNew = cb
}

func (s *Service) notifyState() {
	s.mu.RLock()
	cb := s.onStateNew
	s.mu.RUnlock()
	if cb != nil {
		cb()
	}
}

// LoadSource lexes, parses and compiles src, replacing any previously
// loaded program. Declared sysvars from a prior program are cleared so a
// reload starts from a clean Namespace, matching DebuggerService.Reset's
// "clear loaded program and associated metadata" behavior.
func (s *Service) LoadSource(src string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := script.NewParser(src, "script.vt")
	stmts := p.ParseProgram()
	if p.Errors.HasErrors() {
		return fmt.Errorf("parse error: %s", p.Errors.Error())
	}

	em := script.NewEmitter(&script.ErrorList{})
	prog := em.Compile(stmts)

	s.source = src
	s.prog = prog
	s.ns = script.NewNamespace()
	s.registerBuiltins()
	s.vm = script.NewVM(s.ns, s.prog)
	s.breakpoints = make(map[int]bool)
	s.running = false
	s.lastErr = nil
	s.history = nil
	s.outputBuf.Reset()

	return nil
}

func (s *Service) registerBuiltins() {
	s.ns.RegisterFunction("print", func(args []script.Value) (script.Value, error) {
		for _, a := range args {
			s.appendOutput(a.String())
		}
		return script.Value{}, nil
	})
	s.ns.RegisterFunction("println", func(args []script.Value) (script.Value, error) {
		for _, a := range args {
			s.appendOutput(a.String())
		}
		s.appendOutput("\n")
		return script.Value{}, nil
	})
}

// Source returns the currently loaded script text.
func (s *Service) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Step executes exactly one opcode.
func (s *Service) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepLocked()
}

func (s *Service) stepLocked() error {
	if s.vm == nil {
		return fmt.Errorf("no script loaded")
	}
	if err := s.vm.Step(); err != nil {
		s.lastErr = err
		s.running = false
		return err
	}
	return nil
}

// Continue marks the VM as free-running; the actual opcode loop runs in
// RunUntilHalt, matching the ARM service's split between "arm the run
// state" (Continue) and "drive it" (RunUntilHalt), so a caller can launch
// RunUntilHalt in its own goroutine.
func (s *Service) Continue() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vm == nil {
		return fmt.Errorf("no script loaded")
	}
	s.running = true
	return nil
}

// Pause stops a RunUntilHalt loop at its next opcode boundary.
func (s *Service) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// Reset rewinds the VM to pc 0 with an empty stack, keeping the compiled
// program and declared sysvars (mirrors ResetToEntryPoint, not the
// full-clearing Reset).
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vm == nil {
		return fmt.Errorf("no script loaded")
	}
	s.vm.Reset()
	s.running = false
	s.lastErr = nil
	return nil
}

// IsRunning reports whether the VM is in free-run mode.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// GetExecutionState classifies the current state for UI display.
func (s *Service) GetExecutionState() ExecutionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.lastErr != nil:
		return StateError
	case s.vm == nil:
		return StateHalted
	case s.running:
		return StateRunning
	case s.breakpoints[s.vm.PC()] && !s.vm.Done():
		return StateBreakpoint
	default:
		return StateHalted
	}
}

// AddBreakpoint marks pc as a stopping point for RunUntilHalt.
func (s *Service) AddBreakpoint(pc int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prog == nil || pc < 0 || pc >= len(s.prog.Opcodes) {
		return fmt.Errorf("invalid breakpoint pc: %d", pc)
	}
	s.breakpoints[pc] = true
	return nil
}

// RemoveBreakpoint clears a previously set breakpoint.
func (s *Service) RemoveBreakpoint(pc int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.breakpoints, pc)
}

// GetBreakpoints returns all set breakpoints, ordered by pc.
func (s *Service) GetBreakpoints() []BreakpointInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]BreakpointInfo, 0, len(s.breakpoints))
	for pc, on := range s.breakpoints {
		out = append(out, BreakpointInfo{PC: pc, Enabled: on})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PC < out[j].PC })
	return out
}

// ClearAllBreakpoints removes every breakpoint.
func (s *Service) ClearAllBreakpoints() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breakpoints = make(map[int]bool)
}

// RunUntilHalt steps the VM until it returns, runs off the end, hits a
// breakpoint, errors, or Pause is called — the same four-way exit the ARM
// service's RunUntilHalt recognizes, minus the stdin-wait case (scripts
// have no blocking input).
func (s *Service) RunUntilHalt() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	count := 0
	for {
		s.mu.Lock()
		if !s.running || s.vm == nil || s.vm.Done() {
			s.running = false
			s.mu.Unlock()
			break
		}
		if count > 0 && s.breakpoints[s.vm.PC()] {
			s.running = false
			s.mu.Unlock()
			break
		}
		err := s.stepLocked()
		s.mu.Unlock()
		s.notifyState()

		if err != nil {
			return err
		}

		count++
		if count >= stepsBeforeYield {
			count = 0
			time.Sleep(time.Millisecond)
		}
	}
	s.notifyState()
	return nil
}

// GetSysvars returns a snapshot of every declared sysvar, sorted by name,
// for a variable-watch pane.
func (s *Service) GetSysvars() []SysvarInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ns == nil {
		return nil
	}
	vars := s.ns.All()
	out := make([]SysvarInfo, len(vars))
	for i, v := range vars {
		out[i] = SysvarInfo{Name: v.Name, Type: v.Type, State: v.State, Value: v.Value}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetStack returns a snapshot of the VM's current operand stack.
func (s *Service) GetStack() []script.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vm == nil {
		return nil
	}
	return s.vm.Stack()
}

// PC returns the bytecode offset of the next opcode to execute.
func (s *Service) PC() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vm == nil {
		return 0
	}
	return s.vm.PC()
}

// OpcodeCount returns the number of opcodes in the loaded program.
func (s *Service) OpcodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.prog == nil {
		return 0
	}
	return len(s.prog.Opcodes)
}

// GetOutput returns buffered script output produced since the last call
// and clears the buffer.
func (s *Service) GetOutput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.outputBuf.String()
	s.outputBuf.Reset()
	return out
}

// LastError returns the error that halted execution, if any.
func (s *Service) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// EvaluateExpression evaluates a one-line REPL expression against the
// service's Namespace and result history, appending the result to the
// history so a later expression can reference it as $N.
func (s *Service) EvaluateExpression(src string) (script.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ns == nil {
		s.ns = script.NewNamespace()
		s.registerBuiltins()
	}
	v, err := expr.Eval(src, s.ns, s.history)
	if err != nil {
		return script.Value{}, err
	}
	s.history = append(s.history, v)
	return v, nil
}

// History returns a copy of the $N result history built up by
// EvaluateExpression.
func (s *Service) History() []script.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]script.Value(nil), s.history...)
}
