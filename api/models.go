package api

import (
	"time"

	"github.com/bnshell/bnshell/internal/scriptservice"
	"github.com/bnshell/bnshell/script"
)

// SessionCreateRequest represents a request to create a new script session.
// Source is optional — a session can be created empty and loaded later via
// handleLoadSource.
type SessionCreateRequest struct {
	Source string `json:"source,omitempty"`
}

// SessionCreateResponse represents the response from creating a session.
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStatusResponse represents the current status of a session.
type SessionStatusResponse struct {
	SessionID   string `json:"sessionId"`
	State       string `json:"state"`
	PC          int    `json:"pc"`
	OpcodeCount int    `json:"opcodeCount"`
	Error       string `json:"error,omitempty"`
}

// LoadSourceRequest represents a request to (re)load script source into a session.
type LoadSourceRequest struct {
	Source string `json:"source"`
}

// LoadSourceResponse represents the response from loading script source.
type LoadSourceResponse struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

// SysvarResponse represents one declared sysvar's current value.
type SysvarResponse struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	State string `json:"state"`
	Value string `json:"value"`
}

// SysvarsResponse represents every declared sysvar in a session.
type SysvarsResponse struct {
	Sysvars []SysvarResponse `json:"sysvars"`
}

// StackResponse represents the VM's current operand stack, top last.
type StackResponse struct {
	Values []string `json:"values"`
}

// BreakpointRequest represents a request to add/remove a bytecode-offset breakpoint.
type BreakpointRequest struct {
	PC int `json:"pc"`
}

// BreakpointInfo mirrors scriptservice.BreakpointInfo with JSON tags for the wire.
type BreakpointInfo struct {
	PC      int  `json:"pc"`
	Enabled bool `json:"enabled"`
}

// BreakpointsResponse represents a list of breakpoints.
type BreakpointsResponse struct {
	Breakpoints []BreakpointInfo `json:"breakpoints"`
}

// EvaluateRequest represents a request to evaluate a REPL expression.
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse represents the result of an evaluated expression.
type EvaluateResponse struct {
	Value string `json:"value"`
}

// OutputResponse represents buffered script output drained since the last call.
type OutputResponse struct {
	Output string `json:"output"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse represents a simple success response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Event represents a WebSocket event envelope.
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// StateEvent represents a state change event.
type StateEvent struct {
	State       string `json:"state"`
	PC          int    `json:"pc"`
	OpcodeCount int    `json:"opcodeCount"`
}

// OutputEvent represents console output pushed over the WebSocket.
type OutputEvent struct {
	Stream  string `json:"stream"` // "stdout" (scripts have no stderr stream)
	Content string `json:"content"`
}

// ExecutionEvent represents execution events like breakpoints.
type ExecutionEvent struct {
	Event   string `json:"event"` // "breakpoint_hit", "error", "halted"
	PC      int    `json:"pc,omitempty"`
	Message string `json:"message,omitempty"`
}

// ConfigResponse represents server-side default configuration handed to a
// front end at startup.
type ConfigResponse struct {
	Execution ExecutionConfig `json:"execution"`
	Debugger  DebuggerConfig  `json:"debugger"`
	Display   DisplayConfig   `json:"display"`
}

// ExecutionConfig controls default run behavior.
type ExecutionConfig struct {
	MaxOpcodesPerYield int  `json:"maxOpcodesPerYield"`
	EnableTrace        bool `json:"enableTrace"`
}

// DebuggerConfig controls default debugger front-end behavior.
type DebuggerConfig struct {
	HistorySize    int  `json:"historySize"`
	AutoSaveBreaks bool `json:"autoSaveBreaks"`
	ShowSource     bool `json:"showSource"`
	ShowSysvars    bool `json:"showSysvars"`
}

// DisplayConfig controls default rendering choices.
type DisplayConfig struct {
	ColorOutput   bool   `json:"colorOutput"`
	BytecodeLines int    `json:"bytecodeLines"`
	SourceContext int    `json:"sourceContext"`
	NumberFormat  string `json:"numberFormat"`
}

// ExampleInfo describes one bundled example script.
type ExampleInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ExamplesResponse lists every bundled example script.
type ExamplesResponse struct {
	Examples []ExampleInfo `json:"examples"`
	Count    int           `json:"count"`
}

// ExampleContentResponse carries the full text of one example script.
type ExampleContentResponse struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

// ToSysvarResponse converts a scriptservice.SysvarInfo to its wire form.
func ToSysvarResponse(v scriptservice.SysvarInfo) SysvarResponse {
	state := "alive"
	if v.State == script.SysvarDisabled {
		state = "disabled"
	}
	return SysvarResponse{
		Name:  v.Name,
		Type:  v.Type.String(),
		State: state,
		Value: v.Value.String(),
	}
}

// ToBreakpointInfo converts a scriptservice.BreakpointInfo to its wire form.
func ToBreakpointInfo(bp scriptservice.BreakpointInfo) BreakpointInfo {
	return BreakpointInfo{PC: bp.PC, Enabled: bp.Enabled}
}
