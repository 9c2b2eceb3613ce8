// Package debugtui is a tcell/tview step debugger over a script VM,
// adapted from debugger/tui.go's layout (source pane, register-style
// pane, stack pane, bytecode/disassembly pane, breakpoints pane, output
// pane, command input) with the ARM register/memory views replaced by a
// bytecode pane and a sysvar watch pane.
package debugtui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/bnshell/bnshell/internal/scriptservice"
	"github.com/bnshell/bnshell/script"
)

// TUI is the text user interface for a script debugging session.
type TUI struct {
	Service *scriptservice.Service

	App   *tview.Application
	Pages *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	SourceView      *tview.TextView
	SysvarView      *tview.TextView
	StackView       *tview.TextView
	BytecodeView    *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI creates a new TUI wired to svc.
func NewTUI(svc *scriptservice.Service) *TUI {
	t := &TUI{
		Service: svc,
		App:     tview.NewApplication(),
	}

	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()

	return t
}

func (t *TUI) initializeViews() {
	t.SourceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.SourceView.SetBorder(true).SetTitle(" Source ")

	t.SysvarView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.SysvarView.SetBorder(true).SetTitle(" Sysvars ")

	t.StackView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.StackView.SetBorder(true).SetTitle(" Stack ")

	t.BytecodeView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.BytecodeView.SetBorder(true).SetTitle(" Bytecode ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.SourceView, 0, 3, false).
		AddItem(t.BytecodeView, 0, 2, false)

	rightTop := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.SysvarView, 0, 1, false).
		AddItem(t.StackView, 0, 1, false)

	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(rightTop, 0, 3, false).
		AddItem(t.BreakpointsView, 8, 0, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.LeftPanel, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.runCommand(func() error { return t.Service.Continue() }, true)
			return nil
		case tcell.KeyF9:
			t.toggleBreakpointAtPC()
			return nil
		case tcell.KeyF11:
			t.runCommand(t.Service.Step, false)
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) toggleBreakpointAtPC() {
	pc := t.Service.PC()
	for _, bp := range t.Service.GetBreakpoints() {
		if bp.PC == pc {
			t.Service.RemoveBreakpoint(pc)
			t.RefreshAll()
			return
		}
	}
	_ = t.Service.AddBreakpoint(pc)
	t.RefreshAll()
}

func (t *TUI) runCommand(fn func() error, drive bool) {
	if err := fn(); err != nil {
		t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
	}
	if drive {
		if err := t.Service.RunUntilHalt(); err != nil {
			t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
		}
	}
	if out := t.Service.GetOutput(); out != "" {
		t.WriteOutput(out)
	}
	t.RefreshAll()
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := strings.TrimSpace(t.CommandInput.GetText())
	t.CommandInput.SetText("")
	if cmd == "" {
		return
	}
	switch cmd {
	case "step", "s":
		t.runCommand(t.Service.Step, false)
	case "continue", "c":
		t.runCommand(func() error { return t.Service.Continue() }, true)
	case "reset", "r":
		t.runCommand(t.Service.Reset, false)
	default:
		v, err := t.Service.EvaluateExpression(cmd)
		if err != nil {
			t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
		} else {
			t.WriteOutput(fmt.Sprintf("= %s\n", v.String()))
		}
		t.RefreshAll()
	}
}

// WriteOutput appends text to the output pane.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every pane from the current service state.
func (t *TUI) RefreshAll() {
	t.UpdateSourceView()
	t.UpdateBytecodeView()
	t.UpdateSysvarView()
	t.UpdateStackView()
	t.UpdateBreakpointsView()
	t.App.Draw()
}

// UpdateSourceView shows the loaded script text, without a live
// PC-to-line cursor: script/ast.go carries no source-position
// information to map a bytecode offset back to a line (see DESIGN.md).
func (t *TUI) UpdateSourceView() {
	src := t.Service.Source()
	if src == "" {
		t.SourceView.SetText("[yellow]No script loaded[white]")
		return
	}
	t.SourceView.SetText(src)
}

// UpdateBytecodeView shows the next few opcodes around the current pc.
// Since script.Program exposes only Opcodes/Names (no per-opcode String
// method) and the service exposes only the opcode count, this prints each
// opcode's index with pc and breakpoint markers rather than a
// disassembled mnemonic.
func (t *TUI) UpdateBytecodeView() {
	pc := t.Service.PC()
	total := t.Service.OpcodeCount()

	var lines []string
	start := pc - 8
	if start < 0 {
		start = 0
	}
	end := start + 24
	if end > total {
		end = total
	}

	for i := start; i < end; i++ {
		marker := "  "
		color := "white"
		if i == pc {
			marker = "->"
			color = "yellow"
		}
		for _, bp := range t.Service.GetBreakpoints() {
			if bp.PC == i {
				marker = "* "
			}
		}
		lines = append(lines, fmt.Sprintf("[%s]%s %04d[white]", color, marker, i))
	}
	t.BytecodeView.SetText(strings.Join(lines, "\n"))
}

// UpdateSysvarView lists every declared sysvar and its current value.
func (t *TUI) UpdateSysvarView() {
	var lines []string
	for _, v := range t.Service.GetSysvars() {
		state := "alive"
		if v.State == script.SysvarDisabled {
			state = "[red]disabled[white]"
		}
		lines = append(lines, fmt.Sprintf("%-16s = %-20s (%s)", v.Name, v.Value.String(), state))
	}
	if len(lines) == 0 {
		lines = append(lines, "[yellow]No sysvars declared[white]")
	}
	t.SysvarView.SetText(strings.Join(lines, "\n"))
}

// UpdateStackView shows the VM's current operand stack, top last.
func (t *TUI) UpdateStackView() {
	stack := t.Service.GetStack()
	var lines []string
	for i, v := range stack {
		lines = append(lines, fmt.Sprintf("%3d: %s", i, v.String()))
	}
	if len(lines) == 0 {
		lines = append(lines, "[yellow]<empty>[white]")
	}
	t.StackView.SetText(strings.Join(lines, "\n"))
}

// UpdateBreakpointsView lists every bytecode-offset breakpoint.
func (t *TUI) UpdateBreakpointsView() {
	bps := t.Service.GetBreakpoints()
	if len(bps) == 0 {
		t.BreakpointsView.SetText("[yellow]No breakpoints set[white]")
		return
	}
	var lines []string
	for _, bp := range bps {
		status := "enabled"
		color := "green"
		if !bp.Enabled {
			status = "disabled"
			color = "red"
		}
		lines = append(lines, fmt.Sprintf("pc %04d: [%s]%s[white]", bp.PC, color, status))
	}
	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI event loop.
func (t *TUI) Run() error {
	t.RefreshAll()
	t.WriteOutput("[green]bnshell script debugger[white]\n")
	t.WriteOutput("F11 step, F5 continue, F9 toggle breakpoint at pc, Ctrl-L redraw, Ctrl-C quit\n\n")
	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop stops the TUI event loop.
func (t *TUI) Stop() {
	t.App.Stop()
}
