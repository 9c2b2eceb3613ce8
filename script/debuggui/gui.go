// Package debuggui is a minimal fyne desktop inspector over a script VM,
// adapted from debugger/gui.go's layout (source/registers/memory/stack
// panels + toolbar + console) with the ARM register/memory panels
// replaced by a sysvar watch panel and a bytecode/stack panel.
package debuggui

import (
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/bnshell/bnshell/internal/scriptservice"
	"github.com/bnshell/bnshell/script"
)

// GUI is the fyne desktop inspector window.
type GUI struct {
	Service *scriptservice.Service
	App     fyne.App
	Window  fyne.Window

	SourceView      *widget.TextGrid
	SysvarView      *widget.TextGrid
	StackView       *widget.TextGrid
	BytecodeView    *widget.TextGrid
	BreakpointsList *widget.List
	ConsoleOutput   *widget.TextGrid
	StatusLabel     *widget.Label

	Toolbar *widget.Toolbar

	breakpoints []string

	consoleBuffer strings.Builder
	consoleMutex  sync.Mutex
}

// RunGUI creates and runs the inspector, blocking until the window closes.
func RunGUI(svc *scriptservice.Service) error {
	g := newGUI(svc)
	g.Window.ShowAndRun()
	return nil
}

func newGUI(svc *scriptservice.Service) *GUI {
	myApp := app.New()
	myWindow := myApp.NewWindow("bnshell script inspector")

	g := &GUI{
		Service:     svc,
		App:         myApp,
		Window:      myWindow,
		breakpoints: []string{},
	}

	g.initializeViews()
	g.buildLayout()
	g.setupToolbar()

	svc.SetOutputCallback(func(s string) {
		g.consoleMutex.Lock()
		g.consoleBuffer.WriteString(s)
		g.consoleMutex.Unlock()
		g.updateConsole()
	})
	svc.SetStateChangedCallback(g.updateViews)

	myWindow.Resize(fyne.NewSize(1200, 800))

	return g
}

func (g *GUI) initializeViews() {
	g.SourceView = widget.NewTextGrid()
	g.SourceView.SetText("No script loaded")

	g.SysvarView = widget.NewTextGrid()
	g.updateSysvars()

	g.StackView = widget.NewTextGrid()
	g.updateStack()

	g.BytecodeView = widget.NewTextGrid()
	g.updateBytecode()

	g.breakpoints = []string{}
	g.BreakpointsList = widget.NewList(
		func() int { return len(g.breakpoints) },
		func() fyne.CanvasObject { return widget.NewLabel("template") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(g.breakpoints[id])
		},
	)

	g.ConsoleOutput = widget.NewTextGrid()
	g.ConsoleOutput.SetText("")

	g.StatusLabel = widget.NewLabel("Ready")
}

func (g *GUI) buildLayout() {
	sourcePanel := container.NewBorder(
		widget.NewLabel("Source"), nil, nil, nil,
		container.NewScroll(g.SourceView),
	)
	sysvarPanel := container.NewBorder(
		widget.NewLabel("Sysvars"), nil, nil, nil,
		container.NewScroll(g.SysvarView),
	)
	stackPanel := container.NewBorder(
		widget.NewLabel("Stack"), nil, nil, nil,
		container.NewScroll(g.StackView),
	)
	bytecodePanel := container.NewBorder(
		widget.NewLabel("Bytecode"), nil, nil, nil,
		container.NewScroll(g.BytecodeView),
	)
	breakpointsPanel := container.NewBorder(
		widget.NewLabel("Breakpoints"), nil, nil, nil,
		container.NewScroll(g.BreakpointsList),
	)
	consolePanel := container.NewBorder(
		widget.NewLabel("Console"), nil, nil, nil,
		container.NewScroll(g.ConsoleOutput),
	)

	leftPanel := container.NewMax(sourcePanel)

	rightTop := container.NewVSplit(sysvarPanel, breakpointsPanel)
	rightTop.SetOffset(0.6)

	bottomTabs := container.NewAppTabs(
		container.NewTabItem("Bytecode", bytecodePanel),
		container.NewTabItem("Stack", stackPanel),
		container.NewTabItem("Console", consolePanel),
	)

	rightPanel := container.NewVSplit(rightTop, bottomTabs)
	rightPanel.SetOffset(0.5)

	mainSplit := container.NewHSplit(leftPanel, rightPanel)
	mainSplit.SetOffset(0.55)

	statusBar := container.NewBorder(nil, nil, nil, nil, g.StatusLabel)

	content := container.NewBorder(g.Toolbar, statusBar, nil, nil, mainSplit)
	g.Window.SetContent(content)
}

func (g *GUI) setupToolbar() {
	g.Toolbar = widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaPlayIcon(), g.continueProgram),
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), g.stepProgram),
		widget.NewToolbarAction(theme.MediaStopIcon(), g.stopProgram),
		widget.NewToolbarAction(theme.ViewRestoreIcon(), g.resetProgram),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentAddIcon(), g.addBreakpoint),
		widget.NewToolbarAction(theme.ContentClearIcon(), g.clearBreakpoints),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), g.refreshViews),
	)
}

func (g *GUI) updateViews() {
	g.updateSource()
	g.updateSysvars()
	g.updateBytecode()
	g.updateStack()
	g.updateBreakpoints()
	g.updateConsole()
}

func (g *GUI) updateSource() {
	src := g.Service.Source()
	if src == "" {
		g.SourceView.SetText("No script loaded")
		return
	}
	g.SourceView.SetText(src)
}

func (g *GUI) updateSysvars() {
	var sb strings.Builder
	sb.WriteString("Sysvars:\n")
	sb.WriteString("────────────────────────\n")
	for _, v := range g.Service.GetSysvars() {
		state := "alive"
		if v.State == script.SysvarDisabled {
			state = "disabled"
		}
		sb.WriteString(fmt.Sprintf("%-16s = %-20s (%s)\n", v.Name, v.Value.String(), state))
	}
	g.SysvarView.SetText(sb.String())
}

func (g *GUI) updateBytecode() {
	var sb strings.Builder
	pc := g.Service.PC()
	total := g.Service.OpcodeCount()
	sb.WriteString(fmt.Sprintf("pc=%d / %d opcodes\n", pc, total))
	sb.WriteString("────────────────────────\n")
	start := pc - 8
	if start < 0 {
		start = 0
	}
	end := start + 24
	if end > total {
		end = total
	}
	for i := start; i < end; i++ {
		prefix := "  "
		if i == pc {
			prefix = "> "
		}
		sb.WriteString(fmt.Sprintf("%s%04d\n", prefix, i))
	}
	g.BytecodeView.SetText(sb.String())
}

func (g *GUI) updateStack() {
	var sb strings.Builder
	sb.WriteString("Operand stack (top last):\n")
	sb.WriteString("────────────────────────\n")
	for i, v := range g.Service.GetStack() {
		sb.WriteString(fmt.Sprintf("%3d: %s\n", i, v.String()))
	}
	g.StackView.SetText(sb.String())
}

func (g *GUI) updateBreakpoints() {
	bps := g.Service.GetBreakpoints()
	g.breakpoints = make([]string, 0, len(bps))
	for _, bp := range bps {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		g.breakpoints = append(g.breakpoints, fmt.Sprintf("pc %d (%s)", bp.PC, status))
	}
	g.BreakpointsList.Refresh()
}

func (g *GUI) updateConsole() {
	g.consoleMutex.Lock()
	defer g.consoleMutex.Unlock()
	g.ConsoleOutput.SetText(g.consoleBuffer.String())
}

func (g *GUI) continueProgram() {
	g.StatusLabel.SetText("Running...")
	if err := g.Service.Continue(); err != nil {
		g.StatusLabel.SetText(fmt.Sprintf("Error: %v", err))
		return
	}
	go func() {
		if err := g.Service.RunUntilHalt(); err != nil {
			g.StatusLabel.SetText(fmt.Sprintf("Error: %v", err))
			return
		}
		g.StatusLabel.SetText(fmt.Sprintf("Stopped at pc=%d", g.Service.PC()))
		g.updateViews()
	}()
}

func (g *GUI) stepProgram() {
	if err := g.Service.Step(); err != nil {
		g.StatusLabel.SetText(fmt.Sprintf("Error: %v", err))
		return
	}
	g.StatusLabel.SetText(fmt.Sprintf("Stepped to pc=%d", g.Service.PC()))
	g.updateViews()
}

func (g *GUI) stopProgram() {
	g.Service.Pause()
	g.StatusLabel.SetText("Stopped")
	g.updateViews()
}

func (g *GUI) resetProgram() {
	if err := g.Service.Reset(); err != nil {
		g.StatusLabel.SetText(fmt.Sprintf("Error: %v", err))
		return
	}
	g.StatusLabel.SetText("Reset to pc=0")
	g.updateViews()
}

func (g *GUI) addBreakpoint() {
	pc := g.Service.PC()
	if err := g.Service.AddBreakpoint(pc); err != nil {
		g.StatusLabel.SetText(fmt.Sprintf("Error: %v", err))
		return
	}
	g.updateBreakpoints()
	g.StatusLabel.SetText(fmt.Sprintf("Breakpoint added at pc=%d", pc))
}

func (g *GUI) clearBreakpoints() {
	g.Service.ClearAllBreakpoints()
	g.updateBreakpoints()
	g.StatusLabel.SetText("All breakpoints cleared")
}

func (g *GUI) refreshViews() {
	g.updateViews()
	g.StatusLabel.SetText("Views refreshed")
}
