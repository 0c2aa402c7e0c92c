package debugger

import (
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/cesiumlabs/mips32sim/vm"
)

// GUI is the graphical front end for the debugger, built on Fyne.
type GUI struct {
	Debugger *Debugger
	App      fyne.App
	Window   fyne.Window

	SourceView      *widget.TextGrid
	RegisterView    *widget.TextGrid
	MemoryView      *widget.TextGrid
	StackView       *widget.TextGrid
	BreakpointsList *widget.List
	ConsoleOutput   *widget.TextGrid
	StatusLabel     *widget.Label

	Toolbar *widget.Toolbar

	CurrentAddress uint32
	MemoryAddress  uint32
	StackAddress   uint32
	running        bool
	runningMu      sync.Mutex

	SourceLines []string
	SourceFile  string

	breakpoints []string

	consoleSeen int
}

// RunGUI launches the graphical debugger and blocks until the window
// is closed.
func RunGUI(dbg *Debugger) error {
	gui := newGUI(dbg)
	gui.Window.ShowAndRun()
	return nil
}

func newGUI(debugger *Debugger) *GUI {
	myApp := app.New()
	myWindow := myApp.NewWindow("MIPS32 Simulator Debugger")

	gui := &GUI{
		Debugger:    debugger,
		App:         myApp,
		Window:      myWindow,
		breakpoints: []string{},
	}

	gui.initializeViews()
	gui.buildLayout()
	gui.setupToolbar()

	myWindow.Resize(fyne.NewSize(1400, 900))

	return gui
}

func (g *GUI) initializeViews() {
	g.SourceView = widget.NewTextGrid()
	g.SourceView.SetText("No source file loaded")

	g.RegisterView = widget.NewTextGrid()
	g.updateRegisters()

	g.MemoryView = widget.NewTextGrid()
	g.updateMemory()

	g.StackView = widget.NewTextGrid()
	g.updateStack()

	g.breakpoints = []string{}
	g.BreakpointsList = widget.NewList(
		func() int {
			return len(g.breakpoints)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
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
		widget.NewLabel("Source"),
		nil, nil, nil,
		container.NewScroll(g.SourceView),
	)

	registerPanel := container.NewBorder(
		widget.NewLabel("Registers"),
		nil, nil, nil,
		container.NewScroll(g.RegisterView),
	)

	memoryPanel := container.NewBorder(
		widget.NewLabel("Memory"),
		nil, nil, nil,
		container.NewScroll(g.MemoryView),
	)

	stackPanel := container.NewBorder(
		widget.NewLabel("Stack"),
		nil, nil, nil,
		container.NewScroll(g.StackView),
	)

	breakpointsPanel := container.NewBorder(
		widget.NewLabel("Breakpoints"),
		nil, nil, nil,
		container.NewScroll(g.BreakpointsList),
	)

	consolePanel := container.NewBorder(
		widget.NewLabel("Console Output"),
		nil, nil, nil,
		container.NewScroll(g.ConsoleOutput),
	)

	leftPanel := container.NewMax(sourcePanel)

	rightTop := container.NewVSplit(registerPanel, breakpointsPanel)
	rightTop.SetOffset(0.6)

	bottomTabs := container.NewAppTabs(
		container.NewTabItem("Memory", memoryPanel),
		container.NewTabItem("Stack", stackPanel),
		container.NewTabItem("Console", consolePanel),
	)

	rightPanel := container.NewVSplit(rightTop, bottomTabs)
	rightPanel.SetOffset(0.5)

	mainSplit := container.NewHSplit(leftPanel, rightPanel)
	mainSplit.SetOffset(0.55)

	statusBar := container.NewBorder(nil, nil, nil, nil, g.StatusLabel)

	content := container.NewBorder(
		g.Toolbar,
		statusBar,
		nil,
		nil,
		mainSplit,
	)

	g.Window.SetContent(content)
}

func (g *GUI) setupToolbar() {
	g.Toolbar = widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaPlayIcon(), func() {
			g.runProgram()
		}),
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), func() {
			g.stepProgram()
		}),
		widget.NewToolbarAction(theme.MediaFastForwardIcon(), func() {
			g.continueProgram()
		}),
		widget.NewToolbarAction(theme.MediaStopIcon(), func() {
			g.stopProgram()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentAddIcon(), func() {
			g.addBreakpoint()
		}),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() {
			g.clearBreakpoints()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() {
			g.refreshViews()
		}),
	)
}

func (g *GUI) updateViews() {
	g.updateSource()
	g.updateRegisters()
	g.updateMemory()
	g.updateStack()
	g.updateBreakpoints()
	g.updateConsole()
}

func (g *GUI) updateSource() {
	pc := g.Debugger.Driver.Machine.GetPC()

	if len(g.SourceLines) > 0 {
		var sb strings.Builder
		currentSourceLine := ""
		if g.Debugger.SourceMap != nil {
			if line, ok := g.Debugger.SourceMap[pc]; ok {
				currentSourceLine = line
			}
		}

		for i, line := range g.SourceLines {
			prefix := "  "
			if line == currentSourceLine {
				prefix = "-> "
			}
			sb.WriteString(fmt.Sprintf("%s%4d: %s\n", prefix, i+1, line))
		}
		g.SourceView.SetText(sb.String())
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Current word: %d\n\n", pc))
	if source, ok := g.Debugger.SourceMap[pc]; ok {
		sb.WriteString(fmt.Sprintf("-> %s\n", source))
	} else {
		sb.WriteString("No source mapping available\n")
	}
	g.SourceView.SetText(sb.String())
}

// updateRegisters redraws all 32 GPRs plus HI/LO/PC. There is no
// status-flags register to show — MIPS32 keeps comparison results in
// ordinary registers (slt/sltu), unlike the source's CPSR.
func (g *GUI) updateRegisters() {
	var sb strings.Builder
	m := g.Debugger.Driver.Machine

	sb.WriteString("General Purpose Registers:\n")
	sb.WriteString(strings.Repeat("-", 30) + "\n")
	for i, name := range registerDisplayOrder {
		v := m.ReadReg(i)
		sb.WriteString(fmt.Sprintf("%-5s: 0x%08X  (%d)\n", name, v, int32(v)))
	}

	sb.WriteString("\nSpecial Registers:\n")
	sb.WriteString(strings.Repeat("-", 30) + "\n")
	sb.WriteString(fmt.Sprintf("pc:   %d\n", m.GetPC()))
	sb.WriteString(fmt.Sprintf("hi:   0x%08X  (%d)\n", m.ReadHI(), int32(m.ReadHI())))
	sb.WriteString(fmt.Sprintf("lo:   0x%08X  (%d)\n", m.ReadLO(), int32(m.ReadLO())))

	g.RegisterView.SetText(sb.String())
}

func (g *GUI) updateMemory() {
	var sb strings.Builder
	m := g.Debugger.Driver.Machine

	addr := g.MemoryAddress
	if addr == 0 {
		addr = DefaultDataBaseForDisplay
	}
	addr = addr &^ 0xF

	sb.WriteString(fmt.Sprintf("Memory at 0x%08X:\n", addr))
	sb.WriteString(strings.Repeat("-", 50) + "\n")

	for i := uint32(0); i < 16; i++ {
		lineAddr := addr + i*16
		sb.WriteString(fmt.Sprintf("%08X: ", lineAddr))

		for j := uint32(0); j < 16; j++ {
			b := m.ReadByte(lineAddr + j)
			sb.WriteString(fmt.Sprintf("%02X ", b))
		}

		sb.WriteString(" ")
		for j := uint32(0); j < 16; j++ {
			b := m.ReadByte(lineAddr + j)
			if b >= 32 && b < 127 {
				sb.WriteString(string(b))
			} else {
				sb.WriteString(".")
			}
		}
		sb.WriteString("\n")
	}

	g.MemoryView.SetText(sb.String())
}

func (g *GUI) updateStack() {
	var sb strings.Builder
	m := g.Debugger.Driver.Machine

	sp := m.ReadReg(vm.RegSp)

	sb.WriteString(fmt.Sprintf("Stack at sp=0x%08X:\n", sp))
	sb.WriteString(strings.Repeat("-", 32) + "\n")

	for i := int32(-8); i < 24; i++ {
		addr := uint32(int32(sp) + i*4)
		prefix := "  "
		if i == 0 {
			prefix = "-> "
		}

		word := m.ReadWord(addr)
		sb.WriteString(fmt.Sprintf("%s%08X: %08X  (%d)\n", prefix, addr, word, int32(word)))
	}

	g.StackView.SetText(sb.String())
}

func (g *GUI) updateBreakpoints() {
	breakpoints := g.Debugger.Breakpoints.GetAllBreakpoints()
	g.breakpoints = make([]string, 0, len(breakpoints))

	for _, bp := range breakpoints {
		symbol := ""
		for name, addr := range g.Debugger.Symbols {
			if addr == bp.Address {
				symbol = fmt.Sprintf(" [%s]", name)
				break
			}
		}

		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}

		g.breakpoints = append(g.breakpoints, fmt.Sprintf("word %d%s (%s)", bp.Address, symbol, status))
	}

	g.BreakpointsList.Refresh()
}

// updateConsole copies any new console output the machine has
// accumulated since the last refresh. There is no writer hook on
// Machine's console buffer to push through; the GUI instead pulls.
func (g *GUI) updateConsole() {
	out := g.Debugger.Driver.Machine.Console.Output()
	if len(out) < g.consoleSeen {
		g.consoleSeen = 0
	}
	g.ConsoleOutput.SetText(out)
	g.consoleSeen = len(out)
}

func (g *GUI) setRunning(v bool) {
	g.runningMu.Lock()
	g.running = v
	g.runningMu.Unlock()
}

func (g *GUI) isRunning() bool {
	g.runningMu.Lock()
	defer g.runningMu.Unlock()
	return g.running
}

func (g *GUI) runProgram() {
	g.StatusLabel.SetText("Running...")
	g.setRunning(true)

	go func() {
		for g.isRunning() {
			if shouldBreak, reason := g.Debugger.ShouldBreak(); shouldBreak {
				g.StatusLabel.SetText(fmt.Sprintf("Stopped: %s at word %d", reason, g.Debugger.Driver.Machine.GetPC()))
				g.setRunning(false)
				g.updateViews()
				break
			}

			if !g.Debugger.Driver.Tick() {
				g.StatusLabel.SetText("Program terminated")
				g.setRunning(false)
				g.updateViews()
				break
			}
		}
	}()
}

func (g *GUI) stepProgram() {
	if g.Debugger.Driver.IsTerminated() {
		g.StatusLabel.SetText("Program has halted")
		return
	}

	if !g.Debugger.Driver.Tick() {
		g.StatusLabel.SetText("Program terminated")
	} else {
		g.StatusLabel.SetText(fmt.Sprintf("Stepped to word %d", g.Debugger.Driver.Machine.GetPC()))
	}

	g.updateViews()
}

func (g *GUI) continueProgram() {
	g.runProgram()
}

func (g *GUI) stopProgram() {
	g.setRunning(false)
	g.StatusLabel.SetText("Stopped")
	g.updateViews()
}

func (g *GUI) addBreakpoint() {
	pc := g.Debugger.Driver.Machine.GetPC()
	g.Debugger.Breakpoints.AddBreakpoint(pc, false, "")
	g.updateBreakpoints()
	g.StatusLabel.SetText(fmt.Sprintf("Breakpoint added at word %d", pc))
}

func (g *GUI) clearBreakpoints() {
	g.Debugger.Breakpoints.Clear()
	g.updateBreakpoints()
	g.StatusLabel.SetText("All breakpoints cleared")
}

func (g *GUI) refreshViews() {
	g.updateViews()
	g.StatusLabel.SetText("Views refreshed")
}
