// Package debugger implements an interactive source-level debugger
// around a driver.Driver: breakpoints and watchpoints keyed on word
// indices, step/next/finish execution control, an expression
// evaluator for print/condition commands, and CLI/TUI/GUI front ends.
package debugger

import (
	"fmt"
	"strings"

	"github.com/cesiumlabs/mips32sim/driver"
	"github.com/cesiumlabs/mips32sim/vm"
)

// Debugger holds one debugging session's state around a driver.
type Debugger struct {
	Driver *driver.Driver

	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	History     *CommandHistory
	Evaluator   *ExpressionEvaluator

	Running           bool
	StepMode          StepMode
	StepOverCallDepth int
	StepOverPC        uint32 // word index to return to after step over

	// Symbols maps instruction labels to word indices, and data
	// labels to absolute byte addresses, as loader.LoadIntoDriver
	// resolves them.
	Symbols map[string]uint32

	// SourceMap maps a word index to the source line that assembled
	// to it, for the "list" command.
	SourceMap map[uint32]string

	LastCommand string

	Output strings.Builder
}

// StepMode is the debugger's current single-step execution mode.
type StepMode int

const (
	StepNone   StepMode = iota // not stepping
	StepSingle                 // step one instruction
	StepOver                   // step over jal calls
	StepOut                    // step out of the current call
)

// NewDebugger creates a debugger around an already-constructed driver.
func NewDebugger(d *driver.Driver) *Debugger {
	return &Debugger{
		Driver:      d,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		History:     NewCommandHistory(),
		Evaluator:   NewExpressionEvaluator(),
		Symbols:     make(map[string]uint32),
		SourceMap:   make(map[uint32]string),
	}
}

// LoadSymbols installs the label -> address map used by print/break
// and symbolic disassembly.
func (d *Debugger) LoadSymbols(symbols map[string]uint32) {
	d.Symbols = symbols
}

// LoadSourceMap installs the word-index -> source-line map the list
// command displays.
func (d *Debugger) LoadSourceMap(sourceMap map[uint32]string) {
	d.SourceMap = sourceMap
}

// ResolveAddress resolves a symbol name or a numeric literal (decimal
// or 0x-prefixed hex) to a word index / address.
func (d *Debugger) ResolveAddress(addrStr string) (uint32, error) {
	if addr, exists := d.Symbols[addrStr]; exists {
		return addr, nil
	}

	var addr uint32
	if strings.HasPrefix(addrStr, "0x") || strings.HasPrefix(addrStr, "0X") {
		if _, err := fmt.Sscanf(addrStr, "0x%x", &addr); err != nil {
			return 0, fmt.Errorf("invalid address: %s", addrStr)
		}
	} else {
		if _, err := fmt.Sscanf(addrStr, "%d", &addr); err != nil {
			return 0, fmt.Errorf("invalid address: %s", addrStr)
		}
	}

	return addr, nil
}

// ExecuteCommand parses and dispatches one command line. An empty
// line repeats the last command, matching the teacher's gdb-like
// convention for step/next.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)

	if cmdLine == "" {
		cmdLine = d.LastCommand
	}

	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	return d.handleCommand(strings.ToLower(parts[0]), parts[1:])
}

func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s", "si":
		return d.cmdStep(args)
	case "next", "n":
		return d.cmdNext(args)
	case "finish", "fin":
		return d.cmdFinish(args)

	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnable(args)
	case "disable":
		return d.cmdDisable(args)

	case "watch", "w":
		return d.cmdWatch(args)

	case "print", "p":
		return d.cmdPrint(args)
	case "x":
		return d.cmdExamine(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "list", "l":
		return d.cmdList(args)

	case "set":
		return d.cmdSet(args)

	case "load":
		return d.cmdLoad(args)
	case "reset":
		return d.cmdReset(args)

	case "help", "h", "?":
		return d.cmdHelp(args)

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak reports whether execution should pause before the
// instruction at the machine's current PC runs.
func (d *Debugger) ShouldBreak() (bool, string) {
	pc := d.Driver.Machine.GetPC()

	switch d.StepMode {
	case StepSingle:
		d.StepMode = StepNone
		return true, "single step"

	case StepOver:
		if pc == d.StepOverPC {
			d.StepMode = StepNone
			return true, "step over complete"
		}

	case StepOut:
		// This debugger keeps no call stack, so StepOut never stops on
		// its own when the current call returns; execution continues
		// until a breakpoint, a watchpoint, or termination.
	}

	if bp := d.Breakpoints.GetBreakpoint(pc); bp != nil {
		if !bp.Enabled {
			return false, ""
		}

		if bp.Condition != "" {
			result, err := d.Evaluator.Evaluate(bp.Condition, d.Driver.Machine, d.Symbols)
			if err != nil {
				return true, fmt.Sprintf("breakpoint %d (condition error: %v)", bp.ID, err)
			}
			if !result {
				return false, ""
			}
		}

		hit := d.Breakpoints.ProcessHit(pc)
		return true, fmt.Sprintf("breakpoint %d", hit.ID)
	}

	if wp, changed := d.Watchpoints.CheckWatchpoints(d.Driver.Machine); wp != nil && changed {
		return true, fmt.Sprintf("watchpoint %d: %s", wp.ID, wp.Expression)
	}

	return false, ""
}

// GetOutput returns and clears the accumulated command output.
func (d *Debugger) GetOutput() string {
	output := d.Output.String()
	d.Output.Reset()
	return output
}

// Printf writes formatted output to the output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

// Println writes a line to the output buffer.
func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}

// SetStepOver steps over the instruction at the current PC: jal
// recurses into the callee, so stepping "over" it means running until
// control returns to the word right after it; anything else is a
// plain single step.
func (d *Debugger) SetStepOver() {
	pc := d.Driver.Machine.GetPC()
	if pc >= uint32(len(d.Driver.Program.Instructions)) {
		d.StepMode = StepSingle
		d.Running = true
		return
	}

	inst := d.Driver.Program.Instructions[pc]
	if inst.Mnemonic == vm.Jal {
		d.StepOverPC = pc + 1
		d.StepMode = StepOver
		d.Running = true
	} else {
		d.StepMode = StepSingle
		d.Running = true
	}
}

// SetStepOut resumes execution in StepOut mode. No call stack is
// tracked, so it does not stop when the current call returns; it stops
// only at a breakpoint, a watchpoint, or termination.
func (d *Debugger) SetStepOut() {
	d.StepMode = StepOut
	d.Running = true
}
