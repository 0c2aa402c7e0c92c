package debugger

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cesiumlabs/mips32sim/assembler"
	"github.com/cesiumlabs/mips32sim/loader"
)

// Command handler implementations.

func (d *Debugger) cmdRun(args []string) error {
	d.Driver.Reset()
	d.Running = true
	d.StepMode = StepNone

	d.Println("Starting program execution...")
	return nil
}

func (d *Debugger) cmdContinue(args []string) error {
	if d.Driver.IsTerminated() {
		return fmt.Errorf("program is not running")
	}

	d.Running = true
	d.StepMode = StepNone

	d.Println("Continuing...")
	return nil
}

func (d *Debugger) cmdStep(args []string) error {
	d.StepMode = StepSingle
	d.Running = true
	return nil
}

// cmdNext steps over jal calls, stopping at the word right after the
// call rather than descending into it.
func (d *Debugger) cmdNext(args []string) error {
	d.SetStepOver()
	return nil
}

func (d *Debugger) cmdFinish(args []string) error {
	d.SetStepOut()
	return nil
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <address|label> [if <condition>]")
	}

	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}

	var condition string
	if len(args) > 1 && strings.ToLower(args[1]) == "if" {
		condition = strings.Join(args[2:], " ")
	}

	bp := d.Breakpoints.AddBreakpoint(address, false, condition)

	if condition != "" {
		d.Printf("Breakpoint %d at word %d (condition: %s)\n", bp.ID, address, condition)
	} else {
		d.Printf("Breakpoint %d at word %d\n", bp.ID, address)
	}

	return nil
}

func (d *Debugger) cmdTBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tbreak <address|label>")
	}

	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}

	bp := d.Breakpoints.AddBreakpoint(address, true, "")
	d.Printf("Temporary breakpoint %d at word %d\n", bp.ID, address)

	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Println("All breakpoints deleted")
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

func (d *Debugger) cmdEnable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: enable <breakpoint-id>")
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.EnableBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d enabled\n", id)
	return nil
}

func (d *Debugger) cmdDisable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: disable <breakpoint-id>")
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.DisableBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d disabled\n", id)
	return nil
}

func (d *Debugger) cmdWatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: watch <expression>")
	}

	expression := strings.Join(args, " ")
	isRegister, register, address, err := d.parseWatchExpression(expression)
	if err != nil {
		return err
	}

	wp := d.Watchpoints.AddWatchpoint(WatchWrite, expression, address, isRegister, register)

	if err := d.Watchpoints.InitializeWatchpoint(wp.ID, d.Driver.Machine); err != nil {
		d.Watchpoints.DeleteWatchpoint(wp.ID)
		return err
	}

	d.Printf("Watchpoint %d: %s\n", wp.ID, expression)
	return nil
}

// parseWatchExpression classifies a watch expression as a register
// ("$t0") or a memory address ("[0x1000]", "label", "0x1000"); "pc" is
// rejected.
func (d *Debugger) parseWatchExpression(expr string) (isRegister bool, register int, address uint32, err error) {
	expr = strings.ToLower(strings.TrimSpace(expr))

	if expr == "pc" {
		return false, 0, 0, fmt.Errorf("pc cannot be watched; it changes every instruction")
	}

	if idx, ok := assembler.ParseRegisterName(expr); ok {
		return true, idx, 0, nil
	}

	if strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]") {
		addrStr := strings.TrimSuffix(strings.TrimPrefix(expr, "["), "]")
		addr, err := d.ResolveAddress(addrStr)
		if err != nil {
			return false, 0, 0, err
		}
		return false, 0, addr, nil
	}

	addr, err := d.ResolveAddress(expr)
	if err != nil {
		return false, 0, 0, fmt.Errorf("invalid watch expression: %s", expr)
	}

	return false, 0, addr, nil
}

func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <expression>")
	}

	expression := strings.Join(args, " ")
	result, err := d.Evaluator.EvaluateExpression(expression, d.Driver.Machine, d.Symbols)
	if err != nil {
		return err
	}

	if result > uint32(math.MaxInt32) {
		d.Printf("$%d = 0x%08X (out of int32 range: %d)\n", d.Evaluator.GetValueNumber(), result, result)
	} else {
		d.Printf("$%d = 0x%08X (%d)\n", d.Evaluator.GetValueNumber(), result, int32(result))
	}
	return nil
}

// cmdExamine examines memory at an address: x[/nfu] <address>, with
// n a count, f a format (x/d/u/o/t), and u a unit size (b/h/w).
func (d *Debugger) cmdExamine(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: x[/nfu] <address>\n  n: count, f: format (x/d/u/o/t), u: unit size (b/h/w)")
	}

	count := 1
	format := 'x'
	unit := 'w'
	addrArg := args[0]

	if strings.HasPrefix(args[0], "/") {
		formatStr := args[0][1:]
		if len(args) < 2 {
			return fmt.Errorf("missing address")
		}
		addrArg = args[1]

		i := 0
		for i < len(formatStr) && formatStr[i] >= '0' && formatStr[i] <= '9' {
			i++
		}
		if i > 0 {
			if n, err := strconv.Atoi(formatStr[:i]); err == nil {
				count = n
			}
			formatStr = formatStr[i:]
		}

		if len(formatStr) > 0 {
			format = rune(formatStr[0])
			formatStr = formatStr[1:]
		}
		if len(formatStr) > 0 {
			unit = rune(formatStr[0])
		}
	}

	address, err := d.ResolveAddress(addrArg)
	if err != nil {
		return err
	}

	d.Printf("0x%08X:", address)
	for i := 0; i < count; i++ {
		var value uint32

		switch unit {
		case 'b':
			value = uint32(d.Driver.Machine.ReadByte(address))
			address++
		case 'h':
			value = uint32(d.Driver.Machine.ReadHalf(address))
			address += 2
		default:
			value = d.Driver.Machine.ReadWord(address)
			address += 4
		}

		switch format {
		case 'x':
			d.Printf(" 0x%08X", value)
		case 'd':
			d.Printf(" %d", int32(value))
		case 'u':
			d.Printf(" %d", value)
		case 'o':
			d.Printf(" %o", value)
		case 't':
			d.Printf(" %b", value)
		default:
			d.Printf(" 0x%08X", value)
		}
	}
	d.Println()

	return nil
}

func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info <registers|breakpoints|watchpoints|pipeline>")
	}

	switch strings.ToLower(args[0]) {
	case "registers", "reg", "r":
		return d.showRegisters()
	case "breakpoints", "break", "b":
		return d.showBreakpoints()
	case "watchpoints", "watch", "w":
		return d.showWatchpoints()
	case "pipeline":
		return d.showPipeline()
	default:
		return fmt.Errorf("unknown info command: %s", args[0])
	}
}

var registerDisplayOrder = []string{
	"$zero", "$at", "$v0", "$v1", "$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1", "$gp", "$sp", "$fp", "$ra",
}

func (d *Debugger) showRegisters() error {
	d.Println("Registers:")
	for _, name := range registerDisplayOrder {
		idx, _ := assembler.ParseRegisterName(name)
		v := d.Driver.Machine.ReadReg(idx)
		d.Printf("  %-5s = 0x%08X (%d)\n", name, v, int32(v))
	}
	d.Printf("  pc    = %d\n", d.Driver.Machine.GetPC())
	d.Printf("  hi    = 0x%08X (%d)\n", d.Driver.Machine.ReadHI(), int32(d.Driver.Machine.ReadHI()))
	d.Printf("  lo    = 0x%08X (%d)\n", d.Driver.Machine.ReadLO(), int32(d.Driver.Machine.ReadLO()))

	return nil
}

func (d *Debugger) showBreakpoints() error {
	breakpoints := d.Breakpoints.GetAllBreakpoints()
	if len(breakpoints) == 0 {
		d.Println("No breakpoints")
		return nil
	}

	d.Println("Breakpoints:")
	for _, bp := range breakpoints {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}

		temp := ""
		if bp.Temporary {
			temp = " (temporary)"
		}

		condition := ""
		if bp.Condition != "" {
			condition = fmt.Sprintf(" if %s", bp.Condition)
		}

		d.Printf("  %d: word %d %s%s%s (hit %d times)\n",
			bp.ID, bp.Address, status, temp, condition, bp.HitCount)
	}

	return nil
}

func (d *Debugger) showWatchpoints() error {
	watchpoints := d.Watchpoints.GetAllWatchpoints()
	if len(watchpoints) == 0 {
		d.Println("No watchpoints")
		return nil
	}

	d.Println("Watchpoints:")
	for _, wp := range watchpoints {
		status := "enabled"
		if !wp.Enabled {
			status = "disabled"
		}

		d.Printf("  %d: %s %s (hit %d times, last value: 0x%08X)\n",
			wp.ID, wp.Expression, status, wp.HitCount, wp.LastValue)
	}

	return nil
}

// showPipeline displays the 5-stage pipeline overlay, when enabled.
func (d *Debugger) showPipeline() error {
	stages := d.Driver.PipelineStages()
	names := []string{"IF", "ID", "EX", "MEM", "WB"}

	d.Println("Pipeline:")
	for i, s := range stages {
		if !s.Valid {
			d.Printf("  %-3s: (bubble)\n", names[i])
			continue
		}
		d.Printf("  %-3s: word %d (%s)\n", names[i], s.WordIndex, s.Mnemonic)
	}

	return nil
}

func (d *Debugger) cmdList(args []string) error {
	pc := d.Driver.Machine.GetPC()

	if source, exists := d.SourceMap[pc]; exists {
		d.Printf("=> %d: %s\n", pc, source)
	} else {
		d.Printf("=> %d: <no source>\n", pc)
	}

	for offset := uint32(1); offset <= 4; offset++ {
		addr := pc + offset
		if source, exists := d.SourceMap[addr]; exists {
			d.Printf("   %d: %s\n", addr, source)
		}
	}

	return nil
}

func (d *Debugger) cmdSet(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: set <register|*address> = <value>")
	}

	if args[1] != "=" {
		return fmt.Errorf("usage: set <register|*address> = <value>")
	}

	target := strings.ToLower(args[0])
	valueStr := args[2]

	value, err := d.Evaluator.EvaluateExpression(valueStr, d.Driver.Machine, d.Symbols)
	if err != nil {
		return err
	}

	if strings.HasPrefix(target, "*") {
		addrStr := target[1:]
		address, err := d.ResolveAddress(addrStr)
		if err != nil {
			return err
		}

		d.Driver.Machine.WriteWord(address, value)
		d.Printf("Memory 0x%08X set to 0x%08X\n", address, value)
		return nil
	}

	idx, ok := assembler.ParseRegisterName(target)
	if !ok {
		return fmt.Errorf("invalid register: %s", target)
	}

	d.Driver.Machine.WriteReg(idx, value)
	d.Printf("Register %s set to 0x%08X\n", target, value)

	return nil
}

func (d *Debugger) cmdLoad(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: load <filename>")
	}

	source, err := os.ReadFile(args[0]) // #nosec G304 -- interactive debugger command, path from operator input
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	dataLabels, err := loader.LoadIntoDriver(d.Driver, string(source), loader.DefaultDataBase)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	symbols := make(map[string]uint32, len(d.Driver.Program.Labels)+len(dataLabels))
	for name, addr := range d.Driver.Program.Labels {
		symbols[name] = addr
	}
	for name, addr := range dataLabels {
		symbols[name] = addr
	}
	d.LoadSymbols(symbols)

	d.Printf("Loaded %s: %d instruction(s)\n", args[0], len(d.Driver.Program.Instructions))
	return nil
}

func (d *Debugger) cmdReset(args []string) error {
	d.Driver.Reset()
	d.Println("Machine reset")
	return nil
}

func (d *Debugger) cmdHelp(args []string) error {
	if len(args) > 0 {
		return d.showCommandHelp(args[0])
	}

	d.Println("MIPS32 Debugger Commands:")
	d.Println()
	d.Println("Execution Control:")
	d.Println("  run (r)           - Start program execution")
	d.Println("  continue (c)      - Continue execution")
	d.Println("  step (s, si)      - Execute single instruction")
	d.Println("  next (n)          - Step over jal calls")
	d.Println("  finish (fin)      - Run until breakpoint, watchpoint or exit")
	d.Println()
	d.Println("Breakpoints:")
	d.Println("  break (b) <addr>  - Set breakpoint")
	d.Println("  tbreak (tb) <addr>- Set temporary breakpoint")
	d.Println("  delete (d) [id]   - Delete breakpoint(s)")
	d.Println("  enable <id>       - Enable breakpoint")
	d.Println("  disable <id>      - Disable breakpoint")
	d.Println()
	d.Println("Watchpoints:")
	d.Println("  watch (w) <expr>  - Watch a register or memory word for a change")
	d.Println()
	d.Println("Inspection:")
	d.Println("  print (p) <expr>  - Evaluate expression")
	d.Println("  x[/nfu] <addr>    - Examine memory")
	d.Println("  info (i) <what>   - Show registers, breakpoints, watchpoints, or pipeline")
	d.Println("  list (l)          - List source code")
	d.Println()
	d.Println("Modification:")
	d.Println("  set <var> = <val> - Modify register/memory")
	d.Println()
	d.Println("Control:")
	d.Println("  reset             - Reset the machine")
	d.Println("  help (h, ?)       - Show this help")
	d.Println()
	d.Println("Type 'help <command>' for detailed help on a specific command.")

	return nil
}

func (d *Debugger) showCommandHelp(cmd string) error {
	helpText := map[string]string{
		"break": "break <address|label> [if <condition>]\n  Set a breakpoint at the specified word index or label.\n  Optional condition will be evaluated each time.",
		"step":  "step\n  Execute a single instruction.",
		"next":  "next\n  Step over jal calls (execute until the word right after the call).",
		"print": "print <expression>\n  Evaluate and print an expression.\n  Expressions can include registers, memory, symbols, and arithmetic.",
		"x":     "x[/nfu] <address>\n  Examine memory.\n  n: count, f: format (x/d/u/o/t), u: unit (b/h/w)",
		"info":  "info <registers|breakpoints|watchpoints|pipeline>\n  Display information about program state.",
	}

	if help, exists := helpText[cmd]; exists {
		d.Println(help)
		return nil
	}

	return fmt.Errorf("no help available for command: %s", cmd)
}
