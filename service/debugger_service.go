package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cesiumlabs/mips32sim/debugger"
	"github.com/cesiumlabs/mips32sim/driver"
	"github.com/cesiumlabs/mips32sim/loader"
	"github.com/cesiumlabs/mips32sim/vm"
)

const (
	// Validator limits for API safety
	maxDisassemblyCount = 1000   // Maximum number of instructions to disassemble
	maxStackCount       = 1000   // Maximum number of stack entries to return
	maxStackOffset      = 100000 // Maximum stack offset in words, to prevent wraparound attacks
	stepsBeforeYield    = 1000   // Yield every N steps during execution
)

var serviceLog *log.Logger

func init() {
	// Check if debug logging is enabled via environment variable
	if os.Getenv("MIPS32SIM_DEBUG") != "" {
		// Create debug log file.
		// Note: File handle intentionally not closed - kept open for process lifetime.
		// This is acceptable for debug logging; the OS cleans up on process exit.
		logPath := filepath.Join(os.TempDir(), "mips32sim-service-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			serviceLog = log.New(os.Stderr, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			serviceLog = log.New(f, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		// Disable logging by default
		serviceLog = log.New(io.Discard, "", 0)
	}
}

// DebuggerService provides a thread-safe interface to debugger functionality.
// The HTTP/WebSocket API creates one per session; the CLI, TUI and GUI
// front ends drive a debugger.Debugger directly.
//
// Lock Ordering:
// The service uses its own sync.RWMutex (s.mu) to protect all field access,
// including access to the driver and debugger. Do not acquire any lock
// internal to Driver or Debugger while holding s.mu's write side and then
// call back into the service, as that would create a deadlock risk.
type DebuggerService struct {
	mu       sync.RWMutex
	driver   *driver.Driver
	debugger *debugger.Debugger

	symbols         map[string]uint32
	sourceMap       []SourceMapEntry  // word index to source line, with line numbers
	sourceMapByAddr map[uint32]string // quick lookup by word index (for debugger)

	outputWriter io.Writer
	ctx          context.Context
	consoleSeen  int // bytes of Console.Output() already forwarded to outputWriter

	stateChangedCallback func() // callback for GUI state updates
}

// NewDebuggerService creates a new debugger service around an
// already-constructed driver.
func NewDebuggerService(d *driver.Driver) *DebuggerService {
	return &DebuggerService{
		driver:          d,
		debugger:        debugger.NewDebugger(d),
		symbols:         make(map[string]uint32),
		sourceMapByAddr: make(map[uint32]string),
	}
}

// GetDriver returns the underlying driver (for testing).
func (s *DebuggerService) GetDriver() *driver.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.driver
}

// SetContext sets the Wails context for event emission.
func (s *DebuggerService) SetContext(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = ctx
	s.outputWriter = NewEventEmittingWriter(&bytes.Buffer{}, ctx)
}

// SetOutputWriter installs an io.Writer that receives freshly-produced
// console output as RunUntilHalt executes. The HTTP/WebSocket API uses
// this to install a broadcaster-backed writer; SetContext installs a
// Wails event-emitting one instead.
func (s *DebuggerService) SetOutputWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputWriter = w
}

// SetStateChangedCallback sets a callback for GUI state updates during execution.
func (s *DebuggerService) SetStateChangedCallback(callback func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateChangedCallback = callback
}

// LoadProgram assembles source, places its data segment at dataBase,
// and wires the resulting symbols and source map into the debugger.
func (s *DebuggerService) LoadProgram(source string, dataBase uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataLabels, err := loader.LoadIntoDriver(s.driver, source, dataBase)
	if err != nil {
		return err
	}

	s.symbols = make(map[string]uint32, len(s.driver.Program.Labels)+len(dataLabels))
	for name, addr := range s.driver.Program.Labels {
		s.symbols[name] = addr
	}
	for name, addr := range dataLabels {
		s.symbols[name] = addr
	}

	s.sourceMap, s.sourceMapByAddr = buildSourceMap(source)

	s.debugger.LoadSymbols(s.symbols)
	s.debugger.LoadSourceMap(s.sourceMapByAddr)
	s.debugger.Running = false
	s.consoleSeen = 0

	return nil
}

// buildSourceMap pairs each instruction-bearing source line with the
// word index it assembles to, best-effort: the assembler itself only
// keeps the resolved instruction list, not a per-instruction source
// line, so this mirrors the assembler's own line-filtering (blank
// lines, comments, labels, and data directives never occupy a word
// index) to reconstruct the same pairing for display.
func buildSourceMap(source string) ([]SourceMapEntry, map[uint32]string) {
	var entries []SourceMapEntry
	byAddr := make(map[uint32]string)

	wordIndex := uint32(0)
	inDataSection := false
	lines := strings.Split(source, "\n")
	for i, original := range lines {
		line := original
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, ":") {
			continue
		}
		if strings.HasPrefix(line, ".word") || strings.HasPrefix(line, ".byte") ||
			strings.HasPrefix(line, ".asciiz") || strings.HasPrefix(line, ".ascii") ||
			strings.HasPrefix(line, ".space") || strings.HasPrefix(line, ".data") {
			inDataSection = true
			continue
		}
		if inDataSection {
			continue
		}

		entries = append(entries, SourceMapEntry{
			WordIndex:  wordIndex,
			LineNumber: i + 1,
			Line:       strings.TrimSpace(original),
		})
		byAddr[wordIndex] = strings.TrimSpace(original)
		wordIndex++
	}

	return entries, byAddr
}

// GetRegisterState returns current register state (thread-safe).
func (s *DebuggerService) GetRegisterState() RegisterState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.driver.Machine
	var regs [32]uint32
	for i := range regs {
		regs[i] = m.ReadReg(i)
	}

	return RegisterState{
		Registers: regs,
		HI:        m.ReadHI(),
		LO:        m.ReadLO(),
		PC:        m.GetPC(),
	}
}

// Step executes a single instruction.
func (s *DebuggerService) Step() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.Tick()
}

// Continue marks the session running; the caller drives RunUntilHalt.
func (s *DebuggerService) Continue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugger.Running = true
	s.debugger.StepMode = debugger.StepNone
}

// Pause stops a RunUntilHalt loop at its next safe point.
func (s *DebuggerService) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugger.Running = false
}

// Reset performs a complete reset: registers, memory, console buffers
// and the terminated flag, all breakpoints and watchpoints, and the
// loaded program's symbol/source map.
func (s *DebuggerService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.driver.Reset()
	s.symbols = make(map[string]uint32)
	s.sourceMap = nil
	s.sourceMapByAddr = make(map[uint32]string)
	s.debugger.Breakpoints.Clear()
	s.debugger.Watchpoints.Clear()
	s.debugger.Running = false
	s.consoleSeen = 0
}

// ResetToEntryPoint resets the machine's architectural state (PC back
// to word index zero) without discarding the loaded program, symbols,
// or breakpoints — useful for restarting the current program.
func (s *DebuggerService) ResetToEntryPoint() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.driver.Reset()
	s.debugger.Running = false
	s.consoleSeen = 0
}

// IsTerminated reports whether the machine has halted.
func (s *DebuggerService) IsTerminated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.driver.IsTerminated()
}

// AddBreakpoint adds a breakpoint at the given word index.
func (s *DebuggerService) AddBreakpoint(wordIndex uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if wordIndex >= uint32(len(s.driver.Program.Instructions)) {
		return fmt.Errorf("invalid breakpoint: word %d is outside the loaded program", wordIndex)
	}

	s.debugger.Breakpoints.AddBreakpoint(wordIndex, false, "")
	return nil
}

// RemoveBreakpoint removes the breakpoint at a word index.
func (s *DebuggerService) RemoveBreakpoint(wordIndex uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debugger.Breakpoints.DeleteBreakpointAt(wordIndex)
}

// GetBreakpoints returns all breakpoints.
func (s *DebuggerService) GetBreakpoints() []BreakpointInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bps := s.debugger.Breakpoints.GetAllBreakpoints()
	result := make([]BreakpointInfo, len(bps))
	for i, bp := range bps {
		result[i] = BreakpointInfo{
			Address:   bp.Address,
			Enabled:   bp.Enabled,
			Temporary: bp.Temporary,
			Condition: bp.Condition,
			HitCount:  bp.HitCount,
		}
	}
	return result
}

// ClearAllBreakpoints removes all breakpoints.
func (s *DebuggerService) ClearAllBreakpoints() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugger.Breakpoints.Clear()
}

// GetMemory returns a region of memory. Every address is readable
// (the machine's memory is a total function), so this never fails.
func (s *DebuggerService) GetMemory(address uint32, size uint32) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := make([]byte, size)
	for i := uint32(0); i < size; i++ {
		data[i] = s.driver.Machine.ReadByte(address + i)
	}
	return data
}

// GetSourceLine returns the source line for a word index.
func (s *DebuggerService) GetSourceLine(wordIndex uint32) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sourceMapByAddr[wordIndex]
}

// GetSourceMap returns the source map entries with line numbers.
func (s *DebuggerService) GetSourceMap() []SourceMapEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]SourceMapEntry, len(s.sourceMap))
	copy(result, s.sourceMap)
	return result
}

// GetSymbols returns all symbols.
func (s *DebuggerService) GetSymbols() map[string]uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	symbols := make(map[string]uint32, len(s.symbols))
	for k, v := range s.symbols {
		symbols[k] = v
	}
	return symbols
}

// GetSymbolForAddress resolves an address to a symbol name.
func (s *DebuggerService) GetSymbolForAddress(addr uint32) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSymbolForAddressUnsafe(addr)
}

func (s *DebuggerService) getSymbolForAddressUnsafe(addr uint32) string {
	for name, symbolAddr := range s.symbols {
		if symbolAddr == addr {
			return name
		}
	}
	return ""
}

// RunUntilHalt runs the program until halt or a breakpoint/watchpoint
// fires. If Running is already false (e.g. Pause raced ahead of this
// call), it returns immediately.
func (s *DebuggerService) RunUntilHalt() {
	serviceLog.Println("RunUntilHalt() called")
	s.mu.Lock()
	if !s.debugger.Running {
		serviceLog.Println("RunUntilHalt() - already paused, exiting early")
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	stepCount := 0
	for {
		s.mu.Lock()
		if !s.debugger.Running {
			s.mu.Unlock()
			break
		}

		if shouldBreak, reason := s.debugger.ShouldBreak(); shouldBreak {
			serviceLog.Printf("stopped: %s", reason)
			s.debugger.Running = false
			s.mu.Unlock()
			break
		}

		if !s.driver.Tick() {
			serviceLog.Println("machine terminated")
			s.debugger.Running = false
			s.mu.Unlock()
			break
		}
		s.mu.Unlock()

		s.flushConsole()
		if cb := s.stateChangedCallbackUnsafe(); cb != nil {
			cb()
		}

		stepCount++
		if stepCount >= stepsBeforeYield {
			stepCount = 0
			time.Sleep(time.Millisecond)
		}
	}

	s.flushConsole()
	serviceLog.Println("RunUntilHalt() completed")
}

func (s *DebuggerService) stateChangedCallbackUnsafe() func() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateChangedCallback
}

// flushConsole forwards any console output accumulated since the last
// flush through outputWriter, so a GUI front end sees live updates.
func (s *DebuggerService) flushConsole() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outputWriter == nil {
		return
	}
	out := s.driver.Machine.Console.Output()
	if len(out) <= s.consoleSeen {
		return
	}
	fresh := out[s.consoleSeen:]
	s.consoleSeen = len(out)
	_, _ = s.outputWriter.Write([]byte(fresh))
}

// IsRunning returns whether execution is in progress.
func (s *DebuggerService) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.debugger.Running
}

// SetRunning sets the running state synchronously. Used by async
// execution front ends to set state before launching a goroutine
// that calls RunUntilHalt.
func (s *DebuggerService) SetRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugger.Running = running
}

// GetOutput returns captured program output (clears the buffer).
func (s *DebuggerService) GetOutput() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.driver.Machine.Console.Output()
	s.driver.Machine.Console.ClearOutput()
	s.consoleSeen = 0
	return out
}

// GetDisassembly returns count instructions starting at wordIndex.
// Returns an empty slice if inputs are invalid; truncates early if
// wordIndex runs past the end of the loaded program.
func (s *DebuggerService) GetDisassembly(wordIndex uint32, count int) []DisassemblyLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if count <= 0 || count > maxDisassemblyCount {
		return []DisassemblyLine{}
	}

	lines := make([]DisassemblyLine, 0, count)
	instructions := s.driver.Program.Instructions
	for i := 0; i < count; i++ {
		addr := wordIndex + uint32(i)
		if addr >= uint32(len(instructions)) {
			break
		}

		lines = append(lines, DisassemblyLine{
			WordIndex: addr,
			Mnemonic:  instructions[addr].Name(),
			Symbol:    s.getSymbolForAddressUnsafe(addr),
		})
	}
	return lines
}

// GetStack returns stack contents starting at $sp + offset words.
//
// Parameters:
//   - offset: stack offset in words (multiplied by 4 for the byte
//     offset). Must be in range [-maxStackOffset, maxStackOffset] to
//     prevent wraparound.
//   - count: number of stack entries to read, in (0, maxStackCount].
func (s *DebuggerService) GetStack(offset int, count int) []StackEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if count <= 0 || count > maxStackCount {
		return []StackEntry{}
	}
	if offset < -maxStackOffset || offset > maxStackOffset {
		return []StackEntry{}
	}

	m := s.driver.Machine
	sp := int64(m.ReadReg(vm.RegSp))
	startAddr := sp + int64(offset)*4
	if startAddr < 0 || startAddr > 0xFFFFFFFF {
		return []StackEntry{}
	}

	entries := make([]StackEntry, 0, count)
	for i := 0; i < count; i++ {
		next := startAddr + int64(i)*4
		if next < 0 || next > 0xFFFFFFFF {
			break
		}
		addr := uint32(next)
		value := m.ReadWord(addr)

		entries = append(entries, StackEntry{
			Address: addr,
			Value:   value,
			Symbol:  s.getSymbolForAddressUnsafe(value),
		})
	}
	return entries
}

// StepOver executes one instruction, stepping over jal calls.
func (s *DebuggerService) StepOver() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.debugger.SetStepOver()
	for s.debugger.Running {
		if s.debugger.StepMode != debugger.StepSingle {
			if shouldBreak, _ := s.debugger.ShouldBreak(); shouldBreak {
				s.debugger.Running = false
				break
			}
		}

		if !s.driver.Tick() {
			s.debugger.Running = false
			break
		}

		if s.debugger.StepMode == debugger.StepSingle {
			if shouldBreak, _ := s.debugger.ShouldBreak(); shouldBreak {
				s.debugger.Running = false
				break
			}
		}
	}
}

// StepOut puts the debugger in StepOut mode and runs it via
// RunUntilHalt. No call stack is tracked, so it does not stop when the
// current call returns; it stops only at a breakpoint, a watchpoint,
// or termination.
func (s *DebuggerService) StepOut() {
	s.mu.Lock()
	s.debugger.SetStepOut()
	s.mu.Unlock()
	s.RunUntilHalt()
}

// AddWatchpoint adds a watchpoint at the specified memory address and
// returns its ID.
func (s *DebuggerService) AddWatchpoint(address uint32, watchType string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wpType, err := parseWatchType(watchType)
	if err != nil {
		return 0, err
	}

	expression := fmt.Sprintf("[0x%08X]", address)
	wp := s.debugger.Watchpoints.AddWatchpoint(wpType, expression, address, false, 0)
	if err := s.debugger.Watchpoints.InitializeWatchpoint(wp.ID, s.driver.Machine); err != nil {
		return 0, err
	}
	return wp.ID, nil
}

// AddRegisterWatchpoint adds a watchpoint on a register and returns its ID.
func (s *DebuggerService) AddRegisterWatchpoint(register int, watchType string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wpType, err := parseWatchType(watchType)
	if err != nil {
		return 0, err
	}

	expression := fmt.Sprintf("$%d", register)
	wp := s.debugger.Watchpoints.AddWatchpoint(wpType, expression, 0, true, register)
	if err := s.debugger.Watchpoints.InitializeWatchpoint(wp.ID, s.driver.Machine); err != nil {
		return 0, err
	}
	return wp.ID, nil
}

func parseWatchType(watchType string) (debugger.WatchType, error) {
	switch watchType {
	case "read":
		return debugger.WatchRead, nil
	case "write":
		return debugger.WatchWrite, nil
	case "readwrite":
		return debugger.WatchReadWrite, nil
	default:
		return 0, fmt.Errorf("invalid watchpoint type: %s", watchType)
	}
}

// RemoveWatchpoint removes a watchpoint by ID.
func (s *DebuggerService) RemoveWatchpoint(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debugger.Watchpoints.DeleteWatchpoint(id)
}

// GetWatchpoints returns all watchpoints.
func (s *DebuggerService) GetWatchpoints() []WatchpointInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wps := s.debugger.Watchpoints.GetAllWatchpoints()
	result := make([]WatchpointInfo, len(wps))
	for i, wp := range wps {
		result[i] = WatchpointInfo{
			ID:         wp.ID,
			Expression: wp.Expression,
			IsRegister: wp.IsRegister,
			Enabled:    wp.Enabled,
			LastValue:  wp.LastValue,
		}
	}
	return result
}

// ExecuteCommand executes a debugger command and returns its output.
func (s *DebuggerService) ExecuteCommand(command string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.debugger.ExecuteCommand(command)
	output := s.debugger.GetOutput()
	return output, err
}

// EvaluateExpression evaluates an expression and returns its value.
func (s *DebuggerService) EvaluateExpression(expr string) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debugger.Evaluator.EvaluateExpression(expr, s.driver.Machine, s.symbols)
}

// SendInput replaces the machine's console input buffer. The machine
// never blocks on a read (ReadByte/ReadDecimal return end-of-input
// rather than waiting), so unlike a blocking-stdin design this needs
// no pipe or reader goroutine — but SetInput always rewinds the read
// cursor, so input intended to arrive mid-run should be queued by the
// caller and sent as one batch before RunUntilHalt starts.
func (s *DebuggerService) SendInput(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.driver.Machine.Console.SetInput(input)
}

// ExecutionStatisticsView is a snapshot of the machine's execution
// counters, for UI display.
type ExecutionStatisticsView struct {
	InstructionsExecuted uint64 `json:"instructionsExecuted"`
	SyscallsInvoked      uint64 `json:"syscallsInvoked"`
	MemoryReads          uint64 `json:"memoryReads"`
	MemoryWrites         uint64 `json:"memoryWrites"`
	BranchesTaken        uint64 `json:"branchesTaken"`
	BranchesNotTaken     uint64 `json:"branchesNotTaken"`
}

// GetStatistics returns the machine's execution counters.
func (s *DebuggerService) GetStatistics() ExecutionStatisticsView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := s.driver.Machine.Stats
	return ExecutionStatisticsView{
		InstructionsExecuted: stats.InstructionsExecuted,
		SyscallsInvoked:      stats.SyscallsInvoked,
		MemoryReads:          stats.MemoryReads,
		MemoryWrites:         stats.MemoryWrites,
		BranchesTaken:        stats.BranchesTaken,
		BranchesNotTaken:     stats.BranchesNotTaken,
	}
}
