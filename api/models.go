package api

import (
	"time"

	"github.com/cesiumlabs/mips32sim/service"
)

// SessionCreateRequest represents a request to create a new session.
type SessionCreateRequest struct {
	// MaxCycles overrides the driver's cycle budget for this session
	// (0 keeps the driver's default).
	MaxCycles uint64 `json:"maxCycles,omitempty"`
}

// SessionCreateResponse represents the response from creating a session.
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStatusResponse represents the current status of a session.
type SessionStatusResponse struct {
	SessionID  string `json:"sessionId"`
	State      string `json:"state"`
	PC         uint32 `json:"pc"`
	Terminated bool   `json:"terminated"`
}

// LoadProgramRequest represents a request to load a program.
type LoadProgramRequest struct {
	Source   string `json:"source"`             // Assembly source code
	DataBase uint32 `json:"dataBase,omitempty"` // Base address for .data; 0 uses the loader default
}

// LoadProgramResponse represents the response from loading a program.
type LoadProgramResponse struct {
	Success bool              `json:"success"`
	Errors  []string          `json:"errors,omitempty"`
	Symbols map[string]uint32 `json:"symbols,omitempty"`
}

// RegistersResponse represents the current register state: all 32
// general-purpose registers plus HI/LO and the word-index PC. There is
// no status-flags register to report — MIPS comparisons live in
// ordinary registers via slt/sltu.
type RegistersResponse struct {
	Registers [32]uint32 `json:"registers"`
	HI        uint32     `json:"hi"`
	LO        uint32     `json:"lo"`
	PC        uint32     `json:"pc"`
}

// MemoryRequest represents a request for memory data.
type MemoryRequest struct {
	Address uint32 `json:"address"`
	Length  uint32 `json:"length"`
}

// MemoryResponse represents memory data.
type MemoryResponse struct {
	Address uint32 `json:"address"`
	Data    []byte `json:"data"`
	Length  uint32 `json:"length"`
}

// DisassemblyRequest represents a request for disassembly.
type DisassemblyRequest struct {
	WordIndex uint32 `json:"wordIndex"`
	Count     uint32 `json:"count"`
}

// DisassemblyResponse represents disassembled instructions.
type DisassemblyResponse struct {
	Instructions []InstructionInfo `json:"instructions"`
}

// InstructionInfo represents a single disassembled instruction. There
// is no MachineCode/opcode field: instructions live in the program's
// decoded instruction list, not as raw words in memory.
type InstructionInfo struct {
	WordIndex   uint32 `json:"wordIndex"`
	Disassembly string `json:"disassembly"`
	Symbol      string `json:"symbol,omitempty"`
}

// SourceMapResponse represents the program's word-index-to-source-line map.
type SourceMapResponse struct {
	Entries []service.SourceMapEntry `json:"entries"`
}

// ConsoleOutputResponse represents captured console output.
type ConsoleOutputResponse struct {
	Output string `json:"output"`
}

// BreakpointRequest represents a request to add/remove a breakpoint.
type BreakpointRequest struct {
	WordIndex uint32 `json:"wordIndex"`
}

// BreakpointsResponse represents a list of breakpoints.
type BreakpointsResponse struct {
	Breakpoints []uint32 `json:"breakpoints"`
}

// WatchpointRequest represents a request to add a watchpoint, either
// on a memory address or (when IsRegister is set) on a register.
type WatchpointRequest struct {
	Address    uint32 `json:"address,omitempty"`
	Register   int    `json:"register,omitempty"`
	IsRegister bool   `json:"isRegister,omitempty"`
	Type       string `json:"type,omitempty"` // "read", "write", "readwrite"
}

// WatchpointResponse represents a single created watchpoint.
type WatchpointResponse struct {
	ID         int    `json:"id"`
	Expression string `json:"expression"`
	IsRegister bool   `json:"isRegister"`
}

// WatchpointsResponse represents a list of watchpoints.
type WatchpointsResponse struct {
	Watchpoints []service.WatchpointInfo `json:"watchpoints"`
}

// EvaluateRequest represents a request to evaluate a debugger expression.
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse represents the result of evaluating an expression.
type EvaluateResponse struct {
	Value uint32 `json:"value"`
}

// StdinRequest represents a request to send stdin data.
type StdinRequest struct {
	Data string `json:"data"`
}

// StatisticsResponse mirrors service.ExecutionStatisticsView. There is
// no wall-clock timing, per-opcode histogram, or branch-miss count:
// the machine's counters are a fixed set of six, not a profiler.
type StatisticsResponse struct {
	InstructionsExecuted uint64 `json:"instructionsExecuted"`
	SyscallsInvoked      uint64 `json:"syscallsInvoked"`
	MemoryReads          uint64 `json:"memoryReads"`
	MemoryWrites         uint64 `json:"memoryWrites"`
	BranchesTaken        uint64 `json:"branchesTaken"`
	BranchesNotTaken     uint64 `json:"branchesNotTaken"`
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

// ExampleInfo describes one example program available to load.
type ExampleInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ExamplesResponse lists the available example programs.
type ExamplesResponse struct {
	Examples []ExampleInfo `json:"examples"`
	Count    int           `json:"count"`
}

// ExampleContentResponse carries the source of one example program.
type ExampleContentResponse struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

// Event represents a WebSocket event.
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// StateEvent represents a state change event.
type StateEvent struct {
	State     string     `json:"state"`
	PC        uint32     `json:"pc"`
	Registers [32]uint32 `json:"registers"`
	HI        uint32     `json:"hi"`
	LO        uint32     `json:"lo"`
}

// OutputEvent represents console output.
type OutputEvent struct {
	Stream  string `json:"stream"`  // "stdout" or "stderr"
	Content string `json:"content"` // Output content
}

// ExecutionEvent represents execution events like breakpoints.
type ExecutionEvent struct {
	Event     string `json:"event"` // "breakpoint_hit", "halted"
	WordIndex uint32 `json:"wordIndex,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ToRegisterResponse converts service.RegisterState to an API response.
func ToRegisterResponse(regs *service.RegisterState) *RegistersResponse {
	return &RegistersResponse{
		Registers: regs.Registers,
		HI:        regs.HI,
		LO:        regs.LO,
		PC:        regs.PC,
	}
}

// ToInstructionInfo converts service.DisassemblyLine to an API response.
func ToInstructionInfo(line *service.DisassemblyLine) InstructionInfo {
	return InstructionInfo{
		WordIndex:   line.WordIndex,
		Disassembly: line.Mnemonic,
		Symbol:      line.Symbol,
	}
}
