// Package driver implements the fetch-execute loop of spec.md §4.5:
// it owns the machine state, the assembled (or decoded) instruction
// list and label map, and drives single-step and bounded-run
// execution, with an optional pipeline overlay (pipeline.go) for
// visualization only.
package driver

import (
	"fmt"

	"github.com/cesiumlabs/mips32sim/assembler"
	"github.com/cesiumlabs/mips32sim/config"
	"github.com/cesiumlabs/mips32sim/decoder"
	"github.com/cesiumlabs/mips32sim/vm"
)

// DefaultCycleBudget is the driver-level safety bound spec.md §4.5
// mandates for "run until termination" requests (max_cycles <= 0),
// protecting against runaway programs that never reach a syscall 10.
const DefaultCycleBudget = 10_000_000

// LoadMode selects how Driver.LoadProgram reacts to per-line assembly
// failures (spec.md §7 permits either policy; this project documents
// lenient as the default and strict as an opt-in).
type LoadMode int

const (
	// LoadLenient keeps whatever instructions did assemble and
	// discards the rest, matching the assembler package's own default
	// behavior.
	LoadLenient LoadMode = iota
	// LoadStrict rejects the whole program if any line failed to
	// assemble, returning a *LoadError.
	LoadStrict
)

// LoadError reports that LoadProgram was run in strict mode and at
// least one source line failed to assemble.
type LoadError struct {
	Diagnostics assembler.Diagnostics
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("program failed to assemble (%d line(s)): %s", len(e.Diagnostics), e.Diagnostics.Error())
}

// Driver owns the machine state, the instruction list, and the label
// map, per spec.md §4.5.
type Driver struct {
	Machine  *vm.Machine
	Program  assembler.Program
	LoadMode LoadMode

	// LastDiagnostics holds the most recent LoadProgram's per-line
	// failures even in lenient mode, for callers (the CLI, the
	// debugger) that want to surface them without treating them as
	// fatal.
	LastDiagnostics assembler.Diagnostics

	pipelineEnabled bool
	pipeline        PipelineState

	// cycleBudget overrides DefaultCycleBudget when set by
	// ApplyConfig/NewDriverWithConfig; zero means "use the default."
	cycleBudget uint64
}

// NewDriver creates a driver around a freshly constructed machine.
func NewDriver() *Driver {
	return &Driver{Machine: vm.NewMachine()}
}

// NewDriverWithConfig creates a driver whose machine and cycle budget
// reflect cfg: console buffer caps, the legacy branch-offset flag, and
// the pipeline-overlay default (spec.md §9's Open Question; see
// config.Config.Execution/Pipeline/Console).
func NewDriverWithConfig(cfg *config.Config) *Driver {
	d := NewDriver()
	d.ApplyConfig(cfg)
	return d
}

// ApplyConfig reconfigures an existing driver's machine and cycle
// budget from cfg without discarding the currently loaded program.
func (d *Driver) ApplyConfig(cfg *config.Config) {
	d.Machine.LegacyBranchOffsets = cfg.Execution.LegacyBranchOffsets
	d.Machine.Console.OutputCap = cfg.Console.OutputBufferCap
	d.cycleBudget = cfg.Execution.MaxCycles
	d.SetPipelineMode(cfg.Pipeline.EnabledByDefault)
}

// LoadProgram assembles source and replaces the instruction list and
// label map. It does not reset register or memory state — callers
// that want a clean machine call Reset first (spec.md §4.5).
func (d *Driver) LoadProgram(source string) error {
	prog, diags := assembler.AssembleWithLabels(source)
	d.LastDiagnostics = diags

	if d.LoadMode == LoadStrict && len(diags) > 0 {
		return &LoadError{Diagnostics: diags}
	}

	d.Program = prog
	return nil
}

// LoadWords installs a program from raw 32-bit instruction words
// rather than assembly source — the decoder-driven entry point
// spec.md §2 describes as an alternative to the assembler. A word
// that fails to decode becomes a MnemonicInvalid placeholder so that
// attempting to execute it surfaces as the runtime failure spec.md §7
// requires, rather than silently vanishing from the instruction list.
func (d *Driver) LoadWords(words []uint32) {
	instructions := make([]vm.Instruction, len(words))
	for i, w := range words {
		inst, ok := decoder.Decode(w)
		if !ok {
			inst = vm.Instruction{Mnemonic: vm.MnemonicInvalid}
		}
		instructions[i] = inst
	}
	d.Program = assembler.Program{Instructions: instructions, Labels: map[string]uint32{}}
}

// Reset zeroes all architectural state, clears console buffers and
// the terminated flag, and clears the pipeline overlay. It does not
// discard the loaded program.
func (d *Driver) Reset() {
	d.Machine.Reset()
	d.pipeline.Reset()
}

// Tick executes the instruction at the current PC, returning true if
// one was executed and false if the machine is terminated (either
// already, or because PC just ran off the end of the instruction
// list, or because the instruction there failed to decode).
func (d *Driver) Tick() bool {
	if d.Machine.IsTerminated() {
		return false
	}

	pc := d.Machine.GetPC()
	if pc >= uint32(len(d.Program.Instructions)) {
		d.Machine.Terminate()
		return false
	}

	inst := d.Program.Instructions[pc]
	if d.pipelineEnabled {
		d.pipeline.Advance(pc, inst.Name())
	}

	if err := vm.Execute(d.Machine, inst); err != nil {
		d.Machine.Terminate()
		return false
	}
	return true
}

// Step is the driver-level API name spec.md §6 gives Tick.
func (d *Driver) Step() bool { return d.Tick() }

// Run repeatedly ticks until termination or maxCycles ticks have
// executed, returning the number of instructions actually run. A
// non-positive maxCycles means "until termination," bounded by
// DefaultCycleBudget as the required safety net.
func (d *Driver) Run(maxCycles int) int {
	limit := maxCycles
	if limit <= 0 {
		limit = DefaultCycleBudget
		if d.cycleBudget > 0 {
			limit = int(d.cycleBudget)
		}
	}

	count := 0
	for count < limit && !d.Machine.IsTerminated() {
		if !d.Tick() {
			break
		}
		count++
	}
	return count
}

// IsTerminated reports whether the machine has halted.
func (d *Driver) IsTerminated() bool { return d.Machine.IsTerminated() }

// SetPipelineMode toggles the 5-stage visualization overlay. Turning
// it on or off never alters architectural execution, only whether
// PipelineStages reports anything beyond bubbles.
func (d *Driver) SetPipelineMode(enabled bool) {
	d.pipelineEnabled = enabled
	if !enabled {
		d.pipeline.Reset()
	}
}

// PipelineStages reports the current contents of the 5-stage overlay
// (IF, ID, EX, MEM, WB), for display only.
func (d *Driver) PipelineStages() [StageCount]StageInfo {
	return d.pipeline.Stages
}
