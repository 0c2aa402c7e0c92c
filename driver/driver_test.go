package driver

import "testing"

func TestLoadProgramThenRunSeedProgram(t *testing.T) {
	d := NewDriver()
	if err := d.LoadProgram(`
		addi $t0, $zero, 5
		addi $t1, $zero, 10
		add $t2, $t0, $t1
	`); err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}

	n := d.Run(0)
	if n != 3 {
		t.Fatalf("Run executed %d instructions, want 3", n)
	}
	if !d.IsTerminated() {
		t.Fatalf("driver should terminate after running off the end of the program")
	}
}

func TestRunRespectsMaxCycles(t *testing.T) {
	d := NewDriver()
	d.LoadProgram(`
		addi $t0, $zero, 1
		addi $t0, $zero, 1
		addi $t0, $zero, 1
	`)
	n := d.Run(2)
	if n != 2 {
		t.Fatalf("Run executed %d instructions, want 2", n)
	}
	if d.IsTerminated() {
		t.Fatalf("driver should not have terminated after a bounded run")
	}
}

func TestSyscallExitTerminatesAndFurtherStepsAreNoOps(t *testing.T) {
	d := NewDriver()
	d.LoadProgram(`
		addi $v0, $zero, 10
		syscall
		addi $t0, $zero, 99
	`)
	d.Run(0)
	if !d.IsTerminated() {
		t.Fatalf("expected termination after syscall 10")
	}
	if executed := d.Step(); executed {
		t.Fatalf("Step after termination should be a no-op")
	}
	if got := d.Machine.ReadReg(8); got != 0 {
		t.Fatalf("instruction after exit should never have run, t0 = %d", got)
	}
}

func TestLoadProgramDoesNotResetMachineState(t *testing.T) {
	d := NewDriver()
	d.Machine.WriteReg(8, 42)
	d.LoadProgram("addi $t1, $zero, 1")
	if got := d.Machine.ReadReg(8); got != 42 {
		t.Fatalf("t0 = %d, want 42 (LoadProgram must not reset state)", got)
	}
}

func TestResetClearsEverything(t *testing.T) {
	d := NewDriver()
	d.LoadProgram("addi $t0, $zero, 1")
	d.Run(0)
	d.Reset()
	if d.Machine.ReadReg(8) != 0 {
		t.Fatalf("expected registers cleared after Reset")
	}
	if d.IsTerminated() {
		t.Fatalf("expected terminated flag cleared after Reset")
	}
}

func TestStrictLoadModeRejectsBadProgram(t *testing.T) {
	d := NewDriver()
	d.LoadMode = LoadStrict
	err := d.LoadProgram("bogus $t0, $t1")
	if err == nil {
		t.Fatalf("expected an error in strict mode for an unassemblable line")
	}
}

func TestLenientLoadModeKeepsGoodLines(t *testing.T) {
	d := NewDriver()
	err := d.LoadProgram(`
		addi $t0, $zero, 1
		bogus $t0, $t1
	`)
	if err != nil {
		t.Fatalf("lenient mode should not return an error: %v", err)
	}
	if len(d.Program.Instructions) != 1 {
		t.Fatalf("got %d instructions, want 1", len(d.Program.Instructions))
	}
	if len(d.LastDiagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(d.LastDiagnostics))
	}
}

func TestOutOfRangePCTerminates(t *testing.T) {
	d := NewDriver()
	d.LoadProgram("addi $t0, $zero, 1")
	d.Run(0)
	if !d.IsTerminated() {
		t.Fatalf("expected termination after running off the end of a 1-instruction program")
	}
}

func TestPipelineOverlayDoesNotChangeFinalState(t *testing.T) {
	program := `
		addi $t0, $zero, 5
		addi $t1, $zero, 10
		add $t2, $t0, $t1
		sw $t2, 0($zero)
		lw $t3, 0($zero)
	`

	single := NewDriver()
	single.LoadProgram(program)
	single.Run(0)

	piped := NewDriver()
	piped.SetPipelineMode(true)
	piped.LoadProgram(program)
	piped.Run(0)

	for i := 0; i < 32; i++ {
		if single.Machine.ReadReg(i) != piped.Machine.ReadReg(i) {
			t.Fatalf("register %d diverged: single=%d piped=%d", i, single.Machine.ReadReg(i), piped.Machine.ReadReg(i))
		}
	}
	if single.Machine.ReadWord(0) != piped.Machine.ReadWord(0) {
		t.Fatalf("memory diverged between single-cycle and pipeline modes")
	}
}

func TestPipelineClearedOnReset(t *testing.T) {
	d := NewDriver()
	d.SetPipelineMode(true)
	d.LoadProgram("addi $t0, $zero, 1")
	d.Tick()
	d.Reset()
	stages := d.PipelineStages()
	for _, s := range stages {
		if s.Valid {
			t.Fatalf("expected all pipeline stages to be bubbles after Reset, got %+v", stages)
		}
	}
}

func TestLoadWordsDecodeFailureTerminatesOnExecute(t *testing.T) {
	d := NewDriver()
	d.LoadWords([]uint32{0xFFFFFFFF}) // opcode 0x3F, not in the dispatch table
	executed := d.Step()
	if executed {
		t.Fatalf("expected Step to report no instruction executed for an undecodable word")
	}
	if !d.IsTerminated() {
		t.Fatalf("expected an undecodable word to terminate the machine")
	}
}
