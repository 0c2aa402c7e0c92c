package driver

import "github.com/cesiumlabs/mips32sim/config"
import "testing"

func TestApplyConfigSetsLegacyBranchOffsets(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Execution.LegacyBranchOffsets = true
	cfg.Execution.MaxCycles = 5

	d := NewDriverWithConfig(cfg)
	if !d.Machine.LegacyBranchOffsets {
		t.Fatalf("expected LegacyBranchOffsets to propagate to the machine")
	}

	d.LoadProgram(`
		addi $t0, $zero, 1
		addi $t0, $zero, 1
		addi $t0, $zero, 1
		addi $t0, $zero, 1
		addi $t0, $zero, 1
		addi $t0, $zero, 1
	`)
	n := d.Run(0)
	if n != 5 {
		t.Fatalf("Run executed %d instructions, want 5 (config MaxCycles should bound it)", n)
	}
}

func TestApplyConfigSetsConsoleOutputCap(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Console.OutputBufferCap = 3

	d := NewDriverWithConfig(cfg)
	d.Machine.Console.WriteString("abcdef")
	if got := d.Machine.Console.Output(); got != "def" {
		t.Fatalf("Output() = %q, want truncated to last 3 bytes", got)
	}
}
