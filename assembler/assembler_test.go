package assembler

import (
	"testing"

	"github.com/cesiumlabs/mips32sim/vm"
)

func assembleOK(t *testing.T, src string) Program {
	t.Helper()
	prog, diags := AssembleWithLabels(src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return prog
}

func TestAssembleSeedProgram(t *testing.T) {
	prog := assembleOK(t, `
		addi $t0, $zero, 5
		addi $t1, $zero, 10
		add $t2, $t0, $t1
	`)
	if len(prog.Instructions) != 3 {
		t.Fatalf("got %d instructions, want 3", len(prog.Instructions))
	}
	if prog.Instructions[2].Mnemonic != vm.Add {
		t.Fatalf("instruction[2] = %v, want add", prog.Instructions[2].Mnemonic)
	}
}

func TestAssembleEveryMnemonicProducesOneInstructionNamedForItself(t *testing.T) {
	lines := map[string]vm.Mnemonic{
		"add $t0, $t1, $t2":      vm.Add,
		"sub $t0, $t1, $t2":      vm.Sub,
		"addu $t0, $t1, $t2":     vm.Addu,
		"subu $t0, $t1, $t2":     vm.Subu,
		"and $t0, $t1, $t2":      vm.And,
		"or $t0, $t1, $t2":       vm.Or,
		"xor $t0, $t1, $t2":      vm.Xor,
		"nor $t0, $t1, $t2":      vm.Nor,
		"slt $t0, $t1, $t2":      vm.Slt,
		"sltu $t0, $t1, $t2":     vm.Sltu,
		"sll $t0, $t1, 4":        vm.Sll,
		"srl $t0, $t1, 4":        vm.Srl,
		"sra $t0, $t1, 4":        vm.Sra,
		"sllv $t0, $t1, $t2":     vm.Sllv,
		"srlv $t0, $t1, $t2":     vm.Srlv,
		"srav $t0, $t1, $t2":     vm.Srav,
		"mult $t0, $t1":          vm.Mult,
		"multu $t0, $t1":         vm.Multu,
		"div $t0, $t1":           vm.Div,
		"divu $t0, $t1":          vm.Divu,
		"mfhi $t0":               vm.Mfhi,
		"mflo $t0":               vm.Mflo,
		"mthi $t0":               vm.Mthi,
		"mtlo $t0":               vm.Mtlo,
		"addi $t0, $t1, 4":       vm.Addi,
		"addiu $t0, $t1, 4":      vm.Addiu,
		"slti $t0, $t1, 4":       vm.Slti,
		"sltiu $t0, $t1, 4":      vm.Sltiu,
		"andi $t0, $t1, 4":       vm.Andi,
		"ori $t0, $t1, 4":        vm.Ori,
		"xori $t0, $t1, 4":       vm.Xori,
		"llo $t0, 4":             vm.Llo,
		"lhi $t0, 4":             vm.Lhi,
		"lw $t0, 4($t1)":         vm.Lw,
		"sw $t0, 4($t1)":         vm.Sw,
		"lh $t0, 4($t1)":         vm.Lh,
		"lhu $t0, 4($t1)":        vm.Lhu,
		"sh $t0, 4($t1)":         vm.Sh,
		"lb $t0, 4($t1)":         vm.Lb,
		"lbu $t0, 4($t1)":        vm.Lbu,
		"sb $t0, 4($t1)":         vm.Sb,
		"beq $t0, $t1, 4":        vm.Beq,
		"bne $t0, $t1, 4":        vm.Bne,
		"blez $t0, 4":            vm.Blez,
		"bgtz $t0, 4":            vm.Bgtz,
		"j 100":                  vm.J,
		"jal 100":                vm.Jal,
		"jr $t0":                 vm.Jr,
		"jalr $t0":               vm.Jalr,
		"syscall":                vm.Syscall,
		"trap 7":                 vm.Trap,
	}
	for line, want := range lines {
		prog, diags := AssembleWithLabels(line)
		if len(diags) != 0 {
			t.Errorf("line %q: unexpected diagnostics: %v", line, diags)
			continue
		}
		if len(prog.Instructions) != 1 {
			t.Errorf("line %q: got %d instructions, want 1", line, len(prog.Instructions))
			continue
		}
		if got := prog.Instructions[0].Mnemonic; got != want {
			t.Errorf("line %q: mnemonic = %v, want %v", line, got, want)
		}
	}
}

func TestAssembleBeqLabelResolvesToWordDelta(t *testing.T) {
	prog := assembleOK(t, `
		beq $t0, $t1, target
		addi $v0, $zero, 0
		target:
		addi $v0, $zero, 42
	`)
	if len(prog.Instructions) != 3 {
		t.Fatalf("got %d instructions, want 3", len(prog.Instructions))
	}
	beq := prog.Instructions[0]
	if beq.SignExtendImm16() != 2 {
		t.Fatalf("beq delta = %d, want 2", beq.SignExtendImm16())
	}
}

func TestAssembleJLabel(t *testing.T) {
	prog := assembleOK(t, `
		j done
		addi $v0, $zero, 1
		done:
		addi $v0, $zero, 2
	`)
	j := prog.Instructions[0]
	if j.Target != 2 {
		t.Fatalf("j target = %d, want 2", j.Target)
	}
}

func TestUnknownMnemonicIsADiagnosticNotAFatalError(t *testing.T) {
	prog, diags := AssembleWithLabels(`
		addi $t0, $zero, 1
		bogus $t0, $t1
		addi $t1, $zero, 2
	`)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if len(prog.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2 (bad line skipped)", len(prog.Instructions))
	}
}

func TestBadRegisterNameIsADiagnostic(t *testing.T) {
	_, diags := AssembleWithLabels("add $t0, $bogus, $t2")
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
}

func TestOutOfRangeShiftAmountIsADiagnostic(t *testing.T) {
	_, diags := AssembleWithLabels("sll $t0, $t1, 32")
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
}

func TestDataDirectiveDoesNotConsumeInstructionIndex(t *testing.T) {
	prog := assembleOK(t, `
		addi $v0, $zero, 1
		addi $v1, $zero, 2
		msg:
		.asciiz "Hi"
	`)
	if len(prog.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2 (data directive must not bump instruction_index)", len(prog.Instructions))
	}
	if prog.DataLabels["msg"] != 0 {
		t.Fatalf("msg data label = %d, want 0", prog.DataLabels["msg"])
	}
	if len(prog.Data) != 1 || prog.Data[0].Text != "Hi" {
		t.Fatalf("data = %+v", prog.Data)
	}
}

func TestHexImmediate(t *testing.T) {
	prog := assembleOK(t, "lhi $t0, 0xABCD")
	if prog.Instructions[0].Imm16 != 0xABCD {
		t.Fatalf("imm = %#x, want 0xABCD", prog.Instructions[0].Imm16)
	}
}

func TestNegativeImmediate(t *testing.T) {
	prog := assembleOK(t, "addi $t0, $zero, -1")
	if prog.Instructions[0].SignExtendImm16() != -1 {
		t.Fatalf("imm = %d, want -1", prog.Instructions[0].SignExtendImm16())
	}
}
