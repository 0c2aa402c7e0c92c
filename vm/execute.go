package vm

// Execute runs one decoded instruction against m, mutating machine
// state and, unless the instruction overrides the program counter
// itself (branches, jumps, register jumps), advancing PC by one word
// index. This free function plays the role the Design Notes (§9)
// call for in place of a back-reference from an owned instruction
// object into its CPU: there is no instruction-to-machine ownership
// cycle, just a value and a state to mutate.
//
// Execute never returns an error for program-level failures (divide
// by zero, bad memory access, unknown syscalls) — those degrade
// silently per spec.md §3/§4.2/§7. It only returns an error for a
// MnemonicInvalid instruction, which should never reach here from a
// well-formed assembler or decoder output; the driver treats that as
// a decode failure.
func Execute(m *Machine, inst Instruction) error {
	switch inst.Mnemonic {
	case Add, Sub, Addu, Subu, And, Or, Xor, Nor, Slt, Sltu,
		Sll, Srl, Sra, Sllv, Srlv, Srav,
		Addi, Addiu, Slti, Sltiu, Andi, Ori, Xori, Llo, Lhi:
		execDataProcessing(m, inst)
		m.IncrementPCWord()

	case Mult, Multu, Div, Divu, Mfhi, Mflo, Mthi, Mtlo:
		execMultiplyDivide(m, inst)
		m.IncrementPCWord()

	case Lw, Sw, Lh, Lhu, Sh, Lb, Lbu, Sb:
		execMemory(m, inst)
		m.IncrementPCWord()

	case Beq, Bne, Blez, Bgtz:
		execBranch(m, inst)

	case J, Jal, Jr, Jalr:
		execJump(m, inst)

	case Syscall:
		execSyscall(m)
		m.IncrementPCWord()

	case Trap:
		execTrap(m, inst)
		m.IncrementPCWord()

	default:
		return &InvalidInstructionError{Instruction: inst}
	}

	m.Stats.RecordInstruction()
	return nil
}

// InvalidInstructionError reports an attempt to execute an
// Instruction with an unrecognized or zero-value Mnemonic, which can
// only happen when a caller hand-builds one or feeds the driver a
// failed decode (spec.md §7: "the driver MUST treat an attempt to
// execute a none-decoded word as a runtime failure and terminate").
type InvalidInstructionError struct {
	Instruction Instruction
}

func (e *InvalidInstructionError) Error() string {
	return "invalid instruction: mnemonic " + e.Instruction.Mnemonic.String()
}
