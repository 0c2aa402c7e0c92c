package vm

// execBranch implements beq/bne/blez/bgtz per spec.md §4.2. Branch
// targets in this design are a word-index delta relative to the
// current PC — there is no architectural delay slot, and "PC+4" /
// "offset << 2" byte-address arithmetic some MIPS assemblers use is
// deliberately not reproduced here (spec.md §9 Open Questions).
//
// Instruction.Imm16 always carries the already-resolved numeric word
// delta by the time an instruction reaches here: the assembler
// resolves a label operand into that delta during its second pass
// (labels are fully known after the first pass), and the decoder
// carries the verbatim encoded delta. Instruction.Label, when
// present, is therefore purely informational (symbol display in the
// debugger) and is never consulted during execution — this keeps
// Execute a pure function of machine state, with no out-of-band label
// map threaded through it (Design Notes §9).
func execBranch(m *Machine, inst Instruction) {
	offset := inst.SignExtendImm16()
	taken := false

	switch inst.Mnemonic {
	case Beq:
		taken = m.ReadReg(inst.Rs) == m.ReadReg(inst.Rt)
	case Bne:
		taken = m.ReadReg(inst.Rs) != m.ReadReg(inst.Rt)
	case Blez:
		taken = int32(m.ReadReg(inst.Rs)) <= 0
	case Bgtz:
		taken = int32(m.ReadReg(inst.Rs)) > 0
	}

	m.Stats.RecordBranch(taken)

	if taken {
		delta := offset
		if m.LegacyBranchOffsets {
			delta++
		}
		m.SetPC(uint32(int32(m.GetPC()) + delta))
	} else {
		m.IncrementPCWord()
	}
}
