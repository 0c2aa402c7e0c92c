package vm

// execJump implements j/jal/jr/jalr per spec.md §4.2. As with
// branches, Instruction.Target already carries the resolved word
// index by execution time — the assembler resolves a label operand
// during its second pass, and a numeric jal operand is accepted
// directly as a word-index target (spec.md §4.4).
//
// jr and jalr take their target from a register holding a
// byte-address return link (as jal/jalr write (pc+1)*4), so they
// divide by 4 to convert back to a word index.
func execJump(m *Machine, inst Instruction) {
	switch inst.Mnemonic {
	case J:
		m.SetPC(inst.Target)

	case Jal:
		m.WriteReg(RegRa, (m.GetPC()+1)*4)
		m.SetPC(inst.Target)

	case Jr:
		m.SetPC(m.ReadReg(inst.Rs) / 4)

	case Jalr:
		// The assembler fills Rd with RegRa when the source omits an
		// explicit destination register, so no sentinel handling is
		// needed here.
		m.WriteReg(inst.Rd, (m.GetPC()+1)*4)
		m.SetPC(m.ReadReg(inst.Rs) / 4)
	}
}
