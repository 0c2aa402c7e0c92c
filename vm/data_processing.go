package vm

// execDataProcessing implements the R-type arithmetic/logical
// instructions, the constant and variable shifts, and the I-type
// arithmetic/logical instructions of spec.md §4.2. All arithmetic is
// on 32-bit wrapping integers; this design raises no overflow trap
// for add/sub/addi (exceptions are a non-goal, spec.md §1).
func execDataProcessing(m *Machine, inst Instruction) {
	switch inst.Mnemonic {
	case Add:
		m.WriteReg(inst.Rd, m.ReadReg(inst.Rs)+m.ReadReg(inst.Rt))
	case Sub:
		m.WriteReg(inst.Rd, m.ReadReg(inst.Rs)-m.ReadReg(inst.Rt))
	case Addu:
		m.WriteReg(inst.Rd, m.ReadReg(inst.Rs)+m.ReadReg(inst.Rt))
	case Subu:
		m.WriteReg(inst.Rd, m.ReadReg(inst.Rs)-m.ReadReg(inst.Rt))
	case And:
		m.WriteReg(inst.Rd, m.ReadReg(inst.Rs)&m.ReadReg(inst.Rt))
	case Or:
		m.WriteReg(inst.Rd, m.ReadReg(inst.Rs)|m.ReadReg(inst.Rt))
	case Xor:
		m.WriteReg(inst.Rd, m.ReadReg(inst.Rs)^m.ReadReg(inst.Rt))
	case Nor:
		m.WriteReg(inst.Rd, ^(m.ReadReg(inst.Rs) | m.ReadReg(inst.Rt)))
	case Slt:
		if int32(m.ReadReg(inst.Rs)) < int32(m.ReadReg(inst.Rt)) {
			m.WriteReg(inst.Rd, 1)
		} else {
			m.WriteReg(inst.Rd, 0)
		}
	case Sltu:
		if m.ReadReg(inst.Rs) < m.ReadReg(inst.Rt) {
			m.WriteReg(inst.Rd, 1)
		} else {
			m.WriteReg(inst.Rd, 0)
		}

	case Sll:
		m.WriteReg(inst.Rd, m.ReadReg(inst.Rt)<<inst.Shamt)
	case Srl:
		m.WriteReg(inst.Rd, m.ReadReg(inst.Rt)>>inst.Shamt)
	case Sra:
		m.WriteReg(inst.Rd, uint32(int32(m.ReadReg(inst.Rt))>>inst.Shamt))
	case Sllv:
		shamt := m.ReadReg(inst.Rs) & 0x1F
		m.WriteReg(inst.Rd, m.ReadReg(inst.Rt)<<shamt)
	case Srlv:
		shamt := m.ReadReg(inst.Rs) & 0x1F
		m.WriteReg(inst.Rd, m.ReadReg(inst.Rt)>>shamt)
	case Srav:
		shamt := m.ReadReg(inst.Rs) & 0x1F
		m.WriteReg(inst.Rd, uint32(int32(m.ReadReg(inst.Rt))>>shamt))

	case Addi:
		m.WriteReg(inst.Rt, uint32(int32(m.ReadReg(inst.Rs))+inst.SignExtendImm16()))
	case Addiu:
		m.WriteReg(inst.Rt, m.ReadReg(inst.Rs)+uint32(inst.SignExtendImm16()))
	case Slti:
		if int32(m.ReadReg(inst.Rs)) < inst.SignExtendImm16() {
			m.WriteReg(inst.Rt, 1)
		} else {
			m.WriteReg(inst.Rt, 0)
		}
	case Sltiu:
		if m.ReadReg(inst.Rs) < uint32(inst.SignExtendImm16()) {
			m.WriteReg(inst.Rt, 1)
		} else {
			m.WriteReg(inst.Rt, 0)
		}
	case Andi:
		m.WriteReg(inst.Rt, m.ReadReg(inst.Rs)&inst.ZeroExtendImm16())
	case Ori:
		m.WriteReg(inst.Rt, m.ReadReg(inst.Rs)|inst.ZeroExtendImm16())
	case Xori:
		m.WriteReg(inst.Rt, m.ReadReg(inst.Rs)^inst.ZeroExtendImm16())
	case Llo:
		cur := m.ReadReg(inst.Rt)
		m.WriteReg(inst.Rt, (cur&0xFFFF0000)|inst.ZeroExtendImm16())
	case Lhi:
		cur := m.ReadReg(inst.Rt)
		m.WriteReg(inst.Rt, (cur&0x0000FFFF)|(inst.ZeroExtendImm16()<<16))
	}
}
