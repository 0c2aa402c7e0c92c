package vm

// execMemory implements the load/store family of spec.md §4.2. The
// effective address is always rs + sign-extended imm; alignment and
// bounds are enforced by Memory itself (silent degrade, never a
// fault).
func execMemory(m *Machine, inst Instruction) {
	addr := uint32(int32(m.ReadReg(inst.Rs)) + inst.SignExtendImm16())

	switch inst.Mnemonic {
	case Lw:
		m.WriteReg(inst.Rt, m.ReadWord(addr))
		m.Stats.MemoryReads++
	case Sw:
		m.WriteWord(addr, m.ReadReg(inst.Rt))
		m.Stats.MemoryWrites++

	case Lh:
		m.WriteReg(inst.Rt, uint32(int32(int16(m.ReadHalf(addr)))))
		m.Stats.MemoryReads++
	case Lhu:
		m.WriteReg(inst.Rt, uint32(m.ReadHalf(addr)))
		m.Stats.MemoryReads++
	case Sh:
		m.WriteHalf(addr, uint16(m.ReadReg(inst.Rt)))
		m.Stats.MemoryWrites++

	case Lb:
		m.WriteReg(inst.Rt, uint32(int32(int8(m.ReadByte(addr)))))
		m.Stats.MemoryReads++
	case Lbu:
		m.WriteReg(inst.Rt, uint32(m.ReadByte(addr)))
		m.Stats.MemoryReads++
	case Sb:
		m.WriteByte(addr, byte(m.ReadReg(inst.Rt)))
		m.Stats.MemoryWrites++
	}
}
