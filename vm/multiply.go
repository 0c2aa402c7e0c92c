package vm

// execMultiplyDivide implements the multiply/divide family of
// spec.md §4.2, all of which read or write the HI/LO cells rather
// than a general register (except mfhi/mflo/mthi/mtlo, which move a
// value between HI/LO and the general file).
func execMultiplyDivide(m *Machine, inst Instruction) {
	switch inst.Mnemonic {
	case Mult:
		product := int64(int32(m.ReadReg(inst.Rs))) * int64(int32(m.ReadReg(inst.Rt)))
		m.WriteHI(uint32(uint64(product) >> 32))
		m.WriteLO(uint32(uint64(product)))

	case Multu:
		product := uint64(m.ReadReg(inst.Rs)) * uint64(m.ReadReg(inst.Rt))
		m.WriteHI(uint32(product >> 32))
		m.WriteLO(uint32(product))

	case Div:
		rs := int32(m.ReadReg(inst.Rs))
		rt := int32(m.ReadReg(inst.Rt))
		if rt == 0 {
			m.WriteHI(0)
			m.WriteLO(0)
		} else {
			m.WriteLO(uint32(rs / rt))
			m.WriteHI(uint32(rs % rt))
		}

	case Divu:
		rs := m.ReadReg(inst.Rs)
		rt := m.ReadReg(inst.Rt)
		if rt == 0 {
			m.WriteHI(0)
			m.WriteLO(0)
		} else {
			m.WriteLO(rs / rt)
			m.WriteHI(rs % rt)
		}

	case Mfhi:
		m.WriteReg(inst.Rd, m.ReadHI())
	case Mflo:
		m.WriteReg(inst.Rd, m.ReadLO())
	case Mthi:
		m.WriteHI(m.ReadReg(inst.Rs))
	case Mtlo:
		m.WriteLO(m.ReadReg(inst.Rs))
	}
}
