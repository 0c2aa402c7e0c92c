package vm

import "strconv"

// Syscall numbers dispatched on the value in $v0 (register 2), per
// spec.md §4.2's table. Grounded on the teacher's vm/syscall_constants.go
// naming convention, narrowed to the six services this architecture
// defines — there is no file-I/O, memory-allocation, or debugging
// syscall surface in this design (that belongs to the host, not the
// simulated machine).
const (
	SyscallPrintInt       = 1
	SyscallPrintString    = 4
	SyscallReadInt        = 5
	SyscallExit           = 10
	SyscallPrintCharacter = 11
	SyscallReadCharacter  = 12
)

// execSyscall dispatches on the current value of $v0. Unknown syscall
// numbers are silently ignored, per spec.md §4.2.
func execSyscall(m *Machine) {
	m.Stats.RecordSyscall()

	switch m.ReadReg(RegV0) {
	case SyscallPrintInt:
		// print_int in this design prints the contents of $a0 as
		// unsigned decimal, even though $a0 conventionally holds a
		// signed value in MIPS assembly practice — this preserves the
		// original implementation's behavior (spec.md §9 Open
		// Questions); changing it requires an explicit flag.
		m.Console.WriteString(strconv.FormatUint(uint64(m.ReadReg(RegA0)), 10))

	case SyscallPrintString:
		addr := m.ReadReg(RegA0)
		for {
			b := m.ReadByte(addr)
			if b == 0 {
				break
			}
			m.Console.WriteByte(b)
			addr++
		}

	case SyscallReadInt:
		m.WriteReg(RegV0, uint32(m.Console.ReadDecimal()))

	case SyscallExit:
		m.Terminate()

	case SyscallPrintCharacter:
		m.Console.WriteByte(byte(m.ReadReg(RegA0)))

	case SyscallReadCharacter:
		b, ok := m.Console.ReadByte()
		if !ok {
			m.WriteReg(RegV0, 0xFFFFFFFF)
		} else {
			m.WriteReg(RegV0, uint32(b))
		}
	}
}
