package vm

import "strconv"

// execTrap implements the trap instruction of spec.md §4.2: it has no
// semantics beyond appending a diagnostic line to the console.
func execTrap(m *Machine, inst Instruction) {
	m.Console.WriteString("TRAP: " + strconv.Itoa(int(inst.Imm16)))
}
