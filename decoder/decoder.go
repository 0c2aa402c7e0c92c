// Package decoder implements the pure binary-to-instruction half of
// the simulator: a stateless function from a 32-bit machine word to
// a decoded vm.Instruction, dispatched on opcode and, for the R-type
// family, on funct. It has no dependency on assembler or driver and
// never touches machine state.
package decoder

import (
	"strconv"

	"github.com/cesiumlabs/mips32sim/vm"
)

// Bit-field extents, big-endian bit numbering as spec.md §4.3 states
// them (bit 31 is the most significant).
const (
	opcodeShift = 26
	rsShift     = 21
	rtShift     = 16
	rdShift     = 11
	shamtShift  = 6

	fieldMask5  = 0x1F
	fieldMask6  = 0x3F
	fieldMask16 = 0xFFFF
	fieldMask26 = 0x3FFFFFF
)

func opcode(word uint32) uint32   { return (word >> opcodeShift) & fieldMask6 }
func rs(word uint32) int          { return int((word >> rsShift) & fieldMask5) }
func rt(word uint32) int          { return int((word >> rtShift) & fieldMask5) }
func rd(word uint32) int          { return int((word >> rdShift) & fieldMask5) }
func shamt(word uint32) uint32    { return (word >> shamtShift) & fieldMask5 }
func funct(word uint32) uint32    { return word & fieldMask6 }
func imm16(word uint32) uint16    { return uint16(word & fieldMask16) }
func target26(word uint32) uint32 { return word & fieldMask26 }

// R-type function codes (opcode 0x00).
const (
	functSll     = 0x00
	functSrl     = 0x02
	functSra     = 0x03
	functSllv    = 0x04
	functSrlv    = 0x06
	functSrav    = 0x07
	functJr      = 0x08
	functJalr    = 0x09
	functSyscall = 0x0C
	functMfhi    = 0x10
	functMthi    = 0x11
	functMflo    = 0x12
	functMtlo    = 0x13
	functMult    = 0x18
	functMultu   = 0x19
	functDiv     = 0x1A
	functDivu    = 0x1B
	functAdd     = 0x20
	functAddu    = 0x21
	functSub     = 0x22
	functSubu    = 0x23
	functAnd     = 0x24
	functOr      = 0x25
	functXor     = 0x26
	functNor     = 0x27
	functSlt     = 0x2A
	functSltu    = 0x2B
)

// Opcodes.
const (
	opR     = 0x00
	opJ     = 0x02
	opJal   = 0x03
	opBeq   = 0x04
	opBne   = 0x05
	opBlez  = 0x06
	opBgtz  = 0x07
	opAddi  = 0x08
	opAddiu = 0x09
	opSlti  = 0x0A
	opSltiu = 0x0B
	opAndi  = 0x0C
	opOri   = 0x0D
	opXori  = 0x0E
	opLlo   = 0x18
	opLhi   = 0x19
	opTrap  = 0x1A
	opLb    = 0x20
	opLh    = 0x21
	opLw    = 0x23
	opLbu   = 0x24
	opLhu   = 0x25
	opSb    = 0x28
	opSh    = 0x29
	opSw    = 0x2B
)

// Decode decodes a single 32-bit instruction word. ok is false when
// the opcode/funct pair matches none of the mnemonics in spec.md
// §4.3's dispatch table, in which case the returned Instruction is
// the zero value and must not be executed.
func Decode(word uint32) (inst vm.Instruction, ok bool) {
	switch opcode(word) {
	case opR:
		return decodeRType(word)

	case opJ:
		return vm.Instruction{Mnemonic: vm.J, Target: target26(word)}, true
	case opJal:
		return vm.Instruction{Mnemonic: vm.Jal, Target: target26(word)}, true

	case opBeq:
		return branchInstruction(vm.Beq, word), true
	case opBne:
		return branchInstruction(vm.Bne, word), true
	case opBlez:
		return branchInstruction(vm.Blez, word), true
	case opBgtz:
		return branchInstruction(vm.Bgtz, word), true

	case opAddi:
		return iType(vm.Addi, word), true
	case opAddiu:
		return iType(vm.Addiu, word), true
	case opSlti:
		return iType(vm.Slti, word), true
	case opSltiu:
		return iType(vm.Sltiu, word), true
	case opAndi:
		return iType(vm.Andi, word), true
	case opOri:
		return iType(vm.Ori, word), true
	case opXori:
		return iType(vm.Xori, word), true

	case opLlo:
		return vm.Instruction{Mnemonic: vm.Llo, Rt: rt(word), Imm16: imm16(word)}, true
	case opLhi:
		return vm.Instruction{Mnemonic: vm.Lhi, Rt: rt(word), Imm16: imm16(word)}, true
	case opTrap:
		return vm.Instruction{Mnemonic: vm.Trap, Imm16: imm16(word)}, true

	case opLb:
		return memType(vm.Lb, word), true
	case opLh:
		return memType(vm.Lh, word), true
	case opLw:
		return memType(vm.Lw, word), true
	case opLbu:
		return memType(vm.Lbu, word), true
	case opLhu:
		return memType(vm.Lhu, word), true
	case opSb:
		return memType(vm.Sb, word), true
	case opSh:
		return memType(vm.Sh, word), true
	case opSw:
		return memType(vm.Sw, word), true

	default:
		return vm.Instruction{}, false
	}
}

// Mnemonic reports just the decoded mnemonic, without building the
// full Instruction, for callers that only need to classify a word.
func Mnemonic(word uint32) (vm.Mnemonic, bool) {
	inst, ok := Decode(word)
	if !ok {
		return vm.MnemonicInvalid, false
	}
	return inst.Mnemonic, true
}

func decodeRType(word uint32) (vm.Instruction, bool) {
	switch funct(word) {
	case functSll:
		return vm.Instruction{Mnemonic: vm.Sll, Rd: rd(word), Rt: rt(word), Shamt: shamt(word)}, true
	case functSrl:
		return vm.Instruction{Mnemonic: vm.Srl, Rd: rd(word), Rt: rt(word), Shamt: shamt(word)}, true
	case functSra:
		return vm.Instruction{Mnemonic: vm.Sra, Rd: rd(word), Rt: rt(word), Shamt: shamt(word)}, true
	case functSllv:
		return vm.Instruction{Mnemonic: vm.Sllv, Rd: rd(word), Rt: rt(word), Rs: rs(word)}, true
	case functSrlv:
		return vm.Instruction{Mnemonic: vm.Srlv, Rd: rd(word), Rt: rt(word), Rs: rs(word)}, true
	case functSrav:
		return vm.Instruction{Mnemonic: vm.Srav, Rd: rd(word), Rt: rt(word), Rs: rs(word)}, true

	case functJr:
		return vm.Instruction{Mnemonic: vm.Jr, Rs: rs(word)}, true
	case functJalr:
		return vm.Instruction{Mnemonic: vm.Jalr, Rs: rs(word), Rd: rd(word)}, true

	case functSyscall:
		return vm.Instruction{Mnemonic: vm.Syscall}, true

	case functMfhi:
		return vm.Instruction{Mnemonic: vm.Mfhi, Rd: rd(word)}, true
	case functMthi:
		return vm.Instruction{Mnemonic: vm.Mthi, Rs: rs(word)}, true
	case functMflo:
		return vm.Instruction{Mnemonic: vm.Mflo, Rd: rd(word)}, true
	case functMtlo:
		return vm.Instruction{Mnemonic: vm.Mtlo, Rs: rs(word)}, true

	case functMult:
		return vm.Instruction{Mnemonic: vm.Mult, Rs: rs(word), Rt: rt(word)}, true
	case functMultu:
		return vm.Instruction{Mnemonic: vm.Multu, Rs: rs(word), Rt: rt(word)}, true
	case functDiv:
		return vm.Instruction{Mnemonic: vm.Div, Rs: rs(word), Rt: rt(word)}, true
	case functDivu:
		return vm.Instruction{Mnemonic: vm.Divu, Rs: rs(word), Rt: rt(word)}, true

	case functAdd:
		return vm.Instruction{Mnemonic: vm.Add, Rd: rd(word), Rs: rs(word), Rt: rt(word)}, true
	case functAddu:
		return vm.Instruction{Mnemonic: vm.Addu, Rd: rd(word), Rs: rs(word), Rt: rt(word)}, true
	case functSub:
		return vm.Instruction{Mnemonic: vm.Sub, Rd: rd(word), Rs: rs(word), Rt: rt(word)}, true
	case functSubu:
		return vm.Instruction{Mnemonic: vm.Subu, Rd: rd(word), Rs: rs(word), Rt: rt(word)}, true
	case functAnd:
		return vm.Instruction{Mnemonic: vm.And, Rd: rd(word), Rs: rs(word), Rt: rt(word)}, true
	case functOr:
		return vm.Instruction{Mnemonic: vm.Or, Rd: rd(word), Rs: rs(word), Rt: rt(word)}, true
	case functXor:
		return vm.Instruction{Mnemonic: vm.Xor, Rd: rd(word), Rs: rs(word), Rt: rt(word)}, true
	case functNor:
		return vm.Instruction{Mnemonic: vm.Nor, Rd: rd(word), Rs: rs(word), Rt: rt(word)}, true
	case functSlt:
		return vm.Instruction{Mnemonic: vm.Slt, Rd: rd(word), Rs: rs(word), Rt: rt(word)}, true
	case functSltu:
		return vm.Instruction{Mnemonic: vm.Sltu, Rd: rd(word), Rs: rs(word), Rt: rt(word)}, true

	default:
		return vm.Instruction{}, false
	}
}

func iType(mn vm.Mnemonic, word uint32) vm.Instruction {
	return vm.Instruction{Mnemonic: mn, Rt: rt(word), Rs: rs(word), Imm16: imm16(word)}
}

func memType(mn vm.Mnemonic, word uint32) vm.Instruction {
	return vm.Instruction{Mnemonic: mn, Rt: rt(word), Rs: rs(word), Imm16: imm16(word)}
}

// branchInstruction carries the sign-extended imm16 verbatim. Only
// beq additionally gets the synthetic label-form name the spec
// describes (§4.3); it is purely informational — the numeric Imm16
// delta, not Label, is what Execute consults (see vm/branch.go).
func branchInstruction(mn vm.Mnemonic, word uint32) vm.Instruction {
	inst := vm.Instruction{Mnemonic: mn, Rs: rs(word), Rt: rt(word), Imm16: imm16(word)}
	if mn == vm.Beq {
		inst.Label = "label_" + strconv.Itoa(int(int16(inst.Imm16)))
	}
	return inst
}
