// Package objfmt implements the binary encode/decode direction the
// decoder package doesn't need for execution but a complete
// simulator does for persisting assembled programs: Encode is
// decoder.Decode's inverse, and Container (container.go) is a small on-disk container
// format for an assembled instruction list plus its data segment.
//
// Per spec.md §9's open question, the source's own `assemble` output
// format is explicitly not part of the simulation core and is free to
// be redefined by the CLI collaborator — this package is that
// redefinition, grounded on the teacher's encoder package (which
// performs the equivalent mnemonic+operands → word encoding for ARM2)
// but producing the MIPS32 bit layout decoder.go already documents.
package objfmt

import (
	"fmt"

	"github.com/cesiumlabs/mips32sim/vm"
)

const (
	opcodeShift = 26
	rsShift     = 21
	rtShift     = 16
	rdShift     = 11
	shamtShift  = 6

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

var rTypeFunct = map[vm.Mnemonic]uint32{
	vm.Sll: functSll, vm.Srl: functSrl, vm.Sra: functSra,
	vm.Sllv: functSllv, vm.Srlv: functSrlv, vm.Srav: functSrav,
	vm.Jr: functJr, vm.Jalr: functJalr,
	vm.Syscall: functSyscall,
	vm.Mfhi:    functMfhi, vm.Mthi: functMthi, vm.Mflo: functMflo, vm.Mtlo: functMtlo,
	vm.Mult: functMult, vm.Multu: functMultu, vm.Div: functDiv, vm.Divu: functDivu,
	vm.Add: functAdd, vm.Addu: functAddu, vm.Sub: functSub, vm.Subu: functSubu,
	vm.And: functAnd, vm.Or: functOr, vm.Xor: functXor, vm.Nor: functNor,
	vm.Slt: functSlt, vm.Sltu: functSltu,
}

var iTypeOpcode = map[vm.Mnemonic]uint32{
	vm.Beq: opBeq, vm.Bne: opBne, vm.Blez: opBlez, vm.Bgtz: opBgtz,
	vm.Addi: opAddi, vm.Addiu: opAddiu, vm.Slti: opSlti, vm.Sltiu: opSltiu,
	vm.Andi: opAndi, vm.Ori: opOri, vm.Xori: opXori,
	vm.Llo: opLlo, vm.Lhi: opLhi,
	vm.Lb: opLb, vm.Lh: opLh, vm.Lw: opLw, vm.Lbu: opLbu, vm.Lhu: opLhu,
	vm.Sb: opSb, vm.Sh: opSh, vm.Sw: opSw,
}

// Encode packs inst back into a 32-bit word using the bit layout
// decoder.go documents. It returns an error for any mnemonic this
// architecture doesn't define (notably MnemonicInvalid).
func Encode(inst vm.Instruction) (uint32, error) {
	if funct, ok := rTypeFunct[inst.Mnemonic]; ok {
		return encodeR(inst, funct), nil
	}
	if opcode, ok := iTypeOpcode[inst.Mnemonic]; ok {
		return (opcode << opcodeShift) | uint32(inst.Rs)<<rsShift | uint32(inst.Rt)<<rtShift | uint32(inst.Imm16), nil
	}

	switch inst.Mnemonic {
	case vm.J:
		return (opJ << opcodeShift) | (inst.Target & 0x3FFFFFF), nil
	case vm.Jal:
		return (opJal << opcodeShift) | (inst.Target & 0x3FFFFFF), nil
	case vm.Trap:
		return (opTrap << opcodeShift) | uint32(inst.Imm16), nil
	}

	return 0, fmt.Errorf("objfmt: cannot encode mnemonic %s", inst.Mnemonic)
}

func encodeR(inst vm.Instruction, funct uint32) uint32 {
	return (opR << opcodeShift) |
		uint32(inst.Rs)<<rsShift |
		uint32(inst.Rt)<<rtShift |
		uint32(inst.Rd)<<rdShift |
		inst.Shamt<<shamtShift |
		funct
}

// EncodeProgram encodes every instruction in order, stopping at (and
// returning) the first encoding failure.
func EncodeProgram(instructions []vm.Instruction) ([]uint32, error) {
	words := make([]uint32, len(instructions))
	for i, inst := range instructions {
		w, err := Encode(inst)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		words[i] = w
	}
	return words, nil
}
