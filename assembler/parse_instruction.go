package assembler

import (
	"strings"

	"github.com/cesiumlabs/mips32sim/vm"
)

type operandShape int

const (
	shapeRRR      operandShape = iota // rd, rs, rt
	shapeShiftConst                   // rd, rt, shamt
	shapeShiftVar                     // rd, rt, rs
	shapeMulDiv                       // rs, rt
	shapeMoveFrom                     // rd            (mfhi/mflo)
	shapeMoveTo                       // rs            (mthi/mtlo)
	shapeImmRtRs                      // rt, rs, imm
	shapeImmRtOnly                    // rt, imm       (llo/lhi)
	shapeMem                          // rt, imm(rs)
	shapeBranch2                      // rs, rt, numeric offset
	shapeBranch1                      // rs, numeric offset
	shapeJumpTarget                   // label or numeric target
	shapeJumpReg                      // rs
	shapeJumpLinkReg                  // rs  or  rd, rs
	shapeNoOperand                    // syscall
	shapeTrap                         // numeric code
)

type mnemonicSpec struct {
	mnemonic vm.Mnemonic
	shape    operandShape
}

var mnemonicTable = map[string]mnemonicSpec{
	"add": {vm.Add, shapeRRR}, "sub": {vm.Sub, shapeRRR},
	"addu": {vm.Addu, shapeRRR}, "subu": {vm.Subu, shapeRRR},
	"and": {vm.And, shapeRRR}, "or": {vm.Or, shapeRRR},
	"xor": {vm.Xor, shapeRRR}, "nor": {vm.Nor, shapeRRR},
	"slt": {vm.Slt, shapeRRR}, "sltu": {vm.Sltu, shapeRRR},

	"sll": {vm.Sll, shapeShiftConst}, "srl": {vm.Srl, shapeShiftConst}, "sra": {vm.Sra, shapeShiftConst},
	"sllv": {vm.Sllv, shapeShiftVar}, "srlv": {vm.Srlv, shapeShiftVar}, "srav": {vm.Srav, shapeShiftVar},

	"mult": {vm.Mult, shapeMulDiv}, "multu": {vm.Multu, shapeMulDiv},
	"div": {vm.Div, shapeMulDiv}, "divu": {vm.Divu, shapeMulDiv},
	"mfhi": {vm.Mfhi, shapeMoveFrom}, "mflo": {vm.Mflo, shapeMoveFrom},
	"mthi": {vm.Mthi, shapeMoveTo}, "mtlo": {vm.Mtlo, shapeMoveTo},

	"addi": {vm.Addi, shapeImmRtRs}, "addiu": {vm.Addiu, shapeImmRtRs},
	"slti": {vm.Slti, shapeImmRtRs}, "sltiu": {vm.Sltiu, shapeImmRtRs},
	"andi": {vm.Andi, shapeImmRtRs}, "ori": {vm.Ori, shapeImmRtRs}, "xori": {vm.Xori, shapeImmRtRs},
	"llo": {vm.Llo, shapeImmRtOnly}, "lhi": {vm.Lhi, shapeImmRtOnly},

	"lw": {vm.Lw, shapeMem}, "sw": {vm.Sw, shapeMem},
	"lh": {vm.Lh, shapeMem}, "lhu": {vm.Lhu, shapeMem}, "sh": {vm.Sh, shapeMem},
	"lb": {vm.Lb, shapeMem}, "lbu": {vm.Lbu, shapeMem}, "sb": {vm.Sb, shapeMem},

	"beq": {vm.Beq, shapeBranch2}, "bne": {vm.Bne, shapeBranch2},
	"blez": {vm.Blez, shapeBranch1}, "bgtz": {vm.Bgtz, shapeBranch1},

	"j": {vm.J, shapeJumpTarget}, "jal": {vm.Jal, shapeJumpTarget},
	"jr": {vm.Jr, shapeJumpReg}, "jalr": {vm.Jalr, shapeJumpLinkReg},

	"syscall": {vm.Syscall, shapeNoOperand},
	"trap":    {vm.Trap, shapeTrap},
}

func tokenizeOperands(rest string) []string {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil
	}
	fields := strings.Fields(rest)
	joined := strings.Join(fields, " ")
	toks := strings.Split(joined, ",")
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		out = append(out, strings.TrimSpace(t))
	}
	return out
}

// parseInstructionLine parses one non-label, non-directive source
// line into an Instruction, resolving any label operand against the
// already-complete label map built by the first pass. ok is false
// for any of the parse failures spec.md §4.4 enumerates, in which
// case the line yields no instruction.
func parseInstructionLine(rl rawLine, labels map[string]uint32) (vm.Instruction, bool) {
	fields := strings.SplitN(rl.text, " ", 2)
	mnem := strings.Fields(rl.text)[0]
	var rest string
	if len(fields) > 1 {
		rest = fields[1]
	}

	spec, ok := mnemonicTable[mnem]
	if !ok {
		return vm.Instruction{}, false
	}
	ops := tokenizeOperands(rest)

	switch spec.shape {
	case shapeRRR:
		if len(ops) != 3 {
			return vm.Instruction{}, false
		}
		rd, ok1 := parseRegister(ops[0])
		rs, ok2 := parseRegister(ops[1])
		rt, ok3 := parseRegister(ops[2])
		if !ok1 || !ok2 || !ok3 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Rd: rd, Rs: rs, Rt: rt}, true

	case shapeShiftConst:
		if len(ops) != 3 {
			return vm.Instruction{}, false
		}
		rd, ok1 := parseRegister(ops[0])
		rt, ok2 := parseRegister(ops[1])
		shamt, ok3 := parseImmediate(ops[2])
		if !ok1 || !ok2 || !ok3 || shamt < 0 || shamt > 31 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Rd: rd, Rt: rt, Shamt: uint32(shamt)}, true

	case shapeShiftVar:
		if len(ops) != 3 {
			return vm.Instruction{}, false
		}
		rd, ok1 := parseRegister(ops[0])
		rt, ok2 := parseRegister(ops[1])
		rs, ok3 := parseRegister(ops[2])
		if !ok1 || !ok2 || !ok3 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Rd: rd, Rt: rt, Rs: rs}, true

	case shapeMulDiv:
		if len(ops) != 2 {
			return vm.Instruction{}, false
		}
		rs, ok1 := parseRegister(ops[0])
		rt, ok2 := parseRegister(ops[1])
		if !ok1 || !ok2 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Rs: rs, Rt: rt}, true

	case shapeMoveFrom:
		if len(ops) != 1 {
			return vm.Instruction{}, false
		}
		rd, ok1 := parseRegister(ops[0])
		if !ok1 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Rd: rd}, true

	case shapeMoveTo:
		if len(ops) != 1 {
			return vm.Instruction{}, false
		}
		rs, ok1 := parseRegister(ops[0])
		if !ok1 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Rs: rs}, true

	case shapeImmRtRs:
		if len(ops) != 3 {
			return vm.Instruction{}, false
		}
		rt, ok1 := parseRegister(ops[0])
		rs, ok2 := parseRegister(ops[1])
		imm, ok3 := parseImmediate(ops[2])
		if !ok1 || !ok2 || !ok3 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Rt: rt, Rs: rs, Imm16: uint16(uint32(imm))}, true

	case shapeImmRtOnly:
		if len(ops) != 2 {
			return vm.Instruction{}, false
		}
		rt, ok1 := parseRegister(ops[0])
		imm, ok2 := parseImmediate(ops[1])
		if !ok1 || !ok2 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Rt: rt, Imm16: uint16(uint32(imm))}, true

	case shapeMem:
		if len(ops) != 2 {
			return vm.Instruction{}, false
		}
		rt, ok1 := parseRegister(ops[0])
		imm, reg, ok2 := parseMemOperand(ops[1])
		if !ok1 || !ok2 {
			return vm.Instruction{}, false
		}
		rs, ok3 := parseRegister(reg)
		if !ok3 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Rt: rt, Rs: rs, Imm16: uint16(uint32(imm))}, true

	case shapeBranch2:
		if len(ops) != 3 {
			return vm.Instruction{}, false
		}
		rs, ok1 := parseRegister(ops[0])
		rt, ok2 := parseRegister(ops[1])
		if !ok1 || !ok2 {
			return vm.Instruction{}, false
		}
		if spec.mnemonic == vm.Beq {
			imm, label, resolved := resolveBranchOperand(ops[2], labels, rl.index)
			if !resolved {
				return vm.Instruction{}, false
			}
			return vm.Instruction{Mnemonic: spec.mnemonic, Rs: rs, Rt: rt, Imm16: imm, Label: label}, true
		}
		// bne has no label-map resolution in this design (spec.md
		// §4.4's ambiguity resolution restricts label lookup to beq
		// and j); its operand must already be a numeric word delta.
		imm, ok3 := parseImmediate(ops[2])
		if !ok3 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Rs: rs, Rt: rt, Imm16: uint16(uint32(imm))}, true

	case shapeBranch1:
		if len(ops) != 2 {
			return vm.Instruction{}, false
		}
		rs, ok1 := parseRegister(ops[0])
		imm, ok2 := parseImmediate(ops[1])
		if !ok1 || !ok2 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Rs: rs, Imm16: uint16(uint32(imm))}, true

	case shapeJumpTarget:
		if len(ops) != 1 {
			return vm.Instruction{}, false
		}
		if target, ok := labels[ops[0]]; ok {
			return vm.Instruction{Mnemonic: spec.mnemonic, Target: target, Label: ops[0]}, true
		}
		target, ok := parseImmediate(ops[0])
		if !ok {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Target: uint32(target)}, true

	case shapeJumpReg:
		if len(ops) != 1 {
			return vm.Instruction{}, false
		}
		rs, ok1 := parseRegister(ops[0])
		if !ok1 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Rs: rs}, true

	case shapeJumpLinkReg:
		switch len(ops) {
		case 1:
			rs, ok1 := parseRegister(ops[0])
			if !ok1 {
				return vm.Instruction{}, false
			}
			return vm.Instruction{Mnemonic: spec.mnemonic, Rs: rs, Rd: vm.RegRa}, true
		case 2:
			rd, ok1 := parseRegister(ops[0])
			rs, ok2 := parseRegister(ops[1])
			if !ok1 || !ok2 {
				return vm.Instruction{}, false
			}
			return vm.Instruction{Mnemonic: spec.mnemonic, Rd: rd, Rs: rs}, true
		default:
			return vm.Instruction{}, false
		}

	case shapeNoOperand:
		if len(ops) != 0 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic}, true

	case shapeTrap:
		if len(ops) != 1 {
			return vm.Instruction{}, false
		}
		code, ok1 := parseImmediate(ops[0])
		if !ok1 {
			return vm.Instruction{}, false
		}
		return vm.Instruction{Mnemonic: spec.mnemonic, Imm16: uint16(uint32(code))}, true
	}

	return vm.Instruction{}, false
}

// resolveBranchOperand resolves beq's label-or-numeric operand into a
// word-index delta relative to this instruction's own index, matching
// how vm.execBranch adds the delta to the not-yet-advanced PC.
func resolveBranchOperand(tok string, labels map[string]uint32, thisIndex int) (imm16 uint16, label string, ok bool) {
	if target, found := labels[tok]; found {
		delta := int64(target) - int64(thisIndex)
		return uint16(uint32(int32(delta))), tok, true
	}
	v, found := parseImmediate(tok)
	if !found {
		return 0, "", false
	}
	return uint16(uint32(v)), "", true
}
