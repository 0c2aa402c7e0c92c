package vm

// Mnemonic tags the variant of Instruction, playing the role of the
// sum-type discriminant spec.md §3 describes. Go has no native tagged
// union, so — following the teacher's own InstructionType/Execute
// split in vm/executor.go rather than reaching for a virtual-dispatch
// interface hierarchy (Design Notes §9) — a single Instruction struct
// carries every mnemonic's operands, and dispatch is the switch in
// Execute.
type Mnemonic int

// Supported mnemonics, grouped exactly as spec.md §4.2 groups them.
const (
	MnemonicInvalid Mnemonic = iota

	// R-type arithmetic/logical
	Add
	Sub
	Addu
	Subu
	And
	Or
	Xor
	Nor
	Slt
	Sltu

	// Shifts
	Sll
	Srl
	Sra
	Sllv
	Srlv
	Srav

	// Multiply/divide
	Mult
	Multu
	Div
	Divu
	Mfhi
	Mflo
	Mthi
	Mtlo

	// I-type arithmetic/logical
	Addi
	Addiu
	Slti
	Sltiu
	Andi
	Ori
	Xori
	Llo
	Lhi

	// Loads/stores
	Lw
	Sw
	Lh
	Lhu
	Sh
	Lb
	Lbu
	Sb

	// Branches
	Beq
	Bne
	Blez
	Bgtz

	// Jumps
	J
	Jal
	Jr
	Jalr

	// System
	Syscall
	Trap
)

var mnemonicNames = map[Mnemonic]string{
	Add: "add", Sub: "sub", Addu: "addu", Subu: "subu",
	And: "and", Or: "or", Xor: "xor", Nor: "nor",
	Slt: "slt", Sltu: "sltu",
	Sll: "sll", Srl: "srl", Sra: "sra",
	Sllv: "sllv", Srlv: "srlv", Srav: "srav",
	Mult: "mult", Multu: "multu", Div: "div", Divu: "divu",
	Mfhi: "mfhi", Mflo: "mflo", Mthi: "mthi", Mtlo: "mtlo",
	Addi: "addi", Addiu: "addiu", Slti: "slti", Sltiu: "sltiu",
	Andi: "andi", Ori: "ori", Xori: "xori", Llo: "llo", Lhi: "lhi",
	Lw: "lw", Sw: "sw", Lh: "lh", Lhu: "lhu", Sh: "sh",
	Lb: "lb", Lbu: "lbu", Sb: "sb",
	Beq: "beq", Bne: "bne", Blez: "blez", Bgtz: "bgtz",
	J: "j", Jal: "jal", Jr: "jr", Jalr: "jalr",
	Syscall: "syscall", Trap: "trap",
}

// String returns the canonical mnemonic text, implementing the
// instruction set's name() operation from spec.md §4.1.
func (mn Mnemonic) String() string {
	if name, ok := mnemonicNames[mn]; ok {
		return name
	}
	return "invalid"
}

// Instruction is an immutable, decoded instruction: one of the
// mnemonics above together with whichever operand fields it uses.
// Unused fields for a given mnemonic are simply left at their zero
// value. Instructions are produced once by the assembler or the
// decoder and never mutated afterward (spec.md §3).
type Instruction struct {
	Mnemonic Mnemonic

	Rs, Rt, Rd int
	Shamt      uint32

	// Imm16 holds the raw 16-bit immediate exactly as encoded; callers
	// sign- or zero-extend it according to the mnemonic (spec.md
	// §4.2's addi/addiu/slti/sltiu extend the sign, andi/ori/xori do
	// not).
	Imm16 uint16

	// Target holds a numeric jump target (already a word index) when
	// the operand was given numerically rather than as a label.
	Target uint32

	// Label holds the symbolic operand for control-flow mnemonics
	// that were assembled with a label rather than a numeric operand
	// (j, the label form of beq, jal). Empty when the mnemonic used a
	// numeric operand instead.
	Label string
}

// Name returns the instruction's mnemonic text.
func (i Instruction) Name() string {
	return i.Mnemonic.String()
}

// SignExtendImm16 returns Imm16 sign-extended to 32 bits, the
// extension rule used by addi/addiu/slti/sltiu/loads/stores/branches.
func (i Instruction) SignExtendImm16() int32 {
	return int32(int16(i.Imm16))
}

// ZeroExtendImm16 returns Imm16 zero-extended to 32 bits, the
// extension rule used by andi/ori/xori and the high/low-half moves.
func (i Instruction) ZeroExtendImm16() uint32 {
	return uint32(i.Imm16)
}
