package assembler

import "github.com/cesiumlabs/mips32sim/vm"

// registerNames maps the assembly-level register token (with its
// leading '$') to a general-purpose register index, per spec.md
// §4.4's recognized name list. Any other '$'-prefixed token is a
// parse failure for its line.
var registerNames = map[string]int{
	"$zero": vm.RegZero,
	"$at":   vm.RegAt,
	"$v0":   vm.RegV0,
	"$v1":   vm.RegV1,
	"$a0":   vm.RegA0,
	"$a1":   vm.RegA1,
	"$a2":   vm.RegA2,
	"$a3":   vm.RegA3,
	"$t0":   vm.RegT0,
	"$t1":   vm.RegT1,
	"$t2":   vm.RegT2,
	"$t3":   vm.RegT3,
	"$t4":   vm.RegT4,
	"$t5":   vm.RegT5,
	"$t6":   vm.RegT6,
	"$t7":   vm.RegT7,
	"$t8":   vm.RegT8,
	"$t9":   vm.RegT9,
	"$s0":   vm.RegS0,
	"$s1":   vm.RegS1,
	"$s2":   vm.RegS2,
	"$s3":   vm.RegS3,
	"$s4":   vm.RegS4,
	"$s5":   vm.RegS5,
	"$s6":   vm.RegS6,
	"$s7":   vm.RegS7,
	"$k0":   vm.RegK0,
	"$k1":   vm.RegK1,
	"$gp":   vm.RegGp,
	"$sp":   vm.RegSp,
	"$fp":   vm.RegFp,
	"$ra":   vm.RegRa,
}

func parseRegister(tok string) (int, bool) {
	i, ok := registerNames[tok]
	return i, ok
}

// ParseRegisterName is the exported form of parseRegister, for
// callers outside the assembler (the debugger's expression evaluator)
// that need to resolve a "$name" token the same way assembly source
// does, without duplicating the name table.
func ParseRegisterName(tok string) (int, bool) {
	return parseRegister(tok)
}
