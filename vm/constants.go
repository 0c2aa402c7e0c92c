package vm

// Memory and execution defaults.
//
// Unlike the ARM2 emulator this project descends from, MIPS32 addresses
// in this design are split between two separate address spaces: the
// instruction list (addressed by word index, see Machine.PC) and the
// byte-addressable data memory modeled here.
const (
	DefaultMemorySize  = 0x00100000 // 1 MiB
	DefaultMaxCycles   = 1000000    // not used by driver.Run, whose bound is driver.DefaultCycleBudget
	DefaultLogCapacity = 1000
)

// Register aliases, matching the conventional MIPS calling convention
// names recognized by the assembler.
const (
	RegZero = 0
	RegAt   = 1
	RegV0   = 2
	RegV1   = 3
	RegA0   = 4
	RegA1   = 5
	RegA2   = 6
	RegA3   = 7
	RegT0   = 8
	RegT1   = 9
	RegT2   = 10
	RegT3   = 11
	RegT4   = 12
	RegT5   = 13
	RegT6   = 14
	RegT7   = 15
	RegS0   = 16
	RegS1   = 17
	RegS2   = 18
	RegS3   = 19
	RegS4   = 20
	RegS5   = 21
	RegS6   = 22
	RegS7   = 23
	RegT8   = 24
	RegT9   = 25
	RegK0   = 26
	RegK1   = 27
	RegGp   = 28
	RegSp   = 29
	RegFp   = 30
	RegRa   = 31
)

// NumRegisters is the size of the general register file.
const NumRegisters = 32
