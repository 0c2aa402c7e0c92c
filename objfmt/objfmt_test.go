package objfmt

import (
	"testing"

	"github.com/cesiumlabs/mips32sim/decoder"
	"github.com/cesiumlabs/mips32sim/vm"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []vm.Instruction{
		{Mnemonic: vm.Add, Rd: 10, Rs: 8, Rt: 9},
		{Mnemonic: vm.Addi, Rt: 8, Rs: 0, Imm16: 5},
		{Mnemonic: vm.Sll, Rd: 8, Rt: 9, Shamt: 4},
		{Mnemonic: vm.J, Target: 0x123},
		{Mnemonic: vm.Jal, Target: 0x456},
		{Mnemonic: vm.Syscall},
		{Mnemonic: vm.Trap, Imm16: 7},
	}
	for _, inst := range cases {
		word, err := Encode(inst)
		if err != nil {
			t.Fatalf("Encode(%v): %v", inst.Name(), err)
		}
		decoded, ok := decoder.Decode(word)
		if !ok {
			t.Fatalf("Decode(%#x) failed for mnemonic %v", word, inst.Name())
		}
		if decoded.Mnemonic != inst.Mnemonic {
			t.Fatalf("round trip mismatch: got %v, want %v", decoded.Mnemonic, inst.Mnemonic)
		}
	}
}

func TestEncodeInvalidMnemonicFails(t *testing.T) {
	_, err := Encode(vm.Instruction{Mnemonic: vm.MnemonicInvalid})
	if err == nil {
		t.Fatalf("expected error encoding an invalid mnemonic")
	}
}

func TestContainerRoundTrip(t *testing.T) {
	c := Container{
		Instructions: []uint32{0x00000000, 0x20080005},
		Data:         []byte("Hi\x00"),
	}
	raw := c.Marshal()
	got, err := Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got.Instructions) != 2 || got.Instructions[1] != 0x20080005 {
		t.Fatalf("instructions = %v", got.Instructions)
	}
	if string(got.Data) != "Hi\x00" {
		t.Fatalf("data = %q", got.Data)
	}
}

func TestUnmarshalRejectsBadMagic(t *testing.T) {
	raw := make([]byte, 16)
	_, err := Unmarshal(raw)
	if err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestUnmarshalRejectsTruncatedBody(t *testing.T) {
	c := Container{Instructions: []uint32{1, 2, 3}}
	raw := c.Marshal()
	_, err := Unmarshal(raw[:len(raw)-4])
	if err == nil {
		t.Fatalf("expected error for truncated body")
	}
}
