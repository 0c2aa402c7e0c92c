package loader

import (
	"testing"

	"github.com/cesiumlabs/mips32sim/driver"
)

func TestLoadIntoDriverPlacesWordData(t *testing.T) {
	d := driver.NewDriver()
	labels, err := LoadIntoDriver(d, `
		lw $t0, 0($zero)

		nums:
		.word 10
	`, DefaultDataBase)
	if err != nil {
		t.Fatalf("LoadIntoDriver: %v", err)
	}

	addr, ok := labels["nums"]
	if !ok {
		t.Fatalf("expected data label 'nums' to resolve")
	}
	if addr != DefaultDataBase {
		t.Fatalf("nums = %#x, want %#x", addr, DefaultDataBase)
	}
	if got := d.Machine.ReadWord(addr); got != 10 {
		t.Fatalf("word at nums = %d, want 10", got)
	}
}

func TestLoadIntoDriverPlacesAsciizData(t *testing.T) {
	d := driver.NewDriver()
	labels, err := LoadIntoDriver(d, `
		addi $t0, $zero, 0

		msg:
		.asciiz "Hi"
	`, DefaultDataBase)
	if err != nil {
		t.Fatalf("LoadIntoDriver: %v", err)
	}

	addr := labels["msg"]
	if got := d.Machine.ReadByte(addr); got != 'H' {
		t.Fatalf("byte 0 = %q, want 'H'", got)
	}
	if got := d.Machine.ReadByte(addr + 1); got != 'i' {
		t.Fatalf("byte 1 = %q, want 'i'", got)
	}
	if got := d.Machine.ReadByte(addr + 2); got != 0 {
		t.Fatalf("expected NUL terminator, got %d", got)
	}
}

func TestLoadIntoDriverMultipleItemsAreSequential(t *testing.T) {
	d := driver.NewDriver()
	labels, err := LoadIntoDriver(d, `
		addi $t0, $zero, 0

		a:
		.word 1
		b:
		.byte 9
	`, DefaultDataBase)
	if err != nil {
		t.Fatalf("LoadIntoDriver: %v", err)
	}

	if labels["a"] != DefaultDataBase {
		t.Fatalf("a = %#x, want %#x", labels["a"], DefaultDataBase)
	}
	if labels["b"] != DefaultDataBase+4 {
		t.Fatalf("b = %#x, want %#x", labels["b"], DefaultDataBase+4)
	}
	if got := d.Machine.ReadByte(labels["b"]); got != 9 {
		t.Fatalf("byte at b = %d, want 9", got)
	}
}

func TestLoadIntoDriverPropagatesAssemblyError(t *testing.T) {
	d := driver.NewDriver()
	d.LoadMode = driver.LoadStrict
	_, err := LoadIntoDriver(d, "bogus $t0, $t1", DefaultDataBase)
	if err == nil {
		t.Fatalf("expected strict-mode assembly failure to propagate")
	}
}
