// Package loader places an assembled program's data segment into a
// driver's machine memory. Instruction placement is the driver's own
// job (Driver.LoadProgram already installs the instruction list by
// word index); loader only has to resolve the data section's
// program-relative offsets, computed by the assembler's single pass,
// into absolute addresses in the total-function memory space and copy
// the bytes in, the way the teacher's LoadProgramIntoVM walks a
// parsed program's directives and writes each one into VM memory.
package loader

import (
	"fmt"

	"github.com/cesiumlabs/mips32sim/assembler"
	"github.com/cesiumlabs/mips32sim/driver"
)

// DefaultDataBase is where a program's .word/.byte/.asciiz section is
// placed when the caller has no more specific requirement. It sits
// well above any small instruction list's word-index range so a
// program can safely treat data addresses and instruction indices as
// distinct spaces without the two colliding.
const DefaultDataBase = 0x00001000

// LoadIntoDriver assembles source into d, then writes the resulting
// data section into d's machine memory starting at dataBase. It
// returns the data labels resolved to absolute addresses, since
// Driver/assembler only know about program-relative offsets.
func LoadIntoDriver(d *driver.Driver, source string, dataBase uint32) (map[string]uint32, error) {
	if err := d.LoadProgram(source); err != nil {
		return nil, err
	}

	for _, item := range d.Program.Data {
		if err := writeDataItem(d, dataBase, item); err != nil {
			return nil, err
		}
	}

	absolute := make(map[string]uint32, len(d.Program.DataLabels))
	for label, offset := range d.Program.DataLabels {
		absolute[label] = dataBase + offset
	}
	return absolute, nil
}

func writeDataItem(d *driver.Driver, dataBase uint32, item assembler.DataItem) error {
	addr := dataBase + item.Address

	switch item.Kind {
	case assembler.DataWord:
		for i, w := range item.Words {
			d.Machine.WriteWord(addr+uint32(i)*4, w)
		}
	case assembler.DataByte:
		d.Machine.Memory.LoadBytes(addr, item.Bytes)
	case assembler.DataAsciiz:
		d.Machine.Memory.LoadBytes(addr, append([]byte(item.Text), 0))
	default:
		return fmt.Errorf("loader: unknown data item kind %v at offset %#x", item.Kind, item.Address)
	}
	return nil
}
