package objfmt

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// magic identifies a .mobj file: "MOBJ" in ASCII.
const magic = uint32(0x4D4F424A)

const formatVersion = 1

// Container is the on-disk representation of an assembled program:
// the encoded instruction words and the flattened data segment bytes.
// This is a small fixed-layout binary format, not a general
// serialization problem, which is why it is hand-rolled on
// encoding/binary rather than reaching for a third-party codec (see
// DESIGN.md) — there is no schema evolution, no interop target, and
// no nesting beyond two flat byte runs.
type Container struct {
	Instructions []uint32
	Data         []byte
}

// Marshal writes the container as:
//
//	magic         uint32
//	version       uint32
//	instrCount    uint32
//	dataLen       uint32
//	instructions  [instrCount]uint32
//	data          [dataLen]byte
func (c Container) Marshal() []byte {
	var buf bytes.Buffer
	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[0:4], magic)
	binary.LittleEndian.PutUint32(header[4:8], formatVersion)
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(c.Instructions)))
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(c.Data)))
	buf.Write(header)

	word := make([]byte, 4)
	for _, w := range c.Instructions {
		binary.LittleEndian.PutUint32(word, w)
		buf.Write(word)
	}
	buf.Write(c.Data)

	return buf.Bytes()
}

// Unmarshal parses a .mobj buffer produced by Marshal.
func Unmarshal(raw []byte) (Container, error) {
	if len(raw) < 16 {
		return Container{}, fmt.Errorf("objfmt: truncated header (%d bytes)", len(raw))
	}
	if got := binary.LittleEndian.Uint32(raw[0:4]); got != magic {
		return Container{}, fmt.Errorf("objfmt: bad magic %#08x", got)
	}
	if version := binary.LittleEndian.Uint32(raw[4:8]); version != formatVersion {
		return Container{}, fmt.Errorf("objfmt: unsupported version %d", version)
	}
	instrCount := binary.LittleEndian.Uint32(raw[8:12])
	dataLen := binary.LittleEndian.Uint32(raw[12:16])

	want := 16 + int(instrCount)*4 + int(dataLen)
	if len(raw) < want {
		return Container{}, fmt.Errorf("objfmt: truncated body, want %d bytes got %d", want, len(raw))
	}

	instructions := make([]uint32, instrCount)
	cursor := 16
	for i := range instructions {
		instructions[i] = binary.LittleEndian.Uint32(raw[cursor : cursor+4])
		cursor += 4
	}
	data := append([]byte(nil), raw[cursor:cursor+int(dataLen)]...)

	return Container{Instructions: instructions, Data: data}, nil
}
