// Package assembler implements the two-pass text assembler described
// in spec.md §4.4: source lines become a vector of vm.Instruction
// values plus a label→address map, with all label references already
// resolved into the numeric Imm16/Target fields Execute consumes
// (see vm/branch.go) — Execute never sees a label map.
//
// The assembler is lenient by design (spec.md §7): a malformed line
// produces no instruction and is recorded as a Diagnostic; assembly
// of the remaining lines continues. Callers wanting strict
// all-or-nothing behavior build that policy on top, by checking
// whether Diagnostics is empty (the driver's strict load mode does
// exactly this).
package assembler

import (
	"strconv"
	"strings"

	"github.com/cesiumlabs/mips32sim/vm"
)

// Program is the result of AssembleWithLabels: a resolved instruction
// list, the label→word-index map the spec describes, and the data
// segment this project's loader consumes (a supplemented feature;
// see spec.md §6, which scopes directive *content* parsing out of the
// core but leaves it open for a complete implementation).
type Program struct {
	Instructions []vm.Instruction
	Labels       map[string]uint32
	Data         []DataItem
	DataLabels   map[string]uint32
}

type rawLine struct {
	text   string
	lineNo int
	index  int // instruction_index this line will occupy
}

// AssembleWithLabels runs the full two-pass assembly described in
// spec.md §4.4 and returns every line that failed to assemble as a
// Diagnostic rather than aborting.
func AssembleWithLabels(source string) (Program, Diagnostics) {
	prog := Program{
		Labels:     map[string]uint32{},
		DataLabels: map[string]uint32{},
	}
	var diags Diagnostics

	rawLines, dataItems, dataLabels := firstPass(source, prog.Labels)
	prog.Data = dataItems
	prog.DataLabels = dataLabels

	for _, rl := range rawLines {
		inst, ok := parseInstructionLine(rl, prog.Labels)
		if !ok {
			diags = append(diags, Diagnostic{
				Pos:     Position{Line: rl.lineNo},
				Line:    rl.text,
				Message: "failed to assemble instruction line",
			})
			continue
		}
		prog.Instructions = append(prog.Instructions, inst)
	}

	return prog, diags
}

// Assemble is the simpler variant spec.md §4.4 names, for callers
// that don't need the label map.
func Assemble(source string) ([]vm.Instruction, Diagnostics) {
	prog, diags := AssembleWithLabels(source)
	return prog.Instructions, diags
}

func stripCommentAndTrim(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// firstPass walks the source once, building the label map and the
// data segment, and returns the instruction-bearing lines for the
// second pass to parse. Because addresses only ever grow as lines are
// walked in order, there is no forward-reference problem for data
// placement the way there is for branch/jump targets — only the
// instruction label map needs a full first pass before the second
// pass can resolve control-flow operands.
func firstPass(source string, labels map[string]uint32) ([]rawLine, []DataItem, map[string]uint32) {
	var rawLines []rawLine
	var dataItems []DataItem
	dataLabels := map[string]uint32{}

	instructionIndex := uint32(0)
	dataOffset := uint32(0)
	inDataSection := false

	lines := strings.Split(source, "\n")
	for i, original := range lines {
		lineNo := i + 1
		line := stripCommentAndTrim(original)
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, ":") {
			label := strings.TrimSuffix(line, ":")
			// The label addresses data when we're already inside the
			// data section, or when the next substantive line opens
			// one. There is no directive to leave the data section
			// once entered — by convention data declarations come
			// after all instructions, the same way .text precedes
			// .data in a real MIPS source file.
			if inDataSection || nextLineIsData(lines, i+1) {
				dataLabels[label] = dataOffset
			} else {
				labels[label] = instructionIndex
			}
			continue
		}

		if isDataDirectiveLine(line) {
			inDataSection = true
			item, ok := parseDataDirective(line, dataOffset)
			if ok {
				dataItems = append(dataItems, item)
				dataOffset += item.Size()
			}
			continue
		}

		rawLines = append(rawLines, rawLine{text: line, lineNo: lineNo, index: int(instructionIndex)})
		instructionIndex++
	}

	return rawLines, dataItems, dataLabels
}

func nextLineIsData(lines []string, from int) bool {
	for i := from; i < len(lines); i++ {
		line := stripCommentAndTrim(lines[i])
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, ":") {
			continue
		}
		return isDataDirectiveLine(line)
	}
	return false
}

func parseDataDirective(line string, address uint32) (DataItem, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return DataItem{}, false
	}
	keyword := fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(line, keyword))

	switch keyword {
	case ".word":
		var words []uint32
		for _, tok := range splitOperands(rest) {
			v, ok := parseImmediate(tok)
			if !ok {
				return DataItem{}, false
			}
			words = append(words, uint32(v))
		}
		return DataItem{Kind: DataWord, Address: address, Words: words}, true

	case ".byte":
		var bytes []byte
		for _, tok := range splitOperands(rest) {
			v, ok := parseImmediate(tok)
			if !ok {
				return DataItem{}, false
			}
			bytes = append(bytes, byte(v))
		}
		return DataItem{Kind: DataByte, Address: address, Bytes: bytes}, true

	case ".asciiz":
		text, ok := parseQuotedString(rest)
		if !ok {
			return DataItem{}, false
		}
		return DataItem{Kind: DataAsciiz, Address: address, Text: text}, true
	}

	return DataItem{}, false
}

func parseQuotedString(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", false
	}
	inner := s[1 : len(s)-1]
	var sb strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteByte(inner[i])
			}
			continue
		}
		sb.WriteByte(inner[i])
	}
	return sb.String(), true
}

func splitOperands(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseImmediate accepts decimal with an optional leading sign, or
// hexadecimal with a 0x/0X prefix, per spec.md §4.4.
func parseImmediate(tok string) (int64, bool) {
	neg := false
	if strings.HasPrefix(tok, "+") {
		tok = tok[1:]
	} else if strings.HasPrefix(tok, "-") {
		neg = true
		tok = tok[1:]
	}
	base := 10
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		base = 16
		tok = tok[2:]
	}
	v, err := strconv.ParseInt(tok, base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// parseMemOperand splits the load/store operand form "imm(reg)".
func parseMemOperand(tok string) (imm int64, reg string, ok bool) {
	open := strings.IndexByte(tok, '(')
	close := strings.IndexByte(tok, ')')
	if open < 0 || close < open {
		return 0, "", false
	}
	immTok := tok[:open]
	reg = tok[open+1 : close]
	if immTok == "" {
		imm = 0
	} else {
		v, valid := parseImmediate(immTok)
		if !valid {
			return 0, "", false
		}
		imm = v
	}
	return imm, reg, true
}
