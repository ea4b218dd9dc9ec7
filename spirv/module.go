package spirv

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Header is the five-word preamble of a SPIR-V module.
type Header struct {
	Version   Version
	Generator uint32
	Bound     uint32
	Schema    uint32
}

// Module is a decoded SPIR-V module: the header and the flat
// instruction stream in logical order.
type Module struct {
	Header       Header
	Instructions []Instruction
}

// ParseError reports malformed SPIR-V. Offset is the word index at
// which decoding failed.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("spirv: word %d: %s", e.Offset, e.Message)
}

// Parse decodes a SPIR-V binary. Both byte orders are accepted;
// the order is detected from the magic number.
func Parse(data []byte) (*Module, error) {
	if len(data)%4 != 0 {
		return nil, &ParseError{Offset: len(data) / 4, Message: fmt.Sprintf("size %d is not a multiple of 4", len(data))}
	}
	if len(data) < headerWords*4 {
		return nil, &ParseError{Message: "truncated header"}
	}

	var order binary.ByteOrder = binary.LittleEndian
	switch {
	case binary.LittleEndian.Uint32(data) == MagicNumber:
	case binary.BigEndian.Uint32(data) == MagicNumber:
		order = binary.BigEndian
	default:
		return nil, &ParseError{Message: fmt.Sprintf("bad magic number 0x%08x", binary.LittleEndian.Uint32(data))}
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = order.Uint32(data[i*4:])
	}

	m := &Module{
		Header: Header{
			Version:   versionFromWord(words[1]),
			Generator: words[2],
			Bound:     words[3],
			Schema:    words[4],
		},
	}
	for i := headerWords; i < len(words); {
		count := int(words[i] >> 16)
		op := OpCode(words[i] & 0xffff)
		if count == 0 {
			return nil, &ParseError{Offset: i, Message: fmt.Sprintf("%s has zero word count", op)}
		}
		if i+count > len(words) {
			return nil, &ParseError{Offset: i, Message: fmt.Sprintf("%s overruns module end", op)}
		}
		m.Instructions = append(m.Instructions, Instruction{
			Opcode: op,
			Words:  words[i+1 : i+count : i+count],
		})
		i += count
	}
	return m, nil
}

// Bytes encodes m in little-endian byte order.
func (m *Module) Bytes() []byte {
	total := headerWords
	for _, inst := range m.Instructions {
		total += inst.WordCount()
	}
	buf := make([]byte, 0, total*4)
	for _, w := range []uint32{MagicNumber, m.Header.Version.word(), m.Header.Generator, m.Header.Bound, m.Header.Schema} {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	for _, inst := range m.Instructions {
		for _, w := range inst.Encode() {
			buf = binary.LittleEndian.AppendUint32(buf, w)
		}
	}
	return buf
}

// DecodeString reads a literal string starting at words[start] and
// returns it along with the index of the first word after it.
func DecodeString(words []uint32, start int) (string, int) {
	var b []byte
	for i := start; i < len(words); i++ {
		var w [4]byte
		binary.LittleEndian.PutUint32(w[:], words[i])
		if n := bytes.IndexByte(w[:], 0); n >= 0 {
			b = append(b, w[:n]...)
			return string(b), i + 1
		}
		b = append(b, w[:]...)
	}
	return string(b), len(words)
}

// EntryPoint is a decoded OpEntryPoint.
type EntryPoint struct {
	Model     ExecutionModel
	Function  uint32
	Name      string
	Interface []uint32
}

// EntryPoints lists the entry points of m in declaration order.
func (m *Module) EntryPoints() []EntryPoint {
	var eps []EntryPoint
	for _, inst := range m.Instructions {
		if inst.Opcode != OpEntryPoint || len(inst.Words) < 3 {
			continue
		}
		name, next := DecodeString(inst.Words, 2)
		eps = append(eps, EntryPoint{
			Model:     ExecutionModel(inst.Words[0]),
			Function:  inst.Words[1],
			Name:      name,
			Interface: inst.Words[next:],
		})
	}
	return eps
}

// Name returns the OpName attached to id, if any.
func (m *Module) Name(id uint32) (string, bool) {
	for _, inst := range m.Instructions {
		if inst.Opcode == OpName && len(inst.Words) >= 1 && inst.Words[0] == id {
			name, _ := DecodeString(inst.Words, 1)
			return name, true
		}
	}
	return "", false
}

// SetName sets the debug name of id, replacing an existing OpName.
func (m *Module) SetName(id uint32, name string) {
	inst := Instruction{Opcode: OpName, Words: appendString([]uint32{id}, name)}
	for i, old := range m.Instructions {
		if old.Opcode == OpName && len(old.Words) >= 1 && old.Words[0] == id {
			m.Instructions[i] = inst
			return
		}
	}
	m.insertBefore(inst, isAnnotationOrLater)
}

// SetDecoration sets a single-operand decoration of id, replacing an
// existing one of the same kind.
func (m *Module) SetDecoration(id uint32, dec Decoration, value uint32) {
	inst := Instruction{Opcode: OpDecorate, Words: []uint32{id, uint32(dec), value}}
	for i, old := range m.Instructions {
		if old.Opcode == OpDecorate && len(old.Words) >= 2 && old.Words[0] == id && Decoration(old.Words[1]) == dec {
			m.Instructions[i] = inst
			return
		}
	}
	m.insertBefore(inst, isTypeOrLater)
}

// Decoration returns the first operand of decoration dec on id.
// Decorations without operands report 0 and true.
func (m *Module) Decoration(id uint32, dec Decoration) (uint32, bool) {
	for _, inst := range m.Instructions {
		if inst.Opcode != OpDecorate || len(inst.Words) < 2 || inst.Words[0] != id || Decoration(inst.Words[1]) != dec {
			continue
		}
		if len(inst.Words) > 2 {
			return inst.Words[2], true
		}
		return 0, true
	}
	return 0, false
}

// insertBefore inserts inst ahead of the first instruction for which
// stop returns true, or at the end.
func (m *Module) insertBefore(inst Instruction, stop func(OpCode) bool) {
	at := len(m.Instructions)
	for i, old := range m.Instructions {
		if stop(old.Opcode) {
			at = i
			break
		}
	}
	m.Instructions = append(m.Instructions, Instruction{})
	copy(m.Instructions[at+1:], m.Instructions[at:])
	m.Instructions[at] = inst
}

func isAnnotationOrLater(op OpCode) bool {
	switch op {
	case OpDecorate, OpMemberDecorate, OpDecorationGroup, OpGroupDecorate:
		return true
	}
	return isTypeOrLater(op)
}

func isTypeOrLater(op OpCode) bool {
	switch {
	case op >= OpTypeVoid && op <= OpTypeFunction:
		return true
	case op >= OpConstantTrue && op <= OpSpecConstant+4:
		return true
	case op == OpVariable, op == OpFunction:
		return true
	}
	return false
}
