package asm

import (
	"iter"
)

// Link is an operand that refers to a label, patched after the pass.
type Link struct {
	Offset int    // Byte offset of the operand within the line.
	Size   int    // Operand size, 1 or 2 bytes.
	Label  string // Label to link.
}

// Line is one assembled source line.
type Line struct {
	LineNo  int      // Source line number.
	Address uint16   // Address of the first byte.
	Words   []string // Mnemonic and operands.
	Bytes   []uint8  // Generated bytes.
	Links   []Link   // Operands linked to labels.
}

// Segment is a run of contiguous program bytes.
type Segment struct {
	Origin uint16
	Data   []uint8
}

type Program struct {
	Lines  []Line
	Labels map[string]uint16
}

type Debug struct {
	*Line
	Index int
}

// Debug finds the source line that generated the byte at addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, line := range prog.Lines {
		offset := addr - line.Address
		if int(offset) < len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(offset),
			}
			break
		}
	}

	return
}

// Bytes iterates over every generated byte and its address.
func (prog *Program) Bytes() iter.Seq2[uint16, uint8] {
	return func(yield func(addr uint16, value uint8) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Address+uint16(n), value) {
					return
				}
			}
		}
	}
}

// Segments returns the program bytes, merged into contiguous runs in
// source order.
func (prog *Program) Segments() (segs []Segment) {
	var next uint16
	for _, line := range prog.Lines {
		if len(line.Bytes) == 0 {
			continue
		}

		last := len(segs) - 1
		if last >= 0 && line.Address == next {
			segs[last].Data = append(segs[last].Data, line.Bytes...)
		} else {
			segs = append(segs, Segment{
				Origin: line.Address,
				Data:   append([]uint8(nil), line.Bytes...),
			})
		}
		next = line.Address + uint16(len(line.Bytes))
	}

	return
}

// Binary returns a flat image spanning the lowest to the highest generated
// address. Gaps are zero filled. Bytes that wrap past 0xFFFF are dropped.
func (prog *Program) Binary() (origin uint16, data []uint8) {
	low, high := 0x10000, 0
	for _, seg := range prog.Segments() {
		start := int(seg.Origin)
		end := min(start+len(seg.Data), 0x10000)
		low = min(low, start)
		high = max(high, end)
	}

	if low >= high {
		return
	}

	origin = uint16(low)
	data = make([]uint8, high-low)
	for _, seg := range prog.Segments() {
		start := int(seg.Origin)
		for n, value := range seg.Data {
			addr := start + n
			if addr >= 0x10000 {
				break
			}
			data[addr-low] = value
		}
	}

	return
}
