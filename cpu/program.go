package cpu

import (
	"iter"
)

// Line is a line of source with the bytes it placed in memory.
type Line struct {
	LineNo    int      // Source line number, starting at 1.
	Address   int      // Memory address of the first byte.
	Words     []string // Source words.
	Bytes     []byte   // Generated memory image.
	LinkLabel string   // Label to resolve into the last byte, if any.
}

// Program is a listing of source lines and their memory image.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug returns the line that generated the byte at addr.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, line := range prog.Lines {
		if addr >= line.Address && addr < line.Address+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: addr - line.Address,
			}
			break
		}
	}

	return
}

// LineNo returns the source line number for addr, or 0 if unknown.
func (prog *Program) LineNo(addr int) int {
	dbg := prog.Debug(addr)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Binary returns the memory image of the program.
// Gaps between lines are zero filled.
func (prog *Program) Binary() (bins []byte) {
	for addr, value := range prog.Bytes() {
		if addr >= len(bins) {
			bins = append(bins, make([]byte, addr+1-len(bins))...)
		}
		bins[addr] = value
	}

	return
}

// Bytes iterates over each address and byte of the program.
func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(addr int, value byte) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Address+n, value) {
					return
				}
			}
		}
	}
}

// Size returns the number of bytes in the program image.
func (prog *Program) Size() (size int) {
	for _, line := range prog.Lines {
		end := line.Address + len(line.Bytes)
		if end > size {
			size = end
		}
	}

	return
}
