package cpu

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"
)

// Loader parses the LS-8 program format: one byte per line as an 8 digit
// binary literal, with '#' comments and blank lines ignored.
type Loader struct {
	Verbose bool // If set, verbosely logs the loaded bytes.
}

// Parse parses an input stream into a Program.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}
	addr := 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		text_comment := strings.SplitN(text, "#", 2)
		line = strings.TrimSpace(text_comment[0])
		if len(line) == 0 {
			continue
		}

		var value byte
		value, err = parseBinary(line)
		if err != nil {
			return
		}

		if addr >= MEMORY_SIZE {
			err = ErrProgramSize
			return
		}

		if ld.Verbose {
			log.Printf("%v: %02x: %08b", lineno, addr, value)
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo:  lineno,
			Address: addr,
			Words:   []string{line},
			Bytes:   []byte{value},
		})
		addr++
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	return
}

// parseBinary parses exactly eight binary digits.
func parseBinary(word string) (value byte, err error) {
	if len(word) != 8 || strings.Trim(word, "01") != "" {
		err = ErrParseBinary
		return
	}

	v64, err := strconv.ParseUint(word, 2, 8)
	if err != nil {
		err = ErrParseBinary
		return
	}

	value = byte(v64)
	return
}
