// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for LS-8 mnemonics.
//
// Each line is an optional set of labels ("name:"), followed by either an
// instruction ("LDI R0,8"), a data byte ("DB 0x2a"), or an equate
// (".equ NAME VALUE"). Comments start with ';'. A "$(expr)" is evaluated at
// assembly time with all integer equates and known labels in scope.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var (
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*:$`)
	reIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// resolve expands equates, following chained definitions.
func (asm *Assembler) resolve(word string) string {
	for range 8 {
		value, ok := asm.Equate[word]
		if !ok {
			break
		}
		word = value
	}

	return word
}

// valueOf returns the byte value of a simple word.
// Negative values down to -128 are stored as two's complement.
func (asm *Assembler) valueOf(word string) (value byte, err error) {
	word = asm.resolve(word)

	v64, err := strconv.ParseInt(strings.ReplaceAll(word, "_", ""), 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < -128 || v64 > 0xff {
		err = ErrValueRange
		return
	}

	value = byte(v64)
	return
}

// registerOf returns the register index of a word.
func (asm *Assembler) registerOf(word string) (index byte, err error) {
	word = strings.ToUpper(asm.resolve(word))

	if len(word) != 2 || word[0] != 'R' || word[1] < '0' || word[1] >= '0'+REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	index = word[1] - '0'
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(asm.resolve(str), 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

	return
}

// currentAddress returns the address of the next generated byte.
func (asm *Assembler) currentAddress() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Address + len(last.Bytes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Lines = asm.Lines[:0]
	if asm.Label == nil {
		asm.Label = make(map[string]int)
	}
	clear(asm.Label)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.SplitN(text, ";", 2)
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Lines {
		ln := &asm.Lines[n]

		if len(ln.LinkLabel) == 0 {
			continue
		}
		label := ln.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno = ln.LineNo
			line = strings.Join(ln.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if len(ln.Bytes) < 1 {
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, ln.LineNo, ln.Words)
		}
		ln.Bytes[len(ln.Bytes)-1] = byte(addr)
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}

// opcodeOf maps mnemonics to opcodes.
var opcodeOf = func() map[string]Opcode {
	ops := map[string]Opcode{}
	for op := range Opcodes() {
		ops[op.String()] = op
	}
	return ops
}()

// emit appends a line of generated bytes.
func (asm *Assembler) emit(lineno int, words []string, bytes []byte, link string) (err error) {
	addr := asm.currentAddress()
	if addr+len(bytes) > MEMORY_SIZE {
		err = ErrProgramSize
		return
	}

	asm.Lines = append(asm.Lines, Line{
		LineNo:    lineno,
		Address:   addr,
		Words:     words,
		Bytes:     bytes,
		LinkLabel: link,
	})

	return
}

// parseWords assembles the words of a single line.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// Leading labels.
	for len(words) > 0 && reLabel.MatchString(words[0]) {
		label := strings.TrimSuffix(words[0], ":")
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.currentAddress()
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	mnemonic := strings.ToUpper(words[0])
	args := words[1:]

	switch mnemonic {
	case ".EQU":
		if len(args) != 2 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[args[0]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[args[0]] = args[1]
		return
	case "DB":
		if len(args) == 0 {
			err = ErrOpcodeMissingArgs
			return
		}
		bytes := make([]byte, len(args))
		for n, arg := range args {
			bytes[n], err = asm.valueOf(arg)
			if err != nil {
				return
			}
		}
		return asm.emit(lineno, words, bytes, "")
	}

	op, ok := opcodeOf[mnemonic]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	switch {
	case len(args) < op.Operands():
		err = ErrOpcodeMissingArgs
		return
	case len(args) > op.Operands():
		err = ErrOpcodeExtraArgs
		return
	}

	code := Code{Opcode: op, Operands: make([]byte, op.Operands())}
	var link string

	switch op {
	case OP_HLT, OP_RET:
		// No operands.
	case OP_PRN, OP_PUSH, OP_POP, OP_CALL:
		code.Operands[0], err = asm.registerOf(args[0])
	case OP_ADD, OP_MULT:
		code.Operands[0], err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		code.Operands[1], err = asm.registerOf(args[1])
	case OP_LDI:
		code.Operands[0], err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		code.Operands[1], err = asm.valueOf(args[1])
		if _, isNumber := err.(ErrParseNumber); isNumber {
			// Identifiers that are not registers are resolved during linking.
			word := asm.resolve(args[1])
			if _, regErr := asm.registerOf(word); regErr != nil && reIdent.MatchString(word) {
				link = word
				err = nil
			}
		}
	default:
		err = ErrInstructionInvalid
	}
	if err != nil {
		return
	}

	return asm.emit(lineno, words, code.Bytes(), link)
}
