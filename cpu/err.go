package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted         = errors.New(f("cpu halted"))
	ErrFaulted        = errors.New(f("cpu faulted"))
	ErrAluUnsupported = errors.New(f("unsupported alu operation"))
	ErrChannelInvalid = errors.New(f("channel invalid"))

	// Loader errors
	ErrParseBinary = errors.New(f("not an 8-bit binary literal"))
	ErrProgramSize = errors.New(f("program exceeds memory"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissingArgs  = errors.New(f("missing arguments"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrValueRange         = errors.New(f("value out of byte range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrAddressFault is a memory or stack access outside of memory.
type ErrAddressFault struct {
	Address int
	Pc      int
}

func (err ErrAddressFault) Error() string {
	return f("address fault 0x%x at pc 0x%02x", err.Address, err.Pc)
}

func (err ErrAddressFault) Is(target error) (ok bool) {
	_, ok = target.(ErrAddressFault)
	return
}

// ErrRegisterFault is a register index outside of the register bank.
type ErrRegisterFault struct {
	Index int
	Pc    int
}

func (err ErrRegisterFault) Error() string {
	return f("register fault r%d at pc 0x%02x", err.Index, err.Pc)
}

func (err ErrRegisterFault) Is(target error) (ok bool) {
	_, ok = target.(ErrRegisterFault)
	return
}

// ErrUnknownOpcode is an opcode byte with no handler.
type ErrUnknownOpcode struct {
	Pc     int
	Opcode byte
}

func (err ErrUnknownOpcode) Error() string {
	return f("unknown opcode 0b%08b at pc 0x%02x", err.Opcode, err.Pc)
}

func (err ErrUnknownOpcode) Is(target error) (ok bool) {
	_, ok = target.(ErrUnknownOpcode)
	return
}

type ErrAluOp AluOp

func (err ErrAluOp) Error() string {
	return f("alu op %v", AluOp(err).String())
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
