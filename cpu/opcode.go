package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Opcode is an LS-8 instruction opcode, encoded as AABCDDDD:
//   - AA: number of operand bytes that follow the opcode
//   - B: instruction is handled by the ALU
//   - C: instruction sets the PC directly
//   - DDDD: instruction identifier
type Opcode byte

const (
	OP_HLT  = Opcode(0b00000001) // HLT
	OP_LDI  = Opcode(0b10000010) // LDI
	OP_PRN  = Opcode(0b01000111) // PRN
	OP_MULT = Opcode(0b10100010) // MULT
	OP_ADD  = Opcode(0b10100000) // ADD
	OP_PUSH = Opcode(0b01000101) // PUSH
	OP_POP  = Opcode(0b01000110) // POP
	OP_CALL = Opcode(0b01010000) // CALL
	OP_RET  = Opcode(0b00010001) // RET
)

// opcodeName is the mnemonic of each implemented opcode.
var opcodeName = map[Opcode]string{
	OP_HLT:  "HLT",
	OP_LDI:  "LDI",
	OP_PRN:  "PRN",
	OP_MULT: "MULT",
	OP_ADD:  "ADD",
	OP_PUSH: "PUSH",
	OP_POP:  "POP",
	OP_CALL: "CALL",
	OP_RET:  "RET",
}

// Opcodes returns the implemented opcodes, in ascending order.
func Opcodes() iter.Seq[Opcode] {
	return slices.Values(slices.Sorted(maps.Keys(opcodeName)))
}

// Valid returns true if the opcode has a handler.
func (op Opcode) Valid() bool {
	_, ok := opcodeName[op]
	return ok
}

// Operands returns the number of operand bytes following the opcode.
func (op Opcode) Operands() int {
	return int(op >> 6)
}

// Size returns the instruction length in bytes.
func (op Opcode) Size() int {
	return 1 + op.Operands()
}

// IsAlu returns true if the opcode is an ALU operation.
func (op Opcode) IsAlu() bool {
	return (op & 0b00100000) != 0
}

// SetsPc returns true if the opcode assigns the PC rather than advancing it.
func (op Opcode) SetsPc() bool {
	return (op & 0b00010000) != 0
}

func (op Opcode) String() string {
	name, ok := opcodeName[op]
	if !ok {
		return fmt.Sprintf("Opcode(0b%08b)", byte(op))
	}
	return name
}

// AluOp is an ALU operation, taken from the DDDD bits of an ALU opcode.
type AluOp byte

const (
	ALU_OP_ADD  = AluOp(OP_ADD & 0xf)  // ADD
	ALU_OP_MULT = AluOp(OP_MULT & 0xf) // MULT
)

func (op AluOp) String() string {
	switch op {
	case ALU_OP_ADD:
		return "ADD"
	case ALU_OP_MULT:
		return "MULT"
	}
	return fmt.Sprintf("AluOp(%d)", byte(op))
}

// Code is a single decoded instruction.
type Code struct {
	Opcode   Opcode
	Operands []byte
}

// MakeCode creates an instruction from an opcode and its operands.
func MakeCode(op Opcode, operands ...byte) Code {
	return Code{Opcode: op, Operands: operands}
}

// Bytes returns the memory image of the instruction.
func (code Code) Bytes() []byte {
	return append([]byte{byte(code.Opcode)}, code.Operands...)
}

// operand returns the n'th operand, or zero if the instruction has none.
func (code Code) operand(n int) byte {
	if n >= len(code.Operands) {
		return 0
	}
	return code.Operands[n]
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	args := make([]string, len(code.Operands))
	for n, operand := range code.Operands {
		args[n] = fmt.Sprintf("%d", operand)
	}

	switch code.Opcode {
	case OP_LDI:
		if len(args) > 0 {
			args[0] = fmt.Sprintf("R%d", code.Operands[0])
		}
	case OP_PRN, OP_PUSH, OP_POP, OP_CALL, OP_ADD, OP_MULT:
		for n, operand := range code.Operands {
			args[n] = fmt.Sprintf("R%d", operand)
		}
	}

	if len(args) == 0 {
		return code.Opcode.String()
	}

	return code.Opcode.String() + " " + strings.Join(args, ",")
}
