package cpu

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op     Opcode
		name   string
		size   int
		alu    bool
		setsPc bool
	}){
		{OP_HLT, "HLT", 1, false, false},
		{OP_LDI, "LDI", 3, false, false},
		{OP_PRN, "PRN", 2, false, false},
		{OP_MULT, "MULT", 3, true, false},
		{OP_ADD, "ADD", 3, true, false},
		{OP_PUSH, "PUSH", 2, false, false},
		{OP_POP, "POP", 2, false, false},
		{OP_CALL, "CALL", 2, false, true},
		{OP_RET, "RET", 1, false, true},
	}

	for _, entry := range table {
		assert.True(entry.op.Valid(), entry.name)
		assert.Equal(entry.name, entry.op.String())
		assert.Equal(entry.size, entry.op.Size(), entry.name)
		assert.Equal(entry.alu, entry.op.IsAlu(), entry.name)
		assert.Equal(entry.setsPc, entry.op.SetsPc(), entry.name)
	}

	assert.Equal(len(table), len(slices.Collect(Opcodes())))
}

func TestOpcode_Invalid(t *testing.T) {
	assert := assert.New(t)

	op := Opcode(0b11111111)
	assert.False(op.Valid())
	assert.Equal("Opcode(0b11111111)", op.String())
}

func TestOpcodes_Sorted(t *testing.T) {
	assert := assert.New(t)

	ops := slices.Collect(Opcodes())
	assert.True(slices.IsSorted(ops))
	assert.Equal(OP_HLT, ops[0])
}

func TestAluOp(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(ALU_OP_ADD, AluOp(OP_ADD&0xf))
	assert.Equal(ALU_OP_MULT, AluOp(OP_MULT&0xf))
	assert.Equal("ADD", ALU_OP_ADD.String())
	assert.Equal("MULT", ALU_OP_MULT.String())
	assert.Equal("AluOp(9)", AluOp(9).String())
}

func TestCode_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("HLT", MakeCode(OP_HLT).String())
	assert.Equal("LDI R0,8", MakeCode(OP_LDI, 0, 8).String())
	assert.Equal("PRN R3", MakeCode(OP_PRN, 3).String())
	assert.Equal("MULT R0,R1", MakeCode(OP_MULT, 0, 1).String())
	assert.Equal("CALL R1", MakeCode(OP_CALL, 1).String())
}

func TestCode_Bytes(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]byte{0b10000010, 0, 8}, MakeCode(OP_LDI, 0, 8).Bytes())
	assert.Equal([]byte{0b00000001}, MakeCode(OP_HLT).Bytes())
}
