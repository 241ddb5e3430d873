package cpu

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/io"
)

func FuzzCpu(f *testing.F) {
	for op := range Opcodes() {
		f.Add(byte(op), byte(0), byte(1), byte(SP_INIT), byte(0x10))
		f.Add(byte(op), byte(7), byte(8), byte(0), byte(0xf0))
		f.Add(byte(op), byte(3), byte(3), byte(0xff), byte(0x80))
		f.Add(byte(op), byte(REG_SP), byte(0), byte(SP_INIT), byte(0x20))
		f.Add(byte(op), byte(REG_SP), byte(REG_SP), byte(0xff), byte(0))
	}
	f.Add(byte(0xff), byte(0), byte(0), byte(SP_INIT), byte(0))

	f.Fuzz(func(t *testing.T, opcode byte, op1 byte, op2 byte, sp byte, value byte) {
		assert := assert.New(t)

		const pc = 0x10
		const top = 0x3c

		output := &bytes.Buffer{}
		cpu := NewCpu()
		cpu.Output = &io.Tape{Output: output}
		cpu.Pc = pc
		for n := range REGISTER_COUNT {
			cpu.Register[n] = value + byte(n)
		}
		cpu.Register[REG_SP] = sp
		cpu.Memory[sp] = top

		pre_reg := cpu.Register
		pre_mem := cpu.Memory

		op := Opcode(opcode)
		code := Code{Opcode: op, Operands: []byte{op1, op2}[:min(op.Operands(), 2)]}

		err := cpu.Execute(code)

		code_str := fmt.Sprintf("%v op1:%d op2:%d sp:0x%02x\ncpu:%v", code, op1, op2, sp, cpu.String())

		if err != nil {
			// Faults leave the CPU untouched.
			assert.Equal(pre_reg, cpu.Register, code_str)
			assert.Equal(pre_mem, cpu.Memory, code_str)
			assert.Equal(pc, cpu.Pc, code_str)
			assert.Empty(output.String(), code_str)
		}

		if !op.Valid() {
			assert.ErrorIs(err, ErrUnknownOpcode{}, code_str)
			return
		}

		valid := func(regs ...byte) bool {
			for _, r := range regs {
				if r >= REGISTER_COUNT {
					return false
				}
			}
			return true
		}

		switch op {
		case OP_HLT:
			assert.NoError(err, code_str)
			assert.True(cpu.Halted, code_str)
			assert.Equal(pc, cpu.Pc, code_str)
		case OP_LDI:
			if !valid(op1) {
				assert.ErrorIs(err, ErrRegisterFault{}, code_str)
				return
			}
			assert.NoError(err, code_str)
			assert.Equal(op2, cpu.Register[op1], code_str)
			assert.Equal(pc+3, cpu.Pc, code_str)
		case OP_PRN:
			if !valid(op1) {
				assert.ErrorIs(err, ErrRegisterFault{}, code_str)
				return
			}
			assert.NoError(err, code_str)
			assert.Equal(fmt.Sprintf("%d\n", pre_reg[op1]), output.String(), code_str)
			assert.Equal(pc+2, cpu.Pc, code_str)
		case OP_ADD, OP_MULT:
			if !valid(op1, op2) {
				assert.ErrorIs(err, ErrRegisterFault{}, code_str)
				return
			}
			assert.NoError(err, code_str)
			expected := pre_reg[op1] + pre_reg[op2]
			if op == OP_MULT {
				expected = pre_reg[op1] * pre_reg[op2]
			}
			assert.Equal(expected, cpu.Register[op1], code_str)
			assert.Equal(pc+3, cpu.Pc, code_str)
		case OP_PUSH:
			switch {
			case !valid(op1):
				assert.ErrorIs(err, ErrRegisterFault{}, code_str)
			case sp == 0:
				assert.ErrorIs(err, ErrAddressFault{}, code_str)
			default:
				assert.NoError(err, code_str)
				// The operand is read after SP moves.
				expected := pre_reg[op1]
				if op1 == REG_SP {
					expected = sp - 1
				}
				assert.Equal(expected, cpu.Memory[sp-1], code_str)
				assert.Equal(sp-1, cpu.Register[REG_SP], code_str)
				assert.Equal(pc+2, cpu.Pc, code_str)
			}
		case OP_POP:
			switch {
			case !valid(op1):
				assert.ErrorIs(err, ErrRegisterFault{}, code_str)
			case op1 == REG_SP:
				// SP is written with the popped value, then incremented.
				assert.NoError(err, code_str)
				assert.Equal(byte(top+1), cpu.Register[REG_SP], code_str)
				assert.Equal(pc+2, cpu.Pc, code_str)
			case sp == 0xff:
				assert.ErrorIs(err, ErrAddressFault{}, code_str)
			default:
				assert.NoError(err, code_str)
				assert.Equal(byte(top), cpu.Register[op1], code_str)
				assert.Equal(sp+1, cpu.Register[REG_SP], code_str)
				assert.Equal(pc+2, cpu.Pc, code_str)
			}
		case OP_CALL:
			switch {
			case !valid(op1):
				assert.ErrorIs(err, ErrRegisterFault{}, code_str)
			case sp == 0:
				assert.ErrorIs(err, ErrAddressFault{}, code_str)
			default:
				assert.NoError(err, code_str)
				assert.Equal(byte(pc+2), cpu.Memory[sp-1], code_str)
				assert.Equal(sp-1, cpu.Register[REG_SP], code_str)
				// The target is read after the return address is pushed.
				target := pre_reg[op1]
				if op1 == REG_SP {
					target = sp - 1
				}
				assert.Equal(int(target), cpu.Pc, code_str)
			}
		case OP_RET:
			switch {
			case sp == 0xff:
				assert.ErrorIs(err, ErrAddressFault{}, code_str)
			default:
				assert.NoError(err, code_str)
				assert.Equal(top, cpu.Pc, code_str)
				assert.Equal(sp+1, cpu.Register[REG_SP], code_str)
			}
		default:
			panic(ErrUnknownOpcode{Pc: pc, Opcode: opcode})
		}
	})
}
