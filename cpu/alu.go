package cpu

import (
	"errors"
)

// alu performs the requested ALU action on registers dst and src, storing
// the result in dst. Results wrap modulo 256.
func (cpu *Cpu) alu(op AluOp, dst, src byte) (err error) {
	a, err := cpu.getReg(dst)
	if err != nil {
		return
	}
	b, err := cpu.getReg(src)
	if err != nil {
		return
	}

	var output byte
	switch op {
	case ALU_OP_ADD:
		output = a + b
	case ALU_OP_MULT:
		output = a * b
	default:
		err = errors.Join(ErrAluUnsupported, ErrAluOp(op))
		return
	}

	return cpu.setReg(dst, output)
}
