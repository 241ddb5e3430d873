package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
)

// Channel is an output channel interface.
type Channel io.Channel

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", MEMORY_SIZE),
	"SP_INIT":     fmt.Sprintf("0x%x", SP_INIT),
	"SP":          fmt.Sprintf("R%d", REG_SP),
}

// Cpu is the simulation context for the LS-8.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   Memory    // Main memory.
	Register Registers // Register bank; REG_SP is the stack pointer.
	Pc       int       // Address of the next instruction to fetch.
	Halted   bool      // Set once the CPU has stopped.

	Ticks int // Instructions executed since reset.

	Output Channel // Destination of PRN.

	fault error // Fault that halted the CPU, if any.
}

// NewCpu creates a new CPU in its reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory and registers.
// - Sets SP to SP_INIT, and PC to 0.
// - Clears the halted state and any latched fault.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Register[REG_SP] = SP_INIT
	cpu.Pc = 0
	cpu.Halted = false
	cpu.Ticks = 0
	cpu.fault = nil
}

// Load copies a program image into memory, starting at address 0.
func (cpu *Cpu) Load(image []byte) (err error) {
	if len(image) > MEMORY_SIZE {
		err = ErrProgramSize
		return
	}

	return cpu.Memory.Load(0, image)
}

// Fault returns the fault that halted the CPU, or nil.
func (cpu *Cpu) Fault() error {
	return cpu.fault
}

// String returns the current CPU state as a trace line.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("%02X |", cpu.Pc)
	for n := range 3 {
		value, err := cpu.Memory.Read(cpu.Pc + n)
		if err != nil {
			text += " --"
		} else {
			text += fmt.Sprintf(" %02X", value)
		}
	}
	text += " |"
	for _, value := range cpu.Register {
		text += fmt.Sprintf(" %02X", value)
	}

	return
}

// read reads memory, attributing any fault to the current PC.
func (cpu *Cpu) read(addr int) (value byte, err error) {
	value, err = cpu.Memory.Read(addr)
	if err != nil {
		err = ErrAddressFault{Address: addr, Pc: cpu.Pc}
	}
	return
}

// write writes memory, attributing any fault to the current PC.
func (cpu *Cpu) write(addr int, value byte) (err error) {
	err = cpu.Memory.Write(addr, value)
	if err != nil {
		err = ErrAddressFault{Address: addr, Pc: cpu.Pc}
	}
	return
}

// getReg reads a register, attributing any fault to the current PC.
func (cpu *Cpu) getReg(index byte) (value byte, err error) {
	value, err = cpu.Register.Get(int(index))
	if err != nil {
		err = ErrRegisterFault{Index: int(index), Pc: cpu.Pc}
	}
	return
}

// setReg writes a register, attributing any fault to the current PC.
func (cpu *Cpu) setReg(index byte, value byte) (err error) {
	err = cpu.Register.Set(int(index), value)
	if err != nil {
		err = ErrRegisterFault{Index: int(index), Pc: cpu.Pc}
	}
	return
}

// FetchCode fetches and decodes the instruction at the PC.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	value, err := cpu.read(cpu.Pc)
	if err != nil {
		return
	}

	op := Opcode(value)
	if !op.Valid() {
		err = ErrUnknownOpcode{Pc: cpu.Pc, Opcode: value}
		return
	}

	code = Code{Opcode: op, Operands: make([]byte, op.Operands())}
	for n := range code.Operands {
		code.Operands[n], err = cpu.read(cpu.Pc + 1 + n)
		if err != nil {
			return
		}
	}

	return
}

// halt latches the CPU into the halted state, recording the fault.
func (cpu *Cpu) halt(err error) {
	cpu.Halted = true
	cpu.fault = err

	if cpu.Verbose {
		log.Printf("cpu: fault: %v", err)
	}
}

// Tick executes a single CPU instruction cycle.
// Any error is a fault, and leaves the CPU halted until Reset.
func (cpu *Cpu) Tick() (err error) {
	if cpu.fault != nil {
		err = errors.Join(ErrFaulted, cpu.fault)
		return
	}

	if cpu.Halted {
		err = ErrHalted
		return
	}

	if cpu.Verbose {
		log.Printf("TRACE: %v", cpu.String())
	}

	code, err := cpu.FetchCode()
	if err != nil {
		cpu.halt(err)
		return
	}

	err = cpu.Execute(code)
	if err != nil {
		cpu.halt(err)
		return
	}

	return
}

// Run ticks the CPU until it halts or faults.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction at the current PC.
// On error, the CPU state is left as it was before the instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	if cpu.Verbose {
		log.Printf("%02x: %v", cpu.Pc, code)
	}

	if !code.Opcode.Valid() {
		err = ErrUnknownOpcode{Pc: cpu.Pc, Opcode: byte(code.Opcode)}
		return
	}

	// Opcodes that set the PC leave next_pc to their handler.
	next_pc := cpu.Pc
	if !code.Opcode.SetsPc() {
		next_pc += code.Opcode.Size()
	}

	op1 := code.operand(0)
	op2 := code.operand(1)

	if code.Opcode.IsAlu() {
		err = cpu.alu(AluOp(code.Opcode&0xf), op1, op2)
	} else {
		err = cpu.dispatch(code, &next_pc)
	}

	if err != nil {
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks++

	return
}

// dispatch runs a non-ALU handler, updating next_pc for opcodes that set it.
func (cpu *Cpu) dispatch(code Code, next_pc *int) (err error) {
	op1 := code.operand(0)
	op2 := code.operand(1)

	switch code.Opcode {
	case OP_HLT:
		cpu.Halted = true
		*next_pc = cpu.Pc
	case OP_LDI:
		err = cpu.setReg(op1, op2)
	case OP_PRN:
		var value byte
		value, err = cpu.getReg(op1)
		if err != nil {
			return
		}
		if cpu.Output == nil {
			err = ErrChannelInvalid
			return
		}
		err = cpu.Output.Send(value)
	case OP_PUSH:
		err = cpu.PushRegister(op1)
	case OP_POP:
		err = cpu.PopRegister(op1)
	case OP_CALL:
		// Return address is computed before the PC is touched.
		ret := cpu.Pc + 2
		_, err = cpu.getReg(op1)
		if err != nil {
			return
		}
		if ret >= MEMORY_SIZE {
			err = ErrAddressFault{Address: ret, Pc: cpu.Pc}
			return
		}
		err = cpu.Push(byte(ret))
		if err != nil {
			return
		}
		// Target is read after the push, so CALL R7 jumps to the new SP.
		*next_pc = int(cpu.Register[op1])
	case OP_RET:
		var ret byte
		ret, err = cpu.Pop()
		if err != nil {
			return
		}
		*next_pc = int(ret)
	default:
		err = ErrUnknownOpcode{Pc: cpu.Pc, Opcode: byte(code.Opcode)}
	}

	return
}
