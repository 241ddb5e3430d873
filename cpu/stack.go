package cpu

// The stack is a descending region of memory addressed by REG_SP.
// It holds both PUSH/POP data and CALL return addresses.

// Push decrements SP and stores value at the new top of stack.
func (cpu *Cpu) Push(value byte) (err error) {
	sp := int(cpu.Register[REG_SP]) - 1

	err = cpu.write(sp, value)
	if err != nil {
		return
	}

	cpu.Register[REG_SP] = byte(sp)
	return
}

// Pop returns the value at the top of stack and increments SP.
func (cpu *Cpu) Pop() (value byte, err error) {
	sp := int(cpu.Register[REG_SP])

	value, err = cpu.read(sp)
	if err != nil {
		return
	}

	if sp+1 >= MEMORY_SIZE {
		err = ErrAddressFault{Address: sp + 1, Pc: cpu.Pc}
		return
	}

	cpu.Register[REG_SP] = byte(sp + 1)
	return
}

// Peek returns the value at the top of stack.
func (cpu *Cpu) Peek() (value byte, err error) {
	return cpu.read(int(cpu.Register[REG_SP]))
}

// Depth returns the number of bytes on the stack.
func (cpu *Cpu) Depth() int {
	return SP_INIT - int(cpu.Register[REG_SP])
}

// PushRegister decrements SP and stores register index at the new top
// of stack. The register is read after SP moves, so PUSH R7 stores the
// decremented SP.
func (cpu *Cpu) PushRegister(index byte) (err error) {
	_, err = cpu.getReg(index)
	if err != nil {
		return
	}

	sp := int(cpu.Register[REG_SP]) - 1
	if sp < 0 {
		err = ErrAddressFault{Address: sp, Pc: cpu.Pc}
		return
	}

	cpu.Register[REG_SP] = byte(sp)
	cpu.Memory[sp] = cpu.Register[index]
	return
}

// PopRegister loads register index from the top of stack and then
// increments SP. The increment applies to SP as written, so POP R7
// leaves SP one past the popped value.
func (cpu *Cpu) PopRegister(index byte) (err error) {
	_, err = cpu.getReg(index)
	if err != nil {
		return
	}

	sp := int(cpu.Register[REG_SP])
	value, err := cpu.read(sp)
	if err != nil {
		return
	}

	next := sp + 1
	if int(index) == REG_SP {
		next = int(value) + 1
	}
	if next >= MEMORY_SIZE {
		err = ErrAddressFault{Address: next, Pc: cpu.Pc}
		return
	}

	cpu.Register[index] = value
	cpu.Register[REG_SP] = byte(next)
	return
}
