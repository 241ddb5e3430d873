package cpu

const (
	REGISTER_COUNT = 8    // General purpose registers.
	REG_SP         = 7    // Register reserved as the stack pointer.
	SP_INIT        = 0xF4 // Initial stack pointer; the stack grows down from here.
)

// Registers is the general purpose register bank.
type Registers [REGISTER_COUNT]byte

// Get returns the value of register index.
func (reg *Registers) Get(index int) (value byte, err error) {
	if index < 0 || index >= len(reg) {
		err = ErrRegisterFault{Index: index}
		return
	}

	value = reg[index]
	return
}

// Set assigns value to register index.
func (reg *Registers) Set(index int, value byte) (err error) {
	if index < 0 || index >= len(reg) {
		err = ErrRegisterFault{Index: index}
		return
	}

	reg[index] = value
	return
}
