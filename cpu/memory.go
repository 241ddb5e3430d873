package cpu

const (
	MEMORY_SIZE = 256 // Bytes of addressable memory.
)

// Memory is the flat, zero-initialized byte memory of the CPU.
type Memory [MEMORY_SIZE]byte

// Read returns the byte at addr.
// An addr outside of memory returns an ErrAddressFault; the Pc of the
// fault is left for the caller to fill in.
func (mem *Memory) Read(addr int) (value byte, err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrAddressFault{Address: addr}
		return
	}

	value = mem[addr]
	return
}

// Write stores value at addr.
func (mem *Memory) Write(addr int, value byte) (err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrAddressFault{Address: addr}
		return
	}

	mem[addr] = value
	return
}

// Load copies data into memory starting at addr.
func (mem *Memory) Load(addr int, data []byte) (err error) {
	for n, value := range data {
		err = mem.Write(addr+n, value)
		if err != nil {
			return
		}
	}

	return
}
