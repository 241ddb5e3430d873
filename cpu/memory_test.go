package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	for _, addr := range []int{0, 1, 0x7f, 0xf4, 0xff} {
		value, err := mem.Read(addr)
		assert.NoError(err)
		assert.Equal(byte(0), value)

		assert.NoError(mem.Write(addr, byte(addr^0xa5)))
		value, err = mem.Read(addr)
		assert.NoError(err)
		assert.Equal(byte(addr^0xa5), value)
	}
}

func TestMemory_OutOfRange(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	for _, addr := range []int{-1, MEMORY_SIZE, MEMORY_SIZE + 1, -256} {
		_, err := mem.Read(addr)
		assert.Equal(ErrAddressFault{Address: addr}, err)

		err = mem.Write(addr, 1)
		assert.Equal(ErrAddressFault{Address: addr}, err)
	}
}

func TestMemory_Load(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	assert.NoError(mem.Load(0xfd, []byte{1, 2, 3}))
	assert.Equal(byte(3), mem[0xff])

	err := mem.Load(0xfe, []byte{4, 5, 6})
	assert.ErrorIs(err, ErrAddressFault{})
	assert.Equal(byte(5), mem[0xff])
}

func TestRegisters_GetSet(t *testing.T) {
	assert := assert.New(t)

	reg := &Registers{}
	for index := range REGISTER_COUNT {
		assert.NoError(reg.Set(index, byte(index*3)))
	}
	for index := range REGISTER_COUNT {
		value, err := reg.Get(index)
		assert.NoError(err)
		assert.Equal(byte(index*3), value)
	}
}

func TestRegisters_OutOfRange(t *testing.T) {
	assert := assert.New(t)

	reg := &Registers{}
	for _, index := range []int{-1, REGISTER_COUNT, 255} {
		_, err := reg.Get(index)
		assert.Equal(ErrRegisterFault{Index: index}, err)
		assert.Equal(ErrRegisterFault{Index: index}, reg.Set(index, 1))
	}
}
