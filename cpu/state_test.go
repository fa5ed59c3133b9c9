package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rv32/isa"
)

func TestRegisters(t *testing.T) {
	assert := assert.New(t)

	var rf RegisterFile = &Registers{}

	for reg := range isa.Register(isa.REGISTER_COUNT) {
		rf.Write(reg, 0x1000+uint32(reg))
	}

	assert.Equal(uint32(0), rf.Read(isa.REG_ZERO))
	for reg := isa.Register(1); reg < isa.REGISTER_COUNT; reg++ {
		assert.Equal(0x1000+uint32(reg), rf.Read(reg))
	}

	count := 0
	for reg, value := range rf.All() {
		assert.Equal(rf.Read(reg), value)
		count++
	}
	assert.Equal(isa.REGISTER_COUNT, count)
}

func TestRegisters_Zero(t *testing.T) {
	assert := assert.New(t)

	st := &State{}
	for _, value := range []uint32{0, 1, 0x7fffffff, 0xffffffff} {
		st.WriteRegister(isa.REG_ZERO, value)
		assert.Equal(uint32(0), st.ReadRegister(isa.REG_ZERO))
	}
}

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{Data: make([]byte, 8)}

	assert.NoError(mem.Write(0, 4, 0x11223344))
	assert.Equal([]byte{0x44, 0x33, 0x22, 0x11}, mem.Data[:4])

	value, err := mem.Read(0, 2)
	assert.NoError(err)
	assert.Equal(uint32(0x3344), value)

	value, err = mem.Read(3, 1)
	assert.NoError(err)
	assert.Equal(uint32(0x11), value)

	assert.NoError(mem.Write(5, 2, 0xabcdef))
	value, err = mem.Read(4, 4)
	assert.NoError(err)
	assert.Equal(uint32(0x00cdef00), value)

	table := [](struct {
		addr  uint32
		width uint32
	}){
		{8, 1},
		{7, 2},
		{5, 4},
		{0xffffffff, 4},
	}

	for _, entry := range table {
		_, err = mem.Read(entry.addr, entry.width)
		assert.True(errors.Is(err, ErrMemoryRange), "%+v", entry)
		err = mem.Write(entry.addr, entry.width, 0)
		assert.True(errors.Is(err, ErrMemoryRange), "%+v", entry)
	}

	_, err = mem.Read(0, 3)
	assert.True(errors.Is(err, ErrMemoryRange))
}

func TestState_Halted(t *testing.T) {
	assert := assert.New(t)

	st := &State{}
	assert.True(st.Halted())

	st.Program = []uint32{0x13, 0x13}
	assert.False(st.Halted())

	st.AdvancePc(4)
	assert.False(st.Halted())

	st.AdvancePc(4)
	assert.Equal(uint32(4*len(st.Program)), st.Pc)
	assert.True(st.Halted())

	st.Reset()
	assert.False(st.Halted())
	st.SetHalted()
	assert.True(st.Halted())
	assert.Equal(uint32(0), st.Pc)
}
