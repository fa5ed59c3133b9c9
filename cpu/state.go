package cpu

import (
	"encoding/binary"
	"iter"

	"github.com/ezrec/rv32/isa"
)

// RegisterFile is a bank of general purpose registers.
type RegisterFile interface {
	// Read returns the value of a register.
	Read(reg isa.Register) uint32
	// Write sets the value of a register.
	Write(reg isa.Register, value uint32)
	// All iterates over every register in index order.
	All() iter.Seq2[isa.Register, uint32]
}

// Registers is the 32 entry register file. Writes to x0 are discarded.
type Registers struct {
	value [isa.REGISTER_COUNT]uint32
}

var _ RegisterFile = (*Registers)(nil)

func (rf *Registers) Read(reg isa.Register) uint32 {
	return rf.value[reg%isa.REGISTER_COUNT]
}

func (rf *Registers) Write(reg isa.Register, value uint32) {
	reg %= isa.REGISTER_COUNT
	if reg == isa.REG_ZERO {
		return
	}
	rf.value[reg] = value
}

func (rf *Registers) All() iter.Seq2[isa.Register, uint32] {
	return func(yield func(reg isa.Register, value uint32) bool) {
		for n, value := range rf.value {
			if !yield(isa.Register(n), value) {
				return
			}
		}
	}
}

// Reset zeros all registers.
func (rf *Registers) Reset() {
	clear(rf.value[:])
}

// Memory is byte addressed little-endian data memory.
type Memory struct {
	Data []byte
}

// check validates an access of width bytes at addr.
func (mem *Memory) check(addr uint32, width uint32) (err error) {
	if uint64(addr)+uint64(width) > uint64(len(mem.Data)) {
		err = ErrAccess{Addr: addr, Width: width}
	}
	return
}

// Read reads a 1, 2 or 4 byte value, zero extended.
func (mem *Memory) Read(addr uint32, width uint32) (value uint32, err error) {
	err = mem.check(addr, width)
	if err != nil {
		return
	}

	data := mem.Data[addr : addr+width]
	switch width {
	case 1:
		value = uint32(data[0])
	case 2:
		value = uint32(binary.LittleEndian.Uint16(data))
	case 4:
		value = binary.LittleEndian.Uint32(data)
	default:
		err = ErrAccess{Addr: addr, Width: width}
	}

	return
}

// Write writes the low width bytes of value.
func (mem *Memory) Write(addr uint32, width uint32, value uint32) (err error) {
	err = mem.check(addr, width)
	if err != nil {
		return
	}

	data := mem.Data[addr : addr+width]
	switch width {
	case 1:
		data[0] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(data, uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(data, value)
	default:
		err = ErrAccess{Addr: addr, Width: width}
	}

	return
}

// State is the complete architectural state of the machine.
type State struct {
	Pc       uint32    // Program counter, a byte address.
	Register Registers // General purpose registers.
	Memory   Memory    // Data memory.
	Program  []uint32  // Instruction memory.

	halted bool
}

// ReadRegister returns the value of register reg.
func (st *State) ReadRegister(reg isa.Register) uint32 {
	return st.Register.Read(reg)
}

// WriteRegister sets register reg. Writes to x0 have no effect.
func (st *State) WriteRegister(reg isa.Register, value uint32) {
	st.Register.Write(reg, value)
}

// ReadMemory reads width bytes of data memory.
func (st *State) ReadMemory(addr uint32, width uint32) (value uint32, err error) {
	return st.Memory.Read(addr, width)
}

// WriteMemory writes width bytes of data memory.
func (st *State) WriteMemory(addr uint32, width uint32, value uint32) (err error) {
	return st.Memory.Write(addr, width, value)
}

// AdvancePc moves the program counter forward by bytes.
func (st *State) AdvancePc(bytes uint32) {
	st.Pc += bytes
}

// SetHalted marks the machine as stopped.
func (st *State) SetHalted() {
	st.halted = true
}

// Halted is true once the machine has executed an exit, or when the
// program counter is past the end of instruction memory.
func (st *State) Halted() bool {
	if st.halted {
		return true
	}
	return uint64(st.Pc/isa.INSTRUCTION_SIZE) >= uint64(len(st.Program))
}

// Reset clears registers, data memory and the halted flag, and returns
// the program counter to zero.
func (st *State) Reset() {
	st.Pc = 0
	st.halted = false
	st.Register.Reset()
	clear(st.Memory.Data)
}
