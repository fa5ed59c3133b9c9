package isa

import (
	"fmt"
)

// Register is a general purpose register index, 0..31.
type Register uint32

const (
	REGISTER_COUNT = 32

	REG_ZERO = Register(0) // hardwired to zero
	REG_RA   = Register(1)
	REG_SP   = Register(2)
	REG_A0   = Register(10)
)

// abiNames are the ABI names of x0..x31, in order.
var abiNames = [REGISTER_COUNT]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// registerMap maps every accepted register name to its index.
var registerMap = func() map[string]Register {
	names := make(map[string]Register, 2*REGISTER_COUNT+1)
	for n, abi := range abiNames {
		names[abi] = Register(n)
		names[fmt.Sprintf("x%d", n)] = Register(n)
	}
	names["fp"] = Register(8)
	return names
}()

// ParseRegister resolves a numeric (x0..x31) or ABI register name.
func ParseRegister(name string) (reg Register, err error) {
	reg, ok := registerMap[name]
	if !ok {
		err = ErrRegister(name)
	}
	return
}

// String returns the ABI name of the register.
func (reg Register) String() string {
	if reg >= REGISTER_COUNT {
		return fmt.Sprintf("x?%d", uint32(reg))
	}
	return abiNames[reg]
}
