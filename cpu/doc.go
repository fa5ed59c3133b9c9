// Package cpu implements the machine state and executor for rv32 programs.
//
// The machine has a byte addressed program counter, 32 general purpose
// registers of which x0 always reads zero, a little-endian byte addressed
// data memory, and a separate read-only instruction memory.
//
// Branch and jump targets are absolute byte addresses. A custom opcode
// class provides program exit and integer console output.
package cpu
