// Package asm implements the two-pass assembler for the rv32 instruction set.
//
// Source is one instruction or label declaration per line:
//
//	loop:   addi x1, x1, 1      ; comment
//	        jal  zero, loop     # comment
//
// Pass one assigns every instruction a byte address (4 bytes each) and
// records labels in the SymbolTable; pass two encodes each instruction
// with the completed table, so forward and backward references resolve
// identically.
//
// Operands may be registers (x0..x31 or ABI names), numbers (any Go
// integer literal), labels, .equ constants, or $(expr) Starlark integer
// expressions over constants and labels.
package asm
