// Package isa defines the RV32-style instruction set shared by the assembler
// and the simulator.
//
// Every instruction is a single 32-bit word. The low 7 bits are the major
// opcode, which selects one of the formats:
//
//	R:    funct7[31:25] rs2[24:20] rs1[19:15] funct3[14:12] rd[11:7] opcode[6:0]
//	I:    imm[11:0][31:20]         rs1[19:15] funct3[14:12] rd[11:7] opcode[6:0]
//	S:    imm[11:5][31:25] rs2[24:20] rs1[19:15] funct3[14:12] imm[4:0][11:7] opcode[6:0]
//	B:    imm[12|10:5][31:25] rs2[24:20] rs1[19:15] funct3[14:12] imm[4:1|11][11:7] opcode[6:0]
//	U:    imm[31:12]                                            rd[11:7] opcode[6:0]
//	J:    imm[20|10:1|11|19:12][31:12]                          rd[11:7] opcode[6:0]
//
// Branch and jump immediates hold absolute byte addresses, not PC-relative
// displacements. A B-type word can reach addresses below 0x2000, a J-type
// word addresses below 0x200000. JALR jumps to (rs1 + imm) & ~1, so with
// rs1 = x0 its immediate is an absolute address too.
//
// Opcode 0b0001011 (custom-0) is a small system class: funct3 0 halts the
// machine, funct3 1 prints the unsigned value of the register in the rd field.
package isa
