package isa

import (
	"fmt"
)

// Word is a single 32-bit machine instruction.
type Word uint32

// SignExtend extends bit (bits-1) of value through bit 31.
func SignExtend(value uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(value<<shift) >> shift)
}

// Opcode returns the major opcode, bits 6:0.
func (w Word) Opcode() CodeOpcode {
	return CodeOpcode(w & OPCODE_MASK)
}

// Rd returns the destination register, bits 11:7.
func (w Word) Rd() Register {
	return Register((w >> 7) & 0x1f)
}

// Funct3 returns bits 14:12.
func (w Word) Funct3() uint32 {
	return uint32(w>>12) & 0x7
}

// Rs1 returns the first source register, bits 19:15.
func (w Word) Rs1() Register {
	return Register((w >> 15) & 0x1f)
}

// Rs2 returns the second source register, bits 24:20.
func (w Word) Rs2() Register {
	return Register((w >> 20) & 0x1f)
}

// Funct7 returns bits 31:25.
func (w Word) Funct7() uint32 {
	return uint32(w>>25) & 0x7f
}

// Shamt returns the shift amount of a shift-immediate word, bits 24:20.
func (w Word) Shamt() uint32 {
	return uint32(w>>20) & 0x1f
}

// ImmI returns the sign extended I-type immediate.
func (w Word) ImmI() uint32 {
	return SignExtend(uint32(w)>>20, 12)
}

// ImmS returns the sign extended S-type immediate, merged from bits 31:25
// and 11:7.
func (w Word) ImmS() uint32 {
	imm := (uint32(w>>25)&0x7f)<<5 | uint32(w>>7)&0x1f
	return SignExtend(imm, 12)
}

// TargetB returns the absolute branch target of a B-type word.
func (w Word) TargetB() uint32 {
	return uint32(w>>31)&0x1<<12 |
		uint32(w>>7)&0x1<<11 |
		uint32(w>>25)&0x3f<<5 |
		uint32(w>>8)&0xf<<1
}

// TargetJ returns the absolute jump target of a J-type word.
func (w Word) TargetJ() uint32 {
	return uint32(w>>31)&0x1<<20 |
		uint32(w>>12)&0xff<<12 |
		uint32(w>>20)&0x1<<11 |
		uint32(w>>21)&0x3ff<<1
}

// ImmU returns the U-type immediate, already in bits 31:12.
func (w Word) ImmU() uint32 {
	return uint32(w) & 0xfffff000
}

// MakeR creates an R-type word.
func MakeR(funct7, funct3 uint32, rd, rs1, rs2 Register) Word {
	return Word((funct7&0x7f)<<25 |
		(uint32(rs2)&0x1f)<<20 |
		(uint32(rs1)&0x1f)<<15 |
		(funct3&0x7)<<12 |
		(uint32(rd)&0x1f)<<7 |
		uint32(OPCODE_OP))
}

// MakeI creates an I-type word. The low 12 bits of imm are stored verbatim.
func MakeI(opcode CodeOpcode, funct3 uint32, rd, rs1 Register, imm uint32) Word {
	return Word((imm&0xfff)<<20 |
		(uint32(rs1)&0x1f)<<15 |
		(funct3&0x7)<<12 |
		(uint32(rd)&0x1f)<<7 |
		uint32(opcode)&OPCODE_MASK)
}

// MakeShift creates a shift-immediate word; funct7 sits above the 5-bit shamt.
func MakeShift(funct7, funct3 uint32, rd, rs1 Register, shamt uint32) Word {
	return MakeI(OPCODE_OP_IMM, funct3, rd, rs1, (funct7&0x7f)<<5|shamt&0x1f)
}

// MakeS creates an S-type word, splitting imm into bits 31:25 and 11:7.
func MakeS(funct3 uint32, rs1, rs2 Register, imm uint32) Word {
	return Word((imm>>5&0x7f)<<25 |
		(uint32(rs2)&0x1f)<<20 |
		(uint32(rs1)&0x1f)<<15 |
		(funct3&0x7)<<12 |
		(imm&0x1f)<<7 |
		uint32(OPCODE_STORE))
}

// MakeB creates a B-type word for an absolute target address.
func MakeB(funct3 uint32, rs1, rs2 Register, target uint32) Word {
	return Word((target>>12&0x1)<<31 |
		(target>>5&0x3f)<<25 |
		(uint32(rs2)&0x1f)<<20 |
		(uint32(rs1)&0x1f)<<15 |
		(funct3&0x7)<<12 |
		(target>>1&0xf)<<8 |
		(target>>11&0x1)<<7 |
		uint32(OPCODE_BRANCH))
}

// MakeU creates a U-type word from a 20-bit immediate.
func MakeU(opcode CodeOpcode, rd Register, imm20 uint32) Word {
	return Word((imm20&0xfffff)<<12 |
		(uint32(rd)&0x1f)<<7 |
		uint32(opcode)&OPCODE_MASK)
}

// MakeJ creates a jal word for an absolute target address.
func MakeJ(rd Register, target uint32) Word {
	return Word((target>>20&0x1)<<31 |
		(target>>1&0x3ff)<<21 |
		(target>>11&0x1)<<20 |
		(target>>12&0xff)<<12 |
		(uint32(rd)&0x1f)<<7 |
		uint32(OPCODE_JAL))
}

// MakeSys creates a custom system class word.
func MakeSys(funct3 uint32, rd Register) Word {
	return Word((funct3&0x7)<<12 |
		(uint32(rd)&0x1f)<<7 |
		uint32(OPCODE_CUSTOM))
}

// Instruction identifies the instruction a word encodes.
func (w Word) Instruction() (in Instruction, ok bool) {
	in, ok = decodeMap[makeKey(w.Opcode(), w.Funct3(), w.Funct7())]
	return
}

// String disassembles the word into assembler syntax.
func (w Word) String() string {
	in, ok := w.Instruction()
	if !ok {
		return fmt.Sprintf("<unknown %#08x>", uint32(w))
	}

	name := in.Mnemonic
	switch in.Format {
	case FORMAT_R:
		return fmt.Sprintf("%v %v, %v, %v", name, w.Rd(), w.Rs1(), w.Rs2())
	case FORMAT_I:
		switch {
		case in.Shift():
			return fmt.Sprintf("%v %v, %v, %d", name, w.Rd(), w.Rs1(), w.Shamt())
		case in.Opcode == OPCODE_LOAD:
			return fmt.Sprintf("%v %v, %d(%v)", name, w.Rd(), int32(w.ImmI()), w.Rs1())
		}
		return fmt.Sprintf("%v %v, %v, %d", name, w.Rd(), w.Rs1(), int32(w.ImmI()))
	case FORMAT_S:
		return fmt.Sprintf("%v %v, %d(%v)", name, w.Rs2(), int32(w.ImmS()), w.Rs1())
	case FORMAT_B:
		return fmt.Sprintf("%v %v, %v, %#x", name, w.Rs1(), w.Rs2(), w.TargetB())
	case FORMAT_U:
		return fmt.Sprintf("%v %v, %#x", name, w.Rd(), w.ImmU()>>12)
	case FORMAT_J:
		return fmt.Sprintf("%v %v, %#x", name, w.Rd(), w.TargetJ())
	case FORMAT_SYS:
		if in.Funct3 == FUNCT3_PRINT {
			return fmt.Sprintf("%v %v", name, w.Rd())
		}
		return name
	}

	return name
}
