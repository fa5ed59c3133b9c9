package isa

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// CodeOpcode is the major opcode, held in bits 6:0 of every word.
type CodeOpcode uint32

const (
	OPCODE_LOAD   = CodeOpcode(0b0000011) // load
	OPCODE_CUSTOM = CodeOpcode(0b0001011) // custom-0
	OPCODE_OP_IMM = CodeOpcode(0b0010011) // op-imm
	OPCODE_STORE  = CodeOpcode(0b0100011) // store
	OPCODE_OP     = CodeOpcode(0b0110011) // op
	OPCODE_LUI    = CodeOpcode(0b0110111) // lui
	OPCODE_BRANCH = CodeOpcode(0b1100011) // branch
	OPCODE_JALR   = CodeOpcode(0b1100111) // jalr
	OPCODE_JAL    = CodeOpcode(0b1101111) // jal

	OPCODE_MASK = 0x7f
)

var opcodeNames = map[CodeOpcode]string{
	OPCODE_LOAD:   "load",
	OPCODE_CUSTOM: "custom-0",
	OPCODE_OP_IMM: "op-imm",
	OPCODE_STORE:  "store",
	OPCODE_OP:     "op",
	OPCODE_LUI:    "lui",
	OPCODE_BRANCH: "branch",
	OPCODE_JALR:   "jalr",
	OPCODE_JAL:    "jal",
}

func (op CodeOpcode) String() string {
	name, ok := opcodeNames[op]
	if !ok {
		return fmt.Sprintf("opcode(%#09b)", uint32(op))
	}
	return name
}

// CodeFormat is the bit layout of an instruction word.
type CodeFormat int

//go:generate go tool stringer -linecomment -type=CodeFormat
const (
	FORMAT_R   = CodeFormat(0) // R
	FORMAT_I   = CodeFormat(1) // I
	FORMAT_S   = CodeFormat(2) // S
	FORMAT_B   = CodeFormat(3) // B
	FORMAT_U   = CodeFormat(4) // U
	FORMAT_J   = CodeFormat(5) // J
	FORMAT_SYS = CodeFormat(6) // SYS
)

// ALU funct3 values, shared by OP and OP-IMM.
const (
	FUNCT3_ADD  = uint32(0b000) // add, sub, addi
	FUNCT3_SLL  = uint32(0b001)
	FUNCT3_SLT  = uint32(0b010)
	FUNCT3_SLTU = uint32(0b011)
	FUNCT3_XOR  = uint32(0b100)
	FUNCT3_SRL  = uint32(0b101) // srl, sra, srli, srai
	FUNCT3_OR   = uint32(0b110)
	FUNCT3_AND  = uint32(0b111)
)

// Branch funct3 values.
const (
	FUNCT3_BEQ  = uint32(0b000)
	FUNCT3_BNE  = uint32(0b001)
	FUNCT3_BLT  = uint32(0b100)
	FUNCT3_BGE  = uint32(0b101)
	FUNCT3_BLTU = uint32(0b110)
	FUNCT3_BGEU = uint32(0b111)
)

// Load and store width funct3 values.
const (
	FUNCT3_BYTE  = uint32(0b000)
	FUNCT3_HALF  = uint32(0b001)
	FUNCT3_WORD  = uint32(0b010)
	FUNCT3_BYTEU = uint32(0b100)
	FUNCT3_HALFU = uint32(0b101)
)

// Custom system class funct3 values.
const (
	FUNCT3_EXIT  = uint32(0b000)
	FUNCT3_PRINT = uint32(0b001)
)

const (
	// FUNCT7_ALT selects sub over add and sra over srl. In a shift-immediate
	// word it lands on bit 30.
	FUNCT7_ALT = uint32(0b0100000)

	// INSTRUCTION_SIZE is the size in bytes of every instruction.
	INSTRUCTION_SIZE = 4
)

// Instruction describes one assembler mnemonic.
type Instruction struct {
	Mnemonic string
	Format   CodeFormat
	Opcode   CodeOpcode
	Funct3   uint32
	Funct7   uint32
}

// Shift is true for the shift-immediate instructions, whose immediate is a
// 5-bit shift amount under a funct7 field.
func (inst Instruction) Shift() bool {
	return inst.Opcode == OPCODE_OP_IMM && (inst.Funct3 == FUNCT3_SLL || inst.Funct3 == FUNCT3_SRL)
}

type inst = Instruction

var instructionMap = map[string]Instruction{
	"add":  inst{"add", FORMAT_R, OPCODE_OP, FUNCT3_ADD, 0},
	"sub":  inst{"sub", FORMAT_R, OPCODE_OP, FUNCT3_ADD, FUNCT7_ALT},
	"sll":  inst{"sll", FORMAT_R, OPCODE_OP, FUNCT3_SLL, 0},
	"slt":  inst{"slt", FORMAT_R, OPCODE_OP, FUNCT3_SLT, 0},
	"sltu": inst{"sltu", FORMAT_R, OPCODE_OP, FUNCT3_SLTU, 0},
	"xor":  inst{"xor", FORMAT_R, OPCODE_OP, FUNCT3_XOR, 0},
	"srl":  inst{"srl", FORMAT_R, OPCODE_OP, FUNCT3_SRL, 0},
	"sra":  inst{"sra", FORMAT_R, OPCODE_OP, FUNCT3_SRL, FUNCT7_ALT},
	"or":   inst{"or", FORMAT_R, OPCODE_OP, FUNCT3_OR, 0},
	"and":  inst{"and", FORMAT_R, OPCODE_OP, FUNCT3_AND, 0},

	"addi":  inst{"addi", FORMAT_I, OPCODE_OP_IMM, FUNCT3_ADD, 0},
	"slti":  inst{"slti", FORMAT_I, OPCODE_OP_IMM, FUNCT3_SLT, 0},
	"sltiu": inst{"sltiu", FORMAT_I, OPCODE_OP_IMM, FUNCT3_SLTU, 0},
	"xori":  inst{"xori", FORMAT_I, OPCODE_OP_IMM, FUNCT3_XOR, 0},
	"ori":   inst{"ori", FORMAT_I, OPCODE_OP_IMM, FUNCT3_OR, 0},
	"andi":  inst{"andi", FORMAT_I, OPCODE_OP_IMM, FUNCT3_AND, 0},
	"slli":  inst{"slli", FORMAT_I, OPCODE_OP_IMM, FUNCT3_SLL, 0},
	"srli":  inst{"srli", FORMAT_I, OPCODE_OP_IMM, FUNCT3_SRL, 0},
	"srai":  inst{"srai", FORMAT_I, OPCODE_OP_IMM, FUNCT3_SRL, FUNCT7_ALT},

	"lb":  inst{"lb", FORMAT_I, OPCODE_LOAD, FUNCT3_BYTE, 0},
	"lh":  inst{"lh", FORMAT_I, OPCODE_LOAD, FUNCT3_HALF, 0},
	"lw":  inst{"lw", FORMAT_I, OPCODE_LOAD, FUNCT3_WORD, 0},
	"lbu": inst{"lbu", FORMAT_I, OPCODE_LOAD, FUNCT3_BYTEU, 0},
	"lhu": inst{"lhu", FORMAT_I, OPCODE_LOAD, FUNCT3_HALFU, 0},

	"sb": inst{"sb", FORMAT_S, OPCODE_STORE, FUNCT3_BYTE, 0},
	"sh": inst{"sh", FORMAT_S, OPCODE_STORE, FUNCT3_HALF, 0},
	"sw": inst{"sw", FORMAT_S, OPCODE_STORE, FUNCT3_WORD, 0},

	"beq":  inst{"beq", FORMAT_B, OPCODE_BRANCH, FUNCT3_BEQ, 0},
	"bne":  inst{"bne", FORMAT_B, OPCODE_BRANCH, FUNCT3_BNE, 0},
	"blt":  inst{"blt", FORMAT_B, OPCODE_BRANCH, FUNCT3_BLT, 0},
	"bge":  inst{"bge", FORMAT_B, OPCODE_BRANCH, FUNCT3_BGE, 0},
	"bltu": inst{"bltu", FORMAT_B, OPCODE_BRANCH, FUNCT3_BLTU, 0},
	"bgeu": inst{"bgeu", FORMAT_B, OPCODE_BRANCH, FUNCT3_BGEU, 0},

	"jal":  inst{"jal", FORMAT_J, OPCODE_JAL, 0, 0},
	"jalr": inst{"jalr", FORMAT_I, OPCODE_JALR, 0, 0},
	"lui":  inst{"lui", FORMAT_U, OPCODE_LUI, 0, 0},

	"exit":  inst{"exit", FORMAT_SYS, OPCODE_CUSTOM, FUNCT3_EXIT, 0},
	"print": inst{"print", FORMAT_SYS, OPCODE_CUSTOM, FUNCT3_PRINT, 0},
}

// instructionKey identifies an instruction from the fields of a word.
type instructionKey struct {
	opcode CodeOpcode
	funct3 uint32
	funct7 uint32
}

func makeKey(opcode CodeOpcode, funct3, funct7 uint32) (key instructionKey) {
	key.opcode = opcode
	switch opcode {
	case OPCODE_LUI, OPCODE_JAL:
		return
	}
	key.funct3 = funct3
	switch {
	case opcode == OPCODE_OP:
		key.funct7 = funct7
	case opcode == OPCODE_OP_IMM && (funct3 == FUNCT3_SLL || funct3 == FUNCT3_SRL):
		key.funct7 = funct7
	}
	return
}

var decodeMap = func() map[instructionKey]Instruction {
	decode := make(map[instructionKey]Instruction, len(instructionMap))
	for _, in := range instructionMap {
		decode[makeKey(in.Opcode, in.Funct3, in.Funct7)] = in
	}
	return decode
}()

// Lookup returns the instruction for a mnemonic.
func Lookup(mnemonic string) (in Instruction, err error) {
	in, ok := instructionMap[mnemonic]
	if !ok {
		err = ErrUnknownOpcode
	}
	return
}

// Mnemonics returns all mnemonics, sorted.
func Mnemonics() []string {
	return slices.Sorted(maps.Keys(instructionMap))
}

// Instructions iterates over the whole instruction table.
func Instructions() iter.Seq2[string, Instruction] {
	return maps.All(instructionMap)
}
