package asm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rv32/isa"
)

func TestEncode(t *testing.T) {
	assert := assert.New(t)

	symbols := NewSymbolTable()
	assert.NoError(symbols.Define("start", 0))
	assert.NoError(symbols.Define("next", 8))

	table := [](struct {
		mnemonic string
		operands []string
		word     uint32
	}){
		{"add", []string{"x3", "x1", "x2"}, 0x002081b3},
		{"sub", []string{"x3", "x1", "x2"}, 0x402081b3},
		{"addi", []string{"x5", "x0", "-1"}, 0xfff00293},
		{"addi", []string{"t0", "zero", "-1"}, 0xfff00293},
		{"lw", []string{"x1", "x2", "4"}, 0x00412083},
		{"lw", []string{"x1", "4(x2)"}, 0x00412083},
		{"lw", []string{"ra", "4(sp)"}, 0x00412083},
		{"slli", []string{"x1", "x2", "3"}, 0x00311093},
		{"srai", []string{"x1", "x2", "3"}, 0x40315093},
		{"sw", []string{"x2", "x1", "8"}, 0x0020a423},
		{"sw", []string{"x2", "8(x1)"}, 0x0020a423},
		{"beq", []string{"x1", "x2", "8"}, 0x00208463},
		{"beq", []string{"x1", "x2", "next"}, 0x00208463},
		{"lui", []string{"x1", "0x12345"}, 0x123450b7},
		{"jal", []string{"x1", "8"}, 0x008000ef},
		{"jal", []string{"x0", "start"}, 0x0000006f},
		{"jalr", []string{"x0", "x1", "0"}, 0x00008067},
		{"jalr", []string{"x0", "0(x1)"}, 0x00008067},
		{"jalr", []string{"x0", "(x1)"}, 0x00008067},
		{"exit", nil, 0x0000000b},
		{"print", []string{"a0"}, 0x0000150b},
	}

	for _, entry := range table {
		word, err := Encode(entry.mnemonic, entry.operands, symbols)
		assert.NoError(err, entry.mnemonic)
		assert.Equal(isa.Word(entry.word), word, "%v %v", entry.mnemonic, entry.operands)
	}
}

func TestEncode_SplitImmediate(t *testing.T) {
	assert := assert.New(t)

	word, err := Encode("sw", []string{"x2", "x1", "2047"}, nil)
	assert.NoError(err)
	assert.Equal(uint32(0x3f), (uint32(word)>>25)&0x7f)
	assert.Equal(uint32(0x1f), (uint32(word)>>7)&0x1f)
	assert.Equal(isa.Register(1), word.Rs1())
	assert.Equal(isa.Register(2), word.Rs2())
	assert.Equal(uint32(2047), word.ImmS())

	word, err = Encode("sw", []string{"x2", "x1", "-2048"}, nil)
	assert.NoError(err)
	assert.Equal(uint32(0xfffff800), word.ImmS())
}

func TestEncode_Errors(t *testing.T) {
	assert := assert.New(t)

	symbols := NewSymbolTable()
	assert.NoError(symbols.Define("odd", 3))
	assert.NoError(symbols.Define("far", 0x4000))

	table := [](struct {
		mnemonic string
		operands []string
		err      error
	}){
		{"frob", []string{"x1"}, ErrUnknownOpcode},
		{"add", []string{"x1", "x2", "x32"}, ErrUnknownRegister},
		{"add", []string{"x1", "x2", "q7"}, ErrUnknownRegister},
		{"add", []string{"x1", "x2"}, ErrMalformedLine},
		{"addi", []string{"x1", "x2", "2048"}, ErrImmediateRange},
		{"addi", []string{"x1", "x2", "-2049"}, ErrImmediateRange},
		{"addi", []string{"x1", "x2", "0x1g"}, ErrMalformedLine},
		{"slli", []string{"x1", "x2", "32"}, ErrImmediateRange},
		{"lui", []string{"x1", "0x100000"}, ErrImmediateRange},
		{"beq", []string{"x1", "x2", "nowhere"}, ErrUndefinedSymbol},
		{"beq", []string{"x1", "x2", "odd"}, ErrTargetMisaligned},
		{"beq", []string{"x1", "x2", "far"}, ErrImmediateRange},
		{"jal", []string{"x1", "-4"}, ErrImmediateRange},
		{"exit", []string{"x1"}, ErrMalformedLine},
		{"print", nil, ErrMalformedLine},
		{"lw", []string{"x1", "4[x2]"}, ErrMalformedLine},
	}

	for _, entry := range table {
		_, err := Encode(entry.mnemonic, entry.operands, symbols)
		assert.True(errors.Is(err, entry.err), "%v %v: %v", entry.mnemonic, entry.operands, err)
	}
}

func TestEncoder_Equate(t *testing.T) {
	assert := assert.New(t)

	enc := &Encoder{
		Symbols: NewSymbolTable(),
		Equate: map[string]string{
			"COUNT": "10",
			"PTR":   "sp",
		},
	}
	assert.NoError(enc.Symbols.Define("table", 0x40))

	word, err := enc.Encode("addi", []string{"x1", "x0", "COUNT"})
	assert.NoError(err)
	assert.Equal(uint32(10), word.ImmI())

	word, err = enc.Encode("lw", []string{"x1", "PTR", "0"})
	assert.NoError(err)
	assert.Equal(isa.REG_SP, word.Rs1())

	word, err = enc.Encode("addi", []string{"x1", "x0", "$(COUNT * 4 + table)"})
	assert.NoError(err)
	assert.Equal(uint32(0x68), word.ImmI())

	_, err = enc.Encode("addi", []string{"x1", "x0", "$(COUNT +)"})
	assert.True(errors.Is(err, ErrMalformedLine))

	_, err = enc.Encode("addi", []string{"x1", "x0", "$('str')"})
	assert.True(errors.Is(err, ErrMalformedLine))
}
