package asm

import (
	"errors"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/rv32/isa"
)

// Immediate field limits.
const (
	IMM12_MIN  = -(1 << 11)
	IMM12_MAX  = (1 << 11) - 1
	SHAMT_MAX  = 31
	IMM20_MIN  = -(1 << 19)
	IMM20_MAX  = (1 << 20) - 1
	TARGET_B   = 1 << 13 // B-type targets are below this address.
	TARGET_J   = 1 << 21 // J-type targets are below this address.
	TARGET_ODD = 1
)

// Encoder turns one mnemonic and its operands into a machine word.
type Encoder struct {
	Symbols *SymbolTable      // Labels, fully populated before encoding.
	Equate  map[string]string // Constants from .equ and predefines.
}

// Encode encodes a single instruction against a symbol table.
func Encode(mnemonic string, operands []string, symbols *SymbolTable) (word isa.Word, err error) {
	enc := &Encoder{Symbols: symbols}
	return enc.Encode(mnemonic, operands)
}

// Encode encodes a single instruction.
func (enc *Encoder) Encode(mnemonic string, operands []string) (word isa.Word, err error) {
	in, err := isa.Lookup(mnemonic)
	if err != nil {
		err = ErrMnemonic(mnemonic)
		return
	}

	switch in.Format {
	case isa.FORMAT_R:
		var regs []isa.Register
		regs, err = enc.registers(in, operands, 3)
		if err != nil {
			return
		}
		word = isa.MakeR(in.Funct7, in.Funct3, regs[0], regs[1], regs[2])
	case isa.FORMAT_I:
		word, err = enc.encodeI(in, operands)
	case isa.FORMAT_S:
		var rs1, rs2 isa.Register
		var imm int64
		rs2, rs1, imm, err = enc.memory(in, operands)
		if err != nil {
			return
		}
		word = isa.MakeS(in.Funct3, rs1, rs2, uint32(imm))
	case isa.FORMAT_B:
		if len(operands) != 3 {
			err = ErrOperands{in.Mnemonic, 3, len(operands)}
			return
		}
		var regs []isa.Register
		regs, err = enc.registers(in, operands[:2], 2)
		if err != nil {
			return
		}
		var target uint32
		target, err = enc.target(operands[2], TARGET_B)
		if err != nil {
			return
		}
		word = isa.MakeB(in.Funct3, regs[0], regs[1], target)
	case isa.FORMAT_U:
		if len(operands) != 2 {
			err = ErrOperands{in.Mnemonic, 2, len(operands)}
			return
		}
		var rd isa.Register
		rd, err = enc.register(operands[0])
		if err != nil {
			return
		}
		var imm int64
		imm, err = enc.immediate(operands[1], IMM20_MIN, IMM20_MAX)
		if err != nil {
			return
		}
		word = isa.MakeU(in.Opcode, rd, uint32(imm))
	case isa.FORMAT_J:
		if len(operands) != 2 {
			err = ErrOperands{in.Mnemonic, 2, len(operands)}
			return
		}
		var rd isa.Register
		rd, err = enc.register(operands[0])
		if err != nil {
			return
		}
		var target uint32
		target, err = enc.target(operands[1], TARGET_J)
		if err != nil {
			return
		}
		word = isa.MakeJ(rd, target)
	case isa.FORMAT_SYS:
		switch in.Funct3 {
		case isa.FUNCT3_PRINT:
			var regs []isa.Register
			regs, err = enc.registers(in, operands, 1)
			if err != nil {
				return
			}
			word = isa.MakeSys(in.Funct3, regs[0])
		default:
			if len(operands) != 0 {
				err = ErrOperands{in.Mnemonic, 0, len(operands)}
				return
			}
			word = isa.MakeSys(in.Funct3, isa.REG_ZERO)
		}
	default:
		err = ErrMnemonic(mnemonic)
	}

	return
}

// encodeI encodes the op-imm, shift, load and jalr instructions.
func (enc *Encoder) encodeI(in isa.Instruction, operands []string) (word isa.Word, err error) {
	var rd, rs1 isa.Register
	var imm int64

	switch {
	case in.Shift():
		if len(operands) != 3 {
			err = ErrOperands{in.Mnemonic, 3, len(operands)}
			return
		}
		var regs []isa.Register
		regs, err = enc.registers(in, operands[:2], 2)
		if err != nil {
			return
		}
		imm, err = enc.immediate(operands[2], 0, SHAMT_MAX)
		if err != nil {
			return
		}
		word = isa.MakeShift(in.Funct7, in.Funct3, regs[0], regs[1], uint32(imm))
		return
	case in.Opcode == isa.OPCODE_LOAD, in.Opcode == isa.OPCODE_JALR:
		rd, rs1, imm, err = enc.memory(in, operands)
	default:
		if len(operands) != 3 {
			err = ErrOperands{in.Mnemonic, 3, len(operands)}
			return
		}
		var regs []isa.Register
		regs, err = enc.registers(in, operands[:2], 2)
		if err != nil {
			return
		}
		rd, rs1 = regs[0], regs[1]
		imm, err = enc.immediate(operands[2], IMM12_MIN, IMM12_MAX)
	}
	if err != nil {
		return
	}

	word = isa.MakeI(in.Opcode, in.Funct3, rd, rs1, uint32(imm))
	return
}

// memory parses 'reg, base, offset' or 'reg, offset(base)'.
func (enc *Encoder) memory(in isa.Instruction, operands []string) (reg, base isa.Register, offset int64, err error) {
	switch len(operands) {
	case 2:
		text, base_name, ok := splitOffset(operands[1])
		if !ok {
			err = ErrOperands{in.Mnemonic, 3, len(operands)}
			return
		}
		operands = []string{operands[0], base_name, text}
	case 3:
		// pass
	default:
		err = ErrOperands{in.Mnemonic, 3, len(operands)}
		return
	}

	reg, err = enc.register(operands[0])
	if err != nil {
		return
	}
	base, err = enc.register(operands[1])
	if err != nil {
		return
	}
	offset, err = enc.immediate(operands[2], IMM12_MIN, IMM12_MAX)
	return
}

// splitOffset splits 'offset(base)' into its parts.
func splitOffset(word string) (offset, base string, ok bool) {
	if !strings.HasSuffix(word, ")") {
		return
	}
	open := strings.LastIndex(word, "(")
	if open < 0 {
		return
	}
	base = word[open+1 : len(word)-1]
	if len(base) == 0 {
		return
	}
	offset = word[:open]
	if len(offset) == 0 {
		offset = "0"
	}
	ok = true
	return
}

// registers parses exactly count register operands.
func (enc *Encoder) registers(in isa.Instruction, operands []string, count int) (regs []isa.Register, err error) {
	if len(operands) != count {
		err = ErrOperands{in.Mnemonic, count, len(operands)}
		return
	}
	regs = make([]isa.Register, count)
	for n, word := range operands {
		regs[n], err = enc.register(word)
		if err != nil {
			return
		}
	}
	return
}

// register resolves a register name, or a constant naming one.
func (enc *Encoder) register(word string) (reg isa.Register, err error) {
	equate, ok := enc.Equate[word]
	if ok {
		word = equate
	}
	return isa.ParseRegister(word)
}

// target resolves an absolute branch or jump target below limit.
func (enc *Encoder) target(word string, limit int64) (target uint32, err error) {
	value, err := enc.valueOf(word)
	if err != nil {
		return
	}
	if value < 0 || value >= limit {
		err = ErrRange{Value: value, Min: 0, Max: limit - 2}
		return
	}
	if value&TARGET_ODD != 0 {
		err = ErrTargetMisaligned
		return
	}
	target = uint32(value)
	return
}

// immediate resolves a value and checks it is within min..max.
func (enc *Encoder) immediate(word string, min, max int64) (value int64, err error) {
	value, err = enc.valueOf(word)
	if err != nil {
		return
	}
	if value < min || value > max {
		err = ErrRange{Value: value, Min: min, Max: max}
	}
	return
}

// valueOf resolves a number, constant, $(expression) or label.
func (enc *Encoder) valueOf(word string) (value int64, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}

	equate, ok := enc.Equate[word]
	if ok {
		word = equate
	}

	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		return enc.evaluate(word[2 : len(word)-1])
	}

	switch word[0] {
	case '-', '+', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		value, err = strconv.ParseInt(word, 0, 64)
		if err != nil {
			err = ErrParseNumber(word)
		}
		return
	}

	if enc.Symbols == nil {
		err = ErrLabelMissing(word)
		return
	}

	addr, err := enc.Symbols.Resolve(word)
	if err != nil {
		return
	}
	value = int64(addr)
	return
}

// evaluate does compile-time $(...) evaluations.
func (enc *Encoder) evaluate(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	if enc.Symbols != nil {
		for label, addr := range enc.Symbols.All() {
			pred[label] = starlark.MakeUint64(uint64(addr))
		}
	}
	for key, str := range enc.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}
