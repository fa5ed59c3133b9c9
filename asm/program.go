package asm

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/ezrec/rv32/isa"
)

// Opcode represents a line of assembled code with its source location and
// generated word.
type Opcode struct {
	LineNo int
	Addr   uint32
	Words  []string
	Word   isa.Word
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
	Symbols *SymbolTable
}

// Debug returns the opcode at a byte address, or nil.
func (prog *Program) Debug(addr uint32) (op *Opcode) {
	index := int(addr / isa.INSTRUCTION_SIZE)
	if index < len(prog.Opcodes) && prog.Opcodes[index].Addr == addr {
		op = &prog.Opcodes[index]
		return
	}

	for n := range prog.Opcodes {
		if prog.Opcodes[n].Addr == addr {
			op = &prog.Opcodes[n]
			break
		}
	}

	return
}

// Binary returns the word stream, in address order.
func (prog *Program) Binary() (bins []uint32) {
	for _, word := range prog.Codes() {
		bins = append(bins, uint32(word))
	}

	return
}

// Codes iterates over the address and word of every opcode.
func (prog *Program) Codes() iter.Seq2[uint32, isa.Word] {
	return func(yield func(addr uint32, word isa.Word) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Addr, op.Word) {
				return
			}
		}
	}
}

// WriteBinary writes one 32 character binary string per word.
func (prog *Program) WriteBinary(output io.Writer) (err error) {
	out := bufio.NewWriter(output)
	for _, word := range prog.Codes() {
		_, err = fmt.Fprintf(out, "%032b\n", uint32(word))
		if err != nil {
			return
		}
	}
	return out.Flush()
}

// WriteListing writes address, word, disassembly and source line.
func (prog *Program) WriteListing(output io.Writer) (err error) {
	out := bufio.NewWriter(output)
	for _, op := range prog.Opcodes {
		_, err = fmt.Fprintf(out, "%08x: %08x  %-28v ; %4d: %v\n",
			op.Addr, uint32(op.Word), op.Word.String(), op.LineNo, strings.Join(op.Words, " "))
		if err != nil {
			return
		}
	}
	return out.Flush()
}

// ReadBinary loads a program of one base 2 word per line. Blank lines and
// comments are skipped; word n lives at byte address 4*n.
func ReadBinary(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{Symbols: NewSymbolTable()}

	var addr uint32
	for scanner.Scan() {
		lineno += 1
		line = stripComment(scanner.Text())
		if len(line) == 0 {
			continue
		}

		var value uint64
		value, err = strconv.ParseUint(strings.ReplaceAll(line, "_", ""), 2, 32)
		if err != nil {
			err = ErrParseNumber(line)
			return
		}

		word := isa.Word(value)
		prog.Opcodes = append(prog.Opcodes, Opcode{
			LineNo: lineno,
			Addr:   addr,
			Words:  splitLine(word.String()),
			Word:   word,
		})
		addr += isa.INSTRUCTION_SIZE
	}

	err = scanner.Err()
	return
}
