// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/ezrec/rv32/isa"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":           "0",
	"INSTRUCTION_SIZE": fmt.Sprintf("%d", isa.INSTRUCTION_SIZE),
}

var labelRegexp = regexp.MustCompile(`^[A-Za-z_.$][A-Za-z0-9_.$]*$`)

// Assembler is a two pass assembler for the rv32 instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Symbols   *SymbolTable      // Map of labels to byte addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// stripComment removes a trailing ';' or '#' comment.
func stripComment(text string) string {
	if index := strings.IndexAny(text, ";#"); index >= 0 {
		text = text[:index]
	}
	return strings.TrimSpace(text)
}

// splitLine splits a line into words at commas and whitespace. Separators
// inside parentheses are kept, so '$(a + b)' and '8(sp)' stay whole.
func splitLine(line string) (words []string) {
	var depth int
	var word strings.Builder

	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}

	for _, ru := range line {
		switch {
		case ru == '(':
			depth++
		case ru == ')' && depth > 0:
			depth--
		case depth == 0 && (ru == ',' || ru == ' ' || ru == '\t'):
			flush()
			continue
		}
		word.WriteRune(ru)
	}
	flush()

	return
}

// reset prepares the assembler for a new source.
func (asm *Assembler) reset() {
	asm.Opcode = asm.Opcode[:0]
	asm.Symbols = NewSymbolTable()
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
}

// Parse assembles an input stream into a Program.
//
// The first pass reads every line, assigns each instruction the next word
// address, and records labels and equates. The second pass encodes each
// instruction once all labels are known.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.reset()

	var addr uint32
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}

		line = stripComment(text)
		words := splitLine(line)

		// .equ CONST VALUE
		if len(words) > 0 && words[0] == ".equ" {
			if len(words) != 3 {
				err = errors.Join(ErrMalformedLine, ErrEquateSyntax)
				return
			}
			_, ok := asm.Equate[words[1]]
			if ok {
				err = ErrEquateDuplicate
				return
			}
			if _, lerr := asm.Symbols.Resolve(words[1]); lerr == nil {
				err = ErrEquateDuplicate
				return
			}
			asm.Equate[words[1]] = words[2]
			continue
		}

		for len(words) > 0 && strings.HasSuffix(words[0], ":") {
			label := strings.TrimSuffix(words[0], ":")
			if !labelRegexp.MatchString(label) {
				err = errors.Join(ErrMalformedLine, ErrLabelInvalid)
				return
			}
			if _, ok := asm.Equate[label]; ok {
				err = ErrLabelDuplicate
				return
			}
			err = asm.Symbols.Define(label, addr)
			if err != nil {
				return
			}
			if asm.Verbose {
				log.Printf("asm: label %v = %#x", label, addr)
			}
			words = words[1:]
		}

		if len(words) == 0 {
			continue
		}

		asm.Opcode = append(asm.Opcode, Opcode{LineNo: lineno, Addr: addr, Words: words})
		addr += isa.INSTRUCTION_SIZE
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	enc := &Encoder{Symbols: asm.Symbols, Equate: asm.Equate}
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		lineno = op.LineNo
		line = strings.Join(op.Words, " ")
		asm.Equate["LINENO"] = strconv.Itoa(lineno)

		op.Word, err = enc.Encode(strings.ToLower(op.Words[0]), op.Words[1:])
		if err != nil {
			return
		}

		if asm.Verbose {
			log.Printf("asm: %08x: %032b %v", op.Addr, uint32(op.Word), op.Word)
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Symbols: asm.Symbols,
	}

	return
}
