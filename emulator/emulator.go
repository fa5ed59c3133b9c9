// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/k0kubun/pp/v3"

	"github.com/ezrec/rv32/asm"
	"github.com/ezrec/rv32/cpu"
	"github.com/ezrec/rv32/internal"
	"github.com/ezrec/rv32/isa"
	rvio "github.com/ezrec/rv32/io"
)

const (
	MEMORY_SIZE = 4096 // Default data memory size, in bytes.
)

var _emulator_defines = map[string]string{
	"INSTRUCTION_SIZE": fmt.Sprintf("%d", isa.INSTRUCTION_SIZE),
}

// Emulator state. CPU + program listing + console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Trace    io.Writer    // If set, dumps every decoded instruction.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Reference to the currently running program listing.

	Console rvio.Console // Console IO channel.

	printer *pp.PrettyPrinter
}

// NewEmulator creates a new emulator with size bytes of data memory.
// A size of zero selects MEMORY_SIZE.
func NewEmulator(size uint32) (emu *Emulator) {
	if size == 0 {
		size = MEMORY_SIZE
	}

	emu = &Emulator{
		Cpu:     cpu.NewCpu(size),
		Program: &asm.Program{},
	}

	emu.Cpu.Console = &emu.Console

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Console.Defines(),
	)
}

// Assembler returns an assembler with the emulator defines predefined.
func (emu *Emulator) Assembler() (as *asm.Assembler) {
	as = &asm.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		as.Predefine(key, value)
	}
	return
}

// Load installs a program listing and resets the machine.
func (emu *Emulator) Load(prog *asm.Program) {
	emu.Program = prog
	emu.Cpu.Load(prog.Binary())
	emu.Console.Rewind()
}

// LoadBinary loads a program of base 2 word strings.
func (emu *Emulator) LoadBinary(input io.Reader) (err error) {
	prog, err := asm.ReadBinary(input)
	if err != nil {
		return
	}

	emu.Load(prog)
	return
}

// Reset the machine state, keeping the program.
func (emu *Emulator) Reset() {
	emu.Cpu.Reset()
	emu.Console.Rewind()
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	op := emu.Program.Debug(emu.Cpu.Pc)
	if op == nil {
		return 0
	}

	return op.LineNo
}

// traceRecord is the decoded form of an instruction, for tracing.
type traceRecord struct {
	Pc     uint32
	LineNo int
	Word   isa.Word
	Asm    string
	Format isa.CodeFormat
	Opcode isa.CodeOpcode
	Rd     isa.Register
	Rs1    isa.Register
	Rs2    isa.Register
	Funct3 uint32
	Funct7 uint32
}

// trace dumps the instruction at the program counter.
func (emu *Emulator) trace() {
	word, err := emu.Cpu.Fetch()
	if err != nil {
		return
	}

	if emu.printer == nil {
		emu.printer = pp.New()
		emu.printer.SetColoringEnabled(false)
	}
	emu.printer.SetOutput(emu.Trace)

	record := traceRecord{
		Pc:     emu.Cpu.Pc,
		LineNo: emu.LineNo(),
		Word:   word,
		Asm:    word.String(),
		Opcode: word.Opcode(),
		Rd:     word.Rd(),
		Rs1:    word.Rs1(),
		Rs2:    word.Rs2(),
		Funct3: word.Funct3(),
		Funct7: word.Funct7(),
	}
	if in, ok := word.Instruction(); ok {
		record.Format = in.Format
	}

	emu.printer.Println(record)
}

// Tick performs a single tick of the emulator. done is set once the
// machine has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted() {
		done = true
		return
	}

	addr := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Addr: addr, LineNo: lineno, Err: err}
		}
	}()

	if emu.Trace != nil {
		emu.trace()
	}

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrFetchOutOfRange) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	done = emu.Cpu.Halted()

	return
}

// Run executes until the machine halts, an error occurs, or maxSteps
// instructions have executed. A maxSteps of zero is unbounded.
func (emu *Emulator) Run(maxSteps int) (steps int, err error) {
	for !emu.Cpu.Halted() {
		if maxSteps > 0 && steps >= maxSteps {
			if emu.Verbose {
				log.Printf("emulator: stopped after %d steps", steps)
			}
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil {
			return
		}
		steps++
		if done {
			break
		}
	}

	return
}

// Dump writes 'regNN: <binary>' lines for every register.
func (emu *Emulator) Dump(output io.Writer) (err error) {
	return dumpRegisters(output, &emu.Cpu.Register)
}

func dumpRegisters(output io.Writer, rf cpu.RegisterFile) (err error) {
	for reg, value := range rf.All() {
		_, err = fmt.Fprintf(output, "reg%02d: %032b\n", uint32(reg), value)
		if err != nil {
			return
		}
	}
	return
}
