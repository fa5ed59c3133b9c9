package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rv32/isa"
	"github.com/ezrec/rv32/io"
)

// Channel is the console channel used by the custom instructions.
type Channel io.Channel

// Cpu is the simulation context for a single hart.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	State           // Architectural state.
	Console Channel // Console for print and exit. May be nil.

	Ticks int // Instructions retired since the last reset.
}

// NewCpu creates a new CPU with size bytes of data memory.
func NewCpu(size uint32) (cpu *Cpu) {
	cpu = &Cpu{
		State: State{
			Memory: Memory{Data: make([]byte, size)},
		},
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEMORY_SIZE":    fmt.Sprintf("%d", len(cpu.Memory.Data)),
		"REGISTER_COUNT": fmt.Sprintf("%d", isa.REGISTER_COUNT),
	})
}

// Load resets the CPU and installs a new instruction memory.
func (cpu *Cpu) Load(program []uint32) {
	cpu.Reset()
	cpu.Program = program
}

// Reset the CPU state, keeping instruction memory.
func (cpu *Cpu) Reset() {
	cpu.State.Reset()
	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("%5s: %08x\n", "pc", cpu.Pc)
	for reg, value := range cpu.Register.All() {
		text += fmt.Sprintf("%5s: %08x\n", reg.String(), value)
	}
	return
}

// Fetch returns the instruction word at the program counter.
func (cpu *Cpu) Fetch() (word isa.Word, err error) {
	if cpu.Pc%isa.INSTRUCTION_SIZE != 0 {
		err = ErrFetchMisaligned
		return
	}

	index := uint64(cpu.Pc / isa.INSTRUCTION_SIZE)
	if index >= uint64(len(cpu.Program)) {
		err = ErrFetchOutOfRange
		return
	}

	word = isa.Word(cpu.Program[index])
	return
}

// Tick executes a single instruction.
func (cpu *Cpu) Tick() (err error) {
	if cpu.halted {
		err = ErrHalted
		return
	}

	word, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(word)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// Execute executes a single instruction word at the current program
// counter. On error the state is left as it was.
func (cpu *Cpu) Execute(word isa.Word) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode{Addr: cpu.Pc, Word: word}, err)
		}
	}()

	if cpu.Verbose {
		log.Printf("cpu: %08x: %08x %v", cpu.Pc, uint32(word), word)
	}

	next_pc := cpu.Pc + isa.INSTRUCTION_SIZE

	rd := word.Rd()
	rs1 := cpu.ReadRegister(word.Rs1())
	rs2 := cpu.ReadRegister(word.Rs2())
	funct3 := word.Funct3()
	funct7 := word.Funct7()

	switch word.Opcode() {
	case isa.OPCODE_LOAD:
		addr := rs1 + word.ImmI()
		var value uint32
		switch funct3 {
		case isa.FUNCT3_BYTE:
			value, err = cpu.ReadMemory(addr, 1)
			value = isa.SignExtend(value, 8)
		case isa.FUNCT3_HALF:
			value, err = cpu.ReadMemory(addr, 2)
			value = isa.SignExtend(value, 16)
		case isa.FUNCT3_WORD:
			value, err = cpu.ReadMemory(addr, 4)
		case isa.FUNCT3_BYTEU:
			value, err = cpu.ReadMemory(addr, 1)
		case isa.FUNCT3_HALFU:
			value, err = cpu.ReadMemory(addr, 2)
		default:
			err = ErrUnsupportedOpcode
		}
		if err != nil {
			return
		}
		cpu.WriteRegister(rd, value)
	case isa.OPCODE_STORE:
		addr := rs1 + word.ImmS()
		switch funct3 {
		case isa.FUNCT3_BYTE:
			err = cpu.WriteMemory(addr, 1, rs2)
		case isa.FUNCT3_HALF:
			err = cpu.WriteMemory(addr, 2, rs2)
		case isa.FUNCT3_WORD:
			err = cpu.WriteMemory(addr, 4, rs2)
		default:
			err = ErrUnsupportedOpcode
		}
		if err != nil {
			return
		}
	case isa.OPCODE_OP_IMM:
		value := word.ImmI()
		alt := false
		switch funct3 {
		case isa.FUNCT3_SLL:
			if funct7 != 0 {
				err = ErrUnsupportedOpcode
				return
			}
			value = word.Shamt()
		case isa.FUNCT3_SRL:
			if funct7 != 0 && funct7 != isa.FUNCT7_ALT {
				err = ErrUnsupportedOpcode
				return
			}
			alt = funct7 == isa.FUNCT7_ALT
			value = word.Shamt()
		}
		cpu.WriteRegister(rd, cpu.doAlu(funct3, alt, rs1, value))
	case isa.OPCODE_OP:
		alt := funct7 == isa.FUNCT7_ALT
		switch {
		case funct7 == 0:
			// pass
		case alt && (funct3 == isa.FUNCT3_ADD || funct3 == isa.FUNCT3_SRL):
			// pass
		default:
			err = ErrUnsupportedOpcode
			return
		}
		cpu.WriteRegister(rd, cpu.doAlu(funct3, alt, rs1, rs2))
	case isa.OPCODE_LUI:
		cpu.WriteRegister(rd, word.ImmU())
	case isa.OPCODE_BRANCH:
		var taken bool
		switch funct3 {
		case isa.FUNCT3_BEQ:
			taken = rs1 == rs2
		case isa.FUNCT3_BNE:
			taken = rs1 != rs2
		case isa.FUNCT3_BLT:
			taken = int32(rs1) < int32(rs2)
		case isa.FUNCT3_BGE:
			taken = int32(rs1) >= int32(rs2)
		case isa.FUNCT3_BLTU:
			taken = rs1 < rs2
		case isa.FUNCT3_BGEU:
			taken = rs1 >= rs2
		default:
			err = ErrUnsupportedOpcode
			return
		}
		if taken {
			next_pc = word.TargetB()
		}
	case isa.OPCODE_JAL:
		cpu.WriteRegister(rd, next_pc)
		next_pc = word.TargetJ()
	case isa.OPCODE_JALR:
		if funct3 != 0 {
			err = ErrUnsupportedOpcode
			return
		}
		target := (rs1 + word.ImmI()) &^ 1
		cpu.WriteRegister(rd, next_pc)
		next_pc = target
	case isa.OPCODE_CUSTOM:
		switch funct3 {
		case isa.FUNCT3_EXIT:
			if cpu.Console != nil {
				err = cpu.Console.Exit()
				if err != nil {
					return
				}
			}
			cpu.SetHalted()
			next_pc = cpu.Pc
		case isa.FUNCT3_PRINT:
			if cpu.Console != nil {
				err = cpu.Console.PrintInt(cpu.ReadRegister(rd))
				if err != nil {
					return
				}
			}
		default:
			err = ErrUnsupportedCustomOp
			return
		}
	default:
		err = ErrUnsupportedOpcode
		return
	}

	cpu.Pc = next_pc

	return
}

// doAlu performs the requested ALU action, and returns the output value.
// alt selects sub over add, and arithmetic over logical right shift.
func (cpu *Cpu) doAlu(funct3 uint32, alt bool, input uint32, value uint32) (output uint32) {
	switch funct3 {
	case isa.FUNCT3_ADD:
		if alt {
			output = input - value
		} else {
			output = input + value
		}
	case isa.FUNCT3_SLL:
		output = input << (value & 0x1f)
	case isa.FUNCT3_SLT:
		if int32(input) < int32(value) {
			output = 1
		}
	case isa.FUNCT3_SLTU:
		if input < value {
			output = 1
		}
	case isa.FUNCT3_XOR:
		output = input ^ value
	case isa.FUNCT3_SRL:
		if alt {
			output = uint32(int32(input) >> (value & 0x1f))
		} else {
			output = input >> (value & 0x1f)
		}
	case isa.FUNCT3_OR:
		output = input | value
	case isa.FUNCT3_AND:
		output = input & value
	}

	return
}
