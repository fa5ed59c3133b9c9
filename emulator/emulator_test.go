package emulator

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/rv32/asm"
	"github.com/ezrec/rv32/cpu"
	"github.com/ezrec/rv32/isa"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)

	assert.False(emu.Verbose)
	assert.Equal(MEMORY_SIZE, len(emu.Cpu.Memory.Data))
	assert.True(emu.Cpu.Halted())

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("4096", defines["MEMORY_SIZE"])
	assert.Equal("4", defines["INSTRUCTION_SIZE"])
}

func doAssemble(emu *Emulator, program []string, t *testing.T) {
	prog, err := emu.Assembler().Parse(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)
	emu.Load(prog)
}

func TestEmulator_Loop(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	doAssemble(emu, []string{
		"loop: addi x1, x1, 1",
		"      jal x0, loop",
	}, t)

	for _, iterations := range []int{1, 5, 100} {
		emu.Reset()
		steps, err := emu.Run(2 * iterations)
		assert.NoError(err)
		assert.Equal(2*iterations, steps)
		assert.Equal(uint32(iterations), emu.Cpu.ReadRegister(1))
		assert.Equal(uint32(0), emu.Cpu.Pc)
		assert.False(emu.Cpu.Halted())
	}
}

func TestEmulator_HaltOnly(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer

	emu := NewEmulator(0)
	emu.Console.Output = &out
	doAssemble(emu, []string{"exit"}, t)

	steps, err := emu.Run(0)
	assert.NoError(err)
	assert.Equal(1, steps)
	assert.True(emu.Cpu.Halted())
	assert.Equal(uint32(0), emu.Cpu.Pc)
	assert.Equal("Exit.\n", out.String())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(1, emu.Ticks())
}

func TestEmulator_FallOff(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	doAssemble(emu, []string{"addi x1, x0, 1", "addi x2, x0, 2"}, t)

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)

	done, err = emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(uint32(8), emu.Cpu.Pc)

	done, err = emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(2, emu.Ticks())
}

func TestEmulator_Print(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer

	emu := NewEmulator(0)
	emu.Console.Output = &out
	doAssemble(emu, []string{
		"; sum 1..10",
		"      addi t0, x0, 10",
		"      addi a0, x0, 0",
		"loop: add a0, a0, t0",
		"      addi t0, t0, -1",
		"      bne t0, x0, loop",
		"      print a0",
		"      sw a0, $(MEMORY_SIZE // 4)(x0)",
		"      exit",
	}, t)

	_, err := emu.Run(0)
	assert.NoError(err)
	assert.Equal("print_int: 55\nExit.\n", out.String())

	value, err := emu.Cpu.ReadMemory(MEMORY_SIZE/4, 4)
	assert.NoError(err)
	assert.Equal(uint32(55), value)
}

// Every mnemonic, executed after assembly, has the same effect as its
// reference operation.
func TestEmulator_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	a := uint32(0xfffffff0) // x1
	b := uint32(3)          // x2
	imm := uint32(0xfffffffd)

	expected := map[string]uint32{
		"add":   a + b,
		"sub":   a - b,
		"sll":   a << b,
		"slt":   1,
		"sltu":  0,
		"xor":   a ^ b,
		"srl":   a >> b,
		"sra":   uint32(int32(a) >> b),
		"or":    a | b,
		"and":   a & b,
		"addi":  a + imm,
		"slti":  1,
		"sltiu": 1,
		"xori":  a ^ imm,
		"ori":   a | imm,
		"andi":  a & imm,
		"slli":  a << b,
		"srli":  a >> b,
		"srai":  uint32(int32(a) >> b),
		"lui":   0x00003000,
	}

	for mnemonic, result := range expected {
		in, err := isa.Lookup(mnemonic)
		require.NoError(t, err)

		var line string
		switch {
		case in.Format == isa.FORMAT_R:
			line = fmt.Sprintf("%v x3, x1, x2", mnemonic)
		case in.Shift():
			line = fmt.Sprintf("%v x3, x1, 3", mnemonic)
		case in.Format == isa.FORMAT_U:
			line = fmt.Sprintf("%v x3, 3", mnemonic)
		default:
			line = fmt.Sprintf("%v x3, x1, -3", mnemonic)
		}

		emu := NewEmulator(0)
		doAssemble(emu, []string{line}, t)
		emu.Cpu.WriteRegister(1, a)
		emu.Cpu.WriteRegister(2, b)

		_, err = emu.Run(0)
		assert.NoError(err, line)
		assert.Equal(result, emu.Cpu.ReadRegister(3), line)
	}
}

func TestEmulator_Error(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(16)
	doAssemble(emu, []string{
		"addi x1, x0, 1",
		"",
		"lw x2, 16(x0)",
	}, t)

	steps, err := emu.Run(0)
	assert.Equal(1, steps)
	assert.True(errors.Is(err, cpu.ErrMemoryRange))

	var re *ErrRuntime
	if assert.True(errors.As(err, &re)) {
		assert.Equal(3, re.LineNo)
		assert.Equal(uint32(4), re.Addr)
	}
	assert.Equal(uint32(4), emu.Cpu.Pc)
}

func TestEmulator_Binary(t *testing.T) {
	assert := assert.New(t)

	prog, err := (&asm.Assembler{}).Parse(strings.NewReader("addi x5, x0, -1\nprint t0\nexit\n"))
	require.NoError(t, err)

	var bin bytes.Buffer
	require.NoError(t, prog.WriteBinary(&bin))

	var out bytes.Buffer
	emu := NewEmulator(0)
	emu.Console.Output = &out
	assert.NoError(emu.LoadBinary(&bin))

	_, err = emu.Run(0)
	assert.NoError(err)
	assert.Equal("print_int: 4294967295\nExit.\n", out.String())

	var dump bytes.Buffer
	assert.NoError(emu.Dump(&dump))
	lines := strings.Split(strings.TrimSuffix(dump.String(), "\n"), "\n")
	assert.Equal(isa.REGISTER_COUNT, len(lines))
	assert.Equal("reg00: 00000000000000000000000000000000", lines[0])
	assert.Equal("reg05: 11111111111111111111111111111111", lines[5])
}

func TestEmulator_Trace(t *testing.T) {
	assert := assert.New(t)

	var trace bytes.Buffer

	emu := NewEmulator(0)
	emu.Trace = &trace
	doAssemble(emu, []string{"addi a0, x0, 7", "exit"}, t)

	_, err := emu.Run(0)
	assert.NoError(err)
	assert.Contains(trace.String(), "addi a0, zero, 7")
	assert.Contains(trace.String(), "LineNo")
}
