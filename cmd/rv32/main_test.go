package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (output string, err error) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	simDump = false
	asmListing = false
	asmOutput = "-"
	err = rootCmd.Execute()
	output = buf.String()
	return
}

func TestCommands(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "sum.s")
	require.NoError(t, os.WriteFile(source, []byte(strings.Join([]string{
		"      addi t0, x0, 3",
		"loop: add a0, a0, t0",
		"      addi t0, t0, -1",
		"      bne t0, x0, loop",
		"      print a0",
		"      exit",
	}, "\n")), 0o644))

	output, err := execute(t, "run", source)
	assert.NoError(err)
	assert.Equal("print_int: 6\nExit.\n", output)

	binary := filepath.Join(dir, "sum.bin")
	_, err = execute(t, "asm", "-o", binary, source)
	assert.NoError(err)

	data, err := os.ReadFile(binary)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(6, len(lines))
	for _, line := range lines {
		assert.Equal(32, len(line))
	}

	output, err = execute(t, "sim", "--dump", binary)
	assert.NoError(err)
	assert.Contains(output, "print_int: 6\nExit.\n")
	assert.Contains(output, "reg10: 00000000000000000000000000000110\n")

	output, err = execute(t, "defines")
	assert.NoError(err)
	assert.Contains(output, ".equ INSTRUCTION_SIZE 4\n")
	assert.Contains(output, ".equ MEMORY_SIZE ")

	_, err = execute(t, "run", filepath.Join(dir, "missing.s"))
	assert.Error(err)
}

func TestCommands_FlagRange(t *testing.T) {
	assert := assert.New(t)

	saved := cfg
	defer func() { cfg = saved }()

	_, err := execute(t, "defines", "--memory=-1")
	assert.ErrorIs(err, errFlagRange)

	_, err = execute(t, "defines", "--memory", "4096", "--max-steps=-5")
	assert.ErrorIs(err, errFlagRange)

	output, err := execute(t, "defines", "--memory", "128", "--max-steps", "0")
	assert.NoError(err)
	assert.Contains(output, ".equ MEMORY_SIZE 128\n")
}
