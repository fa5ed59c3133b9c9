package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	con := &Console{Output: &buf}

	assert.NoError(con.PrintInt(42))
	assert.NoError(con.PrintInt(0xffffffff))
	assert.NoError(con.Exit())
	assert.Equal("print_int: 42\nprint_int: 4294967295\nExit.\n", buf.String())

	assert.ErrorIs(con.PrintInt(1), ErrChannelClosed)
	assert.ErrorIs(con.Exit(), ErrChannelClosed)

	con.Rewind()
	assert.NoError(con.PrintInt(7))
	assert.Contains(buf.String(), "print_int: 7\n")
}

func TestConsole_Discard(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	assert.NoError(con.PrintInt(1))
	assert.NoError(con.Exit())

	count := 0
	for range con.Defines() {
		count++
	}
	assert.Equal(0, count)
}

func TestRecorder(t *testing.T) {
	assert := assert.New(t)

	rec := &Recorder{Capacity: 2}

	assert.NoError(rec.PrintInt(1))
	assert.NoError(rec.PrintInt(2))
	assert.ErrorIs(rec.PrintInt(3), ErrChannelFull)
	assert.Equal([]uint32{1, 2}, rec.Values)

	defines := map[string]string{}
	for key, value := range rec.Defines() {
		defines[key] = value
	}
	assert.Equal(map[string]string{"CONSOLE_CAPACITY": "2"}, defines)

	assert.NoError(rec.Exit())
	assert.True(rec.Exited)
	assert.ErrorIs(rec.Exit(), ErrChannelClosed)

	rec.Rewind()
	assert.Nil(rec.Values)
	assert.False(rec.Exited)
}
