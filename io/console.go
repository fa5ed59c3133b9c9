package io

import (
	"fmt"
	"io"
	"iter"
	"maps"
)

// Console writes program output as text lines.
type Console struct {
	Output io.Writer // Destination, if nil output is discarded.

	exited bool
}

var _ Channel = (*Console)(nil)

// Defines returns an iter of defines for the channel.
func (con *Console) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{})
}

// Rewind reopens the console after an exit.
func (con *Console) Rewind() {
	con.exited = false
}

// PrintInt writes a 'print_int: N' line.
func (con *Console) PrintInt(value uint32) (err error) {
	if con.exited {
		err = ErrChannelClosed
		return
	}
	if con.Output == nil {
		return
	}
	_, err = fmt.Fprintf(con.Output, "print_int: %d\n", value)
	return
}

// Exit writes an 'Exit.' line and closes the console.
func (con *Console) Exit() (err error) {
	if con.exited {
		err = ErrChannelClosed
		return
	}
	if con.Output != nil {
		_, err = fmt.Fprintln(con.Output, "Exit.")
		if err != nil {
			return
		}
	}
	con.exited = true
	return
}
