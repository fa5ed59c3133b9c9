// Package io provides the console channels used by the rv32 custom
// instructions. Console writes to an io.Writer; Recorder keeps the values
// in memory.
package io

import (
	"iter"
)

// Channel defines the interface for the console attached to the CPU.
type Channel interface {
	// PrintInt emits the value of a register.
	PrintInt(value uint32) error
	// Exit reports that the program has halted.
	Exit() error
	// Defines returns the assembler constants the channel provides.
	Defines() iter.Seq2[string, string]
}
