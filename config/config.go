// Package config loads rv32 tool settings from the environment.
package config

import (
	"github.com/xyproto/env/v2"
)

const (
	DEFAULT_MEMORY_SIZE = 4096 // Bytes of data memory.
)

// Config holds the settings shared by the assembler and simulator.
type Config struct {
	MemorySize int  // Bytes of data memory.
	MaxSteps   int  // Instruction limit, 0 is unbounded.
	Verbose    bool // Verbose assembler and CPU logging.
	Trace      bool // Dump every decoded instruction.
}

// FromEnv reads RV32_MEMORY_SIZE, RV32_MAX_STEPS, RV32_VERBOSE and
// RV32_TRACE from the current environment.
func FromEnv() (cfg Config) {
	// env caches os.Environ() on first use; reload to see later changes.
	env.Load()

	cfg = Config{
		MemorySize: env.Int("RV32_MEMORY_SIZE", DEFAULT_MEMORY_SIZE),
		MaxSteps:   env.Int("RV32_MAX_STEPS", 0),
		Verbose:    env.Bool("RV32_VERBOSE"),
		Trace:      env.Bool("RV32_TRACE"),
	}

	if cfg.MemorySize < 0 {
		cfg.MemorySize = DEFAULT_MEMORY_SIZE
	}
	if cfg.MaxSteps < 0 {
		cfg.MaxSteps = 0
	}

	return
}
