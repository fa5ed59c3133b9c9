// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/rv32/config"
	"github.com/ezrec/rv32/translate"
)

var cfg = config.FromEnv()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rv32",
	Short: "Assembler and simulator for a small RV32 subset",
	Long: `rv32 assembles RV32 integer instructions into binary word strings,
one 32 character line per instruction, and simulates those words on a
single hart with separate instruction and data memories.

Branch and jump targets are absolute addresses. The custom-0 opcode
provides 'exit' and 'print rd' for program termination and output.

Defaults for the persistent flags are read from RV32_MEMORY_SIZE,
RV32_MAX_STEPS, RV32_VERBOSE and RV32_TRACE.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if cfg.MemorySize < 0 || int64(cfg.MemorySize) > math.MaxUint32 {
			err = fmt.Errorf("--memory %d: %w", cfg.MemorySize, errFlagRange)
			return
		}
		if cfg.MaxSteps < 0 {
			err = fmt.Errorf("--max-steps %d: %w", cfg.MaxSteps, errFlagRange)
			return
		}
		return
	},
}

var errFlagRange = errors.New(translate.From("out of range"))

func init() {
	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&cfg.MemorySize, "memory", "m", cfg.MemorySize, "data memory size in bytes")
	flags.IntVarP(&cfg.MaxSteps, "max-steps", "n", cfg.MaxSteps, "stop after this many instructions (0 is unbounded)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "verbose logging")
	flags.BoolVarP(&cfg.Trace, "trace", "t", cfg.Trace, "dump every decoded instruction to stderr")
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
