package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/rv32/emulator"
	"github.com/ezrec/rv32/internal"
)

var simDump bool

// simCmd represents the sim command
var simCmd = &cobra.Command{
	Use:   "sim binaryFile",
	Short: "Simulate a file of binary word strings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		inf, err := os.Open(args[0])
		if err != nil {
			return
		}
		defer inf.Close()

		emu := newEmulator()
		err = emu.LoadBinary(inf)
		if err != nil {
			return
		}

		return simulate(cmd, emu)
	},
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run sourceFile",
	Short: "Assemble and simulate a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		prog, err := assemble(args[0])
		if err != nil {
			return
		}

		emu := newEmulator()
		emu.Load(prog)

		return simulate(cmd, emu)
	},
}

// definesCmd represents the defines command
var definesCmd = &cobra.Command{
	Use:   "defines",
	Short: "List the predefined assembler constants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		emu := newEmulator()
		for key, value := range internal.IterSeq2Sorted(emu.Defines()) {
			_, err = fmt.Fprintf(cmd.OutOrStdout(), ".equ %v %v\n", key, value)
			if err != nil {
				return
			}
		}
		return
	},
}

// simulate runs the emulator and optionally dumps the registers.
func simulate(cmd *cobra.Command, emu *emulator.Emulator) (err error) {
	emu.Console.Output = cmd.OutOrStdout()

	steps, err := emu.Run(cfg.MaxSteps)
	if cfg.Verbose {
		log.Printf("rv32: %d steps", steps)
	}
	if err != nil {
		return
	}

	if simDump {
		err = emu.Dump(cmd.OutOrStdout())
	}

	return
}

func init() {
	for _, cmd := range []*cobra.Command{simCmd, runCmd} {
		cmd.Flags().BoolVarP(&simDump, "dump", "d", false, "dump registers when stopped")
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(definesCmd)
}
