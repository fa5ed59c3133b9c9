package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/rv32/asm"
	"github.com/ezrec/rv32/emulator"
)

var asmOutput string
var asmListing bool

// asmCmd represents the asm command
var asmCmd = &cobra.Command{
	Use:   "asm sourceFile",
	Short: "Assemble a source file into binary word strings",
	Long: `Asm reads one instruction or label per line and writes one 32 character
base 2 string per instruction. Comments start with ';' or '#'. Constants
are declared with '.equ NAME VALUE', and '$(expr)' evaluates an integer
expression over constants and labels.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		prog, err := assemble(args[0])
		if err != nil {
			return
		}

		var out io.Writer = cmd.OutOrStdout()
		if len(asmOutput) != 0 && asmOutput != "-" {
			ouf, err := os.Create(asmOutput)
			if err != nil {
				return err
			}
			defer ouf.Close()
			out = ouf
		}

		if asmListing {
			return prog.WriteListing(out)
		}
		return prog.WriteBinary(out)
	},
}

// newEmulator creates an emulator from the current configuration.
func newEmulator() (emu *emulator.Emulator) {
	emu = emulator.NewEmulator(uint32(cfg.MemorySize))
	emu.Verbose = cfg.Verbose
	if cfg.Trace {
		emu.Trace = os.Stderr
	}
	return
}

// assemble parses a source file with the emulator defines predefined.
func assemble(path string) (prog *asm.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err = newEmulator().Assembler().Parse(inf)
	return
}

func init() {
	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "-", "output file")
	asmCmd.Flags().BoolVarP(&asmListing, "listing", "l", false, "write a listing instead of binary")
	rootCmd.AddCommand(asmCmd)
}
