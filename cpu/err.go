package cpu

import (
	"errors"

	"github.com/ezrec/rv32/isa"
	"github.com/ezrec/rv32/translate"
)

var f = translate.From

var (
	// Fetch errors
	ErrFetchOutOfRange = errors.New(f("fetch out of range"))
	ErrFetchMisaligned = errors.New(f("fetch misaligned"))
	ErrHalted          = errors.New(f("halted"))

	// Execution errors
	ErrUnsupportedOpcode   = errors.New(f("unsupported opcode"))
	ErrUnsupportedCustomOp = errors.New(f("unsupported custom op"))
	ErrMemoryRange         = errors.New(f("memory access out of range"))
)

// ErrOpcode identifies the instruction that failed.
type ErrOpcode struct {
	Addr uint32
	Word isa.Word
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%08x at 0x%x (%v)", uint32(eo.Word), eo.Addr, eo.Word.String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrAccess is a data memory access outside of data memory.
type ErrAccess struct {
	Addr  uint32
	Width uint32
}

func (ea ErrAccess) Error() string {
	return f("%d byte access at 0x%x out of range", ea.Width, ea.Addr)
}

func (ea ErrAccess) Is(err error) bool {
	return err == ErrMemoryRange
}
