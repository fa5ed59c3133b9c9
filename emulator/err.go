package emulator

import (
	"github.com/ezrec/rv32/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Addr   uint32
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc 0x%x %v", err.Addr, err.Err)
	}
	return f("line %d pc 0x%x %v", err.LineNo, err.Addr, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
