package isa

import (
	"errors"

	"github.com/ezrec/rv32/translate"
)

var f = translate.From

var (
	ErrUnknownRegister = errors.New(f("unknown register"))
	ErrUnknownOpcode   = errors.New(f("unknown opcode"))
)

// ErrRegister reports the register name that failed to resolve.
type ErrRegister string

func (er ErrRegister) Error() string {
	return f("unknown register '%v'", string(er))
}

func (er ErrRegister) Is(err error) bool {
	return err == ErrUnknownRegister
}
