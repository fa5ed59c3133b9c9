package asm

import (
	"errors"

	"github.com/ezrec/rv32/isa"
	"github.com/ezrec/rv32/translate"
)

var f = translate.From

var (
	ErrUnknownOpcode   = isa.ErrUnknownOpcode
	ErrUnknownRegister = isa.ErrUnknownRegister

	ErrUndefinedSymbol  = errors.New(f("undefined symbol"))
	ErrMalformedLine    = errors.New(f("malformed line"))
	ErrImmediateRange   = errors.New(f("immediate out of range"))
	ErrTargetMisaligned = errors.New(f("target misaligned"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrLabelInvalid     = errors.New(f("label invalid"))
	ErrEquateSyntax     = errors.New(f(".equ syntax"))
	ErrEquateDuplicate  = errors.New(f(".equ duplicated"))
)

// ErrLabelMissing names a label that was referenced but never declared.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

func (el ErrLabelMissing) Is(err error) bool {
	return err == ErrUndefinedSymbol
}

// ErrMnemonic names an unrecognized mnemonic.
type ErrMnemonic string

func (em ErrMnemonic) Error() string {
	return f("unknown opcode '%v'", string(em))
}

func (em ErrMnemonic) Is(err error) bool {
	return err == ErrUnknownOpcode
}

// ErrOperands reports a wrong operand count.
type ErrOperands struct {
	Mnemonic string
	Want     int
	Got      int
}

func (err ErrOperands) Error() string {
	return f("%v expects %d operands, got %d", err.Mnemonic, err.Want, err.Got)
}

func (err ErrOperands) Is(target error) bool {
	return target == ErrMalformedLine
}

// ErrRange reports an immediate that does not fit its field.
type ErrRange struct {
	Value int64
	Min   int64
	Max   int64
}

func (err ErrRange) Error() string {
	return f("%d not in range %d..%d", err.Value, err.Min, err.Max)
}

func (err ErrRange) Is(target error) bool {
	return target == ErrImmediateRange
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

func (err ErrParseNumber) Is(target error) bool {
	return target == ErrMalformedLine
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

func (err ErrParseExpression) Is(target error) bool {
	return target == ErrMalformedLine
}
