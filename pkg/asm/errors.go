package asm

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownWord        = errors.New("unknown word")
	ErrUndefinedName      = errors.New("name is not defined")
	ErrFewOperands        = errors.New("few arguments")
	ErrTooManyOperands    = errors.New("too many arguments")
	ErrCommaExpected      = errors.New("comma expected")
	ErrWrongParameter     = errors.New("wrong parameter")
	ErrWrongOperandSize   = errors.New("wrong operand size")
	ErrWrongOperandValue  = errors.New("wrong operand value")
	ErrRedefinition       = errors.New("name is already defined")
	ErrCircularDefinition = errors.New("circular definition")
)

// LineError ties one of the sentinel errors above to a source line.
type LineError struct {
	Line   int
	Err    error
	Detail string
}

func (e *LineError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at line %d", e.Err, e.Line)
	}
	return fmt.Sprintf("%v at line %d: %s", e.Err, e.Line, e.Detail)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func lineErr(line int, err error, format string, args ...any) error {
	return &LineError{Line: line, Err: err, Detail: fmt.Sprintf(format, args...)}
}
