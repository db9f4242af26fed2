package bigint

import "errors"

// ErrDivisionByZero is the cause of every ArithmeticError raised by this
// module.
var ErrDivisionByZero = errors.New("division by zero")

// ArithmeticError is the panic value of exact arithmetic that cannot be
// carried out.
type ArithmeticError struct {
	Op  string
	Err error
}

func (e *ArithmeticError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ArithmeticError) Unwrap() error {
	return e.Err
}

// SyntaxError reports input that is not a base-10 integer.
type SyntaxError struct {
	Input string
}

func (e *SyntaxError) Error() string {
	return "bigint: invalid integer " + `"` + e.Input + `"`
}
