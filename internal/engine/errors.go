package engine

import (
	"errors"
	"fmt"
)

// InputError reports a label that is not part of the calculator's input
// contract. It is returned by the parse functions only; engine operations
// never fail.
type InputError struct {
	// Code identifies the kind of input that was expected.
	Code InputErrorCode

	// Input is the rejected label.
	Input string
}

// InputErrorCode categorizes input errors.
type InputErrorCode string

const (
	// ErrCodeInvalidToken indicates a label that is not a digit or ".".
	ErrCodeInvalidToken InputErrorCode = "INVALID_TOKEN"

	// ErrCodeInvalidOperator indicates a label that is not + - × ÷.
	ErrCodeInvalidOperator InputErrorCode = "INVALID_OPERATOR"

	// ErrCodeInvalidKey indicates a label that is not on the keypad.
	ErrCodeInvalidKey InputErrorCode = "INVALID_KEY"
)

// Error implements the error interface.
func (e *InputError) Error() string {
	var what string
	switch e.Code {
	case ErrCodeInvalidToken:
		what = "digit or decimal point"
	case ErrCodeInvalidOperator:
		what = "operator"
	default:
		what = "key"
	}
	return fmt.Sprintf("%s: %q is not a calculator %s", e.Code, e.Input, what)
}

func newInputError(code InputErrorCode, input string) *InputError {
	return &InputError{Code: code, Input: input}
}

// IsInputError returns true if err is, or wraps, an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
