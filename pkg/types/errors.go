package types

import "fmt"

// ErrorCode identifies a mathex error category.
type ErrorCode string

const (
	// M01xx: argument guard violations
	ErrEmptyExpression ErrorCode = "M0101"
	ErrNilArgument     ErrorCode = "M0102"
	ErrNotPositive     ErrorCode = "M0103"

	// M02xx: parse diagnostics (carried on a failed ComputedExpression,
	// never returned from Interpret)
	ErrUnmatchedParen  ErrorCode = "M0201"
	ErrUnknownSymbol   ErrorCode = "M0202"
	ErrUnknownFunction ErrorCode = "M0203"
	ErrArityMismatch   ErrorCode = "M0204"
	ErrEmptyOperand    ErrorCode = "M0205"
	ErrDepthExceeded   ErrorCode = "M0206"

	// M03xx: evaluation errors
	ErrNotComputable    ErrorCode = "M0301"
	ErrArgumentCount    ErrorCode = "M0302"
	ErrUnboundArgument  ErrorCode = "M0303"
	ErrTypeMismatch     ErrorCode = "M0304"
	ErrDivisionByZero   ErrorCode = "M0305"
	ErrNumberOutOfRange ErrorCode = "M0306"

	// M04xx: service misuse
	ErrAlreadyInitialized ErrorCode = "M0401"
	ErrDuplicateFunction  ErrorCode = "M0402"
)

// Error represents a structured mathex error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new mathex error.
// Pass a negative position when no source location applies.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds the offending token text to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}
