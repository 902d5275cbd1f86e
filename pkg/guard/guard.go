// Package guard provides the argument guard clauses used at the public API
// boundary. Guards validate caller-supplied arguments and return typed
// argument errors; they are never used for parse failures, which the engine
// reports through the success flag instead.
package guard

import (
	"strings"

	"github.com/sandrolain/mathex/pkg/types"
)

// NotNil fails when value is nil.
func NotNil(name string, value any) error {
	if value == nil {
		return types.NewError(types.ErrNilArgument, name+" must not be nil", -1)
	}
	return nil
}

// NotNullOrWhitespace fails when value is empty or contains only whitespace.
func NotNullOrWhitespace(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return types.NewError(types.ErrEmptyExpression, name+" must not be empty or whitespace", -1)
	}
	return nil
}

// Positive fails when value is not strictly greater than zero.
func Positive(name string, value int64) error {
	if value <= 0 {
		return types.NewError(types.ErrNotPositive, name+" must be positive", -1)
	}
	return nil
}
