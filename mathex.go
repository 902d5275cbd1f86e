// Package mathex is a mathematical expression parsing and compilation
// engine.
//
// An expression string such as "3 + sin(x) * 2" is tokenized, parsed into
// a tree honoring operator precedence and associativity, constant-folded,
// and compiled into a reusable artifact that can be evaluated any number
// of times against different parameter bindings, optionally with numeric
// tolerance semantics.
//
// # Quick Start
//
//	// Simple evaluation
//	result, err := mathex.Eval("3 + 4 * 2")
//
//	// Interpret once, compute many times
//	svc := mathex.NewParsingService()
//	expr, err := svc.Interpret(ctx, "x + 1")
//	if expr.Success() {
//	    result1, _ := expr.Compute(int64(5))
//	    result2, _ := expr.Compute(2.5)
//	}
//
// # Validation
//
// A syntactically invalid expression is a normal outcome, not an error:
// Interpret returns an artifact with Success() == false, which makes the
// engine suitable for validating user-typed formulas. Errors are reserved
// for invalid arguments, post-initialization registration and
// cancellation.
//
// # Extension
//
// Before its first use, a ParsingService accepts additional functions,
// constant extractors, pass-through extractors and string formatters via
// its Register methods.
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/sandrolain/mathex/pkg/parser
//   - Evaluator: github.com/sandrolain/mathex/pkg/evaluator
//   - Functions: github.com/sandrolain/mathex/pkg/functions
//   - Types: github.com/sandrolain/mathex/pkg/types
package mathex

import (
	"context"
	"fmt"
	"sync"
)

// Version returns the current version of mathex.
func Version() string {
	return "v0.1.0-dev"
}

// defaultService backs the package-level convenience functions. Created on
// first use; per-service configuration requires an explicit
// NewParsingService.
var defaultService = sync.OnceValue(func() *ParsingService {
	return NewParsingService()
})

// Interpret parses an expression using a shared default service.
//
// For configured symbol sets, custom functions or precedence styles,
// create a dedicated service with NewParsingService.
func Interpret(ctx context.Context, expression string) (*ComputedExpression, error) {
	return defaultService().Interpret(ctx, expression)
}

// Eval is a convenience function that interprets and computes a
// parameterless expression in a single call.
//
// For repeated evaluations, or expressions with parameters, use Interpret
// and Compute instead.
func Eval(expression string, args ...any) (any, error) {
	expr, err := Interpret(context.Background(), expression)
	if err != nil {
		return nil, err
	}
	if !expr.Success() {
		return nil, expr.diag
	}
	return expr.Compute(args...)
}

// MustInterpret is like Interpret but panics when the expression cannot be
// interpreted. It simplifies safe initialization of global variables.
func MustInterpret(expression string) *ComputedExpression {
	expr, err := Interpret(context.Background(), expression)
	if err != nil {
		panic(fmt.Sprintf("mathex: Interpret(%q): %v", expression, err))
	}
	if !expr.Success() {
		panic(fmt.Sprintf("mathex: Interpret(%q): expression did not parse", expression))
	}
	return expr
}
