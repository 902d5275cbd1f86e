// Package evaluator generates invocable programs from expression trees.
//
// The evaluator walks a parsed node tree once and emits a closure per node;
// the composed root closure is the compiled program. Programs hold no
// mutable state, so one program may be invoked concurrently from any number
// of goroutines.
//
// # Example
//
//	ev := evaluator.New(evaluator.WithTolerance(tol))
//	program, err := ev.Compile(root)
//	result, err := program(ctx, []any{int64(5)})
package evaluator

import (
	"context"
	"io"
	"log/slog"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sandrolain/mathex/pkg/functions"
	"github.com/sandrolain/mathex/pkg/operators"
	"github.com/sandrolain/mathex/pkg/types"
)

// Formatter renders values of types the engine does not natively know how
// to print. A formatter reports ok == false to pass on a value.
type Formatter func(value any) (string, bool)

// Options configures code generation.
type Options struct {
	// Tolerance relaxes numeric comparisons; nil means exact.
	Tolerance *types.Tolerance
	// Language selects the collation locale for string comparison.
	// The undetermined locale is used when left unset.
	Language language.Tag
	// Formatters are consulted, in order, by string coercion.
	Formatters []Formatter
	// Functions resolves function-call nodes. Required when the tree
	// contains calls.
	Functions *functions.Registry
	// Logger receives debug events; nil disables logging.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithTolerance sets the numeric comparison tolerance.
func WithTolerance(t *types.Tolerance) Option {
	return func(o *Options) { o.Tolerance = t }
}

// WithLanguage sets the collation locale for string comparison.
func WithLanguage(tag language.Tag) Option {
	return func(o *Options) { o.Language = tag }
}

// WithFormatters registers string formatters.
func WithFormatters(f ...Formatter) Option {
	return func(o *Options) { o.Formatters = append(o.Formatters, f...) }
}

// WithFunctions sets the function registry used to resolve calls.
func WithFunctions(reg *functions.Registry) Option {
	return func(o *Options) { o.Functions = reg }
}

// WithLogger sets the debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Evaluator compiles node trees into programs.
type Evaluator struct {
	cmp    *operators.Comparison
	funcs  *functions.Registry
	logger *slog.Logger
}

// New creates an evaluator.
func New(opts ...Option) *Evaluator {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cmp := &operators.Comparison{
		Tolerance: options.Tolerance,
		Collator:  collate.New(options.Language),
	}
	for _, f := range options.Formatters {
		f := f
		cmp.Formatters = append(cmp.Formatters, func(v any) (string, bool) { return f(v) })
	}

	return &Evaluator{
		cmp:    cmp,
		funcs:  options.Functions,
		logger: logger,
	}
}

// Evaluate compiles and runs root in one call. Prefer Compile when the same
// tree is evaluated repeatedly.
func (e *Evaluator) Evaluate(ctx context.Context, root *types.Node, args []any) (any, error) {
	program, err := e.Compile(root)
	if err != nil {
		return nil, err
	}
	return program(ctx, args)
}
