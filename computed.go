package mathex

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/sandrolain/mathex/pkg/cache"
	"github.com/sandrolain/mathex/pkg/evaluator"
	"github.com/sandrolain/mathex/pkg/functions"
	"github.com/sandrolain/mathex/pkg/types"
)

// ComputedExpression is the finished artifact of an Interpret call: the
// expression tree, its parameter registry, and a compute entry point.
//
// A ComputedExpression is immutable and safe for concurrent Compute calls
// on the same instance. Compiled programs are specialized per
// argument-type signature and cached; specialization clones the node tree,
// so computing with different argument types never corrupts shared state.
type ComputedExpression struct {
	source     string
	root       *types.Node
	params     *types.ParameterRegistry
	success    bool
	diag       error
	funcs      *functions.Registry
	formatters []evaluator.Formatter
	language   language.Tag
	logger     *slog.Logger
	programs   *cache.Cache[evaluator.Program]
}

// Success reports whether the expression parsed. A failed expression has a
// nil tree and cannot compute; checking Success is the supported way to
// validate user-typed formulas.
func (c *ComputedExpression) Success() bool {
	return c.success
}

// Diagnostic returns the first parse diagnostic of a failed expression,
// nil when Success is true. It is informational only.
func (c *ComputedExpression) Diagnostic() error {
	return c.diag
}

// ExpressionText returns the original expression source.
func (c *ComputedExpression) ExpressionText() string {
	return c.source
}

// ParameterNames returns the parameter names in positional binding order.
func (c *ComputedExpression) ParameterNames() []string {
	return c.params.Names()
}

// IsConstant reports whether the whole expression folded to a literal.
func (c *ComputedExpression) IsConstant() bool {
	return c.success && c.root.IsConstant()
}

// Compute binds the positional arguments and evaluates the expression.
func (c *ComputedExpression) Compute(args ...any) (any, error) {
	return c.ComputeContext(context.Background(), args...)
}

// ComputeContext is Compute with a caller-supplied context.
func (c *ComputedExpression) ComputeContext(ctx context.Context, args ...any) (any, error) {
	return c.compute(ctx, nil, args)
}

// ComputeWithTolerance evaluates with relaxed numeric comparison
// semantics. Comparisons between operand types that have no tolerant
// overload silently fall back to exact comparison.
func (c *ComputedExpression) ComputeWithTolerance(ctx context.Context, tolerance *types.Tolerance, args ...any) (any, error) {
	return c.compute(ctx, tolerance, args)
}

// ComputeNamed binds arguments by parameter name instead of position.
func (c *ComputedExpression) ComputeNamed(ctx context.Context, args map[string]any) (any, error) {
	positional := make([]any, c.params.Len())
	bound := 0
	for name, value := range args {
		p, ok := c.params.Get(name)
		if !ok {
			return nil, types.NewError(types.ErrUnboundArgument,
				fmt.Sprintf("expression has no parameter %q", name), -1)
		}
		positional[p.Index] = value
		bound++
	}
	if bound != c.params.Len() {
		return nil, types.NewError(types.ErrArgumentCount,
			fmt.Sprintf("expression needs %d arguments, got %d", c.params.Len(), bound), -1)
	}
	return c.compute(ctx, nil, positional)
}

func (c *ComputedExpression) compute(ctx context.Context, tolerance *types.Tolerance, args []any) (any, error) {
	if !c.success {
		err := types.NewError(types.ErrNotComputable, "expression did not parse", -1)
		if c.diag != nil {
			err = err.WithCause(c.diag)
		}
		return nil, err
	}
	if len(args) != c.params.Len() {
		return nil, types.NewError(types.ErrArgumentCount,
			fmt.Sprintf("expression needs %d arguments, got %d", c.params.Len(), len(args)), -1)
	}

	env := make([]any, len(args))
	for i, a := range args {
		v := types.Normalize(a)
		if types.TypeOf(v) == types.ValueUnknown {
			return nil, types.NewError(types.ErrTypeMismatch,
				fmt.Sprintf("argument %d has unsupported type %T", i, a), -1)
		}
		env[i] = v
	}

	key := evaluator.Signature(env)
	if !tolerance.IsZero() {
		key += "|" + tolerance.Key()
	}
	program, err := c.programs.GetOrCompute(key, func() (evaluator.Program, error) {
		return c.specialize(env, tolerance)
	})
	if err != nil {
		return nil, err
	}
	return program(ctx, env)
}

// specialize clones the tree against a re-typed parameter registry and
// compiles it for one argument-type signature. The shared tree and
// registry are never mutated.
func (c *ComputedExpression) specialize(env []any, tolerance *types.Tolerance) (evaluator.Program, error) {
	params := c.params.Clone()
	for i, vt := range evaluator.ValueTypes(env) {
		params.At(i).Type = vt
	}
	root := c.root.DeepClone(&types.CloneContext{Params: params})

	ev := evaluator.New(
		evaluator.WithTolerance(tolerance),
		evaluator.WithLanguage(c.language),
		evaluator.WithFunctions(c.funcs),
		evaluator.WithFormatters(c.formatters...),
		evaluator.WithLogger(c.logger),
	)
	return ev.Compile(root)
}
