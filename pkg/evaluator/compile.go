package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/mathex/pkg/operators"
	"github.com/sandrolain/mathex/pkg/types"
)

// Program is an invocable compiled expression. env holds the argument
// values by positional parameter slot, already normalized. Programs are
// stateless and safe for concurrent invocation.
type Program func(ctx context.Context, env []any) (any, error)

// step is the per-node closure a compile pass emits.
type step func(env []any) (any, error)

// Compile generates a program for the tree rooted at root. Compilation
// fails only on structural defects (unknown node kind, unresolvable
// function), which a successfully parsed tree cannot contain.
func (e *Evaluator) Compile(root *types.Node) (Program, error) {
	if root == nil {
		return nil, types.NewError(types.ErrNotComputable, "no expression tree to compile", -1)
	}
	s, err := e.compileNode(root)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, env []any) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return s(env)
	}, nil
}

// compileNode emits the closure for one node, switching exhaustively on the
// node kind.
func (e *Evaluator) compileNode(n *types.Node) (step, error) {
	switch n.Kind {
	case types.KindConstant:
		value := n.Value
		return func([]any) (any, error) { return value, nil }, nil

	case types.KindParameter:
		index := n.Index
		name := n.Name
		return func(env []any) (any, error) {
			if index >= len(env) {
				return nil, types.NewError(types.ErrUnboundArgument,
					fmt.Sprintf("no argument bound for parameter %q", name), -1)
			}
			return env[index], nil
		}, nil

	case types.KindUnary:
		op := operators.Op(n.Name)
		operand, err := e.compileNode(n.Operands[0])
		if err != nil {
			return nil, err
		}
		return func(env []any) (any, error) {
			v, err := operand(env)
			if err != nil {
				return nil, err
			}
			return operators.ApplyUnary(op, v)
		}, nil

	case types.KindBinary:
		op := operators.Op(n.Name)
		left, err := e.compileNode(n.Operands[0])
		if err != nil {
			return nil, err
		}
		right, err := e.compileNode(n.Operands[1])
		if err != nil {
			return nil, err
		}
		cmp := e.cmp
		return func(env []any) (any, error) {
			l, err := left(env)
			if err != nil {
				return nil, err
			}
			r, err := right(env)
			if err != nil {
				return nil, err
			}
			return operators.ApplyBinary(op, l, r, cmp)
		}, nil

	case types.KindTernary:
		condition, err := e.compileNode(n.Operands[0])
		if err != nil {
			return nil, err
		}
		then, err := e.compileNode(n.Operands[1])
		if err != nil {
			return nil, err
		}
		alternative, err := e.compileNode(n.Operands[2])
		if err != nil {
			return nil, err
		}
		return func(env []any) (any, error) {
			c, err := condition(env)
			if err != nil {
				return nil, err
			}
			truth, ok := operators.Truthy(c)
			if !ok {
				return nil, types.NewError(types.ErrTypeMismatch,
					fmt.Sprintf("condition has no truth value: %s", types.TypeOf(c)), -1)
			}
			// Only the selected branch evaluates.
			if truth {
				return then(env)
			}
			return alternative(env)
		}, nil

	case types.KindFunctionCall:
		if e.funcs == nil {
			return nil, types.NewError(types.ErrUnknownFunction,
				fmt.Sprintf("no function registry to resolve %q", n.Name), -1)
		}
		def, ok := e.funcs.Lookup(n.Name, len(n.Operands))
		if !ok {
			return nil, types.NewError(types.ErrUnknownFunction,
				fmt.Sprintf("unknown function %q/%d", n.Name, len(n.Operands)), -1)
		}
		args := make([]step, len(n.Operands))
		for i, operand := range n.Operands {
			s, err := e.compileNode(operand)
			if err != nil {
				return nil, err
			}
			args[i] = s
		}
		fn := def.Fn
		return func(env []any) (any, error) {
			values := make([]any, len(args))
			for i, arg := range args {
				v, err := arg(env)
				if err != nil {
					return nil, err
				}
				values[i] = v
			}
			out, err := fn(values...)
			if err != nil {
				return nil, err
			}
			return types.Normalize(out), nil
		}, nil

	default:
		return nil, types.NewError(types.ErrNotComputable,
			fmt.Sprintf("unknown node kind %q", n.Kind), -1)
	}
}
