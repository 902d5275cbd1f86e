package functions

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/sandrolain/mathex/pkg/operators"
	"github.com/sandrolain/mathex/pkg/types"
)

// Builtins returns a registry populated with the standard catalog.
func Builtins() *Registry {
	r := NewRegistry()
	for _, def := range catalog {
		// The catalog is static; a registration failure here is a
		// programming error.
		if err := r.Register(def); err != nil {
			panic(fmt.Sprintf("functions: builtin catalog: %v", err))
		}
	}
	return r
}

// numeric1 wraps a float64 unary math function.
func numeric1(name, param string, f func(float64) float64) Definition {
	return Definition{
		Name:          name,
		Params:        []string{param},
		Deterministic: true,
		Fn: func(args ...any) (any, error) {
			x, ok := operators.Number(args[0])
			if !ok {
				return nil, argTypeError(name, args[0])
			}
			r := f(x)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				return nil, types.NewError(types.ErrNumberOutOfRange, name+": number out of range", -1)
			}
			return r, nil
		},
	}
}

// numeric2 wraps a float64 binary math function.
func numeric2(name string, params [2]string, f func(float64, float64) float64) Definition {
	return Definition{
		Name:          name,
		Params:        []string{params[0], params[1]},
		Deterministic: true,
		Fn: func(args ...any) (any, error) {
			x, xok := operators.Number(args[0])
			y, yok := operators.Number(args[1])
			if !xok || !yok {
				return nil, argTypeError(name, args[0])
			}
			r := f(x, y)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				return nil, types.NewError(types.ErrNumberOutOfRange, name+": number out of range", -1)
			}
			return r, nil
		},
	}
}

// string1 wraps a unary string function.
func string1(name, param string, f func(string) any) Definition {
	return Definition{
		Name:          name,
		Params:        []string{param},
		Deterministic: true,
		Fn: func(args ...any) (any, error) {
			s, ok := args[0].(string)
			if !ok {
				return nil, argTypeError(name, args[0])
			}
			return f(s), nil
		},
	}
}

func argTypeError(name string, got any) error {
	return types.NewError(types.ErrTypeMismatch,
		fmt.Sprintf("%s: unsupported argument type %s", name, types.TypeOf(got)), -1)
}

var catalog = []Definition{
	// Nonary
	{
		Name:          "pi",
		Deterministic: true,
		Fn:            func(...any) (any, error) { return math.Pi, nil },
	},
	{
		Name:          "e",
		Deterministic: true,
		Fn:            func(...any) (any, error) { return math.E, nil },
	},
	{
		// Not deterministic: never folded at parse time.
		Name: "random",
		Fn:   func(...any) (any, error) { return rand.Float64(), nil },
	},

	// Unary numeric
	numeric1("abs", "value", math.Abs),
	numeric1("sqrt", "value", math.Sqrt),
	numeric1("sin", "angle", math.Sin),
	numeric1("cos", "angle", math.Cos),
	numeric1("tan", "angle", math.Tan),
	numeric1("asin", "value", math.Asin),
	numeric1("acos", "value", math.Acos),
	numeric1("atan", "value", math.Atan),
	numeric1("ln", "value", math.Log),
	numeric1("log10", "value", math.Log10),
	numeric1("exp", "exponent", math.Exp),
	numeric1("floor", "value", math.Floor),
	numeric1("ceiling", "value", math.Ceil),
	numeric1("round", "value", math.Round),
	numeric1("truncate", "value", math.Trunc),

	// Unary string
	string1("length", "text", func(s string) any { return int64(len(s)) }),
	string1("trim", "text", func(s string) any { return strings.TrimSpace(s) }),
	string1("lowercase", "text", func(s string) any { return strings.ToLower(s) }),
	string1("uppercase", "text", func(s string) any { return strings.ToUpper(s) }),

	// Conversions
	{
		Name:          "tostring",
		Params:        []string{"value"},
		Deterministic: true,
		Fn: func(args ...any) (any, error) {
			return operators.Stringify(args[0], nil), nil
		},
	},
	{
		Name:          "tonumber",
		Params:        []string{"text"},
		Deterministic: true,
		Fn: func(args ...any) (any, error) {
			if n, ok := operators.Number(args[0]); ok {
				return n, nil
			}
			s, ok := args[0].(string)
			if !ok {
				return nil, argTypeError("tonumber", args[0])
			}
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return i, nil
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, types.NewError(types.ErrTypeMismatch,
					fmt.Sprintf("tonumber: %q is not a number", s), -1)
			}
			return f, nil
		},
	},

	// Binary
	numeric2("min", [2]string{"left", "right"}, math.Min),
	numeric2("max", [2]string{"left", "right"}, math.Max),
	numeric2("power", [2]string{"base", "exponent"}, math.Pow),
	numeric2("atan2", [2]string{"y", "x"}, math.Atan2),
	{
		Name:          "log",
		Params:        []string{"base", "value"},
		Deterministic: true,
		Fn: func(args ...any) (any, error) {
			b, bok := operators.Number(args[0])
			x, xok := operators.Number(args[1])
			if !bok || !xok {
				return nil, argTypeError("log", args[0])
			}
			r := math.Log(x) / math.Log(b)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				return nil, types.NewError(types.ErrNumberOutOfRange, "log: number out of range", -1)
			}
			return r, nil
		},
	},
	{
		Name:          "round",
		Params:        []string{"value", "digits"},
		Deterministic: true,
		Fn: func(args ...any) (any, error) {
			x, xok := operators.Number(args[0])
			d, dok := operators.Integer(args[1])
			if !xok || !dok {
				return nil, argTypeError("round", args[0])
			}
			scale := math.Pow(10, float64(d))
			return math.Round(x*scale) / scale, nil
		},
	},
	{
		Name:          "startswith",
		Params:        []string{"text", "prefix"},
		Deterministic: true,
		Fn:            stringPair("startswith", strings.HasPrefix),
	},
	{
		Name:          "endswith",
		Params:        []string{"text", "suffix"},
		Deterministic: true,
		Fn:            stringPair("endswith", strings.HasSuffix),
	},
	{
		Name:          "contains",
		Params:        []string{"text", "fragment"},
		Deterministic: true,
		Fn:            stringPair("contains", strings.Contains),
	},

	// Ternary
	{
		// The generator lowers if(condition, then, else) to a conditional
		// node with short-circuit evaluation; this entry keeps the function
		// listed and callable through the registry.
		Name:          "if",
		Params:        []string{"condition", "then", "else"},
		Deterministic: true,
		Fn: func(args ...any) (any, error) {
			cond, ok := operators.Truthy(args[0])
			if !ok {
				return nil, argTypeError("if", args[0])
			}
			if cond {
				return args[1], nil
			}
			return args[2], nil
		},
	},
	{
		Name:          "substring",
		Params:        []string{"text", "start", "length"},
		Deterministic: true,
		Fn: func(args ...any) (any, error) {
			s, sok := args[0].(string)
			start, stok := operators.Integer(args[1])
			length, lok := operators.Integer(args[2])
			if !sok || !stok || !lok {
				return nil, argTypeError("substring", args[0])
			}
			if start < 0 || length < 0 || start > int64(len(s)) {
				return nil, types.NewError(types.ErrNumberOutOfRange, "substring: range out of bounds", -1)
			}
			end := start + length
			if end > int64(len(s)) {
				end = int64(len(s))
			}
			return s[start:end], nil
		},
	},
	{
		Name:          "replace",
		Params:        []string{"text", "old", "new"},
		Deterministic: true,
		Fn: func(args ...any) (any, error) {
			s, sok := args[0].(string)
			old, ook := args[1].(string)
			repl, rok := args[2].(string)
			if !sok || !ook || !rok {
				return nil, argTypeError("replace", args[0])
			}
			return strings.ReplaceAll(s, old, repl), nil
		},
	},
}

func stringPair(name string, f func(string, string) bool) Func {
	return func(args ...any) (any, error) {
		a, aok := args[0].(string)
		b, bok := args[1].(string)
		if !aok || !bok {
			return nil, argTypeError(name, args[0])
		}
		return f(a, b), nil
	}
}
