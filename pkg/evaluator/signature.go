package evaluator

import (
	"strings"

	"github.com/sandrolain/mathex/pkg/types"
)

// Argument-type codes used in signatures.
const (
	codeInteger = 'n'
	codeFloat   = 'f'
	codeString  = 's'
	codeBoolean = 'b'
	codeBytes   = 'y'
	codeOther   = 'x'
)

// Signature derives the argument-type signature of a normalized argument
// list, e.g. "nn" for two integers or "fs" for a float and a string.
// Compiled programs are cached under this key, so evaluating the same
// expression with differently typed arguments regenerates rather than
// corrupting shared state.
func Signature(args []any) string {
	var sb strings.Builder
	sb.Grow(len(args))
	for _, a := range args {
		switch a.(type) {
		case int64:
			sb.WriteByte(codeInteger)
		case float64:
			sb.WriteByte(codeFloat)
		case string:
			sb.WriteByte(codeString)
		case bool:
			sb.WriteByte(codeBoolean)
		case []byte:
			sb.WriteByte(codeBytes)
		default:
			sb.WriteByte(codeOther)
		}
	}
	return sb.String()
}

// ValueTypes maps the arguments to their engine value types, used when
// specializing a cloned tree's parameter registry for one signature.
func ValueTypes(args []any) []types.ValueType {
	out := make([]types.ValueType, len(args))
	for i, a := range args {
		out[i] = types.TypeOf(a)
	}
	return out
}
