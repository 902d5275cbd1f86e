package operators

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sandrolain/mathex/pkg/types"
)

// Number attempts to read v as a float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Integer attempts to read v as an int64 without loss.
func Integer(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int64(n), true
		}
	}
	return 0, false
}

// Truthy maps a runtime value to a boolean: booleans stand for themselves,
// numbers are true when non-zero. Other types have no truth value.
func Truthy(v any) (bool, bool) {
	switch n := v.(type) {
	case bool:
		return n, true
	case int64:
		return n != 0, true
	case float64:
		return n != 0, true
	}
	return false, false
}

// Stringify renders a runtime value as a string. formatters, when non-nil,
// are consulted first and the first one that claims the value wins.
func Stringify(v any, formatters []func(any) (string, bool)) string {
	for _, f := range formatters {
		if s, ok := f(v); ok {
			return s
		}
	}
	switch n := v.(type) {
	case string:
		return n
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(n)
	case []byte:
		return "0x" + fmt.Sprintf("%x", n)
	default:
		return fmt.Sprintf("%v", n)
	}
}

// ApplyUnary applies a prefix operator to v.
func ApplyUnary(op Op, v any) (any, error) {
	switch op {
	case OpNegate:
		switch n := v.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		}
		return nil, types.NewError(types.ErrTypeMismatch, fmt.Sprintf("cannot negate %s", types.TypeOf(v)), -1)
	case OpNot:
		switch n := v.(type) {
		case bool:
			return !n, nil
		case int64:
			return ^n, nil
		}
		return nil, types.NewError(types.ErrTypeMismatch, fmt.Sprintf("cannot apply not to %s", types.TypeOf(v)), -1)
	}
	return nil, types.NewError(types.ErrTypeMismatch, fmt.Sprintf("unknown unary operator %q", op), -1)
}

// ApplyBinary applies an infix operator to left and right using cmp for
// comparison semantics. A nil cmp means exact comparison with the default
// collator.
func ApplyBinary(op Op, left, right any, cmp *Comparison) (any, error) {
	if IsComparison(op) {
		return compare(op, left, right, cmp)
	}

	switch op {
	case OpAdd:
		return add(left, right, cmp)
	case OpSubtract:
		return arithmetic(op, left, right)
	case OpMultiply:
		return arithmetic(op, left, right)
	case OpDivide:
		return divide(left, right)
	case OpModulo:
		return modulo(left, right)
	case OpPower:
		return power(left, right)
	case OpLeftShift, OpRightShift:
		return shift(op, left, right)
	case OpAnd, OpOr, OpXor:
		return logical(op, left, right)
	}
	return nil, types.NewError(types.ErrTypeMismatch, fmt.Sprintf("unknown operator %q", op), -1)
}

// add handles numeric addition and string concatenation. When either
// operand is a string the other is stringified, so "a" + 1 yields "a1".
func add(left, right any, cmp *Comparison) (any, error) {
	if _, isStr := left.(string); isStr {
		return left.(string) + stringize(right, cmp), nil
	}
	if _, isStr := right.(string); isStr {
		return stringize(left, cmp) + right.(string), nil
	}
	if lb, ok := left.([]byte); ok {
		if rb, ok := right.([]byte); ok {
			out := make([]byte, 0, len(lb)+len(rb))
			out = append(out, lb...)
			return append(out, rb...), nil
		}
	}
	return arithmetic(OpAdd, left, right)
}

// arithmetic handles + - * on numbers, staying in int64 when both operands
// are integral and falling back to float64 on overflow, like power does.
func arithmetic(op Op, left, right any) (any, error) {
	li, lInt := left.(int64)
	ri, rInt := right.(int64)
	if lInt && rInt {
		switch op {
		case OpAdd:
			if r, ok := addInt(li, ri); ok {
				return r, nil
			}
		case OpSubtract:
			if r, ok := subInt(li, ri); ok {
				return r, nil
			}
		case OpMultiply:
			if r, ok := mulInt(li, ri); ok {
				return r, nil
			}
		}
	}
	lf, lok := Number(left)
	rf, rok := Number(right)
	if !lok || !rok {
		return nil, typeError(op, left, right)
	}
	var r float64
	switch op {
	case OpAdd:
		r = lf + rf
	case OpSubtract:
		r = lf - rf
	case OpMultiply:
		r = lf * rf
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, types.NewError(types.ErrNumberOutOfRange, "number out of range", -1)
	}
	return r, nil
}

// divide always produces a float64.
func divide(left, right any) (any, error) {
	lf, lok := Number(left)
	rf, rok := Number(right)
	if !lok || !rok {
		return nil, typeError(OpDivide, left, right)
	}
	if rf == 0 {
		return nil, types.NewError(types.ErrDivisionByZero, "division by zero", -1)
	}
	return lf / rf, nil
}

func modulo(left, right any) (any, error) {
	li, lInt := left.(int64)
	ri, rInt := right.(int64)
	if lInt && rInt {
		if ri == 0 {
			return nil, types.NewError(types.ErrDivisionByZero, "modulo by zero", -1)
		}
		return li % ri, nil
	}
	lf, lok := Number(left)
	rf, rok := Number(right)
	if !lok || !rok {
		return nil, typeError(OpModulo, left, right)
	}
	if rf == 0 {
		return nil, types.NewError(types.ErrDivisionByZero, "modulo by zero", -1)
	}
	return math.Mod(lf, rf), nil
}

// power keeps int64 for integral bases with non-negative integral
// exponents, falling back to float64 on overflow.
func power(left, right any) (any, error) {
	li, lInt := left.(int64)
	ri, rInt := right.(int64)
	if lInt && rInt && ri >= 0 {
		if r, ok := intPow(li, ri); ok {
			return r, nil
		}
	}
	lf, lok := Number(left)
	rf, rok := Number(right)
	if !lok || !rok {
		return nil, typeError(OpPower, left, right)
	}
	r := math.Pow(lf, rf)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, types.NewError(types.ErrNumberOutOfRange, "number out of range", -1)
	}
	return r, nil
}

// addInt computes a+b in int64 arithmetic, reporting overflow.
func addInt(a, b int64) (int64, bool) {
	r := a + b
	if (r > a) == (b > 0) {
		return r, true
	}
	return 0, false
}

// subInt computes a-b in int64 arithmetic, reporting overflow.
func subInt(a, b int64) (int64, bool) {
	r := a - b
	if (r < a) == (b > 0) {
		return r, true
	}
	return 0, false
}

// mulInt computes a*b in int64 arithmetic, reporting overflow.
func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a == math.MinInt64 || b == math.MinInt64 {
		// MinInt64 only survives multiplication by one; dividing by it
		// below would be undefined for the -1 case.
		if a == 1 {
			return b, true
		}
		if b == 1 {
			return a, true
		}
		return 0, false
	}
	r := a * b
	if r/b != a {
		return 0, false
	}
	return r, true
}

// intPow computes base**exp in int64 arithmetic, reporting overflow.
func intPow(base, exp int64) (int64, bool) {
	var result int64 = 1
	for i := int64(0); i < exp; i++ {
		prev := result
		result *= base
		if base != 0 && result/base != prev {
			return 0, false
		}
	}
	return result, true
}

func shift(op Op, left, right any) (any, error) {
	li, lok := Integer(left)
	ri, rok := Integer(right)
	if !lok || !rok || ri < 0 || ri > 63 {
		return nil, typeError(op, left, right)
	}
	if op == OpLeftShift {
		return li << uint64(ri), nil
	}
	return li >> uint64(ri), nil
}

// logical applies and/or/xor: boolean semantics when both operands have a
// truth value and at least one is a bool, bitwise semantics when both are
// integers.
func logical(op Op, left, right any) (any, error) {
	_, lBool := left.(bool)
	_, rBool := right.(bool)
	if lBool || rBool {
		lb, lok := Truthy(left)
		rb, rok := Truthy(right)
		if !lok || !rok {
			return nil, typeError(op, left, right)
		}
		switch op {
		case OpAnd:
			return lb && rb, nil
		case OpOr:
			return lb || rb, nil
		default:
			return lb != rb, nil
		}
	}
	li, lok := Integer(left)
	ri, rok := Integer(right)
	if !lok || !rok {
		return nil, typeError(op, left, right)
	}
	switch op {
	case OpAnd:
		return li & ri, nil
	case OpOr:
		return li | ri, nil
	default:
		return li ^ ri, nil
	}
}

func stringize(v any, cmp *Comparison) string {
	if cmp != nil {
		return Stringify(v, cmp.Formatters)
	}
	return Stringify(v, nil)
}

func typeError(op Op, left, right any) error {
	return types.NewError(types.ErrTypeMismatch,
		fmt.Sprintf("invalid operands for %s: %s and %s", op, types.TypeOf(left), types.TypeOf(right)), -1)
}
