package operators

import (
	"bytes"
	"fmt"
	"math"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sandrolain/mathex/pkg/types"
)

// Comparison carries the comparison-time services of one compiled program:
// the tolerance specification, the collator used for culture-aware string
// comparison, and the registered string formatters consulted by string
// coercion.
type Comparison struct {
	Tolerance  *types.Tolerance
	Collator   *collate.Collator
	Formatters []func(any) (string, bool)
}

// defaultCollator is used when no comparison context is supplied, e.g. for
// constant folding during parsing.
var defaultCollator = collate.New(language.Und)

// Exact is the zero comparison context: no tolerance, undetermined-locale
// collation, no formatters.
var Exact = &Comparison{}

func (c *Comparison) collator() *collate.Collator {
	if c != nil && c.Collator != nil {
		return c.Collator
	}
	return defaultCollator
}

func (c *Comparison) tolerance() *types.Tolerance {
	if c == nil {
		return nil
	}
	return c.Tolerance
}

// compare applies a comparison operator to reconciled operands.
//
// Reconciliation rules, in order:
//   - two numbers compare numerically, honoring the tolerance;
//   - a boolean against anything with a truth value compares as logical
//     equivalence (equality operators only);
//   - a string against anything stringifiable compares under the collator;
//   - two byte arrays compare as most-significant-byte-first sequences.
//
// Tolerant comparison applies to numeric operands only; any other operand
// pairing silently falls back to exact semantics.
func compare(op Op, left, right any, cmp *Comparison) (any, error) {
	lf, lNum := Number(left)
	rf, rNum := Number(right)
	if lNum && rNum {
		return compareNumeric(op, lf, rf, cmp.tolerance()), nil
	}

	_, lBool := left.(bool)
	_, rBool := right.(bool)
	if lBool || rBool {
		lb, lok := Truthy(left)
		rb, rok := Truthy(right)
		if !lok || !rok {
			return nil, comparisonError(op, left, right)
		}
		switch op {
		case OpEqual:
			return lb == rb, nil
		case OpNotEqual:
			return lb != rb, nil
		}
		return nil, comparisonError(op, left, right)
	}

	_, lStr := left.(string)
	_, rStr := right.(string)
	if lStr || rStr {
		ls := stringize(left, cmp)
		rs := stringize(right, cmp)
		return compareOrder(op, cmp.collator().CompareString(ls, rs)), nil
	}

	lb, lBytes := left.([]byte)
	rb, rBytes := right.([]byte)
	if lBytes && rBytes {
		return compareOrder(op, bytes.Compare(lb, rb)), nil
	}

	return nil, comparisonError(op, left, right)
}

// compareNumeric compares two floats within the tolerance's margin. The
// right operand serves as the band reference for the proportional and
// percentage modes.
func compareNumeric(op Op, left, right float64, tol *types.Tolerance) bool {
	eps := tol.Epsilon(right)
	switch op {
	case OpEqual:
		return math.Abs(left-right) <= eps
	case OpNotEqual:
		return math.Abs(left-right) > eps
	case OpGreaterThan:
		return left > right-eps
	case OpGreaterThanOrEqual:
		return left >= right-eps
	case OpLessThan:
		return left < right+eps
	case OpLessThanOrEqual:
		return left <= right+eps
	}
	return false
}

// compareOrder maps a three-way comparison result to the operator outcome.
func compareOrder(op Op, order int) bool {
	switch op {
	case OpEqual:
		return order == 0
	case OpNotEqual:
		return order != 0
	case OpGreaterThan:
		return order > 0
	case OpGreaterThanOrEqual:
		return order >= 0
	case OpLessThan:
		return order < 0
	case OpLessThanOrEqual:
		return order <= 0
	}
	return false
}

func comparisonError(op Op, left, right any) error {
	return types.NewError(types.ErrTypeMismatch,
		fmt.Sprintf("cannot compare %s and %s with %s", types.TypeOf(left), types.TypeOf(right), op), -1)
}
