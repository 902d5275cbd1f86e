package types

import (
	"math"
	"strconv"
	"strings"
)

// Tolerance relaxes numeric comparisons by an explicit margin. Exactly one
// mode applies per comparison; the modes are checked in a fixed order and
// the first populated one wins:
//
//  1. IntegerRange — absolute integer delta
//  2. FloatRange — absolute floating-point delta
//  3. Proportional — ratio greater than 1, a multiplicative band
//  4. Percentage — ratio in (0, 1), a fractional band
//
// When a tolerant comparison is requested for operand types that have no
// tolerant overload (strings, booleans, bytes), the comparison silently
// falls back to exact semantics.
type Tolerance struct {
	IntegerRange *int64
	FloatRange   *float64
	Proportional *float64
	Percentage   *float64
}

// Epsilon returns the absolute comparison margin around reference, applying
// the first populated mode. A nil or empty tolerance yields 0.
func (t *Tolerance) Epsilon(reference float64) float64 {
	if t == nil {
		return 0
	}
	switch {
	case t.IntegerRange != nil:
		return math.Abs(float64(*t.IntegerRange))
	case t.FloatRange != nil:
		return math.Abs(*t.FloatRange)
	case t.Proportional != nil && *t.Proportional > 1:
		return math.Abs(reference) * (*t.Proportional - 1)
	case t.Percentage != nil && *t.Percentage > 0 && *t.Percentage < 1:
		return math.Abs(reference) * *t.Percentage
	}
	return 0
}

// IsZero reports whether no mode is populated.
func (t *Tolerance) IsZero() bool {
	return t == nil ||
		(t.IntegerRange == nil && t.FloatRange == nil &&
			t.Proportional == nil && t.Percentage == nil)
}

// Key returns a stable cache-key fragment describing the tolerance, used to
// keep tolerant and exact compiled programs apart in the program cache.
func (t *Tolerance) Key() string {
	if t.IsZero() {
		return ""
	}
	var sb strings.Builder
	if t.IntegerRange != nil {
		sb.WriteString("i")
		sb.WriteString(strconv.FormatInt(*t.IntegerRange, 10))
	}
	if t.FloatRange != nil {
		sb.WriteString("f")
		sb.WriteString(strconv.FormatFloat(*t.FloatRange, 'g', -1, 64))
	}
	if t.Proportional != nil {
		sb.WriteString("r")
		sb.WriteString(strconv.FormatFloat(*t.Proportional, 'g', -1, 64))
	}
	if t.Percentage != nil {
		sb.WriteString("p")
		sb.WriteString(strconv.FormatFloat(*t.Percentage, 'g', -1, 64))
	}
	return sb.String()
}
