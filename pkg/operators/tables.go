// Package operators defines the operator identities, their precedence
// tiers, and the value kernel that applies them to runtime operands.
//
// Precedence is organized in numbered tiers. The generator splits the
// expression on the lowest tier present first, so low tier numbers bind
// loosest and are evaluated last:
//
//	10  comparison and equality
//	20  logical and/or/xor (22/24 used by the C-like style)
//	30  additive
//	40  multiplicative
//	50  exponentiation
//	60  bit shift
package operators

import "github.com/sandrolain/mathex/pkg/types"

// Op identifies an operator independently of the textual symbol the active
// MathDefinition assigns to it.
type Op string

const (
	OpAdd      Op = "add"
	OpSubtract Op = "subtract"
	OpMultiply Op = "multiply"
	OpDivide   Op = "divide"
	OpModulo   Op = "modulo"
	OpPower    Op = "power"

	OpEqual              Op = "equal"
	OpNotEqual           Op = "notEqual"
	OpGreaterThan        Op = "greaterThan"
	OpGreaterThanOrEqual Op = "greaterThanOrEqual"
	OpLessThan           Op = "lessThan"
	OpLessThanOrEqual    Op = "lessThanOrEqual"

	OpAnd Op = "and"
	OpOr  Op = "or"
	OpXor Op = "xor"

	OpLeftShift  Op = "leftShift"
	OpRightShift Op = "rightShift"

	// Unary
	OpNegate Op = "negate"
	OpNot    Op = "not"
)

// Precedence tier numbers. Lower tiers are split first during top-down
// descent and therefore evaluated last.
const (
	TierComparison     = 10
	TierLogical        = 20
	TierLogicalXor     = 22 // C-like style only
	TierLogicalAnd     = 24 // C-like style only
	TierAdditive       = 30
	TierMultiplicative = 40
	TierPower          = 50
	TierShift          = 60
)

// LeveledBinary builds the tier table for def, mapping each tier to the
// operator symbols (as currently spelled in def, placeholders included once
// a parse has rewritten them) it contains. The logical tier layout depends
// on def.Style.
func LeveledBinary(def *types.MathDefinition) map[int]map[string]Op {
	table := map[int]map[string]Op{
		TierComparison: {
			def.Equal:              OpEqual,
			def.NotEqual:           OpNotEqual,
			def.GreaterThan:        OpGreaterThan,
			def.GreaterThanOrEqual: OpGreaterThanOrEqual,
			def.LessThan:           OpLessThan,
			def.LessThanOrEqual:    OpLessThanOrEqual,
		},
		TierAdditive: {
			def.Add:      OpAdd,
			def.Subtract: OpSubtract,
		},
		TierMultiplicative: {
			def.Multiply: OpMultiply,
			def.Divide:   OpDivide,
			def.Modulo:   OpModulo,
		},
		TierPower: {
			def.Power: OpPower,
		},
		TierShift: {
			def.LeftShift:  OpLeftShift,
			def.RightShift: OpRightShift,
		},
	}
	if def.Style == types.StyleCLike {
		table[TierLogical] = map[string]Op{def.Or: OpOr}
		table[TierLogicalXor] = map[string]Op{def.Xor: OpXor}
		table[TierLogicalAnd] = map[string]Op{def.And: OpAnd}
	} else {
		table[TierLogical] = map[string]Op{
			def.And: OpAnd,
			def.Or:  OpOr,
			def.Xor: OpXor,
		}
	}
	return table
}

// Unary returns the prefix operator symbols of def.
func Unary(def *types.MathDefinition) map[string]Op {
	return map[string]Op{
		def.Subtract: OpNegate,
		def.Not:      OpNot,
	}
}

// IsComparison reports whether op is an ordering or equality operator, the
// ones that honor tolerance specifications.
func IsComparison(op Op) bool {
	switch op {
	case OpEqual, OpNotEqual, OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual:
		return true
	}
	return false
}

// ResultType reports the value type op produces for the given operand
// types, or ValueUnknown when it depends on runtime values.
func ResultType(op Op, left, right types.ValueType) types.ValueType {
	switch {
	case IsComparison(op):
		return types.ValueBoolean
	case op == OpAdd:
		if left == types.ValueString || right == types.ValueString {
			return types.ValueString
		}
		if left == types.ValueNumeric && right == types.ValueNumeric {
			return types.ValueNumeric
		}
		return types.ValueUnknown
	case op == OpSubtract, op == OpMultiply, op == OpDivide, op == OpModulo,
		op == OpPower, op == OpLeftShift, op == OpRightShift:
		return types.ValueNumeric
	case op == OpAnd, op == OpOr, op == OpXor:
		if left == types.ValueBoolean && right == types.ValueBoolean {
			return types.ValueBoolean
		}
		if left == types.ValueNumeric && right == types.ValueNumeric {
			return types.ValueNumeric
		}
		return types.ValueUnknown
	}
	return types.ValueUnknown
}
