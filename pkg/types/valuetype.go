package types

// ValueType classifies the value a node produces. It drives operand
// reconciliation when a binary operation receives mixed operand types.
type ValueType uint8

const (
	ValueUnknown ValueType = iota
	ValueNumeric
	ValueBoolean
	ValueString
	ValueBytes
)

// String returns a human-readable type name.
func (vt ValueType) String() string {
	switch vt {
	case ValueNumeric:
		return "numeric"
	case ValueBoolean:
		return "boolean"
	case ValueString:
		return "string"
	case ValueBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// TypeOf classifies a runtime value produced by the engine.
// Engine values are normalized to int64, float64, string, bool or []byte.
func TypeOf(v any) ValueType {
	switch v.(type) {
	case int64, float64, int, int8, int16, int32, uint, uint8, uint16, uint32, uint64, float32:
		return ValueNumeric
	case bool:
		return ValueBoolean
	case string:
		return ValueString
	case []byte:
		return ValueBytes
	default:
		return ValueUnknown
	}
}

// Normalize converts an arbitrary caller-supplied value into one of the
// engine's canonical runtime representations (int64, float64, string, bool,
// []byte). Unsupported values are returned unchanged; the evaluator rejects
// them when binding.
func Normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}
