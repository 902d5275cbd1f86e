package types

// PrecedenceStyle selects how the logical operators relate to each other in
// the precedence table. The two styles produce different trees for mixed
// and/or/xor expressions, so the choice is an explicit configuration value
// rather than a fixed table.
type PrecedenceStyle uint8

const (
	// StyleMathematical places and, or and xor on a single logical tier,
	// split rightmost-first like any other tier.
	StyleMathematical PrecedenceStyle = iota
	// StyleCLike orders them the way C orders | ^ &: or binds loosest,
	// then xor, then and.
	StyleCLike
)

// String returns the style name.
func (s PrecedenceStyle) String() string {
	if s == StyleCLike {
		return "c-like"
	}
	return "mathematical"
}

// MathDefinition holds the textual symbols of every operator and delimiter
// the engine recognizes.
//
// The definition a caller hands to the service is never mutated: each parse
// works on a Clone whose operator fields are rewritten to internal
// placeholders when symbols collide (one operator's text being a substring
// of another's).
type MathDefinition struct {
	// Arithmetic
	Add      string
	Subtract string
	Multiply string
	Divide   string
	Modulo   string
	Power    string

	// Comparison
	Equal              string
	NotEqual           string
	GreaterThan        string
	GreaterThanOrEqual string
	LessThan           string
	LessThanOrEqual    string

	// Logical / bitwise
	And string
	Or  string
	Xor string
	Not string

	// Shift
	LeftShift  string
	RightShift string

	// Delimiters
	OpenParen          string
	CloseParen         string
	ParameterSeparator string
	StringIndicator    string
	EscapeCharacter    string

	// Style selects the logical-operator precedence layout.
	Style PrecedenceStyle
}

// DefaultMathDefinition returns the standard symbol set.
func DefaultMathDefinition() MathDefinition {
	return MathDefinition{
		Add:      "+",
		Subtract: "-",
		Multiply: "*",
		Divide:   "/",
		Modulo:   "%",
		Power:    "^",

		Equal:              "=",
		NotEqual:           "!=",
		GreaterThan:        ">",
		GreaterThanOrEqual: ">=",
		LessThan:           "<",
		LessThanOrEqual:    "<=",

		And: "&",
		Or:  "|",
		Xor: "#",
		Not: "!",

		LeftShift:  "<<",
		RightShift: ">>",

		OpenParen:          "(",
		CloseParen:         ")",
		ParameterSeparator: ",",
		StringIndicator:    `"`,
		EscapeCharacter:    `\`,

		Style: StyleMathematical,
	}
}

// Clone returns a working copy safe to rewrite during a parse.
func (d MathDefinition) Clone() MathDefinition {
	return d
}

// OperatorSymbols returns pointers to every operator symbol field of d, so a
// parse can rewrite colliding symbols on its working copy and keep the
// table lookups consistent. Delimiters are not included.
func (d *MathDefinition) OperatorSymbols() []*string {
	return []*string{
		&d.Add, &d.Subtract, &d.Multiply, &d.Divide, &d.Modulo, &d.Power,
		&d.Equal, &d.NotEqual,
		&d.GreaterThan, &d.GreaterThanOrEqual,
		&d.LessThan, &d.LessThanOrEqual,
		&d.And, &d.Or, &d.Xor, &d.Not,
		&d.LeftShift, &d.RightShift,
	}
}
