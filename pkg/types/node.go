// Package types defines the core type system for mathex.
//
// This package contains type definitions for:
//   - Node: the closed AST node variant set
//   - ValueType: runtime value classification
//   - MathDefinition: configurable operator symbols and precedence style
//   - ParameterRegistry: positional parameter slots
//   - Tolerance: relaxed numeric comparison bands
//   - Error types: structured errors with codes
package types

// NodeKind discriminates the closed set of AST node variants. Every consumer
// of a node tree (folder, code generator, cloner) switches exhaustively on
// the kind; there is no open subclassing.
type NodeKind string

const (
	// KindConstant is a literal value (numeric, string, boolean or bytes).
	KindConstant NodeKind = "constant"
	// KindParameter is a reference to a named input slot.
	KindParameter NodeKind = "parameter"
	// KindUnary is a prefix operation (negate, not).
	KindUnary NodeKind = "unary"
	// KindBinary is an infix operation identified by its operator.
	KindBinary NodeKind = "binary"
	// KindTernary is the conditional: operands are condition, consequent,
	// alternative.
	KindTernary NodeKind = "ternary"
	// KindFunctionCall is a call to a registered function, resolved by
	// lower-cased name and arity.
	KindFunctionCall NodeKind = "function"
)

// Node is one vertex of an expression tree.
//
// Nodes are constructed bottom-up during parsing, offered constant folding
// immediately, and frozen afterwards: no per-call mutable state lives on a
// node, which is what makes a compiled expression safe for concurrent
// Compute calls. Specialization for a new argument-type signature clones the
// tree instead of mutating it.
type Node struct {
	Kind NodeKind
	// Type is the value type the node is known to produce, or ValueUnknown
	// when it depends on runtime operand types.
	Type ValueType

	// Value holds the payload of a KindConstant node: int64, float64,
	// string, bool or []byte.
	Value any
	// Text is the original literal text of a constant, kept for diagnostics
	// and reverse lookup.
	Text string

	// Name is the parameter name (KindParameter), the operator identity
	// (KindUnary/KindBinary) or the lower-cased function name
	// (KindFunctionCall).
	Name string
	// Index is the positional slot of a KindParameter node.
	Index int

	// Operands are the child nodes, in evaluation order.
	Operands []*Node
}

// NewConstant creates a constant node. value must already be normalized to
// one of the engine's canonical runtime representations.
func NewConstant(value any, text string) *Node {
	return &Node{
		Kind:  KindConstant,
		Type:  TypeOf(value),
		Value: value,
		Text:  text,
	}
}

// NewParameter creates a parameter reference node for p.
func NewParameter(p *Parameter) *Node {
	return &Node{
		Kind:  KindParameter,
		Type:  p.Type,
		Name:  p.Name,
		Index: p.Index,
	}
}

// IsConstant reports whether the node is a folded literal.
func (n *Node) IsConstant() bool {
	return n != nil && n.Kind == KindConstant
}

// CloneContext threads registry remapping through a DeepClone so the cloned
// tree can be bound and specialized independently of the original.
type CloneContext struct {
	// Params is the registry the cloned tree will resolve parameters
	// against. Parameter nodes pick up the slot index and declared type of
	// the same name in this registry.
	Params *ParameterRegistry
}

// DeepClone returns a structural copy of the tree rooted at n. Parameter
// nodes are rebound through ctx.Params; constant payloads are shared (they
// are immutable), byte slices excepted.
func (n *Node) DeepClone(ctx *CloneContext) *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Kind:  n.Kind,
		Type:  n.Type,
		Value: n.Value,
		Text:  n.Text,
		Name:  n.Name,
		Index: n.Index,
	}
	if b, ok := n.Value.([]byte); ok {
		cp := make([]byte, len(b))
		copy(cp, b)
		out.Value = cp
	}
	if n.Kind == KindParameter && ctx != nil && ctx.Params != nil {
		p := ctx.Params.Declare(n.Name)
		out.Index = p.Index
		out.Type = p.Type
	}
	if len(n.Operands) > 0 {
		out.Operands = make([]*Node, len(n.Operands))
		for i, op := range n.Operands {
			out.Operands[i] = op.DeepClone(ctx)
		}
	}
	return out
}

// String returns the node kind name.
func (n *Node) String() string {
	return string(n.Kind)
}
