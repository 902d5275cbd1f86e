package types

import "github.com/sandrolain/mathex/pkg/ordmap"

// Parameter describes one named input slot of a compiled expression.
type Parameter struct {
	// Name is the identifier as written in the expression.
	Name string
	// Index is the positional binding slot, assigned in first-seen order.
	Index int
	// Type is the value type the parameter was specialized to, or
	// ValueUnknown before specialization.
	Type ValueType
}

// ParameterRegistry maps parameter names to their binding slots.
//
// The registry is populated during parsing and frozen when interpretation
// completes; compiled expressions share it by reference. Specializing a
// program for an argument-type signature works on a Clone, never on the
// shared registry.
type ParameterRegistry struct {
	m *ordmap.Map[*Parameter]
}

// NewParameterRegistry creates an empty registry.
func NewParameterRegistry() *ParameterRegistry {
	return &ParameterRegistry{m: ordmap.New[*Parameter]()}
}

// Declare returns the parameter registered under name, creating it with the
// next positional index when it is seen for the first time.
func (r *ParameterRegistry) Declare(name string) *Parameter {
	if p, ok := r.m.Get(name); ok {
		return p
	}
	p := &Parameter{
		Name:  name,
		Index: r.m.Len(),
	}
	r.m.Set(name, p)
	return p
}

// Get retrieves a parameter by name.
func (r *ParameterRegistry) Get(name string) (*Parameter, bool) {
	return r.m.Get(name)
}

// At returns the parameter bound to positional slot i.
func (r *ParameterRegistry) At(i int) *Parameter {
	_, p := r.m.At(i)
	return p
}

// Len returns the number of declared parameters.
func (r *ParameterRegistry) Len() int {
	return r.m.Len()
}

// Names returns the parameter names in positional order.
func (r *ParameterRegistry) Names() []string {
	return r.m.Keys()
}

// Clone returns a deep copy with identical names and indices. Parameter
// values are copied so the clone can be re-typed without touching the
// original.
func (r *ParameterRegistry) Clone() *ParameterRegistry {
	out := NewParameterRegistry()
	r.m.Range(func(name string, p *Parameter) bool {
		cp := *p
		out.m.Set(name, &cp)
		return true
	})
	return out
}
