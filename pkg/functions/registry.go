// Package functions provides the function registry for mathex.
//
// Functions are registered explicitly with a name, parameter names (the
// parameter count is the arity) and an implementation; there is no runtime
// reflection or assembly scanning. The same name may be registered at
// several arities, and calls resolve by lower-cased name plus argument
// count.
//
// # Example
//
//	reg.Register(functions.Definition{
//	    Name:          "clamp",
//	    Params:        []string{"value", "low", "high"},
//	    Deterministic: true,
//	    Fn: func(args ...any) (any, error) { ... },
//	})
package functions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sandrolain/mathex/pkg/types"
)

// Func is the implementation signature of a registered function. args holds
// the evaluated arguments in call order, already normalized to the engine's
// canonical runtime representations.
type Func func(args ...any) (any, error)

// Definition describes one registered function at one arity.
type Definition struct {
	// Name is the call name, matched case-insensitively.
	Name string
	// Params are the declared parameter names; len(Params) is the arity.
	// Arities above three are rejected: the engine models nonary through
	// ternary functions only.
	Params []string
	// Deterministic marks functions safe to fold at parse time when all
	// arguments are constants.
	Deterministic bool
	// Fn is the implementation.
	Fn Func
}

// Arity returns the declared argument count.
func (d *Definition) Arity() int {
	return len(d.Params)
}

// Prototype renders a human-readable call signature: name(), name(param),
// name(left, right), name(left, middle, right).
func (d *Definition) Prototype() string {
	return fmt.Sprintf("%s(%s)", strings.ToLower(d.Name), strings.Join(d.Params, ", "))
}

// Registry maps function names to their per-arity definitions.
//
// A Registry is populated once at service initialization and read-only
// afterwards, which makes lookups safe for concurrent parses.
type Registry struct {
	byName map[string]map[int]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]map[int]*Definition)}
}

// Register adds def to the registry. Registering a duplicate name+arity or
// an arity above three fails.
func (r *Registry) Register(def Definition) error {
	name := strings.ToLower(strings.TrimSpace(def.Name))
	if name == "" {
		return types.NewError(types.ErrNilArgument, "function name must not be empty", -1)
	}
	if def.Fn == nil {
		return types.NewError(types.ErrNilArgument, "function implementation must not be nil", -1)
	}
	if len(def.Params) > 3 {
		return types.NewError(types.ErrArityMismatch,
			fmt.Sprintf("function %q declares %d parameters, at most 3 are supported", name, len(def.Params)), -1)
	}
	arities, ok := r.byName[name]
	if !ok {
		arities = make(map[int]*Definition)
		r.byName[name] = arities
	}
	if _, exists := arities[def.Arity()]; exists {
		return types.NewError(types.ErrDuplicateFunction,
			fmt.Sprintf("function %q with %d parameters is already registered", name, def.Arity()), -1)
	}
	stored := def
	stored.Name = name
	arities[def.Arity()] = &stored
	return nil
}

// Lookup resolves a function by lower-cased name and call arity.
func (r *Registry) Lookup(name string, arity int) (*Definition, bool) {
	arities, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	def, ok := arities[arity]
	return def, ok
}

// Known reports whether any arity is registered under name.
func (r *Registry) Known(name string) bool {
	_, ok := r.byName[strings.ToLower(name)]
	return ok
}

// Prototypes returns the human-readable call signatures of every registered
// function, sorted by name then arity.
func (r *Registry) Prototypes() []string {
	out := make([]string, 0, len(r.byName))
	for _, arities := range r.byName {
		for _, def := range arities {
			out = append(out, def.Prototype())
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns a copy sharing the immutable definitions, so a service can
// layer user registrations on top of the builtin catalog without mutating
// it.
func (r *Registry) Clone() *Registry {
	out := NewRegistry()
	for name, arities := range r.byName {
		cp := make(map[int]*Definition, len(arities))
		for arity, def := range arities {
			cp[arity] = def
		}
		out.byName[name] = cp
	}
	return out
}
