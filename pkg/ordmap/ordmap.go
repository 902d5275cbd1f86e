// Package ordmap provides a generic map that preserves insertion order.
//
// The parameter registry of a compiled expression is backed by an ordered
// map: the first-seen order of parameter names defines their positional
// binding slots, so plain Go maps (randomized iteration) cannot be used.
package ordmap

// Map is a string-keyed map that remembers the order in which keys were
// first inserted. The zero value is not usable; use New.
//
// Map is not safe for concurrent mutation. The engine only mutates it while
// building a parse, after which it is read-only.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// New creates an empty ordered map.
func New[V any]() *Map[V] {
	return &Map[V]{
		values: make(map[string]V),
	}
}

// Set inserts or replaces the value for key. A new key is appended to the
// iteration order; replacing an existing key keeps its original position.
func (m *Map[V]) Set(key string, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get retrieves the value for key.
func (m *Map[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (m *Map[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// At returns the key and value at insertion position i.
func (m *Map[V]) At(i int) (string, V) {
	key := m.keys[i]
	return key, m.values[key]
}

// Range calls f for each entry in insertion order until f returns false.
func (m *Map[V]) Range(f func(key string, value V) bool) {
	for _, key := range m.keys {
		if !f(key, m.values[key]) {
			return
		}
	}
}

// Clone returns a shallow copy preserving insertion order.
func (m *Map[V]) Clone() *Map[V] {
	out := &Map[V]{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]V, len(m.values)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}
