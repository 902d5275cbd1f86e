package ordmap

import (
	"reflect"
	"testing"
)

func TestInsertionOrder(t *testing.T) {
	m := New[int]()
	m.Set("c", 3)
	m.Set("a", 1)
	m.Set("b", 2)

	if got := m.Keys(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("Keys() = %v, want [c a b]", got)
	}

	// Replacing keeps the original position.
	m.Set("c", 30)
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("Keys() after replace = %v", got)
	}
	if v, _ := m.Get("c"); v != 30 {
		t.Errorf("Get(c) = %d, want 30", v)
	}
}

func TestLookup(t *testing.T) {
	m := New[string]()
	m.Set("k", "v")

	if v, ok := m.Get("k"); !ok || v != "v" {
		t.Errorf("Get(k) = %q, %v", v, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) reported a hit")
	}
	if !m.Has("k") || m.Has("missing") {
		t.Error("Has answered wrong")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d", m.Len())
	}

	key, value := m.At(0)
	if key != "k" || value != "v" {
		t.Errorf("At(0) = %q, %q", key, value)
	}
}

func TestRange(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	var visited []string
	m.Range(func(key string, value int) bool {
		visited = append(visited, key)
		return key != "b"
	})
	if !reflect.DeepEqual(visited, []string{"a", "b"}) {
		t.Errorf("Range visited %v, want early stop after b", visited)
	}
}

func TestClone(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)
	m.Set("b", 2)

	clone := m.Clone()
	clone.Set("c", 3)
	clone.Set("a", 10)

	if m.Has("c") {
		t.Error("clone insertion leaked into the original")
	}
	if v, _ := m.Get("a"); v != 1 {
		t.Errorf("original value changed to %d", v)
	}
	if got := clone.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("clone Keys() = %v", got)
	}
}
