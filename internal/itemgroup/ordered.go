// SPDX-License-Identifier: EPL-2.0

package itemgroup

import "slices"

// Entry is one inner key and its value.
type Entry[IK comparable, V any] struct {
	Key   IK
	Value V
}

// Map is an insertion-ordered map. Setting an existing key keeps its slot;
// deleting a key keeps the order of the rest.
type Map[IK comparable, V any] struct {
	keys   []IK
	values map[IK]V
}

func newMap[IK comparable, V any]() *Map[IK, V] {
	return &Map[IK, V]{values: make(map[IK]V)}
}

func (m *Map[IK, V]) Len() int { return len(m.keys) }

func (m *Map[IK, V]) Get(key IK) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key and returns the value it replaced, if any.
func (m *Map[IK, V]) Set(key IK, value V) (V, bool) {
	old, ok := m.values[key]
	if !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return old, ok
}

func (m *Map[IK, V]) Delete(key IK) (V, bool) {
	v, ok := m.values[key]
	if !ok {
		return v, false
	}
	delete(m.values, key)
	if i := slices.Index(m.keys, key); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
	return v, true
}

// Range calls fn in insertion order until it returns false.
func (m *Map[IK, V]) Range(fn func(key IK, value V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Entries copies the map in insertion order.
func (m *Map[IK, V]) Entries() []Entry[IK, V] {
	out := make([]Entry[IK, V], 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, Entry[IK, V]{Key: k, Value: m.values[k]})
	}
	return out
}

func (m *Map[IK, V]) drain() []V {
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	m.keys = nil
	clear(m.values)
	return out
}
