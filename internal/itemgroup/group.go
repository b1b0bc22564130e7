// SPDX-License-Identifier: EPL-2.0

// Package itemgroup provides a two-level map: outer keys each hold an
// insertion-ordered map of inner keys to values.
//
// Every outer key has its own lock, so callers working on different keys do
// not block each other. The outer lock is only held to find or create a key.
package itemgroup

import (
	"cmp"
	"slices"
	"sync"
)

type shard[IK comparable, V any] struct {
	mtx     sync.RWMutex
	entries *Map[IK, V]

	// set by Clear once the shard is no longer reachable from the group
	detached bool
}

// set stores value unless the shard was detached, in which case ok is false
// and the caller must look the key up again.
func (s *shard[IK, V]) set(innerKey IK, value V) (old V, replaced, ok bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.detached {
		return old, false, false
	}
	old, replaced = s.entries.Set(innerKey, value)
	return old, replaced, true
}

// Group is safe for concurrent use.
type Group[K cmp.Ordered, IK comparable, V any] struct {
	mtx    sync.RWMutex
	shards map[K]*shard[IK, V]
}

func New[K cmp.Ordered, IK comparable, V any]() *Group[K, IK, V] {
	return &Group[K, IK, V]{shards: make(map[K]*shard[IK, V])}
}

func (g *Group[K, IK, V]) lookup(key K) *shard[IK, V] {
	g.mtx.RLock()
	defer g.mtx.RUnlock()

	return g.shards[key]
}

func (g *Group[K, IK, V]) lookupOrCreate(key K) *shard[IK, V] {
	if s := g.lookup(key); s != nil {
		return s
	}

	g.mtx.Lock()
	defer g.mtx.Unlock()

	s, ok := g.shards[key]
	if !ok {
		s = &shard[IK, V]{entries: newMap[IK, V]()}
		g.shards[key] = s
	}
	return s
}

// sorted returns the outer keys in ascending order with their shards.
func (g *Group[K, IK, V]) sorted() ([]K, []*shard[IK, V]) {
	g.mtx.RLock()
	defer g.mtx.RUnlock()

	keys := make([]K, 0, len(g.shards))
	for k := range g.shards {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	shards := make([]*shard[IK, V], len(keys))
	for i, k := range keys {
		shards[i] = g.shards[k]
	}
	return keys, shards
}

// Insert stores value at (key, innerKey), creating key if needed. When the
// slot was taken it returns the previous value and true.
func (g *Group[K, IK, V]) Insert(key K, innerKey IK, value V) (V, bool) {
	for {
		// A concurrent Clear can detach the shard between lookup and lock
		if old, replaced, ok := g.lookupOrCreate(key).set(innerKey, value); ok {
			return old, replaced
		}
	}
}

// Remove deletes (key, innerKey). Absent keys are not an error.
func (g *Group[K, IK, V]) Remove(key K, innerKey IK) (V, bool) {
	s := g.lookup(key)
	if s == nil {
		var zero V
		return zero, false
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.entries.Delete(innerKey)
}

func (g *Group[K, IK, V]) Lookup(key K, innerKey IK) (V, bool) {
	s := g.lookup(key)
	if s == nil {
		var zero V
		return zero, false
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.entries.Get(innerKey)
}

// Get returns a copy of key's entries in insertion order.
func (g *Group[K, IK, V]) Get(key K) ([]Entry[IK, V], bool) {
	s := g.lookup(key)
	if s == nil {
		return nil, false
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.entries.Entries(), true
}

// Edit runs fn with key's map under its write lock. It reports false when
// key does not exist.
func (g *Group[K, IK, V]) Edit(key K, fn func(m *Map[IK, V])) bool {
	s := g.lookup(key)
	if s == nil {
		return false
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.detached {
		return false
	}
	fn(s.entries)
	return true
}

// Range calls fn for every outer key in ascending order with a copy of its
// entries, until fn returns false. fn runs without any lock held.
func (g *Group[K, IK, V]) Range(fn func(key K, entries []Entry[IK, V]) bool) {
	keys, shards := g.sorted()
	for i, s := range shards {
		s.mtx.RLock()
		entries := s.entries.Entries()
		s.mtx.RUnlock()

		if !fn(keys[i], entries) {
			return
		}
	}
}

// RangeEdit is Range with write access. Each key's lock is held only while
// fn runs for it.
func (g *Group[K, IK, V]) RangeEdit(fn func(key K, m *Map[IK, V]) bool) {
	keys, shards := g.sorted()
	for i, s := range shards {
		s.mtx.Lock()
		more := fn(keys[i], s.entries)
		s.mtx.Unlock()

		if !more {
			return
		}
	}
}

// Clear removes everything and returns the removed values.
func (g *Group[K, IK, V]) Clear() []V {
	g.mtx.Lock()
	shards := g.shards
	g.shards = make(map[K]*shard[IK, V])
	g.mtx.Unlock()

	var out []V
	for _, s := range shards {
		s.mtx.Lock()
		s.detached = true
		out = append(out, s.entries.drain()...)
		s.mtx.Unlock()
	}
	return out
}

// KeyLen counts outer keys, including ones whose entries were all removed.
func (g *Group[K, IK, V]) KeyLen() int {
	g.mtx.RLock()
	defer g.mtx.RUnlock()

	return len(g.shards)
}

// ValueLen counts values across all keys.
func (g *Group[K, IK, V]) ValueLen() int {
	_, shards := g.sorted()

	n := 0
	for _, s := range shards {
		s.mtx.RLock()
		n += s.entries.Len()
		s.mtx.RUnlock()
	}
	return n
}
