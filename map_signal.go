package jolt

import "iter"

// MapSignal wraps a mutable map as a single notify channel. Mutators change
// the map in place and notify unconditionally; readers depend on the whole
// container.
type MapSignal[K comparable, V any] struct {
	*Signal[map[K]V]
}

// NewMapSignal creates a map signal. A nil initial map becomes empty.
func NewMapSignal[K comparable, V any](sys *System, initial map[K]V) *MapSignal[K, V] {
	if initial == nil {
		initial = map[K]V{}
	}
	return &MapSignal[K, V]{NewSignal(sys, initial, WithEquals[map[K]V](Never[map[K]V]))}
}

// SetKey stores value under key.
func (s *MapSignal[K, V]) SetKey(key K, value V) {
	s.mustLive()
	s.value[key] = value
	s.Notify()
}

// UpdateKey rewrites the value under key through fn. Missing keys are left
// alone and nothing notifies.
func (s *MapSignal[K, V]) UpdateKey(key K, fn func(V) V) {
	s.mustLive()
	v, ok := s.value[key]
	if !ok {
		return
	}
	s.value[key] = fn(v)
	s.Notify()
}

// Delete removes key. Deleting an absent key still notifies; callers that
// care should check Has first.
func (s *MapSignal[K, V]) Delete(key K) {
	s.mustLive()
	delete(s.value, key)
	s.Notify()
}

// Clear removes every entry.
func (s *MapSignal[K, V]) Clear() {
	s.mustLive()
	clear(s.value)
	s.Notify()
}

// GetKey returns the value under key, tracking the container.
func (s *MapSignal[K, V]) GetKey(key K) (V, bool) {
	v, ok := s.Value()[key]
	return v, ok
}

// Has reports whether key exists, tracking the container.
func (s *MapSignal[K, V]) Has(key K) bool {
	_, ok := s.GetKey(key)
	return ok
}

// Len returns the entry count, tracking the container.
func (s *MapSignal[K, V]) Len() int {
	return len(s.Value())
}

// Keys returns the keys in map order, tracking the container.
func (s *MapSignal[K, V]) Keys() []K {
	m := s.Value()
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// Iter ranges over the entries, tracking the container once.
func (s *MapSignal[K, V]) Iter() iter.Seq2[K, V] {
	m := s.Value()
	return func(yield func(K, V) bool) {
		for k, v := range m {
			if !yield(k, v) {
				return
			}
		}
	}
}
