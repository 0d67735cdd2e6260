package jolt

import (
	"iter"

	mapset "github.com/deckarep/golang-set/v2"
)

// SetSignal wraps a mutable set as a single notify channel. Mutators change
// the set in place and notify unconditionally; readers depend on the whole
// container.
type SetSignal[T comparable] struct {
	*Signal[mapset.Set[T]]
}

// NewSetSignal creates a set signal holding the given initial members.
func NewSetSignal[T comparable](sys *System, initial ...T) *SetSignal[T] {
	return &SetSignal[T]{
		NewSignal(sys, mapset.NewThreadUnsafeSet(initial...), WithEquals[mapset.Set[T]](Never[mapset.Set[T]])),
	}
}

// Add inserts v and reports whether it was absent. Insertion of an existing
// member still notifies: interior state may have been rebuilt by the caller.
func (s *SetSignal[T]) Add(v T) bool {
	s.mustLive()
	added := s.value.Add(v)
	s.Notify()
	return added
}

// Remove deletes v.
func (s *SetSignal[T]) Remove(v T) {
	s.mustLive()
	s.value.Remove(v)
	s.Notify()
}

// Clear removes every member.
func (s *SetSignal[T]) Clear() {
	s.mustLive()
	s.value.Clear()
	s.Notify()
}

// Contains reports membership, tracking the container.
func (s *SetSignal[T]) Contains(v T) bool {
	return s.Value().Contains(v)
}

// Len returns the cardinality, tracking the container.
func (s *SetSignal[T]) Len() int {
	return s.Value().Cardinality()
}

// ToSlice returns the members in set order, tracking the container.
func (s *SetSignal[T]) ToSlice() []T {
	return s.Value().ToSlice()
}

// Iter ranges over the members, tracking the container once.
func (s *SetSignal[T]) Iter() iter.Seq[T] {
	members := s.Value().ToSlice()
	return func(yield func(T) bool) {
		for _, v := range members {
			if !yield(v) {
				return
			}
		}
	}
}
