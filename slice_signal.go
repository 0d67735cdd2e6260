package jolt

import "iter"

// SliceSignal wraps a mutable slice as a single notify channel: every
// mutator changes the slice in place and notifies unconditionally, since the
// container identity never changes. Readers depend on the container as a
// whole; there is no per-element granularity.
type SliceSignal[T any] struct {
	*Signal[[]T]
}

// NewSliceSignal creates a slice signal. A nil initial slice becomes empty.
func NewSliceSignal[T any](sys *System, initial []T) *SliceSignal[T] {
	if initial == nil {
		initial = []T{}
	}
	return &SliceSignal[T]{NewSignal(sys, initial, WithEquals[[]T](Never[[]T]))}
}

// Append adds values to the end.
func (s *SliceSignal[T]) Append(values ...T) {
	s.mustLive()
	s.value = append(s.value, values...)
	s.Notify()
}

// Insert places v at index i, shifting later elements right.
func (s *SliceSignal[T]) Insert(i int, v T) {
	s.mustLive()
	s.value = append(s.value, v)
	copy(s.value[i+1:], s.value[i:])
	s.value[i] = v
	s.Notify()
}

// RemoveAt deletes and returns the element at index i.
func (s *SliceSignal[T]) RemoveAt(i int) T {
	s.mustLive()
	v := s.value[i]
	s.value = append(s.value[:i], s.value[i+1:]...)
	s.Notify()
	return v
}

// Set replaces the element at index i.
func (s *SliceSignal[T]) Set(i int, v T) {
	s.mustLive()
	s.value[i] = v
	s.Notify()
}

// Clear empties the slice.
func (s *SliceSignal[T]) Clear() {
	s.mustLive()
	s.value = s.value[:0]
	s.Notify()
}

// At returns the element at index i, tracking the container.
func (s *SliceSignal[T]) At(i int) T {
	return s.Value()[i]
}

// Len returns the length, tracking the container.
func (s *SliceSignal[T]) Len() int {
	return len(s.Value())
}

// Iter ranges over the elements, tracking the container once.
func (s *SliceSignal[T]) Iter() iter.Seq2[int, T] {
	values := s.Value()
	return func(yield func(int, T) bool) {
		for i, v := range values {
			if !yield(i, v) {
				return
			}
		}
	}
}
