package jolt

import "fmt"

// Signal is the mutable leaf of the graph: a plain value cell whose reads
// record dependency edges and whose writes invalidate dependents.
type Signal[T any] struct {
	sys      *System
	n        node
	value    T
	hasValue bool
	equals   EqualsFunc[T]
}

// SignalOption configures a Signal at construction.
type SignalOption[T any] func(*Signal[T])

// WithEquals replaces the default change detection. Writes for which fn
// reports equality do not propagate.
func WithEquals[T any](fn EqualsFunc[T]) SignalOption[T] {
	return func(s *Signal[T]) { s.equals = fn }
}

// NewSignal creates a signal holding initial.
func NewSignal[T any](sys *System, initial T, opts ...SignalOption[T]) *Signal[T] {
	s := &Signal[T]{sys: sys, value: initial, hasValue: true}
	s.n.ref = s
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewLazySignal creates a signal with no value yet. Reading it before the
// first write panics with ErrUnset.
func NewLazySignal[T any](sys *System, opts ...SignalOption[T]) *Signal[T] {
	s := &Signal[T]{sys: sys}
	s.n.ref = s
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Signal[T]) mustLive() {
	if s.n.disposed() {
		panic(fmt.Errorf("%w: signal", ErrDisposed))
	}
}

// Value returns the current value, recording a dependency edge when a
// consumer is evaluating.
func (s *Signal[T]) Value() T {
	s.mustLive()
	s.sys.checkConfined()
	if !s.hasValue {
		panic(ErrUnset)
	}
	if s.sys.activeSub != nil {
		s.sys.connect(&s.n, s.sys.activeSub)
	}
	return s.value
}

// Peek returns the current value without recording a dependency.
func (s *Signal[T]) Peek() T {
	s.mustLive()
	if !s.hasValue {
		panic(ErrUnset)
	}
	return s.value
}

// SetValue stores v. Dependents are only notified when the value actually
// changed according to the signal's equality function.
func (s *Signal[T]) SetValue(v T) {
	s.mustLive()
	s.sys.checkConfined()
	if s.hasValue && s.equal(s.value, v) {
		s.value = v
		return
	}
	s.value = v
	s.hasValue = true
	s.Notify()
}

// Update rewrites the value through fn, with the same change detection as
// SetValue.
func (s *Signal[T]) Update(fn func(T) T) {
	s.SetValue(fn(s.Peek()))
}

// Notify invalidates dependents without touching the value. Call it after
// mutating the value's interior state out of band.
func (s *Signal[T]) Notify() {
	s.mustLive()
	if s.n.subs != nil {
		s.sys.propagate(s.n.subs)
		s.sys.afterWrite()
	}
}

// Dispose permanently retires the signal. Further reads and writes panic;
// calling Dispose again is a no-op.
func (s *Signal[T]) Dispose() {
	if s.n.disposed() {
		return
	}
	s.n.flags |= flagDisposed
	s.n.subs, s.n.subsTail = nil, nil
}

// IsDisposed reports whether Dispose has been called.
func (s *Signal[T]) IsDisposed() bool {
	return s.n.disposed()
}

func (s *Signal[T]) equal(a, b T) bool {
	if s.equals != nil {
		return s.equals(a, b)
	}
	return defaultEquals(a, b)
}
