package jolt

import "fmt"

// WritableComputed pairs a computed read path with a setter. The setter body
// executes inside an implicit batch, so however many signals it writes,
// dependents observe a single atomic transition.
type WritableComputed[T any] struct {
	*Computed[T]
	setter func(T)
}

// NewWritableComputed creates a bidirectional derived value.
func NewWritableComputed[T any](sys *System, getter func() T, setter func(T), opts ...ComputedOption[T]) *WritableComputed[T] {
	return &WritableComputed[T]{
		Computed: NewComputed(sys, getter, opts...),
		setter:   setter,
	}
}

func (w *WritableComputed[T]) mustLive() {
	if w.n.disposed() {
		panic(fmt.Errorf("%w: writable computed", ErrDisposed))
	}
}

// SetValue invokes the setter inside a batch and returns after the coalesced
// notification wave has flushed.
func (w *WritableComputed[T]) SetValue(v T) {
	w.mustLive()
	w.sys.StartBatch()
	defer w.sys.EndBatch()
	w.setter(v)
}

// Update rewrites the value through fn: the current value is read untracked,
// transformed, and written through the setter.
func (w *WritableComputed[T]) Update(fn func(T) T) {
	w.SetValue(fn(w.Peek()))
}
