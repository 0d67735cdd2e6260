package jolt

// Pair and Triple are the value types of the fixed-arity helpers below.
// They compare with reflect-based equality through defaultEquals, which is
// what lets multi-source watchers detect per-tuple changes.
type Pair[A, B any] struct {
	A A
	B B
}

type Triple[A, B, C any] struct {
	A A
	B B
	C C
}

// Computed2 derives a value from two readables.
func Computed2[A, B, R any](sys *System, a Readable[A], b Readable[B], fn func(A, B) R) *Computed[R] {
	return NewComputed(sys, func() R {
		return fn(a.Value(), b.Value())
	})
}

// Computed3 derives a value from three readables.
func Computed3[A, B, C, R any](sys *System, a Readable[A], b Readable[B], c Readable[C], fn func(A, B, C) R) *Computed[R] {
	return NewComputed(sys, func() R {
		return fn(a.Value(), b.Value(), c.Value())
	})
}

// Watch2 watches two readables as one source; the callback receives the new
// and previous pairs.
func Watch2[A, B any](sys *System, a Readable[A], b Readable[B], callback func(newValue, oldValue Pair[A, B]), opts ...WatcherOption[Pair[A, B]]) *Watcher[Pair[A, B]] {
	return Watch(sys, func() Pair[A, B] {
		return Pair[A, B]{a.Value(), b.Value()}
	}, callback, opts...)
}

// Watch3 watches three readables as one source.
func Watch3[A, B, C any](sys *System, a Readable[A], b Readable[B], c Readable[C], callback func(newValue, oldValue Triple[A, B, C]), opts ...WatcherOption[Triple[A, B, C]]) *Watcher[Triple[A, B, C]] {
	return Watch(sys, func() Triple[A, B, C] {
		return Triple[A, B, C]{a.Value(), b.Value(), c.Value()}
	}, callback, opts...)
}
