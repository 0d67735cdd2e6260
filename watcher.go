package jolt

import "fmt"

// Watcher is the conditional consumer: it tracks a source expression, and
// when the expression's value changes between evaluations it invokes a
// callback with the new and previous values.
//
// The previous value advances after every evaluation cycle, whether or not
// the callback fired, so a comparison is always against the immediately
// preceding evaluation rather than the last delivered one.
type Watcher[T any] struct {
	sys       *System
	n         node
	source    func() T
	callback  func(newValue, oldValue T)
	when      func(newValue, oldValue T) bool
	equals    EqualsFunc[T]
	value     T
	paused    bool
	once      bool
	immediate bool
}

// WatcherOption configures a Watcher at construction.
type WatcherOption[T any] func(*Watcher[T])

// When replaces the default should-fire decision. The predicate receives the
// new and previous source values; returning true fires the callback.
func When[T any](pred func(newValue, oldValue T) bool) WatcherOption[T] {
	return func(w *Watcher[T]) { w.when = pred }
}

// WatchImmediately fires the callback once at construction with the source's
// initial value and the zero value as the previous one.
func WatchImmediately[T any]() WatcherOption[T] {
	return func(w *Watcher[T]) { w.immediate = true }
}

// WithWatcherEquals replaces the default equality used when no When
// predicate is given.
func WithWatcherEquals[T any](fn EqualsFunc[T]) WatcherOption[T] {
	return func(w *Watcher[T]) { w.equals = fn }
}

// Watch creates a watcher over source. The source runs once immediately
// under tracking to establish dependencies; the callback does not fire for
// that initial evaluation unless WatchImmediately is given.
func Watch[T any](sys *System, source func() T, callback func(newValue, oldValue T), opts ...WatcherOption[T]) *Watcher[T] {
	w := &Watcher[T]{sys: sys, source: source, callback: callback}
	w.n.ref = w
	w.n.flags = flagObserver
	for _, opt := range opts {
		opt(w)
	}
	sys.adopt(w)

	w.value = w.evaluate()
	if w.immediate {
		var zero T
		sys.runGuarded(func() { w.callback(w.value, zero) })
		if w.once {
			w.Dispose()
		}
	}
	return w
}

// WatchOnce creates a watcher that disposes itself right after the first
// qualifying callback invocation.
func WatchOnce[T any](sys *System, source func() T, callback func(newValue, oldValue T), opts ...WatcherOption[T]) *Watcher[T] {
	opts = append(opts, func(w *Watcher[T]) { w.once = true })
	return Watch(sys, source, callback, opts...)
}

func (w *Watcher[T]) mustLive() {
	if w.n.disposed() {
		panic(fmt.Errorf("%w: watcher", ErrDisposed))
	}
}

// Pause suppresses callback firing while keeping the dependency edges alive.
// The previous-value baseline keeps advancing, so Resume picks up from the
// current state without replaying skipped transitions.
func (w *Watcher[T]) Pause() {
	w.mustLive()
	w.paused = true
}

// Resume re-enables callback firing.
func (w *Watcher[T]) Resume() {
	w.mustLive()
	w.paused = false
}

// Dispose severs tracking permanently. Idempotent.
func (w *Watcher[T]) Dispose() {
	if w.n.disposed() {
		return
	}
	w.n.flags |= flagDisposed
	w.sys.detachAll(&w.n)
}

// IsDisposed reports whether Dispose has been called.
func (w *Watcher[T]) IsDisposed() bool {
	return w.n.disposed()
}

// react implements reactor: re-evaluate the source (refreshing edges, since
// the expression may read different nodes across runs), advance the
// baseline, and fire the callback when the transition qualifies.
func (w *Watcher[T]) react() {
	old := w.value
	newValue := w.evaluate()
	w.value = newValue
	if w.paused || !w.shouldFire(newValue, old) {
		return
	}
	w.sys.runGuarded(func() { w.callback(newValue, old) })
	if w.once {
		w.Dispose()
	}
}

func (w *Watcher[T]) shouldFire(newValue, old T) bool {
	if w.when != nil {
		return w.when(newValue, old)
	}
	if w.equals != nil {
		return !w.equals(newValue, old)
	}
	return !defaultEquals(newValue, old)
}

// evaluate runs the source expression under tracking.
func (w *Watcher[T]) evaluate() T {
	s := w.sys
	prev := s.activeSub
	s.activeSub = &w.n
	s.startTracking(&w.n)
	defer func() {
		s.activeSub = prev
		s.endTracking(&w.n)
	}()
	return w.source()
}
