package jolt

import "context"

// AsyncState is the value type of the async signal adapters: at any moment
// an async source is loading, resolved, or failed.
type AsyncState[T any] struct {
	Loading bool
	Value   T
	Err     error
}

// Ready reports whether the state holds a resolved value.
func (s AsyncState[T]) Ready() bool {
	return !s.Loading && s.Err == nil
}

// FutureSignal bridges a one-shot asynchronous computation into the graph.
// The computation runs on its own goroutine; its single completion enters
// the graph through System.Exclusive as one SetValue. The graph itself
// never awaits.
type FutureSignal[T any] struct {
	*Signal[AsyncState[T]]
	sys    *System
	fn     func(context.Context) (T, error)
	cancel context.CancelFunc
	gen    int
}

// NewFutureSignal starts fn immediately and exposes its progress as an
// AsyncState signal. Disposing the future cancels the context passed to fn.
func NewFutureSignal[T any](sys *System, fn func(context.Context) (T, error)) *FutureSignal[T] {
	f := &FutureSignal[T]{
		Signal: NewSignal(sys, AsyncState[T]{Loading: true}, WithEquals[AsyncState[T]](Never[AsyncState[T]])),
		sys:    sys,
		fn:     fn,
	}
	sys.adopt(f)
	f.start()
	return f
}

// Refresh cancels any in-flight run, resets the state to loading and starts
// the computation again. A completion from a superseded run is discarded.
func (f *FutureSignal[T]) Refresh() {
	f.mustLive()
	f.cancel()
	f.SetValue(AsyncState[T]{Loading: true})
	f.start()
}

// Dispose cancels the in-flight run and retires the underlying signal.
func (f *FutureSignal[T]) Dispose() {
	if f.IsDisposed() {
		return
	}
	f.cancel()
	f.Signal.Dispose()
}

func (f *FutureSignal[T]) start() {
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.gen++
	gen := f.gen
	go func() {
		v, err := f.fn(ctx)
		f.sys.Exclusive(func() {
			if f.IsDisposed() || gen != f.gen {
				return
			}
			if err != nil {
				f.SetValue(AsyncState[T]{Err: err})
			} else {
				f.SetValue(AsyncState[T]{Value: v})
			}
		})
	}()
}

// StreamSignal bridges a channel into the graph: each emission becomes one
// SetValue delivered through System.Exclusive, until the channel closes or
// the signal is disposed.
type StreamSignal[T any] struct {
	*Signal[T]
	done chan struct{}
}

// NewStreamSignal creates a signal seeded with initial that follows ch.
func NewStreamSignal[T any](sys *System, initial T, ch <-chan T, opts ...SignalOption[T]) *StreamSignal[T] {
	s := &StreamSignal[T]{
		Signal: NewSignal(sys, initial, opts...),
		done:   make(chan struct{}),
	}
	sys.adopt(s)
	go func() {
		for {
			select {
			case <-s.done:
				return
			case v, ok := <-ch:
				if !ok {
					return
				}
				sys.Exclusive(func() {
					if s.IsDisposed() {
						return
					}
					s.SetValue(v)
				})
			}
		}
	}()
	return s
}

// Dispose stops following the channel and retires the underlying signal.
func (s *StreamSignal[T]) Dispose() {
	if s.IsDisposed() {
		return
	}
	close(s.done)
	s.Signal.Dispose()
}
