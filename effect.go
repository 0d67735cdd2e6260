package jolt

import "fmt"

// Effect is the eager consumer: its body runs under tracking, and any
// tracked dependency change re-runs it. Each run fully replaces the
// previous run's dependency set.
//
// An effect that writes a signal it also reads, outside a batch, feeds back
// into itself; the flush guard turns that into an ErrUpdateLoop panic
// instead of unbounded recursion.
type Effect struct {
	sys      *System
	n        node
	fn       func()
	cleanups []func()
	sched    Scheduler
	deferred bool
}

// EffectOption configures an Effect at construction.
type EffectOption func(*Effect)

// NoImmediate defers the first run until Run is called explicitly.
func NoImmediate() EffectOption {
	return func(e *Effect) { e.deferred = true }
}

// WithScheduler re-routes invalidations to a scheduler instead of re-running
// synchronously. Invalidations between two scheduler flushes collapse into a
// single run.
func WithScheduler(s Scheduler) EffectOption {
	return func(e *Effect) { e.sched = s }
}

// NewEffect creates an effect and, unless NoImmediate is given, runs it once
// to establish its initial dependency set.
func NewEffect(sys *System, fn func(), opts ...EffectOption) *Effect {
	e := &Effect{sys: sys, fn: fn}
	e.n.ref = e
	e.n.flags = flagObserver
	for _, opt := range opts {
		opt(e)
	}
	sys.adopt(e)
	if !e.deferred {
		e.run()
	}
	return e
}

func (e *Effect) mustLive() {
	if e.n.disposed() {
		panic(fmt.Errorf("%w: effect", ErrDisposed))
	}
}

// Run executes the body now. It is how a NoImmediate effect starts tracking,
// and is safe to call on an idle effect to force a re-evaluation.
func (e *Effect) Run() {
	e.mustLive()
	e.run()
}

// OnCleanup registers fn for this run: it fires once before the next re-run,
// or once on dispose. Must be called from within the effect body; the
// package-level registration point is System.OnCleanup.
func (e *Effect) OnCleanup(fn func()) {
	if e.sys.activeEffect != e {
		panic(ErrNoActiveEffect)
	}
	e.cleanups = append(e.cleanups, fn)
}

// Dispose runs any registered cleanup, severs all dependency edges and
// permanently retires the effect. Idempotent.
func (e *Effect) Dispose() {
	if e.n.disposed() {
		return
	}
	e.n.flags |= flagDisposed
	e.runCleanups()
	e.sys.detachAll(&e.n)
}

// IsDisposed reports whether Dispose has been called.
func (e *Effect) IsDisposed() bool {
	return e.n.disposed()
}

// react implements reactor: the flush loop confirmed a dependency change.
func (e *Effect) react() {
	if e.sched != nil {
		e.n.flags &^= flagDirty | flagPending
		e.sched.Schedule(e)
		return
	}
	e.run()
}

// RunTask implements ScheduledTask for scheduler-bound effects.
func (e *Effect) RunTask() {
	if e.n.disposed() {
		return
	}
	e.run()
}

func (e *Effect) run() {
	e.runCleanups()

	s := e.sys
	prevSub := s.activeSub
	prevEffect := s.activeEffect
	s.activeSub = &e.n
	s.activeEffect = e
	s.startTracking(&e.n)
	defer func() {
		s.activeSub = prevSub
		s.activeEffect = prevEffect
		s.endTracking(&e.n)
	}()

	s.runGuarded(e.fn)
}

func (e *Effect) runCleanups() {
	if len(e.cleanups) == 0 {
		return
	}
	cleanups := e.cleanups
	e.cleanups = nil
	for _, fn := range cleanups {
		fn()
	}
}
