package jolt

import "fmt"

// EffectScope aggregates consumer lifetimes. Every effect, watcher, async
// signal or nested scope constructed while the scope is running registers as
// a child; disposing the scope disposes all of them, exactly once each.
//
// Children created from deferred callbacks (after Run returned) are not
// auto-registered; add them explicitly with Adopt.
type EffectScope struct {
	sys      *System
	children []Disposable
	cleanups []func()
	disposed bool
}

// NewEffectScope creates a scope. If another scope is currently running, the
// new one registers as its child.
func NewEffectScope(sys *System) *EffectScope {
	sc := &EffectScope{sys: sys}
	sys.adopt(sc)
	return sc
}

// Run executes fn with this scope as the current scope. Scopes nest; the
// innermost running scope is the registration target.
func (sc *EffectScope) Run(fn func()) {
	sc.mustLive()
	s := sc.sys
	s.scopes = append(s.scopes, sc)
	defer func() { s.scopes = s.scopes[:len(s.scopes)-1] }()
	fn()
}

// RunScoped executes fn inside the scope and returns its result.
func RunScoped[R any](sc *EffectScope, fn func() R) (out R) {
	sc.Run(func() { out = fn() })
	return out
}

// Adopt registers d as a child of this scope. Useful for consumers created
// asynchronously, outside the synchronous extent of Run.
func (sc *EffectScope) Adopt(d Disposable) {
	sc.mustLive()
	sc.children = append(sc.children, d)
}

// OnCleanup registers fn to run when the scope is disposed.
func (sc *EffectScope) OnCleanup(fn func()) {
	sc.mustLive()
	sc.cleanups = append(sc.cleanups, fn)
}

// Dispose disposes every child in reverse registration order (most recently
// created first), then runs the cleanup callbacks, also in reverse.
// Idempotent.
func (sc *EffectScope) Dispose() {
	if sc.disposed {
		return
	}
	sc.disposed = true

	children := sc.children
	sc.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	cleanups := sc.cleanups
	sc.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// IsDisposed reports whether Dispose has been called.
func (sc *EffectScope) IsDisposed() bool {
	return sc.disposed
}

func (sc *EffectScope) mustLive() {
	if sc.disposed {
		panic(fmt.Errorf("%w: effect scope", ErrDisposed))
	}
}

// OnScopeDispose registers fn with the scope currently running. Panics with
// ErrNoActiveScope when called outside the synchronous extent of a Run.
func (s *System) OnScopeDispose(fn func()) {
	sc := s.currentScope()
	if sc == nil {
		panic(ErrNoActiveScope)
	}
	sc.OnCleanup(fn)
}

func (s *System) currentScope() *EffectScope {
	if len(s.scopes) == 0 {
		return nil
	}
	return s.scopes[len(s.scopes)-1]
}

// adopt registers d with the innermost running scope, if any.
func (s *System) adopt(d Disposable) {
	if sc := s.currentScope(); sc != nil {
		sc.children = append(sc.children, d)
	}
}
