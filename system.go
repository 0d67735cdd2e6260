package jolt

import (
	"fmt"
	"sync"

	"github.com/petermattis/goid"
)

// maxFlushRuns bounds the number of consumer executions a single flush may
// perform before the system assumes a feedback loop and fails fast.
const maxFlushRuns = 100_000

// ErrorHandler receives values recovered from panicking effect bodies and
// watcher callbacks during a flush. When no handler is installed the panic
// propagates to whichever write triggered the flush.
type ErrorHandler func(recovered any)

// System owns one reactive graph: the link table, the active-consumer
// register, the scope stack, the batch counter and the queue of invalidated
// consumers. Everything created against a System must be used from a single
// goroutine; external goroutines enter through Exclusive.
type System struct {
	activeSub    *node
	activeEffect *Effect
	scopes       []*EffectScope
	pauseStack   []*node

	batchDepth int
	queue      []*node
	flushing   bool

	onError ErrorHandler

	mu      sync.Mutex
	confine bool
	ownerID int64
}

// SystemOption configures a System at construction.
type SystemOption func(*System)

// WithOnError installs a handler for panics escaping effect bodies and
// watcher callbacks during flushes.
func WithOnError(h ErrorHandler) SystemOption {
	return func(s *System) { s.onError = h }
}

// WithConfinementCheck makes the system verify on reads, writes and flushes
// that it is touched only by its owning goroutine (or inside Exclusive).
// Intended for tests and debugging; it costs a goid lookup per operation.
func WithConfinementCheck() SystemOption {
	return func(s *System) { s.confine = true }
}

// New creates an empty reactive system.
func New(opts ...SystemOption) *System {
	s := &System{}
	for _, opt := range opts {
		opt(s)
	}
	s.ownerID = goid.Get()
	return s
}

var (
	defaultSystem     *System
	defaultSystemOnce sync.Once
)

// Default returns the package-level default System, created on first use.
// Hosts that don't manage their own graph pass it to the constructors:
//
//	count := jolt.NewSignal(jolt.Default(), 0)
//
// Its owner is the goroutine that first called Default; everything else
// goes through Exclusive, like any other System.
func Default() *System {
	defaultSystemOnce.Do(func() {
		defaultSystem = New()
	})
	return defaultSystem
}

func (s *System) checkConfined() {
	if !s.confine {
		return
	}
	if g := goid.Get(); g != s.ownerID {
		panic(fmt.Errorf("%w: owner %d, caller %d", ErrConfinement, s.ownerID, g))
	}
}

// Exclusive serializes external access to the graph. Async adapters deliver
// their completions through it; any host that shares a System across
// goroutines must route every graph operation through it as well.
func (s *System) Exclusive(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prevOwner := s.ownerID
	s.ownerID = goid.Get()
	defer func() { s.ownerID = prevOwner }()
	fn()
}

// ---------------------------------------------------------------------------
// Tracking context

// PauseTracking suppresses dependency recording until the matching
// ResumeTracking. Pairs nest.
func (s *System) PauseTracking() {
	s.pauseStack = append(s.pauseStack, s.activeSub)
	s.activeSub = nil
}

// ResumeTracking restores the consumer that was active before the matching
// PauseTracking.
func (s *System) ResumeTracking() {
	last := len(s.pauseStack) - 1
	s.activeSub = s.pauseStack[last]
	s.pauseStack = s.pauseStack[:last]
}

// Untracked runs fn with dependency recording suppressed.
func (s *System) Untracked(fn func()) {
	s.PauseTracking()
	defer s.ResumeTracking()
	fn()
}

// Untracked runs fn with dependency recording suppressed and returns its
// result.
func Untracked[R any](s *System, fn func() R) R {
	s.PauseTracking()
	defer s.ResumeTracking()
	return fn()
}

// OnCleanup registers fn with the effect whose body is currently executing.
// The registration is per run: fn fires once before the next re-run, or once
// on dispose. Panics with ErrNoActiveEffect outside an effect body.
func (s *System) OnCleanup(fn func()) {
	if s.activeEffect == nil {
		panic(ErrNoActiveEffect)
	}
	s.activeEffect.cleanups = append(s.activeEffect.cleanups, fn)
}

// ---------------------------------------------------------------------------
// Link table maintenance

// startTracking readies sub for a fresh evaluation. The dependency cursor is
// rewound so links get reused in place when the run reads the same nodes in
// the same order.
func (s *System) startTracking(sub *node) {
	sub.depsTail = nil
	sub.flags = sub.flags&^(flagDirty|flagPending) | flagTracking
}

// endTracking trims whatever the evaluation did not re-read: every link past
// the cursor belongs to the previous run only.
func (s *System) endTracking(sub *node) {
	if sub.depsTail != nil {
		if stale := sub.depsTail.nextDep; stale != nil {
			s.unlinkChain(stale)
			sub.depsTail.nextDep = nil
		}
	} else if sub.deps != nil {
		s.unlinkChain(sub.deps)
		sub.deps = nil
	}
	sub.flags &^= flagTracking
}

// connect records a dependency edge dep -> sub. Consecutive re-reads reuse
// the existing link via the cursor; duplicate non-consecutive reads within
// one run may create parallel links, which is harmless because invalidation
// marking is idempotent.
func (s *System) connect(dep, sub *node) {
	cursor := sub.depsTail
	if cursor != nil && cursor.dep == dep {
		return
	}
	var next *link
	if cursor != nil {
		next = cursor.nextDep
	} else {
		next = sub.deps
	}
	if next != nil && next.dep == dep {
		sub.depsTail = next
		return
	}

	l := &link{dep: dep, sub: sub, nextDep: next}
	if cursor != nil {
		cursor.nextDep = l
	} else {
		sub.deps = l
	}
	if dep.subsTail != nil {
		l.prevSub = dep.subsTail
		dep.subsTail.nextSub = l
	} else {
		dep.subs = l
	}
	dep.subsTail = l
	sub.depsTail = l
}

// unlinkChain severs a run of dependency links, removing each from its
// dependency's subscriber list.
func (s *System) unlinkChain(l *link) {
	for l != nil {
		next := l.nextDep
		s.unlinkSub(l)
		l = next
	}
}

func (s *System) unlinkSub(l *link) {
	dep := l.dep
	if l.nextSub != nil {
		l.nextSub.prevSub = l.prevSub
	} else {
		dep.subsTail = l.prevSub
	}
	if l.prevSub != nil {
		l.prevSub.nextSub = l.nextSub
	} else {
		dep.subs = l.nextSub
	}
	l.prevSub, l.nextSub = nil, nil

	// A computed that lost its last subscriber releases its own upstream
	// edges and goes dirty, so it revalidates from scratch if read again.
	if dep.subs == nil && dep.flags&flagComputed != 0 && !dep.disposed() {
		dep.flags |= flagDirty
		if dep.deps != nil {
			deps := dep.deps
			dep.deps, dep.depsTail = nil, nil
			s.unlinkChain(deps)
		}
	}
}

// detachAll is the dispose-side teardown for a consumer or computed: every
// upstream edge goes away so no future invalidation reaches the node.
func (s *System) detachAll(n *node) {
	if n.deps != nil {
		deps := n.deps
		n.deps, n.depsTail = nil, nil
		s.unlinkChain(deps)
	}
	n.subs, n.subsTail = nil, nil
}

// ---------------------------------------------------------------------------
// Invalidation

// propagate walks a subscriber list after a definite value change, marking
// direct subscribers dirty and transitive ones pending.
func (s *System) propagate(l *link) {
	for ; l != nil; l = l.nextSub {
		s.invalidate(l.sub, flagDirty)
	}
}

func (s *System) invalidate(n *node, reason nodeFlags) {
	if n.disposed() {
		return
	}
	old := n.flags
	if old&(flagDirty|flagPending) != 0 {
		// Already invalidated; a definite change still upgrades a maybe.
		if reason == flagDirty {
			n.flags |= flagDirty
		}
		return
	}
	n.flags |= reason
	if old&flagObserver != 0 {
		s.enqueue(n)
		return
	}
	// Computed: downstream can only know "maybe changed" until it refreshes.
	for l := n.subs; l != nil; l = l.nextSub {
		s.invalidate(l.sub, flagPending)
	}
}

// shallowPropagate upgrades pending subscribers to dirty once a computed
// refresh confirmed an actual value change.
func (s *System) shallowPropagate(l *link) {
	for ; l != nil; l = l.nextSub {
		sub := l.sub
		if sub.flags&(flagPending|flagDirty) == flagPending {
			sub.flags = sub.flags&^flagPending | flagDirty
		}
	}
}

func (s *System) enqueue(n *node) {
	if n.flags&flagQueued != 0 {
		return
	}
	n.flags |= flagQueued
	s.queue = append(s.queue, n)
}

// ---------------------------------------------------------------------------
// Dirty checking and refresh

// ensureFresh brings a computed node up to date before its value is read.
func (s *System) ensureFresh(n *node) {
	switch {
	case n.flags&flagDirty != 0:
		s.refresh(n)
	case n.flags&flagPending != 0:
		if s.checkDirty(n) {
			s.refresh(n)
		} else {
			n.flags &^= flagPending
		}
	}
}

// checkDirty resolves a pending node by refreshing upstream computeds until
// one of them actually changes value. Plain signals never appear here: a
// signal change marks its subscribers dirty directly.
func (s *System) checkDirty(sub *node) bool {
	for l := sub.deps; l != nil; l = l.nextDep {
		dep := l.dep
		if dep.flags&flagComputed == 0 || dep.disposed() {
			continue
		}
		if dep.flags&flagDirty != 0 {
			if s.refresh(dep) {
				return true
			}
		} else if dep.flags&flagPending != 0 {
			if s.checkDirty(dep) {
				if s.refresh(dep) {
					return true
				}
			} else {
				dep.flags &^= flagPending
			}
		}
	}
	return false
}

// refresh re-evaluates a computed under tracking. A panicking getter leaves
// the node dirty (and its cache untouched) so the next access retries.
func (s *System) refresh(n *node) (changed bool) {
	prev := s.activeSub
	s.activeSub = n
	s.startTracking(n)
	completed := false
	defer func() {
		s.activeSub = prev
		s.endTracking(n)
		if !completed {
			n.flags |= flagDirty
		}
	}()

	changed = n.ref.(derived).refresh()
	completed = true
	if changed && n.subs != nil {
		s.shallowPropagate(n.subs)
	}
	return changed
}

// ---------------------------------------------------------------------------
// Flush

// afterWrite is the tail of every propagation site: outside a batch the
// queued consumers run immediately, inside one they wait for the outermost
// EndBatch.
func (s *System) afterWrite() {
	if s.batchDepth == 0 {
		s.flush()
	}
}

// flush drains the consumer queue in the order consumers were first
// invalidated. Consumers invalidated by earlier runs within the same flush
// join the back of the queue and run in the same pass.
func (s *System) flush() {
	if s.flushing {
		return
	}
	s.flushing = true
	defer func() { s.flushing = false }()

	runs := 0
	for len(s.queue) > 0 {
		n := s.queue[0]
		s.queue = s.queue[1:]
		n.flags &^= flagQueued
		if n.disposed() {
			n.flags &^= flagDirty | flagPending
			continue
		}
		if n.flags&flagDirty != 0 || (n.flags&flagPending != 0 && s.checkDirty(n)) {
			runs++
			if runs > maxFlushRuns {
				panic(fmt.Errorf("%w: %d consumer runs in one flush", ErrUpdateLoop, runs))
			}
			n.ref.(reactor).react()
		} else {
			n.flags &^= flagPending
		}
	}
}

// runGuarded executes a consumer body, routing panics to the system error
// handler when one is installed.
func (s *System) runGuarded(body func()) {
	if s.onError == nil {
		body()
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.onError(r)
		}
	}()
	body()
}
