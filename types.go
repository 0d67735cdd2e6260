package jolt

type nodeFlags uint8

const (
	// flagComputed marks a node whose value is derived from its dependencies
	// and can be refreshed on demand.
	flagComputed nodeFlags = 1 << iota

	// flagObserver marks a consumer node (effect or watcher) that gets queued
	// for re-execution when invalidated.
	flagObserver

	// flagTracking is set while the node's body/getter is executing and its
	// dependency list is being rebuilt.
	flagTracking

	// flagDirty means a direct dependency definitely changed value.
	flagDirty

	// flagPending means a transitive dependency may have changed; the node must
	// check its upstream computeds before deciding to re-run.
	flagPending

	// flagQueued means the node sits in the system's effect queue.
	flagQueued

	// flagDisposed is terminal. Disposed nodes never propagate again.
	flagDisposed
)

// link is one edge in the dependency graph. It lives in two intrusive lists
// at once: the subscriber's dependency list (singly linked via nextDep, in
// read order) and the dependency's subscriber list (doubly linked via
// prevSub/nextSub, in subscription order).
type link struct {
	dep *node
	sub *node

	nextDep *link

	prevSub *link
	nextSub *link
}

// node is the type-erased graph identity of every reactive construct.
// The generic wrappers (Signal, Computed, Effect, Watcher) each embed one
// and point ref back at themselves so the engine can call into them.
type node struct {
	ref   any
	flags nodeFlags

	deps     *link
	depsTail *link

	subs     *link
	subsTail *link
}

func (n *node) disposed() bool {
	return n.flags&flagDisposed != 0
}

// derived is implemented by computed wrappers. refresh re-runs the getter
// (the engine has already set up tracking) and reports whether the cached
// value actually changed.
type derived interface {
	refresh() bool
}

// reactor is implemented by consumer wrappers. react is called by the flush
// loop once the engine has decided the consumer must re-execute.
type reactor interface {
	react()
}

// Disposable is anything with a teardown. Effects, watchers, scopes, and
// the async signal adapters all qualify, which is what lets an EffectScope
// own any of them.
type Disposable interface {
	Dispose()
}

// Readable is the read-side contract shared by Signal and Computed. Value
// records a dependency edge when a consumer is evaluating; Peek never does.
type Readable[T any] interface {
	Value() T
	Peek() T
}
