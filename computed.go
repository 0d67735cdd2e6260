package jolt

import "fmt"

// Computed is a derived, lazily cached value. The getter never runs at
// construction; it runs on the first read and again only when a tracked
// dependency actually changed since the last evaluation.
type Computed[T any] struct {
	sys       *System
	n         node
	getter    func() T
	value     T
	evaluated bool
	equals    EqualsFunc[T]
}

// ComputedOption configures a Computed at construction.
type ComputedOption[T any] func(*Computed[T])

// WithComputedEquals replaces the change detection used to decide whether a
// recomputation should propagate downstream.
func WithComputedEquals[T any](fn EqualsFunc[T]) ComputedOption[T] {
	return func(c *Computed[T]) { c.equals = fn }
}

// NewComputed creates a computed value from getter.
func NewComputed[T any](sys *System, getter func() T, opts ...ComputedOption[T]) *Computed[T] {
	c := &Computed[T]{sys: sys, getter: getter}
	c.n.ref = c
	c.n.flags = flagComputed | flagDirty
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Computed[T]) mustLive() {
	if c.n.disposed() {
		panic(fmt.Errorf("%w: computed", ErrDisposed))
	}
}

// Value brings the cache up to date if needed, records a dependency edge
// when a consumer is evaluating, and returns the cached value. A panicking
// getter propagates to the caller and leaves the node retryable.
func (c *Computed[T]) Value() T {
	c.mustLive()
	c.sys.ensureFresh(&c.n)
	if c.sys.activeSub != nil {
		c.sys.connect(&c.n, c.sys.activeSub)
	}
	return c.value
}

// Peek returns a fresh value without recording a dependency in the caller's
// tracking context. A stale cache is recomputed first.
func (c *Computed[T]) Peek() T {
	c.mustLive()
	c.sys.PauseTracking()
	defer c.sys.ResumeTracking()
	c.sys.ensureFresh(&c.n)
	return c.value
}

// PeekCached returns whatever is cached, stale or not, computing only when
// the getter has never run at all.
func (c *Computed[T]) PeekCached() T {
	c.mustLive()
	if !c.evaluated {
		return c.Peek()
	}
	return c.value
}

// Notify invalidates dependents without recomputing this node; they pull a
// fresh value on their own next evaluation.
func (c *Computed[T]) Notify() {
	c.mustLive()
	if c.n.subs != nil {
		c.sys.propagate(c.n.subs)
		c.sys.afterWrite()
	}
}

// Dispose retires the computed: upstream edges are severed and any further
// read panics. Idempotent.
func (c *Computed[T]) Dispose() {
	if c.n.disposed() {
		return
	}
	c.n.flags |= flagDisposed
	c.sys.detachAll(&c.n)
}

// IsDisposed reports whether Dispose has been called.
func (c *Computed[T]) IsDisposed() bool {
	return c.n.disposed()
}

// refresh implements derived. The engine has already set this node as the
// active consumer and rewound its dependency cursor.
func (c *Computed[T]) refresh() bool {
	old := c.value
	v := c.getter()
	c.value = v
	changed := !c.evaluated || !c.equal(old, v)
	c.evaluated = true
	return changed
}

func (c *Computed[T]) equal(a, b T) bool {
	if c.equals != nil {
		return c.equals(a, b)
	}
	return defaultEquals(a, b)
}
