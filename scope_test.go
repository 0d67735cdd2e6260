package jolt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joltdev/jolt"
)

func TestScopeDisposesMembers(t *testing.T) {
	sys := jolt.New()
	x := jolt.NewSignal(sys, 1)

	runs := 0
	sc := jolt.NewEffectScope(sys)
	var e *jolt.Effect
	var w *jolt.Watcher[int]
	sc.Run(func() {
		e = jolt.NewEffect(sys, func() {
			runs++
			_ = x.Value()
		})
		w = jolt.Watch(sys, func() int { return x.Value() }, func(n, o int) {})
	})
	assert.Equal(t, 1, runs)

	sc.Dispose()
	assert.True(t, e.IsDisposed())
	assert.True(t, w.IsDisposed())

	x.SetValue(2)
	assert.Equal(t, 1, runs)
}

func TestScopeNestingCascades(t *testing.T) {
	sys := jolt.New()

	var order []string
	outer := jolt.NewEffectScope(sys)
	outer.Run(func() {
		sys.OnScopeDispose(func() { order = append(order, "outer") })
		inner := jolt.NewEffectScope(sys)
		inner.Run(func() {
			sys.OnScopeDispose(func() { order = append(order, "inner") })
		})
		_ = inner
	})

	outer.Dispose()
	assert.Equal(t, []string{"inner", "outer"}, order,
		"children dispose before the parent's own cleanups")
	assert.True(t, outer.IsDisposed())
}

func TestScopeReverseDisposalOrder(t *testing.T) {
	sys := jolt.New()
	x := jolt.NewSignal(sys, 1)

	var order []string
	sc := jolt.NewEffectScope(sys)
	sc.Run(func() {
		jolt.NewEffect(sys, func() {
			_ = x.Value()
			sys.OnCleanup(func() { order = append(order, "first") })
		})
		jolt.NewEffect(sys, func() {
			_ = x.Value()
			sys.OnCleanup(func() { order = append(order, "second") })
		})
	})

	sc.Dispose()
	assert.Equal(t, []string{"second", "first"}, order,
		"members dispose in reverse creation order")
}

func TestOnScopeDisposeOutsidePanics(t *testing.T) {
	sys := jolt.New()
	requirePanicsWithErr(t, jolt.ErrNoActiveScope, func() {
		sys.OnScopeDispose(func() {})
	})
}

func TestScopeAdopt(t *testing.T) {
	sys := jolt.New()
	x := jolt.NewSignal(sys, 1)

	runs := 0
	e := jolt.NewEffect(sys, func() {
		runs++
		_ = x.Value()
	})

	sc := jolt.NewEffectScope(sys)
	sc.Adopt(e)
	sc.Dispose()
	assert.True(t, e.IsDisposed())
}

func TestRunScoped(t *testing.T) {
	sys := jolt.New()
	x := jolt.NewSignal(sys, 2)

	runs := 0
	sc := jolt.NewEffectScope(sys)
	got := jolt.RunScoped(sc, func() int {
		jolt.NewEffect(sys, func() {
			runs++
			_ = x.Value()
		})
		return x.Value() * 2
	})
	assert.Equal(t, 4, got)
	assert.Equal(t, 1, runs)

	sc.Dispose()
	x.SetValue(5)
	assert.Equal(t, 1, runs, "members stop reacting once the scope is gone")
}

func TestScopeDisposeIdempotent(t *testing.T) {
	sys := jolt.New()

	disposals := 0
	sc := jolt.NewEffectScope(sys)
	sc.Run(func() {
		sys.OnScopeDispose(func() { disposals++ })
	})

	sc.Dispose()
	sc.Dispose()
	assert.Equal(t, 1, disposals)
	requirePanicsWithErr(t, jolt.ErrDisposed, func() { sc.Run(func() {}) })
}

func TestScopeCreationInsideParentIsAdopted(t *testing.T) {
	sys := jolt.New()

	parent := jolt.NewEffectScope(sys)
	var child *jolt.EffectScope
	parent.Run(func() {
		child = jolt.NewEffectScope(sys)
	})

	parent.Dispose()
	assert.True(t, child.IsDisposed())
}
