// Package jolt is a fine-grained reactive signal system: a pull-driven,
// push-invalidated dependency graph of signals, computed values, effects,
// watchers and effect scopes.
//
// Reads inside a consumer body record dependency edges automatically; a
// signal write marks direct dependents dirty and transitive ones pending,
// then re-runs the affected consumers. Computed values stay lazy: they are
// only recomputed when read, and only when an upstream value actually
// changed.
//
//	sys := jolt.New()
//	count := jolt.NewSignal(sys, 1)
//	double := jolt.NewComputed(sys, func() int { return count.Value() * 2 })
//	jolt.NewEffect(sys, func() { fmt.Println(double.Value()) })
//	count.SetValue(2) // effect re-runs once, printing 4
//
// The graph is single-goroutine by design. Hosts that must touch it from
// several goroutines route every operation through System.Exclusive, which
// is also how the async adapters deliver completions.
package jolt
