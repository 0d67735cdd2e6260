package jolt

import "errors"

// Lifecycle violations are programmer errors. They surface as panics whose
// value is an error wrapping one of these sentinels, so recovery code can
// still match with errors.Is.
var (
	// ErrDisposed is raised when a disposed signal, computed, effect, watcher
	// or scope is read, written or re-run.
	ErrDisposed = errors.New("jolt: use after dispose")

	// ErrUnset is raised when a lazy signal is read before its first write.
	ErrUnset = errors.New("jolt: lazy signal read before first write")

	// ErrNoActiveEffect is raised when OnCleanup is called outside a
	// synchronously executing effect body.
	ErrNoActiveEffect = errors.New("jolt: OnCleanup called outside an effect body")

	// ErrNoActiveScope is raised when OnScopeDispose is called outside a
	// synchronously executing EffectScope.Run.
	ErrNoActiveScope = errors.New("jolt: OnScopeDispose called outside a running scope")

	// ErrUpdateLoop is raised when a single flush exceeds its run budget,
	// which almost always means an effect writes a signal it also reads.
	ErrUpdateLoop = errors.New("jolt: possible infinite update loop")

	// ErrConfinement is raised by the optional confinement check when the
	// graph is touched from a goroutine other than its owner.
	ErrConfinement = errors.New("jolt: system accessed from foreign goroutine")
)
