package jolt

import (
	"sync"
	"time"
)

// ScheduledTask is a deferred consumer run handed to a Scheduler.
type ScheduledTask interface {
	RunTask()
}

// Scheduler decides when scheduler-bound effects actually re-run. The graph
// hands over invalidated effects via Schedule; repeated invalidations of the
// same effect before the next flush must collapse into one run.
type Scheduler interface {
	Schedule(t ScheduledTask)
}

// FrameScheduler coalesces effect runs to frame boundaries: however many
// times an effect is invalidated between two flushes, it runs once per
// flush. Flush can be driven manually (a render loop calling it at frame
// end) or by Start with a fixed interval.
type FrameScheduler struct {
	sys *System

	mu     sync.Mutex
	queue  []ScheduledTask
	queued map[ScheduledTask]struct{}

	ticker *time.Ticker
	done   chan struct{}
}

// NewFrameScheduler creates a scheduler bound to sys.
func NewFrameScheduler(sys *System) *FrameScheduler {
	return &FrameScheduler{
		sys:    sys,
		queued: map[ScheduledTask]struct{}{},
	}
}

// Schedule implements Scheduler.
func (f *FrameScheduler) Schedule(t ScheduledTask) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.queued[t]; ok {
		return
	}
	f.queued[t] = struct{}{}
	f.queue = append(f.queue, t)
}

// Flush runs every queued task once, in scheduling order. Tasks scheduled
// while the flush is running wait for the next one.
func (f *FrameScheduler) Flush() {
	f.mu.Lock()
	tasks := f.queue
	f.queue = nil
	f.queued = map[ScheduledTask]struct{}{}
	f.mu.Unlock()

	if len(tasks) == 0 {
		return
	}
	f.sys.Exclusive(func() {
		for _, t := range tasks {
			t.RunTask()
		}
	})
}

// Pending reports how many tasks wait for the next flush.
func (f *FrameScheduler) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Start drives Flush from a ticker goroutine every interval. Stop ends it.
func (f *FrameScheduler) Start(interval time.Duration) {
	if f.done != nil {
		return
	}
	f.ticker = time.NewTicker(interval)
	f.done = make(chan struct{})
	go func() {
		for {
			select {
			case <-f.done:
				return
			case <-f.ticker.C:
				f.Flush()
			}
		}
	}()
}

// Stop halts the ticker goroutine. Queued tasks stay queued until the next
// manual Flush.
func (f *FrameScheduler) Stop() {
	if f.done == nil {
		return
	}
	f.ticker.Stop()
	close(f.done)
	f.done = nil
	f.ticker = nil
}
