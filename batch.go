package jolt

// StartBatch opens a batch window: writes keep marking dependents but the
// notification flush is held back until the matching EndBatch.
func (s *System) StartBatch() {
	s.batchDepth++
}

// EndBatch closes one nesting level and flushes once the outermost batch
// exits. Each consumer invalidated during the batch runs exactly once.
func (s *System) EndBatch() {
	if s.batchDepth--; s.batchDepth == 0 {
		s.flush()
	}
}

// Batch runs fn inside a batch window. Batches nest; only the outermost
// exit triggers the flush.
func (s *System) Batch(fn func()) {
	s.StartBatch()
	defer s.EndBatch()
	fn()
}

// BatchValue runs fn inside a batch window and returns its result.
func BatchValue[R any](s *System, fn func() R) R {
	s.StartBatch()
	defer s.EndBatch()
	return fn()
}
