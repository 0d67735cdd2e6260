package jolt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joltdev/jolt"
)

func TestBatchCoalescesReruns(t *testing.T) {
	sys := jolt.New()
	first := jolt.NewSignal(sys, "Ada")
	last := jolt.NewSignal(sys, "Lovelace")

	runs := 0
	var full string
	jolt.NewEffect(sys, func() {
		runs++
		full = first.Value() + " " + last.Value()
	})
	assert.Equal(t, 1, runs)

	sys.Batch(func() {
		first.SetValue("Grace")
		last.SetValue("Hopper")
	})
	assert.Equal(t, 2, runs, "two writes, one rerun")
	assert.Equal(t, "Grace Hopper", full)
}

func TestBatchNesting(t *testing.T) {
	sys := jolt.New()
	x := jolt.NewSignal(sys, 0)

	runs := 0
	jolt.NewEffect(sys, func() {
		runs++
		_ = x.Value()
	})
	assert.Equal(t, 1, runs)

	sys.StartBatch()
	x.SetValue(1)
	sys.StartBatch()
	x.SetValue(2)
	sys.EndBatch()
	assert.Equal(t, 1, runs, "inner EndBatch must not flush")
	sys.EndBatch()
	assert.Equal(t, 2, runs, "outermost EndBatch flushes once")
}

func TestBatchWritesVisibleInside(t *testing.T) {
	sys := jolt.New()
	x := jolt.NewSignal(sys, 1)
	double := jolt.NewComputed(sys, func() int { return x.Value() * 2 })

	sys.Batch(func() {
		x.SetValue(5)
		assert.Equal(t, 5, x.Value(), "writes read back inside the batch")
		assert.Equal(t, 10, double.Value(), "computeds are fresh inside the batch")
	})
}

func TestBatchValue(t *testing.T) {
	sys := jolt.New()
	x := jolt.NewSignal(sys, 1)
	y := jolt.NewSignal(sys, 2)

	runs := 0
	jolt.NewEffect(sys, func() {
		runs++
		_ = x.Value() + y.Value()
	})

	sum := jolt.BatchValue(sys, func() int {
		x.SetValue(10)
		y.SetValue(20)
		return x.Value() + y.Value()
	})
	assert.Equal(t, 30, sum)
	assert.Equal(t, 2, runs)
}

func TestBatchRevertedWriteStillCounts(t *testing.T) {
	sys := jolt.New()
	x := jolt.NewSignal(sys, 1)

	runs := 0
	jolt.NewEffect(sys, func() {
		runs++
		_ = x.Value()
	})
	assert.Equal(t, 1, runs)

	sys.Batch(func() {
		x.SetValue(2)
		x.SetValue(1)
	})
	assert.Equal(t, 2, runs, "invalidation is not rescinded when the value returns")
}

func TestBatchEmpty(t *testing.T) {
	sys := jolt.New()
	assert.NotPanics(t, func() { sys.Batch(func() {}) })
}
