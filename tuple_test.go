package jolt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joltdev/jolt"
)

func TestComputed2(t *testing.T) {
	sys := jolt.New()
	w := jolt.NewSignal(sys, 3)
	h := jolt.NewSignal(sys, 4)

	area := jolt.Computed2(sys, w, h, func(a, b int) int { return a * b })
	assert.Equal(t, 12, area.Value())

	sys.Batch(func() {
		w.SetValue(5)
		h.SetValue(6)
	})
	assert.Equal(t, 30, area.Value())
}

func TestComputed3(t *testing.T) {
	sys := jolt.New()
	a := jolt.NewSignal(sys, "a")
	b := jolt.NewSignal(sys, "b")
	c := jolt.NewComputed(sys, func() string { return a.Value() + "!" })

	joined := jolt.Computed3(sys, a, b, c, func(x, y, z string) string {
		return x + y + z
	})
	assert.Equal(t, "aba!", joined.Value())

	a.SetValue("z")
	assert.Equal(t, "zbz!", joined.Value())
}

func TestWatch2FiresOnEitherChange(t *testing.T) {
	sys := jolt.New()
	x := jolt.NewSignal(sys, 1)
	y := jolt.NewSignal(sys, 2)

	var fired []jolt.Pair[int, int]
	jolt.Watch2(sys, x, y, func(n, o jolt.Pair[int, int]) {
		fired = append(fired, n)
	})
	assert.Empty(t, fired)

	x.SetValue(10)
	y.SetValue(20)
	assert.Equal(t, []jolt.Pair[int, int]{{10, 2}, {10, 20}}, fired)
}

func TestWatch2BatchedSingleDelivery(t *testing.T) {
	sys := jolt.New()
	x := jolt.NewSignal(sys, 1)
	y := jolt.NewSignal(sys, 2)

	var fired []jolt.Pair[int, int]
	jolt.Watch2(sys, x, y, func(n, o jolt.Pair[int, int]) {
		fired = append(fired, n)
	})

	sys.Batch(func() {
		x.SetValue(7)
		y.SetValue(8)
	})
	assert.Equal(t, []jolt.Pair[int, int]{{7, 8}}, fired)
}

func TestWatch3(t *testing.T) {
	sys := jolt.New()
	a := jolt.NewSignal(sys, 1)
	b := jolt.NewSignal(sys, 2)
	c := jolt.NewSignal(sys, 3)

	var last jolt.Triple[int, int, int]
	var prev jolt.Triple[int, int, int]
	jolt.Watch3(sys, a, b, c, func(n, o jolt.Triple[int, int, int]) {
		last, prev = n, o
	})

	c.SetValue(9)
	assert.Equal(t, jolt.Triple[int, int, int]{1, 2, 9}, last)
	assert.Equal(t, jolt.Triple[int, int, int]{1, 2, 3}, prev)
}
