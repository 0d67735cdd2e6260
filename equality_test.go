package jolt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joltdev/jolt"
)

func TestHashEquals(t *testing.T) {
	payload := strings.Repeat("abc", 1024)
	assert.True(t, jolt.HashEquals(payload, strings.Repeat("abc", 1024)))
	assert.False(t, jolt.HashEquals(payload, payload[:len(payload)-1]))
	assert.True(t, jolt.HashEquals([]byte("x"), []byte("x")))
	assert.False(t, jolt.HashEquals([]byte("x"), []byte("y")))
}

func TestSignalHashEquality(t *testing.T) {
	sys := jolt.New()
	s := jolt.NewSignal(sys, []byte("doc v1"), jolt.WithEquals[[]byte](jolt.HashEquals[[]byte]))

	runs := 0
	jolt.NewEffect(sys, func() {
		runs++
		_ = s.Value()
	})
	assert.Equal(t, 1, runs)

	s.SetValue([]byte("doc v1")) // distinct backing array, same digest
	assert.Equal(t, 1, runs)

	s.SetValue([]byte("doc v2"))
	assert.Equal(t, 2, runs)
}
