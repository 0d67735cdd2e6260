package jolt

import (
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// EqualsFunc decides whether a freshly written or recomputed value counts as
// a change. Returning true suppresses propagation.
type EqualsFunc[T any] func(a, b T) bool

// Never reports every write as a change. Collection signals use it so
// interior mutation always propagates, and it is handy on signals whose
// payloads are mutated in place.
func Never[T any](a, b T) bool { return false }

// HashEquals compares byte or string payloads by xxhash digest. Suited to
// signals carrying large blobs that are rewritten wholesale on every update;
// each input is hashed in one pass instead of compared byte by byte.
func HashEquals[T ~string | ~[]byte](a, b T) bool {
	if len(a) != len(b) {
		return false
	}
	return xxhash.Sum64([]byte(a)) == xxhash.Sum64([]byte(b))
}

// defaultEquals compares with == for the common scalar kinds and falls back
// to reflect.DeepEqual for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
