package topn

import "sync"

// Package-wide pools of accumulator scratch vectors, one per supported
// value type, amortising allocation across many MatMulTopN/MatMul calls the
// way the teacher library's pool.go reuses its own float64/int workspaces.
// Unlike the teacher, the pool here only has to cover four concrete
// instantiations, so plain typed pools are simpler and just as effective as
// a reflection-keyed map of pools would be.
var (
	scratchPoolF64 = sync.Pool{New: func() any { return make([]float64, 0, 256) }}
	scratchPoolF32 = sync.Pool{New: func() any { return make([]float32, 0, 256) }}
	scratchPoolI64 = sync.Pool{New: func() any { return make([]int64, 0, 256) }}
	scratchPoolI32 = sync.Pool{New: func() any { return make([]int32, 0, 256) }}
)

// getScratch returns a zeroed []V of length n, reused from the pool for V
// when possible and grown otherwise.
func getScratch[V Number](n int) []V {
	var zero V
	var raw any
	switch any(zero).(type) {
	case float64:
		raw = scratchPoolF64.Get()
	case float32:
		raw = scratchPoolF32.Get()
	case int64:
		raw = scratchPoolI64.Get()
	case int32:
		raw = scratchPoolI32.Get()
	default:
		panic("topn: unreachable numeric type")
	}

	s := raw.([]V)
	if cap(s) < n {
		s = make([]V, n)
	} else {
		s = s[:n]
		for i := range s {
			s[i] = zero
		}
	}
	return s
}

// putScratch returns s to the pool for V. Callers must not retain any
// reference to s afterwards.
func putScratch[V Number](s []V) {
	var zero V
	switch any(zero).(type) {
	case float64:
		scratchPoolF64.Put(s[:0])
	case float32:
		scratchPoolF32.Put(s[:0])
	case int64:
		scratchPoolI64.Put(s[:0])
	case int32:
		scratchPoolI32.Put(s[:0])
	default:
		_ = zero
	}
}
