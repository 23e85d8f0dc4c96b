package topn

import (
	"fmt"
	"math"
)

// Index is the set of supported column/row index types.
type Index interface {
	~int32 | ~int64
}

// Number is the set of supported matrix value types.
type Number interface {
	~int32 | ~int64 | ~float32 | ~float64
}

// Matrix is a compressed sparse row (CSR) matrix over index type I and value
// type V. Indptr has length Nrows+1; for row r the non-zeros are
// (Indices[k], Data[k]) for k in [Indptr[r], Indptr[r+1]). Indices within a
// row need not be sorted or unique: MatMul and MatMulTopN tolerate both,
// summing duplicates as part of the accumulation.
type Matrix[I Index, V Number] struct {
	Nrows, Ncols int
	Indptr       []I
	Indices      []I
	Data         []V
}

// NewMatrix constructs a Matrix, reusing the storage of the slices passed
// in. It does not copy or validate; call Validate to check CSR invariants.
func NewMatrix[I Index, V Number](nrows, ncols int, indptr, indices []I, data []V) *Matrix[I, V] {
	return &Matrix[I, V]{
		Nrows:   nrows,
		Ncols:   ncols,
		Indptr:  indptr,
		Indices: indices,
		Data:    data,
	}
}

// NNZ returns the number of stored (not necessarily distinct) non-zero
// entries.
func (m *Matrix[I, V]) NNZ() int {
	return len(m.Data)
}

// Validate checks the CSR invariants described in the package's data model:
// Indptr has length Nrows+1, starts at 0, is non-decreasing, and every
// stored index lies in [0, Ncols). It panics on violation, since a Matrix
// failing these invariants is a construction bug in the caller's own code,
// not a recoverable runtime input error (mirroring the teacher library's
// panic-on-malformed-structure convention for its own CSR type).
func (m *Matrix[I, V]) Validate() {
	if len(m.Indptr) != m.Nrows+1 {
		panic(fmt.Sprintf("topn: indptr has length %d, want %d", len(m.Indptr), m.Nrows+1))
	}
	if m.Indptr[0] != 0 {
		panic(fmt.Sprintf("topn: indptr[0] = %d, want 0", m.Indptr[0]))
	}
	for i := 1; i < len(m.Indptr); i++ {
		if m.Indptr[i] < m.Indptr[i-1] {
			panic("topn: indptr is not non-decreasing")
		}
	}
	if int(m.Indptr[m.Nrows]) != len(m.Indices) || int(m.Indptr[m.Nrows]) != len(m.Data) {
		panic("topn: indptr[nrows] does not match len(indices)/len(data)")
	}
	for _, j := range m.Indices {
		if j < 0 || int(j) >= m.Ncols {
			panic(fmt.Sprintf("topn: column index %d out of range [0, %d)", j, m.Ncols))
		}
	}
}

// row returns the indices and data slices for row r.
func (m *Matrix[I, V]) row(r int) ([]I, []V) {
	begin, end := m.Indptr[r], m.Indptr[r+1]
	return m.Indices[begin:end], m.Data[begin:end]
}

// minFinite returns the most negative finite value representable by V; it is
// the default threshold, chosen so that every finite entry of that type
// other than that minimum itself passes the "value > threshold" test.
func minFinite[V Number]() V {
	var zero V
	switch any(zero).(type) {
	case float32:
		f := float32(-math.MaxFloat32)
		return V(f)
	case float64:
		f := float64(-math.MaxFloat64)
		return V(f)
	case int32:
		return V(math.MinInt32)
	case int64:
		i := int64(math.MinInt64)
		return V(i)
	default:
		panic("topn: unreachable numeric type")
	}
}
