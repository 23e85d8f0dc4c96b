package topn

import (
	"fmt"
	"math"
)

// ValueKind tags the concrete numeric type of a Matrix's Data array.
type ValueKind int

const (
	Int32 ValueKind = iota
	Int64
	Float32
	Float64
)

func (k ValueKind) String() string {
	switch k {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

func (k ValueKind) isInt() bool { return k == Int32 || k == Int64 }

// IndexKind tags the concrete integer type of a Matrix's Indptr/Indices
// arrays.
type IndexKind int

const (
	Index32 IndexKind = iota
	Index64
)

func (k IndexKind) String() string {
	if k == Index64 {
		return "int64"
	}
	return "int32"
}

// AnyMatrix is a CSR matrix whose index and value types are only known at
// runtime, tagged by IndexKind/ValueKind. It is the boundary type for
// callers that only learn the concrete dtype combination dynamically (for
// example a binding receiving matrices from another language); Go callers
// that know I and V at compile time should use Matrix[I, V] directly via
// the *Generic entry points and skip this dispatch layer entirely.
//
// Indptr and Indices must both hold either []int32 or []int64, consistently
// with IndexKind. Data must hold one of []int32, []int64, []float32,
// []float64, consistently with ValueKind.
type AnyMatrix struct {
	Nrows, Ncols int
	ValueKind    ValueKind
	IndexKind    IndexKind
	Indptr       any
	Indices      any
	Data         any
}

// NNZ returns the number of stored entries, independent of concrete dtype.
func (m AnyMatrix) NNZ() int {
	switch m.ValueKind {
	case Int32:
		return len(m.Data.([]int32))
	case Int64:
		return len(m.Data.([]int64))
	case Float32:
		return len(m.Data.([]float32))
	case Float64:
		return len(m.Data.([]float64))
	default:
		return 0
	}
}

// DynamicOptions is the Options[V] equivalent for the dynamic dispatch
// layer: Threshold is always expressed in float64 and converted to the
// resolved value type at dispatch time.
type DynamicOptions struct {
	TopN         int
	Threshold    *float64
	Sort         bool
	Density      float64
	NThreads     int
	MaxOutputNNZ int
	RowRange     [2]int
	// IndexDtype requests a minimum index width for the result; it is
	// still widened automatically when Nrows, Ncols, or the projected
	// output size would overflow 32 bits.
	IndexDtype IndexKind
}

func widenIndexSlice[I Index](s any, kind IndexKind) []I {
	var probe I
	switch any(probe).(type) {
	case int32:
		if kind == Index32 {
			return s.([]I)
		}
	case int64:
		if kind == Index64 {
			return s.([]I)
		}
	}
	switch kind {
	case Index32:
		src := s.([]int32)
		out := make([]I, len(src))
		for i, v := range src {
			out[i] = I(v)
		}
		return out
	case Index64:
		src := s.([]int64)
		out := make([]I, len(src))
		for i, v := range src {
			out[i] = I(v)
		}
		return out
	default:
		panic("topn: unreachable index kind")
	}
}

func widenValueSlice[V Number](s any, kind ValueKind) []V {
	var probe V
	switch any(probe).(type) {
	case int32:
		if kind == Int32 {
			return s.([]V)
		}
	case int64:
		if kind == Int64 {
			return s.([]V)
		}
	case float32:
		if kind == Float32 {
			return s.([]V)
		}
	case float64:
		if kind == Float64 {
			return s.([]V)
		}
	}
	switch kind {
	case Int32:
		src := s.([]int32)
		out := make([]V, len(src))
		for i, v := range src {
			out[i] = V(v)
		}
		return out
	case Int64:
		src := s.([]int64)
		out := make([]V, len(src))
		for i, v := range src {
			out[i] = V(v)
		}
		return out
	case Float32:
		src := s.([]float32)
		out := make([]V, len(src))
		for i, v := range src {
			out[i] = V(v)
		}
		return out
	case Float64:
		src := s.([]float64)
		out := make([]V, len(src))
		for i, v := range src {
			out[i] = V(v)
		}
		return out
	default:
		panic("topn: unreachable value kind")
	}
}

func toMatrix[I Index, V Number](m AnyMatrix) *Matrix[I, V] {
	return &Matrix[I, V]{
		Nrows:   m.Nrows,
		Ncols:   m.Ncols,
		Indptr:  widenIndexSlice[I](m.Indptr, m.IndexKind),
		Indices: widenIndexSlice[I](m.Indices, m.IndexKind),
		Data:    widenValueSlice[V](m.Data, m.ValueKind),
	}
}

func fromMatrix[I Index, V Number](m *Matrix[I, V], vk ValueKind, ik IndexKind) AnyMatrix {
	return AnyMatrix{
		Nrows:     m.Nrows,
		Ncols:     m.Ncols,
		ValueKind: vk,
		IndexKind: ik,
		Indptr:    m.Indptr,
		Indices:   m.Indices,
		Data:      m.Data,
	}
}

// resolveValueKind implements the promotion rule: identical kinds pass
// through; same-family kinds of differing width (int32/int64, or
// float32/float64) promote to the wider of the two; mixing families
// (int vs float) is a type error.
func resolveValueKind(a, b ValueKind) (ValueKind, error) {
	if a == b {
		return a, nil
	}
	if a.isInt() != b.isInt() {
		return 0, fmt.Errorf("%w: cannot mix %v and %v", ErrTypeMismatch, a, b)
	}
	if a.isInt() {
		return Int64, nil
	}
	return Float64, nil
}

// resolveIndexKind picks the narrowest safe index width: requested (the
// wider of the two inputs' own IndexKind, and any explicit minimum the
// caller asked for) unless any given dimension could overflow a 32-bit
// index, in which case it is widened to 64-bit regardless of request.
func resolveIndexKind(requested IndexKind, dims ...int) IndexKind {
	if requested == Index64 {
		return Index64
	}
	for _, d := range dims {
		if d > math.MaxInt32 {
			return Index64
		}
	}
	return Index32
}

func maxIndexKind(a, b IndexKind) IndexKind {
	if a == Index64 || b == Index64 {
		return Index64
	}
	return Index32
}

// MatMul computes the plain, unpruned sparse product C = A*B (op_matmul),
// dispatching to the correctly-instantiated MatMulGeneric after resolving
// value-type promotion and index width.
func MatMul(a, b AnyMatrix) (AnyMatrix, error) {
	vk, err := resolveValueKind(a.ValueKind, b.ValueKind)
	if err != nil {
		return AnyMatrix{}, err
	}
	ik := resolveIndexKind(maxIndexKind(a.IndexKind, b.IndexKind), a.Nrows, a.Ncols, b.Nrows, b.Ncols)

	switch ik {
	case Index32:
		switch vk {
		case Int32:
			return matMulAny[int32, int32](a, b, vk, ik)
		case Int64:
			return matMulAny[int32, int64](a, b, vk, ik)
		case Float32:
			return matMulAny[int32, float32](a, b, vk, ik)
		case Float64:
			return matMulAny[int32, float64](a, b, vk, ik)
		}
	case Index64:
		switch vk {
		case Int32:
			return matMulAny[int64, int32](a, b, vk, ik)
		case Int64:
			return matMulAny[int64, int64](a, b, vk, ik)
		case Float32:
			return matMulAny[int64, float32](a, b, vk, ik)
		case Float64:
			return matMulAny[int64, float64](a, b, vk, ik)
		}
	}
	return AnyMatrix{}, ErrUnsupportedType
}

func matMulAny[I Index, V Number](a, b AnyMatrix, vk ValueKind, ik IndexKind) (AnyMatrix, error) {
	ga := toMatrix[I, V](a)
	gb := toMatrix[I, V](b)
	res, err := MatMulGeneric(ga, gb)
	if err != nil {
		return AnyMatrix{}, err
	}
	return fromMatrix(res, vk, ik), nil
}

// MatMulTopN computes C = A*B and retains at most opts.TopN entries per row
// (op_matmul_topn), dispatching to the correctly-instantiated
// MatMulTopNGeneric.
func MatMulTopN(a, b AnyMatrix, opts DynamicOptions) (AnyMatrix, error) {
	vk, err := resolveValueKind(a.ValueKind, b.ValueKind)
	if err != nil {
		return AnyMatrix{}, err
	}
	worstNNZ := opts.TopN * a.Nrows
	ik := resolveIndexKind(maxIndexKind(opts.IndexDtype, maxIndexKind(a.IndexKind, b.IndexKind)),
		a.Nrows, a.Ncols, b.Nrows, b.Ncols, worstNNZ)

	switch ik {
	case Index32:
		switch vk {
		case Int32:
			return matMulTopNAny[int32, int32](a, b, opts, vk, ik)
		case Int64:
			return matMulTopNAny[int32, int64](a, b, opts, vk, ik)
		case Float32:
			return matMulTopNAny[int32, float32](a, b, opts, vk, ik)
		case Float64:
			return matMulTopNAny[int32, float64](a, b, opts, vk, ik)
		}
	case Index64:
		switch vk {
		case Int32:
			return matMulTopNAny[int64, int32](a, b, opts, vk, ik)
		case Int64:
			return matMulTopNAny[int64, int64](a, b, opts, vk, ik)
		case Float32:
			return matMulTopNAny[int64, float32](a, b, opts, vk, ik)
		case Float64:
			return matMulTopNAny[int64, float64](a, b, opts, vk, ik)
		}
	}
	return AnyMatrix{}, ErrUnsupportedType
}

func matMulTopNAny[I Index, V Number](a, b AnyMatrix, opts DynamicOptions, vk ValueKind, ik IndexKind) (AnyMatrix, error) {
	ga := toMatrix[I, V](a)
	gb := toMatrix[I, V](b)

	gopts := Options[V]{
		TopN:         opts.TopN,
		Sort:         opts.Sort,
		Density:      opts.Density,
		NThreads:     opts.NThreads,
		MaxOutputNNZ: opts.MaxOutputNNZ,
		RowRange:     opts.RowRange,
	}
	if opts.Threshold != nil {
		t := V(*opts.Threshold)
		gopts.Threshold = &t
	}

	res, err := MatMulTopNGeneric(ga, gb, gopts)
	if err != nil {
		return AnyMatrix{}, err
	}
	return fromMatrix(res, vk, ik), nil
}

// Zip merges column-partitioned top-n partial results into a single top-n
// result (op_zip), dispatching to the correctly-instantiated ZipGeneric.
// sorted should be true if any of parts was produced with Sort == true.
func Zip(topN int, parts []AnyMatrix, sorted bool) (AnyMatrix, error) {
	if len(parts) == 0 {
		return AnyMatrix{}, fmt.Errorf("%w: zip requires at least one partial result", ErrInvalidArgument)
	}

	vk := parts[0].ValueKind
	ik := parts[0].IndexKind
	for _, p := range parts[1:] {
		var err error
		vk, err = resolveValueKind(vk, p.ValueKind)
		if err != nil {
			return AnyMatrix{}, err
		}
		ik = maxIndexKind(ik, p.IndexKind)
	}
	// The merged result's column count is the sum of every part's Ncols
	// (ZipGeneric offsets each part by the running total), not any single
	// part's own Ncols, so the overflow check must be against that sum.
	dims := make([]int, 0, len(parts)+2)
	mergedNcols := 0
	for _, p := range parts {
		dims = append(dims, p.Nrows)
		mergedNcols += p.Ncols
	}
	dims = append(dims, mergedNcols, topN*parts[0].Nrows)
	ik = resolveIndexKind(ik, dims...)

	switch ik {
	case Index32:
		switch vk {
		case Int32:
			return zipAny[int32, int32](topN, parts, sorted, vk, ik)
		case Int64:
			return zipAny[int32, int64](topN, parts, sorted, vk, ik)
		case Float32:
			return zipAny[int32, float32](topN, parts, sorted, vk, ik)
		case Float64:
			return zipAny[int32, float64](topN, parts, sorted, vk, ik)
		}
	case Index64:
		switch vk {
		case Int32:
			return zipAny[int64, int32](topN, parts, sorted, vk, ik)
		case Int64:
			return zipAny[int64, int64](topN, parts, sorted, vk, ik)
		case Float32:
			return zipAny[int64, float32](topN, parts, sorted, vk, ik)
		case Float64:
			return zipAny[int64, float64](topN, parts, sorted, vk, ik)
		}
	}
	return AnyMatrix{}, ErrUnsupportedType
}

func zipAny[I Index, V Number](topN int, parts []AnyMatrix, sorted bool, vk ValueKind, ik IndexKind) (AnyMatrix, error) {
	gparts := make([]*Matrix[I, V], len(parts))
	for i, p := range parts {
		gparts[i] = toMatrix[I, V](p)
	}
	res, err := ZipGeneric(topN, gparts, sorted)
	if err != nil {
		return AnyMatrix{}, err
	}
	return fromMatrix(res, vk, ik), nil
}
