package topn

import "fmt"

// Options configures MatMulTopNGeneric (and, via the dynamic wrapper in
// dtype.go, MatMulTopN).
type Options[V Number] struct {
	// TopN is the maximum number of entries retained per output row. Must
	// be positive; values >= Ncols of B are clamped to Ncols.
	TopN int

	// Threshold, if non-nil, discards entries not strictly greater than
	// *Threshold. The zero value (nil) defaults to the most negative
	// finite value of V, so every finite entry except that minimum passes.
	Threshold *V

	// Sort requests strictly-descending-by-value emission per row (ties
	// broken by ascending column). When false, emission order is
	// heap-internal and deterministic but not contractually ordered.
	Sort bool

	// Density estimates, as a fraction in (0,1], the proportion of the
	// worst-case output (TopN*Nrows) actually produced; it only sizes the
	// initial output buffers. The zero value defaults to 1.0.
	Density float64

	// NThreads selects the parallel driver: 0 (the zero value) runs
	// sequentially, -1 uses all logical CPUs minus one, and any other
	// positive value is clamped to Nrows.
	NThreads int

	// MaxOutputNNZ, if positive, rejects calls whose worst-case output
	// (TopN*Nrows) would exceed it, before any buffer is allocated. Zero
	// means no limit.
	MaxOutputNNZ int

	// RowRange restricts computation to rows [RowRange[0], RowRange[1]) of
	// A; the returned matrix then has RowRange[1]-RowRange[0] rows. The
	// zero value ([2]int{0, 0}) means all rows of A.
	RowRange [2]int
}

func (o Options[V]) resolvedDensity() float64 {
	if o.Density == 0 {
		return 1.0
	}
	return o.Density
}

func (o Options[V]) resolvedThreshold() V {
	if o.Threshold != nil {
		return *o.Threshold
	}
	return minFinite[V]()
}

func (o Options[V]) rowRange(nrows int) (int, int) {
	if o.RowRange[0] == 0 && o.RowRange[1] == 0 {
		return 0, nrows
	}
	return o.RowRange[0], o.RowRange[1]
}

// validateOptions checks the Options invariants and clamps TopN to ncols.
func validateOptions[V Number](o Options[V], ncols int) (Options[V], error) {
	if o.TopN <= 0 {
		return o, fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidArgument, o.TopN)
	}
	if o.Density < 0 || o.Density > 1 {
		return o, fmt.Errorf("%w: density must be in (0,1], got %v", ErrInvalidArgument, o.Density)
	}
	if o.NThreads < -1 {
		return o, fmt.Errorf("%w: n_threads must be >= -1, got %d", ErrInvalidArgument, o.NThreads)
	}
	if o.TopN > ncols {
		o.TopN = ncols
	}
	return o, nil
}

// checkShape validates that A and B can be multiplied (A.Ncols == B.Nrows).
// The shape rule that transposes B when A.Ncols == B.Ncols instead is a
// host-adapter concern and is not applied here.
func checkShape[I Index, V Number](a, b *Matrix[I, V]) error {
	if a.Ncols != b.Nrows {
		return fmt.Errorf("%w: A is %dx%d, B is %dx%d", ErrShapeMismatch, a.Nrows, a.Ncols, b.Nrows, b.Ncols)
	}
	return nil
}

// checkFeasible rejects a call whose worst-case output size would exceed
// maxOutputNNZ, before any output buffer is allocated.
func checkFeasible(nrows, topN, maxOutputNNZ int) error {
	if maxOutputNNZ <= 0 {
		return nil
	}
	worst := nrows * topN
	if worst > maxOutputNNZ {
		return fmt.Errorf("%w: worst case %d entries (top_n=%d * nrows=%d) exceeds limit %d", ErrOutOfMemory, worst, topN, nrows, maxOutputNNZ)
	}
	return nil
}

func emptyResult[I Index, V Number](nrows, ncols int) *Matrix[I, V] {
	return &Matrix[I, V]{
		Nrows:  nrows,
		Ncols:  ncols,
		Indptr: make([]I, nrows+1),
	}
}

// MatMulGeneric computes the plain, unpruned sparse product C = A*B
// (op_matmul). It shares the row accumulator with MatMulTopNGeneric but
// drains every touched column straight to the output buffer, with no
// selector pass.
func MatMulGeneric[I Index, V Number](a, b *Matrix[I, V]) (*Matrix[I, V], error) {
	if err := checkShape(a, b); err != nil {
		return nil, err
	}
	if a.NNZ() == 0 || b.NNZ() == 0 {
		return emptyResult[I, V](a.Nrows, b.Ncols), nil
	}

	acc := newSPA[I, V](b.Ncols)
	defer acc.close()

	buf := newOutputBuffer[I, V](a.Nrows, a.NNZ())
	entries := make([]entry[I, V], 0, 64)
	for i := 0; i < a.Nrows; i++ {
		aInd, aData := a.row(i)
		touched := acc.accumulateRow(aInd, aData, b)
		entries = entries[:0]
		for _, j := range touched {
			entries = append(entries, entry[I, V]{col: j, val: acc.scratch[j]})
		}
		buf.appendRow(i, entries)
		acc.reset()
	}
	return buf.finish(a.Nrows, b.Ncols), nil
}

// MatMulTopNGeneric computes C = A*B (op_matmul_topn) and retains at most
// opts.TopN entries per row, running sequentially or in parallel depending
// on opts.NThreads.
func MatMulTopNGeneric[I Index, V Number](a, b *Matrix[I, V], opts Options[V]) (*Matrix[I, V], error) {
	if err := checkShape(a, b); err != nil {
		return nil, err
	}
	opts, err := validateOptions(opts, b.Ncols)
	if err != nil {
		return nil, err
	}
	rowStart, rowEnd := opts.rowRange(a.Nrows)
	if rowStart < 0 || rowEnd > a.Nrows || rowStart > rowEnd {
		return nil, fmt.Errorf("%w: row range [%d,%d) invalid for %d rows", ErrInvalidArgument, rowStart, rowEnd, a.Nrows)
	}

	if err := checkFeasible(rowEnd-rowStart, opts.TopN, opts.MaxOutputNNZ); err != nil {
		return nil, err
	}

	if a.NNZ() == 0 || b.NNZ() == 0 {
		return emptyResult[I, V](rowEnd-rowStart, b.Ncols), nil
	}

	if opts.NThreads != 0 && rowEnd-rowStart > 1 {
		return matMulTopNParallel(a, b, opts, rowStart, rowEnd)
	}
	return matMulTopNSequential(a, b, opts, rowStart, rowEnd)
}

// matMulTopNSequential is the row-at-a-time driver: reset scratch,
// accumulate, select, emit, record indptr[i+1].
func matMulTopNSequential[I Index, V Number](a, b *Matrix[I, V], opts Options[V], rowStart, rowEnd int) (*Matrix[I, V], error) {
	nrows := rowEnd - rowStart
	threshold := opts.resolvedThreshold()
	acc := newSPA[I, V](b.Ncols)
	defer acc.close()
	sel := newSelector[I, V](opts.TopN, threshold)

	initCap := initialCapacity(opts.resolvedDensity(), opts.TopN, nrows)
	buf := newOutputBuffer[I, V](nrows, initCap)

	for i := rowStart; i < rowEnd; i++ {
		aInd, aData := a.row(i)
		touched := acc.accumulateRow(aInd, aData, b)
		sel.reset()
		for _, j := range touched {
			sel.offer(j, acc.scratch[j])
		}
		entries := sel.drain(opts.Sort)
		buf.appendRow(i-rowStart, entries)
		acc.reset()
	}
	return buf.finish(nrows, b.Ncols), nil
}
