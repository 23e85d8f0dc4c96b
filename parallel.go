package topn

import (
	"runtime"

	"github.com/dedupeio/topnmatmul/internal/workerpool"
)

// resolveWorkerCount translates the Options.NThreads convention (-1 = all
// logical CPUs minus one, clamped to nrows) into an actual worker count.
// Callers of this function have already excluded NThreads == 0 (sequential).
func resolveWorkerCount(nThreads, nrows int) int {
	var n int
	if nThreads == -1 {
		n = runtime.NumCPU() - 1
		if n < 1 {
			n = 1
		}
	} else {
		n = nThreads
	}
	if n > nrows {
		n = nrows
	}
	if n < 1 {
		n = 1
	}
	return n
}

// matMulTopNParallel partitions [rowStart, rowEnd) of A into contiguous,
// disjoint row ranges, one per worker. Each worker owns its own accumulator
// scratch and its own growing output buffer for the duration of the call —
// no locks or atomics are needed in the row loop, since no worker reads or
// writes another's state. After the fork-join, a prefix sum over the
// per-worker row counts gives the global indptr, and each worker's
// indices/data are copied into the global buffers at the computed offset.
//
// Row r of the output corresponds to row r of A regardless of worker count:
// the accumulation and tie-breaking order within a row is identical to the
// sequential driver, so results are thread-count invariant.
func matMulTopNParallel[I Index, V Number](a, b *Matrix[I, V], opts Options[V], rowStart, rowEnd int) (*Matrix[I, V], error) {
	nrows := rowEnd - rowStart
	workers := resolveWorkerCount(opts.NThreads, nrows)
	if workers <= 1 {
		return matMulTopNSequential(a, b, opts, rowStart, rowEnd)
	}

	pool := workerpool.New(workers)
	defer pool.Close()

	partials := make([]*Matrix[I, V], workers)
	density := opts.resolvedDensity()
	threshold := opts.resolvedThreshold()

	pool.ParallelForIndexed(nrows, func(chunkIdx, lo, hi int) {
		acc := newSPA[I, V](b.Ncols)
		defer acc.close()
		sel := newSelector[I, V](opts.TopN, threshold)

		chunkRows := hi - lo
		initCap := initialCapacity(density, opts.TopN, chunkRows)
		buf := newOutputBuffer[I, V](chunkRows, initCap)

		for i := lo; i < hi; i++ {
			aInd, aData := a.row(rowStart + i)
			touched := acc.accumulateRow(aInd, aData, b)
			sel.reset()
			for _, j := range touched {
				sel.offer(j, acc.scratch[j])
			}
			entries := sel.drain(opts.Sort)
			buf.appendRow(i-lo, entries)
			acc.reset()
		}
		partials[chunkIdx] = buf.finish(chunkRows, b.Ncols)
	})

	return concatenate(partials, nrows, b.Ncols), nil
}

// concatenate merges per-worker partial CSR results, in row order, into a
// single result: a prefix sum over each partial's row-counts gives the
// global indptr, then each partial's indices/data are copied into the
// global buffers at the computed offset. Because target offsets are known
// up front, the copies below could be parallelised across workers with no
// additional synchronisation; they are done sequentially here since the
// copy itself is cheap relative to the row-accumulation phase it follows.
func concatenate[I Index, V Number](partials []*Matrix[I, V], nrows, ncols int) *Matrix[I, V] {
	totalNNZ := 0
	for _, p := range partials {
		totalNNZ += p.NNZ()
	}

	indptr := make([]I, nrows+1)
	indices := make([]I, totalNNZ)
	data := make([]V, totalNNZ)

	rowOffset := 0
	nnzOffset := 0
	for _, p := range partials {
		for r := 0; r < p.Nrows; r++ {
			indptr[rowOffset+r+1] = I(nnzOffset) + p.Indptr[r+1]
		}
		copy(indices[nnzOffset:], p.Indices)
		copy(data[nnzOffset:], p.Data)
		rowOffset += p.Nrows
		nnzOffset += p.NNZ()
	}

	return &Matrix[I, V]{
		Nrows:   nrows,
		Ncols:   ncols,
		Indptr:  indptr,
		Indices: indices,
		Data:    data,
	}
}
