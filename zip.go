package topn

import "fmt"

// ZipGeneric merges column-partitioned top-n partial results
// parts[0],...,parts[m-1] — each the MatMulTopNGeneric result of A against
// a disjoint column slice B_i, with at most topN entries per row — into the
// single top-n result equivalent to running MatMulTopNGeneric against the
// horizontal concatenation of the B_i (op_zip). Each part keeps its own
// column numbering; Zip offsets them by the cumulative column count of the
// parts before it so the merged columns line up with that concatenation.
//
// sorted should be true if any part was produced with Options.Sort == true;
// the caller is responsible for that consistency, matching op_zip's
// contract.
func ZipGeneric[I Index, V Number](topN int, parts []*Matrix[I, V], sorted bool) (*Matrix[I, V], error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidArgument, topN)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: zip requires at least one partial result", ErrInvalidArgument)
	}

	nrows := parts[0].Nrows
	ncols := 0
	offsets := make([]I, len(parts))
	for i, p := range parts {
		if p.Nrows != nrows {
			return nil, fmt.Errorf("%w: part %d has %d rows, want %d", ErrShapeMismatch, i, p.Nrows, nrows)
		}
		offsets[i] = I(ncols)
		ncols += p.Ncols
	}

	threshold := minFinite[V]()
	sel := newSelector[I, V](topN, threshold)
	buf := newOutputBuffer[I, V](nrows, initialCapacity(1.0, topN, nrows))

	for r := 0; r < nrows; r++ {
		sel.reset()
		for i, p := range parts {
			ind, data := p.row(r)
			offset := offsets[i]
			for k, j := range ind {
				sel.offer(j+offset, data[k])
			}
		}
		buf.appendRow(r, sel.drain(sorted))
	}

	return buf.finish(nrows, ncols), nil
}
