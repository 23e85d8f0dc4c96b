package topn

// spa is a sparse accumulator (Gustavson's scheme): a dense scratch vector
// of length ncols, a touched-column list, and a parallel boolean mask so
// "is j already touched" is an O(1) lookup rather than a linear scan of
// touched. Before each row all touched entries are reset to the additive
// identity and the touched list truncated to zero, giving an O(row-nnz)
// reset instead of an O(ncols) one.
type spa[I Index, V Number] struct {
	scratch []V
	mark    []bool
	touched []I
}

func newSPA[I Index, V Number](ncols int) *spa[I, V] {
	return &spa[I, V]{
		scratch: getScratch[V](ncols),
		mark:    make([]bool, ncols),
		touched: make([]I, 0, 64),
	}
}

// accumulateRow scatters sum_k a[k]*B[k,:] into the scratch vector for one
// row of A, given aInd/aData (the row's own non-zeros, possibly unsorted
// and possibly containing duplicate columns — both are summed correctly by
// this loop) and all of B. It returns the touched-column list, valid until
// reset is called.
func (s *spa[I, V]) accumulateRow(aInd []I, aData []V, b *Matrix[I, V]) []I {
	for k, aj := range aInd {
		av := aData[k]
		bInd, bData := b.row(int(aj))
		for bi, bj := range bInd {
			contrib := av * bData[bi]
			if !s.mark[bj] {
				s.mark[bj] = true
				s.touched = append(s.touched, bj)
				s.scratch[bj] = contrib
			} else {
				s.scratch[bj] += contrib
			}
		}
	}
	return s.touched
}

// reset clears only the touched entries and truncates the touched list,
// ready for the next row.
func (s *spa[I, V]) reset() {
	var zero V
	for _, j := range s.touched {
		s.scratch[j] = zero
		s.mark[j] = false
	}
	s.touched = s.touched[:0]
}

// close returns the scratch vector to its pool. The spa must not be used
// afterwards.
func (s *spa[I, V]) close() {
	putScratch(s.scratch)
}
