package topn

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// randomMatrix builds an nrows x ncols CSR matrix with density fraction of
// cells non-zero, values in [0,1). Adapted from the teacher library's
// COO-based Random helper, but emits CSR directly and, when allowDup is
// true, deliberately leaves some rows with unsorted and duplicated column
// indices so tests exercise the accumulator's tolerance for both.
func randomMatrix(rng *rand.Rand, nrows, ncols int, density float64, allowDup bool) *Matrix[int32, float64] {
	indptr := make([]int32, nrows+1)
	var indices []int32
	var data []float64

	for r := 0; r < nrows; r++ {
		seen := map[int]bool{}
		for c := 0; c < ncols; c++ {
			if rng.Float64() < density {
				indices = append(indices, int32(c))
				data = append(data, rng.Float64())
				seen[c] = true
			}
		}
		if allowDup && len(seen) > 0 && rng.Float64() < 0.3 {
			for c := range seen {
				indices = append(indices, int32(c))
				data = append(data, rng.Float64())
				break
			}
		}
		indptr[r+1] = int32(len(indices))
	}
	return NewMatrix[int32, float64](nrows, ncols, indptr, indices, data)
}

// toDense materialises a Matrix[int32, float64] as a gonum dense matrix,
// summing duplicate column entries within a row the same way the kernel
// does, so it can serve as an oracle for MatMul.
func toDense(m *Matrix[int32, float64]) *mat.Dense {
	d := mat.NewDense(m.Nrows, m.Ncols, nil)
	for r := 0; r < m.Nrows; r++ {
		ind, data := m.row(r)
		for k, j := range ind {
			d.Set(r, int(j), d.At(r, int(j))+data[k])
		}
	}
	return d
}
