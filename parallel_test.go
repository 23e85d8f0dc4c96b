package topn

import (
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestResolveWorkerCount(t *testing.T) {
	tests := []struct {
		nThreads, nrows, want int
	}{
		{4, 10, 4},
		{20, 10, 10}, // clamped to nrows
		{-1, 1000, -1},
	}
	for _, tt := range tests {
		got := resolveWorkerCount(tt.nThreads, tt.nrows)
		if tt.nThreads == -1 {
			if got < 1 || got > tt.nrows {
				t.Errorf("resolveWorkerCount(-1, %d) = %d, out of range", tt.nrows, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("resolveWorkerCount(%d, %d) = %d, want %d", tt.nThreads, tt.nrows, got, tt.want)
		}
	}
}

func TestMatMulTopNGenericThreadCountInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := randomMatrix(rng, 37, 25, 0.2, true)
	b := randomMatrix(rng, 25, 19, 0.2, true)

	var reference *mat.Dense
	for _, nThreads := range []int{0, 1, 2, 5, 37, -1} {
		c, err := MatMulTopNGeneric(a, b, Options[float64]{TopN: 3, Sort: true, NThreads: nThreads})
		if err != nil {
			t.Fatalf("NThreads=%d: MatMulTopNGeneric() error = %v", nThreads, err)
		}
		dense := toDense(c)
		if reference == nil {
			reference = dense
			continue
		}
		if !mat.Equal(reference, dense) {
			t.Errorf("NThreads=%d produced a different result than the sequential baseline", nThreads)
		}
	}
}

func TestMatMulTopNGenericParallelRowCountNotDivisibleByWorkers(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := randomMatrix(rng, 5, 4, 0.5, false)
	b := randomMatrix(rng, 4, 4, 0.5, false)

	seq, err := MatMulTopNGeneric(a, b, Options[float64]{TopN: 2, Sort: true})
	if err != nil {
		t.Fatalf("sequential MatMulTopNGeneric() error = %v", err)
	}
	par, err := MatMulTopNGeneric(a, b, Options[float64]{TopN: 2, Sort: true, NThreads: 4})
	if err != nil {
		t.Fatalf("parallel MatMulTopNGeneric() error = %v", err)
	}
	if !mat.Equal(toDense(seq), toDense(par)) {
		t.Errorf("5 rows over 4 workers: parallel result differs from sequential")
	}
}

func TestConcatenatePreservesRowOrder(t *testing.T) {
	p0 := NewMatrix[int32, float64](2, 3, []int32{0, 1, 1}, []int32{0}, []float64{1})
	p1 := NewMatrix[int32, float64](1, 3, []int32{0, 2}, []int32{1, 2}, []float64{2, 3})

	c := concatenate([]*Matrix[int32, float64]{p0, p1}, 3, 3)
	if c.Nrows != 3 || c.NNZ() != 3 {
		t.Fatalf("concatenate() = %+v, want 3 rows and 3 nnz", c)
	}
	if ind, data := c.row(0); len(ind) != 1 || ind[0] != 0 || data[0] != 1 {
		t.Errorf("row 0 = (%v, %v), want ([0], [1])", ind, data)
	}
	if ind, _ := c.row(1); len(ind) != 0 {
		t.Errorf("row 1 = %v, want empty", ind)
	}
	if ind, data := c.row(2); len(ind) != 2 || ind[0] != 1 || ind[1] != 2 || data[0] != 2 || data[1] != 3 {
		t.Errorf("row 2 = (%v, %v), want ([1 2], [2 3])", ind, data)
	}
}
