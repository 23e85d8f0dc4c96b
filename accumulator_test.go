package topn

import "testing"

func TestAccumulateRowSumsContributions(t *testing.T) {
	b := NewMatrix[int32, float64](2, 3,
		[]int32{0, 2, 3},
		[]int32{0, 1, 1},
		[]float64{4, 5, 7},
	)
	acc := newSPA[int32, float64](3)
	defer acc.close()

	aInd := []int32{0, 1}
	aData := []float64{1.0, 2.0}
	touched := acc.accumulateRow(aInd, aData, b)

	got := map[int32]float64{}
	for _, j := range touched {
		got[j] = acc.scratch[j]
	}
	want := map[int32]float64{0: 4, 1: 5 + 2*7}
	for col, v := range want {
		if got[col] != v {
			t.Errorf("scratch[%d] = %v, want %v", col, got[col], v)
		}
	}
	if len(got) != len(want) {
		t.Errorf("touched columns = %v, want exactly %v", touched, want)
	}
}

func TestAccumulateRowToleratesDuplicateAndUnsortedInput(t *testing.T) {
	b := NewMatrix[int32, float64](1, 2,
		[]int32{0, 2},
		[]int32{1, 0},
		[]float64{10, 3},
	)
	acc := newSPA[int32, float64](2)
	defer acc.close()

	// A's row lists column 0 twice and B's row 0 lists its columns out of
	// order; both contributions to B's row 0 must be summed.
	aInd := []int32{0, 0}
	aData := []float64{2.0, 3.0}
	touched := acc.accumulateRow(aInd, aData, b)

	if len(touched) != 2 {
		t.Fatalf("touched = %v, want 2 columns", touched)
	}
	sum := map[int32]float64{}
	for _, j := range touched {
		sum[j] = acc.scratch[j]
	}
	if sum[1] != 5*10 {
		t.Errorf("scratch[1] = %v, want %v", sum[1], 5*10)
	}
	if sum[0] != 5*3 {
		t.Errorf("scratch[0] = %v, want %v", sum[0], 5*3)
	}
}

func TestAccumulateResetClearsTouched(t *testing.T) {
	b := NewMatrix[int32, float64](1, 2, []int32{0, 1}, []int32{0}, []float64{9})
	acc := newSPA[int32, float64](2)
	defer acc.close()

	acc.accumulateRow([]int32{0}, []float64{1}, b)
	acc.reset()
	if len(acc.touched) != 0 {
		t.Fatalf("touched after reset = %v, want empty", acc.touched)
	}
	if acc.mark[0] {
		t.Error("mark[0] still set after reset")
	}
	if acc.scratch[0] != 0 {
		t.Errorf("scratch[0] after reset = %v, want 0", acc.scratch[0])
	}
}
