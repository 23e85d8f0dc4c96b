package topn

import "testing"

func TestInitialCapacityRounding(t *testing.T) {
	if got := initialCapacity(0.5, 10, 4); got != 20 {
		t.Errorf("initialCapacity(0.5, 10, 4) = %d, want 20", got)
	}
	if got := initialCapacity(0.01, 1, 1); got != 1 {
		t.Errorf("initialCapacity(0.01, 1, 1) = %d, want 1 (floored at 1)", got)
	}
}

func TestOutputBufferAppendAndFinish(t *testing.T) {
	buf := newOutputBuffer[int32, float64](2, 1)
	buf.appendRow(0, []entry[int32, float64]{{col: 0, val: 1}, {col: 2, val: 2}})
	buf.appendRow(1, []entry[int32, float64]{{col: 1, val: 3}})

	m := buf.finish(2, 3)
	if m.NNZ() != 3 {
		t.Fatalf("NNZ() = %d, want 3", m.NNZ())
	}
	ind, data := m.row(0)
	if len(ind) != 2 || ind[0] != 0 || ind[1] != 2 || data[0] != 1 || data[1] != 2 {
		t.Errorf("row(0) = (%v, %v), want ([0 2], [1 2])", ind, data)
	}
	ind, data = m.row(1)
	if len(ind) != 1 || ind[0] != 1 || data[0] != 3 {
		t.Errorf("row(1) = (%v, %v), want ([1], [3])", ind, data)
	}
}

func TestOutputBufferGrowsBeyondInitialCapacity(t *testing.T) {
	buf := newOutputBuffer[int32, float64](1, 1)
	entries := make([]entry[int32, float64], 50)
	for i := range entries {
		entries[i] = entry[int32, float64]{col: int32(i), val: float64(i)}
	}
	buf.appendRow(0, entries)

	m := buf.finish(1, 50)
	if m.NNZ() != 50 {
		t.Fatalf("NNZ() = %d, want 50 after growth past initial capacity", m.NNZ())
	}
	ind, _ := m.row(0)
	if ind[49] != 49 {
		t.Errorf("row(0)[49] = %d, want 49", ind[49])
	}
}

func TestOutputBufferEmptyRows(t *testing.T) {
	buf := newOutputBuffer[int32, float64](3, 1)
	buf.appendRow(0, nil)
	buf.appendRow(1, []entry[int32, float64]{{col: 0, val: 1}})
	buf.appendRow(2, nil)

	m := buf.finish(3, 1)
	if m.NNZ() != 1 {
		t.Fatalf("NNZ() = %d, want 1", m.NNZ())
	}
	if ind, _ := m.row(0); len(ind) != 0 {
		t.Errorf("row(0) = %v, want empty", ind)
	}
	if ind, _ := m.row(2); len(ind) != 0 {
		t.Errorf("row(2) = %v, want empty", ind)
	}
}
