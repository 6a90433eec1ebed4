package core

import "testing"

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}
}

func TestEnsureLenGrow(t *testing.T) {
	out := EnsureLen(make([]float64, 1), 5)
	if len(out) != 5 {
		t.Fatalf("len = %d, want 5", len(out))
	}
}

func TestWidenNarrow(t *testing.T) {
	src := []float32{0.5, -0.25, 1}
	wide := make([]float64, 2)

	if n := Widen(wide, src); n != 2 {
		t.Fatalf("Widen n = %d, want 2", n)
	}

	if wide[0] != 0.5 || wide[1] != -0.25 {
		t.Fatalf("unexpected wide: %#v", wide)
	}

	narrow := make([]float32, 3)
	if n := Narrow(narrow, wide); n != 2 {
		t.Fatalf("Narrow n = %d, want 2", n)
	}

	if narrow[0] != 0.5 || narrow[1] != -0.25 || narrow[2] != 0 {
		t.Fatalf("unexpected narrow: %#v", narrow)
	}
}

func TestInterleave(t *testing.T) {
	got := Interleave(nil, [][]float32{{1, 2, 3}, {4, 5}})
	want := []float32{1, 4, 2, 5, 3, 0}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
