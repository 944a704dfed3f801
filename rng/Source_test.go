package rng

import "testing"

func TestNew_SameSeedProducesSameStream(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 20; i++ {
		av := a.Choice(100)
		bv := b.Choice(100)
		if av != bv {
			t.Fatalf("draw %d diverged: %d vs %d", i, av, bv)
		}
	}
}

func TestNew_DifferentSeedsEventuallyDiverge(t *testing.T) {
	a := New(1)
	b := New(2)

	diverged := false
	for i := 0; i < 20; i++ {
		if a.Choice(1_000_000) != b.Choice(1_000_000) {
			diverged = true
			break
		}
	}
	if !diverged {
		t.Fatal("two differently-seeded sources produced 20 identical draws in a row")
	}
}

func TestChoice_StaysInRange(t *testing.T) {
	s := New(7)
	for i := 0; i < 200; i++ {
		v := s.Choice(5)
		if v < 0 || v >= 5 {
			t.Fatalf("Choice(5) = %d, out of range", v)
		}
	}
}

func TestChoice_PanicsOnNonPositiveN(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Choice(0) should panic")
		}
	}()
	New(1).Choice(0)
}
