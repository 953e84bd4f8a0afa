package core

import "testing"

func TestNewRNGDeterministic(t *testing.T) {
	a := NewRNG(123)
	b := NewRNG(123)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("same seed must replay the same stream")
		}
	}
	if NewRNG(1).Float64() == NewRNG(2).Float64() {
		t.Fatal("different seeds should diverge immediately")
	}
}

func TestWeightedPick(t *testing.T) {
	r := NewRNG(7)

	if got := WeightedPick(r, nil); got != -1 {
		t.Fatalf("empty weights pick = %d, want -1", got)
	}
	if got := WeightedPick(r, []float64{0, 0}); got != -1 {
		t.Fatalf("all-zero weights pick = %d, want -1", got)
	}
	for i := 0; i < 100; i++ {
		if got := WeightedPick(r, []float64{0, 5, 0}); got != 1 {
			t.Fatalf("single positive weight pick = %d, want 1", got)
		}
	}

	// A dominant weight must win most draws.
	counts := [2]int{}
	for i := 0; i < 1000; i++ {
		counts[WeightedPick(r, []float64{9, 1})]++
	}
	if counts[0] < counts[1] {
		t.Fatalf("dominant weight picked %d times vs %d", counts[0], counts[1])
	}
}

func TestWeightedPickSkipsZeroWeightTail(t *testing.T) {
	r := NewRNG(11)
	for i := 0; i < 1000; i++ {
		if got := WeightedPick(r, []float64{3, 1, 0}); got == 2 {
			t.Fatalf("draw %d landed on a zero-weight entry", i)
		}
	}
}

func TestRegister(t *testing.T) {
	name := "test-register-sim"
	Register(name, func(cfg map[string]string) Sim { return nil })
	if _, ok := Sims()[name]; !ok {
		t.Fatal("registered factory must be discoverable")
	}
	Register("", func(cfg map[string]string) Sim { return nil })
	if _, ok := Sims()[""]; ok {
		t.Fatal("empty names must be rejected")
	}
	Register("nil-factory", nil)
	if _, ok := Sims()["nil-factory"]; ok {
		t.Fatal("nil factories must be rejected")
	}
}
