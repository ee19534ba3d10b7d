package sim

import (
	"math/rand"
	"testing"
)

func TestWeightedIndex_EdgeCases(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if got := WeightedIndex(rng, nil); got != -1 {
		t.Errorf("empty weights: got %d, want -1", got)
	}
	for i := 0; i < 50; i++ {
		if got := WeightedIndex(rng, []float64{0, 0.5, -1, 0}); got != 1 {
			t.Fatalf("only index 1 is positive, got %d", got)
		}
	}
}

func TestWeightedIndex_AllNonPositive_IsUniform(t *testing.T) {
	// GIVEN weights that are all zero or negative
	rng := rand.New(rand.NewSource(3))
	counts := make([]int, 3)

	// WHEN drawing many times
	for i := 0; i < 3000; i++ {
		counts[WeightedIndex(rng, []float64{0, -1, 0})]++
	}

	// THEN every index is drawn
	for i, c := range counts {
		if c < 800 {
			t.Errorf("index %d drawn %d times out of 3000, expected roughly uniform", i, c)
		}
	}
}

func TestWeightedIndex_Proportional(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	counts := make([]int, 2)
	for i := 0; i < 10000; i++ {
		counts[WeightedIndex(rng, []float64{1, 3})]++
	}
	ratio := float64(counts[1]) / float64(counts[0])
	if ratio < 2.6 || ratio > 3.4 {
		t.Errorf("ratio = %.2f, want about 3", ratio)
	}
}

func TestWeightedIndexExcluding(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	if got := WeightedIndexExcluding(rng, []float64{1}, 0); got != -1 {
		t.Errorf("single weight excluded: got %d, want -1", got)
	}
	for i := 0; i < 200; i++ {
		got := WeightedIndexExcluding(rng, []float64{1, 1, 1}, 1)
		if got == 1 || got < 0 || got > 2 {
			t.Fatalf("excluded index or out of range drawn: %d", got)
		}
	}
	// skip out of range behaves like WeightedIndex
	if got := WeightedIndexExcluding(rng, []float64{0, 1}, 7); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}
