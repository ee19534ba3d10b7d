package genetic

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEliteAndParentCounts(t *testing.T) {
	tests := []struct {
		n, elite, parent int
	}{
		{n: 100, elite: 5, parent: 20},
		{n: 10, elite: 1, parent: 2},
		{n: 2, elite: 1, parent: 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.elite, EliteCount(tt.n, 0.05), "elite of %d", tt.n)
		assert.Equal(t, tt.parent, ParentCount(tt.n, 0.2), "parents of %d", tt.n)
	}
}

func TestSelectionWeights_ShiftsAndSkipsUnscored(t *testing.T) {
	w := SelectionWeights([]float64{10, 4, math.Inf(-1)})
	assert.InDelta(t, 6+selectionEpsilon, w[0], 1e-12)
	assert.InDelta(t, selectionEpsilon, w[1], 1e-12)
	assert.Zero(t, w[2])
}

func TestSelectParents_AlwaysDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	scores := []float64{2000, 1000, 1000, 5}
	for i := 0; i < 500; i++ {
		a, b := SelectParents(rng, scores)
		if a == b {
			t.Fatalf("draw %d: same parent %d twice", i, a)
		}
	}
	// equal scores still give two distinct parents
	a, b := SelectParents(rng, []float64{1, 1})
	assert.NotEqual(t, a, b)
}

func TestCrossover_GenesComeFromParents(t *testing.T) {
	// GIVEN two parents with disjoint values
	rng := rand.New(rand.NewSource(3))
	a := testWeights(t, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1)
	b := a.Clone()
	for i := 0; i < b.Len(); i++ {
		b.SetAt(i, 0.9)
	}

	// WHEN crossing over many times
	fromA, fromB := 0, 0
	for n := 0; n < 50; n++ {
		child := Crossover(rng, a, b)
		for i := 0; i < child.Len(); i++ {
			switch child.At(i) {
			case a.At(i):
				fromA++
			case b.At(i):
				fromB++
			default:
				t.Fatalf("gene %d = %v comes from neither parent", i, child.At(i))
			}
		}
	}

	// THEN both parents contribute and the parents are untouched
	assert.Greater(t, fromA, 100)
	assert.Greater(t, fromB, 100)
	assert.Equal(t, 0.1, a.At(0))
	assert.Equal(t, 0.9, b.At(0))
}

func TestMutate_StaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	w := testWeights(t, 0, 1, 0.5, 0.02, 0.98)
	for n := 0; n < 200; n++ {
		Mutate(rng, w, 1, 0.5)
		for i := 0; i < w.Len(); i++ {
			v := w.At(i)
			if v < 0 || v > 1 {
				t.Fatalf("weight %d = %v out of [0,1]", i, v)
			}
		}
	}
}

func TestMutate_ZeroRateIsNoop(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	w := testWeights(t, 0.3, 0.6)
	orig := w.Clone()
	Mutate(rng, w, 0, 0.05)
	assert.True(t, w.Equal(orig))
}

func TestMutate_BoundedDelta(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	w := testWeights(t, 0.5, 0.5, 0.5)
	Mutate(rng, w, 1, 0.05)
	for i := 0; i < w.Len(); i++ {
		assert.InDelta(t, 0.5, w.At(i), 0.05+1e-12)
	}
}
