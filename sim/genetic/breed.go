package genetic

import (
	"math"
	"math/rand"

	"github.com/inference-sim/krpsim/sim"
)

// selectionEpsilon keeps the lowest-scored parent candidate drawable.
const selectionEpsilon = 1e-6

// EliteCount is the number of top Individuals carried over unchanged:
// fraction of n, at least 1.
func EliteCount(n int, fraction float64) int {
	return clampCount(int(float64(n)*fraction), 1, n)
}

// ParentCount is the size of the parent pool: fraction of n, at least 2.
func ParentCount(n int, fraction float64) int {
	return clampCount(int(float64(n)*fraction), 2, n)
}

func clampCount(c, lo, n int) int {
	if c < lo {
		c = lo
	}
	if c > n {
		c = n
	}
	return c
}

// SelectionWeights shifts scores so the lowest finite one gets
// selectionEpsilon. Unscored (infinite) entries get 0.
func SelectionWeights(scores []float64) []float64 {
	lowest := math.Inf(1)
	for _, s := range scores {
		if !math.IsInf(s, 0) && s < lowest {
			lowest = s
		}
	}
	weights := make([]float64, len(scores))
	for i, s := range scores {
		if math.IsInf(s, 0) {
			continue
		}
		weights[i] = s - lowest + selectionEpsilon
	}
	return weights
}

// SelectParents draws two distinct indices with score-proportional
// probability. scores must hold at least two entries.
func SelectParents(rng *rand.Rand, scores []float64) (int, int) {
	weights := SelectionWeights(scores)
	a := sim.WeightedIndex(rng, weights)
	b := sim.WeightedIndexExcluding(rng, weights, a)
	return a, b
}

// Crossover builds a child taking each dimension from a or b with equal
// probability. Both parents must share one Layout.
func Crossover(rng *rand.Rand, a, b *sim.Weights) *sim.Weights {
	child := a.Clone()
	for i := 0; i < child.Len(); i++ {
		if rng.Intn(2) == 1 {
			child.SetAt(i, b.At(i))
		}
	}
	return child
}

// Mutate perturbs each dimension with probability rate by a uniform
// offset in [-delta, delta]. Results are clamped to the weight range.
func Mutate(rng *rand.Rand, w *sim.Weights, rate, delta float64) {
	for i := 0; i < w.Len(); i++ {
		if rng.Float64() < rate {
			w.SetAt(i, w.At(i)+(rng.Float64()*2-1)*delta)
		}
	}
}
