package sim

import "math/rand"

// WeightedIndex draws an index with probability proportional to its weight.
// Non-positive weights are never drawn, unless every weight is
// non-positive, in which case the draw is uniform. Returns -1 for an
// empty slice.
func WeightedIndex(rng *rand.Rand, weights []float64) int {
	if len(weights) == 0 {
		return -1
	}
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	pick := rng.Float64() * total
	partial := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		partial += w
		last = i
		if pick < partial {
			return i
		}
	}
	// float rounding can leave pick == total
	return last
}

// WeightedIndexExcluding draws like WeightedIndex but never returns skip.
// Returns -1 when no other index exists.
func WeightedIndexExcluding(rng *rand.Rand, weights []float64, skip int) int {
	if skip < 0 || skip >= len(weights) {
		return WeightedIndex(rng, weights)
	}
	if len(weights) < 2 {
		return -1
	}
	rest := make([]float64, 0, len(weights)-1)
	rest = append(rest, weights[:skip]...)
	rest = append(rest, weights[skip+1:]...)
	i := WeightedIndex(rng, rest)
	if i >= skip {
		i++
	}
	return i
}
