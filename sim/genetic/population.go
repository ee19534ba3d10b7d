// Package genetic evolves the weight vectors driving sim.Individual runs.
//
// Each generation runs its pending Individuals on a bounded worker pool,
// ranks them by score, carries the elite over unchanged and breeds the
// rest from the best parents by uniform crossover and mutation. The search
// stops at the context deadline and replays the best Individual ever seen
// with tracing enabled.
package genetic

import (
	"cmp"
	"slices"

	"github.com/inference-sim/krpsim/sim"
)

// Population is one generation of Individuals.
type Population struct {
	Members []*sim.Individual
}

// Len returns the population size.
func (p *Population) Len() int {
	return len(p.Members)
}

// Sort orders members by descending score. Unscored members score -Inf
// and end up last. Equal scores keep their relative order.
func (p *Population) Sort() {
	slices.SortStableFunc(p.Members, func(a, b *sim.Individual) int {
		return cmp.Compare(b.Score(), a.Score())
	})
}

// Scores returns the member scores in population order.
func (p *Population) Scores() []float64 {
	scores := make([]float64, len(p.Members))
	for i, m := range p.Members {
		scores[i] = m.Score()
	}
	return scores
}

// Best returns the best scored member, nil when none is scored.
// Call after Sort.
func (p *Population) Best() *sim.Individual {
	for _, m := range p.Members {
		if m.State().Scored() {
			return m
		}
	}
	return nil
}
