package sim

import (
	"fmt"
	"math/rand"
)

// Policy names.
const (
	PolicyWeightedRandom = "weighted-random"
	PolicyWeightedGreedy = "weighted-greedy"
)

// ValidPolicies is the set of recognized selection policy names.
// Empty string defaults to weighted-random.
var ValidPolicies = map[string]bool{"": true, PolicyWeightedRandom: true, PolicyWeightedGreedy: true}

// IsValidPolicy returns true if name is a recognized selection policy.
func IsValidPolicy(name string) bool {
	return ValidPolicies[name]
}

// Policy decides which launchable process an Individual starts next.
// Implementations must be stateless: one Policy value is shared by every
// Individual of a search, across goroutines.
type Policy interface {
	// Name returns the policy name as accepted by NewPolicy.
	Name() string
	// Dimensions lists the weight dimensions the policy reads for problem.
	Dimensions(problem *Problem) []string
	// Stochastic reports whether Choose draws from rng. Runs of a
	// non-stochastic policy depend on the weights alone.
	Stochastic() bool
	// Choose picks one of candidates, or returns nil to stop launching for
	// the current step. candidates is never empty. canWait is false when
	// nothing is in flight, so holding back could never pay off.
	Choose(candidates []*Process, w *Weights, rng *rand.Rand, canWait bool) *Process
}

// WeightedRandom draws among the candidates and a synthetic "wait" choice
// with probability proportional to their weights. Drawing wait ends the
// launch phase even though processes remain launchable, so the policy can
// hold resources back for later combinations.
type WeightedRandom struct{}

// Name implements Policy.
func (WeightedRandom) Name() string { return PolicyWeightedRandom }

// Stochastic implements Policy.
func (WeightedRandom) Stochastic() bool { return true }

// Dimensions implements Policy: one weight per process plus WaitKey.
func (WeightedRandom) Dimensions(problem *Problem) []string {
	keys := make([]string, 0, len(problem.Processes)+1)
	for _, p := range problem.Processes {
		keys = append(keys, p.Name)
	}
	return append(keys, WaitKey)
}

// Choose implements Policy.
func (WeightedRandom) Choose(candidates []*Process, w *Weights, rng *rand.Rand, canWait bool) *Process {
	weights := make([]float64, len(candidates), len(candidates)+1)
	for i, p := range candidates {
		weights[i] = w.Get(p.Name)
	}
	if canWait {
		weights = append(weights, w.Get(WaitKey))
	}
	idx := WeightedIndex(rng, weights)
	if idx < 0 || idx >= len(candidates) {
		return nil
	}
	return candidates[idx]
}

// WeightedGreedy launches the candidate with the best weighted net
// production per cycle:
//
//	(Σ w[out]·qty − Σ w[in]·qty) / max(delay, 1)
//
// Ties go to the earliest candidate. Nothing is launched when the best
// value is not positive.
type WeightedGreedy struct{}

// Name implements Policy.
func (WeightedGreedy) Name() string { return PolicyWeightedGreedy }

// Stochastic implements Policy.
func (WeightedGreedy) Stochastic() bool { return false }

// Dimensions implements Policy: one weight per resource.
func (WeightedGreedy) Dimensions(problem *Problem) []string {
	return problem.Resources()
}

// Choose implements Policy. The greedy choice ignores rng and canWait.
func (WeightedGreedy) Choose(candidates []*Process, w *Weights, _ *rand.Rand, _ bool) *Process {
	var best *Process
	bestValue := 0.0
	for _, p := range candidates {
		v := GreedyValue(p, w)
		if v > bestValue {
			best, bestValue = p, v
		}
	}
	return best
}

// GreedyValue is the weighted net production per cycle of p.
func GreedyValue(p *Process, w *Weights) float64 {
	gain := 0.0
	for _, out := range p.Outputs {
		gain += w.Get(out.Resource) * float64(out.Amount)
	}
	for _, in := range p.Inputs {
		gain -= w.Get(in.Resource) * float64(in.Amount)
	}
	return gain / float64(max(p.Delay, 1))
}

// NewPolicy creates a selection policy by name.
// Empty string defaults to weighted-random.
// Panics on unrecognized names; validate with IsValidPolicy first.
func NewPolicy(name string) Policy {
	if !IsValidPolicy(name) {
		panic(fmt.Sprintf("unknown selection policy %q", name))
	}
	switch name {
	case "", PolicyWeightedRandom:
		return WeightedRandom{}
	case PolicyWeightedGreedy:
		return WeightedGreedy{}
	default:
		panic(fmt.Sprintf("unhandled selection policy %q", name))
	}
}

// NewLayoutFor builds the weight layout policy reads for problem.
func NewLayoutFor(policy Policy, problem *Problem) *Layout {
	return NewLayout(policy.Dimensions(problem))
}
