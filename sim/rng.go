package sim

import (
	"hash/fnv"
	"math/rand"
)

// === SearchKey ===

// SearchKey uniquely identifies a reproducible search.
// Two searches with the same SearchKey, identical problem and identical
// tuning draw the same seeds and breed the same weights; only the number
// of generations reached depends on wall-clock time.
type SearchKey int64

// NewSearchKey creates a SearchKey from a seed value.
func NewSearchKey(seed int64) SearchKey {
	return SearchKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemPopulation draws the seed of every new Individual.
	SubsystemPopulation = "population"

	// SubsystemBreeding drives parent selection, crossover and mutation.
	SubsystemBreeding = "breeding"

	// SubsystemWeights draws the random weights of first-generation Individuals.
	SubsystemWeights = "weights"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Only the search goroutine may use it;
// Individuals own private streams seeded from SubsystemPopulation.
type PartitionedRNG struct {
	key        SearchKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SearchKey.
func NewPartitionedRNG(key SearchKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// NextSeed draws a fresh Individual seed from the population stream.
func (p *PartitionedRNG) NextSeed() int64 {
	return p.ForSubsystem(SubsystemPopulation).Int63()
}

// Key returns the SearchKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SearchKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
