package genetic

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/atomic"

	"github.com/inference-sim/krpsim/sim"
	"github.com/inference-sim/krpsim/sim/trace"
)

// Result is what a search hands back once its deadline passed.
type Result struct {
	RunID string

	// Outcome is the traced replay of the best Individual.
	Outcome sim.Outcome
	Weights *sim.Weights
	Seed    int64

	BestScore      float64 // score the best Individual reached during the search
	BestGeneration int
	// Fallback is set when no Individual ever finished and the first
	// member of the population was replayed instead.
	Fallback bool

	Generations int
	Evaluated   int64
	CacheHits   int64
	History     []GenerationStats
	Elapsed     time.Duration
}

// Search evolves a population for one problem.
//
// Thread-safety: Run must not be called concurrently. Workers only share
// the Cache.
type Search struct {
	cfg     Config
	problem *sim.Problem
	policy  sim.Policy
	layout  *sim.Layout
	limits  sim.Limits
	rng     *sim.PartitionedRNG
	cache   *Cache
	runID   string

	nextID    int
	evaluated *atomic.Int64
	hits      *atomic.Int64
}

// NewSearch validates cfg and prepares a search over problem.
func NewSearch(problem *sim.Problem, cfg Config) (*Search, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if problem == nil {
		return nil, fmt.Errorf("problem cannot be nil")
	}
	policy := sim.NewPolicy(cfg.Policy)
	return &Search{
		cfg:       cfg,
		problem:   problem,
		policy:    policy,
		layout:    sim.NewLayoutFor(policy, problem),
		limits:    cfg.Limits(),
		rng:       sim.NewPartitionedRNG(sim.NewSearchKey(cfg.Seed)),
		cache:     NewCache(cfg.CacheSize),
		runID:     uuid.NewString(),
		evaluated: atomic.NewInt64(0),
		hits:      atomic.NewInt64(0),
	}, nil
}

// RunID identifies this search in logs.
func (s *Search) RunID() string { return s.runID }

// Cache returns the outcome cache.
func (s *Search) Cache() *Cache { return s.cache }

type bestEver struct {
	score      float64
	weights    *sim.Weights
	seed       int64
	generation int
	found      bool
}

func (b *bestEver) track(pop *Population, generation int) bool {
	top := pop.Best()
	if top == nil || (b.found && top.Score() <= b.score) {
		return false
	}
	b.score = top.Score()
	b.weights = top.Weights.Clone()
	b.seed = top.Seed
	b.generation = generation
	b.found = true
	return true
}

// Run evolves generations until ctx is done or MaxGenerations is reached,
// then replays the best Individual with tracing. Running out of time is the
// normal way for Run to end and is not an error.
func (s *Search) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	log := logrus.WithField("run", s.runID)
	log.Infof("search started: %d processes, %d weight dimensions, population %d, policy %s, %d workers",
		len(s.problem.Processes), s.layout.Len(), s.cfg.PopulationSize, s.policy.Name(), s.cfg.Workers)

	pop := s.initialPopulation()
	best := bestEver{score: math.Inf(-1)}
	var history []GenerationStats

	for gen := 0; ; gen++ {
		if ctx.Err() != nil || (s.cfg.MaxGenerations > 0 && gen >= s.cfg.MaxGenerations) {
			break
		}
		hits := s.runGeneration(ctx, pop)
		interrupted := ctx.Err() != nil

		pop.Sort()
		stats := ComputeStats(gen, pop.Members, hits)
		history = append(history, stats)
		_, misses := s.cache.Stats()
		log.WithFields(logrus.Fields{
			"generation": gen,
			"best":       stats.Best,
			"mean":       stats.Mean,
			"stddev":     stats.StdDev,
			"worst":      stats.Worst,
			"timed_out":  stats.TimedOut,
			"cache_hits": stats.CacheHits,
			"cache_miss": misses,
			"cache_size": s.cache.Len(),
		}).Info("generation scored")

		if best.track(pop, gen) {
			log.Debugf("new best score %.3f at generation %d", best.score, gen)
		}
		if interrupted {
			break
		}
		pop = s.breed(pop, gen+1)
	}

	res := &Result{
		RunID:       s.runID,
		Generations: len(history),
		History:     history,
		Evaluated:   s.evaluated.Load(),
		CacheHits:   s.hits.Load(),
	}
	if best.found {
		res.Weights, res.Seed = best.weights, best.seed
		res.BestScore, res.BestGeneration = best.score, best.generation
	} else {
		first := pop.Members[0]
		log.Warnf("no run finished before the deadline, replaying the first individual")
		res.Weights, res.Seed = first.Weights.Clone(), first.Seed
		res.BestScore = math.Inf(-1)
		res.Fallback = true
	}

	res.Outcome = s.replay(res.Weights, res.Seed)
	if best.found && res.Outcome.State.Scored() && res.Outcome.Score != res.BestScore {
		log.Warnf("replay scored %.3f, search recorded %.3f", res.Outcome.Score, res.BestScore)
	}
	res.Elapsed = time.Since(start)

	summary := trace.Summarize(res.Outcome.Trace)
	log.WithFields(logrus.Fields{
		"launches":       summary.TotalLaunches,
		"processes":      summary.UniqueProcesses,
		"launch_cycles":  summary.DistinctCycles,
		"peak_per_cycle": summary.PeakCycleLaunches,
	}).Info("final schedule")

	log.Infof("search finished: %s generations, %s runs, %s cache hits in %s; best %s (%s)",
		humanize.Comma(int64(res.Generations)), humanize.Comma(res.Evaluated), humanize.Comma(res.CacheHits),
		res.Elapsed.Round(time.Millisecond), formatScore(res.Outcome.Score), res.Outcome.State)
	return res, nil
}

func (s *Search) initialPopulation() *Population {
	pop := &Population{Members: make([]*sim.Individual, 0, s.cfg.PopulationSize)}
	weightsRNG := s.rng.ForSubsystem(sim.SubsystemWeights)
	for i := 0; i < s.cfg.PopulationSize; i++ {
		seed := s.rng.NextSeed()
		pop.Members = append(pop.Members, s.newIndividual(sim.RandomWeights(s.layout, weightsRNG), seed, 0))
	}
	return pop
}

func (s *Search) newIndividual(w *sim.Weights, seed int64, generation int) *sim.Individual {
	ind := sim.NewIndividual(s.problem, s.policy, w, seed, s.limits)
	ind.ID = s.nextID
	ind.Generation = generation
	s.nextID++
	return ind
}

// key ignores the seed for policies that never draw from it, so identical
// greedy weight vectors share one entry.
func (s *Search) key(ind *sim.Individual) uint64 {
	seed := ind.Seed
	if !s.policy.Stochastic() {
		seed = 0
	}
	return CacheKey(ind.Weights, seed)
}

// runGeneration runs every pending member on the worker pool and returns
// the number of cache hits. Outcomes are cached afterwards, in population
// order.
func (s *Search) runGeneration(ctx context.Context, pop *Population) int {
	hits := atomic.NewInt64(0)
	ran := make([]bool, pop.Len())
	p := pool.New().WithMaxGoroutines(s.cfg.Workers)
	for i, ind := range pop.Members {
		if ind.State() != sim.StatePending {
			continue
		}
		p.Go(func() {
			if o, ok := s.cache.Get(s.key(ind)); ok {
				ind.Restore(o)
				hits.Inc()
				return
			}
			ind.Run(ctx)
			ran[i] = true
		})
	}
	p.Wait()

	for i, ind := range pop.Members {
		if !ran[i] {
			continue
		}
		s.evaluated.Inc()
		if ind.State().Scored() {
			s.cache.Put(s.key(ind), ind.Outcome())
		}
	}
	s.hits.Add(hits.Load())
	return int(hits.Load())
}

// breed builds the next generation: the elite unchanged, then children of
// two distinct parents from the top of the ranking. A child identical to
// one of its parents inherits that parent's seed, so it reproduces the
// parent's run.
func (s *Search) breed(pop *Population, generation int) *Population {
	n := pop.Len()
	next := &Population{Members: make([]*sim.Individual, 0, n)}
	next.Members = append(next.Members, pop.Members[:EliteCount(n, s.cfg.EliteFraction)]...)

	parents := pop.Members[:ParentCount(n, s.cfg.ParentFraction)]
	scores := make([]float64, len(parents))
	for i, p := range parents {
		scores[i] = p.Score()
	}
	rng := s.rng.ForSubsystem(sim.SubsystemBreeding)
	for len(next.Members) < n {
		a, b := SelectParents(rng, scores)
		pa, pb := parents[a], parents[b]
		w := Crossover(rng, pa.Weights, pb.Weights)
		Mutate(rng, w, s.cfg.MutationRate, s.cfg.MutationDelta)

		seed := s.rng.NextSeed()
		switch {
		case w.Equal(pa.Weights):
			seed = pa.Seed
		case w.Equal(pb.Weights):
			seed = pb.Seed
		}
		next.Members = append(next.Members, s.newIndividual(w, seed, generation))
	}
	return next
}

// replay reruns weights and seed with tracing under its own context, so
// the search deadline never cuts the final schedule short.
func (s *Search) replay(w *sim.Weights, seed int64) sim.Outcome {
	ctx := context.Background()
	if s.cfg.ReplayTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ReplayTimeout)
		defer cancel()
	}
	ind := sim.NewIndividual(s.problem, s.policy, w.Clone(), seed, s.limits)
	ind.EnableTrace()
	o := ind.Run(ctx)
	if o.State == sim.StateTimedOut {
		logrus.Warnf("final replay timed out after %d launches, schedule is partial", o.Launched)
	}
	return o
}

func formatScore(score float64) string {
	if math.IsInf(score, 0) || math.IsNaN(score) {
		return "unscored"
	}
	return humanize.FormatFloat("#,###.###", score)
}
