package genetic

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/krpsim/sim"
)

// GenerationStats summarizes the scores of one generation.
type GenerationStats struct {
	Generation int
	Best       float64
	Mean       float64
	StdDev     float64
	Worst      float64
	Scored     int // members with a meaningful score
	TimedOut   int
	CacheHits  int
}

// ComputeStats aggregates the scored members of a generation. Fields stay
// zero when no member is scored.
func ComputeStats(generation int, members []*sim.Individual, cacheHits int) GenerationStats {
	gs := GenerationStats{Generation: generation, CacheHits: cacheHits}
	scores := make([]float64, 0, len(members))
	for _, m := range members {
		switch {
		case m.State().Scored():
			scores = append(scores, m.Score())
		case m.State() == sim.StateTimedOut:
			gs.TimedOut++
		}
	}
	gs.Scored = len(scores)
	if len(scores) == 0 {
		return gs
	}
	gs.Best = floats.Max(scores)
	gs.Worst = floats.Min(scores)
	if len(scores) == 1 {
		gs.Mean = scores[0]
		return gs
	}
	gs.Mean, gs.StdDev = stat.MeanStdDev(scores, nil)
	return gs
}
