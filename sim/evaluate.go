package sim

const (
	// ScoreScale is the score of one unit of an optimized resource.
	ScoreScale = 1000.0

	// ThroughputWeight scales the completed-process bonus.
	ThroughputWeight = 0.5
)

// Evaluate scores a finished run:
//
//	ScoreScale·Σ qty(optimized) + ThroughputWeight·completed/(completed+1) − timeWeight·cycle/(cycle+1)
//
// timeWeight is 1, or ScoreScale/2 when the target includes time. Both
// secondary terms stay below ScoreScale, so one more unit of an optimized
// resource always outranks any difference in speed or throughput.
func Evaluate(target Target, stock *Stock, cycle, completed int) float64 {
	qty := 0
	for _, r := range target.Resources {
		qty += stock.Quantity(r)
	}
	timeWeight := 1.0
	if target.Time {
		timeWeight = ScoreScale / 2
	}
	c := float64(max(cycle, 0))
	done := float64(max(completed, 0))
	return ScoreScale*float64(qty) +
		ThroughputWeight*done/(done+1) -
		timeWeight*c/(c+1)
}
