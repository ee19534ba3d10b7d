package trace

// TraceSummary aggregates statistics from a Trace.
type TraceSummary struct {
	TotalLaunches     int
	UniqueProcesses   int
	LastCycle         int
	DistinctCycles    int
	PeakCycleLaunches int            // most launches sharing one cycle
	Distribution      map[string]int // process name → launch count
}

// Summarize computes aggregate statistics from a Trace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(t *Trace) *TraceSummary {
	summary := &TraceSummary{
		Distribution: make(map[string]int),
	}
	if t == nil {
		return summary
	}

	summary.TotalLaunches = len(t.Launches)
	perCycle := make(map[int]int)
	for _, r := range t.Launches {
		summary.Distribution[r.Process]++
		perCycle[r.Cycle]++
		if perCycle[r.Cycle] > summary.PeakCycleLaunches {
			summary.PeakCycleLaunches = perCycle[r.Cycle]
		}
	}
	summary.UniqueProcesses = len(summary.Distribution)
	summary.DistinctCycles = len(perCycle)
	summary.LastCycle = t.LastCycle()

	return summary
}

// CountAt returns how many launches of process happened at cycle.
func (t *Trace) CountAt(cycle int, process string) int {
	if t == nil {
		return 0
	}
	n := 0
	for _, r := range t.Launches {
		if r.Cycle == cycle && r.Process == process {
			n++
		}
	}
	return n
}
