package sim

import (
	"fmt"
	"strings"

	"github.com/inference-sim/krpsim/sim/trace"
)

// UnknownProcessError reports a trace launch naming no process of the problem.
type UnknownProcessError struct {
	Cycle   int
	Process string
}

func (e *UnknownProcessError) Error() string {
	return fmt.Sprintf("cycle %d: unknown process %q", e.Cycle, e.Process)
}

// Shortfall is one input a launch could not satisfy.
type Shortfall struct {
	Resource  string
	Required  int
	Available int
}

// NotEnoughResourcesError reports a trace launch whose inputs are not
// available at its cycle.
type NotEnoughResourcesError struct {
	Cycle   int
	Process string
	Missing []Shortfall
}

func (e *NotEnoughResourcesError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		parts[i] = fmt.Sprintf("%s: %d required, %d available", m.Resource, m.Required, m.Available)
	}
	return fmt.Sprintf("cycle %d: not enough resources to launch %s (%s)", e.Cycle, e.Process, strings.Join(parts, "; "))
}

// ReplayResult is the state reached by Replay.
type ReplayResult struct {
	Stock     *Stock
	Cycle     int
	Launched  int
	Completed int
}

// Replay applies tr to a clone of the problem's initial stock, completing
// processes as their cycles pass. On success every in-flight process is
// settled and Cycle is the last completion. On error the result holds the
// state reached just before the failing launch.
func Replay(problem *Problem, tr *trace.Trace) (*ReplayResult, error) {
	res := &ReplayResult{Stock: problem.Stock.Clone()}
	timeline := NewTimeline()
	for i, rec := range tr.Launches {
		if rec.Cycle < res.Cycle {
			return res, &trace.CycleOrderError{Line: i + 1, Cycle: rec.Cycle, Last: res.Cycle}
		}
		res.Cycle = rec.Cycle
		res.Completed += timeline.DrainDue(res.Cycle, res.Stock)

		p, ok := problem.Process(rec.Process)
		if !ok {
			return res, &UnknownProcessError{Cycle: rec.Cycle, Process: rec.Process}
		}
		if !res.Stock.Consumes(p) {
			return res, &NotEnoughResourcesError{Cycle: rec.Cycle, Process: p.Name, Missing: shortfalls(p, res.Stock)}
		}
		timeline.Schedule(p, res.Cycle+p.Delay)
		res.Launched++
	}
	done, last := timeline.Settle(res.Stock)
	res.Completed += done
	if last > res.Cycle {
		res.Cycle = last
	}
	return res, nil
}

func shortfalls(p *Process, stock *Stock) []Shortfall {
	var missing []Shortfall
	for _, in := range p.Inputs {
		if have := stock.Quantity(in.Resource); have < in.Amount {
			missing = append(missing, Shortfall{Resource: in.Resource, Required: in.Amount, Available: have})
		}
	}
	return missing
}
