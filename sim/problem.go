package sim

import (
	"fmt"
	"slices"
)

// Target names what the score rewards: quantities of Resources and,
// when Time is set, finishing early.
type Target struct {
	Resources []string
	Time      bool
}

// Problem is a parsed configuration: the initial stock, the process list
// and the optimization target. It is read-only once built.
type Problem struct {
	Stock     *Stock
	Processes []*Process
	Target    Target

	byName map[string]*Process
}

// NewProblem validates process name uniqueness and marks the target
// resources as optimized on the initial stock.
func NewProblem(stock *Stock, processes []*Process, target Target) (*Problem, error) {
	if stock == nil {
		return nil, fmt.Errorf("stock cannot be nil")
	}
	byName := make(map[string]*Process, len(processes))
	for _, p := range processes {
		if _, exists := byName[p.Name]; exists {
			return nil, fmt.Errorf("process %q defined more than once", p.Name)
		}
		byName[p.Name] = p
	}
	stock.SetOptimize(target.Resources...)
	return &Problem{
		Stock:     stock,
		Processes: processes,
		Target:    target,
		byName:    byName,
	}, nil
}

// Process looks a process up by name.
func (p *Problem) Process(name string) (*Process, bool) {
	proc, ok := p.byName[name]
	return proc, ok
}

// Resources returns every resource named by the initial stock or by any
// process, sorted.
func (p *Problem) Resources() []string {
	seen := make(map[string]struct{})
	for _, name := range p.Stock.Resources() {
		seen[name] = struct{}{}
	}
	for _, proc := range p.Processes {
		for _, q := range proc.Inputs {
			seen[q.Resource] = struct{}{}
		}
		for _, q := range proc.Outputs {
			seen[q.Resource] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
