package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/krpsim/sim/trace"
)

// RunState is the lifecycle state of an Individual run.
type RunState int

const (
	StatePending RunState = iota
	StateRunning
	// StateDeadlocked: nothing launchable and nothing in flight.
	StateDeadlocked
	// StateExhausted: the cycle cap or the launch cap was reached.
	StateExhausted
	// StateTimedOut: the context ended the run early. The run is unscored.
	StateTimedOut
)

var runStateNames = map[RunState]string{
	StatePending:    "PENDING",
	StateRunning:    "RUNNING",
	StateDeadlocked: "DEADLOCKED",
	StateExhausted:  "EXHAUSTED",
	StateTimedOut:   "TIMED_OUT",
}

func (s RunState) String() string {
	if name, ok := runStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("RunState(%d)", int(s))
}

// Terminal reports whether the run has ended.
func (s RunState) Terminal() bool {
	return s >= StateDeadlocked
}

// Scored reports whether a run in this state carries a meaningful score.
func (s RunState) Scored() bool {
	return s == StateDeadlocked || s == StateExhausted
}

// Limits bound a single simulation run.
type Limits struct {
	MaxCycle           int // no jump past this cycle
	MaxLaunches        int // total launches per run
	MaxLaunchesPerStep int // launches between two context checks
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxCycle:           1_000_000,
		MaxLaunches:        15_000,
		MaxLaunchesPerStep: 1_000,
	}
}

// Outcome is the immutable result of one Individual run.
type Outcome struct {
	Score     float64
	State     RunState
	Cycle     int
	Completed int
	Launched  int
	Inventory map[string]int
	Trace     *trace.Trace // nil unless recording was enabled
}

// Individual is one candidate schedule: a weight vector driving a Policy
// through a private simulation of the problem.
//
// Thread-safety: an Individual is owned by one goroutine at a time.
// It shares only the read-only Problem and Policy.
type Individual struct {
	ID         int
	Generation int
	Seed       int64
	Weights    *Weights

	problem *Problem
	policy  Policy
	limits  Limits

	stock    *Stock
	timeline *Timeline
	rng      *rand.Rand

	cycle     int
	completed int
	launched  int
	state     RunState
	score     float64

	recorder   *trace.Trace
	candidates []*Process
}

// NewIndividual creates a pending Individual. The weights are owned by the
// Individual from now on.
func NewIndividual(problem *Problem, policy Policy, w *Weights, seed int64, limits Limits) *Individual {
	ind := &Individual{
		Seed:       seed,
		Weights:    w,
		problem:    problem,
		policy:     policy,
		limits:     limits,
		timeline:   NewTimeline(),
		candidates: make([]*Process, 0, len(problem.Processes)),
	}
	ind.Reset()
	return ind
}

// Reset rewinds the Individual to its pending state: fresh stock clone,
// empty timeline, and a random stream re-seeded from Seed. A run after
// Reset repeats the previous run exactly.
func (ind *Individual) Reset() {
	ind.stock = ind.problem.Stock.Clone()
	ind.timeline.Reset()
	ind.rng = rand.New(rand.NewSource(ind.Seed))
	ind.cycle = 0
	ind.completed = 0
	ind.launched = 0
	ind.state = StatePending
	ind.score = math.Inf(-1)
	if ind.recorder != nil {
		ind.recorder = trace.New()
	}
}

// EnableTrace makes the next run record every launch.
func (ind *Individual) EnableTrace() {
	ind.recorder = trace.New()
}

// State returns the lifecycle state.
func (ind *Individual) State() RunState { return ind.state }

// Score returns the score of the last run, -Inf when unscored.
func (ind *Individual) Score() float64 { return ind.score }

// Cycle returns the current virtual cycle.
func (ind *Individual) Cycle() int { return ind.cycle }

// Stock returns the Individual's working stock.
func (ind *Individual) Stock() *Stock { return ind.stock }

// Run simulates until a terminal state and returns the outcome. The
// context is checked once per step; cancellation ends the run TIMED_OUT.
// Running an Individual that already ran resets it first.
func (ind *Individual) Run(ctx context.Context) Outcome {
	if ind.state != StatePending {
		ind.Reset()
	}
	ind.state = StateRunning
	for ind.state == StateRunning {
		if ctx.Err() != nil {
			ind.state = StateTimedOut
			break
		}
		ind.step()
	}
	ind.finish()
	logrus.Debugf("[individual %d/%d] %s at cycle %d, %d launched, %d units held, score %.3f",
		ind.Generation, ind.ID, ind.state, ind.cycle, ind.launched, ind.stock.Total(), ind.score)
	return ind.Outcome()
}

// Restore marks the Individual as having produced o without simulating.
// Used for outcome cache hits.
func (ind *Individual) Restore(o Outcome) {
	ind.timeline.Reset()
	ind.stock = NewStock()
	for name, qty := range o.Inventory {
		ind.stock.Add(name, qty)
	}
	ind.stock.SetOptimize(ind.problem.Target.Resources...)
	ind.cycle = o.Cycle
	ind.completed = o.Completed
	ind.launched = o.Launched
	ind.state = o.State
	ind.score = o.Score
}

// Outcome snapshots the current result.
func (ind *Individual) Outcome() Outcome {
	var tr *trace.Trace
	if ind.recorder != nil {
		tr = ind.recorder.Clone()
	}
	return Outcome{
		Score:     ind.score,
		State:     ind.state,
		Cycle:     ind.cycle,
		Completed: ind.completed,
		Launched:  ind.launched,
		Inventory: ind.stock.Snapshot(),
		Trace:     tr,
	}
}

// step completes due processes, launches what the policy picks, and jumps
// to the next completion when the state did not change.
func (ind *Individual) step() {
	done := ind.timeline.DrainDue(ind.cycle, ind.stock)
	ind.completed += done
	launched := ind.launchAll()

	if ind.launched >= ind.limits.MaxLaunches {
		ind.state = StateExhausted
		return
	}
	if done > 0 || launched > 0 {
		return
	}
	next, ok := ind.timeline.NextCompletion()
	if !ok {
		ind.state = StateDeadlocked
		return
	}
	if next > ind.limits.MaxCycle {
		ind.state = StateExhausted
		return
	}
	ind.cycle = next
}

func (ind *Individual) launchAll() int {
	n := 0
	for n < ind.limits.MaxLaunchesPerStep && ind.launched < ind.limits.MaxLaunches {
		candidates := ind.launchable()
		if len(candidates) == 0 {
			break
		}
		p := ind.policy.Choose(candidates, ind.Weights, ind.rng, ind.timeline.Len() > 0)
		if p == nil {
			break
		}
		ind.launch(p)
		n++
	}
	return n
}

// launchable lists the processes whose inputs are all available, in
// declaration order. The returned slice is reused by the next call.
func (ind *Individual) launchable() []*Process {
	ind.candidates = ind.candidates[:0]
	for _, p := range ind.problem.Processes {
		if ind.stock.CanLaunch(p) {
			ind.candidates = append(ind.candidates, p)
		}
	}
	return ind.candidates
}

func (ind *Individual) launch(p *Process) {
	if !ind.stock.Consumes(p) {
		panic(fmt.Sprintf("policy %s chose %s, not launchable at cycle %d", ind.policy.Name(), p.Name, ind.cycle))
	}
	ind.timeline.Schedule(p, ind.cycle+p.Delay)
	ind.launched++
	if ind.recorder != nil {
		ind.recorder.Record(ind.cycle, p.Name)
	}
}

// finish settles every in-flight process and scores the run.
func (ind *Individual) finish() {
	done, last := ind.timeline.Settle(ind.stock)
	ind.completed += done
	if last > ind.cycle {
		ind.cycle = last
	}
	if ind.state.Scored() {
		ind.score = Evaluate(ind.problem.Target, ind.stock, ind.cycle, ind.completed)
	} else {
		ind.score = math.Inf(-1)
	}
}
