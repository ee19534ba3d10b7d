package sim

import "container/heap"

// InProgress is a launched process waiting for its completion cycle.
type InProgress struct {
	Completion int
	Seq        uint64 // assigned by Schedule, breaks completion ties
	Process    *Process
}

// Timeline is the event queue of in-progress processes.
// Ordering: completion cycle → schedule sequence.
type Timeline struct {
	entries []InProgress
	nextSeq uint64
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	t := &Timeline{
		entries: make([]InProgress, 0),
	}
	heap.Init(t)
	return t
}

// Len implements heap.Interface
func (t *Timeline) Len() int {
	return len(t.entries)
}

// Less implements heap.Interface with deterministic ordering
func (t *Timeline) Less(i, j int) bool {
	ei, ej := t.entries[i], t.entries[j]
	if ei.Completion != ej.Completion {
		return ei.Completion < ej.Completion
	}
	return ei.Seq < ej.Seq
}

// Swap implements heap.Interface
func (t *Timeline) Swap(i, j int) {
	t.entries[i], t.entries[j] = t.entries[j], t.entries[i]
}

// Push implements heap.Interface
func (t *Timeline) Push(x interface{}) {
	t.entries = append(t.entries, x.(InProgress))
}

// Pop implements heap.Interface
func (t *Timeline) Pop() interface{} {
	old := t.entries
	n := len(old)
	item := old[n-1]
	t.entries = old[0 : n-1]
	return item
}

// Schedule records p as completing at the given cycle.
func (t *Timeline) Schedule(p *Process, completion int) {
	t.nextSeq++
	heap.Push(t, InProgress{Completion: completion, Seq: t.nextSeq, Process: p})
}

// PopNext removes and returns the earliest entry.
func (t *Timeline) PopNext() (InProgress, bool) {
	if t.Len() == 0 {
		return InProgress{}, false
	}
	return heap.Pop(t).(InProgress), true
}

// Peek returns the earliest entry without removing it.
func (t *Timeline) Peek() (InProgress, bool) {
	if t.Len() == 0 {
		return InProgress{}, false
	}
	return t.entries[0], true
}

// NextCompletion returns the earliest pending completion cycle.
func (t *Timeline) NextCompletion() (int, bool) {
	e, ok := t.Peek()
	return e.Completion, ok
}

// DrainDue completes every entry due at or before cycle, adding the
// outputs to stock, and returns how many completed.
func (t *Timeline) DrainDue(cycle int, stock *Stock) int {
	done := 0
	for {
		if e, ok := t.Peek(); !ok || e.Completion > cycle {
			return done
		}
		e, _ := t.PopNext()
		stock.Produce(e.Process)
		done++
	}
}

// Settle completes every remaining entry regardless of cycle. It returns
// the number completed and the last completion cycle (0 if none).
func (t *Timeline) Settle(stock *Stock) (int, int) {
	done, last := 0, 0
	for {
		e, ok := t.PopNext()
		if !ok {
			return done, last
		}
		stock.Produce(e.Process)
		done++
		last = e.Completion
	}
}

// Reset empties the timeline and restarts the sequence counter.
func (t *Timeline) Reset() {
	t.entries = t.entries[:0]
	t.nextSeq = 0
}
