// Package trace provides launch-trace recording, parsing and summaries.
// It has no dependency on sim and holds plain data types only.
package trace

import "fmt"

// LaunchRecord captures a single process launch.
type LaunchRecord struct {
	Cycle   int
	Process string
}

// String renders the record in trace file form, "cycle:process".
func (r LaunchRecord) String() string {
	return fmt.Sprintf("%d:%s", r.Cycle, r.Process)
}

// InvalidLineError reports a trace line that is not "cycle:process_name".
type InvalidLineError struct {
	Line int
	Text string
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("line %d: %q does not respect trace format <cycle>:<process_name>", e.Line, e.Text)
}

// CycleOrderError reports a launch whose cycle precedes the previous one.
type CycleOrderError struct {
	Line  int
	Cycle int
	Last  int
}

func (e *CycleOrderError) Error() string {
	return fmt.Sprintf("line %d: cycle %d is impossible after cycle %d", e.Line, e.Cycle, e.Last)
}
