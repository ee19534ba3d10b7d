package cmd

import (
	"bufio"
	"fmt"
	"io"
	"slices"

	"github.com/inference-sim/krpsim/sim"
	"github.com/inference-sim/krpsim/sim/trace"
)

// writeReport prints the schedule followed by a comment footer with the
// final cycle and every resource of the configuration. The footer lines
// start with '#', so the whole report parses back as a trace.
func writeReport(w io.Writer, problem *sim.Problem, tr *trace.Trace, cycle int, inventory map[string]int) error {
	bw := bufio.NewWriter(w)
	if tr != nil {
		if _, err := tr.WriteTo(bw); err != nil {
			return fmt.Errorf("writing schedule: %w", err)
		}
	}
	fmt.Fprintf(bw, "# no more process doable at time %d\n", cycle)
	writeStock(bw, problem, inventory)
	return bw.Flush()
}

// writeStock prints "#  name => qty" for every resource named by the
// configuration, plus any other held resource, zero quantities included.
func writeStock(w io.Writer, problem *sim.Problem, inventory map[string]int) {
	names := problem.Resources()
	for name := range inventory {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	fmt.Fprintln(w, "# stock:")
	for _, name := range names {
		fmt.Fprintf(w, "#  %s => %d\n", name, inventory[name])
	}
}
