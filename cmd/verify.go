package cmd

import (
	"bufio"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/krpsim/sim"
	"github.com/inference-sim/krpsim/sim/config"
	"github.com/inference-sim/krpsim/sim/trace"
)

// verifyCmd replays a schedule strictly against a configuration
var verifyCmd = &cobra.Command{
	Use:   "verify <input_file> <trace_file>",
	Short: "Check that a schedule is feasible and print its final stock",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		problem, err := config.Load(args[0])
		if err != nil {
			return err
		}
		// A malformed trace still replays up to the bad line.
		tr, parseErr := trace.Load(args[1])
		if tr == nil {
			return parseErr
		}

		res, err := sim.Replay(problem, tr)
		if err == nil {
			err = parseErr
		}
		logrus.Debugf("replayed %d launches of %d", res.Launched, tr.Len())

		out := bufio.NewWriter(cmd.OutOrStdout())
		if err != nil {
			fmt.Fprintf(out, "# trace rejected after %d launches, state at cycle %d\n", res.Launched, res.Cycle)
		} else {
			fmt.Fprintf(out, "# trace verified: %d launches, final cycle %d\n", res.Launched, res.Cycle)
		}
		summary := trace.Summarize(tr)
		fmt.Fprintf(out, "# %d distinct processes over %d launch cycles, at most %d launches in one cycle\n",
			summary.UniqueProcesses, summary.DistinctCycles, summary.PeakCycleLaunches)
		writeStock(out, problem, res.Stock.Snapshot())
		if flushErr := out.Flush(); flushErr != nil && err == nil {
			err = flushErr
		}
		if err != nil {
			return fmt.Errorf("verifying %s: %w", args[1], err)
		}
		return nil
	},
}
