package cmd

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/krpsim/sim/config"
	"github.com/inference-sim/krpsim/sim/genetic"
)

var (
	seed       int64  // Seed of the search
	tuningPath string // Optional YAML tuning file
	workers    int    // Parallel simulations
	population int    // Individuals per generation
	policyName string // Launch selection policy
	traceOut   string // Optional file receiving the schedule
)

// runCmd searches a schedule for a configuration within a time budget
var runCmd = &cobra.Command{
	Use:   "run <input_file> <delay_seconds>",
	Short: "Search the best schedule within delay_seconds",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		budget, err := parseDelay(args[1])
		if err != nil {
			return err
		}
		problem, err := config.Load(args[0])
		if err != nil {
			return err
		}
		tuning, err := buildTuning(cmd)
		if err != nil {
			return err
		}

		search, err := genetic.NewSearch(problem, tuning)
		if err != nil {
			return err
		}
		logrus.Infof("Searching %s for %s (run %s)", args[0], budget, search.RunID())

		ctx, cancel := context.WithTimeout(cmd.Context(), budget)
		defer cancel()
		res, err := search.Run(ctx)
		if err != nil {
			return fmt.Errorf("searching schedule: %w", err)
		}

		if traceOut != "" {
			if err := res.Outcome.Trace.Save(traceOut); err != nil {
				return err
			}
		}
		return writeReport(cmd.OutOrStdout(), problem, res.Outcome.Trace, res.Outcome.Cycle, res.Outcome.Inventory)
	},
}

// parseDelay reads a positive number of seconds.
func parseDelay(s string) (time.Duration, error) {
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
		return 0, fmt.Errorf("invalid delay %q: expected a positive number of seconds", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// buildTuning layers the tuning sources: defaults, --tuning file,
// KRPSIM_* environment, then the flags set on the command line.
func buildTuning(cmd *cobra.Command) (genetic.Config, error) {
	cfg := genetic.DefaultConfig()
	if tuningPath != "" {
		var err error
		if cfg, err = genetic.LoadConfig(tuningPath); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("population") {
		cfg.PopulationSize = population
	}
	if flags.Changed("policy") {
		cfg.Policy = policyName
	}
	return cfg, cfg.Validate()
}

func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed of the search")
	runCmd.Flags().StringVar(&tuningPath, "tuning", "", "Path to a YAML tuning file")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Parallel simulations (default: GOMAXPROCS)")
	runCmd.Flags().IntVar(&population, "population", 0, "Individuals per generation (default: 100)")
	runCmd.Flags().StringVar(&policyName, "policy", "", "Launch selection policy (weighted-random, weighted-greedy)")
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Also write the schedule to this file")
}
