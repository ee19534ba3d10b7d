package genetic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inference-sim/krpsim/sim"
	"github.com/inference-sim/krpsim/sim/config"
	"github.com/inference-sim/krpsim/sim/internal/testutil"
)

func loadProblem(t *testing.T, name string) *sim.Problem {
	t.Helper()
	p, err := config.Load(testutil.TestdataPath(t, name))
	require.NoError(t, err)
	return p
}

// testConfig is a small, generation-bounded tuning for fast tests.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PopulationSize = 12
	cfg.MaxGenerations = 4
	cfg.Workers = 4
	cfg.Seed = 1
	return cfg
}
