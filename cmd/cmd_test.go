package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/krpsim/sim"
	"github.com/inference-sim/krpsim/sim/trace"
)

// executeCommand runs the root command with args from a clean flag state
// and returns what it printed on stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// testdataPath resolves a file of the repository testdata directory.
func testdataPath(name string) string {
	return filepath.Join("..", "testdata", name)
}

// stockBlock returns the lines following "# stock:".
func stockBlock(t *testing.T, out string) []string {
	t.Helper()
	_, block, ok := strings.Cut(out, "# stock:\n")
	require.True(t, ok, "no stock block in output:\n%s", out)
	return strings.Split(strings.TrimRight(block, "\n"), "\n")
}

func TestRun_BreadExample_RoundTripsThroughVerify(t *testing.T) {
	// GIVEN the bread configuration and a short, generation-bounded search
	t.Setenv("KRPSIM_MAX_GENERATIONS", "3")
	input := testdataPath("bread.txt")
	traceFile := filepath.Join(t.TempDir(), "bread.trace")

	// WHEN the scheduler runs
	out, err := executeCommand(t, "run", input, "1", "--population", "8", "--seed", "3", "--log", "error", "--trace-out", traceFile)
	require.NoError(t, err)

	// THEN the printed schedule is a valid trace
	tr, err := trace.Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.LessOrEqual(t, tr.CountAt(0, "buy_bread"), 2)
	assert.Contains(t, out, "# no more process doable at time")

	stock := stockBlock(t, out)
	assert.Contains(t, []string{"#  euro => 0", "#  euro => 5"}, stock[1])
	assert.NotEqual(t, "#  bread => 0", stock[0])

	// AND the verifier reaches the identical stock
	verified, err := executeCommand(t, "verify", input, traceFile, "--log", "error")
	require.NoError(t, err)
	assert.Contains(t, verified, "# trace verified")
	assert.Equal(t, stock, stockBlock(t, verified))
}

func TestRun_PrintedReportVerifies(t *testing.T) {
	t.Setenv("KRPSIM_MAX_GENERATIONS", "2")
	input := testdataPath("ikea.txt")
	out, err := executeCommand(t, "run", input, "2", "--population", "6", "--policy", sim.PolicyWeightedGreedy, "--log", "error")
	require.NoError(t, err)

	report := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(report, []byte(out), 0o644))

	verified, err := executeCommand(t, "verify", input, report)
	require.NoError(t, err)
	assert.Equal(t, stockBlock(t, out), stockBlock(t, verified))
}

func TestRun_TinyBudget_PrintsCompleteSchedule(t *testing.T) {
	// GIVEN a self-sustaining loop whose every run ends at the launch cap
	input := testdataPath("clock.txt")

	// WHEN the budget expires almost immediately
	out, err := executeCommand(t, "run", input, "0.001", "--population", "4", "--log", "error")
	require.NoError(t, err)

	// THEN the printed schedule is still the complete run, not a cut-off replay
	tr, err := trace.Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultLimits().MaxLaunches, tr.Len())
	assert.Contains(t, out, "# no more process doable at time 15000\n")
	assert.Contains(t, stockBlock(t, out), "#  second => 15000")
}

func TestVerify_Failures(t *testing.T) {
	input := testdataPath("bread.txt")
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name    string
		trace   string
		message string
	}{
		{"not enough resources", testdataPath("bread_overspend_trace.txt"), "not enough resources"},
		{"unknown process", write("unknown.txt", "0:buy_cake\n"), "unknown process"},
		{"decreasing cycle", write("order.txt", "2:buy_bread\n1:buy_bread\n"), "impossible after"},
		{"malformed line", write("bad.txt", "zero:buy_bread\n"), "trace format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, "verify", input, tt.trace)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.Contains(t, out, "# trace rejected")
			assert.Contains(t, out, "# stock:")
		})
	}
}

func TestVerify_ValidTrace(t *testing.T) {
	out, err := executeCommand(t, "verify", testdataPath("bread.txt"), testdataPath("bread_trace.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, "final cycle 2")
	assert.Contains(t, out, "# 1 distinct processes over 1 launch cycles, at most 2 launches in one cycle\n")
	assert.Equal(t, []string{"#  bread => 2", "#  euro => 0"}, stockBlock(t, out))
}

func TestRun_InputErrors(t *testing.T) {
	input := testdataPath("bread.txt")
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"run", filepath.Join(t.TempDir(), "none.txt"), "1"}},
		{"invalid delay", []string{"run", input, "soon"}},
		{"zero delay", []string{"run", input, "0"}},
		{"unknown policy", []string{"run", input, "1", "--policy", "round-robin"}},
		{"bad log level", []string{"run", input, "1", "--log", "loud"}},
		{"missing argument", []string{"run", input}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParseDelay(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"1", time.Second, false},
		{"0.25", 250 * time.Millisecond, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"ten", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDelay(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestBuildTuning_Precedence(t *testing.T) {
	// GIVEN a tuning file, an environment override and a flag
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("population_size: 30\nworkers: 3\nseed: 5\n"), 0o644))
	t.Setenv("KRPSIM_POPULATION_SIZE", "20")
	t.Setenv("KRPSIM_WORKERS", "2")

	resetFlags(rootCmd)
	require.NoError(t, runCmd.Flags().Set("tuning", path))
	require.NoError(t, runCmd.Flags().Set("population", "10"))

	// WHEN the tuning is built
	cfg, err := buildTuning(runCmd)
	require.NoError(t, err)

	// THEN flags beat env, env beats the file, the file beats defaults
	assert.Equal(t, 10, cfg.PopulationSize)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, int64(5), cfg.Seed)
	assert.Equal(t, 0.05, cfg.EliteFraction)
	assert.Zero(t, cfg.ReplayTimeout, "the final replay is unbounded unless tuned")
}
