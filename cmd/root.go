package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel string // Log verbosity level
	debug    bool   // Shorthand for --log debug
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "krpsim",
	Short: "Production schedule optimizer for resource/process networks",
	Long: `krpsim searches for a schedule of process launches that maximizes the
optimize target of a configuration file within a wall-clock budget, and
verifies schedules against the same configuration.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

// setupLogging sends logs to stderr so stdout only carries the schedule.
func setupLogging() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	if debug {
		level = logrus.DebugLevel
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(level)
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(verifyCmd)
}
