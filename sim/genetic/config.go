package genetic

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/krpsim/sim"
)

// EnvPrefix prefixes every environment override, e.g. KRPSIM_POPULATION_SIZE.
const EnvPrefix = "KRPSIM_"

// Config tunes the search. Sources apply in order: DefaultConfig, an
// optional YAML file (LoadConfig), environment (ApplyEnv), then whatever
// the caller sets explicitly.
type Config struct {
	PopulationSize int     `yaml:"population_size" env:"POPULATION_SIZE" validate:"gte=2,lte=100000"`
	EliteFraction  float64 `yaml:"elite_fraction" env:"ELITE_FRACTION" validate:"gt=0,lt=1"`
	ParentFraction float64 `yaml:"parent_fraction" env:"PARENT_FRACTION" validate:"gt=0,lte=1"`
	MutationRate   float64 `yaml:"mutation_rate" env:"MUTATION_RATE" validate:"gte=0,lte=1"`
	MutationDelta  float64 `yaml:"mutation_delta" env:"MUTATION_DELTA" validate:"gte=0,lte=1"`

	Workers int    `yaml:"workers" env:"WORKERS" validate:"gte=1"`
	Policy  string `yaml:"policy" env:"POLICY" validate:"omitempty,oneof=weighted-random weighted-greedy"`
	Seed    int64  `yaml:"seed" env:"SEED"`

	// CacheSize bounds the outcome cache; 0 disables it.
	CacheSize      int `yaml:"cache_size" env:"CACHE_SIZE" validate:"gte=0"`
	// MaxGenerations stops the search early; 0 runs until the deadline.
	MaxGenerations int `yaml:"max_generations" env:"MAX_GENERATIONS" validate:"gte=0"`

	// ReplayTimeout bounds the final traced replay; 0 means unbounded.
	ReplayTimeout time.Duration `yaml:"replay_timeout" env:"REPLAY_TIMEOUT" validate:"gte=0"`

	MaxCycle           int `yaml:"max_cycle" env:"MAX_CYCLE" validate:"gte=1"`
	MaxLaunches        int `yaml:"max_launches" env:"MAX_LAUNCHES" validate:"gte=1"`
	MaxLaunchesPerStep int `yaml:"max_launches_per_step" env:"MAX_LAUNCHES_PER_STEP" validate:"gte=1"`
}

// DefaultConfig returns the tuning used when nothing overrides it.
func DefaultConfig() Config {
	limits := sim.DefaultLimits()
	return Config{
		PopulationSize:     100,
		EliteFraction:      0.05,
		ParentFraction:     0.2,
		MutationRate:       0.1,
		MutationDelta:      0.05,
		Workers:            runtime.GOMAXPROCS(0),
		Policy:             sim.PolicyWeightedRandom,
		Seed:               42,
		CacheSize:          4096,
		MaxCycle:           limits.MaxCycle,
		MaxLaunches:        limits.MaxLaunches,
		MaxLaunchesPerStep: limits.MaxLaunchesPerStep,
	}
}

// LoadConfig reads a YAML tuning file over DefaultConfig. Unknown keys
// are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening tuning file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing tuning file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the KRPSIM_* variables that are set.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("reading %s* environment: %w", EnvPrefix, err)
	}
	return nil
}

// Limits returns the per-run simulation limits.
func (c Config) Limits() sim.Limits {
	return sim.Limits{
		MaxCycle:           c.MaxCycle,
		MaxLaunches:        c.MaxLaunches,
		MaxLaunchesPerStep: c.MaxLaunchesPerStep,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field and reports all violations together.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validating tuning: %w", err)
	}
	var combined error
	for _, fe := range fieldErrs {
		combined = multierr.Append(combined, fmt.Errorf("tuning %s: %v violates %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
	}
	return combined
}
