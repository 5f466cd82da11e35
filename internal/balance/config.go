package balance

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/multierr"
)

// Environment variables read by Builder.WithEnvConfig.
const (
	EnvClusters       = "COLOURBALANCE_CLUSTERS"
	EnvMergeDelta     = "COLOURBALANCE_MERGE_DELTA"
	EnvSmallThreshold = "COLOURBALANCE_SMALL_THRESHOLD"
	EnvTolerance      = "COLOURBALANCE_TOLERANCE"
	EnvSeed           = "COLOURBALANCE_SEED"
)

// Config holds the tuning parameters of the analysis pipeline.
type Config struct {
	// Clusters is the requested number of k-means clusters. The effective
	// value is capped at the number of regions.
	Clusters int `json:"clusters"`

	// MergeDelta is the CIEDE2000 distance below which clusters are merged.
	MergeDelta float64 `json:"merge_delta"`

	// SmallThreshold is the fraction of total area under which a merged
	// group is considered small.
	SmallThreshold float64 `json:"small_threshold"`

	// Targets are the dominant, secondary and accent percentages.
	Targets [3]float64 `json:"targets"`

	// Tolerance is the allowed absolute deviation, in percentage points.
	Tolerance float64 `json:"tolerance"`

	// Seed makes clustering reproducible.
	Seed int64 `json:"seed"`

	// Inits is the number of k-means restarts; the best one is kept.
	Inits int `json:"inits"`

	// MaxIterations bounds each k-means run.
	MaxIterations int `json:"max_iterations"`

	// Algorithm selects the clustering implementation.
	Algorithm Algorithm `json:"algorithm"`
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Clusters:       5,
		MergeDelta:     15.0,
		SmallThreshold: 0.03,
		Targets:        [3]float64{60, 30, 10},
		Tolerance:      8.0,
		Seed:           42,
		Inits:          10,
		MaxIterations:  300,
		Algorithm:      AlgorithmKMeans,
	}
}

// Validate reports every invalid field. The returned error wraps
// ErrConfiguration.
func (c Config) Validate() error {
	var err error
	if c.Clusters < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: clusters must be at least 1, got %d", ErrConfiguration, c.Clusters))
	}
	if !(c.MergeDelta > 0) {
		err = multierr.Append(err, fmt.Errorf("%w: merge delta must be positive, got %g", ErrConfiguration, c.MergeDelta))
	}
	if !(c.SmallThreshold > 0 && c.SmallThreshold < 1) {
		err = multierr.Append(err, fmt.Errorf("%w: small threshold must be in (0, 1), got %g", ErrConfiguration, c.SmallThreshold))
	}
	for i, t := range c.Targets {
		if !(t > 0) {
			err = multierr.Append(err, fmt.Errorf("%w: target %d must be positive, got %g", ErrConfiguration, i+1, t))
		}
	}
	if !(c.Tolerance >= 0) {
		err = multierr.Append(err, fmt.Errorf("%w: tolerance must not be negative, got %g", ErrConfiguration, c.Tolerance))
	}
	if c.Inits < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: inits must be at least 1, got %d", ErrConfiguration, c.Inits))
	}
	if c.MaxIterations < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrConfiguration, c.MaxIterations))
	}
	if !IsValidAlgorithm(c.Algorithm) {
		err = multierr.Append(err, fmt.Errorf("%w: unknown algorithm %q (valid algorithms: %v)", ErrConfiguration, c.Algorithm, ValidAlgorithms()))
	}
	return err
}

// Evaluator returns the evaluator settings carried by c.
func (c Config) Evaluator() EvaluatorConfig {
	return EvaluatorConfig{
		SmallThreshold: c.SmallThreshold,
		Targets:        c.Targets,
		Tolerance:      c.Tolerance,
	}
}

// Builder assembles a Config from defaults and the environment.
type Builder struct {
	config Config
	useEnv bool
	lookup func(string) (string, bool)
}

// NewBuilder creates a Builder starting from DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{
		config: DefaultConfig(),
		lookup: os.LookupEnv,
	}
}

// WithConfig replaces the base configuration.
func (b *Builder) WithConfig(c Config) *Builder {
	b.config = c
	return b
}

// WithEnvConfig enables overrides from the COLOURBALANCE_* variables.
func (b *Builder) WithEnvConfig() *Builder {
	b.useEnv = true
	return b
}

// WithLookup replaces the environment lookup function (useful for testing).
func (b *Builder) WithLookup(fn func(string) (string, bool)) *Builder {
	b.lookup = fn
	return b
}

// Build applies the environment overrides. It does not validate the result;
// the Analyzer does that.
func (b *Builder) Build() (Config, error) {
	config := b.config
	if !b.useEnv {
		return config, nil
	}

	var err error
	if v, ok := b.lookup(EnvClusters); ok {
		n, perr := strconv.Atoi(v)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: %s: %w", ErrConfiguration, EnvClusters, perr))
		} else {
			config.Clusters = n
		}
	}
	err = multierr.Append(err, b.parseFloat(EnvMergeDelta, &config.MergeDelta))
	err = multierr.Append(err, b.parseFloat(EnvSmallThreshold, &config.SmallThreshold))
	err = multierr.Append(err, b.parseFloat(EnvTolerance, &config.Tolerance))
	if v, ok := b.lookup(EnvSeed); ok {
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: %s: %w", ErrConfiguration, EnvSeed, perr))
		} else {
			config.Seed = n
		}
	}
	return config, err
}

func (b *Builder) parseFloat(key string, dst *float64) error {
	v, ok := b.lookup(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfiguration, key, err)
	}
	*dst = f
	return nil
}
