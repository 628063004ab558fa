// Package config provides the configuration of the polynomial engine. It
// defines the configuration structure, resolves environment overrides and
// hardware-based defaults, and validates the result.
package config

import (
	"math"
	"strings"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/polyfft/internal/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables read by the engine.
	EnvPrefix = "POLYFFT_"
)

// Default configuration values.
const (
	// DefaultEpsilon is the tolerance used to snap transform round-trip
	// results to the nearest integer.
	DefaultEpsilon = 1e-6
	// DefaultNewtonTolerance is the step size under which Newton's method
	// is considered converged.
	DefaultNewtonTolerance = 1e-6
	// DefaultNewtonMaxIters caps the number of Newton iterations.
	DefaultNewtonMaxIters = 1000
	// DefaultLogLevel is the zerolog level name used when none is given.
	DefaultLogLevel = "info"
	// NoParallelism disables concurrent forward transforms.
	NoParallelism = -1
)

// EngineConfig aggregates the tunable parameters of the polynomial engine.
type EngineConfig struct {
	// Epsilon is the snapping tolerance applied to every product coefficient.
	Epsilon float64
	// ParallelThreshold is the transform length at or above which the two
	// forward transforms of a product run concurrently. Zero means "estimate
	// from the hardware"; a negative value disables parallelism.
	ParallelThreshold int
	// NewtonTolerance is the default convergence tolerance for root finding.
	NewtonTolerance float64
	// NewtonMaxIters is the default iteration cap for root finding.
	NewtonMaxIters int
	// PoolWarmLength, when positive, pre-allocates transform buffers up to
	// this length when an engine is built.
	PoolWarmLength int
	// LogLevel is a zerolog level name ("debug", "info", ...).
	LogLevel string
}

// Default returns the configuration used when nothing is overridden. The
// parallel threshold is left unset so that ApplyAdaptiveThresholds can
// estimate it.
func Default() EngineConfig {
	return EngineConfig{
		Epsilon:         DefaultEpsilon,
		NewtonTolerance: DefaultNewtonTolerance,
		NewtonMaxIters:  DefaultNewtonMaxIters,
		LogLevel:        DefaultLogLevel,
	}
}

// Load resolves the configuration with the priority:
// environment variables > adaptive hardware estimation > defaults.
// The returned configuration has been validated.
func Load() (EngineConfig, error) {
	cfg := Default()
	if err := applyEnvOverrides(&cfg); err != nil {
		return EngineConfig{}, err
	}
	cfg = ApplyAdaptiveThresholds(cfg)
	if err := cfg.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

// Validate checks the semantic consistency of the configuration.
//
// Returns:
//   - error: A ConfigError describing the first invalid value, or nil.
func (c EngineConfig) Validate() error {
	if !(c.Epsilon > 0) || c.Epsilon >= 0.5 || math.IsInf(c.Epsilon, 0) {
		return apperrors.NewConfigError("epsilon must be in (0, 0.5), got %g", c.Epsilon)
	}
	if !(c.NewtonTolerance > 0) || math.IsInf(c.NewtonTolerance, 0) {
		return apperrors.NewConfigError("newton tolerance must be positive and finite, got %g", c.NewtonTolerance)
	}
	if c.NewtonMaxIters <= 0 {
		return apperrors.NewConfigError("newton max iterations must be positive, got %d", c.NewtonMaxIters)
	}
	if c.PoolWarmLength < 0 {
		return apperrors.NewConfigError("pool warm length cannot be negative, got %d", c.PoolWarmLength)
	}
	if _, err := c.ZerologLevel(); err != nil {
		return err
	}
	return nil
}

// ZerologLevel parses LogLevel into a zerolog.Level. An empty value maps to
// the default level.
func (c EngineConfig) ZerologLevel() (zerolog.Level, error) {
	name := strings.TrimSpace(c.LogLevel)
	if name == "" {
		name = DefaultLogLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, apperrors.NewConfigError("unknown log level %q", c.LogLevel)
	}
	return level, nil
}
