package config

import (
	"os"
	"strconv"
	"strings"

	apperrors "github.com/agbru/polyfft/internal/errors"
)

// envBinding ties one POLYFFT_* variable (key given without the prefix) to
// the field it sets. parse returns an error for malformed values.
type envBinding struct {
	key   string
	parse func(*EngineConfig, string) error
}

func floatField(field func(*EngineConfig) *float64) func(*EngineConfig, string) error {
	return func(c *EngineConfig, v string) error {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return err
		}
		*field(c) = parsed
		return nil
	}
}

func intField(field func(*EngineConfig) *int) func(*EngineConfig, string) error {
	return func(c *EngineConfig, v string) error {
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(c) = parsed
		return nil
	}
}

// envBindings is applied in order, so SEQUENTIAL overrides PARALLEL_THRESHOLD.
var envBindings = []envBinding{
	{"EPSILON", floatField(func(c *EngineConfig) *float64 { return &c.Epsilon })},
	{"PARALLEL_THRESHOLD", intField(func(c *EngineConfig) *int { return &c.ParallelThreshold })},
	{"NEWTON_TOLERANCE", floatField(func(c *EngineConfig) *float64 { return &c.NewtonTolerance })},
	{"NEWTON_MAX_ITERS", intField(func(c *EngineConfig) *int { return &c.NewtonMaxIters })},
	{"POOL_WARM_LENGTH", intField(func(c *EngineConfig) *int { return &c.PoolWarmLength })},
	{"SEQUENTIAL", func(c *EngineConfig, v string) error {
		on, ok := parseBool(v)
		if !ok {
			return strconv.ErrSyntax
		}
		if on {
			c.ParallelThreshold = NoParallelism
		}
		return nil
	}},
	{"LOG_LEVEL", func(c *EngineConfig, v string) error {
		c.LogLevel = v
		return nil
	}},
}

// parseBool accepts true/1/yes and false/0/no, case-insensitively.
func parseBool(v string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

// applyEnvOverrides sets every field whose POLYFFT_* variable is non-empty.
//
// Returns:
//   - error: A ConfigError naming the first malformed variable, or nil.
func applyEnvOverrides(cfg *EngineConfig) error {
	for _, b := range envBindings {
		val := os.Getenv(EnvPrefix + b.key)
		if val == "" {
			continue
		}
		if err := b.parse(cfg, val); err != nil {
			return apperrors.NewConfigError("%s%s: cannot parse %q", EnvPrefix, b.key, val)
		}
	}
	return nil
}
