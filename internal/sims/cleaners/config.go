package cleaners

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"robot-cleaners/internal/core"
)

// Activation selects how cleaner moves within one tick are scheduled.
type Activation string

const (
	// ActivationSequential applies each cleaner's move immediately, so later
	// cleaners in the same tick see earlier moves.
	ActivationSequential Activation = "sequential"
	// ActivationSnapshot computes every intent against the pre-tick grid and
	// then applies them in agent order, dropping intents whose target changed.
	ActivationSnapshot Activation = "snapshot"
)

// Config controls the cleaning simulation.
type Config struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	// MaxCleaners caps how many cleaners are ever created.
	MaxCleaners int `json:"max_cleaners" yaml:"max_cleaners"`
	// TrashDensity is the percentage (0-100) of cells seeded with trash.
	TrashDensity float64 `json:"trash_density" yaml:"trash_density"`
	// TimeBudget is the wall-clock budget in seconds.
	TimeBudget float64 `json:"time_budget" yaml:"time_budget"`

	Seed       int64      `json:"seed" yaml:"seed"`
	Spawn      core.Point `json:"spawn" yaml:"spawn"`
	Torus      bool       `json:"torus" yaml:"torus"`
	Activation Activation `json:"activation" yaml:"activation"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:        25,
		Height:       25,
		MaxCleaners:  15,
		TrashDensity: 20,
		TimeBudget:   60,
		Seed:         42,
		Spawn:        core.Point{X: 1, Y: 1},
		Torus:        true,
		Activation:   ActivationSequential,
	}
}

// Budget converts TimeBudget to a duration.
func (c Config) Budget() time.Duration {
	if math.IsInf(c.TimeBudget, 1) || c.TimeBudget*float64(time.Second) >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(c.TimeBudget * float64(time.Second))
}

// TrashCount is the number of trash agents the density asks for.
func (c Config) TrashCount() int {
	return int(float64(c.Width*c.Height) * c.TrashDensity / 100)
}

// Validate reports the first invalid field as a *ConfigurationError.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0:
		return &ConfigurationError{Field: "width", Value: c.Width, Reason: "must be positive"}
	case c.Height <= 0:
		return &ConfigurationError{Field: "height", Value: c.Height, Reason: "must be positive"}
	case c.MaxCleaners <= 0:
		return &ConfigurationError{Field: "max_cleaners", Value: c.MaxCleaners, Reason: "must be positive"}
	case math.IsNaN(c.TrashDensity) || c.TrashDensity < 0 || c.TrashDensity > 100:
		return &ConfigurationError{Field: "trash_density", Value: c.TrashDensity, Reason: "must be within [0, 100]"}
	case math.IsNaN(c.TimeBudget) || c.TimeBudget <= 0:
		return &ConfigurationError{Field: "time_budget", Value: c.TimeBudget, Reason: "must be positive"}
	case c.Spawn.X < 0 || c.Spawn.X >= c.Width || c.Spawn.Y < 0 || c.Spawn.Y >= c.Height:
		return &ConfigurationError{Field: "spawn", Value: c.Spawn, Reason: "must lie inside the grid"}
	}
	switch c.Activation {
	case ActivationSequential, ActivationSnapshot:
	default:
		return &ConfigurationError{Field: "activation", Value: c.Activation, Reason: "must be sequential or snapshot"}
	}
	return nil
}

// ParseActivation maps a user-supplied name to an Activation.
func ParseActivation(s string) (Activation, bool) {
	switch Activation(strings.ToLower(strings.TrimSpace(s))) {
	case ActivationSequential:
		return ActivationSequential, true
	case ActivationSnapshot:
		return ActivationSnapshot, true
	}
	return "", false
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["cleaners"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.MaxCleaners = parsed
		}
	}
	if v, ok := cfg["trash"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 100 {
			c.TrashDensity = parsed
		}
	}
	if v, ok := cfg["budget"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.TimeBudget = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["spawn_x"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Spawn.X = parsed
		}
	}
	if v, ok := cfg["spawn_y"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Spawn.Y = parsed
		}
	}
	if v, ok := cfg["torus"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Torus = parsed
		}
	}
	if v, ok := cfg["activation"]; ok {
		if parsed, ok := ParseActivation(v); ok {
			c.Activation = parsed
		}
	}
	return c
}

// LoadFile reads a YAML scenario file over the defaults. Omitted keys keep
// their default values. The result is not validated.
func LoadFile(path string) (Config, error) {
	c := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return c, nil
}
