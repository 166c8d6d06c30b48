package main

import (
	"fmt"

	"robot-cleaners/internal/core"
	"robot-cleaners/internal/sims/cleaners"

	"github.com/spf13/cobra"
)

// addScenarioFlags registers the world configuration flags shared by every
// command that builds a World.
func addScenarioFlags(cmd *cobra.Command) {
	def := cleaners.DefaultConfig()
	f := cmd.Flags()
	f.String("config", "", "YAML scenario file; flags override its values")
	f.Int("width", def.Width, "Grid width in cells")
	f.Int("height", def.Height, "Grid height in cells")
	f.Int("cleaners", def.MaxCleaners, "Maximum number of cleaners ever created")
	f.Float64("trash", def.TrashDensity, "Trash density in percent of cells")
	f.Float64("budget", def.TimeBudget, "Wall-clock time budget in seconds")
	f.Int64("seed", def.Seed, "Random seed")
	f.Int("spawn-x", def.Spawn.X, "Spawn cell column")
	f.Int("spawn-y", def.Spawn.Y, "Spawn cell row")
	f.Bool("torus", def.Torus, "Wrap the neighbourhood query around the grid edges")
	f.String("activation", string(def.Activation), "Activation mode: sequential or snapshot")
}

// scenarioFromFlags resolves defaults, then the scenario file, then any flag
// the user set explicitly.
func scenarioFromFlags(cmd *cobra.Command) (cleaners.Config, error) {
	f := cmd.Flags()
	cfg := cleaners.DefaultConfig()
	if path, _ := f.GetString("config"); path != "" {
		loaded, err := cleaners.LoadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if f.Changed("width") {
		cfg.Width, _ = f.GetInt("width")
	}
	if f.Changed("height") {
		cfg.Height, _ = f.GetInt("height")
	}
	if f.Changed("cleaners") {
		cfg.MaxCleaners, _ = f.GetInt("cleaners")
	}
	if f.Changed("trash") {
		cfg.TrashDensity, _ = f.GetFloat64("trash")
	}
	if f.Changed("budget") {
		cfg.TimeBudget, _ = f.GetFloat64("budget")
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("spawn-x") || f.Changed("spawn-y") {
		x, _ := f.GetInt("spawn-x")
		y, _ := f.GetInt("spawn-y")
		if !f.Changed("spawn-x") {
			x = cfg.Spawn.X
		}
		if !f.Changed("spawn-y") {
			y = cfg.Spawn.Y
		}
		cfg.Spawn = core.Point{X: x, Y: y}
	}
	if f.Changed("torus") {
		cfg.Torus, _ = f.GetBool("torus")
	}
	if f.Changed("activation") {
		raw, _ := f.GetString("activation")
		mode, ok := cleaners.ParseActivation(raw)
		if !ok {
			return cfg, &cleaners.ConfigurationError{Field: "activation", Value: raw, Reason: "want sequential or snapshot"}
		}
		cfg.Activation = mode
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("scenario: %w", err)
	}
	return cfg, nil
}
