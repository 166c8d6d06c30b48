package app

import (
	"flag"
	"fmt"
	"strings"
)

// Config holds the GUI launch options.
type Config struct {
	Sim        string
	Scale      int
	TPS        int
	Seed       int64
	PanelWidth int
	Paused     bool
	LogLevel   string
	// Options is a comma separated list of key=value overrides handed to the
	// simulation factory, e.g. "w=40,h=30,cleaners=20".
	Options string
}

// NewConfig returns the default GUI configuration.
func NewConfig() Config {
	return Config{
		Sim:        "cleaners",
		Scale:      16,
		TPS:        10,
		PanelWidth: 240,
		LogLevel:   "info",
	}
}

// Bind registers the configuration flags on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 keeps the scenario seed)")
	fs.IntVar(&c.PanelWidth, "panel", c.PanelWidth, "HUD panel width in pixels (0 hides it)")
	fs.BoolVar(&c.Paused, "paused", c.Paused, "start paused")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: trace, debug, info, warn, error")
	fs.StringVar(&c.Options, "opts", c.Options, "comma separated key=value simulation options")
}

// SimOptions parses Options into the map consumed by simulation factories.
func (c Config) SimOptions() (map[string]string, error) {
	out := map[string]string{}
	if strings.TrimSpace(c.Options) == "" {
		return out, nil
	}
	for _, pair := range strings.Split(c.Options, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid option %q: want key=value", pair)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}
