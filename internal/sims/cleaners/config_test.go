package cleaners

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"robot-cleaners/internal/core"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero width", func(c *Config) { c.Width = 0 }, "width"},
		{"negative height", func(c *Config) { c.Height = -3 }, "height"},
		{"no cleaners", func(c *Config) { c.MaxCleaners = 0 }, "max_cleaners"},
		{"density above 100", func(c *Config) { c.TrashDensity = 100.5 }, "trash_density"},
		{"negative density", func(c *Config) { c.TrashDensity = -1 }, "trash_density"},
		{"NaN density", func(c *Config) { c.TrashDensity = math.NaN() }, "trash_density"},
		{"zero budget", func(c *Config) { c.TimeBudget = 0 }, "time_budget"},
		{"spawn outside", func(c *Config) { c.Spawn = core.Point{X: 25, Y: 0} }, "spawn"},
		{"spawn on 1x1 default", func(c *Config) { c.Width, c.Height = 1, 1 }, "spawn"},
		{"unknown activation", func(c *Config) { c.Activation = "random" }, "activation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if ce.Field != tt.field {
				t.Fatalf("field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{
		"w":          "40",
		"h":          "30",
		"cleaners":   "4",
		"trash":      "35.5",
		"budget":     "12",
		"seed":       "-9",
		"spawn_x":    "3",
		"spawn_y":    "2",
		"torus":      "false",
		"activation": "Snapshot",
	})
	want := Config{
		Width: 40, Height: 30, MaxCleaners: 4, TrashDensity: 35.5, TimeBudget: 12,
		Seed: -9, Spawn: core.Point{X: 3, Y: 2}, Torus: false, Activation: ActivationSnapshot,
	}
	if c != want {
		t.Fatalf("FromMap = %+v, want %+v", c, want)
	}

	bad := FromMap(map[string]string{"w": "-1", "trash": "250", "budget": "x", "activation": "chaos"})
	if bad != DefaultConfig() {
		t.Fatalf("invalid values should keep defaults, got %+v", bad)
	}
	if FromMap(nil) != DefaultConfig() {
		t.Fatal("nil map should yield defaults")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	body := "width: 12\nheight: 8\nmax_cleaners: 3\ntrash_density: 15\nspawn:\n  x: 2\n  y: 3\nactivation: snapshot\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Width != 12 || c.Height != 8 || c.MaxCleaners != 3 || c.TrashDensity != 15 {
		t.Fatalf("loaded %+v", c)
	}
	if c.Spawn != (core.Point{X: 2, Y: 3}) || c.Activation != ActivationSnapshot {
		t.Fatalf("loaded spawn %v activation %q", c.Spawn, c.Activation)
	}
	if c.TimeBudget != DefaultConfig().TimeBudget {
		t.Fatalf("omitted keys should keep defaults, budget = %v", c.TimeBudget)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file error = %v", err)
	}
	if err := os.WriteFile(path, []byte("width: [\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("malformed YAML should fail")
	}
}

func TestBudget(t *testing.T) {
	c := DefaultConfig()
	c.TimeBudget = 1.5
	if c.Budget() != 1500*time.Millisecond {
		t.Fatalf("Budget = %v", c.Budget())
	}
	c.TimeBudget = math.Inf(1)
	if c.Budget() != time.Duration(math.MaxInt64) {
		t.Fatalf("infinite budget = %v", c.Budget())
	}
}

func TestParameterSetters(t *testing.T) {
	w, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !w.SetIntParameter("max_cleaners", 3) || w.Config().MaxCleaners != 3 {
		t.Fatal("max_cleaners should be adjustable")
	}
	if w.SetIntParameter("max_cleaners", 0) {
		t.Fatal("max_cleaners must stay positive")
	}
	if w.SetIntParameter("width", 10) {
		t.Fatal("width is not adjustable")
	}
	if !w.SetFloatParameter("time_budget", 30) || w.Config().TimeBudget != 30 {
		t.Fatal("time_budget should be adjustable")
	}
	if w.SetFloatParameter("time_budget", -1) {
		t.Fatal("time_budget must stay positive")
	}
	p, ok := w.Parameters().Lookup("max_cleaners")
	if !ok || p.Value != "3" {
		t.Fatalf("snapshot max_cleaners = %+v", p)
	}
	if len(w.ParameterControls()) != 2 {
		t.Fatal("expected two HUD controls")
	}
}
