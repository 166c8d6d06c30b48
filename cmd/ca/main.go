//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"robot-cleaners/internal/app"
	"robot-cleaners/internal/core"
	"robot-cleaners/internal/logging"
	"robot-cleaners/internal/sims/cleaners"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := logging.NewLogger(cfg.LogLevel, os.Stderr)

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.Fatalf("unknown sim %q", cfg.Sim)
	}
	opts, err := cfg.SimOptions()
	if err != nil {
		log.Fatal(err)
	}
	sim, err := factory(opts)
	if err != nil {
		log.Fatalf("create %s: %v", cfg.Sim, err)
	}
	if cfg.Seed != 0 {
		if err := sim.Reset(cfg.Seed); err != nil {
			log.Fatalf("reset %s: %v", cfg.Sim, err)
		}
	}

	game := app.New(sim, cfg, logger)
	size := sim.Size()

	ebiten.SetWindowTitle("robot cleaners: " + sim.Name())
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.PanelWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}

	if w, ok := sim.(*cleaners.World); ok {
		if err := w.Summary().Report(os.Stdout); err != nil {
			log.Fatal(err)
		}
	}
}
