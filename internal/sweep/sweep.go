// Package sweep runs many headless cleaning scenarios in parallel and ranks
// them by how quickly they clean the grid.
package sweep

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"time"

	"robot-cleaners/internal/sims/cleaners"
)

// Params is one point of the sweep grid.
type Params struct {
	MaxCleaners  int     `json:"max_cleaners"`
	TrashDensity float64 `json:"trash_density"`
	Seed         int64   `json:"seed"`
}

func (p Params) String() string {
	return fmt.Sprintf("cleaners=%d trash=%.1f%% seed=%d", p.MaxCleaners, p.TrashDensity, p.Seed)
}

// Result is the outcome of one scenario.
type Result struct {
	Params  Params           `json:"params"`
	Summary cleaners.Summary `json:"summary"`
	// Cleaned is true when every piece of trash was removed within the tick cap.
	Cleaned bool   `json:"cleaned"`
	Err     string `json:"error,omitempty"`
}

// Plan describes the cartesian product of scenarios to run.
type Plan struct {
	Base      cleaners.Config
	Cleaners  []int
	Densities []float64
	Seeds     []int64
	// MaxTicks caps each scenario. Elapsed time advances one millisecond per
	// tick, so the time budget is measured in simulated time.
	MaxTicks int
	Workers  int
}

// Sets expands the plan into individual parameter points.
func (p Plan) Sets() []Params {
	cl := p.Cleaners
	if len(cl) == 0 {
		cl = []int{p.Base.MaxCleaners}
	}
	dens := p.Densities
	if len(dens) == 0 {
		dens = []float64{p.Base.TrashDensity}
	}
	seeds := p.Seeds
	if len(seeds) == 0 {
		seeds = []int64{p.Base.Seed}
	}
	var sets []Params
	for _, c := range cl {
		for _, d := range dens {
			for _, s := range seeds {
				sets = append(sets, Params{MaxCleaners: c, TrashDensity: d, Seed: s})
			}
		}
	}
	return sets
}

// Run executes every scenario of the plan on a worker pool. Results come back
// ranked: cleaned runs first by fewest ticks, then the rest by least trash left.
func Run(ctx context.Context, plan Plan) []Result {
	workers := plan.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sets := plan.Sets()

	jobs := make(chan Params)
	results := make(chan Result)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				results <- runScenario(plan.Base, params, plan.MaxTicks)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, params := range sets {
			select {
			case jobs <- params:
			case <-ctx.Done():
				return
			}
		}
	}()

	all := make([]Result, 0, len(sets))
	for res := range results {
		all = append(all, res)
	}
	Rank(all)
	return all
}

// Rank orders results best first.
func Rank(all []Result) {
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if (a.Err == "") != (b.Err == "") {
			return a.Err == ""
		}
		if a.Cleaned != b.Cleaned {
			return a.Cleaned
		}
		if a.Cleaned {
			if a.Summary.Ticks != b.Summary.Ticks {
				return a.Summary.Ticks < b.Summary.Ticks
			}
		} else if a.Summary.TrashRemaining != b.Summary.TrashRemaining {
			return a.Summary.TrashRemaining < b.Summary.TrashRemaining
		}
		return a.Summary.MovesMade < b.Summary.MovesMade
	})
}

// tickClock advances one millisecond per call so elapsed time tracks ticks.
type tickClock struct{ t time.Time }

func (c *tickClock) now() time.Time {
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func runScenario(base cleaners.Config, params Params, maxTicks int) Result {
	cfg := base
	cfg.MaxCleaners = params.MaxCleaners
	cfg.TrashDensity = params.TrashDensity
	cfg.Seed = params.Seed

	clock := &tickClock{t: time.Unix(0, 0)}
	world, err := cleaners.New(cfg, cleaners.WithClock(clock.now))
	if err != nil {
		return Result{Params: params, Err: err.Error()}
	}
	for world.Running() && (maxTicks <= 0 || world.Ticks() < maxTicks) {
		world.Step()
	}
	s := world.Summary()
	return Result{Params: params, Summary: s, Cleaned: s.TrashRemaining == 0}
}

// WriteTop prints the n best results.
func WriteTop(w io.Writer, all []Result, n int) error {
	for i := 0; i < len(all) && i < n; i++ {
		res := all[i]
		if res.Err != "" {
			if _, err := fmt.Fprintf(w, "%2d) %s error=%s\n", i+1, res.Params, res.Err); err != nil {
				return err
			}
			continue
		}
		s := res.Summary
		if _, err := fmt.Fprintf(w, "%2d) %s cleaned=%v ticks=%d trash=%d/%d moves=%d visited=%d/%d\n",
			i+1, res.Params, res.Cleaned, s.Ticks, s.TrashRemaining, s.TrashInitial,
			s.MovesMade, s.CellsVisited, s.TotalCells); err != nil {
			return err
		}
	}
	return nil
}
