package sweep

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"robot-cleaners/internal/sims/cleaners"
)

func smallBase() cleaners.Config {
	cfg := cleaners.DefaultConfig()
	cfg.Width, cfg.Height = 6, 6
	cfg.TrashDensity = 20
	return cfg
}

func TestPlanSets(t *testing.T) {
	plan := Plan{
		Base:      smallBase(),
		Cleaners:  []int{1, 4},
		Densities: []float64{10, 30, 50},
		Seeds:     []int64{1, 2},
	}
	sets := plan.Sets()
	if len(sets) != 12 {
		t.Fatalf("got %d sets, want 12", len(sets))
	}
	if sets[0] != (Params{MaxCleaners: 1, TrashDensity: 10, Seed: 1}) {
		t.Fatalf("first set = %+v", sets[0])
	}

	defaults := Plan{Base: smallBase()}.Sets()
	if len(defaults) != 1 || defaults[0].MaxCleaners != smallBase().MaxCleaners {
		t.Fatalf("empty plan should fall back to the base config, got %+v", defaults)
	}
}

func TestRunReturnsEveryScenario(t *testing.T) {
	plan := Plan{
		Base:      smallBase(),
		Cleaners:  []int{2, 6},
		Densities: []float64{10, 40},
		Seeds:     []int64{7},
		MaxTicks:  400,
		Workers:   3,
	}
	results := Run(context.Background(), plan)
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for i, res := range results {
		if res.Err != "" {
			t.Fatalf("scenario %s failed: %s", res.Params, res.Err)
		}
		if res.Summary.Ticks > plan.MaxTicks {
			t.Fatalf("scenario %s ran %d ticks, cap %d", res.Params, res.Summary.Ticks, plan.MaxTicks)
		}
		if res.Cleaned != (res.Summary.TrashRemaining == 0) {
			t.Fatalf("scenario %s cleaned flag disagrees with summary", res.Params)
		}
		if i > 0 && res.Cleaned && !results[i-1].Cleaned {
			t.Fatal("cleaned scenario ranked after an unfinished one")
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	plan := Plan{Base: smallBase(), Cleaners: []int{3}, Seeds: []int64{11}, MaxTicks: 200, Workers: 1}
	a := Run(context.Background(), plan)
	b := Run(context.Background(), plan)
	if a[0].Summary.Ticks != b[0].Summary.Ticks || a[0].Summary.MovesMade != b[0].Summary.MovesMade {
		t.Fatalf("same seed produced different runs: %+v vs %+v", a[0].Summary, b[0].Summary)
	}
}

func TestRankOrder(t *testing.T) {
	results := []Result{
		{Params: Params{Seed: 1}, Err: "boom"},
		{Params: Params{Seed: 2}, Summary: cleaners.Summary{TrashRemaining: 3}},
		{Params: Params{Seed: 3}, Cleaned: true, Summary: cleaners.Summary{Ticks: 90}},
		{Params: Params{Seed: 4}, Summary: cleaners.Summary{TrashRemaining: 1}},
		{Params: Params{Seed: 5}, Cleaned: true, Summary: cleaners.Summary{Ticks: 40}},
	}
	Rank(results)
	var order []int64
	for _, r := range results {
		order = append(order, r.Params.Seed)
	}
	want := []int64{5, 3, 4, 2, 1}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("rank order = %v, want %v", order, want)
		}
	}
}

func TestInvalidScenarioReportsError(t *testing.T) {
	plan := Plan{Base: smallBase(), Densities: []float64{150}, MaxTicks: 10}
	results := Run(context.Background(), plan)
	if len(results) != 1 || results[0].Err == "" {
		t.Fatalf("expected a configuration error, got %+v", results)
	}
	var buf bytes.Buffer
	if err := WriteTop(&buf, results, 5); err != nil {
		t.Fatalf("WriteTop: %v", err)
	}
	if !strings.Contains(buf.String(), "error=") {
		t.Fatalf("report missing error: %q", buf.String())
	}
}
