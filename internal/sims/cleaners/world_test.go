package cleaners

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"robot-cleaners/internal/core"
)

// scriptedRand replays fixed draws and never shuffles.
type scriptedRand struct {
	draws []int
	i     int
}

func (r *scriptedRand) IntN(n int) int {
	if r.i >= len(r.draws) {
		return 0
	}
	v := r.draws[r.i] % n
	r.i++
	return v
}

func (r *scriptedRand) Shuffle(int, func(i, j int)) {}

func fixedClock(t0 time.Time) func() time.Time {
	return func() time.Time { return t0 }
}

func emptyConfig(w, h int) Config {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.TrashDensity = 0
	cfg.TimeBudget = 3600
	cfg.Torus = false
	return cfg
}

// addCleaner places an extra cleaner outside the spawn rule.
func addCleaner(t *testing.T, w *World, p core.Point) *Agent {
	t.Helper()
	a := w.addAgent(KindCleaner, p)
	if a == nil {
		t.Fatalf("could not place cleaner at %v", p)
	}
	w.created++
	return a
}

func checkOccupancy(t *testing.T, w *World) {
	t.Helper()
	agents := w.Agents()
	seen := make(map[core.Point]int, len(agents))
	for _, a := range agents {
		if prev, dup := seen[a.Pos]; dup {
			t.Fatalf("agents %d and %d share cell %v", prev, a.ID, a.Pos)
		}
		seen[a.Pos] = a.ID
		got, ok := w.ContentsAt(a.Pos)
		if !ok || got.ID != a.ID {
			t.Fatalf("grid at %v holds %+v, want agent %d", a.Pos, got, a.ID)
		}
	}
	occupied := 0
	size := w.Size()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			if !w.IsEmpty(core.Point{X: x, Y: y}) {
				occupied++
			}
		}
	}
	if occupied != len(agents) {
		t.Fatalf("%d occupied cells for %d live agents", occupied, len(agents))
	}
}

func TestEmptyGridStopsAfterOneTick(t *testing.T) {
	cfg := emptyConfig(5, 5)
	cfg.MaxCleaners = 1
	cfg.TimeBudget = 10

	w, err := New(cfg, WithClock(fixedClock(time.Unix(100, 0))))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !w.Running() {
		t.Fatal("world should be running after construction")
	}
	w.Step()
	if w.Running() {
		t.Fatal("world without trash should stop after the first tick")
	}
	s := w.Summary()
	if s.StopReason != StopAllClean {
		t.Fatalf("stop reason = %q", s.StopReason)
	}
	if s.CleanedCellsPercent != 4 {
		t.Fatalf("cleaned cells percent = %v, want 4", s.CleanedCellsPercent)
	}
	if s.AgentMoves != 1 {
		t.Fatalf("agent moves = %d, want 1", s.AgentMoves)
	}
	if s.TrashCleanedPercent != 100 {
		t.Fatalf("trash cleaned percent = %v, want 100", s.TrashCleanedPercent)
	}
}

func TestFullDensityExcludesSpawnCell(t *testing.T) {
	cfg := emptyConfig(10, 10)
	cfg.MaxCleaners = 1
	cfg.TrashDensity = 99
	cfg.TimeBudget = 1e9

	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := w.TrashRemaining(); got != 99 {
		t.Fatalf("trash placed = %d, want 99", got)
	}
	a, ok := w.ContentsAt(cfg.Spawn)
	if !ok || a.Kind != KindCleaner {
		t.Fatalf("spawn cell holds %+v, want the first cleaner", a)
	}
	checkOccupancy(t, w)

	cfg.TrashDensity = 100
	_, err = New(cfg)
	var pe *PlacementExhaustedError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PlacementExhaustedError, got %v", err)
	}
	if pe.Requested != 100 || pe.Available != 99 {
		t.Fatalf("placement error = %+v", pe)
	}
}

func TestCleanerRemovesAdjacentTrash(t *testing.T) {
	cfg := emptyConfig(5, 5)
	cfg.MaxCleaners = 3
	cfg.Spawn = core.Point{X: 0, Y: 0}

	// Cleaner 0 picks (+1,+1); the blockers pick cells off the grid.
	rng := &scriptedRand{draws: []int{7, 0, 0}}
	w, err := New(cfg, WithRand(rng), WithClock(fixedClock(time.Unix(0, 0))))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	trash := w.addAgent(KindTrash, core.Point{X: 1, Y: 1})
	w.trashInitial = w.trash
	addCleaner(t, w, core.Point{X: 1, Y: 0})
	addCleaner(t, w, core.Point{X: 0, Y: 1})

	w.Step()

	got, ok := w.ContentsAt(core.Point{X: 1, Y: 1})
	if !ok || got.Kind != KindCleaner || got.ID != 0 {
		t.Fatalf("(1,1) holds %+v, want cleaner 0", got)
	}
	for _, a := range w.Agents() {
		if a.ID == trash.ID {
			t.Fatal("removed trash is still a live agent")
		}
	}
	if w.TrashRemaining() != 0 || w.Running() {
		t.Fatalf("trash=%d running=%v, want 0 and stopped", w.TrashRemaining(), w.Running())
	}
	if s := w.Summary(); s.MovesMade != 1 || s.CleanersCreated != 3 {
		t.Fatalf("moves=%d created=%d", s.MovesMade, s.CleanersCreated)
	}
	checkOccupancy(t, w)
}

func TestContestedCellHasOneWinner(t *testing.T) {
	for _, mode := range []Activation{ActivationSequential, ActivationSnapshot} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := emptyConfig(5, 5)
			cfg.MaxCleaners = 2
			cfg.Spawn = core.Point{X: 0, Y: 0}
			cfg.Activation = mode

			// Both cleaners aim at (1,0).
			rng := &scriptedRand{draws: []int{6, 1}}
			w, err := New(cfg, WithRand(rng))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			second := addCleaner(t, w, core.Point{X: 2, Y: 0})

			w.Step()

			winner, ok := w.ContentsAt(core.Point{X: 1, Y: 0})
			if !ok || winner.ID != 0 {
				t.Fatalf("(1,0) holds %+v, want cleaner 0", winner)
			}
			if second.Pos != (core.Point{X: 2, Y: 0}) {
				t.Fatalf("losing cleaner moved to %v", second.Pos)
			}
			checkOccupancy(t, w)
		})
	}
}

func TestSnapshotIgnoresCellsVacatedThisTick(t *testing.T) {
	tests := []struct {
		mode Activation
		want core.Point
	}{
		{ActivationSequential, core.Point{X: 1, Y: 0}},
		{ActivationSnapshot, core.Point{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			cfg := emptyConfig(5, 5)
			cfg.MaxCleaners = 2
			cfg.Spawn = core.Point{X: 1, Y: 0}
			cfg.Activation = tt.mode

			// Cleaner 0 steps right out of (1,0); the follower steps into it.
			rng := &scriptedRand{draws: []int{6, 6}}
			w, err := New(cfg, WithRand(rng))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			follower := addCleaner(t, w, core.Point{X: 0, Y: 0})

			w.Step()

			if follower.Pos != tt.want {
				t.Fatalf("follower at %v, want %v", follower.Pos, tt.want)
			}
			if a, ok := w.ContentsAt(core.Point{X: 2, Y: 0}); !ok || a.ID != 0 {
				t.Fatalf("(2,0) holds %+v, want cleaner 0", a)
			}
			checkOccupancy(t, w)
		})
	}
}

func TestOutOfBoundsDrawKeepsCleanerInPlace(t *testing.T) {
	cfg := emptyConfig(4, 4)
	cfg.Spawn = core.Point{X: 0, Y: 0}
	cfg.Torus = true
	w, err := New(cfg, WithRand(&scriptedRand{draws: []int{0}}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Step()
	a, ok := w.ContentsAt(core.Point{X: 0, Y: 0})
	if !ok || a.ID != 0 {
		t.Fatalf("cleaner should not wrap or move, spawn holds %+v", a)
	}
	if w.Summary().MovesMade != 0 {
		t.Fatal("blocked draw must not count as a move")
	}
}

func TestInvariantsHoldOverManyTicks(t *testing.T) {
	for _, mode := range []Activation{ActivationSequential, ActivationSnapshot} {
		for seed := int64(1); seed <= 5; seed++ {
			cfg := DefaultConfig()
			cfg.Width = 10
			cfg.Height = 8
			cfg.TrashDensity = 30
			cfg.MaxCleaners = 6
			cfg.TimeBudget = 1e6
			cfg.Seed = seed
			cfg.Activation = mode

			w, err := New(cfg, WithClock(fixedClock(time.Unix(0, 0))))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			prevTrash := w.TrashRemaining()
			prevCleaners := w.CleanerCount()
			prevCreated := w.Summary().CleanersCreated
			for tick := 0; tick < 400 && w.Running(); tick++ {
				w.Step()
				checkOccupancy(t, w)

				s := w.Summary()
				if s.TrashRemaining > prevTrash {
					t.Fatalf("%s seed %d tick %d: trash grew %d -> %d", mode, seed, tick, prevTrash, s.TrashRemaining)
				}
				if s.Cleaners < prevCleaners {
					t.Fatalf("%s seed %d tick %d: cleaners shrank %d -> %d", mode, seed, tick, prevCleaners, s.Cleaners)
				}
				if s.CleanersCreated > cfg.MaxCleaners {
					t.Fatalf("created %d cleaners, cap is %d", s.CleanersCreated, cfg.MaxCleaners)
				}
				if s.CleanersCreated-prevCreated > 1 {
					t.Fatalf("spawned %d cleaners in one tick", s.CleanersCreated-prevCreated)
				}
				if s.CleanersCreated > prevCreated {
					agents := w.Agents()
					last := agents[len(agents)-1]
					if last.Kind != KindCleaner || last.Pos != cfg.Spawn {
						t.Fatalf("new cleaner %+v not at spawn %v", last, cfg.Spawn)
					}
				}
				prevTrash, prevCleaners, prevCreated = s.TrashRemaining, s.Cleaners, s.CleanersCreated
			}
		}
	}
}

func TestStoppedWorldIgnoresStep(t *testing.T) {
	cfg := emptyConfig(5, 5)
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Step()
	if w.Running() {
		t.Fatal("expected stop")
	}
	before := w.Summary()
	agents := w.Agents()
	for i := 0; i < 5; i++ {
		w.Step()
	}
	if after := w.Summary(); after != before {
		t.Fatalf("summary changed after stop: %+v vs %+v", after, before)
	}
	if !slices.Equal(agents, w.Agents()) {
		t.Fatal("agents changed after stop")
	}
}

func TestTimeBudgetStopsRun(t *testing.T) {
	start := time.Unix(1000, 0)
	now := start
	cfg := DefaultConfig()
	cfg.Width = 10
	cfg.Height = 10
	cfg.TrashDensity = 50
	cfg.TimeBudget = 1

	w, err := New(cfg, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	now = start.Add(500 * time.Millisecond)
	w.Step()
	if !w.Running() {
		t.Fatal("stopped before the budget elapsed")
	}
	now = start.Add(time.Second)
	w.Step()
	if w.Running() {
		t.Fatal("still running once elapsed reached the budget")
	}
	s := w.Summary()
	if s.StopReason != StopTimeBudget || s.Elapsed != time.Second {
		t.Fatalf("reason=%q elapsed=%v", s.StopReason, s.Elapsed)
	}
	if s.TrashRemaining == 0 {
		t.Fatal("test setup should leave trash behind")
	}
}

func TestResetIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	clock := WithClock(fixedClock(time.Unix(0, 0)))

	a, err := New(cfg, clock)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(cfg, clock)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 50; i++ {
		a.Step()
		b.Step()
	}
	if !slices.Equal(a.Agents(), b.Agents()) {
		t.Fatal("same seed produced different runs")
	}
	snapshot := a.Agents()

	if err := a.Reset(0); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if a.Ticks() != 0 || !a.Running() {
		t.Fatalf("reset left ticks=%d running=%v", a.Ticks(), a.Running())
	}
	for i := 0; i < 50; i++ {
		a.Step()
	}
	if !slices.Equal(snapshot, a.Agents()) {
		t.Fatal("Reset with the configured seed did not replay the run")
	}

	if err := a.Reset(7); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if slices.Equal(snapshot[:10], a.Agents()[:10]) {
		t.Fatal("different seed should place trash differently")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	_, err := New(cfg)
	var ce *ConfigurationError
	if !errors.As(err, &ce) || ce.Field != "width" {
		t.Fatalf("expected width ConfigurationError, got %v", err)
	}
}

func TestDisplayBufferTracksAgents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 12
	cfg.Height = 9
	cfg.TrashDensity = 25
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 20; i++ {
		w.Step()
	}
	counts := map[uint8]int{}
	for _, c := range w.Cells() {
		counts[c]++
	}
	if counts[CellTrash] != w.TrashRemaining() {
		t.Fatalf("display shows %d trash, world has %d", counts[CellTrash], w.TrashRemaining())
	}
	if counts[CellCleaner] != w.CleanerCount() {
		t.Fatalf("display shows %d cleaners, world has %d", counts[CellCleaner], w.CleanerCount())
	}
	if len(w.Palette()) <= int(CellSpawn) {
		t.Fatal("palette must cover every display value")
	}

	mask := w.CoverageMask()
	peak := float32(0)
	for _, v := range mask {
		peak = max(peak, v)
	}
	if peak != 1 {
		t.Fatalf("coverage mask peak = %v, want 1", peak)
	}
	if w.Summary().CellsVisited == 0 {
		t.Fatal("cells visited should count the spawn cell at least")
	}
}

func TestSummaryReport(t *testing.T) {
	cfg := emptyConfig(5, 5)
	cfg.MaxCleaners = 1
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Step()
	var b strings.Builder
	if err := w.Summary().Report(&b); err != nil {
		t.Fatalf("Report: %v", err)
	}
	out := b.String()
	for _, want := range []string{"Clean cells percentage: 4%", "Agent moves: 1", "all_clean"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRegisteredFactories(t *testing.T) {
	for _, name := range []string{"cleaners", "cleaners-snapshot"} {
		f, ok := core.Sims()[name]
		if !ok {
			t.Fatalf("%s not registered", name)
		}
		sim, err := f(map[string]string{"w": "8", "h": "6", "trash": "10"})
		if err != nil {
			t.Fatalf("%s factory: %v", name, err)
		}
		if sim.Name() != name {
			t.Fatalf("factory %s built %s", name, sim.Name())
		}
		if sim.Size() != (core.Size{W: 8, H: 6}) {
			t.Fatalf("size = %+v", sim.Size())
		}
	}
}
