package cleaners

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"robot-cleaners/internal/core"
	"robot-cleaners/internal/logging"
	pcore "robot-cleaners/pkg/core"
)

// Rand is the random source a World draws from.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Option customises a World at construction.
type Option func(*World)

// WithRand injects the random source. Reset keeps using it instead of
// reseeding.
func WithRand(r Rand) Option {
	return func(w *World) {
		w.rng = r
		w.fixedRand = r != nil
	}
}

// WithClock replaces time.Now for elapsed-time accounting.
func WithClock(now func() time.Time) Option {
	return func(w *World) {
		if now != nil {
			w.now = now
		}
	}
}

// WithLogger sets the logger used for lifecycle records.
func WithLogger(l *slog.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// World owns the grid and every live agent of one cleaning run.
type World struct {
	cfg Config

	grid     *core.Grid[*Agent]
	agents   []*Agent
	cleaners []*Agent

	nextID       int
	created      int
	trashInitial int
	trash        int
	// cleanerStat is the live cleaner count sampled during the last tick,
	// before that tick's spawn.
	cleanerStat int
	ticks       int
	moves       int

	start   time.Time
	elapsed time.Duration
	running bool
	reason  StopReason

	visits  []uint32
	visited int
	display []uint8

	rng       Rand
	fixedRand bool
	now       func() time.Time
	log       *slog.Logger
}

// New validates cfg, seeds the trash and places the first cleaner.
func New(cfg Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	total := cfg.Width * cfg.Height
	w := &World{
		cfg:     cfg,
		grid:    core.NewGrid[*Agent](cfg.Width, cfg.Height, cfg.Torus),
		visits:  make([]uint32, total),
		display: make([]uint8, total),
		now:     time.Now,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = pcore.NewRNG(cfg.Seed)
	}
	if err := w.populate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Name returns the simulation identifier.
func (w *World) Name() string {
	if w.cfg.Activation == ActivationSnapshot {
		return "cleaners-snapshot"
	}
	return "cleaners"
}

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.cfg.Width, H: w.cfg.Height} }

// Config returns the configuration the world runs with.
func (w *World) Config() Config { return w.cfg }

// SpawnPoint returns the cell where new cleaners appear.
func (w *World) SpawnPoint() core.Point { return w.cfg.Spawn }

// Running reports whether the simulation should continue.
func (w *World) Running() bool { return w.running }

// Reset discards the current run and starts a new one. A zero seed reuses
// the configured seed.
func (w *World) Reset(seed int64) error {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	if !w.fixedRand {
		w.rng = pcore.NewRNG(effective)
	}
	w.cfg.Seed = effective
	return w.populate()
}

func (w *World) populate() error {
	w.grid.Clear()
	w.agents = w.agents[:0]
	w.cleaners = w.cleaners[:0]
	w.nextID, w.created = 0, 0
	w.trash, w.trashInitial, w.cleanerStat = 0, 0, 0
	w.ticks, w.moves = 0, 0
	w.elapsed = 0
	w.reason = StopNone
	w.visited = 0
	clear(w.visits)

	want := w.cfg.TrashCount()
	free := make([]core.Point, 0, w.cfg.Width*w.cfg.Height)
	for y := 0; y < w.cfg.Height; y++ {
		for x := 0; x < w.cfg.Width; x++ {
			if p := (core.Point{X: x, Y: y}); p != w.cfg.Spawn {
				free = append(free, p)
			}
		}
	}
	if want > len(free) {
		w.running = false
		return &PlacementExhaustedError{Requested: want, Available: len(free)}
	}
	w.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	for _, p := range free[:want] {
		w.addAgent(KindTrash, p)
	}
	w.trashInitial = w.trash

	w.spawnCleaner()
	w.start = w.now()
	w.running = true
	w.rebuildDisplay()
	w.log.Debug("world populated",
		"sim", w.Name(), "width", w.cfg.Width, "height", w.cfg.Height,
		"trash", w.trash, "spawn", w.cfg.Spawn.String(), "seed", w.cfg.Seed)
	return nil
}

// addAgent places a new agent at p. The caller guarantees p is free.
func (w *World) addAgent(kind Kind, p core.Point) *Agent {
	a := &Agent{ID: w.nextID, Kind: kind, Pos: p}
	if err := w.grid.Place(a, p); err != nil {
		return nil
	}
	w.nextID++
	w.agents = append(w.agents, a)
	switch kind {
	case KindTrash:
		w.trash++
	case KindCleaner:
		w.cleaners = append(w.cleaners, a)
		w.visit(p)
	}
	return a
}

func (w *World) spawnCleaner() {
	if a := w.addAgent(KindCleaner, w.cfg.Spawn); a != nil {
		w.created++
		w.log.Debug("cleaner spawned", "id", a.ID, "created", w.created, "tick", w.ticks)
	}
}

func (w *World) removeTrash(t *Agent) {
	w.grid.Remove(t)
	w.agents = slices.DeleteFunc(w.agents, func(a *Agent) bool { return a == t })
	w.trash--
}

// Step advances the simulation by one tick. It is a no-op once the world has
// stopped.
func (w *World) Step() {
	if !w.running {
		return
	}

	if w.cfg.Activation == ActivationSnapshot {
		w.stepSnapshot()
	} else {
		w.stepSequential()
	}

	w.elapsed = w.now().Sub(w.start)
	if w.elapsed >= w.cfg.Budget() {
		w.stop(StopTimeBudget)
	}
	if w.trash == 0 {
		w.stop(StopAllClean)
	}

	w.cleanerStat = len(w.cleaners)

	if w.grid.IsEmpty(w.cfg.Spawn) && w.created < w.cfg.MaxCleaners {
		w.spawnCleaner()
	}

	w.ticks++
	for _, c := range w.cleaners {
		w.visit(c.Pos)
	}
	w.rebuildDisplay()
	w.log.Log(context.Background(), logging.LevelTrace, "tick", "tick", w.ticks, "trash", w.trash, "cleaners", len(w.cleaners))

	if !w.running {
		s := w.Summary()
		w.log.Info("simulation stopped",
			"reason", string(s.StopReason), "ticks", s.Ticks, "elapsed", s.Elapsed,
			"trash_remaining", s.TrashRemaining, "cleaners", s.Cleaners)
	}
}

func (w *World) stop(reason StopReason) {
	if !w.running {
		return
	}
	w.running = false
	w.reason = reason
}

func (w *World) draw(a *Agent) core.Point {
	return a.Pos.Add(core.MooreOffsets[w.rng.IntN(len(core.MooreOffsets))])
}

func (w *World) stepSequential() {
	for _, c := range w.cleaners {
		w.moveCleaner(c, w.draw(c))
	}
}

type intent struct {
	agent  *Agent
	target core.Point
	// occupant is what held target before the tick: nil or a trash agent.
	occupant *Agent
}

func (w *World) stepSnapshot() {
	intents := make([]intent, 0, len(w.cleaners))
	for _, c := range w.cleaners {
		target := w.draw(c)
		if !w.grid.InBounds(target) {
			continue
		}
		occ, ok := w.grid.ContentsAt(target)
		if ok && occ.Kind != KindTrash {
			continue
		}
		intents = append(intents, intent{agent: c, target: target, occupant: occ})
	}
	for _, in := range intents {
		if occ, _ := w.grid.ContentsAt(in.target); occ != in.occupant {
			continue
		}
		w.moveCleaner(in.agent, in.target)
	}
}

// moveCleaner applies the cleaner update rule for one chosen target cell.
func (w *World) moveCleaner(c *Agent, target core.Point) bool {
	if !w.grid.InBounds(target) {
		return false
	}
	if occ, ok := w.grid.ContentsAt(target); ok {
		if occ.Kind != KindTrash {
			return false
		}
		w.removeTrash(occ)
	}
	if err := w.grid.Move(c, target); err != nil {
		return false
	}
	c.Pos = target
	w.moves++
	return true
}

func (w *World) visit(p core.Point) {
	idx := w.grid.Index(p)
	if w.visits[idx] == 0 {
		w.visited++
	}
	w.visits[idx]++
}

// Agents returns a copy of the live agents in insertion order.
func (w *World) Agents() []Agent {
	out := make([]Agent, len(w.agents))
	for i, a := range w.agents {
		out[i] = *a
	}
	return out
}

// IsEmpty reports whether p is an in-bounds cell with no occupant.
func (w *World) IsEmpty(p core.Point) bool { return w.grid.IsEmpty(p) }

// ContentsAt returns a copy of the agent occupying p.
func (w *World) ContentsAt(p core.Point) (Agent, bool) {
	a, ok := w.grid.ContentsAt(p)
	if !ok {
		return Agent{}, false
	}
	return *a, true
}

// Neighbors returns the Moore neighbourhood of p as the grid sees it.
func (w *World) Neighbors(p core.Point) []core.Point { return w.grid.Neighbors(p) }

// TrashRemaining returns the number of live trash agents.
func (w *World) TrashRemaining() int { return w.trash }

// CleanerCount returns the number of live cleaners.
func (w *World) CleanerCount() int { return len(w.cleaners) }

// Ticks returns the number of completed ticks.
func (w *World) Ticks() int { return w.ticks }

func init() {
	core.Register("cleaners", func(cfg map[string]string) (core.Sim, error) {
		c := FromMap(cfg)
		c.Activation = ActivationSequential
		return New(c)
	})
	core.Register("cleaners-snapshot", func(cfg map[string]string) (core.Sim, error) {
		c := FromMap(cfg)
		c.Activation = ActivationSnapshot
		return New(c)
	})
}
