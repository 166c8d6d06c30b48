// Package tui renders a cleaning run in the terminal with tcell.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"robot-cleaners/internal/core"
	"robot-cleaners/internal/logging"
	"robot-cleaners/internal/sims/cleaners"

	"github.com/gdamore/tcell/v2"
)

const (
	frameInterval = 16 * time.Millisecond
	minTPS        = 1
	maxTPS        = 240
)

// canvas is the part of tcell.Screen the viewer draws through.
type canvas interface {
	Clear()
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
	Show()
}

// Sound plays feedback when trash is collected.
type Sound interface {
	Pickup(n int)
}

// Options tunes a Viewer.
type Options struct {
	TPS    int
	Paused bool
	Sound  Sound
	Logger *slog.Logger
}

var (
	styleEmpty   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(70, 70, 80))
	styleTrash   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(128, 128, 128))
	styleCleaner = tcell.StyleDefault.Foreground(tcell.NewRGBColor(40, 180, 70)).Bold(true)
	styleSpawn   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(240, 200, 60))
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Viewer drives a World from a terminal frame loop.
type Viewer struct {
	screen canvas
	world  *cleaners.World
	pacer  *core.FixedStep
	sound  Sound
	log    *slog.Logger

	tps          int
	paused       bool
	stepOnce     bool
	showCoverage bool
	seed         int64
}

// New builds a viewer for world drawing onto screen.
func New(screen canvas, world *cleaners.World, opts Options) *Viewer {
	if opts.TPS <= 0 {
		opts.TPS = 10
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Viewer{
		screen: screen,
		world:  world,
		pacer:  core.NewFixedStep(opts.TPS),
		sound:  opts.Sound,
		log:    opts.Logger,
		tps:    opts.TPS,
		paused: opts.Paused,
		seed:   world.Config().Seed,
	}
}

// Run polls input and advances the world until the user quits or ctx ends.
// The caller owns screen initialisation and Fini.
func (v *Viewer) Run(ctx context.Context, events <-chan tcell.Event) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			quit, err := v.HandleEvent(ev)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			v.Draw()
		case <-ticker.C:
			if v.Advance() {
				v.Draw()
			}
		}
	}
}

// PollEvents forwards screen events to a channel until PollEvent returns nil.
func PollEvents(screen tcell.Screen) <-chan tcell.Event {
	ch := make(chan tcell.Event, 64)
	go func() {
		defer close(ch)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			ch <- ev
		}
	}()
	return ch
}

// Advance steps the world when the pacer allows it. It reports whether the
// world changed.
func (v *Viewer) Advance() bool {
	if !v.world.Running() {
		return false
	}
	if !v.stepOnce && (v.paused || !v.pacer.ShouldStep()) {
		return false
	}
	v.stepOnce = false
	before := v.world.TrashRemaining()
	v.world.Step()
	if picked := before - v.world.TrashRemaining(); picked > 0 && v.sound != nil {
		v.sound.Pickup(picked)
	}
	return true
}

// HandleEvent applies one input event. quit is true when the viewer should
// exit.
func (v *Viewer) HandleEvent(ev tcell.Event) (quit bool, err error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true, nil
		case tcell.KeyEnter:
			v.paused = false
			return false, nil
		case tcell.KeyRune:
			return v.HandleRune(ev.Rune())
		}
	case *tcell.EventResize:
		if s, ok := v.screen.(interface{ Sync() }); ok {
			s.Sync()
		}
	}
	return false, nil
}

// HandleRune applies a single-character command.
func (v *Viewer) HandleRune(r rune) (quit bool, err error) {
	switch r {
	case 'q':
		return true, nil
	case ' ':
		v.paused = !v.paused
	case 'n':
		v.stepOnce = true
	case 'r':
		return false, v.reset(v.seed)
	case 's':
		return false, v.reset(time.Now().UnixNano())
	case '+', '=':
		v.setTPS(v.tps * 2)
	case '-':
		v.setTPS(v.tps / 2)
	case 'c':
		v.showCoverage = !v.showCoverage
	}
	return false, nil
}

func (v *Viewer) reset(seed int64) error {
	if err := v.world.Reset(seed); err != nil {
		return fmt.Errorf("reset world: %w", err)
	}
	v.seed = v.world.Config().Seed
	v.log.Info("world reset", "seed", v.seed)
	return nil
}

func (v *Viewer) setTPS(tps int) {
	v.tps = min(max(tps, minTPS), maxTPS)
	v.pacer.SetTPS(v.tps)
}

// TPS returns the current tick rate.
func (v *Viewer) TPS() int { return v.tps }

// Paused reports whether automatic stepping is suspended.
func (v *Viewer) Paused() bool { return v.paused }

// Draw renders the grid followed by a status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	size := v.world.Size()
	cells := v.world.Cells()
	var mask []float32
	if v.showCoverage {
		mask = v.world.CoverageMask()
	}
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			idx := y*size.W + x
			r, style := glyph(cells[idx])
			if mask != nil && mask[idx] > 0 {
				shade := int32(40 + mask[idx]*140)
				style = style.Background(tcell.NewRGBColor(20, 30, shade))
			}
			v.screen.SetContent(x, y, r, nil, style)
		}
	}
	v.drawText(0, size.H, v.statusLine())
	v.drawText(0, size.H+1, "space pause  n step  +/- speed  c coverage  r reset  s reseed  q quit")
	v.screen.Show()
}

func glyph(c uint8) (rune, tcell.Style) {
	switch c {
	case cleaners.CellTrash:
		return '#', styleTrash
	case cleaners.CellCleaner:
		return '@', styleCleaner
	case cleaners.CellSpawn:
		return '+', styleSpawn
	default:
		return '.', styleEmpty
	}
}

func (v *Viewer) statusLine() string {
	s := v.world.Summary()
	state := fmt.Sprintf("%d tps", v.tps)
	switch {
	case !s.Running:
		state = "stopped: " + string(s.StopReason)
	case v.paused:
		state = "paused"
	}
	return fmt.Sprintf("tick %d  cleaners %d/%d  trash %d/%d  %s",
		s.Ticks, s.Cleaners, s.MaxCleaners, s.TrashRemaining, s.TrashInitial, state)
}

func (v *Viewer) drawText(x, y int, text string) {
	w, _ := v.screen.Size()
	for _, r := range text {
		if w > 0 && x >= w {
			return
		}
		v.screen.SetContent(x, y, r, nil, styleStatus)
		x++
	}
}
