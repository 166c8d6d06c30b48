//go:build ebiten

package app

import (
	"image/color"
	"log/slog"
	"time"

	"robot-cleaners/internal/core"
	"robot-cleaners/internal/logging"
	"robot-cleaners/internal/render"
	"robot-cleaners/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

var fallbackPalette = []color.RGBA{
	{A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	palette []color.RGBA
	pacer   *core.FixedStep
	log     *slog.Logger

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg Config, log *slog.Logger) *Game {
	if log == nil {
		log = logging.Discard()
	}
	size := sim.Size()
	palette := fallbackPalette
	if p, ok := sim.(paletteProvider); ok {
		palette = p.Palette()
	}
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sim, cfg.Scale),
		hud:     ui.NewHUD(sim, cfg.PanelWidth),
		palette: palette,
		pacer:   core.NewFixedStep(cfg.TPS),
		log:     log,
		scale:   cfg.Scale,
		seed:    cfg.Seed,
		paused:  cfg.Paused,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) error {
	g.seed = seed
	g.tickOnce = false
	if err := g.sim.Reset(seed); err != nil {
		return err
	}
	g.log.Info("simulation reset", "sim", g.sim.Name(), "seed", seed)
	return nil
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Reset(g.seed); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.Reset(time.Now().UnixNano()); err != nil {
			return err
		}
	}

	g.overlay.Update()
	g.hud.Update(g.viewWidth())

	if !g.sim.Running() {
		return nil
	}
	if g.tickOnce || (!g.paused && g.pacer.ShouldStep()) {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.viewWidth(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return g.viewWidth() + g.hud.Width(), s.H * g.scale
}

func (g *Game) viewWidth() int { return g.sim.Size().W * g.scale }
