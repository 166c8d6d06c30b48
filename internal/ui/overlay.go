//go:build ebiten

package ui

import (
	"image/color"

	"robot-cleaners/internal/core"
	"robot-cleaners/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type coverageProvider interface {
	CoverageMask() []float32
}

type spawnProvider interface {
	SpawnPoint() core.Point
}

var coverageTint = color.RGBA{R: 70, G: 140, B: 255, A: 255}

// Overlay draws optional debugging visuals on top of the base simulation.
type Overlay struct {
	sim          core.Sim
	scale        int
	showCoverage bool
	showSpawn    bool

	painter *render.GridPainter
	pixel   *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	size := sim.Size()
	o := &Overlay{
		sim:       sim,
		scale:     scale,
		showSpawn: true,
		painter:   render.NewGridPainter(size.W, size.H),
	}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles overlays: 1 for cleaner coverage, 2 for the spawn marker.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showCoverage = !o.showCoverage
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showSpawn = !o.showSpawn
	}
}

// Draw renders the enabled overlays onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o == nil {
		return
	}
	if o.showCoverage {
		if p, ok := o.sim.(coverageProvider); ok {
			o.painter.BlitMask(screen, p.CoverageMask(), coverageTint, o.scale)
		}
	}
	if o.showSpawn {
		if p, ok := o.sim.(spawnProvider); ok {
			o.drawOutline(screen, p.SpawnPoint(), color.RGBA{R: 240, G: 200, B: 60, A: 255})
		}
	}
}

func (o *Overlay) drawOutline(screen *ebiten.Image, cell core.Point, c color.RGBA) {
	x := float64(cell.X * o.scale)
	y := float64(cell.Y * o.scale)
	s := float64(o.scale)
	t := max(1, s/8)
	o.rect(screen, x, y, s, t, c)
	o.rect(screen, x, y+s-t, s, t, c)
	o.rect(screen, x, y, t, s, c)
	o.rect(screen, x+s-t, y, t, s, c)
}

func (o *Overlay) rect(screen *ebiten.Image, x, y, w, h float64, c color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	screen.DrawImage(o.pixel, op)
}
