package cleaners

import "image/color"

// Display buffer values returned by Cells.
const (
	CellEmpty uint8 = iota
	CellTrash
	CellCleaner
	CellSpawn
)

var cleanersPalette = []color.RGBA{
	CellEmpty:   {R: 24, G: 24, B: 28, A: 255},
	CellTrash:   {R: 128, G: 128, B: 128, A: 255},
	CellCleaner: {R: 40, G: 180, B: 70, A: 255},
	CellSpawn:   {R: 36, G: 44, B: 64, A: 255},
}

// Palette exposes the color palette used for rendering the display buffer.
func (w *World) Palette() []color.RGBA {
	return cleanersPalette
}

// Cells exposes the display buffer in row-major order.
func (w *World) Cells() []uint8 { return w.display }

// CoverageMask returns per-cell cleaner visit counts normalised to [0, 1].
func (w *World) CoverageMask() []float32 {
	mask := make([]float32, len(w.visits))
	var peak uint32
	for _, v := range w.visits {
		peak = max(peak, v)
	}
	if peak == 0 {
		return mask
	}
	for i, v := range w.visits {
		mask[i] = float32(v) / float32(peak)
	}
	return mask
}

func (w *World) rebuildDisplay() {
	for i := range w.display {
		w.display[i] = CellEmpty
	}
	w.display[w.grid.Index(w.cfg.Spawn)] = CellSpawn
	for _, a := range w.agents {
		idx := w.grid.Index(a.Pos)
		switch a.Kind {
		case KindTrash:
			w.display[idx] = CellTrash
		case KindCleaner:
			w.display[idx] = CellCleaner
		}
	}
}
