package cleaners

import (
	"fmt"
	"io"
	"time"
)

// StopReason explains why a run ended.
type StopReason string

const (
	StopNone       StopReason = ""
	StopTimeBudget StopReason = "time_budget"
	StopAllClean   StopReason = "all_clean"
)

// Summary holds the end-of-run statistics. CleanedCellsPercent and AgentMoves
// keep their historical formulas; TrashCleanedPercent and MovesMade measure
// what their names say.
type Summary struct {
	Ticks      int           `json:"ticks"`
	Running    bool          `json:"running"`
	StopReason StopReason    `json:"stop_reason,omitempty"`
	Elapsed    time.Duration `json:"elapsed_ns"`

	TotalCells      int `json:"total_cells"`
	Cleaners        int `json:"cleaners"`
	CleanersCreated int `json:"cleaners_created"`
	MaxCleaners     int `json:"max_cleaners"`
	TrashInitial    int `json:"trash_initial"`
	TrashRemaining  int `json:"trash_remaining"`

	// CleanedCellsPercent is the sampled cleaner count over total cells.
	CleanedCellsPercent float64 `json:"cleaned_cells_percent"`
	// AgentMoves is ticks times the cleaner cap, moved or not.
	AgentMoves int `json:"agent_moves"`

	MovesMade           int     `json:"moves_made"`
	TrashCleanedPercent float64 `json:"trash_cleaned_percent"`
	CellsVisited        int     `json:"cells_visited"`
}

// Summary reports the current statistics.
func (w *World) Summary() Summary {
	total := w.cfg.Width * w.cfg.Height
	s := Summary{
		Ticks:           w.ticks,
		Running:         w.running,
		StopReason:      w.reason,
		Elapsed:         w.elapsed,
		TotalCells:      total,
		Cleaners:        len(w.cleaners),
		CleanersCreated: w.created,
		MaxCleaners:     w.cfg.MaxCleaners,
		TrashInitial:    w.trashInitial,
		TrashRemaining:  w.trash,
		AgentMoves:      w.ticks * w.cfg.MaxCleaners,
		MovesMade:       w.moves,
		CellsVisited:    w.visited,
	}
	if total > 0 {
		s.CleanedCellsPercent = float64(w.cleanerStat) / float64(total) * 100
	}
	s.TrashCleanedPercent = 100
	if w.trashInitial > 0 {
		s.TrashCleanedPercent = float64(w.trashInitial-w.trash) / float64(w.trashInitial) * 100
	}
	return s
}

// Report writes the end-of-run lines.
func (s Summary) Report(out io.Writer) error {
	_, err := fmt.Fprintf(out,
		"Clean cells percentage: %g%%\nAgent moves: %d\nTrash cleaned: %d/%d (%.1f%%)\nMoves made: %d\nTicks: %d (%s, %s)\n",
		s.CleanedCellsPercent, s.AgentMoves,
		s.TrashInitial-s.TrashRemaining, s.TrashInitial, s.TrashCleanedPercent,
		s.MovesMade, s.Ticks, s.Elapsed.Round(time.Millisecond), s.stopLabel())
	return err
}

func (s Summary) stopLabel() string {
	if s.StopReason == StopNone {
		return "running"
	}
	return string(s.StopReason)
}
