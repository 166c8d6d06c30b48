package cleaners

import (
	"math"
	"strconv"

	"robot-cleaners/internal/core"
)

// Parameters reports configuration and live statistics for HUDs.
func (w *World) Parameters() core.ParameterSnapshot {
	s := w.Summary()
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("w", "Width", w.cfg.Width),
				core.IntParam("h", "Height", w.cfg.Height),
				core.BoolParam("torus", "Torus", w.cfg.Torus),
				core.StringParam("activation", "Activation", string(w.cfg.Activation)),
				core.Int64Param("seed", "Seed", w.cfg.Seed),
			},
		},
		{
			Name: "Agents",
			Params: []core.Parameter{
				core.IntParam("max_cleaners", "Max cleaners", w.cfg.MaxCleaners),
				core.FloatParam("trash_density", "Trash density %", w.cfg.TrashDensity),
				core.StringParam("spawn", "Spawn cell", w.cfg.Spawn.String()),
				core.FloatParam("time_budget", "Time budget (s)", w.cfg.TimeBudget),
			},
		},
		{
			Name: "Run",
			Params: []core.Parameter{
				core.IntParam("ticks", "Ticks", s.Ticks),
				core.IntParam("cleaners", "Cleaners", s.Cleaners),
				core.IntParam("trash_remaining", "Trash left", s.TrashRemaining),
				core.IntParam("moves_made", "Moves", s.MovesMade),
				core.FloatParam("elapsed", "Elapsed (s)", math.Round(s.Elapsed.Seconds()*10)/10),
				core.StringParam("state", "State", runState(s)),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func runState(s Summary) string {
	if s.Running {
		return "running"
	}
	return "stopped: " + string(s.StopReason)
}

// ParameterControls lists the HUD-adjustable parameters.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{
			Key:    "max_cleaners",
			Label:  "Max cleaners",
			Type:   core.ParamTypeInt,
			Step:   1,
			Min:    1,
			Max:    float64(w.cfg.Width * w.cfg.Height),
			HasMin: true,
			HasMax: true,
		},
		{
			Key:    "time_budget",
			Label:  "Time budget (s)",
			Type:   core.ParamTypeFloat,
			Step:   5,
			Min:    1,
			HasMin: true,
		},
	}
}

// SetIntParameter updates an integer parameter of the running world.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "max_cleaners":
		if value <= 0 {
			return false
		}
		w.cfg.MaxCleaners = value
		w.log.Debug("parameter changed", "key", key, "value", strconv.Itoa(value))
		return true
	}
	return false
}

// SetFloatParameter updates a floating point parameter of the running world.
// A stopped world stays stopped.
func (w *World) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "time_budget":
		if math.IsNaN(value) || value <= 0 {
			return false
		}
		w.cfg.TimeBudget = value
		w.log.Debug("parameter changed", "key", key, "value", value)
		return true
	}
	return false
}
