package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"robot-cleaners/internal/sims/cleaners"

	"github.com/google/uuid"
)

const (
	minTPS = 1
	maxTPS = 240
)

// Command types accepted from clients.
const (
	CommandStart = "start"
	CommandStop  = "stop"
	CommandStep  = "step"
	CommandReset = "reset"
	CommandSpeed = "speed"
	commandSync  = "sync"
)

// Command is a control message sent by a client.
type Command struct {
	Type string `json:"type"`
	TPS  int    `json:"tps,omitempty"`
	Seed int64  `json:"seed,omitempty"`

	client string
}

// Frame is the state snapshot pushed to every client after a change.
type Frame struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	// Cells holds one digit per cell in row-major order: 0 empty, 1 trash,
	// 2 cleaner, 3 spawn.
	Cells   string           `json:"cells"`
	Summary cleaners.Summary `json:"summary"`
	Running bool             `json:"running"`
	Paused  bool             `json:"paused"`
	TPS     int              `json:"tps"`
}

// ErrorMessage reports a rejected command.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Session is the single goroutine allowed to touch its World.
type Session struct {
	id       string
	world    *cleaners.World
	hub      *Hub
	commands chan Command
	log      *slog.Logger

	tps    int
	paused bool
}

// NewSession binds world to hub. The world must not be used elsewhere once
// Run starts.
func NewSession(world *cleaners.World, hub *Hub, tps int, paused bool, log *slog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:       id,
		world:    world,
		hub:      hub,
		commands: make(chan Command, 16),
		log:      log.With("session", id),
		tps:      clampTPS(tps),
		paused:   paused,
	}
}

// ID returns the session identifier included in every frame.
func (s *Session) ID() string { return s.id }

// Submit queues cmd for the session loop. It returns false once ctx ends.
func (s *Session) Submit(ctx context.Context, cmd Command) bool {
	select {
	case s.commands <- cmd:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run executes commands and paced ticks until ctx ends.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval(s.tps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.commands:
			changed, err := s.apply(cmd)
			if err != nil {
				s.log.Warn("command rejected", "type", cmd.Type, "client", cmd.client, "err", err)
				s.send(ctx, ErrorMessage{Type: "error", Error: err.Error()})
				continue
			}
			if cmd.Type == CommandSpeed {
				ticker.Reset(tickInterval(s.tps))
			}
			if changed {
				s.send(ctx, s.frame())
			}
		case <-ticker.C:
			if s.paused || !s.world.Running() {
				continue
			}
			s.world.Step()
			if !s.world.Running() {
				s.paused = true
			}
			s.send(ctx, s.frame())
		}
	}
}

func (s *Session) apply(cmd Command) (bool, error) {
	switch strings.ToLower(cmd.Type) {
	case CommandStart:
		s.paused = false
	case CommandStop:
		s.paused = true
	case CommandStep:
		s.world.Step()
	case CommandReset:
		if err := s.world.Reset(cmd.Seed); err != nil {
			return false, fmt.Errorf("reset: %w", err)
		}
		s.paused = true
		s.log.Info("world reset", "seed", s.world.Config().Seed, "client", cmd.client)
	case CommandSpeed:
		if cmd.TPS <= 0 {
			return false, fmt.Errorf("speed: tps must be positive, got %d", cmd.TPS)
		}
		s.tps = clampTPS(cmd.TPS)
	case commandSync:
	default:
		return false, fmt.Errorf("unknown command %q", cmd.Type)
	}
	return true, nil
}

func (s *Session) frame() Frame {
	size := s.world.Size()
	cells := s.world.Cells()
	var b strings.Builder
	b.Grow(len(cells))
	for _, c := range cells {
		b.WriteByte('0' + c)
	}
	return Frame{
		Type:    "frame",
		Session: s.id,
		Width:   size.W,
		Height:  size.H,
		Cells:   b.String(),
		Summary: s.world.Summary(),
		Running: s.world.Running(),
		Paused:  s.paused,
		TPS:     s.tps,
	}
}

func (s *Session) send(ctx context.Context, msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("encode message", "err", err)
		return
	}
	s.hub.Broadcast(ctx, payload)
}

func clampTPS(tps int) int {
	if tps <= 0 {
		return 10
	}
	return min(max(tps, minTPS), maxTPS)
}

func tickInterval(tps int) time.Duration {
	return time.Second / time.Duration(clampTPS(tps))
}
