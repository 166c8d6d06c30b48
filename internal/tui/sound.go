package tui

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate   = beep.SampleRate(44100)
	clickLength  = 40 * time.Millisecond
	clickFreq    = 880
	maxPerPickup = 4
)

// Beeper plays a short sine click for every collected piece of trash.
type Beeper struct {
	mu   sync.Mutex
	init bool
}

// NewBeeper opens the audio device. The returned error is not fatal; callers
// usually log it and run silently.
func NewBeeper() (*Beeper, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Beeper{init: true}, nil
}

// Pickup queues n clicks, capped so a busy tick does not flood the mixer.
func (b *Beeper) Pickup(n int) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.init {
		return
	}
	var seq []beep.Streamer
	for i := 0; i < min(n, maxPerPickup); i++ {
		sine, err := generators.SineTone(sampleRate, clickFreq+float64(i)*110)
		if err != nil {
			return
		}
		seq = append(seq, beep.Take(sampleRate.N(clickLength), sine))
	}
	speaker.Play(beep.Seq(seq...))
}

// Close releases the audio device.
func (b *Beeper) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.init {
		speaker.Close()
		b.init = false
	}
}
