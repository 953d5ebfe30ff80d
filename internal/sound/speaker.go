package sound

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"literary-flow/internal/domain"
)

const sampleRate = beep.SampleRate(48000)

// Speaker plays cues through the default audio device.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewSpeaker builds a speaker at volume (0..1). Call Init before Play.
func NewSpeaker(volume float64) *Speaker {
	return &Speaker{mixer: &beep.Mixer{}, volume: volume}
}

// Init opens the audio device and starts the mixer.
func (s *Speaker) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Play implements game.SoundPlayer. Unknown kinds and an uninitialized device are ignored.
func (s *Speaker) Play(kind domain.Sound) {
	cue, ok := CueFor(kind)
	if !ok {
		slog.Debug("unknown sound", "kind", kind)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Add(withVolume(cue.Streamer(sampleRate), s.volume))
	speaker.Unlock()
}

// Close silences everything still playing.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.initialized = false
}

// math.Log2(0) is -Inf, so zero volume is silent instead.
func withVolume(st beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: st, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: st, Base: 2, Volume: math.Log2(vol)}
}

// Silent discards cues, for servers and headless terminals.
type Silent struct{}

func (Silent) Play(domain.Sound) {}
