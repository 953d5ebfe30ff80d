// Package sound synthesizes the two feedback cues and plays them on the local speaker.
package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"literary-flow/internal/domain"
)

// Ramp shapes a parameter from From to To over Dur.
type Ramp struct {
	From, To    float64
	Dur         time.Duration
	Exponential bool
}

// at returns the ramp value t into the cue; it holds To after Dur.
func (r Ramp) at(t time.Duration) float64 {
	if r.Dur <= 0 || t >= r.Dur {
		return r.To
	}
	frac := float64(t) / float64(r.Dur)
	if r.Exponential && r.From > 0 && r.To > 0 {
		return r.From * math.Pow(r.To/r.From, frac)
	}
	return r.From + (r.To-r.From)*frac
}

// Cue is a sine sweep with a gain envelope.
type Cue struct {
	Freq     Ramp
	Gain     Ramp
	Duration time.Duration
}

var (
	// CorrectCue rises quickly and fades out.
	CorrectCue = Cue{
		Freq:     Ramp{From: 800, To: 1200, Dur: 100 * time.Millisecond, Exponential: true},
		Gain:     Ramp{From: 0.1, To: 0.01, Dur: 200 * time.Millisecond, Exponential: true},
		Duration: 300 * time.Millisecond,
	}
	// WrongCue slides down.
	WrongCue = Cue{
		Freq:     Ramp{From: 300, To: 150, Dur: 200 * time.Millisecond},
		Gain:     Ramp{From: 0.1, To: 0.01, Dur: 300 * time.Millisecond},
		Duration: 300 * time.Millisecond,
	}
)

// CueFor maps a game sound to its cue.
func CueFor(kind domain.Sound) (Cue, bool) {
	switch kind {
	case domain.SoundCorrect:
		return CorrectCue, true
	case domain.SoundWrong:
		return WrongCue, true
	default:
		return Cue{}, false
	}
}

// Streamer renders the cue at rate.
func (c Cue) Streamer(rate beep.SampleRate) beep.Streamer {
	return &sweep{cue: c, rate: rate, total: rate.N(c.Duration)}
}

type sweep struct {
	cue      Cue
	rate     beep.SampleRate
	total    int
	position int
	phase    float64
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.total {
			return i, i > 0
		}
		t := s.rate.D(s.position)
		val := math.Sin(2*math.Pi*s.phase) * s.cue.Gain.at(t)
		samples[i][0] = val
		samples[i][1] = val

		s.phase += s.cue.Freq.at(t) / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }
