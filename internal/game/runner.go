package game

import (
	"context"
	"sync"
	"time"
)

// Runner drives a match: a frame loop calling Tick and a countdown calling
// Countdown once per CountdownInterval. One goroutine runs per started generation
// and it exits as soon as the match leaves the playing phase.
type Runner struct {
	match             *Match
	clock             Clock
	frameInterval     time.Duration
	countdownInterval time.Duration
	onFrame           func(Snapshot)

	lifecycle sync.Mutex
	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
}

// RunnerConfig tunes a Runner. Zero intervals use the match rules and one second.
type RunnerConfig struct {
	Clock             Clock
	FrameInterval     time.Duration
	CountdownInterval time.Duration
	// OnFrame receives a snapshot after every frame, including the last one.
	OnFrame func(Snapshot)
}

// NewRunner builds a stopped runner for m.
func NewRunner(m *Match, cfg RunnerConfig) *Runner {
	if cfg.Clock == nil {
		cfg.Clock = m.clock
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = m.rules.FrameInterval
	}
	if cfg.CountdownInterval <= 0 {
		cfg.CountdownInterval = time.Second
	}
	done := make(chan struct{})
	close(done)
	return &Runner{
		match:             m,
		clock:             cfg.Clock,
		frameInterval:     cfg.FrameInterval,
		countdownInterval: cfg.CountdownInterval,
		onFrame:           cfg.OnFrame,
		done:              done,
	}
}

// Start stops any previous loop, starts a new match generation and schedules it.
func (r *Runner) Start(ctx context.Context) uint64 {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()
	r.Stop()

	gen := r.match.Start()
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.mu.Lock()
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()
	go r.loop(loopCtx, gen, done)
	return gen
}

// Stop cancels the loop and waits for it to exit. It does not change the match phase.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-done
}

// Abort returns the match to the menu and stops the loop.
func (r *Runner) Abort() {
	r.match.Abort()
	r.Stop()
}

// Done is closed when the current loop has exited.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

func (r *Runner) loop(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	frames := time.NewTicker(r.frameInterval)
	defer frames.Stop()
	seconds := time.NewTicker(r.countdownInterval)
	defer seconds.Stop()

	for {
		var playing bool
		select {
		case <-ctx.Done():
			return
		case <-frames.C:
			playing = r.match.tick(gen, r.clock.Now())
		case <-seconds.C:
			playing = r.match.countdown(gen)
		}
		if r.onFrame != nil && r.match.Generation() == gen {
			r.onFrame(r.match.Snapshot())
		}
		if !playing {
			return
		}
	}
}
