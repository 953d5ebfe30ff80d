package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"literary-flow/internal/domain"
)

// Reporter queues match results and delivers them to every sink in the background.
// Submit never blocks the game; a full queue drops the result with a warning.
type Reporter struct {
	sinks   []ResultSink
	timeout time.Duration
	log     *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan domain.Result
	done   chan struct{}
}

func NewReporter(queueSize int, timeout time.Duration, log *slog.Logger, sinks ...ResultSink) *Reporter {
	if queueSize <= 0 {
		queueSize = 64
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Reporter{
		sinks:   sinks,
		timeout: timeout,
		log:     log,
		queue:   make(chan domain.Result, queueSize),
		done:    make(chan struct{}),
	}
}

// Submit implements game.ResultReporter.
func (r *Reporter) Submit(result domain.Result) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- result:
	default:
		r.log.Warn("result queue full, dropping result",
			"match_id", result.MatchID, "status", result.Status)
	}
}

// Run delivers queued results until Close is called or ctx is cancelled.
// Results still queued at Close are delivered before Run returns.
func (r *Reporter) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return
		case result, ok := <-r.queue:
			if !ok {
				return
			}
			r.deliver(ctx, result)
		}
	}
}

// Close stops accepting results and waits for Run to drain the queue.
func (r *Reporter) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	<-r.done
}

func (r *Reporter) deliver(ctx context.Context, result domain.Result) {
	// Sinks are independent: one failing must not cancel the others.
	var g errgroup.Group
	for _, sink := range r.sinks {
		sink := sink
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			if err := sink.SubmitResult(sctx, result); err != nil {
				r.log.Error("submit result",
					"match_id", result.MatchID, "status", result.Status, "err", err)
				return err
			}
			return nil
		})
	}
	_ = g.Wait()
}
