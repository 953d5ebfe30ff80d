package app

import (
	"context"
	"sync"
	"time"

	"literary-flow/internal/domain"
	"literary-flow/internal/game"
)

// UpdateType tags an Update.
type UpdateType string

const (
	UpdateState    UpdateType = "state"
	UpdateEvent    UpdateType = "event"
	UpdateFinished UpdateType = "finished"
)

// Update is pushed to session subscribers.
type Update struct {
	Type   UpdateType     `json:"type"`
	State  *game.Snapshot `json:"state,omitempty"`
	Event  *game.Event    `json:"event,omitempty"`
	Result *domain.Result `json:"result,omitempty"`
}

// Session is one player's game: their current match, its runner and the subscribers watching it.
type Session struct {
	id          string
	now         func() time.Time
	mu          sync.RWMutex
	player      domain.Player
	bankID      string
	match       *game.Match
	runner      *game.Runner
	reporter    game.ResultReporter
	lastActive  time.Time
	subscribers map[chan Update]struct{}
}

type sessionConfig struct {
	bank     domain.Bank
	player   domain.Player
	rules    game.Rules
	zones    game.ZoneLocator
	reporter game.ResultReporter
	sound    game.SoundPlayer
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSessionWithClock(id, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return newSessionWithClock(id, now)
}

func newSessionWithClock(id string, now func() time.Time) *Session {
	return &Session{
		id:          id,
		now:         now,
		lastActive:  now(),
		subscribers: make(map[chan Update]struct{}),
	}
}

// ID returns the player ID the session belongs to.
func (s *Session) ID() string { return s.id }

// configure binds the session to a player and bank. A playing match on the
// same bank is kept so reconnecting clients resume it; any other previous match
// is aborted without a result.
func (s *Session) configure(cfg sessionConfig) {
	s.mu.Lock()
	s.lastActive = s.now()
	if s.match != nil && s.bankID == cfg.bank.ID && s.match.Phase() == domain.PhasePlaying {
		s.mu.Unlock()
		return
	}
	previous := s.runner
	s.mu.Unlock()

	// Stopping waits for the last frame, which publishes through the session lock.
	if previous != nil {
		previous.Abort()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.player = cfg.player
	s.bankID = cfg.bank.ID
	s.reporter = cfg.reporter
	s.match = game.NewMatch(game.Config{
		Rules:  cfg.rules,
		Items:  cfg.bank.Items,
		BankID: cfg.bank.ID,
		Player: cfg.player,
		Zones:  cfg.zones,
		Hooks:  game.Hooks{Sound: cfg.sound, Reporter: s, Events: s},
	})
	s.runner = game.NewRunner(s.match, game.RunnerConfig{OnFrame: s.publishState})
}

func (s *Session) current() (*game.Match, *game.Runner) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.match, s.runner
}

// start must not hold the session lock: stopping the previous loop waits for its
// last frame, which publishes through the session.
func (s *Session) start() (game.Snapshot, error) {
	match, runner := s.current()
	if runner == nil {
		return game.Snapshot{}, domain.ErrSessionNotFound
	}
	s.touch()
	// The loop is bound to the session, not to the request that started it; Leave aborts it.
	runner.Start(context.Background())
	return match.Snapshot(), nil
}

func (s *Session) abort() {
	_, runner := s.current()
	if runner != nil {
		runner.Abort()
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.now()
	s.mu.Unlock()
}

// Snapshot returns the state of the session's match, or an empty menu state.
func (s *Session) Snapshot() game.Snapshot {
	match, _ := s.current()
	if match == nil {
		return game.Snapshot{Phase: domain.PhaseMenu}
	}
	return match.Snapshot()
}

// Player returns who the session belongs to.
func (s *Session) Player() domain.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.player
}

// LastActive is the time of the last join or start.
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

func (s *Session) isEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playing := s.match != nil && s.match.Phase() == domain.PhasePlaying
	return len(s.subscribers) == 0 && !playing
}

// IsEmpty reports whether nobody watches the session and no match is running.
func (s *Session) IsEmpty() bool {
	return s.isEmpty()
}

// Publish implements game.EventSink.
func (s *Session) Publish(ev game.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcastLocked(Update{Type: UpdateEvent, Event: &ev})
}

// Submit implements game.ResultReporter: results go to the leaderboard reporter
// and final ones are announced to subscribers.
func (s *Session) Submit(result domain.Result) {
	s.mu.Lock()
	reporter := s.reporter
	if result.Status != domain.StatusInProgress {
		s.broadcastLocked(Update{Type: UpdateFinished, Result: &result})
	}
	s.mu.Unlock()

	if reporter != nil {
		reporter.Submit(result)
	}
}

func (s *Session) publishState(snap game.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcastLocked(Update{Type: UpdateState, State: &snap})
}

func (s *Session) subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 32)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	snap := s.Snapshot()
	ch <- Update{Type: UpdateState, State: &snap}

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked(u Update) {
	for ch := range s.subscribers {
		select {
		case ch <- u:
		default:
			// Slow subscriber: drop its oldest update so the game loop never blocks.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- u:
			default:
			}
		}
	}
}
