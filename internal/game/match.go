package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"literary-flow/internal/domain"
)

// SoundPlayer receives one cue per resolved drop or lost life.
type SoundPlayer interface {
	Play(kind domain.Sound)
}

// ResultReporter is the leaderboard boundary. Submit must not block.
type ResultReporter interface {
	Submit(result domain.Result)
}

// EventSink receives match events for frontends.
type EventSink interface {
	Publish(ev Event)
}

// EventKind tags an Event.
type EventKind string

const (
	EventFeedback EventKind = "feedback"
	EventSound    EventKind = "sound"
	EventPhase    EventKind = "phase"
	EventMissed   EventKind = "missed"
)

// Event is emitted after a state mutation has been committed.
type Event struct {
	Kind     EventKind            `json:"kind"`
	Feedback *domain.Feedback     `json:"feedback,omitempty"`
	Sound    domain.Sound         `json:"sound,omitempty"`
	Phase    domain.Phase         `json:"phase,omitempty"`
	Entity   *domain.ActiveEntity `json:"entity,omitempty"`
}

// Hooks are the collaborators a match talks to. Nil hooks are skipped.
type Hooks struct {
	Sound    SoundPlayer
	Reporter ResultReporter
	Events   EventSink
}

// Config describes a match.
type Config struct {
	Rules  Rules
	Items  []domain.QuestionItem
	BankID string
	Player domain.Player
	Zones  ZoneLocator
	Hooks  Hooks
	Clock  Clock
	Rand   *rand.Rand
	NewID  func() string
}

// Snapshot is a copy of the match state.
type Snapshot struct {
	MatchID       string                `json:"matchId"`
	Phase         domain.Phase          `json:"phase"`
	Score         int                   `json:"score"`
	Lives         int                   `json:"lives"`
	MaxLives      int                   `json:"maxLives"`
	TimeRemaining int                   `json:"timeRemaining"`
	Entities      []domain.ActiveEntity `json:"entities"`
	DeckRemaining int                   `json:"deckRemaining"`
	Generation    uint64                `json:"generation"`
}

// Match owns the state of one player's round and is its only mutator.
// All methods are safe for concurrent use; events are dispatched after the lock is released.
type Match struct {
	mu      sync.Mutex
	rules   Rules
	deck    *Deck
	spawner *Spawner
	zones   ZoneLocator
	hooks   Hooks
	clock   Clock
	newID   func() string
	bankID  string
	player  domain.Player

	id            string
	generation    uint64
	phase         domain.Phase
	score         int
	lives         int
	timeRemaining int
	entities      []domain.ActiveEntity
	lastSpawnMs   int64
}

// pending collects side effects produced under the lock.
type pending struct {
	events  []Event
	results []domain.Result
}

func (p *pending) emit(ev Event) { p.events = append(p.events, ev) }

// NewMatch builds a match in the menu phase.
func NewMatch(cfg Config) *Match {
	rules := cfg.Rules.WithDefaults()
	if cfg.Zones == nil {
		cfg.Zones = DefaultLayout()
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	deck := NewDeck(cfg.Items, cfg.Rand, !rules.FiniteDeck)
	return &Match{
		rules:         rules,
		deck:          deck,
		spawner:       NewSpawner(deck, rules, cfg.Rand, cfg.NewID),
		zones:         cfg.Zones,
		hooks:         cfg.Hooks,
		clock:         cfg.Clock,
		newID:         cfg.NewID,
		bankID:        cfg.BankID,
		player:        cfg.Player,
		phase:         domain.PhaseMenu,
		lives:         rules.MaxLives,
		timeRemaining: rules.DurationSeconds(),
	}
}

// Rules returns the effective rules.
func (m *Match) Rules() Rules { return m.rules }

// Start resets the match and enters the playing phase. It returns the new generation;
// ticks carrying an older generation are ignored.
func (m *Match) Start() uint64 {
	var p pending
	m.mu.Lock()
	m.generation++
	m.id = m.newID()
	m.phase = domain.PhasePlaying
	m.score = 0
	m.lives = m.rules.MaxLives
	m.timeRemaining = m.rules.DurationSeconds()
	m.entities = nil
	m.deck.Shuffle()
	m.lastSpawnMs = m.clock.Now().UnixMilli()
	gen := m.generation
	p.emit(Event{Kind: EventPhase, Phase: domain.PhasePlaying})
	p.results = append(p.results, m.resultLocked(domain.StatusInProgress))
	m.mu.Unlock()

	m.dispatch(p)
	return gen
}

// Tick runs one frame of the current generation.
func (m *Match) Tick(now time.Time) bool {
	return m.tick(m.Generation(), now)
}

// Countdown removes one second from the current generation's timer.
func (m *Match) Countdown() bool {
	return m.countdown(m.Generation())
}

// tick spawns, moves and evicts cards. It reports whether gen is still playing.
func (m *Match) tick(gen uint64, now time.Time) bool {
	var p pending
	m.mu.Lock()
	if gen != m.generation || m.phase != domain.PhasePlaying {
		m.mu.Unlock()
		return false
	}

	nowMs := now.UnixMilli()
	if e, ok := m.spawner.TrySpawn(nowMs, m.lastSpawnMs, m.rules.SpawnInterval.Milliseconds(), m.score); ok {
		m.entities = append(m.entities, e)
		m.lastSpawnMs = nowMs
	}

	survivors, missed := Advance(m.entities, m.rules.ExitBoundary)
	m.entities = survivors
	for _, e := range missed {
		gone := e
		p.emit(Event{Kind: EventMissed, Entity: &gone})
		if ShouldCatch(e, m.rules.PenalizeAllMisses) && m.loseLifeLocked() {
			p.emit(Event{Kind: EventSound, Sound: domain.SoundWrong})
		}
	}

	m.checkEndLocked(&p)
	playing := m.phase == domain.PhasePlaying
	m.mu.Unlock()

	m.dispatch(p)
	return playing
}

// countdown decrements the timer and ends the match at zero.
func (m *Match) countdown(gen uint64) bool {
	var p pending
	m.mu.Lock()
	if gen != m.generation || m.phase != domain.PhasePlaying {
		m.mu.Unlock()
		return false
	}
	if m.timeRemaining > 0 {
		m.timeRemaining--
	}
	if m.timeRemaining == 0 {
		m.finishLocked(m.thresholdPhaseLocked(), &p)
	}
	playing := m.phase == domain.PhasePlaying
	m.mu.Unlock()

	m.dispatch(p)
	return playing
}

// BeginDrag freezes a card under the pointer.
func (m *Match) BeginDrag(entityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != domain.PhasePlaying {
		return domain.ErrNotPlaying
	}
	idx := m.indexLocked(entityID)
	if idx < 0 {
		return domain.ErrEntityNotFound
	}
	m.entities[idx].IsDragging = true
	return nil
}

// HoverZone reports the zone under a dragged pointer, for highlighting.
func (m *Match) HoverZone(p domain.Point) (domain.Category, bool) {
	return m.zones.ZoneAt(p)
}

// Drop resolves the release of a dragged card at point.
func (m *Match) Drop(entityID string, point domain.Point) (domain.Outcome, error) {
	var p pending
	m.mu.Lock()
	if m.phase != domain.PhasePlaying {
		m.mu.Unlock()
		return "", domain.ErrNotPlaying
	}
	idx := m.indexLocked(entityID)
	if idx < 0 {
		m.mu.Unlock()
		return "", domain.ErrEntityNotFound
	}

	entity := m.entities[idx]
	zone, found := m.zones.ZoneAt(point)
	outcome := Resolve(entity.QuestionItem, zone, found)

	switch outcome {
	case domain.OutcomeMiss:
		m.entities[idx].IsDragging = false
	case domain.OutcomeCorrect:
		m.score += m.rules.ScoreIncrement
		if m.rules.ScoreCap > 0 && m.score > m.rules.ScoreCap {
			m.score = m.rules.ScoreCap
		}
		m.removeLocked(idx)
		p.emit(Event{Kind: EventFeedback, Feedback: &domain.Feedback{Kind: domain.FeedbackCorrect, Point: point}})
		p.emit(Event{Kind: EventSound, Sound: domain.SoundCorrect})
	case domain.OutcomeWrongContent, domain.OutcomeWrongCategory:
		m.loseLifeLocked()
		if outcome == domain.OutcomeWrongCategory && m.rules.WrongCategory == WrongCategoryReturn {
			m.entities[idx].IsDragging = false
		} else {
			m.removeLocked(idx)
		}
		p.emit(Event{Kind: EventFeedback, Feedback: &domain.Feedback{Kind: domain.FeedbackWrong, Point: point}})
		p.emit(Event{Kind: EventSound, Sound: domain.SoundWrong})
	}

	m.checkEndLocked(&p)
	m.mu.Unlock()

	m.dispatch(p)
	return outcome, nil
}

// Abort leaves the playing phase without a result, e.g. when the player navigates away.
// Outstanding ticks of the aborted generation become no-ops.
func (m *Match) Abort() {
	var p pending
	m.mu.Lock()
	if m.phase == domain.PhasePlaying {
		m.generation++
		m.phase = domain.PhaseMenu
		m.entities = nil
		p.emit(Event{Kind: EventPhase, Phase: domain.PhaseMenu})
	}
	m.mu.Unlock()
	m.dispatch(p)
}

// Snapshot copies the current state.
func (m *Match) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		MatchID:       m.id,
		Phase:         m.phase,
		Score:         m.score,
		Lives:         m.lives,
		MaxLives:      m.rules.MaxLives,
		TimeRemaining: m.timeRemaining,
		Entities:      append([]domain.ActiveEntity(nil), m.entities...),
		DeckRemaining: m.deck.Remaining(),
		Generation:    m.generation,
	}
}

// Phase returns the current phase.
func (m *Match) Phase() domain.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Generation returns the number of the current start.
func (m *Match) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

func (m *Match) indexLocked(entityID string) int {
	for i := range m.entities {
		if m.entities[i].ID == entityID {
			return i
		}
	}
	return -1
}

func (m *Match) removeLocked(idx int) {
	m.entities = append(m.entities[:idx], m.entities[idx+1:]...)
}

// loseLifeLocked reports whether a life was actually taken.
func (m *Match) loseLifeLocked() bool {
	if m.lives == 0 {
		return false
	}
	m.lives--
	return true
}

func (m *Match) thresholdPhaseLocked() domain.Phase {
	if m.score >= m.rules.PassingScore {
		return domain.PhaseVictory
	}
	return domain.PhaseGameOver
}

// checkEndLocked applies the end conditions that do not depend on the timer.
func (m *Match) checkEndLocked(p *pending) {
	switch {
	case m.lives == 0:
		m.finishLocked(domain.PhaseGameOver, p)
	case m.rules.ScoreCap > 0 && m.score >= m.rules.ScoreCap:
		m.finishLocked(domain.PhaseVictory, p)
	case m.rules.FiniteDeck && m.deck.Exhausted() && len(m.entities) == 0:
		m.finishLocked(m.thresholdPhaseLocked(), p)
	}
}

// finishLocked performs the single terminal transition of a match.
func (m *Match) finishLocked(phase domain.Phase, p *pending) {
	if m.phase != domain.PhasePlaying {
		return
	}
	m.phase = phase
	status := domain.StatusFailed
	if phase == domain.PhaseVictory {
		status = domain.StatusPassed
	}
	p.emit(Event{Kind: EventPhase, Phase: phase})
	p.results = append(p.results, m.resultLocked(status))
}

func (m *Match) resultLocked(status domain.Status) domain.Result {
	return domain.Result{
		MatchID:   m.id,
		BankID:    m.bankID,
		Player:    m.player,
		Score:     m.score,
		Status:    status,
		Timestamp: m.clock.Now(),
	}
}

func (m *Match) dispatch(p pending) {
	for _, ev := range p.events {
		if ev.Kind == EventSound && m.hooks.Sound != nil {
			m.hooks.Sound.Play(ev.Sound)
		}
		if m.hooks.Events != nil {
			m.hooks.Events.Publish(ev)
		}
	}
	if m.hooks.Reporter != nil {
		for _, r := range p.results {
			m.hooks.Reporter.Submit(r)
		}
	}
}
