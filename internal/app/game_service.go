package app

import (
	"context"
	"errors"

	"literary-flow/internal/domain"
	"literary-flow/internal/game"
)

// SessionRepository abstracts where player sessions live (in-memory, Redis-marked, etc).
type SessionRepository interface {
	GetOrCreate(playerID string) *Session
	Get(playerID string) (*Session, bool)
	DeleteIfEmpty(playerID string)
}

// QuestionRepository loads validated question banks (from cache/backing store).
type QuestionRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// ResultSink stores a reported result. Implementations may block on I/O;
// the Reporter isolates the game from them.
type ResultSink interface {
	SubmitResult(ctx context.Context, result domain.Result) error
}

// LeaderboardReader lists the best results of a bank.
type LeaderboardReader interface {
	FetchLeaderboard(ctx context.Context, bankID string, limit int) ([]domain.LeaderboardEntry, error)
}

// Options wires the collaborators of a GameService.
type Options struct {
	Rules       game.Rules
	Zones       game.ZoneLocator
	Reporter    game.ResultReporter
	Leaderboard LeaderboardReader
	// Sound plays cues locally. Remote clients get cues as events instead.
	Sound game.SoundPlayer
}

// GameService contains the game use cases of every connected player.
type GameService struct {
	sessions SessionRepository
	banks    QuestionRepository
	opts     Options
}

func NewGameService(store SessionRepository, banks QuestionRepository, opts Options) *GameService {
	opts.Rules = opts.Rules.WithDefaults()
	if opts.Zones == nil {
		opts.Zones = game.DefaultLayout()
	}
	return &GameService{sessions: store, banks: banks, opts: opts}
}

// Rules returns the rules every new match is built with.
func (s *GameService) Rules() game.Rules { return s.opts.Rules }

// Join registers a player for a bank and returns the menu (or in-flight) state.
// Rejoining while a match is playing reattaches to it.
func (s *GameService) Join(ctx context.Context, bankID string, player domain.Player) (game.Snapshot, error) {
	// Load the bank before creating a session; unknown banks cannot be joined.
	bank, err := s.Bank(ctx, bankID)
	if err != nil {
		return game.Snapshot{}, err
	}

	session := s.sessions.GetOrCreate(player.ID)
	session.configure(sessionConfig{
		bank:     bank,
		player:   player,
		rules:    s.opts.Rules,
		zones:    s.opts.Zones,
		reporter: s.opts.Reporter,
		sound:    s.opts.Sound,
	})
	return session.Snapshot(), nil
}

// Start begins a new match for the player, resetting any previous one.
func (s *GameService) Start(_ context.Context, playerID string) (game.Snapshot, error) {
	session, err := s.session(playerID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return session.start()
}

// BeginDrag freezes a card the player grabbed.
func (s *GameService) BeginDrag(_ context.Context, playerID, entityID string) error {
	match, err := s.match(playerID)
	if err != nil {
		return err
	}
	return match.BeginDrag(entityID)
}

// Hover reports the zone under the pointer while dragging.
func (s *GameService) Hover(_ context.Context, playerID string, p domain.Point) (domain.Category, bool, error) {
	match, err := s.match(playerID)
	if err != nil {
		return "", false, err
	}
	zone, ok := match.HoverZone(p)
	return zone, ok, nil
}

// Drop resolves a release and returns the outcome with the resulting state.
func (s *GameService) Drop(_ context.Context, playerID, entityID string, p domain.Point) (domain.Outcome, game.Snapshot, error) {
	match, err := s.match(playerID)
	if err != nil {
		return "", game.Snapshot{}, err
	}
	outcome, err := match.Drop(entityID, p)
	return outcome, match.Snapshot(), err
}

// Snapshot returns the player's current state.
func (s *GameService) Snapshot(_ context.Context, playerID string) (game.Snapshot, error) {
	session, err := s.session(playerID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel that receives state, events and results of the player's match.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, playerID string) (<-chan Update, func(), error) {
	session, err := s.session(playerID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave aborts the player's match and drops the session once nobody watches it.
func (s *GameService) Leave(_ context.Context, playerID string) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return
	}
	session.abort()
	if session.IsEmpty() {
		s.sessions.DeleteIfEmpty(playerID)
	}
}

// Bank returns a validated question bank.
func (s *GameService) Bank(ctx context.Context, bankID string) (domain.Bank, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return domain.Bank{}, err
	}
	if err := bank.Validate(); err != nil {
		return domain.Bank{}, err
	}
	return bank, nil
}

// Leaderboard lists the best results for a bank.
func (s *GameService) Leaderboard(ctx context.Context, bankID string, limit int) ([]domain.LeaderboardEntry, error) {
	if s.opts.Leaderboard == nil {
		return nil, errors.New("leaderboard not configured")
	}
	return s.opts.Leaderboard.FetchLeaderboard(ctx, bankID, limit)
}

func (s *GameService) session(playerID string) (*Session, error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *GameService) match(playerID string) (*game.Match, error) {
	session, err := s.session(playerID)
	if err != nil {
		return nil, err
	}
	match, _ := session.current()
	if match == nil {
		return nil, domain.ErrSessionNotFound
	}
	return match, nil
}
