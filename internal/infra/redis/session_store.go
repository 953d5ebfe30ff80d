package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"literary-flow/internal/app"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Sessions and their game loops stay in process; Redis marks which players
// are connected so other instances (and operators) can see them.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(playerID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[playerID]; ok {
		// refresh liveness on rejoin
		_ = s.client.Expire(context.Background(), s.key(playerID), s.ttl).Err()
		return session
	}
	session := app.NewSession(playerID)
	s.sessions[playerID] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(playerID), "1", s.ttl).Err()
	return session
}

func (s *SessionStore) Get(playerID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[playerID]
	return session, ok
}

func (s *SessionStore) DeleteIfEmpty(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[playerID]
	if !ok {
		return
	}
	if session.IsEmpty() {
		delete(s.sessions, playerID)
		_ = s.client.Del(context.Background(), s.key(playerID)).Err()
	}
}

func (s *SessionStore) key(playerID string) string {
	return "literary-flow:session:" + playerID
}
