package memory

import (
	"context"
	"sort"
	"sync"

	"literary-flow/internal/domain"
)

// Leaderboard keeps the latest result of every match in memory.
// It is both a result sink and a leaderboard reader.
type Leaderboard struct {
	mu      sync.RWMutex
	results map[string]domain.Result
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{results: make(map[string]domain.Result)}
}

// SubmitResult upserts by match ID, so a final result replaces the in-progress row.
func (l *Leaderboard) SubmitResult(_ context.Context, result domain.Result) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results[result.MatchID] = result
	return nil
}

// FetchLeaderboard returns up to limit entries for bankID (all banks when empty).
func (l *Leaderboard) FetchLeaderboard(_ context.Context, bankID string, limit int) ([]domain.LeaderboardEntry, error) {
	l.mu.RLock()
	entries := make([]domain.LeaderboardEntry, 0, len(l.results))
	for _, result := range l.results {
		if bankID != "" && result.BankID != bankID {
			continue
		}
		entries = append(entries, domain.EntryFromResult(result))
	}
	l.mu.RUnlock()

	SortEntries(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// SortEntries orders by score desc, then who reached it earlier, then name.
func SortEntries(entries []domain.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		}
		return entries[i].Name < entries[j].Name
	})
}
