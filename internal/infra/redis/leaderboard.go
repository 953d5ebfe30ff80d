package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"literary-flow/internal/domain"
	"literary-flow/internal/infra/memory"
)

const allBanks = "_all"

// Leaderboard ranks results in Redis.
// Scores live in:  ZADD leaderboard:{bankID} {score} {matchID}
// Rows live in:    HSET leaderboard:{bankID}:entries {matchID} {entry JSON}
// Every result is also indexed under the "_all" bank.
type Leaderboard struct {
	client *redis.Client
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

// SubmitResult upserts the match row, so a final result replaces the in-progress one.
func (l *Leaderboard) SubmitResult(ctx context.Context, result domain.Result) error {
	data, err := json.Marshal(domain.EntryFromResult(result))
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	pipe := l.client.TxPipeline()
	for _, bank := range []string{result.BankID, allBanks} {
		if bank == "" {
			continue
		}
		pipe.ZAdd(ctx, scoresKey(bank), redis.Z{Score: float64(result.Score), Member: result.MatchID})
		pipe.HSet(ctx, entriesKey(bank), result.MatchID, data)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// FetchLeaderboard returns up to limit entries for bankID (all banks when empty).
// Rows tied with the last ranked score are loaded too so ties break by time and name.
func (l *Leaderboard) FetchLeaderboard(ctx context.Context, bankID string, limit int) ([]domain.LeaderboardEntry, error) {
	if bankID == "" {
		bankID = allBanks
	}
	if limit <= 0 {
		limit = 20
	}

	top, err := l.client.ZRevRangeWithScores(ctx, scoresKey(bankID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return []domain.LeaderboardEntry{}, nil
	}

	floor := top[len(top)-1].Score
	members, err := l.client.ZRangeByScore(ctx, scoresKey(bankID), &redis.ZRangeBy{
		Min: strconv.FormatFloat(floor, 'f', -1, 64),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}

	raw, err := l.client.HMGet(ctx, entriesKey(bankID), members...).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]domain.LeaderboardEntry, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var entry domain.LeaderboardEntry
		if err := json.Unmarshal([]byte(s), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	memory.SortEntries(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func scoresKey(bankID string) string {
	return "leaderboard:" + bankID
}

func entriesKey(bankID string) string {
	return "leaderboard:" + bankID + ":entries"
}
