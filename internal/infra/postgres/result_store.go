package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"literary-flow/internal/domain"
)

// OpenBun opens a bun handle over the pgdriver connector.
func OpenBun(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

type resultRow struct {
	bun.BaseModel `bun:"table:match_results"`

	MatchID    string    `bun:"match_id,pk"`
	BankID     string    `bun:"bank_id,notnull"`
	PlayerID   string    `bun:"player_id,notnull"`
	Name       string    `bun:"name,notnull"`
	ClassName  string    `bun:"class_name,notnull"`
	Score      int       `bun:"score,notnull"`
	Status     string    `bun:"status,notnull"`
	ReportedAt time.Time `bun:"reported_at,notnull"`
}

func rowFromResult(r domain.Result) resultRow {
	return resultRow{
		MatchID:    r.MatchID,
		BankID:     r.BankID,
		PlayerID:   r.Player.ID,
		Name:       r.Player.Name,
		ClassName:  r.Player.ClassName,
		Score:      r.Score,
		Status:     string(r.Status),
		ReportedAt: r.Timestamp,
	}
}

func (r resultRow) entry() domain.LeaderboardEntry {
	return domain.LeaderboardEntry{
		Name:      r.Name,
		ClassName: r.ClassName,
		Score:     r.Score,
		Timestamp: r.ReportedAt,
		Status:    domain.Status(r.Status),
	}
}

// ResultStore persists match results and serves the leaderboard from them.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

// SubmitResult upserts by match ID, so a final result replaces the in-progress row.
func (s *ResultStore) SubmitResult(ctx context.Context, result domain.Result) error {
	row := rowFromResult(result)
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (match_id) DO UPDATE").
		Set("score = EXCLUDED.score").
		Set("status = EXCLUDED.status").
		Set("reported_at = EXCLUDED.reported_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	return nil
}

// FetchLeaderboard returns up to limit entries for bankID (all banks when empty).
func (s *ResultStore) FetchLeaderboard(ctx context.Context, bankID string, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []resultRow
	q := s.db.NewSelect().
		Model(&rows).
		OrderExpr("score DESC, reported_at ASC, name ASC").
		Limit(limit)
	if bankID != "" {
		q = q.Where("bank_id = ?", bankID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.entry())
	}
	return entries, nil
}
