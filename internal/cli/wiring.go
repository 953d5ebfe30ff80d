package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"literary-flow/internal/app"
	"literary-flow/internal/config"
	"literary-flow/internal/content"
	"literary-flow/internal/domain"
	"literary-flow/internal/infra/memory"
	pginfra "literary-flow/internal/infra/postgres"
	redisinfra "literary-flow/internal/infra/redis"
	"literary-flow/internal/infra/sheets"
)

// stack holds the adapters selected by the config. Unconfigured backends stay nil.
type stack struct {
	cfg      config.Config
	redis    *redis.Client
	pool     *pgxpool.Pool
	db       *bun.DB
	banks    *memory.QuestionRepository
	board    app.LeaderboardReader
	reporter *app.Reporter
	closers  []func()
}

func buildStack(ctx context.Context, cfg config.Config) (*stack, error) {
	s := &stack{cfg: cfg}

	if cfg.Redis.Addr != "" {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, func() { _ = s.redis.Close() })
	}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			s.close()
			return nil, err
		}
		s.pool = pool
		s.closers = append(s.closers, pool.Close)
		s.db = pginfra.OpenBun(cfg.Postgres.URL)
		s.closers = append(s.closers, func() { _ = s.db.Close() })
	}

	files, err := content.Banks(cfg.Bank.Path)
	if err != nil {
		s.close()
		return nil, err
	}
	var loader memory.BankLoader = memory.NewStaticBankLoader(files)
	if s.pool != nil {
		loader = memory.FallbackLoader{pginfra.NewQuestionLoader(s.pool), loader}
	}
	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	if s.redis != nil {
		loader = redisinfra.NewBankCache(s.redis, loader, bankTTL)
	}
	s.banks = memory.NewQuestionRepository(loader, bankTTL)

	var sinks []app.ResultSink
	if s.redis != nil {
		board := redisinfra.NewLeaderboard(s.redis)
		sinks = append(sinks, board)
		s.board = board
	}
	if s.db != nil {
		store := pginfra.NewResultStore(s.db)
		sinks = append(sinks, store)
		if s.board == nil {
			s.board = store
		}
	}
	if cfg.Leaderboard.WebhookURL != "" {
		timeout := config.TTLDuration(cfg.Leaderboard.Timeout, 10*time.Second)
		client := sheets.NewClient(cfg.Leaderboard.WebhookURL, nil)
		sinks = append(sinks, client)
		if s.board == nil {
			s.board = timedReader{reader: client, timeout: timeout}
		}
	}
	if s.board == nil {
		board := memory.NewLeaderboard()
		sinks = append(sinks, board)
		s.board = board
	}

	s.reporter = app.NewReporter(cfg.Leaderboard.Queue,
		config.TTLDuration(cfg.Leaderboard.Timeout, 10*time.Second), slog.Default(), sinks...)
	runCtx, cancel := context.WithCancel(context.Background())
	go s.reporter.Run(runCtx)
	// Drain pending results before closing the backends they are written to.
	s.closers = append(s.closers, func() {
		s.reporter.Close()
		cancel()
	})

	slog.Info("backends configured",
		"redis", s.redis != nil, "postgres", s.pool != nil,
		"webhook", cfg.Leaderboard.WebhookURL != "", "sinks", len(sinks))
	return s, nil
}

// close releases resources in reverse order of acquisition.
func (s *stack) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// timedReader bounds reads from slow leaderboards.
type timedReader struct {
	reader  app.LeaderboardReader
	timeout time.Duration
}

func (r timedReader) FetchLeaderboard(ctx context.Context, bankID string, limit int) ([]domain.LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.reader.FetchLeaderboard(ctx, bankID, limit)
}
