package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"literary-flow/internal/config"
	"literary-flow/internal/content"
	pginfra "literary-flow/internal/infra/postgres"
	redisinfra "literary-flow/internal/infra/redis"
)

// NewSeedCmd loads question banks into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var bankPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store the built-in bank (and an optional YAML bank) in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, bankPath)
		},
	}
	cmd.Flags().StringVar(&bankPath, "file", "", "YAML bank file to seed in addition to the built-in bank")
	return cmd
}

func runSeed(ctx context.Context, configPath, bankPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	initLogger(cfg.Log.Level, cfg.Log.Format)
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}
	if bankPath == "" {
		bankPath = cfg.Bank.Path
	}

	banks, err := content.Banks(bankPath)
	if err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	loader := pginfra.NewQuestionLoader(pool)

	var cache *redisinfra.BankCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer client.Close()
		cache = redisinfra.NewBankCache(client, loader, 0)
	}

	for id, bank := range banks {
		if err := loader.SaveBank(ctx, bank); err != nil {
			return fmt.Errorf("seed bank %s: %w", id, err)
		}
		if cache != nil {
			if err := cache.Invalidate(ctx, id); err != nil {
				slog.Warn("invalidate cached bank", "bank_id", id, "err", err)
			}
		}
		slog.Info("bank seeded", "bank_id", id, "items", len(bank.Items))
	}
	return nil
}
