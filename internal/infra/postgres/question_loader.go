package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"literary-flow/internal/domain"
)

// QuestionLoader loads and stores question banks in Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	bank := domain.Bank{ID: bankID}
	err := l.pool.QueryRow(ctx, `SELECT title FROM question_banks WHERE id=$1`, bankID).Scan(&bank.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Bank{}, domain.ErrBankNotFound
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank: %w", err)
	}

	rows, err := l.pool.Query(ctx,
		`SELECT id, text, category, is_correct FROM question_items WHERE bank_id=$1 ORDER BY position, id`, bankID)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item     domain.QuestionItem
			category string
		)
		if err := rows.Scan(&item.ID, &item.Text, &category, &item.IsCorrect); err != nil {
			return domain.Bank{}, fmt.Errorf("scan item: %w", err)
		}
		item.Category = domain.Category(category)
		bank.Items = append(bank.Items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.Bank{}, fmt.Errorf("load items: %w", err)
	}
	return bank, nil
}

// SaveBank replaces a bank and its items in one transaction.
func (l *QuestionLoader) SaveBank(ctx context.Context, bank domain.Bank) error {
	if err := bank.Validate(); err != nil {
		return err
	}
	return l.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO question_banks (id, title) VALUES ($1, $2)
			 ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title`, bank.ID, bank.Title); err != nil {
			return fmt.Errorf("upsert bank: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM question_items WHERE bank_id=$1`, bank.ID); err != nil {
			return fmt.Errorf("clear items: %w", err)
		}
		batch := &pgx.Batch{}
		for i, item := range bank.Items {
			batch.Queue(`INSERT INTO question_items (bank_id, id, text, category, is_correct, position)
				VALUES ($1, $2, $3, $4, $5, $6)`, bank.ID, item.ID, item.Text, string(item.Category), item.IsCorrect, i)
		}
		br := tx.SendBatch(ctx, batch)
		for range bank.Items {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("insert item: %w", err)
			}
		}
		return br.Close()
	})
}
