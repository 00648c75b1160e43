// Package wheel — repository.go пишет журнал спинов колеса (таблица wheel_spins).
package wheel

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"serotonyl.ru/sharkspin/internal/db/postgres"
)

type Repository struct {
	db postgres.DBTX
}

func NewRepository(db postgres.DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) SaveSpin(ctx context.Context, s *Spin) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO wheel_spins (player_id, reward_id, label, reward_type, amount, free, tokens_spent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, s.PlayerID, s.RewardID, s.Label, s.RewardType, s.Amount, s.Free, s.TokensSpent).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка сохранения спина колеса: %w", err)
	}
	return nil
}

// Count — всего спинов колеса.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM wheel_spins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта спинов колеса: %w", err)
	}
	return n, nil
}
