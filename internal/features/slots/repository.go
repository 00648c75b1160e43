// Package slots — repository.go пишет журнал спинов (таблица slot_spins).
package slots

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

// SaveSpin записывает результат спина.
func (r *Repository) SaveSpin(ctx context.Context, s *Spin) error {
	query := `
		INSERT INTO slot_spins (player_id, label, multiplier, reels, coins, energy, wheel_tokens, coin_cost, energy_spent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		s.PlayerID, s.Label, s.Multiplier, s.Reels,
		s.Coins, s.Energy, s.WheelTokens, s.CoinCost, s.EnergySpent,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка сохранения спина: %w", err)
	}
	return nil
}

// Recent — последние спины игрока, новые сверху.
func (r *Repository) Recent(ctx context.Context, playerID int64, limit int) ([]*Spin, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, player_id, label, multiplier, reels, coins, energy, wheel_tokens,
		       coin_cost, energy_spent, created_at
		FROM slot_spins
		WHERE player_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения спинов: %w", err)
	}
	spins, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Spin])
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования спинов: %w", err)
	}
	return spins, nil
}

// Stats — сводка по всем спинам. Все поля считаются одним запросом.
func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(energy_spent), 0),
		       COALESCE(SUM(coins), 0),
		       COALESCE(MAX(coins), 0),
		       COUNT(*) FILTER (WHERE label = $1)
		FROM slot_spins
	`
	var s Stats
	err := r.db.QueryRow(ctx, query, LabelHouseEdge).Scan(
		&s.TotalSpins, &s.EnergySpent, &s.CoinsPaid, &s.BiggestPayout, &s.HouseEdgeHits,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики слотов: %w", err)
	}
	return &s, nil
}
