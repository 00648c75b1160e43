// Package economy — repository.go пишет и читает журнал начислений (таблица ledger).
package economy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"serotonyl.ru/sharkspin/internal/db/postgres"
)

// Repository — журнал начислений.
type Repository struct {
	db postgres.DBTX
}

func NewRepository(db postgres.DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

// Record добавляет записи одним batch-запросом.
func (r *Repository) Record(ctx context.Context, entries ...LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO ledger (player_id, reward_type, amount, source, description)
		VALUES ($1, $2, $3, $4, $5)
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query, e.PlayerID, string(e.RewardType), e.Amount, e.Source, e.Description)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("ошибка записи в журнал: %w", err)
		}
	}
	return nil
}

// History возвращает последние записи игрока, новые сверху.
func (r *Repository) History(ctx context.Context, playerID int64, limit int) ([]*LedgerEntry, error) {
	query := `
		SELECT id, player_id, reward_type, amount, source, description, created_at
		FROM ledger
		WHERE player_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения журнала: %w", err)
	}
	defer rows.Close()

	var out []*LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		var rewardType string
		if err := rows.Scan(&e.ID, &e.PlayerID, &rewardType, &e.Amount, &e.Source, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи журнала: %w", err)
		}
		e.RewardType = RewardType(rewardType)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала: %w", err)
	}
	return out, nil
}
