// Package events — repository.go работает с таблицей event_progress.
package events

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

// ListForPlayer возвращает прогресс игрока по ID события.
// Вызывается под блокировкой строки игрока, поэтому отдельная блокировка не нужна.
func (r *Repository) ListForPlayer(ctx context.Context, playerID int64) (map[int64]*Progress, error) {
	rows, err := r.db.Query(ctx, `
		SELECT event_id, player_id, progress, claimed
		FROM event_progress
		WHERE player_id = $1
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения прогресса событий: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Progress])
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования прогресса событий: %w", err)
	}

	out := make(map[int64]*Progress, len(list))
	for _, p := range list {
		out[p.EventID] = p
	}
	return out, nil
}

// Save создаёт или обновляет строки прогресса одним batch-запросом.
func (r *Repository) Save(ctx context.Context, rows ...*Progress) error {
	if len(rows) == 0 {
		return nil
	}
	query := `
		INSERT INTO event_progress (event_id, player_id, progress, claimed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, player_id) DO UPDATE
		SET progress = EXCLUDED.progress, claimed = EXCLUDED.claimed, updated_at = NOW()
	`
	batch := &pgx.Batch{}
	for _, p := range rows {
		batch.Queue(query, p.EventID, p.PlayerID, p.Progress, p.Claimed)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("ошибка сохранения прогресса события: %w", err)
		}
	}
	return nil
}
