// Package stickers — repository.go работает с таблицами user_stickers и album_completions.
package stickers

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

// Collection возвращает все стикеры игрока.
func (r *Repository) Collection(ctx context.Context, playerID int64) (Collection, error) {
	rows, err := r.db.Query(ctx, `
		SELECT sticker_id, quantity FROM user_stickers WHERE player_id = $1
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения коллекции: %w", err)
	}
	defer rows.Close()

	col := make(Collection)
	for rows.Next() {
		var id, qty int64
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("ошибка сканирования коллекции: %w", err)
		}
		col[id] = qty
	}
	return col, rows.Err()
}

// SaveQuantities записывает количества указанных стикеров.
func (r *Repository) SaveQuantities(ctx context.Context, playerID int64, col Collection, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		INSERT INTO user_stickers (player_id, sticker_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, sticker_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, updated_at = NOW()
	`
	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(query, playerID, id, col[id])
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range ids {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("ошибка сохранения стикера: %w", err)
		}
	}
	return nil
}

// Completions — альбомы, за которые игрок уже получил награду.
func (r *Repository) Completions(ctx context.Context, playerID int64) (Completions, error) {
	rows, err := r.db.Query(ctx, `SELECT album_id FROM album_completions WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения собранных альбомов: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования собранных альбомов: %w", err)
	}
	done := make(Completions, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}

// InsertCompletion ставит отметку о сборе. false — отметка уже была.
func (r *Repository) InsertCompletion(ctx context.Context, playerID, albumID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO album_completions (player_id, album_id) VALUES ($1, $2)
		ON CONFLICT (player_id, album_id) DO NOTHING
	`, playerID, albumID)
	if err != nil {
		return false, fmt.Errorf("ошибка отметки сбора альбома: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
