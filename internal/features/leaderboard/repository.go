// Package leaderboard — repository.go: выборки по таблице players.
package leaderboard

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

// Top — первые limit игроков таблицы.
func (r *Repository) Top(ctx context.Context, board Board, limit int) ([]Entry, error) {
	order, err := board.orderBy()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, username, coins, xp, weekly_coins, level
		FROM players
		ORDER BY `+order+`
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса таблицы лидеров: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e := Entry{Rank: len(out) + 1}
		if err := rows.Scan(&e.PlayerID, &e.Username, &e.Coins, &e.XP, &e.WeeklyCoins, &e.Level); err != nil {
			return nil, fmt.Errorf("ошибка сканирования таблицы лидеров: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// TopWeeklyIDs — ID лидеров недели.
func (r *Repository) TopWeeklyIDs(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM players
		WHERE weekly_coins > 0
		ORDER BY weekly_coins DESC, total_earned DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса лидеров недели: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения лидеров недели: %w", err)
	}
	return ids, nil
}

// ResetWeekly обнуляет недельные монеты. Возвращает число затронутых игроков.
func (r *Repository) ResetWeekly(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE players SET weekly_coins = 0, updated_at = NOW() WHERE weekly_coins <> 0`)
	if err != nil {
		return 0, fmt.Errorf("ошибка сброса недельной таблицы: %w", err)
	}
	return tag.RowsAffected(), nil
}
