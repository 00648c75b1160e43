// Package shop — repository.go работает с таблицей payments.
package shop

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

// Insert записывает платёж. false — платёж с таким charge_id уже есть.
func (r *Repository) Insert(ctx context.Context, p *Payment) (bool, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (player_id, charge_id, payload, stars, source)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (charge_id) DO NOTHING
		RETURNING id, created_at
	`, p.PlayerID, p.ChargeID, p.Payload, p.Stars, p.Source).Scan(&p.ID, &p.CreatedAt)
	if postgres.IsNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ошибка записи платежа: %w", err)
	}
	return true, nil
}

func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.db.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(stars), 0) FROM payments`).Scan(&s.Payments, &s.Stars)
	if err != nil {
		return nil, fmt.Errorf("ошибка статистики платежей: %w", err)
	}
	return &s, nil
}

// Recent — последние платежи игрока.
func (r *Repository) Recent(ctx context.Context, playerID int64, limit int) ([]*Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, player_id, charge_id, payload, stars, source, created_at
		FROM payments WHERE player_id = $1
		ORDER BY id DESC LIMIT $2
	`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения платежей: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Payment])
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования платежей: %w", err)
	}
	return out, nil
}
