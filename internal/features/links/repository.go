// Package links — repository.go работает с таблицей reward_links.
package links

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"serotonyl.ru/sharkspin/internal/db/postgres"
)

const linkColumns = `id, code, token, reward_type, amount, uses_left, is_active, created_by, title, note, created_at`

type Repository struct {
	db postgres.DBTX
}

func NewRepository(db postgres.DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

// Insert создаёт ссылку. Токен подписывается после получения кода,
// поэтому вставка идёт вместе с ним.
func (r *Repository) Insert(ctx context.Context, l *Link) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO reward_links (code, token, reward_type, amount, uses_left, is_active, created_by, title, note)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7, $8)
		RETURNING id, is_active, created_at
	`, l.Code, l.Token, l.RewardType, l.Amount, l.UsesLeft, l.CreatedBy, l.Title, l.Note,
	).Scan(&l.ID, &l.IsActive, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания ссылки: %w", err)
	}
	return nil
}

// LockByCode читает ссылку с блокировкой строки. Нет ссылки — pgx.ErrNoRows.
func (r *Repository) LockByCode(ctx context.Context, code string) (*Link, error) {
	return r.queryOne(ctx, `SELECT `+linkColumns+` FROM reward_links WHERE code = $1 FOR UPDATE`, code)
}

func (r *Repository) LockByToken(ctx context.Context, token string) (*Link, error) {
	return r.queryOne(ctx, `SELECT `+linkColumns+` FROM reward_links WHERE token = $1 FOR UPDATE`, token)
}

// SaveUsage записывает остаток использований и активность.
func (r *Repository) SaveUsage(ctx context.Context, l *Link) error {
	_, err := r.db.Exec(ctx, `
		UPDATE reward_links SET uses_left = $2, is_active = $3 WHERE id = $1
	`, l.ID, l.UsesLeft, l.IsActive)
	if err != nil {
		return fmt.Errorf("ошибка обновления ссылки: %w", err)
	}
	return nil
}

// List — последние ссылки, новые сверху.
func (r *Repository) List(ctx context.Context, limit int) ([]*Link, error) {
	rows, err := r.db.Query(ctx, `SELECT `+linkColumns+` FROM reward_links ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ссылок: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Link])
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования ссылок: %w", err)
	}
	return out, nil
}

// Deactivate выключает ссылку. false — ссылки нет.
func (r *Repository) Deactivate(ctx context.Context, code string) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE reward_links SET is_active = FALSE WHERE code = $1`, code)
	if err != nil {
		return false, fmt.Errorf("ошибка деактивации ссылки: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) queryOne(ctx context.Context, query string, args ...any) (*Link, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса ссылки: %w", err)
	}
	l, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Link])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ссылки: %w", err)
	}
	return l, nil
}
