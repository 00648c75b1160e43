// Package admin — repository.go работает с таблицами broadcasts и admin_login_attempts.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"serotonyl.ru/sharkspin/internal/db/postgres"
)

// Repository работает с админ-таблицами.
type Repository struct {
	db postgres.DBTX
}

// NewRepository создаёт репозиторий.
func NewRepository(db postgres.DBTX) *Repository {
	return &Repository{db: db}
}

// LogAttempt записывает попытку входа.
func (r *Repository) LogAttempt(ctx context.Context, source string, success bool) error {
	query := `INSERT INTO admin_login_attempts (source, success) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, source, success)
	return err
}

// GetRecentFailures возвращает количество неудачных попыток за указанный период.
func (r *Repository) GetRecentFailures(ctx context.Context, source string, period time.Duration) (int, error) {
	since := time.Now().Add(-period)
	query := `
		SELECT COUNT(*) FROM admin_login_attempts
		WHERE source = $1 AND success = FALSE AND attempt_time >= $2
	`
	var count int
	err := r.db.QueryRow(ctx, query, source, since).Scan(&count)
	return count, err
}

const broadcastColumns = `id, title, body, reward_url, status, recipients, sent_count, failed_count, created_at, completed_at`

// CreateBroadcast сохраняет новую рассылку.
func (r *Repository) CreateBroadcast(ctx context.Context, b *Broadcast) error {
	query := `
		INSERT INTO broadcasts (title, body, reward_url, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, b.Title, b.Body, b.RewardURL, b.Status).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания рассылки: %w", err)
	}
	return nil
}

// StartBroadcast переводит рассылку в статус sending.
func (r *Repository) StartBroadcast(ctx context.Context, id int64, recipients int) error {
	query := `UPDATE broadcasts SET status = $2, recipients = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, BroadcastSending, recipients); err != nil {
		return fmt.Errorf("ошибка обновления рассылки %d: %w", id, err)
	}
	return nil
}

// FinishBroadcast записывает счётчики отправки.
func (r *Repository) FinishBroadcast(ctx context.Context, id int64, sent, failed int) error {
	query := `
		UPDATE broadcasts
		SET status = $2, sent_count = $3, failed_count = $4, completed_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.Exec(ctx, query, id, BroadcastDone, sent, failed); err != nil {
		return fmt.Errorf("ошибка завершения рассылки %d: %w", id, err)
	}
	return nil
}

// RecentBroadcasts — последние рассылки.
func (r *Repository) RecentBroadcasts(ctx context.Context, limit int) ([]*Broadcast, error) {
	rows, err := r.db.Query(ctx, `SELECT `+broadcastColumns+` FROM broadcasts ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса рассылок: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Broadcast])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения рассылок: %w", err)
	}
	return list, nil
}
