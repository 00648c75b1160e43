// Package players — repository.go отвечает за операции с таблицей players.
// Методы принимают postgres.DBTX, поэтому одинаково работают в транзакции и без неё.
package players

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"serotonyl.ru/sharkspin/internal/db/postgres"
)

const playerColumns = `
	id, telegram_id, username, coins, energy, wheel_tokens, free_sticker_packs,
	xp, total_earned, level, weekly_coins, lifetime_spins, level_reward_checkpoint,
	last_wheel_spin_at, last_spin_at, last_daily_claim_at, created_at, updated_at
`

type Repository struct {
	db postgres.DBTX
}

func NewRepository(db postgres.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx возвращает репозиторий, работающий внутри транзакции tx.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

// Upsert создаёт игрока со стартовыми балансами или обновляет username
// существующего. Второй результат — был ли игрок создан только что.
func (r *Repository) Upsert(ctx context.Context, telegramID, username string, start StartingBalance) (*Player, bool, error) {
	query := `
		INSERT INTO players (telegram_id, username, coins, energy, wheel_tokens)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = COALESCE(NULLIF(EXCLUDED.username, ''), players.username),
		    updated_at = NOW()
		RETURNING ` + playerColumns + `, (xmax = 0) AS inserted
	`
	var p Player
	var inserted bool
	err := r.db.QueryRow(ctx, query, telegramID, username, start.Coins, start.Energy, start.WheelTokens).
		Scan(append(scanTargets(&p), &inserted)...)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка создания/обновления игрока: %w", err)
	}
	return &p, inserted, nil
}

// GetByID: если не найден — common.ErrPlayerNotFound на уровне сервиса.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Player, error) {
	return r.queryOne(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
}

func (r *Repository) GetByTelegramID(ctx context.Context, telegramID string) (*Player, error) {
	return r.queryOne(ctx, `SELECT `+playerColumns+` FROM players WHERE telegram_id = $1`, telegramID)
}

// LockByID читает игрока с блокировкой строки до конца транзакции.
// Все изменения балансов проходят через эту точку.
func (r *Repository) LockByID(ctx context.Context, id int64) (*Player, error) {
	return r.queryOne(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1 FOR UPDATE`, id)
}

// Save записывает все изменяемые поля игрока.
func (r *Repository) Save(ctx context.Context, p *Player) error {
	query := `
		UPDATE players
		SET coins = $2, energy = $3, wheel_tokens = $4, free_sticker_packs = $5,
		    xp = $6, total_earned = $7, level = $8, weekly_coins = $9,
		    lifetime_spins = $10, level_reward_checkpoint = $11,
		    last_wheel_spin_at = $12, last_spin_at = $13, last_daily_claim_at = $14,
		    updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		p.ID, p.Coins, p.Energy, p.WheelTokens, p.FreeStickerPacks,
		p.XP, p.TotalEarned, p.Level, p.WeeklyCoins,
		p.LifetimeSpins, p.LevelRewardCheckpoint,
		p.LastWheelSpinAt, p.LastSpinAt, p.LastDailyClaimAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения игрока (id=%d): %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("игрок не найден (id=%d): %w", p.ID, pgx.ErrNoRows)
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта игроков: %w", err)
	}
	return n, nil
}

// ListAll возвращает всех игроков по возрастанию ID (для рассылок).
func (r *Repository) ListAll(ctx context.Context) ([]*Player, error) {
	return r.queryMany(ctx, `SELECT `+playerColumns+` FROM players ORDER BY id`)
}

// ListByIDs возвращает игроков с указанными ID, отсутствующие пропускаются.
func (r *Repository) ListByIDs(ctx context.Context, ids []int64) ([]*Player, error) {
	return r.queryMany(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ANY($1) ORDER BY id`, ids)
}

func (r *Repository) queryOne(ctx context.Context, query string, args ...any) (*Player, error) {
	var p Player
	if err := r.db.QueryRow(ctx, query, args...).Scan(scanTargets(&p)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("игрок не найден: %w", err)
		}
		return nil, fmt.Errorf("ошибка чтения игрока: %w", err)
	}
	return &p, nil
}

func (r *Repository) queryMany(ctx context.Context, query string, args ...any) ([]*Player, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса игроков: %w", err)
	}
	defer rows.Close()

	var out []*Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(scanTargets(&p)...); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

func scanTargets(p *Player) []any {
	return []any{
		&p.ID, &p.TelegramID, &p.Username,
		&p.Coins, &p.Energy, &p.WheelTokens, &p.FreeStickerPacks,
		&p.XP, &p.TotalEarned, &p.Level, &p.WeeklyCoins,
		&p.LifetimeSpins, &p.LevelRewardCheckpoint,
		&p.LastWheelSpinAt, &p.LastSpinAt, &p.LastDailyClaimAt,
		&p.CreatedAt, &p.UpdatedAt,
	}
}
