// Package daily — repository.go выполняет операции с таблицей daily_states.
package daily

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"serotonyl.ru/sharkspin/internal/db/postgres"
)

const stateColumns = `player_id, streak, longest_streak, total_claims, last_claim_at, reminded_at`

type Repository struct {
	db postgres.DBTX
}

func NewRepository(db postgres.DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

// Get возвращает состояние игрока. Если строки нет — пустое состояние.
func (r *Repository) Get(ctx context.Context, playerID int64) (*State, error) {
	rows, err := r.db.Query(ctx, `SELECT `+stateColumns+` FROM daily_states WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ежедневной награды: %w", err)
	}
	st, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[State])
	if err != nil {
		if postgres.IsNoRows(err) {
			return &State{PlayerID: playerID}, nil
		}
		return nil, fmt.Errorf("ошибка сканирования ежедневной награды: %w", err)
	}
	return st, nil
}

// LockOrCreate создаёт строку при необходимости и блокирует её до конца транзакции.
func (r *Repository) LockOrCreate(ctx context.Context, playerID int64) (*State, error) {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO daily_states (player_id) VALUES ($1)
		ON CONFLICT (player_id) DO NOTHING
	`, playerID); err != nil {
		return nil, fmt.Errorf("ошибка создания ежедневной награды: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+stateColumns+` FROM daily_states WHERE player_id = $1 FOR UPDATE`, playerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка блокировки ежедневной награды: %w", err)
	}
	st, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[State])
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования ежедневной награды: %w", err)
	}
	return st, nil
}

func (r *Repository) Save(ctx context.Context, st *State) error {
	_, err := r.db.Exec(ctx, `
		UPDATE daily_states
		SET streak = $2, longest_streak = $3, total_claims = $4,
		    last_claim_at = $5, reminded_at = $6, updated_at = NOW()
		WHERE player_id = $1
	`, st.PlayerID, st.Streak, st.LongestStreak, st.TotalClaims, st.LastClaimAt, st.RemindedAt)
	if err != nil {
		return fmt.Errorf("ошибка сохранения ежедневной награды: %w", err)
	}
	return nil
}

// ReminderCandidates — игроки, у которых награда уже доступна, серия ещё
// не прервана и не меньше minStreak, и напоминания после получения не было.
func (r *Repository) ReminderCandidates(ctx context.Context, now time.Time, window, grace time.Duration, minStreak int) ([]Reminder, error) {
	query := `
		SELECT d.player_id, p.telegram_id, d.streak
		FROM daily_states d
		JOIN players p ON p.id = d.player_id
		WHERE d.last_claim_at <= $1
		  AND d.last_claim_at > $2
		  AND d.streak >= $3
		  AND (d.reminded_at IS NULL OR d.reminded_at < d.last_claim_at)
		ORDER BY d.player_id
	`
	rows, err := r.db.Query(ctx, query, now.Add(-window), now.Add(-grace), minStreak)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска напоминаний: %w", err)
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		var rem Reminder
		if err := rows.Scan(&rem.PlayerID, &rem.TelegramID, &rem.Streak); err != nil {
			return nil, fmt.Errorf("ошибка сканирования напоминания: %w", err)
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

// MarkReminded отмечает отправленное напоминание.
func (r *Repository) MarkReminded(ctx context.Context, playerID int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE daily_states SET reminded_at = $2 WHERE player_id = $1`, playerID, at)
	if err != nil {
		return fmt.Errorf("ошибка отметки напоминания: %w", err)
	}
	return nil
}
