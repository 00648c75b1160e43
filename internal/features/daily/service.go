// Package daily — service.go: получение награды, сводка и напоминания.
package daily

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/db/postgres"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
)

// Service управляет ежедневной наградой.
type Service struct {
	pool      *pgxpool.Pool
	repo      *Repository
	players   *players.Repository
	engine    *Engine
	minStreak int // Минимальная серия для напоминания
	now       func() time.Time
}

func NewService(pool *pgxpool.Pool, playersRepo *players.Repository, engine *Engine, reminderMinStreak int) *Service {
	return &Service{
		pool:      pool,
		repo:      NewRepository(pool),
		players:   playersRepo,
		engine:    engine,
		minStreak: reminderMinStreak,
		now:       time.Now,
	}
}

// Claim выдаёт ежедневную награду. Возвращает результат и игрока после начисления.
func (s *Service) Claim(ctx context.Context, playerID int64) (*ClaimResult, *players.Player, error) {
	now := s.now()
	var (
		result *ClaimResult
		player *players.Player
	)

	err := postgres.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		playersRepo := s.players.WithTx(tx)
		p, err := players.Lock(ctx, playersRepo, playerID)
		if err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)
		st, err := repo.LockOrCreate(ctx, playerID)
		if err != nil {
			return err
		}

		res, err := s.engine.Claim(p, st, now)
		if err != nil {
			return err
		}

		if err := repo.Save(ctx, st); err != nil {
			return err
		}
		if err := playersRepo.Save(ctx, p); err != nil {
			return err
		}

		ledger := economy.NewRepository(tx)
		entries := economy.Entries(p.ID, economy.SourceDaily,
			fmt.Sprintf("Daily reward: day %d", res.Reward.Day), res.Reward.Rewards()...)
		for _, g := range res.LevelGrants {
			entries = append(entries, economy.Entries(p.ID, economy.SourceLevel, g.Description, g.Reward)...)
		}
		if err := ledger.Record(ctx, entries...); err != nil {
			return err
		}

		result, player = res, p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.WithFields(log.Fields{
		"player_id": playerID,
		"streak":    result.Streak,
		"reset":     result.StreakReset,
		"coins":     result.Reward.Coins,
	}).Info("Ежедневная награда получена")
	return result, player, nil
}

// Summary — состояние ежедневной награды игрока.
func (s *Service) Summary(ctx context.Context, playerID int64) (Summary, error) {
	st, err := s.repo.Get(ctx, playerID)
	if err != nil {
		return Summary{}, err
	}
	return s.engine.Summarize(st, s.now()), nil
}

// PendingReminders — кому сейчас стоит напомнить о награде.
func (s *Service) PendingReminders(ctx context.Context) ([]Reminder, error) {
	return s.repo.ReminderCandidates(ctx, s.now(), s.engine.ClaimWindow, s.engine.GraceWindow, s.minStreak)
}

// MarkReminded отмечает отправленное напоминание.
func (s *Service) MarkReminded(ctx context.Context, playerID int64) error {
	return s.repo.MarkReminded(ctx, playerID, s.now())
}

// SendReminders отправляет напоминания через send и отмечает доставленные.
// Ошибка доставки одному игроку не прерывает рассылку.
func (s *Service) SendReminders(ctx context.Context, send func(ctx context.Context, r Reminder) error) (int, error) {
	pending, err := s.PendingReminders(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range pending {
		if err := send(ctx, r); err != nil {
			log.WithError(err).WithField("player_id", r.PlayerID).Debug("Напоминание не доставлено")
			continue
		}
		if err := s.MarkReminded(ctx, r.PlayerID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
