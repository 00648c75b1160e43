// Package leaderboard — service.go: таблицы, сброс и награды.
package leaderboard

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/db/postgres"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

type Service struct {
	pool    *pgxpool.Pool
	repo    *Repository
	players *players.Repository
	rewards *economy.Engine
	levels  *progression.Tracker
	size    int
}

func NewService(pool *pgxpool.Pool, playersRepo *players.Repository, rewards *economy.Engine, levels *progression.Tracker, size int) *Service {
	return &Service{
		pool:    pool,
		repo:    NewRepository(pool),
		players: playersRepo,
		rewards: rewards,
		levels:  levels,
		size:    size,
	}
}

// All — все таблицы лидеров.
func (s *Service) All(ctx context.Context) (map[Board][]Entry, error) {
	out := make(map[Board][]Entry, len(Boards))
	for _, b := range Boards {
		entries, err := s.repo.Top(ctx, b, s.size)
		if err != nil {
			return nil, err
		}
		out[b] = entries
	}
	return out, nil
}

// ResetWeekly обнуляет недельную таблицу.
func (s *Service) ResetWeekly(ctx context.Context) (int64, error) {
	n, err := s.repo.ResetWeekly(ctx)
	if err != nil {
		return 0, err
	}
	log.WithField("players", n).Info("Недельная таблица лидеров сброшена")
	return n, nil
}

// Reward выдаёт награду указанным игрокам или топу недели (если ID не заданы).
func (s *Service) Reward(ctx context.Context, in RewardInput) (*RewardResult, error) {
	t, err := economy.ParseRewardType(in.RewardType)
	if err != nil {
		return nil, err
	}
	if err := economy.CheckAmount(in.Amount); err != nil {
		return nil, err
	}
	reward := economy.Reward{Type: t, Amount: in.Amount}

	ids := slices.Clone(in.PlayerIDs)
	if len(ids) == 0 {
		if in.Top < 1 {
			return nil, common.ErrInvalidInput
		}
		if ids, err = s.repo.TopWeeklyIDs(ctx, in.Top); err != nil {
			return nil, err
		}
	}
	// Блокируем по возрастанию ID, чтобы параллельные награды не ловили deadlock
	slices.Sort(ids)
	ids = slices.Compact(ids)

	description := "Leaderboard reward"
	if note := strings.TrimSpace(in.Note); note != "" {
		description += ": " + note
	}

	result := &RewardResult{Reward: reward.String()}
	err = postgres.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		playersRepo := s.players.WithTx(tx)
		ledger := economy.NewRepository(tx)
		for _, id := range ids {
			p, err := players.Lock(ctx, playersRepo, id)
			if err != nil {
				if errors.Is(err, common.ErrPlayerNotFound) {
					continue
				}
				return err
			}
			entries, err := s.grant(p, reward, description)
			if err != nil {
				return err
			}
			if err := playersRepo.Save(ctx, p); err != nil {
				return err
			}
			if err := ledger.Record(ctx, entries...); err != nil {
				return err
			}
			result.Rewarded = append(result.Rewarded, p.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"players": len(result.Rewarded),
		"reward":  result.Reward,
	}).Info("Награда лидерам выдана")
	return result, nil
}

// grant начисляет награду и награды за пройденные ею уровни.
func (s *Service) grant(p *players.Player, reward economy.Reward, description string) ([]economy.LedgerEntry, error) {
	if err := s.rewards.Apply(p, reward); err != nil {
		return nil, err
	}
	entries := economy.Entries(p.ID, economy.SourceLeaderboard, description, reward)
	grants, err := s.levels.ResolveLevelRewards(p)
	if err != nil {
		return nil, err
	}
	for _, g := range grants {
		entries = append(entries, economy.Entries(p.ID, economy.SourceLevel, g.Description, g.Reward)...)
	}
	return entries, nil
}
