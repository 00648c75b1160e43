// Package wheel — service.go проводит спин колеса в транзакции.
package wheel

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/db/postgres"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
)

type Service struct {
	pool    *pgxpool.Pool
	repo    *Repository
	players *players.Repository
	catalog *catalog.Provisioner
	engine  *Engine
	now     func() time.Time
}

func NewService(pool *pgxpool.Pool, playersRepo *players.Repository, provisioner *catalog.Provisioner, engine *Engine) *Service {
	return &Service{
		pool:    pool,
		repo:    NewRepository(pool),
		players: playersRepo,
		catalog: provisioner,
		engine:  engine,
		now:     time.Now,
	}
}

// Prizes — сектора колеса.
func (s *Service) Prizes(ctx context.Context) ([]catalog.WheelReward, error) {
	return s.catalog.WheelRewards(ctx)
}

// Status — доступность колеса.
func (s *Service) Status(p *players.Player) Status {
	return s.engine.StatusAt(p, s.now())
}

// Spin крутит колесо за игрока.
func (s *Service) Spin(ctx context.Context, playerID int64) (*Result, *players.Player, error) {
	prizes, err := s.catalog.WheelRewards(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка загрузки колеса: %w", err)
	}

	var (
		result *Result
		player *players.Player
	)
	err = postgres.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		playersRepo := s.players.WithTx(tx)
		p, err := players.Lock(ctx, playersRepo, playerID)
		if err != nil {
			return err
		}

		res, err := s.engine.Spin(p, prizes, s.now())
		if err != nil {
			return err
		}
		if err := playersRepo.Save(ctx, p); err != nil {
			return err
		}

		if err := s.repo.WithTx(tx).SaveSpin(ctx, &Spin{
			PlayerID:    p.ID,
			RewardID:    res.Prize.ID,
			Label:       res.Prize.Label,
			RewardType:  string(res.Reward.Type),
			Amount:      res.Reward.Amount,
			Free:        res.Free,
			TokensSpent: res.TokensSpent,
		}); err != nil {
			return err
		}

		entries := economy.Entries(p.ID, economy.SourceWheel, "Prize wheel: "+res.Prize.Label, res.Reward)
		for _, g := range res.LevelGrants {
			entries = append(entries, economy.Entries(p.ID, economy.SourceLevel, g.Description, g.Reward)...)
		}
		if err := economy.NewRepository(tx).Record(ctx, entries...); err != nil {
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
		"prize":     result.Prize.Label,
		"free":      result.Free,
	}).Debug("Спин колеса")
	return result, player, nil
}

// Count — всего спинов колеса (для админки).
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
