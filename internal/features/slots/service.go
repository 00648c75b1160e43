// Package slots — service.go проводит спин от блокировки игрока до записи в журнал.
package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/db/postgres"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/events"
	"serotonyl.ru/sharkspin/internal/features/players"
)

const recentSpinsLimit = 10

// SpinOutcome — ответ на спин: результат и балансы после него.
type SpinOutcome struct {
	*SpinResult
	Player *players.Player `json:"-"`
}

// Service управляет слот-машиной.
type Service struct {
	pool     *pgxpool.Pool
	repo     *Repository
	players  *players.Repository
	catalog  *catalog.Provisioner
	events   *events.Service
	engine   *Engine
	cooldown time.Duration
	now      func() time.Time
}

// NewService создаёт сервис слотов.
func NewService(
	pool *pgxpool.Pool,
	playersRepo *players.Repository,
	provisioner *catalog.Provisioner,
	eventsService *events.Service,
	engine *Engine,
	cooldown time.Duration,
) *Service {
	return &Service{
		pool:     pool,
		repo:     NewRepository(pool),
		players:  playersRepo,
		catalog:  provisioner,
		events:   eventsService,
		engine:   engine,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Spin выполняет спин игрока с множителем multiplier.
// Отказ (common.Rejection) возвращается до любых изменений в БД.
func (s *Service) Spin(ctx context.Context, playerID int64, multiplier int) (*SpinOutcome, error) {
	symbols, err := s.catalog.Symbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки символов: %w", err)
	}
	now := s.now()
	live, err := s.events.LiveEvents(ctx, now)
	if err != nil {
		return nil, err
	}

	var out *SpinOutcome
	err = postgres.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		playersRepo := s.players.WithTx(tx)
		p, err := players.Lock(ctx, playersRepo, playerID)
		if err != nil {
			return err
		}
		if s.cooldown > 0 && p.LastSpinAt != nil && now.Sub(*p.LastSpinAt) < s.cooldown {
			return common.ErrSpinTooFast
		}

		result, err := s.engine.Spin(p, multiplier, symbols)
		if err != nil {
			return err
		}
		p.LastSpinAt = common.TimePtr(now)

		claims, err := s.events.RecordSpin(ctx, tx, p, multiplier, live)
		if err != nil {
			return err
		}
		result.EventClaims = claims
		if len(claims) > 0 {
			// Награда события могла поднять уровень
			more, err := s.engine.Levels.ResolveLevelRewards(p)
			if err != nil {
				return err
			}
			result.LevelGrants = append(result.LevelGrants, more...)
		}

		if err := playersRepo.Save(ctx, p); err != nil {
			return err
		}

		if err := s.repo.WithTx(tx).SaveSpin(ctx, &Spin{
			PlayerID:    p.ID,
			Label:       result.Label,
			Multiplier:  multiplier,
			Reels:       result.Symbols,
			Coins:       result.Rewards.Coins,
			Energy:      result.Rewards.Energy,
			WheelTokens: result.Rewards.WheelTokens,
			CoinCost:    result.CoinCost,
			EnergySpent: result.EnergySpent,
		}); err != nil {
			return err
		}

		ledger := economy.NewRepository(tx)
		entries := economy.Entries(p.ID, economy.SourceSlot, result.Label, result.Rewards.Rewards()...)
		for _, g := range result.LevelGrants {
			entries = append(entries, economy.Entries(p.ID, economy.SourceLevel, g.Description, g.Reward)...)
		}
		if err := ledger.Record(ctx, entries...); err != nil {
			return err
		}

		out = &SpinOutcome{SpinResult: result, Player: p}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"player_id":  playerID,
		"multiplier": multiplier,
		"label":      out.Label,
		"coins":      out.Rewards.Coins,
		"energy":     out.Rewards.Energy,
	}).Debug("Спин слотов")
	return out, nil
}

// Recent — последние спины игрока.
func (s *Service) Recent(ctx context.Context, playerID int64) ([]*Spin, error) {
	return s.repo.Recent(ctx, playerID, recentSpinsLimit)
}

// Stats — статистика слотов для админки.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

// Symbols — символы барабанов для интерфейса (таблица выплат).
func (s *Service) Symbols(ctx context.Context) ([]catalog.SlotSymbol, error) {
	return s.catalog.Symbols(ctx)
}
