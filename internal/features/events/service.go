// Package events — service.go связывает прогресс событий с каталогом и БД.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
)

type Service struct {
	repo    *Repository
	catalog *catalog.Provisioner
	engine  *Engine
	now     func() time.Time
}

func NewService(repo *Repository, provisioner *catalog.Provisioner, engine *Engine) *Service {
	return &Service{repo: repo, catalog: provisioner, engine: engine, now: time.Now}
}

// LiveEvents — события, идущие сейчас.
func (s *Service) LiveEvents(ctx context.Context, now time.Time) ([]catalog.LiveEvent, error) {
	all, err := s.catalog.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки событий: %w", err)
	}
	return Live(all, now), nil
}

// RecordSpin засчитывает спин в транзакции tx. Игрок уже заблокирован вызывающим.
// Начисления событий сразу пишутся в журнал.
func (s *Service) RecordSpin(ctx context.Context, tx pgx.Tx, p *players.Player, multiplier int, live []catalog.LiveEvent) ([]Claim, error) {
	if len(live) == 0 {
		return nil, nil
	}
	repo := s.repo.WithTx(tx)

	progress, err := repo.ListForPlayer(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	claims, err := s.engine.RecordSpin(p, multiplier, live, progress)
	if err != nil {
		return nil, err
	}

	touched := make([]*Progress, 0, len(live))
	for _, ev := range live {
		touched = append(touched, progress[ev.ID])
	}
	if err := repo.Save(ctx, touched...); err != nil {
		return nil, err
	}

	ledger := economy.NewRepository(tx)
	for _, c := range claims {
		entries := economy.Entries(p.ID, economy.SourceEvent, "Event completed: "+c.Name, c.Reward)
		if err := ledger.Record(ctx, entries...); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"player_id": p.ID,
			"event":     c.Slug,
			"reward":    c.Reward.String(),
		}).Info("Награда события выдана")
	}
	return claims, nil
}

// Overview — все события каталога с прогрессом игрока.
func (s *Service) Overview(ctx context.Context, playerID int64) ([]View, error) {
	all, err := s.catalog.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки событий: %w", err)
	}
	progress, err := s.repo.ListForPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]View, 0, len(all))
	for _, ev := range all {
		views = append(views, Serialize(ev, progress[ev.ID], now))
	}
	return views, nil
}
