// Package players — service.go: регистрация и поиск игроков.
package players

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/db/postgres"
)

// Service управляет аккаунтами игроков.
type Service struct {
	pool  *pgxpool.Pool
	repo  *Repository
	start StartingBalance
}

// NewService создаёт сервис игроков. start — балансы для новых аккаунтов.
func NewService(pool *pgxpool.Pool, start StartingBalance) *Service {
	return &Service{pool: pool, repo: NewRepository(pool), start: start}
}

// Repository отдаёт репозиторий для сервисов, которым нужна блокировка игрока.
func (s *Service) Repository() *Repository {
	return s.repo
}

// Ensure возвращает игрока по Telegram ID, при необходимости создавая его.
func (s *Service) Ensure(ctx context.Context, telegramID, username string) (*Player, error) {
	telegramID = strings.TrimSpace(telegramID)
	if telegramID == "" {
		return nil, common.ErrInvalidInput
	}

	p, created, err := s.repo.Upsert(ctx, telegramID, strings.TrimPrefix(username, "@"), s.start)
	if err != nil {
		return nil, err
	}
	if created {
		log.WithFields(log.Fields{
			"player_id":   p.ID,
			"telegram_id": telegramID,
			"username":    p.Username,
		}).Info("Новый игрок зарегистрирован")
	}
	return p, nil
}

// Get возвращает игрока по внутреннему ID.
func (s *Service) Get(ctx context.Context, id int64) (*Player, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, common.ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByTelegramID возвращает игрока по Telegram ID.
func (s *Service) GetByTelegramID(ctx context.Context, telegramID string) (*Player, error) {
	p, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, common.ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

// Lock читает игрока в транзакции tx с блокировкой строки.
func Lock(ctx context.Context, repo *Repository, id int64) (*Player, error) {
	p, err := repo.LockByID(ctx, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, common.ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) ListAll(ctx context.Context) ([]*Player, error) {
	return s.repo.ListAll(ctx)
}
