// Package links — service.go: создание, список и активация ссылок.
package links

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/db/postgres"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	// Повторы генерации кода при коллизии уникального индекса
	codeAttempts = 3
)

type Service struct {
	pool    *pgxpool.Pool
	repo    *Repository
	players *players.Repository
	signer  *Signer
	engine  *Engine
	urls    URLs
}

func NewService(pool *pgxpool.Pool, playersRepo *players.Repository, signer *Signer, engine *Engine, urls URLs) *Service {
	return &Service{
		pool:    pool,
		repo:    NewRepository(pool),
		players: playersRepo,
		signer:  signer,
		engine:  engine,
		urls:    urls,
	}
}

// SetBotUsername задаёт имя бота для deep-link, если его не было в конфигурации.
func (s *Service) SetBotUsername(username string) {
	if s.urls.BotUsername == "" {
		s.urls.BotUsername = username
	}
}

// Create создаёт ссылку и возвращает адреса для раздачи.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Created, error) {
	if err := Validate(&in); err != nil {
		return nil, err
	}

	l := &Link{
		RewardType: in.RewardType,
		Amount:     in.Amount,
		UsesLeft:   in.Uses,
		CreatedBy:  in.CreatedBy,
		Title:      in.Title,
		Note:       in.Note,
	}
	var err error
	for attempt := 0; attempt < codeAttempts; attempt++ {
		if l.Code, err = NewCode(); err != nil {
			return nil, fmt.Errorf("ошибка генерации кода: %w", err)
		}
		if l.Token, err = s.signer.Sign(l); err != nil {
			return nil, err
		}
		err = s.repo.Insert(ctx, l)
		if err == nil || !postgres.IsUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"code":       l.Code,
		"type":       l.RewardType,
		"amount":     l.Amount,
		"uses":       l.UsesLeft,
		"created_by": l.CreatedBy,
	}).Info("Reward-ссылка создана")

	return s.describe(l), nil
}

func (s *Service) describe(l *Link) *Created {
	return &Created{
		Link:     l,
		WebURL:   s.urls.Web(l.Token),
		DeepLink: s.urls.DeepLink(l.Code),
		Summary:  Summary(l),
	}
}

// List — последние ссылки с адресами.
func (s *Service) List(ctx context.Context, limit int) ([]*Created, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	list, err := s.repo.List(ctx, min(limit, maxListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]*Created, 0, len(list))
	for _, l := range list {
		out = append(out, s.describe(l))
	}
	return out, nil
}

// DeepLinkFor проверяет подпись веб-ссылки и возвращает deep-link мини-приложения.
func (s *Service) DeepLinkFor(token string) (string, error) {
	code, err := s.signer.Code(token)
	if err != nil {
		log.WithError(err).Debug("Неверный токен ссылки")
		return "", common.ErrLinkInvalid
	}
	return s.urls.DeepLink(code), nil
}

// Deactivate выключает ссылку по коду.
func (s *Service) Deactivate(ctx context.Context, code string) error {
	ok, err := s.repo.Deactivate(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrLinkInvalid
	}
	return nil
}

// Redeem активирует ссылку. ref — подписанный токен, код или "redeem_<код>".
// Строки ссылки и игрока заблокированы до конца транзакции.
func (s *Service) Redeem(ctx context.Context, playerID int64, ref string) (*RedeemResult, *players.Player, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil, common.ErrLinkInvalid
	}

	var (
		result *RedeemResult
		player *players.Player
	)
	err := postgres.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		repo := s.repo.WithTx(tx)
		l, err := s.lockLink(ctx, repo, ref)
		if err != nil {
			return err
		}

		playersRepo := s.players.WithTx(tx)
		p, err := players.Lock(ctx, playersRepo, playerID)
		if err != nil {
			return err
		}

		res, err := s.engine.Redeem(p, l)
		if err != nil {
			return err
		}
		if err := repo.SaveUsage(ctx, l); err != nil {
			return err
		}
		if err := playersRepo.Save(ctx, p); err != nil {
			return err
		}

		entries := economy.Entries(p.ID, economy.SourceLink, "Reward link "+l.Code, res.Reward)
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
		"reward":    result.Reward.String(),
		"uses_left": result.UsesLeft,
	}).Info("Reward-ссылка активирована")
	return result, player, nil
}

// lockLink находит ссылку по токену или коду.
// Неверная подпись и неизвестный код — одна и та же ошибка для игрока.
func (s *Service) lockLink(ctx context.Context, repo *Repository, ref string) (*Link, error) {
	var (
		l   *Link
		err error
	)
	if strings.Count(ref, ".") == 2 {
		if _, verr := s.signer.Code(ref); verr != nil {
			log.WithError(verr).Debug("Неверный токен ссылки")
			return nil, common.ErrLinkInvalid
		}
		l, err = repo.LockByToken(ctx, ref)
	} else {
		code := strings.ToUpper(strings.TrimPrefix(ref, DeepLinkPrefix))
		l, err = repo.LockByCode(ctx, code)
	}
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, common.ErrLinkInvalid
		}
		return nil, err
	}
	return l, nil
}
