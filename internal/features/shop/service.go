// Package shop — service.go: покупки из мини-приложения и через Telegram Stars.
package shop

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	gonanoid "github.com/matoous/go-nanoid/v2"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/config"
	"serotonyl.ru/sharkspin/internal/db/postgres"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

const recentPaymentsLimit = 20

// TelegramPayment — данные successful_payment из Telegram.
type TelegramPayment struct {
	TelegramID string
	ChargeID   string
	Payload    string
	Currency   string
	Stars      int64
}

type Service struct {
	pool    *pgxpool.Pool
	repo    *Repository
	players *players.Repository
	catalog *catalog.Provisioner
	rewards *economy.Engine
	levels  *progression.Tracker
}

func NewService(pool *pgxpool.Pool, playersRepo *players.Repository, provisioner *catalog.Provisioner, rewards *economy.Engine, levels *progression.Tracker) *Service {
	return &Service{
		pool:    pool,
		repo:    NewRepository(pool),
		players: playersRepo,
		catalog: provisioner,
		rewards: rewards,
		levels:  levels,
	}
}

// Items — активные пакеты магазина.
func (s *Service) Items(ctx context.Context) ([]catalog.ShopItem, error) {
	return s.catalog.ShopItems(ctx)
}

// Item — активный пакет по slug.
func (s *Service) Item(ctx context.Context, slug string) (*catalog.ShopItem, error) {
	item, err := s.catalog.ShopItem(ctx, slug)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, common.ErrPackUnavailable
		}
		return nil, err
	}
	return item, nil
}

// Invoice — инвойс Telegram Stars для пакета.
func (s *Service) Invoice(ctx context.Context, slug string) (*Invoice, error) {
	item, err := s.Item(ctx, slug)
	if err != nil {
		return nil, err
	}
	inv := NewInvoice(item)
	return &inv, nil
}

// CheckPreCheckout подтверждает, что пакет из payload ещё продаётся.
func (s *Service) CheckPreCheckout(ctx context.Context, payload string) error {
	_, err := s.Item(ctx, ParsePayload(payload))
	return err
}

// PurchaseWeb — покупка из мини-приложения.
func (s *Service) PurchaseWeb(ctx context.Context, playerID int64, slug string) (*Purchase, *players.Player, error) {
	item, err := s.Item(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	id, err := gonanoid.New()
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка генерации номера платежа: %w", err)
	}

	return s.credit(ctx, item, &Payment{
		PlayerID: playerID,
		ChargeID: fmt.Sprintf("WEBAPP-%s-%s", id, item.Slug),
		Payload:  item.Slug,
		Stars:    item.Stars,
		Source:   SourceWebApp,
	})
}

// CompleteTelegramPayment начисляет оплаченный пакет.
// Повтор того же charge_id ничего не начисляет (Duplicate = true).
func (s *Service) CompleteTelegramPayment(ctx context.Context, tp TelegramPayment) (*Purchase, *players.Player, error) {
	if tp.Currency != config.StarsCurrency {
		return nil, nil, fmt.Errorf("неожиданная валюта платежа: %s", tp.Currency)
	}
	p, err := s.players.GetByTelegramID(ctx, tp.TelegramID)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil, common.ErrPlayerNotFound
		}
		return nil, nil, err
	}

	// Пакет могли выключить между инвойсом и оплатой: оплаченное всё равно выдаём
	slug := ParsePayload(tp.Payload)
	all, err := s.catalog.Repository().ListShopItems(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	var item *catalog.ShopItem
	for i := range all {
		if all[i].Slug == slug {
			item = &all[i]
			break
		}
	}
	if item == nil {
		log.WithFields(log.Fields{
			"charge_id": tp.ChargeID,
			"payload":   tp.Payload,
		}).Error("Оплачен неизвестный пакет")
		return nil, nil, common.ErrPackUnavailable
	}

	return s.credit(ctx, item, &Payment{
		PlayerID: p.ID,
		ChargeID: tp.ChargeID,
		Payload:  tp.Payload,
		Stars:    tp.Stars,
		Source:   SourceTelegram,
	})
}

func (s *Service) credit(ctx context.Context, item *catalog.ShopItem, payment *Payment) (*Purchase, *players.Player, error) {
	purchase := &Purchase{Item: *item, Rewards: item.Rewards(), Reference: payment.ChargeID}
	var player *players.Player

	err := postgres.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		playersRepo := s.players.WithTx(tx)
		p, err := players.Lock(ctx, playersRepo, payment.PlayerID)
		if err != nil {
			return err
		}
		player = p

		inserted, err := s.repo.WithTx(tx).Insert(ctx, payment)
		if err != nil {
			return err
		}
		if !inserted {
			purchase.Duplicate = true
			return nil
		}

		if err := s.rewards.ApplyAll(p, purchase.Rewards...); err != nil {
			return err
		}
		grants, err := s.levels.ResolveLevelRewards(p)
		if err != nil {
			return err
		}
		purchase.LevelGrants = grants
		if err := playersRepo.Save(ctx, p); err != nil {
			return err
		}
		entries := economy.Entries(p.ID, economy.SourceShop, "Star shop: "+item.Name, purchase.Rewards...)
		for _, g := range grants {
			entries = append(entries, economy.Entries(p.ID, economy.SourceLevel, g.Description, g.Reward)...)
		}
		return economy.NewRepository(tx).Record(ctx, entries...)
	})
	if err != nil {
		return nil, nil, err
	}

	fields := log.Fields{
		"player_id": payment.PlayerID,
		"pack":      item.Slug,
		"stars":     payment.Stars,
		"charge_id": payment.ChargeID,
		"source":    payment.Source,
	}
	if purchase.Duplicate {
		log.WithFields(fields).Warn("Повторный платёж проигнорирован")
	} else {
		log.WithFields(fields).Info("Покупка в магазине")
	}
	return purchase, player, nil
}

// Recent — последние платежи игрока.
func (s *Service) Recent(ctx context.Context, playerID int64) ([]*Payment, error) {
	return s.repo.Recent(ctx, playerID, recentPaymentsLimit)
}

// Stats — сводка платежей.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}
