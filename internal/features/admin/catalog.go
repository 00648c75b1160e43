// Package admin — catalog.go: правка каталогов. Каждое изменение сбрасывает
// отметку засева соответствующего каталога.
package admin

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/db/postgres"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
)

// SaveSymbol создаёт или обновляет символ слота.
func (s *Service) SaveSymbol(ctx context.Context, sym *catalog.SlotSymbol) error {
	if err := validateSymbol(sym); err != nil {
		return err
	}
	if err := s.provisioner.Repository().UpsertSymbol(ctx, sym); err != nil {
		return err
	}
	s.changed(catalog.KindSymbols, "symbol", sym.ID)
	return nil
}

// SetSymbolEnabled включает или выключает символ.
func (s *Service) SetSymbolEnabled(ctx context.Context, id int64, enabled bool) error {
	ok, err := s.provisioner.Repository().SetSymbolEnabled(ctx, id, enabled)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrCatalogItemNotFound
	}
	s.changed(catalog.KindSymbols, "symbol", id)
	return nil
}

// SaveWheelReward создаёт (ID == 0) или обновляет сектор колеса.
func (s *Service) SaveWheelReward(ctx context.Context, w *catalog.WheelReward) error {
	if err := validateWheelReward(w); err != nil {
		return err
	}
	if err := s.provisioner.Repository().UpsertWheelReward(ctx, w); err != nil {
		if postgres.IsNoRows(err) {
			return common.ErrCatalogItemNotFound
		}
		return err
	}
	s.changed(catalog.KindWheel, "wheel_reward", w.ID)
	return nil
}

// DeleteWheelReward удаляет сектор колеса.
func (s *Service) DeleteWheelReward(ctx context.Context, id int64) error {
	ok, err := s.provisioner.Repository().DeleteWheelReward(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrCatalogItemNotFound
	}
	s.changed(catalog.KindWheel, "wheel_reward", id)
	return nil
}

// SaveEvent создаёт или обновляет событие по slug.
func (s *Service) SaveEvent(ctx context.Context, e *catalog.LiveEvent) error {
	if err := validateEvent(e); err != nil {
		return err
	}
	if err := s.provisioner.Repository().UpsertEvent(ctx, e); err != nil {
		return err
	}
	s.changed(catalog.KindEvents, "event", e.ID)
	return nil
}

// SaveShopItem создаёт или обновляет пакет магазина по slug.
func (s *Service) SaveShopItem(ctx context.Context, it *catalog.ShopItem) error {
	if err := validateShopItem(it); err != nil {
		return err
	}
	if err := s.provisioner.Repository().UpsertShopItem(ctx, it); err != nil {
		return err
	}
	s.changed(catalog.KindShop, "shop_item", it.ID)
	return nil
}

// SetShopItemActive включает или снимает пакет с продажи.
func (s *Service) SetShopItemActive(ctx context.Context, slug string, active bool) error {
	ok, err := s.provisioner.Repository().SetShopItemActive(ctx, slug, active)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrCatalogItemNotFound
	}
	s.changed(catalog.KindShop, "shop_item", slug)
	return nil
}

func (s *Service) changed(kind catalog.Kind, entity string, id any) {
	s.provisioner.Invalidate(kind)
	log.WithFields(log.Fields{
		"kind":   kind,
		"entity": entity,
		"id":     id,
	}).Info("Каталог изменён из админки")
}

// ============================================================================
// Валидация
// ============================================================================

func validateSymbol(sym *catalog.SlotSymbol) error {
	sym.Emoji = strings.TrimSpace(sym.Emoji)
	sym.Name = strings.TrimSpace(sym.Name)
	switch {
	case sym.Emoji == "", sym.Name == "":
		return common.Reject("Symbol needs an emoji and a name")
	case sym.Weight <= 0:
		return common.Reject("Symbol weight must be positive")
	case sym.Coins < 0, sym.Energy < 0, sym.WheelTokens < 0:
		return common.Reject("Symbol rewards cannot be negative")
	}
	return nil
}

func validateWheelReward(w *catalog.WheelReward) error {
	t, err := economy.ParseRewardType(w.RewardType)
	if err != nil {
		return err
	}
	w.RewardType = string(t)
	w.Label = strings.TrimSpace(w.Label)
	switch {
	case w.Label == "":
		return common.Reject("Wheel reward needs a label")
	case w.Weight <= 0:
		return common.Reject("Wheel reward weight must be positive")
	}
	return economy.CheckAmount(w.Amount)
}

func validateEvent(e *catalog.LiveEvent) error {
	t, err := economy.ParseRewardType(e.RewardType)
	if err != nil {
		return err
	}
	e.RewardType = string(t)
	e.Slug = strings.TrimSpace(strings.ToLower(e.Slug))
	e.Name = strings.TrimSpace(e.Name)
	if e.EventType == "" {
		e.EventType = "live"
	}
	switch {
	case e.Slug == "", e.Name == "":
		return common.Reject("Event needs a slug and a name")
	case !e.EndAt.After(e.StartAt):
		return common.Reject("Event must end after it starts")
	case e.TargetSpins < 1:
		return common.Reject("Event target must be at least 1 spin")
	}
	return economy.CheckAmount(e.RewardAmount)
}

func validateShopItem(it *catalog.ShopItem) error {
	it.Slug = strings.TrimSpace(strings.ToLower(it.Slug))
	it.Name = strings.TrimSpace(it.Name)
	switch {
	case it.Slug == "", it.Name == "":
		return common.Reject("Pack needs a slug and a name")
	case it.Stars < 1:
		return common.Reject("Pack price must be at least 1 star")
	case it.Energy < 1:
		return common.Reject("Pack must contain energy")
	case it.BonusWheelTokens < 0:
		return common.Reject("Bonus wheel tokens cannot be negative")
	}
	return nil
}
