// Package catalog — каталоги игры: символы слота, призы колеса, альбомы
// стикеров, события и пакеты магазина.
// models.go описывает строки каталожных таблиц.
package catalog

import (
	"time"

	"serotonyl.ru/sharkspin/internal/features/economy"
)

// Kind — вид каталога.
type Kind string

const (
	KindSymbols Kind = "slot_symbols"
	KindWheel   Kind = "wheel_rewards"
	KindAlbums  Kind = "sticker_albums"
	KindEvents  Kind = "live_events"
	KindShop    Kind = "shop_items"
)

// Kinds — все каталоги в порядке прогрева.
var Kinds = []Kind{KindSymbols, KindWheel, KindAlbums, KindEvents, KindShop}

// SlotSymbol — символ барабана.
type SlotSymbol struct {
	ID          int64   `db:"id" json:"id"`
	Emoji       string  `db:"emoji" json:"emoji"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Weight      float64 `db:"weight" json:"weight"` // Относительный вес, не нормирован
	Coins       int64   `db:"coins" json:"coins"`
	Energy      int64   `db:"energy" json:"energy"`
	WheelTokens int64   `db:"wheel_tokens" json:"wheelTokens"`
	Color       string  `db:"color" json:"color"`
	ArtURL      string  `db:"art_url" json:"artUrl"`
	IsEnabled   bool    `db:"is_enabled" json:"isEnabled"`
	SortOrder   int     `db:"sort_order" json:"sortOrder"`
}

// Base — базовая награда символа. Отрицательные значения считаются нулём.
func (s SlotSymbol) Base() economy.Balances {
	return economy.Balances{
		Coins:       max(s.Coins, 0),
		Energy:      max(s.Energy, 0),
		WheelTokens: max(s.WheelTokens, 0),
	}
}

// WheelReward — сектор колеса призов.
type WheelReward struct {
	ID         int64   `db:"id" json:"id"`
	Label      string  `db:"label" json:"label"`
	RewardType string  `db:"reward_type" json:"rewardType"`
	Amount     int64   `db:"amount" json:"amount"`
	Weight     float64 `db:"weight" json:"weight"`
	Color      string  `db:"color" json:"color"`
}

// Reward — награда сектора. Неизвестный тип выдаётся монетами.
func (w WheelReward) Reward() economy.Reward {
	return economy.Reward{Type: economy.RewardTypeOrCoins(w.RewardType), Amount: w.Amount}
}

// StickerAlbum — альбом и его стикеры (в порядке ID).
type StickerAlbum struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description string    `db:"description" json:"description"`
	RewardSpins int64     `db:"reward_spins" json:"rewardSpins"` // Награда за сбор альбома
	StickerCost int64     `db:"sticker_cost" json:"stickerCost"` // Цена пака в монетах
	Stickers    []Sticker `db:"-" json:"stickers"`
}

// Sticker — стикер альбома.
type Sticker struct {
	ID       int64   `db:"id" json:"id"`
	AlbumID  int64   `db:"album_id" json:"albumId"`
	Name     string  `db:"name" json:"name"`
	Rarity   string  `db:"rarity" json:"rarity"`
	Weight   float64 `db:"weight" json:"weight"`
	ImageURL string  `db:"image_url" json:"imageUrl"`
}

// LiveEvent — событие с окном [StartAt, EndAt).
type LiveEvent struct {
	ID           int64     `db:"id" json:"id"`
	Slug         string    `db:"slug" json:"slug"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	StartAt      time.Time `db:"start_at" json:"startAt"`
	EndAt        time.Time `db:"end_at" json:"endAt"`
	TargetSpins  int64     `db:"target_spins" json:"targetSpins"`
	RewardType   string    `db:"reward_type" json:"rewardType"`
	RewardAmount int64     `db:"reward_amount" json:"rewardAmount"`
	EventType    string    `db:"event_type" json:"eventType"`
	BannerURL    string    `db:"banner_url" json:"bannerUrl"`
}

// Reward — награда события. Неизвестный тип выдаётся монетами.
func (e LiveEvent) Reward() economy.Reward {
	return economy.Reward{Type: economy.RewardTypeOrCoins(e.RewardType), Amount: e.RewardAmount}
}

// IsLive — now внутри окна события.
func (e LiveEvent) IsLive(now time.Time) bool {
	return !now.Before(e.StartAt) && now.Before(e.EndAt)
}

// ShopItem — пакет энергии за Telegram Stars.
type ShopItem struct {
	ID               int64  `db:"id" json:"id"`
	Name             string `db:"name" json:"name"`
	Slug             string `db:"slug" json:"slug"`
	Stars            int64  `db:"stars" json:"stars"`
	Energy           int64  `db:"energy" json:"energy"`
	BonusWheelTokens int64  `db:"bonus_wheel_tokens" json:"bonusWheelTokens"`
	Description      string `db:"description" json:"description"`
	ArtURL           string `db:"art_url" json:"artUrl"`
	IsActive         bool   `db:"is_active" json:"isActive"`
	SortOrder        int    `db:"sort_order" json:"sortOrder"`
}

// Rewards — что получает покупатель пакета.
func (s ShopItem) Rewards() []economy.Reward {
	out := []economy.Reward{{Type: economy.RewardEnergy, Amount: s.Energy}}
	if s.BonusWheelTokens > 0 {
		out = append(out, economy.Reward{Type: economy.RewardWheelTokens, Amount: s.BonusWheelTokens})
	}
	return out
}
