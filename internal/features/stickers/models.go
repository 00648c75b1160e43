// Package stickers — альбомы стикеров: паки, коллекция, сбор альбома
// и обмен дубликатов на награды.
package stickers

import (
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

// Collection — количество стикеров игрока по ID стикера.
type Collection map[int64]int64

// Duplicates — сколько копий можно обменять. Последняя копия каждого стикера не обменивается.
func (c Collection) Duplicates() int64 {
	var total int64
	for _, q := range c {
		total += max(q-1, 0)
	}
	return total
}

// Completions — альбомы, за сбор которых награда уже выдана.
type Completions map[int64]bool

// Grant — результат выдачи стикера.
type Grant struct {
	Sticker        catalog.Sticker `json:"sticker"`
	Quantity       int64           `json:"quantity"`
	IsNew          bool            `json:"isNew"`
	AlbumCompleted bool            `json:"albumCompleted"`
}

// PackResult — результат открытия пака.
type PackResult struct {
	Grant
	UsedFreePack     bool             `json:"usedFreePack"`
	CoinsSpent       int64            `json:"coinsSpent"`
	CompletionReward []economy.Reward `json:"completionReward,omitempty"` // Только при первом сборе
}

// TradeResult — результат обмена дубликатов.
type TradeResult struct {
	Sets        int                 `json:"sets"`
	Reward      economy.Reward      `json:"reward"`
	Consumed    map[int64]int64     `json:"consumed"` // Сколько копий списано по ID стикера
	Remaining   int64               `json:"remaining"`
	LevelGrants []progression.Grant `json:"levelGrants"`
}

// TradeOffer — условия обмена для интерфейса.
type TradeOffer struct {
	SetSize       int   `json:"setSize"`
	CoinsPerSet   int64 `json:"coinsPerSet"`
	EnergyPerSet  int64 `json:"energyPerSet"`
	SetsAvailable int64 `json:"setsAvailable"`
}

// StickerView — стикер альбома с количеством у игрока.
type StickerView struct {
	catalog.Sticker
	Quantity   int64 `json:"quantity"`
	Duplicates int64 `json:"duplicates"`
}

// AlbumView — альбом глазами игрока.
type AlbumView struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	RewardSpins int64         `json:"rewardSpins"`
	StickerCost int64         `json:"stickerCost"`
	Stickers    []StickerView `json:"stickers"`
	Owned       int           `json:"owned"`
	Total       int           `json:"total"`
	Duplicates  int64         `json:"duplicates"`
	Completed   bool          `json:"completed"`
	Rewarded    bool          `json:"rewarded"`
	FreePacks   int64         `json:"freePacks"`
	Trade       TradeOffer    `json:"trade"`
}

// CollectionView — все альбомы игрока.
type CollectionView struct {
	Albums     []AlbumView `json:"albums"`
	Duplicates int64       `json:"duplicates"`
	FreePacks  int64       `json:"freePacks"`
	Trade      TradeOffer  `json:"trade"`
}
