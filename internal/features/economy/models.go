// Package economy — типы наград и их применение к балансам игрока.
// models.go описывает закрытый набор типов наград и записи журнала начислений.
package economy

import (
	"fmt"
	"strings"
	"time"

	"serotonyl.ru/sharkspin/internal/common"
)

// RewardType — тип награды. Набор закрыт: новые типы добавляются
// только вместе с веткой в Engine.Apply.
type RewardType string

const (
	RewardCoins       RewardType = "coins"
	RewardEnergy      RewardType = "energy"
	RewardSpins       RewardType = "spins"        // Конвертируется в энергию
	RewardWheelTokens RewardType = "wheel_tokens" // Жетоны колеса
	RewardStickerPack RewardType = "sticker_pack" // Бесплатные паки стикеров
)

// RewardTypes — все типы в порядке отображения.
var RewardTypes = []RewardType{
	RewardCoins, RewardEnergy, RewardSpins, RewardWheelTokens, RewardStickerPack,
}

// MaxRewardAmount — предел суммы одной награды, заданной вручную
// (ссылки, награды лидерам, каталоги).
const MaxRewardAmount int64 = 1_000_000_000

// CheckAmount проверяет сумму награды, заданную вручную.
func CheckAmount(amount int64) error {
	switch {
	case amount < 1:
		return common.ErrInvalidAmount
	case amount > MaxRewardAmount:
		return common.Rejectf(common.ErrAmountTooLarge, "max %s", common.FormatNumber(MaxRewardAmount))
	}
	return nil
}

// ParseRewardType разбирает строку из каталога или запроса.
// Неизвестный тип — отказ.
func ParseRewardType(s string) (RewardType, error) {
	t := RewardType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range RewardTypes {
		if t == known {
			return t, nil
		}
	}
	return "", common.Rejectf(common.ErrUnknownRewardType, "%q", s)
}

// RewardTypeOrCoins разбирает тип награды колеса или события.
// Неизвестный тип явно превращается в монеты.
func RewardTypeOrCoins(s string) RewardType {
	t, err := ParseRewardType(s)
	if err != nil {
		return RewardCoins
	}
	return t
}

// Reward — одна награда: тип и количество.
type Reward struct {
	Type   RewardType `json:"type"`
	Amount int64      `json:"amount"`
}

// String возвращает текст для игрока: "400 SharkCoins", "3 Spins".
func (r Reward) String() string {
	return fmt.Sprintf("%s %s", common.FormatNumber(r.Amount), r.Type.Label(r.Amount))
}

// Label — название ресурса с учётом числа.
func (t RewardType) Label(n int64) string {
	switch t {
	case RewardCoins:
		return "SharkCoins"
	case RewardEnergy:
		return "Energy"
	case RewardSpins:
		return common.Pluralize(n, "Spin", "Spins")
	case RewardWheelTokens:
		return common.Pluralize(n, "Wheel Token", "Wheel Tokens")
	case RewardStickerPack:
		return common.Pluralize(n, "Sticker Pack", "Sticker Packs")
	}
	return string(t)
}

// Balances — изменение балансов по ресурсам (результат барабанов, ежедневки).
type Balances struct {
	Coins       int64 `json:"coins"`
	Energy      int64 `json:"energy"`
	WheelTokens int64 `json:"wheelTokens"`
}

// IsZero — ничего не начислено.
func (b Balances) IsZero() bool {
	return b.Coins == 0 && b.Energy == 0 && b.WheelTokens == 0
}

// Scale умножает каждый ресурс на stake*factor с отбрасыванием дробной части.
func (b Balances) Scale(stake int64, factor float64) Balances {
	mul := func(v int64) int64 { return int64(float64(v*stake) * factor) }
	return Balances{
		Coins:       mul(b.Coins),
		Energy:      mul(b.Energy),
		WheelTokens: mul(b.WheelTokens),
	}
}

// Rewards раскладывает ненулевые ресурсы в список наград.
func (b Balances) Rewards() []Reward {
	var out []Reward
	if b.Coins > 0 {
		out = append(out, Reward{Type: RewardCoins, Amount: b.Coins})
	}
	if b.Energy > 0 {
		out = append(out, Reward{Type: RewardEnergy, Amount: b.Energy})
	}
	if b.WheelTokens > 0 {
		out = append(out, Reward{Type: RewardWheelTokens, Amount: b.WheelTokens})
	}
	return out
}

// Источники начислений для журнала
const (
	SourceSlot        = "slot"
	SourceWheel       = "wheel"
	SourceDaily       = "daily"
	SourceLevel       = "level"
	SourceAlbum       = "album"
	SourceTrade       = "sticker_trade"
	SourceEvent       = "event"
	SourceLink        = "reward_link"
	SourceShop        = "shop"
	SourceLeaderboard = "leaderboard"
)

// LedgerEntry — одна запись журнала начислений.
type LedgerEntry struct {
	ID          int64      `db:"id" json:"id"`
	PlayerID    int64      `db:"player_id" json:"-"`
	RewardType  RewardType `db:"reward_type" json:"type"`
	Amount      int64      `db:"amount" json:"amount"`
	Source      string     `db:"source" json:"source"`
	Description string     `db:"description" json:"description"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

// Entries превращает награды в записи журнала одного источника.
func Entries(playerID int64, source, description string, rewards ...Reward) []LedgerEntry {
	out := make([]LedgerEntry, 0, len(rewards))
	for _, r := range rewards {
		if r.Amount == 0 {
			continue
		}
		out = append(out, LedgerEntry{
			PlayerID:    playerID,
			RewardType:  r.Type,
			Amount:      r.Amount,
			Source:      source,
			Description: description,
		})
	}
	return out
}
