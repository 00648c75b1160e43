// Package daily управляет ежедневной наградой и серией заходов (стриком).
// models.go описывает состояние серии и награды по дням.
package daily

import (
	"time"

	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

// State — строка daily_states. Одна на игрока.
type State struct {
	PlayerID      int64      `db:"player_id"`
	Streak        int        `db:"streak"`         // Текущая серия (дней подряд)
	LongestStreak int        `db:"longest_streak"` // Личный рекорд
	TotalClaims   int        `db:"total_claims"`
	LastClaimAt   *time.Time `db:"last_claim_at"`
	RemindedAt    *time.Time `db:"reminded_at"` // Последнее напоминание
}

// DayReward — награда за день серии.
type DayReward struct {
	Day          int   `json:"day"`
	Coins        int64 `json:"coins"`
	Energy       int64 `json:"energy"`
	BonusEnergy  int64 `json:"bonusEnergy"` // Только в дни-вехи
	WheelTokens  int64 `json:"wheelTokens"`
	StickerPacks int64 `json:"stickerPacks"`
}

// IsMilestone — день с бонусом серии.
func (r DayReward) IsMilestone() bool {
	return r.BonusEnergy > 0 || r.WheelTokens > 0 || r.StickerPacks > 0
}

// Rewards раскладывает награду дня в список наград.
func (r DayReward) Rewards() []economy.Reward {
	out := []economy.Reward{
		{Type: economy.RewardCoins, Amount: r.Coins},
		{Type: economy.RewardEnergy, Amount: r.Energy + r.BonusEnergy},
	}
	if r.WheelTokens > 0 {
		out = append(out, economy.Reward{Type: economy.RewardWheelTokens, Amount: r.WheelTokens})
	}
	if r.StickerPacks > 0 {
		out = append(out, economy.Reward{Type: economy.RewardStickerPack, Amount: r.StickerPacks})
	}
	return out
}

// ClaimResult — итог получения ежедневной награды.
type ClaimResult struct {
	Reward      DayReward           `json:"reward"`
	Streak      int                 `json:"streak"`
	StreakReset bool                `json:"streakReset"` // Серия прервалась, отсчёт начат заново
	LevelGrants []progression.Grant `json:"levelGrants"`
}

// Milestone — веха серии для витрины.
type Milestone struct {
	Day      int       `json:"day"`
	Reward   DayReward `json:"reward"`
	Achieved bool      `json:"achieved"`
	Next     bool      `json:"next"` // Ближайшая недостигнутая веха
}

// Summary — состояние ежедневной награды для интерфейса.
type Summary struct {
	CanClaim        bool        `json:"canClaim"`
	NextAvailableAt *time.Time  `json:"nextAvailableAt"`
	Streak          int         `json:"streak"`
	LongestStreak   int         `json:"longestStreak"`
	TotalClaims     int         `json:"totalClaims"`
	Reward          DayReward   `json:"reward"`     // Следующая награда
	NextReward      DayReward   `json:"nextReward"` // Награда через день
	Milestones      []Milestone `json:"milestones"`
}

// Reminder — игрок, которому пора напомнить о награде.
type Reminder struct {
	PlayerID   int64
	TelegramID string
	Streak     int
}
