package daily

import (
	"serotonyl.ru/sharkspin/internal/config"
)

// Schedule — таблица наград по дням серии.
//
//	монеты(N) = BaseCoins + (N-1)*CoinsPerDay
//	каждый MilestoneEvery-й день: + энергия, жетоны, паки
type Schedule struct {
	BaseCoins       int64
	CoinsPerDay     int64
	BaseEnergy      int64
	MilestoneEvery  int
	MilestoneEnergy int64
	MilestoneTokens int64
	MilestonePacks  int64
	ShowcaseDays    []int
}

// NewSchedule собирает таблицу из конфигурации.
func NewSchedule(cfg *config.Config) Schedule {
	return Schedule{
		BaseCoins:       cfg.DailyBaseCoins,
		CoinsPerDay:     cfg.DailyCoinsPerDay,
		BaseEnergy:      cfg.DailyBaseEnergy,
		MilestoneEvery:  cfg.DailyMilestoneEvery,
		MilestoneEnergy: cfg.DailyMilestoneEnergy,
		MilestoneTokens: cfg.DailyMilestoneTokens,
		MilestonePacks:  cfg.DailyMilestonePacks,
		ShowcaseDays:    cfg.DailyShowcaseDays,
	}
}

// RewardFor — награда за день day (с 1).
func (s Schedule) RewardFor(day int) DayReward {
	day = max(day, 1)
	r := DayReward{
		Day:    day,
		Coins:  s.BaseCoins + int64(day-1)*s.CoinsPerDay,
		Energy: s.BaseEnergy,
	}
	if s.MilestoneEvery > 0 && day%s.MilestoneEvery == 0 {
		r.BonusEnergy = s.MilestoneEnergy
		r.WheelTokens = s.MilestoneTokens
		r.StickerPacks = s.MilestonePacks
	}
	return r
}
