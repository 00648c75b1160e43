// Package slots реализует слот-машину на три барабана.
// models.go описывает результат спина и запись журнала спинов.
package slots

import (
	"time"

	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/events"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

// Pattern — тип комбинации на барабанах.
type Pattern string

const (
	PatternTriple    Pattern = "triple"    // Три одинаковых: x3
	PatternTwin      Pattern = "twin"      // Ровно пара: x2
	PatternResonance Pattern = "resonance" // Все разные, есть вайлд: x1.5
	PatternCascade   Pattern = "cascade"   // Все разные: x1
)

// Множители комбинаций
const (
	TripleMultiplier    = 3.0
	TwinMultiplier      = 2.0
	ResonanceMultiplier = 1.5
	CascadeMultiplier   = 1.0
)

// Метки результата, которые не зависят от символов
const (
	LabelResonance = "Shark Resonance"
	LabelCascade   = "Cascade"
	LabelEmptyNet  = "Empty Net"  // Честный ноль
	LabelHouseEdge = "House Edge" // Ненулевой выигрыш обнулён проверкой казино
)

// HouseEdge — доля казино. Нули и единицы выключают её.
type HouseEdge struct {
	Coins       float64 // Множитель монет
	Energy      float64 // Множитель энергии
	WheelTokens float64 // Множитель жетонов
	BrickChance float64 // Вероятность обнулить ненулевой выигрыш
}

// SpinResult — итог одного спина.
type SpinResult struct {
	Symbols     []string            `json:"symbols"`
	Label       string              `json:"label"`
	Pattern     Pattern             `json:"pattern"`
	Rewards     economy.Balances    `json:"rewards"`
	WildBonus   economy.Balances    `json:"wildBonus"`
	CoinCost    int64               `json:"coinCost"`
	NetCoins    int64               `json:"netCoins"`
	EnergySpent int64               `json:"energySpent"`
	Multiplier  int                 `json:"multiplier"`
	LevelGrants []progression.Grant `json:"levelGrants"`
	EventClaims []events.Claim      `json:"eventClaims"`
}

// Spin — строка таблицы slot_spins.
type Spin struct {
	ID          int64     `db:"id"`
	PlayerID    int64     `db:"player_id"`
	Label       string    `db:"label"`
	Multiplier  int       `db:"multiplier"`
	Reels       []string  `db:"reels"`
	Coins       int64     `db:"coins"`
	Energy      int64     `db:"energy"`
	WheelTokens int64     `db:"wheel_tokens"`
	CoinCost    int64     `db:"coin_cost"`
	EnergySpent int64     `db:"energy_spent"`
	CreatedAt   time.Time `db:"created_at"`
}

// Stats — сводная статистика слота для админки.
type Stats struct {
	TotalSpins    int64 `json:"totalSpins"`
	EnergySpent   int64 `json:"energySpent"`
	CoinsPaid     int64 `json:"coinsPaid"`
	BiggestPayout int64 `json:"biggestPayout"`
	HouseEdgeHits int64 `json:"houseEdgeHits"`
}

// CoinsPerEnergy — сколько монет в среднем выплачено за единицу энергии.
// Без спинов — 0.
func (s Stats) CoinsPerEnergy() float64 {
	if s.EnergySpent == 0 {
		return 0
	}
	return float64(s.CoinsPaid) / float64(s.EnergySpent)
}
