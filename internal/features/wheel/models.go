// Package wheel — колесо призов: бесплатный спин раз в период или за жетоны.
package wheel

import (
	"time"

	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

// Result — итог спина колеса.
type Result struct {
	Prize       catalog.WheelReward `json:"prize"`
	Reward      economy.Reward      `json:"reward"`
	Free        bool                `json:"free"` // Спин по таймеру, без жетонов
	TokensSpent int64               `json:"tokensSpent"`
	NextFreeAt  time.Time           `json:"nextFreeAt"`
	LevelGrants []progression.Grant `json:"levelGrants"`
}

// Status — доступность колеса для интерфейса.
type Status struct {
	FreeAvailable bool       `json:"freeAvailable"`
	NextFreeAt    *time.Time `json:"nextFreeAt"`
	WheelTokens   int64      `json:"wheelTokens"`
	TokenCost     int64      `json:"tokenCost"`
	CanSpin       bool       `json:"canSpin"`
}

// Spin — строка таблицы wheel_spins.
type Spin struct {
	ID          int64     `db:"id"`
	PlayerID    int64     `db:"player_id"`
	RewardID    int64     `db:"reward_id"`
	Label       string    `db:"label"`
	RewardType  string    `db:"reward_type"`
	Amount      int64     `db:"amount"`
	Free        bool      `db:"free"`
	TokensSpent int64     `db:"tokens_spent"`
	CreatedAt   time.Time `db:"created_at"`
}
