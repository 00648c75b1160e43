// Package links — reward-ссылки: админ создаёт ссылку с наградой и числом
// использований, игроки активируют её по подписанному токену или коду.
package links

import (
	"time"

	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

// Link — строка таблицы reward_links.
type Link struct {
	ID         int64     `db:"id" json:"id"`
	Code       string    `db:"code" json:"code"`
	Token      string    `db:"token" json:"token"`
	RewardType string    `db:"reward_type" json:"rewardType"`
	Amount     int64     `db:"amount" json:"amount"`
	UsesLeft   int       `db:"uses_left" json:"usesLeft"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	CreatedBy  string    `db:"created_by" json:"createdBy"`
	Title      string    `db:"title" json:"title"`
	Note       string    `db:"note" json:"note"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Reward разбирает награду ссылки. Неизвестный тип — отказ.
func (l *Link) Reward() (economy.Reward, error) {
	t, err := economy.ParseRewardType(l.RewardType)
	if err != nil {
		return economy.Reward{}, err
	}
	return economy.Reward{Type: t, Amount: l.Amount}, nil
}

// CreateInput — параметры новой ссылки.
type CreateInput struct {
	RewardType string `json:"rewardType"`
	Amount     int64  `json:"amount"`
	Uses       int    `json:"uses"`
	CreatedBy  string `json:"createdBy"`
	Title      string `json:"title"`
	Note       string `json:"note"`
}

// Created — созданная ссылка и адреса для раздачи.
type Created struct {
	Link     *Link  `json:"link"`
	WebURL   string `json:"webUrl"`   // <WEBAPP_URL>/redeem/<token>
	DeepLink string `json:"deepLink"` // Открывает мини-приложение в Telegram
	Summary  string `json:"summary"`
}

// RedeemResult — итог активации.
type RedeemResult struct {
	Reward      economy.Reward      `json:"reward"`
	UsesLeft    int                 `json:"usesLeft"`
	Message     string              `json:"message"`
	LevelGrants []progression.Grant `json:"levelGrants"`
}
