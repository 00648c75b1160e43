// Package shop — магазин пакетов энергии за Telegram Stars.
package shop

import (
	"fmt"
	"strings"
	"time"

	"serotonyl.ru/sharkspin/internal/config"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

// Источник платежа
const (
	SourceWebApp   = "webapp"
	SourceTelegram = "telegram"
)

// payloadPrefix — префикс payload инвойса.
const payloadPrefix = "pack:"

// Payment — строка таблицы payments. ChargeID уникален: повтор платежа не начисляется.
type Payment struct {
	ID        int64     `db:"id" json:"id"`
	PlayerID  int64     `db:"player_id" json:"playerId"`
	ChargeID  string    `db:"charge_id" json:"chargeId"`
	Payload   string    `db:"payload" json:"payload"`
	Stars     int64     `db:"stars" json:"stars"`
	Source    string    `db:"source" json:"source"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Purchase — итог покупки.
type Purchase struct {
	Item      catalog.ShopItem `json:"item"`
	Rewards   []economy.Reward `json:"rewards"`
	Reference string           `json:"reference"`
	Duplicate bool             `json:"duplicate"` // Платёж уже был начислен

	LevelGrants []progression.Grant `json:"levelGrants,omitempty"`
}

// Message — текст подтверждения для игрока.
func (p *Purchase) Message() string {
	parts := make([]string, 0, len(p.Rewards))
	for _, r := range p.Rewards {
		parts = append(parts, "+"+r.String())
	}
	msg := fmt.Sprintf("✅ Payment received: %d ⭐️\n%s. Enjoy spinning!", p.Item.Stars, strings.Join(parts, " & "))
	for _, g := range p.LevelGrants {
		msg += "\n🎉 " + g.Description
	}
	return msg
}

// Invoice — данные для инвойса Telegram Stars.
type Invoice struct {
	Title       string
	Description string
	Payload     string
	Currency    string
	Label       string
	Stars       int
}

// NewInvoice собирает инвойс для пакета.
func NewInvoice(item *catalog.ShopItem) Invoice {
	desc := item.Description
	if desc == "" {
		desc = fmt.Sprintf("Buy %d energy and %d wheel tokens.", item.Energy, item.BonusWheelTokens)
	}
	return Invoice{
		Title:       item.Name,
		Description: desc,
		Payload:     payloadPrefix + item.Slug,
		Currency:    config.StarsCurrency,
		Label:       item.Name,
		Stars:       int(item.Stars),
	}
}

// ParsePayload достаёт slug пакета из payload инвойса.
// Payload без префикса считается slug как есть.
func ParsePayload(payload string) string {
	return strings.TrimSpace(strings.TrimPrefix(payload, payloadPrefix))
}

// Stats — сводка платежей для админки.
type Stats struct {
	Payments int64 `json:"payments"`
	Stars    int64 `json:"stars"`
}
