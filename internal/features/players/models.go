// Package players управляет аккаунтами игроков SharkSpin.
// models.go описывает структуру строки таблицы players.
package players

import (
	"strconv"
	"time"
)

// Player — аккаунт игрока. Создаётся при первой авторизации
// (мини-приложение или /start в боте) и никогда не удаляется.
type Player struct {
	ID         int64  `db:"id"`
	TelegramID string `db:"telegram_id"` // Внешний ID пользователя Telegram (уникальный)
	Username   string `db:"username"`

	Coins            int64 `db:"coins"`
	Energy           int64 `db:"energy"`
	WheelTokens      int64 `db:"wheel_tokens"`
	FreeStickerPacks int64 `db:"free_sticker_packs"`

	XP          int64 `db:"xp"`           // Не убывает
	TotalEarned int64 `db:"total_earned"` // Сколько монет заработано за всё время
	Level       int   `db:"level"`        // Производное от XP
	WeeklyCoins int64 `db:"weekly_coins"` // Сбрасывается каждую неделю

	LifetimeSpins         int64 `db:"lifetime_spins"`
	LevelRewardCheckpoint int   `db:"level_reward_checkpoint"` // Последний уровень, награда за который выдана

	LastWheelSpinAt  *time.Time `db:"last_wheel_spin_at"`
	LastSpinAt       *time.Time `db:"last_spin_at"`
	LastDailyClaimAt *time.Time `db:"last_daily_claim_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// StartingBalance — балансы нового игрока.
type StartingBalance struct {
	Coins       int64
	Energy      int64
	WheelTokens int64
}

// ChatID возвращает ID личного чата с игроком.
// В Telegram он совпадает с ID пользователя.
func (p *Player) ChatID() (int64, bool) {
	id, err := strconv.ParseInt(p.TelegramID, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// DisplayName возвращает @username или «Shark #ID».
func (p *Player) DisplayName() string {
	if p.Username != "" {
		return "@" + p.Username
	}
	return "Shark #" + strconv.FormatInt(p.ID, 10)
}
