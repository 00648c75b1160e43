// Package common — errors.go определяет ошибки, общие для всех модулей.
// Отказы (Rejection) несут текст, который можно показать игроку как есть:
// HTTP-слой и бот отдают их в ответе, остальные ошибки логируются.
package common

import (
	"errors"
	"fmt"
)

// Rejection — отказ в действии из-за состояния игрока или каталога.
// Отказ всегда возвращается до изменения состояния.
type Rejection struct {
	Reason string
	base   error
}

func (r *Rejection) Error() string { return r.Reason }

// Unwrap отдаёт исходный отказ уточнённого через Rejectf.
func (r *Rejection) Unwrap() error { return r.base }

// Reject создаёт новый отказ.
func Reject(reason string) error {
	return &Rejection{Reason: reason}
}

// Rejectf дописывает к отказу base подробности для игрока.
// errors.Is(err, base) остаётся истинным.
func Rejectf(base error, format string, args ...any) error {
	return &Rejection{
		Reason: base.Error() + ": " + fmt.Sprintf(format, args...),
		base:   base,
	}
}

// IsRejection сообщает, есть ли в цепочке ошибок отказ.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// ErrUnauthorized — нет или невалидна сессия.
var ErrUnauthorized = errors.New("unauthorized")

// Ошибки игроков и наград
var (
	ErrPlayerNotFound    = Reject("You don't have a SharkSpin account yet! Use /start first.")
	ErrUnknownRewardType = Reject("Invalid reward type")
	ErrInvalidAmount     = Reject("Amount must be positive")
	ErrAmountTooLarge    = Reject("Amount is too large")
)

// Ошибки слот-машины
var (
	ErrInvalidMultiplier = Reject("Invalid multiplier")
	ErrNotEnoughEnergy   = Reject("Not enough energy")
	ErrNotEnoughCoins    = Reject("Not enough SharkCoins")
	ErrSlotOffline       = Reject("Slot machine is offline: no symbols configured")
	ErrSpinTooFast       = Reject("Slow down, the reels are still spinning")
)

// Ошибки колеса
var (
	ErrNoWheelSpins = Reject("No spins available. Earn more tokens!")
	ErrWheelOffline = Reject("Prize wheel is offline: no rewards configured")
)

// Ошибки стикеров
var (
	ErrAlbumNotFound       = Reject("Album not found")
	ErrAlbumEmpty          = Reject("Album has no stickers configured")
	ErrCannotAffordPack    = Reject("Not enough SharkCoins or pack tokens")
	ErrInvalidTradeSets    = Reject("Trade at least one set")
	ErrNotEnoughDuplicates = Reject("Not enough duplicate stickers")
	ErrUnknownTradeReward  = Reject("Trade reward must be coins or energy")
	ErrTradeNotConfigured  = Reject("Sticker trading is not configured")
)

// Ошибки ежедневной награды
var (
	ErrDailyNotReady = Reject("Daily reward not ready yet")
)

// Ошибки reward-ссылок
var (
	ErrLinkInvalid   = Reject("Invalid or expired reward link.")
	ErrLinkExhausted = Reject("This reward link has expired or was already used.")
	ErrInvalidUses   = Reject("Uses must be at least 1")
)

// Ошибки магазина
var (
	ErrPackUnavailable = Reject("Pack unavailable.")
)

// Ошибки админки
var (
	ErrNotAdmin      = Reject("You're not authorized to do that.")
	ErrWrongPassword = errors.New("неверный пароль")
	ErrInvalidInput  = Reject("Invalid input")

	ErrCatalogItemNotFound = Reject("Catalog item not found")
)
