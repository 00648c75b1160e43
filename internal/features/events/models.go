// Package events ведёт прогресс игроков в событиях: каждый спин двигает
// счётчик, при достижении цели награда выдаётся один раз.
package events

import (
	"time"

	"serotonyl.ru/sharkspin/internal/features/economy"
)

// Status — состояние события относительно текущего времени.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusEnded    Status = "ended"
)

// Progress — строка event_progress: прогресс игрока в одном событии.
type Progress struct {
	EventID  int64 `db:"event_id"`
	PlayerID int64 `db:"player_id"`
	Progress int64 `db:"progress"`
	Claimed  bool  `db:"claimed"`
}

// Claim — награда события, выданная за этот спин.
type Claim struct {
	EventID int64          `json:"eventId"`
	Slug    string         `json:"slug"`
	Name    string         `json:"name"`
	Reward  economy.Reward `json:"reward"`
}

// View — событие для интерфейса.
type View struct {
	ID              int64          `json:"id"`
	Slug            string         `json:"slug"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	EventType       string         `json:"eventType"`
	BannerURL       string         `json:"bannerUrl"`
	Status          Status         `json:"status"`
	StartAt         time.Time      `json:"startAt"`
	EndAt           time.Time      `json:"endAt"`
	TargetSpins     int64          `json:"targetSpins"`
	Progress        int64          `json:"progress"`
	ProgressPercent float64        `json:"progressPercent"`
	Claimed         bool           `json:"claimed"`
	Reward          economy.Reward `json:"reward"`
}
