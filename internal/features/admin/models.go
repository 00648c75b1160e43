// Package admin реализует админ-API: проверку секрета, правку каталогов,
// рассылки и сводку по игре.
// models.go описывает строки админ-таблиц.
package admin

import "time"

// LoginAttempt — попытка входа (для защиты от brute-force).
// Source — адрес клиента, с которого пришёл X-Admin-Secret.
type LoginAttempt struct {
	ID          int64     `db:"id"`
	Source      string    `db:"source"`
	AttemptTime time.Time `db:"attempt_time"`
	Success     bool      `db:"success"`
}

// Статусы рассылки
const (
	BroadcastPending = "pending"
	BroadcastSending = "sending"
	BroadcastDone    = "done"
)

// Broadcast — рассылка всем игрокам с личным чатом.
type Broadcast struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Body        string     `db:"body" json:"body"`
	RewardURL   string     `db:"reward_url" json:"rewardUrl,omitempty"`
	Status      string     `db:"status" json:"status"`
	Recipients  int        `db:"recipients" json:"recipients"`
	SentCount   int        `db:"sent_count" json:"sentCount"`
	FailedCount int        `db:"failed_count" json:"failedCount"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

// BroadcastInput — данные новой рассылки.
type BroadcastInput struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	RewardURL string `json:"rewardUrl"`
}

// Text — текст сообщения рассылки.
func (b *Broadcast) Text() string {
	if b.Title == "" {
		return b.Body
	}
	return "📣 " + b.Title + "\n\n" + b.Body
}

// Overview — сводка для админки.
type Overview struct {
	Players        int64        `json:"players"`
	SlotSpins      int64        `json:"slotSpins"`
	HouseEdgeHits  int64        `json:"houseEdgeHits"`
	BiggestPayout  int64        `json:"biggestPayout"`
	CoinsPerEnergy float64      `json:"coinsPerEnergy"` // Фактическая отдача слота
	WheelSpins     int64        `json:"wheelSpins"`
	Payments       int64        `json:"payments"`
	StarsEarned    int64        `json:"starsEarned"`
	Broadcasts     []*Broadcast `json:"broadcasts"`
}
