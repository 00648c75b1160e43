// Package leaderboard — таблицы лидеров, недельный сброс и награды лидерам.
package leaderboard

import "fmt"

// Board — вид таблицы.
type Board string

const (
	BoardCoins  Board = "coins"
	BoardXP     Board = "xp"
	BoardWeekly Board = "weekly"
)

// Boards — все таблицы в порядке отображения.
var Boards = []Board{BoardCoins, BoardXP, BoardWeekly}

// orderBy — сортировка для таблицы. Значения фиксированы, в SQL не попадает ввод.
func (b Board) orderBy() (string, error) {
	switch b {
	case BoardCoins:
		return "coins DESC, id", nil
	case BoardXP:
		return "xp DESC, id", nil
	case BoardWeekly:
		return "weekly_coins DESC, total_earned DESC, id", nil
	}
	return "", fmt.Errorf("неизвестная таблица лидеров: %q", string(b))
}

// Entry — строка таблицы лидеров.
type Entry struct {
	Rank        int    `json:"rank"`
	PlayerID    int64  `json:"playerId"`
	Username    string `json:"username"`
	Coins       int64  `json:"coins"`
	XP          int64  `json:"xp"`
	WeeklyCoins int64  `json:"weeklyCoins"`
	Level       int    `json:"level"`
}

// RewardInput — награда лидерам: явным игрокам или топу недели.
type RewardInput struct {
	PlayerIDs  []int64 `json:"playerIds"`
	Top        int     `json:"top"`
	RewardType string  `json:"rewardType"`
	Amount     int64   `json:"amount"`
	Note       string  `json:"note"`
}

// RewardResult — кому выдана награда.
type RewardResult struct {
	Rewarded []int64 `json:"rewarded"`
	Reward   string  `json:"reward"`
}
