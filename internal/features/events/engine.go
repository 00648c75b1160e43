package events

import (
	"fmt"
	"time"

	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
)

// Engine засчитывает спины в события.
type Engine struct {
	Rewards *economy.Engine
}

// RecordSpin добавляет multiplier к прогрессу игрока в каждом событии из live.
// progress — строки прогресса по ID события; отсутствующие создаются.
// Награда события выдаётся один раз: при первом достижении цели.
func (e *Engine) RecordSpin(p *players.Player, multiplier int, live []catalog.LiveEvent, progress map[int64]*Progress) ([]Claim, error) {
	var claims []Claim
	for _, ev := range live {
		row, ok := progress[ev.ID]
		if !ok {
			row = &Progress{EventID: ev.ID, PlayerID: p.ID}
			progress[ev.ID] = row
		}
		row.Progress += int64(multiplier)

		if row.Claimed || row.Progress < ev.TargetSpins {
			continue
		}
		reward := ev.Reward()
		if err := e.Rewards.Apply(p, reward); err != nil {
			return claims, fmt.Errorf("награда события %s: %w", ev.Slug, err)
		}
		row.Claimed = true
		claims = append(claims, Claim{EventID: ev.ID, Slug: ev.Slug, Name: ev.Name, Reward: reward})
	}
	return claims, nil
}

// StatusAt определяет статус по окну [StartAt, EndAt).
func StatusAt(ev catalog.LiveEvent, now time.Time) Status {
	switch {
	case now.Before(ev.StartAt):
		return StatusUpcoming
	case !now.Before(ev.EndAt):
		return StatusEnded
	default:
		return StatusLive
	}
}

// Serialize собирает представление события. progress может быть nil.
func Serialize(ev catalog.LiveEvent, progress *Progress, now time.Time) View {
	v := View{
		ID:          ev.ID,
		Slug:        ev.Slug,
		Name:        ev.Name,
		Description: ev.Description,
		EventType:   ev.EventType,
		BannerURL:   ev.BannerURL,
		Status:      StatusAt(ev, now),
		StartAt:     ev.StartAt,
		EndAt:       ev.EndAt,
		TargetSpins: ev.TargetSpins,
		Reward:      ev.Reward(),
	}
	if progress != nil {
		v.Progress = progress.Progress
		v.Claimed = progress.Claimed
	}
	if ev.TargetSpins > 0 {
		v.ProgressPercent = min(float64(v.Progress)/float64(ev.TargetSpins)*100, 100)
	}
	return v
}

// Live отбирает события, идущие в момент now.
func Live(all []catalog.LiveEvent, now time.Time) []catalog.LiveEvent {
	var out []catalog.LiveEvent
	for _, ev := range all {
		if ev.IsLive(now) {
			out = append(out, ev)
		}
	}
	return out
}
