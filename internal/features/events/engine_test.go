package events

import (
	"testing"
	"time"

	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func regatta(id int64, target int64) catalog.LiveEvent {
	return catalog.LiveEvent{
		ID:           id,
		Slug:         "regatta-" + string(rune('a'+id)),
		Name:         "Regatta",
		StartAt:      baseTime.Add(-24 * time.Hour),
		EndAt:        baseTime.Add(24 * time.Hour),
		TargetSpins:  target,
		RewardType:   "spins",
		RewardAmount: 5,
	}
}

func newEngine() *Engine {
	return &Engine{Rewards: &economy.Engine{EnergyPerSpin: 1}}
}

func TestRecordSpinGrantsOnce(t *testing.T) {
	e := newEngine()
	p := &players.Player{ID: 7}
	live := []catalog.LiveEvent{regatta(1, 3)}
	progress := map[int64]*Progress{}

	claims, err := e.RecordSpin(p, 2, live, progress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 0 || p.Energy != 0 {
		t.Fatalf("unexpected early claim: claims=%d energy=%d", len(claims), p.Energy)
	}

	claims, err = e.RecordSpin(p, 2, live, progress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("unexpected claims: got=%d want=1", len(claims))
	}
	if p.Energy != 5 {
		t.Fatalf("unexpected energy: got=%d want=5", p.Energy)
	}
	if got := progress[1]; got.Progress != 4 || !got.Claimed {
		t.Fatalf("unexpected progress row: %+v", got)
	}

	claims, _ = e.RecordSpin(p, 10, live, progress)
	if len(claims) != 0 || p.Energy != 5 {
		t.Fatalf("reward granted twice: claims=%d energy=%d", len(claims), p.Energy)
	}
}

func TestRecordSpinMultipleEvents(t *testing.T) {
	e := newEngine()
	p := &players.Player{ID: 7}
	live := []catalog.LiveEvent{regatta(1, 1), regatta(2, 1), regatta(3, 50)}
	progress := map[int64]*Progress{}

	claims, err := e.RecordSpin(p, 1, live, progress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("unexpected claims: got=%d want=2", len(claims))
	}
	if p.Energy != 10 {
		t.Fatalf("unexpected energy: got=%d want=10", p.Energy)
	}
	if len(progress) != 3 {
		t.Fatalf("progress rows should be created for every live event: got=%d", len(progress))
	}
}

func TestUnknownEventRewardFallsBackToCoins(t *testing.T) {
	e := newEngine()
	p := &players.Player{ID: 1}
	ev := regatta(1, 1)
	ev.RewardType = "golden_fin"
	ev.RewardAmount = 40

	if _, err := e.RecordSpin(p, 1, []catalog.LiveEvent{ev}, map[int64]*Progress{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Coins != 40 {
		t.Fatalf("unexpected coins: got=%d want=40", p.Coins)
	}
}

func TestStatusAt(t *testing.T) {
	ev := regatta(1, 10)
	tests := []struct {
		now  time.Time
		want Status
	}{
		{ev.StartAt.Add(-time.Second), StatusUpcoming},
		{ev.StartAt, StatusLive},
		{ev.EndAt.Add(-time.Second), StatusLive},
		{ev.EndAt, StatusEnded},
	}
	for _, tt := range tests {
		if got := StatusAt(ev, tt.now); got != tt.want {
			t.Fatalf("unexpected status at %v: got=%s want=%s", tt.now, got, tt.want)
		}
	}
}

func TestSerializeClampsPercent(t *testing.T) {
	ev := regatta(1, 10)
	v := Serialize(ev, &Progress{Progress: 25, Claimed: true}, baseTime)
	if v.ProgressPercent != 100 {
		t.Fatalf("unexpected percent: got=%v want=100", v.ProgressPercent)
	}
	if v.Reward.Type != economy.RewardSpins || v.Reward.Amount != 5 {
		t.Fatalf("unexpected reward: %+v", v.Reward)
	}

	empty := Serialize(ev, nil, baseTime)
	if empty.Progress != 0 || empty.Claimed {
		t.Fatalf("unexpected empty view: %+v", empty)
	}
}

func TestLiveFilters(t *testing.T) {
	past := regatta(1, 1)
	past.EndAt = baseTime
	if got := Live([]catalog.LiveEvent{past, regatta(2, 1)}, baseTime); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("unexpected live events: %+v", got)
	}
}
