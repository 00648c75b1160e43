package wheel

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/config"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/progression"
	"serotonyl.ru/sharkspin/internal/random"
)

var now = time.Date(2025, 8, 1, 18, 0, 0, 0, time.UTC)

func prizes() []catalog.WheelReward {
	return []catalog.WheelReward{
		{ID: 1, Label: "150 Coins", RewardType: "coins", Amount: 150, Weight: 6},
		{ID: 2, Label: "10 Energy", RewardType: "energy", Amount: 10, Weight: 3},
		{ID: 3, Label: "Free Pack", RewardType: "sticker_pack", Amount: 1, Weight: 1},
	}
}

func newEngine(t *testing.T, src random.Source) *Engine {
	t.Helper()
	curve := progression.Curve{Table: config.XPCurve, Step: 600, Quadratic: 25}
	rewards := &economy.Engine{EnergyPerSpin: 1, Levels: curve}
	tracker, err := progression.NewTracker(curve, nil, rewards)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	return &Engine{Cooldown: 4 * time.Hour, TokenCost: 1, Rewards: rewards, Levels: tracker, Random: src}
}

func TestSpinFreeWhenNeverSpun(t *testing.T) {
	e := newEngine(t, &random.Scripted{Values: []float64{0.95}})
	p := &players.Player{}

	res, err := e.Spin(p, prizes(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Free || res.TokensSpent != 0 {
		t.Fatalf("first spin should be free: %+v", res)
	}
	if p.FreeStickerPacks != 1 {
		t.Fatalf("unexpected packs: got=%d want=1", p.FreeStickerPacks)
	}
	if p.LastWheelSpinAt == nil || !p.LastWheelSpinAt.Equal(now) {
		t.Fatalf("last spin not updated: %v", p.LastWheelSpinAt)
	}
}

func TestSpinPaidResetsCooldown(t *testing.T) {
	e := newEngine(t, &random.Scripted{Values: []float64{0.1}})
	last := now.Add(-time.Hour)
	p := &players.Player{WheelTokens: 2, LastWheelSpinAt: &last}

	res, err := e.Spin(p, prizes(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Free || res.TokensSpent != 1 || p.WheelTokens != 1 {
		t.Fatalf("unexpected paid spin: %+v tokens=%d", res, p.WheelTokens)
	}
	if !p.LastWheelSpinAt.Equal(now) {
		t.Fatalf("paid spin should reset the cooldown clock")
	}
	if p.Coins != 150 {
		t.Fatalf("unexpected coins: got=%d want=150", p.Coins)
	}
}

func TestSpinWithoutTokensRejected(t *testing.T) {
	e := newEngine(t, nil)
	last := now.Add(-3 * time.Hour)
	p := &players.Player{LastWheelSpinAt: &last}
	before := *p

	if _, err := e.Spin(p, prizes(), now); !errors.Is(err, common.ErrNoWheelSpins) {
		t.Fatalf("unexpected error: got=%v want=%v", err, common.ErrNoWheelSpins)
	}
	if *p != before {
		t.Fatalf("rejected spin mutated player")
	}
}

func TestSpinOffline(t *testing.T) {
	e := newEngine(t, nil)
	if _, err := e.Spin(&players.Player{}, nil, now); !errors.Is(err, common.ErrWheelOffline) {
		t.Fatalf("unexpected error: got=%v want=%v", err, common.ErrWheelOffline)
	}
}

func TestUnknownPrizeTypePaysCoins(t *testing.T) {
	e := newEngine(t, &random.Scripted{Values: []float64{0.5}})
	p := &players.Player{}
	list := []catalog.WheelReward{{ID: 9, Label: "Mystery", RewardType: "mystery_box", Amount: 75, Weight: 1}}

	res, err := e.Spin(p, list, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reward.Type != economy.RewardCoins || p.Coins != 75 {
		t.Fatalf("unexpected fallback: reward=%+v coins=%d", res.Reward, p.Coins)
	}
}

func TestSpinFrequency(t *testing.T) {
	e := newEngine(t, rand.New(rand.NewPCG(3, 5)))
	list := prizes()

	const draws = 100_000
	counts := map[int64]int{}
	for i := 0; i < draws; i++ {
		p := &players.Player{}
		res, err := e.Spin(p, list, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts[res.Prize.ID]++
	}
	for _, w := range list {
		want := w.Weight / 10
		got := float64(counts[w.ID]) / draws
		if math.Abs(got-want) > 0.01 {
			t.Fatalf("unexpected frequency for %s: got=%.4f want=%.4f", w.Label, got, want)
		}
	}
}

func TestStatusAt(t *testing.T) {
	e := newEngine(t, nil)
	last := now.Add(-time.Hour)
	s := e.StatusAt(&players.Player{LastWheelSpinAt: &last}, now)
	if s.FreeAvailable || s.CanSpin {
		t.Fatalf("unexpected status: %+v", s)
	}
	if s.NextFreeAt == nil || !s.NextFreeAt.Equal(now.Add(3*time.Hour)) {
		t.Fatalf("unexpected next free: %v", s.NextFreeAt)
	}
}
