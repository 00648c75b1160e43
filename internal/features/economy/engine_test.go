package economy

import (
	"errors"
	"testing"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/players"
)

// hundreds — уровень = 1 + xp/100
type hundreds struct{}

func (hundreds) LevelFromXP(xp int64) int { return 1 + int(xp/100) }

func newEngine() *Engine {
	return &Engine{EnergyPerSpin: 2, Levels: hundreds{}}
}

func TestApplyCoinsRunsThroughProgression(t *testing.T) {
	p := &players.Player{Coins: 10, Level: 1}
	if err := newEngine().Apply(p, Reward{Type: RewardCoins, Amount: 250}); err != nil {
		t.Fatalf("apply coins: %v", err)
	}
	if p.Coins != 260 || p.XP != 250 || p.TotalEarned != 250 || p.WeeklyCoins != 250 {
		t.Fatalf("unexpected balances: coins=%d xp=%d earned=%d weekly=%d", p.Coins, p.XP, p.TotalEarned, p.WeeklyCoins)
	}
	if p.Level != 3 {
		t.Fatalf("unexpected level: got=%d want=3", p.Level)
	}
}

func TestApplyDispatch(t *testing.T) {
	tests := []struct {
		reward Reward
		check  func(p *players.Player) bool
	}{
		{Reward{RewardEnergy, 7}, func(p *players.Player) bool { return p.Energy == 7 }},
		{Reward{RewardSpins, 3}, func(p *players.Player) bool { return p.Energy == 6 }},
		{Reward{RewardWheelTokens, 2}, func(p *players.Player) bool { return p.WheelTokens == 2 }},
		{Reward{RewardStickerPack, 1}, func(p *players.Player) bool { return p.FreeStickerPacks == 1 }},
	}
	for _, tt := range tests {
		p := &players.Player{}
		if err := newEngine().Apply(p, tt.reward); err != nil {
			t.Fatalf("apply %s: %v", tt.reward.Type, err)
		}
		if !tt.check(p) {
			t.Fatalf("unexpected state after %s: %+v", tt.reward.Type, p)
		}
	}
}

func TestApplyAllRejectsBeforeMutating(t *testing.T) {
	p := &players.Player{Coins: 5}
	err := newEngine().ApplyAll(p,
		Reward{Type: RewardCoins, Amount: 100},
		Reward{Type: "gems", Amount: 1},
	)
	if !errors.Is(err, common.ErrUnknownRewardType) {
		t.Fatalf("expected unknown reward type, got %v", err)
	}
	if p.Coins != 5 || p.XP != 0 {
		t.Fatalf("balances mutated on rejection: coins=%d xp=%d", p.Coins, p.XP)
	}
}

func TestApplyRejectsNegativeAmount(t *testing.T) {
	p := &players.Player{Energy: 3}
	if err := newEngine().Apply(p, Reward{Type: RewardEnergy, Amount: -1}); !errors.Is(err, common.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if p.Energy != 3 {
		t.Fatalf("energy mutated: %d", p.Energy)
	}
}

func TestParseRewardType(t *testing.T) {
	if got, err := ParseRewardType(" Wheel_Tokens "); err != nil || got != RewardWheelTokens {
		t.Fatalf("unexpected parse: got=%q err=%v", got, err)
	}
	if _, err := ParseRewardType("legendary_sticker"); !common.IsRejection(err) {
		t.Fatalf("unknown type should be a rejection, got %v", err)
	}
	if got := RewardTypeOrCoins("mystery"); got != RewardCoins {
		t.Fatalf("fallback should be coins, got %q", got)
	}
}

func TestRewardString(t *testing.T) {
	tests := []struct {
		reward Reward
		want   string
	}{
		{Reward{RewardCoins, 1200}, "1,200 SharkCoins"},
		{Reward{RewardSpins, 1}, "1 Spin"},
		{Reward{RewardWheelTokens, 2}, "2 Wheel Tokens"},
		{Reward{RewardStickerPack, 3}, "3 Sticker Packs"},
	}
	for _, tt := range tests {
		if got := tt.reward.String(); got != tt.want {
			t.Fatalf("unexpected text: got=%q want=%q", got, tt.want)
		}
	}
}

func TestEntriesSkipZeroAmounts(t *testing.T) {
	entries := Entries(9, SourceSlot, "Triple",
		Reward{RewardCoins, 30},
		Reward{RewardEnergy, 0},
	)
	if len(entries) != 1 || entries[0].PlayerID != 9 || entries[0].Source != SourceSlot {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
