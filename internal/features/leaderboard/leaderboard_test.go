package leaderboard

import (
	"strings"
	"testing"

	"serotonyl.ru/sharkspin/internal/config"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

func TestBoardOrder(t *testing.T) {
	for _, b := range Boards {
		order, err := b.orderBy()
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", b, err)
		}
		if !strings.HasSuffix(order, "id") {
			t.Fatalf("order for %s must end with a tie-breaker: %q", b, order)
		}
	}
	if _, err := Board("karma").orderBy(); err == nil {
		t.Fatalf("unknown board should be rejected")
	}
}

func TestGrantResolvesCrossedLevels(t *testing.T) {
	curve := progression.Curve{Table: config.XPCurve, Step: 600, Quadratic: 25}
	rewards := &economy.Engine{EnergyPerSpin: 1, Levels: curve}
	levels, err := progression.NewTracker(curve, map[int]config.LevelReward{
		3: {Type: "energy", Amount: 30},
		4: {Type: "wheel_tokens", Amount: 2},
	}, rewards)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	s := &Service{rewards: rewards, levels: levels}

	p := &players.Player{ID: 9, XP: 100, Level: 2, LevelRewardCheckpoint: 2}
	entries, err := s.grant(p, economy.Reward{Type: economy.RewardCoins, Amount: 400}, "Leaderboard reward")
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if p.Level != 4 || p.LevelRewardCheckpoint != 4 {
		t.Fatalf("unexpected level state: level=%d checkpoint=%d", p.Level, p.LevelRewardCheckpoint)
	}
	if p.Energy != 30 || p.WheelTokens != 2 {
		t.Fatalf("level rewards not granted: energy=%d tokens=%d", p.Energy, p.WheelTokens)
	}
	if len(entries) != 3 {
		t.Fatalf("unexpected ledger entries: got=%d want=3", len(entries))
	}
	if entries[0].Source != economy.SourceLeaderboard || entries[1].Source != economy.SourceLevel || entries[2].Source != economy.SourceLevel {
		t.Fatalf("unexpected entry sources: %+v", entries)
	}
}
