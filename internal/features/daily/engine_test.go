package daily

import (
	"errors"
	"testing"
	"time"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/config"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testSchedule() Schedule {
	return Schedule{
		BaseCoins:       200,
		CoinsPerDay:     15,
		BaseEnergy:      6,
		MilestoneEvery:  7,
		MilestoneEnergy: 25,
		MilestoneTokens: 1,
		MilestonePacks:  1,
		ShowcaseDays:    []int{1, 3, 5, 7, 14, 21},
	}
}

func newEngine(t *testing.T, window, grace time.Duration) *Engine {
	t.Helper()
	// Длинная кривая, чтобы ежедневные монеты не поднимали уровень
	curve := progression.Curve{Table: []int64{0, 1_000_000}, Step: 1_000_000}
	rewards := &economy.Engine{EnergyPerSpin: 1, Levels: curve}
	tracker, err := progression.NewTracker(curve, map[int]config.LevelReward{}, rewards)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	return &Engine{ClaimWindow: window, GraceWindow: grace, Schedule: testSchedule(), Rewards: rewards, Levels: tracker}
}

func ago(d time.Duration) *time.Time {
	return common.TimePtr(now.Add(-d))
}

func TestClaimStreakContinuesWithinGrace(t *testing.T) {
	e := newEngine(t, 24*time.Hour, 48*time.Hour)
	st := &State{Streak: 4, LongestStreak: 4, TotalClaims: 4, LastClaimAt: ago(25 * time.Hour)}
	p := &players.Player{Level: 1}

	res, err := e.Claim(p, st, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StreakReset || st.Streak != 5 || res.Reward.Day != 5 {
		t.Fatalf("streak should continue: reset=%v streak=%d day=%d", res.StreakReset, st.Streak, res.Reward.Day)
	}
	if want := int64(200 + 4*15); p.Coins != want {
		t.Fatalf("unexpected coins: got=%d want=%d", p.Coins, want)
	}
	if st.TotalClaims != 5 || !st.LastClaimAt.Equal(now) || !p.LastDailyClaimAt.Equal(now) {
		t.Fatalf("unexpected state after claim: %+v", st)
	}
}

func TestClaimStreakResetsAfterGrace(t *testing.T) {
	e := newEngine(t, 24*time.Hour, 48*time.Hour)
	st := &State{Streak: 6, LongestStreak: 6, TotalClaims: 6, LastClaimAt: ago(50 * time.Hour)}
	p := &players.Player{Level: 1}

	res, err := e.Claim(p, st, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.StreakReset || st.Streak != 1 || res.Reward.Day != 1 {
		t.Fatalf("streak should reset: reset=%v streak=%d day=%d", res.StreakReset, st.Streak, res.Reward.Day)
	}
	if p.Coins != 200 {
		t.Fatalf("unexpected coins: got=%d want=200", p.Coins)
	}
	if st.LongestStreak != 6 || st.TotalClaims != 7 {
		t.Fatalf("unexpected counters: longest=%d total=%d", st.LongestStreak, st.TotalClaims)
	}
}

func TestClaimNotReady(t *testing.T) {
	e := newEngine(t, 20*time.Hour, 36*time.Hour)
	st := &State{Streak: 2, LastClaimAt: ago(19 * time.Hour)}
	p := &players.Player{Coins: 10}
	before, beforeState := *p, *st

	if _, err := e.Claim(p, st, now); !errors.Is(err, common.ErrDailyNotReady) {
		t.Fatalf("unexpected error: got=%v want=%v", err, common.ErrDailyNotReady)
	}
	if *p != before || *st != beforeState {
		t.Fatalf("rejected claim mutated state")
	}
}

func TestFirstClaim(t *testing.T) {
	e := newEngine(t, 20*time.Hour, 36*time.Hour)
	st := &State{}
	p := &players.Player{Level: 1}

	res, err := e.Claim(p, st, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StreakReset || st.Streak != 1 {
		t.Fatalf("unexpected first claim: reset=%v streak=%d", res.StreakReset, st.Streak)
	}
	if p.Energy != 6 {
		t.Fatalf("unexpected energy: got=%d want=6", p.Energy)
	}
}

func TestMilestoneReward(t *testing.T) {
	e := newEngine(t, 20*time.Hour, 36*time.Hour)
	st := &State{Streak: 6, LastClaimAt: ago(21 * time.Hour)}
	p := &players.Player{Level: 1}

	res, err := e.Claim(p, st, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Reward.IsMilestone() {
		t.Fatalf("day 7 should be a milestone: %+v", res.Reward)
	}
	if p.Energy != 31 || p.WheelTokens != 1 || p.FreeStickerPacks != 1 {
		t.Fatalf("unexpected balances: energy=%d tokens=%d packs=%d", p.Energy, p.WheelTokens, p.FreeStickerPacks)
	}
}

func TestRewardFor(t *testing.T) {
	s := testSchedule()
	if r := s.RewardFor(1); r.Coins != 200 || r.IsMilestone() {
		t.Fatalf("unexpected day 1 reward: %+v", r)
	}
	if r := s.RewardFor(10); r.Coins != 335 {
		t.Fatalf("unexpected day 10 coins: got=%d want=335", r.Coins)
	}
	if r := s.RewardFor(14); !r.IsMilestone() || r.BonusEnergy != 25 {
		t.Fatalf("unexpected day 14 reward: %+v", r)
	}
	if r := s.RewardFor(0); r.Day != 1 {
		t.Fatalf("day below 1 should clamp: got=%d", r.Day)
	}
}

func TestSummarize(t *testing.T) {
	e := newEngine(t, 20*time.Hour, 36*time.Hour)

	s := e.Summarize(&State{Streak: 5, LongestStreak: 5, LastClaimAt: ago(2 * time.Hour)}, now)
	if s.CanClaim || s.Streak != 5 || s.Reward.Day != 6 || s.NextReward.Day != 7 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.NextAvailableAt == nil || !s.NextAvailableAt.Equal(now.Add(18*time.Hour)) {
		t.Fatalf("unexpected next available: %v", s.NextAvailableAt)
	}
	var achieved, next int
	for _, m := range s.Milestones {
		if m.Achieved {
			achieved++
		}
		if m.Next {
			next++
			if m.Day != 7 {
				t.Fatalf("unexpected next milestone: got=%d want=7", m.Day)
			}
		}
	}
	if achieved != 3 || next != 1 {
		t.Fatalf("unexpected milestones: achieved=%d next=%d", achieved, next)
	}

	broken := e.Summarize(&State{Streak: 5, LastClaimAt: ago(40 * time.Hour)}, now)
	if !broken.CanClaim || broken.Streak != 0 || broken.Reward.Day != 1 {
		t.Fatalf("broken streak summary: %+v", broken)
	}
}
