package daily

import (
	"fmt"
	"time"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

// Engine считает ежедневную награду.
type Engine struct {
	ClaimWindow time.Duration // Минимум между двумя получениями
	GraceWindow time.Duration // Дольше — серия прерывается
	Schedule    Schedule
	Rewards     *economy.Engine
	Levels      *progression.Tracker
}

// CanClaim — прошло ли окно с прошлого получения.
func (e *Engine) CanClaim(st *State, now time.Time) bool {
	return st.LastClaimAt == nil || now.Sub(*st.LastClaimAt) >= e.ClaimWindow
}

// EffectiveStreak — серия с учётом пропуска: после GraceWindow она равна 0.
func (e *Engine) EffectiveStreak(st *State, now time.Time) int {
	if st.LastClaimAt != nil && now.Sub(*st.LastClaimAt) > e.GraceWindow {
		return 0
	}
	return st.Streak
}

// Claim выдаёт награду за день streak+1. Если серия прервана,
// она сбрасывается до расчёта, и награда считается как за первый день.
func (e *Engine) Claim(p *players.Player, st *State, now time.Time) (*ClaimResult, error) {
	if !e.CanClaim(st, now) {
		return nil, common.ErrDailyNotReady
	}

	streak := e.EffectiveStreak(st, now)
	reset := streak == 0 && st.Streak > 0
	reward := e.Schedule.RewardFor(streak + 1)

	if err := e.Rewards.ApplyAll(p, reward.Rewards()...); err != nil {
		return nil, fmt.Errorf("ежедневная награда: %w", err)
	}

	st.Streak = streak + 1
	st.LongestStreak = max(st.LongestStreak, st.Streak)
	st.TotalClaims++
	st.LastClaimAt = common.TimePtr(now)
	p.LastDailyClaimAt = st.LastClaimAt

	grants, err := e.Levels.ResolveLevelRewards(p)
	if err != nil {
		return nil, err
	}
	return &ClaimResult{Reward: reward, Streak: st.Streak, StreakReset: reset, LevelGrants: grants}, nil
}

// Summarize собирает состояние для интерфейса.
func (e *Engine) Summarize(st *State, now time.Time) Summary {
	streak := e.EffectiveStreak(st, now)
	s := Summary{
		CanClaim:      e.CanClaim(st, now),
		Streak:        streak,
		LongestStreak: st.LongestStreak,
		TotalClaims:   st.TotalClaims,
		Reward:        e.Schedule.RewardFor(streak + 1),
		NextReward:    e.Schedule.RewardFor(streak + 2),
	}
	if st.LastClaimAt != nil {
		s.NextAvailableAt = common.TimePtr(st.LastClaimAt.Add(e.ClaimWindow))
	}

	nextMarked := false
	for _, day := range e.Schedule.ShowcaseDays {
		m := Milestone{Day: day, Reward: e.Schedule.RewardFor(day), Achieved: day <= streak}
		if !m.Achieved && !nextMarked {
			m.Next = true
			nextMarked = true
		}
		s.Milestones = append(s.Milestones, m)
	}
	return s
}
