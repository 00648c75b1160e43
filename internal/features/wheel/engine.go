package wheel

import (
	"time"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/progression"
	"serotonyl.ru/sharkspin/internal/random"
)

// Engine крутит колесо.
type Engine struct {
	Cooldown  time.Duration // Период бесплатного спина
	TokenCost int64         // Цена спина вне периода

	Rewards *economy.Engine
	Levels  *progression.Tracker
	Random  random.Source
}

// FreeAvailable — прошёл ли период с прошлого спина.
func (e *Engine) FreeAvailable(p *players.Player, now time.Time) bool {
	return p.LastWheelSpinAt == nil || now.Sub(*p.LastWheelSpinAt) >= e.Cooldown
}

// Spin крутит колесо. Вне периода списываются жетоны (до розыгрыша).
// Время спина обновляется и при платном спине: период начинается заново.
func (e *Engine) Spin(p *players.Player, prizes []catalog.WheelReward, now time.Time) (*Result, error) {
	if len(prizes) == 0 {
		return nil, common.ErrWheelOffline
	}

	free := e.FreeAvailable(p, now)
	if !free && p.WheelTokens < e.TokenCost {
		return nil, common.ErrNoWheelSpins
	}

	res := &Result{Free: free}
	if !free {
		p.WheelTokens -= e.TokenCost
		res.TokensSpent = e.TokenCost
	}

	idx, _ := random.Pick(e.Random, prizes, func(w catalog.WheelReward) float64 { return w.Weight })
	res.Prize = prizes[idx]
	res.Reward = res.Prize.Reward()

	if err := e.Rewards.Apply(p, res.Reward); err != nil {
		return nil, err
	}
	p.LastWheelSpinAt = common.TimePtr(now)
	res.NextFreeAt = now.Add(e.Cooldown)

	grants, err := e.Levels.ResolveLevelRewards(p)
	if err != nil {
		return nil, err
	}
	res.LevelGrants = grants
	return res, nil
}

// StatusAt — доступность колеса для игрока.
func (e *Engine) StatusAt(p *players.Player, now time.Time) Status {
	s := Status{
		FreeAvailable: e.FreeAvailable(p, now),
		WheelTokens:   p.WheelTokens,
		TokenCost:     e.TokenCost,
	}
	if p.LastWheelSpinAt != nil {
		s.NextFreeAt = common.TimePtr(p.LastWheelSpinAt.Add(e.Cooldown))
	}
	s.CanSpin = s.FreeAvailable || p.WheelTokens >= e.TokenCost
	return s
}
