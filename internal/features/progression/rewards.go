package progression

import (
	"fmt"
	"sort"

	"serotonyl.ru/sharkspin/internal/config"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
)

// Grant — выданная награда за уровень.
type Grant struct {
	Level       int            `json:"level"`
	Reward      economy.Reward `json:"reward"`
	Description string         `json:"description"`
}

// Tracker выдаёт награды за уровни.
type Tracker struct {
	Curve   Curve
	Rewards map[int]economy.Reward
	Engine  *economy.Engine
}

// NewTracker разбирает таблицу наград уровней. Неизвестный тип в таблице — ошибка запуска.
func NewTracker(curve Curve, table map[int]config.LevelReward, engine *economy.Engine) (*Tracker, error) {
	rewards := make(map[int]economy.Reward, len(table))
	for level, lr := range table {
		t, err := economy.ParseRewardType(lr.Type)
		if err != nil {
			return nil, fmt.Errorf("награда уровня %d: %w", level, err)
		}
		rewards[level] = economy.Reward{Type: t, Amount: lr.Amount}
	}
	return &Tracker{Curve: curve, Rewards: rewards, Engine: engine}, nil
}

// ResolveLevelRewards выдаёт награды за уровни из (LevelRewardCheckpoint, p.Level]
// по возрастанию. Уровни, пройденные без вызова (например, монетами из
// награды лидерам), выдаются при следующем вызове.
// Монетная награда может поднять уровень ещё раз: такие уровни
// обрабатываются в том же вызове. Повторный вызов ничего не выдаёт.
func (t *Tracker) ResolveLevelRewards(p *players.Player) ([]Grant, error) {
	var grants []Grant
	for level := p.LevelRewardCheckpoint + 1; level <= p.Level; level++ {
		if reward, ok := t.Rewards[level]; ok {
			if err := t.Engine.Apply(p, reward); err != nil {
				return grants, err
			}
			grants = append(grants, Grant{
				Level:       level,
				Reward:      reward,
				Description: fmt.Sprintf("Level %d: +%s", level, reward),
			})
		}
		p.LevelRewardCheckpoint = level
	}
	return grants, nil
}

// NextReward — ближайший уровень выше level с наградой.
func (t *Tracker) NextReward(level int) (int, economy.Reward, bool) {
	levels := make([]int, 0, len(t.Rewards))
	for l := range t.Rewards {
		if l > level {
			levels = append(levels, l)
		}
	}
	if len(levels) == 0 {
		return 0, economy.Reward{}, false
	}
	sort.Ints(levels)
	return levels[0], t.Rewards[levels[0]], true
}

// Summary — сводка уровня для интерфейса.
type Summary struct {
	Progress
	XP              int64           `json:"xp"`
	ClaimedUpto     int             `json:"claimedUpto"`
	NextRewardLevel int             `json:"nextRewardLevel,omitempty"`
	NextReward      *economy.Reward `json:"nextReward,omitempty"`
}

// Summarize собирает сводку уровня игрока.
func (t *Tracker) Summarize(p *players.Player) Summary {
	s := Summary{
		Progress:    t.Curve.CalculateProgress(p.XP),
		XP:          p.XP,
		ClaimedUpto: p.LevelRewardCheckpoint,
	}
	if level, reward, ok := t.NextReward(s.Level); ok {
		s.NextRewardLevel = level
		s.NextReward = &reward
	}
	return s
}
