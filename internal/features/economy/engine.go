package economy

import (
	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/players"
)

// Leveler пересчитывает уровень по XP.
type Leveler interface {
	LevelFromXP(xp int64) int
}

// Engine применяет награды к балансам игрока.
type Engine struct {
	EnergyPerSpin int64   // Сколько энергии даёт награда типа spins
	Levels        Leveler // Пересчёт уровня после начисления монет
}

// Apply начисляет награду. Монеты идут через XP: растут coins, xp,
// total_earned, weekly_coins, и уровень пересчитывается.
// Отрицательная сумма — отказ без изменений.
func (e *Engine) Apply(p *players.Player, r Reward) error {
	if r.Amount < 0 {
		return common.ErrInvalidAmount
	}

	switch r.Type {
	case RewardCoins:
		e.AddCoins(p, r.Amount)
	case RewardEnergy:
		p.Energy += r.Amount
	case RewardSpins:
		p.Energy += r.Amount * e.EnergyPerSpin
	case RewardWheelTokens:
		p.WheelTokens += r.Amount
	case RewardStickerPack:
		p.FreeStickerPacks += r.Amount
	default:
		return common.Rejectf(common.ErrUnknownRewardType, "%q", r.Type)
	}
	return nil
}

// ApplyAll применяет награды по очереди. Все типы проверяются заранее,
// чтобы отказ не оставил игрока с частью начислений.
func (e *Engine) ApplyAll(p *players.Player, rewards ...Reward) error {
	for _, r := range rewards {
		if r.Amount < 0 {
			return common.ErrInvalidAmount
		}
		if _, err := ParseRewardType(string(r.Type)); err != nil {
			return err
		}
	}
	for _, r := range rewards {
		if err := e.Apply(p, r); err != nil {
			return err
		}
	}
	return nil
}

// ApplyBalances начисляет результат барабанов или ежедневки.
func (e *Engine) ApplyBalances(p *players.Player, b Balances) {
	if b.Coins > 0 {
		e.AddCoins(p, b.Coins)
	}
	p.Energy += b.Energy
	p.WheelTokens += b.WheelTokens
}

// AddCoins — путь монет через прогрессию.
func (e *Engine) AddCoins(p *players.Player, amount int64) {
	p.Coins += amount
	p.XP += amount
	p.TotalEarned += amount
	p.WeeklyCoins += amount
	if e.Levels != nil {
		p.Level = e.Levels.LevelFromXP(p.XP)
	}
}
