package slots

import (
	"fmt"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/progression"
	"serotonyl.ru/sharkspin/internal/random"
)

// Reels — количество барабанов.
const Reels = 3

// Engine считает спин: проверка, списание, барабаны, выплата.
// Работает только с переданным игроком и каталогом, в БД не ходит.
type Engine struct {
	EnergyPerSpin   int64
	CoinCostPerSpin int64 // 0 — спин стоит только энергию
	WildSymbol      string
	HouseEdge       HouseEdge

	Rewards *economy.Engine
	Levels  *progression.Tracker
	Random  random.Source
}

// CanSpin проверяет множитель и балансы. Ошибка — отказ без изменений.
func (e *Engine) CanSpin(p *players.Player, multiplier int) error {
	if multiplier < 1 {
		return common.ErrInvalidMultiplier
	}
	m := int64(multiplier)
	if p.Energy < e.EnergyPerSpin*m {
		return common.ErrNotEnoughEnergy
	}
	if e.CoinCostPerSpin > 0 && p.Coins < e.CoinCostPerSpin*m {
		return common.ErrNotEnoughCoins
	}
	return nil
}

// Spin выполняет спин с множителем ставки multiplier.
// Стоимость списывается до розыгрыша и не возвращается при пустом результате.
func (e *Engine) Spin(p *players.Player, multiplier int, symbols []catalog.SlotSymbol) (*SpinResult, error) {
	if err := e.CanSpin(p, multiplier); err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		return nil, common.ErrSlotOffline
	}

	m := int64(multiplier)
	energyCost := e.EnergyPerSpin * m
	coinCost := e.CoinCostPerSpin * m

	p.Energy -= energyCost
	p.Coins -= coinCost

	reels := e.Roll(symbols)
	outcome := Classify(reels, e.WildSymbol)
	rewards := outcome.Payout(multiplier)
	rewards = e.applyHouseEdge(rewards)

	label := outcome.Label
	switch {
	case rewards.IsZero():
		label = LabelEmptyNet
	case random.Chance(e.Random, e.HouseEdge.BrickChance):
		rewards = economy.Balances{}
		label = LabelHouseEdge
	}

	e.Rewards.ApplyBalances(p, rewards)
	p.LifetimeSpins++

	grants, err := e.Levels.ResolveLevelRewards(p)
	if err != nil {
		return nil, fmt.Errorf("награды уровня: %w", err)
	}

	result := &SpinResult{
		Symbols:     make([]string, 0, Reels),
		Label:       label,
		Pattern:     outcome.Pattern,
		Rewards:     rewards,
		WildBonus:   outcome.WildBonus.Scale(m, 1),
		CoinCost:    coinCost,
		NetCoins:    rewards.Coins - coinCost,
		EnergySpent: energyCost,
		Multiplier:  multiplier,
		LevelGrants: grants,
	}
	for _, s := range reels {
		result.Symbols = append(result.Symbols, s.Emoji)
	}
	return result, nil
}

// Roll тянет три символа независимо, с возвращением.
func (e *Engine) Roll(symbols []catalog.SlotSymbol) [Reels]catalog.SlotSymbol {
	var reels [Reels]catalog.SlotSymbol
	for i := range reels {
		idx, _ := random.Pick(e.Random, symbols, func(s catalog.SlotSymbol) float64 { return s.Weight })
		reels[i] = symbols[idx]
	}
	return reels
}

func (e *Engine) applyHouseEdge(b economy.Balances) economy.Balances {
	h := e.HouseEdge
	return economy.Balances{
		Coins:       scaleBy(b.Coins, h.Coins),
		Energy:      scaleBy(b.Energy, h.Energy),
		WheelTokens: scaleBy(b.WheelTokens, h.WheelTokens),
	}
}

// scaleBy: 0 и 1 значат «без изменений».
func scaleBy(v int64, factor float64) int64 {
	if factor <= 0 || factor == 1 {
		return v
	}
	return int64(float64(v) * factor)
}

// ============================================================================
// Классификация барабанов
// ============================================================================

// Outcome — классифицированный результат барабанов до учёта ставки.
type Outcome struct {
	Pattern    Pattern
	Label      string
	Multiplier float64
	Base       economy.Balances // Сумма базовых наград трёх символов
	WildBonus  economy.Balances // Награда вайлда, если он — непарный барабан пары
}

// Classify определяет комбинацию:
//   - три одинаковых: Triple, x3
//   - ровно пара: Twin, x2, плюс базовая награда вайлда, если он третий
//   - все разные и есть вайлд: Shark Resonance, x1.5
//   - иначе Cascade, x1
func Classify(reels [Reels]catalog.SlotSymbol, wild string) Outcome {
	var base economy.Balances
	for _, s := range reels {
		b := s.Base()
		base.Coins += b.Coins
		base.Energy += b.Energy
		base.WheelTokens += b.WheelTokens
	}

	a, b, c := reels[0], reels[1], reels[2]
	switch {
	case a.Emoji == b.Emoji && b.Emoji == c.Emoji:
		return Outcome{Pattern: PatternTriple, Label: "Triple " + a.Name, Multiplier: TripleMultiplier, Base: base}

	case a.Emoji == b.Emoji || a.Emoji == c.Emoji || b.Emoji == c.Emoji:
		pair, odd := a, c
		switch {
		case a.Emoji == c.Emoji:
			odd = b
		case b.Emoji == c.Emoji:
			pair, odd = b, a
		}
		out := Outcome{Pattern: PatternTwin, Label: "Twin " + pair.Name, Multiplier: TwinMultiplier, Base: base}
		if wild != "" && odd.Emoji == wild {
			out.WildBonus = odd.Base()
		}
		return out
	}

	for _, s := range reels {
		if wild != "" && s.Emoji == wild {
			return Outcome{Pattern: PatternResonance, Label: LabelResonance, Multiplier: ResonanceMultiplier, Base: base}
		}
	}
	return Outcome{Pattern: PatternCascade, Label: LabelCascade, Multiplier: CascadeMultiplier, Base: base}
}

// Payout — выплата с учётом ставки: base*stake*pattern (с отбрасыванием дробной
// части по каждому ресурсу) плюс бонус вайлда, умноженный на ставку.
func (o Outcome) Payout(stake int) economy.Balances {
	s := int64(stake)
	paid := o.Base.Scale(s, o.Multiplier)
	bonus := o.WildBonus.Scale(s, 1)
	return economy.Balances{
		Coins:       paid.Coins + bonus.Coins,
		Energy:      paid.Energy + bonus.Energy,
		WheelTokens: paid.WheelTokens + bonus.WheelTokens,
	}
}
