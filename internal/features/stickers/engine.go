package stickers

import (
	"sort"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/progression"
	"serotonyl.ru/sharkspin/internal/random"
)

// Engine — операции с коллекцией стикеров.
type Engine struct {
	TradeSetSize      int
	TradeCoinsPerSet  int64
	TradeEnergyPerSet int64

	Rewards *economy.Engine
	Levels  *progression.Tracker
	Random  random.Source
}

// PullSticker тянет стикер альбома по весам.
func (e *Engine) PullSticker(album *catalog.StickerAlbum) (catalog.Sticker, error) {
	idx, ok := random.Pick(e.Random, album.Stickers, func(s catalog.Sticker) float64 { return s.Weight })
	if !ok {
		return catalog.Sticker{}, common.ErrAlbumEmpty
	}
	return album.Stickers[idx], nil
}

// GrantSticker добавляет копию стикера в коллекцию. Сбор альбома
// только вычисляется: отметку и награду выдаёт CompleteAlbum.
func (e *Engine) GrantSticker(col Collection, album *catalog.StickerAlbum, sticker catalog.Sticker) Grant {
	col[sticker.ID]++
	return Grant{
		Sticker:        sticker,
		Quantity:       col[sticker.ID],
		IsNew:          col[sticker.ID] == 1,
		AlbumCompleted: IsComplete(col, album),
	}
}

// IsComplete — у игрока есть каждый стикер альбома.
func IsComplete(col Collection, album *catalog.StickerAlbum) bool {
	if len(album.Stickers) == 0 {
		return false
	}
	for _, s := range album.Stickers {
		if col[s.ID] <= 0 {
			return false
		}
	}
	return true
}

// CompleteAlbum выдаёт награду за сбор альбома один раз.
// Повторный вызов возвращает false и ничего не меняет.
func (e *Engine) CompleteAlbum(p *players.Player, album *catalog.StickerAlbum, done Completions) (bool, []economy.Reward, error) {
	if done[album.ID] {
		return false, nil, nil
	}
	rewards := []economy.Reward{
		{Type: economy.RewardSpins, Amount: album.RewardSpins},
		{Type: economy.RewardWheelTokens, Amount: album.RewardSpins},
	}
	if err := e.Rewards.ApplyAll(p, rewards...); err != nil {
		return false, nil, err
	}
	done[album.ID] = true
	return true, rewards, nil
}

// OpenPack открывает пак: бесплатный, если есть, иначе за монеты.
func (e *Engine) OpenPack(p *players.Player, col Collection, album *catalog.StickerAlbum, done Completions) (*PackResult, error) {
	if len(album.Stickers) == 0 {
		return nil, common.ErrAlbumEmpty
	}
	useFree := p.FreeStickerPacks > 0
	if !useFree && p.Coins < album.StickerCost {
		return nil, common.ErrCannotAffordPack
	}

	sticker, err := e.PullSticker(album)
	if err != nil {
		return nil, err
	}

	res := &PackResult{UsedFreePack: useFree}
	if useFree {
		p.FreeStickerPacks--
	} else {
		p.Coins -= album.StickerCost
		res.CoinsSpent = album.StickerCost
	}

	res.Grant = e.GrantSticker(col, album, sticker)
	if !res.AlbumCompleted {
		return res, nil
	}

	granted, rewards, err := e.CompleteAlbum(p, album, done)
	if err != nil {
		return nil, err
	}
	if granted {
		res.CompletionReward = rewards
	}
	return res, nil
}

// Trade меняет sets наборов дубликатов на монеты или энергию.
// Все проверки идут до изменения коллекции.
func (e *Engine) Trade(p *players.Player, col Collection, rewardType string, sets int) (*TradeResult, error) {
	if e.TradeSetSize <= 0 {
		return nil, common.ErrTradeNotConfigured
	}
	if sets < 1 {
		return nil, common.ErrInvalidTradeSets
	}
	need := int64(e.TradeSetSize) * int64(sets)
	have := col.Duplicates()
	if have < need {
		return nil, common.Rejectf(common.ErrNotEnoughDuplicates, "need %d, you have %d", need, have)
	}

	var reward economy.Reward
	switch t, _ := economy.ParseRewardType(rewardType); t {
	case economy.RewardCoins:
		reward = economy.Reward{Type: t, Amount: e.TradeCoinsPerSet * int64(sets)}
	case economy.RewardEnergy:
		reward = economy.Reward{Type: t, Amount: e.TradeEnergyPerSet * int64(sets)}
	default:
		return nil, common.ErrUnknownTradeReward
	}

	ids := make([]int64, 0, len(col))
	for id := range col {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	consumed := make(map[int64]int64)
	left := need
	for _, id := range ids {
		if left == 0 {
			break
		}
		take := min(max(col[id]-1, 0), left)
		if take == 0 {
			continue
		}
		col[id] -= take
		consumed[id] = take
		left -= take
	}

	if err := e.Rewards.Apply(p, reward); err != nil {
		return nil, err
	}
	grants, err := e.Levels.ResolveLevelRewards(p)
	if err != nil {
		return nil, err
	}

	return &TradeResult{
		Sets:        sets,
		Reward:      reward,
		Consumed:    consumed,
		Remaining:   col.Duplicates(),
		LevelGrants: grants,
	}, nil
}

// Offer — условия обмена при текущем числе дубликатов.
func (e *Engine) Offer(duplicates int64) TradeOffer {
	o := TradeOffer{
		SetSize:      e.TradeSetSize,
		CoinsPerSet:  e.TradeCoinsPerSet,
		EnergyPerSet: e.TradeEnergyPerSet,
	}
	if e.TradeSetSize > 0 {
		o.SetsAvailable = duplicates / int64(e.TradeSetSize)
	}
	return o
}

// View собирает альбом с коллекцией игрока.
func (e *Engine) View(album *catalog.StickerAlbum, col Collection, done Completions, freePacks int64) AlbumView {
	v := AlbumView{
		ID:          album.ID,
		Name:        album.Name,
		Slug:        album.Slug,
		Description: album.Description,
		RewardSpins: album.RewardSpins,
		StickerCost: album.StickerCost,
		Stickers:    make([]StickerView, 0, len(album.Stickers)),
		Total:       len(album.Stickers),
		Completed:   IsComplete(col, album),
		Rewarded:    done[album.ID],
		FreePacks:   freePacks,
	}
	for _, s := range album.Stickers {
		q := col[s.ID]
		if q > 0 {
			v.Owned++
		}
		sv := StickerView{Sticker: s, Quantity: q, Duplicates: max(q-1, 0)}
		v.Duplicates += sv.Duplicates
		v.Stickers = append(v.Stickers, sv)
	}
	v.Trade = e.Offer(col.Duplicates())
	return v
}
