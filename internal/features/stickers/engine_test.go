package stickers

import (
	"errors"
	"maps"
	"math"
	"math/rand/v2"
	"testing"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/config"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/progression"
	"serotonyl.ru/sharkspin/internal/random"
)

func testAlbum() *catalog.StickerAlbum {
	return &catalog.StickerAlbum{
		ID:          1,
		Name:        "Reef Legends",
		RewardSpins: 10,
		StickerCost: 150,
		Stickers: []catalog.Sticker{
			{ID: 11, AlbumID: 1, Name: "Clownfish", Weight: 5},
			{ID: 12, AlbumID: 1, Name: "Octopus", Weight: 3},
			{ID: 13, AlbumID: 1, Name: "Great White", Weight: 2},
		},
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
	return &Engine{
		TradeSetSize:      5,
		TradeCoinsPerSet:  350,
		TradeEnergyPerSet: 18,
		Rewards:           rewards,
		Levels:            tracker,
		Random:            src,
	}
}

func TestPullStickerFrequency(t *testing.T) {
	e := newEngine(t, rand.New(rand.NewPCG(7, 99)))
	album := testAlbum()

	const draws = 100_000
	counts := map[int64]int{}
	for i := 0; i < draws; i++ {
		s, err := e.PullSticker(album)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts[s.ID]++
	}
	for _, s := range album.Stickers {
		want := s.Weight / 10
		got := float64(counts[s.ID]) / draws
		if math.Abs(got-want) > 0.01 {
			t.Fatalf("unexpected frequency for %s: got=%.4f want=%.4f", s.Name, got, want)
		}
	}
}

func TestPullStickerEmptyAlbum(t *testing.T) {
	e := newEngine(t, nil)
	if _, err := e.PullSticker(&catalog.StickerAlbum{ID: 2}); !errors.Is(err, common.ErrAlbumEmpty) {
		t.Fatalf("unexpected error: got=%v want=%v", err, common.ErrAlbumEmpty)
	}
}

func TestGrantStickerDoesNotPersistCompletion(t *testing.T) {
	e := newEngine(t, nil)
	album := testAlbum()
	col := Collection{11: 1, 12: 2}
	done := Completions{}

	g := e.GrantSticker(col, album, album.Stickers[2])
	if !g.AlbumCompleted || !g.IsNew || g.Quantity != 1 {
		t.Fatalf("unexpected grant: %+v", g)
	}
	if done[album.ID] {
		t.Fatalf("grant must not mark the album completed")
	}

	g = e.GrantSticker(col, album, album.Stickers[0])
	if g.IsNew || g.Quantity != 2 {
		t.Fatalf("unexpected duplicate grant: %+v", g)
	}
}

func TestCompleteAlbumOnce(t *testing.T) {
	e := newEngine(t, nil)
	album := testAlbum()
	p := &players.Player{}
	done := Completions{}

	granted, rewards, err := e.CompleteAlbum(p, album, done)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !granted || len(rewards) != 2 {
		t.Fatalf("first completion should grant: granted=%v rewards=%v", granted, rewards)
	}
	if p.Energy != 10 || p.WheelTokens != 10 {
		t.Fatalf("unexpected balances: energy=%d tokens=%d", p.Energy, p.WheelTokens)
	}

	granted, _, err = e.CompleteAlbum(p, album, done)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if granted {
		t.Fatalf("second completion must not grant")
	}
	if p.Energy != 10 || p.WheelTokens != 10 {
		t.Fatalf("balances changed on second completion: energy=%d tokens=%d", p.Energy, p.WheelTokens)
	}
}

func TestTradeRejectsOneShort(t *testing.T) {
	e := newEngine(t, nil)
	col := Collection{11: 5, 12: 4, 13: 3} // 4 + 3 + 2 = 9 дубликатов
	before := maps.Clone(col)
	p := &players.Player{Coins: 100}

	_, err := e.Trade(p, col, "coins", 2)
	if !errors.Is(err, common.ErrNotEnoughDuplicates) {
		t.Fatalf("unexpected error: got=%v want=%v", err, common.ErrNotEnoughDuplicates)
	}
	if err.Error() != "Not enough duplicate stickers: need 10, you have 9" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !maps.Equal(col, before) || p.Coins != 100 {
		t.Fatalf("rejected trade mutated state: col=%v coins=%d", col, p.Coins)
	}
}

func TestTradeConsumesDuplicates(t *testing.T) {
	e := newEngine(t, nil)
	col := Collection{11: 5, 12: 4, 13: 4}
	p := &players.Player{Level: 1}

	res, err := e.Trade(p, col, "energy", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reward.Type != economy.RewardEnergy || res.Reward.Amount != 36 || p.Energy != 36 {
		t.Fatalf("unexpected reward: %+v energy=%d", res.Reward, p.Energy)
	}
	// Жадно по возрастанию ID: 4 у 11, 3 у 12, 3 у 13
	want := Collection{11: 1, 12: 1, 13: 1}
	if !maps.Equal(col, want) {
		t.Fatalf("unexpected collection: got=%v want=%v", col, want)
	}
	if res.Remaining != 0 {
		t.Fatalf("unexpected remaining: got=%d", res.Remaining)
	}
}

func TestTradeCoinsLevelsUp(t *testing.T) {
	e := newEngine(t, nil)
	col := Collection{11: 6}
	p := &players.Player{Level: 1}

	if _, err := e.Trade(p, col, "COINS", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Coins != 350 || p.Level != 3 {
		t.Fatalf("unexpected player: coins=%d level=%d", p.Coins, p.Level)
	}
}

func TestTradeValidation(t *testing.T) {
	e := newEngine(t, nil)
	col := Collection{11: 20}

	if _, err := e.Trade(&players.Player{}, col, "coins", 0); !errors.Is(err, common.ErrInvalidTradeSets) {
		t.Fatalf("unexpected error for zero sets: %v", err)
	}
	if _, err := e.Trade(&players.Player{}, col, "wheel_tokens", 1); !errors.Is(err, common.ErrUnknownTradeReward) {
		t.Fatalf("unexpected error for tokens: %v", err)
	}
	if col[11] != 20 {
		t.Fatalf("rejected trade mutated collection: %d", col[11])
	}

	e.TradeSetSize = 0
	if _, err := e.Trade(&players.Player{}, col, "coins", 1); !errors.Is(err, common.ErrTradeNotConfigured) {
		t.Fatalf("unexpected error for disabled trade: %v", err)
	}
}

func TestOpenPack(t *testing.T) {
	album := testAlbum()

	t.Run("free pack first", func(t *testing.T) {
		e := newEngine(t, &random.Scripted{Values: []float64{0.1}})
		p := &players.Player{Coins: 500, FreeStickerPacks: 1}
		res, err := e.OpenPack(p, Collection{}, album, Completions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.UsedFreePack || p.FreeStickerPacks != 0 || p.Coins != 500 {
			t.Fatalf("unexpected payment: %+v coins=%d", res, p.Coins)
		}
		if res.Sticker.ID != 11 {
			t.Fatalf("unexpected sticker: got=%d want=11", res.Sticker.ID)
		}
	})

	t.Run("coins", func(t *testing.T) {
		e := newEngine(t, &random.Scripted{Values: []float64{0.9}})
		p := &players.Player{Coins: 200}
		res, err := e.OpenPack(p, Collection{}, album, Completions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.CoinsSpent != 150 || p.Coins != 50 {
			t.Fatalf("unexpected payment: spent=%d coins=%d", res.CoinsSpent, p.Coins)
		}
	})

	t.Run("cannot afford", func(t *testing.T) {
		e := newEngine(t, nil)
		p := &players.Player{Coins: 149}
		col := Collection{}
		if _, err := e.OpenPack(p, col, album, Completions{}); !errors.Is(err, common.ErrCannotAffordPack) {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Coins != 149 || len(col) != 0 {
			t.Fatalf("rejected pack mutated state")
		}
	})

	t.Run("completes album once", func(t *testing.T) {
		e := newEngine(t, &random.Scripted{Values: []float64{0.9}})
		p := &players.Player{FreeStickerPacks: 2}
		col := Collection{11: 1, 12: 1}
		done := Completions{}

		res, err := e.OpenPack(p, col, album, done)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.AlbumCompleted || res.CompletionReward == nil || !done[album.ID] {
			t.Fatalf("album should be completed: %+v", res)
		}

		res, err = e.OpenPack(p, col, album, done)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.AlbumCompleted || res.CompletionReward != nil {
			t.Fatalf("completion reward granted twice: %+v", res)
		}
		if p.Energy != 10 || p.WheelTokens != 10 {
			t.Fatalf("unexpected balances: energy=%d tokens=%d", p.Energy, p.WheelTokens)
		}
	})
}

func TestView(t *testing.T) {
	e := newEngine(t, nil)
	album := testAlbum()
	v := e.View(album, Collection{11: 7, 12: 1}, Completions{}, 2)
	if v.Owned != 2 || v.Total != 3 || v.Completed {
		t.Fatalf("unexpected ownership: owned=%d total=%d completed=%v", v.Owned, v.Total, v.Completed)
	}
	if v.Duplicates != 6 || v.Trade.SetsAvailable != 1 || v.FreePacks != 2 {
		t.Fatalf("unexpected trade view: dup=%d sets=%d", v.Duplicates, v.Trade.SetsAvailable)
	}
}
