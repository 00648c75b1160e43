package catalog

import (
	"testing"
	"time"

	"serotonyl.ru/sharkspin/internal/features/economy"
)

func TestDefaultSymbolsValid(t *testing.T) {
	symbols := DefaultSymbols()
	if len(symbols) != 7 {
		t.Fatalf("unexpected symbol count: got=%d want=7", len(symbols))
	}
	seen := map[string]bool{}
	hasShark := false
	for i, s := range symbols {
		if seen[s.Emoji] {
			t.Fatalf("duplicate emoji %s", s.Emoji)
		}
		seen[s.Emoji] = true
		if !s.IsEnabled || s.SortOrder != i {
			t.Fatalf("symbol %s not enabled or out of order", s.Emoji)
		}
		if s.Weight <= 0 {
			t.Fatalf("symbol %s has non-positive weight", s.Emoji)
		}
		if s.Emoji == "🦈" {
			hasShark = true
		}
	}
	if !hasShark {
		t.Fatalf("wild symbol missing from defaults")
	}
}

func TestDefaultWheelRewardTypesKnown(t *testing.T) {
	for _, w := range DefaultWheelRewards() {
		if _, err := economy.ParseRewardType(w.RewardType); err != nil {
			t.Fatalf("wheel reward %q has unknown type %q", w.Label, w.RewardType)
		}
	}
}

func TestDefaultAlbums(t *testing.T) {
	albums := DefaultAlbums()
	if len(albums) != 2 {
		t.Fatalf("unexpected album count: got=%d", len(albums))
	}
	total := 0
	for _, a := range albums {
		if len(a.Stickers) == 0 || a.RewardSpins <= 0 || a.StickerCost <= 0 {
			t.Fatalf("album %s is incomplete: %+v", a.Slug, a)
		}
		total += len(a.Stickers)
	}
	if total != 9 {
		t.Fatalf("unexpected sticker count: got=%d want=9", total)
	}
}

func TestDefaultEventWindow(t *testing.T) {
	seededAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	events := DefaultEvents(seededAt)
	if len(events) != 1 || events[0].Slug != SignatureEventSlug {
		t.Fatalf("unexpected events: %+v", events)
	}
	e := events[0]
	if !e.IsLive(seededAt) {
		t.Fatalf("signature event should be live at seed time")
	}
	if e.IsLive(seededAt.Add(5 * 24 * time.Hour)) {
		t.Fatalf("end of window is exclusive")
	}
	if r := e.Reward(); r.Type != economy.RewardSpins || r.Amount != 5 {
		t.Fatalf("unexpected event reward: %+v", r)
	}
}

func TestDefaultShopItems(t *testing.T) {
	items := DefaultShopItems()
	if len(items) != 7 {
		t.Fatalf("unexpected shop size: got=%d want=7", len(items))
	}
	slugs := map[string]bool{}
	for _, it := range items {
		if slugs[it.Slug] {
			t.Fatalf("duplicate slug %s", it.Slug)
		}
		slugs[it.Slug] = true
		if !it.IsActive || it.Stars <= 0 || it.Energy <= 0 {
			t.Fatalf("invalid shop item: %+v", it)
		}
	}
	rewards := items[0].Rewards()
	if len(rewards) != 2 || rewards[0].Type != economy.RewardEnergy || rewards[1].Type != economy.RewardWheelTokens {
		t.Fatalf("unexpected pack rewards: %+v", rewards)
	}
}

func TestWheelRewardFallsBackToCoins(t *testing.T) {
	w := WheelReward{Label: "Mystery", RewardType: "gems", Amount: 70}
	if r := w.Reward(); r.Type != economy.RewardCoins || r.Amount != 70 {
		t.Fatalf("unexpected fallback: %+v", r)
	}
}

func TestSymbolBaseClampsNegative(t *testing.T) {
	s := SlotSymbol{Coins: -5, Energy: 3, WheelTokens: -1}
	b := s.Base()
	if b.Coins != 0 || b.Energy != 3 || b.WheelTokens != 0 {
		t.Fatalf("unexpected base: %+v", b)
	}
}

func TestProvisionerInvalidate(t *testing.T) {
	p := &Provisioner{seeded: map[Kind]bool{KindSymbols: true}}
	if !p.isSeeded(KindSymbols) {
		t.Fatalf("expected seeded flag")
	}
	p.Invalidate(KindSymbols)
	if p.isSeeded(KindSymbols) {
		t.Fatalf("flag should be reset")
	}
}
