package admin

import (
	"testing"
	"time"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
)

func hashFor(t *testing.T, password string) string {
	t.Helper()
	// Лёгкие параметры, чтобы тест не тратил 64 МБ
	encoded, err := HashPassword(password, HashParams{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	if err != nil {
		t.Fatalf("unexpected hash error: %v", err)
	}
	return encoded
}

func TestVerifyArgon2id(t *testing.T) {
	encoded := hashFor(t, "hunter2-shark")
	if !verifyArgon2id("hunter2-shark", encoded) {
		t.Fatalf("correct password rejected")
	}
	if verifyArgon2id("hunter3-shark", encoded) {
		t.Fatalf("wrong password accepted")
	}
	if verifyArgon2id("hunter2-shark", "not-a-hash") {
		t.Fatalf("malformed hash accepted")
	}
	if hashFor(t, "hunter2-shark") == encoded {
		t.Fatalf("salt must differ between hashes")
	}
	if _, err := HashPassword("", DefaultHashParams); err == nil {
		t.Fatalf("empty password should be rejected")
	}
}

func TestRecipientsDeduplicates(t *testing.T) {
	all := []*players.Player{
		{ID: 1, TelegramID: "100"},
		{ID: 2, TelegramID: "100"},
		{ID: 3, TelegramID: "web-guest"},
		{ID: 4, TelegramID: "-5"},
		{ID: 5, TelegramID: "200"},
	}
	got := recipients(all)
	if len(got) != 2 || got[0] != 100 || got[1] != 200 {
		t.Fatalf("unexpected recipients: got=%v want=[100 200]", got)
	}
}

func TestValidateCatalogInput(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		check func() error
		ok    bool
	}{
		{"symbol ok", func() error {
			return validateSymbol(&catalog.SlotSymbol{Emoji: " 🐙 ", Name: "Octopus", Weight: 1})
		}, true},
		{"symbol zero weight", func() error {
			return validateSymbol(&catalog.SlotSymbol{Emoji: "🐙", Name: "Octopus"})
		}, false},
		{"symbol negative coins", func() error {
			return validateSymbol(&catalog.SlotSymbol{Emoji: "🐙", Name: "Octopus", Weight: 1, Coins: -1})
		}, false},
		{"wheel ok", func() error {
			return validateWheelReward(&catalog.WheelReward{Label: "+5", RewardType: "ENERGY", Amount: 5, Weight: 1})
		}, true},
		{"wheel unknown type", func() error {
			return validateWheelReward(&catalog.WheelReward{Label: "+5", RewardType: "gems", Amount: 5, Weight: 1})
		}, false},
		{"wheel amount over limit", func() error {
			return validateWheelReward(&catalog.WheelReward{Label: "+lots", RewardType: "coins", Amount: economy.MaxRewardAmount + 1, Weight: 1})
		}, false},
		{"event ok", func() error {
			return validateEvent(&catalog.LiveEvent{Slug: "Reef", Name: "Reef", StartAt: now, EndAt: now.Add(time.Hour), TargetSpins: 10, RewardType: "coins", RewardAmount: 50})
		}, true},
		{"event reversed window", func() error {
			return validateEvent(&catalog.LiveEvent{Slug: "reef", Name: "Reef", StartAt: now, EndAt: now, TargetSpins: 10, RewardType: "coins", RewardAmount: 50})
		}, false},
		{"shop ok", func() error {
			return validateShopItem(&catalog.ShopItem{Slug: "energy_1", Name: "Tiny", Stars: 1, Energy: 10})
		}, true},
		{"shop free", func() error {
			return validateShopItem(&catalog.ShopItem{Slug: "energy_1", Name: "Tiny", Energy: 10})
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatalf("expected rejection")
				}
				if !common.IsRejection(err) {
					t.Fatalf("expected a rejection, got %v", err)
				}
			}
		})
	}
}

func TestValidateNormalizes(t *testing.T) {
	w := &catalog.WheelReward{Label: " Jackpot ", RewardType: "Wheel_Tokens", Amount: 1, Weight: 0.5}
	if err := validateWheelReward(w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.RewardType != "wheel_tokens" || w.Label != "Jackpot" {
		t.Fatalf("unexpected normalization: got=%q/%q", w.RewardType, w.Label)
	}

	e := &catalog.LiveEvent{Slug: " Summer ", Name: "Summer", StartAt: time.Unix(0, 0), EndAt: time.Unix(10, 0), TargetSpins: 1, RewardType: "coins", RewardAmount: 1}
	if err := validateEvent(e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Slug != "summer" || e.EventType != "live" {
		t.Fatalf("unexpected event normalization: got=%q/%q", e.Slug, e.EventType)
	}
}

func TestBroadcastText(t *testing.T) {
	b := &Broadcast{Title: "Regatta", Body: "Starts now"}
	if got := b.Text(); got != "📣 Regatta\n\nStarts now" {
		t.Fatalf("unexpected text: got=%q", got)
	}
	b.Title = ""
	if got := b.Text(); got != "Starts now" {
		t.Fatalf("unexpected text without title: got=%q", got)
	}
}
