package shop

import (
	"testing"

	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

func TestInvoiceRoundTrip(t *testing.T) {
	item := &catalog.ShopItem{Name: "Tide Pack", Slug: "energy_500", Stars: 250, Energy: 500, BonusWheelTokens: 2}
	inv := NewInvoice(item)
	if inv.Currency != "XTR" || inv.Stars != 250 {
		t.Fatalf("unexpected invoice: %+v", inv)
	}
	if inv.Description != "Buy 500 energy and 2 wheel tokens." {
		t.Fatalf("unexpected description: %q", inv.Description)
	}
	if got := ParsePayload(inv.Payload); got != "energy_500" {
		t.Fatalf("unexpected slug: got=%q want=%q", got, "energy_500")
	}
	if got := ParsePayload("energy_100"); got != "energy_100" {
		t.Fatalf("bare slug should pass through: got=%q", got)
	}
}

func TestPurchaseMessage(t *testing.T) {
	item := catalog.ShopItem{Stars: 100, Energy: 200, BonusWheelTokens: 1}
	p := &Purchase{Item: item, Rewards: item.Rewards()}
	want := "✅ Payment received: 100 ⭐️\n+200 Energy & +1 Wheel Token. Enjoy spinning!"
	if got := p.Message(); got != want {
		t.Fatalf("unexpected message:\ngot=%q\nwant=%q", got, want)
	}

	p.LevelGrants = []progression.Grant{{Level: 3, Description: "Level 3: +30 Energy"}}
	if got := p.Message(); got != want+"\n🎉 Level 3: +30 Energy" {
		t.Fatalf("unexpected message with level grant: got=%q", got)
	}
}

func TestItemRewardsCredit(t *testing.T) {
	item := catalog.ShopItem{Energy: 100}
	rewards := item.Rewards()
	if len(rewards) != 1 || rewards[0].Type != economy.RewardEnergy {
		t.Fatalf("unexpected rewards without bonus: %+v", rewards)
	}
}
