package links

import (
	"errors"
	"strings"
	"testing"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/config"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	curve := progression.Curve{Table: config.XPCurve, Step: 600, Quadratic: 25}
	rewards := &economy.Engine{EnergyPerSpin: 1, Levels: curve}
	tracker, err := progression.NewTracker(curve, nil, rewards)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	return &Engine{Rewards: rewards, Levels: tracker}
}

func TestRedeemLastUse(t *testing.T) {
	e := newEngine(t)
	l := &Link{Code: "ABCD234567", RewardType: "coins", Amount: 50, UsesLeft: 1, IsActive: true}
	p := &players.Player{Level: 1}

	res, err := e.Redeem(p, l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.UsesLeft != 0 || l.IsActive {
		t.Fatalf("link should be exhausted: uses=%d active=%v", l.UsesLeft, l.IsActive)
	}
	if res.Message != "🎁 You received 50 SharkCoins! (0 uses left)" {
		t.Fatalf("unexpected message: %q", res.Message)
	}

	coins := p.Coins
	if _, err := e.Redeem(p, l); !errors.Is(err, common.ErrLinkExhausted) {
		t.Fatalf("unexpected error: got=%v want=%v", err, common.ErrLinkExhausted)
	}
	if p.Coins != coins {
		t.Fatalf("second redemption changed balance: got=%d want=%d", p.Coins, coins)
	}
}

func TestRedeemSpinsConvertsToEnergy(t *testing.T) {
	e := newEngine(t)
	l := &Link{RewardType: "spins", Amount: 3, UsesLeft: 5, IsActive: true}
	p := &players.Player{}

	res, err := e.Redeem(p, l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Energy != 3 || res.UsesLeft != 4 || !l.IsActive {
		t.Fatalf("unexpected redeem: energy=%d uses=%d active=%v", p.Energy, res.UsesLeft, l.IsActive)
	}
}

func TestRedeemUnknownTypeRejected(t *testing.T) {
	e := newEngine(t)
	l := &Link{RewardType: "gold_bars", Amount: 3, UsesLeft: 1, IsActive: true}
	p := &players.Player{}

	if _, err := e.Redeem(p, l); !errors.Is(err, common.ErrUnknownRewardType) {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.UsesLeft != 1 || !l.IsActive {
		t.Fatalf("rejected redemption consumed a use")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   CreateInput
		want error
	}{
		{"ok", CreateInput{RewardType: " Wheel_Tokens ", Amount: 2, Uses: 1}, nil},
		{"bad type", CreateInput{RewardType: "gems", Amount: 2, Uses: 1}, common.ErrUnknownRewardType},
		{"zero amount", CreateInput{RewardType: "coins", Amount: 0, Uses: 1}, common.ErrInvalidAmount},
		{"huge amount", CreateInput{RewardType: "coins", Amount: economy.MaxRewardAmount + 1, Uses: 1}, common.ErrAmountTooLarge},
		{"zero uses", CreateInput{RewardType: "coins", Amount: 5, Uses: 0}, common.ErrInvalidUses},
	}
	for _, tt := range tests {
		in := tt.in
		err := Validate(&in)
		if tt.want == nil {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tt.name, err)
			}
			if in.RewardType != "wheel_tokens" {
				t.Fatalf("%s: type not normalized: %q", tt.name, in.RewardType)
			}
			continue
		}
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: unexpected error: got=%v want=%v", tt.name, err, tt.want)
		}
	}
}

func TestSignerRoundTrip(t *testing.T) {
	s := NewSigner("test-secret")
	token, err := s.Sign(&Link{Code: "QWERTY2345", RewardType: "coins", Amount: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	code, err := s.Code(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "QWERTY2345" {
		t.Fatalf("unexpected code: got=%q", code)
	}

	if _, err := NewSigner("other-secret").Code(token); err == nil {
		t.Fatalf("token signed with another key must be rejected")
	}
}

func TestNewCode(t *testing.T) {
	code, err := NewCode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != codeLength {
		t.Fatalf("unexpected length: got=%d want=%d", len(code), codeLength)
	}
	for _, r := range code {
		if !strings.ContainsRune(codeAlphabet, r) {
			t.Fatalf("unexpected rune %q in %q", r, code)
		}
	}
}

func TestURLs(t *testing.T) {
	u := URLs{WebAppURL: "https://shark.example/", BotUsername: "@sharkspin_bot"}
	if got := u.Web("a.b.c"); got != "https://shark.example/redeem/a.b.c" {
		t.Fatalf("unexpected web url: %q", got)
	}
	if got := u.DeepLink("ABC"); got != "https://t.me/sharkspin_bot/startapp?startapp=redeem_ABC" {
		t.Fatalf("unexpected deep link: %q", got)
	}
}
