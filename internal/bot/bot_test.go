package bot

import (
	"errors"
	"strings"
	"testing"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
)

func TestParseCommand(t *testing.T) {
	p := NewCommandParser()
	p.SetUsername("@SharkSpinBot")
	tests := []struct {
		text     string
		wantCmd  string
		wantArgs []string
		wantOK   bool
	}{
		{"/start", "start", nil, true},
		{"/start buy_starter", "start", []string{"buy_starter"}, true},
		{"/BUY@sharkspinbot mega", "buy", []string{"mega"}, true},
		{"  /reward coins 500 3 ", "reward", []string{"coins", "500", "3"}, true},
		{"/play@OtherBot", "", nil, false},
		{"hello", "", nil, false},
		{"/", "", nil, false},
		{"/@bot", "", nil, false},
	}
	for _, tt := range tests {
		cmd, ok := p.Parse(tt.text)
		if ok != tt.wantOK || cmd.Name != tt.wantCmd {
			t.Fatalf("unexpected parse of %q: got=(%q, %v) want=(%q, %v)", tt.text, cmd.Name, ok, tt.wantCmd, tt.wantOK)
		}
		if strings.Join(cmd.Args, " ") != strings.Join(tt.wantArgs, " ") {
			t.Fatalf("unexpected args of %q: got=%v want=%v", tt.text, cmd.Args, tt.wantArgs)
		}
	}
}

func TestParseRewardArgs(t *testing.T) {
	typ, amount, uses, err := parseRewardArgs([]string{"Spins", "5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ != economy.RewardSpins || amount != 5 || uses != 1 {
		t.Fatalf("unexpected reward: got=(%s, %d, %d)", typ, amount, uses)
	}

	_, _, uses, err = parseRewardArgs([]string{"coins", "500", "3"})
	if err != nil || uses != 3 {
		t.Fatalf("unexpected uses: got=%d err=%v", uses, err)
	}

	bad := []struct {
		args []string
		want string
	}{
		{nil, rewardUsage},
		{[]string{"gems", "5"}, rewardUsage},
		{[]string{"coins", "five"}, "must be numbers"},
		{[]string{"coins", "5", "x"}, "must be numbers"},
	}
	for _, tt := range bad {
		_, _, _, err := parseRewardArgs(tt.args)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("unexpected error for %v: got=%v want=%q", tt.args, err, tt.want)
		}
	}

	if _, _, _, err := parseRewardArgs([]string{"coins", "0"}); !errors.Is(err, common.ErrInvalidAmount) {
		t.Fatalf("unexpected error for zero amount: got=%v", err)
	}
	if _, _, _, err := parseRewardArgs([]string{"coins", "5", "0"}); !errors.Is(err, common.ErrInvalidUses) {
		t.Fatalf("unexpected error for zero uses: got=%v", err)
	}
}

func TestShopText(t *testing.T) {
	if got := shopText(nil); !strings.Contains(got, "empty") {
		t.Fatalf("unexpected empty shop text: got=%q", got)
	}
	got := shopText([]catalog.ShopItem{
		{Name: "Starter", Slug: "starter", Stars: 50, Energy: 40},
		{Name: "Mega", Slug: "mega", Stars: 250, Energy: 250, BonusWheelTokens: 3},
	})
	for _, want := range []string{"• Starter: 40⚡ for 50⭐", "(use /buy starter)", "250⚡ + 3🎡 for 250⭐"} {
		if !strings.Contains(got, want) {
			t.Fatalf("shop text misses %q: got=%q", want, got)
		}
	}
}

func TestUserText(t *testing.T) {
	if got := userText(common.ErrPackUnavailable); got != "⚠️ Pack unavailable." {
		t.Fatalf("unexpected rejection text: got=%q", got)
	}
	if got := userText(errors.New("pq: connection refused")); strings.Contains(got, "pq") {
		t.Fatalf("internal error leaked to player: got=%q", got)
	}
}
