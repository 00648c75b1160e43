package filters

import (
	"testing"

	"github.com/mymmrac/telego"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		chatType string
		cmd      string
		want     bool
	}{
		{telego.ChatTypePrivate, "buy", true},
		{telego.ChatTypePrivate, "reward", true},
		{telego.ChatTypeGroup, "play", true},
		{telego.ChatTypeSupergroup, "start", true},
		{telego.ChatTypeGroup, "buy", false},
		{telego.ChatTypeSupergroup, "me", false},
	}
	for _, tt := range tests {
		if got := Allowed(tt.chatType, tt.cmd); got != tt.want {
			t.Fatalf("unexpected access for %s /%s: got=%v want=%v", tt.chatType, tt.cmd, got, tt.want)
		}
	}
}
