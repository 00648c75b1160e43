package players

import "testing"

func TestChatID(t *testing.T) {
	tests := []struct {
		telegramID string
		want       int64
		wantOK     bool
	}{
		{"123456789", 123456789, true},
		{"", 0, false},
		{"web-42", 0, false},
	}
	for _, tt := range tests {
		p := &Player{TelegramID: tt.telegramID}
		got, ok := p.ChatID()
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("unexpected chat id for %q: got=(%d, %v) want=(%d, %v)", tt.telegramID, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := (&Player{ID: 7, Username: "shark"}).DisplayName(); got != "@shark" {
		t.Fatalf("unexpected name: got=%q want=%q", got, "@shark")
	}
	if got := (&Player{ID: 7}).DisplayName(); got != "Shark #7" {
		t.Fatalf("unexpected fallback name: got=%q want=%q", got, "Shark #7")
	}
}
