package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"serotonyl.ru/sharkspin/internal/common"
)

const testBotToken = "123456:TEST-token"

// signInitData собирает initData так же, как Telegram.
func signInitData(t *testing.T, botToken string, values url.Values) string {
	t.Helper()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))

	signed := url.Values{}
	for k := range values {
		signed.Set(k, values.Get(k))
	}
	signed.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return signed.Encode()
}

func TestInitDataValidator(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	v := NewInitDataValidator(testBotToken, 24*time.Hour)
	v.now = func() time.Time { return now }

	values := url.Values{}
	values.Set("auth_date", strconv.FormatInt(now.Add(-time.Hour).Unix(), 10))
	values.Set("query_id", "AAF1")
	values.Set("user", `{"id":424242,"first_name":"Finn","username":"finn_shark"}`)

	user, err := v.Validate(signInitData(t, testBotToken, values))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.TelegramID != "424242" || user.Username != "finn_shark" {
		t.Fatalf("unexpected user: got=%+v", user)
	}

	t.Run("wrong bot token", func(t *testing.T) {
		_, err := v.Validate(signInitData(t, "999:OTHER", values))
		if !errors.Is(err, ErrInitDataInvalid) {
			t.Fatalf("unexpected error: got=%v want=%v", err, ErrInitDataInvalid)
		}
	})

	t.Run("expired", func(t *testing.T) {
		old := url.Values{}
		old.Set("auth_date", strconv.FormatInt(now.Add(-25*time.Hour).Unix(), 10))
		old.Set("user", values.Get("user"))
		_, err := v.Validate(signInitData(t, testBotToken, old))
		if !errors.Is(err, ErrInitDataExpired) {
			t.Fatalf("unexpected error: got=%v want=%v", err, ErrInitDataExpired)
		}
	})

	t.Run("full telegram user payload", func(t *testing.T) {
		full := url.Values{}
		full.Set("auth_date", strconv.FormatInt(now.Unix(), 10))
		full.Set("user", `{"id":7001234567,"first_name":"Bruce","last_name":"Shark","username":"bruce","language_code":"en","is_premium":true,"allows_write_to_pm":true,"photo_url":"https://t.me/i/userpic/320/bruce.svg"}`)
		user, err := v.Validate(signInitData(t, testBotToken, full))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := WebAppUser{TelegramID: "7001234567", Username: "bruce", FirstName: "Bruce"}
		if *user != want {
			t.Fatalf("unexpected user: got=%+v want=%+v", *user, want)
		}
	})

	t.Run("user without id", func(t *testing.T) {
		anon := url.Values{}
		anon.Set("auth_date", strconv.FormatInt(now.Unix(), 10))
		anon.Set("user", `{"first_name":"Ghost"}`)
		_, err := v.Validate(signInitData(t, testBotToken, anon))
		if !errors.Is(err, ErrInitDataNoUser) {
			t.Fatalf("unexpected error: got=%v want=%v", err, ErrInitDataNoUser)
		}
	})

	t.Run("no user", func(t *testing.T) {
		bare := url.Values{}
		bare.Set("auth_date", strconv.FormatInt(now.Unix(), 10))
		_, err := v.Validate(signInitData(t, testBotToken, bare))
		if !errors.Is(err, ErrInitDataNoUser) {
			t.Fatalf("unexpected error: got=%v want=%v", err, ErrInitDataNoUser)
		}
	})
}

func TestSessionsRoundTrip(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions("session-secret-0123456789", 30*24*time.Hour)
	s.now = func() time.Time { return now }

	token, expires, err := s.Issue(17, "424242")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expires.Equal(now.Add(30 * 24 * time.Hour)) {
		t.Fatalf("unexpected expiry: got=%v", expires)
	}

	claims, err := s.Parse("Bearer " + token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.PlayerID != 17 || claims.Subject != "424242" || claims.ID == "" {
		t.Fatalf("unexpected claims: got=%+v", claims)
	}

	s.now = func() time.Time { return now.Add(31 * 24 * time.Hour) }
	if _, err := s.Parse(token); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expired token accepted: err=%v", err)
	}
}

func TestSessionsRejectForeignKey(t *testing.T) {
	a := NewSessions("session-secret-0123456789", time.Hour)
	b := NewSessions("another-secret-0123456789", time.Hour)
	token, _, err := a.Issue(1, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.Parse(token); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("token signed by another key accepted: err=%v", err)
	}
	if _, err := a.Parse(""); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("empty token accepted: err=%v", err)
	}
}
