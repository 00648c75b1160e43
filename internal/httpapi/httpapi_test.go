package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"serotonyl.ru/sharkspin/internal/auth"
	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/config"
	"serotonyl.ru/sharkspin/internal/features/admin"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		ok     any
		msg    string
	}{
		{"rejection", common.ErrNotEnoughEnergy, http.StatusOK, false, "Not enough energy"},
		{"detailed rejection", common.Rejectf(common.ErrNotEnoughDuplicates, "need 10, you have 9"), http.StatusOK, false, "Not enough duplicate stickers: need 10, you have 9"},
		{"wrapped rejection", fmt.Errorf("trade: %w", common.ErrNotEnoughEnergy), http.StatusOK, false, "Not enough energy"},
		{"unauthorized", common.ErrUnauthorized, http.StatusUnauthorized, false, "unauthorized"},
		{"bad body", errBadRequest, http.StatusBadRequest, false, "invalid request body"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, false, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil), tt.err)
			if rec.Code != tt.status {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, tt.status)
			}
			body := decode(t, rec)
			if body["ok"] != tt.ok || body["error"] != tt.msg {
				t.Fatalf("unexpected body: got=%v", body)
			}
		})
	}
}

func TestSessionTokenSources(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/me?token=from-query", nil)
	if got := sessionToken(r); got != "from-query" {
		t.Fatalf("unexpected query token: got=%q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/me?token=from-query", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	if got := sessionToken(r); got != "from-header" {
		t.Fatalf("header must win: got=%q", got)
	}

	r = httptest.NewRequest(http.MethodPost, "/api/spin", strings.NewReader(`{"token":"from-body","multiplier":3}`))
	if got := sessionToken(r); got != "from-body" {
		t.Fatalf("unexpected body token: got=%q", got)
	}
	var req struct {
		Multiplier int `json:"multiplier"`
	}
	if err := parseBody(r, &req); err != nil || req.Multiplier != 3 {
		t.Fatalf("body must stay readable after token lookup: err=%v multiplier=%d", err, req.Multiplier)
	}
}

func newTestServer() *Server {
	cfg := &config.Config{HTTPAddr: ":0", HTTPShutdownTimeout: time.Second}
	return NewServer(Deps{
		Config:   cfg,
		Sessions: auth.NewSessions("test-secret-0123456789", time.Hour),
		Admin:    admin.NewService(nil, nil, nil, nil, nil, nil, "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA"),
	})
}

func TestPlayerRoutesRequireSession(t *testing.T) {
	srv := newTestServer()
	for _, path := range []string{"/api/me", "/api/wheel", "/api/stickers", "/api/daily"} {
		rec := httptest.NewRecorder()
		srv.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s without session: got=%d want=%d", path, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestAdminRoutesRequireSecret(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/overview", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLoginRejectsInsecureByDefault(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"tg_user_id":"42","username":"finn"}`)
	srv.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth", body))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || decode(t, rec)["status"] != "ok" {
		t.Fatalf("unexpected health response: %d %s", rec.Code, rec.Body.String())
	}
}
