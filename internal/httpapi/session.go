package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/common"
)

// playerHandler — обработчик запроса с проверенной сессией.
type playerHandler func(w http.ResponseWriter, r *http.Request, playerID int64)

// player проверяет сессию и лимит запросов игрока.
func (s *Server) player(next playerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.Sessions.Parse(sessionToken(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		if s.Limiter != nil && !s.Limiter.Allow(claims.PlayerID) {
			writeJSON(w, http.StatusTooManyRequests, map[string]any{"ok": false, "error": "Too many requests, slow down"})
			return
		}
		next(w, r, claims.PlayerID)
	}
}

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
}

// sessionToken ищет токен в заголовке, в query и в поле token JSON-тела.
// Тело после чтения восстанавливается для обработчика.
func sessionToken(r *http.Request) string {
	if tok := bearerToken(r); tok != "" {
		return tok
	}
	if tok := r.URL.Query().Get("token"); tok != "" {
		return tok
	}
	if r.Body == nil || r.Method == http.MethodGet {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		Token string `json:"token"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	return body.Token
}

// admin проверяет X-Admin-Secret.
func (s *Server) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Admin.Authenticate(r.Context(), clientIP(r), r.Header.Get("X-Admin-Secret")); err != nil {
			writeError(w, r, err)
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type loginRequest struct {
	InitData string `json:"initData"`
	// Только при AUTH_ALLOW_INSECURE
	TelegramID string `json:"tg_user_id"`
	Username   string `json:"username"`
}

// login принимает initData мини-приложения и выдаёт сессию.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := parseBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var telegramID, username string
	switch {
	case req.InitData != "":
		user, err := s.InitData.Validate(req.InitData)
		if err != nil {
			log.WithError(err).Debug("initData отклонены")
			writeError(w, r, common.ErrUnauthorized)
			return
		}
		telegramID, username = user.TelegramID, user.Username
		if username == "" {
			username = user.FirstName
		}
	case s.Config.AuthAllowInsecure && strings.TrimSpace(req.TelegramID) != "":
		telegramID, username = strings.TrimSpace(req.TelegramID), req.Username
	default:
		writeError(w, r, common.ErrUnauthorized)
		return
	}

	p, err := s.Players.Ensure(r.Context(), telegramID, username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, expires, err := s.Sessions.Issue(p.ID, p.TelegramID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.state(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp["token"] = token
	resp["expiresAt"] = expires
	writeOK(w, resp)
}
