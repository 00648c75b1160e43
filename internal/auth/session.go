// Package auth выпускает сессии мини-приложения и проверяет данные
// запуска Telegram WebApp.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"serotonyl.ru/sharkspin/internal/common"
)

var errNoPlayer = errors.New("в токене нет игрока")

// Claims — содержимое сессионного токена. sub — Telegram ID, pid — ID игрока.
type Claims struct {
	jwt.RegisteredClaims
	PlayerID int64 `json:"pid"`
}

// Sessions выпускает и проверяет сессионные токены (HS256).
type Sessions struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{key: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue выпускает токен для игрока.
func (s *Sessions) Issue(playerID int64, telegramID string) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   telegramID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		PlayerID: playerID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("ошибка подписи сессии: %w", err)
	}
	return token, expires, nil
}

// Parse проверяет токен. Любая проблема с токеном — common.ErrUnauthorized.
func (s *Sessions) Parse(token string) (*Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, common.ErrUnauthorized
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	}
	if claims.PlayerID <= 0 || claims.Subject == "" {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthorized, errNoPlayer)
	}
	return &claims, nil
}
