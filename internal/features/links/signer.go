package links

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// linkClaims — содержимое токена ссылки. jti — код ссылки.
type linkClaims struct {
	jwt.RegisteredClaims
	RewardType string `json:"type"`
	Amount     int64  `json:"amount"`
}

// Signer подписывает токены ссылок (HS256). Срок жизни у токена нет:
// ссылка живёт, пока активна её строка в БД.
type Signer struct {
	key []byte
	now func() time.Time
}

func NewSigner(secret string) *Signer {
	return &Signer{key: []byte(secret), now: time.Now}
}

// Sign выпускает токен для ссылки.
func (s *Signer) Sign(l *Link) (string, error) {
	claims := linkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       l.Code,
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
		RewardType: l.RewardType,
		Amount:     l.Amount,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи ссылки: %w", err)
	}
	return token, nil
}

// Code проверяет подпись и возвращает код ссылки.
func (s *Signer) Code(token string) (string, error) {
	var claims linkClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("в токене нет кода ссылки")
	}
	return claims.ID, nil
}
