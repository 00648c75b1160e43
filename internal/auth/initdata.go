package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// Ошибки проверки initData
var (
	ErrInitDataInvalid = errors.New("initData не прошли проверку подписи")
	ErrInitDataExpired = errors.New("initData устарели")
	ErrInitDataNoUser  = errors.New("в initData нет пользователя")
)

// WebAppUser — пользователь из initData.
type WebAppUser struct {
	TelegramID string
	Username   string
	FirstName  string
}

// InitDataValidator проверяет данные запуска мини-приложения подписью бота.
type InitDataValidator struct {
	botToken string
	maxAge   time.Duration
	now      func() time.Time
}

func NewInitDataValidator(botToken string, maxAge time.Duration) *InitDataValidator {
	return &InitDataValidator{botToken: botToken, maxAge: maxAge, now: time.Now}
}

// Validate проверяет HMAC-подпись, возраст auth_date и достаёт пользователя.
func (v *InitDataValidator) Validate(initData string) (*WebAppUser, error) {
	values, err := tu.ValidateWebAppData(v.botToken, initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitDataInvalid, err)
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: auth_date: %w", ErrInitDataInvalid, err)
	}
	if v.maxAge > 0 && v.now().Sub(time.Unix(authDate, 0)) > v.maxAge {
		return nil, ErrInitDataExpired
	}

	raw := values.Get("user")
	if raw == "" {
		return nil, ErrInitDataNoUser
	}
	var user telego.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitDataNoUser, err)
	}
	if user.ID == 0 {
		return nil, ErrInitDataNoUser
	}

	return &WebAppUser{
		TelegramID: strconv.FormatInt(user.ID, 10),
		Username:   user.Username,
		FirstName:  user.FirstName,
	}, nil
}
