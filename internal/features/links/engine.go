package links

import (
	"fmt"
	"net/url"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/progression"
)

// Код ссылки: без похожих символов (0/O, 1/I)
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 10
)

// DeepLinkPrefix — префикс параметра startapp для активации ссылки.
const DeepLinkPrefix = "redeem_"

// NewCode генерирует код ссылки.
func NewCode() (string, error) {
	return gonanoid.Generate(codeAlphabet, codeLength)
}

// Validate проверяет параметры новой ссылки и приводит тип награды к каноническому.
func Validate(in *CreateInput) error {
	t, err := economy.ParseRewardType(in.RewardType)
	if err != nil {
		return err
	}
	if err := economy.CheckAmount(in.Amount); err != nil {
		return err
	}
	if in.Uses < 1 {
		return common.ErrInvalidUses
	}
	in.RewardType = string(t)
	in.Title = strings.TrimSpace(in.Title)
	in.Note = strings.TrimSpace(in.Note)
	return nil
}

// Engine применяет ссылку к игроку.
type Engine struct {
	Rewards *economy.Engine
	Levels  *progression.Tracker
}

// Redeem начисляет награду ссылки и уменьшает число использований.
// Последнее использование деактивирует ссылку.
func (e *Engine) Redeem(p *players.Player, l *Link) (*RedeemResult, error) {
	if !l.IsActive || l.UsesLeft <= 0 {
		return nil, common.ErrLinkExhausted
	}
	reward, err := l.Reward()
	if err != nil {
		return nil, err
	}

	if err := e.Rewards.Apply(p, reward); err != nil {
		return nil, err
	}
	l.UsesLeft--
	if l.UsesLeft <= 0 {
		l.IsActive = false
	}

	grants, err := e.Levels.ResolveLevelRewards(p)
	if err != nil {
		return nil, err
	}

	left := max(l.UsesLeft, 0)
	return &RedeemResult{
		Reward:      reward,
		UsesLeft:    left,
		Message:     fmt.Sprintf("🎁 You received %s! (%d uses left)", reward, left),
		LevelGrants: grants,
	}, nil
}

// URLs строит адреса ссылки.
type URLs struct {
	WebAppURL   string
	BotUsername string
}

// Web — страница активации в мини-приложении.
func (u URLs) Web(token string) string {
	return strings.TrimRight(u.WebAppURL, "/") + "/redeem/" + url.PathEscape(token)
}

// DeepLink открывает мини-приложение в Telegram сразу с активацией.
func (u URLs) DeepLink(code string) string {
	return fmt.Sprintf("https://t.me/%s/startapp?startapp=%s%s",
		strings.TrimPrefix(u.BotUsername, "@"), DeepLinkPrefix, code)
}

// Summary — краткое описание: "+500 SharkCoins x3 uses".
func Summary(l *Link) string {
	reward, err := l.Reward()
	if err != nil {
		return fmt.Sprintf("+%d %s", l.Amount, l.RewardType)
	}
	return fmt.Sprintf("+%s x%d %s", reward, l.UsesLeft, common.Pluralize(int64(l.UsesLeft), "use", "uses"))
}
