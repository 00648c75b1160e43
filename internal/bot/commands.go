package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/links"
	"serotonyl.ru/sharkspin/internal/features/players"
)

// ensurePlayer создаёт аккаунт при первом обращении.
func (b *Bot) ensurePlayer(ctx context.Context, from *telego.User) (*players.Player, error) {
	return b.players.Ensure(ctx, strconv.FormatInt(from.ID, 10), from.Username)
}

// handleStart — /start [buy_<slug> | redeem_<code>].
func (b *Bot) handleStart(ctx context.Context, message *telego.Message, args []string) {
	chatID := message.Chat.ID
	p, err := b.ensurePlayer(ctx, message.From)
	if err != nil {
		log.WithError(err).WithField("user_id", message.From.ID).Error("Ошибка регистрации игрока")
		b.sendMessage(ctx, chatID, userText(err), nil)
		return
	}

	if len(args) > 0 {
		param := args[0]
		switch {
		case strings.HasPrefix(param, startBuyPrefix):
			b.sendInvoice(ctx, chatID, strings.TrimPrefix(param, startBuyPrefix))
			return
		case strings.HasPrefix(param, startRedeemPrefix):
			b.redeem(ctx, chatID, p, strings.TrimPrefix(param, startRedeemPrefix))
			return
		}
	}

	b.sendMessage(ctx, chatID, welcomeText(), b.playKeyboard())
}

func (b *Bot) redeem(ctx context.Context, chatID int64, p *players.Player, code string) {
	result, _, err := b.links.Redeem(ctx, p.ID, code)
	if err != nil {
		if !common.IsRejection(err) {
			log.WithError(err).WithField("player_id", p.ID).Error("Ошибка активации ссылки")
		}
		b.sendMessage(ctx, chatID, userText(err), b.playKeyboard())
		return
	}
	b.sendMessage(ctx, chatID, result.Message, b.playKeyboard())
}

// handleMe — балансы игрока.
func (b *Bot) handleMe(ctx context.Context, message *telego.Message) {
	p, err := b.ensurePlayer(ctx, message.From)
	if err != nil {
		log.WithError(err).WithField("user_id", message.From.ID).Error("Ошибка загрузки игрока")
		b.sendMessage(ctx, message.Chat.ID, userText(err), nil)
		return
	}
	b.sendMessage(ctx, message.Chat.ID, balanceText(p), b.playKeyboard())
}

// handleBuy — /buy показывает пакеты, /buy <slug> выставляет инвойс.
func (b *Bot) handleBuy(ctx context.Context, message *telego.Message, args []string) {
	chatID := message.Chat.ID
	if len(args) > 0 {
		b.sendInvoice(ctx, chatID, args[0])
		return
	}

	items, err := b.shop.Items(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка загрузки магазина")
		b.sendMessage(ctx, chatID, userText(err), nil)
		return
	}

	rows := make([][]telego.InlineKeyboardButton, 0, len(items))
	for _, it := range items {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(fmt.Sprintf("%s (%d⭐)", it.Name, it.Stars)).
				WithCallbackData(buyCallbackPrefix+it.Slug),
		))
	}
	var markup *telego.InlineKeyboardMarkup
	if len(rows) > 0 {
		markup = tu.InlineKeyboard(rows...)
	}
	b.sendMessage(ctx, chatID, shopText(items), markup)
}

// handleReward — /reward <type> <amount> [uses], только для админов.
func (b *Bot) handleReward(ctx context.Context, message *telego.Message, args []string) {
	chatID := message.Chat.ID
	if !b.cfg.IsAdmin(message.From.ID) {
		log.WithField("user_id", message.From.ID).Warn("Попытка создать награду без прав")
		b.sendMessage(ctx, chatID, "❌ You're not authorized to create rewards.", nil)
		return
	}

	rewardType, amount, uses, err := parseRewardArgs(args)
	if err != nil {
		b.sendMessage(ctx, chatID, userText(err), nil)
		return
	}

	created, err := b.links.Create(ctx, links.CreateInput{
		RewardType: string(rewardType),
		Amount:     amount,
		Uses:       uses,
		CreatedBy:  strconv.FormatInt(message.From.ID, 10),
	})
	if err != nil {
		log.WithError(err).Error("Ошибка создания reward-ссылки")
		b.sendMessage(ctx, chatID, userText(err), nil)
		return
	}

	b.sendMessage(ctx, chatID, rewardCreatedText(rewardType, amount, uses), tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("🎁 Open reward in SharkSpin").WithURL(created.DeepLink),
	)))
}

// handleCallback — нажатия inline-кнопок.
func (b *Bot) handleCallback(ctx context.Context, q *telego.CallbackQuery) {
	answer := tu.CallbackQuery(q.ID)

	slug, ok := strings.CutPrefix(q.Data, buyCallbackPrefix)
	if !ok {
		if err := b.api.AnswerCallbackQuery(ctx, answer); err != nil {
			log.WithError(err).Warn("Ошибка ответа на callback")
		}
		return
	}

	if _, err := b.shop.Item(ctx, slug); err != nil {
		if !errors.Is(err, common.ErrPackUnavailable) {
			log.WithError(err).Error("Ошибка проверки пакета")
		}
		answer = answer.WithText("⚠️ This Star pack is unavailable.").WithShowAlert()
		if err := b.api.AnswerCallbackQuery(ctx, answer); err != nil {
			log.WithError(err).Warn("Ошибка ответа на callback")
		}
		return
	}

	if err := b.api.AnswerCallbackQuery(ctx, answer); err != nil {
		log.WithError(err).Warn("Ошибка ответа на callback")
	}
	// Инвойс уходит в личку нажавшего
	b.sendInvoice(ctx, q.From.ID, slug)
}
