// Package bot содержит Telegram-бота SharkSpin: команды, магазин Stars,
// доставку рассылок и напоминаний.
// bot.go подключает обработчики и запускает long polling.
package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/bot/filters"
	"serotonyl.ru/sharkspin/internal/bot/middleware"
	"serotonyl.ru/sharkspin/internal/config"
	"serotonyl.ru/sharkspin/internal/features/admin"
	"serotonyl.ru/sharkspin/internal/features/daily"
	"serotonyl.ru/sharkspin/internal/features/links"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/shop"
	"serotonyl.ru/sharkspin/internal/ratelimit"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *telego.Bot
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *ratelimit.Limiter

	players *players.Service
	shop    *shop.Service
	links   *links.Service

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *telego.Bot,
	cfg *config.Config,
	playersService *players.Service,
	shopService *shop.Service,
	linksService *links.Service,
	limiter *ratelimit.Limiter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:         api,
		cfg:         cfg,
		chatFilter:  filters.NewChatFilter(api),
		rateLimiter: limiter,
		players:     playersService,
		shop:        shopService,
		links:       linksService,
		parser:      NewCommandParser(),
		inflight:    make(chan struct{}, maxInFlight),
	}
}

// NewAPI создаёт клиента Telegram с логированием через logrus.
func NewAPI(token string) (*telego.Bot, error) {
	api, err := telego.NewBot(token, telego.WithLogger(log.WithField("component", "telego")))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента Telegram: %w", err)
	}
	return api, nil
}

// Username спрашивает у Telegram имя бота и запоминает его для разбора команд.
func (b *Bot) Username(ctx context.Context) (string, error) {
	me, err := b.api.GetMe(ctx)
	if err != nil {
		return "", fmt.Errorf("getMe: %w", err)
	}
	b.parser.SetUsername(me.Username)
	return me.Username, nil
}

// Start запускает long polling и обрабатывает апдейты до отмены ctx.
func (b *Bot) Start(ctx context.Context) error {
	updates, err := b.api.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: b.cfg.BotUpdateTimeoutSeconds,
		AllowedUpdates: []string{
			"message", "callback_query", "pre_checkout_query",
		},
	})
	if err != nil {
		return fmt.Errorf("ошибка запуска long polling: %w", err)
	}

	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for update := range updates {
		// лимит параллелизма
		b.inflight <- struct{}{}
		go func(upd telego.Update) {
			defer func() { <-b.inflight }()
			b.handleUpdate(ctx, upd)
		}(update)
	}

	// дождаться обработчиков в работе
	for i := 0; i < cap(b.inflight); i++ {
		b.inflight <- struct{}{}
	}
	log.Info("Бот остановлен")
	return nil
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update telego.Update) {
	defer middleware.RecoverFromPanic(update.UpdateID)

	switch {
	case update.PreCheckoutQuery != nil:
		b.handlePreCheckout(ctx, update.PreCheckoutQuery)
		return
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
		return
	case update.Message == nil || update.Message.From == nil:
		return
	}

	message := update.Message

	// Оплату обрабатываем без rate limit: Telegram уже списал звёзды
	if message.SuccessfulPayment != nil {
		b.handleSuccessfulPayment(ctx, message)
		return
	}
	if message.Text == "" {
		return
	}

	middleware.LogMessage(message)

	cmd, ok := b.parser.Parse(message.Text)
	if !ok {
		return
	}

	if !b.chatFilter.CheckAccess(ctx, message, cmd.Name) {
		return
	}

	if !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	b.routeCommand(ctx, message, cmd.Name, cmd.Args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, message *telego.Message, cmd string, args []string) {
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	switch cmd {
	case "start":
		b.handleStart(ctx, message, args)
	case "help":
		b.sendMessage(ctx, message.Chat.ID, welcomeText(), b.playKeyboard())
	case "play":
		b.sendMessage(ctx, message.Chat.ID, "🦈 Tap below to dive into SharkSpin.", b.playKeyboard())
	case "me":
		b.handleMe(ctx, message)
	case "buy":
		b.handleBuy(ctx, message, args)
	case "reward":
		b.handleReward(ctx, message, args)
	}
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string, markup *telego.InlineKeyboardMarkup) {
	msg := tu.Message(tu.ID(chatID), text)
	if markup != nil {
		msg = msg.WithReplyMarkup(markup)
	}
	if _, err := b.api.SendMessage(ctx, msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// playKeyboard — кнопка запуска мини-приложения.
func (b *Bot) playKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("🦈 Open SharkSpin").WithWebApp(&telego.WebAppInfo{URL: b.cfg.WebAppURL}),
	))
}

// SendBroadcast доставляет рассылку в личный чат (admin.Sender).
func (b *Bot) SendBroadcast(ctx context.Context, chatID int64, br *admin.Broadcast) error {
	msg := tu.Message(tu.ID(chatID), br.Text())
	if br.RewardURL != "" {
		msg = msg.WithReplyMarkup(tu.InlineKeyboard(tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🎁 Claim reward").WithURL(br.RewardURL),
		)))
	} else {
		msg = msg.WithReplyMarkup(b.playKeyboard())
	}
	_, err := b.api.SendMessage(ctx, msg)
	return err
}

// SendReminder напоминает игроку о ежедневной награде.
func (b *Bot) SendReminder(ctx context.Context, r daily.Reminder) error {
	chatID, err := strconv.ParseInt(r.TelegramID, 10, 64)
	if err != nil {
		return fmt.Errorf("некорректный telegram_id %q: %w", r.TelegramID, err)
	}
	msg := tu.Message(tu.ID(chatID), reminderText(r.Streak)).WithReplyMarkup(b.playKeyboard())
	if _, err := b.api.SendMessage(ctx, msg); err != nil {
		return err
	}
	log.WithField("user_id", chatID).Debug("reminder sent")
	return nil
}
