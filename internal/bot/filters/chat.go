// Package filters решает, в каких чатах бот отвечает на команды.
package filters

import (
	"context"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"
)

// Команды, на которые бот отвечает и в группах.
var groupCommands = map[string]bool{
	"start": true,
	"play":  true,
	"help":  true,
}

// ChatFilter пропускает личные чаты целиком, а в группах только публичные команды.
// Покупки, баланс и награды работают только в личке: там chat_id совпадает с игроком.
type ChatFilter struct {
	bot *telego.Bot
}

func NewChatFilter(bot *telego.Bot) *ChatFilter {
	return &ChatFilter{bot: bot}
}

// Allowed — чистая проверка без сетевых вызовов.
func Allowed(chatType, cmd string) bool {
	if chatType == telego.ChatTypePrivate {
		return true
	}
	return groupCommands[cmd]
}

func (f *ChatFilter) CheckAccess(ctx context.Context, message *telego.Message, cmd string) bool {
	if message == nil || message.From == nil {
		log.WithField("component", "ChatFilter").Warn("nil message.From (service/channel message?)")
		return false
	}

	logger := log.WithFields(log.Fields{
		"component": "ChatFilter",
		"chat_id":   message.Chat.ID,
		"chat_type": message.Chat.Type,
		"user_id":   message.From.ID,
		"cmd":       cmd,
	})

	if Allowed(message.Chat.Type, cmd) {
		logger.Debug("allow")
		return true
	}

	logger.Info("deny: private-only command in group")
	if f.bot == nil {
		return false
	}
	msg := tu.Message(tu.ID(message.Chat.ID), "🦈 This command works in a private chat with me.")
	if _, err := f.bot.SendMessage(ctx, msg); err != nil {
		logger.WithError(err).Warn("failed to send deny message")
	}
	return false
}
