package bot

import (
	"context"
	"errors"
	"strconv"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/shop"
)

// sendInvoice выставляет инвойс Telegram Stars за пакет.
func (b *Bot) sendInvoice(ctx context.Context, chatID int64, slug string) {
	inv, err := b.shop.Invoice(ctx, slug)
	if err != nil {
		if errors.Is(err, common.ErrPackUnavailable) {
			b.sendMessage(ctx, chatID, "⚠️ That Star pack is no longer available.", nil)
			return
		}
		log.WithError(err).WithField("slug", slug).Error("Ошибка подготовки инвойса")
		b.sendMessage(ctx, chatID, userText(err), nil)
		return
	}

	_, err = b.api.SendInvoice(ctx, &telego.SendInvoiceParams{
		ChatID:      tu.ID(chatID),
		Title:       inv.Title,
		Description: inv.Description,
		Payload:     inv.Payload,
		Currency:    inv.Currency,
		Prices:      []telego.LabeledPrice{{Label: inv.Label, Amount: inv.Stars}},
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"chat_id": chatID,
			"slug":    slug,
		}).Error("Ошибка отправки инвойса")
	}
}

// handlePreCheckout подтверждает оплату, только если пакет ещё продаётся.
func (b *Bot) handlePreCheckout(ctx context.Context, q *telego.PreCheckoutQuery) {
	params := &telego.AnswerPreCheckoutQueryParams{PreCheckoutQueryID: q.ID, Ok: true}
	if err := b.shop.CheckPreCheckout(ctx, q.InvoicePayload); err != nil {
		if !common.IsRejection(err) {
			log.WithError(err).Error("Ошибка проверки pre-checkout")
		}
		params.Ok = false
		params.ErrorMessage = "This Star pack is unavailable."
	}

	if err := b.api.AnswerPreCheckoutQuery(ctx, params); err != nil {
		log.WithError(err).WithField("query_id", q.ID).Error("Ошибка ответа на pre-checkout")
	}
}

// handleSuccessfulPayment начисляет пакет. Повтор charge_id не начисляется.
func (b *Bot) handleSuccessfulPayment(ctx context.Context, message *telego.Message) {
	sp := message.SuccessfulPayment
	logger := log.WithFields(log.Fields{
		"user_id":   message.From.ID,
		"charge_id": sp.TelegramPaymentChargeID,
		"payload":   sp.InvoicePayload,
		"stars":     sp.TotalAmount,
	})

	// Оплатить мог и тот, кто ещё не запускал бота через /start
	if _, err := b.ensurePlayer(ctx, message.From); err != nil {
		logger.WithError(err).Error("Ошибка регистрации плательщика")
	}

	purchase, _, err := b.shop.CompleteTelegramPayment(ctx, shop.TelegramPayment{
		TelegramID: strconv.FormatInt(message.From.ID, 10),
		ChargeID:   sp.TelegramPaymentChargeID,
		Payload:    sp.InvoicePayload,
		Currency:   sp.Currency,
		Stars:      int64(sp.TotalAmount),
	})
	if err != nil {
		logger.WithError(err).Error("Ошибка начисления оплаченного пакета")
		b.sendMessage(ctx, message.Chat.ID, userText(err), nil)
		return
	}
	if purchase.Duplicate {
		logger.Warn("Повторный successful_payment, начисление пропущено")
		return
	}

	logger.Info("Пакет оплачен и начислен")
	b.sendMessage(ctx, message.Chat.ID, purchase.Message(), b.playKeyboard())
}
