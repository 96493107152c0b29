package bot

import (
	"context"
	"errors"
	"fmt"

	"mastera/models"
	"mastera/services/offer"
	"mastera/services/ratelimit"

	"go.uber.org/zap"
	telebot "gopkg.in/tucnak/telebot.v2"
)

// offerActionAllowed throttles take/skip taps per acting user.
func (b *Bot) offerActionAllowed(callerTelegramID int64) bool {
	rule := ratelimit.OfferActionsRule
	return b.Limiter.Allow(fmt.Sprintf("offer_actions:%d", callerTelegramID), rule.Limit, rule.Window)
}

func (b *Bot) onOfferTake(c *telebot.Callback) {
	ids, ok := callbackInts(c.Data, 2)
	if !ok {
		b.answer(c, "", false)
		return
	}
	requestID := ids[0]
	callerID := int64(c.Sender.ID)

	if !b.offerActionAllowed(callerID) {
		b.answer(c, "❌ Слишком много действий. Подождите немного.", true)
		return
	}

	ctx := context.Background()
	_, err := b.Offers.Claim(ctx, requestID, callerID)
	switch {
	case err == nil:
	case errors.Is(err, offer.ErrNotMaster), errors.Is(err, offer.ErrForeignOffer):
		b.answer(c, "❌ Ошибка авторизации", true)
		return
	case errors.Is(err, offer.ErrAlreadyTaken):
		b.answer(c, "Заказ уже взят другим мастером", true)
		b.edit(c.Message, fmt.Sprintf("❌ Заявка #%d уже взята другим мастером.", requestID))
		return
	case errors.Is(err, offer.ErrQuotaExhausted):
		b.answer(c, "", false)
		kb := inlineKeyboard([]telebot.InlineButton{
			btn(cbPay, "💳 Оформить подписку", models.ProductSub30),
		})
		b.send(c.Sender, "❌ У вас закончились 3 бесплатных заказа. Оформите подписку, чтобы брать заказы без ограничений.", kb)
		return
	default:
		b.Logger.Error("claim failed", zap.Int64("request_id", requestID), zap.Error(err))
		b.answer(c, "⚠️ Не получилось взять заказ. Попробуйте ещё раз.", true)
		return
	}

	// The claim itself already messaged both sides with the order details.
	b.answer(c, "", false)
	b.edit(c.Message, fmt.Sprintf("✅ Заказ #%d закреплён за вами!", requestID))
}

func (b *Bot) onOfferSkip(c *telebot.Callback) {
	ids, ok := callbackInts(c.Data, 2)
	if !ok {
		b.answer(c, "", false)
		return
	}
	requestID := ids[0]
	callerID := int64(c.Sender.ID)

	if !b.offerActionAllowed(callerID) {
		b.answer(c, "❌ Слишком много действий. Подождите немного.", true)
		return
	}

	ctx := context.Background()
	if err := b.Offers.Skip(ctx, requestID, callerID); err != nil {
		switch {
		case errors.Is(err, offer.ErrNotMaster), errors.Is(err, offer.ErrForeignOffer):
			b.answer(c, "❌ Ошибка авторизации", true)
		default:
			b.Logger.Error("offer skip failed", zap.Int64("request_id", requestID), zap.Error(err))
			b.answer(c, "⚠️ Попробуйте ещё раз.", true)
		}
		return
	}

	b.answer(c, "Пропущено", false)
	b.edit(c.Message, fmt.Sprintf("⏭ Заявка #%d пропущена.", requestID))
}
