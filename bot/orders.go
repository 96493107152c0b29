package bot

import (
	"context"
	"errors"
	"fmt"

	"mastera/services/order"

	"go.uber.org/zap"
	telebot "gopkg.in/tucnak/telebot.v2"
)

// onOrderDone is the assigned master reporting finished work.
func (b *Bot) onOrderDone(c *telebot.Callback) {
	ids, ok := callbackInts(c.Data, 1)
	if !ok {
		b.answer(c, "", false)
		return
	}
	requestID := ids[0]

	ctx := context.Background()
	err := b.Orders.MarkDone(ctx, requestID, int64(c.Sender.ID))
	switch {
	case err == nil:
	case errors.Is(err, order.ErrNotMaster), errors.Is(err, order.ErrNotYourOrder):
		b.answer(c, "❌ Ошибка авторизации", true)
		return
	case errors.Is(err, order.ErrAlreadyPending):
		b.answer(c, "Вы уже отметили заказ. Ожидаем клиента.", true)
		return
	case errors.Is(err, order.ErrAlreadyCompleted):
		b.answer(c, "Заказ уже завершён.", true)
		return
	case errors.Is(err, order.ErrInvalidState):
		b.answer(c, "Заказ нельзя завершить из текущего состояния.", true)
		return
	default:
		b.Logger.Error("mark done failed", zap.Int64("request_id", requestID), zap.Error(err))
		b.answer(c, "⚠️ Попробуйте ещё раз.", true)
		return
	}

	b.answer(c, "", false)
	b.edit(c.Message, fmt.Sprintf(
		"⏳ Вы отметили заказ #%d как выполненный.\nОжидаем подтверждения от клиента.", requestID))
}

// onConfirmOK is the client accepting completion.
func (b *Bot) onConfirmOK(c *telebot.Callback) {
	ids, ok := callbackInts(c.Data, 1)
	if !ok {
		b.answer(c, "", false)
		return
	}
	requestID := ids[0]

	ctx := context.Background()
	err := b.Orders.Confirm(ctx, requestID, int64(c.Sender.ID))
	switch {
	case err == nil:
	case errors.Is(err, order.ErrNotYourRequest):
		b.answer(c, "❌ Это не ваш заказ.", true)
		return
	case errors.Is(err, order.ErrInvalidState):
		b.answer(c, "Заказ уже обработан.", false)
		return
	default:
		b.Logger.Error("confirm failed", zap.Int64("request_id", requestID), zap.Error(err))
		b.answer(c, "⚠️ Попробуйте ещё раз.", true)
		return
	}

	b.answer(c, "", false)
	b.edit(c.Message, "✅ Спасибо за подтверждение!\nПожалуйста, оцените работу мастера 👇")
}

// onConfirmBad is the client rejecting completion.
func (b *Bot) onConfirmBad(c *telebot.Callback) {
	ids, ok := callbackInts(c.Data, 1)
	if !ok {
		b.answer(c, "", false)
		return
	}
	requestID := ids[0]

	ctx := context.Background()
	err := b.Orders.Dispute(ctx, requestID, int64(c.Sender.ID))
	switch {
	case err == nil:
	case errors.Is(err, order.ErrNotYourRequest):
		b.answer(c, "❌ Это не ваш заказ.", true)
		return
	case errors.Is(err, order.ErrInvalidState):
		b.answer(c, "Заказ уже обработан.", false)
		return
	default:
		b.Logger.Error("dispute failed", zap.Int64("request_id", requestID), zap.Error(err))
		b.answer(c, "⚠️ Попробуйте ещё раз.", true)
		return
	}

	b.answer(c, "", false)
	b.edit(c.Message,
		"😔 Нам очень жаль, что возникли проблемы.\n\n"+
			"Администратор свяжется с вами для решения вопроса. Заказ возвращён мастеру в работу.")
}
