package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mastera/models"
	"mastera/services/review"

	"go.uber.org/zap"
	telebot "gopkg.in/tucnak/telebot.v2"
)

// onReviewRate stores the tapped star rating.
func (b *Bot) onReviewRate(c *telebot.Callback) {
	ids, ok := callbackInts(c.Data, 2)
	if !ok {
		b.answer(c, "", false)
		return
	}
	requestID, stars := ids[0], int(ids[1])

	ctx := context.Background()
	_, created, err := b.ReviewSvc.SubmitRating(ctx, requestID, int64(c.Sender.ID), stars)
	switch {
	case err == nil:
	case errors.Is(err, review.ErrInvalidRating):
		b.answer(c, "Оценка должна быть от 1 до 5.", true)
		return
	case errors.Is(err, review.ErrNotYourRequest):
		b.answer(c, "❌ Это не ваш заказ.", true)
		return
	default:
		b.Logger.Error("rating submit failed", zap.Int64("request_id", requestID), zap.Error(err))
		b.answer(c, "⚠️ Попробуйте ещё раз.", true)
		return
	}
	if !created {
		b.answer(c, "Вы уже оценили этот заказ.", true)
		return
	}

	ref := fmt.Sprintf("%d", requestID)
	kb := inlineKeyboard([]telebot.InlineButton{
		btn(cbReviewText, "📝 Написать отзыв", ref),
		btn(cbReviewSkip, "🚫 Пропустить", ref),
	})
	b.answer(c, "", false)
	b.edit(c.Message, fmt.Sprintf(
		"✅ Спасибо за вашу оценку: %d ⭐\n\nХотите добавить текстовый отзыв?", stars), kb)
}

// onReviewText opens the free-form comment step.
func (b *Bot) onReviewText(c *telebot.Callback) {
	ids, ok := callbackInts(c.Data, 1)
	if !ok {
		b.answer(c, "", false)
		return
	}

	ctx := context.Background()
	sess := models.NewFormSession(c.Message.Chat.ID, models.FlowReviewComment, stepComment)
	sess.RequestID = ids[0]
	b.saveSession(ctx, sess)

	b.answer(c, "", false)
	b.send(c.Sender, "Напишите ваш отзыв о работе мастера:", cancelKeyboard())
}

func (b *Bot) onReviewSkip(c *telebot.Callback) {
	b.answer(c, "", false)
	b.edit(c.Message, "👌 Хорошо! Если передумаете - всегда можете написать отзыв позже.")
}

func (b *Bot) reviewCommentText(ctx context.Context, m *telebot.Message, sess *models.FormSession) {
	text := strings.TrimSpace(m.Text)
	if text == "" {
		b.send(m.Sender, "Напишите ваш отзыв о работе мастера:")
		return
	}

	err := b.ReviewSvc.AttachComment(ctx, sess.RequestID, int64(m.Sender.ID), text)
	switch {
	case err == nil:
	case errors.Is(err, review.ErrNoReview):
		b.send(m.Sender, "Сначала поставьте оценку ⭐")
		return
	case errors.Is(err, review.ErrNotYourRequest):
		b.send(m.Sender, "❌ Это не ваш заказ.")
		return
	default:
		b.Logger.Error("comment attach failed", zap.Int64("request_id", sess.RequestID), zap.Error(err))
		b.send(m.Sender, "⚠️ Не получилось сохранить отзыв. Попробуйте ещё раз.")
		return
	}

	b.clearSession(ctx, m.Chat.ID)
	b.send(m.Sender, "✅ Спасибо за развернутый отзыв! Он очень важен для нашего сообщества.", removeKeyboard())
}
