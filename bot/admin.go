package bot

import (
	"context"
	"fmt"
	"strings"

	"mastera/models"

	"go.uber.org/zap"
	telebot "gopkg.in/tucnak/telebot.v2"
)

// onAdminStats serves /stats for the admin chat.
func (b *Bot) onAdminStats(m *telebot.Message) {
	if !b.isAdmin(int64(m.Sender.ID)) {
		b.send(m.Sender, "❌ Доступно только администратору.")
		return
	}

	overview, err := b.Stats.Overview(context.Background())
	if err != nil {
		b.Logger.Error("stats overview failed", zap.Error(err))
		b.send(m.Sender, "⚠️ Не получилось собрать статистику.")
		return
	}

	req := overview.RequestsByStatus
	off := overview.OffersByStatus
	b.send(m.Sender, fmt.Sprintf(
		"📊 Статистика площадки\n\n"+
			"📋 Заявки:\n"+
			"• новые: %d\n"+
			"• в работе: %d\n"+
			"• ждут подтверждения: %d\n"+
			"• завершены: %d\n\n"+
			"👨‍🔧 Мастера: %d (активных: %d)\n\n"+
			"📨 Предложения:\n"+
			"• отправлено: %d\n"+
			"• взято: %d\n"+
			"• пропущено: %d\n\n"+
			"⭐ Отзывы: %d (средняя оценка: %.1f)",
		req[models.RequestStatusNew], req[models.RequestStatusAssigned],
		req[models.RequestStatusPending], req[models.RequestStatusCompleted],
		overview.MastersTotal, overview.MastersActive,
		off[models.OfferStatusSent], off[models.OfferStatusTaken], off[models.OfferStatusSkipped],
		overview.ReviewsCount, overview.AvgRating))
}

// onAdminMasters serves /masters, the best-rated masters digest.
func (b *Bot) onAdminMasters(m *telebot.Message) {
	if !b.isAdmin(int64(m.Sender.ID)) {
		b.send(m.Sender, "❌ Доступно только администратору.")
		return
	}

	masters, err := b.Stats.TopMasters(context.Background(), 10)
	if err != nil {
		b.Logger.Error("top masters failed", zap.Error(err))
		b.send(m.Sender, "⚠️ Не получилось собрать список мастеров.")
		return
	}
	if len(masters) == 0 {
		b.send(m.Sender, "Пока нет мастеров.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Лучшие мастера:\n")
	for i, master := range masters {
		sb.WriteString(fmt.Sprintf(
			"\n%d. #%d %s — ⭐ %s, заказов: %d, уровень: %s",
			i+1, master.ID, master.FullName, ratingLine(&master),
			master.OrdersCompleted, levelTitle(master.Level)))
	}
	b.send(m.Sender, sb.String())
}
