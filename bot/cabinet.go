package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mastera/models"

	"go.uber.org/zap"
	telebot "gopkg.in/tucnak/telebot.v2"
)

func (b *Bot) onCabinet(c *telebot.Callback) {
	b.answer(c, "", false)
	b.sendCabinet(c.Sender, int64(c.Sender.ID))
}

func (b *Bot) sendCabinet(to telebot.Recipient, telegramID int64) {
	master, err := b.Masters.GetByTelegramID(telegramID)
	if err != nil {
		b.send(to, "Вы ещё не зарегистрированы как мастер.")
		b.sendMainMenu(to, telegramID)
		return
	}
	text, kb := b.cabinetCard(master)
	b.send(to, text, kb)
}

// cabinetCard renders the master profile with its action buttons.
func (b *Bot) cabinetCard(master *models.Master) (string, *telebot.ReplyMarkup) {
	now := time.Now()
	toggleTitle := "⏸ Приостановить приём заказов"
	receiving := "включён"
	if !master.IsActive {
		toggleTitle = "▶️ Возобновить приём заказов"
		receiving = "выключен"
	}

	text := fmt.Sprintf(
		"👤 Личный кабинет\n\n"+
			"🧾 Анкета #%d — %s\n"+
			"🏷 Уровень: %s\n"+
			"🎖 Квалификация: %s (заказов выполнено: %d)\n"+
			"⭐ Рейтинг: %s\n"+
			"📂 Категории: %s\n\n"+
			"💎 Подписка: %s\n"+
			"⚡ Приоритет: %s\n"+
			"📌 Закреп анкеты: %s\n"+
			"🎁 Бесплатные заказы: %d\n\n"+
			"📡 Приём заказов: %s",
		master.ID, master.FullName,
		levelTitle(master.Level),
		skillTierTitle(master.SkillTier), master.OrdersCompleted,
		ratingLine(master),
		strings.Join(master.Categories, ", "),
		untilTitle(master.SubUntil, now),
		untilTitle(master.PriorityUntil, now),
		untilTitle(master.PinUntil, now),
		master.FreeOrdersLeft,
		receiving)

	kb := inlineKeyboard(
		[]telebot.InlineButton{btn(cbCabOrders, "📦 Мои заказы", "")},
		[]telebot.InlineButton{
			btn(cbCabStats, "📊 Статистика", ""),
			btn(cbCabReviews, "⭐ Отзывы", ""),
		},
		[]telebot.InlineButton{btn(cbMenuBilling, "💳 Подписка и услуги", "")},
		[]telebot.InlineButton{btn(cbCabToggle, toggleTitle, "")},
		[]telebot.InlineButton{btn(cbMenuMain, "⬅️ Главное меню", "")},
	)
	return text, kb
}

func (b *Bot) onCabinetOrders(c *telebot.Callback) {
	master, err := b.Masters.GetByTelegramID(int64(c.Sender.ID))
	if err != nil {
		b.answer(c, "❌ Ошибка авторизации", true)
		return
	}
	b.answer(c, "", false)

	requests, err := b.Requests.ActiveByMaster(master.ID)
	if err != nil {
		b.Logger.Error("active orders lookup failed", zap.Int64("master_id", master.ID), zap.Error(err))
		b.send(c.Sender, "⚠️ Не получилось загрузить заказы. Попробуйте ещё раз.")
		return
	}
	if len(requests) == 0 {
		b.send(c.Sender, "У вас нет активных заказов.")
		return
	}

	for i := range requests {
		r := &requests[i]
		text := fmt.Sprintf("📦 Заказ #%d\n📂 %s\n📍 %s\n🗓 %s", r.ID, r.Category, r.District, r.WhenText)
		if r.Status == models.RequestStatusPending {
			b.send(c.Sender, text+"\n\n⏳ Ожидает подтверждения клиента.")
			continue
		}
		kb := inlineKeyboard([]telebot.InlineButton{
			btn(cbOrderDone, "✅ Завершить заказ", fmt.Sprintf("%d", r.ID)),
		})
		b.send(c.Sender, text, kb)
	}
}

func (b *Bot) onCabinetStats(c *telebot.Callback) {
	master, err := b.Masters.GetByTelegramID(int64(c.Sender.ID))
	if err != nil {
		b.answer(c, "❌ Ошибка авторизации", true)
		return
	}
	b.answer(c, "", false)

	funnel, err := b.Stats.MasterStats(context.Background(), master.ID)
	if err != nil {
		b.Logger.Error("master stats failed", zap.Int64("master_id", master.ID), zap.Error(err))
		b.send(c.Sender, "⚠️ Не получилось загрузить статистику. Попробуйте ещё раз.")
		return
	}

	b.send(c.Sender, fmt.Sprintf(
		"📊 Ваша статистика\n\n"+
			"📨 Получено предложений: %d\n"+
			"✅ Взято: %d\n"+
			"⏭ Пропущено: %d\n"+
			"📈 Доля взятых: %.0f%%\n\n"+
			"🏁 Завершено заказов: %d\n"+
			"⭐ Рейтинг: %s",
		funnel.Sent, funnel.Taken, funnel.Skipped, funnel.AcceptRate(),
		master.OrdersCompleted, ratingLine(master)))
}

func (b *Bot) onCabinetReviews(c *telebot.Callback) {
	master, err := b.Masters.GetByTelegramID(int64(c.Sender.ID))
	if err != nil {
		b.answer(c, "❌ Ошибка авторизации", true)
		return
	}
	b.answer(c, "", false)

	reviews, err := b.ReviewSvc.LatestForMaster(context.Background(), master.ID, 5)
	if err != nil {
		b.Logger.Error("reviews lookup failed", zap.Int64("master_id", master.ID), zap.Error(err))
		b.send(c.Sender, "⚠️ Не получилось загрузить отзывы. Попробуйте ещё раз.")
		return
	}
	if len(reviews) == 0 {
		b.send(c.Sender, "У вас пока нет отзывов.")
		return
	}

	var sb strings.Builder
	sb.WriteString("⭐ Последние отзывы:\n")
	for _, rev := range reviews {
		sb.WriteString(fmt.Sprintf("\n%s — заказ #%d", strings.Repeat("⭐", rev.Rating), rev.RequestID))
		if rev.Comment != "" {
			sb.WriteString(fmt.Sprintf("\n«%s»", rev.Comment))
		}
		sb.WriteString("\n")
	}
	b.send(c.Sender, sb.String())
}

func (b *Bot) onCabinetToggle(c *telebot.Callback) {
	master, err := b.Masters.GetByTelegramID(int64(c.Sender.ID))
	if err != nil {
		b.answer(c, "❌ Ошибка авторизации", true)
		return
	}

	next := !master.IsActive
	if err := b.Masters.SetActive(master.ID, next); err != nil {
		b.Logger.Error("availability toggle failed", zap.Int64("master_id", master.ID), zap.Error(err))
		b.answer(c, "⚠️ Попробуйте ещё раз.", true)
		return
	}
	master.IsActive = next

	if next {
		b.answer(c, "▶️ Приём заказов возобновлён", false)
	} else {
		b.answer(c, "⏸ Приём заказов приостановлен", false)
	}
	text, kb := b.cabinetCard(master)
	b.edit(c.Message, text, kb)
}

func skillTierTitle(tier string) string {
	switch tier {
	case models.SkillTierProfessional:
		return "профессионал"
	case models.SkillTierMaster:
		return "мастер"
	default:
		return "новичок"
	}
}

func ratingLine(m *models.Master) string {
	if m.ReviewsCount == 0 {
		return "пока нет оценок"
	}
	return fmt.Sprintf("%.1f (отзывов: %d)", m.AvgRating, m.ReviewsCount)
}

func untilTitle(t *time.Time, now time.Time) string {
	if t != nil && t.After(now) {
		return "до " + t.Format("02.01.2006")
	}
	return "нет"
}
