package bot

import (
	"context"
	"fmt"
	"strings"

	"mastera/models"
	"mastera/services/ratelimit"

	"go.uber.org/zap"
	telebot "gopkg.in/tucnak/telebot.v2"
)

// onMenuRequest opens the client request form.
func (b *Bot) onMenuRequest(c *telebot.Callback) {
	chatID := c.Message.Chat.ID

	rule := ratelimit.NewRequestRule
	if !b.Limiter.Allow(fmt.Sprintf("new_request:%d", chatID), rule.Limit, rule.Window) {
		b.answer(c, "❌ Можно отправлять не более 3 заявок в час. Попробуйте позже.", true)
		return
	}
	b.answer(c, "", false)

	ctx := context.Background()
	b.saveSession(ctx, models.NewFormSession(chatID, models.FlowClientRequest, stepName))
	b.send(c.Sender, "Как вас зовут?", cancelKeyboard())
}

func (b *Bot) requestFormText(ctx context.Context, m *telebot.Message, sess *models.FormSession) {
	text := strings.TrimSpace(m.Text)

	switch sess.Step {
	case stepName:
		if text == "" {
			b.send(m.Sender, "Как вас зовут?")
			return
		}
		sess.Data["name"] = text
		sess.Step = stepPhone
		b.saveSession(ctx, sess)
		b.send(m.Sender, "📱 Отправьте номер телефона кнопкой ниже или введите вручную:", phoneKeyboard())

	case stepPhone:
		b.requestFormPhone(ctx, m, sess, text)

	case stepDistrict:
		if len([]rune(text)) < 5 {
			b.send(m.Sender, "❌ Адрес слишком короткий. Укажите улицу и номер дома.")
			return
		}
		sess.Data["district"] = text
		sess.Step = stepDesc
		b.saveSession(ctx, sess)
		b.send(m.Sender, "Коротко опишите задачу:")

	case stepDesc:
		if text == "" {
			b.send(m.Sender, "Коротко опишите задачу:")
			return
		}
		sess.Data["description"] = text
		sess.Step = stepWhen
		b.saveSession(ctx, sess)
		b.send(m.Sender, "Когда нужно выполнить? (дата/время, удобные слоты)")

	case stepWhen:
		if text == "" {
			b.send(m.Sender, "Когда нужно выполнить? (дата/время, удобные слоты)")
			return
		}
		sess.Data["when"] = text
		sess.Step = stepPreview
		b.saveSession(ctx, sess)
		b.sendRequestPreview(m.Sender, sess)

	default:
		// The category step is driven by buttons.
		b.send(m.Sender, "Пожалуйста, используйте кнопки выше 👆")
	}
}

func (b *Bot) requestFormPhone(ctx context.Context, m *telebot.Message, sess *models.FormSession, raw string) {
	phone, ok := models.NormalizePhone(raw)
	if !ok {
		b.send(m.Sender, "❌ Неверный формат номера. Примеры: +79991234567, 89991234567.")
		return
	}
	sess.Data["phone"] = phone
	sess.Step = stepCategory
	b.saveSession(ctx, sess)

	rows := make([][]telebot.InlineButton, 0, len(models.ClientCategories))
	for _, cat := range models.ClientCategories {
		rows = append(rows, []telebot.InlineButton{btn(cbReqCategory, cat, cat)})
	}
	b.send(m.Sender, "Выберите категорию услуги:", inlineKeyboard(rows...))
}

func (b *Bot) onRequestCategory(c *telebot.Callback) {
	ctx := context.Background()
	sess := b.session(ctx, c.Message.Chat.ID)
	if sess == nil || sess.Flow != models.FlowClientRequest || sess.Step != stepCategory {
		b.answer(c, "Форма устарела, начните заново.", false)
		return
	}

	category := strings.TrimSpace(c.Data)
	if !models.IsClientCategory(category) {
		b.answer(c, "Неизвестная категория", false)
		return
	}
	sess.Data["category"] = category
	sess.Step = stepDistrict
	b.saveSession(ctx, sess)

	b.answer(c, "", false)
	b.edit(c.Message, fmt.Sprintf("📂 Категория: %s", category))
	b.send(c.Sender, "📍 Укажите адрес выполнения работ:\n(например: ул. Ленина, 25, кв. 10)")
}

func (b *Bot) sendRequestPreview(to telebot.Recipient, sess *models.FormSession) {
	text := fmt.Sprintf(
		"Проверьте заявку:\n\n"+
			"👤 Имя: %s\n"+
			"📞 Телефон: %s\n"+
			"📂 Категория: %s\n"+
			"📍 Адрес: %s\n"+
			"📝 Описание: %s\n"+
			"🗓 Когда: %s\n\n"+
			"Отправить?",
		sess.Data["name"], sess.Data["phone"], sess.Data["category"],
		sess.Data["district"], sess.Data["description"], sess.Data["when"])
	kb := inlineKeyboard([]telebot.InlineButton{
		btn(cbReqSubmit, "✅ Отправить", ""),
		btn(cbMenuRequest, "✏️ Исправить", ""),
	})
	b.send(to, text, kb)
}

func (b *Bot) onRequestSubmit(c *telebot.Callback) {
	ctx := context.Background()
	chatID := c.Message.Chat.ID
	sess := b.session(ctx, chatID)
	if sess == nil || sess.Flow != models.FlowClientRequest || sess.Step != stepPreview {
		b.answer(c, "Форма устарела, начните заново.", false)
		return
	}

	id, err := b.Sequence.Next("requests")
	if err != nil {
		b.Logger.Error("request id allocation failed", zap.Error(err))
		b.answer(c, "⚠️ Не получилось сохранить заявку. Попробуйте ещё раз.", true)
		return
	}
	request := &models.Request{
		ID:          id,
		ClientID:    int64(c.Sender.ID),
		Name:        sess.Data["name"],
		Phone:       sess.Data["phone"],
		Category:    sess.Data["category"],
		District:    sess.Data["district"],
		Description: sess.Data["description"],
		WhenText:    sess.Data["when"],
		Status:      models.RequestStatusNew,
	}
	if err := b.Requests.Create(request); err != nil {
		b.Logger.Error("request create failed", zap.Int64("request_id", id), zap.Error(err))
		b.answer(c, "⚠️ Не получилось сохранить заявку. Попробуйте ещё раз.", true)
		return
	}

	b.clearSession(ctx, chatID)
	b.answer(c, "", false)
	b.edit(c.Message, fmt.Sprintf("✅ Заявка #%d отправлена!", id))
	b.NotifyAdmin(fmt.Sprintf(
		"🆕 Заявка #%d\n👤 %s | %s\n📂 %s\n📍 Адрес: %s\n📝 %s\n🗓 %s",
		id, request.Name, request.Phone, request.Category,
		request.District, request.Description, request.WhenText))

	sent, err := b.Offers.Broadcast(ctx, request)
	if err != nil {
		b.Logger.Error("offer broadcast failed", zap.Int64("request_id", id), zap.Error(err))
	}
	if sent > 0 {
		b.send(c.Sender, fmt.Sprintf("📣 Заявка отправлена %d мастерам. Ожидайте откликов!", sent), removeKeyboard())
	} else {
		b.send(c.Sender, "📣 Заявка принята. Мы подберём мастера и свяжемся с вами.", removeKeyboard())
	}
}
