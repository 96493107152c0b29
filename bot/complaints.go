package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mastera/models"

	"go.uber.org/zap"
	telebot "gopkg.in/tucnak/telebot.v2"
)

// onMenuComplaint opens the complaint form.
func (b *Bot) onMenuComplaint(c *telebot.Callback) {
	b.answer(c, "", false)
	ctx := context.Background()
	b.saveSession(ctx, models.NewFormSession(c.Message.Chat.ID, models.FlowComplaint, stepSubject))
	b.send(c.Sender, "Жалоба. Кто вы? (клиент/мастер/другое)", cancelKeyboard())
}

func (b *Bot) complaintFormText(ctx context.Context, m *telebot.Message, sess *models.FormSession) {
	text := strings.TrimSpace(m.Text)

	switch sess.Step {
	case stepSubject:
		if text == "" {
			b.send(m.Sender, "Кто вы? (клиент/мастер/другое)")
			return
		}
		sess.Data["subject"] = text
		sess.Step = stepRequestRef
		b.saveSession(ctx, sess)
		b.send(m.Sender, "ID заказа (если знаете) или «нет»:")

	case stepRequestRef:
		if id, err := strconv.ParseInt(strings.TrimPrefix(text, "#"), 10, 64); err == nil {
			sess.RequestID = id
		}
		sess.Step = stepText
		b.saveSession(ctx, sess)
		b.send(m.Sender, "Опишите проблему коротко:")

	case stepText:
		if text == "" {
			b.send(m.Sender, "Опишите проблему коротко:")
			return
		}
		b.submitComplaint(ctx, m, sess, text)

	default:
		b.clearSession(ctx, m.Chat.ID)
		b.sendMainMenu(m.Sender, int64(m.Sender.ID))
	}
}

func (b *Bot) submitComplaint(ctx context.Context, m *telebot.Message, sess *models.FormSession, text string) {
	id, err := b.Sequence.Next("complaints")
	if err != nil {
		b.Logger.Error("complaint id allocation failed", zap.Error(err))
		b.send(m.Sender, "⚠️ Не получилось отправить жалобу. Попробуйте ещё раз.")
		return
	}
	complaint := &models.Complaint{
		ID:        id,
		ClientID:  int64(m.Sender.ID),
		RequestID: sess.RequestID,
		Text:      fmt.Sprintf("[%s] %s", sess.Data["subject"], text),
	}
	if err := b.Complaints.Create(complaint); err != nil {
		b.Logger.Error("complaint create failed", zap.Int64("complaint_id", id), zap.Error(err))
		b.send(m.Sender, "⚠️ Не получилось отправить жалобу. Попробуйте ещё раз.")
		return
	}

	b.clearSession(ctx, m.Chat.ID)
	b.send(m.Sender, "✅ Жалоба отправлена. Мы свяжемся с вами.", removeKeyboard())

	ref := ""
	if complaint.RequestID != 0 {
		ref = fmt.Sprintf(" (заказ #%d)", complaint.RequestID)
	}
	b.NotifyAdmin(fmt.Sprintf("🚨 Жалоба #%d%s от %d:\n%s", id, ref, complaint.ClientID, complaint.Text))
}
