package bot

import (
	"context"
	"errors"
	"fmt"

	"mastera/config"
	"mastera/models"
	"mastera/services/notify"

	"go.uber.org/zap"
	telebot "gopkg.in/tucnak/telebot.v2"
)

// The bot renders and delivers every product notification itself, so it
// is the notify.Notifier implementation handed to the services.

func (b *Bot) NewOffer(ctx context.Context, master *models.Master, request *models.Request) error {
	data := fmt.Sprintf("%d:%d", request.ID, master.ID)
	kb := inlineKeyboard([]telebot.InlineButton{
		btn(cbOfferTake, "✅ Беру", data),
		btn(cbOfferSkip, "⏭ Пропустить", data),
	})
	text := fmt.Sprintf(
		"🆕 Новая заявка #%d\n\n"+
			"📂 Категория: %s\n"+
			"📍 Адрес: %s\n"+
			"📝 Описание: %s\n"+
			"🗓 Когда: %s\n\n"+
			"❗️ Контакты клиента будут отправлены после согласия.",
		request.ID, request.Category, request.District, request.Description, request.WhenText)
	return b.deliver(master.TelegramID, text, kb)
}

func (b *Bot) RequestAssignedClient(ctx context.Context, request *models.Request, master *models.Master) error {
	phone := master.Phone
	if phone == "" {
		phone = "не указан"
	}
	text := fmt.Sprintf(
		"✅ Ваш заказ #%d взят в работу!\n\n"+
			"👨‍🔧 Мастер: %s\n"+
			"📞 Телефон: %s\n\n"+
			"Мастер свяжется с вами в ближайшее время.",
		request.ID, master.FullName, phone)
	return b.deliver(request.ClientID, text)
}

func (b *Bot) RequestAssignedMaster(ctx context.Context, master *models.Master, request *models.Request) error {
	kb := inlineKeyboard([]telebot.InlineButton{
		btn(cbOrderDone, "✅ Завершить заказ", fmt.Sprintf("%d", request.ID)),
	})
	text := fmt.Sprintf(
		"📋 Детали заказа #%d\n\n"+
			"👤 Клиент: %s\n"+
			"📞 Контакт: %s\n"+
			"📍 Адрес: %s\n"+
			"📝 Описание: %s\n"+
			"🗓 Когда: %s\n\n"+
			"💬 Свяжитесь с клиентом для уточнения деталей.\n"+
			"После выполнения работ нажмите кнопку ниже:",
		request.ID, request.Name, request.Phone, request.District, request.Description, request.WhenText)
	return b.deliver(master.TelegramID, text, kb)
}

func (b *Bot) ConfirmPrompt(ctx context.Context, request *models.Request) error {
	who := "Мастер"
	if m, err := b.Masters.GetByID(request.MasterID); err == nil && m.FullName != "" {
		who = m.FullName
	}
	data := fmt.Sprintf("%d", request.ID)
	kb := inlineKeyboard(
		[]telebot.InlineButton{btn(cbConfirmOK, "✅ Да, всё отлично", data)},
		[]telebot.InlineButton{btn(cbConfirmBad, "❌ Есть проблемы", data)},
	)
	text := fmt.Sprintf(
		"👨‍🔧 %s отметил заказ #%d как выполненный.\n\n"+
			"Работа действительно выполнена качественно?",
		who, request.ID)
	return b.deliver(request.ClientID, text, kb)
}

func (b *Bot) AutoCompleted(ctx context.Context, request *models.Request) error {
	text := fmt.Sprintf(
		"⏰ Заказ #%d автоматически завершён: подтверждение не поступило в срок.\n"+
			"Если что-то пошло не так, сообщите нам через «Пожаловаться».",
		request.ID)
	return b.deliver(request.ClientID, text)
}

func (b *Bot) DisputeOpenedMaster(ctx context.Context, master *models.Master, request *models.Request) error {
	text := fmt.Sprintf(
		"⚠️ Клиент сообщил о проблемах с заказом #%d.\n"+
			"Администратор свяжется с вами.",
		request.ID)
	return b.deliver(master.TelegramID, text)
}

func (b *Bot) OrderCompletedMaster(ctx context.Context, master *models.Master, request *models.Request) error {
	text := fmt.Sprintf("✅ Заказ #%d завершён. Спасибо за работу! 🎉", request.ID)
	return b.deliver(master.TelegramID, text)
}

func (b *Bot) ReviewPrompt(ctx context.Context, request *models.Request) error {
	who := "мастера"
	if m, err := b.Masters.GetByID(request.MasterID); err == nil && m.FullName != "" {
		who = m.FullName
	}
	stars := make([]telebot.InlineButton, 0, 5)
	for i := 1; i <= 5; i++ {
		stars = append(stars, btn(cbReviewRate, fmt.Sprintf("⭐ %d", i), fmt.Sprintf("%d:%d", request.ID, i)))
	}
	ref := fmt.Sprintf("%d", request.ID)
	kb := inlineKeyboard(
		stars,
		[]telebot.InlineButton{
			btn(cbReviewText, "📝 Написать отзыв", ref),
			btn(cbReviewSkip, "🚫 Пропустить", ref),
		},
	)
	text := fmt.Sprintf(
		"📝 Оцените работу %s\n\n"+
			"Заявка #%d завершена. Пожалуйста, оцените качество услуги:",
		who, request.ID)
	return b.deliver(request.ClientID, text, kb)
}

// NotifyAdmin posts to the admin channel; failures are logged and dropped.
func (b *Bot) NotifyAdmin(text string) {
	admin := config.AppConfig.AdminChatID
	if admin == 0 {
		return
	}
	if _, err := b.tb.Send(telebot.ChatID(admin), text); err != nil {
		b.Logger.Error("admin notify failed", zap.Error(err))
	}
}

// deliver sends to a bare chat ID, tagging unreachable recipients so the
// broadcaster can deactivate them.
func (b *Bot) deliver(telegramID int64, what interface{}, options ...interface{}) error {
	if _, err := b.tb.Send(telebot.ChatID(telegramID), what, options...); err != nil {
		if errors.Is(err, telebot.ErrBlockedByUser) || errors.Is(err, telebot.ErrUserIsDeactivated) {
			return fmt.Errorf("%w: %v", notify.ErrRecipientUnreachable, err)
		}
		return err
	}
	return nil
}
