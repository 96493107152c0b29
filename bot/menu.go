package bot

import (
	"context"

	telebot "gopkg.in/tucnak/telebot.v2"
)

// Form steps shared by the conversational flows.
const (
	stepName     = "name"
	stepPhone    = "phone"
	stepCategory = "category"
	stepDistrict = "district"
	stepDesc     = "description"
	stepWhen     = "when"
	stepPreview  = "preview"

	stepTaxID      = "tax_id"
	stepCategories = "categories"
	stepExperience = "experience"
	stepPortfolio  = "portfolio"
	stepPassport   = "passport"
	stepFacePhoto  = "face_photo"
	stepTaxDoc     = "tax_doc"
	stepConfirm    = "confirm"

	stepComment = "comment"

	stepSubject    = "subject"
	stepRequestRef = "request_ref"
	stepText       = "text"
)

const textCancel = "❌ Отмена"

const welcomeText = "👋 Добро пожаловать в «Мастера»!\n\n" +
	"Здесь вы можете:\n" +
	"• Найти проверенного мастера\n" +
	"• Стать мастером и получать заказы"

func (b *Bot) onStart(m *telebot.Message) {
	b.clearSession(context.Background(), m.Chat.ID)
	b.send(m.Sender, welcomeText, b.mainMenuMarkup(int64(m.Sender.ID)))
}

func (b *Bot) onMenuMain(c *telebot.Callback) {
	b.clearSession(context.Background(), c.Message.Chat.ID)
	b.edit(c.Message, "Главное меню:", b.mainMenuMarkup(int64(c.Sender.ID)))
	b.answer(c, "", false)
}

func (b *Bot) sendMainMenu(to telebot.Recipient, telegramID int64) {
	b.send(to, "Главное меню:", b.mainMenuMarkup(telegramID))
}

func (b *Bot) mainMenuMarkup(telegramID int64) *telebot.ReplyMarkup {
	master := b.isMaster(telegramID)

	first := []telebot.InlineButton{btn(cbMenuRequest, "📝 Оставить заявку", "")}
	if master {
		first = append(first, btn(cbMenuCabinet, "👤 Личный кабинет", ""))
	} else {
		first = append(first, btn(cbMenuBecome, "👨‍🔧 Стать мастером", ""))
	}

	rows := [][]telebot.InlineButton{
		first,
		{btn(cbMenuComplaint, "🚨 Пожаловаться", "")},
	}
	if master {
		rows = append(rows, []telebot.InlineButton{btn(cbMenuBilling, "💳 Подписка и услуги", "")})
	}
	return inlineKeyboard(rows...)
}

func btn(unique, text, data string) telebot.InlineButton {
	return telebot.InlineButton{Unique: unique, Text: text, Data: data}
}

func inlineKeyboard(rows ...[]telebot.InlineButton) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{InlineKeyboard: rows}
}

// phoneKeyboard offers the native contact-sharing button.
func phoneKeyboard() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		ReplyKeyboard: [][]telebot.ReplyButton{
			{{Text: "📱 Отправить номер", Contact: true}},
			{{Text: textCancel}},
		},
		ResizeReplyKeyboard: true,
		OneTimeKeyboard:     true,
	}
}

func cancelKeyboard() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		ReplyKeyboard:       [][]telebot.ReplyButton{{{Text: textCancel}}},
		ResizeReplyKeyboard: true,
	}
}

func removeKeyboard() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{ReplyKeyboardRemove: true}
}
