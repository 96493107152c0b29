package bot

import (
	"context"
	"fmt"
	"strings"

	"mastera/config"
	"mastera/models"
	"mastera/services/entitlement"

	"go.uber.org/zap"
	telebot "gopkg.in/tucnak/telebot.v2"
)

const billingMenuText = "Подписка и услуги для мастеров\n\n" +
	"🔹 Новым мастерам: 3 заказа бесплатно\n" +
	"🔹 Далее подписка: 990 ₽/мес (безлимит)\n\n" +
	"Доп.услуги:\n" +
	"⚡ Приоритет заказов — 490 ₽/мес\n" +
	"📌 Закреп анкеты — 190 ₽/нед"

func (b *Bot) onBillingMenu(c *telebot.Callback) {
	b.answer(c, "", false)

	rows := make([][]telebot.InlineButton, 0, len(models.Products())+1)
	for _, p := range models.Products() {
		title := fmt.Sprintf("💳 %s — %d ₽", p.Title, p.PriceKopecks/100)
		rows = append(rows, []telebot.InlineButton{btn(cbPay, title, p.Code)})
	}
	rows = append(rows, []telebot.InlineButton{btn(cbMenuMain, "⬅️ Главное меню", "")})
	b.send(c.Sender, billingMenuText, inlineKeyboard(rows...))
}

// onPay issues a Telegram invoice for the picked product.
func (b *Bot) onPay(c *telebot.Callback) {
	product, ok := models.ProductByCode(strings.TrimSpace(c.Data))
	if !ok {
		b.answer(c, "Неизвестный товар", true)
		return
	}
	if config.AppConfig.PaymentProviderToken == "" {
		b.answer(c, "Платёжный провайдер не настроен.", true)
		return
	}

	b.answer(c, "", false)
	invoice := &telebot.Invoice{
		Title:       product.Title,
		Description: product.Description,
		Payload:     product.Code,
		Currency:    "RUB",
		Start:       product.Code,
		Token:       config.AppConfig.PaymentProviderToken,
		Prices: []telebot.Price{
			{Label: product.Title, Amount: product.PriceKopecks},
		},
	}
	b.send(c.Sender, invoice)
}

// onCheckout answers the pre-checkout query; Telegram cancels the payment
// if we stay silent for 10 seconds.
func (b *Bot) onCheckout(pre *telebot.PreCheckoutQuery) {
	if _, ok := models.ProductByCode(pre.Payload); !ok {
		if err := b.tb.Accept(pre, "Неизвестный товар"); err != nil {
			b.Logger.Error("pre-checkout reject failed", zap.Error(err))
		}
		return
	}
	if err := b.tb.Accept(pre); err != nil {
		b.Logger.Error("pre-checkout accept failed", zap.Error(err))
	}
}

// onPayment activates the paid entitlement.
func (b *Bot) onPayment(m *telebot.Message) {
	payload := m.Payment.Payload
	if payload == "" {
		return
	}

	ctx := context.Background()
	grant, err := b.Entitlements.Grant(ctx, int64(m.Sender.ID), payload)
	if err != nil {
		b.Logger.Error("entitlement grant failed",
			zap.String("product", payload),
			zap.Int64("telegram_id", int64(m.Sender.ID)),
			zap.Error(err))
		b.send(m.Sender, "⚠️ Платёж получен, но активация не прошла. Напишите нам через «Пожаловаться».")
		b.NotifyAdmin(fmt.Sprintf("⚠️ Платёж без активации: продукт %s, telegram_id %d", payload, m.Sender.ID))
		return
	}
	b.send(m.Sender, paymentDoneText(grant))
}

func paymentDoneText(g *entitlement.Grant) string {
	until := g.Until.Format("02.01.2006")
	switch g.Product.Code {
	case models.ProductSub30:
		return fmt.Sprintf("✅ Подписка активна до %s.", until)
	case models.ProductPriority:
		return fmt.Sprintf("✅ Приоритет включён до %s.", until)
	case models.ProductPin7:
		return fmt.Sprintf("✅ Анкета закреплена до %s.", until)
	default:
		return "✅ Оплата получена."
	}
}
