package bot

import (
	"context"
	"fmt"
	"strings"

	"mastera/config"
	"mastera/models"
	"mastera/services/ratelimit"

	"go.uber.org/zap"
	telebot "gopkg.in/tucnak/telebot.v2"
)

// signupOrder chains the optional tail of the registration form. Every
// step in the chain can be skipped.
var signupOrder = map[string]string{
	stepTaxID:     stepPortfolio,
	stepPortfolio: stepPassport,
	stepPassport:  stepFacePhoto,
	stepFacePhoto: stepTaxDoc,
	stepTaxDoc:    stepConfirm,
}

// onMenuBecomeMaster opens the master registration form.
func (b *Bot) onMenuBecomeMaster(c *telebot.Callback) {
	telegramID := int64(c.Sender.ID)
	if b.isMaster(telegramID) {
		b.answer(c, "Вы уже зарегистрированы как мастер", false)
		b.sendCabinet(c.Sender, telegramID)
		return
	}

	chatID := c.Message.Chat.ID
	rule := ratelimit.MasterRegistrationRule
	if !b.Limiter.Allow(fmt.Sprintf("master_registration:%d", chatID), rule.Limit, rule.Window) {
		b.answer(c, "❌ Регистрация мастера возможна 3 раза в сутки. Попробуйте позже.", true)
		return
	}
	b.answer(c, "", false)

	ctx := context.Background()
	b.saveSession(ctx, models.NewFormSession(chatID, models.FlowMasterSignup, stepName))
	b.send(c.Sender, "Анкета мастера. Укажите ваши ФИО:", cancelKeyboard())
}

func (b *Bot) signupFormText(ctx context.Context, m *telebot.Message, sess *models.FormSession) {
	text := strings.TrimSpace(m.Text)

	switch sess.Step {
	case stepName:
		if text == "" {
			b.send(m.Sender, "Укажите ваши ФИО:")
			return
		}
		sess.Data["full_name"] = text
		sess.Step = stepPhone
		b.saveSession(ctx, sess)
		b.send(m.Sender, "📱 Отправьте номер телефона кнопкой ниже или введите вручную:", phoneKeyboard())

	case stepPhone:
		b.signupFormPhone(ctx, m, sess, text)

	case stepTaxID:
		if !models.ValidTaxID(text) {
			b.send(m.Sender, "❌ ИНН некорректный. Введите 10 или 12 цифр:")
			return
		}
		sess.Data["tax_id"] = text
		b.signupAdvance(ctx, m.Sender, sess)

	case stepPortfolio:
		sess.Data["portfolio"] = text
		b.signupAdvance(ctx, m.Sender, sess)

	case stepPassport, stepFacePhoto, stepTaxDoc:
		b.send(m.Sender, "❌ Пожалуйста, прикрепите ФОТО документа (не текст).")

	default:
		b.send(m.Sender, "Пожалуйста, используйте кнопки выше 👆")
	}
}

func (b *Bot) signupFormPhone(ctx context.Context, m *telebot.Message, sess *models.FormSession, raw string) {
	phone, ok := models.NormalizePhone(raw)
	if !ok {
		b.send(m.Sender, "❌ Неверный формат номера. Примеры: +79991234567, 89991234567.")
		return
	}
	sess.Data["phone"] = phone
	sess.Step = stepCategories
	sess.Picks = nil
	b.saveSession(ctx, sess)
	b.send(m.Sender, "Выберите категории услуг (до двух):", b.signupCategoryMarkup(sess))
}

// signupCategoryMarkup renders the category checkboxes with the current picks.
func (b *Bot) signupCategoryMarkup(sess *models.FormSession) *telebot.ReplyMarkup {
	picked := make(map[string]bool, len(sess.Picks))
	for _, p := range sess.Picks {
		picked[p] = true
	}
	rows := make([][]telebot.InlineButton, 0, len(models.MasterCategories)+1)
	for _, cat := range models.MasterCategories {
		title := cat
		if picked[cat] {
			title = "✓ " + cat
		}
		rows = append(rows, []telebot.InlineButton{btn(cbSignupCat, title, cat)})
	}
	done := fmt.Sprintf("Готово (%d/%d)", len(sess.Picks), models.MaxMasterCategories)
	rows = append(rows, []telebot.InlineButton{btn(cbSignupCatDone, done, "")})
	return inlineKeyboard(rows...)
}

func (b *Bot) onSignupCategoryToggle(c *telebot.Callback) {
	ctx := context.Background()
	sess := b.session(ctx, c.Message.Chat.ID)
	if sess == nil || sess.Flow != models.FlowMasterSignup || sess.Step != stepCategories {
		b.answer(c, "Форма устарела, начните заново.", false)
		return
	}

	category := strings.TrimSpace(c.Data)
	if !models.IsMasterCategory(category) {
		b.answer(c, "Неизвестная категория", false)
		return
	}

	kept := sess.Picks[:0]
	removed := false
	for _, p := range sess.Picks {
		if p == category {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	sess.Picks = kept
	if !removed {
		if len(sess.Picks) >= models.MaxMasterCategories {
			b.answer(c, "Можно выбрать не более двух категорий.", true)
			return
		}
		sess.Picks = append(sess.Picks, category)
	}
	b.saveSession(ctx, sess)

	b.answer(c, "", false)
	b.edit(c.Message, "Выберите категории услуг (до двух):", b.signupCategoryMarkup(sess))
}

func (b *Bot) onSignupCategoriesDone(c *telebot.Callback) {
	ctx := context.Background()
	sess := b.session(ctx, c.Message.Chat.ID)
	if sess == nil || sess.Flow != models.FlowMasterSignup || sess.Step != stepCategories {
		b.answer(c, "Форма устарела, начните заново.", false)
		return
	}
	if len(sess.Picks) == 0 {
		b.answer(c, "Выберите хотя бы одну категорию.", true)
		return
	}

	sess.Step = stepExperience
	b.saveSession(ctx, sess)
	b.answer(c, "", false)
	b.edit(c.Message, fmt.Sprintf("📂 Категории: %s", strings.Join(sess.Picks, ", ")))

	rows := make([][]telebot.InlineButton, 0, len(models.ExperienceBuckets))
	for _, bucket := range models.ExperienceBuckets {
		rows = append(rows, []telebot.InlineButton{btn(cbSignupExp, bucket, bucket)})
	}
	b.send(c.Sender, "Какой у вас опыт работы?", inlineKeyboard(rows...))
}

func (b *Bot) onSignupExperience(c *telebot.Callback) {
	ctx := context.Background()
	sess := b.session(ctx, c.Message.Chat.ID)
	if sess == nil || sess.Flow != models.FlowMasterSignup || sess.Step != stepExperience {
		b.answer(c, "Форма устарела, начните заново.", false)
		return
	}

	bucket := strings.TrimSpace(c.Data)
	if !models.IsExperienceBucket(bucket) {
		b.answer(c, "Выберите вариант из списка", false)
		return
	}
	sess.Data["exp_bucket"] = bucket
	sess.Step = stepTaxID
	b.saveSession(ctx, sess)

	b.answer(c, "", false)
	b.edit(c.Message, fmt.Sprintf("🔧 Опыт: %s", bucket))
	b.signupAsk(c.Sender, stepTaxID)
}

// onSignupSkip jumps over the optional step named in the callback data.
func (b *Bot) onSignupSkip(c *telebot.Callback) {
	ctx := context.Background()
	sess := b.session(ctx, c.Message.Chat.ID)
	if sess == nil || sess.Flow != models.FlowMasterSignup || sess.Step != strings.TrimSpace(c.Data) {
		b.answer(c, "Форма устарела, начните заново.", false)
		return
	}
	b.answer(c, "Пропущено", false)
	b.signupAdvance(ctx, c.Sender, sess)
}

// signupAdvance moves the form to the step after the current one and asks
// its question, or shows the preview when the chain ends.
func (b *Bot) signupAdvance(ctx context.Context, to telebot.Recipient, sess *models.FormSession) {
	next, ok := signupOrder[sess.Step]
	if !ok {
		next = stepConfirm
	}
	sess.Step = next
	b.saveSession(ctx, sess)
	if next == stepConfirm {
		b.sendSignupPreview(to, sess)
		return
	}
	b.signupAsk(to, next)
}

func (b *Bot) signupAsk(to telebot.Recipient, step string) {
	switch step {
	case stepTaxID:
		b.send(to, "Укажите ИНН (10 или 12 цифр):", skipKeyboard(stepTaxID))
	case stepPortfolio:
		b.send(to, "Коротко о себе: опыт, примеры работ, ссылки:", skipKeyboard(stepPortfolio))
	case stepPassport:
		b.send(to, "Прикрепите скан паспорта (фото документа):", skipKeyboard(stepPassport))
	case stepFacePhoto:
		b.send(to, "Прикрепите ваше фото (селфи для проверки):", skipKeyboard(stepFacePhoto))
	case stepTaxDoc:
		b.send(to, "Прикрепите документ, подтверждающий самозанятость/ИП:", skipKeyboard(stepTaxDoc))
	}
}

func skipKeyboard(step string) *telebot.ReplyMarkup {
	return inlineKeyboard([]telebot.InlineButton{btn(cbSignupSkip, "⏭ Пропустить", step)})
}

func (b *Bot) signupFormPhoto(ctx context.Context, m *telebot.Message, sess *models.FormSession, fileID string) {
	switch sess.Step {
	case stepPassport:
		sess.Data["passport_file"] = fileID
	case stepFacePhoto:
		sess.Data["face_file"] = fileID
	case stepTaxDoc:
		sess.Data["tax_doc_file"] = fileID
	default:
		return
	}
	b.signupAdvance(ctx, m.Sender, sess)
}

func (b *Bot) sendSignupPreview(to telebot.Recipient, sess *models.FormSession) {
	mark := func(fileID string) string {
		if fileID != "" {
			return "✓"
		}
		return "–"
	}
	orDash := func(s string) string {
		if s == "" {
			return "не указано"
		}
		return s
	}
	text := fmt.Sprintf(
		"Проверьте анкету:\n\n"+
			"👤 ФИО: %s\n"+
			"📞 Телефон: %s\n"+
			"📂 Категории: %s\n"+
			"🔧 Опыт: %s\n"+
			"🧾 ИНН: %s\n"+
			"💼 О себе: %s\n"+
			"📄 Документы: паспорт %s, фото %s, самозанятость %s\n\n"+
			"Отправить анкету?",
		sess.Data["full_name"], sess.Data["phone"], strings.Join(sess.Picks, ", "),
		sess.Data["exp_bucket"], orDash(sess.Data["tax_id"]), orDash(sess.Data["portfolio"]),
		mark(sess.Data["passport_file"]), mark(sess.Data["face_file"]), mark(sess.Data["tax_doc_file"]))
	kb := inlineKeyboard([]telebot.InlineButton{
		btn(cbSignupSubmit, "✅ Отправить анкету", ""),
		btn(cbMenuBecome, "✏️ Заполнить заново", ""),
	})
	b.send(to, text, kb)
}

func (b *Bot) onSignupSubmit(c *telebot.Callback) {
	ctx := context.Background()
	chatID := c.Message.Chat.ID
	sess := b.session(ctx, chatID)
	if sess == nil || sess.Flow != models.FlowMasterSignup || sess.Step != stepConfirm {
		b.answer(c, "Форма устарела, начните заново.", false)
		return
	}

	level := models.LevelCandidate
	verified := false
	selfEmployed := false
	if sess.Data["passport_file"] != "" && sess.Data["face_file"] != "" {
		level = models.LevelChecked
		verified = true
		if sess.Data["tax_id"] != "" && sess.Data["tax_doc_file"] != "" {
			level = models.LevelVerified
			selfEmployed = true
		}
	}

	id, err := b.Sequence.Next("masters")
	if err != nil {
		b.Logger.Error("master id allocation failed", zap.Error(err))
		b.answer(c, "⚠️ Не получилось сохранить анкету. Попробуйте ещё раз.", true)
		return
	}
	master := &models.Master{
		ID:                 id,
		TelegramID:         int64(c.Sender.ID),
		FullName:           sess.Data["full_name"],
		Phone:              sess.Data["phone"],
		TaxID:              sess.Data["tax_id"],
		SelfEmployed:       selfEmployed,
		ExpBucket:          sess.Data["exp_bucket"],
		Portfolio:          sess.Data["portfolio"],
		Categories:         append([]string(nil), sess.Picks...),
		Level:              level,
		Verified:           verified,
		IsActive:           true,
		FreeOrdersLeft:     config.AppConfig.FreeOrdersStart,
		SkillTier:          models.SkillTierNovice,
		PassportScanFileID: sess.Data["passport_file"],
		FacePhotoFileID:    sess.Data["face_file"],
		TaxDocFileID:       sess.Data["tax_doc_file"],
	}
	if err := b.Masters.Create(master); err != nil {
		b.Logger.Error("master create failed", zap.Int64("master_id", id), zap.Error(err))
		b.answer(c, "⚠️ Не получилось сохранить анкету. Попробуйте ещё раз.", true)
		return
	}

	b.clearSession(ctx, chatID)
	b.answer(c, "", false)
	b.edit(c.Message, fmt.Sprintf("✅ Анкета сохранена. Статус: %s", levelTitle(level)))
	b.send(c.Sender, "🎉 Поздравляем! Теперь вы можете получать заказы!", removeKeyboard())
	b.sendMainMenu(c.Sender, master.TelegramID)

	b.NotifyAdmin(fmt.Sprintf(
		"🧾 Анкета мастера #%d\n👤 %s | %s\n📂 %s\n🔧 %s\n🏷 Уровень: %s\n🧾 ИНН: %s, документы: паспорт %s, фото %s, самозанятость %s",
		id, master.FullName, master.Phone, strings.Join(master.Categories, ", "),
		master.ExpBucket, levelTitle(level), yesNo(master.TaxID != ""),
		yesNo(master.PassportScanFileID != ""), yesNo(master.FacePhotoFileID != ""), yesNo(master.TaxDocFileID != "")))
}

func levelTitle(level string) string {
	switch level {
	case models.LevelVerified:
		return "подтверждён"
	case models.LevelChecked:
		return "проверен"
	default:
		return "кандидат"
	}
}

func yesNo(v bool) string {
	if v {
		return "есть"
	}
	return "нет"
}
