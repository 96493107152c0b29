package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mastera/config"
	complaintRepo "mastera/database/repository/complaint"
	masterRepo "mastera/database/repository/master"
	requestRepo "mastera/database/repository/request"
	reviewRepo "mastera/database/repository/review"
	sequenceRepo "mastera/database/repository/sequence"
	"mastera/models"
	"mastera/services/entitlement"
	"mastera/services/offer"
	"mastera/services/order"
	"mastera/services/ratelimit"
	"mastera/services/review"
	"mastera/services/stats"

	"go.uber.org/zap"
	telebot "gopkg.in/tucnak/telebot.v2"
)

// Callback button identifiers. Data carries the numeric references.
const (
	cbMenuRequest   = "menu_request"
	cbMenuBecome    = "menu_become_master"
	cbMenuCabinet   = "menu_cabinet"
	cbMenuComplaint = "menu_complaint"
	cbMenuBilling   = "menu_billing"
	cbMenuMain      = "menu_main"

	cbReqCategory = "req_category" // Data: category title
	cbReqSubmit   = "req_submit"

	cbSignupCat     = "signup_cat"      // Data: category title
	cbSignupCatDone = "signup_cat_done"
	cbSignupExp     = "signup_exp"      // Data: experience bucket
	cbSignupSkip    = "signup_skip"     // Data: step to skip
	cbSignupSubmit  = "signup_submit"

	cbOfferTake = "offer_take" // Data: "<requestID>:<masterID>"
	cbOfferSkip = "offer_skip" // Data: "<requestID>:<masterID>"

	cbOrderDone  = "order_done"  // Data: "<requestID>"
	cbConfirmOK  = "confirm_ok"  // Data: "<requestID>"
	cbConfirmBad = "confirm_bad" // Data: "<requestID>"

	cbReviewRate = "review_rate" // Data: "<requestID>:<stars>"
	cbReviewText = "review_text" // Data: "<requestID>"
	cbReviewSkip = "review_skip" // Data: "<requestID>"

	cbPay = "pay" // Data: product code

	cbCabOrders  = "cab_orders"
	cbCabStats   = "cab_stats"
	cbCabReviews = "cab_reviews"
	cbCabToggle  = "cab_toggle"
)

// Deps carries everything the bot surface is wired with.
type Deps struct {
	Masters    masterRepo.MasterRepository
	Requests   requestRepo.RequestRepository
	Reviews    reviewRepo.ReviewRepository
	Complaints complaintRepo.ComplaintRepository
	Sequence   sequenceRepo.Sequence

	Offers       offer.Service
	Orders       order.Service
	ReviewSvc    review.Service
	Entitlements entitlement.Service
	Stats        stats.Service

	Limiter  ratelimit.Policy
	Sessions *SessionStore
	Logger   *zap.Logger
}

// Bot is the Telegram front of the marketplace.
type Bot struct {
	Deps
	tb *telebot.Bot
}

// New connects to the Telegram API with long polling.
func New(deps Deps) (*Bot, error) {
	tb, err := telebot.NewBot(telebot.Settings{
		Token:  config.AppConfig.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return &Bot{Deps: deps, tb: tb}, nil
}

// Start registers all handlers and blocks polling for updates.
func (b *Bot) Start() {
	b.registerHandlers()
	b.NotifyAdmin("✅ Бот запущен")
	b.Logger.Info("bot polling started")
	b.tb.Start()
}

// Stop terminates the polling loop.
func (b *Bot) Stop() {
	b.tb.Stop()
}

func (b *Bot) registerHandlers() {
	b.tb.Handle("/start", b.onStart)
	b.tb.Handle("/menu", b.onStart)
	b.tb.Handle("/cancel", b.onCancel)
	b.tb.Handle("/stats", b.onAdminStats)
	b.tb.Handle("/masters", b.onAdminMasters)

	b.tb.Handle(telebot.OnText, b.onText)
	b.tb.Handle(telebot.OnContact, b.onContact)
	b.tb.Handle(telebot.OnPhoto, b.onPhoto)

	b.handleCallback(cbMenuRequest, b.onMenuRequest)
	b.handleCallback(cbMenuBecome, b.onMenuBecomeMaster)
	b.handleCallback(cbMenuCabinet, b.onCabinet)
	b.handleCallback(cbMenuComplaint, b.onMenuComplaint)
	b.handleCallback(cbMenuBilling, b.onBillingMenu)
	b.handleCallback(cbMenuMain, b.onMenuMain)

	b.handleCallback(cbReqCategory, b.onRequestCategory)
	b.handleCallback(cbReqSubmit, b.onRequestSubmit)

	b.handleCallback(cbSignupCat, b.onSignupCategoryToggle)
	b.handleCallback(cbSignupCatDone, b.onSignupCategoriesDone)
	b.handleCallback(cbSignupExp, b.onSignupExperience)
	b.handleCallback(cbSignupSkip, b.onSignupSkip)
	b.handleCallback(cbSignupSubmit, b.onSignupSubmit)

	b.handleCallback(cbOfferTake, b.onOfferTake)
	b.handleCallback(cbOfferSkip, b.onOfferSkip)

	b.handleCallback(cbOrderDone, b.onOrderDone)
	b.handleCallback(cbConfirmOK, b.onConfirmOK)
	b.handleCallback(cbConfirmBad, b.onConfirmBad)

	b.handleCallback(cbReviewRate, b.onReviewRate)
	b.handleCallback(cbReviewText, b.onReviewText)
	b.handleCallback(cbReviewSkip, b.onReviewSkip)

	b.handleCallback(cbPay, b.onPay)

	b.handleCallback(cbCabOrders, b.onCabinetOrders)
	b.handleCallback(cbCabStats, b.onCabinetStats)
	b.handleCallback(cbCabReviews, b.onCabinetReviews)
	b.handleCallback(cbCabToggle, b.onCabinetToggle)

	b.tb.Handle(telebot.OnCheckout, b.onCheckout)
	b.tb.Handle(telebot.OnPayment, b.onPayment)
}

func (b *Bot) handleCallback(unique string, fn func(*telebot.Callback)) {
	b.tb.Handle(&telebot.InlineButton{Unique: unique}, fn)
}

// onText routes free text into the chat's active form, if any.
func (b *Bot) onText(m *telebot.Message) {
	if strings.HasPrefix(m.Text, "/") {
		b.sendMainMenu(m.Sender, int64(m.Sender.ID))
		return
	}

	ctx := context.Background()
	sess := b.session(ctx, m.Chat.ID)
	if sess == nil {
		b.sendMainMenu(m.Sender, int64(m.Sender.ID))
		return
	}
	if m.Text == textCancel {
		b.abortSession(ctx, m)
		return
	}

	switch sess.Flow {
	case models.FlowClientRequest:
		b.requestFormText(ctx, m, sess)
	case models.FlowMasterSignup:
		b.signupFormText(ctx, m, sess)
	case models.FlowReviewComment:
		b.reviewCommentText(ctx, m, sess)
	case models.FlowComplaint:
		b.complaintFormText(ctx, m, sess)
	default:
		b.clearSession(ctx, m.Chat.ID)
		b.sendMainMenu(m.Sender, int64(m.Sender.ID))
	}
}

// onContact feeds a shared phone number into the step waiting for one.
func (b *Bot) onContact(m *telebot.Message) {
	ctx := context.Background()
	sess := b.session(ctx, m.Chat.ID)
	if sess == nil || m.Contact == nil {
		return
	}

	switch {
	case sess.Flow == models.FlowClientRequest && sess.Step == stepPhone:
		b.requestFormPhone(ctx, m, sess, m.Contact.PhoneNumber)
	case sess.Flow == models.FlowMasterSignup && sess.Step == stepPhone:
		b.signupFormPhone(ctx, m, sess, m.Contact.PhoneNumber)
	}
}

// onPhoto feeds an uploaded photo into the registration document steps.
func (b *Bot) onPhoto(m *telebot.Message) {
	ctx := context.Background()
	sess := b.session(ctx, m.Chat.ID)
	if sess == nil || sess.Flow != models.FlowMasterSignup || m.Photo == nil {
		return
	}
	b.signupFormPhoto(ctx, m, sess, m.Photo.FileID)
}

func (b *Bot) onCancel(m *telebot.Message) {
	b.abortSession(context.Background(), m)
}

func (b *Bot) abortSession(ctx context.Context, m *telebot.Message) {
	b.clearSession(ctx, m.Chat.ID)
	b.send(m.Sender, "❌ Действие отменено.", removeKeyboard())
	b.sendMainMenu(m.Sender, int64(m.Sender.ID))
}

// send delivers a message and logs the failure; bot replies are best-effort.
func (b *Bot) send(to telebot.Recipient, what interface{}, options ...interface{}) {
	if _, err := b.tb.Send(to, what, options...); err != nil {
		b.Logger.Warn("send failed", zap.String("recipient", to.Recipient()), zap.Error(err))
	}
}

// edit rewrites a previously sent message in place.
func (b *Bot) edit(msg *telebot.Message, what interface{}, options ...interface{}) {
	if _, err := b.tb.Edit(msg, what, options...); err != nil {
		b.Logger.Warn("edit failed", zap.Error(err))
	}
}

// answer closes a callback, optionally with a popup.
func (b *Bot) answer(c *telebot.Callback, text string, alert bool) {
	resp := &telebot.CallbackResponse{Text: text, ShowAlert: alert}
	if err := b.tb.Respond(c, resp); err != nil {
		b.Logger.Warn("callback respond failed", zap.Error(err))
	}
}

// callbackInts parses ":"-joined numeric callback data.
func callbackInts(data string, want int) ([]int64, bool) {
	parts := strings.Split(strings.TrimSpace(data), ":")
	if len(parts) != want {
		return nil, false
	}
	out := make([]int64, 0, want)
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

func (b *Bot) isMaster(telegramID int64) bool {
	_, err := b.Masters.GetByTelegramID(telegramID)
	return err == nil
}

func (b *Bot) isAdmin(telegramID int64) bool {
	admin := config.AppConfig.AdminChatID
	return admin != 0 && telegramID == admin
}
