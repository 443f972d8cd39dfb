package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/videolimit-bot/internal/domain/payments"
	"github.com/Spok95/videolimit-bot/internal/service"
)

func (b *Bot) onCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	tgID := cb.From.ID
	data := cb.Data

	banned, err := b.bans.IsBanned(ctx, tgID)
	if err != nil {
		b.log.Error("ban check failed", "telegram_id", tgID, "err", err)
		b.answerCallback(cb, "Something went wrong, try again later.", true)
		return
	}
	if banned {
		b.answerCallback(cb, bannedText, true)
		return
	}

	switch {
	case data == "back_menu":
		b.send(tgbotapi.NewEditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID, b.mainMenu()))

	case data == "increase_limit":
		b.send(tgbotapi.NewEditMessageTextAndMarkup(
			cb.Message.Chat.ID, cb.Message.MessageID, b.increaseLimitText(), donateKeyboard()))

	case data == "donate":
		qr := tgbotapi.NewPhoto(cb.Message.Chat.ID, tgbotapi.FileURL(b.cfg.Telegram.PaymentQR))
		qr.Caption = paymentInstructionsText
		qr.ReplyMarkup = submitPaymentKeyboard()
		b.send(qr)
		b.answerCallback(cb, "", false)

	case data == "submit_payment":
		b.send(tgbotapi.NewEditMessageTextAndMarkup(
			cb.Message.Chat.ID, cb.Message.MessageID, sendScreenshotText, backToMenu()))
		b.answerCallback(cb, "Send screenshot in chat.", false)

	case data == "profile":
		b.handleProfile(ctx, cb)

	case data == "daily_bonus":
		b.handleDailyBonus(ctx, cb)

	case data == "next_video":
		b.handleNextVideo(ctx, cb)

	case strings.HasPrefix(data, "approve_"):
		b.handleResolve(ctx, cb, strings.TrimPrefix(data, "approve_"), true)

	case strings.HasPrefix(data, "decline_"):
		b.handleResolve(ctx, cb, strings.TrimPrefix(data, "decline_"), false)
	}
}

func (b *Bot) handleProfile(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	u, err := b.svc.Profile(ctx, cb.From.ID)
	if err != nil || u == nil {
		b.answerCallback(cb, "Profile unavailable, press /start first.", true)
		return
	}
	b.send(tgbotapi.NewEditMessageTextAndMarkup(
		cb.Message.Chat.ID, cb.Message.MessageID, profileText(u), backToMenu()))
}

func (b *Bot) handleDailyBonus(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	claimed, err := b.svc.ClaimBonus(ctx, cb.From.ID)
	if err != nil {
		b.log.Error("bonus claim failed", "telegram_id", cb.From.ID, "err", err)
		b.answerCallback(cb, "Something went wrong, try again later.", true)
		return
	}
	if claimed {
		b.answerCallback(cb, "🎁 Daily bonus claimed! You can use Next.", true)
	} else {
		b.answerCallback(cb, "✅ Bonus already claimed today!", true)
	}
	b.send(tgbotapi.NewEditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID, b.mainMenu()))
}

func (b *Bot) handleNextVideo(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	tgID := cb.From.ID
	if err := b.users.EnsureExists(ctx, tgID, cb.From.UserName, b.cfg.Limits.DefaultDaily); err != nil {
		b.log.Error("ensure user failed", "telegram_id", tgID, "err", err)
		b.answerCallback(cb, "Something went wrong, try again later.", true)
		return
	}

	decision, err := b.svc.CheckAndConsume(ctx, tgID)
	if err != nil {
		b.log.Error("next video failed", "telegram_id", tgID, "err", err)
		b.answerCallback(cb, "❌ Failed to send video. Try again later.", true)
		return
	}

	switch decision {
	case service.DecisionAllowed:
		b.answerCallback(cb, "▶️ Video sent!", false)
	case service.DecisionBanned:
		b.answerCallback(cb, bannedText, true)
	case service.DecisionNoBonus:
		b.answerCallback(cb, "🎁 First claim your Daily Bonus, then press Next!", true)
	case service.DecisionLimitReached:
		b.answerCallback(cb, "❌ Your daily limit is finished.\nCome back tomorrow or donate to increase limit.", true)
	case service.DecisionNoContent:
		b.answerCallback(cb, "⚠️ No more videos available right now.", true)
	}
}

func (b *Bot) handleResolve(ctx context.Context, cb *tgbotapi.CallbackQuery, rawID string, approve bool) {
	tgID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		b.answerCallback(cb, "Broken callback data.", true)
		return
	}

	res, err := b.svc.ResolvePayment(ctx, cb.From.ID, tgID, approve)
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		b.answerCallback(cb, "Only owner can do that.", true)
		return
	case errors.Is(err, payments.ErrNoPending):
		b.answerCallback(cb, "No pending payment for this user.", true)
		return
	case err != nil:
		b.log.Error("resolve payment failed", "telegram_id", tgID, "err", err)
		b.answerCallback(cb, "Something went wrong, try again later.", true)
		return
	}

	// The transition is committed; user notification is best-effort.
	var verdict string
	if res.Approved {
		verdict = "\n\n🟢 APPROVED BY OWNER"
		if _, err := b.api.Send(tgbotapi.NewMessage(tgID, b.approvedText(res.DailyLimit, res.Until))); err != nil {
			b.log.Error("notify user failed", "telegram_id", tgID, "err", err)
		}
		b.answerCallback(cb, "Payment approved.", false)
	} else {
		verdict = "\n\n🔴 DECLINED BY OWNER"
		if _, err := b.api.Send(tgbotapi.NewMessage(tgID,
			"❌ Payment declined.\nIf this is a mistake, please try again.")); err != nil {
			b.log.Error("notify user failed", "telegram_id", tgID, "err", err)
		}
		b.answerCallback(cb, "Payment declined.", false)
	}

	if cb.Message != nil && cb.Message.Caption != "" {
		b.send(tgbotapi.NewEditMessageCaption(
			cb.Message.Chat.ID, cb.Message.MessageID, cb.Message.Caption+verdict))
	}
}
