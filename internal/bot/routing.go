package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/videolimit-bot/internal/domain/codes"
	"github.com/Spok95/videolimit-bot/internal/service"
)

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	if len(msg.Photo) > 0 && msg.Chat.IsPrivate() {
		b.handlePaymentScreenshot(ctx, msg)
		return
	}
}

// onChannelPost auto-registers every post in the storage channel as a
// content item.
func (b *Bot) onChannelPost(ctx context.Context, post *tgbotapi.Message) {
	if post.Chat.ID != b.cfg.Telegram.DBChannelID {
		return
	}
	if err := b.content.Add(ctx, post.Chat.ID, post.MessageID); err != nil {
		b.log.Error("register content failed", "message_id", post.MessageID, "err", err)
		return
	}
	b.log.Info("content registered", "channel_id", post.Chat.ID, "message_id", post.MessageID)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)

	case "help":
		b.send(tgbotapi.NewMessage(chatID,
			"Commands:\n/start - open the menu\n/redeem <CODE> - redeem a code\n/help - this help"))

	case "redeem":
		b.handleRedeem(ctx, msg)

	case "gencode", "setdailylimit", "rmdailylimit", "ban", "unban",
		"broadcast", "export", "addcontent", "delcontent":
		if !b.isOwner(msg.From.ID) {
			b.send(tgbotapi.NewMessage(chatID, "Access denied."))
			return
		}
		b.handleOwnerCommand(ctx, msg)

	default:
		b.send(tgbotapi.NewMessage(chatID, "Unknown command. Try /help"))
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	tgID := msg.From.ID
	username := msg.From.UserName

	if err := b.users.EnsureExists(ctx, tgID, username, b.cfg.Limits.DefaultDaily); err != nil {
		b.log.Error("ensure user failed", "telegram_id", tgID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Something went wrong, try again later."))
		return
	}

	// Best-effort new-user log to the owner group.
	logMsg := tgbotapi.NewPhoto(b.cfg.Telegram.LogGroupID, tgbotapi.FileURL(b.cfg.Telegram.StartImage))
	logMsg.Caption = fmt.Sprintf(
		"🆕 New User Started Bot\n\n👤 User: @%s\n🆔 User ID: %d\n📅 Joined: %s",
		username, tgID, b.clock.Now().Format("2006-01-02 15:04:05"))
	if _, err := b.api.Send(logMsg); err != nil {
		b.log.Error("log group notify failed", "err", err)
	}

	welcome := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(b.cfg.Telegram.StartImage))
	welcome.Caption = welcomeText
	welcome.ReplyMarkup = b.mainMenu()
	b.send(welcome)
}

func (b *Bot) handleRedeem(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	code := msg.CommandArguments()
	if code == "" {
		b.send(tgbotapi.NewMessage(chatID, "Usage: /redeem <CODE>"))
		return
	}

	g, err := b.svc.Redeem(ctx, msg.From.ID, code)
	switch {
	case errors.Is(err, service.ErrBanned):
		b.send(tgbotapi.NewMessage(chatID, bannedText))
	case errors.Is(err, codes.ErrInvalidOrUsed):
		b.send(tgbotapi.NewMessage(chatID, "❌ Invalid or already used code."))
	case err != nil:
		b.log.Error("redeem failed", "telegram_id", msg.From.ID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Something went wrong, try again later."))
	default:
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"🎉 Code redeemed!\nLimit: %d videos/day\nValid till: %s",
			g.DailyLimit, g.Until.Format("2006-01-02"))))
	}
}

func (b *Bot) handlePaymentScreenshot(ctx context.Context, msg *tgbotapi.Message) {
	tgID := msg.From.ID
	username := msg.From.UserName
	if username == "" {
		username = "NoUsername"
	}
	fileID := msg.Photo[len(msg.Photo)-1].FileID

	_, err := b.svc.SubmitPayment(ctx, tgID, username, fileID)
	if errors.Is(err, service.ErrBanned) {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, bannedText))
		return
	}
	if err != nil {
		b.log.Error("submit payment failed", "telegram_id", tgID, "err", err)
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Something went wrong, try again later."))
		return
	}

	// The request row is durable; operator notification is best-effort.
	review := tgbotapi.NewPhoto(b.cfg.Telegram.LogGroupID, tgbotapi.FileID(fileID))
	review.Caption = fmt.Sprintf(
		"💰 New Payment Submitted\n\n👤 User: @%s\n🆔 User ID: %d\n💵 Amount: ₹%d\n📅 Time: %s",
		username, tgID, b.cfg.Limits.DonationAmount, b.clock.Now().Format("2006-01-02 15:04:05"))
	review.ReplyMarkup = approveKeyboard(tgID)
	if _, err := b.api.Send(review); err != nil {
		b.log.Error("log group notify failed", "err", err)
	}

	b.send(tgbotapi.NewMessage(msg.Chat.ID, "✅ Payment submitted! Please wait for owner approval."))
}
