package bot

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NotifyExpiry implements scheduler.Notifier: a renewal nudge with a
// shortcut to the donate screen.
func (b *Bot) NotifyExpiry(tgID int64, until time.Time) error {
	msg := tgbotapi.NewMessage(tgID, b.expiryReminderText(until))
	msg.ReplyMarkup = renewKeyboard()
	_, err := b.api.Send(msg)
	return err
}
