package bot

import (
	"fmt"
	"time"

	"github.com/Spok95/videolimit-bot/internal/domain/users"
)

const welcomeText = `👋 Welcome to Video Limit Bot!

Use the menu below to:
• Watch videos
• Claim daily bonus
• Increase your limit
• Check your profile`

const paymentInstructionsText = `📲 Payment Instructions

1) Scan QR and pay
2) Click Submit Payment
3) Send payment screenshot
4) Wait for approval`

const sendScreenshotText = `📤 Send your payment screenshot now.

After sending, wait for owner approval.`

const bannedText = "🚫 You are banned from using this bot."

// DeliveryCaption is attached to every copied video; the delete delay in it
// tracks the configured value.
func DeliveryCaption(delay time.Duration) string {
	return fmt.Sprintf(
		"💡 If you want to watch again, forward to Saved Messages.\n"+
			"🗑 This message will auto delete in %d seconds.", int(delay.Seconds()))
}

func (b *Bot) increaseLimitText() string {
	return fmt.Sprintf(`💎 Increase Daily Limit

Donate only ₹%d to get:
• %d videos per day
• Valid for 1 full month

If interested, click Donate below.`,
		b.cfg.Limits.DonationAmount, b.cfg.Limits.PremiumDaily)
}

func profileText(u *users.User) string {
	premium := "No ❌"
	expiry := "Not applicable"
	if u.Premium {
		premium = "Yes ✅"
	}
	if u.PremiumUntil != nil {
		expiry = u.PremiumUntil.Format("2006-01-02")
	}
	return fmt.Sprintf(`👤 Your Profile

🆔 User ID: %d
📊 Daily Limit: %d
🎯 Used Today: %d
💎 Premium: %s
📅 Premium Until: %s`,
		u.TelegramID, u.DailyLimit, u.UsedToday, premium, expiry)
}

func (b *Bot) approvedText(limit int, until time.Time) string {
	return fmt.Sprintf(`🎉 Congratulations!

Your daily limit is now:
• %d videos per day
• Valid until: %s

Enjoy! ▶️ Press Next Video anytime.`, limit, until.Format("2006-01-02"))
}

func (b *Bot) expiryReminderText(until time.Time) string {
	return fmt.Sprintf(`⚠️ Premium expiring soon!

Your daily limit ends on: %s

Donate ₹%d to extend for another month.`,
		until.Format("2006-01-02"), b.cfg.Limits.DonationAmount)
}
