package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleOwnerCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "gencode":
		videos, days, err := parseTwoInts(args)
		if err != nil || videos <= 0 || days <= 0 {
			b.send(tgbotapi.NewMessage(chatID, "Usage: /gencode <videos> <days>"))
			return
		}
		token, err := b.svc.GenerateCode(ctx, videos, days)
		if err != nil {
			b.log.Error("gencode failed", "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Failed to generate code."))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"🎟 Redeem Code Generated\n\n%s\n\nVideos/day: %d\nDays: %d", token, videos, days)))

	case "setdailylimit":
		tgID, limit, err := parseIDAndInt(args)
		if err != nil || limit < 0 {
			b.send(tgbotapi.NewMessage(chatID, "Usage: /setdailylimit <userid> <number>"))
			return
		}
		if err := b.users.SetDailyLimit(ctx, tgID, limit); err != nil {
			b.log.Error("setdailylimit failed", "telegram_id", tgID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Failed to update limit."))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Daily limit of %d set to %d", tgID, limit)))

	case "rmdailylimit":
		tgID, err := parseID(args)
		if err != nil {
			b.send(tgbotapi.NewMessage(chatID, "Usage: /rmdailylimit <userid>"))
			return
		}
		if err := b.users.RevokePremium(ctx, tgID, b.cfg.Limits.DefaultDaily); err != nil {
			b.log.Error("rmdailylimit failed", "telegram_id", tgID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Failed to remove premium."))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Premium removed for %d", tgID)))

	case "ban":
		tgID, err := parseID(args)
		if err != nil {
			b.send(tgbotapi.NewMessage(chatID, "Usage: /ban <userid>"))
			return
		}
		if err := b.bans.Ban(ctx, tgID); err != nil {
			b.log.Error("ban failed", "telegram_id", tgID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Failed to ban user."))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("🚫 User %d banned from bot.", tgID)))

	case "unban":
		tgID, err := parseID(args)
		if err != nil {
			b.send(tgbotapi.NewMessage(chatID, "Usage: /unban <userid>"))
			return
		}
		if err := b.bans.Unban(ctx, tgID); err != nil {
			b.log.Error("unban failed", "telegram_id", tgID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Failed to unban user."))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ User %d unbanned.", tgID)))

	case "addcontent":
		channelID, messageID, err := parseIDAndInt(args)
		if err != nil {
			b.send(tgbotapi.NewMessage(chatID, "Usage: /addcontent <channel_id> <message_id>"))
			return
		}
		if err := b.content.Add(ctx, channelID, messageID); err != nil {
			b.log.Error("addcontent failed", "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Failed to register content."))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, "✅ Content registered."))

	case "delcontent":
		id, err := parseID(args)
		if err != nil {
			b.send(tgbotapi.NewMessage(chatID, "Usage: /delcontent <content_id>"))
			return
		}
		if err := b.content.Invalidate(ctx, id); err != nil {
			b.log.Error("delcontent failed", "content_id", id, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Failed to invalidate content."))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, "✅ Content invalidated."))

	case "broadcast":
		b.handleBroadcast(ctx, msg)

	case "export":
		b.handleExportUsers(ctx, chatID)
	}
}

// handleBroadcast copies the replied-to message to every known user.
func (b *Bot) handleBroadcast(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if msg.ReplyToMessage == nil {
		b.send(tgbotapi.NewMessage(chatID, "Reply to a message with /broadcast"))
		return
	}

	list, err := b.users.ListAll(ctx)
	if err != nil {
		b.log.Error("broadcast: list users failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Failed to load users."))
		return
	}

	src := msg.ReplyToMessage
	var sent, failed int
	for _, u := range list {
		if _, err := b.api.CopyMessage(
			tgbotapi.NewCopyMessage(u.TelegramID, src.Chat.ID, src.MessageID)); err != nil {
			failed++
			continue
		}
		sent++
		time.Sleep(200 * time.Millisecond)
	}

	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("📢 Broadcast done.\nSent: %d | Failed: %d", sent, failed)))
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected 1 argument")
	}
	return strconv.ParseInt(args[0], 10, 64)
}

func parseIDAndInt(args []string) (int64, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected 2 arguments")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, err
	}
	return id, n, nil
}

func parseTwoInts(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected 2 arguments")
	}
	a, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, err
	}
	c, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, err
	}
	return a, c, nil
}
