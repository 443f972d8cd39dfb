package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"
)

// handleExportUsers builds an .xlsx entitlement report and sends it back to
// the owner chat.
func (b *Bot) handleExportUsers(ctx context.Context, chatID int64) {
	list, err := b.users.ListAll(ctx)
	if err != nil {
		b.log.Error("export: list users failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Failed to load users."))
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Users"
	_ = f.SetSheetName("Sheet1", sheet)

	headers := []string{"telegram_id", "username", "daily_limit", "used_today",
		"premium", "premium_until", "joined_at", "last_active"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for row, u := range list {
		until := ""
		if u.PremiumUntil != nil {
			until = u.PremiumUntil.Format("2006-01-02")
		}
		values := []any{u.TelegramID, u.Username, u.DailyLimit, u.UsedToday,
			u.Premium, until,
			u.JoinedAt.Format("2006-01-02"), u.LastActive.Format("2006-01-02 15:04:05")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		b.log.Error("export: write xlsx failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Failed to build report."))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("users-%s.xlsx", b.clock.Now().Format("2006-01-02")),
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("👥 Users: %d", len(list))
	b.send(doc)
}
