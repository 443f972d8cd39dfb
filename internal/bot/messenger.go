package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/videolimit-bot/internal/delivery"
)

// Messenger adapts the Telegram API to the delivery gate. CopyMessage sends
// a clean copy without the forwarded-from header.
type Messenger struct {
	api *tgbotapi.BotAPI
}

func NewMessenger(api *tgbotapi.BotAPI) *Messenger { return &Messenger{api: api} }

func (m *Messenger) Copy(dest, fromChannelID int64, messageID int, caption string) (delivery.Handle, error) {
	cfg := tgbotapi.NewCopyMessage(dest, fromChannelID, messageID)
	cfg.Caption = caption
	sent, err := m.api.CopyMessage(cfg)
	if err != nil {
		return delivery.Handle{}, err
	}
	return delivery.Handle{ChatID: dest, MessageID: sent.MessageID}, nil
}

func (m *Messenger) Delete(h delivery.Handle) error {
	_, err := m.api.Request(tgbotapi.NewDeleteMessage(h.ChatID, h.MessageID))
	return err
}
