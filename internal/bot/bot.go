package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/videolimit-bot/internal/clock"
	"github.com/Spok95/videolimit-bot/internal/config"
	"github.com/Spok95/videolimit-bot/internal/domain/bans"
	"github.com/Spok95/videolimit-bot/internal/domain/content"
	"github.com/Spok95/videolimit-bot/internal/domain/users"
	"github.com/Spok95/videolimit-bot/internal/service"
)

type Bot struct {
	api     *tgbotapi.BotAPI
	log     *slog.Logger
	svc     *service.Service
	users   *users.Repo
	bans    *bans.Repo
	content *content.Repo
	clock   clock.Clock
	cfg     config.Config
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, svc *service.Service,
	usersRepo *users.Repo, bansRepo *bans.Repo, contentRepo *content.Repo,
	clk clock.Clock, cfg config.Config) *Bot {

	return &Bot{
		api: api, log: log, svc: svc,
		users: usersRepo, bans: bansRepo, content: contentRepo,
		clock: clk, cfg: cfg,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			switch {
			case upd.Message != nil:
				b.onMessage(ctx, upd.Message)
			case upd.CallbackQuery != nil:
				b.onCallback(ctx, upd.CallbackQuery)
			case upd.ChannelPost != nil:
				b.onChannelPost(ctx, upd.ChannelPost)
			}
		}
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	if _, err := b.api.Request(resp); err != nil {
		b.log.Error("answer callback failed", "err", err)
	}
}

func (b *Bot) isOwner(tgID int64) bool { return tgID == b.cfg.Telegram.OwnerID }
