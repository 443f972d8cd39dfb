package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Spok95/videolimit-bot/internal/bot"
	"github.com/Spok95/videolimit-bot/internal/clock"
	"github.com/Spok95/videolimit-bot/internal/config"
	"github.com/Spok95/videolimit-bot/internal/delivery"
	"github.com/Spok95/videolimit-bot/internal/domain/bans"
	"github.com/Spok95/videolimit-bot/internal/domain/bonus"
	"github.com/Spok95/videolimit-bot/internal/domain/codes"
	"github.com/Spok95/videolimit-bot/internal/domain/content"
	"github.com/Spok95/videolimit-bot/internal/domain/payments"
	"github.com/Spok95/videolimit-bot/internal/domain/users"
	"github.com/Spok95/videolimit-bot/internal/infra/db"
	httpx "github.com/Spok95/videolimit-bot/internal/infra/http"
	"github.com/Spok95/videolimit-bot/internal/infra/logger"
	"github.com/Spok95/videolimit-bot/internal/scheduler"
	"github.com/Spok95/videolimit-bot/internal/service"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	clk, err := clock.New(cfg.App.Timezone)
	if err != nil {
		log.Error("bad timezone", "tz", cfg.App.Timezone, "err", err)
		return
	}

	usersRepo := users.NewRepo(pool)
	bansRepo := bans.NewRepo(pool)
	bonusRepo := bonus.NewRepo(pool)
	codesRepo := codes.NewRepo(pool, usersRepo)
	paymentsRepo := payments.NewRepo(pool)
	contentRepo := content.NewRepo(pool)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("telegram authorized", "account", api.Self.UserName)

	gate := delivery.New(
		bot.NewMessenger(api), log,
		cfg.Delivery.DeleteDelay, bot.DeliveryCaption(cfg.Delivery.DeleteDelay))
	defer gate.Shutdown()

	svc := service.New(log, clk,
		usersRepo, bansRepo, bonusRepo, codesRepo, paymentsRepo, contentRepo, gate,
		cfg.Telegram.OwnerID,
		service.Limits{
			DefaultDaily: cfg.Limits.DefaultDaily,
			PremiumDaily: cfg.Limits.PremiumDaily,
			PremiumDays:  cfg.Limits.PremiumDays,
		})

	b := bot.New(api, log, svc, usersRepo, bansRepo, contentRepo, clk, cfg)

	sched := scheduler.New(log, clk, usersRepo, b, scheduler.Config{
		WindowDays:   cfg.Reminder.WindowDays,
		Interval:     cfg.Reminder.Interval,
		DedupPerDay:  cfg.Reminder.DedupPerDay,
		DefaultDaily: cfg.Limits.DefaultDaily,
	})

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return b.Run(ctx, 30) })
	g.Go(func() error { return sched.RunDailyReset(ctx) })
	g.Go(func() error { return sched.RunExpiryReminder(ctx) })

	g.Go(func() error {
		log.Info("HTTP server started", "addr", cfg.HTTP.Addr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("stopped with error", "err", err)
		return
	}
	log.Info("graceful shutdown complete")
}
