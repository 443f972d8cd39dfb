// Package scheduler runs the two lifecycle jobs: the midnight usage reset
// and the premium expiry reminder sweep.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Spok95/videolimit-bot/internal/clock"
	"github.com/Spok95/videolimit-bot/internal/domain/users"
	"github.com/Spok95/videolimit-bot/internal/infra/metrics"
)

type Store interface {
	ResetAllUsage(ctx context.Context) (int64, error)
	ExpirePremium(ctx context.Context, now time.Time, defaultLimit int) (int64, error)
	ListPremium(ctx context.Context) ([]users.User, error)
}

type Notifier interface {
	NotifyExpiry(tgID int64, until time.Time) error
}

type Config struct {
	WindowDays   int
	Interval     time.Duration
	DedupPerDay  bool
	DefaultDaily int
}

type Scheduler struct {
	log      *slog.Logger
	clock    clock.Clock
	store    Store
	notifier Notifier
	cfg      Config

	mu     sync.Mutex
	nudged map[int64]string // telegram_id -> last day a reminder went out
}

func New(log *slog.Logger, clk clock.Clock, store Store, notifier Notifier, cfg Config) *Scheduler {
	return &Scheduler{
		log: log, clock: clk, store: store, notifier: notifier, cfg: cfg,
		nudged: make(map[int64]string),
	}
}

// RunDailyReset sleeps until the next local midnight, zeroes everyone's
// used_today, downgrades expired premium users, and repeats until ctx ends.
func (s *Scheduler) RunDailyReset(ctx context.Context) error {
	for {
		now := s.clock.Now()
		if err := sleepUntil(ctx, clock.NextReset(now).Sub(now)); err != nil {
			return err
		}
		s.resetOnce(ctx)
	}
}

func (s *Scheduler) resetOnce(ctx context.Context) {
	n, err := s.store.ResetAllUsage(ctx)
	if err != nil {
		s.log.Error("daily reset failed", "err", err)
		return
	}

	expired, err := s.store.ExpirePremium(ctx, s.clock.Now(), s.cfg.DefaultDaily)
	if err != nil {
		s.log.Error("premium expiry sweep failed", "err", err)
	}

	metrics.DailyResets.Inc()
	s.log.Info("daily limits reset", "users", n, "premium_expired", expired)
}

// RunExpiryReminder wakes on a fixed interval and nudges premium users
// whose window ends within cfg.WindowDays.
func (s *Scheduler) RunExpiryReminder(ctx context.Context) error {
	t := time.NewTicker(s.cfg.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.remindOnce(ctx)
		}
	}
}

func (s *Scheduler) remindOnce(ctx context.Context) {
	list, err := s.store.ListPremium(ctx)
	if err != nil {
		s.log.Error("reminder sweep: list premium failed", "err", err)
		return
	}

	now := s.clock.Now()
	day := clock.Day(now)
	for _, u := range list {
		if u.PremiumUntil == nil {
			continue
		}
		left := clock.DaysUntil(now, *u.PremiumUntil)
		if left < 0 || left > s.cfg.WindowDays {
			continue
		}
		if s.cfg.DedupPerDay && s.alreadyNudged(u.TelegramID, day) {
			continue
		}
		// One user's delivery failure must not stop the sweep.
		if err := s.notifier.NotifyExpiry(u.TelegramID, *u.PremiumUntil); err != nil {
			s.log.Warn("reminder failed", "telegram_id", u.TelegramID, "err", err)
			continue
		}
		s.markNudged(u.TelegramID, day)
		metrics.RemindersSent.Inc()
	}
}

func (s *Scheduler) alreadyNudged(tgID int64, day string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nudged[tgID] == day
}

func (s *Scheduler) markNudged(tgID int64, day string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nudged[tgID] = day
}

func sleepUntil(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
