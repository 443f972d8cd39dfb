package service

import (
	"context"
	"fmt"

	"github.com/Spok95/videolimit-bot/internal/clock"
	"github.com/Spok95/videolimit-bot/internal/infra/metrics"
)

type Decision int

const (
	DecisionAllowed Decision = iota
	DecisionBanned
	DecisionNoBonus
	DecisionLimitReached
	DecisionNoContent
)

func (d Decision) String() string {
	switch d {
	case DecisionAllowed:
		return "allowed"
	case DecisionBanned:
		return "banned"
	case DecisionNoBonus:
		return "no_bonus"
	case DecisionLimitReached:
		return "limit_reached"
	case DecisionNoContent:
		return "no_content"
	}
	return "unknown"
}

// CheckAndConsume gates one consumption attempt. Check order is fixed:
// ban, bonus gate, limit, content availability. The Decision is only
// meaningful when err is nil.
//
// The bonus gate comes before the limit check on purpose: a user who never
// claims today's bonus is told about the bonus, not about an exhausted
// limit, and never gets a video regardless of the nightly reset.
func (s *Service) CheckAndConsume(ctx context.Context, tgID int64) (Decision, error) {
	banned, err := s.bans.IsBanned(ctx, tgID)
	if err != nil {
		return 0, err
	}
	if banned {
		metrics.QuotaDenials.WithLabelValues("banned").Inc()
		return DecisionBanned, nil
	}

	u, err := s.store.Get(ctx, tgID)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, fmt.Errorf("no entitlement record for %d", tgID)
	}

	claimed, err := s.bonus.Claimed(ctx, tgID, clock.Day(s.clock.Now()))
	if err != nil {
		return 0, err
	}
	if !claimed {
		metrics.QuotaDenials.WithLabelValues("no_bonus").Inc()
		return DecisionNoBonus, nil
	}

	if u.UsedToday >= u.DailyLimit {
		metrics.QuotaDenials.WithLabelValues("limit_reached").Inc()
		return DecisionLimitReached, nil
	}

	it, err := s.content.PickNext(ctx)
	if err != nil {
		return 0, err
	}
	if it == nil {
		metrics.QuotaDenials.WithLabelValues("no_content").Inc()
		return DecisionNoContent, nil
	}

	// The conditional increment re-checks the limit, so two concurrent
	// attempts cannot both take the last unit.
	ok, err := s.store.TryConsume(ctx, tgID)
	if err != nil {
		return 0, err
	}
	if !ok {
		metrics.QuotaDenials.WithLabelValues("limit_reached").Inc()
		return DecisionLimitReached, nil
	}

	if err := s.gate.Deliver(tgID, *it); err != nil {
		// A failed dispatch must not cost allowance.
		if rerr := s.store.RefundConsume(ctx, tgID); rerr != nil {
			s.log.Error("refund after failed dispatch", "telegram_id", tgID, "err", rerr)
		}
		return 0, err
	}

	metrics.VideosDelivered.Inc()
	return DecisionAllowed, nil
}

// ClaimBonus performs the per-user early reset. Claiming is what zeroes
// used_today; the nightly job is the independent fallback.
func (s *Service) ClaimBonus(ctx context.Context, tgID int64) (bool, error) {
	banned, err := s.bans.IsBanned(ctx, tgID)
	if err != nil {
		return false, err
	}
	if banned {
		return false, ErrBanned
	}

	claimed, err := s.bonus.Claim(ctx, tgID, clock.Day(s.clock.Now()))
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}
	if err := s.store.ResetUsage(ctx, tgID); err != nil {
		return false, err
	}
	metrics.BonusClaims.Inc()
	return true, nil
}
