package service

import (
	"context"
	"time"

	"github.com/Spok95/videolimit-bot/internal/domain/payments"
	"github.com/Spok95/videolimit-bot/internal/infra/metrics"
)

// Resolution reports the outcome of an operator decision so the transport
// layer can notify the user after the state change is durable.
type Resolution struct {
	Approved   bool
	DailyLimit int
	Until      time.Time
}

// SubmitPayment records a pending request. Several pending requests per
// user are allowed (users resend clearer screenshots); resolution always
// acts on the newest one.
func (s *Service) SubmitPayment(ctx context.Context, tgID int64, username, photoFileID string) (int64, error) {
	banned, err := s.bans.IsBanned(ctx, tgID)
	if err != nil {
		return 0, err
	}
	if banned {
		return 0, ErrBanned
	}
	return s.payments.Create(ctx, tgID, username, photoFileID)
}

// ResolvePayment drives pending -> approved|declined. Only the owner may
// call it. The request row is claimed first; the claim is the idempotency
// point, so a second resolve can never grant twice.
func (s *Service) ResolvePayment(ctx context.Context, operatorID, tgID int64, approve bool) (*Resolution, error) {
	if operatorID != s.ownerID {
		return nil, ErrUnauthorized
	}

	status := payments.StatusDeclined
	if approve {
		status = payments.StatusApproved
	}
	if _, err := s.payments.ResolveLatestPending(ctx, tgID, status); err != nil {
		return nil, err
	}

	res := &Resolution{Approved: approve}
	if approve {
		until := s.clock.Now().AddDate(0, 0, s.limits.PremiumDays)
		if err := s.store.Grant(ctx, tgID, s.limits.PremiumDaily, until); err != nil {
			return nil, err
		}
		res.DailyLimit = s.limits.PremiumDaily
		res.Until = until
	}

	metrics.PaymentsResolved.WithLabelValues(string(status)).Inc()
	s.log.Info("payment resolved", "telegram_id", tgID, "status", status)
	return res, nil
}
