package service

import (
	"context"

	"github.com/Spok95/videolimit-bot/internal/domain/codes"
	"github.com/Spok95/videolimit-bot/internal/infra/metrics"
)

// Redeem consumes a one-shot code and applies its grant. The vault treats
// mark-used and grant as one transaction; concurrent redeemers of the same
// code get codes.ErrInvalidOrUsed.
func (s *Service) Redeem(ctx context.Context, tgID int64, code string) (*codes.Grant, error) {
	banned, err := s.bans.IsBanned(ctx, tgID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, ErrBanned
	}

	g, err := s.codes.Redeem(ctx, code, tgID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	metrics.CodesRedeemed.Inc()
	s.log.Info("code redeemed", "telegram_id", tgID, "daily_limit", g.DailyLimit, "until", g.Until)
	return g, nil
}

// GenerateCode mints a new redeemable token.
func (s *Service) GenerateCode(ctx context.Context, videos, days int) (string, error) {
	token := codes.Token(videos, days, s.clock.Now())
	if err := s.codes.Create(ctx, token, videos, days); err != nil {
		return "", err
	}
	return token, nil
}
