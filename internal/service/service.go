// Package service holds the entitlement engines: quota consumption, code
// redemption and the payment approval workflow. Repos are behind narrow
// interfaces so tests run against stubs.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Spok95/videolimit-bot/internal/clock"
	"github.com/Spok95/videolimit-bot/internal/domain/codes"
	"github.com/Spok95/videolimit-bot/internal/domain/content"
	"github.com/Spok95/videolimit-bot/internal/domain/payments"
	"github.com/Spok95/videolimit-bot/internal/domain/users"
)

var (
	ErrBanned       = errors.New("service: user is banned")
	ErrUnauthorized = errors.New("service: operator action from non-operator")
)

// EntitlementStore is the single writer of quota and premium fields.
type EntitlementStore interface {
	Get(ctx context.Context, tgID int64) (*users.User, error)
	TryConsume(ctx context.Context, tgID int64) (bool, error)
	RefundConsume(ctx context.Context, tgID int64) error
	ResetUsage(ctx context.Context, tgID int64) error
	Grant(ctx context.Context, tgID int64, limit int, until time.Time) error
}

type BanList interface {
	IsBanned(ctx context.Context, tgID int64) (bool, error)
}

type BonusLedger interface {
	Claim(ctx context.Context, tgID int64, day string) (bool, error)
	Claimed(ctx context.Context, tgID int64, day string) (bool, error)
}

type CodeVault interface {
	Create(ctx context.Context, code string, videos, days int) error
	Redeem(ctx context.Context, code string, tgID int64, now time.Time) (*codes.Grant, error)
}

type PaymentLedger interface {
	Create(ctx context.Context, tgID int64, username, photoFileID string) (int64, error)
	ResolveLatestPending(ctx context.Context, tgID int64, status payments.Status) (int64, error)
}

type ContentSource interface {
	PickNext(ctx context.Context) (*content.Item, error)
}

// Deliverer dispatches a clean copy of the item and owns its retract timer.
type Deliverer interface {
	Deliver(dest int64, it content.Item) error
}

type Limits struct {
	DefaultDaily int
	PremiumDaily int
	PremiumDays  int
}

type Service struct {
	log      *slog.Logger
	clock    clock.Clock
	store    EntitlementStore
	bans     BanList
	bonus    BonusLedger
	codes    CodeVault
	payments PaymentLedger
	content  ContentSource
	gate     Deliverer
	ownerID  int64
	limits   Limits
}

func New(log *slog.Logger, clk clock.Clock,
	store EntitlementStore, banList BanList, bonusLedger BonusLedger,
	codeVault CodeVault, paymentLedger PaymentLedger,
	contentSource ContentSource, gate Deliverer,
	ownerID int64, limits Limits) *Service {

	return &Service{
		log: log, clock: clk, store: store, bans: banList, bonus: bonusLedger,
		codes: codeVault, payments: paymentLedger, content: contentSource,
		gate: gate, ownerID: ownerID, limits: limits,
	}
}

// Profile returns the entitlement record, nil when the user never started.
func (s *Service) Profile(ctx context.Context, tgID int64) (*users.User, error) {
	return s.store.Get(ctx, tgID)
}
