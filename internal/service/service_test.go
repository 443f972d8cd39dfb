package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Spok95/videolimit-bot/internal/clock"
	"github.com/Spok95/videolimit-bot/internal/domain/codes"
	"github.com/Spok95/videolimit-bot/internal/domain/content"
	"github.com/Spok95/videolimit-bot/internal/domain/payments"
	"github.com/Spok95/videolimit-bot/internal/domain/users"
)

// In-memory stubs mirror the SQL semantics of the real repos: every
// conditional update happens under one lock, so the concurrency tests
// exercise the same first-writer-wins behavior.

type stubStore struct {
	mu      sync.Mutex
	users   map[int64]*users.User
	refunds int
}

func newStubStore() *stubStore { return &stubStore{users: make(map[int64]*users.User)} }

func (s *stubStore) add(tgID int64, limit, used int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[tgID] = &users.User{TelegramID: tgID, DailyLimit: limit, UsedToday: used}
}

func (s *stubStore) Get(_ context.Context, tgID int64) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[tgID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *stubStore) TryConsume(_ context.Context, tgID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[tgID]
	if !ok || u.UsedToday >= u.DailyLimit {
		return false, nil
	}
	u.UsedToday++
	return true, nil
}

func (s *stubStore) RefundConsume(_ context.Context, tgID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[tgID]; ok && u.UsedToday > 0 {
		u.UsedToday--
	}
	s.refunds++
	return nil
}

func (s *stubStore) ResetUsage(_ context.Context, tgID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[tgID]; ok {
		u.UsedToday = 0
	}
	return nil
}

func (s *stubStore) Grant(_ context.Context, tgID int64, limit int, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[tgID]
	if !ok {
		u = &users.User{TelegramID: tgID}
		s.users[tgID] = u
	}
	u.Premium = true
	u.DailyLimit = limit
	u.UsedToday = 0
	t := until
	u.PremiumUntil = &t
	return nil
}

type stubBans struct {
	mu     sync.Mutex
	banned map[int64]bool
}

func newStubBans() *stubBans { return &stubBans{banned: make(map[int64]bool)} }

func (s *stubBans) IsBanned(_ context.Context, tgID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banned[tgID], nil
}

type stubBonus struct {
	mu     sync.Mutex
	claims map[string]bool
}

func newStubBonus() *stubBonus { return &stubBonus{claims: make(map[string]bool)} }

func bonusKey(tgID int64, day string) string { return fmt.Sprintf("%d:%s", tgID, day) }

func (s *stubBonus) Claim(_ context.Context, tgID int64, day string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := bonusKey(tgID, day)
	if s.claims[k] {
		return false, nil
	}
	s.claims[k] = true
	return true, nil
}

func (s *stubBonus) Claimed(_ context.Context, tgID int64, day string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims[bonusKey(tgID, day)], nil
}

type codeRec struct {
	videos, days int
	used         bool
}

// stubVault applies the grant through the store under the same lock that
// flips used, mirroring the real single-transaction redeem.
type stubVault struct {
	mu    sync.Mutex
	codes map[string]*codeRec
	store *stubStore
}

func newStubVault(store *stubStore) *stubVault {
	return &stubVault{codes: make(map[string]*codeRec), store: store}
}

func (s *stubVault) Create(_ context.Context, code string, videos, days int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = &codeRec{videos: videos, days: days}
	return nil
}

func (s *stubVault) Redeem(ctx context.Context, code string, tgID int64, now time.Time) (*codes.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[code]
	if !ok || c.used {
		return nil, codes.ErrInvalidOrUsed
	}
	c.used = true
	until := now.AddDate(0, 0, c.days)
	if err := s.store.Grant(ctx, tgID, c.videos, until); err != nil {
		return nil, err
	}
	return &codes.Grant{DailyLimit: c.videos, Until: until}, nil
}

type stubPayments struct {
	mu   sync.Mutex
	next int64
	reqs []*payments.Request
}

func (s *stubPayments) Create(_ context.Context, tgID int64, username, photoFileID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.reqs = append(s.reqs, &payments.Request{
		ID: s.next, TelegramID: tgID, Username: username,
		PhotoFileID: photoFileID, Status: payments.StatusPending,
	})
	return s.next, nil
}

func (s *stubPayments) ResolveLatestPending(_ context.Context, tgID int64, status payments.Status) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.reqs) - 1; i >= 0; i-- {
		r := s.reqs[i]
		if r.TelegramID == tgID && r.Status == payments.StatusPending {
			r.Status = status
			return r.ID, nil
		}
	}
	return 0, payments.ErrNoPending
}

func (s *stubPayments) byID(id int64) *payments.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reqs {
		if r.ID == id {
			return r
		}
	}
	return nil
}

type stubContent struct {
	mu   sync.Mutex
	item *content.Item
}

func (s *stubContent) PickNext(_ context.Context) (*content.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.item == nil {
		return nil, nil
	}
	cp := *s.item
	return &cp, nil
}

type stubGate struct {
	mu        sync.Mutex
	delivered []int64
	failWith  error
}

func (s *stubGate) Deliver(dest int64, _ content.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.delivered = append(s.delivered, dest)
	return nil
}

func (s *stubGate) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered)
}

type fixture struct {
	svc      *Service
	clock    *clock.Fake
	store    *stubStore
	bans     *stubBans
	bonus    *stubBonus
	vault    *stubVault
	payments *stubPayments
	content  *stubContent
	gate     *stubGate
}

const testOwnerID int64 = 99

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newStubStore()
	f := &fixture{
		clock:    clock.NewFake(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)),
		store:    store,
		bans:     newStubBans(),
		bonus:    newStubBonus(),
		vault:    newStubVault(store),
		payments: &stubPayments{},
		content:  &stubContent{item: &content.Item{ID: 1, ChannelID: -100123, MessageID: 42}},
		gate:     &stubGate{},
	}
	f.svc = New(slog.Default(), f.clock,
		f.store, f.bans, f.bonus, f.vault, f.payments, f.content, f.gate,
		testOwnerID,
		Limits{DefaultDaily: 5, PremiumDaily: 40, PremiumDays: 30})
	return f
}
