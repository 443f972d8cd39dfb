package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/videolimit-bot/internal/domain/payments"
)

func TestResolvePayment_Unauthorized(t *testing.T) {
	f := newFixture(t)
	f.store.add(1, 5, 0)
	_, err := f.payments.Create(context.Background(), 1, "user", "photo")
	require.NoError(t, err)

	_, err = f.svc.ResolvePayment(context.Background(), testOwnerID+1, 1, true)
	assert.ErrorIs(t, err, ErrUnauthorized)

	req := f.payments.byID(1)
	assert.Equal(t, payments.StatusPending, req.Status, "unauthorized resolve must not touch the request")
}

func TestResolvePayment_NoPending(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ResolvePayment(context.Background(), testOwnerID, 1, true)
	assert.ErrorIs(t, err, payments.ErrNoPending)
}

func TestResolvePayment_ApproveGrantsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.add(1, 5, 3)

	id, err := f.svc.SubmitPayment(ctx, 1, "user", "photo")
	require.NoError(t, err)

	res, err := f.svc.ResolvePayment(ctx, testOwnerID, 1, true)
	require.NoError(t, err)
	assert.True(t, res.Approved)
	assert.Equal(t, 40, res.DailyLimit)
	assert.Equal(t, f.clock.Now().AddDate(0, 0, 30), res.Until)

	assert.Equal(t, payments.StatusApproved, f.payments.byID(id).Status)

	u, err := f.store.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, u.Premium)
	assert.Equal(t, 40, u.DailyLimit)
	assert.Zero(t, u.UsedToday)

	// A second resolve finds nothing pending, so no double grant.
	_, err = f.svc.ResolvePayment(ctx, testOwnerID, 1, true)
	assert.ErrorIs(t, err, payments.ErrNoPending)
}

func TestResolvePayment_DeclineLeavesEntitlement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.add(1, 5, 3)

	id, err := f.svc.SubmitPayment(ctx, 1, "user", "photo")
	require.NoError(t, err)

	res, err := f.svc.ResolvePayment(ctx, testOwnerID, 1, false)
	require.NoError(t, err)
	assert.False(t, res.Approved)
	assert.Equal(t, payments.StatusDeclined, f.payments.byID(id).Status)

	u, err := f.store.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, u.Premium)
	assert.Equal(t, 5, u.DailyLimit)
	assert.Equal(t, 3, u.UsedToday)
}

// Duplicate submissions are allowed; resolve acts on the newest one.
func TestResolvePayment_LatestPendingWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.add(1, 5, 0)

	first, err := f.svc.SubmitPayment(ctx, 1, "user", "blurry")
	require.NoError(t, err)
	second, err := f.svc.SubmitPayment(ctx, 1, "user", "sharp")
	require.NoError(t, err)

	_, err = f.svc.ResolvePayment(ctx, testOwnerID, 1, true)
	require.NoError(t, err)

	assert.Equal(t, payments.StatusApproved, f.payments.byID(second).Status)
	assert.Equal(t, payments.StatusPending, f.payments.byID(first).Status)
}

func TestSubmitPayment_Banned(t *testing.T) {
	f := newFixture(t)
	f.bans.banned[1] = true

	_, err := f.svc.SubmitPayment(context.Background(), 1, "user", "photo")
	assert.ErrorIs(t, err, ErrBanned)
}
