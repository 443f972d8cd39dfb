package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndConsume_Banned(t *testing.T) {
	f := newFixture(t)
	f.store.add(1, 5, 0)
	f.bans.banned[1] = true

	d, err := f.svc.CheckAndConsume(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, DecisionBanned, d)
	assert.Zero(t, f.gate.count())
}

// The bonus gate precedes the limit check: an exhausted user who has not
// claimed today is told about the bonus, not about the limit.
func TestCheckAndConsume_BonusGateBeforeLimit(t *testing.T) {
	f := newFixture(t)
	f.store.add(1, 5, 5)

	d, err := f.svc.CheckAndConsume(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, DecisionNoBonus, d)
}

func TestCheckAndConsume_FullDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.add(1, 5, 3)

	claimed, err := f.svc.ClaimBonus(ctx, 1)
	require.NoError(t, err)
	require.True(t, claimed, "first claim of the day must win")

	u, err := f.store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, u.UsedToday, "claiming the bonus resets usage")

	for i := 0; i < 5; i++ {
		d, err := f.svc.CheckAndConsume(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, DecisionAllowed, d, "attempt %d", i+1)
	}

	d, err := f.svc.CheckAndConsume(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, DecisionLimitReached, d)
	assert.Equal(t, 5, f.gate.count())
}

func TestCheckAndConsume_NoContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.add(1, 5, 0)
	f.content.item = nil

	_, err := f.svc.ClaimBonus(ctx, 1)
	require.NoError(t, err)

	d, err := f.svc.CheckAndConsume(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, DecisionNoContent, d)

	u, err := f.store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, u.UsedToday, "a soft failure must not consume allowance")
}

func TestCheckAndConsume_DispatchFailureRefunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.add(1, 5, 0)
	f.gate.failWith = assert.AnError

	_, err := f.svc.ClaimBonus(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.CheckAndConsume(ctx, 1)
	require.Error(t, err)

	u, err := f.store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, u.UsedToday, "failed dispatch must not cost allowance")
	assert.Equal(t, 1, f.store.refunds)
}

// With one unit of allowance left, concurrent attempts must produce exactly
// one delivery.
func TestCheckAndConsume_ConcurrentLastUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.add(1, 5, 0)

	_, err := f.svc.ClaimBonus(ctx, 1)
	require.NoError(t, err)
	// Burn all but the last unit.
	f.store.mu.Lock()
	f.store.users[1].UsedToday = 4
	f.store.mu.Unlock()

	const workers = 16
	results := make([]Decision, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := f.svc.CheckAndConsume(ctx, 1)
			require.NoError(t, err)
			results[i] = d
		}(i)
	}
	wg.Wait()

	var allowed int
	for _, d := range results {
		switch d {
		case DecisionAllowed:
			allowed++
		case DecisionLimitReached:
		default:
			t.Fatalf("unexpected decision %v", d)
		}
	}
	assert.Equal(t, 1, allowed)
	assert.Equal(t, 1, f.gate.count())

	u, err := f.store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, u.UsedToday)
}

func TestClaimBonus_OncePerDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.add(1, 5, 4)

	claimed, err := f.svc.ClaimBonus(ctx, 1)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = f.svc.ClaimBonus(ctx, 1)
	require.NoError(t, err)
	assert.False(t, claimed, "second claim on the same day is a no-op")

	// Next local day opens a fresh claim.
	f.clock.Advance(24 * time.Hour)
	claimed, err = f.svc.ClaimBonus(ctx, 1)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestClaimBonus_Banned(t *testing.T) {
	f := newFixture(t)
	f.store.add(1, 5, 0)
	f.bans.banned[1] = true

	_, err := f.svc.ClaimBonus(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBanned)
}
