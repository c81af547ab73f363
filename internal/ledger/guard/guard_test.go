package guard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestThrottle(t *testing.T, maxFailures int, cooldown time.Duration) (*VerifyThrottle, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewVerifyThrottle(rdb, maxFailures, cooldown), mr
}

func TestThrottleBlocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	throttle, _ := newTestThrottle(t, 3, time.Minute)

	for range 3 {
		require.NoError(t, throttle.Check(ctx, "u1"))
		require.NoError(t, throttle.RecordFailure(ctx, "u1"))
	}

	require.ErrorIs(t, throttle.Check(ctx, "u1"), ErrThrottled)

	// A different user is unaffected.
	require.NoError(t, throttle.Check(ctx, "u2"))
}

func TestThrottleResetClearsBudget(t *testing.T) {
	ctx := context.Background()
	throttle, _ := newTestThrottle(t, 2, time.Minute)

	require.NoError(t, throttle.RecordFailure(ctx, "u1"))
	require.NoError(t, throttle.RecordFailure(ctx, "u1"))
	require.ErrorIs(t, throttle.Check(ctx, "u1"), ErrThrottled)

	require.NoError(t, throttle.Reset(ctx, "u1"))
	require.NoError(t, throttle.Check(ctx, "u1"))
}

func TestThrottleCooldownExpires(t *testing.T) {
	ctx := context.Background()
	throttle, mr := newTestThrottle(t, 1, time.Minute)

	require.NoError(t, throttle.RecordFailure(ctx, "u1"))
	require.ErrorIs(t, throttle.Check(ctx, "u1"), ErrThrottled)

	mr.FastForward(2 * time.Minute)
	require.NoError(t, throttle.Check(ctx, "u1"))
}

func TestNilThrottleDisabled(t *testing.T) {
	ctx := context.Background()
	var throttle *VerifyThrottle

	require.NoError(t, throttle.Check(ctx, "u1"))
	require.NoError(t, throttle.RecordFailure(ctx, "u1"))
	require.NoError(t, throttle.Reset(ctx, "u1"))
}
