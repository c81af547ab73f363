// Package guard holds the brute-force throttle applied in front of code
// verification. It lives outside the ledger proper: throttling is an access
// policy of the serving layer, not part of the transactional state machine.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 5
	defaultCooldown    = time.Minute
)

// ErrThrottled reports that verification attempts for a user are temporarily
// blocked after too many consecutive failures.
var ErrThrottled = errors.New("guard: too many failed attempts")

// VerifyThrottle counts failed verification attempts per user in Redis with
// a sliding cooldown. A nil *VerifyThrottle is valid and disables throttling.
type VerifyThrottle struct {
	redis       *redis.Client
	maxFailures int64
	cooldown    time.Duration
}

// NewVerifyThrottle builds a throttle over the given client. Non-positive
// maxFailures or cooldown pick the defaults.
func NewVerifyThrottle(client *redis.Client, maxFailures int, cooldown time.Duration) *VerifyThrottle {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &VerifyThrottle{
		redis:       client,
		maxFailures: int64(maxFailures),
		cooldown:    cooldown,
	}
}

func (t *VerifyThrottle) key(userID string) string {
	return "verify_fail:" + userID
}

// Check returns ErrThrottled when the user has exhausted their failure
// budget. Redis being unreachable fails open: verification proceeds and the
// infrastructure error is returned for logging.
func (t *VerifyThrottle) Check(ctx context.Context, userID string) error {
	if t == nil {
		return nil
	}
	count, err := t.redis.Get(ctx, t.key(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("guard: redis get: %w", err)
	}
	if count >= t.maxFailures {
		return ErrThrottled
	}
	return nil
}

// RecordFailure bumps the failure counter, starting the cooldown window on
// the first failure.
func (t *VerifyThrottle) RecordFailure(ctx context.Context, userID string) error {
	if t == nil {
		return nil
	}
	count, err := t.redis.Incr(ctx, t.key(userID)).Result()
	if err != nil {
		return fmt.Errorf("guard: redis incr: %w", err)
	}
	if count == 1 {
		if err := t.redis.Expire(ctx, t.key(userID), t.cooldown).Err(); err != nil {
			return fmt.Errorf("guard: redis expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful verification.
func (t *VerifyThrottle) Reset(ctx context.Context, userID string) error {
	if t == nil {
		return nil
	}
	if err := t.redis.Del(ctx, t.key(userID)).Err(); err != nil {
		return fmt.Errorf("guard: redis del: %w", err)
	}
	return nil
}
