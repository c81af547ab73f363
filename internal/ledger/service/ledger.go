package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/statelock/codeledger/internal/ledger/domain"
	"github.com/statelock/codeledger/internal/ledger/store"
	"github.com/statelock/codeledger/pkg/codegen"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrCodeNotFound = errors.New("no code issued for user")
	ErrInvalidInput = errors.New("invalid input")

	// ErrConcurrentModification is returned after the internal retry
	// budget for conflicting transactions is exhausted. It is safe for
	// the caller to retry the whole operation.
	ErrConcurrentModification = errors.New("concurrent modification")
)

const (
	defaultTxAttempts   = 5
	defaultRetryBackoff = 10 * time.Millisecond
)

// LedgerService owns the lifecycle of per-user codes. Every mutating
// operation is one atomic transaction spanning the user profile and the code
// record, so the denormalized copy on the profile can never drift from the
// authoritative user_codes row.
type LedgerService struct {
	Store store.Store

	// GenerateCode overrides the code generator, used by tests to force
	// deterministic codes or randomness failures. Defaults to
	// codegen.Generate.
	GenerateCode func() (string, error)

	// TxAttempts and RetryBackoff tune the conflict retry loop. Zero
	// values pick the defaults.
	TxAttempts   int
	RetryBackoff time.Duration
}

// Issue creates a fresh code for the user and returns the plaintext exactly
// once. Issuing over an existing code is allowed and behaves like Rotate;
// both always land the user in the unverified state.
func (s *LedgerService) Issue(ctx context.Context, userID string) (string, error) {
	return s.setFreshCode(ctx, userID)
}

// Rotate replaces the user's code with a fresh one. The previous code is
// permanently invalid the instant the transaction commits.
func (s *LedgerService) Rotate(ctx context.Context, userID string) (string, error) {
	return s.setFreshCode(ctx, userID)
}

func (s *LedgerService) setFreshCode(ctx context.Context, userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}

	var code string
	err := s.withRetry(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		// Generate inside the transaction, after the existence check
		// and before any write: a randomness failure aborts with
		// nothing committed.
		fresh, err := s.generate()
		if err != nil {
			return err
		}

		if err := tx.Codes().Upsert(ctx, userID, fresh); err != nil {
			return fmt.Errorf("failed to write code record: %w", err)
		}
		if err := tx.Users().SetCurrentCode(ctx, userID, fresh); err != nil {
			return fmt.Errorf("failed to update profile code fields: %w", err)
		}

		code = fresh
		return nil
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// Verify compares candidate against the user's current code in constant time.
// A mismatch is a normal outcome, not an error: it commits nothing and
// returns (false, nil). A match stamps code_verified/code_verified_at inside
// the same transaction that read the code.
func (s *LedgerService) Verify(ctx context.Context, userID, candidate string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}
	if candidate == "" {
		return false, fmt.Errorf("%w: empty code", ErrInvalidInput)
	}

	var verified bool
	err := s.withRetry(ctx, func(tx store.Tx) error {
		verified = false

		if _, err := tx.Users().GetByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		record, err := tx.Codes().Get(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrCodeNotFound
			}
			return fmt.Errorf("failed to load code record: %w", err)
		}

		if subtle.ConstantTimeCompare([]byte(record.Code), []byte(candidate)) != 1 {
			return nil // wrong guess, no state change
		}

		if err := tx.Users().MarkCodeVerified(ctx, userID); err != nil {
			return fmt.Errorf("failed to mark code verified: %w", err)
		}
		verified = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return verified, nil
}

// State returns the combined code state for display. The read is not
// transactional: a slightly stale pair is fine because every write path
// commits both records together, so the pair is never torn. Profile fields
// win; CodeRecord fields fill the gaps on legacy rows that predate the
// denormalized columns.
func (s *LedgerService) State(ctx context.Context, userID string) (domain.CodeState, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.CodeState{}, fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}

	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.CodeState{}, ErrUserNotFound
		}
		return domain.CodeState{}, fmt.Errorf("failed to load user: %w", err)
	}

	state := domain.CodeState{
		GeneratedAt: user.CodeGeneratedAt,
		Verified:    user.CodeVerified,
		VerifiedAt:  user.CodeVerifiedAt,
	}
	if user.CurrentCode != nil {
		state.Code = *user.CurrentCode
	}

	if state.Code == "" || state.GeneratedAt == nil {
		record, err := s.Store.Codes().Get(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return state, nil // no code ever issued
		}
		if err != nil {
			return domain.CodeState{}, fmt.Errorf("failed to load code record: %w", err)
		}
		if state.Code == "" {
			state.Code = record.Code
		}
		if state.GeneratedAt == nil {
			createdAt := record.CreatedAt
			state.GeneratedAt = &createdAt
		}
	}

	return state, nil
}

// ListWithCodes returns the administrative listing of every user holding an
// active code. Entries are individually consistent; there is no snapshot
// guarantee across rows.
func (s *LedgerService) ListWithCodes(ctx context.Context) ([]domain.UserCode, error) {
	return s.Store.Users().ListWithCodes(ctx)
}

func (s *LedgerService) generate() (string, error) {
	if s.GenerateCode != nil {
		return s.GenerateCode()
	}
	return codegen.Generate()
}

// withRetry runs fn in a transaction, retrying on store.ErrConflict with
// exponential backoff and jitter. Business errors pass through untouched and
// are never retried.
func (s *LedgerService) withRetry(ctx context.Context, fn func(tx store.Tx) error) error {
	attempts := s.TxAttempts
	if attempts <= 0 {
		attempts = defaultTxAttempts
	}
	backoff := s.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	for attempt := 1; ; attempt++ {
		err := s.Store.WithTx(ctx, fn)
		if err == nil || !errors.Is(err, store.ErrConflict) {
			return err
		}
		if attempt >= attempts {
			return fmt.Errorf("%w: gave up after %d attempts", ErrConcurrentModification, attempt)
		}

		// Full jitter keeps colliding writers from retrying in lockstep.
		sleep := time.Duration(rand.Int64N(int64(backoff)))
		backoff *= 2

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}
