package store

import (
	"context"
	"errors"
	"time"

	"github.com/statelock/codeledger/internal/ledger/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports that a write transaction lost a race with a
	// concurrent writer. Callers may retry the whole transaction.
	ErrConflict = errors.New("store: transaction conflict")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and a transaction primitive for the dual-record writes the
// ledger depends on.
type Store interface {
	Users() Users
	Codes() Codes
	Attempts() Attempts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run the profile+code dual write: both rows land
	// or neither does.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetByID returns a user profile by id.
	GetByID(ctx context.Context, id string) (domain.UserProfile, error)

	// GetByEmail returns a user profile by exact email match.
	GetByEmail(ctx context.Context, email string) (domain.UserProfile, error)

	// Create inserts a new profile. Provisioning-only; the ledger never
	// calls this.
	Create(ctx context.Context, u domain.UserProfile) error

	// SetCurrentCode updates the denormalized code fields after an issue
	// or rotation: current_code, code_generated_at, and resets
	// code_verified. Must run in the same transaction as the CodeRecord
	// write.
	SetCurrentCode(ctx context.Context, userID string, code string) error

	// MarkCodeVerified flips code_verified and stamps code_verified_at.
	MarkCodeVerified(ctx context.Context, userID string) error

	// ListWithCodes returns every profile that has an active code, joined
	// with its CodeRecord, ordered by display name.
	ListWithCodes(ctx context.Context) ([]domain.UserCode, error)
}

type Codes interface {
	// Get returns the code record for a user.
	Get(ctx context.Context, userID string) (domain.CodeRecord, error)

	// Upsert writes the code record, creating it on first issuance and
	// overwriting (never deleting) on rotation. created_at is preserved
	// across rotations; updated_at is bumped.
	Upsert(ctx context.Context, userID string, code string) error
}

type Attempts interface {
	// Create appends one audit record. The table is append-only; there is
	// no update or delete path besides retention trimming.
	Create(ctx context.Context, a domain.LoginAttempt) error

	// ListRecent returns up to limit attempts, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.LoginAttempt, error)

	// DeleteOlderThan trims attempts past the retention window and
	// reports how many rows were removed. Housekeeping only.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
