package domain

import "time"

// Attempt types recorded in the audit log.
const (
	AttemptTypeIssue  = "issue"
	AttemptTypeRotate = "rotate"
	AttemptTypeVerify = "verify"
	AttemptTypeAccess = "access"
)

// LoginAttempt is one append-only audit record. Attempts are best-effort
// correlated to a user by UserID; nothing else ties them to the ledger state.
type LoginAttempt struct {
	ID           string // ULID, sortable by creation time
	AttemptType  string
	Success      bool
	ErrorMessage string
	UserID       *string
	IP           string
	CreatedAt    time.Time
}
