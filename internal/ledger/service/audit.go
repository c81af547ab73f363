package service

import (
	"context"
	"log/slog"

	"github.com/statelock/codeledger/internal/ledger/domain"
	"github.com/statelock/codeledger/internal/ledger/store"
	"github.com/statelock/codeledger/pkg/idx"
)

const (
	defaultAttemptPageSize = 50
	maxAttemptPageSize     = 500
)

// AuditService appends login/verification attempts to the audit log. Writes
// are strictly best-effort: a failed append is logged and swallowed so it can
// never fail the ledger operation it decorates.
type AuditService struct {
	Store  store.Store
	Logger *slog.Logger
}

// Record appends one attempt. Fire-and-forget by contract: no error return.
func (s *AuditService) Record(ctx context.Context, attemptType string, success bool, errorMessage string, userID *string, ip string) {
	attempt := domain.LoginAttempt{
		ID:           idx.New().String(),
		AttemptType:  attemptType,
		Success:      success,
		ErrorMessage: errorMessage,
		UserID:       userID,
		IP:           ip,
	}

	if err := s.Store.Attempts().Create(ctx, attempt); err != nil {
		log := s.Logger
		if log == nil {
			log = slog.Default()
		}
		log.Error("failed to record attempt",
			"attempt_type", attemptType,
			"success", success,
			"error", err,
		)
	}
}

// ListRecent returns up to limit attempts, newest first. Limit is clamped to
// a sane page size; zero means the default.
func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]domain.LoginAttempt, error) {
	if limit <= 0 {
		limit = defaultAttemptPageSize
	}
	if limit > maxAttemptPageSize {
		limit = maxAttemptPageSize
	}
	return s.Store.Attempts().ListRecent(ctx, limit)
}
