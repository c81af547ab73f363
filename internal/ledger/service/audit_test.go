package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/statelock/codeledger/internal/ledger/domain"
	"github.com/stretchr/testify/require"
)

func TestAuditRecordAndList(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	svc := &AuditService{Store: st, Logger: slog.Default()}

	userID := "u1"
	svc.Record(ctx, domain.AttemptTypeIssue, true, "", &userID, "10.0.0.1")
	svc.Record(ctx, domain.AttemptTypeVerify, false, "code mismatch", &userID, "10.0.0.1")
	svc.Record(ctx, domain.AttemptTypeAccess, false, "access_denied", nil, "10.0.0.2")

	attempts, err := svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	// Newest first; ULIDs break ties within the same timestamp.
	require.Equal(t, domain.AttemptTypeAccess, attempts[0].AttemptType)
	require.Nil(t, attempts[0].UserID)
	require.Equal(t, "10.0.0.2", attempts[0].IP)

	require.Equal(t, domain.AttemptTypeVerify, attempts[1].AttemptType)
	require.False(t, attempts[1].Success)
	require.Equal(t, "code mismatch", attempts[1].ErrorMessage)
	require.NotNil(t, attempts[1].UserID)
	require.Equal(t, "u1", *attempts[1].UserID)
}

func TestAuditListClampsLimit(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	svc := &AuditService{Store: st, Logger: slog.Default()}

	for range 5 {
		svc.Record(ctx, domain.AttemptTypeVerify, false, "code mismatch", nil, "10.0.0.1")
	}

	attempts, err := svc.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	// Zero means the default page size, not zero rows.
	attempts, err = svc.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, attempts, 5)
}

func TestAuditRecordSwallowsStoreFailure(t *testing.T) {
	st := newTestStore(t)
	svc := &AuditService{Store: st, Logger: slog.Default()}

	// Closing the store makes the append fail; Record must not panic or
	// propagate anything.
	require.NoError(t, st.Close())
	svc.Record(context.Background(), domain.AttemptTypeIssue, true, "", nil, "10.0.0.1")
}
