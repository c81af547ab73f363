package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/statelock/codeledger/internal/ledger/domain"
	"github.com/statelock/codeledger/internal/ledger/store"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func createUser(t *testing.T, st *Store, id, email string) {
	t.Helper()
	require.NoError(t, st.Users().Create(context.Background(), domain.UserProfile{
		ID:          id,
		DisplayName: "Test User",
		Email:       email,
	}))
}

func TestUsersCreateEnforcesUniqueness(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	createUser(t, st, "u1", "a@example.com")

	err := st.Users().Create(ctx, domain.UserProfile{ID: "u1", Email: "b@example.com"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	err = st.Users().Create(ctx, domain.UserProfile{ID: "u2", Email: "a@example.com"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersUpdatesRequireExistingRow(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	require.ErrorIs(t, st.Users().SetCurrentCode(ctx, "ghost", "SomeCode12345678"), store.ErrNotFound)
	require.ErrorIs(t, st.Users().MarkCodeVerified(ctx, "ghost"), store.ErrNotFound)

	_, err := st.Users().GetByID(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetCurrentCodeResetsVerification(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	createUser(t, st, "u1", "a@example.com")

	require.NoError(t, st.Users().SetCurrentCode(ctx, "u1", "FirstCode1234567"))
	require.NoError(t, st.Users().MarkCodeVerified(ctx, "u1"))

	user, err := st.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	require.True(t, user.CodeVerified)
	require.NotNil(t, user.CodeVerifiedAt)

	require.NoError(t, st.Users().SetCurrentCode(ctx, "u1", "SecondCode123456"))

	user, err = st.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "SecondCode123456", *user.CurrentCode)
	require.False(t, user.CodeVerified)
	require.Nil(t, user.CodeVerifiedAt)
}

func TestCodesUpsertPreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	createUser(t, st, "u1", "a@example.com")

	require.NoError(t, st.Codes().Upsert(ctx, "u1", "FirstCode1234567"))
	first, err := st.Codes().Get(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, st.Codes().Upsert(ctx, "u1", "SecondCode123456"))
	second, err := st.Codes().Get(ctx, "u1")
	require.NoError(t, err)

	require.Equal(t, "SecondCode123456", second.Code)
	require.True(t, second.CreatedAt.Equal(first.CreatedAt), "created_at must survive rotation")
}

func TestCodesGetMissing(t *testing.T) {
	st := newStore(t)

	_, err := st.Codes().Get(context.Background(), "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	createUser(t, st, "u1", "a@example.com")

	sentinel := errors.New("boom")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Codes().Upsert(ctx, "u1", "DoomedCode123456"); err != nil {
			return err
		}
		if err := tx.Users().SetCurrentCode(ctx, "u1", "DoomedCode123456"); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// Neither half of the dual write survived.
	_, err = st.Codes().Get(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)

	user, err := st.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, user.CurrentCode)
}

func TestAttemptsDeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	userID := "u1"
	require.NoError(t, st.Attempts().Create(ctx, domain.LoginAttempt{
		ID:          "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		AttemptType: domain.AttemptTypeVerify,
		UserID:      &userID,
		IP:          "10.0.0.1",
	}))

	// A cutoff in the past deletes nothing, one in the future sweeps the row.
	deleted, err := st.Attempts().DeleteOlderThan(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Zero(t, deleted)

	deleted, err = st.Attempts().DeleteOlderThan(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	attempts, err := st.Attempts().ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, attempts)
}
