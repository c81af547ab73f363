package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProvisionAndLookup(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	svc := &DirectoryService{Store: st}

	require.NoError(t, svc.Provision(ctx, "u1", "Alice", "alice@example.com"))

	user, err := svc.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)
	require.Equal(t, "Alice", user.DisplayName)
	require.Nil(t, user.CurrentCode)

	user, err = svc.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
}

func TestProvisionDuplicate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	svc := &DirectoryService{Store: st}

	require.NoError(t, svc.Provision(ctx, "u1", "Alice", "alice@example.com"))

	// Duplicate id and duplicate email are both rejected.
	err := svc.Provision(ctx, "u1", "Alice Again", "alice2@example.com")
	require.ErrorIs(t, err, ErrEmailTaken)

	err = svc.Provision(ctx, "u2", "Impostor", "alice@example.com")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestProvisionRejectsBlankFields(t *testing.T) {
	st := newTestStore(t)
	svc := &DirectoryService{Store: st}

	require.ErrorIs(t, svc.Provision(context.Background(), "", "Alice", "alice@example.com"), ErrInvalidInput)
	require.ErrorIs(t, svc.Provision(context.Background(), "u1", "Alice", "  "), ErrInvalidInput)
}

func TestFindByEmailNotFound(t *testing.T) {
	st := newTestStore(t)
	svc := &DirectoryService{Store: st}

	_, err := svc.FindByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.FindByEmail(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidInput)
}
