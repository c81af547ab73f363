package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/statelock/codeledger/internal/ledger/domain"
	"github.com/statelock/codeledger/internal/ledger/store"
)

var ErrEmailTaken = errors.New("email already in use")

// DirectoryService answers profile lookups for the admin surface and carries
// the provisioning write that normally belongs to the external identity
// process. It never touches the code fields; those belong to LedgerService.
type DirectoryService struct {
	Store store.Store
}

// FindByEmail returns the profile matching email exactly.
func (s *DirectoryService) FindByEmail(ctx context.Context, email string) (domain.UserProfile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.UserProfile{}, fmt.Errorf("%w: empty email", ErrInvalidInput)
	}

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.UserProfile{}, ErrUserNotFound
		}
		return domain.UserProfile{}, fmt.Errorf("failed to look up user by email: %w", err)
	}
	return user, nil
}

// GetByID returns a single profile.
func (s *DirectoryService) GetByID(ctx context.Context, userID string) (domain.UserProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.UserProfile{}, fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}

	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.UserProfile{}, ErrUserNotFound
		}
		return domain.UserProfile{}, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// Provision inserts a new profile with no code. This is the entry point for
// the upstream identity process; issuing a code is a separate, explicit
// ledger operation.
func (s *DirectoryService) Provision(ctx context.Context, id, displayName, email string) error {
	id = strings.TrimSpace(id)
	email = strings.TrimSpace(email)
	if id == "" || email == "" {
		return fmt.Errorf("%w: user id and email are required", ErrInvalidInput)
	}

	err := s.Store.Users().Create(ctx, domain.UserProfile{
		ID:          id,
		DisplayName: strings.TrimSpace(displayName),
		Email:       email,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return ErrEmailTaken
	}
	return err
}
