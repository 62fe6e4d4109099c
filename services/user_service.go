package services

import (
	"context"
	"errors"
	"time"

	"casefilehub/models"
	"casefilehub/store"
)

// UserService is the user-lookup collaborator: usernames in, identity
// records (username + global role) out.
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s}
}

// GetUserByUsername returns the user record, or a NotFound service error.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.store.Get(ctx, store.CollectionUsers, username, &user)
	if errors.Is(err, store.ErrNoDoc) {
		return nil, notFound("user %q not found", username)
	}
	if err != nil {
		return nil, storeError("fetch user", err)
	}
	return &user, nil
}

// EnsureUser upserts a user record, used by seeding and tests.
func (s *UserService) EnsureUser(ctx context.Context, username, role string) (*models.User, error) {
	user := &models.User{
		Username:  username,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Save(ctx, store.CollectionUsers, username, user); err != nil {
		return nil, storeError("save user", err)
	}
	return user, nil
}
