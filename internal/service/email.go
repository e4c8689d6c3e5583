package service

import (
	"context"
	"errors"
	"strings"

	"studyhub/internal/repository"
)

var ErrEmailRequired = errors.New("email is required")

// EmailLookup answers whether an account already uses an address.
type EmailLookup interface {
	Exists(ctx context.Context, email string) (bool, error)
}

type emailLookup struct {
	users repository.UserRepository
}

func NewEmailLookup(users repository.UserRepository) EmailLookup {
	return &emailLookup{users: users}
}

// Exists matches case-insensitively on the trimmed address.
func (s *emailLookup) Exists(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, ErrEmailRequired
	}
	return s.users.ExistsByEmail(ctx, email)
}
