package postgres

import (
	"context"
	"database/sql"
	"strings"

	"studyhub/internal/repository"
)

// UserPostgres implements repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// ExistsByEmail matches case-insensitively on the trimmed address.
func (r *UserPostgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, strings.ToLower(strings.TrimSpace(email))).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
