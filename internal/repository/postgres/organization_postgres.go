package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studyhub/internal/model"
	"studyhub/internal/repository"
)

// OrganizationPostgres implements repository.OrganizationRepository.
type OrganizationPostgres struct {
	db *sql.DB
}

func NewOrganizationPostgres(db *sql.DB) *OrganizationPostgres {
	return &OrganizationPostgres{db: db}
}

var _ repository.OrganizationRepository = (*OrganizationPostgres)(nil)

func (r *OrganizationPostgres) FindMembership(ctx context.Context, userID string) (*model.OrganizationMembership, error) {
	const q = `
		SELECT m.organization_id, o.name, m.user_id, m.role, m.status, o.seat_limit,
			(SELECT COUNT(*) FROM organization_members a
			 WHERE a.organization_id = m.organization_id AND a.status = 'active')
		FROM organization_members m
		JOIN organizations o ON o.id = m.organization_id
		WHERE m.user_id = $1
		ORDER BY (m.status = 'active') DESC, m.created_at DESC
		LIMIT 1`
	var (
		m      model.OrganizationMembership
		status string
	)
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&m.OrganizationID,
		&m.OrganizationName,
		&m.UserID,
		&m.Role,
		&status,
		&m.SeatLimit,
		&m.CurrentMembers,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.Status = model.MembershipStatus(status)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid membership row: %w", err)
	}
	return &m, nil
}

func (r *OrganizationPostgres) CountActiveMembers(ctx context.Context, orgID string) (int, int, error) {
	const q = `
		SELECT o.seat_limit,
			(SELECT COUNT(*) FROM organization_members m
			 WHERE m.organization_id = o.id AND m.status = 'active')
		FROM organizations o
		WHERE o.id = $1`
	var members, limit int
	err := r.db.QueryRowContext(ctx, q, orgID).Scan(&limit, &members)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	return members, limit, nil
}
