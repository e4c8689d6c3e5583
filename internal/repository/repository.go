// Package repository declares the table access used by the remote data client.
// Implementations live in subpackages; postgres is the production one.
package repository

import (
	"context"
	"errors"

	"studyhub/internal/model"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// ProfileRepository reads and updates onboarding profiles.
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*model.Profile, error)
	Update(ctx context.Context, id string, upd model.ProfileUpdate) (*model.Profile, error)
	SetQuestionnaireCompleted(ctx context.Context, id string, kind model.QuestionnaireKind) error
}

// CourseRepository lists courses and their exercises.
type CourseRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.Course, error)
	ListExercises(ctx context.Context, userID, courseID string) ([]model.Exercise, error)
}

// RevisionRepository reads generated revision sheets and error revisions.
// Rows are created by the generation functions, never by this layer.
type RevisionRepository interface {
	ListSheets(ctx context.Context, userID string) ([]model.RevisionSheet, error)
	ListErrorRevisions(ctx context.Context, userID string) ([]model.ErrorRevision, error)
	DeleteErrorRevision(ctx context.Context, userID, id string) error
}

// OrganizationRepository exposes memberships and seat usage.
type OrganizationRepository interface {
	// FindMembership returns ErrNotFound when the user belongs to no organization.
	FindMembership(ctx context.Context, userID string) (*model.OrganizationMembership, error)
	CountActiveMembers(ctx context.Context, orgID string) (members int, seatLimit int, err error)
}

// UserRepository answers identity lookups for the functions server.
type UserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
