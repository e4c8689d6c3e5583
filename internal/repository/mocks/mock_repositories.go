package mocks

import (
	"context"

	"studyhub/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, id string, upd model.ProfileUpdate) (*model.Profile, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) SetQuestionnaireCompleted(ctx context.Context, id string, kind model.QuestionnaireKind) error {
	return m.Called(ctx, id, kind).Error(0)
}

type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) ListByUser(ctx context.Context, userID string) ([]model.Course, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Course), args.Error(1)
}

func (m *MockCourseRepository) ListExercises(ctx context.Context, userID, courseID string) ([]model.Exercise, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Exercise), args.Error(1)
}

type MockRevisionRepository struct {
	mock.Mock
}

func (m *MockRevisionRepository) ListSheets(ctx context.Context, userID string) ([]model.RevisionSheet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RevisionSheet), args.Error(1)
}

func (m *MockRevisionRepository) ListErrorRevisions(ctx context.Context, userID string) ([]model.ErrorRevision, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ErrorRevision), args.Error(1)
}

func (m *MockRevisionRepository) DeleteErrorRevision(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindMembership(ctx context.Context, userID string) (*model.OrganizationMembership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrganizationMembership), args.Error(1)
}

func (m *MockOrganizationRepository) CountActiveMembers(ctx context.Context, orgID string) (int, int, error) {
	args := m.Called(ctx, orgID)
	return args.Int(0), args.Int(1), args.Error(2)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
