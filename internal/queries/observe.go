package queries

import (
	"studyhub/internal/model"
	"studyhub/internal/querycache"
)

// The Observe methods mount a hook. Callers Close the observer to unmount it.

func (h *Hooks) ObserveProfile(onChange func(querycache.State[*model.Profile])) *querycache.Observer[*model.Profile] {
	return querycache.Observe(h.cache, h.ProfileQuery(), onChange)
}

func (h *Hooks) ObserveDocuments(onChange func(querycache.State[[]model.Document])) *querycache.Observer[[]model.Document] {
	return querycache.Observe(h.cache, h.DocumentsQuery(), onChange)
}

func (h *Hooks) ObserveCourses(onChange func(querycache.State[[]model.Course])) *querycache.Observer[[]model.Course] {
	return querycache.Observe(h.cache, h.CoursesQuery(), onChange)
}

func (h *Hooks) ObserveExercises(courseID string, onChange func(querycache.State[[]model.Exercise])) *querycache.Observer[[]model.Exercise] {
	return querycache.Observe(h.cache, h.ExercisesQuery(courseID), onChange)
}

func (h *Hooks) ObserveRevisionSheets(onChange func(querycache.State[[]model.RevisionSheet])) *querycache.Observer[[]model.RevisionSheet] {
	return querycache.Observe(h.cache, h.RevisionSheetsQuery(), onChange)
}

func (h *Hooks) ObserveErrorRevisions(onChange func(querycache.State[[]model.ErrorRevision])) *querycache.Observer[[]model.ErrorRevision] {
	return querycache.Observe(h.cache, h.ErrorRevisionsQuery(), onChange)
}

func (h *Hooks) ObserveQuestionnaireStatus(onChange func(querycache.State[model.QuestionnaireStatus])) *querycache.Observer[model.QuestionnaireStatus] {
	return querycache.Observe(h.cache, h.QuestionnaireStatusQuery(), onChange)
}

func (h *Hooks) ObserveUserRole(onChange func(querycache.State[model.UserRole])) *querycache.Observer[model.UserRole] {
	return querycache.Observe(h.cache, h.UserRoleQuery(), onChange)
}

func (h *Hooks) ObserveMembership(onChange func(querycache.State[*model.OrganizationMembership])) *querycache.Observer[*model.OrganizationMembership] {
	return querycache.Observe(h.cache, h.MembershipQuery(), onChange)
}

func (h *Hooks) ObserveOrganizationCapacity(orgID string, onChange func(querycache.State[model.Capacity])) *querycache.Observer[model.Capacity] {
	return querycache.Observe(h.cache, h.OrganizationCapacityQuery(orgID), onChange)
}
