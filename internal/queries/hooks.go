// Package queries declares one hook per entity family on top of the query
// cache: the key, the fetch bound to the remote client, the gating on the
// session and the poll policy. Mutations invalidate the keys they affect.
package queries

import (
	"context"
	"errors"

	"studyhub/internal/capacity"
	"studyhub/internal/logging"
	"studyhub/internal/model"
	"studyhub/internal/notify"
	"studyhub/internal/profile"
	"studyhub/internal/querycache"
	"studyhub/internal/remote"
	"studyhub/internal/repository"
	"studyhub/internal/service"
)

// Auth is the part of the session the hooks gate on.
type Auth interface {
	UserID() string
	Loading() bool
}

type Hooks struct {
	cache  *querycache.Cache
	auth   Auth
	remote *remote.Client
	notify notify.Notifier
	log    *logging.Logger
	policy Policy
}

func New(cache *querycache.Cache, auth Auth, rc *remote.Client, n notify.Notifier, log *logging.Logger, policy Policy) *Hooks {
	return &Hooks{
		cache:  cache,
		auth:   auth,
		remote: rc,
		notify: n,
		log:    log.With(logging.Fields{"component": "queries"}),
		policy: policy,
	}
}

// Cache exposes the underlying cache, e.g. for direct reads with querycache.Fetch.
func (h *Hooks) Cache() *querycache.Cache { return h.cache }

// user returns the signed-in user id and whether hooks may run for it.
func (h *Hooks) user() (string, bool) {
	if h.auth.Loading() {
		return "", false
	}
	uid := h.auth.UserID()
	return uid, uid != ""
}

// ForgetUser drops every entry scoped to uid. Wired to sign-out.
func (h *Hooks) ForgetUser(uid string) {
	if uid == "" {
		return
	}
	for _, entity := range userEntities {
		h.cache.Remove(querycache.NewKey(entity, uid))
	}
}

func (h *Hooks) ProfileQuery() querycache.Query[*model.Profile] {
	uid, ok := h.user()
	return querycache.Query[*model.Profile]{
		Key:       ProfileKey(uid),
		Enabled:   ok,
		StaleTime: h.policy.StaleTime,
		Fetch: func(ctx context.Context) (*model.Profile, error) {
			return h.remote.Profiles.FindByID(ctx, uid)
		},
	}
}

func (h *Hooks) DocumentsQuery() querycache.Query[[]model.Document] {
	uid, ok := h.user()
	return querycache.Query[[]model.Document]{
		Key:       DocumentsKey(uid),
		Enabled:   ok,
		StaleTime: h.policy.StaleTime,
		Fetch: func(ctx context.Context) ([]model.Document, error) {
			return h.allDocuments(ctx, uid)
		},
	}
}

// allDocuments pages through the user's documents until Total is reached.
func (h *Hooks) allDocuments(ctx context.Context, uid string) ([]model.Document, error) {
	var docs []model.Document
	for {
		res, err := h.remote.Documents.List(ctx, uid, service.MaxPageSize, len(docs))
		if err != nil {
			return nil, err
		}
		docs = append(docs, res.Items...)
		if len(res.Items) == 0 || len(docs) >= res.Total {
			return docs, nil
		}
	}
}

func (h *Hooks) CoursesQuery() querycache.Query[[]model.Course] {
	uid, ok := h.user()
	return querycache.Query[[]model.Course]{
		Key:       CoursesKey(uid),
		Enabled:   ok,
		StaleTime: h.policy.StaleTime,
		Fetch: func(ctx context.Context) ([]model.Course, error) {
			return h.remote.Courses.ListByUser(ctx, uid)
		},
	}
}

func (h *Hooks) ExercisesQuery(courseID string) querycache.Query[[]model.Exercise] {
	uid, ok := h.user()
	return querycache.Query[[]model.Exercise]{
		Key:       ExercisesKey(uid, courseID),
		Enabled:   ok && courseID != "",
		StaleTime: h.policy.StaleTime,
		Fetch: func(ctx context.Context) ([]model.Exercise, error) {
			return h.remote.Courses.ListExercises(ctx, uid, courseID)
		},
	}
}

// RevisionSheetsQuery polls while any sheet is generating.
func (h *Hooks) RevisionSheetsQuery() querycache.Query[[]model.RevisionSheet] {
	uid, ok := h.user()
	return querycache.Query[[]model.RevisionSheet]{
		Key:       RevisionSheetsKey(uid),
		Enabled:   ok,
		StaleTime: h.policy.StaleTime,
		Fetch: func(ctx context.Context) ([]model.RevisionSheet, error) {
			return h.remote.Revisions.ListSheets(ctx, uid)
		},
		RefetchInterval: PollWhileGenerating[model.RevisionSheet](h.policy.PollInterval),
	}
}

// ErrorRevisionsQuery polls while any revision is generating.
func (h *Hooks) ErrorRevisionsQuery() querycache.Query[[]model.ErrorRevision] {
	uid, ok := h.user()
	return querycache.Query[[]model.ErrorRevision]{
		Key:       ErrorRevisionsKey(uid),
		Enabled:   ok,
		StaleTime: h.policy.StaleTime,
		Fetch: func(ctx context.Context) ([]model.ErrorRevision, error) {
			return h.remote.Revisions.ListErrorRevisions(ctx, uid)
		},
		RefetchInterval: PollWhileGenerating[model.ErrorRevision](h.policy.PollInterval),
	}
}

func (h *Hooks) QuestionnaireStatusQuery() querycache.Query[model.QuestionnaireStatus] {
	uid, ok := h.user()
	return querycache.Query[model.QuestionnaireStatus]{
		Key:       QuestionnaireStatusKey(uid),
		Enabled:   ok,
		StaleTime: h.policy.StaleTime,
		Fetch: func(ctx context.Context) (model.QuestionnaireStatus, error) {
			p, err := h.remote.Profiles.FindByID(ctx, uid)
			if err != nil {
				return model.QuestionnaireStatus{}, err
			}
			return profile.QuestionnaireStatusOf(*p), nil
		},
	}
}

func (h *Hooks) UserRoleQuery() querycache.Query[model.UserRole] {
	uid, ok := h.user()
	return querycache.Query[model.UserRole]{
		Key:       UserRoleKey(uid),
		Enabled:   ok,
		StaleTime: h.policy.StaleTime,
		Fetch: func(ctx context.Context) (model.UserRole, error) {
			p, err := h.remote.Profiles.FindByID(ctx, uid)
			if err != nil {
				return model.UserRole{}, err
			}
			return model.UserRole{UserID: p.ID, Role: p.Role}, nil
		},
	}
}

// MembershipQuery resolves to nil, not an error, when the user belongs to no
// organization.
func (h *Hooks) MembershipQuery() querycache.Query[*model.OrganizationMembership] {
	uid, ok := h.user()
	return querycache.Query[*model.OrganizationMembership]{
		Key:       MembershipKey(uid),
		Enabled:   ok,
		StaleTime: h.policy.StaleTime,
		Fetch: func(ctx context.Context) (*model.OrganizationMembership, error) {
			m, err := h.remote.Organizations.FindMembership(ctx, uid)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, nil
			}
			return m, err
		},
	}
}

func (h *Hooks) OrganizationCapacityQuery(orgID string) querycache.Query[model.Capacity] {
	_, ok := h.user()
	return querycache.Query[model.Capacity]{
		Key:       CapacityKey(orgID),
		Enabled:   ok && orgID != "",
		StaleTime: h.policy.StaleTime,
		Fetch: func(ctx context.Context) (model.Capacity, error) {
			members, limit, err := h.remote.Organizations.CountActiveMembers(ctx, orgID)
			if err != nil {
				return model.Capacity{}, err
			}
			return capacity.Of(orgID, members, limit), nil
		},
	}
}
