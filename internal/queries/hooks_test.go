package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	fnMocks "studyhub/internal/functions/mocks"
	"studyhub/internal/logging"
	"studyhub/internal/model"
	"studyhub/internal/notify"
	"studyhub/internal/querycache"
	"studyhub/internal/remote"
	"studyhub/internal/repository"
	repoMocks "studyhub/internal/repository/mocks"
	"studyhub/internal/service"
	svcMocks "studyhub/internal/service/mocks"
	storeMocks "studyhub/internal/storage/mocks"
)

type fakeAuth struct {
	uid     string
	loading bool
}

func (a fakeAuth) UserID() string { return a.uid }
func (a fakeAuth) Loading() bool  { return a.loading }

type fixture struct {
	hooks     *Hooks
	profiles  *repoMocks.MockProfileRepository
	courses   *repoMocks.MockCourseRepository
	revisions *repoMocks.MockRevisionRepository
	orgs      *repoMocks.MockOrganizationRepository
	docs      *svcMocks.MockDocumentService
	store     *storeMocks.MockStorage
	fn        *fnMocks.MockInvoker
	notices   *notify.Recorder
}

func newFixture(t *testing.T, auth Auth, policy Policy) *fixture {
	t.Helper()
	f := &fixture{
		profiles:  new(repoMocks.MockProfileRepository),
		courses:   new(repoMocks.MockCourseRepository),
		revisions: new(repoMocks.MockRevisionRepository),
		orgs:      new(repoMocks.MockOrganizationRepository),
		docs:      new(svcMocks.MockDocumentService),
		store:     new(storeMocks.MockStorage),
		fn:        new(fnMocks.MockInvoker),
		notices:   &notify.Recorder{},
	}
	rc := &remote.Client{
		Profiles:      f.profiles,
		Courses:       f.courses,
		Revisions:     f.revisions,
		Organizations: f.orgs,
		Documents:     f.docs,
		Storage:       f.store,
		Functions:     f.fn,
	}
	f.hooks = New(querycache.New(), auth, rc, f.notices, logging.Discard(), policy)
	t.Cleanup(func() {
		f.profiles.AssertExpectations(t)
		f.courses.AssertExpectations(t)
		f.revisions.AssertExpectations(t)
		f.orgs.AssertExpectations(t)
		f.docs.AssertExpectations(t)
		f.store.AssertExpectations(t)
		f.fn.AssertExpectations(t)
	})
	return f
}

func signedIn(t *testing.T) *fixture {
	return newFixture(t, fakeAuth{uid: "u1"}, DefaultPolicy())
}

func TestHooks_GatedOnSession(t *testing.T) {
	ctx := context.Background()

	for name, auth := range map[string]fakeAuth{
		"signed out": {},
		"loading":    {uid: "u1", loading: true},
	} {
		t.Run(name, func(t *testing.T) {
			h := newFixture(t, auth, DefaultPolicy()).hooks
			c := h.Cache()

			_, err := querycache.Fetch(ctx, c, h.ProfileQuery())
			assert.ErrorIs(t, err, querycache.ErrDisabled)
			_, err = querycache.Fetch(ctx, c, h.DocumentsQuery())
			assert.ErrorIs(t, err, querycache.ErrDisabled)
			_, err = querycache.Fetch(ctx, c, h.ExercisesQuery("c1"))
			assert.ErrorIs(t, err, querycache.ErrDisabled)
			_, err = querycache.Fetch(ctx, c, h.ErrorRevisionsQuery())
			assert.ErrorIs(t, err, querycache.ErrDisabled)
			_, err = querycache.Fetch(ctx, c, h.OrganizationCapacityQuery("org-1"))
			assert.ErrorIs(t, err, querycache.ErrDisabled)

			o := h.ObserveRevisionSheets(nil)
			defer o.Close()
			assert.Equal(t, querycache.StatusDisabled, o.State().Status)
		})
	}
}

func TestHooks_GatedOnParameters(t *testing.T) {
	h := signedIn(t).hooks
	assert.False(t, h.ExercisesQuery("").Enabled)
	assert.False(t, h.OrganizationCapacityQuery("").Enabled)
	assert.True(t, h.ExercisesQuery("c1").Enabled)
}

func TestHooks_Keys(t *testing.T) {
	h := signedIn(t).hooks
	assert.Equal(t, "profile/u1", h.ProfileQuery().Key.String())
	assert.Equal(t, "exercises/u1/c1", h.ExercisesQuery("c1").Key.String())
	assert.Equal(t, "organization-capacity/org-1", h.OrganizationCapacityQuery("org-1").Key.String())
	assert.Equal(t, "organization-membership/u1", h.MembershipQuery().Key.String())
}

func TestMembership_NoRowIsNil(t *testing.T) {
	f := signedIn(t)
	f.orgs.On("FindMembership", mock.Anything, "u1").Return(nil, repository.ErrNotFound)

	m, err := querycache.Fetch(context.Background(), f.hooks.Cache(), f.hooks.MembershipQuery())
	require.NoError(t, err)
	assert.Nil(t, m)

	o := f.hooks.ObserveMembership(nil)
	defer o.Close()
	st := o.State()
	assert.Equal(t, querycache.StatusSuccess, st.Status)
	assert.True(t, st.HasData)
	assert.Nil(t, st.Data)
}

func TestMembership_RemoteFailure(t *testing.T) {
	f := signedIn(t)
	f.orgs.On("FindMembership", mock.Anything, "u1").Return(nil, errors.New("timeout"))

	_, err := querycache.Fetch(context.Background(), f.hooks.Cache(), f.hooks.MembershipQuery())
	var fe *querycache.FetchError
	assert.ErrorAs(t, err, &fe)
}

func TestOrganizationCapacity(t *testing.T) {
	f := signedIn(t)
	f.orgs.On("CountActiveMembers", mock.Anything, "org-1").Return(9, 10, nil)

	got, err := querycache.Fetch(context.Background(), f.hooks.Cache(), f.hooks.OrganizationCapacityQuery("org-1"))
	require.NoError(t, err)
	assert.Equal(t, model.Capacity{
		OrganizationID: "org-1",
		Members:        9,
		Limit:          10,
		Percentage:     90,
		Status:         model.CapacityHigh,
	}, got)
}

func TestDerivedProfileHooks(t *testing.T) {
	f := signedIn(t)
	f.profiles.On("FindByID", mock.Anything, "u1").Return(&model.Profile{
		ID:                     "u1",
		Role:                   model.RoleTeacher,
		Country:                "FR",
		EducationLevel:         "lycee",
		Classes:                []string{"seconde"},
		Subjects:               []string{"maths"},
		Subscription:           "premium",
		QuestionnaireCompleted: true,
	}, nil)

	ctx := context.Background()
	qs, err := querycache.Fetch(ctx, f.hooks.Cache(), f.hooks.QuestionnaireStatusQuery())
	require.NoError(t, err)
	assert.True(t, qs.ProfileCompleted)
	assert.True(t, qs.QuestionnaireCompleted)
	assert.False(t, qs.LearningStyleCompleted)

	role, err := querycache.Fetch(ctx, f.hooks.Cache(), f.hooks.UserRoleQuery())
	require.NoError(t, err)
	assert.Equal(t, model.UserRole{UserID: "u1", Role: model.RoleTeacher}, role)
}

func TestPollWhileGenerating(t *testing.T) {
	poll := PollWhileGenerating[model.ErrorRevision](10 * time.Second)

	assert.Zero(t, poll(nil, false), "absent list")
	assert.Zero(t, poll([]model.ErrorRevision{}, true), "empty list")
	assert.Zero(t, poll([]model.ErrorRevision{{Status: model.StatusCompleted}, {Status: model.StatusFailed}}, true))
	assert.Equal(t, 10*time.Second, poll([]model.ErrorRevision{
		{Status: model.StatusCompleted},
		{Status: model.StatusGenerating},
	}, true))

	sheets := PollWhileGenerating[model.RevisionSheet](time.Second)
	assert.Zero(t, sheets([]model.RevisionSheet{{Status: model.StatusNotRequested}}, true))
}

func TestErrorRevisions_PollUntilSettled(t *testing.T) {
	policy := DefaultPolicy()
	policy.PollInterval = 10 * time.Millisecond
	f := newFixture(t, fakeAuth{uid: "u1"}, policy)

	generating := []model.ErrorRevision{{ID: "r1", UserID: "u1", Status: model.StatusGenerating}}
	done := []model.ErrorRevision{{ID: "r1", UserID: "u1", Status: model.StatusCompleted}}
	f.revisions.On("ListErrorRevisions", mock.Anything, "u1").Return(generating, nil).Times(2)
	f.revisions.On("ListErrorRevisions", mock.Anything, "u1").Return(done, nil).Once()

	o := f.hooks.ObserveErrorRevisions(nil)
	defer o.Close()

	require.Eventually(t, func() bool {
		st := o.State()
		return st.HasData && st.Data[0].Status == model.StatusCompleted
	}, 2*time.Second, 5*time.Millisecond)
	assert.Zero(t, o.State().Polling)

	// a further poll would exceed the expectations above
	time.Sleep(50 * time.Millisecond)
}

func TestDocumentsQuery_PagesThroughTotal(t *testing.T) {
	f := signedIn(t)
	first := docsList("d1", "d2")
	first.Total = 3
	second := docsList("d3")
	second.Total = 3
	f.docs.On("List", mock.Anything, "u1", service.MaxPageSize, 0).Return(first, nil).Once()
	f.docs.On("List", mock.Anything, "u1", service.MaxPageSize, 2).Return(second, nil).Once()

	docs, err := querycache.Fetch(context.Background(), f.hooks.Cache(), f.hooks.DocumentsQuery())
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "d3", docs[2].ID)
}

func TestDocumentsQuery_StopsOnShortTotal(t *testing.T) {
	f := signedIn(t)
	first := docsList("d1")
	first.Total = 5
	f.docs.On("List", mock.Anything, "u1", service.MaxPageSize, 0).Return(first, nil).Once()
	f.docs.On("List", mock.Anything, "u1", service.MaxPageSize, 1).Return(docsList(), nil).Once()

	docs, err := querycache.Fetch(context.Background(), f.hooks.Cache(), f.hooks.DocumentsQuery())
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestForgetUser(t *testing.T) {
	f := signedIn(t)
	c := f.hooks.Cache()
	c.Set(ProfileKey("u1"), &model.Profile{ID: "u1"})
	c.Set(ExercisesKey("u1", "c1"), []model.Exercise{})
	c.Set(ProfileKey("u2"), &model.Profile{ID: "u2"})

	f.hooks.ForgetUser("u1")

	_, ok := querycache.Get[*model.Profile](c, ProfileKey("u1"))
	assert.False(t, ok)
	_, ok = querycache.Get[[]model.Exercise](c, ExercisesKey("u1", "c1"))
	assert.False(t, ok)
	_, ok = querycache.Get[*model.Profile](c, ProfileKey("u2"))
	assert.True(t, ok)
}

func TestPolicyFrom(t *testing.T) {
	p := PolicyFrom(configCache(0, 3*time.Second, 0))
	assert.Equal(t, 5*time.Minute, p.StaleTime)
	assert.Equal(t, 3*time.Second, p.PollInterval)
	assert.Equal(t, time.Hour, p.SignedURLTTL)
}

func docsList(ids ...string) *service.DocumentListResult {
	res := &service.DocumentListResult{}
	for _, id := range ids {
		res.Items = append(res.Items, model.Document{ID: id, UserID: "u1"})
	}
	res.Total = len(res.Items)
	return res
}
