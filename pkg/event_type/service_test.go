package event_type

import (
	"context"
	"testing"
	"time"

	"github.com/bookli/bookli/internal/event_bus"
	"github.com/bookli/bookli/internal/ratelimit"
	"github.com/bookli/bookli/internal/utils"
	"github.com/bookli/bookli/pkg/team"
	"github.com/bookli/bookli/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserProvider struct{}

func (s *stubUserProvider) GetCurrentUser(ctx context.Context) (user.User, error) {
	return user.CurrentUser(ctx)
}

type serviceFixture struct {
	repo     *RepositoryStub
	teamRepo *team.StubTeamRepo
	clock    *utils.MockClock
	service  *ServiceImpl
}

func newServiceFixture(t *testing.T, limit int) *serviceFixture {
	t.Helper()
	repo := NewRepositoryStub()
	teamRepo := team.NewStubTeamRepo()
	clock := &utils.MockClock{FixedNow: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := NewService(
		repo,
		teamRepo,
		&stubUserProvider{},
		ratelimit.NewWithClock(limit, time.Minute, clock),
		event_bus.NewEventBus(),
		testBooking,
	)
	return &serviceFixture{repo: repo, teamRepo: teamRepo, clock: clock, service: service}
}

func viewerContext() context.Context {
	return user.WithUser(context.Background(), testViewer())
}

func TestGetByViewer_RequiresUser(t *testing.T) {
	f := newServiceFixture(t, 10)

	_, err := f.service.GetByViewer(context.Background(), nil, false)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestGetByViewer_AggregatesPersonalAndTeamEventTypes(t *testing.T) {
	f := newServiceFixture(t, 10)
	ctx := viewerContext()

	acme := team.Team{Id: 10, Name: "Acme", Slug: strPtr("acme"), MemberCount: 2}
	f.teamRepo.AddTeam(acme)
	f.teamRepo.AddMembership(team.Membership{TeamId: 10, UserId: 1, Role: team.RoleAdmin, Accepted: true})

	f.repo.Add(EventType{Id: 1, Title: "Intro", Slug: "intro", Length: 30, OwnerUserId: intPtr(1)})
	f.repo.Add(EventType{Id: 2, Title: "Team sync", Slug: "sync", Length: 30, TeamId: intPtr(10)})

	result, err := f.service.GetByViewer(ctx, nil, false)
	require.NoError(t, err)

	require.Len(t, result.EventTypeGroups, 2)
	assert.Len(t, result.EventTypeGroups[0].EventTypes, 1)
	assert.Len(t, result.EventTypeGroups[1].EventTypes, 1)
	assert.Equal(t, "Team sync", result.EventTypeGroups[1].EventTypes[0].Title)
}

func TestGetByViewer_SkipsOrganizationRootEventTypes(t *testing.T) {
	f := newServiceFixture(t, 10)
	ctx := viewerContext()

	org := team.Team{Id: 5, Name: "Acme Org", IsOrganization: true}
	f.teamRepo.AddTeam(org)
	f.teamRepo.AddMembership(team.Membership{TeamId: 5, UserId: 1, Role: team.RoleOwner, Accepted: true})
	f.repo.Add(EventType{Id: 1, Title: "Org wide", Slug: "org-wide", Length: 30, TeamId: intPtr(5)})

	result, err := f.service.GetByViewer(ctx, nil, false)
	require.NoError(t, err)

	// Only the personal group remains; the organization root is never
	// a bookable group.
	require.Len(t, result.EventTypeGroups, 1)
	assert.Nil(t, result.EventTypeGroups[0].TeamId)
}

func TestGetByViewer_RateLimited(t *testing.T) {
	f := newServiceFixture(t, 2)
	ctx := viewerContext()

	_, err := f.service.GetByViewer(ctx, nil, false)
	require.NoError(t, err)
	_, err = f.service.GetByViewer(ctx, nil, false)
	require.NoError(t, err)

	_, err = f.service.GetByViewer(ctx, nil, false)
	assert.ErrorIs(t, err, ErrRateLimited)

	// The window expires and the viewer is allowed again.
	f.clock.SetNow(f.clock.FixedNow.Add(2 * time.Minute))
	_, err = f.service.GetByViewer(ctx, nil, false)
	assert.NoError(t, err)
}

func TestGetByViewer_RateLimitIsPerUser(t *testing.T) {
	f := newServiceFixture(t, 1)

	alice := user.WithUser(context.Background(), user.User{Id: 1, Username: "alice", Name: "Alice"})
	bob := user.WithUser(context.Background(), user.User{Id: 2, Username: "bob", Name: "Bob"})

	_, err := f.service.GetByViewer(alice, nil, false)
	require.NoError(t, err)
	_, err = f.service.GetByViewer(alice, nil, false)
	assert.ErrorIs(t, err, ErrRateLimited)

	_, err = f.service.GetByViewer(bob, nil, false)
	assert.NoError(t, err)
}

func TestCreateEventType(t *testing.T) {
	f := newServiceFixture(t, 10)
	ctx := viewerContext()

	f.repo.Add(EventType{Id: 1, Title: "Existing", Slug: "existing", Length: 30, OwnerUserId: intPtr(1), Position: 3})

	created, err := f.service.Create(ctx, EventType{Title: "Intro", Slug: "intro", Length: 30})
	require.NoError(t, err)
	assert.NotZero(t, created.Id)
	assert.Equal(t, 4, created.Position)
	assert.Equal(t, 1, *created.OwnerUserId)
}

func TestCreateEventType_Invalid(t *testing.T) {
	f := newServiceFixture(t, 10)
	ctx := viewerContext()

	_, err := f.service.Create(ctx, EventType{Slug: "intro", Length: 30})
	assert.ErrorIs(t, err, ErrEventTypeDataInvalid)

	_, err = f.service.Create(ctx, EventType{Title: "Intro", Slug: "intro"})
	assert.ErrorIs(t, err, ErrEventTypeDataInvalid)
}

func TestUpdateEventType_NotOwner(t *testing.T) {
	f := newServiceFixture(t, 10)
	ctx := viewerContext()

	f.repo.Add(EventType{Id: 1, Title: "Bob's", Slug: "bobs", Length: 30, OwnerUserId: intPtr(2)})

	_, err := f.service.Update(ctx, EventType{Id: 1, Title: "Hijack", Slug: "hijack", Length: 30})
	assert.ErrorIs(t, err, ErrEventTypeNotFound)
}

func TestDeleteEventType(t *testing.T) {
	f := newServiceFixture(t, 10)
	ctx := viewerContext()

	f.repo.Add(EventType{Id: 1, Title: "Intro", Slug: "intro", Length: 30, OwnerUserId: intPtr(1)})

	require.NoError(t, f.service.Delete(ctx, 1))
	assert.ErrorIs(t, f.service.Delete(ctx, 1), ErrEventTypeNotFound)
}

func TestSetDestinationCalendar(t *testing.T) {
	f := newServiceFixture(t, 10)
	ctx := viewerContext()

	f.repo.Add(EventType{Id: 1, Title: "Intro", Slug: "intro", Length: 30, OwnerUserId: intPtr(1)})

	require.NoError(t, f.service.SetDestinationCalendar(ctx, 1, "work@group.calendar.google.com"))

	et, err := f.repo.GetById(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, et.DestinationCalendarId)
	assert.Equal(t, "work@group.calendar.google.com", *et.DestinationCalendarId)
}
