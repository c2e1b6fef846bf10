package event_type

import (
	"testing"

	"github.com/bookli/bookli/internal/config"
	"github.com/bookli/bookli/pkg/team"
	"github.com/bookli/bookli/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBooking = config.Booking{
	BaseUrl:   "https://book.bookli.app",
	OrgDomain: "bookli.app",
}

func intPtr(i int) *int                         { return &i }
func strPtr(s string) *string                   { return &s }
func schedPtr(t SchedulingType) *SchedulingType { return &t }

func testViewer() user.User {
	return user.User{Id: 1, Username: "alice", Name: "Alice", AvatarUrl: "/avatars/1.jpg"}
}

func display(id int, position int, teamId *int) DisplayEventType {
	return DisplayEventType{EventType: EventType{
		Id:       id,
		Title:    "Event",
		Slug:     "event",
		Position: position,
		Length:   30,
		TeamId:   teamId,
	}}
}

func membership(t team.Team, role team.Role) team.MembershipWithTeam {
	return team.MembershipWithTeam{
		Membership: team.Membership{TeamId: t.Id, UserId: 1, Role: role, Accepted: true},
		Team:       t,
	}
}

func TestBuildGroups_PersonalGroupFirst(t *testing.T) {
	acme := team.Team{Id: 10, Name: "Acme", Slug: strPtr("acme"), MemberCount: 3}

	result := BuildGroups(groupInput{
		Viewer:             testViewer(),
		Memberships:        []team.MembershipWithTeam{membership(acme, team.RoleAdmin)},
		PersonalEventTypes: []DisplayEventType{display(1, 1, nil)},
		TeamEventTypes:     map[int][]DisplayEventType{10: {display(2, 1, intPtr(10))}},
		Booking:            testBooking,
	})

	require.Len(t, result.EventTypeGroups, 2)
	personal := result.EventTypeGroups[0]
	assert.Nil(t, personal.TeamId)
	assert.Equal(t, "alice", *personal.Profile.Slug)
	assert.Equal(t, "Alice", personal.Profile.Name)
	assert.Equal(t, testBooking.BaseUrl, personal.BookerUrl)
	assert.Equal(t, 10, *result.EventTypeGroups[1].TeamId)
}

func TestBuildGroups_SkipsOrganizationRoot(t *testing.T) {
	org := team.Team{Id: 5, Name: "Acme Org", IsOrganization: true}
	sub := team.Team{Id: 10, Name: "Sales", Slug: strPtr("sales"), ParentId: intPtr(5), ParentSlug: strPtr("acme")}

	result := BuildGroups(groupInput{
		Viewer: testViewer(),
		Memberships: []team.MembershipWithTeam{
			membership(org, team.RoleOwner),
			membership(sub, team.RoleMember),
		},
		Booking: testBooking,
	})

	require.Len(t, result.EventTypeGroups, 2)
	assert.Nil(t, result.EventTypeGroups[0].TeamId)
	assert.Equal(t, 10, *result.EventTypeGroups[1].TeamId)
}

func TestBuildGroups_UserFilterExcludesPersonalGroup(t *testing.T) {
	acme := team.Team{Id: 10, Name: "Acme", Slug: strPtr("acme")}

	result := BuildGroups(groupInput{
		Viewer:             testViewer(),
		Memberships:        []team.MembershipWithTeam{membership(acme, team.RoleAdmin)},
		PersonalEventTypes: []DisplayEventType{display(1, 1, nil)},
		Filters:            &Filters{UserIds: []int{99}},
		Booking:            testBooking,
	})

	require.Len(t, result.EventTypeGroups, 1)
	assert.Equal(t, 10, *result.EventTypeGroups[0].TeamId)
}

func TestBuildGroups_TeamFilterExact(t *testing.T) {
	sales := team.Team{Id: 10, Name: "Sales", Slug: strPtr("sales")}
	support := team.Team{Id: 11, Name: "Support", Slug: strPtr("support")}

	result := BuildGroups(groupInput{
		Viewer: testViewer(),
		Memberships: []team.MembershipWithTeam{
			membership(sales, team.RoleAdmin),
			membership(support, team.RoleAdmin),
		},
		Filters: &Filters{TeamIds: []int{11}},
		Booking: testBooking,
	})

	// A team-only filter leaves the personal group in place.
	require.Len(t, result.EventTypeGroups, 2)
	assert.Nil(t, result.EventTypeGroups[0].TeamId)
	assert.Equal(t, 11, *result.EventTypeGroups[1].TeamId)
}

func TestBuildGroups_SortByPositionDescThenIdAsc(t *testing.T) {
	result := BuildGroups(groupInput{
		Viewer: testViewer(),
		PersonalEventTypes: []DisplayEventType{
			display(3, 1, nil),
			display(1, 2, nil),
			display(2, 2, nil),
		},
		Booking: testBooking,
	})

	require.Len(t, result.EventTypeGroups, 1)
	eventTypes := result.EventTypeGroups[0].EventTypes
	require.Len(t, eventTypes, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{eventTypes[0].Id, eventTypes[1].Id, eventTypes[2].Id})
}

func TestBuildGroups_PersonalGroupHidesManaged(t *testing.T) {
	managed := display(1, 2, nil)
	managed.SchedulingType = schedPtr(Managed)

	result := BuildGroups(groupInput{
		Viewer:             testViewer(),
		PersonalEventTypes: []DisplayEventType{managed, display(2, 1, nil)},
		Booking:            testBooking,
	})

	require.Len(t, result.EventTypeGroups, 1)
	require.Len(t, result.EventTypeGroups[0].EventTypes, 1)
	assert.Equal(t, 2, result.EventTypeGroups[0].EventTypes[0].Id)
}

func TestBuildGroups_MemberDoesNotSeeManagedTeamEventTypes(t *testing.T) {
	acme := team.Team{Id: 10, Name: "Acme", Slug: strPtr("acme")}
	managed := display(1, 2, intPtr(10))
	managed.SchedulingType = schedPtr(Managed)

	buildFor := func(role team.Role) []DisplayEventType {
		result := BuildGroups(groupInput{
			Viewer:         testViewer(),
			Memberships:    []team.MembershipWithTeam{membership(acme, role)},
			TeamEventTypes: map[int][]DisplayEventType{10: {managed, display(2, 1, intPtr(10))}},
			Booking:        testBooking,
		})
		return result.EventTypeGroups[1].EventTypes
	}

	memberView := buildFor(team.RoleMember)
	require.Len(t, memberView, 1)
	assert.Equal(t, 2, memberView[0].Id)

	adminView := buildFor(team.RoleAdmin)
	assert.Len(t, adminView, 2)
}

func TestBuildGroups_AssignedEventTypeHiddenFromUnassignedViewer(t *testing.T) {
	acme := team.Team{Id: 10, Name: "Acme", Slug: strPtr("acme")}
	assignedToOther := display(1, 2, intPtr(10))
	assignedToOther.UserIds = []int{7, 8}
	assignedToViewer := display(2, 1, intPtr(10))
	assignedToViewer.UserIds = []int{1, 7}

	result := BuildGroups(groupInput{
		Viewer:      testViewer(),
		Memberships: []team.MembershipWithTeam{membership(acme, team.RoleAdmin)},
		TeamEventTypes: map[int][]DisplayEventType{
			10: {assignedToOther, assignedToViewer, display(3, 0, intPtr(10))},
		},
		Booking: testBooking,
	})

	eventTypes := result.EventTypeGroups[1].EventTypes
	require.Len(t, eventTypes, 2)
	assert.Equal(t, 2, eventTypes[0].Id)
	assert.Equal(t, 3, eventTypes[1].Id)
}

func TestBuildGroups_ParentRoleUpgradesSubTeamRole(t *testing.T) {
	org := team.Team{Id: 5, Name: "Acme Org", IsOrganization: true}
	sub := team.Team{Id: 10, Name: "Sales", Slug: strPtr("sales"), ParentId: intPtr(5), ParentSlug: strPtr("acme")}

	result := BuildGroups(groupInput{
		Viewer: testViewer(),
		Memberships: []team.MembershipWithTeam{
			membership(sub, team.RoleMember),
			membership(org, team.RoleOwner),
		},
		Booking: testBooking,
	})

	require.Len(t, result.EventTypeGroups, 2)
	group := result.EventTypeGroups[1]
	assert.Equal(t, team.RoleOwner, *group.MembershipRole)
	assert.False(t, group.Metadata.ReadOnly)
}

func TestBuildGroups_MemberWithoutParentRoleIsReadOnly(t *testing.T) {
	acme := team.Team{Id: 10, Name: "Acme", Slug: strPtr("acme")}

	result := BuildGroups(groupInput{
		Viewer:      testViewer(),
		Memberships: []team.MembershipWithTeam{membership(acme, team.RoleMember)},
		Booking:     testBooking,
	})

	group := result.EventTypeGroups[1]
	assert.Equal(t, team.RoleMember, *group.MembershipRole)
	assert.True(t, group.Metadata.ReadOnly)
}

func TestResolveTeamSlug(t *testing.T) {
	tests := []struct {
		name            string
		team            team.Team
		forRoutingForms bool
		want            *string
	}{
		{
			name: "top-level team gets prefix",
			team: team.Team{Slug: strPtr("acme")},
			want: strPtr("team/acme"),
		},
		{
			name: "org sub-team keeps bare slug",
			team: team.Team{Slug: strPtr("sales"), ParentId: intPtr(5)},
			want: strPtr("sales"),
		},
		{
			name:            "routing forms always prefix",
			team:            team.Team{Slug: strPtr("sales"), ParentId: intPtr(5)},
			forRoutingForms: true,
			want:            strPtr("team/sales"),
		},
		{
			name: "requested slug fallback",
			team: team.Team{Metadata: &team.Metadata{RequestedSlug: "pending"}},
			want: strPtr("team/pending"),
		},
		{
			name: "no slug at all",
			team: team.Team{},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveTeamSlug(tt.team, tt.forRoutingForms)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestBookerUrl(t *testing.T) {
	assert.Equal(t, "https://book.bookli.app", bookerUrl(nil, testBooking))
	assert.Equal(t, "https://acme.bookli.app", bookerUrl(strPtr("acme"), testBooking))
}

func TestBuildGroups_ProfilesMirrorGroups(t *testing.T) {
	acme := team.Team{Id: 10, Name: "Acme", Slug: strPtr("acme"), MemberCount: 4, LogoUrl: "/logos/acme.png"}

	result := BuildGroups(groupInput{
		Viewer:      testViewer(),
		Memberships: []team.MembershipWithTeam{membership(acme, team.RoleMember)},
		Booking:     testBooking,
	})

	require.Len(t, result.Profiles, 2)
	assert.Equal(t, "Alice", result.Profiles[0].Name)
	teamProfile := result.Profiles[1]
	assert.Equal(t, 10, *teamProfile.TeamId)
	assert.Equal(t, "Acme", teamProfile.Name)
	assert.Equal(t, 4, teamProfile.MembershipCount)
	assert.True(t, teamProfile.ReadOnly)
	assert.Equal(t, "/logos/acme.png", teamProfile.ImageUrl)
}
