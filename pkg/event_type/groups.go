package event_type

import (
	"fmt"
	"slices"
	"sort"

	"github.com/bookli/bookli/internal/config"
	"github.com/bookli/bookli/pkg/team"
	"github.com/bookli/bookli/pkg/user"
)

// EventTypeGroup is the per-owner view the UI renders: one group for
// the viewer's personal event types (TeamId nil) and one per team.
// Built fresh per request, never persisted.
type EventTypeGroup struct {
	TeamId         *int
	ParentId       *int
	BookerUrl      string
	MembershipRole *team.Role
	Profile        GroupProfile
	Metadata       GroupMetadata
	EventTypes     []DisplayEventType
}

type GroupProfile struct {
	Slug     *string
	Name     string
	ImageUrl string
}

type GroupMetadata struct {
	MembershipCount int
	ReadOnly        bool
}

// ProfileSummary is a lightweight per-group projection for switcher
// UIs, so clients don't have to re-walk event types.
type ProfileSummary struct {
	TeamId          *int
	Name            string
	Slug            *string
	ImageUrl        string
	MembershipRole  *team.Role
	MembershipCount int
	ReadOnly        bool
}

// ViewerEventTypes is the aggregation result.
type ViewerEventTypes struct {
	EventTypeGroups []EventTypeGroup
	Profiles        []ProfileSummary
}

// groupInput carries everything the group builder needs; all request
// state is threaded explicitly, nothing ambient.
type groupInput struct {
	Viewer             user.User
	Memberships        []team.MembershipWithTeam
	PersonalEventTypes []DisplayEventType
	TeamEventTypes     map[int][]DisplayEventType
	Filters            *Filters
	ForRoutingForms    bool
	Booking            config.Booking
}

// BuildGroups partitions mapped event types into a personal group plus
// one group per accepted, non-organization-root membership, applying
// the caller's filters. Group order is personal first, then membership
// iteration order.
func BuildGroups(in groupInput) ViewerEventTypes {
	groups := make([]EventTypeGroup, 0, len(in.Memberships)+1)

	if in.Filters.IncludesUser(in.Viewer.Id) {
		groups = append(groups, buildPersonalGroup(in))
	}

	for _, m := range in.Memberships {
		if m.Team.IsOrganization {
			continue
		}
		if !in.Filters.IncludesTeam(&m.Team.Id) {
			continue
		}
		groups = append(groups, buildTeamGroup(in, m))
	}

	profiles := make([]ProfileSummary, 0, len(groups))
	for _, g := range groups {
		profiles = append(profiles, ProfileSummary{
			TeamId:          g.TeamId,
			Name:            g.Profile.Name,
			Slug:            g.Profile.Slug,
			ImageUrl:        g.Profile.ImageUrl,
			MembershipRole:  g.MembershipRole,
			MembershipCount: g.Metadata.MembershipCount,
			ReadOnly:        g.Metadata.ReadOnly,
		})
	}

	return ViewerEventTypes{EventTypeGroups: groups, Profiles: profiles}
}

func buildPersonalGroup(in groupInput) EventTypeGroup {
	// Managed event types are authored once and distributed to team
	// members; the author's own list must not show them.
	eventTypes := make([]DisplayEventType, 0, len(in.PersonalEventTypes))
	for _, et := range in.PersonalEventTypes {
		if et.IsManaged() {
			continue
		}
		eventTypes = append(eventTypes, et)
	}
	sortEventTypes(eventTypes)

	slug := in.Viewer.Username
	return EventTypeGroup{
		BookerUrl: in.Booking.BaseUrl,
		Profile: GroupProfile{
			Slug:     &slug,
			Name:     in.Viewer.Name,
			ImageUrl: in.Viewer.AvatarUrl,
		},
		EventTypes: eventTypes,
	}
}

func buildTeamGroup(in groupInput, m team.MembershipWithTeam) EventTypeGroup {
	role := effectiveRole(m, in.Memberships)
	readOnly := role == team.RoleMember

	eventTypes := make([]DisplayEventType, 0, len(in.TeamEventTypes[m.Team.Id]))
	for _, et := range in.TeamEventTypes[m.Team.Id] {
		if !in.Filters.IncludesTeam(et.TeamId) {
			continue
		}
		if len(et.UserIds) > 0 && !slices.Contains(et.UserIds, in.Viewer.Id) {
			continue
		}
		// Plain members may not see managed event types they don't own.
		if readOnly && et.IsManaged() {
			continue
		}
		eventTypes = append(eventTypes, et)
	}
	sortEventTypes(eventTypes)

	teamId := m.Team.Id
	return EventTypeGroup{
		TeamId:         &teamId,
		ParentId:       m.Team.ParentId,
		BookerUrl:      bookerUrl(m.Team.ParentSlug, in.Booking),
		MembershipRole: &role,
		Profile: GroupProfile{
			Slug:     resolveTeamSlug(m.Team, in.ForRoutingForms),
			Name:     m.Team.Name,
			ImageUrl: m.Team.LogoUrl,
		},
		Metadata: GroupMetadata{
			MembershipCount: m.Team.MemberCount,
			ReadOnly:        readOnly,
		},
		EventTypes: eventTypes,
	}
}

// effectiveRole upgrades a sub-team role with the viewer's role in the
// parent organization, whichever is stronger. The read-only flag is
// derived from the same resolved role, not recomputed.
func effectiveRole(m team.MembershipWithTeam, memberships []team.MembershipWithTeam) team.Role {
	if m.Team.ParentId == nil {
		return m.Role
	}
	for _, other := range memberships {
		if other.TeamId == *m.Team.ParentId {
			return team.StrongerOf(m.Role, other.Role)
		}
	}
	return m.Role
}

// resolveTeamSlug derives the routing slug for a team group. Top-level
// teams and routing-form contexts get the team/ prefix; organization
// sub-teams route off the organization subdomain and keep the bare
// slug. A team without any slug resolves to nil.
func resolveTeamSlug(t team.Team, forRoutingForms bool) *string {
	slug := t.Slug
	if slug == nil && t.Metadata != nil && t.Metadata.RequestedSlug != "" {
		requested := t.Metadata.RequestedSlug
		slug = &requested
	}
	if slug == nil {
		return nil
	}
	if forRoutingForms || t.ParentId == nil {
		prefixed := "team/" + *slug
		return &prefixed
	}
	return slug
}

// bookerUrl resolves the public booking base URL for a group. Teams
// under an organization book on the organization's subdomain.
func bookerUrl(parentSlug *string, booking config.Booking) string {
	if parentSlug == nil {
		return booking.BaseUrl
	}
	return fmt.Sprintf("https://%s.%s", *parentSlug, booking.OrgDomain)
}

// sortEventTypes orders event types by descending position, ties broken
// by ascending id. The order is total, so it is stable across calls.
func sortEventTypes(eventTypes []DisplayEventType) {
	sort.Slice(eventTypes, func(i, j int) bool {
		if eventTypes[i].Position != eventTypes[j].Position {
			return eventTypes[i].Position > eventTypes[j].Position
		}
		return eventTypes[i].Id < eventTypes[j].Id
	})
}
