package event_type

import "slices"

// Filters narrows which groups and event types a viewer request
// returns. A nil Filters, or one with no criteria, matches everything.
type Filters struct {
	UserIds []int
	TeamIds []int
}

// HasFilter reports whether any criterion is set. This single predicate
// gates both user and team filtering so the "absent or empty means
// include all" rule is applied uniformly.
func (f *Filters) HasFilter() bool {
	if f == nil {
		return false
	}
	return len(f.UserIds) > 0 || len(f.TeamIds) > 0
}

// IncludesUser reports whether a group owned by userId passes the
// filter: true when filtering is inactive, when no user criterion is
// set, or when the id is listed.
func (f *Filters) IncludesUser(userId int) bool {
	if !f.HasFilter() || len(f.UserIds) == 0 {
		return true
	}
	return slices.Contains(f.UserIds, userId)
}

// IncludesTeam is the team counterpart of IncludesUser. A nil teamId
// (personal event types) always passes.
func (f *Filters) IncludesTeam(teamId *int) bool {
	if !f.HasFilter() || len(f.TeamIds) == 0 || teamId == nil {
		return true
	}
	return slices.Contains(f.TeamIds, *teamId)
}
