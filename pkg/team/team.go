package team

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrMalformedMetadata = errors.New("malformed team metadata")
)

// Role is a membership role. Ordering matters: MEMBER < ADMIN < OWNER.
type Role string

const (
	RoleMember Role = "MEMBER"
	RoleAdmin  Role = "ADMIN"
	RoleOwner  Role = "OWNER"
)

// Rank returns the integer strength of a role. Unknown roles rank below
// MEMBER so they never grant permissions.
func (r Role) Rank() int {
	switch r {
	case RoleMember:
		return 0
	case RoleAdmin:
		return 1
	case RoleOwner:
		return 2
	}
	return -1
}

// StrongerThan reports whether r outranks other.
func (r Role) StrongerThan(other Role) bool {
	return r.Rank() > other.Rank()
}

// StrongerOf returns whichever role has the higher rank.
func StrongerOf(a, b Role) Role {
	if b.StrongerThan(a) {
		return b
	}
	return a
}

// Metadata is the typed form of the team metadata blob. It is parsed at
// the store boundary; nothing downstream sees raw JSON.
type Metadata struct {
	RequestedSlug string `json:"requestedSlug,omitempty"`
}

// ParseMetadata decodes a stored metadata blob. A nil or empty blob
// yields nil metadata. Malformed stored metadata is a data-integrity
// defect and is reported, never defaulted, because downstream slug and
// branding decisions depend on it.
func ParseMetadata(raw []byte) (*Metadata, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}
	return &m, nil
}

// Team is a group of users that can own event types. A team flagged
// IsOrganization is a tenant root, not a bookable team. ParentId links
// an organization sub-team to its organization.
type Team struct {
	Id             int
	Name           string
	Slug           *string
	ParentId       *int
	ParentSlug     *string
	IsOrganization bool
	IsVerified     bool
	LogoUrl        string
	Metadata       *Metadata
	MemberCount    int
}

// Membership relates a user to a team. Only accepted memberships are
// visible to the aggregation pipeline.
type Membership struct {
	TeamId   int
	UserId   int
	Role     Role
	Accepted bool
}

type MembershipWithTeam struct {
	Membership
	Team Team
}
