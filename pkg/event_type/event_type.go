package event_type

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEventTypeNotFound = errors.New("event type not found")
	ErrMalformedMetadata = errors.New("malformed event type metadata")
	ErrRateLimited       = errors.New("too many requests")
)

// SchedulingType controls how a multi-host event type assigns hosts.
// MANAGED event types are authored once at team level and distributed
// to members without per-member edit rights.
type SchedulingType string

const (
	RoundRobin SchedulingType = "ROUND_ROBIN"
	Collective SchedulingType = "COLLECTIVE"
	Managed    SchedulingType = "MANAGED"
)

// UserRef is the slice of a user an event type needs for display.
type UserRef struct {
	Id        int
	Username  string
	Name      string
	AvatarUrl string
}

// Host is a user explicitly assigned to an event type's rotation.
type Host struct {
	UserId  int
	IsFixed bool
	User    UserRef
}

// EventType is a bookable configuration, owned either directly by a
// user (TeamId nil) or by a team, never both.
type EventType struct {
	Id                    int
	Title                 string
	Slug                  string
	Description           string
	Position              int
	Length                int
	Hidden                bool
	SchedulingType        *SchedulingType
	TeamId                *int
	OwnerUserId           *int
	UserIds               []int
	Users                 []UserRef
	Hosts                 []Host
	RawMetadata           []byte
	HashedLink            *string
	SeatsPerTimeSlot      *int
	DestinationCalendarId *string
}

// IsManaged reports whether this event type is a managed parent,
// inherited and non-editable by plain members.
func (e EventType) IsManaged() bool {
	return e.SchedulingType != nil && *e.SchedulingType == Managed
}

// Metadata is the typed form of the event type metadata blob.
type Metadata struct {
	ManagedEventConfig   *ManagedEventConfig `json:"managedEventConfig,omitempty"`
	MultipleDurations    []int               `json:"multipleDuration,omitempty"`
	RequiresConfirmation bool                `json:"requiresConfirmation,omitempty"`
}

// ManagedEventConfig lists which fields members of a managed event type
// may override.
type ManagedEventConfig struct {
	UnlockedFields map[string]bool `json:"unlockedFields,omitempty"`
}

// ParseMetadata decodes a stored metadata blob. Nil or empty yields nil.
// Malformed stored metadata is an upstream data defect and is reported
// rather than defaulted.
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

// DisplayEventType is the shape handed to clients: the raw record plus
// a sanitized description, the resolved user list and typed metadata.
type DisplayEventType struct {
	EventType
	SafeDescription string
	DisplayUsers    []UserRef
	Metadata        *Metadata
}
