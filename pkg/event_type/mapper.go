package event_type

import (
	"github.com/bookli/bookli/internal/markdown"
)

// MapEventType normalizes a raw event type into its display shape.
// Assigned hosts always win over the direct-assignment list; a
// non-empty host list fully replaces it. Pure transform, no side
// effects.
func MapEventType(et EventType) (DisplayEventType, error) {
	metadata, err := ParseMetadata(et.RawMetadata)
	if err != nil {
		return DisplayEventType{}, err
	}

	users := et.Users
	if len(et.Hosts) > 0 {
		users = make([]UserRef, 0, len(et.Hosts))
		for _, h := range et.Hosts {
			users = append(users, h.User)
		}
	}

	return DisplayEventType{
		EventType:       et,
		SafeDescription: markdown.RenderSafe(et.Description),
		DisplayUsers:    users,
		Metadata:        metadata,
	}, nil
}

func mapAll(eventTypes []EventType) ([]DisplayEventType, error) {
	mapped := make([]DisplayEventType, 0, len(eventTypes))
	for _, et := range eventTypes {
		m, err := MapEventType(et)
		if err != nil {
			return nil, err
		}
		mapped = append(mapped, m)
	}
	return mapped, nil
}
