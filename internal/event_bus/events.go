package event_bus

// OrganizationVerified is published after an organization has been
// verified and its domain-matching members accepted.
type OrganizationVerified struct {
	OrgId          int
	OrgName        string
	AcceptedDomain string
	AcceptedUsers  int
}

// EventTypeDeleted is published when a user deletes one of their event types.
type EventTypeDeleted struct {
	Id     int
	UserId int
}
