package org

import "errors"

var (
	ErrNotOrganization = errors.New("team is not an organization")
	ErrNoOwner         = errors.New("organization has no owner")
)

// VerificationResult summarizes what a verification run changed.
type VerificationResult struct {
	OrgId          int
	OrgName        string
	AcceptedDomain string
	AcceptedUsers  int
	Message        string
}
