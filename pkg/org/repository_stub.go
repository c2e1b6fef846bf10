package org

import (
	"context"
	"strings"
)

// stub state mirrors the tables the real repo touches, so tests can
// assert on membership and user rows after a verification run.
type StubMember struct {
	UserId   int
	TeamId   int
	ParentId *int
	Role     string
	Email    string
	Accepted bool
	OrgId    *int
}

type StubRepo struct {
	Members  []StubMember
	Verified map[int]bool
}

func NewStubRepo() *StubRepo {
	return &StubRepo{Verified: map[int]bool{}}
}

func (s *StubRepo) FindOwnerEmail(ctx context.Context, orgId int) (string, error) {
	for _, m := range s.Members {
		if m.TeamId == orgId && m.Role == "OWNER" && m.Accepted {
			return m.Email, nil
		}
	}
	return "", ErrNoOwner
}

func (s *StubRepo) AcceptDomainMembers(ctx context.Context, orgId int, domain string) (int, error) {
	s.Verified[orgId] = true
	stamped := map[int]bool{}
	for i := range s.Members {
		m := &s.Members[i]
		inOrgTree := m.TeamId == orgId || (m.ParentId != nil && *m.ParentId == orgId)
		if !inOrgTree || !strings.HasSuffix(strings.ToLower(m.Email), "@"+domain) {
			continue
		}
		m.Accepted = true
		if m.TeamId == orgId && !stamped[m.UserId] {
			id := orgId
			m.OrgId = &id
			stamped[m.UserId] = true
		}
	}
	return len(stamped), nil
}
