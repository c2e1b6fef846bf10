package org

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookli/bookli/internal/event_bus"
	"github.com/bookli/bookli/pkg/team"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// VerifyOrganization marks an organization as verified and accepts
	// every pending membership whose user email matches the owner's
	// domain. All writes happen atomically.
	VerifyOrganization(ctx context.Context, orgId int) (VerificationResult, error)
}

type ServiceImpl struct {
	repo     Repo
	teamRepo team.Repo
	bus      *event_bus.EventBus
}

func NewService(repo Repo, teamRepo team.Repo, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, teamRepo: teamRepo, bus: bus}
}

func (s *ServiceImpl) VerifyOrganization(ctx context.Context, orgId int) (VerificationResult, error) {
	t, err := s.teamRepo.GetTeam(ctx, orgId)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("failed to load organization %d: %w", orgId, err)
	}
	if !t.IsOrganization {
		log.Warnf("verification rejected: team %d is not an organization", orgId)
		return VerificationResult{}, ErrNotOrganization
	}

	ownerEmail, err := s.repo.FindOwnerEmail(ctx, orgId)
	if err != nil {
		return VerificationResult{}, err
	}
	domain := emailDomain(ownerEmail)
	if domain == "" {
		return VerificationResult{}, fmt.Errorf("owner of organization %d has no usable email domain", orgId)
	}

	accepted, err := s.repo.AcceptDomainMembers(ctx, orgId, domain)
	if err != nil {
		return VerificationResult{}, err
	}
	log.Infof("organization %d (%s) verified, accepted %d users on domain %s", orgId, t.Name, accepted, domain)

	if err := s.bus.Publish(event_bus.NewEvent(ctx, "organization.verified", event_bus.OrganizationVerified{
		OrgId:          orgId,
		OrgName:        t.Name,
		AcceptedDomain: domain,
		AcceptedUsers:  accepted,
	})); err != nil {
		log.Errorf("failed to publish organization verification: %v", err)
	}

	return VerificationResult{
		OrgId:          orgId,
		OrgName:        t.Name,
		AcceptedDomain: domain,
		AcceptedUsers:  accepted,
		Message:        fmt.Sprintf("%s has been verified, members with the %s email domain were accepted", t.Name, domain),
	}, nil
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
