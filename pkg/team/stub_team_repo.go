package team

import (
	"context"
)

type StubTeamRepo struct {
	teams       map[int]Team
	memberships []MembershipWithTeam
}

func NewStubTeamRepo() *StubTeamRepo {
	return &StubTeamRepo{teams: map[int]Team{}}
}

func (s *StubTeamRepo) AddTeam(t Team) {
	s.teams[t.Id] = t
}

func (s *StubTeamRepo) AddMembership(m Membership) {
	s.memberships = append(s.memberships, MembershipWithTeam{Membership: m, Team: s.teams[m.TeamId]})
}

func (s *StubTeamRepo) GetTeam(ctx context.Context, id int) (Team, error) {
	t, ok := s.teams[id]
	if !ok {
		return Team{}, ErrTeamNotFound
	}
	return t, nil
}

func (s *StubTeamRepo) ListAcceptedMemberships(ctx context.Context, userId int) ([]MembershipWithTeam, error) {
	result := make([]MembershipWithTeam, 0, len(s.memberships))
	for _, m := range s.memberships {
		if m.UserId == userId && m.Accepted {
			m.Team = s.teams[m.TeamId]
			result = append(result, m)
		}
	}
	return result, nil
}

func (s *StubTeamRepo) Reset() {
	s.teams = map[int]Team{}
	s.memberships = nil
}
