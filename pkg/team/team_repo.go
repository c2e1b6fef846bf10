package team

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	GetTeam(ctx context.Context, id int) (Team, error)
	// ListAcceptedMemberships returns the user's accepted memberships
	// with their teams, parent slugs and member counts eagerly attached.
	ListAcceptedMemberships(ctx context.Context, userId int) ([]MembershipWithTeam, error)
}

type TeamRepoImpl struct {
	db *pgxpool.Pool
}

func NewTeamRepo(db *pgxpool.Pool) *TeamRepoImpl {
	return &TeamRepoImpl{db: db}
}

func (t *TeamRepoImpl) GetTeam(ctx context.Context, id int) (Team, error) {
	query := `SELECT t.id, t.name, t.slug, t.parent_id, p.slug, t.is_organization, t.is_verified, t.logo_url, t.metadata,
				(SELECT COUNT(*) FROM memberships m WHERE m.team_id = t.id AND m.accepted) AS member_count
			FROM teams t
			LEFT JOIN teams p ON p.id = t.parent_id
			WHERE t.id = $1`
	team, err := scanTeam(t.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Team{}, ErrTeamNotFound
	} else if err != nil {
		log.Errorf("failed to get team %d: %v", id, err)
		return Team{}, err
	}
	return team, nil
}

func (t *TeamRepoImpl) ListAcceptedMemberships(ctx context.Context, userId int) ([]MembershipWithTeam, error) {
	query := `SELECT m.team_id, m.user_id, m.role, m.accepted,
				t.id, t.name, t.slug, t.parent_id, p.slug, t.is_organization, t.is_verified, t.logo_url, t.metadata,
				(SELECT COUNT(*) FROM memberships mc WHERE mc.team_id = t.id AND mc.accepted) AS member_count
			FROM memberships m
			JOIN teams t ON t.id = m.team_id
			LEFT JOIN teams p ON p.id = t.parent_id
			WHERE m.user_id = $1 AND m.accepted
			ORDER BY m.team_id`
	rows, err := t.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("failed to list memberships for user %d: %v", userId, err)
		return nil, err
	}
	defer rows.Close()

	memberships := make([]MembershipWithTeam, 0, 4)
	for rows.Next() {
		var m MembershipWithTeam
		var rawMetadata []byte
		err := rows.Scan(
			&m.TeamId,
			&m.UserId,
			&m.Role,
			&m.Accepted,
			&m.Team.Id,
			&m.Team.Name,
			&m.Team.Slug,
			&m.Team.ParentId,
			&m.Team.ParentSlug,
			&m.Team.IsOrganization,
			&m.Team.IsVerified,
			&m.Team.LogoUrl,
			&rawMetadata,
			&m.Team.MemberCount,
		)
		if err != nil {
			log.Errorf("failed to scan membership: %v", err)
			return nil, err
		}
		m.Team.Metadata, err = ParseMetadata(rawMetadata)
		if err != nil {
			log.Errorf("team %d has malformed metadata: %v", m.Team.Id, err)
			return nil, err
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over memberships: %v", err)
		return nil, err
	}
	return memberships, nil
}

func scanTeam(row pgx.Row) (Team, error) {
	var team Team
	var rawMetadata []byte
	err := row.Scan(
		&team.Id,
		&team.Name,
		&team.Slug,
		&team.ParentId,
		&team.ParentSlug,
		&team.IsOrganization,
		&team.IsVerified,
		&team.LogoUrl,
		&rawMetadata,
		&team.MemberCount,
	)
	if err != nil {
		return Team{}, err
	}
	team.Metadata, err = ParseMetadata(rawMetadata)
	if err != nil {
		return Team{}, err
	}
	return team, nil
}
