package org

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	// FindOwnerEmail returns the email of the organization's first owner,
	// by ascending user id.
	FindOwnerEmail(ctx context.Context, orgId int) (string, error)
	// AcceptDomainMembers atomically marks the organization verified,
	// accepts pending memberships in the organization and its sub-teams
	// for users on the given email domain, and stamps those users with
	// the organization id. Returns how many users were accepted.
	AcceptDomainMembers(ctx context.Context, orgId int, domain string) (int, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) FindOwnerEmail(ctx context.Context, orgId int) (string, error) {
	query := `SELECT u.email FROM memberships m
			JOIN users u ON u.id = m.user_id
			WHERE m.team_id = $1 AND m.role = 'OWNER' AND m.accepted
			ORDER BY m.user_id
			LIMIT 1`
	var email string
	err := r.db.QueryRow(ctx, query, orgId).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNoOwner
	} else if err != nil {
		log.Errorf("failed to find owner of organization %d: %v", orgId, err)
		return "", err
	}
	return email, nil
}

// AcceptDomainMembers runs every write in one transaction: either the
// organization ends verified with all matching members accepted and
// stamped, or nothing changed.
func (r *RepoImpl) AcceptDomainMembers(ctx context.Context, orgId int, domain string) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `UPDATE teams SET is_verified = TRUE WHERE id = $1`, orgId); err != nil {
		log.Errorf("failed to mark organization %d verified: %v", orgId, err)
		return 0, err
	}

	acceptQuery := `UPDATE memberships m SET accepted = TRUE
			FROM users u, teams t
			WHERE u.id = m.user_id AND t.id = m.team_id
			AND (t.id = $1 OR t.parent_id = $1)
			AND NOT m.accepted
			AND lower(split_part(u.email, '@', 2)) = lower($2)`
	if _, err := tx.Exec(ctx, acceptQuery, orgId, domain); err != nil {
		log.Errorf("failed to accept memberships for organization %d: %v", orgId, err)
		return 0, err
	}

	stampQuery := `UPDATE users u SET organization_id = $1
			FROM memberships m
			WHERE m.user_id = u.id AND m.team_id = $1 AND m.accepted
			AND lower(split_part(u.email, '@', 2)) = lower($2)
			AND u.organization_id IS DISTINCT FROM $1`
	result, err := tx.Exec(ctx, stampQuery, orgId, domain)
	if err != nil {
		log.Errorf("failed to stamp users of organization %d: %v", orgId, err)
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}
