package event_type

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	GetById(ctx context.Context, id int) (EventType, error)
	// ListPersonal returns the event types a user owns directly (no team).
	ListPersonal(ctx context.Context, userId int) ([]EventType, error)
	// ListByTeams returns event types per team id, with direct assignees
	// and hosts eagerly attached.
	ListByTeams(ctx context.Context, teamIds []int) (map[int][]EventType, error)
	Create(ctx context.Context, userId int, eventType EventType) (int, error)
	Update(ctx context.Context, userId int, eventType EventType) (bool, error)
	Delete(ctx context.Context, userId int, id int) (bool, error)
	FindMaxPosition(ctx context.Context, userId int) (int, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const eventTypeColumns = `id, title, slug, description, position, length_minutes, hidden, scheduling_type, team_id,
				owner_user_id, metadata, hashed_link, seats_per_time_slot, destination_calendar_id`

func scanEventType(row pgx.Row) (EventType, error) {
	var et EventType
	err := row.Scan(
		&et.Id,
		&et.Title,
		&et.Slug,
		&et.Description,
		&et.Position,
		&et.Length,
		&et.Hidden,
		&et.SchedulingType,
		&et.TeamId,
		&et.OwnerUserId,
		&et.RawMetadata,
		&et.HashedLink,
		&et.SeatsPerTimeSlot,
		&et.DestinationCalendarId,
	)
	return et, err
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (EventType, error) {
	query := `SELECT ` + eventTypeColumns + ` FROM event_types WHERE id = $1`
	et, err := scanEventType(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return EventType{}, ErrEventTypeNotFound
	} else if err != nil {
		log.Errorf("failed to get event type %d: %v", id, err)
		return EventType{}, err
	}
	if err := r.attachAssignees(ctx, []*EventType{&et}); err != nil {
		return EventType{}, err
	}
	return et, nil
}

func (r *RepositoryImpl) ListPersonal(ctx context.Context, userId int) ([]EventType, error) {
	query := `SELECT ` + eventTypeColumns + ` FROM event_types WHERE owner_user_id = $1 AND team_id IS NULL`
	return r.list(ctx, query, userId)
}

func (r *RepositoryImpl) ListByTeams(ctx context.Context, teamIds []int) (map[int][]EventType, error) {
	result := make(map[int][]EventType, len(teamIds))
	if len(teamIds) == 0 {
		return result, nil
	}
	query := `SELECT ` + eventTypeColumns + ` FROM event_types WHERE team_id = ANY($1)`
	eventTypes, err := r.list(ctx, query, teamIds)
	if err != nil {
		return nil, err
	}
	for _, et := range eventTypes {
		result[*et.TeamId] = append(result[*et.TeamId], et)
	}
	return result, nil
}

func (r *RepositoryImpl) list(ctx context.Context, query string, arg any) ([]EventType, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		log.Errorf("failed to list event types: %v", err)
		return nil, err
	}
	defer rows.Close()

	eventTypes := make([]EventType, 0, 10)
	for rows.Next() {
		et, err := scanEventType(rows)
		if err != nil {
			log.Errorf("failed to scan event type: %v", err)
			return nil, err
		}
		eventTypes = append(eventTypes, et)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over event types: %v", err)
		return nil, err
	}

	refs := make([]*EventType, len(eventTypes))
	for i := range eventTypes {
		refs[i] = &eventTypes[i]
	}
	if err := r.attachAssignees(ctx, refs); err != nil {
		return nil, err
	}
	return eventTypes, nil
}

// attachAssignees loads direct assignees and hosts for the given event
// types in two queries instead of one per row.
func (r *RepositoryImpl) attachAssignees(ctx context.Context, eventTypes []*EventType) error {
	if len(eventTypes) == 0 {
		return nil
	}
	byId := make(map[int]*EventType, len(eventTypes))
	ids := make([]int, 0, len(eventTypes))
	for _, et := range eventTypes {
		byId[et.Id] = et
		ids = append(ids, et.Id)
	}

	usersQuery := `SELECT eu.event_type_id, u.id, u.username, u.name, u.avatar_url
			FROM event_type_users eu
			JOIN users u ON u.id = eu.user_id
			WHERE eu.event_type_id = ANY($1)
			ORDER BY eu.event_type_id, u.id`
	rows, err := r.db.Query(ctx, usersQuery, ids)
	if err != nil {
		log.Errorf("failed to load event type assignees: %v", err)
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var eventTypeId int
		var ref UserRef
		if err := rows.Scan(&eventTypeId, &ref.Id, &ref.Username, &ref.Name, &ref.AvatarUrl); err != nil {
			return err
		}
		et := byId[eventTypeId]
		et.UserIds = append(et.UserIds, ref.Id)
		et.Users = append(et.Users, ref)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	hostsQuery := `SELECT eh.event_type_id, eh.is_fixed, u.id, u.username, u.name, u.avatar_url
			FROM event_type_hosts eh
			JOIN users u ON u.id = eh.user_id
			WHERE eh.event_type_id = ANY($1)
			ORDER BY eh.event_type_id, u.id`
	hostRows, err := r.db.Query(ctx, hostsQuery, ids)
	if err != nil {
		log.Errorf("failed to load event type hosts: %v", err)
		return err
	}
	defer hostRows.Close()
	for hostRows.Next() {
		var eventTypeId int
		var host Host
		if err := hostRows.Scan(&eventTypeId, &host.IsFixed, &host.User.Id, &host.User.Username, &host.User.Name, &host.User.AvatarUrl); err != nil {
			return err
		}
		host.UserId = host.User.Id
		et := byId[eventTypeId]
		et.Hosts = append(et.Hosts, host)
	}
	return hostRows.Err()
}

func (r *RepositoryImpl) Create(ctx context.Context, userId int, eventType EventType) (int, error) {
	query := `INSERT INTO event_types (title, slug, description, position, length_minutes, hidden, scheduling_type,
				team_id, owner_user_id, metadata, hashed_link, seats_per_time_slot, destination_calendar_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		eventType.Title,
		eventType.Slug,
		eventType.Description,
		eventType.Position,
		eventType.Length,
		eventType.Hidden,
		eventType.SchedulingType,
		eventType.TeamId,
		userId,
		eventType.RawMetadata,
		eventType.HashedLink,
		eventType.SeatsPerTimeSlot,
		eventType.DestinationCalendarId,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to create event type: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, eventType EventType) (bool, error) {
	query := `UPDATE event_types SET title = $1, slug = $2, description = $3, position = $4, length_minutes = $5,
				hidden = $6, metadata = $7, hashed_link = $8, seats_per_time_slot = $9, destination_calendar_id = $10
			WHERE id = $11 AND owner_user_id = $12`
	result, err := r.db.Exec(ctx, query,
		eventType.Title,
		eventType.Slug,
		eventType.Description,
		eventType.Position,
		eventType.Length,
		eventType.Hidden,
		eventType.RawMetadata,
		eventType.HashedLink,
		eventType.SeatsPerTimeSlot,
		eventType.DestinationCalendarId,
		eventType.Id,
		userId,
	)
	if err != nil {
		log.Errorf("failed to update event type %d: %v", eventType.Id, err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM event_types WHERE id = $1 AND owner_user_id = $2`, id, userId)
	if err != nil {
		log.Errorf("failed to delete event type %d: %v", id, err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) FindMaxPosition(ctx context.Context, userId int) (int, error) {
	var maxPosition int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) FROM event_types WHERE owner_user_id = $1 AND team_id IS NULL`,
		userId,
	).Scan(&maxPosition)
	if err != nil {
		return 0, err
	}
	return maxPosition, nil
}
