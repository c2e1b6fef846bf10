package event_type

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bookli/bookli/internal/config"
	"github.com/bookli/bookli/internal/event_bus"
	"github.com/bookli/bookli/internal/ratelimit"
	"github.com/bookli/bookli/pkg/team"
	"github.com/bookli/bookli/pkg/user"
	log "github.com/sirupsen/logrus"
)

var ErrEventTypeDataInvalid = errors.New("event type data is invalid")

type Service interface {
	// GetByViewer composes the viewer's personal and team event types
	// into grouped, permission-filtered views.
	GetByViewer(ctx context.Context, filters *Filters, forRoutingForms bool) (ViewerEventTypes, error)
	Create(ctx context.Context, eventType EventType) (EventType, error)
	Update(ctx context.Context, eventType EventType) (EventType, error)
	Delete(ctx context.Context, id int) error
	SetDestinationCalendar(ctx context.Context, id int, calendarId string) error
}

type ServiceImpl struct {
	repo        Repository
	teamRepo    team.Repo
	userService user.Provider
	limiter     *ratelimit.Limiter
	bus         *event_bus.EventBus
	booking     config.Booking
}

func NewService(
	repo Repository,
	teamRepo team.Repo,
	userService user.Provider,
	limiter *ratelimit.Limiter,
	bus *event_bus.EventBus,
	booking config.Booking,
) *ServiceImpl {
	return &ServiceImpl{
		repo:        repo,
		teamRepo:    teamRepo,
		userService: userService,
		limiter:     limiter,
		bus:         bus,
		booking:     booking,
	}
}

func (s *ServiceImpl) GetByViewer(ctx context.Context, filters *Filters, forRoutingForms bool) (ViewerEventTypes, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return ViewerEventTypes{}, fmt.Errorf("failed to get current user: %w", err)
	}

	// The quota check runs before any query is issued.
	if !s.limiter.Allow("eventType.getByViewer:" + strconv.Itoa(userId)) {
		log.Infof("rate limited getByViewer for user %d", userId)
		return ViewerEventTypes{}, ErrRateLimited
	}

	viewer, err := s.userService.GetCurrentUser(ctx)
	if err != nil {
		// The caller is authenticated, so a missing viewer row is a
		// server-side inconsistency, not a validation failure.
		return ViewerEventTypes{}, fmt.Errorf("failed to load viewer %d: %w", userId, err)
	}

	memberships, err := s.teamRepo.ListAcceptedMemberships(ctx, viewer.Id)
	if err != nil {
		return ViewerEventTypes{}, fmt.Errorf("failed to load memberships: %w", err)
	}

	rawPersonal, err := s.repo.ListPersonal(ctx, viewer.Id)
	if err != nil {
		return ViewerEventTypes{}, fmt.Errorf("failed to load personal event types: %w", err)
	}
	personal, err := mapAll(rawPersonal)
	if err != nil {
		return ViewerEventTypes{}, err
	}

	teamIds := make([]int, 0, len(memberships))
	for _, m := range memberships {
		if !m.Team.IsOrganization {
			teamIds = append(teamIds, m.Team.Id)
		}
	}
	rawByTeam, err := s.repo.ListByTeams(ctx, teamIds)
	if err != nil {
		return ViewerEventTypes{}, fmt.Errorf("failed to load team event types: %w", err)
	}
	byTeam := make(map[int][]DisplayEventType, len(rawByTeam))
	for teamId, eventTypes := range rawByTeam {
		mapped, err := mapAll(eventTypes)
		if err != nil {
			return ViewerEventTypes{}, err
		}
		byTeam[teamId] = mapped
	}

	return BuildGroups(groupInput{
		Viewer:             viewer,
		Memberships:        memberships,
		PersonalEventTypes: personal,
		TeamEventTypes:     byTeam,
		Filters:            filters,
		ForRoutingForms:    forRoutingForms,
		Booking:            s.booking,
	}), nil
}

func (s *ServiceImpl) Create(ctx context.Context, eventType EventType) (EventType, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return EventType{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if eventType.Title == "" || eventType.Slug == "" || eventType.Length <= 0 {
		return EventType{}, ErrEventTypeDataInvalid
	}

	maxPosition, err := s.repo.FindMaxPosition(ctx, userId)
	if err != nil {
		return EventType{}, err
	}
	eventType.Position = maxPosition + 1
	eventType.OwnerUserId = &userId

	id, err := s.repo.Create(ctx, userId, eventType)
	if err != nil {
		return EventType{}, err
	}
	eventType.Id = id
	return eventType, nil
}

func (s *ServiceImpl) Update(ctx context.Context, eventType EventType) (EventType, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return EventType{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if eventType.Title == "" || eventType.Slug == "" {
		return EventType{}, ErrEventTypeDataInvalid
	}

	updated, err := s.repo.Update(ctx, userId, eventType)
	if err != nil {
		return EventType{}, err
	}
	if !updated {
		log.Warnf("event type %d not updated, it may not exist or user %d is not the owner", eventType.Id, userId)
		return EventType{}, ErrEventTypeNotFound
	}
	return eventType, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("event type %d not deleted, it may not exist or user %d is not the owner", id, userId)
		return ErrEventTypeNotFound
	}

	if err := s.bus.Publish(event_bus.NewEvent(ctx, "eventType.deleted", event_bus.EventTypeDeleted{
		Id:     id,
		UserId: userId,
	})); err != nil {
		log.Errorf("failed to publish event type deletion: %v", err)
	}
	return nil
}

func (s *ServiceImpl) SetDestinationCalendar(ctx context.Context, id int, calendarId string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	eventType, err := s.repo.GetById(ctx, id)
	if err != nil {
		return err
	}
	eventType.DestinationCalendarId = &calendarId

	updated, err := s.repo.Update(ctx, userId, eventType)
	if err != nil {
		return err
	}
	if !updated {
		return ErrEventTypeNotFound
	}
	return nil
}
