package event_type

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/bookli/bookli/internal/rest"
	"github.com/bookli/bookli/pkg/team"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ViewerEventTypesDTO struct {
	EventTypeGroups []EventTypeGroupDTO `json:"eventTypeGroups"`
	Profiles        []ProfileSummaryDTO `json:"profiles"`
}

type EventTypeGroupDTO struct {
	TeamId         *int             `json:"teamId,omitempty"`
	ParentId       *int             `json:"parentId,omitempty"`
	BookerUrl      string           `json:"bookerUrl"`
	MembershipRole *team.Role       `json:"membershipRole,omitempty"`
	Profile        GroupProfileDTO  `json:"profile"`
	Metadata       GroupMetadataDTO `json:"metadata"`
	EventTypes     []EventTypeDTO   `json:"eventTypes"`
}

type GroupProfileDTO struct {
	Slug     *string `json:"slug"`
	Name     string  `json:"name"`
	ImageUrl string  `json:"imageUrl,omitempty"`
}

type GroupMetadataDTO struct {
	MembershipCount int  `json:"membershipCount"`
	ReadOnly        bool `json:"readOnly"`
}

type ProfileSummaryDTO struct {
	TeamId          *int       `json:"teamId,omitempty"`
	Name            string     `json:"name"`
	Slug            *string    `json:"slug"`
	ImageUrl        string     `json:"imageUrl,omitempty"`
	MembershipRole  *team.Role `json:"membershipRole,omitempty"`
	MembershipCount int        `json:"membershipCount"`
	ReadOnly        bool       `json:"readOnly"`
}

type EventTypeDTO struct {
	Id                    int             `json:"id"`
	Title                 string          `json:"title"`
	Slug                  string          `json:"slug"`
	Description           string          `json:"description,omitempty"`
	SafeDescription       string          `json:"safeDescription,omitempty"`
	Position              int             `json:"position"`
	Length                int             `json:"length"`
	Hidden                bool            `json:"hidden"`
	SchedulingType        *SchedulingType `json:"schedulingType,omitempty"`
	TeamId                *int            `json:"teamId,omitempty"`
	Users                 []UserRefDTO    `json:"users"`
	Metadata              *Metadata       `json:"metadata,omitempty"`
	HashedLink            *string         `json:"hashedLink,omitempty"`
	SeatsPerTimeSlot      *int            `json:"seatsPerTimeSlot,omitempty"`
	DestinationCalendarId *string         `json:"destinationCalendarId,omitempty"`
}

type UserRefDTO struct {
	Id        int    `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarUrl string `json:"avatarUrl,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetGroups returns the viewer's event types grouped by owner, filtered
// by the optional userIds/teamIds query parameters.
func (h *Handler) GetGroups(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Getting event type groups for viewer")

	filters, err := parseFilters(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid filter parameters",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}
	forRoutingForms := r.URL.Query().Get("forRoutingForms") == "true"

	result, err := h.service.GetByViewer(r.Context(), filters, forRoutingForms)
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			w.WriteHeader(http.StatusTooManyRequests)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error: "Too many requests, please try again later",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(viewerEventTypesToDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CreateEventType registers a new personal event type.
func (h *Handler) CreateEventType(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Creating event type")

	var dto EventTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	created, err := h.service.Create(r.Context(), dtoToEventType(dto))
	if err != nil {
		if errors.Is(err, ErrEventTypeDataInvalid) {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error: "Title, slug and a positive length are required",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(eventTypeToDTO(created, "", nil)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// UpdateEventType updates one of the current user's event types.
func (h *Handler) UpdateEventType(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := pathId(r, "eventTypeId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var dto EventTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	eventType := dtoToEventType(dto)
	eventType.Id = id

	updated, err := h.service.Update(r.Context(), eventType)
	if err != nil {
		if errors.Is(err, ErrEventTypeNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrEventTypeDataInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(eventTypeToDTO(updated, "", nil)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DeleteEventType removes one of the current user's event types.
func (h *Handler) DeleteEventType(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := pathId(r, "eventTypeId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrEventTypeNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDestinationCalendar points an event type at a connected calendar.
func (h *Handler) SetDestinationCalendar(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := pathId(r, "eventTypeId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var body struct {
		CalendarId string `json:"calendarId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.CalendarId == "" {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "calendarId is required",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	if err := h.service.SetDestinationCalendar(r.Context(), id, body.CalendarId); err != nil {
		if errors.Is(err, ErrEventTypeNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathId(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}

// parseFilters builds the filter set from query parameters. Returns nil
// when no filter parameter is present at all, so downstream code can
// distinguish "no filtering" from an empty criterion.
func parseFilters(r *http.Request) (*Filters, error) {
	query := r.URL.Query()
	_, hasUserIds := query["userIds"]
	_, hasTeamIds := query["teamIds"]
	if !hasUserIds && !hasTeamIds {
		return nil, nil
	}

	userIds, err := parseIdList(query.Get("userIds"))
	if err != nil {
		return nil, err
	}
	teamIds, err := parseIdList(query.Get("teamIds"))
	if err != nil {
		return nil, err
	}
	return &Filters{UserIds: userIds, TeamIds: teamIds}, nil
}

func parseIdList(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func dtoToEventType(dto EventTypeDTO) EventType {
	var rawMetadata []byte
	if dto.Metadata != nil {
		rawMetadata, _ = json.Marshal(dto.Metadata)
	}
	return EventType{
		Id:                    dto.Id,
		Title:                 dto.Title,
		Slug:                  dto.Slug,
		Description:           dto.Description,
		Position:              dto.Position,
		Length:                dto.Length,
		Hidden:                dto.Hidden,
		SchedulingType:        dto.SchedulingType,
		TeamId:                dto.TeamId,
		RawMetadata:           rawMetadata,
		HashedLink:            dto.HashedLink,
		SeatsPerTimeSlot:      dto.SeatsPerTimeSlot,
		DestinationCalendarId: dto.DestinationCalendarId,
	}
}

func viewerEventTypesToDTO(v ViewerEventTypes) ViewerEventTypesDTO {
	groups := make([]EventTypeGroupDTO, 0, len(v.EventTypeGroups))
	for _, g := range v.EventTypeGroups {
		eventTypes := make([]EventTypeDTO, 0, len(g.EventTypes))
		for _, et := range g.EventTypes {
			eventTypes = append(eventTypes, displayEventTypeToDTO(et))
		}
		groups = append(groups, EventTypeGroupDTO{
			TeamId:         g.TeamId,
			ParentId:       g.ParentId,
			BookerUrl:      g.BookerUrl,
			MembershipRole: g.MembershipRole,
			Profile: GroupProfileDTO{
				Slug:     g.Profile.Slug,
				Name:     g.Profile.Name,
				ImageUrl: g.Profile.ImageUrl,
			},
			Metadata: GroupMetadataDTO{
				MembershipCount: g.Metadata.MembershipCount,
				ReadOnly:        g.Metadata.ReadOnly,
			},
			EventTypes: eventTypes,
		})
	}

	profiles := make([]ProfileSummaryDTO, 0, len(v.Profiles))
	for _, p := range v.Profiles {
		profiles = append(profiles, ProfileSummaryDTO{
			TeamId:          p.TeamId,
			Name:            p.Name,
			Slug:            p.Slug,
			ImageUrl:        p.ImageUrl,
			MembershipRole:  p.MembershipRole,
			MembershipCount: p.MembershipCount,
			ReadOnly:        p.ReadOnly,
		})
	}

	return ViewerEventTypesDTO{EventTypeGroups: groups, Profiles: profiles}
}

func displayEventTypeToDTO(et DisplayEventType) EventTypeDTO {
	return eventTypeToDTO(et.EventType, et.SafeDescription, et.Metadata)
}

func eventTypeToDTO(et EventType, safeDescription string, metadata *Metadata) EventTypeDTO {
	users := make([]UserRefDTO, 0, len(et.Users))
	for _, u := range et.Users {
		users = append(users, UserRefDTO{
			Id:        u.Id,
			Username:  u.Username,
			Name:      u.Name,
			AvatarUrl: u.AvatarUrl,
		})
	}
	return EventTypeDTO{
		Id:                    et.Id,
		Title:                 et.Title,
		Slug:                  et.Slug,
		Description:           et.Description,
		SafeDescription:       safeDescription,
		Position:              et.Position,
		Length:                et.Length,
		Hidden:                et.Hidden,
		SchedulingType:        et.SchedulingType,
		TeamId:                et.TeamId,
		Users:                 users,
		Metadata:              metadata,
		HashedLink:            et.HashedLink,
		SeatsPerTimeSlot:      et.SeatsPerTimeSlot,
		DestinationCalendarId: et.DestinationCalendarId,
	}
}
