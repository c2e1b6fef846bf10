package app

import (
	"github.com/bookli/bookli/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Event types
	r.HandleFunc("/api/event-type/groups", deps.EventTypeHandler.GetGroups).Methods("GET")
	r.HandleFunc("/api/event-type", deps.EventTypeHandler.CreateEventType).Methods("POST")
	r.HandleFunc("/api/event-type/{eventTypeId}", deps.EventTypeHandler.UpdateEventType).Methods("PUT")
	r.HandleFunc("/api/event-type/{eventTypeId}", deps.EventTypeHandler.DeleteEventType).Methods("DELETE")
	r.HandleFunc("/api/event-type/{eventTypeId}/destination-calendar", deps.EventTypeHandler.SetDestinationCalendar).Methods("PUT")

	// Organization administration
	r.HandleFunc("/api/admin/organization/{orgId}/verify", deps.OrgHandler.VerifyOrganization).Methods("POST")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateProfile).Methods("PUT")
	r.HandleFunc("/api/user/current/avatar", deps.UserHandler.UploadAvatar).Methods("PUT")
	r.HandleFunc("/api/user/current/avatar", deps.UserHandler.GetAvatar).Methods("GET")
	r.HandleFunc("/api/user/current/avatar", deps.UserHandler.DeleteAvatar).Methods("DELETE")
	r.HandleFunc("/api/user/username-availability/{username}", deps.UserHandler.IsUsernameAvailable).Methods("GET")
	r.HandleFunc("/api/user/{userUid}/avatar", deps.UserHandler.GetAvatar).Methods("GET")

	// Google integration
	r.HandleFunc("/api/integrations/google/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/logout", deps.GoogleAuth.OAuthLogout).Methods("DELETE")
	r.HandleFunc("/api/integrations/google/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/integrations/google/calendars", deps.GoogleHandler.ListCalendars).Methods("GET")
}
