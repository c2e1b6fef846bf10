package app

import (
	"time"

	"github.com/bookli/bookli/internal/config"
	"github.com/bookli/bookli/internal/event_bus"
	"github.com/bookli/bookli/internal/ratelimit"
	"github.com/bookli/bookli/internal/utils"
	"github.com/bookli/bookli/pkg/event_type"
	"github.com/bookli/bookli/pkg/google"
	"github.com/bookli/bookli/pkg/org"
	"github.com/bookli/bookli/pkg/team"
	"github.com/bookli/bookli/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	TeamRepo team.Repo

	EventTypeRepo    event_type.Repository
	EventTypeService event_type.Service
	EventTypeHandler *event_type.Handler
	EventTypeLimiter *ratelimit.Limiter

	OrgRepo    org.Repo
	OrgService org.Service
	OrgHandler *org.Handler

	GoogleAuth    *google.GoogleAuth
	GoogleService google.Service
	GoogleHandler *google.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.TeamRepo = team.NewTeamRepo(db)

	// 10 aggregation requests per viewer per minute.
	deps.EventTypeLimiter = ratelimit.New(10, time.Minute)
	deps.EventTypeRepo = event_type.NewRepository(db)
	deps.EventTypeService = event_type.NewService(
		deps.EventTypeRepo,
		deps.TeamRepo,
		deps.UserService,
		deps.EventTypeLimiter,
		deps.EventBus,
		cfg.Booking,
	)
	deps.EventTypeHandler = event_type.NewHandler(deps.EventTypeService)

	deps.OrgRepo = org.NewRepo(db)
	deps.OrgService = org.NewService(deps.OrgRepo, deps.TeamRepo, deps.EventBus)
	deps.OrgHandler = org.NewHandler(deps.OrgService)

	deps.GoogleAuth = google.NewGoogleAuth(db, deps.UserService, cfg)
	deps.GoogleService = google.NewService(deps.GoogleAuth)
	deps.GoogleHandler = google.NewHandler(deps.GoogleService)

	return deps
}
