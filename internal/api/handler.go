package api

import (
	"time"

	"github.com/terraincognita07/cyclecast/internal/services"
)

const (
	loginFailureLimit  = 8
	loginFailureWindow = 15 * time.Minute
)

type Dependencies struct {
	Accounts    *services.AccountService
	Auth        *services.AuthService
	Entries     *services.EntryService
	Predictions *services.PredictionService
}

type Handler struct {
	accounts     *services.AccountService
	auth         *services.AuthService
	entries      *services.EntryService
	predictions  *services.PredictionService
	location     *time.Location
	cookieSecure bool
	loginLimiter *attemptLimiter
	now          func() time.Time
}

func NewHandler(deps Dependencies, location *time.Location, cookieSecure bool) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		accounts:     deps.Accounts,
		auth:         deps.Auth,
		entries:      deps.Entries,
		predictions:  deps.Predictions,
		location:     location,
		cookieSecure: cookieSecure,
		loginLimiter: newAttemptLimiter(loginFailureLimit, loginFailureWindow),
		now:          time.Now,
	}
}

func (handler *Handler) today() time.Time {
	return services.CalendarDayAt(handler.now(), handler.location)
}
