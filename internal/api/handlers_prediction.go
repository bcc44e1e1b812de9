package api

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecast/internal/services"
)

type predictionResponse struct {
	NextPeriodDate      string              `json:"next_period_date,omitempty"`
	DaysUntilNextPeriod *int                `json:"days_until_next_period,omitempty"`
	CycleLengthDays     int                 `json:"cycle_length_days"`
	PeriodLengthDays    int                 `json:"period_length_days"`
	Regularity          services.Regularity `json:"regularity"`
	LastPeriodStart     string              `json:"last_period_start,omitempty"`
	CurrentCycleDay     int                 `json:"current_cycle_day"`
	CycleLengths        []int               `json:"cycle_lengths"`
	StdDevDays          float64             `json:"std_dev_days"`
	Stale               bool                `json:"stale"`
	EnoughData          bool                `json:"enough_data"`
	Trigger             string              `json:"trigger"`
	ComputedAt          string              `json:"computed_at"`
}

type fertilityWindowResponse struct {
	OvulationDate string `json:"ovulation_date"`
	WindowStart   string `json:"window_start"`
	WindowEnd     string `json:"window_end"`
}

type fertilityResponse struct {
	CycleDay        int `json:"cycle_day"`
	CycleLengthDays int `json:"cycle_length_days"`
	services.FertilityStatus
	Window *fertilityWindowResponse `json:"window,omitempty"`
}

func (handler *Handler) GetPrediction(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	snapshot, err := handler.snapshotFor(c, user.ID)
	if err != nil {
		return predictionError(c, err)
	}
	return c.JSON(buildPredictionResponse(snapshot, handler.today()))
}

func (handler *Handler) GetFertility(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	snapshot, err := handler.snapshotFor(c, user.ID)
	if err != nil {
		return predictionError(c, err)
	}
	result := snapshot.Result

	cycleDay := services.CurrentCycleDay(result.LastPeriodStart, handler.today())
	if raw := strings.TrimSpace(c.Query("cycle_day")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid cycle_day")
		}
		cycleDay = parsed
	}

	response := fertilityResponse{
		CycleDay:        cycleDay,
		CycleLengthDays: result.CycleLengthDays,
		FertilityStatus: services.ComputeFertilityStatus(cycleDay, result.CycleLengthDays),
	}
	if window, ok := services.EstimateFertilityWindow(result); ok {
		response.Window = &fertilityWindowResponse{
			OvulationDate: services.FormatCalendarDate(window.OvulationDate),
			WindowStart:   services.FormatCalendarDate(window.WindowStart),
			WindowEnd:     services.FormatCalendarDate(window.WindowEnd),
		}
	}
	return c.JSON(response)
}

func (handler *Handler) GetCycles(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	if _, err := handler.snapshotFor(c, user.ID); err != nil {
		return predictionError(c, err)
	}

	records, err := handler.predictions.History(c.UserContext(), user.ID)
	if err != nil {
		log.Printf("prediction: load cycle history for user %d failed: %v", user.ID, err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycles")
	}
	return c.JSON(records)
}

// snapshotFor serves the cached prediction unless the caller asks for a refresh
// or nothing has been computed for the user yet.
func (handler *Handler) snapshotFor(c *fiber.Ctx, userID uint) (services.PredictionSnapshot, error) {
	trigger := services.RefreshTrigger(strings.TrimSpace(c.Query("refresh")))
	if trigger == "" {
		if snapshot, ok := handler.predictions.Current(userID); ok {
			return snapshot, nil
		}
		trigger = services.RefreshInitialLoad
	}
	return handler.predictions.Refresh(c.UserContext(), userID, trigger)
}

func predictionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrInvalidRefreshTrigger) {
		return apiError(c, fiber.StatusBadRequest, "invalid refresh trigger")
	}
	log.Printf("prediction: %v", err)
	return apiError(c, fiber.StatusInternalServerError, "failed to compute prediction")
}

func buildPredictionResponse(snapshot services.PredictionSnapshot, today time.Time) predictionResponse {
	result := snapshot.Result
	response := predictionResponse{
		CycleLengthDays:  result.CycleLengthDays,
		PeriodLengthDays: result.PeriodLengthDays,
		Regularity:       result.Regularity,
		CurrentCycleDay:  services.CurrentCycleDay(result.LastPeriodStart, today),
		CycleLengths:     result.CycleLengths,
		StdDevDays:       result.StdDevDays,
		Stale:            services.CycleDataLooksStale(result.LastPeriodStart, today, result.CycleLengthDays),
		EnoughData:       result.HasEnoughData(),
		Trigger:          string(snapshot.Trigger),
		ComputedAt:       snapshot.ComputedAt.UTC().Format(time.RFC3339),
	}
	if response.CycleLengths == nil {
		response.CycleLengths = []int{}
	}
	if result.NextPeriodDate != nil {
		response.NextPeriodDate = services.FormatCalendarDate(*result.NextPeriodDate)
	}
	if result.LastPeriodStart != nil {
		response.LastPeriodStart = services.FormatCalendarDate(*result.LastPeriodStart)
	}
	if daysUntil, ok := services.DaysUntilNextPeriod(result.NextPeriodDate, today); ok {
		response.DaysUntilNextPeriod = &daysUntil
	}
	return response
}
