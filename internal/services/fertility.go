package services

import (
	"time"

	"github.com/terraincognita07/cyclecast/internal/models"
)

type FertilityLevel string

const (
	FertilityPeak FertilityLevel = "peak"
	FertilityHigh FertilityLevel = "high"
	FertilityLow  FertilityLevel = "low"
)

// LutealPhaseDays anchors ovulation to the next predicted period rather than the last one.
const LutealPhaseDays = 14

const (
	fertileDaysBeforeOvulation = 4
	fertileDaysAfterOvulation  = 1
	peakDaysAroundOvulation    = 1
)

// FertilityStatus describes one cycle day. Day indices are 1-based from the last period start.
type FertilityStatus struct {
	Status                       FertilityLevel `json:"status"`
	DaysToOvulation              int            `json:"days_to_ovulation"`
	FertileWindowProgressPercent int            `json:"fertile_window_progress_percent"`
	OvulationDay                 int            `json:"ovulation_day"`
	FertileWindowStartDay        int            `json:"fertile_window_start_day"`
	FertileWindowEndDay          int            `json:"fertile_window_end_day"`
	Calculable                   bool           `json:"calculable"`
}

type FertilityWindow struct {
	OvulationDate time.Time `json:"ovulation_date"`
	WindowStart   time.Time `json:"window_start"`
	WindowEnd     time.Time `json:"window_end"`
}

// ComputeFertilityStatus classifies cycleDay against the window derived from cycleLengthDays.
// Cycles too short to place ovulation on day 1 or later are reported as not calculable.
func ComputeFertilityStatus(cycleDay int, cycleLengthDays int) FertilityStatus {
	if cycleLengthDays <= 0 {
		cycleLengthDays = models.DefaultCycleLength
	}

	ovulationDay, windowStart, windowEnd, calculable := fertileWindowDays(cycleLengthDays)
	status := FertilityStatus{
		Status:                FertilityLow,
		OvulationDay:          ovulationDay,
		FertileWindowStartDay: windowStart,
		FertileWindowEndDay:   windowEnd,
		Calculable:            calculable,
	}
	if !calculable || cycleDay <= 0 {
		return status
	}

	status.DaysToOvulation = ovulationDay - cycleDay
	switch {
	case absInt(cycleDay-ovulationDay) <= peakDaysAroundOvulation:
		status.Status = FertilityPeak
	case cycleDay >= windowStart && cycleDay <= windowEnd:
		status.Status = FertilityHigh
	}
	status.FertileWindowProgressPercent = windowProgressPercent(cycleDay, windowStart, windowEnd)
	return status
}

// EstimateFertilityWindow places the fertile window on the calendar of the cycle
// that started at result.LastPeriodStart.
func EstimateFertilityWindow(result PredictionResult) (FertilityWindow, bool) {
	if result.LastPeriodStart == nil {
		return FertilityWindow{}, false
	}
	ovulationDay, windowStart, windowEnd, calculable := fertileWindowDays(result.CycleLengthDays)
	if !calculable {
		return FertilityWindow{}, false
	}

	cycleStart := *result.LastPeriodStart
	return FertilityWindow{
		OvulationDate: addDays(cycleStart, ovulationDay-1),
		WindowStart:   addDays(cycleStart, windowStart-1),
		WindowEnd:     addDays(cycleStart, windowEnd-1),
	}, true
}

// CurrentCycleDay returns the 1-based day of the cycle that started at lastStart,
// or 0 when there is no start or today precedes it.
func CurrentCycleDay(lastStart *time.Time, today time.Time) int {
	if lastStart == nil || lastStart.IsZero() {
		return 0
	}
	day := dateOnly(today)
	if day.Before(*lastStart) {
		return 0
	}
	return ceilDaysBetween(day, *lastStart) + 1
}

func CycleDataLooksStale(lastStart *time.Time, today time.Time, referenceLength int) bool {
	if referenceLength <= 0 {
		return false
	}
	return CurrentCycleDay(lastStart, today) > referenceLength
}

func fertileWindowDays(cycleLengthDays int) (int, int, int, bool) {
	ovulationDay := cycleLengthDays - LutealPhaseDays
	if ovulationDay < 1 {
		return 0, 0, 0, false
	}
	windowStart := max(ovulationDay-fertileDaysBeforeOvulation, 1)
	windowEnd := ovulationDay + fertileDaysAfterOvulation
	return ovulationDay, windowStart, windowEnd, true
}

func windowProgressPercent(cycleDay int, windowStart int, windowEnd int) int {
	switch {
	case cycleDay < windowStart:
		return 0
	case cycleDay > windowEnd:
		return 100
	}
	windowLength := windowEnd - windowStart + 1
	return roundHalfUp(float64(cycleDay-windowStart+1) / float64(windowLength) * 100)
}

func absInt(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
