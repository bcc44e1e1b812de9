package services

import (
	"math"
	"time"

	"github.com/terraincognita07/cyclecast/internal/models"
)

type Regularity string

const (
	RegularityRegular   Regularity = "regular"
	RegularityIrregular Regularity = "irregular"
	RegularityUnknown   Regularity = "unknown"
)

// PredictionResult is rebuilt from scratch on every ComputePrediction call.
// Slices and pointers are owned by the result and never shared with the caller's input.
type PredictionResult struct {
	NextPeriodDate   *time.Time `json:"next_period_date"`
	CycleLengthDays  int        `json:"cycle_length_days"`
	PeriodLengthDays int        `json:"period_length_days"`
	Regularity       Regularity `json:"regularity"`

	LastPeriodStart *time.Time `json:"last_period_start"`
	CycleLengths    []int      `json:"cycle_lengths"`
	StdDevDays      float64    `json:"std_dev_days"`
	PeriodSamples   int        `json:"period_samples"`
}

// HasEnoughData reports whether the result carries an observed average rather than defaults.
func (result PredictionResult) HasEnoughData() bool {
	return result.NextPeriodDate != nil && result.Regularity != RegularityUnknown
}

func ComputePrediction(entries []models.PeriodEntry) PredictionResult {
	result := PredictionResult{
		CycleLengthDays:  models.DefaultCycleLength,
		PeriodLengthDays: models.DefaultPeriodLength,
		Regularity:       RegularityUnknown,
		CycleLengths:     []int{},
	}

	periodLengths := PeriodLengths(entries)
	if len(periodLengths) > 0 {
		result.PeriodLengthDays = roundHalfUp(averageInts(periodLengths))
		result.PeriodSamples = len(periodLengths)
	}

	starts := NormalizePeriodStarts(entries)
	if len(starts) == 0 {
		return result
	}

	lastStart := starts[0]
	result.LastPeriodStart = &lastStart

	lengths := CycleLengths(starts)
	if len(lengths) > 0 {
		result.CycleLengths = lengths
		result.CycleLengthDays = roundHalfUp(averageInts(lengths))
		result.Regularity, result.StdDevDays = ClassifyRegularity(lengths)
	}

	result.NextPeriodDate = PredictNextPeriod(&lastStart, result.CycleLengthDays)
	return result
}

// CycleLengths expects starts ordered most recent first and returns one gap per adjacent pair.
func CycleLengths(starts []time.Time) []int {
	if len(starts) < 2 {
		return nil
	}

	lengths := make([]int, 0, len(starts)-1)
	for i := 0; i+1 < len(starts); i++ {
		lengths = append(lengths, ceilDaysBetween(starts[i], starts[i+1]))
	}
	return lengths
}

func PredictNextPeriod(lastStart *time.Time, cycleLengthDays int) *time.Time {
	if lastStart == nil || lastStart.IsZero() {
		return nil
	}
	if cycleLengthDays <= 0 {
		cycleLengthDays = models.DefaultCycleLength
	}
	next := addDays(*lastStart, cycleLengthDays)
	return &next
}

// DaysUntilNextPeriod keeps negative values so callers can tell an overdue prediction apart.
func DaysUntilNextPeriod(nextPeriodDate *time.Time, today time.Time) (int, bool) {
	if nextPeriodDate == nil {
		return 0, false
	}
	return ceilDaysBetween(*nextPeriodDate, dateOnly(today)), true
}

func averageInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var total int
	for _, value := range values {
		total += value
	}
	return float64(total) / float64(len(values))
}

func roundHalfUp(value float64) int {
	return int(math.Floor(value + 0.5))
}
