package services

import (
	"slices"
	"time"

	"github.com/terraincognita07/cyclecast/internal/models"
)

// CycleHistory lists observed cycles oldest first, followed by one predicted record
// when result has a next period date.
func CycleHistory(entries []models.PeriodEntry, result PredictionResult) []models.CycleRecord {
	starts := NormalizePeriodStarts(entries)
	slices.Reverse(starts)

	periodLengthByStart := make(map[string]int, len(entries))
	for _, entry := range entries {
		lengths := PeriodLengths([]models.PeriodEntry{entry})
		if len(lengths) == 0 {
			continue
		}
		start, _ := ParseCalendarDate(entry.PeriodStartDate)
		key := FormatCalendarDate(start)
		if lengths[0] > periodLengthByStart[key] {
			periodLengthByStart[key] = lengths[0]
		}
	}

	records := make([]models.CycleRecord, 0, len(starts)+1)
	for i, start := range starts {
		record := models.CycleRecord{CycleStartDate: FormatCalendarDate(start)}
		if i+1 < len(starts) {
			next := starts[i+1]
			record.CycleEndDate = stringPointer(FormatCalendarDate(addDays(next, -1)))
			record.CycleLength = intPointer(ceilDaysBetween(next, start))
		}
		if periodLength, ok := periodLengthByStart[record.CycleStartDate]; ok {
			record.PeriodLength = intPointer(periodLength)
		}
		records = append(records, record)
	}

	if result.NextPeriodDate != nil {
		records = append(records, predictedCycleRecord(*result.NextPeriodDate, result))
	}
	return records
}

func predictedCycleRecord(start time.Time, result PredictionResult) models.CycleRecord {
	return models.CycleRecord{
		CycleStartDate: FormatCalendarDate(start),
		CycleEndDate:   stringPointer(FormatCalendarDate(addDays(start, result.CycleLengthDays-1))),
		CycleLength:    intPointer(result.CycleLengthDays),
		PeriodLength:   intPointer(result.PeriodLengthDays),
		Predicted:      true,
	}
}

func stringPointer(value string) *string {
	return &value
}

func intPointer(value int) *int {
	return &value
}
