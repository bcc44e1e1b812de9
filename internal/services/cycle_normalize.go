package services

import (
	"slices"
	"time"

	"github.com/terraincognita07/cyclecast/internal/models"
)

// NormalizePeriodStarts returns the distinct period start dates found in entries,
// most recent first. Entries without a start or with an unparsable start are skipped.
func NormalizePeriodStarts(entries []models.PeriodEntry) []time.Time {
	seen := make(map[string]struct{}, len(entries))
	starts := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		start, ok := ParseCalendarDate(entry.PeriodStartDate)
		if !ok {
			continue
		}
		key := FormatCalendarDate(start)
		if _, duplicate := seen[key]; duplicate {
			continue
		}
		seen[key] = struct{}{}
		starts = append(starts, start)
	}

	slices.SortFunc(starts, func(a, b time.Time) int {
		return b.Compare(a)
	})
	return starts
}
