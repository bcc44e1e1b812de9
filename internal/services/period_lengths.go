package services

import "github.com/terraincognita07/cyclecast/internal/models"

// PeriodLengths returns the inclusive day count of every entry that carries a
// parsable start and end with the end not before the start.
func PeriodLengths(entries []models.PeriodEntry) []int {
	lengths := make([]int, 0)
	for _, entry := range entries {
		start, ok := ParseCalendarDate(entry.PeriodStartDate)
		if !ok {
			continue
		}
		end, ok := ParseCalendarDate(entry.PeriodEndDate)
		if !ok || end.Before(start) {
			continue
		}
		lengths = append(lengths, ceilDaysBetween(end, start)+1)
	}
	return lengths
}
