package services

import (
	"math"
	"strings"
	"time"
)

const calendarDateLayout = "2006-01-02"

var calendarDateLayouts = []string{
	calendarDateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
}

// ParseCalendarDate reads a stored date value and reduces it to a UTC calendar day.
// Timestamps keep the calendar date they were written with, not the instant converted to UTC.
func ParseCalendarDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range calendarDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return dateOnly(parsed), true
	}
	return time.Time{}, false
}

func FormatCalendarDate(value time.Time) string {
	return value.Format(calendarDateLayout)
}

// CalendarDayAt returns the calendar date value falls on in location, as a
// UTC midnight comparable with parsed entry dates.
func CalendarDayAt(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return dateOnly(value.In(location))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func addDays(day time.Time, days int) time.Time {
	return day.AddDate(0, 0, days)
}

// ceilDaysBetween returns ceil(later - earlier) in whole days. The result is
// negative when later precedes earlier.
func ceilDaysBetween(later time.Time, earlier time.Time) int {
	return int(math.Ceil(later.Sub(earlier).Hours() / 24))
}

func sameDay(a, b time.Time) bool {
	return a.Format(calendarDateLayout) == b.Format(calendarDateLayout)
}
