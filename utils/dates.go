package utils

import (
	"math"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// BeginningOfDay returns midnight of t's calendar day in loc, or in t's own
// location when loc is nil.
func BeginningOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// DaysBetween counts calendar days from start to end in start's location.
// Negative when end falls before start.
func DaysBetween(start, end time.Time) int {
	loc := start.Location()
	d := BeginningOfDay(end, loc).Sub(BeginningOfDay(start, loc))
	// DST days are 23 or 25 hours long.
	return int(math.Round(d.Hours() / 24))
}

// ParseLocalDate parses YYYY-MM-DD as a calendar date in loc.
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// FormatLocalDate formats the calendar date of t as seen in its own location.
func FormatLocalDate(t time.Time) string {
	return t.Format(DateLayout)
}
