// Package dateutil is the single source of truth for calendar arithmetic
// shared by the availability resolver and the earnings aggregator. Both sides
// must agree on what "today", "this week" and "this month" mean, so none of
// them does its own weekday or boundary math.
package dateutil

import (
	"strings"
	"time"
)

// WeekdayIndex returns the weekday of t with Sunday = 0 through Saturday = 6.
func WeekdayIndex(t time.Time) int {
	return int(t.Weekday())
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// SameMonth reports whether a and b fall in the same calendar month and year.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// WeekBounds returns the calendar week containing t: Sunday 00:00:00 through
// the last nanosecond of the following Saturday, in t's location.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t).AddDate(0, 0, -WeekdayIndex(t))
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// Between reports whether t lies in [start, end], bounds inclusive.
func Between(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday maps a weekday name ("Sunday".."Saturday", any case) to its
// time.Weekday. The second return is false for anything unrecognised.
func ParseWeekday(name string) (time.Weekday, bool) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}
