package timegrid

import (
	"fmt"
	"time"

	"github.com/juriscal/consult-scheduler/internal/schederr"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

// ParseClock converts an "HH:MM" string to minutes from midnight.
func ParseClock(hm string) (int, error) {
	t, err := time.Parse(ClockLayout, hm)
	if err != nil {
		return 0, schederr.Validation("invalid time %q, expected HH:MM", hm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes from midnight back to "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// DateKey formats an instant as the calendar date it falls on in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ParseDate parses a date key at midnight in loc.
func ParseDate(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, key, loc)
	if err != nil {
		return time.Time{}, schederr.Validation("invalid date %q, expected YYYY-MM-DD", key)
	}
	return t, nil
}

// WeekdayIndex returns the Monday-first day index (0=Monday .. 6=Sunday),
// matching the weekly template convention.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekKey returns the ISO week identifier for a date, e.g. "2026-W05".
// Override suppression is evaluated per ISO week.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// At places a minute offset on a calendar date in loc.
func At(date time.Time, min int, loc *time.Location) time.Time {
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), min/60, min%60, 0, 0, loc)
}

// DaysBetween walks every date key from 'from' to 'to' inclusive.
func DaysBetween(from, to time.Time, loc *time.Location) []time.Time {
	start := time.Date(from.In(loc).Year(), from.In(loc).Month(), from.In(loc).Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.In(loc).Year(), to.In(loc).Month(), to.In(loc).Day(), 0, 0, 0, 0, loc)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
