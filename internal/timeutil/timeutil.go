// Package timeutil converts between timestamps, clock strings, worked hours and
// spreadsheet time fractions.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the ISO date used as the history key.
	DateLayout = "2006-01-02"
	// ClockLayout is the display format for check times.
	ClockLayout = "3:04 PM"
	// EmptyClock is shown when a check time is absent.
	EmptyClock = "--:--"
	// RegularHours is the working day length after which overtime starts.
	RegularHours = 8.0
)

// WorkedHours returns the hours between checkIn and checkOut formatted with two
// decimals, or "0.00" if either is absent. The difference is taken in whole
// minutes, truncated toward zero. A checkOut before checkIn yields a negative
// value.
func WorkedHours(checkIn, checkOut *time.Time) string {
	return strconv.FormatFloat(WorkedHoursValue(checkIn, checkOut), 'f', 2, 64)
}

// WorkedHoursValue is WorkedHours as a number.
func WorkedHoursValue(checkIn, checkOut *time.Time) float64 {
	if checkIn == nil || checkOut == nil {
		return 0
	}
	minutes := int64(checkOut.Sub(*checkIn) / time.Minute)
	return float64(minutes) / 60
}

// Overtime returns max(0, worked-8) rounded to two decimals. ok is false when
// there is no overtime to show.
func Overtime(worked float64) (float64, bool) {
	// worked is re-rounded first so that "8.00" never produces a tiny overtime.
	w := round2(worked)
	if w <= RegularHours {
		return 0, false
	}
	return round2(w - RegularHours), true
}

// TimeFraction returns the time of day of t in loc as a fraction of 24 hours,
// the encoding spreadsheet time cells use.
func TimeFraction(t *time.Time, loc *time.Location) (float64, bool) {
	if t == nil || t.IsZero() {
		return 0, false
	}
	lt := t.In(locOrLocal(loc))
	h, m, s := lt.Clock()
	return (float64(h) + float64(m)/60 + float64(s)/3600) / 24, true
}

// FormatClock renders t as "h:mm AM/PM" in loc, or "--:--" if absent.
func FormatClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return EmptyClock
	}
	return t.In(locOrLocal(loc)).Format(ClockLayout)
}

// ParseClock builds a timestamp on date (yyyy-MM-dd) at "HH:mm" in loc.
func ParseClock(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid clock %q: expected HH:mm", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return time.Time{}, fmt.Errorf("invalid clock %q: bad hour", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return time.Time{}, fmt.Errorf("invalid clock %q: bad minute", clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, 0, 0, day.Location()), nil
}

// ParseDate parses an ISO date key in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, locOrLocal(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// IsDate reports whether s is a valid yyyy-MM-dd date.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// FormatDate formats t as an ISO date key.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TodayString returns today's date key in loc.
func TodayString(now time.Time, loc *time.Location) string {
	return FormatDate(now.In(locOrLocal(loc)))
}

// MonthDays returns every calendar day of the month containing ref.
func MonthDays(ref time.Time) []time.Time {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	next := first.AddDate(0, 1, 0)
	var days []time.Time
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func locOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
