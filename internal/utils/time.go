package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/taskline/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	// Return the date at midnight in the specified timezone
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ParseOptionalDate parses a date string, returning nil for an empty string.
func ParseOptionalDate(dateStr string, loc *time.Location) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}
	t, err := ParseDateInLocation(dateStr, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", dateStr, err)
	}
	return &t, nil
}

// ParseRelativeDate accepts YYYY-MM-DD, "today", "tomorrow", "yesterday" or an offset
// such as "+3d" / "-2d", all relative to now's calendar day and location. Empty input yields nil.
func ParseRelativeDate(s string, now time.Time) (*time.Time, error) {
	today := StartOfDay(now)
	var t time.Time
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "today":
		t = today
	case "tomorrow":
		t = AddDays(today, 1)
	case "yesterday":
		t = AddDays(today, -1)
	default:
		if len(s) > 2 && (s[0] == '+' || s[0] == '-') && (s[len(s)-1] == 'd' || s[len(s)-1] == 'D') {
			n, err := strconv.Atoi(s[1 : len(s)-1])
			if err != nil {
				return nil, fmt.Errorf("invalid day offset %q", s)
			}
			if s[0] == '-' {
				n = -n
			}
			t = AddDays(today, n)
			break
		}
		return ParseOptionalDate(s, now.Location())
	}
	return &t, nil
}

// FormatOptionalDate formats a date pointer as YYYY-MM-DD, or "" when nil.
func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(constants.DateFormat)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// AddDays moves t by n calendar days, keeping the wall clock time.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar date in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaysBetween returns the number of full days from `from` to `to`, truncated toward zero.
// Days are counted on the calendar of from's location, so DST shifts do not lose a day.
func DaysBetween(from, to time.Time) int {
	to = to.In(from.Location())
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	days := int(time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).
		Sub(time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)).Hours() / 24)

	// a partial last day does not count
	fromClock := from.Sub(StartOfDay(from))
	toClock := to.Sub(StartOfDay(to))
	if days > 0 && toClock < fromClock {
		days--
	} else if days < 0 && toClock > fromClock {
		days++
	}
	return days
}
