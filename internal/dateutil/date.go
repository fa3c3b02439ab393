// Package dateutil provides the naive calendar-date arithmetic the schedule
// is built on: ISO date strings, Monday-anchored weeks, calendar months and
// the ski season (Nov 1 through Apr 30 of the following year).
package dateutil

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateString renders t as YYYY-MM-DD. The time of day is ignored.
func DateString(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD string into a naive date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Today returns the current date truncated to midnight.
func Today() time.Time {
	return StartOfDay(time.Now())
}

// StartOfDay drops the time-of-day component.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays shifts t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// StartOfWeek returns the Monday of t's week. Sunday counts as day 7, so a
// Sunday reference date maps to the Monday six days earlier.
func StartOfWeek(t time.Time) time.Time {
	day := int(t.Weekday())
	if day == 0 {
		day = 7
	}
	return StartOfDay(t).AddDate(0, 0, -(day - 1))
}

// EndOfWeek returns the Sunday of t's week (inclusive range end).
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 6)
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// SeasonStartYear resolves the season a date belongs to: November or later
// starts a new season, anything earlier still belongs to the previous year's.
func SeasonStartYear(t time.Time) int {
	if t.Month() >= time.November {
		return t.Year()
	}
	return t.Year() - 1
}

// StartOfSeason returns November 1 of the season containing t.
func StartOfSeason(t time.Time) time.Time {
	return time.Date(SeasonStartYear(t), time.November, 1, 0, 0, 0, 0, t.Location())
}

// EndOfSeason returns April 30 following the season start (inclusive).
func EndOfSeason(t time.Time) time.Time {
	return time.Date(SeasonStartYear(t)+1, time.April, 30, 0, 0, 0, 0, t.Location())
}

// FormatDateZh renders a date as M月D日 without zero padding.
func FormatDateZh(t time.Time) string {
	return fmt.Sprintf("%d月%d日", int(t.Month()), t.Day())
}

var weekdaysZh = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// WeekdayZh returns the Chinese weekday label (周一 .. 周日).
func WeekdayZh(t time.Time) string {
	return weekdaysZh[int(t.Weekday())]
}
