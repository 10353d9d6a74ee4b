package utils

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

// ParseDate reads a calendar day as UTC midnight.
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return datatypes.Date{}, Invalidf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return datatypes.Date(t), nil
}

// ParseClock reads a time of day written HH:MM or HH:MM:SS.
func ParseClock(s string) (datatypes.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
		}
	}
	return 0, Invalidf("invalid time %q, expected HH:MM", s)
}

func DayOf(t time.Time) datatypes.Date {
	t = t.UTC()
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

// DayRange returns the half-open interval covering the day of d.
func DayRange(d datatypes.Date) (time.Time, time.Time) {
	start := time.Time(DayOf(time.Time(d)))
	return start, start.AddDate(0, 0, 1)
}

func SameDay(a, b datatypes.Date) bool {
	return time.Time(DayOf(time.Time(a))).Equal(time.Time(DayOf(time.Time(b))))
}

// WeekStart returns the Monday of the week containing d.
func WeekStart(d datatypes.Date) datatypes.Date {
	t := time.Time(DayOf(time.Time(d)))
	offset := (int(t.Weekday()) + 6) % 7
	return datatypes.Date(t.AddDate(0, 0, -offset))
}
