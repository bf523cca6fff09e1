package util

import (
	"fmt"
	"time"
)

const layout = "2006-01-02"

// NewDate returns the given calendar day at midnight UTC. All dates in the
// store are day-granular; normalizing here keeps equality checks sane.
func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(layout)
}

// Truncate drops any time-of-day component, returning the day at midnight UTC.
func Truncate(t time.Time) time.Time {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func DateLte(t1, t2 time.Time) bool {
	return t1.Before(t2) || t1.Format(layout) == t2.Format(layout)
}

func SameDate(t1, t2 time.Time) bool {
	return t1.Format(layout) == t2.Format(layout)
}
