package domain

import "time"

const DateLayout = "2006-01-02"

// WeekNumber returns the zero-based week containing date, counted from start.
// Days are counted on the calendar, so daylight-saving shifts do not move a
// date into the previous week. Partial days are truncated.
func WeekNumber(date, start time.Time) int {
	days := int(civilDay(date).Sub(civilDay(start)).Hours() / 24)
	if clock(date) < clock(start) {
		days--
	}
	return floorDiv(days, 7)
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clock(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// WeekStartDate returns the first day of week n.
func WeekStartDate(n int, start time.Time) time.Time {
	return start.AddDate(0, 0, 7*n)
}

// ProrationForDate returns the share of the current week still ahead of now,
// given the weekday on which weekly income resets. The result is in (0, 1].
func ProrationForDate(now time.Time, reset time.Weekday) float64 {
	daysLeft := (int(reset) - int(now.Weekday()) + 7) % 7
	if daysLeft == 0 {
		daysLeft = 7
	}
	return float64(daysLeft) / 7
}

// TruncateDay drops the clock part of t, keeping its location.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
