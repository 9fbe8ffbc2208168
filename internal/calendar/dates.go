package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the canonical date form shared by events and day lookups.
const DateLayout = "2006-01-02"

// MonthGrid returns the Sunday-start, full-week-aligned days shown for
// the month containing month.
func MonthGrid(month time.Time) []time.Time {
	return MonthGridFrom(month, time.Sunday)
}

// MonthGridFrom is MonthGrid with an explicit first day of the week. The
// result starts on weekStart, ends the day before the next weekStart and
// always has a length that is a multiple of 7.
func MonthGridFrom(month time.Time, weekStart time.Weekday) []time.Time {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -daysSince(first.Weekday(), weekStart))
	end := last.AddDate(0, 0, 6-daysSince(last.Weekday(), weekStart))

	var days []time.Time
	// AddDate on a midnight date keeps the walk on calendar days across DST changes.
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

func daysSince(day, weekStart time.Weekday) int {
	return (int(day) - int(weekStart) + 7) % 7
}

// WeekdayNames returns short weekday headers beginning at weekStart.
func WeekdayNames(weekStart time.Weekday) []string {
	names := make([]string, 7)
	for i := range names {
		names[i] = time.Weekday((int(weekStart) + i) % 7).String()[:3]
	}
	return names
}

// IsSameDay reports whether a and b fall on the same calendar day.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsToday reports whether t is on the current local calendar day.
func IsToday(t time.Time) bool {
	return IsSameDay(t.In(time.Local), time.Now())
}

// IsInMonth reports whether t shares month and year with ref, both read
// in local time.
func IsInMonth(t, ref time.Time) bool {
	t, ref = t.In(time.Local), ref.In(time.Local)
	return t.Year() == ref.Year() && t.Month() == ref.Month()
}

// FormatDate renders the local calendar day of t in the canonical
// YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}

// ParseDate parses a canonical date string into local midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddMonths moves n months from t and lands on the first of the month,
// so that stepping from Jan 31 never skips February.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, n, 0)
}

// EventsOnDay returns the events dated on day, keeping their order.
func EventsOnDay(events []Event, day time.Time) []Event {
	key := FormatDate(day)
	matched := []Event{}
	for _, event := range events {
		if event.Date == key {
			matched = append(matched, event)
		}
	}
	return matched
}
