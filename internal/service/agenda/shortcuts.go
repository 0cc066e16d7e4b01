package agenda

import (
	"time"
)

// DateRange is a closed [Start, End] interval in local time.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Shortcut names accepted by list filters in place of explicit dates.
const (
	ShortcutHoje          = "hoje"
	ShortcutAmanha        = "amanha"
	ShortcutEstaSemana    = "esta_semana"
	ShortcutProximaSemana = "proxima_semana"
)

// ResolveShortcut maps a named shortcut to a concrete day-granular interval
// relative to now. Weeks start on Monday. The returned end is the last
// instant of the final day, so the start of the following day is excluded.
func ResolveShortcut(name string, now time.Time) (DateRange, bool) {
	start := startOfDay(now)

	switch name {
	case ShortcutHoje:
		return DateRange{Start: start, End: endOfDay(start)}, true
	case ShortcutAmanha:
		d := start.AddDate(0, 0, 1)
		return DateRange{Start: d, End: endOfDay(d)}, true
	case ShortcutEstaSemana:
		monday := start.AddDate(0, 0, -mondayOffset(start))
		return DateRange{Start: monday, End: endOfDay(monday.AddDate(0, 0, 6))}, true
	case ShortcutProximaSemana:
		monday := start.AddDate(0, 0, 7-mondayOffset(start))
		return DateRange{Start: monday, End: endOfDay(monday.AddDate(0, 0, 6))}, true
	default:
		return DateRange{}, false
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(startOfDay time.Time) time.Time {
	return startOfDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// mondayOffset returns how many days t is past the most recent Monday.
func mondayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
