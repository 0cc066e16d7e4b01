package agenda

import (
	"sort"
	"time"

	"github.com/saudelog/agenda-api/internal/model"
)

// DayCell is one cell of the month grid.
type DayCell struct {
	Date         time.Time            `json:"date"`
	Appointments []*model.Appointment `json:"appointments"`
	InMonth      bool                 `json:"in_month"`
	IsToday      bool                 `json:"is_today"`
	IsSelected   bool                 `json:"is_selected"`
	Count        int                  `json:"count"`
}

// Week is a Sunday-to-Saturday row of the grid.
type Week []DayCell

type dateKey struct {
	year  int
	month time.Month
	day   int
}

// keyFor buckets a timestamp by its local calendar date. Comparing wall-clock
// components rather than instants keeps appointments near midnight from
// drifting into the neighbouring day.
func keyFor(t time.Time, loc *time.Location) dateKey {
	y, m, d := t.In(loc).Date()
	return dateKey{y, m, d}
}

// MonthGrid buckets appointments into a calendar grid for the given month.
// The grid always spans whole weeks: leading and trailing days from adjacent
// months are included to fill the first and last rows. Appointments with a
// zero scheduled date are excluded rather than crashing the view.
func MonthGrid(appointments []*model.Appointment, year int, month time.Month, selected, now time.Time, loc *time.Location) []Week {
	if loc == nil {
		loc = time.Local
	}

	byDay := make(map[dateKey][]*model.Appointment)
	for _, apt := range appointments {
		if apt == nil || apt.DataAgendamento.IsZero() {
			continue
		}
		k := keyFor(apt.DataAgendamento, loc)
		byDay[k] = append(byDay[k], apt)
	}
	for _, day := range byDay {
		sort.SliceStable(day, func(i, j int) bool {
			if !day[i].DataAgendamento.Equal(day[j].DataAgendamento) {
				return day[i].DataAgendamento.Before(day[j].DataAgendamento)
			}
			return day[i].HoraAgendamento < day[j].HoraAgendamento
		})
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, 6-int(last.Weekday()))

	todayKey := keyFor(now, loc)
	selectedKey := dateKey{}
	hasSelected := !selected.IsZero()
	if hasSelected {
		selectedKey = keyFor(selected, loc)
	}

	var weeks []Week
	var week Week
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		k := keyFor(d, loc)
		day := byDay[k]
		week = append(week, DayCell{
			Date:         d,
			Appointments: day,
			InMonth:      k.month == month && k.year == year,
			IsToday:      k == todayKey,
			IsSelected:   hasSelected && k == selectedKey,
			Count:        len(day),
		})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = nil
		}
	}
	return weeks
}
