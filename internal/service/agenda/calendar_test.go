package agenda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saudelog/agenda-api/internal/model"
)

func apt(paciente string, date time.Time, hora string) *model.Appointment {
	return &model.Appointment{
		Paciente:        paciente,
		DataAgendamento: date,
		HoraAgendamento: hora,
	}
}

func TestMonthGridSpansWholeWeeks(t *testing.T) {
	loc := time.UTC
	// March 2024 starts on a Friday and ends on a Sunday.
	weeks := MonthGrid(nil, 2024, time.March, time.Time{}, time.Date(2024, 3, 15, 12, 0, 0, 0, loc), loc)

	require.Len(t, weeks, 6)
	for _, week := range weeks {
		require.Len(t, []DayCell(week), 7)
	}

	first := weeks[0][0]
	last := weeks[5][6]
	assert.Equal(t, time.Sunday, first.Date.Weekday())
	assert.Equal(t, time.Saturday, last.Date.Weekday())
	assert.Equal(t, 25, first.Date.Day())
	assert.Equal(t, time.February, first.Date.Month())
	assert.False(t, first.InMonth)
	assert.Equal(t, 6, last.Date.Day())
	assert.Equal(t, time.April, last.Date.Month())
	assert.False(t, last.InMonth)
}

func TestMonthGridDaysAreContiguous(t *testing.T) {
	loc := time.UTC
	weeks := MonthGrid(nil, 2024, time.March, time.Time{}, time.Now(), loc)

	var prev time.Time
	for _, week := range weeks {
		for _, cell := range week {
			if !prev.IsZero() {
				assert.Equal(t, prev.AddDate(0, 0, 1), cell.Date)
			}
			prev = cell.Date
		}
	}
}

func TestMonthGridConservesAppointments(t *testing.T) {
	loc := time.UTC
	appointments := []*model.Appointment{
		apt("Ana", time.Date(2024, 3, 1, 0, 0, 0, 0, loc), "08:00"),
		apt("Bruno", time.Date(2024, 3, 1, 0, 0, 0, 0, loc), "14:00"),
		apt("Carla", time.Date(2024, 3, 15, 0, 0, 0, 0, loc), "09:30"),
		// Trailing day from February still lands in the grid.
		apt("Davi", time.Date(2024, 2, 26, 0, 0, 0, 0, loc), "10:00"),
		// Zero dates are dropped, not crashed on.
		apt("Eva", time.Time{}, ""),
	}

	weeks := MonthGrid(appointments, 2024, time.March, time.Time{}, time.Now(), loc)

	total := 0
	for _, week := range weeks {
		for _, cell := range week {
			total += cell.Count
			assert.Len(t, cell.Appointments, cell.Count)
		}
	}
	assert.Equal(t, 4, total)
}

func TestMonthGridSortsWithinDay(t *testing.T) {
	loc := time.UTC
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, loc)
	appointments := []*model.Appointment{
		apt("Tarde", day, "14:00"),
		apt("Manha", day, "08:00"),
		apt("Meio", day, "10:30"),
	}

	weeks := MonthGrid(appointments, 2024, time.March, time.Time{}, time.Now(), loc)

	var cell *DayCell
	for _, week := range weeks {
		for i := range week {
			if week[i].Count > 0 {
				cell = &week[i]
			}
		}
	}
	require.NotNil(t, cell)
	require.Equal(t, 3, cell.Count)
	assert.Equal(t, "Manha", cell.Appointments[0].Paciente)
	assert.Equal(t, "Meio", cell.Appointments[1].Paciente)
	assert.Equal(t, "Tarde", cell.Appointments[2].Paciente)
}

func TestMonthGridMarksTodayAndSelected(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 3, 15, 17, 45, 0, 0, loc)
	selected := time.Date(2024, 3, 20, 0, 0, 0, 0, loc)

	weeks := MonthGrid(nil, 2024, time.March, selected, now, loc)

	var todays, selecteds int
	for _, week := range weeks {
		for _, cell := range week {
			if cell.IsToday {
				todays++
				assert.Equal(t, 15, cell.Date.Day())
			}
			if cell.IsSelected {
				selecteds++
				assert.Equal(t, 20, cell.Date.Day())
			}
		}
	}
	assert.Equal(t, 1, todays)
	assert.Equal(t, 1, selecteds)
}

func TestMonthGridBucketsByLocalDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:30 UTC on March 16 is still March 15 in Sao Paulo.
	appointments := []*model.Appointment{
		apt("Noite", time.Date(2024, 3, 16, 1, 30, 0, 0, time.UTC), "22:30"),
	}
	weeks := MonthGrid(appointments, 2024, time.March, time.Time{}, time.Now(), loc)

	for _, week := range weeks {
		for _, cell := range week {
			if cell.Count > 0 {
				assert.Equal(t, 15, cell.Date.Day())
				return
			}
		}
	}
	t.Fatal("appointment missing from grid")
}
