package booking

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stolik/internal/models"
)

func TestResolve_WeekdayTemplate(t *testing.T) {
	store := newMemStore()
	store.addWeekSchedule("10:00", "22:00")
	resolver := NewScheduleResolver(store, zerolog.Nop())

	// 2022-12-19 is a Monday.
	date := dayAt("2022-12-19", "00:00")
	sched, err := resolver.Resolve(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, "Monday", sched.Day)
	assert.Equal(t, "10:00", sched.OpenTime)
}

func TestResolve_DateOverrideWinsOverWeekday(t *testing.T) {
	store := newMemStore()
	store.addWeekSchedule("10:00", "22:00")
	// 2022-12-25 is a Sunday; the holiday override shortens the day.
	store.schedules = append(store.schedules, models.Schedule{
		Day: "2022-12-25", OpenTime: "12:00", CloseTime: "16:00",
	})
	resolver := NewScheduleResolver(store, zerolog.Nop())

	sched, err := resolver.Resolve(context.Background(), dayAt("2022-12-25", "00:00"))
	require.NoError(t, err)
	assert.Equal(t, "2022-12-25", sched.Day)
	assert.Equal(t, "12:00", sched.OpenTime)

	// The Sunday template still applies one week earlier.
	sched, err = resolver.Resolve(context.Background(), dayAt("2022-12-18", "00:00"))
	require.NoError(t, err)
	assert.Equal(t, "Sunday", sched.Day)
}

func TestResolve_DuplicateDateRows(t *testing.T) {
	store := newMemStore()
	store.schedules = append(store.schedules,
		models.Schedule{Day: "2022-12-25", OpenTime: "10:00", CloseTime: "22:00"},
		models.Schedule{Day: "2022-12-25", OpenTime: "12:00", CloseTime: "16:00"},
	)
	resolver := NewScheduleResolver(store, zerolog.Nop())

	_, err := resolver.Resolve(context.Background(), dayAt("2022-12-25", "00:00"))
	assert.ErrorIs(t, err, ErrScheduleConflict)
}

func TestResolve_DuplicateWeekdayRows(t *testing.T) {
	store := newMemStore()
	store.schedules = append(store.schedules,
		models.Schedule{Day: "Monday", OpenTime: "10:00", CloseTime: "22:00"},
		models.Schedule{Day: "Monday", OpenTime: "09:00", CloseTime: "21:00"},
	)
	resolver := NewScheduleResolver(store, zerolog.Nop())

	_, err := resolver.Resolve(context.Background(), dayAt("2022-12-19", "00:00"))
	assert.ErrorIs(t, err, ErrScheduleConflict)
}

func TestResolve_MissingWeekday(t *testing.T) {
	store := newMemStore()
	resolver := NewScheduleResolver(store, zerolog.Nop())

	_, err := resolver.Resolve(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrScheduleMissing)
}
