package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", day+" "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

func rangeAt(day, start, end string) TimeRange {
	return TimeRange{Start: at(day, start), End: at(day, end)}
}

func TestNewTimeRange(t *testing.T) {
	_, err := NewTimeRange(at("2025-03-10", "10:00"), at("2025-03-10", "12:00"))
	assert.NoError(t, err)

	_, err = NewTimeRange(at("2025-03-10", "12:00"), at("2025-03-10", "12:00"))
	assert.Error(t, err, "equal endpoints")

	_, err = NewTimeRange(at("2025-03-10", "12:00"), at("2025-03-10", "10:00"))
	assert.Error(t, err, "inverted")
}

func TestOverlaps(t *testing.T) {
	const day = "2025-03-10"

	tests := []struct {
		name string
		a    TimeRange
		b    TimeRange
		want bool
	}{
		{"disjoint", rangeAt(day, "10:00", "12:00"), rangeAt(day, "14:00", "16:00"), false},
		{"nested", rangeAt(day, "10:00", "16:00"), rangeAt(day, "12:00", "14:00"), true},
		{"partial", rangeAt(day, "10:00", "13:00"), rangeAt(day, "12:00", "14:00"), true},
		{"identical", rangeAt(day, "10:00", "12:00"), rangeAt(day, "10:00", "12:00"), true},
		{"touching endpoints conflict", rangeAt(day, "10:00", "12:00"), rangeAt(day, "12:00", "13:00"), true},
		{"one minute apart", rangeAt(day, "10:00", "12:00"), rangeAt(day, "12:01", "13:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap is symmetric")
		})
	}
}

func TestContains(t *testing.T) {
	const day = "2025-03-10"
	hours := rangeAt(day, "10:00", "22:00")

	assert.True(t, hours.Contains(rangeAt(day, "12:00", "14:00")))
	assert.True(t, hours.Contains(hours), "boundaries are inclusive")
	assert.False(t, hours.Contains(rangeAt(day, "09:00", "11:00")))
	assert.False(t, hours.Contains(rangeAt(day, "21:00", "23:00")))
}

func TestSameDay(t *testing.T) {
	assert.True(t, rangeAt("2025-03-10", "10:00", "23:59").SameDay())

	cross := TimeRange{Start: at("2025-03-10", "21:00"), End: at("2025-03-11", "01:00")}
	assert.False(t, cross.SameDay())
}

func TestClockRangeOnDate(t *testing.T) {
	date := at("2025-03-10", "00:00")

	rng, err := ClockRangeOnDate(date, "10:00", "22:00")
	require.NoError(t, err)
	assert.Equal(t, at("2025-03-10", "10:00"), rng.Start)
	assert.Equal(t, at("2025-03-10", "22:00"), rng.End)

	_, err = ClockRangeOnDate(date, "25:00", "26:00")
	assert.Error(t, err)

	_, err = ClockRangeOnDate(date, "22:00", "10:00")
	assert.Error(t, err, "inverted clocks")
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Sunday", WeekdayName(at("2022-12-25", "00:00")))
	assert.Equal(t, "Monday", WeekdayName(at("2025-03-10", "00:00")))
}
