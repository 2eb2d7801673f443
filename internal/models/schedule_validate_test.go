package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name    string
		sched   Schedule
		wantErr string
	}{
		{
			name:  "weekday without break",
			sched: Schedule{Day: "Monday", OpenTime: "10:00", CloseTime: "22:00"},
		},
		{
			name: "date key with break",
			sched: Schedule{
				Day: "2025-12-31", OpenTime: "10:00", CloseTime: "18:00",
				BreakStartTime: "13:00", BreakEndTime: "14:00",
			},
		},
		{
			name:    "unknown day key",
			sched:   Schedule{Day: "Someday", OpenTime: "10:00", CloseTime: "22:00"},
			wantErr: "invalid day",
		},
		{
			name:    "bad clock",
			sched:   Schedule{Day: "Monday", OpenTime: "10am", CloseTime: "22:00"},
			wantErr: "open_time",
		},
		{
			name:    "open equals close",
			sched:   Schedule{Day: "Monday", OpenTime: "10:00", CloseTime: "10:00"},
			wantErr: "must be before",
		},
		{
			name: "break start without end",
			sched: Schedule{
				Day: "Monday", OpenTime: "10:00", CloseTime: "22:00",
				BreakStartTime: "13:00",
			},
			wantErr: "set together",
		},
		{
			name: "inverted break",
			sched: Schedule{
				Day: "Monday", OpenTime: "10:00", CloseTime: "22:00",
				BreakStartTime: "14:00", BreakEndTime: "13:00",
			},
			wantErr: "break_start_time",
		},
		{
			name: "break outside hours",
			sched: Schedule{
				Day: "Monday", OpenTime: "10:00", CloseTime: "22:00",
				BreakStartTime: "09:00", BreakEndTime: "11:00",
			},
			wantErr: "within operating hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sched.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
