package models

import (
	"fmt"
	"time"
)

// Validate checks a schedule before it is stored, so the resolver can
// trust every row it reads: a recognizable day key, parseable clocks,
// open strictly before close, and a break (when present) with both
// bounds set, ordered, and inside operating hours.
func (s *Schedule) Validate() error {
	if !s.IsDateKey() && !isWeekdayName(s.Day) {
		return fmt.Errorf("invalid day %q: expected a weekday name or a %s date", s.Day, DayFormat)
	}

	openAt, err := parseClock(s.OpenTime)
	if err != nil {
		return fmt.Errorf("open_time: %w", err)
	}
	closeAt, err := parseClock(s.CloseTime)
	if err != nil {
		return fmt.Errorf("close_time: %w", err)
	}
	if !openAt.Before(closeAt) {
		return fmt.Errorf("open_time %s must be before close_time %s", s.OpenTime, s.CloseTime)
	}

	if (s.BreakStartTime == "") != (s.BreakEndTime == "") {
		return fmt.Errorf("break bounds must be set together")
	}
	if !s.HasBreak() {
		return nil
	}

	breakStart, err := parseClock(s.BreakStartTime)
	if err != nil {
		return fmt.Errorf("break_start_time: %w", err)
	}
	breakEnd, err := parseClock(s.BreakEndTime)
	if err != nil {
		return fmt.Errorf("break_end_time: %w", err)
	}
	if !breakStart.Before(breakEnd) {
		return fmt.Errorf("break_start_time %s must be before break_end_time %s",
			s.BreakStartTime, s.BreakEndTime)
	}
	if breakStart.Before(openAt) || breakEnd.After(closeAt) {
		return fmt.Errorf("break %s-%s must lie within operating hours %s-%s",
			s.BreakStartTime, s.BreakEndTime, s.OpenTime, s.CloseTime)
	}
	return nil
}

func parseClock(clock string) (time.Time, error) {
	t, err := time.Parse(ClockFormat, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	return t, nil
}

func isWeekdayName(day string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if day == d.String() {
			return true
		}
	}
	return false
}
