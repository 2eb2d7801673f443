package models

import (
	"fmt"
	"time"
)

// BoundaryTouchConflicts fixes the overlap policy for the whole service:
// time ranges are compared as closed intervals, so two ranges that merely
// touch at an endpoint (10:00-12:00 and 12:00-13:00) count as overlapping.
// Booking conflicts and break-window checks both use this policy.
const BoundaryTouchConflicts = true

// TimeRange is a time range on a single calendar day. Start must be
// strictly before End; construction enforces that.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeRange builds a TimeRange, rejecting empty or inverted ranges.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !start.Before(end) {
		return TimeRange{}, fmt.Errorf("invalid time range: start %s is not before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeRange{Start: start, End: end}, nil
}

// Contains reports whether other lies entirely within r, boundaries
// included: other may start at r.Start and end at r.End.
func (r TimeRange) Contains(other TimeRange) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// ContainsInstant reports whether t lies within r, boundaries included.
func (r TimeRange) ContainsInstant(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Overlaps reports whether the two ranges share any instant under the
// closed-interval policy: touching endpoints conflict.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Duration returns End minus Start.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// SameDay reports whether both endpoints fall on the same calendar date.
func (r TimeRange) SameDay() bool {
	sy, sm, sd := r.Start.Date()
	ey, em, ed := r.End.Date()
	return sy == ey && sm == em && sd == ed
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%s - %s", r.Start.Format("2006-01-02 15:04"), r.End.Format("15:04"))
}

// ClockRangeOnDate anchors two "HH:MM" strings onto date's calendar day.
// Used to turn schedule open/close and break times into concrete ranges.
func ClockRangeOnDate(date time.Time, startClock, endClock string) (TimeRange, error) {
	start, err := parseClockOnDate(date, startClock)
	if err != nil {
		return TimeRange{}, fmt.Errorf("parse start time: %w", err)
	}
	end, err := parseClockOnDate(date, endClock)
	if err != nil {
		return TimeRange{}, fmt.Errorf("parse end time: %w", err)
	}
	return NewTimeRange(start, end)
}

func parseClockOnDate(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(ClockFormat, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
