package models

import "time"

// Order statuses.
const (
	StatusProcessing = "processing"
	StatusConfirmed  = "confirmed"
)

// DayFormat is the layout of a specific-date schedule key and of all
// date-only API parameters.
const DayFormat = "2006-01-02"

// ClockFormat is the layout of schedule time-of-day fields ("10:00").
const ClockFormat = "15:04"

// Table is a bookable restaurant table. Reference data: the booking core
// only ever reads it.
type Table struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	NumberOfSeats int       `json:"number_of_seats"`
	PricePerHour  float64   `json:"price_per_hour"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Schedule is the operating hours in force for one day key.
// Day is either a weekday name ("Monday".."Sunday") or an exact date
// "2006-01-02"; a date entry overrides the weekday template for that date.
// Times are "HH:MM" strings anchored onto a concrete date at resolution time.
type Schedule struct {
	ID             int64     `json:"id"`
	Day            string    `json:"day"`
	OpenTime       string    `json:"open_time"`
	CloseTime      string    `json:"close_time"`
	BreakStartTime string    `json:"break_start_time,omitempty"`
	BreakEndTime   string    `json:"break_end_time,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HasBreak reports whether both break bounds are set.
func (s *Schedule) HasBreak() bool {
	return s.BreakStartTime != "" && s.BreakEndTime != ""
}

// IsDateKey reports whether Day is a specific-date key rather than a
// weekday name.
func (s *Schedule) IsDateKey() bool {
	_, err := time.Parse(DayFormat, s.Day)
	return err == nil
}

// Order is a reservation of one or more tables for a contiguous time range
// on one calendar day.
type Order struct {
	ID            int64     `json:"id"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	Status        string    `json:"status"`
	Cost          float64   `json:"cost"`
	UserID        int64     `json:"user_id"`
	Tables        []Table   `json:"tables"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Range returns the order's time range.
func (o *Order) Range() TimeRange {
	return TimeRange{Start: o.StartDatetime, End: o.EndDatetime}
}

// TableIDs returns the ids of the order's tables in stored order.
func (o *Order) TableIDs() []int64 {
	ids := make([]int64, 0, len(o.Tables))
	for _, t := range o.Tables {
		ids = append(ids, t.ID)
	}
	return ids
}

// HasTable reports whether the order currently includes the table.
func (o *Order) HasTable(id int64) bool {
	for _, t := range o.Tables {
		if t.ID == id {
			return true
		}
	}
	return false
}

// User is a client or administrator account. Only identity and the
// privileged bit matter here; credentials live outside this service.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WeekdayName returns the English weekday name used as a Schedule day key.
func WeekdayName(date time.Time) string {
	return date.Weekday().String()
}
