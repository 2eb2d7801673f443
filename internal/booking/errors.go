// Package booking implements the reservation validation core: schedule
// resolution, availability checking, cost calculation and table-set
// reconciliation. It holds no state of its own and performs no writes;
// callers persist the validated candidate it returns.
package booking

import (
	"errors"
	"fmt"
)

// Kind tags a client-facing rejection. Every kind maps to a 400-class
// response at the API boundary.
type Kind string

const (
	KindEqualTimes            Kind = "equal_times"
	KindEndBeforeStart        Kind = "end_before_start"
	KindCrossDayBooking       Kind = "cross_day_booking"
	KindOutsideOperatingHours Kind = "outside_operating_hours"
	KindBookingInsideBreak    Kind = "booking_inside_break"
	KindBusyTime              Kind = "busy_time"
	KindMalformedPatchShape   Kind = "malformed_patch_shape"
	KindEmptyPatch            Kind = "empty_patch"
	KindMissingTables         Kind = "missing_tables"
	KindTableNotFound         Kind = "table_not_found"
)

// Rejection is a typed refusal of a create or patch request. It is a value,
// not a panic: the validator returns it synchronously and never retries.
type Rejection struct {
	Kind    Kind
	Message string
	// ConflictingTableIDs is set for KindBusyTime so the caller knows
	// exactly which tables to drop or which time to pick.
	ConflictingTableIDs []int64
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Kind, r.Message)
}

func reject(kind Kind, format string, args ...any) *Rejection {
	return &Rejection{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsRejection unwraps err into a Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// Operator-facing data integrity errors. These indicate a misconfigured
// schedule table, not a bad request, and map to 500-class responses.
var (
	// ErrScheduleConflict: more than one schedule row shares a day key.
	ErrScheduleConflict = errors.New("duplicate schedule for day")
	// ErrScheduleMissing: no weekday schedule exists for the requested day.
	ErrScheduleMissing = errors.New("weekday schedule missing")
)
