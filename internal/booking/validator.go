package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"stolik/internal/models"
)

// State names the steps of a single validation run. Each run walks
// Start -> FormatChecked -> WithinSchedule -> TablesAvailable -> Accepted,
// or drops into Rejected from any step.
type State string

const (
	StateStart           State = "start"
	StateFormatChecked   State = "format_checked"
	StateWithinSchedule  State = "within_schedule"
	StateTablesAvailable State = "tables_available"
	StateAccepted        State = "accepted"
	StateRejected        State = "rejected"
)

// Validator orchestrates the booking checks for create and patch requests.
// It performs no persistence writes; on success it returns a fully computed
// candidate order for the caller to persist atomically. Correctness under
// concurrency requires the caller to run "read existing orders, validate,
// write" inside one transaction serialized per date and table; see the
// database package.
type Validator struct {
	resolver   *ScheduleResolver
	checker    *AvailabilityChecker
	reconciler *TableReconciler
	log        zerolog.Logger
}

// NewValidator wires the validation core over its collaborator sources.
func NewValidator(schedules ScheduleSource, orders OrderSource, tables TableSource, logger zerolog.Logger) *Validator {
	return &Validator{
		resolver:   NewScheduleResolver(schedules, logger),
		checker:    NewAvailabilityChecker(orders),
		reconciler: NewTableReconciler(tables),
		log:        logger.With().Str("component", "booking_validator").Logger(),
	}
}

// CreateRequest is a fully specified new booking.
type CreateRequest struct {
	Start    time.Time
	End      time.Time
	Status   string
	UserID   int64
	TableIDs []int64
}

// PatchRequest is a partial update. Nil pointer fields and empty slices are
// "leave unchanged". Table membership is only mutable through AddTables and
// DeleteTables; a raw Tables field is a fatal input-shape error.
type PatchRequest struct {
	Start        *time.Time
	End          *time.Time
	Status       *string
	Cost         *float64
	UserID       *int64
	Tables       []int64
	AddTables    []int64
	DeleteTables []int64
}

func (p *PatchRequest) isEmpty() bool {
	return p.Start == nil && p.End == nil && p.Status == nil &&
		p.Cost == nil && p.UserID == nil &&
		len(p.AddTables) == 0 && len(p.DeleteTables) == 0
}

// run tracks one validation pass through the state machine.
type run struct {
	op    string
	state State
	log   zerolog.Logger
}

func (v *Validator) newRun(op string) *run {
	return &run{op: op, state: StateStart, log: v.log}
}

func (r *run) advance(next State) {
	r.log.Debug().
		Str("op", r.op).
		Str("from", string(r.state)).
		Str("to", string(next)).
		Msg("validation transition")
	r.state = next
}

func (r *run) rejected(rej *Rejection) *Rejection {
	r.log.Debug().
		Str("op", r.op).
		Str("from", string(r.state)).
		Str("kind", string(rej.Kind)).
		Msg("validation rejected")
	r.state = StateRejected
	return rej
}

// ValidateCreate checks a new booking and returns the candidate order with
// its cost computed and table ids resolved to table records.
func (v *Validator) ValidateCreate(ctx context.Context, req CreateRequest) (*models.Order, error) {
	r := v.newRun("create")

	rng, rej := checkTimes(req.Start, req.End)
	if rej != nil {
		return nil, r.rejected(rej)
	}
	r.advance(StateFormatChecked)

	if err := v.checkSchedule(ctx, r, rng); err != nil {
		return nil, err
	}
	r.advance(StateWithinSchedule)

	if len(req.TableIDs) == 0 {
		return nil, r.rejected(reject(KindMissingTables, "at least one table is required"))
	}
	conflicts, err := v.checker.ConflictingTables(ctx, rng, req.TableIDs, 0)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, r.rejected(busyTime(conflicts))
	}
	r.advance(StateTablesAvailable)

	tables, err := v.reconciler.ResolveTables(ctx, req.TableIDs)
	if err != nil {
		if rej, ok := AsRejection(err); ok {
			return nil, r.rejected(rej)
		}
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusProcessing
	}
	r.advance(StateAccepted)

	return &models.Order{
		StartDatetime: rng.Start,
		EndDatetime:   rng.End,
		Status:        status,
		Cost:          CalculateCost(rng, tables),
		UserID:        req.UserID,
		Tables:        tables,
	}, nil
}

// ValidatePatch merges req over existing, re-runs the create checks on the
// merged candidate and returns it. The order being patched is excluded from
// its own conflict check. The final table list and interval feed the cost
// recomputation; an explicit Cost override (privileged callers only, the
// API strips it otherwise) wins.
func (v *Validator) ValidatePatch(ctx context.Context, existing *models.Order, req PatchRequest) (*models.Order, error) {
	r := v.newRun("patch")

	if req.Tables != nil {
		return nil, r.rejected(reject(KindMalformedPatchShape,
			"'tables' is not patchable; use 'add_tables' and 'delete_tables'"))
	}
	if req.isEmpty() {
		return nil, r.rejected(reject(KindEmptyPatch, "no fields to update"))
	}

	start := existing.StartDatetime
	if req.Start != nil {
		start = *req.Start
	}
	end := existing.EndDatetime
	if req.End != nil {
		end = *req.End
	}
	rng, rej := checkTimes(start, end)
	if rej != nil {
		return nil, r.rejected(rej)
	}
	r.advance(StateFormatChecked)

	if err := v.checkSchedule(ctx, r, rng); err != nil {
		return nil, err
	}
	r.advance(StateWithinSchedule)

	if len(req.AddTables) > 0 {
		conflicts, err := v.checker.ConflictingTables(ctx, rng, req.AddTables, existing.ID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, r.rejected(busyTime(conflicts))
		}
	}
	r.advance(StateTablesAvailable)

	tables, err := v.reconciler.Apply(ctx, existing.Tables, req.AddTables, req.DeleteTables)
	if err != nil {
		if rej, ok := AsRejection(err); ok {
			return nil, r.rejected(rej)
		}
		return nil, err
	}

	// A moved interval must be re-checked against every table the order
	// ends up holding, or the patch could silently double-book.
	if req.Start != nil || req.End != nil {
		ids := make([]int64, 0, len(tables))
		for _, t := range tables {
			ids = append(ids, t.ID)
		}
		conflicts, err := v.checker.ConflictingTables(ctx, rng, ids, existing.ID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, r.rejected(busyTime(conflicts))
		}
	}

	candidate := *existing
	candidate.StartDatetime = rng.Start
	candidate.EndDatetime = rng.End
	candidate.Tables = tables
	if req.Status != nil {
		candidate.Status = *req.Status
	}
	if req.UserID != nil {
		candidate.UserID = *req.UserID
	}
	if req.Cost != nil {
		candidate.Cost = *req.Cost
	} else {
		candidate.Cost = CalculateCost(rng, tables)
	}
	r.advance(StateAccepted)

	return &candidate, nil
}

// checkTimes enforces the field-format invariants: start and end must
// differ, run forward and fall on one calendar date.
func checkTimes(start, end time.Time) (models.TimeRange, *Rejection) {
	if end.Equal(start) {
		return models.TimeRange{}, reject(KindEqualTimes,
			"'start_datetime' and 'end_datetime' cannot be equal")
	}
	if end.Before(start) {
		return models.TimeRange{}, reject(KindEndBeforeStart,
			"'end_datetime' cannot be before 'start_datetime'")
	}
	rng := models.TimeRange{Start: start, End: end}
	if !rng.SameDay() {
		return models.TimeRange{}, reject(KindCrossDayBooking,
			"'start_datetime' and 'end_datetime' must fall on the same day")
	}
	return rng, nil
}

// checkSchedule verifies the proposed range against the day's operating
// hours: it must not overlap the break window (closed-interval policy, so
// touching the break boundary is a conflict) and must lie entirely within
// open and close.
func (v *Validator) checkSchedule(ctx context.Context, r *run, rng models.TimeRange) error {
	sched, err := v.resolver.Resolve(ctx, rng.Start)
	if err != nil {
		return err
	}

	openHours, err := models.ClockRangeOnDate(rng.Start, sched.OpenTime, sched.CloseTime)
	if err != nil {
		return err
	}

	if sched.HasBreak() {
		breakWindow, err := models.ClockRangeOnDate(rng.Start, sched.BreakStartTime, sched.BreakEndTime)
		if err != nil {
			return err
		}
		if rng.Overlaps(breakWindow) {
			return r.rejected(reject(KindBookingInsideBreak,
				"requested time overlaps the break %s", breakWindow))
		}
	}

	if !openHours.Contains(rng) {
		return r.rejected(reject(KindOutsideOperatingHours,
			"requested time is outside the operating hours %s", openHours))
	}
	return nil
}

func busyTime(tableIDs []int64) *Rejection {
	return &Rejection{
		Kind:                KindBusyTime,
		Message:             "tables are busy at the requested time",
		ConflictingTableIDs: tableIDs,
	}
}
