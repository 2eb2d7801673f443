package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"stolik/internal/models"
)

// ScheduleResolver finds the one schedule in force for a calendar date:
// a specific-date override (holiday, special hours) wins over the weekly
// template keyed by weekday name.
type ScheduleResolver struct {
	src ScheduleSource
	log zerolog.Logger
}

// NewScheduleResolver creates a resolver over the given schedule source.
func NewScheduleResolver(src ScheduleSource, logger zerolog.Logger) *ScheduleResolver {
	return &ScheduleResolver{
		src: src,
		log: logger.With().Str("component", "schedule_resolver").Logger(),
	}
}

// Resolve returns the schedule applicable to date. Duplicate day keys and a
// missing weekday template are data integrity violations, logged with full
// context and reported as operator-facing errors.
func (r *ScheduleResolver) Resolve(ctx context.Context, date time.Time) (*models.Schedule, error) {
	dateKey := date.Format(models.DayFormat)

	byDate, err := r.src.FindSchedulesByDay(ctx, dateKey)
	if err != nil {
		return nil, fmt.Errorf("find schedules for date %s: %w", dateKey, err)
	}
	if len(byDate) > 1 {
		r.log.Error().
			Str("day", dateKey).
			Int("count", len(byDate)).
			Msg("several schedules share a specific date; check the database")
		return nil, fmt.Errorf("date %s has %d schedules: %w", dateKey, len(byDate), ErrScheduleConflict)
	}
	if len(byDate) == 1 {
		return &byDate[0], nil
	}

	weekday := models.WeekdayName(date)
	byWeekday, err := r.src.FindSchedulesByDay(ctx, weekday)
	if err != nil {
		return nil, fmt.Errorf("find schedules for weekday %s: %w", weekday, err)
	}
	switch {
	case len(byWeekday) == 0:
		r.log.Error().
			Str("day", weekday).
			Msg("no schedule for weekday; schedules must be seeded first")
		return nil, fmt.Errorf("weekday %s: %w", weekday, ErrScheduleMissing)
	case len(byWeekday) > 1:
		r.log.Error().
			Str("day", weekday).
			Int("count", len(byWeekday)).
			Msg("several schedules share a weekday; check the database")
		return nil, fmt.Errorf("weekday %s has %d schedules: %w", weekday, len(byWeekday), ErrScheduleConflict)
	}
	return &byWeekday[0], nil
}
