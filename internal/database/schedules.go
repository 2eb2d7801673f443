package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stolik/internal/models"
)

// Default weekly template applied by EnsureDefaultSchedules.
var DefaultScheduleHours = struct {
	OpenTime  string
	CloseTime string
}{
	OpenTime:  "10:00",
	CloseTime: "22:00",
}

// EnsureDefaultSchedules creates a weekday schedule row for every day of
// the week that lacks one. The resolver treats a missing weekday row as a
// data integrity error, so fresh deployments seed the full week.
func (db *DB) EnsureDefaultSchedules(ctx context.Context) error {
	for d := time.Sunday; d <= time.Saturday; d++ {
		day := d.String()
		existing, err := db.FindSchedulesByDay(ctx, day)
		if err != nil {
			return fmt.Errorf("check schedule for %s: %w", day, err)
		}
		if len(existing) > 0 {
			continue
		}
		sched := &models.Schedule{
			Day:       day,
			OpenTime:  DefaultScheduleHours.OpenTime,
			CloseTime: DefaultScheduleHours.CloseTime,
		}
		if _, err := db.CreateSchedule(ctx, sched); err != nil {
			return fmt.Errorf("create schedule for %s: %w", day, err)
		}
	}
	return nil
}

// CreateSchedule inserts a schedule row and returns its id. The day key is
// unique; a second row for the same key fails at the constraint.
func (db *DB) CreateSchedule(ctx context.Context, s *models.Schedule) (int64, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO schedules (day, open_time, close_time, break_start_time, break_end_time)
		VALUES (?, ?, ?, ?, ?)`,
		s.Day, s.OpenTime, s.CloseTime, nullIfEmpty(s.BreakStartTime), nullIfEmpty(s.BreakEndTime),
	)
	if err != nil {
		return 0, fmt.Errorf("insert schedule %q: %w", s.Day, err)
	}
	return res.LastInsertId()
}

// GetSchedule returns the schedule with the given id, or models.ErrNotFound.
func (db *DB) GetSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, day, open_time, close_time, break_start_time, break_end_time, created_at, updated_at
		FROM schedules WHERE id = ?`, id)
	s, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule %d: %w", id, models.ErrNotFound)
	}
	return s, err
}

// FindSchedulesByDay implements booking.ScheduleSource: all rows for a day
// key, weekday name or exact date. The resolver owns deciding how many rows
// are acceptable.
func (db *DB) FindSchedulesByDay(ctx context.Context, day string) ([]models.Schedule, error) {
	return findSchedulesByDay(ctx, db.DB, day)
}

// FindSchedulesByDay implements booking.ScheduleSource inside a transaction.
func (t *Tx) FindSchedulesByDay(ctx context.Context, day string) ([]models.Schedule, error) {
	return findSchedulesByDay(ctx, t.tx, day)
}

func findSchedulesByDay(ctx context.Context, r runner, day string) ([]models.Schedule, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT id, day, open_time, close_time, break_start_time, break_end_time, created_at, updated_at
		FROM schedules WHERE day = ? ORDER BY id`, day)
	if err != nil {
		return nil, fmt.Errorf("query schedules for %q: %w", day, err)
	}
	defer rows.Close()

	var schedules []models.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

// ListSchedules returns all schedule rows ordered by id.
func (db *DB) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, day, open_time, close_time, break_start_time, break_end_time, created_at, updated_at
		FROM schedules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

// UpdateSchedule rewrites a schedule row.
func (db *DB) UpdateSchedule(ctx context.Context, s *models.Schedule) error {
	res, err := db.ExecContext(ctx, `
		UPDATE schedules
		SET day = ?, open_time = ?, close_time = ?, break_start_time = ?, break_end_time = ?, updated_at = ?
		WHERE id = ?`,
		s.Day, s.OpenTime, s.CloseTime, nullIfEmpty(s.BreakStartTime), nullIfEmpty(s.BreakEndTime),
		time.Now(), s.ID,
	)
	if err != nil {
		return fmt.Errorf("update schedule %d: %w", s.ID, err)
	}
	return requireRow(res, s.ID)
}

// DeleteSchedule removes a schedule row.
func (db *DB) DeleteSchedule(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete schedule %d: %w", id, err)
	}
	return requireRow(res, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*models.Schedule, error) {
	var s models.Schedule
	var breakStart, breakEnd sql.NullString
	err := row.Scan(&s.ID, &s.Day, &s.OpenTime, &s.CloseTime,
		&breakStart, &breakEnd, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.BreakStartTime = breakStart.String
	s.BreakEndTime = breakEnd.String
	return &s, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
